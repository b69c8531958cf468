package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArticle_ZeroValue(t *testing.T) {
	var a Article

	assert.Zero(t, a.ID)
	assert.Empty(t, a.Slug)
	assert.False(t, a.HasImage())
	assert.True(t, a.PublicationDate.IsZero())
}

func TestArticle_HasImage(t *testing.T) {
	a := &Article{Image: "news_images/1_cover.jpg"}
	assert.True(t, a.HasImage())
}

func TestArticle_Touch(t *testing.T) {
	pub := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("moves forward", func(t *testing.T) {
		a := &Article{PublicationDate: pub, UpdatedAt: pub}
		later := pub.Add(time.Hour)
		a.Touch(later)
		assert.Equal(t, later, a.UpdatedAt)
		assert.Equal(t, pub, a.PublicationDate)
	})

	t.Run("never before publication date", func(t *testing.T) {
		a := &Article{PublicationDate: pub, UpdatedAt: pub}
		a.Touch(pub.Add(-time.Hour))
		assert.Equal(t, pub, a.UpdatedAt)
	})
}
