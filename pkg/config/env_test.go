package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("NEWS_TEST_STRING", "value")
	assert.Equal(t, "value", GetEnvString("NEWS_TEST_STRING", "default"))

	t.Setenv("NEWS_TEST_STRING", "")
	assert.Equal(t, "default", GetEnvString("NEWS_TEST_STRING", "default"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{value: "", want: 7},
		{value: "42", want: 42},
		{value: " 42 ", want: 42},
		{value: "-3", want: -3},
		{value: "abc", want: 7},
		{value: "12abc", want: 7},
		{value: "1.5", want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("NEWS_TEST_INT", tt.value)
			assert.Equal(t, tt.want, GetEnvInt("NEWS_TEST_INT", 7))
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{value: "", def: true, want: true},
		{value: "true", def: false, want: true},
		{value: "1", def: false, want: true},
		{value: "FALSE", def: true, want: false},
		{value: "0", def: true, want: false},
		{value: "yes", def: true, want: true},
		{value: "yes", def: false, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("NEWS_TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, GetEnvBool("NEWS_TEST_BOOL", tt.def))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("NEWS_TEST_DURATION", "1m30s")
	assert.Equal(t, 90*time.Second, GetEnvDuration("NEWS_TEST_DURATION", time.Second))

	t.Setenv("NEWS_TEST_DURATION", "soon")
	assert.Equal(t, time.Second, GetEnvDuration("NEWS_TEST_DURATION", time.Second))
}

func TestGetEnvStringList(t *testing.T) {
	t.Setenv("NEWS_TEST_LIST", " a, b ,,c ")
	assert.Equal(t, []string{"a", "b", "c"}, GetEnvStringList("NEWS_TEST_LIST", nil))

	t.Setenv("NEWS_TEST_LIST", " , ")
	assert.Equal(t, []string{"x"}, GetEnvStringList("NEWS_TEST_LIST", []string{"x"}))
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Second))
	assert.Error(t, ValidatePositiveDuration(0))

	assert.NoError(t, ValidateDurationRange(time.Minute, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(time.Millisecond, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(2*time.Hour, time.Second, time.Hour))
	assert.Error(t, ValidateDurationRange(time.Minute, time.Hour, time.Second))
}
