package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{schedule: "30 5 * * *"},
		{schedule: "*/15 * * * *"},
		{schedule: "@every 1m"},
		{schedule: "@daily"},
		{schedule: "", wantErr: true},
		{schedule: "* * *", wantErr: true},
		{schedule: "0 0 0 * * *", wantErr: true}, // 秒フィールドは不可
		{schedule: "61 * * * *", wantErr: true},
		{schedule: "@every nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseCronSchedule(t *testing.T) {
	sched, err := ParseCronSchedule("@every 1m")
	require.NoError(t, err)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, from.Add(time.Minute), sched.Next(from))

	_, err = ParseCronSchedule("")
	assert.Error(t, err)
}

func TestValidateTimezone(t *testing.T) {
	assert.NoError(t, ValidateTimezone("UTC"))
	assert.NoError(t, ValidateTimezone("Asia/Tokyo"))
	assert.Error(t, ValidateTimezone(""))
	assert.Error(t, ValidateTimezone("Mars/Olympus"))
}

func TestValidateDuration(t *testing.T) {
	tests := []struct {
		name     string
		d        time.Duration
		min, max time.Duration
		wantErr  bool
	}{
		{name: "inside", d: time.Minute, min: time.Second, max: time.Hour},
		{name: "at min", d: time.Second, min: time.Second, max: time.Hour},
		{name: "at max", d: time.Hour, min: time.Second, max: time.Hour},
		{name: "below", d: time.Millisecond, min: time.Second, max: time.Hour, wantErr: true},
		{name: "above", d: 2 * time.Hour, min: time.Second, max: time.Hour, wantErr: true},
		{name: "inverted range", d: time.Minute, min: time.Hour, max: time.Second, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDuration(tt.d, tt.min, tt.max)
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}
