package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTimeSlot(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Zulu", "2025-01-01T10:00:00Z", "2025-01-01T10:00:00Z"},
		{"Fractional seconds", "2025-01-01T10:00:00.123456Z", "2025-01-01T10:00:00Z"},
		{"Offset", "2025-01-01T17:00:00+07:00", "2025-01-01T10:00:00Z"},
		{"Zero offset", "2025-01-01T10:00:00+00:00", "2025-01-01T10:00:00Z"},
		{"No zone", "2025-01-01T10:00:00", "2025-01-01T10:00:00Z"},
		{"No zone with millis", "2025-01-01T10:00:00.500", "2025-01-01T10:00:00Z"},
		{"Minute precision", "2025-01-01T10:00", "2025-01-01T10:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, normalized, err := NormalizeTimeSlot(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, normalized)
			assert.Equal(t, time.UTC, parsed.Location())
		})
	}

	t.Run("Rejects garbage", func(t *testing.T) {
		_, _, err := NormalizeTimeSlot("tomorrow morning")
		assert.Error(t, err)
	})
}

func TestAgeFromBirthDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	age, ok := AgeFromBirthDate("1990-12-31", now)
	assert.True(t, ok)
	assert.Equal(t, 35, age)

	_, ok = AgeFromBirthDate("", now)
	assert.False(t, ok)

	_, ok = AgeFromBirthDate("31/12/1990", now)
	assert.False(t, ok)

	_, ok = AgeFromBirthDate("2030-01-01", now)
	assert.False(t, ok)
}
