package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowCutoff_NonPositiveUsesSharedDefault(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	want := now.AddDate(0, 0, -DefaultWindowDays)

	assert.Equal(t, want, WindowCutoff(now, 0))
	assert.Equal(t, want, WindowCutoff(now, -5))
}

func TestWindowCutoff_ExplicitWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.AddDate(0, 0, -7), WindowCutoff(now, 7))
}

func TestParseDate(t *testing.T) {
	day, err := ParseDate("2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), day)

	_, err = ParseDate("30/08/2026")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
