package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ucontacts/contacts_app/internal/apperrors"
	"github.com/ucontacts/contacts_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewBirthdayWindow_RejectsNegativeDays(t *testing.T) {
	_, err := domain.NewBirthdayWindow(date(2024, time.March, 1), -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestBirthdayWindow_Bounds(t *testing.T) {
	w, err := domain.NewBirthdayWindow(date(2024, time.March, 1), 10)
	require.NoError(t, err)

	assert.Equal(t, "03-01", w.StartMMDD())
	assert.Equal(t, "03-11", w.EndMMDD())
	assert.False(t, w.Wraps())

	// Boundary inclusivity on both ends; year on the probe is irrelevant.
	assert.True(t, w.Contains(date(1990, time.March, 1)))
	assert.True(t, w.Contains(date(1975, time.March, 11)))
	assert.True(t, w.Contains(date(2001, time.March, 5)))
	assert.False(t, w.Contains(date(1988, time.March, 12)))
	assert.False(t, w.Contains(date(1988, time.February, 28)))
}

func TestBirthdayWindow_ZeroDaysIsExactMatch(t *testing.T) {
	w, err := domain.NewBirthdayWindow(date(2024, time.July, 15), 0)
	require.NoError(t, err)

	assert.Equal(t, w.StartMMDD(), w.EndMMDD())
	assert.True(t, w.Contains(date(1969, time.July, 15)))
	assert.False(t, w.Contains(date(1969, time.July, 14)))
	assert.False(t, w.Contains(date(1969, time.July, 16)))
}

func TestBirthdayWindow_YearBoundaryWrap(t *testing.T) {
	w, err := domain.NewBirthdayWindow(date(2024, time.December, 30), 5)
	require.NoError(t, err)

	assert.True(t, w.Wraps())
	assert.Equal(t, "12-30", w.StartMMDD())
	assert.Equal(t, "01-04", w.EndMMDD())

	assert.True(t, w.Contains(date(1990, time.January, 2)))
	assert.True(t, w.Contains(date(1990, time.December, 31)))
	assert.False(t, w.Contains(date(1990, time.June, 15)))
	assert.False(t, w.Contains(date(1990, time.January, 5)))
}

func TestBirthdayWindow_DecemberScenario(t *testing.T) {
	// today = 2024-12-29, 7 days -> end = 2025-01-05
	w, err := domain.NewBirthdayWindow(date(2024, time.December, 29), 7)
	require.NoError(t, err)

	assert.True(t, w.Wraps())
	assert.Equal(t, "01-05", w.EndMMDD())

	assert.True(t, w.Contains(date(1980, time.December, 29))) // exact today
	assert.True(t, w.Contains(date(1980, time.December, 30)))
	assert.True(t, w.Contains(date(1980, time.January, 1)))
	assert.True(t, w.Contains(date(1980, time.January, 5)))
	assert.False(t, w.Contains(date(1980, time.January, 6)))
}

func TestBirthdayWindow_LeapDay(t *testing.T) {
	w, err := domain.NewBirthdayWindow(date(2023, time.February, 25), 7)
	require.NoError(t, err)

	// "02-29" sorts between "02-28" and "03-01", so a Feb 29 birthday matches
	// windows covering the end of February regardless of the current year.
	assert.True(t, w.Contains(date(2000, time.February, 29)))
}
