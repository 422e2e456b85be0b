package domain

import (
	"fmt"
	"time"

	"github.com/ucontacts/contacts_app/internal/apperrors"
)

// monthDay is a calendar date with the year dropped.
type monthDay struct {
	month time.Month
	day   int
}

func monthDayOf(t time.Time) monthDay {
	return monthDay{month: t.Month(), day: t.Day()}
}

// before reports whether m is strictly earlier in the calendar year than other.
func (m monthDay) before(other monthDay) bool {
	if m.month != other.month {
		return m.month < other.month
	}
	return m.day < other.day
}

func (m monthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(m.month), m.day)
}

// BirthdayWindow is the inclusive interval [start, start+windowDays] compared by
// month and day only. The window wraps when its end falls in the calendar year
// after its start (e.g. Dec 30 + 5 days ends Jan 4).
type BirthdayWindow struct {
	start monthDay
	end   monthDay
	wraps bool
}

// NewBirthdayWindow derives a window from a start instant and a day count.
// windowDays must be >= 0; zero degenerates to an exact month-day match.
func NewBirthdayWindow(today time.Time, windowDays int) (BirthdayWindow, error) {
	if windowDays < 0 {
		return BirthdayWindow{}, fmt.Errorf("window days must be non-negative, got %d: %w", windowDays, apperrors.ErrValidation)
	}
	end := today.AddDate(0, 0, windowDays)
	return BirthdayWindow{
		start: monthDayOf(today),
		end:   monthDayOf(end),
		// Matches the store predicate: the window is treated as wrapping only
		// when the end month precedes the start month.
		wraps: today.Month() > end.Month(),
	}, nil
}

// Wraps reports whether the window spans a year boundary.
func (w BirthdayWindow) Wraps() bool {
	return w.wraps
}

// StartMMDD returns the zero-padded "MM-DD" form of the window start.
// Fixed-width padding is what makes lexicographic comparison in SQL valid.
func (w BirthdayWindow) StartMMDD() string {
	return w.start.String()
}

// EndMMDD returns the zero-padded "MM-DD" form of the window end.
func (w BirthdayWindow) EndMMDD() string {
	return w.end.String()
}

// Contains reports whether t's month and day fall inside the window.
// A wrapping window matches the trailing part of the old year or the leading
// part of the new one; a non-wrapping window requires both bounds.
func (w BirthdayWindow) Contains(t time.Time) bool {
	d := monthDayOf(t)
	afterStart := !d.before(w.start)
	beforeEnd := !w.end.before(d)
	if w.wraps {
		return afterStart || beforeEnd
	}
	return afterStart && beforeEnd
}
