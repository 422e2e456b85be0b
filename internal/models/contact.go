package models

import (
	"database/sql"
	"time"
)

// Contact is the database representation of a contact row.
type Contact struct {
	ContactID   int64          `db:"contact_id"`
	UserID      string         `db:"user_id"`
	FirstName   string         `db:"first_name"`
	LastName    string         `db:"last_name"`
	Email       string         `db:"email"`
	Phone       sql.NullString `db:"phone"`
	Birthday    sql.NullTime   `db:"birthday"`
	Description sql.NullString `db:"description"`
	AuditFields
}

// NullTimePtr converts a nullable timestamp to a *time.Time.
func NullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// NullStringPtr converts a nullable string to a *string.
func NullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// PtrNullTime converts a *time.Time to its nullable column form.
func PtrNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// PtrNullString converts a *string to its nullable column form.
func PtrNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
