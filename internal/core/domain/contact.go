package domain

import "time"

// Contact is an address-book entry owned by exactly one user.
// ContactID is a bigserial primary key, which doubles as the deterministic
// secondary sort key for offset/limit pagination.
type Contact struct {
	ContactID   int64      `json:"contactID"`
	UserID      string     `json:"userID"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone,omitempty"`
	Birthday    *time.Time `json:"birthday,omitempty"`
	Description *string    `json:"description,omitempty"`
	AuditFields
}
