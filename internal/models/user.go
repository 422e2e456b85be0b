package models

import "database/sql"

// User is the database representation of a user account.
type User struct {
	UserID       string         `db:"user_id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	AvatarURL    sql.NullString `db:"avatar_url"`
	Role         string         `db:"role"`
	IsVerified   bool           `db:"is_verified"`
	AuditFields

	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
