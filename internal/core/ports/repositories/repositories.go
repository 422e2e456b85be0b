package repositories

import (
	"context"
	"time"

	"github.com/ucontacts/contacts_app/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error
	MarkEmailVerified(ctx context.Context, email string) error
	UpdateAvatarURL(ctx context.Context, userID string, avatarURL string) error
	UpdatePasswordHash(ctx context.Context, email string, passwordHash string) error
}

// ContactRepository defines persistence operations for contacts.
// All reads and writes are scoped to the owning user.
type ContactRepository interface {
	// SaveContact inserts the contact and fills in its generated ContactID.
	SaveContact(ctx context.Context, contact *domain.Contact) error

	FindContactByID(ctx context.Context, contactID int64, userID string) (*domain.Contact, error)
	FindContactByEmail(ctx context.Context, email string, userID string) (*domain.Contact, error)
	// FindContactByEmailExcluding looks up a contact by email while ignoring
	// contactID, used for uniqueness checks during updates.
	FindContactByEmailExcluding(ctx context.Context, email string, contactID int64, userID string) (*domain.Contact, error)

	// FindContacts returns a filtered, paginated list ordered by contact ID.
	// The filter string uses the field__op=value DSL; an unknown field or
	// operator yields apperrors.ErrValidation.
	FindContacts(ctx context.Context, userID string, filter string, skip, limit int) ([]domain.Contact, error)

	// FindContactsWithUpcomingBirthday returns contacts whose birthday
	// month-day falls inside the window, ordered by contact ID.
	FindContactsWithUpcomingBirthday(ctx context.Context, userID string, window domain.BirthdayWindow, skip, limit int) ([]domain.Contact, error)

	UpdateContact(ctx context.Context, contact domain.Contact) error
	DeleteContact(ctx context.Context, contactID int64, userID string) error
}

// RepositoryProvider bundles all repositories for service wiring.
type RepositoryProvider struct {
	UserRepo    UserRepository
	ContactRepo ContactRepository
}
