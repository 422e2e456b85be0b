package services

import (
	"context"

	"github.com/ucontacts/contacts_app/internal/core/domain"
	"github.com/ucontacts/contacts_app/internal/dto"
)

// ContactReaderSvc defines the read side of contact management.
// List-shaped reads go through the result cache with fixed TTLs; the cache is
// consulted before the store and repopulated after a miss.
type ContactReaderSvc interface {
	// ListContacts returns a filtered, paginated list of the user's contacts.
	ListContacts(ctx context.Context, userID string, filter string, skip, limit int) ([]domain.Contact, error)

	// GetContactByID returns a single owned contact.
	GetContactByID(ctx context.Context, contactID int64, userID string) (*domain.Contact, error)

	// UpcomingBirthdays returns the user's contacts whose birthday month-day
	// falls within [today, today+windowDays], UTC, year ignored.
	// windowDays < 0 is rejected with apperrors.ErrValidation.
	UpcomingBirthdays(ctx context.Context, userID string, skip, limit, windowDays int) ([]domain.Contact, error)
}

// ContactWriterSvc defines the mutation side of contact management.
// Mutations do not invalidate cached reads; entries simply expire.
type ContactWriterSvc interface {
	CreateContact(ctx context.Context, userID string, req dto.ContactRequest) (*domain.Contact, error)
	UpdateContact(ctx context.Context, contactID int64, userID string, req dto.ContactRequest) (*domain.Contact, error)
	DeleteContact(ctx context.Context, contactID int64, userID string) (*domain.Contact, error)
}

// ContactSvcFacade combines contact service interfaces.
type ContactSvcFacade interface {
	ContactReaderSvc
	ContactWriterSvc
}
