package services

import (
	"context"
	"time"

	"github.com/ucontacts/contacts_app/internal/core/domain"
	"github.com/ucontacts/contacts_app/internal/dto"
)

// UserReaderSvc defines read operations for user data.
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data.
type UserWriterSvc interface {
	// RegisterUser creates a new account with a hashed password and a
	// gravatar-derived default avatar, and dispatches the verification mail.
	RegisterUser(ctx context.Context, req dto.RegisterRequest, verifyBaseURL string) (*domain.User, error)

	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error
	ConfirmEmail(ctx context.Context, email string) error
	UpdateAvatarURL(ctx context.Context, userID string, avatarURL string) (*domain.User, error)
	UpdatePassword(ctx context.Context, email string, newPassword string) error
}

// UserAuthSvc defines credential checks and OAuth user provisioning.
type UserAuthSvc interface {
	// AuthenticateUser verifies a username/password pair.
	AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error)

	// FindOrCreateGoogleUser returns the account matching a verified Google
	// identity, creating a verified user on first sight.
	FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
