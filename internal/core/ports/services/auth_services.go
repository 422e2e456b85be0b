package services

import (
	"context"
	"time"

	"github.com/ucontacts/contacts_app/internal/core/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// TokenSvcFacade handles issuing and validating the various token kinds:
// JWT access tokens, opaque refresh tokens, and single-purpose email tokens.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ValidateAndParseRefreshToken checks a raw refresh token against the
	// stored hash and expiry for userID.
	ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshToken string) (*domain.User, error)

	// CreateEmailVerifyToken issues a 7-day token carrying the email address.
	CreateEmailVerifyToken(email string) (string, error)
	// CreatePasswordResetToken issues a 15-minute token carrying the email address.
	CreatePasswordResetToken(email string) (string, error)
	// ParseEmailToken extracts the email from a verify or reset token,
	// checking the expected purpose.
	ParseEmailToken(token string, purpose string) (string, error)
}

// MailerSvc sends transactional mail. Failures are logged, never fatal to the
// request that triggered them.
type MailerSvc interface {
	SendVerificationMail(ctx context.Context, email, username, verifyURL string) error
	SendPasswordResetMail(ctx context.Context, email, username, resetURL string) error
}

// FileUploadSvc stores avatar images and returns a public URL.
type FileUploadSvc interface {
	UploadAvatar(ctx context.Context, file interface{}, username string) (string, error)
}

// GoogleOAuthSvcFacade drives the Google OAuth login flow.
type GoogleOAuthSvcFacade interface {
	GenerateStateString(ctx context.Context) (string, error)
	GetGoogleLoginURL(ctx context.Context, state string) string
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	ValidateGoogleIDToken(ctx context.Context, idToken string) (*idtoken.Payload, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error)
}
