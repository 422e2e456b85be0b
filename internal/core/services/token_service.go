package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ucontacts/contacts_app/internal/apperrors"
	"github.com/ucontacts/contacts_app/internal/core/domain"
	portsrepo "github.com/ucontacts/contacts_app/internal/core/ports/repositories"
	portssvc "github.com/ucontacts/contacts_app/internal/core/ports/services"
	"github.com/ucontacts/contacts_app/internal/platform/config"
	"github.com/ucontacts/contacts_app/internal/utils"
)

const (
	purposeEmailVerify   = "email_verify"
	purposePasswordReset = "password_reset"

	refreshTokenBytes = 32
)

type TokenService struct {
	cfg      *config.Config
	userRepo portsrepo.UserRepository
}

func NewTokenService(cfg *config.Config, userRepo portsrepo.UserRepository) *TokenService {
	return &TokenService{cfg: cfg, userRepo: userRepo}
}

var _ portssvc.TokenSvcFacade = (*TokenService)(nil)

func (s *TokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, expiresAt, nil
}

// GenerateRefreshToken issues an opaque refresh token and stores its hash
// against the user. Only the hash ever touches the database.
func (s *TokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	token, err := utils.GenerateSecureRandomString(refreshTokenBytes)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	expiresAt := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)

	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(token), expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *TokenService) ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshToken string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.RefreshTokenHash == "" || user.RefreshTokenExpiryTime == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if time.Now().After(*user.RefreshTokenExpiryTime) {
		return nil, apperrors.ErrRefreshTokenExpired
	}
	if !utils.CompareRefreshTokenHash(refreshToken, user.RefreshTokenHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func (s *TokenService) CreateEmailVerifyToken(email string) (string, error) {
	return utils.GenerateEmailToken(email, purposeEmailVerify, s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.EmailVerifyTokenExpiry)
}

func (s *TokenService) CreatePasswordResetToken(email string) (string, error) {
	return utils.GenerateEmailToken(email, purposePasswordReset, s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.PasswordResetTokenExpiry)
}

func (s *TokenService) ParseEmailToken(token string, purpose string) (string, error) {
	email, err := utils.ParseEmailToken(token, purpose, s.cfg.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", apperrors.ErrUnauthorized)
	}
	return email, nil
}
