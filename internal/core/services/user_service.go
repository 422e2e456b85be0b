package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ucontacts/contacts_app/internal/apperrors"
	"github.com/ucontacts/contacts_app/internal/core/domain"
	portsrepo "github.com/ucontacts/contacts_app/internal/core/ports/repositories"
	portssvc "github.com/ucontacts/contacts_app/internal/core/ports/services"
	"github.com/ucontacts/contacts_app/internal/dto"
	"github.com/ucontacts/contacts_app/internal/middleware"
	"github.com/ucontacts/contacts_app/internal/utils"
)

const defaultAvatarSize = 200

type UserService struct {
	userRepo portsrepo.UserRepository
	tokenSvc portssvc.TokenSvcFacade
	mailer   portssvc.MailerSvc
}

func NewUserService(userRepo portsrepo.UserRepository, tokenSvc portssvc.TokenSvcFacade, mailer portssvc.MailerSvc) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
		mailer:   mailer,
	}
}

var _ portssvc.UserSvcFacade = (*UserService)(nil)

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.FindUserByUsername(ctx, username)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindUserByEmail(ctx, email)
}

func (s *UserService) RegisterUser(ctx context.Context, req dto.RegisterRequest, verifyBaseURL string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		AvatarURL:    utils.GravatarURL(req.Email, defaultAvatarSize),
		Role:         domain.RoleUser,
		IsVerified:   false,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokenSvc.CreateEmailVerifyToken(user.Email)
	if err != nil {
		logger.Error("failed to create email verification token", "error", err, "user_id", user.UserID)
		return &user, nil
	}
	verifyURL := fmt.Sprintf("%s/confirm-email/%s", verifyBaseURL, token)

	// Mail delivery happens off the request path; a failure only logs.
	go func() {
		mailCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.SendVerificationMail(mailCtx, user.Email, user.Username, verifyURL); err != nil {
			logger.Error("failed to send verification mail", "error", err, "user_id", user.UserID)
		}
	}()

	return &user, nil
}

func (s *UserService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
}

func (s *UserService) ConfirmEmail(ctx context.Context, email string) error {
	return s.userRepo.MarkEmailVerified(ctx, email)
}

func (s *UserService) UpdateAvatarURL(ctx context.Context, userID string, avatarURL string) (*domain.User, error) {
	if err := s.userRepo.UpdateAvatarURL(ctx, userID, avatarURL); err != nil {
		return nil, err
	}
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *UserService) UpdatePassword(ctx context.Context, email string, newPassword string) error {
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePasswordHash(ctx, email, hash)
}

func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same failure shape whether the user or the password is wrong.
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func (s *UserService) FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// First sign-in with this Google identity: provision a verified account
	// with an unusable random password.
	randomSecret, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate placeholder password: %w", err)
	}
	hash, err := utils.HashPassword(randomSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder password: %w", err)
	}

	avatar := info.Picture
	if avatar == "" {
		avatar = utils.GravatarURL(info.Email, defaultAvatarSize)
	}

	now := time.Now()
	newUser := domain.User{
		UserID:       uuid.NewString(),
		Username:     info.Email,
		Email:        info.Email,
		PasswordHash: hash,
		AvatarURL:    avatar,
		Role:         domain.RoleUser,
		IsVerified:   true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		return nil, err
	}
	logger.Info("provisioned new user from google sign-in", "user_id", newUser.UserID)
	return &newUser, nil
}
