package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ucontacts/contacts_app/internal/apperrors"
	"github.com/ucontacts/contacts_app/internal/core/domain"
	"github.com/ucontacts/contacts_app/internal/core/services"
	"github.com/ucontacts/contacts_app/internal/dto"
	"github.com/ucontacts/contacts_app/internal/utils"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var u *domain.User
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.User)
	}
	return u, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var u *domain.User
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.User)
	}
	return u, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var u *domain.User
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.User)
	}
	return u, args.Error(1)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateAvatarURL(ctx context.Context, userID string, avatarURL string) error {
	args := m.Called(ctx, userID, avatarURL)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, email string, passwordHash string) error {
	args := m.Called(ctx, email, passwordHash)
	return args.Error(0)
}

// --- Mock TokenSvcFacade ---

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshToken string) (*domain.User, error) {
	args := m.Called(ctx, userID, refreshToken)
	var u *domain.User
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.User)
	}
	return u, args.Error(1)
}

func (m *MockTokenService) CreateEmailVerifyToken(email string) (string, error) {
	args := m.Called(email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) CreatePasswordResetToken(email string) (string, error) {
	args := m.Called(email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ParseEmailToken(token string, purpose string) (string, error) {
	args := m.Called(token, purpose)
	return args.String(0), args.Error(1)
}

// --- Mock MailerSvc ---

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerificationMail(ctx context.Context, email, username, verifyURL string) error {
	args := m.Called(ctx, email, username, verifyURL)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordResetMail(ctx context.Context, email, username, resetURL string) error {
	args := m.Called(ctx, email, username, resetURL)
	return args.Error(0)
}

// --- Suite ---

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockUserRepository
	mockTokens *MockTokenService
	mockMailer *MockMailer
	service    *services.UserService
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockUserRepository)
	s.mockTokens = new(MockTokenService)
	s.mockMailer = new(MockMailer)
	s.service = services.NewUserService(s.mockRepo, s.mockTokens, s.mockMailer)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) TestRegisterUser_Success() {
	ctx := context.Background()
	req := dto.RegisterRequest{Username: "ada", Email: "Ada@Example.com", Password: "s3cretpass"}

	s.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "ada" &&
			u.Email == req.Email &&
			u.Role == domain.RoleUser &&
			!u.IsVerified &&
			u.PasswordHash != req.Password &&
			strings.HasPrefix(u.AvatarURL, "https://www.gravatar.com/avatar/")
	})).Return(nil).Once()
	s.mockTokens.On("CreateEmailVerifyToken", req.Email).Return("verify-token", nil).Once()
	// Mail is sent off the request path; it may or may not land before the
	// test finishes.
	s.mockMailer.On("SendVerificationMail", mock.Anything, req.Email, "ada", mock.AnythingOfType("string")).
		Return(nil).Maybe()

	user, err := s.service.RegisterUser(ctx, req, "https://app.example.com")

	s.Require().NoError(err)
	s.Require().NotNil(user)
	s.NotEmpty(user.UserID)
	s.True(utils.CheckPasswordHash(req.Password, user.PasswordHash))
	s.mockRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestRegisterUser_DuplicateUsername() {
	ctx := context.Background()
	req := dto.RegisterRequest{Username: "ada", Email: "ada@example.com", Password: "s3cretpass"}

	s.mockRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	_, err := s.service.RegisterUser(ctx, req, "https://app.example.com")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.mockTokens.AssertNotCalled(s.T(), "CreateEmailVerifyToken", mock.Anything)
}

func (s *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cretpass")
	s.Require().NoError(err)
	stored := &domain.User{UserID: "u1", Username: "ada", PasswordHash: hash}

	s.mockRepo.On("FindUserByUsername", ctx, "ada").Return(stored, nil).Once()

	user, err := s.service.AuthenticateUser(ctx, "ada", "s3cretpass")

	s.Require().NoError(err)
	s.Equal("u1", user.UserID)
}

func (s *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cretpass")
	s.Require().NoError(err)
	stored := &domain.User{UserID: "u1", Username: "ada", PasswordHash: hash}

	s.mockRepo.On("FindUserByUsername", ctx, "ada").Return(stored, nil).Once()

	_, err = s.service.AuthenticateUser(ctx, "ada", "wrongpass")

	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *UserServiceTestSuite) TestAuthenticateUser_UnknownUserSameError() {
	ctx := context.Background()

	s.mockRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.AuthenticateUser(ctx, "ghost", "whatever")

	s.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (s *UserServiceTestSuite) TestFindOrCreateGoogleUser_ExistingAccount() {
	ctx := context.Background()
	stored := &domain.User{UserID: "u1", Email: "ada@example.com"}

	s.mockRepo.On("FindUserByEmail", ctx, "ada@example.com").Return(stored, nil).Once()

	user, err := s.service.FindOrCreateGoogleUser(ctx, domain.GoogleUserInfo{Email: "ada@example.com"})

	s.Require().NoError(err)
	s.Equal("u1", user.UserID)
	s.mockRepo.AssertNotCalled(s.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestFindOrCreateGoogleUser_ProvisionsVerifiedUser() {
	ctx := context.Background()
	info := domain.GoogleUserInfo{Email: "new@example.com", Name: "New Person", Picture: "https://lh3.example.com/p.jpg"}

	s.mockRepo.On("FindUserByEmail", ctx, info.Email).Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == info.Email && u.IsVerified && u.AvatarURL == info.Picture
	})).Return(nil).Once()

	user, err := s.service.FindOrCreateGoogleUser(ctx, info)

	s.Require().NoError(err)
	s.True(user.IsVerified)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestConfirmEmail_Delegates() {
	ctx := context.Background()

	s.mockRepo.On("MarkEmailVerified", ctx, "ada@example.com").Return(nil).Once()

	s.Require().NoError(s.service.ConfirmEmail(ctx, "ada@example.com"))
	s.mockRepo.AssertExpectations(s.T())
}
