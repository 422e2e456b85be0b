package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"golang.org/x/oauth2"

	"github.com/ucontacts/contacts_app/internal/core/domain"
	portssvc "github.com/ucontacts/contacts_app/internal/core/ports/services"
	"github.com/ucontacts/contacts_app/internal/dto"
	"github.com/ucontacts/contacts_app/internal/middleware"
	"github.com/ucontacts/contacts_app/internal/platform/config"
)

const (
	emailVerifyPurpose   = "email_verify"
	passwordResetPurpose = "password_reset"
)

// AuthHandler handles registration, login, token refresh, email confirmation
// and password reset.
type AuthHandler struct {
	cfg          *config.Config
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	mailer       portssvc.MailerSvc
	oauthService portssvc.GoogleOAuthSvcFacade
}

func NewAuthHandler(cfg *config.Config, services *portssvc.ServiceContainer) *AuthHandler {
	return &AuthHandler{
		cfg:          cfg,
		userService:  services.User,
		tokenService: services.Token,
		mailer:       services.Mailer,
		oauthService: services.GoogleOAuth,
	}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(cfg, services)

	// 5 requests per minute per IP on credential endpoints
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	limitMiddleware := limitergin.NewMiddleware(limiter.New(store, rate))

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", limitMiddleware, h.Register)
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.GET("/confirm-email/:token", h.ConfirmEmail)
		auth.POST("/password-reset/request", limitMiddleware, h.RequestPasswordReset)
		auth.POST("/password-reset/confirm", h.ConfirmPasswordReset)
		auth.GET("/google/login", h.GoogleLogin)
		auth.GET("/google/callback", h.GoogleCallback)
		auth.POST("/google/exchange-code", h.ExchangeCodeGoogle)
	}
}

// Register godoc
// @Summary Register new user
// @Description Creates a new user account and sends a verification mail.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username or email already taken"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req, h.cfg.FrontendBaseURL)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Login godoc
// @Summary User login
// @Description Authenticates a user and returns an access/refresh token pair.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	ctx := c.Request.Context()

	user, err := h.userService.AuthenticateUser(ctx, req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
		return
	}

	accessToken, expiresAt, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		respondError(c, err, "")
		return
	}
	refreshToken, _, err := h.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresAt:    expiresAt.Unix(),
	})
}

// Refresh godoc
// @Summary Refresh access token
// @Description Exchanges a valid refresh token for a new access token. The refresh token itself is unchanged.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshRequest true "Refresh Token"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	ctx := c.Request.Context()

	user, err := h.tokenService.ValidateAndParseRefreshToken(ctx, req.UserID, req.RefreshToken)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	accessToken, expiresAt, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: req.RefreshToken,
		TokenType:    "bearer",
		ExpiresAt:    expiresAt.Unix(),
	})
}

// ConfirmEmail godoc
// @Summary Confirm email address
// @Description Marks the account email as verified using the token from the verification mail.
// @Tags auth
// @Produce json
// @Param token path string true "Verification Token"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/confirm-email/{token} [get]
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	token := c.Param("token")

	email, err := h.tokenService.ParseEmailToken(token, emailVerifyPurpose)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	if err := h.userService.ConfirmEmail(c.Request.Context(), email); err != nil {
		respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Email confirmed"})
}

// RequestPasswordReset godoc
// @Summary Request password reset
// @Description Sends a password reset mail if the address belongs to an account. Always returns 200.
// @Tags auth
// @Accept json
// @Produce json
// @Param reset body dto.PasswordResetRequest true "Account Email"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/password-reset/request [post]
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	// The response is identical whether or not the address exists, so the
	// endpoint cannot be used to enumerate accounts.
	resp := dto.MessageResponse{Message: "If the address belongs to an account, a reset mail has been sent"}

	user, err := h.userService.GetUserByEmail(ctx, req.Email)
	if err != nil {
		c.JSON(http.StatusOK, resp)
		return
	}

	token, err := h.tokenService.CreatePasswordResetToken(user.Email)
	if err != nil {
		logger.Error("failed to create password reset token", "error", err)
		c.JSON(http.StatusOK, resp)
		return
	}
	resetURL := fmt.Sprintf("%s/reset-password/%s", h.cfg.FrontendBaseURL, token)
	if err := h.mailer.SendPasswordResetMail(ctx, user.Email, user.Username, resetURL); err != nil {
		logger.Error("failed to send password reset mail", "error", err)
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmPasswordReset godoc
// @Summary Confirm password reset
// @Description Sets a new password using the token from the reset mail.
// @Tags auth
// @Accept json
// @Produce json
// @Param confirm body dto.PasswordResetConfirm true "Reset Token and New Password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/password-reset/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req dto.PasswordResetConfirm
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	ctx := c.Request.Context()

	email, err := h.tokenService.ParseEmailToken(req.Token, passwordResetPurpose)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	if err := h.userService.UpdatePassword(ctx, email, req.NewPassword); err != nil {
		respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password updated"})
}

// GoogleLogin godoc
// @Summary Start Google OAuth login
// @Description Redirects the client to the Google consent screen.
// @Tags oauth
// @Success 307
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	ctx := c.Request.Context()

	state, err := h.oauthService.GenerateStateString(ctx)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.oauthService.GetGoogleLoginURL(ctx, state))
}

// completeGoogleSignIn validates the Google identity carried by an exchanged
// oauth2 token, provisions the account if needed, and writes the token pair
// response.
func (h *AuthHandler) completeGoogleSignIn(c *gin.Context, oauth2Token *oauth2.Token) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Google did not return an ID token"})
		return
	}

	payload, err := h.oauthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.Warn("google ID token validation failed", "error", err)
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google identity"})
		return
	}

	info, err := h.oauthService.GetUserInfo(ctx, oauth2Token)
	if err != nil {
		// Fall back to the verified claims carried in the ID token.
		email, _ := payload.Claims["email"].(string)
		name, _ := payload.Claims["name"].(string)
		picture, _ := payload.Claims["picture"].(string)
		if email == "" {
			respondError(c, err, "")
			return
		}
		info = &domain.GoogleUserInfo{Email: email, Name: name, Picture: picture, VerifiedEmail: true}
	}

	user, err := h.userService.FindOrCreateGoogleUser(ctx, *info)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	accessToken, expiresAt, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		respondError(c, err, "")
		return
	}
	refreshToken, _, err := h.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresAt:    expiresAt.Unix(),
	})
}

// GoogleCallback godoc
// @Summary Google OAuth redirect callback
// @Description Handles the redirect from Google, verifies the CSRF state, and returns an access/refresh pair.
// @Tags oauth
// @Produce json
// @Param code query string true "Authorization Code"
// @Param state query string true "CSRF State"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	state := c.Query("state")
	cookieState, err := c.Cookie("oauth_state")
	if err != nil || state == "" || state != cookieState {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing authorization code"})
		return
	}

	oauth2Token, err := h.oauthService.ExchangeCodeForToken(ctx, code)
	if err != nil {
		logger.Warn("google code exchange failed", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired authorization code"})
		return
	}
	h.completeGoogleSignIn(c, oauth2Token)
}

// ExchangeCodeRequest carries the authorization code from the frontend.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ExchangeCodeGoogle godoc
// @Summary Exchange Google authorization code for tokens
// @Description Exchanges the code for a Google ID token, provisions the user if needed, and returns an access/refresh pair.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body ExchangeCodeRequest true "Authorization Code"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/exchange-code [post]
func (h *AuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	var req ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	oauth2Token, err := h.oauthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.Warn("google code exchange failed", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired authorization code"})
		return
	}
	h.completeGoogleSignIn(c, oauth2Token)
}
