package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ucontacts/contacts_app/internal/core/domain"
	portssvc "github.com/ucontacts/contacts_app/internal/core/ports/services"
	"github.com/ucontacts/contacts_app/internal/dto"
	"github.com/ucontacts/contacts_app/internal/middleware"
)

// UserHandler handles requests about the authenticated user's own account.
type UserHandler struct {
	userService   portssvc.UserSvcFacade
	uploadService portssvc.FileUploadSvc
}

func NewUserHandler(us portssvc.UserSvcFacade, fs portssvc.FileUploadSvc) *UserHandler {
	return &UserHandler{userService: us, uploadService: fs}
}

func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, uploadService portssvc.FileUploadSvc) {
	h := NewUserHandler(userService, uploadService)

	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	limitMiddleware := limitergin.NewMiddleware(limiter.New(store, rate))

	users := rg.Group("/users")
	{
		users.GET("/me", limitMiddleware, h.GetMe)
		users.PATCH("/me/avatar", h.UploadAvatar)
	}
}

// GetMe godoc
// @Summary Get current user
// @Description Returns the profile of the authenticated user.
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// UploadAvatar godoc
// @Summary Upload a custom avatar
// @Description Replaces the user's avatar with an uploaded image. Admin role required.
// @Tags users
// @Accept mpfd
// @Produce json
// @Param file formData file true "Avatar image"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/me/avatar [patch]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	ctx := c.Request.Context()

	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	if user.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Admin role required"})
		return
	}

	if h.uploadService == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Avatar upload is not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing file field"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unreadable file"})
		return
	}
	defer file.Close()

	url, err := h.uploadService.UploadAvatar(ctx, file, user.Username)
	if err != nil {
		respondError(c, err, "")
		return
	}

	updated, err := h.userService.UpdateAvatarURL(ctx, userID, url)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(updated))
}
