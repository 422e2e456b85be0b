package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ucontacts/contacts_app/internal/core/ports/services"
	"github.com/ucontacts/contacts_app/internal/dto"
	"github.com/ucontacts/contacts_app/internal/middleware"
)

// ContactHandler handles contact management requests. Every operation is
// scoped to the authenticated user's own contacts.
type ContactHandler struct {
	contactService portssvc.ContactSvcFacade
}

func NewContactHandler(cs portssvc.ContactSvcFacade) *ContactHandler {
	return &ContactHandler{contactService: cs}
}

// RegisterContactRoutes mounts the contact endpoints on the given group.
func RegisterContactRoutes(rg *gin.RouterGroup, contactService portssvc.ContactSvcFacade) {
	h := NewContactHandler(contactService)

	contacts := rg.Group("/contacts")
	{
		contacts.GET("", h.ListContacts)
		contacts.GET("/upcoming-birthdays", h.UpcomingBirthdays)
		contacts.GET("/:contact_id", h.GetContact)
		contacts.POST("", h.CreateContact)
		contacts.PUT("/:contact_id", h.UpdateContact)
		contacts.DELETE("/:contact_id", h.DeleteContact)
	}
}

func contactIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("contact_id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid contact ID"})
		return 0, false
	}
	return id, true
}

// ListContacts godoc
// @Summary List contacts
// @Description Returns a paginated list of the user's contacts, optionally narrowed by a filter expression like "first_name__eq=John&birthday__between=1990-01-01,1999-12-31".
// @Tags contacts
// @Produce json
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(100) maximum(500)
// @Param filter query string false "Filter expression"
// @Success 200 {object} dto.ListContactsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Invalid filter expression"
// @Security BearerAuth
// @Router /contacts [get]
func (h *ContactHandler) ListContacts(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListContactsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	contacts, err := h.contactService.ListContacts(c.Request.Context(), userID, params.Filter, params.Skip, params.Limit)
	if err != nil {
		respondError(c, err, "Contact not found")
		return
	}
	c.JSON(http.StatusOK, dto.ToListContactsResponse(contacts))
}

// UpcomingBirthdays godoc
// @Summary List contacts with upcoming birthdays
// @Description Returns contacts whose birthday falls within the next N days, comparing month and day only. The window wraps across the year boundary.
// @Tags contacts
// @Produce json
// @Param days query int false "Window size in days" default(7)
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(100) maximum(500)
// @Success 200 {object} dto.ListContactsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Negative window"
// @Security BearerAuth
// @Router /contacts/upcoming-birthdays [get]
func (h *ContactHandler) UpcomingBirthdays(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.UpcomingBirthdaysParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	contacts, err := h.contactService.UpcomingBirthdays(c.Request.Context(), userID, params.Skip, params.Limit, params.Days)
	if err != nil {
		respondError(c, err, "Contact not found")
		return
	}
	c.JSON(http.StatusOK, dto.ToListContactsResponse(contacts))
}

// GetContact godoc
// @Summary Get a contact
// @Tags contacts
// @Produce json
// @Param contact_id path int true "Contact ID"
// @Success 200 {object} dto.ContactResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /contacts/{contact_id} [get]
func (h *ContactHandler) GetContact(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	contactID, ok := contactIDParam(c)
	if !ok {
		return
	}

	contact, err := h.contactService.GetContactByID(c.Request.Context(), contactID, userID)
	if err != nil {
		respondError(c, err, "Contact not found")
		return
	}
	c.JSON(http.StatusOK, dto.ToContactResponse(contact))
}

// CreateContact godoc
// @Summary Create a contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param contact body dto.ContactRequest true "Contact Data"
// @Success 201 {object} dto.ContactResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Contact email already exists"
// @Security BearerAuth
// @Router /contacts [post]
func (h *ContactHandler) CreateContact(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Contact not found")
		return
	}
	c.JSON(http.StatusCreated, dto.ToContactResponse(contact))
}

// UpdateContact godoc
// @Summary Update a contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param contact_id path int true "Contact ID"
// @Param contact body dto.ContactRequest true "Contact Data"
// @Success 200 {object} dto.ContactResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /contacts/{contact_id} [put]
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	contactID, ok := contactIDParam(c)
	if !ok {
		return
	}

	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	contact, err := h.contactService.UpdateContact(c.Request.Context(), contactID, userID, req)
	if err != nil {
		respondError(c, err, "Contact not found")
		return
	}
	c.JSON(http.StatusOK, dto.ToContactResponse(contact))
}

// DeleteContact godoc
// @Summary Delete a contact
// @Description Deletes a contact and returns its last state.
// @Tags contacts
// @Produce json
// @Param contact_id path int true "Contact ID"
// @Success 200 {object} dto.ContactResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /contacts/{contact_id} [delete]
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	contactID, ok := contactIDParam(c)
	if !ok {
		return
	}

	contact, err := h.contactService.DeleteContact(c.Request.Context(), contactID, userID)
	if err != nil {
		respondError(c, err, "Contact not found")
		return
	}
	c.JSON(http.StatusOK, dto.ToContactResponse(contact))
}
