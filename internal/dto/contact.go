package dto

import (
	"time"

	"github.com/ucontacts/contacts_app/internal/core/domain"
)

// ContactRequest carries contact data for both create and update.
// Birthday uses the custom `pastdate` validator registered at startup.
type ContactRequest struct {
	FirstName   string     `json:"firstName" binding:"required,max=50"`
	LastName    string     `json:"lastName" binding:"required,max=50"`
	Email       string     `json:"email" binding:"required,email,max=255"`
	Phone       *string    `json:"phone,omitempty" binding:"omitempty,e164"`
	Birthday    *Date      `json:"birthday,omitempty" binding:"omitempty,pastdate"`
	Description *string    `json:"description,omitempty" binding:"omitempty,max=255"`
}

// ListContactsParams defines query parameters for listing contacts.
type ListContactsParams struct {
	Skip   int    `form:"skip,default=0" binding:"min=0"`
	Limit  int    `form:"limit,default=100" binding:"min=1,max=500"`
	Filter string `form:"filter"`
}

// UpcomingBirthdaysParams defines query parameters for the birthday window query.
// Days is validated in the service so that a negative value maps to the same
// validation error regardless of transport.
type UpcomingBirthdaysParams struct {
	Skip  int `form:"skip,default=0" binding:"min=0"`
	Limit int `form:"limit,default=100" binding:"min=1,max=500"`
	Days  int `form:"days,default=7"`
}

// ContactResponse is the transport shape of a contact.
type ContactResponse struct {
	ContactID   int64     `json:"contactID"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	Birthday    *string   `json:"birthday,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListContactsResponse wraps a page of contacts.
type ListContactsResponse struct {
	Contacts []ContactResponse `json:"contacts"`
}

// ToContactResponse converts a domain.Contact to its transport shape.
func ToContactResponse(c *domain.Contact) ContactResponse {
	resp := ContactResponse{
		ContactID:   c.ContactID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.Birthday != nil {
		b := c.Birthday.Format(dateLayout)
		resp.Birthday = &b
	}
	return resp
}

// ToListContactsResponse converts a slice of domain contacts.
func ToListContactsResponse(contacts []domain.Contact) ListContactsResponse {
	out := make([]ContactResponse, len(contacts))
	for i := range contacts {
		out[i] = ToContactResponse(&contacts[i])
	}
	return ListContactsResponse{Contacts: out}
}
