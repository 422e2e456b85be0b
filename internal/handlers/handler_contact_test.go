package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ucontacts/contacts_app/internal/apperrors"
	"github.com/ucontacts/contacts_app/internal/core/domain"
	portssvc "github.com/ucontacts/contacts_app/internal/core/ports/services"
	"github.com/ucontacts/contacts_app/internal/dto"
	"github.com/ucontacts/contacts_app/internal/handlers"
	"github.com/ucontacts/contacts_app/internal/middleware"
)

// --- Mock ContactService ---

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) ListContacts(ctx context.Context, userID string, filter string, skip, limit int) ([]domain.Contact, error) {
	args := m.Called(ctx, userID, filter, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *MockContactService) GetContactByID(ctx context.Context, contactID int64, userID string) (*domain.Contact, error) {
	args := m.Called(ctx, contactID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactService) UpcomingBirthdays(ctx context.Context, userID string, skip, limit, windowDays int) ([]domain.Contact, error) {
	args := m.Called(ctx, userID, skip, limit, windowDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *MockContactService) CreateContact(ctx context.Context, userID string, req dto.ContactRequest) (*domain.Contact, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactService) UpdateContact(ctx context.Context, contactID int64, userID string, req dto.ContactRequest) (*domain.Contact, error) {
	args := m.Called(ctx, contactID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactService) DeleteContact(ctx context.Context, contactID int64, userID string) (*domain.Contact, error) {
	args := m.Called(ctx, contactID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

var _ portssvc.ContactSvcFacade = (*MockContactService)(nil)

// --- Suite ---

type ContactHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockContactService
	jwtSecret   string
	userID      string
}

func (suite *ContactHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	suite.Require().NoError(err)
	return signed
}

func (suite *ContactHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = "user-1"

	suite.mockService = new(MockContactService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterContactRoutes(v1, suite.mockService)
}

func TestContactHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ContactHandlerTestSuite))
}

func (suite *ContactHandlerTestSuite) doRequest(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func testContact(id int64) *domain.Contact {
	bday := time.Date(1990, time.June, 18, 0, 0, 0, 0, time.UTC)
	return &domain.Contact{
		ContactID: id,
		UserID:    "user-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     fmt.Sprintf("ada%d@example.com", id),
		Birthday:  &bday,
	}
}

// --- Tests ---

func (suite *ContactHandlerTestSuite) TestListContacts_Success() {
	contacts := []domain.Contact{*testContact(1), *testContact(2)}
	suite.mockService.On("ListContacts", mock.Anything, suite.userID, "", 0, 100).Return(contacts, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/contacts", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListContactsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Contacts, 2)
	suite.Equal("1990-06-18", *resp.Contacts[0].Birthday)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ContactHandlerTestSuite) TestListContacts_PassesFilterAndPagination() {
	suite.mockService.On("ListContacts", mock.Anything, suite.userID, "first_name__eq=Ada", 5, 20).
		Return([]domain.Contact{}, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/contacts?filter=first_name__eq%3DAda&skip=5&limit=20", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ContactHandlerTestSuite) TestListContacts_InvalidFilterReturns422() {
	suite.mockService.On("ListContacts", mock.Anything, suite.userID, "nickname__eq=Jo", 0, 100).
		Return(nil, fmt.Errorf("unknown filter field: %w", apperrors.ErrValidation)).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/contacts?filter=nickname__eq%3DJo", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *ContactHandlerTestSuite) TestListContacts_RejectsOversizedLimit() {
	w := suite.doRequest(http.MethodGet, "/api/v1/contacts?limit=9999", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "ListContacts", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ContactHandlerTestSuite) TestListContacts_Unauthorized() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ContactHandlerTestSuite) TestUpcomingBirthdays_DefaultWindow() {
	contacts := []domain.Contact{*testContact(1)}
	suite.mockService.On("UpcomingBirthdays", mock.Anything, suite.userID, 0, 100, 7).Return(contacts, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/contacts/upcoming-birthdays", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListContactsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Contacts, 1)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ContactHandlerTestSuite) TestUpcomingBirthdays_CustomWindow() {
	suite.mockService.On("UpcomingBirthdays", mock.Anything, suite.userID, 0, 100, 30).
		Return([]domain.Contact{}, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/contacts/upcoming-birthdays?days=30", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ContactHandlerTestSuite) TestUpcomingBirthdays_NegativeWindowReturns422() {
	suite.mockService.On("UpcomingBirthdays", mock.Anything, suite.userID, 0, 100, -3).
		Return(nil, fmt.Errorf("window days must not be negative: %w", apperrors.ErrValidation)).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/contacts/upcoming-birthdays?days=-3", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *ContactHandlerTestSuite) TestGetContact_Success() {
	contact := testContact(7)
	suite.mockService.On("GetContactByID", mock.Anything, int64(7), suite.userID).Return(contact, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/contacts/7", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ContactResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(7), resp.ContactID)
}

func (suite *ContactHandlerTestSuite) TestGetContact_NotFound() {
	suite.mockService.On("GetContactByID", mock.Anything, int64(99), suite.userID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/contacts/99", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ContactHandlerTestSuite) TestGetContact_BadID() {
	w := suite.doRequest(http.MethodGet, "/api/v1/contacts/not-a-number", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "GetContactByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ContactHandlerTestSuite) TestCreateContact_Success() {
	reqBody := dto.ContactRequest{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"}
	created := testContact(42)
	suite.mockService.On("CreateContact", mock.Anything, suite.userID, reqBody).Return(created, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/contacts", reqBody)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.ContactResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(42), resp.ContactID)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ContactHandlerTestSuite) TestCreateContact_DateOnlyBirthday() {
	bday := dto.Date{Time: time.Date(1990, time.June, 18, 0, 0, 0, 0, time.UTC)}
	expected := dto.ContactRequest{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Birthday: &bday}
	suite.mockService.On("CreateContact", mock.Anything, suite.userID, expected).Return(testContact(43), nil).Once()

	body := map[string]string{
		"firstName": "Grace",
		"lastName":  "Hopper",
		"email":     "grace@example.com",
		"birthday":  "1990-06-18",
	}
	w := suite.doRequest(http.MethodPost, "/api/v1/contacts", body)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ContactHandlerTestSuite) TestCreateContact_FutureBirthday() {
	body := map[string]string{
		"firstName": "Grace",
		"lastName":  "Hopper",
		"email":     "grace@example.com",
		"birthday":  "2999-01-01",
	}
	w := suite.doRequest(http.MethodPost, "/api/v1/contacts", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateContact", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ContactHandlerTestSuite) TestCreateContact_MissingFields() {
	w := suite.doRequest(http.MethodPost, "/api/v1/contacts", map[string]string{"firstName": "Grace"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateContact", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ContactHandlerTestSuite) TestCreateContact_DuplicateEmail() {
	reqBody := dto.ContactRequest{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"}
	suite.mockService.On("CreateContact", mock.Anything, suite.userID, reqBody).
		Return(nil, fmt.Errorf("contact exists: %w", apperrors.ErrDuplicate)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/contacts", reqBody)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ContactHandlerTestSuite) TestUpdateContact_Success() {
	reqBody := dto.ContactRequest{FirstName: "Ada", LastName: "King", Email: "ada7@example.com"}
	updated := testContact(7)
	updated.LastName = "King"
	suite.mockService.On("UpdateContact", mock.Anything, int64(7), suite.userID, reqBody).Return(updated, nil).Once()

	w := suite.doRequest(http.MethodPut, "/api/v1/contacts/7", reqBody)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ContactResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("King", resp.LastName)
}

func (suite *ContactHandlerTestSuite) TestDeleteContact_ReturnsDeleted() {
	deleted := testContact(7)
	suite.mockService.On("DeleteContact", mock.Anything, int64(7), suite.userID).Return(deleted, nil).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/contacts/7", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ContactResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(7), resp.ContactID)
}

func (suite *ContactHandlerTestSuite) TestDeleteContact_NotFound() {
	suite.mockService.On("DeleteContact", mock.Anything, int64(99), suite.userID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/contacts/99", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}
