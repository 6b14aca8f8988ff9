package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"projecthub/backend/internal/handlers"
	"projecthub/backend/internal/models"
	"projecthub/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type MockMemberService struct {
	returnErr   error
	added       []uuid.UUID
	removed     []uuid.UUID
	invitations []services.InvitationInfo
	accepted    []uuid.UUID
	declined    []uuid.UUID
}

func (m *MockMemberService) AddMember(db *gorm.DB, projectID, userID, byUserID uuid.UUID) error {
	if m.returnErr != nil {
		return m.returnErr
	}
	m.added = append(m.added, userID)
	return nil
}

func (m *MockMemberService) RemoveMember(db *gorm.DB, projectID, userID, byUserID uuid.UUID) error {
	if m.returnErr != nil {
		return m.returnErr
	}
	m.removed = append(m.removed, userID)
	return nil
}

func (m *MockMemberService) ListMembers(db *gorm.DB, projectID, byUserID uuid.UUID) ([]services.MemberInfo, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	return []services.MemberInfo{}, nil
}

func (m *MockMemberService) SendInvitation(db *gorm.DB, projectID, invitedUserID, byUserID uuid.UUID) (*models.ProjectInvitation, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	return &models.ProjectInvitation{
		ID:        uuid.Must(uuid.NewV4()),
		ProjectID: projectID,
		UserID:    invitedUserID,
		InvitedBy: byUserID,
		Status:    models.InvitationPending,
	}, nil
}

func (m *MockMemberService) ListInvitationsForUser(db *gorm.DB, userID uuid.UUID) ([]services.InvitationInfo, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	return m.invitations, nil
}

func (m *MockMemberService) AcceptInvitation(db *gorm.DB, invitationID, actingUserID uuid.UUID) (*models.ProjectInvitation, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	m.accepted = append(m.accepted, invitationID)
	return &models.ProjectInvitation{ID: invitationID, Status: models.InvitationAccepted}, nil
}

func (m *MockMemberService) DeclineInvitation(db *gorm.DB, invitationID, actingUserID uuid.UUID) error {
	if m.returnErr != nil {
		return m.returnErr
	}
	m.declined = append(m.declined, invitationID)
	return nil
}

func setupInvitationHandler(mock *MockMemberService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewInvitationHandler(nil, mock, nil)

	router := gin.New()
	router.Use(mockAuth(uuid.Must(uuid.NewV4())))
	router.GET("/project-invitations/me", handler.GetMyInvitations)
	router.POST("/project-invitations/:id/invitations", handler.SendInvitation)
	router.PUT("/project-invitations/:id/accept", handler.AcceptInvitation)
	router.DELETE("/project-invitations/:id/decline", handler.DeclineInvitation)
	return router
}

func TestSendInvitation(t *testing.T) {
	mock := &MockMemberService{}
	router := setupInvitationHandler(mock)

	body, _ := json.Marshal(map[string]string{"userId": uuid.Must(uuid.NewV4()).String()})
	req, _ := http.NewRequest("POST",
		"/project-invitations/"+uuid.Must(uuid.NewV4()).String()+"/invitations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Invitation sent")
	assert.Contains(t, w.Body.String(), "invitationId")
}

func TestSendInvitation_DuplicatePending(t *testing.T) {
	mock := &MockMemberService{returnErr: services.ErrAlreadyInvited}
	router := setupInvitationHandler(mock)

	body, _ := json.Marshal(map[string]string{"userId": uuid.Must(uuid.NewV4()).String()})
	req, _ := http.NewRequest("POST",
		"/project-invitations/"+uuid.Must(uuid.NewV4()).String()+"/invitations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetMyInvitations(t *testing.T) {
	mock := &MockMemberService{invitations: []services.InvitationInfo{
		{ID: uuid.Must(uuid.NewV4()), ProjectName: "Launch Plan", InviterName: "owner", Status: models.InvitationPending},
	}}
	router := setupInvitationHandler(mock)

	req, _ := http.NewRequest("GET", "/project-invitations/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Launch Plan")
}

func TestAcceptInvitation(t *testing.T) {
	mock := &MockMemberService{}
	router := setupInvitationHandler(mock)

	invitationID := uuid.Must(uuid.NewV4())
	req, _ := http.NewRequest("PUT", "/project-invitations/"+invitationID.String()+"/accept", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uuid.UUID{invitationID}, mock.accepted)
}

func TestAcceptInvitation_AlreadyResolved(t *testing.T) {
	mock := &MockMemberService{returnErr: services.ErrInvitationResolved}
	router := setupInvitationHandler(mock)

	req, _ := http.NewRequest("PUT",
		"/project-invitations/"+uuid.Must(uuid.NewV4()).String()+"/accept", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAcceptInvitation_WrongUser(t *testing.T) {
	mock := &MockMemberService{returnErr: services.ErrForbidden}
	router := setupInvitationHandler(mock)

	req, _ := http.NewRequest("PUT",
		"/project-invitations/"+uuid.Must(uuid.NewV4()).String()+"/accept", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeclineInvitation(t *testing.T) {
	mock := &MockMemberService{}
	router := setupInvitationHandler(mock)

	invitationID := uuid.Must(uuid.NewV4())
	req, _ := http.NewRequest("DELETE", "/project-invitations/"+invitationID.String()+"/decline", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uuid.UUID{invitationID}, mock.declined)
}
