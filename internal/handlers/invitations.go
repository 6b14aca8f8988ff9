package handlers

import (
	"log"
	"net/http"

	"projecthub/backend/internal/services"
	"projecthub/backend/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type InvitationHandler struct {
	db            *gorm.DB
	memberService services.MemberService
	queue         *worker.JobQueue
}

func NewInvitationHandler(db *gorm.DB, memberService services.MemberService, queue *worker.JobQueue) *InvitationHandler {
	return &InvitationHandler{db: db, memberService: memberService, queue: queue}
}

type SendInvitationRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *InvitationHandler) SendInvitation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req SendInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: userId."})
		return
	}

	invitedID, err := uuid.FromString(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}

	invitation, err := h.memberService.SendInvitation(h.db, projectID, invitedID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if h.queue != nil {
		err := h.queue.Enqueue(worker.QueueNotifications, worker.JobTypeInvitationNotification, map[string]interface{}{
			"invitation_id": invitation.ID.String(),
			"project_id":    invitation.ProjectID.String(),
			"user_id":       invitation.UserID.String(),
		})
		if err != nil {
			log.Printf("failed to enqueue invitation notification: %v", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Invitation sent", "invitationId": invitation.ID})
}

func (h *InvitationHandler) GetMyInvitations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	invitations, err := h.memberService.ListInvitationsForUser(h.db, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invitations)
}

func (h *InvitationHandler) AcceptInvitation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	invitationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.memberService.AcceptInvitation(h.db, invitationID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation accepted; user added to project"})
}

func (h *InvitationHandler) DeclineInvitation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	invitationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.memberService.DeclineInvitation(h.db, invitationID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation declined"})
}
