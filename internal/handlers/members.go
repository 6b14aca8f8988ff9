package handlers

import (
	"net/http"

	"projecthub/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type MemberHandler struct {
	db            *gorm.DB
	memberService services.MemberService
}

func NewMemberHandler(db *gorm.DB, memberService services.MemberService) *MemberHandler {
	return &MemberHandler{db: db, memberService: memberService}
}

type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *MemberHandler) AddMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: userId."})
		return
	}

	memberID, err := uuid.FromString(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}

	if err := h.memberService.AddMember(h.db, projectID, memberID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User added to project"})
}

func (h *MemberHandler) GetMembers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.memberService.ListMembers(h.db, projectID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

func (h *MemberHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	memberID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.memberService.RemoveMember(h.db, projectID, memberID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User removed from project"})
}
