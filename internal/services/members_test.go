package services_test

import (
	"testing"

	"projecthub/backend/internal/models"
	"projecthub/backend/internal/services"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type MemberServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service services.MemberService

	ownerID    uuid.UUID
	memberID   uuid.UUID
	inviteeID  uuid.UUID
	outsiderID uuid.UUID
	projectID  uuid.UUID
}

func (suite *MemberServiceTestSuite) SetupSuite() {
	suite.db = newTestDB(suite.T())
	suite.service = services.NewMemberService(services.NewAccessService())
}

func (suite *MemberServiceTestSuite) SetupTest() {
	truncateAll(suite.db)

	suite.ownerID = insertUser(suite.db, "owner", "owner@example.com")
	suite.memberID = insertUser(suite.db, "member", "member@example.com")
	suite.inviteeID = insertUser(suite.db, "invitee", "invitee@example.com")
	suite.outsiderID = insertUser(suite.db, "outsider", "outsider@example.com")
	suite.projectID = insertProject(suite.db, suite.ownerID, "Launch Plan")
	insertMember(suite.db, suite.projectID, suite.memberID)
}

func (suite *MemberServiceTestSuite) TestAddMember() {
	err := suite.service.AddMember(suite.db, suite.projectID, suite.inviteeID, suite.ownerID)
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 1, countRows(suite.db, "project_members",
		"project_id = ? AND user_id = ?", suite.projectID.String(), suite.inviteeID.String()))
}

func (suite *MemberServiceTestSuite) TestAddMember_MemberCannotAdd() {
	err := suite.service.AddMember(suite.db, suite.projectID, suite.inviteeID, suite.memberID)
	assert.ErrorIs(suite.T(), err, services.ErrForbidden)
}

func (suite *MemberServiceTestSuite) TestAddMember_UnknownUser() {
	err := suite.service.AddMember(suite.db, suite.projectID, uuid.Must(uuid.NewV4()), suite.ownerID)
	assert.ErrorIs(suite.T(), err, services.ErrNotFound)
}

func (suite *MemberServiceTestSuite) TestAddMember_Duplicate() {
	err := suite.service.AddMember(suite.db, suite.projectID, suite.memberID, suite.ownerID)
	assert.ErrorIs(suite.T(), err, services.ErrAlreadyMember)
}

func (suite *MemberServiceTestSuite) TestRemoveMember() {
	err := suite.service.RemoveMember(suite.db, suite.projectID, suite.memberID, suite.ownerID)
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 0, countRows(suite.db, "project_members",
		"project_id = ? AND user_id = ?", suite.projectID.String(), suite.memberID.String()))

	// Removing again is a no-op, not an error.
	err = suite.service.RemoveMember(suite.db, suite.projectID, suite.memberID, suite.ownerID)
	assert.NoError(suite.T(), err)
}

func (suite *MemberServiceTestSuite) TestRemoveMember_OwnerOnly() {
	err := suite.service.RemoveMember(suite.db, suite.projectID, suite.memberID, suite.memberID)
	assert.ErrorIs(suite.T(), err, services.ErrForbidden)
}

func (suite *MemberServiceTestSuite) TestListMembers() {
	members, err := suite.service.ListMembers(suite.db, suite.projectID, suite.memberID)
	suite.Require().NoError(err)
	suite.Require().Len(members, 1)
	assert.Equal(suite.T(), suite.memberID, members[0].UserID)
	assert.Equal(suite.T(), "member", members[0].Username)
	assert.Equal(suite.T(), "member@example.com", members[0].Email)

	_, err = suite.service.ListMembers(suite.db, suite.projectID, suite.outsiderID)
	assert.ErrorIs(suite.T(), err, services.ErrForbidden)
}

func (suite *MemberServiceTestSuite) TestSendInvitation() {
	invitation, err := suite.service.SendInvitation(suite.db, suite.projectID, suite.inviteeID, suite.ownerID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.InvitationPending, invitation.Status)
	assert.Equal(suite.T(), suite.ownerID, invitation.InvitedBy)
	assert.Equal(suite.T(), suite.inviteeID, invitation.UserID)
}

func (suite *MemberServiceTestSuite) TestSendInvitation_OwnerOnly() {
	_, err := suite.service.SendInvitation(suite.db, suite.projectID, suite.inviteeID, suite.memberID)
	assert.ErrorIs(suite.T(), err, services.ErrForbidden)
}

func (suite *MemberServiceTestSuite) TestSendInvitation_UnknownUser() {
	_, err := suite.service.SendInvitation(suite.db, suite.projectID, uuid.Must(uuid.NewV4()), suite.ownerID)
	assert.ErrorIs(suite.T(), err, services.ErrNotFound)
}

func (suite *MemberServiceTestSuite) TestSendInvitation_DuplicatePending() {
	_, err := suite.service.SendInvitation(suite.db, suite.projectID, suite.inviteeID, suite.ownerID)
	suite.Require().NoError(err)

	_, err = suite.service.SendInvitation(suite.db, suite.projectID, suite.inviteeID, suite.ownerID)
	assert.ErrorIs(suite.T(), err, services.ErrAlreadyInvited)
}

func (suite *MemberServiceTestSuite) TestListInvitationsForUser() {
	insertInvitation(suite.db, suite.projectID, suite.inviteeID, suite.ownerID, "pending")
	insertInvitation(suite.db, suite.projectID, suite.outsiderID, suite.ownerID, "pending")
	insertInvitation(suite.db, suite.projectID, suite.inviteeID, suite.ownerID, "accepted")

	invitations, err := suite.service.ListInvitationsForUser(suite.db, suite.inviteeID)
	suite.Require().NoError(err)
	suite.Require().Len(invitations, 1)
	assert.Equal(suite.T(), "Launch Plan", invitations[0].ProjectName)
	assert.Equal(suite.T(), "owner", invitations[0].InviterName)
	assert.Equal(suite.T(), models.InvitationPending, invitations[0].Status)
}

func (suite *MemberServiceTestSuite) TestAcceptInvitation() {
	invitationID := insertInvitation(suite.db, suite.projectID, suite.inviteeID, suite.ownerID, "pending")

	invitation, err := suite.service.AcceptInvitation(suite.db, invitationID, suite.inviteeID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.InvitationAccepted, invitation.Status)
	assert.EqualValues(suite.T(), 1, countRows(suite.db, "project_members",
		"project_id = ? AND user_id = ?", suite.projectID.String(), suite.inviteeID.String()))
}

func (suite *MemberServiceTestSuite) TestAcceptInvitation_OnlyInvitee() {
	invitationID := insertInvitation(suite.db, suite.projectID, suite.inviteeID, suite.ownerID, "pending")

	_, err := suite.service.AcceptInvitation(suite.db, invitationID, suite.outsiderID)
	assert.ErrorIs(suite.T(), err, services.ErrForbidden)

	_, err = suite.service.AcceptInvitation(suite.db, invitationID, suite.ownerID)
	assert.ErrorIs(suite.T(), err, services.ErrForbidden)
}

func (suite *MemberServiceTestSuite) TestAcceptInvitation_AlreadyResolved() {
	invitationID := insertInvitation(suite.db, suite.projectID, suite.inviteeID, suite.ownerID, "pending")

	_, err := suite.service.AcceptInvitation(suite.db, invitationID, suite.inviteeID)
	suite.Require().NoError(err)

	_, err = suite.service.AcceptInvitation(suite.db, invitationID, suite.inviteeID)
	assert.ErrorIs(suite.T(), err, services.ErrInvitationResolved)
}

// Accepting after a direct add must not fail on the duplicate membership.
func (suite *MemberServiceTestSuite) TestAcceptInvitation_AlreadyDirectMember() {
	invitationID := insertInvitation(suite.db, suite.projectID, suite.inviteeID, suite.ownerID, "pending")
	insertMember(suite.db, suite.projectID, suite.inviteeID)

	_, err := suite.service.AcceptInvitation(suite.db, invitationID, suite.inviteeID)
	suite.Require().NoError(err)
	assert.EqualValues(suite.T(), 1, countRows(suite.db, "project_members",
		"project_id = ? AND user_id = ?", suite.projectID.String(), suite.inviteeID.String()))
}

func (suite *MemberServiceTestSuite) TestAcceptInvitation_NotFound() {
	_, err := suite.service.AcceptInvitation(suite.db, uuid.Must(uuid.NewV4()), suite.inviteeID)
	assert.ErrorIs(suite.T(), err, services.ErrNotFound)
}

func (suite *MemberServiceTestSuite) TestDeclineInvitation() {
	invitationID := insertInvitation(suite.db, suite.projectID, suite.inviteeID, suite.ownerID, "pending")

	err := suite.service.DeclineInvitation(suite.db, invitationID, suite.inviteeID)
	suite.Require().NoError(err)

	assert.EqualValues(suite.T(), 0, countRows(suite.db, "project_invitations", "id = ?", invitationID.String()))
	assert.EqualValues(suite.T(), 0, countRows(suite.db, "project_members",
		"project_id = ? AND user_id = ?", suite.projectID.String(), suite.inviteeID.String()))
}

func (suite *MemberServiceTestSuite) TestDeclineInvitation_OnlyInvitee() {
	invitationID := insertInvitation(suite.db, suite.projectID, suite.inviteeID, suite.ownerID, "pending")

	err := suite.service.DeclineInvitation(suite.db, invitationID, suite.outsiderID)
	assert.ErrorIs(suite.T(), err, services.ErrForbidden)
}

func (suite *MemberServiceTestSuite) TestDeclineInvitation_AlreadyResolved() {
	invitationID := insertInvitation(suite.db, suite.projectID, suite.inviteeID, suite.ownerID, "accepted")

	err := suite.service.DeclineInvitation(suite.db, invitationID, suite.inviteeID)
	assert.ErrorIs(suite.T(), err, services.ErrInvitationResolved)
}

func TestMemberServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MemberServiceTestSuite))
}
