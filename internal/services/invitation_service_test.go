package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "github.com/yukikurage/group-collab-api/internal/errors"
	"github.com/yukikurage/group-collab-api/internal/models"
	"github.com/yukikurage/group-collab-api/internal/repository"
)

type InvitationServiceTestSuite struct {
	suite.Suite
	db     *gorm.DB
	invSvc *InvitationService

	alice *models.User // student, group creator
	bob   *models.User // student member
	prof  *models.User // teacher
	group *models.Group
}

func (suite *InvitationServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Task{},
		&models.Assignment{},
		&models.Invitation{},
	)
	suite.Require().NoError(err)

	suite.invSvc = NewInvitationService(
		repository.NewInvitationRepository(suite.db),
		repository.NewGroupRepository(suite.db),
		repository.NewUserRepository(suite.db),
		repository.NewMembershipRepository(suite.db),
		zap.NewNop(),
	)

	suite.alice = suite.createUser("alice", models.RoleStudent)
	suite.bob = suite.createUser("bob", models.RoleStudent)
	suite.prof = suite.createUser("prof", models.RoleTeacher)

	suite.group = &models.Group{Name: "G", JoinCode: "GCODE123", CreatorID: suite.alice.ID}
	suite.Require().NoError(suite.db.Create(suite.group).Error)
	suite.addMember(suite.group.ID, suite.alice.ID, models.RoleStudent)
	suite.addMember(suite.group.ID, suite.bob.ID, models.RoleStudent)
}

func (suite *InvitationServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *InvitationServiceTestSuite) createUser(name string, role models.UserRole) *models.User {
	user := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	suite.db.Create(user)
	return user
}

func (suite *InvitationServiceTestSuite) addMember(groupID, userID uint64, role models.UserRole) {
	suite.db.Create(&models.GroupMember{GroupID: groupID, UserID: userID, Role: role})
}

func (suite *InvitationServiceTestSuite) invite() *models.Invitation {
	inv, err := suite.invSvc.CreateInvitation(CreateInvitationInput{
		GroupName:      "G",
		TeacherName:    "prof",
		ProjectDetails: "ML project",
		InvitedByID:    suite.alice.ID,
		InviterRole:    models.RoleStudent,
	})
	suite.Require().NoError(err)
	return inv
}

func (suite *InvitationServiceTestSuite) TestCreateInvitation() {
	inv := suite.invite()
	assert.Equal(suite.T(), models.InvitationPending, inv.Status)
	assert.Equal(suite.T(), suite.group.ID, inv.GroupID)
	assert.Equal(suite.T(), suite.prof.ID, inv.TeacherID)
	assert.Equal(suite.T(), "ML project", inv.ProjectDetails)
}

func (suite *InvitationServiceTestSuite) TestCreateInvitation_GroupNotFound() {
	_, err := suite.invSvc.CreateInvitation(CreateInvitationInput{
		GroupName:   "No Such Group",
		TeacherName: "prof",
		InvitedByID: suite.alice.ID,
		InviterRole: models.RoleStudent,
	})
	suite.Require().Error(err)
	assert.True(suite.T(), apperrors.Is(err, apperrors.KindNotFound))
}

func (suite *InvitationServiceTestSuite) TestCreateInvitation_NotATeacher() {
	// Bob exists but is a student, so name resolution misses.
	_, err := suite.invSvc.CreateInvitation(CreateInvitationInput{
		GroupName:   "G",
		TeacherName: "bob",
		InvitedByID: suite.alice.ID,
		InviterRole: models.RoleStudent,
	})
	suite.Require().Error(err)
	assert.True(suite.T(), apperrors.Is(err, apperrors.KindNotFound))
}

func (suite *InvitationServiceTestSuite) TestCreateInvitation_OnlyCreatorOrAdmin() {
	_, err := suite.invSvc.CreateInvitation(CreateInvitationInput{
		GroupName:   "G",
		TeacherName: "prof",
		InvitedByID: suite.bob.ID,
		InviterRole: models.RoleStudent,
	})
	suite.Require().Error(err)
	assert.True(suite.T(), apperrors.Is(err, apperrors.KindForbidden))

	// An admin may invite on any group's behalf.
	admin := suite.createUser("root", models.RoleAdmin)
	_, err = suite.invSvc.CreateInvitation(CreateInvitationInput{
		GroupName:   "G",
		TeacherName: "prof",
		InvitedByID: admin.ID,
		InviterRole: models.RoleAdmin,
	})
	assert.NoError(suite.T(), err)
}

func (suite *InvitationServiceTestSuite) TestCreateInvitation_DuplicatePending() {
	suite.invite()

	_, err := suite.invSvc.CreateInvitation(CreateInvitationInput{
		GroupName:   "G",
		TeacherName: "prof",
		InvitedByID: suite.alice.ID,
		InviterRole: models.RoleStudent,
	})
	suite.Require().Error(err)
	assert.True(suite.T(), apperrors.Is(err, apperrors.KindConflict))
}

func (suite *InvitationServiceTestSuite) TestRespond_ApprovedCreatesMembership() {
	inv := suite.invite()

	resolved, err := suite.invSvc.Respond(inv.ID, "approved", suite.prof.ID, models.RoleTeacher)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.InvitationApproved, resolved.Status)

	var member models.GroupMember
	suite.Require().NoError(suite.db.
		Where("group_id = ? AND user_id = ?", suite.group.ID, suite.prof.ID).
		First(&member).Error)
	assert.Equal(suite.T(), models.RoleTeacher, member.Role)
}

func (suite *InvitationServiceTestSuite) TestRespond_TerminalImmutability() {
	inv := suite.invite()

	_, err := suite.invSvc.Respond(inv.ID, "approved", suite.prof.ID, models.RoleTeacher)
	suite.Require().NoError(err)

	// Second response of any kind is a conflict and changes nothing.
	_, err = suite.invSvc.Respond(inv.ID, "rejected", suite.prof.ID, models.RoleTeacher)
	suite.Require().Error(err)
	assert.True(suite.T(), apperrors.Is(err, apperrors.KindConflict))

	var stored models.Invitation
	suite.Require().NoError(suite.db.First(&stored, inv.ID).Error)
	assert.Equal(suite.T(), models.InvitationApproved, stored.Status)
}

func (suite *InvitationServiceTestSuite) TestRespond_RejectedCreatesNoMembership() {
	inv := suite.invite()

	resolved, err := suite.invSvc.Respond(inv.ID, "rejected", suite.prof.ID, models.RoleTeacher)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.InvitationRejected, resolved.Status)

	var count int64
	suite.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", suite.group.ID, suite.prof.ID).
		Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *InvitationServiceTestSuite) TestRespond_ResolvedDoesNotBlockFreshInvite() {
	inv := suite.invite()
	_, err := suite.invSvc.Respond(inv.ID, "rejected", suite.prof.ID, models.RoleTeacher)
	suite.Require().NoError(err)

	fresh := suite.invite()
	assert.NotEqual(suite.T(), inv.ID, fresh.ID)
	assert.Equal(suite.T(), models.InvitationPending, fresh.Status)
}

func (suite *InvitationServiceTestSuite) TestRespond_OnlyInvitedTeacher() {
	inv := suite.invite()

	_, err := suite.invSvc.Respond(inv.ID, "approved", suite.bob.ID, models.RoleStudent)
	suite.Require().Error(err)
	assert.True(suite.T(), apperrors.Is(err, apperrors.KindForbidden))
}

func (suite *InvitationServiceTestSuite) TestRespond_InvalidDecision() {
	inv := suite.invite()

	_, err := suite.invSvc.Respond(inv.ID, "maybe", suite.prof.ID, models.RoleTeacher)
	suite.Require().Error(err)
	assert.True(suite.T(), apperrors.Is(err, apperrors.KindValidation))
}

func (suite *InvitationServiceTestSuite) TestRespond_ApprovalToleratesExistingMembership() {
	inv := suite.invite()
	// The teacher somehow already joined, e.g. a retried approval.
	suite.addMember(suite.group.ID, suite.prof.ID, models.RoleTeacher)

	resolved, err := suite.invSvc.Respond(inv.ID, "approved", suite.prof.ID, models.RoleTeacher)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.InvitationApproved, resolved.Status)

	var count int64
	suite.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", suite.group.ID, suite.prof.ID).
		Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *InvitationServiceTestSuite) TestListForTeacher() {
	suite.invite()

	invitations, err := suite.invSvc.ListForTeacher(suite.prof.ID)
	suite.Require().NoError(err)
	suite.Require().Len(invitations, 1)
	assert.Equal(suite.T(), "G", invitations[0].Group.Name)
	assert.Equal(suite.T(), "alice", invitations[0].InvitedBy.Name)
}

func TestInvitationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvitationServiceTestSuite))
}
