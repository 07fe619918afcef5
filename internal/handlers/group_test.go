package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/group-collab-api/internal/constants"
	"github.com/yukikurage/group-collab-api/internal/models"
	"github.com/yukikurage/group-collab-api/internal/repository"
	"github.com/yukikurage/group-collab-api/internal/services"
)

// GroupHandlerTestSuite defines the test suite for GroupHandler
type GroupHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *GroupHandler
}

// SetupTest runs before each test
func (suite *GroupHandlerTestSuite) SetupTest() {
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

	groupService := services.NewGroupService(
		repository.NewGroupRepository(suite.db),
		repository.NewMembershipRepository(suite.db),
		repository.NewUserRepository(suite.db),
		zap.NewNop(),
	)
	suite.handler = NewGroupHandler(groupService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *GroupHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *GroupHandlerTestSuite) createTestUser(name string, role models.UserRole) *models.User {
	user := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	suite.db.Create(user)
	return user
}

func (suite *GroupHandlerTestSuite) createTestGroup(name string, creatorID uint64) *models.Group {
	group := &models.Group{
		Name:      name,
		JoinCode:  name + "CODE",
		CreatorID: creatorID,
	}
	suite.db.Create(group)
	suite.db.Create(&models.GroupMember{GroupID: group.ID, UserID: creatorID, Role: models.RoleStudent})
	return group
}

// Helper function to create an authenticated context
func (suite *GroupHandlerTestSuite) createAuthContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if user != nil {
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUserRole, user.Role)
	}

	return c, w
}

// Helper function to set group context (simulates RequireGroupAccess middleware)
func (suite *GroupHandlerTestSuite) setGroupContext(c *gin.Context, group models.Group) {
	c.Set("group", group)
}

// TestCreateGroup_Success tests successful group creation
func (suite *GroupHandlerTestSuite) TestCreateGroup_Success() {
	user := suite.createTestUser("alice", models.RoleStudent)

	body, _ := json.Marshal(map[string]interface{}{
		"name":        "Study Group",
		"description": "Final project",
	})

	c, w := suite.createAuthContext("POST", "/api/groups", body, user)

	suite.handler.CreateGroup(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Study Group", response["name"])
	// Creator sees the join code.
	assert.NotEmpty(suite.T(), response["join_code"])
}

// TestCreateGroup_Unauthorized tests creation without authentication
func (suite *GroupHandlerTestSuite) TestCreateGroup_Unauthorized() {
	body, _ := json.Marshal(map[string]interface{}{"name": "Study Group"})

	c, w := suite.createAuthContext("POST", "/api/groups", body, nil)

	suite.handler.CreateGroup(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestCreateGroup_MissingName tests creation with a missing name
func (suite *GroupHandlerTestSuite) TestCreateGroup_MissingName() {
	user := suite.createTestUser("alice", models.RoleStudent)

	body, _ := json.Marshal(map[string]interface{}{"description": "no name"})

	c, w := suite.createAuthContext("POST", "/api/groups", body, user)

	suite.handler.CreateGroup(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestJoinGroup_Success tests joining via join code
func (suite *GroupHandlerTestSuite) TestJoinGroup_Success() {
	alice := suite.createTestUser("alice", models.RoleStudent)
	bob := suite.createTestUser("bob", models.RoleStudent)
	group := suite.createTestGroup("G", alice.ID)

	body, _ := json.Marshal(map[string]interface{}{"join_code": group.JoinCode})

	c, w := suite.createAuthContext("POST", "/api/groups/join", body, bob)

	suite.handler.JoinGroup(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var member models.GroupMember
	err := suite.db.Where("group_id = ? AND user_id = ?", group.ID, bob.ID).First(&member).Error
	assert.NoError(suite.T(), err)
}

// TestJoinGroup_InvalidCode tests joining with a bad code
func (suite *GroupHandlerTestSuite) TestJoinGroup_InvalidCode() {
	bob := suite.createTestUser("bob", models.RoleStudent)

	body, _ := json.Marshal(map[string]interface{}{"join_code": "NOPE"})

	c, w := suite.createAuthContext("POST", "/api/groups/join", body, bob)

	suite.handler.JoinGroup(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestJoinGroup_AlreadyMember tests rejoining a group
func (suite *GroupHandlerTestSuite) TestJoinGroup_AlreadyMember() {
	alice := suite.createTestUser("alice", models.RoleStudent)
	group := suite.createTestGroup("G", alice.ID)

	body, _ := json.Marshal(map[string]interface{}{"join_code": group.JoinCode})

	c, w := suite.createAuthContext("POST", "/api/groups/join", body, alice)

	suite.handler.JoinGroup(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestGetGroup_JoinCodeHiddenFromMembers tests that only the creator sees the code
func (suite *GroupHandlerTestSuite) TestGetGroup_JoinCodeHiddenFromMembers() {
	alice := suite.createTestUser("alice", models.RoleStudent)
	bob := suite.createTestUser("bob", models.RoleStudent)
	group := suite.createTestGroup("G", alice.ID)
	suite.db.Create(&models.GroupMember{GroupID: group.ID, UserID: bob.ID, Role: models.RoleStudent})

	c, w := suite.createAuthContext("GET", "/api/groups/1", nil, bob)
	suite.setGroupContext(c, *group)

	suite.handler.GetGroup(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	_, hasCode := response["join_code"]
	assert.False(suite.T(), hasCode)

	// The creator does see it.
	c, w = suite.createAuthContext("GET", "/api/groups/1", nil, alice)
	suite.setGroupContext(c, *group)

	suite.handler.GetGroup(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), group.JoinCode, response["join_code"])
}

// TestUpdateGroup_NotCreator tests update by a plain member
func (suite *GroupHandlerTestSuite) TestUpdateGroup_NotCreator() {
	alice := suite.createTestUser("alice", models.RoleStudent)
	bob := suite.createTestUser("bob", models.RoleStudent)
	group := suite.createTestGroup("G", alice.ID)
	suite.db.Create(&models.GroupMember{GroupID: group.ID, UserID: bob.ID, Role: models.RoleStudent})

	body, _ := json.Marshal(map[string]interface{}{"name": "Renamed"})

	c, w := suite.createAuthContext("PUT", "/api/groups/1", body, bob)
	suite.setGroupContext(c, *group)

	suite.handler.UpdateGroup(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestDeleteGroup_Success tests group deletion by the creator
func (suite *GroupHandlerTestSuite) TestDeleteGroup_Success() {
	alice := suite.createTestUser("alice", models.RoleStudent)
	group := suite.createTestGroup("G", alice.ID)

	c, w := suite.createAuthContext("DELETE", "/api/groups/1", nil, alice)
	suite.setGroupContext(c, *group)

	suite.handler.DeleteGroup(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Group deleted successfully", response["message"])

	var deleted models.Group
	err = suite.db.First(&deleted, group.ID).Error
	assert.Error(suite.T(), err)
}

// TestLeaveGroup_Success tests a member leaving on their own
func (suite *GroupHandlerTestSuite) TestLeaveGroup_Success() {
	alice := suite.createTestUser("alice", models.RoleStudent)
	bob := suite.createTestUser("bob", models.RoleStudent)
	group := suite.createTestGroup("G", alice.ID)
	suite.db.Create(&models.GroupMember{GroupID: group.ID, UserID: bob.ID, Role: models.RoleStudent})

	c, w := suite.createAuthContext("DELETE", "/api/groups/1/leave", nil, bob)
	suite.setGroupContext(c, *group)

	suite.handler.LeaveGroup(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var member models.GroupMember
	err := suite.db.Where("group_id = ? AND user_id = ?", group.ID, bob.ID).First(&member).Error
	assert.Error(suite.T(), err)
}

// TestRemoveMember_NotCreator tests removal attempted by a plain member
func (suite *GroupHandlerTestSuite) TestRemoveMember_NotCreator() {
	alice := suite.createTestUser("alice", models.RoleStudent)
	bob := suite.createTestUser("bob", models.RoleStudent)
	group := suite.createTestGroup("G", alice.ID)
	suite.db.Create(&models.GroupMember{GroupID: group.ID, UserID: bob.ID, Role: models.RoleStudent})

	c, w := suite.createAuthContext("DELETE", "/api/groups/1/members/1", nil, bob)
	suite.setGroupContext(c, *group)
	c.Params = gin.Params{{Key: "user_id", Value: "1"}}

	suite.handler.RemoveMember(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestListMembers_Success tests member listing
func (suite *GroupHandlerTestSuite) TestListMembers_Success() {
	alice := suite.createTestUser("alice", models.RoleStudent)
	bob := suite.createTestUser("bob", models.RoleStudent)
	group := suite.createTestGroup("G", alice.ID)
	suite.db.Create(&models.GroupMember{GroupID: group.ID, UserID: bob.ID, Role: models.RoleStudent})

	c, w := suite.createAuthContext("GET", "/api/groups/1/members", nil, alice)
	suite.setGroupContext(c, *group)

	suite.handler.ListMembers(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	members := response["members"].([]interface{})
	assert.Len(suite.T(), members, 2)
}

// TestSuite runs the test suite
func TestGroupHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GroupHandlerTestSuite))
}
