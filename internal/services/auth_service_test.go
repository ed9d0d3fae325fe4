// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/pazarly/pazar-backend/internal/config"
	"github.com/pazarly/pazar-backend/internal/models"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewAuthService(suite.db, &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  24,
			RefreshTokenTTL: 168,
		},
	})
}

func (suite *AuthServiceTestSuite) registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Username: "ayse_store",
		Email:    "ayse@example.com",
		Password: "SecurePass123",
		FullName: "Ayşe Yılmaz",
		UserType: models.UserTypeSeller,
	}
}

func (suite *AuthServiceTestSuite) TestRegisterIssuesTokens() {
	resp, err := suite.service.Register(suite.registerRequest())
	require.NoError(suite.T(), err)

	assert.NotEmpty(suite.T(), resp.AccessToken)
	assert.NotEmpty(suite.T(), resp.RefreshToken)
	assert.Equal(suite.T(), "Bearer", resp.TokenType)
	assert.Equal(suite.T(), 24*3600, resp.ExpiresIn)
	assert.Equal(suite.T(), models.UserTypeSeller, resp.User.UserType)
}

func (suite *AuthServiceTestSuite) TestRegisterRejectsDuplicates() {
	_, err := suite.service.Register(suite.registerRequest())
	require.NoError(suite.T(), err)

	dupEmail := suite.registerRequest()
	dupEmail.Username = "other_user"
	_, err = suite.service.Register(dupEmail)
	assert.ErrorIs(suite.T(), err, ErrEmailTaken)

	dupUsername := suite.registerRequest()
	dupUsername.Email = "other@example.com"
	_, err = suite.service.Register(dupUsername)
	assert.ErrorIs(suite.T(), err, ErrUsernameTaken)
}

func (suite *AuthServiceTestSuite) TestRegisterRejectsWeakPassword() {
	req := suite.registerRequest()
	req.Password = "password"

	_, err := suite.service.Register(req)
	assert.Error(suite.T(), err)
}

func (suite *AuthServiceTestSuite) TestLogin() {
	_, err := suite.service.Register(suite.registerRequest())
	require.NoError(suite.T(), err)

	resp, err := suite.service.Login(&LoginRequest{
		Email:    "ayse@example.com",
		Password: "SecurePass123",
	})
	require.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), resp.AccessToken)
	assert.NotNil(suite.T(), resp.User.LastLoginAt)

	_, err = suite.service.Login(&LoginRequest{
		Email:    "ayse@example.com",
		Password: "WrongPass123",
	})
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLoginSuspendedAccount() {
	resp, err := suite.service.Register(suite.registerRequest())
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.db.Model(&models.User{}).
		Where("id = ?", resp.User.ID).
		Update("status", models.UserStatusSuspended).Error)

	_, err = suite.service.Login(&LoginRequest{
		Email:    "ayse@example.com",
		Password: "SecurePass123",
	})
	assert.ErrorIs(suite.T(), err, ErrAccountSuspended)
}

func (suite *AuthServiceTestSuite) TestRefreshToken() {
	resp, err := suite.service.Register(suite.registerRequest())
	require.NoError(suite.T(), err)

	refreshed, err := suite.service.RefreshToken(resp.RefreshToken)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), resp.User.ID, refreshed.User.ID)

	_, err = suite.service.RefreshToken("not-a-token")
	assert.Error(suite.T(), err)
}

func (suite *AuthServiceTestSuite) TestUpdateProfile() {
	resp, err := suite.service.Register(suite.registerRequest())
	require.NoError(suite.T(), err)

	name := "Ayşe Demir"
	phone := "+905551112233"
	user, err := suite.service.UpdateProfile(resp.User.ID, &UpdateProfileRequest{
		FullName: &name,
		Phone:    &phone,
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Ayşe Demir", user.FullName)
	assert.Equal(suite.T(), "+905551112233", user.Phone)

	var reloaded models.User
	require.NoError(suite.T(), suite.db.First(&reloaded, resp.User.ID).Error)
	assert.Equal(suite.T(), "Ayşe Demir", reloaded.FullName)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
