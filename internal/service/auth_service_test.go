package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/wfunc/match-game/internal/models"
	"github.com/wfunc/match-game/internal/utils"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AuthServiceTestSuite 认证服务测试套件
type AuthServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	services *Services
}

// SetupTest 每个测试使用全新的内存数据库
func (suite *AuthServiceTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(&models.User{}, &models.RoundRecord{}))
	suite.db = db

	cfg := DefaultConfig()
	cfg.Admin.Username = "admin"
	hash, err := utils.HashPassword("admin-secret")
	suite.Require().NoError(err)
	cfg.Admin.PasswordHash = hash

	suite.services = NewServices(db, cfg, nil, zap.NewNop())
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

// TestPlayerLogin 测试玩家演示登录：用户名即身份，自动建档
func (suite *AuthServiceTestSuite) TestPlayerLogin() {
	ctx := context.Background()

	resp, err := suite.services.Auth.Login(ctx, &LoginRequest{Username: "alice", IP: "127.0.0.1"})
	suite.NoError(err)
	suite.NotEmpty(resp.Token)
	suite.Equal("Bearer", resp.TokenType)
	suite.Equal("alice", resp.User.Username)
	suite.Equal("player", resp.User.Role)
	suite.Equal(int64(100), resp.User.Credits)

	// 令牌可被验证且携带角色
	claims, err := suite.services.Auth.ValidateToken(ctx, resp.Token)
	suite.NoError(err)
	suite.Equal("alice", claims.Username)
	suite.Equal("player", claims.Role)
}

// TestPlayerLoginIdempotent 测试重复登录不会重复建档
func (suite *AuthServiceTestSuite) TestPlayerLoginIdempotent() {
	ctx := context.Background()

	first, err := suite.services.Auth.Login(ctx, &LoginRequest{Username: "alice"})
	suite.NoError(err)

	second, err := suite.services.Auth.Login(ctx, &LoginRequest{Username: "alice"})
	suite.NoError(err)
	suite.Equal(first.User.ID, second.User.ID)
}

// TestAdminLogin 测试管理员登录需要口令
func (suite *AuthServiceTestSuite) TestAdminLogin() {
	ctx := context.Background()

	// 无口令或错误口令都拒绝
	_, err := suite.services.Auth.Login(ctx, &LoginRequest{Username: "admin"})
	suite.ErrorIs(err, ErrInvalidCredentials)

	_, err = suite.services.Auth.Login(ctx, &LoginRequest{Username: "admin", Password: "wrong"})
	suite.ErrorIs(err, ErrInvalidCredentials)

	// 正确口令发放admin角色令牌
	resp, err := suite.services.Auth.Login(ctx, &LoginRequest{Username: "admin", Password: "admin-secret"})
	suite.NoError(err)
	suite.Equal("admin", resp.User.Role)

	claims, err := suite.services.Auth.ValidateToken(ctx, resp.Token)
	suite.NoError(err)
	suite.Equal("admin", claims.Role)
}

// TestBannedUserLogin 测试被封禁用户无法登录
func (suite *AuthServiceTestSuite) TestBannedUserLogin() {
	ctx := context.Background()

	_, err := suite.services.Auth.Login(ctx, &LoginRequest{Username: "alice"})
	suite.NoError(err)

	suite.NoError(suite.db.Model(&models.User{}).
		Where("username = ?", "alice").
		Update("status", "banned").Error)

	_, err = suite.services.Auth.Login(ctx, &LoginRequest{Username: "alice"})
	suite.ErrorIs(err, ErrUserBanned)
}

// TestValidateInvalidToken 测试非法令牌
func (suite *AuthServiceTestSuite) TestValidateInvalidToken() {
	ctx := context.Background()

	_, err := suite.services.Auth.ValidateToken(ctx, "not-a-token")
	suite.Error(err)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
