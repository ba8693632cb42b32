package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	apperrors "github.com/wfunc/match-game/internal/errors"
	"github.com/wfunc/match-game/internal/models"
	"gorm.io/gorm"
)

// UserRepositoryTestSuite 用户仓储测试套件
type UserRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo UserRepository
}

func (suite *UserRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.repo = NewUserRepository(suite.db)
}

func (suite *UserRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// TestUserRepository_Create 测试创建用户
func (suite *UserRepositoryTestSuite) TestUserRepository_Create() {
	ctx := context.Background()

	user := &models.User{
		Username: "testuser",
		Nickname: "Test User",
		Status:   "active",
		Credits:  100,
	}

	err := suite.repo.Create(ctx, user)
	assert.NoError(suite.T(), err)
	assert.NotZero(suite.T(), user.ID)

	// 验证数据
	found, err := suite.repo.FindByID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.Username, found.Username)
	assert.Equal(suite.T(), int64(100), found.Credits)
}

// TestUserRepository_GetOrCreate 测试按用户名建档
func (suite *UserRepositoryTestSuite) TestUserRepository_GetOrCreate() {
	ctx := context.Background()

	// 首次出现自动建档并给初始积分
	user, err := suite.repo.GetOrCreate(ctx, "newplayer", 100)
	assert.NoError(suite.T(), err)
	assert.NotZero(suite.T(), user.ID)
	assert.Equal(suite.T(), "newplayer", user.Username)
	assert.Equal(suite.T(), int64(100), user.Credits)
	assert.Equal(suite.T(), int64(0), user.TotalSpent)

	// 再次获取返回同一条记录，不重置积分
	err = suite.repo.Debit(ctx, user.ID, 30)
	assert.NoError(suite.T(), err)

	again, err := suite.repo.GetOrCreate(ctx, "newplayer", 100)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, again.ID)
	assert.Equal(suite.T(), int64(70), again.Credits)
}

// TestUserRepository_Debit 测试扣减积分
func (suite *UserRepositoryTestSuite) TestUserRepository_Debit() {
	ctx := context.Background()

	user, err := suite.repo.GetOrCreate(ctx, "debituser", 100)
	assert.NoError(suite.T(), err)

	// 正常扣减：积分减少，消费累加
	err = suite.repo.Debit(ctx, user.ID, 40)
	assert.NoError(suite.T(), err)

	found, err := suite.repo.FindByID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(60), found.Credits)
	assert.Equal(suite.T(), int64(40), found.TotalSpent)

	// 余额恰好够用
	err = suite.repo.Debit(ctx, user.ID, 60)
	assert.NoError(suite.T(), err)

	// 余额不足：不产生任何变更
	err = suite.repo.Debit(ctx, user.ID, 1)
	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrInsufficientFunds))

	found, err = suite.repo.FindByID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), found.Credits)
	assert.Equal(suite.T(), int64(100), found.TotalSpent)
}

// TestUserRepository_Credit 测试增加积分
func (suite *UserRepositoryTestSuite) TestUserRepository_Credit() {
	ctx := context.Background()

	user, err := suite.repo.GetOrCreate(ctx, "credituser", 50)
	assert.NoError(suite.T(), err)

	err = suite.repo.Credit(ctx, user.ID, 25)
	assert.NoError(suite.T(), err)

	found, err := suite.repo.FindByID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(75), found.Credits)
	// Credit不影响累计消费
	assert.Equal(suite.T(), int64(0), found.TotalSpent)
}

// TestUserRepository_SetCredits 测试直接设置积分
func (suite *UserRepositoryTestSuite) TestUserRepository_SetCredits() {
	ctx := context.Background()

	user, err := suite.repo.GetOrCreate(ctx, "guest", 100)
	assert.NoError(suite.T(), err)

	err = suite.repo.Debit(ctx, user.ID, 95)
	assert.NoError(suite.T(), err)

	// 演示账号补满
	err = suite.repo.SetCredits(ctx, user.ID, 100)
	assert.NoError(suite.T(), err)

	found, err := suite.repo.FindByID(ctx, user.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(100), found.Credits)
	// 补满不回滚累计消费
	assert.Equal(suite.T(), int64(95), found.TotalSpent)
}

// TestUserRepository_FindByUsername 测试根据用户名查找
func (suite *UserRepositoryTestSuite) TestUserRepository_FindByUsername() {
	ctx := context.Background()

	user := &models.User{Username: "findme", Status: "active"}
	err := suite.repo.Create(ctx, user)
	assert.NoError(suite.T(), err)

	found, err := suite.repo.FindByUsername(ctx, "findme")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, found.ID)

	// 测试不存在的用户
	_, err = suite.repo.FindByUsername(ctx, "notexist")
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "用户不存在")
}

func TestUserRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}
