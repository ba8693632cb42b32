package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/wfunc/match-game/internal/models"
	"gorm.io/gorm"
)

// RoundRecordRepositoryTestSuite 回合记录仓储测试套件
type RoundRecordRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo RoundRecordRepository
}

func (suite *RoundRecordRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.repo = NewRoundRecordRepository(suite.db)
}

func (suite *RoundRecordRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

func (suite *RoundRecordRepositoryTestSuite) createRecord(userID uint, outcome string) *models.RoundRecord {
	record := &models.RoundRecord{
		RoundNo:     uuid.New().String(),
		UserID:      userID,
		Username:    fmt.Sprintf("user-%d", userID),
		BetAmount:   10,
		Outcome:     outcome,
		FirstSymbol: "🍎",
		Grid:        models.StringArray{"🍎", "🍌", "🍇", "🍒", "💎", "7️⃣"},
	}
	err := suite.repo.Create(context.Background(), record)
	assert.NoError(suite.T(), err)
	return record
}

// TestRoundRecordRepository_Create 测试创建回合记录
func (suite *RoundRecordRepositoryTestSuite) TestRoundRecordRepository_Create() {
	ctx := context.Background()

	record := suite.createRecord(1, "WIN")
	assert.NotZero(suite.T(), record.ID)

	found, err := suite.repo.FindByRoundNo(ctx, record.RoundNo)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), record.Outcome, found.Outcome)
	// 格子内容JSON序列化后能完整取回
	assert.Len(suite.T(), found.Grid, 6)
	assert.Equal(suite.T(), "🍎", found.Grid[0])
}

// TestRoundRecordRepository_GetByUser 测试按用户分页查询
func (suite *RoundRecordRepositoryTestSuite) TestRoundRecordRepository_GetByUser() {
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		suite.createRecord(7, "LOSS")
	}
	suite.createRecord(8, "WIN")

	pagination := NewPagination(1, 10)
	records, err := suite.repo.GetByUser(ctx, 7, pagination)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), records, 10)
	assert.Equal(suite.T(), int64(15), pagination.Total)

	pagination = NewPagination(2, 10)
	records, err = suite.repo.GetByUser(ctx, 7, pagination)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), records, 5)
}

// TestRoundRecordRepository_CountByOutcome 测试结果统计
func (suite *RoundRecordRepositoryTestSuite) TestRoundRecordRepository_CountByOutcome() {
	ctx := context.Background()

	suite.createRecord(1, "WIN")
	suite.createRecord(1, "WIN")
	suite.createRecord(2, "LOSS")
	suite.createRecord(3, "NEAR_MISS")

	counts, err := suite.repo.CountByOutcome(ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), counts["WIN"])
	assert.Equal(suite.T(), int64(1), counts["LOSS"])
	assert.Equal(suite.T(), int64(1), counts["NEAR_MISS"])
}

// TestRoundRecordRepository_CountByUser 测试用户回合计数
func (suite *RoundRecordRepositoryTestSuite) TestRoundRecordRepository_CountByUser() {
	ctx := context.Background()

	suite.createRecord(5, "WIN")
	suite.createRecord(5, "LOSS")

	count, err := suite.repo.CountByUser(ctx, 5)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), count)
}

func TestRoundRecordRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RoundRecordRepositoryTestSuite))
}
