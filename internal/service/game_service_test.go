package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	apperrors "github.com/wfunc/match-game/internal/errors"
	"github.com/wfunc/match-game/internal/game"
	"github.com/wfunc/match-game/internal/models"
	"github.com/wfunc/match-game/internal/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubRandom 固定返回值的随机源
type stubRandom struct {
	f float64
	n int
}

func (r *stubRandom) Next() float64 { return r.f }

func (r *stubRandom) NextInt(min, max int) int {
	if r.n < min || r.n >= max {
		return min
	}
	return r.n
}

// fakeBroadcaster 捕获推送的回合记录
type fakeBroadcaster struct {
	records []*models.RoundRecord
}

func (b *fakeBroadcaster) BroadcastRound(record *models.RoundRecord) {
	b.records = append(b.records, record)
}

// GameServiceTestSuite 游戏服务测试套件
type GameServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	userRepo    repository.UserRepository
	roundRepo   repository.RoundRecordRepository
	settings    *game.Settings
	overrides   *game.OverrideStore
	sessions    *game.SessionManager
	rng         *stubRandom
	broadcaster *fakeBroadcaster
	svc         GameService
	admin       AdminService
	cfg         *Config
}

// SetupTest 每个测试使用全新的内存数据库和游戏引擎
func (suite *GameServiceTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(&models.User{}, &models.RoundRecord{}))

	suite.db = db
	suite.userRepo = repository.NewUserRepository(db)
	suite.roundRepo = repository.NewRoundRecordRepository(db)

	suite.cfg = DefaultConfig()
	suite.settings = game.NewSettings(game.DifficultyMedium)
	suite.overrides = game.NewOverrideStore()
	suite.sessions = game.NewSessionManager()
	suite.rng = &stubRandom{f: 0.99} // 默认不中奖，需要中奖的用例走强制结果
	suite.broadcaster = &fakeBroadcaster{}

	policy := game.NewOutcomePolicy(suite.settings, suite.overrides, suite.rng, 0.7)
	synthesizer := game.NewSynthesizer(game.DefaultSymbols, 3, suite.rng)

	log := zap.NewNop()
	suite.svc = NewGameService(suite.userRepo, suite.roundRepo, suite.sessions,
		policy, synthesizer, suite.broadcaster, suite.cfg, log)
	suite.admin = NewAdminService(suite.settings, suite.overrides, suite.sessions, suite.roundRepo, log)
}

func (suite *GameServiceTestSuite) TearDownTest() {
	sqlDB, _ := suite.db.DB()
	sqlDB.Close()
}

// TestInitRound 测试回合init：建档、扣款、存储待结算回合
func (suite *GameServiceTestSuite) TestInitRound() {
	ctx := context.Background()

	resp, err := suite.svc.InitRound(ctx, "alice", &InitRequest{BetAmount: 10, FirstSymbol: "🍎"})
	suite.NoError(err)
	suite.Equal(int64(90), resp.Credits)
	suite.Contains([]string{"WIN", "LOSS", "NEAR_MISS"}, resp.Outcome)

	// 用户已自动建档且扣款入账
	user, err := suite.userRepo.FindByUsername(ctx, "alice")
	suite.NoError(err)
	suite.Equal(int64(90), user.Credits)
	suite.Equal(int64(10), user.TotalSpent)

	// 待结算回合已存储
	round, ok := suite.sessions.Peek("alice")
	suite.True(ok)
	suite.Equal("🍎", round.FirstSymbol)
	suite.Equal(int64(10), round.BetAmount)
}

// TestInitRoundInvalidBet 测试投注金额越界
func (suite *GameServiceTestSuite) TestInitRoundInvalidBet() {
	ctx := context.Background()

	_, err := suite.svc.InitRound(ctx, "alice", &InitRequest{BetAmount: 0})
	suite.True(apperrors.Is(err, apperrors.ErrInvalidBet))

	_, err = suite.svc.InitRound(ctx, "alice", &InitRequest{BetAmount: suite.cfg.Game.MaxBet + 1})
	suite.True(apperrors.Is(err, apperrors.ErrInvalidBet))
}

// TestInitRoundInsufficientFunds 测试余额不足：无任何状态变更
func (suite *GameServiceTestSuite) TestInitRoundInsufficientFunds() {
	ctx := context.Background()

	user, err := suite.userRepo.GetOrCreate(ctx, "alice", 5)
	suite.NoError(err)

	_, err = suite.svc.InitRound(ctx, "alice", &InitRequest{BetAmount: 10})
	suite.True(apperrors.Is(err, apperrors.ErrInsufficientFunds))

	// 余额与消费都未变更，也没有待结算回合
	user, err = suite.userRepo.FindByID(ctx, user.ID)
	suite.NoError(err)
	suite.Equal(int64(5), user.Credits)
	suite.Equal(int64(0), user.TotalSpent)
	_, ok := suite.sessions.Peek("alice")
	suite.False(ok)
}

// TestInitRoundExactBalanceTwice 测试余额恰好够一次投注时第二次init失败
func (suite *GameServiceTestSuite) TestInitRoundExactBalanceTwice() {
	ctx := context.Background()

	_, err := suite.userRepo.GetOrCreate(ctx, "alice", 10)
	suite.NoError(err)

	resp, err := suite.svc.InitRound(ctx, "alice", &InitRequest{BetAmount: 10})
	suite.NoError(err)
	suite.Equal(int64(0), resp.Credits)

	_, err = suite.svc.InitRound(ctx, "alice", &InitRequest{BetAmount: 10})
	suite.True(apperrors.Is(err, apperrors.ErrInsufficientFunds))
}

// TestGuestRefill 测试演示账号余额不足时自动补满
func (suite *GameServiceTestSuite) TestGuestRefill() {
	ctx := context.Background()

	user, err := suite.userRepo.GetOrCreate(ctx, "guest", 100)
	suite.NoError(err)
	suite.NoError(suite.userRepo.SetCredits(ctx, user.ID, 3))

	resp, err := suite.svc.InitRound(ctx, "guest", &InitRequest{BetAmount: 10})
	suite.NoError(err)
	// 补满到100再扣10
	suite.Equal(int64(90), resp.Credits)
}

// TestGuestRefillDisabled 测试补满开关关闭后演示账号照常报余额不足
func (suite *GameServiceTestSuite) TestGuestRefillDisabled() {
	ctx := context.Background()
	suite.cfg.Game.GuestRefill = false

	user, err := suite.userRepo.GetOrCreate(ctx, "guest", 100)
	suite.NoError(err)
	suite.NoError(suite.userRepo.SetCredits(ctx, user.ID, 3))

	_, err = suite.svc.InitRound(ctx, "guest", &InitRequest{BetAmount: 10})
	suite.True(apperrors.Is(err, apperrors.ErrInsufficientFunds))
}

// TestCompleteWithoutInit 测试没有待结算回合时complete失败
func (suite *GameServiceTestSuite) TestCompleteWithoutInit() {
	ctx := context.Background()

	_, err := suite.svc.CompleteRound(ctx, "alice", &CompleteRequest{SelectedIndices: []int{0, 1}})
	suite.True(apperrors.Is(err, apperrors.ErrInvalidSession))
}

// TestCompleteInvalidSelection 测试选牌不合法时不消费待结算回合
func (suite *GameServiceTestSuite) TestCompleteInvalidSelection() {
	ctx := context.Background()

	_, err := suite.svc.InitRound(ctx, "alice", &InitRequest{BetAmount: 10, FirstSymbol: "🍎"})
	suite.NoError(err)

	_, err = suite.svc.CompleteRound(ctx, "alice", &CompleteRequest{SelectedIndices: []int{0}})
	suite.True(apperrors.Is(err, apperrors.ErrInvalidSelection))

	// 待结算回合仍在，纠正后可以正常结算
	resp, err := suite.svc.CompleteRound(ctx, "alice", &CompleteRequest{SelectedIndices: []int{0, 1}})
	suite.NoError(err)
	suite.Len(resp.Grid, game.GridSize)
}

// TestFullRoundWithOverride 测试强制WIN的完整两阶段流程
func (suite *GameServiceTestSuite) TestFullRoundWithOverride() {
	ctx := context.Background()

	suite.NoError(suite.admin.SetOverride(ctx, "alice", "WIN"))

	// init：默认随机源永不中奖，WIN只能来自强制结果
	initResp, err := suite.svc.InitRound(ctx, "alice", &InitRequest{BetAmount: 10, FirstSymbol: "🍎"})
	suite.NoError(err)
	suite.Equal("WIN", initResp.Outcome)
	suite.Equal(int64(90), initResp.Credits)

	// complete：选中的两个位置必须匹配
	resp, err := suite.svc.CompleteRound(ctx, "alice", &CompleteRequest{SelectedIndices: []int{0, 1}})
	suite.NoError(err)
	suite.Equal("WIN", resp.Outcome)
	suite.Equal("🍎", resp.Grid[0])
	suite.Equal("🍎", resp.Grid[1])
	suite.Equal(int64(90), resp.Credits)
	suite.Equal("YOU WON!", resp.Message)
	suite.NotEmpty(resp.RoundNo)

	// 回合记录已落库且标记为强制
	record, err := suite.roundRepo.FindByRoundNo(ctx, resp.RoundNo)
	suite.NoError(err)
	suite.Equal("alice", record.Username)
	suite.Equal("WIN", record.Outcome)
	suite.True(record.Overridden)

	// 管理端监控收到推送
	suite.Len(suite.broadcaster.records, 1)
	suite.Equal(resp.RoundNo, suite.broadcaster.records[0].RoundNo)

	// 回合消费后再次complete失败
	_, err = suite.svc.CompleteRound(ctx, "alice", &CompleteRequest{SelectedIndices: []int{0, 1}})
	suite.True(apperrors.Is(err, apperrors.ErrInvalidSession))
}

// TestLossRoundMessage 测试未中奖的结算消息与格子
func (suite *GameServiceTestSuite) TestLossRoundMessage() {
	ctx := context.Background()

	suite.NoError(suite.admin.SetOverride(ctx, "alice", "LOSS"))

	_, err := suite.svc.InitRound(ctx, "alice", &InitRequest{BetAmount: 10, FirstSymbol: "🍎"})
	suite.NoError(err)

	resp, err := suite.svc.CompleteRound(ctx, "alice", &CompleteRequest{SelectedIndices: []int{0, 1}})
	suite.NoError(err)
	suite.Equal("LOSS", resp.Outcome)
	suite.Equal("🍎", resp.Grid[0])
	suite.NotEqual("🍎", resp.Grid[1])
	suite.Equal("Better luck next time", resp.Message)
}

// TestRepeatedInitOverwrites 测试重复init覆盖待结算回合且不退款
func (suite *GameServiceTestSuite) TestRepeatedInitOverwrites() {
	ctx := context.Background()

	_, err := suite.svc.InitRound(ctx, "alice", &InitRequest{BetAmount: 10, FirstSymbol: "🍎"})
	suite.NoError(err)

	resp, err := suite.svc.InitRound(ctx, "alice", &InitRequest{BetAmount: 20, FirstSymbol: "🍌"})
	suite.NoError(err)
	// 两次扣款都生效
	suite.Equal(int64(70), resp.Credits)

	// 只剩下后一个回合
	round, ok := suite.sessions.Peek("alice")
	suite.True(ok)
	suite.Equal("🍌", round.FirstSymbol)
	suite.Equal(int64(20), round.BetAmount)
}

// TestGetHistory 测试回合历史查询
func (suite *GameServiceTestSuite) TestGetHistory() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := suite.svc.InitRound(ctx, "alice", &InitRequest{BetAmount: 5, FirstSymbol: "🍎"})
		suite.NoError(err)
		_, err = suite.svc.CompleteRound(ctx, "alice", &CompleteRequest{SelectedIndices: []int{0, 1}})
		suite.NoError(err)
	}

	records, total, err := suite.svc.GetHistory(ctx, "alice", 1, 10)
	suite.NoError(err)
	suite.Equal(int64(3), total)
	suite.Len(records, 3)
}

// TestAdminStats 测试运营统计
func (suite *GameServiceTestSuite) TestAdminStats() {
	ctx := context.Background()

	suite.NoError(suite.admin.SetDifficulty(ctx, "HARD"))
	suite.NoError(suite.admin.SetOverride(ctx, "bob", "WIN"))

	_, err := suite.svc.InitRound(ctx, "alice", &InitRequest{BetAmount: 5, FirstSymbol: "🍎"})
	suite.NoError(err)
	_, err = suite.svc.CompleteRound(ctx, "alice", &CompleteRequest{SelectedIndices: []int{0, 1}})
	suite.NoError(err)
	_, err = suite.svc.InitRound(ctx, "carol", &InitRequest{BetAmount: 5, FirstSymbol: "🍌"})
	suite.NoError(err)

	stats, err := suite.admin.Stats(ctx)
	suite.NoError(err)
	suite.Equal("HARD", stats.Difficulty)
	suite.Equal(1, stats.ActiveRounds)     // carol的回合尚未结算
	suite.Equal(1, stats.PendingOverrides) // bob的强制结果未消费
	suite.Equal(int64(1), stats.TotalRounds)
}

// TestAdminSetDifficultyInvalid 测试非法难度被拒绝
func (suite *GameServiceTestSuite) TestAdminSetDifficultyInvalid() {
	ctx := context.Background()

	err := suite.admin.SetDifficulty(ctx, "NIGHTMARE")
	suite.True(apperrors.Is(err, apperrors.ErrInvalidDifficulty))
	suite.Equal("MEDIUM", suite.admin.Difficulty(ctx))
}

// TestAdminSetOverrideInvalid 测试非法强制结果被拒绝
func (suite *GameServiceTestSuite) TestAdminSetOverrideInvalid() {
	ctx := context.Background()

	err := suite.admin.SetOverride(ctx, "alice", "JACKPOT")
	suite.True(apperrors.Is(err, apperrors.ErrInvalidOutcome))
}

func TestGameServiceSuite(t *testing.T) {
	suite.Run(t, new(GameServiceTestSuite))
}
