package service

import (
	"time"

	"github.com/wfunc/match-game/internal/config"
	"github.com/wfunc/match-game/internal/game"
	"github.com/wfunc/match-game/internal/repository"
	"github.com/wfunc/match-game/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config 服务配置
type Config struct {
	Game        config.GameConfig
	Admin       config.AdminConfig
	JWTSecret   string
	TokenExpiry time.Duration
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Game: config.GameConfig{
			Symbols:           game.DefaultSymbols,
			BaseSymbolCount:   3,
			InitialCredits:    100,
			MinBet:            1,
			MaxBet:            100,
			DefaultDifficulty: string(game.DifficultyMedium),
			NearMissRate:      0.7,
			GuestUsername:     "guest",
			GuestRefill:       true,
		},
		JWTSecret:   "match-game-dev-secret",
		TokenExpiry: 24 * time.Hour,
	}
}

// Services 服务集合
type Services struct {
	Auth  AuthService
	Game  GameService
	Admin AdminService
}

// NewServices 创建服务集合
//
// 游戏引擎的共享状态（难度设置、强制结果、回合状态）在这里
// 组装一次，游戏服务与管理端服务引用同一份实例。
func NewServices(db *gorm.DB, cfg *Config, broadcaster RoundBroadcaster, log *zap.Logger) *Services {
	// 初始化仓储
	userRepo := repository.NewUserRepository(db)
	roundRepo := repository.NewRoundRecordRepository(db)

	// 初始化游戏引擎
	difficulty, err := game.ParseDifficulty(cfg.Game.DefaultDifficulty)
	if err != nil {
		difficulty = game.DifficultyMedium
	}
	settings := game.NewSettings(difficulty)
	overrides := game.NewOverrideStore()
	rng := game.NewCryptoRandomGenerator()
	policy := game.NewOutcomePolicy(settings, overrides, rng, cfg.Game.NearMissRate)
	synthesizer := game.NewSynthesizer(cfg.Game.Symbols, cfg.Game.BaseSymbolCount, rng)
	sessions := game.NewSessionManager()

	// 初始化JWT管理器
	jwtManager := utils.NewJWTManager(cfg.JWTSecret, cfg.TokenExpiry)

	// 初始化服务
	authService := NewAuthService(userRepo, jwtManager, cfg, log)
	gameService := NewGameService(userRepo, roundRepo, sessions, policy, synthesizer, broadcaster, cfg, log)
	adminService := NewAdminService(settings, overrides, sessions, roundRepo, log)

	return &Services{
		Auth:  authService,
		Game:  gameService,
		Admin: adminService,
	}
}
