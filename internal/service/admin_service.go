package service

import (
	"context"

	"github.com/wfunc/match-game/internal/game"
	"github.com/wfunc/match-game/internal/repository"
	"go.uber.org/zap"
)

// adminService 管理端服务实现
type adminService struct {
	settings  *game.Settings
	overrides *game.OverrideStore
	sessions  *game.SessionManager
	roundRepo repository.RoundRecordRepository
	log       *zap.Logger
}

// NewAdminService 创建管理端服务
func NewAdminService(
	settings *game.Settings,
	overrides *game.OverrideStore,
	sessions *game.SessionManager,
	roundRepo repository.RoundRecordRepository,
	log *zap.Logger,
) AdminService {
	return &adminService{
		settings:  settings,
		overrides: overrides,
		sessions:  sessions,
		roundRepo: roundRepo,
		log:       log,
	}
}

// SetDifficulty 设置全局难度，立即对所有后续判定生效
func (s *adminService) SetDifficulty(ctx context.Context, value string) error {
	difficulty, err := game.ParseDifficulty(value)
	if err != nil {
		return err
	}

	s.settings.SetDifficulty(difficulty)
	s.log.Info("难度已调整", zap.String("difficulty", value))
	return nil
}

// Difficulty 读取当前难度
func (s *adminService) Difficulty(ctx context.Context) string {
	return string(s.settings.Difficulty())
}

// SetOverride 设置用户下一回合的强制结果
//
// 仅对目标用户的下一次init生效一次，重复设置覆盖旧值。
func (s *adminService) SetOverride(ctx context.Context, username, outcome string) error {
	parsed, err := game.ParseOutcome(outcome)
	if err != nil {
		return err
	}

	s.overrides.Set(username, parsed)
	s.log.Info("强制结果已设置",
		zap.String("username", username),
		zap.String("outcome", outcome),
	)
	return nil
}

// Stats 运营统计
func (s *adminService) Stats(ctx context.Context) (*AdminStats, error) {
	counts, err := s.roundRepo.CountByOutcome(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &AdminStats{
		Difficulty:       string(s.settings.Difficulty()),
		ActiveRounds:     s.sessions.ActiveCount(),
		PendingOverrides: s.overrides.Len(),
		TotalRounds:      total,
		OutcomeCounts:    counts,
	}, nil
}
