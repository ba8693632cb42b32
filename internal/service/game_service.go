package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/wfunc/match-game/internal/errors"
	"github.com/wfunc/match-game/internal/game"
	"github.com/wfunc/match-game/internal/models"
	"github.com/wfunc/match-game/internal/repository"
	"go.uber.org/zap"
)

// 结算消息，客户端直接展示
const (
	messageWin  = "YOU WON!"
	messageLoss = "Better luck next time"
)

// gameService 游戏服务实现
//
// init与complete对同一用户在用户锁内串行执行：扣款/判定/存储
// 与消费/合成/落库各自构成临界区，杜绝重复扣款和重复结算。
type gameService struct {
	userRepo    repository.UserRepository
	roundRepo   repository.RoundRecordRepository
	sessions    *game.SessionManager
	policy      *game.OutcomePolicy
	synthesizer *game.Synthesizer
	broadcaster RoundBroadcaster
	cfg         *Config
	log         *zap.Logger
}

// NewGameService 创建游戏服务
func NewGameService(
	userRepo repository.UserRepository,
	roundRepo repository.RoundRecordRepository,
	sessions *game.SessionManager,
	policy *game.OutcomePolicy,
	synthesizer *game.Synthesizer,
	broadcaster RoundBroadcaster,
	cfg *Config,
	log *zap.Logger,
) GameService {
	return &gameService{
		userRepo:    userRepo,
		roundRepo:   roundRepo,
		sessions:    sessions,
		policy:      policy,
		synthesizer: synthesizer,
		broadcaster: broadcaster,
		cfg:         cfg,
		log:         log,
	}
}

// InitRound 回合第一阶段
//
// 扣款立即生效且不随complete失败回滚。已有待结算回合时直接
// 覆盖，旧回合的扣款不退还。
func (s *gameService) InitRound(ctx context.Context, username string, req *InitRequest) (*InitResponse, error) {
	if req.BetAmount < s.cfg.Game.MinBet || req.BetAmount > s.cfg.Game.MaxBet {
		return nil, apperrors.Newf(apperrors.ErrInvalidBet,
			"投注 %d 超出范围 [%d, %d]", req.BetAmount, s.cfg.Game.MinBet, s.cfg.Game.MaxBet)
	}

	lock := s.sessions.UserLock(username)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.userRepo.GetOrCreate(ctx, username, s.cfg.Game.InitialCredits)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}

	// 演示账号余额不足时自动补满，避免页面刷新后直接400
	if s.cfg.Game.GuestRefill && username == s.cfg.Game.GuestUsername && user.Credits < req.BetAmount {
		if err := s.userRepo.SetCredits(ctx, user.ID, s.cfg.Game.InitialCredits); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrDatabaseUpdate)
		}
		user.Credits = s.cfg.Game.InitialCredits
	}

	if err := s.userRepo.Debit(ctx, user.ID, req.BetAmount); err != nil {
		return nil, err
	}
	user.Credits -= req.BetAmount
	user.TotalSpent += req.BetAmount

	// 档位按含本次投注的累计消费计算
	outcome, overridden := s.policy.Decide(username, user.TotalSpent)

	firstSymbol := req.FirstSymbol
	if firstSymbol == "" {
		firstSymbol = s.synthesizer.RandomBaseSymbol()
	}

	s.sessions.Put(username, &game.PendingRound{
		Outcome:     outcome,
		FirstSymbol: firstSymbol,
		BetAmount:   req.BetAmount,
		Overridden:  overridden,
		CreatedAt:   time.Now(),
	})

	s.log.Info("回合开始",
		zap.String("username", username),
		zap.Int64("bet", req.BetAmount),
		zap.String("outcome", string(outcome)),
		zap.Bool("overridden", overridden),
		zap.Int64("credits", user.Credits),
	)

	return &InitResponse{
		Outcome: string(outcome),
		Credits: user.Credits,
	}, nil
}

// CompleteRound 回合第二阶段
//
// 选牌不合法时不消费待结算回合，客户端可纠正后重试；
// 没有待结算回合时返回InvalidSession，已扣积分不退。
func (s *gameService) CompleteRound(ctx context.Context, username string, req *CompleteRequest) (*CompleteResponse, error) {
	if err := game.ValidateSelection(req.SelectedIndices); err != nil {
		return nil, err
	}

	lock := s.sessions.UserLock(username)
	lock.Lock()
	defer lock.Unlock()

	round, ok := s.sessions.Consume(username)
	if !ok {
		return nil, apperrors.New(apperrors.ErrInvalidSession)
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}

	grid := s.synthesizer.Synthesize(round.Outcome, round.FirstSymbol, req.SelectedIndices[0], req.SelectedIndices[1])

	record := &models.RoundRecord{
		RoundNo:     uuid.NewString(),
		UserID:      user.ID,
		Username:    username,
		BetAmount:   round.BetAmount,
		Outcome:     string(round.Outcome),
		FirstSymbol: round.FirstSymbol,
		Grid:        models.StringArray(grid),
		Overridden:  round.Overridden,
	}

	// 记录仅作审计，落库失败不影响本回合结算
	if err := s.roundRepo.Create(ctx, record); err != nil {
		s.log.Error("回合记录落库失败", zap.String("round_no", record.RoundNo), zap.Error(err))
	} else if s.broadcaster != nil {
		s.broadcaster.BroadcastRound(record)
	}

	message := messageLoss
	if round.Outcome == game.OutcomeWin {
		message = messageWin
	}

	s.log.Info("回合结束",
		zap.String("username", username),
		zap.String("round_no", record.RoundNo),
		zap.String("outcome", string(round.Outcome)),
	)

	return &CompleteResponse{
		Outcome: string(round.Outcome),
		Grid:    grid,
		Credits: user.Credits,
		Message: message,
		RoundNo: record.RoundNo,
	}, nil
}

// GetHistory 查询用户回合历史
func (s *gameService) GetHistory(ctx context.Context, username string, page, pageSize int) ([]*models.RoundRecord, int64, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrNotFound)
	}

	pagination := repository.NewPagination(page, pageSize)
	records, err := s.roundRepo.GetByUser(ctx, user.ID, pagination)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}

	return records, pagination.Total, nil
}
