package service

import (
	"context"

	"github.com/wfunc/match-game/internal/models"
	"github.com/wfunc/match-game/internal/utils"
)

// AuthService 认证服务接口
type AuthService interface {
	// Login 登录，普通玩家仅凭用户名建档放行，管理员需校验口令
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	// ValidateToken 验证访问令牌
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
}

// GameService 游戏服务接口
type GameService interface {
	// InitRound 回合第一阶段：扣款、判定结果、存储待结算回合
	InitRound(ctx context.Context, username string, req *InitRequest) (*InitResponse, error)
	// CompleteRound 回合第二阶段：消费待结算回合、合成格子、落库
	CompleteRound(ctx context.Context, username string, req *CompleteRequest) (*CompleteResponse, error)
	// GetHistory 查询用户回合历史
	GetHistory(ctx context.Context, username string, page, pageSize int) ([]*models.RoundRecord, int64, error)
}

// AdminService 管理端服务接口
type AdminService interface {
	// SetDifficulty 设置全局难度
	SetDifficulty(ctx context.Context, value string) error
	// Difficulty 读取当前难度
	Difficulty(ctx context.Context) string
	// SetOverride 设置用户下一回合的强制结果
	SetOverride(ctx context.Context, username, outcome string) error
	// Stats 运营统计
	Stats(ctx context.Context) (*AdminStats, error)
}

// RoundBroadcaster 回合事件推送接口（WebSocket管理端监控实现）
type RoundBroadcaster interface {
	BroadcastRound(record *models.RoundRecord)
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1,max=50"`
	Password string `json:"password"` // 仅管理员账号需要
	IP       string `json:"-"`        // 客户端IP，由handler设置
}

// AuthResponse 认证响应
type AuthResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	TokenType string       `json:"token_type"`
}

// InitRequest 回合init请求
type InitRequest struct {
	BetAmount   int64  `json:"bet_amount" binding:"required"`
	FirstSymbol string `json:"first_symbol"` // 客户端已展示的第一张牌，可空
}

// InitResponse 回合init响应
type InitResponse struct {
	Outcome string `json:"outcome"`
	Credits int64  `json:"credits"`
}

// CompleteRequest 回合complete请求
type CompleteRequest struct {
	SelectedIndices []int `json:"selected_indices"`
}

// CompleteResponse 回合complete响应
type CompleteResponse struct {
	Outcome string   `json:"outcome"`
	Grid    []string `json:"grid"`
	Credits int64    `json:"credits"`
	Message string   `json:"message"`
	RoundNo string   `json:"round_no"`
}

// AdminStats 运营统计
type AdminStats struct {
	Difficulty       string           `json:"difficulty"`
	ActiveRounds     int              `json:"active_rounds"`
	PendingOverrides int              `json:"pending_overrides"`
	TotalRounds      int64            `json:"total_rounds"`
	OutcomeCounts    map[string]int64 `json:"outcome_counts"`
}
