package service

import (
	"context"
	"errors"

	"github.com/wfunc/match-game/internal/repository"
	"github.com/wfunc/match-game/internal/utils"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserBanned         = errors.New("用户已被封禁")
)

// authService 认证服务实现
//
// 普通玩家走演示登录：用户名即身份，首次出现自动建档。
// 管理员账号来自配置，必须通过口令校验才发放admin角色令牌。
type authService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	cfg        *Config
	log        *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	cfg *Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		cfg:        cfg,
		log:        log,
	}
}

// Login 登录
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	isAdmin := req.Username == s.cfg.Admin.Username && s.cfg.Admin.Username != ""

	if isAdmin {
		ok, err := utils.VerifyPassword(req.Password, s.cfg.Admin.PasswordHash)
		if err != nil || !ok {
			s.log.Warn("管理员登录失败", zap.String("username", req.Username), zap.String("ip", req.IP))
			return nil, ErrInvalidCredentials
		}
	}

	user, err := s.userRepo.GetOrCreate(ctx, req.Username, s.cfg.Game.InitialCredits)
	if err != nil {
		s.log.Error("用户建档失败", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}

	if !user.IsActive() {
		return nil, ErrUserBanned
	}

	// 管理员角色跟随配置账号，建档时补写
	if isAdmin && !user.IsAdmin() {
		user.Role = "admin"
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, req.IP); err != nil {
		s.log.Warn("更新登录信息失败", zap.Uint("userID", user.ID), zap.Error(err))
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	s.log.Info("用户登录",
		zap.Uint("userID", user.ID),
		zap.String("username", user.Username),
		zap.String("role", user.Role),
	)

	return &AuthResponse{
		User:      user,
		Token:     token,
		ExpiresIn: int64(s.jwtManager.TokenExpiry().Seconds()),
		TokenType: "Bearer",
	}, nil
}

// ValidateToken 验证访问令牌
func (s *authService) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	return s.jwtManager.ValidateToken(token)
}
