package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/match-game/internal/config"
	"github.com/wfunc/match-game/internal/middleware"
	"github.com/wfunc/match-game/internal/service"
	"github.com/wfunc/match-game/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Router API路由器
type Router struct {
	engine         *gin.Engine
	db             *gorm.DB
	services       *service.Services
	hub            *websocket.Hub
	authHandler    *AuthHandler
	gameHandler    *GameHandler
	adminHandler   *AdminHandler
	wsHandler      *WebSocketHandler
	authMiddleware *middleware.AuthMiddleware
	log            *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Router {
	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	// 管理端监控Hub，同时作为游戏服务的回合广播器
	hub := websocket.NewHub(log)
	go hub.Run()

	// 创建服务
	services := service.NewServices(db, &service.Config{
		Game:        cfg.Game,
		Admin:       cfg.Security.Admin,
		JWTSecret:   cfg.Security.JWT.Secret,
		TokenExpiry: time.Duration(cfg.Security.JWT.ExpireHours) * time.Hour,
	}, hub, log)

	// 创建处理器与中间件
	router := &Router{
		engine:         engine,
		db:             db,
		services:       services,
		hub:            hub,
		authHandler:    NewAuthHandler(services.Auth),
		gameHandler:    NewGameHandler(services.Game),
		adminHandler:   NewAdminHandler(services.Admin),
		wsHandler:      NewWebSocketHandler(hub, cfg.WebSocket, log),
		authMiddleware: middleware.NewAuthMiddleware(services.Auth),
		log:            log,
	}

	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	// API v1路由组
	v1 := r.engine.Group("/api/v1")
	{
		// 认证相关路由（不需要认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authHandler.Login)
		}

		// 游戏相关路由（需要认证）
		game := v1.Group("/game")
		game.Use(r.authMiddleware.RequireAuth())
		{
			game.POST("/play", r.gameHandler.Play)
			game.GET("/history", r.gameHandler.History)
		}

		// 管理员路由（需要管理员权限）
		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/stats", r.adminHandler.Stats)
			admin.GET("/config", r.adminHandler.GetConfig)
			admin.PUT("/config", r.adminHandler.SetDifficulty)
			admin.POST("/override", r.adminHandler.SetOverride)
		}
	}

	// WebSocket路由（管理端监控）
	ws := r.engine.Group("/ws")
	ws.Use(r.authMiddleware.RequireRole("admin"))
	{
		ws.GET("/admin", r.wsHandler.AdminFeed)
	}

	// Swagger文档（-tags swagger 时启用）
	registerSwaggerRoutes(r.engine)

	// 404处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    "NOT_FOUND",
			"message": "接口不存在",
		})
	})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	sqlDB, err := r.db.DB()
	if err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库连接失败",
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库ping失败",
		})
		return
	}

	c.JSON(200, gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	})
}

// GetEngine 获取Gin引擎（用于测试和服务器组装）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Services 获取服务集合
func (r *Router) Services() *service.Services {
	return r.services
}
