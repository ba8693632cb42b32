package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/wfunc/match-game/internal/errors"
	"github.com/wfunc/match-game/internal/middleware"
	"github.com/wfunc/match-game/internal/service"
)

// GameHandler 游戏处理器
type GameHandler struct {
	gameService service.GameService
}

// NewGameHandler 创建游戏处理器
func NewGameHandler(gameService service.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

// PlayRequest 两阶段回合请求
//
// phase=init 时读取 bet_amount/first_symbol，
// phase=complete 时读取 selected_indices。
type PlayRequest struct {
	Phase           string `json:"phase" binding:"required"`
	BetAmount       int64  `json:"bet_amount"`
	FirstSymbol     string `json:"first_symbol"`
	SelectedIndices []int  `json:"selected_indices"`
}

// Play 两阶段回合入口
// @Summary 游戏回合
// @Description phase=init扣款并判定结果，phase=complete合成并返回格子
// @Tags Game
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body PlayRequest true "回合请求"
// @Success 200 {object} service.CompleteResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/game/play [post]
func (h *GameHandler) Play(c *gin.Context) {
	var req PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	username, ok := middleware.GetUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "未登录",
		})
		return
	}

	switch req.Phase {
	case "init":
		resp, err := h.gameService.InitRound(c.Request.Context(), username, &service.InitRequest{
			BetAmount:   req.BetAmount,
			FirstSymbol: req.FirstSymbol,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)

	case "complete":
		resp, err := h.gameService.CompleteRound(c.Request.Context(), username, &service.CompleteRequest{
			SelectedIndices: req.SelectedIndices,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)

	default:
		respondError(c, apperrors.Newf(apperrors.ErrInvalidPhase, "phase: %q", req.Phase))
	}
}

// History 回合历史
// @Summary 回合历史
// @Description 查询当前用户的回合历史（最新在前）
// @Tags Game
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/game/history [get]
func (h *GameHandler) History(c *gin.Context) {
	username, ok := middleware.GetUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "UNAUTHORIZED",
			Message: "未登录",
		})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	records, total, err := h.gameService.GetHistory(c.Request.Context(), username, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   total,
		"page":    page,
	})
}
