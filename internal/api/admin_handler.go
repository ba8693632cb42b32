package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/match-game/internal/service"
)

// AdminHandler 管理端处理器
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler 创建管理端处理器
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// SetDifficultyRequest 难度设置请求
type SetDifficultyRequest struct {
	Difficulty string `json:"difficulty" binding:"required"`
}

// SetOverrideRequest 强制结果请求
type SetOverrideRequest struct {
	Username string `json:"username" binding:"required"`
	Outcome  string `json:"outcome" binding:"required"`
}

// GetConfig 读取当前游戏配置
// @Summary 当前游戏配置
// @Tags Admin
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/config [get]
func (h *AdminHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"difficulty": h.adminService.Difficulty(c.Request.Context()),
	})
}

// SetDifficulty 设置全局难度
// @Summary 设置全局难度
// @Description 立即对所有后续回合判定生效
// @Tags Admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body SetDifficultyRequest true "难度"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/admin/config [put]
func (h *AdminHandler) SetDifficulty(c *gin.Context) {
	var req SetDifficultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	if err := h.adminService.SetDifficulty(c.Request.Context(), req.Difficulty); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "难度已设置为 " + req.Difficulty,
	})
}

// SetOverride 设置强制结果
// @Summary 设置用户下一回合的强制结果
// @Description 仅生效一次，重复设置覆盖旧值
// @Tags Admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body SetOverrideRequest true "强制结果"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/admin/override [post]
func (h *AdminHandler) SetOverride(c *gin.Context) {
	var req SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	if err := h.adminService.SetOverride(c.Request.Context(), req.Username, req.Outcome); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "用户 " + req.Username + " 的下一回合已设置为 " + req.Outcome,
	})
}

// Stats 运营统计
// @Summary 运营统计
// @Tags Admin
// @Produce json
// @Security Bearer
// @Success 200 {object} service.AdminStats
// @Router /api/v1/admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
