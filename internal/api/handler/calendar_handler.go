package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Mali8881/onboarding-backend/internal/dto"
	"github.com/Mali8881/onboarding-backend/internal/service"
	"github.com/Mali8881/onboarding-backend/pkg/response"
)

// CalendarHandler 生产日历模块 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// MonthView 月视图
// GET /api/v1/calendar?year=2025&month=3
func (h *CalendarHandler) MonthView(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CalendarMonthRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.calendarSvc.MonthView(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// UpsertDay 标记单日（管理端）
// PUT /api/v1/calendar/days
func (h *CalendarHandler) UpsertDay(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpsertCalendarDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.calendarSvc.UpsertDay(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrCalendarDateInvalid) {
			response.BadRequest(c, 14001, "日期格式无效")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// GenerateMonth 批量生成月份（管理端）
// POST /api/v1/calendar/generate
func (h *CalendarHandler) GenerateMonth(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.GenerateCalendarMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	count, err := h.calendarSvc.GenerateMonth(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"generated_days": count})
}
