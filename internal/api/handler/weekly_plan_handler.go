package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mali8881/onboarding-backend/internal/dto"
	"github.com/Mali8881/onboarding-backend/internal/planner"
	"github.com/Mali8881/onboarding-backend/internal/service"
	pkgerrors "github.com/Mali8881/onboarding-backend/pkg/errors"
	"github.com/Mali8881/onboarding-backend/pkg/response"
)

// WeeklyPlanHandler 周计划模块 HTTP 处理器
type WeeklyPlanHandler struct {
	planSvc service.WeeklyPlanService
	feedSvc service.FeedService
}

// NewWeeklyPlanHandler 创建 WeeklyPlanHandler
func NewWeeklyPlanHandler(planSvc service.WeeklyPlanService, feedSvc service.FeedService) *WeeklyPlanHandler {
	return &WeeklyPlanHandler{planSvc: planSvc, feedSvc: feedSvc}
}

// Submit 提交/覆盖周计划
// POST /api/v1/weekly-plans/my
func (h *WeeklyPlanHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitWeeklyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.Created(c, result)
}

// My 我的周计划列表
// GET /api/v1/weekly-plans/my
func (h *WeeklyPlanHandler) My(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	plans, total, err := h.planSvc.My(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, plans, total, req.GetPage(), req.GetPageSize())
}

// Feed 已批准计划的日历订阅源
// GET /api/v1/weekly-plans/my/feed.ics
func (h *WeeklyPlanHandler) Feed(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	content, err := h.feedSvc.UserFeed(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Attachment(c, []byte(content), "shifts.ics", "text/calendar; charset=utf-8")
}

// Get 周计划详情
// GET /api/v1/weekly-plans/:id
func (h *WeeklyPlanHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.planSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	// 普通员工只能看自己的计划
	if result.UserID != userID && role != "admin" && role != "superadmin" && role != "lead" {
		response.Forbidden(c, 10003, "无权限访问")
		return
	}
	response.OK(c, result)
}

// List 管理端周计划列表
// GET /api/v1/weekly-plans
func (h *WeeklyPlanHandler) List(c *gin.Context) {
	var req dto.WeeklyPlanListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	plans, total, err := h.planSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OKPage(c, plans, total, req.GetPage(), req.GetPageSize())
}

// Decide 管理员审批
// POST /api/v1/weekly-plans/:id/decision
func (h *WeeklyPlanHandler) Decide(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.WeeklyPlanDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.planSvc.Decide(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, result)
}

// SubmissionStatus 某周未提交计划的员工统计（截止提醒，由 feature.deadline_alerts_enabled 开启）
// GET /api/v1/weekly-plans/submission-status?week_start=2025-03-10
func (h *WeeklyPlanHandler) SubmissionStatus(c *gin.Context) {
	weekStart := c.Query("week_start")
	if weekStart == "" {
		response.BadRequest(c, 10001, "week_start 不能为空")
		return
	}

	result, err := h.planSvc.SubmissionStatus(c.Request.Context(), weekStart)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OK(c, result)
}

// ChangeLogs 周计划变更记录
// GET /api/v1/weekly-plans/:id/change-logs
func (h *WeeklyPlanHandler) ChangeLogs(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	logs, total, err := h.planSvc.ChangeLogs(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}
	response.OKPage(c, logs, total, req.GetPage(), req.GetPageSize())
}

func (h *WeeklyPlanHandler) handlePlanError(c *gin.Context, err error) {
	var verr *planner.ValidationError
	switch {
	case errors.As(err, &verr):
		// 规则引擎的拒绝原因原样透出给前端
		response.ErrorWithDetails(c, http.StatusBadRequest, 15001, "周计划校验未通过", verr.Message)
	case errors.Is(err, service.ErrPlanWeekInvalid):
		response.BadRequest(c, 15002, "week_start 必须是周一的日期")
	case errors.Is(err, service.ErrPlanNotFound):
		response.NotFound(c, 15003, "周计划不存在")
	case errors.Is(err, service.ErrPlanAlreadyReviewed):
		response.BadRequest(c, 15004, "周计划已审批完成")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.BadRequest(c, 10006, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
