package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Mali8881/onboarding-backend/internal/dto"
	"github.com/Mali8881/onboarding-backend/internal/service"
	pkgerrors "github.com/Mali8881/onboarding-backend/pkg/errors"
	"github.com/Mali8881/onboarding-backend/pkg/response"
)

// WorkScheduleHandler 工作制模块 HTTP 处理器
type WorkScheduleHandler struct {
	scheduleSvc service.WorkScheduleService
}

// NewWorkScheduleHandler 创建 WorkScheduleHandler
func NewWorkScheduleHandler(scheduleSvc service.WorkScheduleService) *WorkScheduleHandler {
	return &WorkScheduleHandler{scheduleSvc: scheduleSvc}
}

// CreateSchedule 创建工作制模板
// POST /api/v1/work-schedules
func (h *WorkScheduleHandler) CreateSchedule(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateWorkScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateSchedule 更新工作制模板
// PUT /api/v1/work-schedules/:id
func (h *WorkScheduleHandler) UpdateSchedule(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateWorkScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteSchedule 删除工作制模板
// DELETE /api/v1/work-schedules/:id
func (h *WorkScheduleHandler) DeleteSchedule(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.scheduleSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListSchedules 管理端模板列表（含停用）
// GET /api/v1/work-schedules
func (h *WorkScheduleHandler) ListSchedules(c *gin.Context) {
	result, err := h.scheduleSvc.ListAll(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ListOptions 员工可选模板列表
// GET /api/v1/work-schedules/options
func (h *WorkScheduleHandler) ListOptions(c *gin.Context) {
	result, err := h.scheduleSvc.ListOptions(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// GetSchedule 模板详情
// GET /api/v1/work-schedules/:id
func (h *WorkScheduleHandler) GetSchedule(c *gin.Context) {
	result, err := h.scheduleSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, result)
}

// ChooseSchedule 员工选择工作制
// POST /api/v1/work-schedules/choose
func (h *WorkScheduleHandler) ChooseSchedule(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChooseWorkScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.Choose(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, result)
}

// MySchedule 当前用户的工作制
// GET /api/v1/work-schedules/my
func (h *WorkScheduleHandler) MySchedule(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.My(c.Request.Context(), userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, result)
}

// ListRequests 待审批的选择请求（管理端）
// GET /api/v1/work-schedules/requests
func (h *WorkScheduleHandler) ListRequests(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.scheduleSvc.ListRequests(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

// DecideRequest 审批选择请求（管理端）
// PUT /api/v1/work-schedules/requests/:id/decision
func (h *WorkScheduleHandler) DecideRequest(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ScheduleRequestDecision
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.scheduleSvc.Decide(c.Request.Context(), c.Param("id"), &req, callerID); err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, nil)
}

// ScheduleUsers 选择了某模板的用户列表（管理端）
// GET /api/v1/work-schedules/:id/users
func (h *WorkScheduleHandler) ScheduleUsers(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	items, total, err := h.scheduleSvc.TemplateUsers(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

func (h *WorkScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 13001, "工作制模板不存在")
	case errors.Is(err, service.ErrScheduleInactive):
		response.BadRequest(c, 13002, "工作制模板已停用")
	case errors.Is(err, service.ErrScheduleTimeInvalid):
		response.BadRequest(c, 13003, "工作制时间格式无效")
	case errors.Is(err, service.ErrScheduleRequestAbsent):
		response.NotFound(c, 13004, "工作制选择记录不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.BadRequest(c, 10006, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
