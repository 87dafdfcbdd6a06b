package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Mali8881/onboarding-backend/internal/dto"
	"github.com/Mali8881/onboarding-backend/internal/service"
	"github.com/Mali8881/onboarding-backend/pkg/response"
)

// AuditHandler 审计日志 HTTP 处理器
type AuditHandler struct {
	service service.AuditService
}

// NewAuditHandler 创建 AuditHandler
func NewAuditHandler(svc service.AuditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// List 审计日志列表（仅管理员）
// GET /api/v1/audit-logs
func (h *AuditHandler) List(c *gin.Context) {
	var req dto.AuditLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	logs, total, err := h.service.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, logs, total, req.GetPage(), req.GetPageSize())
}
