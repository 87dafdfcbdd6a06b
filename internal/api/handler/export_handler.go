package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Mali8881/onboarding-backend/internal/service"
	"github.com/Mali8881/onboarding-backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	service service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(svc service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// WeeklyPlans 导出某周全员计划为 xlsx
// GET /api/v1/export/weekly-plans?week_start=2025-03-10
func (h *ExportHandler) WeeklyPlans(c *gin.Context) {
	weekStart := c.Query("week_start")
	if weekStart == "" {
		response.BadRequest(c, 10001, "week_start 不能为空")
		return
	}

	buf, filename, err := h.service.ExportWeek(c.Request.Context(), weekStart)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanWeekInvalid):
			response.BadRequest(c, 15002, "week_start 必须是周一的日期")
		case errors.Is(err, service.ErrExportNoPlans):
			response.NotFound(c, 16001, "该周没有可导出的计划")
		default:
			response.InternalError(c)
		}
		return
	}

	// filename* 形式兼容非 ASCII 文件名
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
