package dto

import "github.com/Mali8881/onboarding-backend/internal/planner"

// ── 周计划模块 DTO ──

// SubmitWeeklyPlanRequest 提交周计划请求
// 班次校验由规则引擎完成，binding 只做结构层面的约束。
type SubmitWeeklyPlanRequest struct {
	WeekStart       string                 `json:"week_start"       binding:"required"`
	Days            []planner.ShiftPayload `json:"days"             binding:"required"`
	OnlineReason    string                 `json:"online_reason"    binding:"omitempty,max=1000"`
	EmployeeComment string                 `json:"employee_comment" binding:"omitempty,max=1000"`
}

// WeeklyPlanListRequest 管理端周计划列表查询参数
type WeeklyPlanListRequest struct {
	Status    string `form:"status"     binding:"omitempty,oneof=pending clarification_requested approved rejected"`
	WeekStart string `form:"week_start" binding:"omitempty"`
	UserID    string `form:"user_id"    binding:"omitempty,uuid"`
	PaginationRequest
}

// WeeklyPlanDecisionRequest 周计划审批请求
type WeeklyPlanDecisionRequest struct {
	Action  string `json:"action"  binding:"required,oneof=approve request_clarification reject"`
	Comment string `json:"comment" binding:"omitempty,max=1000"`
}

// WeeklyPlanResponse 周计划响应
type WeeklyPlanResponse struct {
	ID              string                 `json:"id"`
	UserID          string                 `json:"user_id"`
	UserName        string                 `json:"user_name,omitempty"`
	WeekStart       string                 `json:"week_start"`
	Days            []planner.ShiftPayload `json:"days"`
	OfficeHours     int                    `json:"office_hours"`
	OnlineHours     int                    `json:"online_hours"`
	OnlineReason    string                 `json:"online_reason,omitempty"`
	EmployeeComment string                 `json:"employee_comment,omitempty"`
	Status          string                 `json:"status"`
	AdminComment    string                 `json:"admin_comment,omitempty"`
	ReviewedBy      *string                `json:"reviewed_by,omitempty"`
	ReviewedAt      *string                `json:"reviewed_at,omitempty"`
	Version         int                    `json:"version"`
	CreatedAt       string                 `json:"created_at"`
	UpdatedAt       string                 `json:"updated_at"`
}

// WeeklyPlanSubmissionStatusResponse 某周提交情况统计（截止提醒）
type WeeklyPlanSubmissionStatusResponse struct {
	WeekStart      string         `json:"week_start"`
	TotalEmployees int            `json:"total_employees"`
	SubmittedCount int            `json:"submitted_count"`
	Missing        []UserResponse `json:"missing"`
}

// WeeklyPlanChangeLogResponse 周计划变更记录响应
type WeeklyPlanChangeLogResponse struct {
	ID        string                 `json:"id"`
	PlanID    string                 `json:"plan_id"`
	UserID    string                 `json:"user_id"`
	ChangedBy *string                `json:"changed_by,omitempty"`
	WeekStart string                 `json:"week_start"`
	Changes   map[string]interface{} `json:"changes"`
	CreatedAt string                 `json:"created_at"`
}
