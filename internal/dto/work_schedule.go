package dto

// ── 工作制模板模块 DTO ──

// CreateWorkScheduleRequest 创建工作制模板请求
type CreateWorkScheduleRequest struct {
	Name       string  `json:"name"        binding:"required,min=2,max=100"`
	WorkDays   []int   `json:"work_days"   binding:"required,min=1,max=7,dive,min=1,max=7"`
	StartTime  string  `json:"start_time"  binding:"required"`
	EndTime    string  `json:"end_time"    binding:"required"`
	BreakStart *string `json:"break_start" binding:"omitempty"`
	BreakEnd   *string `json:"break_end"   binding:"omitempty"`
	IsDefault  bool    `json:"is_default"`
}

// UpdateWorkScheduleRequest 更新工作制模板请求（乐观锁）
type UpdateWorkScheduleRequest struct {
	Name       *string `json:"name"        binding:"omitempty,min=2,max=100"`
	WorkDays   []int   `json:"work_days"   binding:"omitempty,min=1,max=7,dive,min=1,max=7"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
	BreakStart *string `json:"break_start"`
	BreakEnd   *string `json:"break_end"`
	IsDefault  *bool   `json:"is_default"`
	IsActive   *bool   `json:"is_active"`
	Version    int     `json:"version"     binding:"required,min=1"`
}

// ChooseWorkScheduleRequest 员工选择工作制请求
type ChooseWorkScheduleRequest struct {
	ScheduleID string `json:"schedule_id" binding:"required,uuid"`
}

// ScheduleRequestDecision 工作制审批请求
type ScheduleRequestDecision struct {
	Approved bool `json:"approved"`
}

// WorkScheduleResponse 工作制模板响应
type WorkScheduleResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	WorkDays   []int   `json:"work_days"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`
	IsDefault  bool    `json:"is_default"`
	IsActive   bool    `json:"is_active"`
	Version    int     `json:"version"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// UserWorkScheduleResponse 用户工作制选择响应
type UserWorkScheduleResponse struct {
	ID          string                `json:"id"`
	UserID      string                `json:"user_id"`
	UserName    string                `json:"user_name,omitempty"`
	Schedule    *WorkScheduleResponse `json:"schedule,omitempty"`
	Approved    bool                  `json:"approved"`
	RequestedAt string                `json:"requested_at"`
}
