package dto

// ── 生产日历模块 DTO ──

// CalendarMonthRequest 月视图查询参数
type CalendarMonthRequest struct {
	Year  int `form:"year"  binding:"required,min=2000,max=2100"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// UpsertCalendarDayRequest 单日标记请求（管理端）
type UpsertCalendarDayRequest struct {
	Date         string `json:"date"           binding:"required"`
	IsWorkingDay bool   `json:"is_working_day"`
	IsHoliday    bool   `json:"is_holiday"`
	HolidayName  string `json:"holiday_name"   binding:"omitempty,max=255"`
}

// GenerateCalendarMonthRequest 按工作制批量生成月份请求（管理端）
type GenerateCalendarMonthRequest struct {
	Year      int  `json:"year"      binding:"required,min=2000,max=2100"`
	Month     int  `json:"month"     binding:"required,min=1,max=12"`
	Overwrite bool `json:"overwrite"` // true 时覆盖已手工标记的日期
}

// CalendarDayResponse 单日响应
type CalendarDayResponse struct {
	Date         string `json:"date"`
	IsWorkingDay bool   `json:"is_working_day"`
	IsHoliday    bool   `json:"is_holiday"`
	HolidayName  string `json:"holiday_name,omitempty"`
	IsPersonal   bool   `json:"is_personal"` // 按当前用户工作制派生的上班日
}

// CalendarMonthResponse 月视图响应
type CalendarMonthResponse struct {
	Year  int                   `json:"year"`
	Month int                   `json:"month"`
	Days  []CalendarDayResponse `json:"days"`
}
