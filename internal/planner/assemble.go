package planner

// ── 提交装配器 ──
//
// 把编辑态班次集合归一化为线上提交结构，并在装配前
// 完整执行一次规则校验：校验不通过则不产出任何载荷。

// BreakPayload 线上短休区间
type BreakPayload struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ShiftPayload 线上单日班次。
// day_off 班次的时间为 null；非 office 班次的休息字段为空。
type ShiftPayload struct {
	Date       string         `json:"date"`
	StartTime  *string        `json:"start_time"`
	EndTime    *string        `json:"end_time"`
	Mode       string         `json:"mode"`
	Comment    string         `json:"comment"`
	Breaks     []BreakPayload `json:"breaks"`
	LunchStart *string        `json:"lunch_start"`
	LunchEnd   *string        `json:"lunch_end"`
}

// WeeklyPlanPayload 周计划提交载荷
type WeeklyPlanPayload struct {
	WeekStart       string         `json:"week_start"`
	Days            []ShiftPayload `json:"days"`
	OnlineReason    string         `json:"online_reason"`
	EmployeeComment string         `json:"employee_comment"`
}

// ToPayload 校验并装配周计划载荷。
// weekStart 先对齐到周一；校验失败时返回携带具体消息的
// *ValidationError，且不产生任何部分结果。
// office 班次的午休终点在此再重算一次（起点 +60 分钟），
// 不信任界面状态，作为最后一道防线。
func ToPayload(weekStart string, shifts []Shift, onlineReason, employeeComment string) (*WeeklyPlanPayload, error) {
	monday := MondayOf(weekStart)
	if err := ValidateWeek(monday, shifts, onlineReason); err != nil {
		return nil, err
	}

	days := make([]ShiftPayload, 0, len(shifts))
	for _, s := range shifts {
		days = append(days, assembleShift(s))
	}

	return &WeeklyPlanPayload{
		WeekStart:       monday,
		Days:            days,
		OnlineReason:    onlineReason,
		EmployeeComment: employeeComment,
	}, nil
}

func assembleShift(s Shift) ShiftPayload {
	p := ShiftPayload{
		Date:    s.Date,
		Mode:    s.Mode,
		Comment: s.Comment,
		Breaks:  []BreakPayload{},
	}
	if s.IsDayOff() {
		return p
	}

	start := s.StartTime
	end := s.EndTime
	p.StartTime = &start
	p.EndTime = &end

	if s.Mode != ModeOffice {
		return p
	}

	for _, b := range s.Breaks {
		if b.StartTime == "" || b.EndTime == "" {
			continue
		}
		p.Breaks = append(p.Breaks, BreakPayload{StartTime: b.StartTime, EndTime: b.EndTime})
	}
	if s.LunchStart != "" {
		lunchStart := s.LunchStart
		lunchEnd := addMinutesHHMM(s.LunchStart, LunchMinutes)
		p.LunchStart = &lunchStart
		p.LunchEnd = &lunchEnd
	}
	return p
}

// PayloadHours 统计载荷中的办公/远程整小时总量。
// 服务端落库前重算，不信任客户端侧的聚合值。
func PayloadHours(days []ShiftPayload) (office, online int) {
	for _, d := range days {
		if d.Mode == ModeDayOff || d.StartTime == nil || d.EndTime == nil {
			continue
		}
		h := HourOf(*d.EndTime) - HourOf(*d.StartTime)
		if h < 0 {
			h = 0
		}
		switch d.Mode {
		case ModeOffice:
			office += h
		case ModeOnline:
			online += h
		}
	}
	return office, online
}

// PayloadToShifts 把线上班次还原为编辑态模型，
// 供服务端复用同一套规则引擎进行提交校验。
func PayloadToShifts(days []ShiftPayload) []Shift {
	shifts := make([]Shift, 0, len(days))
	for _, d := range days {
		s := Shift{
			Date:    d.Date,
			Mode:    d.Mode,
			Comment: d.Comment,
		}
		if d.StartTime != nil {
			s.StartTime = *d.StartTime
		}
		if d.EndTime != nil {
			s.EndTime = *d.EndTime
		}
		for _, b := range d.Breaks {
			s.Breaks = append(s.Breaks, BreakInterval{StartTime: b.StartTime, EndTime: b.EndTime})
		}
		if d.LunchStart != nil {
			s.LunchStart = *d.LunchStart
		}
		if d.LunchEnd != nil {
			s.LunchEnd = *d.LunchEnd
		}
		shifts = append(shifts, s)
	}
	return shifts
}
