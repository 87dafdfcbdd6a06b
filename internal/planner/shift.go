package planner

import "time"

// ── 班次模型与周构建 ──

// 班次模式
const (
	ModeOffice = "office"
	ModeOnline = "online"
	ModeDayOff = "day_off"
)

// 休息与工时规则常量
const (
	BreakMinutes            = 15 // 短休固定时长
	LunchMinutes            = 60 // 午休固定时长
	MaxShortBreaks          = 4  // 单日短休上限
	ShortBreakMinHours      = 7  // 办公满 7 小时才可短休
	LunchMinHours           = 8  // 办公满 8 小时才可午休
	MinOfficeHoursPerWeek   = 24 // 周办公时长下限
	MaxOnlineHoursPerWeek   = 16 // 周远程时长上限
	defaultWeekdayShiftEnd  = "17:00"
	defaultWeekendShiftEnd  = "19:00"
)

// BreakInterval 一次短休/午休区间
type BreakInterval struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Shift 单个日历日的编辑态班次。
// 空字符串表示字段缺失；提交时由 Assembler 归一化为 null。
type Shift struct {
	Date       string          `json:"date"`
	Mode       string          `json:"mode"`
	StartTime  string          `json:"start_time"`
	EndTime    string          `json:"end_time"`
	Comment    string          `json:"comment"`
	Breaks     []BreakInterval `json:"breaks"`
	LunchStart string          `json:"lunch_start"`
	LunchEnd   string          `json:"lunch_end"`
}

// IsDayOff 是否休息日
func (s Shift) IsDayOff() bool { return s.Mode == ModeDayOff }

// coerceMode 把未识别的模式收敛为 office
func coerceMode(mode string) string {
	switch mode {
	case ModeOffice, ModeOnline, ModeDayOff:
		return mode
	default:
		return ModeOffice
	}
}

func defaultShiftEnd(isoDate string) string {
	t, ok := ParseISODate(isoDate)
	if ok {
		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return defaultWeekendShiftEnd
		}
	}
	return defaultWeekdayShiftEnd
}

// addMinutesHHMM 在 HH:MM 上加 delta 分钟；起点不可解析时原样返回。
func addMinutesHHMM(value string, delta int) string {
	m, ok := HHMMToMinutes(value)
	if !ok {
		return value
	}
	return MinutesToHHMM(m + delta)
}

// BuildWeek 为指定周构建恰好 7 条班次（周一在先），
// 并与已存储的数据逐日对账：
//   - 无对应存储日时生成默认班次（office，起点为当日时间窗下界，
//     终点工作日 17:00 / 周末 19:00）
//   - 有存储日时收敛 mode；day_off 无条件清空时间与休息
//   - 短休只保留两端齐全的条目，且终点一律重算为起点 +15 分钟；
//     午休终点重算为起点 +60 分钟。存储的终点不可信：
//     在加载时而非仅在校验时执行规则，避免规则变更后旧数据
//     悄悄违反当前时长约束
func BuildWeek(weekStart string, stored []Shift) []Shift {
	week := make([]Shift, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		date := AddDays(weekStart, i)
		idx := -1
		for j := range stored {
			if stored[j].Date == date {
				idx = j
				break
			}
		}
		if idx < 0 {
			limits := DayHourLimitsFor(date)
			week = append(week, Shift{
				Date:      date,
				Mode:      ModeOffice,
				StartTime: limits.MinHHMM(),
				EndTime:   defaultShiftEnd(date),
			})
			continue
		}
		week = append(week, reconcileStored(date, stored[idx]))
	}
	return week
}

func reconcileStored(date string, raw Shift) Shift {
	s := Shift{
		Date:      date,
		Mode:      coerceMode(raw.Mode),
		StartTime: raw.StartTime,
		EndTime:   raw.EndTime,
		Comment:   raw.Comment,
	}
	if s.Mode == ModeDayOff {
		s.StartTime = ""
		s.EndTime = ""
		return s
	}

	for _, b := range raw.Breaks {
		if b.StartTime == "" || b.EndTime == "" {
			continue
		}
		s.Breaks = append(s.Breaks, BreakInterval{
			StartTime: b.StartTime,
			EndTime:   addMinutesHHMM(b.StartTime, BreakMinutes),
		})
	}
	if raw.LunchStart != "" {
		s.LunchStart = raw.LunchStart
		s.LunchEnd = addMinutesHHMM(raw.LunchStart, LunchMinutes)
	}
	return s
}
