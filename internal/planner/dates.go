package planner

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ── 日期/时间基础运算 ──
//
// 周计划的所有日期均以 ISO 格式字符串（YYYY-MM-DD）传递，
// 时间为 HH:MM。本层只做分量级日历运算，不涉及时区换算。
// 非法输入一律降级处理（返回原值或默认值），绝不 panic。

// DaysPerWeek 一周天数
const DaysPerWeek = 7

// MinutesPerDay 一天的分钟数
const MinutesPerDay = 24 * 60

// DayLimits 单日可排班时间窗（整点小时）
type DayLimits struct {
	MinHour int
	MaxHour int
}

// MinHHMM 时间窗下界的 HH:MM 表示
func (l DayLimits) MinHHMM() string { return fmt.Sprintf("%02d:00", l.MinHour) }

// MaxHHMM 时间窗上界的 HH:MM 表示
func (l DayLimits) MaxHHMM() string { return fmt.Sprintf("%02d:00", l.MaxHour) }

var (
	weekdayLimits = DayLimits{MinHour: 9, MaxHour: 21}
	weekendLimits = DayLimits{MinHour: 11, MaxHour: 19}
)

// ParseISODate 严格解析 YYYY-MM-DD 日期。
// 段数不对、非数字、零年/月/日或溢出日期均返回 ok=false。
func ParseISODate(value string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if year <= 0 || month <= 0 || month > 12 || day <= 0 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date 会把 2 月 30 日之类进位到下个月，借此识别非法日期
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// FormatISODate 输出 YYYY-MM-DD
func FormatISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

func mondayOfTime(t time.Time) time.Time {
	// (weekday+6) mod 7：周一偏移 0，周日偏移 6
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// MondayOf 返回给定日期所在周的周一。
// 解析失败时原样返回输入。
func MondayOf(isoDate string) string {
	t, ok := ParseISODate(isoDate)
	if !ok {
		return isoDate
	}
	return FormatISODate(mondayOfTime(t))
}

// AddDays 日期加 n 天（n 可为负）。解析失败时原样返回输入。
func AddDays(isoDate string, n int) string {
	t, ok := ParseISODate(isoDate)
	if !ok {
		return isoDate
	}
	return FormatISODate(t.AddDate(0, 0, n))
}

// CurrentPlannableMonday 返回当前可规划周的周一。
// 周一至周五返回本周周一；周六/周日本周窗口已关闭，
// 规划顺延到下周周一。该周末顺延规则是刻意的产品策略，必须保留。
func CurrentPlannableMonday(now time.Time) string {
	// 只取年月日分量，避免运行环境时区影响日历计算
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monday := mondayOfTime(d)
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		monday = monday.AddDate(0, 0, DaysPerWeek)
	}
	return FormatISODate(monday)
}

// NormalizeWeekStart 把任意日期对齐到所在周的周一。
// 解析失败时回退到当前可规划周一。
func NormalizeWeekStart(isoDate string, now time.Time) string {
	t, ok := ParseISODate(isoDate)
	if !ok {
		return CurrentPlannableMonday(now)
	}
	return FormatISODate(mondayOfTime(t))
}

// HHMMToMinutes 把 HH:MM 转为自 00:00 起的分钟数。
func HHMMToMinutes(value string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// MinutesToHHMM 把分钟数转为 HH:MM，按一天取严格正模，
// 负数输入不会产生负的时钟时间。
func MinutesToHHMM(minutes int) string {
	m := ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// HourOf 取 HH:MM 的小时分量，解析失败返回 0。
func HourOf(value string) int {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0
	}
	return h
}

// IsShiftInsideWeek 判断日期是否落在 [weekStart, weekStart+6] 内。
func IsShiftInsideWeek(isoDate, weekStart string) bool {
	d, ok1 := ParseISODate(isoDate)
	start, ok2 := ParseISODate(weekStart)
	if !ok1 || !ok2 {
		return false
	}
	end := start.AddDate(0, 0, DaysPerWeek-1)
	return !d.Before(start) && !d.After(end)
}

// DayHourLimitsFor 返回日期对应的可排班时间窗：
// 工作日 09:00–21:00，周末 11:00–19:00。
// 日期解析失败时回退到工作日时间窗（两者中更宽松的一个）。
func DayHourLimitsFor(isoDate string) DayLimits {
	t, ok := ParseISODate(isoDate)
	if !ok {
		return weekdayLimits
	}
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return weekendLimits
	}
	return weekdayLimits
}
