package planner

import (
	"fmt"
	"sort"
	"strings"
)

// ── 规则引擎 ──
//
// 全部为纯谓词函数：编辑时逐字段调用驱动界面可用性，
// 提交时再整体调用一次作为闸门。

// ValidationError 提交校验失败。Message 为面向用户的单条描述，
// 指明被违反的规则类别；首个失败的检查决定返回的消息。
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func failf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ShiftHours 班次时长（整小时）。
// day_off 为 0；其余取 终点小时分量 − 起点小时分量，非正时取 0。
// 只用小时分量、丢弃分钟是既有行为：提交入口经 ValidateFullHourShifts
// 拒绝非整点时间，两者在合法输入下一致。
func ShiftHours(s Shift) int {
	if s.IsDayOff() {
		return 0
	}
	h := HourOf(s.EndTime) - HourOf(s.StartTime)
	if h < 0 {
		return 0
	}
	return h
}

// ValidateFullHourShifts 整点约束：非休息日班次的开始与结束时间
// 必须为整点（HH:00）。编辑端时间选择器只产生整点，此检查在提交
// 入口拦截绕过界面构造的请求，防止分钟分量被 ShiftHours 静默丢弃。
func ValidateFullHourShifts(shifts []Shift) error {
	for i, s := range shifts {
		if s.IsDayOff() {
			continue
		}
		for _, v := range []string{s.StartTime, s.EndTime} {
			if m, ok := HHMMToMinutes(v); ok && m%60 != 0 {
				return failf("第 %d 天班次时间必须为整点（HH:00），当前为 %s", i+1, v)
			}
		}
	}
	return nil
}

// CanUseShortBreaks 班次是否可安排短休：office 且时长 ≥7 小时
func CanUseShortBreaks(s Shift) bool {
	return s.Mode == ModeOffice && ShiftHours(s) >= ShortBreakMinHours
}

// CanUseLunchBreak 班次是否可安排午休：office 且时长 ≥8 小时
func CanUseLunchBreak(s Shift) bool {
	return s.Mode == ModeOffice && ShiftHours(s) >= LunchMinHours
}

// NormalizeBreakRules 在模式或时长变化导致资格丢失时就地收敛：
// 失去短休资格则清空短休，否则截断到上限 4 条；
// 失去午休资格则清空午休。
func NormalizeBreakRules(s *Shift) {
	if !CanUseShortBreaks(*s) {
		s.Breaks = nil
	} else if len(s.Breaks) > MaxShortBreaks {
		s.Breaks = s.Breaks[:MaxShortBreaks]
	}
	if !CanUseLunchBreak(*s) {
		s.LunchStart = ""
		s.LunchEnd = ""
	}
}

// OfficeHoursTotal 周办公总时长
func OfficeHoursTotal(shifts []Shift) int {
	total := 0
	for _, s := range shifts {
		if s.Mode == ModeOffice {
			total += ShiftHours(s)
		}
	}
	return total
}

// OnlineHoursTotal 周远程总时长
func OnlineHoursTotal(shifts []Shift) int {
	total := 0
	for _, s := range shifts {
		if s.Mode == ModeOnline {
			total += ShiftHours(s)
		}
	}
	return total
}

// NeedsReason 周配额不达标时必须填写原因：
// 办公 <24 小时 或 远程 >16 小时。
func NeedsReason(officeHours, onlineHours int) bool {
	return officeHours < MinOfficeHoursPerWeek || onlineHours > MaxOnlineHoursPerWeek
}

// ValidateWeek 提交前的完整校验，按固定顺序执行，
// 任一检查失败即中止并返回对应消息（全有或全无，不做部分提交）：
//  1. 恰好 7 条班次，且每条都有日期与模式
//  2. 每条日期落在目标周内，且互不重复
//  3. 非 day_off 班次时间齐全、落在当日时间窗内且起点早于终点；
//     day_off 班次不得携带时间
//  4. 短休/午休规则（资格、条数、时长、对齐、包含、互不重叠）
//  5. 配额不达标时 onlineReason 非空
//
// weekStart 会先对齐到周一再参与判定。
func ValidateWeek(weekStart string, shifts []Shift, onlineReason string) error {
	monday := MondayOf(weekStart)

	// 1. 结构完整性
	if len(shifts) != DaysPerWeek {
		return failf("必须包含 7 天排班（周一至周日），当前 %d 天", len(shifts))
	}
	for i, s := range shifts {
		if s.Date == "" {
			return failf("第 %d 天缺少日期", i+1)
		}
		if coerceMode(s.Mode) != s.Mode || s.Mode == "" {
			return failf("第 %d 天模式无效，应为 office / online / day_off", i+1)
		}
	}

	// 2. 日期都在目标周内且不重复
	seen := make(map[string]bool, DaysPerWeek)
	for i, s := range shifts {
		if !IsShiftInsideWeek(s.Date, monday) {
			return failf("第 %d 天日期 %s 不在所选周内", i+1, s.Date)
		}
		if seen[s.Date] {
			return failf("日期 %s 重复出现", s.Date)
		}
		seen[s.Date] = true
	}

	// 3. 时间窗
	for i, s := range shifts {
		if s.IsDayOff() {
			if s.StartTime != "" || s.EndTime != "" || len(s.Breaks) > 0 || s.LunchStart != "" || s.LunchEnd != "" {
				return failf("第 %d 天为休息日，不应携带时间或休息区间", i+1)
			}
			continue
		}
		if s.StartTime == "" || s.EndTime == "" {
			return failf("第 %d 天缺少开始或结束时间", i+1)
		}
		startM, ok1 := HHMMToMinutes(s.StartTime)
		endM, ok2 := HHMMToMinutes(s.EndTime)
		if !ok1 || !ok2 {
			return failf("第 %d 天时间格式无效，请使用 HH:MM", i+1)
		}
		limits := DayHourLimitsFor(s.Date)
		if startM < limits.MinHour*60 || endM > limits.MaxHour*60 {
			return failf("第 %d 天允许的排班时间为 %s-%s", i+1, limits.MinHHMM(), limits.MaxHHMM())
		}
		if endM <= startM {
			return failf("第 %d 天结束时间必须晚于开始时间", i+1)
		}
	}

	// 4. 短休与午休
	for i, s := range shifts {
		if err := validateShiftBreaks(i+1, s); err != nil {
			return err
		}
	}

	// 5. 周配额与原因
	office := OfficeHoursTotal(shifts)
	online := OnlineHoursTotal(shifts)
	if NeedsReason(office, online) && strings.TrimSpace(onlineReason) == "" {
		return failf("办公时长低于 %d 小时或远程时长超过 %d 小时时，必须填写原因",
			MinOfficeHoursPerWeek, MaxOnlineHoursPerWeek)
	}

	return nil
}

type breakSpan struct {
	start int
	end   int
	label string
}

func validateShiftBreaks(day int, s Shift) error {
	if s.IsDayOff() {
		return nil // 第 3 步已保证休息日无任何休息区间
	}
	hasLunch := s.LunchStart != "" || s.LunchEnd != ""
	if s.Mode != ModeOffice {
		if len(s.Breaks) > 0 || hasLunch {
			return failf("第 %d 天：短休与午休仅办公模式可用", day)
		}
		return nil
	}

	hours := ShiftHours(s)
	if hours < ShortBreakMinHours && len(s.Breaks) > 0 {
		return failf("第 %d 天：办公班次满 %d 小时才可安排短休", day, ShortBreakMinHours)
	}
	if hours < LunchMinHours && hasLunch {
		return failf("第 %d 天：办公班次满 %d 小时才可安排午休", day, LunchMinHours)
	}
	if (s.LunchStart == "") != (s.LunchEnd == "") {
		return failf("第 %d 天：午休开始与结束必须同时填写", day)
	}
	if len(s.Breaks) > MaxShortBreaks {
		return failf("第 %d 天：短休最多 %d 次", day, MaxShortBreaks)
	}

	shiftStart, _ := HHMMToMinutes(s.StartTime)
	shiftEnd, _ := HHMMToMinutes(s.EndTime)
	spans := make([]breakSpan, 0, len(s.Breaks)+1)

	for bi, b := range s.Breaks {
		label := fmt.Sprintf("短休 #%d", bi+1)
		startM, ok1 := HHMMToMinutes(b.StartTime)
		endM, ok2 := HHMMToMinutes(b.EndTime)
		if !ok1 || !ok2 {
			return failf("第 %d 天：%s 时间格式无效", day, label)
		}
		if endM <= startM {
			return failf("第 %d 天：%s 结束必须晚于开始", day, label)
		}
		if startM%BreakMinutes != 0 || endM%BreakMinutes != 0 {
			return failf("第 %d 天：%s 必须对齐到 15 分钟刻度", day, label)
		}
		if endM-startM != BreakMinutes {
			return failf("第 %d 天：%s 必须恰好 %d 分钟", day, label, BreakMinutes)
		}
		if startM < shiftStart || endM > shiftEnd {
			return failf("第 %d 天：%s 必须完全落在班次时间内", day, label)
		}
		spans = append(spans, breakSpan{start: startM, end: endM, label: label})
	}

	if s.LunchStart != "" && s.LunchEnd != "" {
		startM, ok1 := HHMMToMinutes(s.LunchStart)
		endM, ok2 := HHMMToMinutes(s.LunchEnd)
		if !ok1 || !ok2 {
			return failf("第 %d 天：午休时间格式无效", day)
		}
		if endM <= startM {
			return failf("第 %d 天：午休结束必须晚于开始", day)
		}
		if startM%BreakMinutes != 0 || endM%BreakMinutes != 0 {
			return failf("第 %d 天：午休必须对齐到 15 分钟刻度", day)
		}
		if endM-startM != LunchMinutes {
			return failf("第 %d 天：午休必须恰好 %d 分钟", day, LunchMinutes)
		}
		if startM < shiftStart || endM > shiftEnd {
			return failf("第 %d 天：午休必须完全落在班次时间内", day)
		}
		spans = append(spans, breakSpan{start: startM, end: endM, label: "午休"})
	}

	sort.Slice(spans, func(a, b int) bool { return spans[a].start < spans[b].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return failf("第 %d 天：%s 与 %s 时间重叠", day, spans[i].label, spans[i-1].label)
		}
	}

	return nil
}
