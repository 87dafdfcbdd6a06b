package planner

import "testing"

// ── 提交装配器测试 ──

func TestToPayload_NormalizesShapes(t *testing.T) {
	week := officeWeek("2025-03-03")
	week[1].Mode = ModeOnline
	week[0].LunchStart = "13:00"
	week[0].LunchEnd = "14:45" // 界面状态不可信，装配时应重算为 14:00

	payload, err := ToPayload("2025-03-03", week, "", "комментарий")
	if err != nil {
		t.Fatalf("装配应成功: %v", err)
	}
	if payload.WeekStart != "2025-03-03" || len(payload.Days) != DaysPerWeek {
		t.Fatalf("载荷结构不完整: %+v", payload)
	}
	if payload.EmployeeComment != "комментарий" {
		t.Errorf("员工备注未透传: %q", payload.EmployeeComment)
	}

	office := payload.Days[0]
	if office.LunchEnd == nil || *office.LunchEnd != "14:00" {
		t.Errorf("office 午休终点应重算为 14:00，实际 %v", office.LunchEnd)
	}

	online := payload.Days[1]
	if online.StartTime == nil || online.EndTime == nil {
		t.Error("online 班次时间不应为 null")
	}
	if len(online.Breaks) != 0 || online.LunchStart != nil || online.LunchEnd != nil {
		t.Errorf("online 班次休息字段应为空: %+v", online)
	}

	dayOff := payload.Days[6]
	if dayOff.StartTime != nil || dayOff.EndTime != nil {
		t.Error("day_off 班次时间应为 null")
	}
	if dayOff.Breaks == nil || len(dayOff.Breaks) != 0 {
		t.Error("day_off 班次 breaks 应为空数组而非 null")
	}
}

func TestToPayload_NormalizesWeekStart(t *testing.T) {
	week := officeWeek("2025-03-03")
	payload, err := ToPayload("2025-03-06", week, "", "") // 周四 → 对齐到周一
	if err != nil {
		t.Fatalf("装配应成功: %v", err)
	}
	if payload.WeekStart != "2025-03-03" {
		t.Errorf("week_start 应对齐到周一，实际 %s", payload.WeekStart)
	}
}

func TestToPayload_ValidationGate(t *testing.T) {
	week := officeWeek("2025-03-03")
	week[0].StartTime = "08:00"
	payload, err := ToPayload("2025-03-03", week, "", "")
	if err == nil {
		t.Fatal("校验失败时不应产出载荷")
	}
	if payload != nil {
		t.Error("失败时载荷应为 nil（全有或全无）")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("应返回 *ValidationError，实际 %T", err)
	}
}

func TestPayloadHours(t *testing.T) {
	payload, err := ToPayload("2025-03-03", officeWeek("2025-03-03"), "", "")
	if err != nil {
		t.Fatalf("装配应成功: %v", err)
	}
	office, online := PayloadHours(payload.Days)
	if office != 40 || online != 0 {
		t.Errorf("期望 40/0，实际 %d/%d", office, online)
	}
}

func TestPayloadToShifts_RoundTrip(t *testing.T) {
	week := officeWeek("2025-03-03")
	week[0].Breaks = []BreakInterval{{"10:00", "10:15"}}
	week[0].LunchStart = "13:00"
	week[0].LunchEnd = "14:00"

	payload, err := ToPayload("2025-03-03", week, "", "")
	if err != nil {
		t.Fatalf("装配应成功: %v", err)
	}

	restored := PayloadToShifts(payload.Days)
	if err := ValidateWeek("2025-03-03", restored, ""); err != nil {
		t.Fatalf("还原后的班次应再次通过校验: %v", err)
	}
	if restored[0].LunchStart != "13:00" || restored[0].LunchEnd != "14:00" {
		t.Errorf("午休区间还原有误: %s-%s", restored[0].LunchStart, restored[0].LunchEnd)
	}
	if len(restored[0].Breaks) != 1 || restored[0].Breaks[0].StartTime != "10:00" {
		t.Errorf("短休还原有误: %+v", restored[0].Breaks)
	}
}
