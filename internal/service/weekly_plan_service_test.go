package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Mali8881/onboarding-backend/internal/dto"
	"github.com/Mali8881/onboarding-backend/internal/model"
	"github.com/Mali8881/onboarding-backend/internal/planner"
	"github.com/Mali8881/onboarding-backend/internal/repository"
)

// ── 测试辅助 ──

const testWeekStart = "2025-03-10" // 周一

func setupTestWeeklyPlanService() (WeeklyPlanService, *repository.Repository) {
	repo := newMockRepository()
	logger := zap.NewNop()
	audit := NewAuditService(repo, logger)
	svc := NewWeeklyPlanService(repo, audit, logger)
	return svc, repo
}

// officeWeekDays 周一至周五办公 09:00-17:00，周末休息（40 办公小时）
func officeWeekDays(t *testing.T) []planner.ShiftPayload {
	t.Helper()
	shifts := make([]planner.Shift, 0, planner.DaysPerWeek)
	for i := 0; i < planner.DaysPerWeek; i++ {
		s := planner.Shift{Date: planner.AddDays(testWeekStart, i)}
		if i < 5 {
			s.Mode = planner.ModeOffice
			s.StartTime = "09:00"
			s.EndTime = "17:00"
		} else {
			s.Mode = planner.ModeDayOff
		}
		shifts = append(shifts, s)
	}
	payload, err := planner.ToPayload(testWeekStart, shifts, "", "")
	if err != nil {
		t.Fatalf("装配测试载荷失败: %v", err)
	}
	return payload.Days
}

// ── Submit 测试 ──

func TestWeeklyPlanService_Submit_Success(t *testing.T) {
	svc, _ := setupTestWeeklyPlanService()

	req := &dto.SubmitWeeklyPlanRequest{
		WeekStart: testWeekStart,
		Days:      officeWeekDays(t),
	}
	result, err := svc.Submit(context.Background(), "user-001", req)
	if err != nil {
		t.Fatalf("Submit 应成功: %v", err)
	}
	if result.Status != model.PlanStatusPending {
		t.Errorf("期望状态 pending，实际=%s", result.Status)
	}
	if result.OfficeHours != 40 || result.OnlineHours != 0 {
		t.Errorf("期望小时 40/0，实际=%d/%d", result.OfficeHours, result.OnlineHours)
	}
	if result.WeekStart != testWeekStart {
		t.Errorf("期望 week_start=%s，实际=%s", testWeekStart, result.WeekStart)
	}
}

func TestWeeklyPlanService_Submit_NonMonday(t *testing.T) {
	svc, _ := setupTestWeeklyPlanService()

	req := &dto.SubmitWeeklyPlanRequest{
		WeekStart: "2025-03-11", // 周二
		Days:      officeWeekDays(t),
	}
	_, err := svc.Submit(context.Background(), "user-001", req)
	if !errors.Is(err, ErrPlanWeekInvalid) {
		t.Errorf("期望 ErrPlanWeekInvalid，实际: %v", err)
	}
}

func TestWeeklyPlanService_Submit_RuleViolation(t *testing.T) {
	svc, _ := setupTestWeeklyPlanService()

	// 休息日携带时间 → 规则引擎拒绝
	days := officeWeekDays(t)
	badStart := "10:00"
	badEnd := "12:00"
	days[5].StartTime = &badStart
	days[5].EndTime = &badEnd

	req := &dto.SubmitWeeklyPlanRequest{WeekStart: testWeekStart, Days: days}
	_, err := svc.Submit(context.Background(), "user-001", req)

	var verr *planner.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("期望 *planner.ValidationError，实际: %v", err)
	}
}

func TestWeeklyPlanService_Submit_NonFullHourRejected(t *testing.T) {
	svc, _ := setupTestWeeklyPlanService()

	// 绕过界面构造的 16:45 结束时间应在提交入口被拒绝
	days := officeWeekDays(t)
	end := "16:45"
	days[0].EndTime = &end

	req := &dto.SubmitWeeklyPlanRequest{WeekStart: testWeekStart, Days: days}
	_, err := svc.Submit(context.Background(), "user-001", req)

	var verr *planner.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("期望 *planner.ValidationError，实际: %v", err)
	}
	if !strings.Contains(verr.Message, "整点") {
		t.Errorf("错误消息应指明整点要求，实际: %s", verr.Message)
	}
}

func TestWeeklyPlanService_Submit_OnlineReasonRequired(t *testing.T) {
	svc, _ := setupTestWeeklyPlanService()

	// 全周远程 → 远程 40h > 16h，必须给出理由
	shifts := make([]planner.Shift, 0, planner.DaysPerWeek)
	for i := 0; i < planner.DaysPerWeek; i++ {
		s := planner.Shift{Date: planner.AddDays(testWeekStart, i)}
		if i < 5 {
			s.Mode = planner.ModeOnline
			s.StartTime = "09:00"
			s.EndTime = "17:00"
		} else {
			s.Mode = planner.ModeDayOff
		}
		shifts = append(shifts, s)
	}
	payloadDays := make([]planner.ShiftPayload, 0, len(shifts))
	for _, s := range shifts {
		start, end := s.StartTime, s.EndTime
		p := planner.ShiftPayload{Date: s.Date, Mode: s.Mode, Breaks: []planner.BreakPayload{}}
		if s.Mode != planner.ModeDayOff {
			p.StartTime = &start
			p.EndTime = &end
		}
		payloadDays = append(payloadDays, p)
	}

	req := &dto.SubmitWeeklyPlanRequest{WeekStart: testWeekStart, Days: payloadDays}
	if _, err := svc.Submit(context.Background(), "user-001", req); err == nil {
		t.Fatal("缺少远程理由应被拒绝")
	}

	req.OnlineReason = "Командировка в региональный офис"
	if _, err := svc.Submit(context.Background(), "user-001", req); err != nil {
		t.Fatalf("给出理由后应成功: %v", err)
	}
}

func TestWeeklyPlanService_Submit_ResubmitResetsStatus(t *testing.T) {
	svc, _ := setupTestWeeklyPlanService()

	req := &dto.SubmitWeeklyPlanRequest{WeekStart: testWeekStart, Days: officeWeekDays(t)}
	first, err := svc.Submit(context.Background(), "user-001", req)
	if err != nil {
		t.Fatalf("首次提交应成功: %v", err)
	}

	// 管理员批准后员工再次提交 → 覆盖并回到 pending
	if _, err := svc.Decide(context.Background(), first.ID,
		&dto.WeeklyPlanDecisionRequest{Action: "approve"}, "admin-001"); err != nil {
		t.Fatalf("审批应成功: %v", err)
	}

	second, err := svc.Submit(context.Background(), "user-001", req)
	if err != nil {
		t.Fatalf("重复提交应成功: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("同一周应覆盖同一条计划，期望 %s，实际 %s", first.ID, second.ID)
	}
	if second.Status != model.PlanStatusPending {
		t.Errorf("覆盖后状态应回到 pending，实际=%s", second.Status)
	}
	if second.ReviewedBy != nil {
		t.Error("覆盖后审批信息应被清空")
	}

	logs, total, err := svc.ChangeLogs(context.Background(), first.ID, &dto.PaginationRequest{})
	if err != nil {
		t.Fatalf("查询变更记录应成功: %v", err)
	}
	if total < 2 || len(logs) < 2 {
		t.Errorf("期望至少 2 条变更记录（审批+重提），实际=%d", total)
	}
}

// ── Decide 测试 ──

func TestWeeklyPlanService_Decide_Approve(t *testing.T) {
	svc, _ := setupTestWeeklyPlanService()

	req := &dto.SubmitWeeklyPlanRequest{WeekStart: testWeekStart, Days: officeWeekDays(t)}
	plan, _ := svc.Submit(context.Background(), "user-001", req)

	result, err := svc.Decide(context.Background(), plan.ID,
		&dto.WeeklyPlanDecisionRequest{Action: "approve", Comment: "ок"}, "admin-001")
	if err != nil {
		t.Fatalf("Decide 应成功: %v", err)
	}
	if result.Status != model.PlanStatusApproved {
		t.Errorf("期望状态 approved，实际=%s", result.Status)
	}
	if result.ReviewedBy == nil || *result.ReviewedBy != "admin-001" {
		t.Error("期望记录审批人")
	}
	if result.ReviewedAt == nil {
		t.Error("期望记录审批时间")
	}
}

func TestWeeklyPlanService_Decide_ClarificationThenApprove(t *testing.T) {
	svc, _ := setupTestWeeklyPlanService()

	req := &dto.SubmitWeeklyPlanRequest{WeekStart: testWeekStart, Days: officeWeekDays(t)}
	plan, _ := svc.Submit(context.Background(), "user-001", req)

	// clarification_requested 不是终态，可以继续审批
	if _, err := svc.Decide(context.Background(), plan.ID,
		&dto.WeeklyPlanDecisionRequest{Action: "request_clarification", Comment: "уточните график"}, "admin-001"); err != nil {
		t.Fatalf("请求澄清应成功: %v", err)
	}
	if _, err := svc.Decide(context.Background(), plan.ID,
		&dto.WeeklyPlanDecisionRequest{Action: "approve"}, "admin-001"); err != nil {
		t.Fatalf("澄清后批准应成功: %v", err)
	}
}

func TestWeeklyPlanService_Decide_TerminalStatus(t *testing.T) {
	svc, _ := setupTestWeeklyPlanService()

	req := &dto.SubmitWeeklyPlanRequest{WeekStart: testWeekStart, Days: officeWeekDays(t)}
	plan, _ := svc.Submit(context.Background(), "user-001", req)

	if _, err := svc.Decide(context.Background(), plan.ID,
		&dto.WeeklyPlanDecisionRequest{Action: "reject"}, "admin-001"); err != nil {
		t.Fatalf("驳回应成功: %v", err)
	}

	_, err := svc.Decide(context.Background(), plan.ID,
		&dto.WeeklyPlanDecisionRequest{Action: "approve"}, "admin-001")
	if !errors.Is(err, ErrPlanAlreadyReviewed) {
		t.Errorf("期望 ErrPlanAlreadyReviewed，实际: %v", err)
	}
}

func TestWeeklyPlanService_Decide_NotFound(t *testing.T) {
	svc, _ := setupTestWeeklyPlanService()

	_, err := svc.Decide(context.Background(), "nonexistent",
		&dto.WeeklyPlanDecisionRequest{Action: "approve"}, "admin-001")
	if !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("期望 ErrPlanNotFound，实际: %v", err)
	}
}

// ── List 测试 ──

func TestWeeklyPlanService_List_StatusFilter(t *testing.T) {
	svc, _ := setupTestWeeklyPlanService()

	req := &dto.SubmitWeeklyPlanRequest{WeekStart: testWeekStart, Days: officeWeekDays(t)}
	planA, _ := svc.Submit(context.Background(), "user-001", req)
	if _, err := svc.Submit(context.Background(), "user-002", req); err != nil {
		t.Fatalf("提交应成功: %v", err)
	}

	svc.Decide(context.Background(), planA.ID,
		&dto.WeeklyPlanDecisionRequest{Action: "approve"}, "admin-001")

	listReq := &dto.WeeklyPlanListRequest{Status: model.PlanStatusPending}
	plans, total, err := svc.List(context.Background(), listReq)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || len(plans) != 1 {
		t.Fatalf("期望 1 条 pending 计划，实际=%d", total)
	}
	if plans[0].UserID != "user-002" {
		t.Errorf("期望 user-002 的计划，实际=%s", plans[0].UserID)
	}
}

// ── SubmissionStatus 测试 ──

func TestWeeklyPlanService_SubmissionStatus(t *testing.T) {
	svc, repo := setupTestWeeklyPlanService()

	for _, u := range []*model.User{
		{Name: "Иванов Иван", Email: "ivanov@corp.test", Role: model.RoleEmployee},
		{Name: "Петров Пётр", Email: "petrov@corp.test", Role: model.RoleEmployee},
		{Name: "Админ", Email: "admin@corp.test", Role: model.RoleAdmin},
	} {
		if err := repo.User.Create(context.Background(), u); err != nil {
			t.Fatalf("创建用户失败: %v", err)
		}
	}

	req := &dto.SubmitWeeklyPlanRequest{WeekStart: testWeekStart, Days: officeWeekDays(t)}
	if _, err := svc.Submit(context.Background(), "user-001", req); err != nil {
		t.Fatalf("提交应成功: %v", err)
	}

	result, err := svc.SubmissionStatus(context.Background(), testWeekStart)
	if err != nil {
		t.Fatalf("SubmissionStatus 应成功: %v", err)
	}
	// 管理员账号不计入统计
	if result.TotalEmployees != 2 || result.SubmittedCount != 1 {
		t.Errorf("期望 2 人中 1 人已提交，实际=%d/%d", result.SubmittedCount, result.TotalEmployees)
	}
	if len(result.Missing) != 1 || result.Missing[0].Email != "petrov@corp.test" {
		t.Errorf("期望仅 petrov 未提交，实际=%v", result.Missing)
	}
}

func TestWeeklyPlanService_SubmissionStatus_NonMonday(t *testing.T) {
	svc, _ := setupTestWeeklyPlanService()

	_, err := svc.SubmissionStatus(context.Background(), "2025-03-12")
	if !errors.Is(err, ErrPlanWeekInvalid) {
		t.Errorf("期望 ErrPlanWeekInvalid，实际: %v", err)
	}
}
