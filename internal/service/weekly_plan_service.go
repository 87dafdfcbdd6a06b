package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mali8881/onboarding-backend/internal/dto"
	"github.com/Mali8881/onboarding-backend/internal/model"
	"github.com/Mali8881/onboarding-backend/internal/planner"
	"github.com/Mali8881/onboarding-backend/internal/repository"
)

// ── 周计划模块业务错误 ──

var (
	ErrPlanNotFound        = errors.New("周计划不存在")
	ErrPlanWeekInvalid     = errors.New("week_start 必须是周一的日期（YYYY-MM-DD）")
	ErrPlanAlreadyReviewed = errors.New("周计划已审批完成，不能重复操作")
)

// WeeklyPlanService 周计划业务接口
type WeeklyPlanService interface {
	// Submit 提交/覆盖某周计划；服务端完整重跑规则引擎，
	// 覆盖已有计划时状态重置为 pending。
	Submit(ctx context.Context, userID string, req *dto.SubmitWeeklyPlanRequest) (*dto.WeeklyPlanResponse, error)
	My(ctx context.Context, userID string, req *dto.PaginationRequest) ([]dto.WeeklyPlanResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.WeeklyPlanResponse, error)
	List(ctx context.Context, req *dto.WeeklyPlanListRequest) ([]dto.WeeklyPlanResponse, int64, error)
	// Decide 管理员审批: approve | request_clarification | reject
	Decide(ctx context.Context, planID string, req *dto.WeeklyPlanDecisionRequest, callerID string) (*dto.WeeklyPlanResponse, error)
	ChangeLogs(ctx context.Context, planID string, req *dto.PaginationRequest) ([]dto.WeeklyPlanChangeLogResponse, int64, error)
	// SubmissionStatus 统计某周未提交计划的员工（截止提醒）
	SubmissionStatus(ctx context.Context, weekStart string) (*dto.WeeklyPlanSubmissionStatusResponse, error)
}

type weeklyPlanService struct {
	repo   *repository.Repository
	audit  AuditService
	logger *zap.Logger
	now    func() time.Time
}

// NewWeeklyPlanService 创建 WeeklyPlanService 实例
func NewWeeklyPlanService(repo *repository.Repository, audit AuditService, logger *zap.Logger) WeeklyPlanService {
	return &weeklyPlanService{repo: repo, audit: audit, logger: logger, now: time.Now}
}

func (s *weeklyPlanService) Submit(ctx context.Context, userID string, req *dto.SubmitWeeklyPlanRequest) (*dto.WeeklyPlanResponse, error) {
	// 1. week_start 必须严格是周一
	weekDate, ok := planner.ParseISODate(req.WeekStart)
	if !ok || planner.MondayOf(req.WeekStart) != req.WeekStart {
		return nil, ErrPlanWeekInvalid
	}

	// 2. 完整重跑规则引擎，不信任客户端侧的校验结果；
	//    提交入口额外要求整点排班（HH:00）
	shifts := planner.PayloadToShifts(req.Days)
	if err := planner.ValidateFullHourShifts(shifts); err != nil {
		return nil, err
	}
	if err := planner.ValidateWeek(req.WeekStart, shifts, req.OnlineReason); err != nil {
		return nil, err
	}

	// 3. 重新装配归一化载荷并重算小时聚合
	payload, err := planner.ToPayload(req.WeekStart, shifts, req.OnlineReason, req.EmployeeComment)
	if err != nil {
		return nil, err
	}
	office, online := planner.PayloadHours(payload.Days)

	// 4. 同一用户同一周唯一：已有则覆盖并重置为 pending
	existing, err := s.repo.WeeklyPlan.GetByUserAndWeek(ctx, userID, weekDate)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询周计划失败", zap.Error(err))
		return nil, err
	}

	if existing == nil {
		plan := &model.WeeklyWorkPlan{
			UserID:          userID,
			WeekStart:       weekDate,
			Days:            model.PlanDays(payload.Days),
			OfficeHours:     office,
			OnlineHours:     online,
			OnlineReason:    payload.OnlineReason,
			EmployeeComment: payload.EmployeeComment,
			Status:          model.PlanStatusPending,
			VersionedModel:  model.VersionedModel{SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &userID}}},
		}
		if err := s.repo.WeeklyPlan.Create(ctx, plan); err != nil {
			s.logger.Error("创建周计划失败", zap.Error(err))
			return nil, err
		}

		s.audit.Record(ctx, AuditEntry{
			Action:     "weekly_plan.submitted",
			ActorID:    userID,
			ObjectType: "weekly_plan",
			ObjectID:   plan.PlanID,
			Metadata:   map[string]interface{}{"week_start": req.WeekStart},
		})
		return toWeeklyPlanResponse(plan), nil
	}

	oldStatus := existing.Status
	existing.Days = model.PlanDays(payload.Days)
	existing.OfficeHours = office
	existing.OnlineHours = online
	existing.OnlineReason = payload.OnlineReason
	existing.EmployeeComment = payload.EmployeeComment
	existing.Status = model.PlanStatusPending
	existing.AdminComment = ""
	existing.ReviewedBy = nil
	existing.ReviewedAt = nil
	existing.UpdatedBy = &userID
	if err := s.repo.WeeklyPlan.Update(ctx, existing); err != nil {
		return nil, err
	}

	changedBy := userID
	changeLog := &model.WeeklyPlanChangeLog{
		PlanID:    existing.PlanID,
		UserID:    userID,
		ChangedBy: &changedBy,
		WeekStart: weekDate,
		Changes: model.JSONMap{
			"type":       "resubmit",
			"old_status": oldStatus,
			"new_status": model.PlanStatusPending,
		},
	}
	if err := s.repo.PlanChangeLog.Create(ctx, changeLog); err != nil {
		s.logger.Warn("周计划变更记录写入失败", zap.Error(err))
	}

	s.audit.Record(ctx, AuditEntry{
		Action:     "weekly_plan.resubmitted",
		ActorID:    userID,
		ObjectType: "weekly_plan",
		ObjectID:   existing.PlanID,
		Metadata:   map[string]interface{}{"week_start": req.WeekStart, "old_status": oldStatus},
	})
	return toWeeklyPlanResponse(existing), nil
}

func (s *weeklyPlanService) My(ctx context.Context, userID string, req *dto.PaginationRequest) ([]dto.WeeklyPlanResponse, int64, error) {
	plans, total, err := s.repo.WeeklyPlan.ListByUser(ctx, userID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询我的周计划失败", zap.Error(err))
		return nil, 0, err
	}
	return toWeeklyPlanResponses(plans), total, nil
}

func (s *weeklyPlanService) GetByID(ctx context.Context, id string) (*dto.WeeklyPlanResponse, error) {
	plan, err := s.repo.WeeklyPlan.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return toWeeklyPlanResponse(plan), nil
}

func (s *weeklyPlanService) List(ctx context.Context, req *dto.WeeklyPlanListRequest) ([]dto.WeeklyPlanResponse, int64, error) {
	filter := repository.WeeklyPlanFilter{
		Status: req.Status,
		UserID: req.UserID,
	}
	if req.WeekStart != "" {
		weekDate, ok := planner.ParseISODate(req.WeekStart)
		if !ok {
			return nil, 0, ErrPlanWeekInvalid
		}
		filter.WeekStart = &weekDate
	}

	plans, total, err := s.repo.WeeklyPlan.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询周计划列表失败", zap.Error(err))
		return nil, 0, err
	}
	return toWeeklyPlanResponses(plans), total, nil
}

func (s *weeklyPlanService) Decide(ctx context.Context, planID string, req *dto.WeeklyPlanDecisionRequest, callerID string) (*dto.WeeklyPlanResponse, error) {
	plan, err := s.repo.WeeklyPlan.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	// 终态不可再流转；clarification_requested 可被再次审批
	if plan.Status == model.PlanStatusApproved || plan.Status == model.PlanStatusRejected {
		return nil, ErrPlanAlreadyReviewed
	}

	oldStatus := plan.Status
	switch req.Action {
	case "approve":
		plan.Status = model.PlanStatusApproved
	case "request_clarification":
		plan.Status = model.PlanStatusClarificationRequested
	case "reject":
		plan.Status = model.PlanStatusRejected
	}
	now := s.now()
	plan.AdminComment = req.Comment
	plan.ReviewedBy = &callerID
	plan.ReviewedAt = &now
	plan.UpdatedBy = &callerID

	if err := s.repo.WeeklyPlan.Update(ctx, plan); err != nil {
		return nil, err
	}

	changedBy := callerID
	changeLog := &model.WeeklyPlanChangeLog{
		PlanID:    plan.PlanID,
		UserID:    plan.UserID,
		ChangedBy: &changedBy,
		WeekStart: plan.WeekStart,
		Changes: model.JSONMap{
			"type":       "decision",
			"action":     req.Action,
			"old_status": oldStatus,
			"new_status": plan.Status,
			"comment":    req.Comment,
		},
	}
	if err := s.repo.PlanChangeLog.Create(ctx, changeLog); err != nil {
		s.logger.Warn("周计划变更记录写入失败", zap.Error(err))
	}

	s.audit.Record(ctx, AuditEntry{
		Action:     "weekly_plan." + req.Action,
		ActorID:    callerID,
		ObjectType: "weekly_plan",
		ObjectID:   planID,
		Category:   model.AuditCategoryAdmin,
		Metadata:   map[string]interface{}{"user_id": plan.UserID, "old_status": oldStatus},
	})
	return toWeeklyPlanResponse(plan), nil
}

func (s *weeklyPlanService) ChangeLogs(ctx context.Context, planID string, req *dto.PaginationRequest) ([]dto.WeeklyPlanChangeLogResponse, int64, error) {
	if _, err := s.repo.WeeklyPlan.GetByID(ctx, planID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrPlanNotFound
		}
		return nil, 0, err
	}

	logs, total, err := s.repo.PlanChangeLog.ListByPlan(ctx, planID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询周计划变更记录失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.WeeklyPlanChangeLogResponse, 0, len(logs))
	for _, l := range logs {
		result = append(result, dto.WeeklyPlanChangeLogResponse{
			ID:        l.ChangeLogID,
			PlanID:    l.PlanID,
			UserID:    l.UserID,
			ChangedBy: l.ChangedBy,
			WeekStart: planner.FormatISODate(l.WeekStart),
			Changes:   l.Changes,
			CreatedAt: l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return result, total, nil
}

func (s *weeklyPlanService) SubmissionStatus(ctx context.Context, weekStart string) (*dto.WeeklyPlanSubmissionStatusResponse, error) {
	weekDate, ok := planner.ParseISODate(weekStart)
	if !ok || planner.MondayOf(weekStart) != weekStart {
		return nil, ErrPlanWeekInvalid
	}

	users, _, err := s.repo.User.List(ctx, repository.UserFilter{}, 0, 10000)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}

	plans, _, err := s.repo.WeeklyPlan.List(ctx, repository.WeeklyPlanFilter{WeekStart: &weekDate}, 0, 10000)
	if err != nil {
		s.logger.Error("查询周计划列表失败", zap.Error(err))
		return nil, err
	}
	submitted := make(map[string]bool, len(plans))
	for _, p := range plans {
		submitted[p.UserID] = true
	}

	result := &dto.WeeklyPlanSubmissionStatusResponse{
		WeekStart: weekStart,
		Missing:   []dto.UserResponse{},
	}
	for i := range users {
		u := &users[i]
		// 管理端账号不排班
		if u.IsAdminLike() {
			continue
		}
		result.TotalEmployees++
		if submitted[u.UserID] {
			result.SubmittedCount++
		} else {
			result.Missing = append(result.Missing, *toUserResponse(u))
		}
	}
	return result, nil
}

func toWeeklyPlanResponse(p *model.WeeklyWorkPlan) *dto.WeeklyPlanResponse {
	resp := &dto.WeeklyPlanResponse{
		ID:              p.PlanID,
		UserID:          p.UserID,
		WeekStart:       planner.FormatISODate(p.WeekStart),
		Days:            []planner.ShiftPayload(p.Days),
		OfficeHours:     p.OfficeHours,
		OnlineHours:     p.OnlineHours,
		OnlineReason:    p.OnlineReason,
		EmployeeComment: p.EmployeeComment,
		Status:          p.Status,
		AdminComment:    p.AdminComment,
		ReviewedBy:      p.ReviewedBy,
		Version:         p.Version,
		CreatedAt:       p.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:       p.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if p.User != nil {
		resp.UserName = p.User.Name
	}
	if p.ReviewedAt != nil {
		reviewedAt := p.ReviewedAt.Format("2006-01-02 15:04:05")
		resp.ReviewedAt = &reviewedAt
	}
	return resp
}

func toWeeklyPlanResponses(plans []model.WeeklyWorkPlan) []dto.WeeklyPlanResponse {
	result := make([]dto.WeeklyPlanResponse, 0, len(plans))
	for i := range plans {
		result = append(result, *toWeeklyPlanResponse(&plans[i]))
	}
	return result
}
