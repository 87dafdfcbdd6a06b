package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Mali8881/onboarding-backend/internal/dto"
	"github.com/Mali8881/onboarding-backend/internal/model"
	"github.com/Mali8881/onboarding-backend/internal/planner"
	"github.com/Mali8881/onboarding-backend/internal/repository"
)

// ── 工作制模块业务错误 ──

var (
	ErrScheduleNotFound      = errors.New("工作制模板不存在")
	ErrScheduleInactive      = errors.New("工作制模板已停用")
	ErrScheduleTimeInvalid   = errors.New("工作制时间格式无效")
	ErrScheduleRequestAbsent = errors.New("工作制选择记录不存在")
)

// WorkScheduleService 工作制模板业务接口
type WorkScheduleService interface {
	Create(ctx context.Context, req *dto.CreateWorkScheduleRequest, callerID string) (*dto.WorkScheduleResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateWorkScheduleRequest, callerID string) (*dto.WorkScheduleResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	GetByID(ctx context.Context, id string) (*dto.WorkScheduleResponse, error)
	// ListOptions 员工可选模板列表（仅启用的）
	ListOptions(ctx context.Context) ([]dto.WorkScheduleResponse, error)
	// ListAll 管理端模板列表（含停用的）
	ListAll(ctx context.Context) ([]dto.WorkScheduleResponse, error)
	// Choose 员工选择工作制，等待管理员审批
	Choose(ctx context.Context, userID string, req *dto.ChooseWorkScheduleRequest) (*dto.UserWorkScheduleResponse, error)
	// My 当前用户的工作制（无选择时回落默认模板）
	My(ctx context.Context, userID string) (*dto.UserWorkScheduleResponse, error)
	// ListRequests 待审批的选择请求
	ListRequests(ctx context.Context, req *dto.PaginationRequest) ([]dto.UserWorkScheduleResponse, int64, error)
	// TemplateUsers 选择了某模板的用户列表
	TemplateUsers(ctx context.Context, scheduleID string, req *dto.PaginationRequest) ([]dto.UserWorkScheduleResponse, int64, error)
	// Decide 审批选择请求；驳回时删除选择记录
	Decide(ctx context.Context, requestID string, req *dto.ScheduleRequestDecision, callerID string) error
}

type workScheduleService struct {
	repo   *repository.Repository
	audit  AuditService
	logger *zap.Logger
}

// NewWorkScheduleService 创建 WorkScheduleService 实例
func NewWorkScheduleService(repo *repository.Repository, audit AuditService, logger *zap.Logger) WorkScheduleService {
	return &workScheduleService{repo: repo, audit: audit, logger: logger}
}

// validateScheduleTimes 检查 HH:MM 格式与起止顺序。
func validateScheduleTimes(start, end string, breakStart, breakEnd *string) error {
	startM, ok := planner.HHMMToMinutes(start)
	if !ok {
		return ErrScheduleTimeInvalid
	}
	endM, ok := planner.HHMMToMinutes(end)
	if !ok || endM <= startM {
		return ErrScheduleTimeInvalid
	}
	if breakStart != nil || breakEnd != nil {
		if breakStart == nil || breakEnd == nil {
			return ErrScheduleTimeInvalid
		}
		bs, ok := planner.HHMMToMinutes(*breakStart)
		if !ok {
			return ErrScheduleTimeInvalid
		}
		be, ok := planner.HHMMToMinutes(*breakEnd)
		if !ok || be <= bs || bs < startM || be > endM {
			return ErrScheduleTimeInvalid
		}
	}
	return nil
}

func (s *workScheduleService) Create(ctx context.Context, req *dto.CreateWorkScheduleRequest, callerID string) (*dto.WorkScheduleResponse, error) {
	if err := validateScheduleTimes(req.StartTime, req.EndTime, req.BreakStart, req.BreakEnd); err != nil {
		return nil, err
	}

	schedule := &model.WorkSchedule{
		Name:           req.Name,
		WorkDays:       model.IntArray(req.WorkDays),
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		BreakStart:     req.BreakStart,
		BreakEnd:       req.BreakEnd,
		IsDefault:      req.IsDefault,
		IsActive:       true,
		VersionedModel: model.VersionedModel{SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &callerID}}},
	}

	if err := s.repo.WorkSchedule.Create(ctx, schedule); err != nil {
		s.logger.Error("创建工作制模板失败", zap.Error(err))
		return nil, err
	}
	if schedule.IsDefault {
		if err := s.repo.WorkSchedule.ClearDefault(ctx, schedule.ScheduleID); err != nil {
			s.logger.Error("清除旧默认模板失败", zap.Error(err))
			return nil, err
		}
	}

	s.audit.Record(ctx, AuditEntry{
		Action:     "work_schedule.created",
		ActorID:    callerID,
		ObjectType: "work_schedule",
		ObjectID:   schedule.ScheduleID,
		Category:   model.AuditCategoryAdmin,
		Metadata:   map[string]interface{}{"name": schedule.Name},
	})
	return toWorkScheduleResponse(schedule), nil
}

func (s *workScheduleService) Update(ctx context.Context, id string, req *dto.UpdateWorkScheduleRequest, callerID string) (*dto.WorkScheduleResponse, error) {
	schedule, err := s.repo.WorkSchedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		schedule.Name = *req.Name
	}
	if req.WorkDays != nil {
		schedule.WorkDays = model.IntArray(req.WorkDays)
	}
	if req.StartTime != nil {
		schedule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		schedule.EndTime = *req.EndTime
	}
	if req.BreakStart != nil {
		schedule.BreakStart = req.BreakStart
	}
	if req.BreakEnd != nil {
		schedule.BreakEnd = req.BreakEnd
	}
	if req.IsDefault != nil {
		schedule.IsDefault = *req.IsDefault
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}
	if err := validateScheduleTimes(schedule.StartTime, schedule.EndTime, schedule.BreakStart, schedule.BreakEnd); err != nil {
		return nil, err
	}

	schedule.Version = req.Version
	schedule.UpdatedBy = &callerID
	if err := s.repo.WorkSchedule.Update(ctx, schedule); err != nil {
		return nil, err
	}
	if schedule.IsDefault {
		if err := s.repo.WorkSchedule.ClearDefault(ctx, schedule.ScheduleID); err != nil {
			s.logger.Error("清除旧默认模板失败", zap.Error(err))
			return nil, err
		}
	}

	s.audit.Record(ctx, AuditEntry{
		Action:     "work_schedule.updated",
		ActorID:    callerID,
		ObjectType: "work_schedule",
		ObjectID:   id,
		Category:   model.AuditCategoryAdmin,
	})
	return toWorkScheduleResponse(schedule), nil
}

func (s *workScheduleService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.WorkSchedule.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	if err := s.repo.WorkSchedule.Delete(ctx, id); err != nil {
		s.logger.Error("删除工作制模板失败", zap.Error(err))
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		Action:     "work_schedule.deleted",
		ActorID:    callerID,
		ObjectType: "work_schedule",
		ObjectID:   id,
		Category:   model.AuditCategoryAdmin,
	})
	return nil
}

func (s *workScheduleService) GetByID(ctx context.Context, id string) (*dto.WorkScheduleResponse, error) {
	schedule, err := s.repo.WorkSchedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return toWorkScheduleResponse(schedule), nil
}

func (s *workScheduleService) ListOptions(ctx context.Context) ([]dto.WorkScheduleResponse, error) {
	return s.list(ctx, true)
}

func (s *workScheduleService) ListAll(ctx context.Context) ([]dto.WorkScheduleResponse, error) {
	return s.list(ctx, false)
}

func (s *workScheduleService) list(ctx context.Context, activeOnly bool) ([]dto.WorkScheduleResponse, error) {
	schedules, err := s.repo.WorkSchedule.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("查询工作制模板失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.WorkScheduleResponse, 0, len(schedules))
	for i := range schedules {
		result = append(result, *toWorkScheduleResponse(&schedules[i]))
	}
	return result, nil
}

func (s *workScheduleService) Choose(ctx context.Context, userID string, req *dto.ChooseWorkScheduleRequest) (*dto.UserWorkScheduleResponse, error) {
	schedule, err := s.repo.WorkSchedule.GetByID(ctx, req.ScheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	if !schedule.IsActive {
		return nil, ErrScheduleInactive
	}

	uws := &model.UserWorkSchedule{
		UserID:     userID,
		ScheduleID: schedule.ScheduleID,
		Approved:   false,
	}
	if err := s.repo.UserWorkSchedule.Upsert(ctx, uws); err != nil {
		s.logger.Error("保存工作制选择失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, AuditEntry{
		Action:     "work_schedule.chosen",
		ActorID:    userID,
		ObjectType: "user_work_schedule",
		ObjectID:   uws.UserScheduleID,
		Metadata:   map[string]interface{}{"schedule_id": schedule.ScheduleID},
	})

	uws.Schedule = schedule
	return toUserWorkScheduleResponse(uws), nil
}

func (s *workScheduleService) My(ctx context.Context, userID string) (*dto.UserWorkScheduleResponse, error) {
	uws, err := s.repo.UserWorkSchedule.GetByUser(ctx, userID)
	if err == nil {
		return toUserWorkScheduleResponse(uws), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 未选择时回落全局默认模板
	def, err := s.repo.WorkSchedule.GetDefault(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &dto.UserWorkScheduleResponse{
		UserID:   userID,
		Schedule: toWorkScheduleResponse(def),
		Approved: true,
	}, nil
}

func (s *workScheduleService) ListRequests(ctx context.Context, req *dto.PaginationRequest) ([]dto.UserWorkScheduleResponse, int64, error) {
	items, total, err := s.repo.UserWorkSchedule.ListPending(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询工作制审批队列失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.UserWorkScheduleResponse, 0, len(items))
	for i := range items {
		result = append(result, *toUserWorkScheduleResponse(&items[i]))
	}
	return result, total, nil
}

func (s *workScheduleService) TemplateUsers(ctx context.Context, scheduleID string, req *dto.PaginationRequest) ([]dto.UserWorkScheduleResponse, int64, error) {
	if _, err := s.repo.WorkSchedule.GetByID(ctx, scheduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrScheduleNotFound
		}
		return nil, 0, err
	}

	items, total, err := s.repo.UserWorkSchedule.ListBySchedule(ctx, scheduleID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询模板用户列表失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.UserWorkScheduleResponse, 0, len(items))
	for i := range items {
		result = append(result, *toUserWorkScheduleResponse(&items[i]))
	}
	return result, total, nil
}

func (s *workScheduleService) Decide(ctx context.Context, requestID string, req *dto.ScheduleRequestDecision, callerID string) error {
	uws, err := s.repo.UserWorkSchedule.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleRequestAbsent
		}
		return err
	}

	if req.Approved {
		if err := s.repo.UserWorkSchedule.SetApproved(ctx, requestID, true); err != nil {
			s.logger.Error("审批工作制选择失败", zap.Error(err))
			return err
		}
	} else {
		if err := s.repo.UserWorkSchedule.DeleteByUser(ctx, uws.UserID); err != nil {
			s.logger.Error("驳回工作制选择失败", zap.Error(err))
			return err
		}
	}

	action := "work_schedule.request_approved"
	if !req.Approved {
		action = "work_schedule.request_rejected"
	}
	s.audit.Record(ctx, AuditEntry{
		Action:     action,
		ActorID:    callerID,
		ObjectType: "user_work_schedule",
		ObjectID:   requestID,
		Category:   model.AuditCategoryAdmin,
		Metadata:   map[string]interface{}{"user_id": uws.UserID},
	})
	return nil
}

func toWorkScheduleResponse(w *model.WorkSchedule) *dto.WorkScheduleResponse {
	return &dto.WorkScheduleResponse{
		ID:         w.ScheduleID,
		Name:       w.Name,
		WorkDays:   []int(w.WorkDays),
		StartTime:  w.StartTime,
		EndTime:    w.EndTime,
		BreakStart: w.BreakStart,
		BreakEnd:   w.BreakEnd,
		IsDefault:  w.IsDefault,
		IsActive:   w.IsActive,
		Version:    w.Version,
		CreatedAt:  w.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:  w.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toUserWorkScheduleResponse(u *model.UserWorkSchedule) *dto.UserWorkScheduleResponse {
	resp := &dto.UserWorkScheduleResponse{
		ID:          u.UserScheduleID,
		UserID:      u.UserID,
		Approved:    u.Approved,
		RequestedAt: u.RequestedAt.Format("2006-01-02 15:04:05"),
	}
	if u.User != nil {
		resp.UserName = u.User.Name
	}
	if u.Schedule != nil {
		resp.Schedule = toWorkScheduleResponse(u.Schedule)
	}
	return resp
}
