package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Mali8881/onboarding-backend/internal/model"
	pkgerrors "github.com/Mali8881/onboarding-backend/pkg/errors"
)

// WeeklyPlanFilter 管理端周计划列表过滤条件
type WeeklyPlanFilter struct {
	Status    string
	WeekStart *time.Time
	UserID    string
}

// WeeklyPlanRepository 周计划数据访问接口
type WeeklyPlanRepository interface {
	Create(ctx context.Context, plan *model.WeeklyWorkPlan) error
	GetByID(ctx context.Context, id string) (*model.WeeklyWorkPlan, error)
	GetByUserAndWeek(ctx context.Context, userID string, weekStart time.Time) (*model.WeeklyWorkPlan, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.WeeklyWorkPlan, int64, error)
	List(ctx context.Context, filter WeeklyPlanFilter, offset, limit int) ([]model.WeeklyWorkPlan, int64, error)
	Update(ctx context.Context, plan *model.WeeklyWorkPlan) error
}

// WeeklyPlanChangeLogRepository 周计划变更日志数据访问接口
type WeeklyPlanChangeLogRepository interface {
	Create(ctx context.Context, log *model.WeeklyPlanChangeLog) error
	ListByPlan(ctx context.Context, planID string, offset, limit int) ([]model.WeeklyPlanChangeLog, int64, error)
}

// ── WeeklyPlan Repository 实现 ──

type weeklyPlanRepo struct {
	db *gorm.DB
}

func NewWeeklyPlanRepo(db *gorm.DB) WeeklyPlanRepository {
	return &weeklyPlanRepo{db: db}
}

func (r *weeklyPlanRepo) Create(ctx context.Context, plan *model.WeeklyWorkPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *weeklyPlanRepo) GetByID(ctx context.Context, id string) (*model.WeeklyWorkPlan, error) {
	var plan model.WeeklyWorkPlan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Reviewer").
		Where("plan_id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *weeklyPlanRepo) GetByUserAndWeek(ctx context.Context, userID string, weekStart time.Time) (*model.WeeklyWorkPlan, error) {
	var plan model.WeeklyWorkPlan
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND week_start = ?", userID, weekStart.Format("2006-01-02")).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *weeklyPlanRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.WeeklyWorkPlan, int64, error) {
	var plans []model.WeeklyWorkPlan
	var total int64

	db := r.db.WithContext(ctx).Model(&model.WeeklyWorkPlan{}).
		Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("week_start DESC").
		Find(&plans).Error
	return plans, total, err
}

func (r *weeklyPlanRepo) List(ctx context.Context, filter WeeklyPlanFilter, offset, limit int) ([]model.WeeklyWorkPlan, int64, error) {
	var plans []model.WeeklyWorkPlan
	var total int64

	db := r.db.WithContext(ctx).Model(&model.WeeklyWorkPlan{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.WeekStart != nil {
		db = db.Where("week_start = ?", filter.WeekStart.Format("2006-01-02"))
	}
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("User").
		Offset(offset).Limit(limit).
		Order("week_start DESC, created_at DESC").
		Find(&plans).Error
	return plans, total, err
}

func (r *weeklyPlanRepo) Update(ctx context.Context, plan *model.WeeklyWorkPlan) error {
	oldVersion := plan.Version
	result := r.db.WithContext(ctx).
		Model(plan).
		Where("plan_id = ? AND version = ?", plan.PlanID, oldVersion).
		Updates(map[string]interface{}{
			"days":             plan.Days,
			"office_hours":     plan.OfficeHours,
			"online_hours":     plan.OnlineHours,
			"online_reason":    plan.OnlineReason,
			"employee_comment": plan.EmployeeComment,
			"status":           plan.Status,
			"admin_comment":    plan.AdminComment,
			"reviewed_by":      plan.ReviewedBy,
			"reviewed_at":      plan.ReviewedAt,
			"updated_by":       plan.UpdatedBy,
			"version":          oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	plan.Version = oldVersion + 1
	return nil
}

// ── WeeklyPlanChangeLog Repository 实现 ──

type weeklyPlanChangeLogRepo struct {
	db *gorm.DB
}

func NewWeeklyPlanChangeLogRepo(db *gorm.DB) WeeklyPlanChangeLogRepository {
	return &weeklyPlanChangeLogRepo{db: db}
}

func (r *weeklyPlanChangeLogRepo) Create(ctx context.Context, log *model.WeeklyPlanChangeLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *weeklyPlanChangeLogRepo) ListByPlan(ctx context.Context, planID string, offset, limit int) ([]model.WeeklyPlanChangeLog, int64, error) {
	var logs []model.WeeklyPlanChangeLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.WeeklyPlanChangeLog{}).
		Where("plan_id = ?", planID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, total, err
}
