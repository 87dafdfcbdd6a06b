package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Mali8881/onboarding-backend/internal/model"
	pkgerrors "github.com/Mali8881/onboarding-backend/pkg/errors"
)

// WorkScheduleRepository 工作制模板数据访问接口
type WorkScheduleRepository interface {
	Create(ctx context.Context, schedule *model.WorkSchedule) error
	GetByID(ctx context.Context, id string) (*model.WorkSchedule, error)
	GetDefault(ctx context.Context) (*model.WorkSchedule, error)
	List(ctx context.Context, activeOnly bool) ([]model.WorkSchedule, error)
	Update(ctx context.Context, schedule *model.WorkSchedule) error
	ClearDefault(ctx context.Context, exceptID string) error
	Delete(ctx context.Context, id string) error
}

// UserWorkScheduleRepository 用户工作制选择数据访问接口
type UserWorkScheduleRepository interface {
	Upsert(ctx context.Context, uws *model.UserWorkSchedule) error
	GetByUser(ctx context.Context, userID string) (*model.UserWorkSchedule, error)
	GetByID(ctx context.Context, id string) (*model.UserWorkSchedule, error)
	ListPending(ctx context.Context, offset, limit int) ([]model.UserWorkSchedule, int64, error)
	ListBySchedule(ctx context.Context, scheduleID string, offset, limit int) ([]model.UserWorkSchedule, int64, error)
	SetApproved(ctx context.Context, id string, approved bool) error
	DeleteByUser(ctx context.Context, userID string) error
}

// ── WorkSchedule Repository 实现 ──

type workScheduleRepo struct {
	db *gorm.DB
}

func NewWorkScheduleRepo(db *gorm.DB) WorkScheduleRepository {
	return &workScheduleRepo{db: db}
}

func (r *workScheduleRepo) Create(ctx context.Context, schedule *model.WorkSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *workScheduleRepo) GetByID(ctx context.Context, id string) (*model.WorkSchedule, error) {
	var schedule model.WorkSchedule
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *workScheduleRepo) GetDefault(ctx context.Context) (*model.WorkSchedule, error) {
	var schedule model.WorkSchedule
	err := r.db.WithContext(ctx).
		Where("is_default = TRUE AND is_active = TRUE").
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *workScheduleRepo) List(ctx context.Context, activeOnly bool) ([]model.WorkSchedule, error) {
	var schedules []model.WorkSchedule
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("is_active = TRUE")
	}
	err := db.Order("is_default DESC, created_at ASC").Find(&schedules).Error
	return schedules, err
}

func (r *workScheduleRepo) Update(ctx context.Context, schedule *model.WorkSchedule) error {
	oldVersion := schedule.Version
	result := r.db.WithContext(ctx).
		Model(schedule).
		Where("schedule_id = ? AND version = ?", schedule.ScheduleID, oldVersion).
		Updates(map[string]interface{}{
			"name":        schedule.Name,
			"work_days":   schedule.WorkDays,
			"start_time":  schedule.StartTime,
			"end_time":    schedule.EndTime,
			"break_start": schedule.BreakStart,
			"break_end":   schedule.BreakEnd,
			"is_default":  schedule.IsDefault,
			"is_active":   schedule.IsActive,
			"updated_by":  schedule.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	schedule.Version = oldVersion + 1
	return nil
}

// ClearDefault 清除其他模板的默认标记，保证默认模板全局唯一。
func (r *workScheduleRepo) ClearDefault(ctx context.Context, exceptID string) error {
	return r.db.WithContext(ctx).
		Model(&model.WorkSchedule{}).
		Where("is_default = TRUE AND schedule_id != ?", exceptID).
		Update("is_default", false).Error
}

func (r *workScheduleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("schedule_id = ?", id).
		Delete(&model.WorkSchedule{}).Error
}

// ── UserWorkSchedule Repository 实现 ──

type userWorkScheduleRepo struct {
	db *gorm.DB
}

func NewUserWorkScheduleRepo(db *gorm.DB) UserWorkScheduleRepository {
	return &userWorkScheduleRepo{db: db}
}

// Upsert 同一用户仅保留一条选择记录，重复选择覆盖旧记录。
func (r *userWorkScheduleRepo) Upsert(ctx context.Context, uws *model.UserWorkSchedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", uws.UserID).
			Delete(&model.UserWorkSchedule{}).Error; err != nil {
			return err
		}
		return tx.Create(uws).Error
	})
}

func (r *userWorkScheduleRepo) GetByUser(ctx context.Context, userID string) (*model.UserWorkSchedule, error) {
	var uws model.UserWorkSchedule
	err := r.db.WithContext(ctx).
		Preload("Schedule").
		Where("user_id = ?", userID).
		First(&uws).Error
	if err != nil {
		return nil, err
	}
	return &uws, nil
}

func (r *userWorkScheduleRepo) GetByID(ctx context.Context, id string) (*model.UserWorkSchedule, error) {
	var uws model.UserWorkSchedule
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Schedule").
		Where("user_schedule_id = ?", id).
		First(&uws).Error
	if err != nil {
		return nil, err
	}
	return &uws, nil
}

func (r *userWorkScheduleRepo) ListPending(ctx context.Context, offset, limit int) ([]model.UserWorkSchedule, int64, error) {
	var items []model.UserWorkSchedule
	var total int64

	db := r.db.WithContext(ctx).Model(&model.UserWorkSchedule{}).
		Where("approved = FALSE")

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("User").Preload("Schedule").
		Offset(offset).Limit(limit).
		Order("requested_at ASC").
		Find(&items).Error
	return items, total, err
}

func (r *userWorkScheduleRepo) ListBySchedule(ctx context.Context, scheduleID string, offset, limit int) ([]model.UserWorkSchedule, int64, error) {
	var items []model.UserWorkSchedule
	var total int64

	db := r.db.WithContext(ctx).Model(&model.UserWorkSchedule{}).
		Where("schedule_id = ?", scheduleID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("User").Preload("Schedule").
		Offset(offset).Limit(limit).
		Order("requested_at ASC").
		Find(&items).Error
	return items, total, err
}

func (r *userWorkScheduleRepo) SetApproved(ctx context.Context, id string, approved bool) error {
	return r.db.WithContext(ctx).
		Model(&model.UserWorkSchedule{}).
		Where("user_schedule_id = ?", id).
		Update("approved", approved).Error
}

func (r *userWorkScheduleRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.UserWorkSchedule{}).Error
}
