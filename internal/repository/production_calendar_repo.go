package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Mali8881/onboarding-backend/internal/model"
)

// ProductionCalendarRepository 生产日历数据访问接口
type ProductionCalendarRepository interface {
	Upsert(ctx context.Context, day *model.ProductionCalendarDay) error
	BatchUpsert(ctx context.Context, days []model.ProductionCalendarDay, overwrite bool) error
	GetByDate(ctx context.Context, date time.Time) (*model.ProductionCalendarDay, error)
	ListRange(ctx context.Context, from, to time.Time) ([]model.ProductionCalendarDay, error)
}

type productionCalendarRepo struct {
	db *gorm.DB
}

func NewProductionCalendarRepo(db *gorm.DB) ProductionCalendarRepository {
	return &productionCalendarRepo{db: db}
}

func (r *productionCalendarRepo) Upsert(ctx context.Context, day *model.ProductionCalendarDay) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_working_day", "is_holiday", "holiday_name"}),
		}).
		Create(day).Error
}

// BatchUpsert 批量写入；overwrite 为 false 时跳过已有标记的日期。
func (r *productionCalendarRepo) BatchUpsert(ctx context.Context, days []model.ProductionCalendarDay, overwrite bool) error {
	if len(days) == 0 {
		return nil
	}
	conflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}
	if overwrite {
		conflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_working_day", "is_holiday", "holiday_name"}),
		}
	}
	return r.db.WithContext(ctx).Clauses(conflict).Create(&days).Error
}

func (r *productionCalendarRepo) GetByDate(ctx context.Context, date time.Time) (*model.ProductionCalendarDay, error) {
	var day model.ProductionCalendarDay
	err := r.db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *productionCalendarRepo) ListRange(ctx context.Context, from, to time.Time) ([]model.ProductionCalendarDay, error) {
	var days []model.ProductionCalendarDay
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("date ASC").
		Find(&days).Error
	return days, err
}
