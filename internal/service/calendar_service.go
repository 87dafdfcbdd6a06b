package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Mali8881/onboarding-backend/internal/dto"
	"github.com/Mali8881/onboarding-backend/internal/model"
	"github.com/Mali8881/onboarding-backend/internal/planner"
	"github.com/Mali8881/onboarding-backend/internal/repository"
)

// ── 生产日历模块业务错误 ──

var ErrCalendarDateInvalid = errors.New("日期格式无效，应为 YYYY-MM-DD")

// CalendarService 生产日历业务接口
type CalendarService interface {
	// MonthView 月视图；is_personal 按当前用户的工作制派生
	MonthView(ctx context.Context, userID string, req *dto.CalendarMonthRequest) (*dto.CalendarMonthResponse, error)
	// UpsertDay 管理端标记单日（节假日/调休）
	UpsertDay(ctx context.Context, req *dto.UpsertCalendarDayRequest, callerID string) (*dto.CalendarDayResponse, error)
	// GenerateMonth 按周一至周五工作、周末休息批量生成整月
	GenerateMonth(ctx context.Context, req *dto.GenerateCalendarMonthRequest, callerID string) (int, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

// userWorkDays 返回用户生效工作制的上班星期集合（1=周一 … 7=周日）。
// 无选择且无默认模板时回落周一至周五。
func (s *calendarService) userWorkDays(ctx context.Context, userID string) map[int]bool {
	workDays := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}

	uws, err := s.repo.UserWorkSchedule.GetByUser(ctx, userID)
	if err == nil && uws.Approved && uws.Schedule != nil {
		return intSetOf(uws.Schedule.WorkDays)
	}

	def, err := s.repo.WorkSchedule.GetDefault(ctx)
	if err == nil {
		return intSetOf(def.WorkDays)
	}
	return workDays
}

func intSetOf(days model.IntArray) map[int]bool {
	set := make(map[int]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}

func (s *calendarService) MonthView(ctx context.Context, userID string, req *dto.CalendarMonthRequest) (*dto.CalendarMonthResponse, error) {
	first := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	marked, err := s.repo.ProductionCalendar.ListRange(ctx, first, last)
	if err != nil {
		s.logger.Error("查询生产日历失败", zap.Error(err))
		return nil, err
	}
	markedByDate := make(map[string]*model.ProductionCalendarDay, len(marked))
	for i := range marked {
		markedByDate[planner.FormatISODate(marked[i].Date)] = &marked[i]
	}

	workDays := s.userWorkDays(ctx, userID)

	days := make([]dto.CalendarDayResponse, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		iso := planner.FormatISODate(d)
		isoWeekday := int(d.Weekday())
		if isoWeekday == 0 {
			isoWeekday = 7
		}

		day := dto.CalendarDayResponse{
			Date:         iso,
			IsWorkingDay: isoWeekday <= 5,
			IsPersonal:   workDays[isoWeekday],
		}
		if m, ok := markedByDate[iso]; ok {
			day.IsWorkingDay = m.IsWorkingDay
			day.IsHoliday = m.IsHoliday
			day.HolidayName = m.HolidayName
			if m.IsHoliday {
				day.IsPersonal = false
			}
		}
		days = append(days, day)
	}

	return &dto.CalendarMonthResponse{Year: req.Year, Month: req.Month, Days: days}, nil
}

func (s *calendarService) UpsertDay(ctx context.Context, req *dto.UpsertCalendarDayRequest, callerID string) (*dto.CalendarDayResponse, error) {
	date, ok := planner.ParseISODate(req.Date)
	if !ok {
		return nil, ErrCalendarDateInvalid
	}

	day := &model.ProductionCalendarDay{
		Date:         date,
		IsWorkingDay: req.IsWorkingDay,
		IsHoliday:    req.IsHoliday,
		HolidayName:  req.HolidayName,
	}
	if err := s.repo.ProductionCalendar.Upsert(ctx, day); err != nil {
		s.logger.Error("标记生产日历失败", zap.Error(err), zap.String("date", req.Date))
		return nil, err
	}

	return &dto.CalendarDayResponse{
		Date:         req.Date,
		IsWorkingDay: day.IsWorkingDay,
		IsHoliday:    day.IsHoliday,
		HolidayName:  day.HolidayName,
	}, nil
}

func (s *calendarService) GenerateMonth(ctx context.Context, req *dto.GenerateCalendarMonthRequest, callerID string) (int, error) {
	first := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	days := make([]model.ProductionCalendarDay, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		weekday := d.Weekday()
		days = append(days, model.ProductionCalendarDay{
			Date:         d,
			IsWorkingDay: weekday != time.Saturday && weekday != time.Sunday,
		})
	}

	if err := s.repo.ProductionCalendar.BatchUpsert(ctx, days, req.Overwrite); err != nil {
		s.logger.Error("生成生产日历失败", zap.Error(err),
			zap.Int("year", req.Year), zap.Int("month", req.Month))
		return 0, err
	}
	return len(days), nil
}
