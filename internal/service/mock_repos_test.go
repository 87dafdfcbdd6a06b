package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Mali8881/onboarding-backend/internal/model"
	"github.com/Mali8881/onboarding-backend/internal/repository"
	pkgerrors "github.com/Mali8881/onboarding-backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%03d", m.seq)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

// ── Mock WorkScheduleRepository ──

type mockWorkScheduleRepo struct {
	schedules map[string]*model.WorkSchedule
	seq       int
}

func newMockWorkScheduleRepo() *mockWorkScheduleRepo {
	return &mockWorkScheduleRepo{schedules: make(map[string]*model.WorkSchedule)}
}

func (m *mockWorkScheduleRepo) Create(_ context.Context, schedule *model.WorkSchedule) error {
	if schedule.ScheduleID == "" {
		m.seq++
		schedule.ScheduleID = fmt.Sprintf("ws-%03d", m.seq)
	}
	if schedule.Version == 0 {
		schedule.Version = 1
	}
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (m *mockWorkScheduleRepo) GetByID(_ context.Context, id string) (*model.WorkSchedule, error) {
	if s, ok := m.schedules[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkScheduleRepo) GetDefault(_ context.Context) (*model.WorkSchedule, error) {
	for _, s := range m.schedules {
		if s.IsDefault && s.IsActive {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkScheduleRepo) List(_ context.Context, activeOnly bool) ([]model.WorkSchedule, error) {
	var result []model.WorkSchedule
	for _, s := range m.schedules {
		if activeOnly && !s.IsActive {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockWorkScheduleRepo) Update(_ context.Context, schedule *model.WorkSchedule) error {
	existing, ok := m.schedules[schedule.ScheduleID]
	if !ok || existing.Version != schedule.Version {
		return pkgerrors.ErrOptimisticLock
	}
	schedule.Version++
	m.schedules[schedule.ScheduleID] = schedule
	return nil
}

func (m *mockWorkScheduleRepo) ClearDefault(_ context.Context, exceptID string) error {
	for _, s := range m.schedules {
		if s.ScheduleID != exceptID {
			s.IsDefault = false
		}
	}
	return nil
}

func (m *mockWorkScheduleRepo) Delete(_ context.Context, id string) error {
	delete(m.schedules, id)
	return nil
}

// ── Mock UserWorkScheduleRepository ──

type mockUserWorkScheduleRepo struct {
	byUser map[string]*model.UserWorkSchedule
	seq    int
}

func newMockUserWorkScheduleRepo() *mockUserWorkScheduleRepo {
	return &mockUserWorkScheduleRepo{byUser: make(map[string]*model.UserWorkSchedule)}
}

func (m *mockUserWorkScheduleRepo) Upsert(_ context.Context, uws *model.UserWorkSchedule) error {
	if uws.UserScheduleID == "" {
		m.seq++
		uws.UserScheduleID = fmt.Sprintf("uws-%03d", m.seq)
	}
	uws.RequestedAt = time.Now()
	m.byUser[uws.UserID] = uws
	return nil
}

func (m *mockUserWorkScheduleRepo) GetByUser(_ context.Context, userID string) (*model.UserWorkSchedule, error) {
	if u, ok := m.byUser[userID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserWorkScheduleRepo) GetByID(_ context.Context, id string) (*model.UserWorkSchedule, error) {
	for _, u := range m.byUser {
		if u.UserScheduleID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserWorkScheduleRepo) ListPending(_ context.Context, offset, limit int) ([]model.UserWorkSchedule, int64, error) {
	var result []model.UserWorkSchedule
	for _, u := range m.byUser {
		if !u.Approved {
			result = append(result, *u)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockUserWorkScheduleRepo) ListBySchedule(_ context.Context, scheduleID string, offset, limit int) ([]model.UserWorkSchedule, int64, error) {
	var result []model.UserWorkSchedule
	for _, u := range m.byUser {
		if u.ScheduleID == scheduleID {
			result = append(result, *u)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockUserWorkScheduleRepo) SetApproved(_ context.Context, id string, approved bool) error {
	for _, u := range m.byUser {
		if u.UserScheduleID == id {
			u.Approved = approved
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockUserWorkScheduleRepo) DeleteByUser(_ context.Context, userID string) error {
	delete(m.byUser, userID)
	return nil
}

// ── Mock ProductionCalendarRepository ──

type mockProductionCalendarRepo struct {
	days map[string]*model.ProductionCalendarDay
}

func newMockProductionCalendarRepo() *mockProductionCalendarRepo {
	return &mockProductionCalendarRepo{days: make(map[string]*model.ProductionCalendarDay)}
}

func (m *mockProductionCalendarRepo) Upsert(_ context.Context, day *model.ProductionCalendarDay) error {
	m.days[day.Date.Format("2006-01-02")] = day
	return nil
}

func (m *mockProductionCalendarRepo) BatchUpsert(_ context.Context, days []model.ProductionCalendarDay, overwrite bool) error {
	for i := range days {
		key := days[i].Date.Format("2006-01-02")
		if _, exists := m.days[key]; exists && !overwrite {
			continue
		}
		d := days[i]
		m.days[key] = &d
	}
	return nil
}

func (m *mockProductionCalendarRepo) GetByDate(_ context.Context, date time.Time) (*model.ProductionCalendarDay, error) {
	if d, ok := m.days[date.Format("2006-01-02")]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProductionCalendarRepo) ListRange(_ context.Context, from, to time.Time) ([]model.ProductionCalendarDay, error) {
	var result []model.ProductionCalendarDay
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if v, ok := m.days[d.Format("2006-01-02")]; ok {
			result = append(result, *v)
		}
	}
	return result, nil
}

// ── Mock WeeklyPlanRepository ──

type mockWeeklyPlanRepo struct {
	plans map[string]*model.WeeklyWorkPlan
	seq   int
}

func newMockWeeklyPlanRepo() *mockWeeklyPlanRepo {
	return &mockWeeklyPlanRepo{plans: make(map[string]*model.WeeklyWorkPlan)}
}

func (m *mockWeeklyPlanRepo) Create(_ context.Context, plan *model.WeeklyWorkPlan) error {
	if plan.PlanID == "" {
		m.seq++
		plan.PlanID = fmt.Sprintf("plan-%03d", m.seq)
	}
	if plan.Version == 0 {
		plan.Version = 1
	}
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()
	m.plans[plan.PlanID] = plan
	return nil
}

func (m *mockWeeklyPlanRepo) GetByID(_ context.Context, id string) (*model.WeeklyWorkPlan, error) {
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWeeklyPlanRepo) GetByUserAndWeek(_ context.Context, userID string, weekStart time.Time) (*model.WeeklyWorkPlan, error) {
	for _, p := range m.plans {
		if p.UserID == userID && p.WeekStart.Equal(weekStart) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWeeklyPlanRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.WeeklyWorkPlan, int64, error) {
	var result []model.WeeklyWorkPlan
	for _, p := range m.plans {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockWeeklyPlanRepo) List(_ context.Context, filter repository.WeeklyPlanFilter, offset, limit int) ([]model.WeeklyWorkPlan, int64, error) {
	var result []model.WeeklyWorkPlan
	for _, p := range m.plans {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.WeekStart != nil && !p.WeekStart.Equal(*filter.WeekStart) {
			continue
		}
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (m *mockWeeklyPlanRepo) Update(_ context.Context, plan *model.WeeklyWorkPlan) error {
	existing, ok := m.plans[plan.PlanID]
	if !ok || existing.Version != plan.Version {
		return pkgerrors.ErrOptimisticLock
	}
	plan.Version++
	plan.UpdatedAt = time.Now()
	m.plans[plan.PlanID] = plan
	return nil
}

// ── Mock WeeklyPlanChangeLogRepository ──

type mockPlanChangeLogRepo struct {
	logs []*model.WeeklyPlanChangeLog
}

func newMockPlanChangeLogRepo() *mockPlanChangeLogRepo {
	return &mockPlanChangeLogRepo{}
}

func (m *mockPlanChangeLogRepo) Create(_ context.Context, log *model.WeeklyPlanChangeLog) error {
	log.ChangeLogID = fmt.Sprintf("cl-%03d", len(m.logs)+1)
	log.CreatedAt = time.Now()
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockPlanChangeLogRepo) ListByPlan(_ context.Context, planID string, offset, limit int) ([]model.WeeklyPlanChangeLog, int64, error) {
	var result []model.WeeklyPlanChangeLog
	for _, l := range m.logs {
		if l.PlanID == planID {
			result = append(result, *l)
		}
	}
	return result, int64(len(result)), nil
}

// ── Mock AuditLogRepository ──

type mockAuditLogRepo struct {
	logs []*model.AuditLog
}

func newMockAuditLogRepo() *mockAuditLogRepo {
	return &mockAuditLogRepo{}
}

func (m *mockAuditLogRepo) Create(_ context.Context, log *model.AuditLog) error {
	log.AuditLogID = fmt.Sprintf("audit-%03d", len(m.logs)+1)
	log.CreatedAt = time.Now()
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockAuditLogRepo) List(_ context.Context, filter repository.AuditLogFilter, offset, limit int) ([]model.AuditLog, int64, error) {
	var result []model.AuditLog
	for _, l := range m.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		result = append(result, *l)
	}
	return result, int64(len(result)), nil
}

// ── 测试聚合 ──

func newMockRepository() *repository.Repository {
	return &repository.Repository{
		User:               newMockUserRepo(),
		WorkSchedule:       newMockWorkScheduleRepo(),
		UserWorkSchedule:   newMockUserWorkScheduleRepo(),
		ProductionCalendar: newMockProductionCalendarRepo(),
		WeeklyPlan:         newMockWeeklyPlanRepo(),
		PlanChangeLog:      newMockPlanChangeLogRepo(),
		AuditLog:           newMockAuditLogRepo(),
	}
}
