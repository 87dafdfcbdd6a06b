package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/Mali8881/onboarding-backend/internal/model"
	"github.com/Mali8881/onboarding-backend/internal/planner"
	"github.com/Mali8881/onboarding-backend/internal/repository"
)

// ── 日历订阅源 ──────────────────────────────────────────────
//
// 职责：把用户已批准的周计划导出为标准 iCalendar (RFC 5545) 流，
// 供外部日历客户端订阅。
//
// 设计决策：
//   - 仅导出 approved 状态的计划，pending/rejected 不进订阅源
//   - day_off 不产生事件
//   - 事件时间按 UTC 写出，由客户端侧时区渲染
//   - UID 稳定（plan_id + 日期），客户端重复拉取不产生重复事件
// ─────────────────────────────────────────────────────────────

// 订阅源最多回溯的周数
const feedMaxWeeks = 26

// FeedService 日历订阅源业务接口
type FeedService interface {
	// UserFeed 生成用户已批准周计划的 ICS 内容
	UserFeed(ctx context.Context, userID string) (string, error)
}

type feedService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFeedService 创建 FeedService 实例
func NewFeedService(repo *repository.Repository, logger *zap.Logger) FeedService {
	return &feedService{repo: repo, logger: logger}
}

func (s *feedService) UserFeed(ctx context.Context, userID string) (string, error) {
	plans, _, err := s.repo.WeeklyPlan.ListByUser(ctx, userID, 0, feedMaxWeeks)
	if err != nil {
		s.logger.Error("查询周计划失败", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//onboarding-portal//weekly-plans//RU")
	cal.SetName("Рабочие смены")

	for i := range plans {
		plan := &plans[i]
		if plan.Status != model.PlanStatusApproved {
			continue
		}
		for _, d := range plan.Days {
			if d.Mode == planner.ModeDayOff || d.StartTime == nil || d.EndTime == nil {
				continue
			}
			start, ok := shiftTime(d.Date, *d.StartTime)
			if !ok {
				continue
			}
			end, ok := shiftTime(d.Date, *d.EndTime)
			if !ok {
				continue
			}

			event := cal.AddEvent(fmt.Sprintf("%s-%s@onboarding-portal", plan.PlanID, d.Date))
			event.SetCreatedTime(plan.CreatedAt)
			event.SetDtStampTime(plan.UpdatedAt)
			event.SetStartAt(start)
			event.SetEndAt(end)
			if d.Mode == planner.ModeOnline {
				event.SetSummary("Смена (онлайн)")
			} else {
				event.SetSummary("Смена (офис)")
			}
			if d.Comment != "" {
				event.SetDescription(d.Comment)
			}
		}
	}

	return cal.Serialize(), nil
}

// shiftTime 把 "YYYY-MM-DD" + "HH:MM" 合成 UTC 时间点。
func shiftTime(isoDate, hhmm string) (time.Time, bool) {
	date, ok := planner.ParseISODate(isoDate)
	if !ok {
		return time.Time{}, false
	}
	minutes, ok := planner.HHMMToMinutes(hhmm)
	if !ok {
		return time.Time{}, false
	}
	return date.Add(time.Duration(minutes) * time.Minute), true
}
