package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Mali8881/onboarding-backend/internal/model"
	"github.com/Mali8881/onboarding-backend/internal/planner"
	"github.com/Mali8881/onboarding-backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoPlans      = errors.New("该周暂无周计划")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - Excel 格式：单 Sheet，行首为员工，周一至周日各一列，尾部为小时聚合
type ExportService interface {
	// ExportWeek 导出某周全部周计划为 Excel
	ExportWeek(ctx context.Context, weekStart string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// 单元格文本: "09:00–17:00 офис" / "09:00–17:00 онлайн" / "—"
func shiftCellText(d planner.ShiftPayload) string {
	if d.Mode == planner.ModeDayOff || d.StartTime == nil || d.EndTime == nil {
		return "—"
	}
	label := "офис"
	if d.Mode == planner.ModeOnline {
		label = "онлайн"
	}
	return fmt.Sprintf("%s–%s %s", *d.StartTime, *d.EndTime, label)
}

func (s *exportService) ExportWeek(ctx context.Context, weekStart string) (*bytes.Buffer, string, error) {
	weekDate, ok := planner.ParseISODate(weekStart)
	if !ok || planner.MondayOf(weekStart) != weekStart {
		return nil, "", ErrPlanWeekInvalid
	}

	// 1. 查询该周全部计划
	filter := repository.WeeklyPlanFilter{WeekStart: &weekDate}
	plans, _, err := s.repo.WeeklyPlan.List(ctx, filter, 0, 10000)
	if err != nil {
		s.logger.Error("查询周计划失败", zap.Error(err))
		return nil, "", err
	}
	if len(plans) == 0 {
		return nil, "", ErrExportNoPlans
	}

	// 2. 生成表格
	f := excelize.NewFile()
	defer f.Close()

	sheet := "План на неделю"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Сотрудник", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс", "Офис (ч)", "Онлайн (ч)", "Статус"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, plan := range plans {
		name := plan.UserID
		if plan.User != nil {
			name = plan.User.Name
		}

		cellsByDate := make(map[string]string, len(plan.Days))
		for _, d := range plan.Days {
			cellsByDate[d.Date] = shiftCellText(d)
		}

		values := make([]interface{}, 0, len(headers))
		values = append(values, name)
		for day := 0; day < planner.DaysPerWeek; day++ {
			iso := planner.AddDays(weekStart, day)
			text, ok := cellsByDate[iso]
			if !ok {
				text = "—"
			}
			values = append(values, text)
		}
		values = append(values, plan.OfficeHours, plan.OnlineHours, statusLabel(plan.Status))

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	// 3. 列宽：姓名与班次列放宽
	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "H", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("weekly_plans_%s.xlsx", weekStart)
	return buf, filename, nil
}

func statusLabel(status string) string {
	switch status {
	case model.PlanStatusPending:
		return "на рассмотрении"
	case model.PlanStatusClarificationRequested:
		return "запрошено уточнение"
	case model.PlanStatusApproved:
		return "согласован"
	case model.PlanStatusRejected:
		return "отклонён"
	}
	return status
}
