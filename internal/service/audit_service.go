package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Mali8881/onboarding-backend/internal/dto"
	"github.com/Mali8881/onboarding-backend/internal/model"
	"github.com/Mali8881/onboarding-backend/internal/repository"
)

// AuditEntry 审计事件写入参数
type AuditEntry struct {
	Action     string
	ActorID    string
	ObjectType string
	ObjectID   string
	Level      string
	Category   string
	IPAddress  string
	Metadata   map[string]interface{}
}

// AuditService 审计日志业务接口
type AuditService interface {
	// Record 写入一条审计事件；写入失败只记日志，不阻断主流程。
	Record(ctx context.Context, entry AuditEntry)
	List(ctx context.Context, req *dto.AuditLogListRequest) ([]dto.AuditLogResponse, int64, error)
}

type auditService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAuditService 创建 AuditService 实例
func NewAuditService(repo *repository.Repository, logger *zap.Logger) AuditService {
	return &auditService{repo: repo, logger: logger}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) {
	level := entry.Level
	if level == "" {
		level = model.AuditLevelInfo
	}
	category := entry.Category
	if category == "" {
		category = model.AuditCategoryContent
	}

	log := &model.AuditLog{
		Action:     entry.Action,
		ObjectType: entry.ObjectType,
		ObjectID:   entry.ObjectID,
		Level:      level,
		Category:   category,
		IPAddress:  entry.IPAddress,
		Metadata:   entry.Metadata,
	}
	if entry.ActorID != "" {
		actorID := entry.ActorID
		log.ActorID = &actorID
	}
	if log.Metadata == nil {
		log.Metadata = model.JSONMap{}
	}

	if err := s.repo.AuditLog.Create(ctx, log); err != nil {
		s.logger.Warn("审计事件写入失败",
			zap.String("action", entry.Action),
			zap.Error(err))
	}
}

func (s *auditService) List(ctx context.Context, req *dto.AuditLogListRequest) ([]dto.AuditLogResponse, int64, error) {
	filter := repository.AuditLogFilter{
		Action:   req.Action,
		ActorID:  req.ActorID,
		Category: req.Category,
		Level:    req.Level,
	}
	logs, total, err := s.repo.AuditLog.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询审计日志失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		item := dto.AuditLogResponse{
			ID:         l.AuditLogID,
			Action:     l.Action,
			ActorID:    l.ActorID,
			ObjectType: l.ObjectType,
			ObjectID:   l.ObjectID,
			Level:      l.Level,
			Category:   l.Category,
			IPAddress:  l.IPAddress,
			Metadata:   l.Metadata,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if l.Actor != nil {
			item.ActorName = l.Actor.Name
		}
		result = append(result, item)
	}
	return result, total, nil
}
