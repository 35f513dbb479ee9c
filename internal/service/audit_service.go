package service

import (
	"context"
	"time"

	"bizledger/internal/model"
	"bizledger/internal/repository"

	"go.uber.org/zap"
)

type AuditLogResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	CreatedAt string `json:"created_at"`
}

// AuditService records who did what. Record never aborts the caller's
// action: its error is a warning to surface, not a failure.
type AuditService interface {
	Record(ctx context.Context, username, action, details string) error
	Recent(ctx context.Context, n int) ([]AuditLogResponse, error)
	GetAuditLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
	now  Clock
	log  *zap.Logger
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository, now Clock, log *zap.Logger) AuditService {
	return &auditService{repo: repo, now: orNow(now), log: log.Named("audit")}
}

func (s *auditService) Record(ctx context.Context, username, action, details string) error {
	entry := &model.AuditLog{
		Username:  username,
		Action:    action,
		Details:   details,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		s.log.Warn("audit write failed",
			zap.String("username", username),
			zap.String("action", action),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *auditService) Recent(ctx context.Context, n int) ([]AuditLogResponse, error) {
	if n <= 0 {
		n = 10
	}
	logs, err := s.repo.Recent(ctx, n)
	if err != nil {
		return nil, err
	}
	return toAuditResponses(logs), nil
}

// GetAuditLogs returns one page of the trail, newest first
func (s *auditService) GetAuditLogs(ctx context.Context, page, limit int) ([]AuditLogResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	logs, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toAuditResponses(logs), total, nil
}

func toAuditResponses(logs []model.AuditLog) []AuditLogResponse {
	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, AuditLogResponse{
			ID:        l.ID,
			Username:  l.Username,
			Action:    l.Action,
			Details:   l.Details,
			CreatedAt: l.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	return res
}
