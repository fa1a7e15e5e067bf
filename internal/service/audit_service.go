package service

import (
	"context"
	"fmt"
	"time"

	"taxcal/internal/repository"
	"taxcal/pkg/pagination"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	Action     string `json:"action"`
	EntityID   string `json:"entityId"`
	EntityName string `json:"entityName"`
	Details    string `json:"details"`
	CreatedAt  string `json:"createdAt"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, p pagination.Params) (pagination.Page[AuditLogResponse], error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// GetAuditLogs returns one page of the rule change history, newest first
func (s *auditService) GetAuditLogs(ctx context.Context, p pagination.Params) (pagination.Page[AuditLogResponse], error) {
	logs, total, err := s.repo.List(ctx, p)
	if err != nil {
		return pagination.Page[AuditLogResponse]{}, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return pagination.NewPage(res, total, p), nil
}
