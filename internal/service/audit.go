package service

import (
	"context"

	"shelf-demo/internal/domain"
)

// AuditService exposes the audit trail for the admin API.
type AuditService struct {
	repo domain.AuditRepository
}

func NewAuditService(repo domain.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Recent returns the newest audit entries, up to limit.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	return s.repo.ListRecent(ctx, limit)
}
