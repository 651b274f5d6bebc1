package repository

import (
	"context"
	"database/sql"

	"shelf-demo/internal/db/mapper"
	"shelf-demo/internal/domain"
)

var _ domain.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implements domain.AuditRepository over SQLite.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Insert appends one audit record.
func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (principal, action, entity, entity_id, status, detail, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Principal, e.Action, e.Entity,
		mapper.NullInt64FromPtr(e.EntityID), e.Status,
		mapper.NullStrFromPtr(e.Detail), mapper.NullInt64FromPtr(e.DurationMs))
	return mapDBError(err)
}

// ListRecent returns the most recent audit records, newest first.
func (r *AuditRepo) ListRecent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, principal, action, entity, entity_id, status, detail, duration_ms, created_at
		 FROM audit_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var entityID, durationMs sql.NullInt64
		var detail sql.NullString
		if err := rows.Scan(&e.ID, &e.Principal, &e.Action, &e.Entity, &entityID, &e.Status, &detail, &durationMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.EntityID = mapper.Int64PtrFromNull(entityID)
		e.Detail = mapper.StrPtrFromNull(detail)
		e.DurationMs = mapper.Int64PtrFromNull(durationMs)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
