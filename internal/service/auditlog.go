package service

import (
	"context"
	"time"

	"shelf-demo/internal/domain"
)

type auditEvent struct {
	Principal string
	Action    string
	Entity    string
	EntityID  *int64
	Detail    string
	Err       error
	Duration  time.Duration
}

// logAudit records one audit entry. Best-effort: a failed insert never fails
// the operation being audited.
func logAudit(ctx context.Context, audit domain.AuditRepository, ev auditEvent) {
	if audit == nil {
		return
	}

	entry := &domain.AuditEntry{
		Principal: ev.Principal,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Status:    domain.AuditStatusOK,
	}
	if ev.Err != nil {
		entry.Status = domain.AuditStatusError
		msg := ev.Err.Error()
		entry.Detail = &msg
	} else if ev.Detail != "" {
		detail := ev.Detail
		entry.Detail = &detail
	}
	if ev.Duration > 0 {
		ms := ev.Duration.Milliseconds()
		entry.DurationMs = &ms
	}

	_ = audit.Insert(ctx, entry)
}
