package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"shelf-demo/internal/domain"
)

// systemPrincipal identifies background jobs in the audit log.
const systemPrincipal = "system"

// OverdueSweeper periodically scans for loans past their due date and
// reports them in the log and the audit trail.
type OverdueSweeper struct {
	cron     *cron.Cron
	loans    *LoanService
	audit    domain.AuditRepository
	logger   *slog.Logger
	schedule string
}

// NewOverdueSweeper creates a sweeper that runs on the given cron schedule.
func NewOverdueSweeper(loans *LoanService, audit domain.AuditRepository, logger *slog.Logger, schedule string) *OverdueSweeper {
	return &OverdueSweeper{
		cron:     cron.New(),
		loans:    loans,
		audit:    audit,
		logger:   logger,
		schedule: schedule,
	}
}

// Start registers the sweep job and starts the cron scheduler.
func (s *OverdueSweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if sweepErr := s.Sweep(context.Background()); sweepErr != nil {
			s.logger.Warn("overdue sweep failed", "error", sweepErr)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid overdue sweep schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info("overdue sweeper started", "schedule", s.schedule)
	return nil
}

// Stop gracefully stops the cron scheduler.
func (s *OverdueSweeper) Stop() {
	s.cron.Stop()
	s.logger.Info("overdue sweeper stopped")
}

// Sweep lists every loan past due and logs one warning per offender plus a
// summary audit entry.
func (s *OverdueSweeper) Sweep(ctx context.Context) error {
	start := time.Now()
	asOf := start.UTC()

	overdue, err := s.loans.ListOverdue(ctx, asOf)
	logAudit(ctx, s.audit, auditEvent{
		Principal: systemPrincipal,
		Action:    domain.AuditActionOverdueSweep,
		Entity:    "loan",
		Detail:    fmt.Sprintf("%d overdue loans", len(overdue)),
		Err:       err,
		Duration:  time.Since(start),
	})
	if err != nil {
		return err
	}

	for _, l := range overdue {
		s.logger.Warn("overdue loan",
			"copy_id", l.CopyID,
			"barcode", l.Barcode,
			"book", l.BookTitle,
			"member", l.MemberName,
			"due_at", l.DueAt,
			"days_overdue", int(asOf.Sub(l.DueAt).Hours()/24),
		)
	}
	s.logger.Info("overdue sweep complete", "overdue", len(overdue))
	return nil
}
