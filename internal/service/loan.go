package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shelf-demo/internal/domain"
)

// LoanService handles borrowing and returning copies.
type LoanService struct {
	copies     domain.CopyRepository
	books      domain.BookRepository
	members    domain.MemberRepository
	audit      domain.AuditRepository
	loanPeriod time.Duration
}

// NewLoanService creates a new LoanService. loanPeriodDays controls the due
// date assigned when a copy is borrowed.
func NewLoanService(copies domain.CopyRepository, books domain.BookRepository, members domain.MemberRepository, audit domain.AuditRepository, loanPeriodDays int) *LoanService {
	if loanPeriodDays <= 0 {
		loanPeriodDays = 21
	}
	return &LoanService{
		copies:     copies,
		books:      books,
		members:    members,
		audit:      audit,
		loanPeriod: time.Duration(loanPeriodDays) * 24 * time.Hour,
	}
}

// Borrow lends an available copy of the requested book to a member and
// returns the resulting loan.
func (s *LoanService) Borrow(ctx context.Context, principal string, req domain.BorrowRequest) (*domain.Loan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	loan, err := s.borrow(ctx, req)
	ev := auditEvent{
		Principal: principal,
		Action:    domain.AuditActionBorrow,
		Entity:    "copy",
		Err:       err,
		Duration:  time.Since(start),
	}
	if loan != nil {
		ev.EntityID = &loan.CopyID
		ev.Detail = fmt.Sprintf("member %d borrowed %q", loan.MemberID, loan.BookTitle)
	}
	logAudit(ctx, s.audit, ev)
	return loan, err
}

func (s *LoanService) borrow(ctx context.Context, req domain.BorrowRequest) (*domain.Loan, error) {
	member, err := s.members.GetByID(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}
	book, err := s.books.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	c, err := s.copies.FindAvailable(ctx, book.ID)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, domain.ErrConflict("no copies of %q are available", book.Title)
		}
		return nil, err
	}

	at := time.Now().UTC()
	due := at.Add(s.loanPeriod)
	if err := s.copies.Borrow(ctx, c.ID, member.ID, at, due); err != nil {
		return nil, err
	}

	return &domain.Loan{
		CopyID:     c.ID,
		Barcode:    c.Barcode,
		BookID:     book.ID,
		BookTitle:  book.Title,
		MemberID:   member.ID,
		MemberName: member.Name,
		BorrowedAt: at,
		DueAt:      due,
	}, nil
}

// Return puts a borrowed copy back on the shelf.
func (s *LoanService) Return(ctx context.Context, principal string, copyID int64) error {
	start := time.Now()
	err := s.copies.Return(ctx, copyID)
	logAudit(ctx, s.audit, auditEvent{
		Principal: principal,
		Action:    domain.AuditActionReturn,
		Entity:    "copy",
		EntityID:  &copyID,
		Err:       err,
		Duration:  time.Since(start),
	})
	return err
}

// ListActive returns active loans, optionally for a single member.
func (s *LoanService) ListActive(ctx context.Context, memberID *int64) ([]domain.Loan, error) {
	return s.copies.ListLoans(ctx, memberID)
}

// ListOverdue returns loans past due at the given instant.
func (s *LoanService) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error) {
	return s.copies.ListOverdue(ctx, asOf)
}
