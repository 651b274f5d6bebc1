package repository

import (
	"context"
	"database/sql"
	"time"

	"shelf-demo/internal/db/mapper"
	"shelf-demo/internal/domain"
)

var _ domain.CopyRepository = (*CopyRepo)(nil)

// CopyRepo implements domain.CopyRepository over SQLite.
type CopyRepo struct {
	db *sql.DB
}

// NewCopyRepo creates a new CopyRepo.
func NewCopyRepo(db *sql.DB) *CopyRepo {
	return &CopyRepo{db: db}
}

const copyColumns = `id, book_id, barcode, borrowed_at, borrowed_by, due_at, created_at`

// Create shelves a new copy of a book.
func (r *CopyRepo) Create(ctx context.Context, c *domain.Copy) (*domain.Copy, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO copies (book_id, barcode) VALUES (?, ?)`, c.BookID, c.Barcode)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID returns a copy by its ID.
func (r *CopyRepo) GetByID(ctx context.Context, id int64) (*domain.Copy, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+copyColumns+` FROM copies WHERE id = ?`, id)
	return scanCopy(row)
}

// CountAvailable returns the number of copies of a book not currently on loan.
func (r *CopyRepo) CountAvailable(ctx context.Context, bookID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM copies WHERE book_id = ? AND borrowed_at IS NULL`, bookID).
		Scan(&n)
	return n, err
}

// FindAvailable returns one shelved copy of the book, lowest ID first.
func (r *CopyRepo) FindAvailable(ctx context.Context, bookID int64) (*domain.Copy, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+copyColumns+` FROM copies WHERE book_id = ? AND borrowed_at IS NULL ORDER BY id LIMIT 1`,
		bookID)
	return scanCopy(row)
}

// Borrow marks a copy as loaned to a member. The guard on borrowed_at makes
// the transition atomic: a copy already on loan is left untouched.
func (r *CopyRepo) Borrow(ctx context.Context, copyID, memberID int64, at, due time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE copies SET borrowed_at = ?, borrowed_by = ?, due_at = ? WHERE id = ? AND borrowed_at IS NULL`,
		at.UTC(), memberID, due.UTC(), copyID)
	if err != nil {
		return mapDBError(err)
	}
	return r.checkLoanTransition(ctx, res, copyID, "copy is already on loan")
}

// Return puts a loaned copy back on the shelf.
func (r *CopyRepo) Return(ctx context.Context, copyID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE copies SET borrowed_at = NULL, borrowed_by = NULL, due_at = NULL WHERE id = ? AND borrowed_at IS NOT NULL`,
		copyID)
	if err != nil {
		return mapDBError(err)
	}
	return r.checkLoanTransition(ctx, res, copyID, "copy is not on loan")
}

// checkLoanTransition resolves a zero-row loan state update into the right
// domain error: missing copy or wrong loan state.
func (r *CopyRepo) checkLoanTransition(ctx context.Context, res sql.Result, copyID int64, conflict string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, copyID); err != nil {
		return err
	}
	return &domain.ConflictError{Message: conflict}
}

const loanColumns = `c.id, c.barcode, b.id, b.title, m.id, m.name, c.borrowed_at, c.due_at`

const loanJoin = ` FROM copies c
	 JOIN books b ON b.id = c.book_id
	 JOIN members m ON m.id = c.borrowed_by
	 WHERE c.borrowed_at IS NOT NULL`

// ListLoans returns all active loans, optionally filtered to one member,
// ordered by due date.
func (r *CopyRepo) ListLoans(ctx context.Context, memberID *int64) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + loanJoin
	args := []any{}
	if memberID != nil {
		query += ` AND c.borrowed_by = ?`
		args = append(args, *memberID)
	}
	query += ` ORDER BY c.due_at, c.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

// ListOverdue returns active loans whose due date is before asOf, most
// overdue first.
func (r *CopyRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + loanJoin + ` AND c.due_at < ? ORDER BY c.due_at, c.id`
	rows, err := r.db.QueryContext(ctx, query, asOf.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

func scanCopy(row *sql.Row) (*domain.Copy, error) {
	var c domain.Copy
	var borrowedAt, dueAt sql.NullTime
	var borrowedBy sql.NullInt64
	if err := row.Scan(&c.ID, &c.BookID, &c.Barcode, &borrowedAt, &borrowedBy, &dueAt, &c.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	c.BorrowedAt = mapper.TimePtrFromNull(borrowedAt)
	c.BorrowedBy = mapper.Int64PtrFromNull(borrowedBy)
	c.DueAt = mapper.TimePtrFromNull(dueAt)
	return &c, nil
}

func scanLoans(rows *sql.Rows) ([]domain.Loan, error) {
	var loans []domain.Loan
	for rows.Next() {
		var l domain.Loan
		if err := rows.Scan(&l.CopyID, &l.Barcode, &l.BookID, &l.BookTitle, &l.MemberID, &l.MemberName, &l.BorrowedAt, &l.DueAt); err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}
