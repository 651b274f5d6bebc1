package domain

import (
	"context"
	"time"
)

// AuthorRepository provides CRUD operations for authors.
type AuthorRepository interface {
	Create(ctx context.Context, a *Author) (*Author, error)
	GetByID(ctx context.Context, id int64) (*Author, error)
	GetByName(ctx context.Context, name string) (*Author, error)
	List(ctx context.Context) ([]Author, error)
}

// BookRepository provides CRUD operations for books.
type BookRepository interface {
	Create(ctx context.Context, b *Book) (*Book, error)
	GetByID(ctx context.Context, id int64) (*Book, error)
	List(ctx context.Context) ([]Book, error) // ordered by title
}

// CopyRepository manages physical copies and their loan state.
type CopyRepository interface {
	Create(ctx context.Context, c *Copy) (*Copy, error)
	GetByID(ctx context.Context, id int64) (*Copy, error)
	CountAvailable(ctx context.Context, bookID int64) (int64, error)
	FindAvailable(ctx context.Context, bookID int64) (*Copy, error)
	Borrow(ctx context.Context, copyID, memberID int64, at, due time.Time) error
	Return(ctx context.Context, copyID int64) error
	ListLoans(ctx context.Context, memberID *int64) ([]Loan, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]Loan, error)
}

// MemberRepository provides CRUD operations for members.
type MemberRepository interface {
	Create(ctx context.Context, m *Member) (*Member, error)
	GetByID(ctx context.Context, id int64) (*Member, error)
	List(ctx context.Context) ([]Member, error)
}

// AuditRepository appends and reads audit log records.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]AuditEntry, error)
}
