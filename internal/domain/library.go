package domain

import (
	"strings"
	"time"
)

// Author represents a book author.
type Author struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Book represents a title in the catalog. A book has zero or more physical
// copies that can be borrowed.
type Book struct {
	ID            int64
	Title         string
	AuthorID      int64
	PublishedDate *time.Time
	CreatedAt     time.Time
}

// BookWithAvailability is the listing view of a book: the title joined with
// its author's name and the number of copies currently on the shelf.
type BookWithAvailability struct {
	Book
	AuthorName      string
	CopiesAvailable int64
}

// Copy represents one physical copy of a book. A copy is on loan when
// BorrowedAt is set; BorrowedBy then identifies the member holding it.
type Copy struct {
	ID         int64
	BookID     int64
	Barcode    string
	BorrowedAt *time.Time
	BorrowedBy *int64
	DueAt      *time.Time
	CreatedAt  time.Time
}

// OnLoan reports whether the copy is currently borrowed.
func (c *Copy) OnLoan() bool { return c.BorrowedAt != nil }

// Member represents a registered library member.
type Member struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

// Loan is the read view of an active loan: a borrowed copy joined with its
// book title and borrower.
type Loan struct {
	CopyID     int64
	Barcode    string
	BookID     int64
	BookTitle  string
	MemberID   int64
	MemberName string
	BorrowedAt time.Time
	DueAt      time.Time
}

// Overdue reports whether the loan is past due at the given instant.
func (l *Loan) Overdue(now time.Time) bool { return now.After(l.DueAt) }

// CreateAuthorRequest holds parameters for registering an author.
type CreateAuthorRequest struct {
	Name string
}

// Validate checks that the request is well-formed.
func (r *CreateAuthorRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("author name is required")
	}
	return nil
}

// CreateBookRequest holds parameters for adding a book to the catalog.
type CreateBookRequest struct {
	Title         string
	AuthorID      int64
	PublishedDate *time.Time
	Copies        int // physical copies to shelve immediately
}

// Validate checks that the request is well-formed.
func (r *CreateBookRequest) Validate() error {
	if r.Title == "" {
		return ErrValidation("book title is required")
	}
	if r.AuthorID <= 0 {
		return ErrValidation("author_id is required")
	}
	if r.Copies < 0 {
		return ErrValidation("copies must not be negative")
	}
	return nil
}

// CreateMemberRequest holds parameters for registering a member.
type CreateMemberRequest struct {
	Name  string
	Email string
}

// Validate checks that the request is well-formed.
func (r *CreateMemberRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("member name is required")
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return ErrValidation("a valid email is required")
	}
	return nil
}

// BorrowRequest holds parameters for borrowing a copy of a book.
type BorrowRequest struct {
	MemberID int64
	BookID   int64
}

// Validate checks that the request is well-formed.
func (r *BorrowRequest) Validate() error {
	if r.MemberID <= 0 {
		return ErrValidation("member_id is required")
	}
	if r.BookID <= 0 {
		return ErrValidation("book_id is required")
	}
	return nil
}
