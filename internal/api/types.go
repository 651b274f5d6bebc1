package api

import (
	"time"

	"shelf-demo/internal/domain"
)

// JSON views of the domain types. Kept separate so wire names stay stable
// when the domain structs move.

type Author struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Book struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	AuthorID        int64      `json:"author_id"`
	AuthorName      string     `json:"author_name"`
	PublishedDate   *time.Time `json:"published_date,omitempty"`
	CopiesAvailable int64      `json:"copies_available"`
	CreatedAt       time.Time  `json:"created_at"`
}

type Copy struct {
	ID      int64  `json:"id"`
	BookID  int64  `json:"book_id"`
	Barcode string `json:"barcode"`
}

type Member struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Loan struct {
	CopyID     int64     `json:"copy_id"`
	Barcode    string    `json:"barcode"`
	BookID     int64     `json:"book_id"`
	BookTitle  string    `json:"book_title"`
	MemberID   int64     `json:"member_id"`
	MemberName string    `json:"member_name"`
	BorrowedAt time.Time `json:"borrowed_at"`
	DueAt      time.Time `json:"due_at"`
}

type AuditEntry struct {
	ID         int64     `json:"id"`
	Principal  string    `json:"principal"`
	Action     string    `json:"action"`
	Entity     string    `json:"entity"`
	EntityID   *int64    `json:"entity_id,omitempty"`
	Status     string    `json:"status"`
	Detail     *string   `json:"detail,omitempty"`
	DurationMs *int64    `json:"duration_ms,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func authorJSON(a domain.Author) Author {
	return Author{ID: a.ID, Name: a.Name, CreatedAt: a.CreatedAt}
}

func bookJSON(b domain.BookWithAvailability) Book {
	return Book{
		ID:              b.ID,
		Title:           b.Title,
		AuthorID:        b.AuthorID,
		AuthorName:      b.AuthorName,
		PublishedDate:   b.PublishedDate,
		CopiesAvailable: b.CopiesAvailable,
		CreatedAt:       b.CreatedAt,
	}
}

func copyJSON(c domain.Copy) Copy {
	return Copy{ID: c.ID, BookID: c.BookID, Barcode: c.Barcode}
}

func memberJSON(m domain.Member) Member {
	return Member{ID: m.ID, Name: m.Name, Email: m.Email, CreatedAt: m.CreatedAt}
}

func loanJSON(l domain.Loan) Loan {
	return Loan{
		CopyID:     l.CopyID,
		Barcode:    l.Barcode,
		BookID:     l.BookID,
		BookTitle:  l.BookTitle,
		MemberID:   l.MemberID,
		MemberName: l.MemberName,
		BorrowedAt: l.BorrowedAt,
		DueAt:      l.DueAt,
	}
}

func loansJSON(loans []domain.Loan) []Loan {
	out := make([]Loan, 0, len(loans))
	for _, l := range loans {
		out = append(out, loanJSON(l))
	}
	return out
}

func auditJSON(e domain.AuditEntry) AuditEntry {
	return AuditEntry{
		ID:         e.ID,
		Principal:  e.Principal,
		Action:     e.Action,
		Entity:     e.Entity,
		EntityID:   e.EntityID,
		Status:     e.Status,
		Detail:     e.Detail,
		DurationMs: e.DurationMs,
		CreatedAt:  e.CreatedAt,
	}
}
