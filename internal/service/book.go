package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shelf-demo/internal/domain"
)

// BookService manages the book catalog and its physical copies.
type BookService struct {
	books   domain.BookRepository
	authors domain.AuthorRepository
	copies  domain.CopyRepository
	audit   domain.AuditRepository
}

// NewBookService creates a new BookService.
func NewBookService(books domain.BookRepository, authors domain.AuthorRepository, copies domain.CopyRepository, audit domain.AuditRepository) *BookService {
	return &BookService{books: books, authors: authors, copies: copies, audit: audit}
}

// Create adds a book to the catalog and shelves the requested number of
// copies.
func (s *BookService) Create(ctx context.Context, principal string, req domain.CreateBookRequest) (*domain.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.authors.GetByID(ctx, req.AuthorID); err != nil {
		return nil, err
	}

	start := time.Now()
	book, err := s.books.Create(ctx, &domain.Book{
		Title:         req.Title,
		AuthorID:      req.AuthorID,
		PublishedDate: req.PublishedDate,
	})
	if err == nil && req.Copies > 0 {
		err = s.shelveCopies(ctx, book.ID, req.Copies)
	}
	logAudit(ctx, s.audit, auditEvent{
		Principal: principal,
		Action:    domain.AuditActionCreateBook,
		Entity:    "book",
		EntityID:  bookID(book),
		Detail:    fmt.Sprintf("%d copies", req.Copies),
		Err:       err,
		Duration:  time.Since(start),
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// AddCopies shelves additional copies of an existing book.
func (s *BookService) AddCopies(ctx context.Context, principal string, bookID int64, n int) ([]domain.Copy, error) {
	if n <= 0 {
		return nil, domain.ErrValidation("copies must be positive")
	}
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, err
	}

	start := time.Now()
	created := make([]domain.Copy, 0, n)
	var err error
	for i := 0; i < n; i++ {
		var c *domain.Copy
		c, err = s.copies.Create(ctx, &domain.Copy{BookID: bookID, Barcode: newBarcode()})
		if err != nil {
			break
		}
		created = append(created, *c)
	}
	logAudit(ctx, s.audit, auditEvent{
		Principal: principal,
		Action:    domain.AuditActionAddCopies,
		Entity:    "book",
		EntityID:  &bookID,
		Detail:    fmt.Sprintf("%d copies", len(created)),
		Err:       err,
		Duration:  time.Since(start),
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID returns one book with its author name and current availability.
func (s *BookService) GetByID(ctx context.Context, id int64) (*domain.BookWithAvailability, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withAvailability(ctx, *book)
}

// List returns the catalog ordered by title. Author name and availability
// are looked up per book.
func (s *BookService) List(ctx context.Context) ([]domain.BookWithAvailability, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.BookWithAvailability, 0, len(books))
	for _, b := range books {
		view, err := s.withAvailability(ctx, b)
		if err != nil {
			return nil, err
		}
		out = append(out, *view)
	}
	return out, nil
}

func (s *BookService) withAvailability(ctx context.Context, b domain.Book) (*domain.BookWithAvailability, error) {
	author, err := s.authors.GetByID(ctx, b.AuthorID)
	if err != nil {
		return nil, err
	}
	available, err := s.copies.CountAvailable(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return &domain.BookWithAvailability{
		Book:            b,
		AuthorName:      author.Name,
		CopiesAvailable: available,
	}, nil
}

// shelveCopies creates n copies with generated barcodes.
func (s *BookService) shelveCopies(ctx context.Context, bookID int64, n int) error {
	for i := 0; i < n; i++ {
		if _, err := s.copies.Create(ctx, &domain.Copy{BookID: bookID, Barcode: newBarcode()}); err != nil {
			return err
		}
	}
	return nil
}

func newBarcode() string {
	return "C-" + uuid.NewString()
}

func bookID(b *domain.Book) *int64 {
	if b == nil {
		return nil
	}
	return &b.ID
}
