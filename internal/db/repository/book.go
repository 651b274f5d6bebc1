package repository

import (
	"context"
	"database/sql"

	"shelf-demo/internal/db/mapper"
	"shelf-demo/internal/domain"
)

var _ domain.BookRepository = (*BookRepo)(nil)

// BookRepo implements domain.BookRepository over SQLite.
type BookRepo struct {
	db *sql.DB
}

// NewBookRepo creates a new BookRepo.
func NewBookRepo(db *sql.DB) *BookRepo {
	return &BookRepo{db: db}
}

// Create inserts a new book.
func (r *BookRepo) Create(ctx context.Context, b *domain.Book) (*domain.Book, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO books (title, author_id, published_date) VALUES (?, ?, ?)`,
		b.Title, b.AuthorID, mapper.NullTimeFromPtr(b.PublishedDate))
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID returns a book by its ID.
func (r *BookRepo) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, author_id, published_date, created_at FROM books WHERE id = ?`, id)
	return scanBook(row)
}

// List returns all books ordered by title.
func (r *BookRepo) List(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, author_id, published_date, created_at FROM books ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		var published sql.NullTime
		if err := rows.Scan(&b.ID, &b.Title, &b.AuthorID, &published, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.PublishedDate = mapper.TimePtrFromNull(published)
		books = append(books, b)
	}
	return books, rows.Err()
}

func scanBook(row *sql.Row) (*domain.Book, error) {
	var b domain.Book
	var published sql.NullTime
	if err := row.Scan(&b.ID, &b.Title, &b.AuthorID, &published, &b.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	b.PublishedDate = mapper.TimePtrFromNull(published)
	return &b, nil
}
