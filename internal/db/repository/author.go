package repository

import (
	"context"
	"database/sql"

	"shelf-demo/internal/domain"
)

var _ domain.AuthorRepository = (*AuthorRepo)(nil)

// AuthorRepo implements domain.AuthorRepository over SQLite.
type AuthorRepo struct {
	db *sql.DB
}

// NewAuthorRepo creates a new AuthorRepo.
func NewAuthorRepo(db *sql.DB) *AuthorRepo {
	return &AuthorRepo{db: db}
}

// Create inserts a new author.
func (r *AuthorRepo) Create(ctx context.Context, a *domain.Author) (*domain.Author, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO authors (name) VALUES (?)`, a.Name)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID returns an author by its ID.
func (r *AuthorRepo) GetByID(ctx context.Context, id int64) (*domain.Author, error) {
	var a domain.Author
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM authors WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &a, nil
}

// GetByName returns an author by its unique name.
func (r *AuthorRepo) GetByName(ctx context.Context, name string) (*domain.Author, error) {
	var a domain.Author
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM authors WHERE name = ?`, name).
		Scan(&a.ID, &a.Name, &a.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &a, nil
}

// List returns all authors ordered by name.
func (r *AuthorRepo) List(ctx context.Context) ([]domain.Author, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM authors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []domain.Author
	for rows.Next() {
		var a domain.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}
