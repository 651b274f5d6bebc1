// Package service implements the library's business operations on top of the
// domain repositories.
package service

import (
	"context"
	"time"

	"shelf-demo/internal/domain"
)

// AuthorService manages the author catalog.
type AuthorService struct {
	repo  domain.AuthorRepository
	audit domain.AuditRepository
}

// NewAuthorService creates a new AuthorService.
func NewAuthorService(repo domain.AuthorRepository, audit domain.AuditRepository) *AuthorService {
	return &AuthorService{repo: repo, audit: audit}
}

// Create registers a new author.
func (s *AuthorService) Create(ctx context.Context, principal string, req domain.CreateAuthorRequest) (*domain.Author, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	author, err := s.repo.Create(ctx, &domain.Author{Name: req.Name})
	logAudit(ctx, s.audit, auditEvent{
		Principal: principal,
		Action:    domain.AuditActionCreateAuthor,
		Entity:    "author",
		EntityID:  authorID(author),
		Err:       err,
		Duration:  time.Since(start),
	})
	return author, err
}

// GetByID returns an author by ID.
func (s *AuthorService) GetByID(ctx context.Context, id int64) (*domain.Author, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByName returns an author by exact name.
func (s *AuthorService) GetByName(ctx context.Context, name string) (*domain.Author, error) {
	return s.repo.GetByName(ctx, name)
}

// List returns all authors.
func (s *AuthorService) List(ctx context.Context) ([]domain.Author, error) {
	return s.repo.List(ctx)
}

func authorID(a *domain.Author) *int64 {
	if a == nil {
		return nil
	}
	return &a.ID
}
