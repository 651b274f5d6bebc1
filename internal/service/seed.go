package service

import (
	"context"
	"fmt"
	"time"

	"shelf-demo/internal/domain"
)

// SeedDemoData populates an empty database with a small catalog, a few
// members, and a couple of active loans. It is a no-op when authors already
// exist, so restarting the server does not duplicate data.
func SeedDemoData(ctx context.Context, authors *AuthorService, books *BookService, members *MemberService, loans *LoanService) error {

	// Check if already seeded
	existing, err := authors.List(ctx)
	if err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	// --- Authors ---
	leGuin, err := authors.Create(ctx, systemPrincipal, domain.CreateAuthorRequest{Name: "Ursula K. Le Guin"})
	if err != nil {
		return fmt.Errorf("create author: %w", err)
	}
	butler, err := authors.Create(ctx, systemPrincipal, domain.CreateAuthorRequest{Name: "Octavia E. Butler"})
	if err != nil {
		return fmt.Errorf("create author: %w", err)
	}
	lem, err := authors.Create(ctx, systemPrincipal, domain.CreateAuthorRequest{Name: "Stanisław Lem"})
	if err != nil {
		return fmt.Errorf("create author: %w", err)
	}

	// --- Books with copies ---
	catalog := []domain.CreateBookRequest{
		{Title: "The Dispossessed", AuthorID: leGuin.ID, PublishedDate: date(1974, 5, 1), Copies: 3},
		{Title: "The Left Hand of Darkness", AuthorID: leGuin.ID, PublishedDate: date(1969, 3, 1), Copies: 2},
		{Title: "Kindred", AuthorID: butler.ID, PublishedDate: date(1979, 6, 1), Copies: 2},
		{Title: "Parable of the Sower", AuthorID: butler.ID, PublishedDate: date(1993, 10, 1), Copies: 1},
		{Title: "Solaris", AuthorID: lem.ID, PublishedDate: date(1961, 1, 1), Copies: 2},
	}
	created := make([]*domain.Book, 0, len(catalog))
	for _, req := range catalog {
		b, err := books.Create(ctx, systemPrincipal, req)
		if err != nil {
			return fmt.Errorf("create book %q: %w", req.Title, err)
		}
		created = append(created, b)
	}

	// --- Members ---
	demo := []domain.CreateMemberRequest{
		{Name: "Ada Niemi", Email: "ada@example.org"},
		{Name: "Ben Okafor", Email: "ben@example.org"},
		{Name: "Carla Reyes", Email: "carla@example.org"},
	}
	seeded := make([]*domain.Member, 0, len(demo))
	for _, req := range demo {
		m, err := members.Create(ctx, systemPrincipal, req)
		if err != nil {
			return fmt.Errorf("create member %q: %w", req.Name, err)
		}
		seeded = append(seeded, m)
	}

	// --- Loans ---
	if _, err := loans.Borrow(ctx, systemPrincipal, domain.BorrowRequest{MemberID: seeded[0].ID, BookID: created[0].ID}); err != nil {
		return fmt.Errorf("seed loan: %w", err)
	}
	if _, err := loans.Borrow(ctx, systemPrincipal, domain.BorrowRequest{MemberID: seeded[1].ID, BookID: created[2].ID}); err != nil {
		return fmt.Errorf("seed loan: %w", err)
	}

	return nil
}

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
