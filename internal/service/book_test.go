package service

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "shelf-demo/internal/db"
	"shelf-demo/internal/db/repository"
	"shelf-demo/internal/domain"
	"shelf-demo/internal/querystats"
)

func setupBookService(t *testing.T) (*BookService, *AuthorService) {
	t.Helper()
	db, _ := internaldb.OpenTestSQLite(t)
	auditRepo := repository.NewAuditRepo(db)
	authorRepo := repository.NewAuthorRepo(db)
	books := NewBookService(repository.NewBookRepo(db), authorRepo, repository.NewCopyRepo(db), auditRepo)
	return books, NewAuthorService(authorRepo, auditRepo)
}

func TestBookService_Create_ShelvesCopies(t *testing.T) {
	books, authors := setupBookService(t)
	ctx := context.Background()

	author, err := authors.Create(ctx, "librarian", domain.CreateAuthorRequest{Name: "Stanisław Lem"})
	require.NoError(t, err)

	book, err := books.Create(ctx, "librarian", domain.CreateBookRequest{
		Title:    "Solaris",
		AuthorID: author.ID,
		Copies:   3,
	})
	require.NoError(t, err)
	assert.Positive(t, book.ID)

	view, err := books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Solaris", view.Title)
	assert.Equal(t, "Stanisław Lem", view.AuthorName)
	assert.Equal(t, int64(3), view.CopiesAvailable)
}

func TestBookService_Create_UnknownAuthor(t *testing.T) {
	books, _ := setupBookService(t)

	_, err := books.Create(context.Background(), "librarian", domain.CreateBookRequest{
		Title:    "Orphaned",
		AuthorID: 999,
	})
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestBookService_AddCopies(t *testing.T) {
	books, authors := setupBookService(t)
	ctx := context.Background()

	author, err := authors.Create(ctx, "librarian", domain.CreateAuthorRequest{Name: "Ken Liu"})
	require.NoError(t, err)
	book, err := books.Create(ctx, "librarian", domain.CreateBookRequest{Title: "The Paper Menagerie", AuthorID: author.ID})
	require.NoError(t, err)

	created, err := books.AddCopies(ctx, "librarian", book.ID, 2)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotEqual(t, created[0].Barcode, created[1].Barcode)

	view, err := books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), view.CopiesAvailable)

	_, err = books.AddCopies(ctx, "librarian", book.ID, 0)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)

	_, err = books.AddCopies(ctx, "librarian", 999, 1)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// Listing looks up the author and availability per book, so a catalog of N
// books issues 1+2N statements. The collector sees exactly that shape.
func TestBookService_List_QueriesPerBook(t *testing.T) {
	books, authors := setupBookService(t)
	ctx := context.Background()

	leGuin, err := authors.Create(ctx, "librarian", domain.CreateAuthorRequest{Name: "Ursula K. Le Guin"})
	require.NoError(t, err)
	butler, err := authors.Create(ctx, "librarian", domain.CreateAuthorRequest{Name: "Octavia E. Butler"})
	require.NoError(t, err)
	for _, req := range []domain.CreateBookRequest{
		{Title: "The Dispossessed", AuthorID: leGuin.ID, Copies: 2},
		{Title: "The Left Hand of Darkness", AuthorID: leGuin.ID, Copies: 1},
		{Title: "Kindred", AuthorID: butler.ID, Copies: 1},
	} {
		_, err := books.Create(ctx, "librarian", req)
		require.NoError(t, err)
	}

	col := querystats.NewCollector(false)
	listed, err := books.List(querystats.WithCollector(ctx, col))
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "Kindred", listed[0].Title)

	assert.Equal(t, 7, col.Count())
	assert.Positive(t, col.Total())

	groups := col.Summarize()
	require.Len(t, groups, 3)
	assert.Equal(t, "SELECT id, name, created_at FROM authors WHERE id = ?", groups[0].SQL)
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, "SELECT COUNT(*) FROM copies WHERE book_id = ? AND borrowed_at IS NULL", groups[1].SQL)
	assert.Equal(t, 3, groups[1].Count)
	assert.Equal(t, 1, groups[2].Count)
}
