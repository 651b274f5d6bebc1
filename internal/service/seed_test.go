package service

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoData(t *testing.T) {
	f := setupLoanService(t, 14)
	ctx := context.Background()

	require.NoError(t, SeedDemoData(ctx, f.authors, f.books, f.members, f.loans))

	authors, err := f.authors.List(ctx)
	require.NoError(t, err)
	assert.Len(t, authors, 3)

	books, err := f.books.List(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 5)

	members, err := f.members.List(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 3)

	loans, err := f.loans.ListActive(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, loans, 2)

	// One of the three copies of The Dispossessed is out.
	for _, b := range books {
		if b.Title == "The Dispossessed" {
			assert.Equal(t, int64(2), b.CopiesAvailable)
		}
	}

	// Seeding twice changes nothing.
	require.NoError(t, SeedDemoData(ctx, f.authors, f.books, f.members, f.loans))

	authors, err = f.authors.List(ctx)
	require.NoError(t, err)
	assert.Len(t, authors, 3)
	loans, err = f.loans.ListActive(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, loans, 2)
}
