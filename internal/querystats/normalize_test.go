package querystats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "numeric literal",
			query: "SELECT * FROM books WHERE id = 42",
			want:  "SELECT * FROM books WHERE id = ?",
		},
		{
			name:  "string literal",
			query: "SELECT id FROM authors WHERE name = 'Tolkien'",
			want:  "SELECT id FROM authors WHERE name = ?",
		},
		{
			name:  "escaped quote inside string",
			query: "SELECT id FROM authors WHERE name = 'O''Brien'",
			want:  "SELECT id FROM authors WHERE name = ?",
		},
		{
			name:  "multiple literals",
			query: "UPDATE copies SET borrowed_by = 7, due_at = '2026-09-01' WHERE id = 3",
			want:  "UPDATE copies SET borrowed_by = ?, due_at = ? WHERE id = ?",
		},
		{
			name:  "existing placeholders pass through",
			query: "SELECT COUNT(*) FROM copies WHERE book_id = ? AND borrowed_at IS NULL",
			want:  "SELECT COUNT(*) FROM copies WHERE book_id = ? AND borrowed_at IS NULL",
		},
		{
			name:  "named and numbered placeholders",
			query: "SELECT * FROM t WHERE a = $1 AND b = :name AND c = @p AND d = ?2",
			want:  "SELECT * FROM t WHERE a = ? AND b = ? AND c = ? AND d = ?",
		},
		{
			name:  "in list of numbers collapses",
			query: "SELECT * FROM books WHERE id IN (1, 2, 3)",
			want:  "SELECT * FROM books WHERE id IN (?)",
		},
		{
			name:  "in list of placeholders collapses",
			query: "SELECT * FROM books WHERE id IN (?, ?, ?)",
			want:  "SELECT * FROM books WHERE id IN (?)",
		},
		{
			name:  "in with subquery untouched",
			query: "SELECT * FROM books WHERE author_id IN (SELECT id FROM authors WHERE name = 'X')",
			want:  "SELECT * FROM books WHERE author_id IN (SELECT id FROM authors WHERE name = ?)",
		},
		{
			name:  "within is not an in list",
			query: "SELECT strftime('%Y', published_date) FROM books",
			want:  "SELECT strftime(?, published_date) FROM books",
		},
		{
			name:  "digits in identifiers preserved",
			query: "SELECT col_2 FROM table1 WHERE col_2 = 3",
			want:  "SELECT col_2 FROM table1 WHERE col_2 = ?",
		},
		{
			name:  "decimals and exponents",
			query: "SELECT * FROM fees WHERE amount > 19.99 OR penalty = 1.5e6",
			want:  "SELECT * FROM fees WHERE amount > ? OR penalty = ?",
		},
		{
			name:  "negative literal",
			query: "UPDATE balances SET delta = -4 WHERE id = 9",
			want:  "UPDATE balances SET delta = ? WHERE id = ?",
		},
		{
			name:  "line comment removed",
			query: "SELECT 1 -- don't count this\nFROM books",
			want:  "SELECT ? FROM books",
		},
		{
			name:  "block comment removed",
			query: "SELECT /* a comment */ id FROM books",
			want:  "SELECT id FROM books",
		},
		{
			name:  "whitespace collapsed",
			query: "  SELECT   id\n\tFROM   books  ",
			want:  "SELECT id FROM books",
		},
		{
			name:  "empty",
			query: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Normalize(tt.query)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(got), "normalized text must be a fixed point")
		})
	}
}

func TestNormalizeGroupsLiteralVariants(t *testing.T) {
	t.Parallel()

	variants := []string{
		"SELECT name FROM authors WHERE id = 1",
		"SELECT name FROM authors WHERE id = 2",
		"SELECT name FROM authors WHERE id = 31337",
		"SELECT   name FROM authors WHERE id = 4 -- lookup",
	}
	first := Normalize(variants[0])
	for _, v := range variants[1:] {
		assert.Equal(t, first, Normalize(v), "literal-only variation must normalize identically: %s", v)
	}
}
