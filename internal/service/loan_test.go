package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "shelf-demo/internal/db"
	"shelf-demo/internal/db/repository"
	"shelf-demo/internal/domain"
)

type loanFixture struct {
	loans   *LoanService
	books   *BookService
	authors *AuthorService
	members *MemberService
	audit   *AuditService
	copies  domain.CopyRepository
}

func setupLoanService(t *testing.T, loanPeriodDays int) *loanFixture {
	t.Helper()
	db, _ := internaldb.OpenTestSQLite(t)
	auditRepo := repository.NewAuditRepo(db)
	authorRepo := repository.NewAuthorRepo(db)
	bookRepo := repository.NewBookRepo(db)
	copyRepo := repository.NewCopyRepo(db)
	memberRepo := repository.NewMemberRepo(db)
	return &loanFixture{
		loans:   NewLoanService(copyRepo, bookRepo, memberRepo, auditRepo, loanPeriodDays),
		books:   NewBookService(bookRepo, authorRepo, copyRepo, auditRepo),
		authors: NewAuthorService(authorRepo, auditRepo),
		members: NewMemberService(memberRepo, auditRepo),
		audit:   NewAuditService(auditRepo),
		copies:  copyRepo,
	}
}

func (f *loanFixture) addBook(t *testing.T, title string, copies int) *domain.Book {
	t.Helper()
	ctx := context.Background()
	author, err := f.authors.GetByName(ctx, "Iain M. Banks")
	if err != nil {
		author, err = f.authors.Create(ctx, "librarian", domain.CreateAuthorRequest{Name: "Iain M. Banks"})
		require.NoError(t, err)
	}
	book, err := f.books.Create(ctx, "librarian", domain.CreateBookRequest{
		Title:    title,
		AuthorID: author.ID,
		Copies:   copies,
	})
	require.NoError(t, err)
	return book
}

func (f *loanFixture) addMember(t *testing.T, name, email string) *domain.Member {
	t.Helper()
	m, err := f.members.Create(context.Background(), "librarian", domain.CreateMemberRequest{Name: name, Email: email})
	require.NoError(t, err)
	return m
}

func TestLoanService_BorrowAndReturn(t *testing.T) {
	f := setupLoanService(t, 14)
	ctx := context.Background()

	book := f.addBook(t, "Excession", 1)
	member := f.addMember(t, "Dana Fox", "dana@example.org")

	loan, err := f.loans.Borrow(ctx, "desk", domain.BorrowRequest{MemberID: member.ID, BookID: book.ID})
	require.NoError(t, err)
	assert.Equal(t, "Excession", loan.BookTitle)
	assert.Equal(t, "Dana Fox", loan.MemberName)
	assert.NotEmpty(t, loan.Barcode)
	assert.WithinDuration(t, loan.BorrowedAt.Add(14*24*time.Hour), loan.DueAt, time.Second)

	view, err := f.books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), view.CopiesAvailable)

	// The only copy is out.
	_, err = f.loans.Borrow(ctx, "desk", domain.BorrowRequest{MemberID: member.ID, BookID: book.ID})
	require.Error(t, err)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.Message, "no copies")

	require.NoError(t, f.loans.Return(ctx, "desk", loan.CopyID))

	view, err = f.books.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.CopiesAvailable)

	active, err := f.loans.ListActive(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, active)

	entries, err := f.audit.Recent(ctx, 50)
	require.NoError(t, err)
	actions := make([]string, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, domain.AuditActionBorrow)
	assert.Contains(t, actions, domain.AuditActionReturn)
}

func TestLoanService_Borrow_UnknownMember(t *testing.T) {
	f := setupLoanService(t, 14)
	book := f.addBook(t, "Consider Phlebas", 1)

	_, err := f.loans.Borrow(context.Background(), "desk", domain.BorrowRequest{MemberID: 999, BookID: book.ID})
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestLoanService_Borrow_UnknownBook(t *testing.T) {
	f := setupLoanService(t, 14)
	member := f.addMember(t, "Dana Fox", "dana@example.org")

	_, err := f.loans.Borrow(context.Background(), "desk", domain.BorrowRequest{MemberID: member.ID, BookID: 999})
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestLoanService_Borrow_Validation(t *testing.T) {
	f := setupLoanService(t, 14)

	_, err := f.loans.Borrow(context.Background(), "desk", domain.BorrowRequest{BookID: 1})
	require.Error(t, err)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestLoanService_ListActive_FilterByMember(t *testing.T) {
	f := setupLoanService(t, 14)
	ctx := context.Background()

	b1 := f.addBook(t, "The Player of Games", 1)
	b2 := f.addBook(t, "Use of Weapons", 1)
	m1 := f.addMember(t, "Ada Niemi", "ada@example.org")
	m2 := f.addMember(t, "Ben Okafor", "ben@example.org")

	_, err := f.loans.Borrow(ctx, "desk", domain.BorrowRequest{MemberID: m1.ID, BookID: b1.ID})
	require.NoError(t, err)
	_, err = f.loans.Borrow(ctx, "desk", domain.BorrowRequest{MemberID: m2.ID, BookID: b2.ID})
	require.NoError(t, err)

	all, err := f.loans.ListActive(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.loans.ListActive(ctx, &m1.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "The Player of Games", mine[0].BookTitle)
	assert.Equal(t, m1.ID, mine[0].MemberID)
}

func TestLoanService_ListOverdue(t *testing.T) {
	f := setupLoanService(t, 14)
	ctx := context.Background()

	book := f.addBook(t, "Matter", 2)
	member := f.addMember(t, "Carla Reyes", "carla@example.org")

	// One loan due long ago, one due in the future.
	now := time.Now().UTC()
	late, err := f.copies.FindAvailable(ctx, book.ID)
	require.NoError(t, err)
	require.NoError(t, f.copies.Borrow(ctx, late.ID, member.ID, now.Add(-30*24*time.Hour), now.Add(-16*24*time.Hour)))
	_, err = f.loans.Borrow(ctx, "desk", domain.BorrowRequest{MemberID: member.ID, BookID: book.ID})
	require.NoError(t, err)

	overdue, err := f.loans.ListOverdue(ctx, now)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].CopyID)
	assert.True(t, overdue[0].Overdue(now))
}

func TestOverdueSweeper_Sweep(t *testing.T) {
	f := setupLoanService(t, 14)
	ctx := context.Background()

	book := f.addBook(t, "Surface Detail", 1)
	member := f.addMember(t, "Dana Fox", "dana@example.org")

	now := time.Now().UTC()
	c, err := f.copies.FindAvailable(ctx, book.ID)
	require.NoError(t, err)
	require.NoError(t, f.copies.Borrow(ctx, c.ID, member.ID, now.Add(-20*24*time.Hour), now.Add(-6*24*time.Hour)))

	auditRepo := f.audit.repo
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sweeper := NewOverdueSweeper(f.loans, auditRepo, logger, "@hourly")

	require.NoError(t, sweeper.Sweep(ctx))

	entries, err := f.audit.Recent(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, domain.AuditActionOverdueSweep, entries[0].Action)
	assert.Equal(t, systemPrincipal, entries[0].Principal)
	assert.Equal(t, domain.AuditStatusOK, entries[0].Status)
	require.NotNil(t, entries[0].Detail)
	assert.Equal(t, "1 overdue loans", *entries[0].Detail)
}

func TestOverdueSweeper_StartRejectsBadSchedule(t *testing.T) {
	f := setupLoanService(t, 14)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sweeper := NewOverdueSweeper(f.loans, f.audit.repo, logger, "not a schedule")
	err := sweeper.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid overdue sweep schedule")

	ok := NewOverdueSweeper(f.loans, f.audit.repo, logger, "@hourly")
	require.NoError(t, ok.Start())
	ok.Stop()
}
