package domain

import "time"

// Audit actions recorded by the services.
const (
	AuditActionCreateAuthor = "CREATE_AUTHOR"
	AuditActionCreateBook   = "CREATE_BOOK"
	AuditActionAddCopies    = "ADD_COPIES"
	AuditActionCreateMember = "CREATE_MEMBER"
	AuditActionBorrow       = "BORROW"
	AuditActionReturn       = "RETURN"
	AuditActionOverdueSweep = "OVERDUE_SWEEP"
)

// Audit statuses.
const (
	AuditStatusOK    = "OK"
	AuditStatusError = "ERROR"
)

// AuditEntry represents a single audit log record.
type AuditEntry struct {
	ID         int64
	Principal  string
	Action     string
	Entity     string // "author", "book", "copy", "member", "loan"
	EntityID   *int64
	Status     string // "OK", "ERROR"
	Detail     *string
	DurationMs *int64
	CreatedAt  time.Time
}
