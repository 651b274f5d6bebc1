// Package mapper converts between domain, database, and API layer types.
package mapper

import (
	"database/sql"
	"time"
)

// NullTimeFromPtr converts an optional time into its database representation.
func NullTimeFromPtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// TimePtrFromNull converts a scanned nullable timestamp into an optional time.
func TimePtrFromNull(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// NullInt64FromPtr converts an optional id into its database representation.
func NullInt64FromPtr(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

// Int64PtrFromNull converts a scanned nullable integer into an optional value.
func Int64PtrFromNull(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// NullStrFromPtr converts an optional string into its database representation.
func NullStrFromPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// StrPtrFromNull converts a scanned nullable string into an optional value.
func StrPtrFromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
