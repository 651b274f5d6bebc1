package querystats

import (
	"context"
	"database/sql/driver"
	"errors"
	"time"
)

// WrapDriver wraps a database/sql driver so that every executed statement is
// reported, with its duration, to the collector attached to the statement's
// context. Requests without a collector run at native speed minus one
// context lookup. The wrapper is strictly observational: results and errors
// from the underlying driver pass through unchanged, and failed statements
// are timed and recorded like successful ones.
//
// Statements reach the collector through the context-aware driver
// interfaces, which database/sql prefers on all modern drivers; the wrapped
// driver should implement them for its queries to be observed.
func WrapDriver(d driver.Driver) driver.Driver {
	return &tracedDriver{parent: d}
}

type tracedDriver struct {
	parent driver.Driver
}

func (d *tracedDriver) Open(name string) (driver.Conn, error) {
	conn, err := d.parent.Open(name)
	if err != nil {
		return nil, err
	}
	return &tracedConn{parent: conn}, nil
}

type tracedConn struct {
	parent driver.Conn
}

func (c *tracedConn) Prepare(query string) (driver.Stmt, error) {
	stmt, err := c.parent.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &tracedStmt{parent: stmt, query: query}, nil
}

func (c *tracedConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if pc, ok := c.parent.(driver.ConnPrepareContext); ok {
		stmt, err := pc.PrepareContext(ctx, query)
		if err != nil {
			return nil, err
		}
		return &tracedStmt{parent: stmt, query: query}, nil
	}
	return c.Prepare(query)
}

func (c *tracedConn) Close() error { return c.parent.Close() }

func (c *tracedConn) Begin() (driver.Tx, error) { return c.parent.Begin() } //nolint:staticcheck // driver.Conn still requires Begin

func (c *tracedConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if bt, ok := c.parent.(driver.ConnBeginTx); ok {
		return bt.BeginTx(ctx, opts)
	}
	return c.Begin()
}

// ExecContext times the statement and records it. driver.ErrSkip results are
// not recorded: database/sql retries them through the prepared-statement
// path, which records instead, so each statement yields exactly one event.
func (c *tracedConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	execer, ok := c.parent.(driver.ExecerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	start := time.Now()
	res, err := execer.ExecContext(ctx, query, args)
	if !errors.Is(err, driver.ErrSkip) {
		record(ctx, query, time.Since(start))
	}
	return res, err
}

func (c *tracedConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	queryer, ok := c.parent.(driver.QueryerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	start := time.Now()
	rows, err := queryer.QueryContext(ctx, query, args)
	if !errors.Is(err, driver.ErrSkip) {
		record(ctx, query, time.Since(start))
	}
	return rows, err
}

func (c *tracedConn) Ping(ctx context.Context) error {
	if p, ok := c.parent.(driver.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (c *tracedConn) ResetSession(ctx context.Context) error {
	if sr, ok := c.parent.(driver.SessionResetter); ok {
		return sr.ResetSession(ctx)
	}
	return nil
}

func (c *tracedConn) IsValid() bool {
	if v, ok := c.parent.(driver.Validator); ok {
		return v.IsValid()
	}
	return true
}

func (c *tracedConn) CheckNamedValue(nv *driver.NamedValue) error {
	if nvc, ok := c.parent.(driver.NamedValueChecker); ok {
		return nvc.CheckNamedValue(nv)
	}
	return driver.ErrSkip
}

type tracedStmt struct {
	parent driver.Stmt
	query  string
}

func (s *tracedStmt) Close() error  { return s.parent.Close() }
func (s *tracedStmt) NumInput() int { return s.parent.NumInput() }

// Exec and Query serve drivers used without context; there is no context to
// locate a collector through, so nothing is recorded.
func (s *tracedStmt) Exec(args []driver.Value) (driver.Result, error) { //nolint:staticcheck // driver.Stmt still requires Exec
	return s.parent.Exec(args)
}

func (s *tracedStmt) Query(args []driver.Value) (driver.Rows, error) { //nolint:staticcheck // driver.Stmt still requires Query
	return s.parent.Query(args)
}

func (s *tracedStmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	start := time.Now()
	if se, ok := s.parent.(driver.StmtExecContext); ok {
		res, err := se.ExecContext(ctx, args)
		record(ctx, s.query, time.Since(start))
		return res, err
	}
	vals, err := namedValueToValue(args)
	if err != nil {
		return nil, err
	}
	res, err := s.parent.Exec(vals) //nolint:staticcheck // fallback for pre-context drivers
	record(ctx, s.query, time.Since(start))
	return res, err
}

func (s *tracedStmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	start := time.Now()
	if sq, ok := s.parent.(driver.StmtQueryContext); ok {
		rows, err := sq.QueryContext(ctx, args)
		record(ctx, s.query, time.Since(start))
		return rows, err
	}
	vals, err := namedValueToValue(args)
	if err != nil {
		return nil, err
	}
	rows, err := s.parent.Query(vals) //nolint:staticcheck // fallback for pre-context drivers
	record(ctx, s.query, time.Since(start))
	return rows, err
}

func (s *tracedStmt) CheckNamedValue(nv *driver.NamedValue) error {
	if nvc, ok := s.parent.(driver.NamedValueChecker); ok {
		return nvc.CheckNamedValue(nv)
	}
	return driver.ErrSkip
}

// record hands a completed statement to the request's collector, if any.
func record(ctx context.Context, query string, d time.Duration) {
	if c := FromContext(ctx); c != nil {
		c.Record(query, d, callerStack)
	}
}

func namedValueToValue(named []driver.NamedValue) ([]driver.Value, error) {
	vals := make([]driver.Value, len(named))
	for i, nv := range named {
		if nv.Name != "" {
			return nil, errors.New("driver does not support named parameters")
		}
		vals[i] = nv.Value
	}
	return vals, nil
}

var (
	_ driver.Driver             = (*tracedDriver)(nil)
	_ driver.Conn               = (*tracedConn)(nil)
	_ driver.ConnPrepareContext = (*tracedConn)(nil)
	_ driver.ConnBeginTx        = (*tracedConn)(nil)
	_ driver.ExecerContext      = (*tracedConn)(nil)
	_ driver.QueryerContext     = (*tracedConn)(nil)
	_ driver.Pinger             = (*tracedConn)(nil)
	_ driver.SessionResetter    = (*tracedConn)(nil)
	_ driver.Validator          = (*tracedConn)(nil)
	_ driver.NamedValueChecker  = (*tracedConn)(nil)
	_ driver.Stmt               = (*tracedStmt)(nil)
	_ driver.StmtExecContext    = (*tracedStmt)(nil)
	_ driver.StmtQueryContext   = (*tracedStmt)(nil)
	_ driver.NamedValueChecker  = (*tracedStmt)(nil)
)
