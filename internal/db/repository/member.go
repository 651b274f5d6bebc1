package repository

import (
	"context"
	"database/sql"

	"shelf-demo/internal/domain"
)

var _ domain.MemberRepository = (*MemberRepo)(nil)

// MemberRepo implements domain.MemberRepository over SQLite.
type MemberRepo struct {
	db *sql.DB
}

// NewMemberRepo creates a new MemberRepo.
func NewMemberRepo(db *sql.DB) *MemberRepo {
	return &MemberRepo{db: db}
}

// Create registers a new member.
func (r *MemberRepo) Create(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO members (name, email) VALUES (?, ?)`, m.Name, m.Email)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID returns a member by its ID.
func (r *MemberRepo) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	var m domain.Member
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM members WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &m.Email, &m.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &m, nil
}

// List returns all members ordered by name.
func (r *MemberRepo) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, created_at FROM members ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
