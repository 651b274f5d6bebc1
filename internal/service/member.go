package service

import (
	"context"
	"time"

	"shelf-demo/internal/domain"
)

// MemberService manages library members.
type MemberService struct {
	repo  domain.MemberRepository
	audit domain.AuditRepository
}

// NewMemberService creates a new MemberService.
func NewMemberService(repo domain.MemberRepository, audit domain.AuditRepository) *MemberService {
	return &MemberService{repo: repo, audit: audit}
}

// Create registers a new member.
func (s *MemberService) Create(ctx context.Context, principal string, req domain.CreateMemberRequest) (*domain.Member, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	member, err := s.repo.Create(ctx, &domain.Member{Name: req.Name, Email: req.Email})
	logAudit(ctx, s.audit, auditEvent{
		Principal: principal,
		Action:    domain.AuditActionCreateMember,
		Entity:    "member",
		EntityID:  memberID(member),
		Err:       err,
		Duration:  time.Since(start),
	})
	return member, err
}

// GetByID returns a member by ID.
func (s *MemberService) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all members.
func (s *MemberService) List(ctx context.Context) ([]domain.Member, error) {
	return s.repo.List(ctx)
}

func memberID(m *domain.Member) *int64 {
	if m == nil {
		return nil
	}
	return &m.ID
}
