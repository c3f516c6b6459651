package service

import (
	"alcyxob/gym-membership/internal/domain"
	"alcyxob/gym-membership/internal/repository"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RegisterMemberInput struct {
	Name  string `validate:"required,max=120"`
	Email string `validate:"omitempty,email"`
	Phone string `validate:"omitempty,max=32"`
}

// UpdateMemberInput replaces the contact data of a member. Nil fields are left unchanged.
type UpdateMemberInput struct {
	Name  *string `validate:"omitempty,min=1,max=120"`
	Email *string `validate:"omitempty,email"`
	Phone *string `validate:"omitempty,max=32"`
}

// MemberSummary is a member listing row.
type MemberSummary struct {
	Member *domain.Member
	Status PlanStatus
}

type MemberService interface {
	Register(ctx context.Context, in RegisterMemberInput) (*domain.Member, error)
	Get(ctx context.Context, id primitive.ObjectID) (*domain.Member, error)
	List(ctx context.Context, filter repository.MemberFilter) ([]MemberSummary, error)
	Update(ctx context.Context, id primitive.ObjectID, in UpdateMemberInput) (*domain.Member, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type memberService struct {
	memberRepo repository.MemberRepository
	validate   *validator.Validate
}

func NewMemberService(memberRepo repository.MemberRepository) MemberService {
	return &memberService{
		memberRepo: memberRepo,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (s *memberService) Register(ctx context.Context, in RegisterMemberInput) (*domain.Member, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if err := s.check(in); err != nil {
		return nil, err
	}

	m := &domain.Member{Name: in.Name, Email: in.Email, Phone: in.Phone}
	if _, err := s.memberRepo.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrMemberEmailTaken
		}
		return nil, &StorageError{Op: "create member", Err: err}
	}

	slog.InfoContext(ctx, "member_registered", "member_id", m.ID.Hex())
	return m, nil
}

func (s *memberService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Member, error) {
	return loadMember(ctx, s.memberRepo, id)
}

func (s *memberService) List(ctx context.Context, filter repository.MemberFilter) ([]MemberSummary, error) {
	members, err := s.memberRepo.List(ctx, filter)
	if err != nil {
		return nil, &StorageError{Op: "list members", Err: err}
	}
	out := make([]MemberSummary, 0, len(members))
	for i := range members {
		m := &members[i]
		out = append(out, MemberSummary{Member: m, Status: StatusOf(m)})
	}
	return out, nil
}

func (s *memberService) Update(ctx context.Context, id primitive.ObjectID, in UpdateMemberInput) (*domain.Member, error) {
	trim := func(p *string, lower bool) {
		if p == nil {
			return
		}
		*p = strings.TrimSpace(*p)
		if lower {
			*p = strings.ToLower(*p)
		}
	}
	trim(in.Name, false)
	trim(in.Email, true)
	trim(in.Phone, false)
	if err := s.check(in); err != nil {
		return nil, err
	}

	m, err := loadMember(ctx, s.memberRepo, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Email != nil {
		m.Email = *in.Email
	}
	if in.Phone != nil {
		m.Phone = *in.Phone
	}
	if err := saveMember(ctx, s.memberRepo, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes the member together with its attendance, plan and history.
func (s *memberService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.memberRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return &StorageError{Op: "delete member", Err: err}
	}
	slog.InfoContext(ctx, "member_deleted", "member_id", id.Hex())
	return nil
}

// check runs the struct validator and reports the first failing field.
func (s *memberService) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return invalid(strings.ToLower(fe.Field()), "failed on '"+fe.Tag()+"'")
	}
	return invalid("input", err.Error())
}
