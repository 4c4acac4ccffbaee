package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
)

type AuthService struct {
	repo domain.UserRepository
}

func NewAuthService(repo domain.UserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

type AddChildInput struct {
	FamilyID    string
	DisplayName string
	PIN         string
}

type ChildLoginInput struct {
	FamilyID    string
	DisplayName string
	PIN         string
}

// Register creates a parent account and a fresh family around it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	id := uuid.NewString()
	familyID := uuid.NewString()

	user, err := domain.NewParent(id, familyID, input.Email, input.DisplayName)
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth service: failed to create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := user.CheckPassword(password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// AddChild creates a child profile with a 4-digit PIN inside the parent's
// family.
func (s *AuthService) AddChild(ctx context.Context, input AddChildInput) (*domain.User, error) {
	child, err := domain.NewChild(uuid.NewString(), input.FamilyID, input.DisplayName)
	if err != nil {
		return nil, err
	}

	if err := child.SetPIN(input.PIN); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, child); err != nil {
		return nil, fmt.Errorf("auth service: failed to create child: %w", err)
	}

	return child, nil
}

// ChildLogin matches a child by display name inside the family and checks
// the PIN. Unknown name and wrong PIN deliberately return the same error.
func (s *AuthService) ChildLogin(ctx context.Context, input ChildLoginInput) (*domain.User, error) {
	children, err := s.repo.ListChildren(ctx, input.FamilyID)
	if err != nil {
		return nil, fmt.Errorf("auth service: failed to list children: %w", err)
	}

	for _, child := range children {
		if child.DisplayName != input.DisplayName {
			continue
		}
		if err := child.CheckPIN(input.PIN); err != nil {
			return nil, domain.ErrInvalidCredentials
		}
		return child, nil
	}

	return nil, domain.ErrInvalidCredentials
}

func (s *AuthService) ListChildren(ctx context.Context, familyID string) ([]*domain.User, error) {
	return s.repo.ListChildren(ctx, familyID)
}
