package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nexcharge/nexcharge-backend/internal/auth"
)

// RegisterRequest holds the fields needed to create an account.
type RegisterRequest struct {
	NIC         string
	Email       string
	Password    string
	DisplayName string
	Role        Role
}

// Service defines business logic related to users.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, nic, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByNIC(ctx context.Context, nic NIC) (*User, error)
	List(ctx context.Context, filter Filter) ([]*User, int, error)

	// SetActive toggles an account's active flag. Owners may deactivate their
	// own account; reactivation is reserved for back office staff.
	SetActive(ctx context.Context, nic NIC, active bool, actorRole Role) (*User, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher

	minPasswordLength int
}

// NewService creates a new user Service.
func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:              repo,
		hasher:            hasher,
		minPasswordLength: 8,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	nic, err := ParseNIC(strings.TrimSpace(req.NIC))
	if err != nil {
		return nil, err
	}

	if _, err := ParseRole(string(req.Role)); err != nil {
		return nil, err
	}

	if len(req.Password) < s.minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	// Check if the NIC is already registered.
	_, err = s.repo.GetByNIC(ctx, nic)
	if err == nil {
		return nil, ErrNICAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing NIC: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var displayNamePtr *string
	if d := strings.TrimSpace(req.DisplayName); d != "" {
		displayNamePtr = &d
	}

	u := &User{
		NIC:          nic,
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		DisplayName:  displayNamePtr,
		Role:         req.Role,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *service) Login(ctx context.Context, nic, password string) (*User, error) {
	cleanNIC := strings.TrimSpace(nic)
	if cleanNIC == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByNIC(ctx, NIC(cleanNIC))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user by NIC: %w", err)
	}

	if !u.IsActive {
		return nil, ErrInactiveUser
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Update last_login_at (best effort; do not fail login if update fails).
	now := time.Now().UTC()
	_ = s.repo.UpdateLastLogin(ctx, u.ID, now)

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByNIC(ctx context.Context, nic NIC) (*User, error) {
	return s.repo.GetByNIC(ctx, nic)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) SetActive(ctx context.Context, nic NIC, active bool, actorRole Role) (*User, error) {
	u, err := s.repo.GetByNIC(ctx, nic)
	if err != nil {
		return nil, err
	}

	if active && !u.IsActive && actorRole != RoleBackoffice {
		return nil, ErrReactivateByOwner
	}

	u.IsActive = active
	if err := s.repo.SetActive(ctx, u.ID, active); err != nil {
		return nil, err
	}
	return u, nil
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
