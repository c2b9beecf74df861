package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"stonefire/internal/auth"
	"stonefire/internal/db"
	"stonefire/internal/model"
)

// ErrInvalidCredentials is returned for any login failure so callers cannot
// distinguish unknown accounts from wrong passwords.
var ErrInvalidCredentials = fmt.Errorf("invalid email or password")

// UserStore is the persistence surface for admin accounts
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (db.User, error)
	GetUserByID(ctx context.Context, id string) (db.User, error)
	ListUsers(ctx context.Context) ([]db.User, error)
	CreateUser(ctx context.Context, id, email, role, passwordHash string) (db.User, error)
	UpdateUserRole(ctx context.Context, id, role string) error
}

type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

func validRole(role model.Role) bool {
	switch role {
	case model.RoleAdmin, model.RoleJobs, model.RoleCatering, model.RoleBoth:
		return true
	}
	return false
}

func (s *UserService) CreateUser(ctx context.Context, email, password string, role model.Role) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("valid email is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if !validRole(role) {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("user with this email already exists")
	} else if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	row, err := s.store.CreateUser(ctx, ulid.Make().String(), email, string(role), hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return dbUserToModel(row), nil
}

// VerifyCredentials checks an email/password pair and returns the account on
// success. All failures map to ErrInvalidCredentials.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if row.PasswordHash == "" || !auth.VerifyPassword(password, row.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return dbUserToModel(row), nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]*model.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, dbUserToModel(r))
	}
	return out, nil
}

func (s *UserService) UpdateUserRole(ctx context.Context, id string, role model.Role) error {
	if !validRole(role) {
		return fmt.Errorf("unknown role %q", role)
	}
	if err := s.store.UpdateUserRole(ctx, id, string(role)); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	return nil
}

func dbUserToModel(r db.User) *model.User {
	return &model.User{
		ID:           r.ID,
		Email:        r.Email,
		Role:         model.Role(r.Role),
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}
