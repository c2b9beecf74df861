package service

import (
	"context"
	"testing"

	"stonefire/internal/db"
	"stonefire/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users map[string]db.User // by id
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]db.User)}
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (db.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return db.User{}, pgx.ErrNoRows
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id string) (db.User, error) {
	u, ok := f.users[id]
	if !ok {
		return db.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) ListUsers(ctx context.Context) ([]db.User, error) {
	var out []db.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserStore) CreateUser(ctx context.Context, id, email, role, passwordHash string) (db.User, error) {
	u := db.User{ID: id, Email: email, Role: role, PasswordHash: passwordHash}
	f.users[id] = u
	return u, nil
}

func (f *fakeUserStore) UpdateUserRole(ctx context.Context, id, role string) error {
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Role = role
	f.users[id] = u
	return nil
}

func TestCreateUserNormalizesEmail(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	user, err := svc.CreateUser(context.Background(), "  Ada@Example.COM ", "hunter2", model.RoleJobs)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "hunter2", user.PasswordHash)
}

func TestCreateUserRejectsBadInput(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	_, err := svc.CreateUser(context.Background(), "not-an-email", "hunter2", model.RoleJobs)
	require.Error(t, err)

	_, err = svc.CreateUser(context.Background(), "ada@example.com", "", model.RoleJobs)
	require.Error(t, err)

	_, err = svc.CreateUser(context.Background(), "ada@example.com", "hunter2", "superuser")
	require.Error(t, err)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	_, err := svc.CreateUser(context.Background(), "ada@example.com", "hunter2", model.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), "ADA@example.com", "other", model.RoleJobs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestVerifyCredentials(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	created, err := svc.CreateUser(context.Background(), "ada@example.com", "hunter2", model.RoleBoth)
	require.NoError(t, err)

	user, err := svc.VerifyCredentials(context.Background(), "Ada@Example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.VerifyCredentials(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.VerifyCredentials(context.Background(), "nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
