package service

import (
	"context"
	"errors"
	"testing"

	"shopmanager/internal/config"
	"shopmanager/internal/dto"
	"shopmanager/internal/model"
	"shopmanager/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// stubUserRepo keeps users in memory, keyed by username and ID.
type stubUserRepo struct {
	byUsername map[string]*model.User
	byID       map[uuid.UUID]*model.User
}

func newStubUserRepo(users ...*model.User) *stubUserRepo {
	r := &stubUserRepo{
		byUsername: make(map[string]*model.User),
		byID:       make(map[uuid.UUID]*model.User),
	}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.byUsername[u.Username] = u
		r.byID[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if _, exists := r.byUsername[u.Username]; exists {
		return errors.New("username already taken")
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.byUsername[u.Username] = u
	r.byID[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := r.byUsername[username]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, *u)
	}
	return out, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
}

func seededUser(t *testing.T, username, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
}

func TestLoginSuccess(t *testing.T) {
	user := seededUser(t, "clerk", "hunter2", model.RoleStaff)
	svc := NewAuthService(newStubUserRepo(user), authTestConfig())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "clerk", Password: "hunter2"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "clerk", resp.User.Username)
	assert.Equal(t, model.RoleStaff, resp.User.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	user := seededUser(t, "clerk", "hunter2", model.RoleStaff)
	svc := NewAuthService(newStubUserRepo(user), authTestConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "clerk", Password: "wrong"})
	assert.EqualError(t, err, "invalid credentials")
}

func TestLoginUnknownUsernameSameError(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), authTestConfig())

	// Identical message to a wrong password: no username enumeration.
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "whatever"})
	assert.EqualError(t, err, "invalid credentials")
}

func TestRefreshIssuesNewTokens(t *testing.T) {
	user := seededUser(t, "owner", "secret", model.RoleAdmin)
	svc := NewAuthService(newStubUserRepo(user), authTestConfig())

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "owner", Password: "secret"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, user.ID.String(), refreshed.User.ID)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), authTestConfig())

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, authTestConfig())

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "newstaff",
		Password: "pass1234",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, "newstaff", resp.Username)

	stored := repo.byUsername["newstaff"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "pass1234", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass1234")))
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	repo := newStubUserRepo(seededUser(t, "taken", "x", model.RoleStaff))
	svc := NewAuthService(repo, authTestConfig())

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "taken", Password: "pass1234", Role: model.RoleStaff,
	})
	assert.ErrorContains(t, err, "already taken")
}
