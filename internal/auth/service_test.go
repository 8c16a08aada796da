package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/artha-erp/artha/internal/shared"
)

type memoryRepo struct {
	users map[string]*User
}

func (r *memoryRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, fmt.Errorf("user: %w", shared.ErrNotFound)
	}
	return user, nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user: %w", shared.ErrNotFound)
}

func newTestService(t *testing.T) (*Service, *TokenIssuer) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &memoryRepo{users: map[string]*User{
		"owner@example.com": {ID: 1, Email: "owner@example.com", Name: "Owner", PasswordHash: string(hash), IsActive: true},
		"gone@example.com":  {ID: 2, Email: "gone@example.com", Name: "Gone", PasswordHash: string(hash), IsActive: false},
	}}
	tokens := NewTokenIssuer("test-secret", "artha", time.Hour)
	return NewService(repo, tokens, nil), tokens
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, tokens := newTestService(t)

	result, err := svc.Login(context.Background(), "owner@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, int64(1), result.User.ID)
	require.True(t, result.ExpiresAt.After(time.Now()))

	userID, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	require.Equal(t, int64(1), userID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "owner@example.com", "wrong")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "correct-horse")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "gone@example.com", "correct-horse")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tokens := NewTokenIssuer("test-secret", "artha", time.Minute)

	token, _, err := tokens.Issue(1, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	theirs := NewTokenIssuer("their-secret", "artha", time.Hour)
	ours := NewTokenIssuer("our-secret", "artha", time.Hour)

	token, _, err := theirs.Issue(1, time.Now())
	require.NoError(t, err)

	_, err = ours.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddlewareSetsPrincipal(t *testing.T) {
	tokens := NewTokenIssuer("test-secret", "artha", time.Hour)
	token, _, err := tokens.Issue(42, time.Now())
	require.NoError(t, err)

	var seen int64
	handler := Middleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(42), seen)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	tokens := NewTokenIssuer("test-secret", "artha", time.Hour)
	handler := Middleware(tokens)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
