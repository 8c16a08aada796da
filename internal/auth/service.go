package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/artha-erp/artha/internal/shared"
)

// AuditPort records audit trail entries.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenIssuer
	audit  AuditPort
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenIssuer, audit AuditPort) *Service {
	return &Service{repo: repo, tokens: tokens, audit: audit}
}

// LoginResult carries the signed token and its owner.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      Profile   `json:"user"`
}

// Login validates email/password credentials and issues a bearer token.
// Every failure mode collapses to ErrInvalidCredentials so the response
// does not reveal whether the account exists.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, time.Now())
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  user.ID,
			Action:   "auth:login",
			Entity:   "user",
			EntityID: fmt.Sprintf("%d", user.ID),
		})
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      Profile{ID: user.ID, Email: user.Email, Name: user.Name},
	}, nil
}

// Me returns the profile for the authenticated principal.
func (s *Service) Me(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}
