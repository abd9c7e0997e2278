// Package service holds the catalog's business operations. Handlers decode
// requests and render responses; everything between lives here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/listenupapp/bookshelf/internal/auth"
	"github.com/listenupapp/bookshelf/internal/domain"
	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
	"github.com/listenupapp/bookshelf/internal/id"
	"github.com/listenupapp/bookshelf/internal/ratelimit"
	"github.com/listenupapp/bookshelf/internal/store"
	"github.com/listenupapp/bookshelf/internal/validation"
)

// touchInterval limits how often a session's last-seen time is written.
const touchInterval = time.Minute

// AuthConfig controls session lifetimes.
type AuthConfig struct {
	SessionDuration  time.Duration
	RememberDuration time.Duration
}

// AuthService handles login, logout and resolving a session cookie to a user.
type AuthService struct {
	store     store.Store
	tokens    *auth.SessionTokens
	limiter   *ratelimit.KeyedRateLimiter
	validator *validation.Validator
	cfg       AuthConfig
	logger    *slog.Logger

	// dummyHash is verified against when the login is unknown so both
	// paths cost the same.
	dummyHash func() string
}

// NewAuthService creates a new authentication service. limiter may be nil.
func NewAuthService(
	store store.Store,
	tokens *auth.SessionTokens,
	limiter *ratelimit.KeyedRateLimiter,
	validator *validation.Validator,
	cfg AuthConfig,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:     store,
		tokens:    tokens,
		limiter:   limiter,
		validator: validator,
		cfg:       cfg,
		logger:    logger,
		dummyHash: sync.OnceValue(func() string {
			h, _ := auth.HashPassword("not-a-real-password")
			return h
		}),
	}
}

// LoginRequest contains credentials plus client details recorded on the session.
type LoginRequest struct {
	validation.LoginInput
	IPAddress string
	UserAgent string
}

// LoginResult is a successful login.
type LoginResult struct {
	User    *domain.User
	Session *domain.Session
	Token   string
}

// Login checks credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if s.limiter != nil && !s.limiter.Allow(req.IPAddress) {
		return nil, domainerrors.RateLimited("Too many login attempts, try again later")
	}

	if err := s.validator.Validate(req.LoginInput); err != nil {
		return nil, domainerrors.InvalidCredentials("Enter both login and password")
	}

	user, err := s.store.GetUserByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			auth.VerifyPassword(s.dummyHash(), req.Password)
			return nil, domainerrors.InvalidCredentials("Invalid login or password")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		if s.logger != nil {
			s.logger.Info("failed login", "login", req.Login, "ip", req.IPAddress)
		}
		return nil, domainerrors.InvalidCredentials("Invalid login or password")
	}

	if auth.NeedsRehash(user.PasswordHash) {
		s.upgradeHash(ctx, user, req.Password)
	}

	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	lifetime := s.cfg.SessionDuration
	if req.Remember {
		lifetime = s.cfg.RememberDuration
	}

	now := time.Now()
	session := &domain.Session{
		ID:         sessionID,
		UserID:     user.ID,
		Remember:   req.Remember,
		CreatedAt:  now,
		ExpiresAt:  now.Add(lifetime),
		LastSeenAt: now,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user logged in",
			"user_id", user.ID,
			"login", user.Login,
			"remember", req.Remember,
		)
	}

	return &LoginResult{
		User:    user,
		Session: session,
		Token:   s.tokens.Issue(session),
	}, nil
}

// upgradeHash replaces a legacy password hash. Failure only costs another
// upgrade attempt on the next login.
func (s *AuthService) upgradeHash(ctx context.Context, user *domain.User, password string) {
	hash, err := auth.HashPassword(password)
	if err == nil {
		err = s.store.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("password rehash failed", "user_id", user.ID, "error", err)
		}
		return
	}
	user.PasswordHash = hash
	if s.logger != nil {
		s.logger.Info("upgraded legacy password hash", "user_id", user.ID)
	}
}

// Logout ends the session behind token. Invalid or stale tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil
	}
	if err := s.store.DeleteSession(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Resolve maps a session token to its user. Any token that does not lead to
// a live session yields an Unauthorized error.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.User, *domain.Session, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid session token").WithCause(err)
	}

	session, err := s.store.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("session not found")
		}
		return nil, nil, fmt.Errorf("get session: %w", err)
	}

	if session.IsExpired() {
		if err := s.store.DeleteSession(ctx, session.ID); err != nil && s.logger != nil {
			s.logger.Warn("failed to delete expired session", "session_id", session.ID, "error", err)
		}
		return nil, nil, domainerrors.Unauthorized("session expired")
	}

	if session.UserID != claims.UserID {
		return nil, nil, domainerrors.Unauthorized("session does not match token")
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("user no longer exists")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	if time.Since(session.LastSeenAt) > touchInterval {
		session.Touch()
		if err := s.store.TouchSession(ctx, session.ID, session.LastSeenAt); err != nil && s.logger != nil {
			s.logger.Warn("failed to touch session", "session_id", session.ID, "error", err)
		}
	}

	return user, session, nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	if n > 0 && s.logger != nil {
		s.logger.Info("purged expired sessions", "count", n)
	}
	return n, nil
}

// User returns a user by ID.
func (s *AuthService) User(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}
