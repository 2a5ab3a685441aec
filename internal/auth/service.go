package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tradify/internal/logger"
	"tradify/internal/store"
	"tradify/internal/store/model"
	"tradify/internal/types"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionInvalid     = errors.New("session invalid or expired")
	ErrResetInvalid       = errors.New("reset token invalid or expired")
)

const resetTokenTTL = 30 * time.Minute

// Service owns accounts and bearer sessions. It stands in for the hosted
// identity provider the journal originally delegated to.
type Service struct {
	store      store.Store
	sessionTTL time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewService(st store.Store, sessionTTL time.Duration, bcryptCost int) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{store: st, sessionTTL: sessionTTL, bcryptCost: bcryptCost, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, email, password, displayName string) (types.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return types.User{}, fmt.Errorf("invalid email %q", email)
	}
	if len(password) < 6 {
		return types.User{}, errors.New("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return types.User{}, fmt.Errorf("hashing password failed: %w", err)
	}
	now := s.now().UTC()
	user := &model.UserModel{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, ErrEmailTaken
		}
		return types.User{}, err
	}
	logger.Infof("registered user %s", email)
	return user.ToDomain(), nil
}

// Login checks credentials and issues a bearer session token.
func (s *Service) Login(ctx context.Context, email, password string) (types.Session, error) {
	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Session{}, ErrInvalidCredentials
		}
		return types.Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return types.Session{}, ErrInvalidCredentials
	}
	now := s.now().UTC()
	session := &model.SessionModel{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Kind:      model.SessionKindLogin,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.store.Sessions().Create(ctx, session); err != nil {
		return types.Session{}, err
	}
	return types.Session{Token: session.Token, UserID: user.ID, ExpiresAt: session.ExpiresAt, CreatedAt: now}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.store.Sessions().Delete(ctx, token)
}

// Authenticate resolves a bearer token to its user. Expired sessions are
// deleted on sight.
func (s *Service) Authenticate(ctx context.Context, token string) (types.User, error) {
	if strings.TrimSpace(token) == "" {
		return types.User{}, ErrSessionInvalid
	}
	session, err := s.store.Sessions().Find(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrSessionInvalid
		}
		return types.User{}, err
	}
	if session.Kind != model.SessionKindLogin {
		return types.User{}, ErrSessionInvalid
	}
	if s.now().UTC().After(session.ExpiresAt) {
		_ = s.store.Sessions().Delete(ctx, token)
		return types.User{}, ErrSessionInvalid
	}
	user, err := s.store.Users().FindByID(ctx, session.UserID)
	if err != nil {
		return types.User{}, ErrSessionInvalid
	}
	return user.ToDomain(), nil
}

func (s *Service) UpdateDisplayName(ctx context.Context, userID, displayName string) (types.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return types.User{}, errors.New("display name cannot be empty")
	}
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return types.User{}, err
	}
	user.DisplayName = displayName
	user.UpdatedAt = s.now().UTC()
	if err := s.store.Users().Update(ctx, user); err != nil {
		return types.User{}, err
	}
	return user.ToDomain(), nil
}

// RequestPasswordReset issues a short-lived single-use token. The original
// app delegated delivery to the provider's reset email; here the token is
// returned to the caller directly.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Do not reveal whether the address exists.
			return "", nil
		}
		return "", err
	}
	now := s.now().UTC()
	reset := &model.SessionModel{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Kind:      model.SessionKindPasswordReset,
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	}
	if err := s.store.Sessions().Create(ctx, reset); err != nil {
		return "", err
	}
	return reset.Token, nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	session, err := s.store.Sessions().Find(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrResetInvalid
		}
		return err
	}
	if session.Kind != model.SessionKindPasswordReset || s.now().UTC().After(session.ExpiresAt) {
		return ErrResetInvalid
	}
	user, err := s.store.Users().FindByID(ctx, session.UserID)
	if err != nil {
		return ErrResetInvalid
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password failed: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = s.now().UTC()
	if err := s.store.Users().Update(ctx, user); err != nil {
		return err
	}
	// Single use.
	return s.store.Sessions().Delete(ctx, token)
}

// PurgeExpiredSessions removes stale sessions and reset tokens.
func (s *Service) PurgeExpiredSessions(ctx context.Context) {
	n, err := s.store.Sessions().DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		logger.Warnf("purging expired sessions failed: %v", err)
		return
	}
	if n > 0 {
		logger.Debugf("purged %d expired sessions", n)
	}
}
