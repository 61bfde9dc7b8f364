// internal/account/implementation.go
package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/Sullpe/OtakuShop/pkg/statestore"
)

// demoUserName is the profile name handed to shoppers who log in without a
// prior registration, mirroring the original storefront's mock.
const demoUserName = "Makima"

// Config holds the tuning knobs of the mocked auth backend.
type Config struct {
	TokenSecret      []byte
	TokenTTL         time.Duration
	LoginRatePerMin  int
	SimulatedLatency time.Duration
}

// service implements the Service interface.
type service struct {
	store       *statestore.Store
	cfg         Config
	rateLimiter *rate.Limiter
}

// NewService creates a new account service instance.
func NewService(store *statestore.Store, cfg Config) Service {
	perMin := cfg.LoginRatePerMin
	if perMin <= 0 {
		perMin = 5
	}
	return &service{
		store:       store,
		cfg:         cfg,
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin),
	}
}

func emailKey(email string) string {
	return "user:email:" + strings.ToLower(email)
}

func idKey(id uuid.UUID) string {
	return "user:id:" + id.String()
}

// Register creates a new user. Any non-empty triple succeeds; this is a
// mocked backend, not an identity provider.
func (s *service) Register(ctx context.Context, name, email, password string) (*Session, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if err := s.simulateBackend(ctx); err != nil {
		return nil, err
	}

	record, err := s.storeUser(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	return s.newSession(record.user())
}

// Login authenticates a user. A registered email must present its password;
// an unknown email materializes the demo profile, preserving the original
// always-succeeds mock for fresh visitors.
func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if err := s.simulateBackend(ctx); err != nil {
		return nil, err
	}

	var record userRecord
	found, err := s.store.Load(ctx, emailKey(email), &record)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !found {
		record, err = s.storeUser(ctx, demoUserName, email, password)
		if err != nil {
			return nil, err
		}
		return s.newSession(record.user())
	}

	ok, err := verifyPassword(password, record.Salt, record.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return s.newSession(record.user())
}

// ChangePassword replaces the stored password after checking the current
// one. Empty fields reject with the user-facing message the profile page
// shows inline.
func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, current, updated string) error {
	if current == "" || updated == "" {
		return ErrInvalidPassword
	}
	if err := s.simulateBackend(ctx); err != nil {
		return err
	}

	var record userRecord
	found, err := s.store.Load(ctx, idKey(userID), &record)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !found {
		return ErrUserNotFound
	}

	ok, err := verifyPassword(current, record.Salt, record.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return ErrInvalidPassword
	}

	hash, salt, err := hashPassword(updated)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	record.PasswordHash = hash
	record.Salt = salt

	return s.saveRecord(ctx, record)
}

// ResetPassword pretends to send a reset email and always resolves.
func (s *service) ResetPassword(ctx context.Context, email string) error {
	const op = "account.service.ResetPassword"

	if err := s.simulateBackend(ctx); err != nil {
		return err
	}
	slog.With("op", op).Info("password reset requested", "email", email)
	return nil
}

// VerifyToken recovers the user behind a bearer token.
func (s *service) VerifyToken(token string) (*User, error) {
	return parseToken(token, s.cfg.TokenSecret)
}

func (s *service) storeUser(ctx context.Context, name, email, password string) (userRecord, error) {
	hash, salt, err := hashPassword(password)
	if err != nil {
		return userRecord{}, fmt.Errorf("failed to hash password: %w", err)
	}

	record := userRecord{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    time.Now(),
	}
	if err := s.saveRecord(ctx, record); err != nil {
		return userRecord{}, err
	}
	return record, nil
}

// saveRecord mirrors the record under both lookup keys.
func (s *service) saveRecord(ctx context.Context, record userRecord) error {
	if err := s.store.Save(ctx, emailKey(record.Email), record); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	if err := s.store.Save(ctx, idKey(record.ID), record); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	return nil
}

func (s *service) newSession(u User) (*Session, error) {
	token, expiresAt, err := issueToken(u, s.cfg.TokenSecret, s.cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

// simulateBackend stands in for the network round trip of a real identity
// provider. It resolves unconditionally after the configured latency.
func (s *service) simulateBackend(ctx context.Context) error {
	if s.cfg.SimulatedLatency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(s.cfg.SimulatedLatency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
