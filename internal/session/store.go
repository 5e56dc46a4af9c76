package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/metrics"
	"github.com/stockroom/stockroom/internal/model"
	"github.com/stockroom/stockroom/internal/repository"
)

// sessionKeyPrefix is the Redis key prefix for session records.
const sessionKeyPrefix = "session:"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases are indistinguishable to prevent user enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthenticated indicates a missing, malformed or expired token.
	ErrUnauthenticated = errors.New("missing or invalid session token")

	// ErrStoreUnavailable indicates the session backend could not be
	// reached. Transient; callers may retry.
	ErrStoreUnavailable = errors.New("session store unavailable")
)

// UserSource looks up user credentials. Satisfied by *repository.Repository.
type UserSource interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// Store verifies credentials and manages session tokens.
type Store struct {
	redis   *redis.Client
	users   UserSource
	ttl     time.Duration
	logger  *slog.Logger
	metrics metrics.Recorder

	// dummyHash burns a hash comparison on the unknown-email path so
	// Authenticate takes the same time whether or not the email exists.
	dummyHash string
}

// NewStore creates a session store. ttl is the session lifetime applied as
// the Redis key TTL.
func NewStore(client *redis.Client, users UserSource, ttl time.Duration, logger *slog.Logger, recorder metrics.Recorder) (*Store, error) {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	dummyHash, err := auth.HashPassword("stockroom-equalizer")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &Store{
		redis:     client,
		users:     users,
		ttl:       ttl,
		logger:    logger.With("component", "session.store"),
		metrics:   recorder,
		dummyHash: dummyHash,
	}, nil
}

// sessionRecord is the session state persisted in Redis.
type sessionRecord struct {
	UserID    string    `json:"user_id"`
	TenantID  string    `json:"tenant_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticate verifies the credential and issues a new session.
// Every successful call creates a fresh session record; prior sessions for
// the same user remain valid until they expire or are invalidated.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*model.Session, error) {
	// Users are stored under the normalized email; look up the same form.
	user, err := s.users.GetUserByEmail(ctx, auth.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Equalize timing with the hash-comparison path.
			_, _ = auth.VerifyPassword(password, s.dummyHash)
			s.metrics.IncAuthAttempt("failure")
			return nil, ErrInvalidCredentials
		}
		if errors.Is(err, repository.ErrStoreUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncAuthAttempt("failure")
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	session := &model.Session{
		Token:     auth.NewSessionToken(),
		UserID:    user.ID,
		TenantID:  user.TenantID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	record := sessionRecord{
		UserID:    session.UserID,
		TenantID:  session.TenantID,
		Email:     user.Email,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal session record: %w", err)
	}

	if err := s.redis.Set(ctx, sessionKey(session.Token), data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.metrics.IncAuthAttempt("success")
	s.logger.Info("session issued",
		"user_id", session.UserID,
		"tenant_id", session.TenantID,
	)

	return session, nil
}

// Validate resolves a token to the bound identity.
// Fails with ErrUnauthenticated for missing, malformed or expired tokens;
// validity is checked against the store on every call, never cached.
func (s *Store) Validate(ctx context.Context, token string) (*model.Identity, error) {
	if !auth.ValidTokenFormat(token) {
		return nil, ErrUnauthenticated
	}

	data, err := s.redis.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var record sessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		// Corrupt record: treat as invalid rather than failing the request
		// with a server error, but surface it in the log.
		s.logger.Error("corrupt session record", "error", err)
		return nil, ErrUnauthenticated
	}

	return &model.Identity{
		UserID:   record.UserID,
		TenantID: record.TenantID,
		Email:    record.Email,
	}, nil
}

// Invalidate removes a session. Idempotent: invalidating an unknown or
// already-invalid token is a no-op, not an error.
func (s *Store) Invalidate(ctx context.Context, token string) error {
	if !auth.ValidTokenFormat(token) {
		return nil
	}

	if err := s.redis.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

// Ping checks session backend connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}
