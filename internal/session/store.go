package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/leoconnect/leoconnect/internal/kv"
	"github.com/leoconnect/leoconnect/internal/log"
)

// Storage keys. These match the layout the backend contract documents:
// a raw token string and a JSON-serialized profile, independently
// addressable.
const (
	keyAuthToken = "authToken"
	keyUserData  = "userData"
)

// Store persists Session state in device-local durable storage.
//
// The underlying key-value store is not transactional across the two keys,
// so the "write both or neither" guarantee is enforced here: the token is
// written first, and if the profile write fails the token is rolled back
// and the write reported as failed. Callers must never treat a failed
// Write as an established session.
type Store struct {
	kv  kv.Store
	log *log.Logger
}

// NewStore creates a session store over the given key-value backend.
func NewStore(store kv.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Store{kv: store, log: logger}
}

// Write persists the session token and user profile together.
//
// Serialization happens before any write, so an unserializable profile
// leaves the store untouched.
func (s *Store) Write(ctx context.Context, token string, user *User) error {
	if token == "" {
		return errors.New("session: token is required")
	}
	if user == nil {
		return errors.New("session: user is required")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}

	if err := s.kv.Set(ctx, keyAuthToken, token); err != nil {
		return fmt.Errorf("session: write token: %w", err)
	}

	if err := s.kv.Set(ctx, keyUserData, string(data)); err != nil {
		// Roll back the token so a partial write never reads as a session.
		if delErr := s.kv.Delete(ctx, keyAuthToken); delErr != nil {
			s.log.WithError(delErr).Warn("failed to roll back token after partial write")
		}
		return fmt.Errorf("session: write user: %w", err)
	}

	return nil
}

// Read restores the persisted session, if any.
//
// Returns (nil, nil) when no token is stored. A corrupt or unparseable
// profile entry degrades to a session with a nil User rather than an
// error, so a damaged cache cannot crash session bootstrap.
func (s *Store) Read(ctx context.Context) (*Session, error) {
	token, err := s.kv.Get(ctx, keyAuthToken)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read token: %w", err)
	}

	session := &Session{Token: token}

	data, err := s.kv.Get(ctx, keyUserData)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.WithError(err).Warn("cached profile unreadable, continuing with token only")
		}
		return session, nil
	}

	var user User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		s.log.WithError(err).Warn("cached profile corrupt, continuing with token only")
		return session, nil
	}

	session.User = &user
	return session, nil
}

// Clear removes both entries. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, keyAuthToken); err != nil {
		return fmt.Errorf("session: clear token: %w", err)
	}
	if err := s.kv.Delete(ctx, keyUserData); err != nil {
		return fmt.Errorf("session: clear user: %w", err)
	}
	return nil
}

// HasToken reports whether a session token is stored, without touching
// the cached profile.
func (s *Store) HasToken(ctx context.Context) (bool, error) {
	_, err := s.kv.Get(ctx, keyAuthToken)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("session: check token: %w", err)
	}
	return true, nil
}
