package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session is one signed-in client. It lives until Logout or expiry.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	Username  string `json:"username"`
}

// SessionStore is the registry of live sessions and issues their tokens.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session

	signingKey []byte
	ttl        time.Duration
	now        clock
}

func NewSessionStore(signingKey string, ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions:   make(map[string]Session),
		signingKey: []byte(signingKey),
		ttl:        ttl,
		now:        systemClock,
	}
}

// Open registers a new session for username and returns its signed token.
func (s *SessionStore) Open(username string) (Session, string, error) {
	now := s.now()
	sess := Session{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: now.UTC(),
		ExpiresAt: now.Add(s.ttl).UTC(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		SessionID: sess.ID,
		Username:  username,
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return Session{}, "", fmt.Errorf("sign token: %w", err)
	}

	s.mu.Lock()
	s.pruneLocked(now)
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, signed, nil
}

// Resolve verifies the token and returns the live session it names.
func (s *SessionStore) Resolve(accessToken string) (Session, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return Session{}, ErrInvalidToken
	}

	s.mu.RLock()
	sess, ok := s.sessions[claims.SessionID]
	s.mu.RUnlock()
	if !ok || sess.Username != claims.Username {
		return Session{}, ErrSessionNotFound
	}
	if !s.now().Before(sess.ExpiresAt) {
		_ = s.Close(sess.ID)
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// Close forgets the session. Closing an unknown id reports ErrSessionNotFound.
func (s *SessionStore) Close(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len reports the number of registered sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// pruneLocked drops expired sessions; mu must be held for writing.
func (s *SessionStore) pruneLocked(now time.Time) {
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}
