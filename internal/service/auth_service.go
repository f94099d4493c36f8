package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"fintrack/internal/models"
	"fintrack/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles user auth logic
type AuthService struct {
	creds    repository.CredentialRepo
	sessions *SessionStore
	now      clock
}

func NewAuthService(creds repository.CredentialRepo, sessions *SessionStore) *AuthService {
	return &AuthService{creds: creds, sessions: sessions, now: systemClock}
}

// SignUp stores a new credential and signs the user in.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (Session, string, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return Session{}, "", err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return Session{}, "", err
	}

	err = s.creds.Create(ctx, models.Credential{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return Session{}, "", storeErr("sign up", err)
	}
	return s.sessions.Open(username)
}

// SignIn verifies the password and opens a session.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (Session, string, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return Session{}, "", err
	}
	if password == "" {
		return Session{}, "", ErrEmptyPassword
	}

	c, err := s.creds.Get(ctx, username)
	if err != nil {
		return Session{}, "", storeErr("sign in", err)
	}
	if c == nil {
		return Session{}, "", ErrUserNotFound
	}
	if err := verifyPassword(c, password); err != nil {
		return Session{}, "", ErrWrongPassword
	}
	return s.sessions.Open(username)
}

// Logout ends the session; its token stops resolving immediately.
func (s *AuthService) Logout(sessionID string) error {
	return s.sessions.Close(sessionID)
}

// ParseToken resolves a bearer token to its live session.
func (s *AuthService) ParseToken(accessToken string) (Session, error) {
	return s.sessions.Resolve(accessToken)
}

// normalizeUsername trims and checks a username; it becomes part of store keys.
func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", ErrEmptyUsername
	}
	if strings.Contains(username, "/") {
		return "", ErrInvalidUsername
	}
	return username, nil
}

// bcryptMaxInput is the longest input bcrypt accepts.
const bcryptMaxInput = 72

// bcryptInput passes short passwords through and reduces longer ones to the
// base64 SHA-256 digest, so any length can be hashed.
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// verifyPassword checks bcrypt hashes and, for credentials carried over from
// the old store, the unsalted hex SHA-256 of password+username.
func verifyPassword(c *models.Credential, password string) error {
	if isBcrypt(c.PasswordHash) {
		return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), bcryptInput(password))
	}
	want := legacyDigest(password, c.Username)
	if subtle.ConstantTimeCompare([]byte(strings.ToLower(c.PasswordHash)), []byte(want)) != 1 {
		return errLegacyMismatch
	}
	return nil
}

var errLegacyMismatch = errors.New("legacy digest mismatch")

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2")
}

func legacyDigest(password, username string) string {
	sum := sha256.Sum256([]byte(password + username))
	return hex.EncodeToString(sum[:])
}
