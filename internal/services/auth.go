package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cloudlocker/file-vault/internal/models"
	"github.com/cloudlocker/file-vault/internal/storage"
)

const minPasswordLength = 6

// AuthService handles registration, login and the session lifecycle.
type AuthService struct {
	users    storage.UserStore
	sessions storage.SessionStore
	ttl      time.Duration
}

func NewAuthService(users storage.UserStore, sessions storage.SessionStore, ttl time.Duration) *AuthService {
	return &AuthService{users: users, sessions: sessions, ttl: ttl}
}

// Register validates the form and creates the user. All validation problems
// are reported together, the way the registration form shows them.
func (s *AuthService) Register(ctx context.Context, username, password, password2 string) (*models.User, error) {
	var messages []string

	if username == "" || password == "" || password2 == "" {
		messages = append(messages, "Please fill in all fields")
	}
	if password != password2 {
		messages = append(messages, "Passwords do not match")
	}
	if len(password) < minPasswordLength {
		messages = append(messages, "Password should be at least 6 characters")
	}
	if len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	if _, exists, err := s.users.GetUserByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("lookup user %q: %w", username, err)
	} else if exists {
		return nil, validationError("Username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// Concurrent registration can slip past the lookup above.
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, validationError("Username is already taken")
		}
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	return user, nil
}

// Login verifies the password and issues a session token. Unknown usernames
// and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	user, exists, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user %q: %w", username, err)
	}
	if !exists || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, validationError("Invalid username or password")
	}

	session := &models.Session{
		Token:     newSessionToken(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session for user %s: %w", user.ID, err)
	}
	return session, nil
}

// Logout drops the session; unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// Resolve maps a session token to its user. Expired and unknown tokens
// resolve to not-ok.
func (s *AuthService) Resolve(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}
	session, exists, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return "", false, err
	}
	if !exists {
		return "", false, nil
	}
	return session.UserID, true, nil
}

// TTL returns the configured session lifetime (the cookie Max-Age).
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

// SweepExpiredSessions deletes expired session rows every interval until the
// context is cancelled.
func (s *AuthService) SweepExpiredSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.sessions.DeleteExpiredSessions(ctx)
			if err != nil {
				log.Printf("Error sweeping expired sessions: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Swept %d expired sessions", n)
			}
		}
	}
}

func newSessionToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is unusable.
		panic(err)
	}
	return hex.EncodeToString(buf)
}
