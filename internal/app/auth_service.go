// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Alexeya-png/fitness-tracker-git/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// SessionLifetime is how long a login stays valid.
const SessionLifetime = 24 * time.Hour

const minPasswordLength = 6

var (
	// ErrInvalidCredentials indicates that the provided email or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists indicates that the email is already registered.
	ErrUserExists = errors.New("user already exists")
)

// AuthService handles registration, authentication and session management.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	profiles domain.ProfileRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, profiles domain.ProfileRepository) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		profiles: profiles,
	}
}

// Register creates a user with a password login and an empty profile.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	existing, err := s.users.GetByUsername(ctx, email)
	if err != nil {
		return nil, storeError("get user", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, email, string(hash))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.createProfile(ctx, user.ID, name, email); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and creates a session.
func (s *AuthService) Login(ctx context.Context, email, password, userAgent, ip string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByUsername(ctx, email)
	if err != nil || user == nil || user.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.newSession(ctx, user.ID, userAgent, ip)
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks if a session token is valid and matches the user agent.
func (s *AuthService) ValidateSession(ctx context.Context, token, userAgent string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	if session.UserAgent != userAgent {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil || user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// ValidateForwardAuth resolves the user named by a trusted Remote-User
// header, provisioning it on first sight.
func (s *AuthService) ValidateForwardAuth(ctx context.Context, remoteUser string) (*domain.User, error) {
	if remoteUser == "" {
		return nil, errors.New("no remote user header")
	}
	return s.provision(ctx, strings.ToLower(remoteUser))
}

// LoginWithUser creates a session for an already authenticated user (e.g. via SSO).
func (s *AuthService) LoginWithUser(ctx context.Context, email, userAgent, ip string) (string, error) {
	user, err := s.provision(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	return s.newSession(ctx, user.ID, userAgent, ip)
}

// PurgeExpiredSessions removes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx)
}

func (s *AuthService) provision(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, email)
	if err == nil && user != nil {
		return user, nil
	}

	// SSO users have no password hash.
	user, err = s.users.Create(ctx, email, "")
	if err != nil {
		// Lost a race with a concurrent provision.
		user, err = s.users.GetByUsername(ctx, email)
		if err != nil || user == nil {
			return nil, fmt.Errorf("provision user %s: %w", email, ErrUserNotFound)
		}
		return user, nil
	}

	name, _, _ := strings.Cut(email, "@")
	if err := s.createProfile(ctx, user.ID, name, email); err != nil {
		log.Printf("provision user %s: %v", email, err)
	}
	return user, nil
}

func (s *AuthService) createProfile(ctx context.Context, userID int64, name, email string) error {
	if s.profiles == nil {
		return nil
	}
	streak, last := 0, ""
	u := domain.ProfileUpdate{Name: &name, Email: &email, Streak: &streak, LastDate: &last}
	if err := s.profiles.PutProfile(ctx, userID, u); err != nil {
		return storeError("create profile", err)
	}
	return nil
}

func (s *AuthService) newSession(ctx context.Context, userID int64, userAgent, ip string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(SessionLifetime)
	if err := s.sessions.Create(ctx, userID, token, userAgent, ip, expiresAt); err != nil {
		return "", err
	}

	return token, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
