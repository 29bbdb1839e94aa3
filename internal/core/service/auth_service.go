package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
)

// DefaultSessionTTL is how long a login stays valid.
const DefaultSessionTTL = 7 * 24 * time.Hour

// LoginThrottle limits repeated failed logins per account.
type LoginThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// AuthService implements login, session resolution, logout and password
// changes on top of server-side sessions.
//
// The bearer credential is an HS256 token whose jti is the session id. It has
// no exp claim: the session record decides expiry, so logout and password
// changes revoke immediately.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	hasher   PasswordHasher
	throttle LoginThrottle
	secret   []byte
	ttl      time.Duration
	log      zerolog.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService wires the service. throttle may be nil.
func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionRepository,
	hasher PasswordHasher,
	throttle LoginThrottle,
	secret string,
	ttl time.Duration,
	log zerolog.Logger,
) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		throttle: throttle,
		secret:   []byte(secret),
		ttl:      ttl,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.Validationf("email and password are required")
	}

	key := throttleKey(email, in.IP)

	user, err := s.users.FindCredentialsByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		// Spend the same hashing time as a real comparison.
		s.hasher.Verify(in.Password, s.placeholderHash())
		return nil, s.rejectLogin(ctx, key)
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	// A correct password always gets a credential, whatever the window holds.
	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, s.rejectLogin(ctx, key)
	}
	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, key); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	sess, token, err := s.issue(ctx, user.ID, in.UserAgent, in.IP)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")
	return &ports.LoginResult{Token: token, ExpiresAt: sess.ExpiresAt, User: user}, nil
}

func (s *AuthService) Register(ctx context.Context, in ports.NewUserInput) (*domain.User, error) {
	return createUser(ctx, s.users, s.hasher, in, s.now())
}

func (s *AuthService) Authenticate(ctx context.Context, credential string) (*domain.Principal, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, domain.ErrNoToken
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(credential, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || claims.ID == "" {
		return nil, domain.ErrInvalidToken
	}

	sess, err := s.sessions.FindByID(ctx, claims.ID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		s.log.Error().Err(err).Msg("session lookup failed")
		return nil, domain.ErrInvalidSession
	}
	if sess.UserID != claims.Subject {
		return nil, domain.ErrInvalidToken
	}

	if sess.ExpiredAt(s.now()) {
		if err := s.sessions.Delete(ctx, sess.ID); err != nil {
			s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to delete expired session")
		}
		return nil, domain.ErrSessionExpired
	}

	user, err := s.users.FindByID(ctx, sess.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrSessionUserMissing
	}
	if err != nil {
		s.log.Error().Err(err).Msg("session user lookup failed")
		return nil, domain.ErrInvalidSession
	}

	return &domain.Principal{User: user, SessionID: sess.ID}, nil
}

func (s *AuthService) Logout(ctx context.Context, p *domain.Principal) error {
	if p == nil || p.SessionID == "" {
		return domain.ErrAuthRequired
	}
	if err := s.sessions.Delete(ctx, p.SessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// ChangePassword verifies the current password, stores a new hash and
// revokes every other session of the user.
func (s *AuthService) ChangePassword(ctx context.Context, p *domain.Principal, current, next string) error {
	if p == nil {
		return domain.ErrAuthRequired
	}
	if current == "" || next == "" {
		return domain.Validationf("currentPassword and newPassword are required")
	}
	if err := checkPasswordLength("new password", next); err != nil {
		return err
	}

	user, err := s.users.FindCredentialsByID(ctx, p.UserID())
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if !s.hasher.Verify(current, user.PasswordHash) {
		return domain.ErrWrongPassword
	}
	if current == next {
		return domain.ErrSamePassword
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("change password: hash: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	if n, err := s.sessions.DeleteByUserID(ctx, user.ID, p.SessionID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to revoke other sessions")
	} else if n > 0 {
		s.log.Info().Str("user_id", user.ID).Int64("revoked", n).Msg("other sessions revoked after password change")
	}
	return nil
}

func (s *AuthService) issue(ctx context.Context, userID, userAgent, ip string) (*domain.Session, string, error) {
	now := s.now()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	claims := jwt.RegisteredClaims{
		ID:       sess.ID,
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}
	return sess, token, nil
}

// rejectLogin records a failed attempt for key and picks the error to
// return: ErrLoginThrottled once the window is exhausted.
func (s *AuthService) rejectLogin(ctx context.Context, key string) error {
	if s.throttle == nil {
		return domain.ErrInvalidCredentials
	}
	allowed, err := s.throttle.Allow(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle unavailable, continuing")
		return domain.ErrInvalidCredentials
	}
	if !allowed {
		return domain.ErrLoginThrottled
	}
	if err := s.throttle.Fail(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
	return domain.ErrInvalidCredentials
}

// throttleKey scopes failed-login windows to one account from one client
// address, so guesses from elsewhere cannot lock the owner out.
func throttleKey(email, ip string) string {
	return email + "|" + ip
}

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(uuid.NewString())
	})
	return s.dummyHash
}
