package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/ports"
)

const testSecret = "test-secret"

type authFixture struct {
	svc      *AuthService
	users    *stubUserRepo
	sessions *stubSessionRepo
	throttle *stubThrottle
	clock    time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:    newStubUserRepo(),
		sessions: newStubSessionRepo(),
		throttle: newStubThrottle(),
		clock:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewAuthService(f.users, f.sessions, plainHasher{}, f.throttle, testSecret, time.Hour, zerolog.Nop())
	f.svc.now = func() time.Time { return f.clock }
	f.users.seed(&domain.User{
		ID:           "u1",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed:correct-horse",
		Role:         domain.RoleAdmin,
	})
	return f
}

func (f *authFixture) login(t *testing.T) *ports.LoginResult {
	t.Helper()
	res, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "alice@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return res
}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t)

	res, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "  Alice@Example.com ", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected a token")
	}
	if res.User.PasswordHash != "" {
		t.Fatalf("password hash leaked in login result")
	}
	if !res.ExpiresAt.Equal(f.clock.Add(time.Hour)) {
		t.Fatalf("expected expiry %v, got %v", f.clock.Add(time.Hour), res.ExpiresAt)
	}
	if f.throttle.resets != 1 {
		t.Fatalf("expected throttle reset after success")
	}

	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (any, error) { return []byte(testSecret), nil }); err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Subject != "u1" {
		t.Fatalf("expected subject u1, got %q", claims.Subject)
	}
	if !f.sessions.has(claims.ID) {
		t.Fatalf("session %q not stored", claims.ID)
	}
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	f := newAuthFixture(t)

	_, errWrong := f.svc.Login(context.Background(), ports.LoginInput{Email: "alice@example.com", Password: "nope"})
	_, errUnknown := f.svc.Login(context.Background(), ports.LoginInput{Email: "bob@example.com", Password: "nope"})

	if !errors.Is(errWrong, domain.ErrInvalidCredentials) || !errors.Is(errUnknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", errWrong, errUnknown)
	}
	if errWrong.Error() != errUnknown.Error() {
		t.Fatalf("messages differ: %q vs %q", errWrong, errUnknown)
	}
	if f.throttle.failures[throttleKey("alice@example.com", "")] != 1 || f.throttle.failures[throttleKey("bob@example.com", "")] != 1 {
		t.Fatalf("failures not recorded: %v", f.throttle.failures)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "alice@example.com"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogin_Throttled(t *testing.T) {
	f := newAuthFixture(t)
	f.throttle.blocked[throttleKey("alice@example.com", "203.0.113.9")] = true

	_, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "alice@example.com", Password: "guess", IP: "203.0.113.9"})
	if !errors.Is(err, domain.ErrLoginThrottled) {
		t.Fatalf("expected ErrLoginThrottled, got %v", err)
	}
	if len(f.throttle.failures) != 0 {
		t.Fatalf("refused attempts must not extend the window: %v", f.throttle.failures)
	}
}

func TestLogin_CorrectPasswordIgnoresThrottle(t *testing.T) {
	tests := []struct {
		name string
		ip   string
	}{
		{"other address", "198.51.100.7"},
		{"blocked address", "203.0.113.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			blockedKey := throttleKey("alice@example.com", "203.0.113.9")
			f.throttle.blocked[blockedKey] = true
			f.throttle.failures[blockedKey] = 5

			res, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "alice@example.com", Password: "correct-horse", IP: tt.ip})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Token == "" {
				t.Fatalf("expected a token")
			}
			if f.throttle.resets != 1 {
				t.Fatalf("expected throttle reset after success")
			}
		})
	}
}

func TestAuthenticate_ResolvesPrincipal(t *testing.T) {
	f := newAuthFixture(t)
	res := f.login(t)

	p, err := f.svc.Authenticate(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.UserID() != "u1" || p.Role() != domain.RoleAdmin {
		t.Fatalf("unexpected principal: %+v", p.User)
	}
	if p.User.PasswordHash != "" {
		t.Fatalf("principal carries a password hash")
	}
}

func TestAuthenticate_SessionExpiryBoundary(t *testing.T) {
	f := newAuthFixture(t)
	res := f.login(t)

	f.clock = f.clock.Add(time.Hour - time.Second)
	if _, err := f.svc.Authenticate(context.Background(), res.Token); err != nil {
		t.Fatalf("expected session to be valid just before expiry, got %v", err)
	}

	f.clock = f.clock.Add(time.Second)
	_, err := f.svc.Authenticate(context.Background(), res.Token)
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired at expiry, got %v", err)
	}

	// The expired session is purged, so the next attempt no longer finds it.
	_, err = f.svc.Authenticate(context.Background(), res.Token)
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after purge, got %v", err)
	}
}

func TestAuthenticate_RejectsBadCredentials(t *testing.T) {
	f := newAuthFixture(t)
	res := f.login(t)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ID: "x", Subject: "u1"}).SignedString([]byte("other"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", domain.ErrNoToken},
		{"garbage", "not-a-token", domain.ErrInvalidToken},
		{"wrong secret", forged, domain.ErrInvalidToken},
		{"truncated", res.Token[:len(res.Token)-2], domain.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Authenticate(context.Background(), tt.token)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthenticate_UserRemovedAfterLogin(t *testing.T) {
	f := newAuthFixture(t)
	res := f.login(t)

	if err := f.users.Delete(context.Background(), "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err := f.svc.Authenticate(context.Background(), res.Token)
	if !errors.Is(err, domain.ErrSessionUserMissing) {
		t.Fatalf("expected ErrSessionUserMissing, got %v", err)
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	f := newAuthFixture(t)
	res := f.login(t)

	p, err := f.svc.Authenticate(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := f.svc.Logout(context.Background(), p); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.svc.Authenticate(context.Background(), res.Token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after logout, got %v", err)
	}
}

func TestChangePassword_RevokesOtherSessions(t *testing.T) {
	f := newAuthFixture(t)
	first := f.login(t)
	second := f.login(t)

	p, err := f.svc.Authenticate(context.Background(), first.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := f.svc.ChangePassword(context.Background(), p, "correct-horse", "battery-staple"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := f.svc.Authenticate(context.Background(), first.Token); err != nil {
		t.Fatalf("current session should survive, got %v", err)
	}
	if _, err := f.svc.Authenticate(context.Background(), second.Token); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("other session should be revoked, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "alice@example.com", Password: "battery-staple"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestChangePassword_Rejections(t *testing.T) {
	f := newAuthFixture(t)
	p := principal("u1", domain.RoleAdmin)

	tests := []struct {
		name          string
		current, next string
		want          error
	}{
		{"wrong current", "nope-nope", "battery-staple", domain.ErrWrongPassword},
		{"same password", "correct-horse", "correct-horse", domain.ErrSamePassword},
		{"too short", "correct-horse", "short", domain.ErrValidation},
		{"over 72 bytes", "correct-horse", strings.Repeat("a", 73), domain.ErrValidation},
		{"missing", "", "battery-staple", domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.ChangePassword(context.Background(), p, tt.current, tt.next)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	f := newAuthFixture(t)

	u, err := f.svc.Register(context.Background(), ports.NewUserInput{
		Name:     "Bob",
		Email:    "Bob@Example.com",
		Password: "long-enough",
		Role:     domain.RoleEditor,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "bob@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	stored, err := f.users.FindCredentialsByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.PasswordHash != "hashed:long-enough" {
		t.Fatalf("password stored as %q", stored.PasswordHash)
	}

	_, err = f.svc.Register(context.Background(), ports.NewUserInput{Name: "Bob", Email: "bob@example.com", Password: "long-enough"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)
	hash, err := h.Hash("correct-horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !h.Verify("correct-horse", hash) {
		t.Fatalf("expected verify to succeed")
	}
	if h.Verify("wrong", hash) || h.Verify("correct-horse", "") {
		t.Fatalf("expected verify to fail")
	}
	if NewBcryptHasher(99).cost != DefaultPasswordCost {
		t.Fatalf("out of range cost not defaulted")
	}
}
