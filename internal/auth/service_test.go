package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/quangdng/go-shop-api/internal/config"
	"github.com/quangdng/go-shop-api/internal/logging"
	"github.com/quangdng/go-shop-api/internal/user"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*user.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return user.ErrDuplicateEmail
		}
		if existing.Phone == u.Phone {
			return user.ErrDuplicatePhone
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	stored := *u
	s.users[u.ID] = &stored
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.NormalizeEmail(email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *fakeUserStore) UpdateRememberDigest(ctx context.Context, id uuid.UUID, digest *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.RememberDigest = digest
	return nil
}

func (s *fakeUserStore) MarkActivated(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Activated = true
	u.ActivatedAt = &at
	return nil
}

func (s *fakeUserStore) UpdateResetDigest(ctx context.Context, id uuid.UUID, digest *string, sentAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.ResetDigest = digest
	u.ResetSentAt = sentAt
	return nil
}

func (s *fakeUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordDigest = digest
	return nil
}

type sentEmail struct {
	To    string
	Token string
}

type fakeEmailSender struct {
	mu          sync.Mutex
	activations []sentEmail
	resets      []sentEmail
}

func (f *fakeEmailSender) SendActivationEmail(ctx context.Context, toEmail, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activations = append(f.activations, sentEmail{To: toEmail, Token: token})
	return nil
}

func (f *fakeEmailSender) SendPasswordResetEmail(ctx context.Context, toEmail, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, sentEmail{To: toEmail, Token: token})
	return nil
}

func (f *fakeEmailSender) activationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.activations)
}

func (f *fakeEmailSender) resetCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.resets)
}

type fakeTokenService struct{}

func (fakeTokenService) CreateToken(userID uuid.UUID, email string, admin bool, duration time.Duration) (string, error) {
	return "access-token-" + email, nil
}

func (fakeTokenService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	return nil, ErrInvalidToken
}

func newTestService(t *testing.T) (*Service, *fakeUserStore, *fakeEmailSender) {
	t.Helper()

	store := newFakeUserStore()
	sender := &fakeEmailSender{}

	svc := NewService(
		store,
		sender,
		fakeTokenService{},
		logging.NewLogger(true),
		config.ValidationConfig{
			MaxNameLength:     50,
			MaxAddressLength:  100,
			PhoneLength:       10,
			MaxEmailLength:    255,
			MinPasswordLength: 6,
		},
		config.AuthConfig{
			AccessTokenDuration: 15 * time.Minute,
			RememberDuration:    30 * 24 * time.Hour,
			ResetExpiry:         2 * time.Hour,
			BcryptCost:          bcrypt.MinCost,
		},
	)
	return svc, store, sender
}

func validSignupInput() user.Input {
	return user.Input{
		Name:                 "Alice Example",
		Address:              "12 Example Street",
		Phone:                "0123456789",
		Email:                "alice@example.com",
		Password:             "password1",
		PasswordConfirmation: "password1",
	}
}

// seedActivatedUser inserts an activated user with a known password.
func seedActivatedUser(t *testing.T, store *fakeUserStore, email, password string) *user.User {
	t.Helper()

	digest, err := user.Digest(password, bcrypt.MinCost)
	require.NoError(t, err)

	u := &user.User{
		Name:           "Seeded User",
		Address:        "1 Seed Street",
		Phone:          "0987654321",
		Email:          user.NormalizeEmail(email),
		PasswordDigest: digest,
		Activated:      true,
	}
	require.NoError(t, store.Create(context.Background(), u))
	return u
}

func TestSignup(t *testing.T) {
	svc, _, sender := newTestService(t)

	in := validSignupInput()
	in.Email = "Alice@Example.COM"

	created, err := svc.Signup(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", created.Email)
	assert.False(t, created.Activated)
	assert.NotEmpty(t, created.ActivationToken)
	assert.True(t, created.Authenticated(user.DigestActivation, created.ActivationToken))
	assert.True(t, user.Verify(created.PasswordDigest, in.Password))

	require.Eventually(t, func() bool {
		return sender.activationCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSignupRejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestService(t)

	in := validSignupInput()
	in.Name = ""

	_, err := svc.Signup(context.Background(), in)

	var fieldErrs user.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "name", fieldErrs[0].Field)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedActivatedUser(t, store, "alice@example.com", "password1")

	_, err := svc.Signup(context.Background(), validSignupInput())

	var fieldErrs user.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "email", fieldErrs[0].Field)
	assert.Equal(t, "has already been taken", fieldErrs[0].Message)
}

func TestLogin(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedActivatedUser(t, store, "alice@example.com", "password1")

	session, err := svc.Login(context.Background(), "alice@example.com", "password1", false)
	require.NoError(t, err)

	assert.NotEmpty(t, session.AccessToken)
	assert.Empty(t, session.RememberToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), session.ExpiresIn)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, store, _ := newTestService(t)
	seedActivatedUser(t, store, "alice@example.com", "password1")

	_, err := svc.Login(context.Background(), "alice@example.com", "wrong", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "password1", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnactivatedAccount(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Signup(context.Background(), validSignupInput())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "password1", false)
	assert.ErrorIs(t, err, ErrNotActivated)
}

func TestLoginWithRemember(t *testing.T) {
	svc, store, _ := newTestService(t)
	seeded := seedActivatedUser(t, store, "alice@example.com", "password1")

	session, err := svc.Login(context.Background(), "alice@example.com", "password1", true)
	require.NoError(t, err)
	require.NotEmpty(t, session.RememberToken)

	stored, err := store.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.True(t, stored.Authenticated(user.DigestRemember, session.RememberToken))
}

func TestRememberAndForget(t *testing.T) {
	svc, store, _ := newTestService(t)
	seeded := seedActivatedUser(t, store, "alice@example.com", "password1")

	token, err := svc.Remember(context.Background(), seeded)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	stored, err := store.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.True(t, stored.Authenticated(user.DigestRemember, token))

	require.NoError(t, svc.Forget(context.Background(), seeded))

	stored, err = store.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.False(t, stored.Authenticated(user.DigestRemember, token))
}

func TestActivate(t *testing.T) {
	svc, store, _ := newTestService(t)

	created, err := svc.Signup(context.Background(), validSignupInput())
	require.NoError(t, err)

	activatedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return activatedAt }

	activated, err := svc.Activate(context.Background(), created.Email, created.ActivationToken)
	require.NoError(t, err)
	assert.True(t, activated.Activated)
	require.NotNil(t, activated.ActivatedAt)
	assert.Equal(t, activatedAt, *activated.ActivatedAt)

	stored, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, stored.Activated)
}

func TestActivateWrongToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Signup(context.Background(), validSignupInput())
	require.NoError(t, err)

	_, err = svc.Activate(context.Background(), created.Email, "not-the-token")
	assert.ErrorIs(t, err, ErrInvalidActivation)
}

func TestActivateIsOneWay(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Signup(context.Background(), validSignupInput())
	require.NoError(t, err)

	_, err = svc.Activate(context.Background(), created.Email, created.ActivationToken)
	require.NoError(t, err)

	// the same token no longer activates an already active account
	_, err = svc.Activate(context.Background(), created.Email, created.ActivationToken)
	assert.ErrorIs(t, err, ErrInvalidActivation)
}

func TestActivateUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Activate(context.Background(), "nobody@example.com", "token")
	assert.ErrorIs(t, err, ErrInvalidActivation)
}

func TestIssuePasswordResetAndExpiry(t *testing.T) {
	svc, store, _ := newTestService(t)
	seeded := seedActivatedUser(t, store, "alice@example.com", "password1")

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.IssuePasswordReset(context.Background(), seeded)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, seeded.Authenticated(user.DigestReset, token))

	expired, err := svc.IsResetExpired(seeded)
	require.NoError(t, err)
	assert.False(t, expired)

	// just inside the window
	svc.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	expired, err = svc.IsResetExpired(seeded)
	require.NoError(t, err)
	assert.False(t, expired)

	// past the window
	svc.now = func() time.Time { return issuedAt.Add(2*time.Hour + time.Minute) }
	expired, err = svc.IsResetExpired(seeded)
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestIsResetExpiredWithoutIssuance(t *testing.T) {
	svc, store, _ := newTestService(t)
	seeded := seedActivatedUser(t, store, "alice@example.com", "password1")

	_, err := svc.IsResetExpired(seeded)
	assert.ErrorIs(t, err, ErrResetNotIssued)
}

func TestIssuePasswordResetInvalidatesPreviousToken(t *testing.T) {
	svc, store, _ := newTestService(t)
	seeded := seedActivatedUser(t, store, "alice@example.com", "password1")

	first, err := svc.IssuePasswordReset(context.Background(), seeded)
	require.NoError(t, err)
	second, err := svc.IssuePasswordReset(context.Background(), seeded)
	require.NoError(t, err)

	stored, err := store.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.False(t, stored.Authenticated(user.DigestReset, first))
	assert.True(t, stored.Authenticated(user.DigestReset, second))
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	svc, _, sender := newTestService(t)

	// enumeration-safe: no error for unknown accounts
	err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, sender.resetCount())
}

func TestRequestPasswordResetSendsEmail(t *testing.T) {
	svc, store, sender := newTestService(t)
	seedActivatedUser(t, store, "alice@example.com", "password1")

	err := svc.RequestPasswordReset(context.Background(), "alice@example.com")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return sender.resetCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestResetPassword(t *testing.T) {
	svc, store, _ := newTestService(t)
	seeded := seedActivatedUser(t, store, "alice@example.com", "password1")

	// a lingering remember session should not survive a password reset
	rememberToken, err := svc.Remember(context.Background(), seeded)
	require.NoError(t, err)

	token, err := svc.IssuePasswordReset(context.Background(), seeded)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), "alice@example.com", token, "newpassword", "newpassword")
	require.NoError(t, err)

	stored, err := store.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.True(t, user.Verify(stored.PasswordDigest, "newpassword"))
	assert.False(t, user.Verify(stored.PasswordDigest, "password1"))
	assert.False(t, stored.Authenticated(user.DigestRemember, rememberToken))

	// the token is consumed
	err = svc.ResetPassword(context.Background(), "alice@example.com", token, "anotherpass", "anotherpass")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, store, _ := newTestService(t)
	seeded := seedActivatedUser(t, store, "alice@example.com", "password1")

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.IssuePasswordReset(context.Background(), seeded)
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(3 * time.Hour) }

	err = svc.ResetPassword(context.Background(), "alice@example.com", token, "newpassword", "newpassword")
	assert.ErrorIs(t, err, ErrResetTokenExpired)
}

func TestResetPasswordWrongToken(t *testing.T) {
	svc, store, _ := newTestService(t)
	seeded := seedActivatedUser(t, store, "alice@example.com", "password1")

	_, err := svc.IssuePasswordReset(context.Background(), seeded)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), "alice@example.com", "not-the-token", "newpassword", "newpassword")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPasswordValidation(t *testing.T) {
	svc, store, _ := newTestService(t)
	seeded := seedActivatedUser(t, store, "alice@example.com", "password1")

	token, err := svc.IssuePasswordReset(context.Background(), seeded)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), "alice@example.com", token, "short", "short")

	var fieldErrs user.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "password", fieldErrs[0].Field)
}

func TestResetPasswordCountsCharactersNotBytes(t *testing.T) {
	svc, store, _ := newTestService(t)
	seeded := seedActivatedUser(t, store, "alice@example.com", "password1")

	token, err := svc.IssuePasswordReset(context.Background(), seeded)
	require.NoError(t, err)

	// 3 characters, 9 bytes: short of the 6-character minimum
	err = svc.ResetPassword(context.Background(), "alice@example.com", token, "密密密", "密密密")

	var fieldErrs user.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "password", fieldErrs[0].Field)

	err = svc.ResetPassword(context.Background(), "alice@example.com", token, "密密密密密密", "密密密密密密")
	require.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	svc, store, _ := newTestService(t)
	seeded := seedActivatedUser(t, store, "alice@example.com", "password1")

	err := svc.ChangePassword(context.Background(), seeded, "newpassword", "newpassword")
	require.NoError(t, err)

	stored, err := store.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.True(t, user.Verify(stored.PasswordDigest, "newpassword"))
}

func TestChangePasswordMismatch(t *testing.T) {
	svc, store, _ := newTestService(t)
	seeded := seedActivatedUser(t, store, "alice@example.com", "password1")

	err := svc.ChangePassword(context.Background(), seeded, "newpassword", "different")

	var fieldErrs user.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "password_confirmation", fieldErrs[0].Field)
}
