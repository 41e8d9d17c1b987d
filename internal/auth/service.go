package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/quangdng/go-shop-api/internal/config"
	"github.com/quangdng/go-shop-api/internal/logging"
	"github.com/quangdng/go-shop-api/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotActivated       = errors.New("account not activated, please check your inbox")
	ErrInvalidActivation  = errors.New("invalid activation link")
	ErrInvalidResetToken  = errors.New("invalid password reset token")
	ErrResetTokenExpired  = errors.New("password reset token has expired")
	// ErrResetNotIssued is returned when the expiry of a reset is checked for
	// a user who was never issued one. Callers must treat the token as
	// unusable rather than assume a default.
	ErrResetNotIssued = errors.New("no password reset was issued")
)

// Service owns the credential and token lifecycle: password hashing and
// verification, the remember/activation/reset digest flows, and the reset
// expiry policy. Durability and uniqueness belong to the UserStore; email
// delivery belongs to the EmailSender.
type Service struct {
	users               UserStore
	emailSender         EmailSender
	tokenService        TokenService
	logger              *logging.Logger
	validation          config.ValidationConfig
	bcryptCost          int
	resetExpiry         time.Duration
	accessTokenDuration time.Duration

	now func() time.Time
}

func NewService(
	users UserStore,
	emailSender EmailSender,
	tokenService TokenService,
	logger *logging.Logger,
	validation config.ValidationConfig,
	authCfg config.AuthConfig,
) *Service {
	return &Service{
		users:               users,
		emailSender:         emailSender,
		tokenService:        tokenService,
		logger:              logger,
		validation:          validation,
		bcryptCost:          authCfg.BcryptCost,
		resetExpiry:         authCfg.ResetExpiry,
		accessTokenDuration: authCfg.AccessTokenDuration,
		now:                 time.Now,
	}
}

// Session is the result of a successful login.
type Session struct {
	User          *user.User
	AccessToken   string
	ExpiresIn     int64
	RememberToken string // set only when remember-me was requested
}

// Signup validates the input, creates an unactivated account and sends the
// activation email. The activation digest is assigned here, exactly once; it
// is never regenerated for the lifetime of the account.
func (s *Service) Signup(ctx context.Context, in user.Input) (*user.User, error) {
	if errs := in.Validate(s.validation, true); len(errs) > 0 {
		return nil, errs
	}

	passwordDigest, err := user.Digest(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	activationToken, err := user.NewToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate activation token: %w", err)
	}
	activationDigest, err := user.Digest(activationToken, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash activation token: %w", err)
	}

	newUser := &user.User{
		Name:             in.Name,
		Address:          in.Address,
		Phone:            in.Phone,
		Email:            user.NormalizeEmail(in.Email),
		PasswordDigest:   passwordDigest,
		ActivationDigest: activationDigest,
		ActivationToken:  activationToken,
	}

	if err := s.users.Create(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.FieldErrors{{Field: "email", Message: "has already been taken"}}
		}
		if errors.Is(err, user.ErrDuplicatePhone) {
			return nil, user.FieldErrors{{Field: "phone", Message: "has already been taken"}}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Send activation email in a goroutine (non-blocking)
	go func() {
		emailCtx := context.Background()
		if err := s.emailSender.SendActivationEmail(emailCtx, newUser.Email, activationToken); err != nil {
			s.logger.Warn("failed to send activation email", "email", newUser.Email, "error", err)
		}
	}()

	return newUser, nil
}

// Login authenticates a user and starts a session. When remember is set, a
// remember token is issued so the session can outlive the access token.
func (s *Service) Login(ctx context.Context, email, password string, remember bool) (*Session, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.Verify(existing.PasswordDigest, password) {
		return nil, ErrInvalidCredentials
	}

	if !existing.Activated {
		return nil, ErrNotActivated
	}

	accessToken, err := s.tokenService.CreateToken(existing.ID, existing.Email, existing.Admin, s.accessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	session := &Session{
		User:        existing,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.accessTokenDuration.Seconds()),
	}

	if remember {
		rememberToken, err := s.Remember(ctx, existing)
		if err != nil {
			return nil, fmt.Errorf("failed to remember user: %w", err)
		}
		session.RememberToken = rememberToken
	}

	return session, nil
}

// Remember issues a fresh remember token, persists its digest and hands the
// plaintext back for the caller to store client-side.
func (s *Service) Remember(ctx context.Context, u *user.User) (string, error) {
	token, err := user.NewToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate remember token: %w", err)
	}

	digest, err := user.Digest(token, s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash remember token: %w", err)
	}

	if err := s.users.UpdateRememberDigest(ctx, u.ID, &digest); err != nil {
		return "", fmt.Errorf("failed to store remember digest: %w", err)
	}

	u.RememberToken = token
	u.RememberDigest = &digest
	return token, nil
}

// Forget clears the persisted remember digest. Calling it when no digest is
// present is a no-op.
func (s *Service) Forget(ctx context.Context, u *user.User) error {
	if err := s.users.UpdateRememberDigest(ctx, u.ID, nil); err != nil {
		return fmt.Errorf("failed to clear remember digest: %w", err)
	}

	u.RememberDigest = nil
	u.RememberToken = ""
	return nil
}

// Activate confirms an account from an emailed activation link. The
// transition is one-way; an already activated account rejects its own token.
func (s *Service) Activate(ctx context.Context, email, token string) (*user.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidActivation
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if existing.Activated || !existing.Authenticated(user.DigestActivation, token) {
		return nil, ErrInvalidActivation
	}

	now := s.now()
	if err := s.users.MarkActivated(ctx, existing.ID, now); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}

	existing.Activated = true
	existing.ActivatedAt = &now
	return existing, nil
}

// RequestPasswordReset issues a reset token and emails it. A new issuance
// overwrites the previous digest and timestamp, so older tokens stop
// verifying. Always returns nil to prevent email enumeration.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		s.logger.Warn("failed to get user for password reset", "error", err)
		return nil
	}

	token, err := s.IssuePasswordReset(ctx, existing)
	if err != nil {
		s.logger.Warn("failed to issue password reset", "error", err)
		return nil
	}

	go func() {
		emailCtx := context.Background()
		if err := s.emailSender.SendPasswordResetEmail(emailCtx, existing.Email, token); err != nil {
			s.logger.Warn("failed to send password reset email", "email", existing.Email, "error", err)
		}
	}()

	return nil
}

// IssuePasswordReset generates a reset token, persists its digest and stamps
// the issuance time that the expiry window is measured from.
func (s *Service) IssuePasswordReset(ctx context.Context, u *user.User) (string, error) {
	token, err := user.NewToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	digest, err := user.Digest(token, s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash reset token: %w", err)
	}

	sentAt := s.now()
	if err := s.users.UpdateResetDigest(ctx, u.ID, &digest, &sentAt); err != nil {
		return "", fmt.Errorf("failed to store reset digest: %w", err)
	}

	u.ResetToken = token
	u.ResetDigest = &digest
	u.ResetSentAt = &sentAt
	return token, nil
}

// IsResetExpired reports whether the most recently issued reset token has
// aged past the configured window. Checking a user who was never issued a
// reset is a caller error and returns ErrResetNotIssued.
func (s *Service) IsResetExpired(u *user.User) (bool, error) {
	if u.ResetSentAt == nil {
		return false, ErrResetNotIssued
	}
	return s.now().Sub(*u.ResetSentAt) > s.resetExpiry, nil
}

// ResetPassword consumes a reset token: verifies it against the stored
// digest, enforces the expiry window, replaces the password and clears both
// the reset and remember digests.
func (s *Service) ResetPassword(ctx context.Context, email, token, newPassword, confirmation string) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !existing.Authenticated(user.DigestReset, token) {
		return ErrInvalidResetToken
	}

	expired, err := s.IsResetExpired(existing)
	if err != nil {
		return ErrInvalidResetToken
	}
	if expired {
		return ErrResetTokenExpired
	}

	if errs := s.validateNewPassword(newPassword, confirmation); len(errs) > 0 {
		return errs
	}

	digest, err := user.Digest(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, existing.ID, digest); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Consume the token and drop any persistent session for security.
	if err := s.users.UpdateResetDigest(ctx, existing.ID, nil, nil); err != nil {
		s.logger.Warn("failed to clear reset digest", "error", err)
	}
	if err := s.users.UpdateRememberDigest(ctx, existing.ID, nil); err != nil {
		s.logger.Warn("failed to clear remember digest after reset", "error", err)
	}

	return nil
}

// ChangePassword hashes and stores a new password for an authenticated user.
func (s *Service) ChangePassword(ctx context.Context, u *user.User, newPassword, confirmation string) error {
	if errs := s.validateNewPassword(newPassword, confirmation); len(errs) > 0 {
		return errs
	}

	digest, err := user.Digest(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, u.ID, digest); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	u.PasswordDigest = digest
	return nil
}

func (s *Service) validateNewPassword(password, confirmation string) user.FieldErrors {
	var errs user.FieldErrors
	if password == "" {
		errs = append(errs, user.FieldError{Field: "password", Message: "is required"})
		return errs
	}
	if utf8.RuneCountInString(password) < s.validation.MinPasswordLength {
		errs = append(errs, user.FieldError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", s.validation.MinPasswordLength),
		})
	}
	if password != confirmation {
		errs = append(errs, user.FieldError{Field: "password_confirmation", Message: "does not match password"})
	}
	return errs
}
