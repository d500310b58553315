package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Maryann878/LinguAfrika-sub000/internal/accounts"
	iauth "github.com/Maryann878/LinguAfrika-sub000/internal/auth"
	"github.com/Maryann878/LinguAfrika-sub000/internal/models"
	"github.com/Maryann878/LinguAfrika-sub000/pkg/crypto"
	apperrors "github.com/Maryann878/LinguAfrika-sub000/pkg/errors"
	"github.com/Maryann878/LinguAfrika-sub000/pkg/logger"
	"github.com/Maryann878/LinguAfrika-sub000/pkg/mail"
	"github.com/Maryann878/LinguAfrika-sub000/pkg/metrics"
)

const (
	defaultOTPExpiry        = 10 * time.Minute
	defaultResetTokenExpiry = 60 * time.Minute
	defaultResetTokenBytes  = 32
	defaultDispatchTimeout  = 15 * time.Second
)

// AuthOption customises the AuthService.
type AuthOption func(*AuthService)

// WithClock injects a custom time source.
func WithClock(clock func() time.Time) AuthOption {
	return func(s *AuthService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithOTPExpiry overrides the lifetime of verification and reset codes.
func WithOTPExpiry(d time.Duration) AuthOption {
	return func(s *AuthService) {
		if d > 0 {
			s.otpExpiry = d
		}
	}
}

// WithResetTokenExpiry overrides the reset token lifetime.
func WithResetTokenExpiry(d time.Duration) AuthOption {
	return func(s *AuthService) {
		if d > 0 {
			s.resetTokenExpiry = d
		}
	}
}

// WithDispatchWait makes fire-and-forget email dispatch synchronous. Used in
// tests to observe delivery without sleeping.
func WithDispatchWait() AuthOption {
	return func(s *AuthService) {
		s.waitDispatch = true
	}
}

// AuthService orchestrates signup, email verification, login, and the
// three-stage password recovery flow. It owns all account state transitions;
// the HTTP boundary only binds, validates, and maps errors.
type AuthService struct {
	store  *accounts.Store
	jwt    *iauth.JWTService
	mailer mail.Mailer
	log    *zap.Logger

	otpExpiry        time.Duration
	resetTokenExpiry time.Duration
	resetTokenBytes  int
	dispatchTimeout  time.Duration
	waitDispatch     bool
	now              func() time.Time
}

// NewAuthService constructs an AuthService with the provided dependencies.
// The mailer may be nil, in which case no emails are dispatched.
func NewAuthService(store *accounts.Store, jwt *iauth.JWTService, mailer mail.Mailer, opts ...AuthOption) (*AuthService, error) {
	if store == nil {
		return nil, errors.New("auth service: account store is required")
	}
	if jwt == nil {
		return nil, errors.New("auth service: jwt service is required")
	}

	service := &AuthService{
		store:            store,
		jwt:              jwt,
		mailer:           mailer,
		log:              logger.WithModule("auth"),
		otpExpiry:        defaultOTPExpiry,
		resetTokenExpiry: defaultResetTokenExpiry,
		resetTokenBytes:  defaultResetTokenBytes,
		dispatchTimeout:  defaultDispatchTimeout,
		now:              time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// SignupInput describes the fields accepted when registering an account.
type SignupInput struct {
	Username string
	Email    string
	Mobile   string
	Password string
}

// SignupResult is returned after a successful registration.
type SignupResult struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// Signup registers a new unverified account and dispatches a verification
// code email. Delivery is fire-and-forget: failures are logged, never
// surfaced to the caller.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*SignupResult, error) {
	username := strings.TrimSpace(input.Username)
	email := accounts.NormalizeEmail(input.Email)
	if username == "" {
		return nil, apperrors.NewBadRequest("username is required")
	}
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required")
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, apperrors.NewBadRequest("password is required")
	}

	if err := s.checkAvailability(ctx, username, email); err != nil {
		return nil, err
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash password: %w", err)
	}

	code, err := crypto.NumericCode(crypto.DefaultCodeLength)
	if err != nil {
		return nil, fmt.Errorf("auth service: generate verification code: %w", err)
	}
	expiresAt := s.now().Add(s.otpExpiry)

	account := &models.Account{
		Username:                  username,
		Email:                     email,
		Mobile:                    strings.TrimSpace(input.Mobile),
		Password:                  hashed,
		Role:                      models.RoleStudent,
		VerificationCode:          &code,
		VerificationCodeExpiresAt: &expiresAt,
	}

	if err := s.store.Insert(ctx, account); err != nil {
		if errors.Is(err, accounts.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("auth service: create account: %w", err)
	}

	s.dispatchAsync("verification", email, verificationSubject, verificationBody(username, code))

	return &SignupResult{AccountID: account.ID, Email: account.Email}, nil
}

// VerifyEmail confirms ownership of the signup email address. The stored
// code and its expiry are cleared atomically on success; the transition to
// verified is terminal.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.IsVerified {
		return ErrAlreadyVerified
	}

	if account.VerificationCode == nil || *account.VerificationCode != code {
		return ErrCodeInvalid
	}
	if !secretLive(s.now(), account.VerificationCodeExpiresAt) {
		return ErrCodeExpired
	}

	ok, err := s.store.MarkVerified(ctx, account.ID, code)
	if err != nil {
		return fmt.Errorf("auth service: verify email: %w", err)
	}
	if !ok {
		// A concurrent request replaced or consumed the code first.
		return ErrCodeInvalid
	}

	return nil
}

// ResendVerificationCode regenerates the verification secret and emails it.
// Unlike signup, delivery is awaited and a failure is surfaced to the caller.
func (s *AuthService) ResendVerificationCode(ctx context.Context, email string) error {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.IsVerified {
		return ErrAlreadyVerified
	}

	code, err := crypto.NumericCode(crypto.DefaultCodeLength)
	if err != nil {
		return fmt.Errorf("auth service: generate verification code: %w", err)
	}

	ok, err := s.store.SetVerificationCode(ctx, account.ID, code, s.now().Add(s.otpExpiry))
	if err != nil {
		return fmt.Errorf("auth service: store verification code: %w", err)
	}
	if !ok {
		// A concurrent request verified the account after our read.
		return ErrAlreadyVerified
	}

	if err := s.send(ctx, "verification", account.Email, verificationSubject, verificationBody(account.Username, code)); err != nil {
		return apperrors.ErrInternalServer.WithInternal(err)
	}

	return nil
}

// LoginResult bundles the session token with the sanitized account view.
type LoginResult struct {
	Token           string                `json:"token"`
	Account         models.AccountProfile `json:"account"`
	ProfileComplete bool                  `json:"profile_complete"`
}

// Login authenticates by email or username. An unknown identifier and a
// wrong password return the identical error so callers cannot probe for
// account existence.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	account, err := s.store.FindByEmailOrUsername(ctx, identifier)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth service: login lookup: %w", err)
	}

	if !crypto.VerifyPassword(account.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateSessionToken(iauth.SessionTokenInput{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      account.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("auth service: issue session token: %w", err)
	}

	return &LoginResult{
		Token:           token,
		Account:         account.Profile(),
		ProfileComplete: account.ProfileComplete,
	}, nil
}

// ForgotPassword starts the recovery flow by storing a reset OTP and
// emailing it. Unknown emails succeed silently so the endpoint cannot be
// used to enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.issueResetOTP(ctx, email)
}

// ResendPasswordResetOTP regenerates the reset OTP, restarting its expiry
// window. Shares the anti-enumeration behaviour of ForgotPassword.
func (s *AuthService) ResendPasswordResetOTP(ctx context.Context, email string) error {
	return s.issueResetOTP(ctx, email)
}

func (s *AuthService) issueResetOTP(ctx context.Context, email string) error {
	account, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			// Generic success: no account created, no secret stored.
			return nil
		}
		return fmt.Errorf("auth service: reset lookup: %w", err)
	}

	code, err := crypto.NumericCode(crypto.DefaultCodeLength)
	if err != nil {
		return fmt.Errorf("auth service: generate reset otp: %w", err)
	}

	if err := s.store.SetResetOTP(ctx, account.ID, code, s.now().Add(s.otpExpiry)); err != nil {
		return fmt.Errorf("auth service: store reset otp: %w", err)
	}

	s.dispatchAsync("password_reset", account.Email, resetSubject, resetBody(account.Username, code))

	return nil
}

// VerifyPasswordResetOTP exchanges a live reset OTP for a one-time reset
// token, clearing the OTP in the same statement. The token is returned to
// the caller directly, not emailed.
func (s *AuthService) VerifyPasswordResetOTP(ctx context.Context, email, code string) (string, error) {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if account.ResetOTP == nil || *account.ResetOTP != code {
		return "", ErrCodeInvalid
	}
	if !secretLive(s.now(), account.ResetOTPExpiresAt) {
		return "", ErrCodeExpired
	}

	token, err := crypto.GenerateToken(s.resetTokenBytes)
	if err != nil {
		return "", fmt.Errorf("auth service: generate reset token: %w", err)
	}

	ok, err := s.store.ConsumeResetOTP(ctx, account.ID, code, token, s.now().Add(s.resetTokenExpiry))
	if err != nil {
		return "", fmt.Errorf("auth service: consume reset otp: %w", err)
	}
	if !ok {
		return "", ErrCodeInvalid
	}

	return token, nil
}

// ResetPassword finishes the recovery flow. The reset token is consumed on
// first use; a second presentation of the same token fails.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return ErrResetTokenInvalid
	}

	hashed, err := crypto.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth service: hash password: %w", err)
	}

	ok, err := s.store.CompletePasswordReset(ctx, token, hashed, s.now())
	if err != nil {
		return fmt.Errorf("auth service: reset password: %w", err)
	}
	if !ok {
		return ErrResetTokenInvalid
	}

	return nil
}

// CurrentAccount returns the sanitized account for an authenticated caller.
// Token parsing happens in the middleware, not here.
func (s *AuthService) CurrentAccount(ctx context.Context, accountID string) (*models.AccountProfile, error) {
	account, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("auth service: current account: %w", err)
	}

	profile := account.Profile()
	return &profile, nil
}

func (s *AuthService) checkAvailability(ctx context.Context, username, email string) error {
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return ErrDuplicateAccount
	} else if !errors.Is(err, accounts.ErrNotFound) {
		return fmt.Errorf("auth service: email lookup: %w", err)
	}

	if _, err := s.store.FindByEmailOrUsername(ctx, username); err == nil {
		return ErrDuplicateAccount
	} else if !errors.Is(err, accounts.ErrNotFound) {
		return fmt.Errorf("auth service: username lookup: %w", err)
	}

	return nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("auth service: email lookup: %w", err)
	}
	return account, nil
}

// secretLive reports whether a stored secret is still usable. A nil expiry
// counts as absent and the exact expiry instant counts as expired.
func secretLive(now time.Time, expiresAt *time.Time) bool {
	return expiresAt != nil && now.Before(*expiresAt)
}

// send delivers an email synchronously. A disabled mailer is not an error.
func (s *AuthService) send(ctx context.Context, kind, to, subject, body string) error {
	if s.mailer == nil {
		return nil
	}

	err := s.mailer.Send(ctx, mail.Message{To: []string{to}, Subject: subject, Body: body})
	if errors.Is(err, mail.ErrSMTPDisabled) {
		// Nothing was delivered; not a failure and not a success either.
		return nil
	}
	if err != nil {
		metrics.EmailDispatches.WithLabelValues(kind, "failure").Inc()
		return err
	}

	metrics.EmailDispatches.WithLabelValues(kind, "success").Inc()
	return nil
}

// dispatchAsync delivers an email in the background. The caller has already
// been answered by the time delivery settles, so failures are logged only.
func (s *AuthService) dispatchAsync(kind, to, subject, body string) {
	if s.mailer == nil {
		return
	}

	deliver := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
		defer cancel()

		if err := s.send(ctx, kind, to, subject, body); err != nil {
			s.log.Warn("email dispatch failed",
				zap.String("kind", kind),
				zap.Error(err),
			)
		}
	}

	if s.waitDispatch {
		deliver()
		return
	}
	go deliver()
}

const (
	verificationSubject = "Verify your LinguAfrika email"
	resetSubject        = "Your LinguAfrika password reset code"
)

func verificationBody(username, code string) string {
	return fmt.Sprintf("<p>Hi %s,</p><p>Your LinguAfrika verification code is <strong>%s</strong>. It expires in 10 minutes.</p>", username, code)
}

func resetBody(username, code string) string {
	return fmt.Sprintf("<p>Hi %s,</p><p>Your password reset code is <strong>%s</strong>. It expires in 10 minutes. If you did not request a reset, you can ignore this message.</p>", username, code)
}
