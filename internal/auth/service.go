package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trailglobe/trailglobe/internal/logging"
	"github.com/trailglobe/trailglobe/internal/password"
	"github.com/trailglobe/trailglobe/internal/token"
	"github.com/trailglobe/trailglobe/internal/user"
)

var (
	// ErrInvalidCredentials covers both "no such account" and "wrong
	// password" so responses never reveal whether an email exists.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	// ErrInvalidToken covers forged, expired, malformed and
	// mismatched-subject tokens uniformly; server-side logs carry the
	// distinction.
	ErrInvalidToken = errors.New("invalid token")
)

// WeakPasswordError reports every policy rule a candidate password failed.
type WeakPasswordError struct {
	Violations []error
}

func (e *WeakPasswordError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// Service orchestrates the authentication and recovery flows.
type Service struct {
	store      UserStore
	mailer     MailNotifier
	codec      *token.Codec
	logger     *logging.Logger
	sessionTTL time.Duration
	verifyTTL  time.Duration
	resetTTL   time.Duration
}

func NewService(
	store UserStore,
	mailer MailNotifier,
	codec *token.Codec,
	logger *logging.Logger,
	sessionTTL time.Duration,
	verifyTTL time.Duration,
	resetTTL time.Duration,
) *Service {
	return &Service{
		store:      store,
		mailer:     mailer,
		codec:      codec,
		logger:     logger,
		sessionTTL: sessionTTL,
		verifyTTL:  verifyTTL,
		resetTTL:   resetTTL,
	}
}

// Signup creates an unverified account and dispatches a verification email.
// No session token is issued; the user must verify first.
func (s *Service) Signup(ctx context.Context, name, email, pw string) (*user.User, error) {
	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil, user.ErrDuplicateEmail
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	if violations := password.Validate(pw); len(violations) > 0 {
		return nil, &WeakPasswordError{Violations: violations}
	}

	hash, err := password.Hash(pw)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.store.Create(ctx, &user.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		// A concurrent signup for the same email resolves here via the
		// store's uniqueness guarantee.
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.dispatchVerification(newUser)

	return newUser, nil
}

// Signin authenticates a user and returns a session token plus the public
// user projection. Unverified accounts get a fresh verification email and
// ErrEmailNotVerified instead of a token.
func (s *Service) Signin(ctx context.Context, email, pw string) (string, *user.User, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up email: %w", err)
	}

	if !password.Verify(u.PasswordHash, pw) {
		return "", nil, ErrInvalidCredentials
	}

	if !u.Verified {
		s.dispatchVerification(u)
		return "", nil, ErrEmailNotVerified
	}

	sessionToken, err := s.codec.SignSession(token.SessionClaims{
		UserID:  u.ID.String(),
		Name:    u.Name,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	}, s.sessionTTL)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return sessionToken, u, nil
}

// VerifyEmail flips the verified flag of the token's subject. The supplied
// email must match the subject's stored email; every failure mode collapses
// into ErrInvalidToken. Re-verifying an already verified account is harmless.
func (s *Service) VerifyEmail(ctx context.Context, tokenStr, email string) error {
	claims, err := s.codec.VerifyEmailVerification(tokenStr)
	if err != nil {
		s.logger.Warn("email verification token rejected", "error", err)
		return ErrInvalidToken
	}

	u, err := s.lookupSubject(ctx, claims.UserID)
	if err != nil {
		return err
	}

	if u.Email != email {
		s.logger.Warn("email verification subject mismatch", "email", email)
		return ErrInvalidToken
	}

	if u.Verified {
		return nil
	}

	u.Verified = true
	if err := s.store.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// ForgotPassword issues a short-lived reset token and mails it if the account
// exists. It always succeeds so response shape never reveals whether an
// account exists for the email.
func (s *Service) ForgotPassword(ctx context.Context, email string) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			s.logger.Warn("failed to look up email for password reset", "error", err)
		}
		return
	}

	resetToken, err := s.codec.SignPasswordReset(token.ResetByEmail, u.ID.String(), s.resetTTL)
	if err != nil {
		s.logger.Error("failed to sign password reset token", "error", err)
		return
	}

	s.mailer.SendReset(u, resetToken)
}

// IssueSelfResetToken mints a reset token for an authenticated user. Unlike
// mailed reset tokens, consuming it requires current-password proof.
func (s *Service) IssueSelfResetToken(userID string) (string, error) {
	resetToken, err := s.codec.SignPasswordReset(token.ResetBySelf, userID, s.resetTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign password reset token: %w", err)
	}

	return resetToken, nil
}

// ResetPassword changes the subject's password. Mailed tokens need no
// current-password proof; self-issued tokens do.
func (s *Service) ResetPassword(ctx context.Context, tokenStr, currentPassword, newPassword string) error {
	claims, err := s.codec.VerifyPasswordReset(tokenStr)
	if err != nil {
		s.logger.Warn("password reset token rejected", "error", err)
		return ErrInvalidToken
	}

	u, err := s.lookupSubject(ctx, claims.UserID)
	if err != nil {
		return err
	}

	if claims.Kind == token.ResetBySelf {
		if !password.Verify(u.PasswordHash, currentPassword) {
			return ErrInvalidCredentials
		}
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u.PasswordHash = hash
	if err := s.store.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// Profile returns the account for a session principal.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.store.GetByID(ctx, userID)
}

// lookupSubject resolves a token subject to an account. Unknown or malformed
// subjects are reported as ErrInvalidToken so callers stay uniform.
func (s *Service) lookupSubject(ctx context.Context, userID string) (*user.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		s.logger.Warn("token subject is not a valid id", "error", err)
		return nil, ErrInvalidToken
	}

	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.logger.Warn("token subject not found", "user_id", userID)
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up token subject: %w", err)
	}

	return u, nil
}

// dispatchVerification signs a fresh verification token and hands it to the
// mail collaborator. Fire-and-forget: failures are logged, never surfaced.
func (s *Service) dispatchVerification(u *user.User) {
	verifyToken, err := s.codec.SignEmailVerification(u.ID.String(), s.verifyTTL)
	if err != nil {
		s.logger.Error("failed to sign verification token", "email", u.Email, "error", err)
		return
	}

	s.mailer.SendVerification(u, verifyToken)
}
