package token

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// purpose discriminates the token variants so a token minted for one flow
// can never be accepted by another.
const (
	purposeClaim = "purpose"

	purposeSession     = "session"
	purposeVerifyEmail = "verify_email"
	purposeReset       = "password_reset"
)

// Claim keys shared by all variants are handled by PASETO itself (iat/exp);
// subject keys are variant-specific.
const (
	claimUserID        = "user_id"
	claimName          = "name"
	claimEmail         = "email"
	claimIsAdmin       = "is_admin"
	claimVerifyUserID  = "verify_user_id"
	claimResetUserID   = "reset_user_id"
	claimSubjectUserID = "subject_user_id"
)

// SessionClaims is the payload of a session token issued at signin.
type SessionClaims struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// EmailVerificationClaims is the payload of an email verification token.
// Presenting it only flips the verified flag.
type EmailVerificationClaims struct {
	UserID    string    `json:"verify_user_id"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// ResetKind distinguishes the two password reset token variants.
type ResetKind int

const (
	// ResetByEmail tokens are mailed out by the forgot-password flow and do
	// not require current-password proof.
	ResetByEmail ResetKind = iota
	// ResetBySelf tokens are minted for an authenticated user and require
	// current-password proof before the change is allowed.
	ResetBySelf
)

// ResetClaims is the payload of a password reset token. Exactly one subject
// field is present on the wire; Kind records which one.
type ResetClaims struct {
	Kind      ResetKind
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec signs and verifies compact, expiring, tamper-evident claim bundles.
// Uses PASETO v4.local (symmetric encryption with XChaCha20-Poly1305).
// Stateless and safe for concurrent use.
type Codec struct {
	symmetricKey paseto.V4SymmetricKey
}

// NewCodec creates a codec from the process-wide signing secret.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) != 32 {
		return nil, fmt.Errorf("signing secret must be exactly 32 bytes, got %d", len(secret))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &Codec{symmetricKey: key}, nil
}

func (c *Codec) newToken(purpose string, ttl time.Duration) paseto.Token {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(ttl))
	token.SetString(purposeClaim, purpose)

	return token
}

// parse decrypts and validates a token and checks its purpose tag.
// Returns ErrTokenExpired or ErrInvalidToken; callers must collapse both
// into a single client-visible outcome.
func (c *Codec) parse(tokenStr, purpose string) (*paseto.Token, error) {
	parser := paseto.NewParser()

	token, err := parser.ParseV4Local(c.symmetricKey, tokenStr, nil)
	if err != nil {
		// The parser checks expiration by default; distinguish expired from
		// invalid for server-side logging only.
		if errors.Is(err, &paseto.RuleError{}) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	got, err := token.GetString(purposeClaim)
	if err != nil || got != purpose {
		return nil, ErrInvalidToken
	}

	return token, nil
}

func tokenTimes(token *paseto.Token) (issuedAt, expiresAt time.Time, err error) {
	issuedAt, err = token.GetIssuedAt()
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidToken
	}
	expiresAt, err = token.GetExpiration()
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidToken
	}
	return issuedAt, expiresAt, nil
}

// SignSession creates a session token with the given claims and lifetime.
func (c *Codec) SignSession(claims SessionClaims, ttl time.Duration) (string, error) {
	token := c.newToken(purposeSession, ttl)
	token.SetString(claimUserID, claims.UserID)
	token.SetString(claimName, claims.Name)
	token.SetString(claimEmail, claims.Email)
	if err := token.Set(claimIsAdmin, claims.IsAdmin); err != nil {
		return "", fmt.Errorf("failed to set claim: %w", err)
	}

	return token.V4Encrypt(c.symmetricKey, nil), nil
}

// VerifySession validates a session token and returns its claims.
func (c *Codec) VerifySession(tokenStr string) (*SessionClaims, error) {
	token, err := c.parse(tokenStr, purposeSession)
	if err != nil {
		return nil, err
	}

	userID, err := token.GetString(claimUserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	name, err := token.GetString(claimName)
	if err != nil {
		return nil, ErrInvalidToken
	}
	email, err := token.GetString(claimEmail)
	if err != nil {
		return nil, ErrInvalidToken
	}
	var isAdmin bool
	if err := token.Get(claimIsAdmin, &isAdmin); err != nil {
		return nil, ErrInvalidToken
	}

	issuedAt, expiresAt, err := tokenTimes(token)
	if err != nil {
		return nil, err
	}

	return &SessionClaims{
		UserID:    userID,
		Name:      name,
		Email:     email,
		IsAdmin:   isAdmin,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// SignEmailVerification creates an email verification token for a user.
func (c *Codec) SignEmailVerification(userID string, ttl time.Duration) (string, error) {
	token := c.newToken(purposeVerifyEmail, ttl)
	token.SetString(claimVerifyUserID, userID)

	return token.V4Encrypt(c.symmetricKey, nil), nil
}

// VerifyEmailVerification validates an email verification token.
func (c *Codec) VerifyEmailVerification(tokenStr string) (*EmailVerificationClaims, error) {
	token, err := c.parse(tokenStr, purposeVerifyEmail)
	if err != nil {
		return nil, err
	}

	userID, err := token.GetString(claimVerifyUserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	issuedAt, expiresAt, err := tokenTimes(token)
	if err != nil {
		return nil, err
	}

	return &EmailVerificationClaims{
		UserID:    userID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// SignPasswordReset creates a password reset token of the given kind.
// The wire form carries exactly one subject field.
func (c *Codec) SignPasswordReset(kind ResetKind, userID string, ttl time.Duration) (string, error) {
	token := c.newToken(purposeReset, ttl)

	switch kind {
	case ResetByEmail:
		token.SetString(claimResetUserID, userID)
	case ResetBySelf:
		token.SetString(claimSubjectUserID, userID)
	default:
		return "", fmt.Errorf("unknown reset kind %d", kind)
	}

	return token.V4Encrypt(c.symmetricKey, nil), nil
}

// VerifyPasswordReset validates a password reset token and discriminates its
// variant. Tokens carrying zero or both subject fields are rejected.
func (c *Codec) VerifyPasswordReset(tokenStr string) (*ResetClaims, error) {
	token, err := c.parse(tokenStr, purposeReset)
	if err != nil {
		return nil, err
	}

	resetUserID, resetErr := token.GetString(claimResetUserID)
	subjectUserID, subjectErr := token.GetString(claimSubjectUserID)

	// Exactly one subject field must be present.
	if (resetErr == nil) == (subjectErr == nil) {
		return nil, ErrInvalidToken
	}

	issuedAt, expiresAt, err := tokenTimes(token)
	if err != nil {
		return nil, err
	}

	claims := &ResetClaims{
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}
	if resetErr == nil {
		claims.Kind = ResetByEmail
		claims.UserID = resetUserID
	} else {
		claims.Kind = ResetBySelf
		claims.UserID = subjectUserID
	}

	return claims, nil
}
