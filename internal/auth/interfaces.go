package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/trailglobe/trailglobe/internal/token"
	"github.com/trailglobe/trailglobe/internal/user"
)

// UserStore is the external keyed-record collaborator holding account state.
// Implemented by user.Repository; tests use an in-memory fake.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	Create(ctx context.Context, u *user.User) (*user.User, error)
	Update(ctx context.Context, u *user.User) error
}

// MailNotifier is the outbound mail collaborator. Both calls are
// fire-and-forget: the core never observes delivery.
type MailNotifier interface {
	SendVerification(u *user.User, token string)
	SendReset(u *user.User, token string)
}

// SessionVerifier validates bearer session tokens for the middleware.
// Implemented by token.Codec.
type SessionVerifier interface {
	VerifySession(tokenStr string) (*token.SessionClaims, error)
}

// RateLimiter guards the unauthenticated endpoints. Implemented by
// ratelimit.Limiter.
type RateLimiter interface {
	CheckIPRateLimit(ctx context.Context, ip string) (bool, error)
	RecordIPRequest(ctx context.Context, ip string) error
	CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error)
	RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error
	CheckEmailCooldown(ctx context.Context, email string) (bool, error)
	SetEmailCooldown(ctx context.Context, email string) error
}
