package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/trailglobe/trailglobe/internal/httputil"
	"github.com/trailglobe/trailglobe/internal/logging"
	"github.com/trailglobe/trailglobe/internal/user"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service     *Service
	rateLimiter RateLimiter
	logger      *logging.Logger
}

func NewHandler(service *Service, rateLimiter RateLimiter, logger *logging.Logger) *Handler {
	return &Handler{
		service:     service,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninRequest represents the signin request body
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyEmailRequest represents the email verification request
type VerifyEmailRequest struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// ForgotPasswordRequest represents the password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents the password reset confirmation.
// CurrentPassword is only consulted for self-issued reset tokens.
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword"`
}

// UserResponse is the public user projection
type UserResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"isAdmin"`
}

// SigninResponse represents a successful signin
type SigninResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ResetTokenResponse carries a freshly minted self-reset token
type ResetTokenResponse struct {
	Token string `json:"token"`
}

// ProfileResponse represents the profile endpoint body
type ProfileResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Signup handles account creation
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	// Rate limit by IP
	ip := getClientIP(r)
	exceeded, err := h.rateLimiter.CheckIPRateLimitWithPurpose(r.Context(), ip, "signup")
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
	} else if exceeded {
		logger.Warn("IP rate limit exceeded for signup", "ip", ip)
		httputil.RespondMessage(w, "Too many requests, please try again later", http.StatusTooManyRequests)
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid signup request body", "error", err.Error())
		httputil.RespondMessage(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, "signup"); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	newUser, err := h.service.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			logger.Warn("signup failed: email already exists")
			httputil.RespondMessage(w, "User already exists", http.StatusBadRequest)
			return
		}
		var weak *WeakPasswordError
		if errors.As(err, &weak) {
			logger.Warn("signup failed: weak password", "violations", weak.Error())
			httputil.RespondMessage(w, weak.Error(), http.StatusBadRequest)
			return
		}
		logger.Error("signup failed: internal error", "error", err.Error())
		httputil.RespondMessage(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	logger.Info("user signed up", "user_id", newUser.ID)

	httputil.RespondMessage(w, "User created successfully", http.StatusOK)
}

// Signin handles user login
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	// Rate limit by IP
	ip := getClientIP(r)
	exceeded, err := h.rateLimiter.CheckIPRateLimitWithPurpose(r.Context(), ip, "signin")
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
	} else if exceeded {
		logger.Warn("IP rate limit exceeded for signin", "ip", ip)
		httputil.RespondMessage(w, "Too many requests, please try again later", http.StatusTooManyRequests)
		return
	}

	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid signin request body", "error", err.Error())
		httputil.RespondMessage(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	if err := h.rateLimiter.RecordIPRequestWithPurpose(r.Context(), ip, "signin"); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}

	sessionToken, u, err := h.service.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			// Same response whether the account is missing or the password
			// was wrong.
			logger.Warn("signin failed: invalid credentials")
			httputil.RespondMessage(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		if errors.Is(err, ErrEmailNotVerified) {
			logger.Warn("signin failed: email not verified")
			httputil.RespondMessage(w, "Email not verified", http.StatusUnauthorized)
			return
		}
		logger.Error("signin failed: internal error", "error", err.Error())
		httputil.RespondMessage(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	logger.Info("user signed in", "user_id", u.ID)

	httputil.RespondJSON(w, SigninResponse{
		Token: sessionToken,
		User: UserResponse{
			ID:      u.ID,
			Name:    u.Name,
			Email:   u.Email,
			IsAdmin: u.IsAdmin,
		},
	}, http.StatusOK)
}

// VerifyEmail handles email verification. Failures respond 200 with a
// generic message; the reason stays in the server log.
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid verify email request body", "error", err.Error())
		httputil.RespondMessage(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	if err := h.service.VerifyEmail(r.Context(), req.Token, req.Email); err != nil {
		if errors.Is(err, ErrInvalidToken) {
			logger.Warn("email verification failed: invalid token")
			httputil.RespondMessage(w, "Invalid token", http.StatusOK)
			return
		}
		logger.Error("email verification failed: internal error", "error", err.Error())
		httputil.RespondMessage(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	logger.Info("email verified")

	httputil.RespondMessage(w, "Email verified", http.StatusOK)
}

// Profile returns the authenticated user's profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	principal, ok := GetPrincipalFromContext(r.Context())
	if !ok {
		httputil.RespondMessage(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	u, err := h.service.Profile(r.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			logger.Warn("profile lookup failed: user not found", "user_id", principal.UserID)
			httputil.RespondMessage(w, "User not found", http.StatusNotFound)
			return
		}
		logger.Error("profile lookup failed: internal error", "error", err.Error())
		httputil.RespondMessage(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, ProfileResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}, http.StatusOK)
}

// ForgotPassword handles password reset requests. The acknowledgement is
// identical whether or not an account exists for the email.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid forgot password request body", "error", err.Error())
		httputil.RespondMessage(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Get client IP for rate limiting
	ip := getClientIP(r)

	exceeded, err := h.rateLimiter.CheckIPRateLimit(r.Context(), ip)
	if err != nil {
		logger.Error("failed to check IP rate limit", "error", err.Error())
		// Continue despite error to avoid blocking legitimate requests
	} else if exceeded {
		logger.Warn("IP rate limit exceeded", "ip", ip)
		httputil.RespondMessage(w, "Too many requests, please try again later", http.StatusTooManyRequests)
		return
	}

	onCooldown, err := h.rateLimiter.CheckEmailCooldown(r.Context(), req.Email)
	if err != nil {
		logger.Error("failed to check email cooldown", "error", err.Error())
		// Continue despite error
	} else if onCooldown {
		logger.Warn("email on cooldown", "email", req.Email)
		httputil.RespondMessage(w, "Please wait before requesting another reset", http.StatusTooManyRequests)
		return
	}

	if err := h.rateLimiter.RecordIPRequest(r.Context(), ip); err != nil {
		logger.Error("failed to record IP request", "error", err.Error())
	}
	if err := h.rateLimiter.SetEmailCooldown(r.Context(), req.Email); err != nil {
		logger.Error("failed to set email cooldown", "error", err.Error())
	}

	h.service.ForgotPassword(r.Context(), req.Email)

	httputil.RespondMessage(w, "If the email exists, you will receive an email", http.StatusOK)
}

// ResetPassword handles password reset with either token variant
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid reset password request body", "error", err.Error())
		httputil.RespondMessage(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.service.ResetPassword(r.Context(), req.Token, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			logger.Warn("password reset failed: invalid token")
			httputil.RespondMessage(w, "Invalid token", http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("password reset failed: current password mismatch")
			httputil.RespondMessage(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		logger.Error("password reset failed: internal error", "error", err.Error())
		httputil.RespondMessage(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	logger.Info("password reset")

	httputil.RespondMessage(w, "Password reset successfully", http.StatusOK)
}

// IssueResetToken mints a self-reset token for the authenticated user.
// Consuming it at reset-password requires current-password proof.
func (h *Handler) IssueResetToken(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	principal, ok := GetPrincipalFromContext(r.Context())
	if !ok {
		httputil.RespondMessage(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	resetToken, err := h.service.IssueSelfResetToken(principal.UserID.String())
	if err != nil {
		logger.Error("failed to issue reset token", "error", err.Error())
		httputil.RespondMessage(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	logger.Info("self reset token issued", "user_id", principal.UserID)

	httputil.RespondJSON(w, ResetTokenResponse{Token: resetToken}, http.StatusOK)
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (behind proxy/load balancer)
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fallback to RemoteAddr
	ip := r.RemoteAddr
	// RemoteAddr format is "IP:port", extract just the IP
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
