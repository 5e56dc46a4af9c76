package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/handler/dto"
	"github.com/stockroom/stockroom/internal/repository"
	"github.com/stockroom/stockroom/internal/service"
	"github.com/stockroom/stockroom/internal/session"
)

// AuthHandler handles registration and session lifecycle requests.
type AuthHandler struct {
	svc    *service.Service
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.RegisterInput{
		CompanyName:     req.CompanyName,
		Phone:           req.Phone,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
	}

	user, err := h.svc.Register(r.Context(), input)
	if err != nil {
		h.handleRegisterError(w, err)
		return
	}

	h.logger.Info("tenant_registered",
		"user_id", user.ID,
		"tenant_id", user.TenantID,
	)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	sess, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidCredentials):
			// Same response whether the email exists or not.
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		case errors.Is(err, session.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Session store unavailable, retry shortly")
		default:
			h.logger.Error("internal_error", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
	})
}

// Logout handles POST /api/v1/auth/logout.
// Runs behind the auth middleware, so the token in context is the one that
// authorized this request.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromContext(r.Context())

	if err := h.svc.Logout(r.Context(), token); err != nil {
		if errors.Is(err, session.ErrStoreUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Session store unavailable, retry shortly")
			return
		}
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleRegisterError maps registration errors to HTTP responses.
// A RegistrationError that failed at the user step reports the orphaned
// tenant so the caller can retry just that step.
func (h *AuthHandler) handleRegisterError(w http.ResponseWriter, err error) {
	var regErr *service.RegistrationError
	if errors.As(err, &regErr) {
		status, code, message := registrationCause(regErr)
		writeJSON(w, status, dto.ErrorResponse{
			Error:      message,
			Code:       code,
			FailedStep: regErr.Step,
			TenantID:   regErr.TenantID,
		})
		return
	}

	if errors.Is(err, service.ErrValidation) {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	h.logger.Error("internal_error", "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}

func registrationCause(regErr *service.RegistrationError) (int, string, string) {
	switch {
	case errors.Is(regErr.Err, service.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "Email already registered"
	case errors.Is(regErr.Err, service.ErrUnknownTenant):
		return http.StatusUnprocessableEntity, "UNKNOWN_TENANT", "Tenant does not exist"
	case errors.Is(regErr.Err, repository.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Record store unavailable, retry shortly"
	default:
		return http.StatusInternalServerError, "REGISTRATION_FAILED", "Registration failed"
	}
}
