package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/model"
	"github.com/stockroom/stockroom/internal/repository"
)

// Registration steps, reported by RegistrationError.
const (
	StepTenant = "tenant"
	StepUser   = "user"
)

const minPasswordLength = 8

// RegistrationError reports which step of the two-step registration failed.
// Step StepTenant means nothing was persisted. Step StepUser means the
// tenant in TenantID exists without an owner; there is no compensating
// rollback, so callers may retry just the user step against that tenant.
type RegistrationError struct {
	Step     string
	TenantID string
	Err      error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration failed at %s step: %v", e.Step, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// RegisterInput defines input for tenant + owner registration.
type RegisterInput struct {
	CompanyName     string
	Phone           string
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
}

// Register creates a tenant and its owning user.
// Validation happens before any store interaction. The two store writes are
// not transactional: the tenant is durable the moment its insert succeeds.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	tenant := &model.Tenant{
		ID:        model.NewID(),
		Name:      strings.TrimSpace(input.CompanyName),
		Phone:     strings.TrimSpace(input.Phone),
		CreatedAt: now,
	}

	if err := s.store.CreateTenant(ctx, tenant); err != nil {
		return nil, &RegistrationError{Step: StepTenant, Err: err}
	}

	user := &model.User{
		ID:           model.NewID(),
		Email:        auth.NormalizeEmail(input.Email),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		TenantID:     tenant.ID,
		CreatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		// The tenant already exists without an owner at this point.
		s.logger.Warn("user creation failed after tenant creation",
			"tenant_id", tenant.ID,
			"error", err,
		)
		return nil, &RegistrationError{Step: StepUser, TenantID: tenant.ID, Err: mapUserError(err)}
	}

	s.logger.Info("tenant registered",
		"tenant_id", tenant.ID,
		"user_id", user.ID,
	)

	return user, nil
}

func validateRegisterInput(input RegisterInput) error {
	if strings.TrimSpace(input.CompanyName) == "" {
		return fmt.Errorf("%w: company name is required", ErrValidation)
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	if input.Password != input.PasswordConfirm {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", ErrValidation)
	}
	return nil
}

func mapUserError(err error) error {
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		return ErrDuplicateEmail
	case errors.Is(err, repository.ErrTenantNotFound):
		return ErrUnknownTenant
	default:
		return err
	}
}
