package domain

import (
	"context"
	"errors"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type UpdateProfileRequest struct {
	FullName        *string  `json:"full_name"`
	CompanyName     *string  `json:"company_name"`
	Phone           *string  `json:"phone"`
	LogoURL         *string  `json:"logo_url"`
	TaxRate         *float64 `json:"tax_rate"`
	TermsConditions *string  `json:"terms_conditions"`
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Authenticate(ctx context.Context, req LoginRequest) (*User, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
	GetByID(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*User, error)
}

var (
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidTaxRate     = errors.New("invalid_tax_rate")
	ErrInvalidID          = errors.New("invalid_user_id")
	ErrNotFound           = errors.New("user_not_found")
)
