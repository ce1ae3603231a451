package domain

import (
	"context"
	"errors"
	"time"
)

type ItemInput struct {
	ServiceID   string  `json:"service_id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitCost    float64 `json:"unit_cost"`
}

type CreateQuoteRequest struct {
	ClientID        string      `json:"client_id"`
	Items           []ItemInput `json:"items"`
	TaxRate         float64     `json:"tax_rate"`
	TermsConditions string      `json:"terms_conditions"`
	Notes           string      `json:"notes"`
	Template        string      `json:"template"`
	ExpirationDate  *time.Time  `json:"expiration_date"`
}

type UpdateQuoteRequest struct {
	Items           []ItemInput `json:"items"`
	TaxRate         *float64    `json:"tax_rate"`
	TermsConditions *string     `json:"terms_conditions"`
	Notes           *string     `json:"notes"`
	Template        *string     `json:"template"`
	ExpirationDate  *time.Time  `json:"expiration_date"`
}

type Service interface {
	Create(ctx context.Context, userID string, req CreateQuoteRequest) (*Quote, error)
	List(ctx context.Context, userID string) ([]Quote, error)
	GetByID(ctx context.Context, userID, quoteID string) (*Quote, error)
	Update(ctx context.Context, userID, quoteID string, req UpdateQuoteRequest) (*Quote, error)
	UpdateStatus(ctx context.Context, userID, quoteID, status string) (*Quote, error)
}

var (
	ErrInvalidUser     = errors.New("invalid_user")
	ErrInvalidID       = errors.New("invalid_quote_id")
	ErrInvalidClient   = errors.New("invalid_client")
	ErrInvalidItems    = errors.New("invalid_items")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidUnitCost = errors.New("invalid_unit_cost")
	ErrInvalidTaxRate  = errors.New("invalid_tax_rate")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidTemplate = errors.New("invalid_template")
	ErrNotFound        = errors.New("quote_not_found")
)
