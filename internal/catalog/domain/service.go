package domain

import (
	"context"
	"errors"
)

type CreateOfferingRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	UnitCost    float64 `json:"unit_cost"`
	UnitType    string  `json:"unit_type"`
}

type UpdateOfferingRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	UnitCost    *float64 `json:"unit_cost"`
	UnitType    *string  `json:"unit_type"`
}

type Service interface {
	Create(ctx context.Context, userID string, req CreateOfferingRequest) (*Offering, error)
	List(ctx context.Context, userID string) ([]Offering, error)
	Update(ctx context.Context, userID, offeringID string, req UpdateOfferingRequest) (*Offering, error)
	Delete(ctx context.Context, userID, offeringID string) error
}

var (
	ErrInvalidUser     = errors.New("invalid_user")
	ErrInvalidID       = errors.New("invalid_service_id")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidUnitCost = errors.New("invalid_unit_cost")
	ErrNotFound        = errors.New("service_not_found")
)
