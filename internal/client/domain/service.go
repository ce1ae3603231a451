package domain

import (
	"context"
	"errors"
)

type CreateClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type Service interface {
	Create(ctx context.Context, userID string, req CreateClientRequest) (*Client, error)
	List(ctx context.Context, userID string) ([]Client, error)
	GetByID(ctx context.Context, userID, clientID string) (*ClientWithStats, error)
	Update(ctx context.Context, userID, clientID string, req UpdateClientRequest) (*Client, error)
	Delete(ctx context.Context, userID, clientID string) error
}

var (
	ErrInvalidUser  = errors.New("invalid_user")
	ErrInvalidID    = errors.New("invalid_client_id")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrNotFound     = errors.New("client_not_found")
)
