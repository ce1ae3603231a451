package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/pdv88/quoteDrop-webapp/internal/client/domain"
	"github.com/pdv88/quoteDrop-webapp/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewService(p ServiceParam) clientdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, userID string, req clientdomain.CreateClientRequest) (*clientdomain.Client, error) {
	ownerID, err := parseID(userID, clientdomain.ErrInvalidUser)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, clientdomain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, clientdomain.ErrInvalidEmail
	}

	now := s.clock.Now()
	record := &clientdomain.Client{
		ID:        s.genID.Generate(),
		UserID:    ownerID,
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]clientdomain.Client, error) {
	ownerID, err := parseID(userID, clientdomain.ErrInvalidUser)
	if err != nil {
		return nil, err
	}

	var records []clientdomain.Client
	err = s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Service) GetByID(ctx context.Context, userID, clientID string) (*clientdomain.ClientWithStats, error) {
	record, err := s.load(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}

	stats, err := s.loadStats(ctx, record.UserID, record.ID)
	if err != nil {
		return nil, err
	}

	return &clientdomain.ClientWithStats{Client: *record, Stats: stats}, nil
}

func (s *Service) Update(ctx context.Context, userID, clientID string, req clientdomain.UpdateClientRequest) (*clientdomain.Client, error) {
	record, err := s.load(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_at": s.clock.Now()}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, clientdomain.ErrInvalidName
		}
		updates["name"] = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, clientdomain.ErrInvalidEmail
		}
		updates["email"] = email
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		updates["address"] = strings.TrimSpace(*req.Address)
	}

	if err := s.db.WithContext(ctx).Model(record).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.load(ctx, userID, clientID)
}

func (s *Service) Delete(ctx context.Context, userID, clientID string) error {
	record, err := s.load(ctx, userID, clientID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(record).Error
}

func (s *Service) load(ctx context.Context, userID, clientID string) (*clientdomain.Client, error) {
	ownerID, err := parseID(userID, clientdomain.ErrInvalidUser)
	if err != nil {
		return nil, err
	}
	id, err := parseID(clientID, clientdomain.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	var record clientdomain.Client
	err = s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, clientdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *Service) loadStats(ctx context.Context, userID, clientID snowflake.ID) (clientdomain.Stats, error) {
	var stats clientdomain.Stats

	err := s.db.WithContext(ctx).
		Table("quotes").
		Where("client_id = ? AND user_id = ?", clientID, userID).
		Count(&stats.TotalQuotes).Error
	if err != nil {
		return stats, err
	}

	err = s.db.WithContext(ctx).
		Table("quote_items").
		Joins("JOIN quotes ON quotes.id = quote_items.quote_id").
		Where("quotes.client_id = ? AND quotes.user_id = ?", clientID, userID).
		Select("COALESCE(SUM(quote_items.quantity * quote_items.unit_cost), 0)").
		Scan(&stats.TotalQuoted).Error
	return stats, err
}

func parseID(raw string, invalidErr error) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, invalidErr
	}
	return id, nil
}
