package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/pdv88/quoteDrop-webapp/internal/catalog/domain"
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

func NewService(p ServiceParam) catalogdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, userID string, req catalogdomain.CreateOfferingRequest) (*catalogdomain.Offering, error) {
	ownerID, err := parseID(userID, catalogdomain.ErrInvalidUser)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, catalogdomain.ErrInvalidName
	}
	if err := validateUnitCost(req.UnitCost); err != nil {
		return nil, err
	}

	unitType := strings.TrimSpace(req.UnitType)
	if unitType == "" {
		unitType = "unit"
	}

	record := &catalogdomain.Offering{
		ID:          s.genID.Generate(),
		UserID:      ownerID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		UnitCost:    req.UnitCost,
		UnitType:    unitType,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]catalogdomain.Offering, error) {
	ownerID, err := parseID(userID, catalogdomain.ErrInvalidUser)
	if err != nil {
		return nil, err
	}

	var records []catalogdomain.Offering
	err = s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("name ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Service) Update(ctx context.Context, userID, offeringID string, req catalogdomain.UpdateOfferingRequest) (*catalogdomain.Offering, error) {
	record, err := s.load(ctx, userID, offeringID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, catalogdomain.ErrInvalidName
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.UnitCost != nil {
		if err := validateUnitCost(*req.UnitCost); err != nil {
			return nil, err
		}
		updates["unit_cost"] = *req.UnitCost
	}
	if req.UnitType != nil {
		updates["unit_type"] = strings.TrimSpace(*req.UnitType)
	}
	if len(updates) == 0 {
		return record, nil
	}

	if err := s.db.WithContext(ctx).Model(record).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.load(ctx, userID, offeringID)
}

func (s *Service) Delete(ctx context.Context, userID, offeringID string) error {
	record, err := s.load(ctx, userID, offeringID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(record).Error
}

func (s *Service) load(ctx context.Context, userID, offeringID string) (*catalogdomain.Offering, error) {
	ownerID, err := parseID(userID, catalogdomain.ErrInvalidUser)
	if err != nil {
		return nil, err
	}
	id, err := parseID(offeringID, catalogdomain.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	var record catalogdomain.Offering
	err = s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalogdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func validateUnitCost(cost float64) error {
	if cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return catalogdomain.ErrInvalidUnitCost
	}
	return nil
}

func parseID(raw string, invalidErr error) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, invalidErr
	}
	return id, nil
}
