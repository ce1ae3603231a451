package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/pdv88/quoteDrop-webapp/internal/client/domain"
	"github.com/pdv88/quoteDrop-webapp/internal/clock"
	quotedomain "github.com/pdv88/quoteDrop-webapp/internal/quote/domain"
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

func NewService(p ServiceParam) quotedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("quote.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, userID string, req quotedomain.CreateQuoteRequest) (*quotedomain.Quote, error) {
	ownerID, err := parseID(userID, quotedomain.ErrInvalidUser)
	if err != nil {
		return nil, err
	}
	clientID, err := parseID(req.ClientID, quotedomain.ErrInvalidClient)
	if err != nil {
		return nil, err
	}
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}
	if err := validateTaxRate(req.TaxRate); err != nil {
		return nil, err
	}

	template := strings.TrimSpace(req.Template)
	if template == "" {
		template = quotedomain.TemplateStandard
	}
	if !quotedomain.ValidTemplate(template) {
		return nil, quotedomain.ErrInvalidTemplate
	}

	now := s.clock.Now()
	record := &quotedomain.Quote{
		ID:              s.genID.Generate(),
		UserID:          ownerID,
		ClientID:        clientID,
		Status:          quotedomain.StatusDraft,
		Template:        template,
		TaxRate:         req.TaxRate,
		TermsConditions: req.TermsConditions,
		Notes:           strings.TrimSpace(req.Notes),
		ExpirationDate:  req.ExpirationDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&clientdomain.Client{}).
			Where("id = ? AND user_id = ?", clientID, ownerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return quotedomain.ErrInvalidClient
		}

		var maxNumber int64
		if err := tx.Model(&quotedomain.Quote{}).
			Where("user_id = ?", ownerID).
			Select("COALESCE(MAX(quote_number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return err
		}
		record.QuoteNumber = maxNumber + 1

		if err := tx.Create(record).Error; err != nil {
			return err
		}
		return tx.Create(s.buildItems(record.ID, req.Items, now)).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quote created",
		zap.String("quote_id", record.ID.String()),
		zap.Int64("quote_number", record.QuoteNumber),
	)
	return s.GetByID(ctx, userID, record.ID.String())
}

func (s *Service) List(ctx context.Context, userID string) ([]quotedomain.Quote, error) {
	ownerID, err := parseID(userID, quotedomain.ErrInvalidUser)
	if err != nil {
		return nil, err
	}

	var records []quotedomain.Quote
	err = s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Preload("Client").
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Service) GetByID(ctx context.Context, userID, quoteID string) (*quotedomain.Quote, error) {
	ownerID, err := parseID(userID, quotedomain.ErrInvalidUser)
	if err != nil {
		return nil, err
	}
	id, err := parseID(quoteID, quotedomain.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	var record quotedomain.Quote
	err = s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("quote_items.created_at ASC, quote_items.id ASC")
		}).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, quotedomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *Service) Update(ctx context.Context, userID, quoteID string, req quotedomain.UpdateQuoteRequest) (*quotedomain.Quote, error) {
	record, err := s.GetByID(ctx, userID, quoteID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_at": s.clock.Now()}
	if req.TaxRate != nil {
		if err := validateTaxRate(*req.TaxRate); err != nil {
			return nil, err
		}
		updates["tax_rate"] = *req.TaxRate
	}
	if req.TermsConditions != nil {
		updates["terms_conditions"] = *req.TermsConditions
	}
	if req.Notes != nil {
		updates["notes"] = strings.TrimSpace(*req.Notes)
	}
	if req.Template != nil {
		template := strings.TrimSpace(*req.Template)
		if !quotedomain.ValidTemplate(template) {
			return nil, quotedomain.ErrInvalidTemplate
		}
		updates["template"] = template
	}
	if req.ExpirationDate != nil {
		updates["expiration_date"] = *req.ExpirationDate
	}
	if req.Items != nil {
		if err := validateItems(req.Items); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(record).Updates(updates).Error; err != nil {
			return err
		}
		if req.Items == nil {
			return nil
		}
		if err := tx.Where("quote_id = ?", record.ID).Delete(&quotedomain.QuoteItem{}).Error; err != nil {
			return err
		}
		return tx.Create(s.buildItems(record.ID, req.Items, s.clock.Now())).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, userID, quoteID)
}

func (s *Service) UpdateStatus(ctx context.Context, userID, quoteID, status string) (*quotedomain.Quote, error) {
	if !quotedomain.ValidStatus(status) {
		return nil, quotedomain.ErrInvalidStatus
	}

	record, err := s.GetByID(ctx, userID, quoteID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(record).Updates(map[string]any{
		"status":     status,
		"updated_at": s.clock.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, userID, quoteID)
}

func (s *Service) buildItems(quoteID snowflake.ID, inputs []quotedomain.ItemInput, now time.Time) []quotedomain.QuoteItem {
	items := make([]quotedomain.QuoteItem, 0, len(inputs))
	for _, input := range inputs {
		item := quotedomain.QuoteItem{
			ID:          s.genID.Generate(),
			QuoteID:     quoteID,
			Description: strings.TrimSpace(input.Description),
			Quantity:    input.Quantity,
			UnitCost:    input.UnitCost,
			CreatedAt:   now,
		}
		if serviceID, err := snowflake.ParseString(strings.TrimSpace(input.ServiceID)); err == nil && serviceID != 0 {
			item.ServiceID = &serviceID
		}
		items = append(items, item)
	}
	return items
}

func validateItems(items []quotedomain.ItemInput) error {
	if len(items) == 0 {
		return quotedomain.ErrInvalidItems
	}
	for _, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			return quotedomain.ErrInvalidItems
		}
		if item.Quantity <= 0 || math.IsNaN(item.Quantity) || math.IsInf(item.Quantity, 0) {
			return quotedomain.ErrInvalidQuantity
		}
		if item.UnitCost < 0 || math.IsNaN(item.UnitCost) || math.IsInf(item.UnitCost, 0) {
			return quotedomain.ErrInvalidUnitCost
		}
	}
	return nil
}

func validateTaxRate(rate float64) error {
	if rate < 0 || rate > 100 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return quotedomain.ErrInvalidTaxRate
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
