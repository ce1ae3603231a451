package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/pdv88/quoteDrop-webapp/internal/auth/password"
	"github.com/pdv88/quoteDrop-webapp/internal/clock"
	userdomain "github.com/pdv88/quoteDrop-webapp/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minPasswordLen = 8

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

func NewService(p ServiceParam) userdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("user.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Register(ctx context.Context, req userdomain.RegisterRequest) (*userdomain.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLen {
		return nil, userdomain.ErrInvalidPassword
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	record := &userdomain.User{
		ID:               s.genID.Generate(),
		Email:            email,
		PasswordHash:     hash,
		FullName:         strings.TrimSpace(req.FullName),
		SubscriptionTier: userdomain.TierFree,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userdomain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return userdomain.ErrEmailTaken
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", record.ID.String()))
	return record, nil
}

func (s *Service) Authenticate(ctx context.Context, req userdomain.LoginRequest) (*userdomain.User, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, userdomain.ErrInvalidCredentials
	}

	var record userdomain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := password.Verify(req.Password, record.PasswordHash); err != nil {
		return nil, userdomain.ErrInvalidCredentials
	}
	return &record, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID string, req userdomain.ChangePasswordRequest) error {
	record, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := password.Verify(req.CurrentPassword, record.PasswordHash); err != nil {
		return userdomain.ErrInvalidCredentials
	}
	if len(req.NewPassword) < minPasswordLen {
		return userdomain.ErrInvalidPassword
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(record).Updates(map[string]any{
		"password_hash": hash,
		"updated_at":    s.clock.Now(),
	}).Error
}

func (s *Service) GetByID(ctx context.Context, userID string) (*userdomain.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	var record userdomain.User
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, req userdomain.UpdateProfileRequest) (*userdomain.User, error) {
	record, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_at": s.clock.Now()}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.CompanyName != nil {
		updates["company_name"] = strings.TrimSpace(*req.CompanyName)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.LogoURL != nil {
		updates["logo_url"] = strings.TrimSpace(*req.LogoURL)
	}
	if req.TermsConditions != nil {
		updates["terms_conditions"] = *req.TermsConditions
	}
	if req.TaxRate != nil {
		if *req.TaxRate < 0 || *req.TaxRate > 100 {
			return nil, userdomain.ErrInvalidTaxRate
		}
		updates["tax_rate"] = *req.TaxRate
	}

	if err := s.db.WithContext(ctx).Model(record).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(ctx, userID)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", userdomain.ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", userdomain.ErrInvalidEmail
	}
	return email, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, userdomain.ErrInvalidID
	}
	return id, nil
}
