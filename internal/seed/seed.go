package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/pdv88/quoteDrop-webapp/internal/auth/password"
	catalogdomain "github.com/pdv88/quoteDrop-webapp/internal/catalog/domain"
	clientdomain "github.com/pdv88/quoteDrop-webapp/internal/client/domain"
	userdomain "github.com/pdv88/quoteDrop-webapp/internal/user/domain"
)

const (
	demoEmail    = "demo@quotedrop.local"
	demoPassword = "demo-password"
	demoCompany  = "Demo Studio"
)

// EnsureDemoUser seeds a demo account with one client and one catalog
// service so a fresh install has something to render. Idempotent; meant
// for development bootstrap only.
func EnsureDemoUser(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id generator is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userdomain.User{}).
			Where("email = ?", demoEmail).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hash, err := password.Hash(demoPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user := userdomain.User{
			ID:               node.Generate(),
			Email:            demoEmail,
			PasswordHash:     hash,
			FullName:         "Demo User",
			CompanyName:      demoCompany,
			SubscriptionTier: userdomain.TierPremium,
			TaxRate:          10,
			TermsConditions:  "Quote valid for 30 days. Payment due within 15 days of acceptance.",
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		client := clientdomain.Client{
			ID:        node.Generate(),
			UserID:    user.ID,
			Name:      "Sample Client",
			Email:     "client@example.com",
			Address:   "1 Example Street",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&client).Error; err != nil {
			return err
		}

		offering := catalogdomain.Offering{
			ID:          node.Generate(),
			UserID:      user.ID,
			Name:        "Consulting",
			Description: "One hour of consulting",
			UnitCost:    120,
			UnitType:    "hour",
			CreatedAt:   now,
		}
		return tx.Create(&offering).Error
	})
}
