package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pdv88/quoteDrop-webapp/internal/clock"
	userdomain "github.com/pdv88/quoteDrop-webapp/internal/user/domain"
)

var emailSeq int

func setupUserTest(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&userdomain.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	return &Service{
		db:    db,
		log:   zap.NewNop(),
		genID: node,
		clock: clock.Fixed{At: time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)},
	}
}

func uniqueEmail() string {
	emailSeq++
	return fmt.Sprintf("owner%d@acme.test", emailSeq)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := setupUserTest(t)
	ctx := context.Background()
	email := uniqueEmail()

	user, err := svc.Register(ctx, userdomain.RegisterRequest{
		Email:    "  " + email + " ",
		Password: "correct horse battery",
		FullName: "Sam Owner",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != email {
		t.Fatalf("email = %q, want normalized %q", user.Email, email)
	}
	if user.SubscriptionTier != userdomain.TierFree {
		t.Fatalf("tier = %q, want free", user.SubscriptionTier)
	}
	if user.PasswordHash == "correct horse battery" {
		t.Fatal("password stored in plaintext")
	}

	got, err := svc.Authenticate(ctx, userdomain.LoginRequest{Email: email, Password: "correct horse battery"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("authenticated wrong user")
	}

	if _, err := svc.Authenticate(ctx, userdomain.LoginRequest{Email: email, Password: "wrong"}); !errors.Is(err, userdomain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := setupUserTest(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, userdomain.RegisterRequest{Email: "not-an-email", Password: "long enough pw"}); !errors.Is(err, userdomain.ErrInvalidEmail) {
		t.Fatalf("err = %v, want ErrInvalidEmail", err)
	}
	if _, err := svc.Register(ctx, userdomain.RegisterRequest{Email: uniqueEmail(), Password: "short"}); !errors.Is(err, userdomain.ErrInvalidPassword) {
		t.Fatalf("err = %v, want ErrInvalidPassword", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := setupUserTest(t)
	ctx := context.Background()
	email := uniqueEmail()

	if _, err := svc.Register(ctx, userdomain.RegisterRequest{Email: email, Password: "long enough pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, userdomain.RegisterRequest{Email: email, Password: "long enough pw"}); !errors.Is(err, userdomain.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc := setupUserTest(t)
	ctx := context.Background()
	email := uniqueEmail()

	user, err := svc.Register(ctx, userdomain.RegisterRequest{Email: email, Password: "original password"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	err = svc.ChangePassword(ctx, user.ID.String(), userdomain.ChangePasswordRequest{
		CurrentPassword: "wrong password",
		NewPassword:     "replacement pass",
	})
	if !errors.Is(err, userdomain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}

	err = svc.ChangePassword(ctx, user.ID.String(), userdomain.ChangePasswordRequest{
		CurrentPassword: "original password",
		NewPassword:     "replacement pass",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.Authenticate(ctx, userdomain.LoginRequest{Email: email, Password: "replacement pass"}); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := setupUserTest(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, userdomain.RegisterRequest{Email: uniqueEmail(), Password: "long enough pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	company := "Acme Studio"
	rate := 12.5
	updated, err := svc.UpdateProfile(ctx, user.ID.String(), userdomain.UpdateProfileRequest{
		CompanyName: &company,
		TaxRate:     &rate,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.CompanyName != "Acme Studio" || updated.TaxRate != 12.5 {
		t.Fatalf("profile not applied: %+v", updated)
	}

	bad := 150.0
	if _, err := svc.UpdateProfile(ctx, user.ID.String(), userdomain.UpdateProfileRequest{TaxRate: &bad}); !errors.Is(err, userdomain.ErrInvalidTaxRate) {
		t.Fatalf("err = %v, want ErrInvalidTaxRate", err)
	}
}
