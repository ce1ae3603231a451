package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pdv88/quoteDrop-webapp/internal/auth"
	catalogdomain "github.com/pdv88/quoteDrop-webapp/internal/catalog/domain"
	catalogservice "github.com/pdv88/quoteDrop-webapp/internal/catalog/service"
	clientdomain "github.com/pdv88/quoteDrop-webapp/internal/client/domain"
	clientservice "github.com/pdv88/quoteDrop-webapp/internal/client/service"
	"github.com/pdv88/quoteDrop-webapp/internal/clock"
	"github.com/pdv88/quoteDrop-webapp/internal/config"
	"github.com/pdv88/quoteDrop-webapp/internal/mailer"
	quotedomain "github.com/pdv88/quoteDrop-webapp/internal/quote/domain"
	"github.com/pdv88/quoteDrop-webapp/internal/quote/render"
	quoteservice "github.com/pdv88/quoteDrop-webapp/internal/quote/service"
	userdomain "github.com/pdv88/quoteDrop-webapp/internal/user/domain"
	userservice "github.com/pdv88/quoteDrop-webapp/internal/user/service"
)

type fakeTransport struct {
	sent [][]byte
	to   []string
}

func (f *fakeTransport) Send(ctx context.Context, from string, to []string, msg []byte) error {
	f.sent = append(f.sent, msg)
	f.to = append(f.to, to...)
	return nil
}

type testEnv struct {
	engine    *gin.Engine
	transport *fakeTransport
	db        *gorm.DB
}

func setupServerTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&userdomain.User{},
		&clientdomain.Client{},
		&catalogdomain.Offering{},
		&quotedomain.Quote{},
		&quotedomain.QuoteItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	var cfg config.Config
	cfg.Environment = "test"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Render.Timeout = 10 * time.Second

	log := zap.NewNop()
	clk := clock.SystemClock{}
	transport := &fakeTransport{}

	srv := NewServer(ServerParam{
		Config: cfg,
		Log:    log,
		DB:     db,
		Tokens: auth.NewTokenManager(cfg),
		Clock:  clk,
		Users: userservice.NewService(userservice.ServiceParam{
			DB: db, Log: log, GenID: node, Clock: clk,
		}),
		Clients: clientservice.NewService(clientservice.ServiceParam{
			DB: db, Log: log, GenID: node, Clock: clk,
		}),
		Catalog: catalogservice.NewService(catalogservice.ServiceParam{
			DB: db, Log: log, GenID: node, Clock: clk,
		}),
		Quotes: quoteservice.NewService(quoteservice.ServiceParam{
			DB: db, Log: log, GenID: node, Clock: clk,
		}),
		Renderer: render.NewPDFRenderer(
			render.NewLogoLoader(nil, time.Second, nil, log), log, nil, clk),
		Mailer: mailer.New(transport, "QuoteDrop <no-reply@quotedrop.test>", log, nil),
	})

	engine := gin.New()
	srv.RegisterRoutes(engine)
	return &testEnv{engine: engine, transport: transport, db: db}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return payload
}

var accountSeq int

func registerAccount(t *testing.T, env *testEnv) string {
	t.Helper()
	accountSeq++
	rec := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":     fmt.Sprintf("owner%d@quotedrop.test", accountSeq),
		"password":  "long enough pw",
		"full_name": "Sam Owner",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register: status %d: %s", rec.Code, rec.Body.String())
	}
	token, _ := decodeData(t, rec)["token"].(string)
	if token == "" {
		t.Fatal("register returned no token")
	}
	return token
}

func createClientRecord(t *testing.T, env *testEnv, token string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/clients", token, gin.H{
		"name":  "Jordan Reyes",
		"email": "jordan@client.test",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create client: status %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)["data"].(map[string]any)
	return fmt.Sprintf("%v", data["id"])
}

func createQuoteRecord(t *testing.T, env *testEnv, token, clientID string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/quotes", token, gin.H{
		"client_id": clientID,
		"tax_rate":  10,
		"items": []gin.H{
			{"description": "Design", "quantity": 2, "unit_cost": 100},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create quote: status %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)["data"].(map[string]any)
	return fmt.Sprintf("%v", data["id"])
}

func TestAuthRequired(t *testing.T) {
	env := setupServerTest(t)

	rec := env.do(t, http.MethodGet, "/api/quotes", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/quotes", "garbage-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for bad token", rec.Code)
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	env := setupServerTest(t)
	accountSeq++
	email := fmt.Sprintf("flow%d@quotedrop.test", accountSeq)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "long enough pw",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register: status %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "long enough pw",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d: %s", rec.Code, rec.Body.String())
	}
	token, _ := decodeData(t, rec)["token"].(string)

	rec = env.do(t, http.MethodGet, "/api/users/profile", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: status %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "wrong password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d, want 401", rec.Code)
	}
}

func TestQuoteValidationMapsToBadRequest(t *testing.T) {
	env := setupServerTest(t)
	token := registerAccount(t, env)
	clientID := createClientRecord(t, env, token)

	rec := env.do(t, http.MethodPost, "/api/quotes", token, gin.H{
		"client_id": clientID,
		"items":     []gin.H{},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestQuoteResponseCarriesTotals(t *testing.T) {
	env := setupServerTest(t)
	token := registerAccount(t, env)
	clientID := createClientRecord(t, env, token)
	quoteID := createQuoteRecord(t, env, token, clientID)

	rec := env.do(t, http.MethodGet, "/api/quotes/"+quoteID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get quote: status %d", rec.Code)
	}
	totals := decodeData(t, rec)["totals"].(map[string]any)
	if totals["subtotal"].(float64) != 200 || totals["tax"].(float64) != 20 || totals["total"].(float64) != 220 {
		t.Fatalf("totals = %v, want 200/20/220", totals)
	}
}

func TestDownloadQuotePDF(t *testing.T) {
	env := setupServerTest(t)
	token := registerAccount(t, env)
	clientID := createClientRecord(t, env, token)
	quoteID := createQuoteRecord(t, env, token, clientID)

	rec := env.do(t, http.MethodGet, "/api/quotes/"+quoteID+"/pdf", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pdf: status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(disposition, "inline;") {
		t.Fatalf("disposition = %q, want inline", disposition)
	}
	if !strings.Contains(disposition, "Quote_Q-0001_Jordan Reyes.pdf") {
		t.Fatalf("disposition = %q, missing filename", disposition)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("body is not a PDF")
	}

	rec = env.do(t, http.MethodGet, "/api/quotes/"+quoteID+"/pdf?download=1", token, nil)
	if !strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment;") {
		t.Fatalf("disposition = %q, want attachment", rec.Header().Get("Content-Disposition"))
	}
}

func TestDownloadQuotePDFPremiumTemplateGate(t *testing.T) {
	env := setupServerTest(t)
	accountSeq++
	email := fmt.Sprintf("tier%d@quotedrop.test", accountSeq)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "long enough pw",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register: status %d: %s", rec.Code, rec.Body.String())
	}
	token, _ := decodeData(t, rec)["token"].(string)
	clientID := createClientRecord(t, env, token)

	rec = env.do(t, http.MethodPost, "/api/quotes", token, gin.H{
		"client_id": clientID,
		"tax_rate":  10,
		"template":  quotedomain.TemplateModern,
		"items": []gin.H{
			{"description": "Design", "quantity": 2, "unit_cost": 100},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create quote: status %d: %s", rec.Code, rec.Body.String())
	}
	quoteID := fmt.Sprintf("%v", decodeData(t, rec)["data"].(map[string]any)["id"])

	fetch := func() []byte {
		rec := env.do(t, http.MethodGet, "/api/quotes/"+quoteID+"/pdf", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("pdf: status %d: %s", rec.Code, rec.Body.String())
		}
		return append([]byte(nil), rec.Body.Bytes()...)
	}
	setTemplate := func(template string) {
		rec := env.do(t, http.MethodPut, "/api/quotes/"+quoteID, token, gin.H{"template": template})
		if rec.Code != http.StatusOK {
			t.Fatalf("update template: status %d: %s", rec.Code, rec.Body.String())
		}
	}

	asFreeModern := fetch()

	// The gate never rewrites the stored template.
	rec = env.do(t, http.MethodGet, "/api/quotes/"+quoteID, token, nil)
	data := decodeData(t, rec)["data"].(map[string]any)
	if got := data["template"]; got != quotedomain.TemplateModern {
		t.Fatalf("stored template = %v, want %q", got, quotedomain.TemplateModern)
	}

	setTemplate(quotedomain.TemplateStandard)
	asFreeStandard := fetch()
	if !bytes.Equal(asFreeModern, asFreeStandard) {
		t.Fatal("free account did not fall back to the standard layout")
	}

	setTemplate(quotedomain.TemplateModern)
	err := env.db.Model(&userdomain.User{}).
		Where("email = ?", email).
		Update("subscription_tier", userdomain.TierPremium).Error
	if err != nil {
		t.Fatalf("upgrade tier: %v", err)
	}

	asPremiumModern := fetch()
	if bytes.Equal(asPremiumModern, asFreeStandard) {
		t.Fatal("premium account still rendered the standard layout")
	}
}

func TestSendQuote(t *testing.T) {
	env := setupServerTest(t)
	token := registerAccount(t, env)
	clientID := createClientRecord(t, env, token)
	quoteID := createQuoteRecord(t, env, token, clientID)

	rec := env.do(t, http.MethodPost, "/api/quotes/"+quoteID+"/send", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("send: status %d: %s", rec.Code, rec.Body.String())
	}

	if len(env.transport.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(env.transport.sent))
	}
	if env.transport.to[0] != "jordan@client.test" {
		t.Fatalf("recipient = %q", env.transport.to[0])
	}
	if !bytes.Contains(env.transport.sent[0], []byte("application/pdf")) {
		t.Fatal("email missing pdf attachment")
	}

	data := decodeData(t, rec)["data"].(map[string]any)
	if data["status"] != "sent" {
		t.Fatalf("status = %v, want sent", data["status"])
	}
}

func TestServicesCRUD(t *testing.T) {
	env := setupServerTest(t)
	token := registerAccount(t, env)

	rec := env.do(t, http.MethodPost, "/api/services", token, gin.H{
		"name":      "Consulting",
		"unit_cost": 120,
		"unit_type": "hour",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create service: status %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)["data"].(map[string]any)
	serviceID := fmt.Sprintf("%v", data["id"])

	rec = env.do(t, http.MethodGet, "/api/services", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list services: status %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/services/"+serviceID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete service: status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	env := setupServerTest(t)
	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: status %d", rec.Code)
	}
}
