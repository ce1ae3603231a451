package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	quotedomain "github.com/pdv88/quoteDrop-webapp/internal/quote/domain"
	userdomain "github.com/pdv88/quoteDrop-webapp/internal/user/domain"
)

// RenderInput is the deterministic input used for quote document rendering.
type RenderInput struct {
	Quote   QuoteView
	Company CompanyView
	Client  ClientView
	Items   []LineItemView
}

type QuoteView struct {
	Number          int64
	CreatedAt       time.Time
	ExpirationDate  *time.Time
	TaxRate         float64
	TermsConditions string
	Template        string
}

// CompanyView is the issuing party as it appears on the document.
type CompanyView struct {
	Name    string
	Email   string
	Phone   string
	LogoURL string
}

type ClientView struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type LineItemView struct {
	Description string
	Quantity    float64
	UnitCost    float64
}

// Document is the finished artifact. Ownership passes to the caller.
type Document struct {
	Bytes    []byte
	Filename string
}

type Renderer interface {
	Render(ctx context.Context, input RenderInput) (Document, error)
}

// BuildInput translates persistence records into the render view shape.
// This is the only place field names are mapped; the renderer never sees
// storage models.
func BuildInput(quote *quotedomain.Quote, issuer *userdomain.User) RenderInput {
	input := RenderInput{
		Quote: QuoteView{
			Number:          quote.QuoteNumber,
			CreatedAt:       quote.CreatedAt,
			ExpirationDate:  quote.ExpirationDate,
			TaxRate:         quote.TaxRate,
			TermsConditions: quote.TermsConditions,
			Template:        quote.Template,
		},
		Company: CompanyView{
			Name:    issuer.DisplayName(),
			Email:   issuer.Email,
			Phone:   issuer.Phone,
			LogoURL: issuer.LogoURL,
		},
	}
	if quote.Client != nil {
		input.Client = ClientView{
			Name:    quote.Client.Name,
			Email:   quote.Client.Email,
			Phone:   quote.Client.Phone,
			Address: quote.Client.Address,
		}
	}
	for _, item := range quote.Items {
		input.Items = append(input.Items, LineItemView{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost,
		})
	}
	return input
}

// Filename derives the suggested document name from the quote number and
// client name.
func Filename(number int64, clientName string) string {
	name := strings.TrimSpace(clientName)
	if name == "" {
		name = "Client"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, name)
	return fmt.Sprintf("Quote_%s_%s.pdf", QuoteNumber(number), name)
}
