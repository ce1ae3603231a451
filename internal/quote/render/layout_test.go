package render

import (
	"bytes"
	"compress/zlib"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pdv88/quoteDrop-webapp/internal/clock"
	quotedomain "github.com/pdv88/quoteDrop-webapp/internal/quote/domain"
)

func testRenderer(t *testing.T) *PDFRenderer {
	t.Helper()
	loader := NewLogoLoader(nil, time.Second, nil, zap.NewNop())
	return NewPDFRenderer(loader, zap.NewNop(), nil, clock.Fixed{At: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)})
}

func testInput(template string) RenderInput {
	return RenderInput{
		Quote: QuoteView{
			Number:    3,
			CreatedAt: time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC),
			TaxRate:   10,
			Template:  template,
		},
		Company: CompanyView{
			Name:  "Acme Studio",
			Email: "hello@acme.test",
			Phone: "555-0100",
		},
		Client: ClientView{
			Name:    "Jordan Reyes",
			Email:   "jordan@client.test",
			Address: "12 Harbor Lane",
		},
		Items: []LineItemView{
			{Description: "Design", Quantity: 2, UnitCost: 100},
		},
	}
}

// pageCount counts page objects in the PDF output. Page object
// dictionaries are written uncompressed, so the marker is reliable.
func pageCount(t *testing.T, doc Document) int {
	t.Helper()
	pages := bytes.Count(doc.Bytes, []byte("/Type /Page"))
	trees := bytes.Count(doc.Bytes, []byte("/Type /Pages"))
	if pages <= trees {
		t.Fatalf("no page objects found in document")
	}
	return pages - trees
}

// contentText inflates the deflate-compressed content streams so tests can
// assert on the drawn text. PDF string syntax escapes parentheses, so a
// literal "Tax (10%):" appears as `Tax \(10%\):`.
func contentText(t *testing.T, doc Document) string {
	t.Helper()
	var out strings.Builder
	rest := doc.Bytes
	for {
		i := bytes.Index(rest, []byte(">>\nstream\n"))
		if i < 0 {
			break
		}
		rest = rest[i+len(">>\nstream\n"):]
		j := bytes.Index(rest, []byte("endstream"))
		if j < 0 {
			break
		}
		zr, err := zlib.NewReader(bytes.NewReader(rest[:j]))
		if err == nil {
			if inflated, err := io.ReadAll(zr); err == nil {
				out.Write(inflated)
			}
			zr.Close()
		}
		rest = rest[j+len("endstream"):]
	}
	if out.Len() == 0 {
		t.Fatal("no content streams decoded")
	}
	return out.String()
}

func TestRenderOmitsZeroTaxLine(t *testing.T) {
	r := testRenderer(t)

	taxed, err := r.Render(context.Background(), testInput(quotedomain.TemplateStandard))
	if err != nil {
		t.Fatalf("render taxed: %v", err)
	}
	if !strings.Contains(contentText(t, taxed), `Tax \(`) {
		t.Fatal("tax line missing from taxed quote")
	}

	input := testInput(quotedomain.TemplateStandard)
	input.Quote.TaxRate = 0
	doc, err := r.Render(context.Background(), input)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := contentText(t, doc)
	if strings.Contains(text, `Tax \(`) {
		t.Fatal("tax line rendered for a zero-rate quote")
	}
	if !strings.Contains(text, "Subtotal:") || !strings.Contains(text, "Total:") {
		t.Fatal("totals block missing")
	}
}

func TestRenderAllTemplates(t *testing.T) {
	r := testRenderer(t)
	for _, template := range []string{
		quotedomain.TemplateStandard,
		quotedomain.TemplateModern,
		quotedomain.TemplateMinimal,
	} {
		doc, err := r.Render(context.Background(), testInput(template))
		if err != nil {
			t.Fatalf("%s: render: %v", template, err)
		}
		if !bytes.HasPrefix(doc.Bytes, []byte("%PDF-")) {
			t.Fatalf("%s: output is not a PDF", template)
		}
		if got := pageCount(t, doc); got != 1 {
			t.Fatalf("%s: page count = %d, want 1", template, got)
		}
		if doc.Filename != "Quote_Q-0003_Jordan Reyes.pdf" {
			t.Fatalf("%s: filename = %q", template, doc.Filename)
		}
	}
}

func TestRenderUnknownTemplateFallsBack(t *testing.T) {
	r := testRenderer(t)
	doc, err := r.Render(context.Background(), testInput("letterhead"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(doc.Bytes, []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := testRenderer(t)
	input := testInput(quotedomain.TemplateStandard)

	first, err := r.Render(context.Background(), input)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := r.Render(context.Background(), input)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(first.Bytes, second.Bytes) {
		t.Fatal("same input produced different bytes")
	}
}

func TestRenderZeroItems(t *testing.T) {
	r := testRenderer(t)
	input := testInput(quotedomain.TemplateStandard)
	input.Items = nil

	doc, err := r.Render(context.Background(), input)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(doc.Bytes, []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
}

func TestRenderSurvivesLogoFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	loader := NewLogoLoader(srv.Client(), time.Second, nil, zap.NewNop())
	r := NewPDFRenderer(loader, zap.NewNop(), nil, clock.SystemClock{})

	input := testInput(quotedomain.TemplateStandard)
	input.Company.LogoURL = srv.URL

	doc, err := r.Render(context.Background(), input)
	if err != nil {
		t.Fatalf("render should survive logo failure, got %v", err)
	}
	if !bytes.HasPrefix(doc.Bytes, []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
}

func TestRenderEmbedsLogo(t *testing.T) {
	data := pngBytes(t, 64, 64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	loader := NewLogoLoader(srv.Client(), time.Second, nil, zap.NewNop())
	r := NewPDFRenderer(loader, zap.NewNop(), nil, clock.SystemClock{})

	input := testInput(quotedomain.TemplateModern)
	input.Company.LogoURL = srv.URL

	doc, err := r.Render(context.Background(), input)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if withoutLogo, err := r.Render(context.Background(), testInput(quotedomain.TemplateModern)); err != nil {
		t.Fatalf("render without logo: %v", err)
	} else if len(doc.Bytes) <= len(withoutLogo.Bytes) {
		t.Fatal("document with logo should carry the embedded image")
	}
}

func TestRenderLongTermsPaginates(t *testing.T) {
	r := testRenderer(t)
	input := testInput(quotedomain.TemplateStandard)
	input.Quote.TermsConditions = strings.Repeat("Payment is due within 30 days of acceptance. ", 200)

	doc, err := r.Render(context.Background(), input)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := pageCount(t, doc); got < 2 {
		t.Fatalf("page count = %d, want at least 2", got)
	}
}

func TestRenderManyItemsPaginates(t *testing.T) {
	r := testRenderer(t)
	input := testInput(quotedomain.TemplateStandard)
	input.Items = nil
	for i := 0; i < 60; i++ {
		input.Items = append(input.Items, LineItemView{
			Description: "Recurring maintenance visit with full inspection",
			Quantity:    1,
			UnitCost:    85,
		})
	}

	doc, err := r.Render(context.Background(), input)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := pageCount(t, doc); got < 2 {
		t.Fatalf("page count = %d, want at least 2", got)
	}
}

func TestRenderCancelledContext(t *testing.T) {
	r := testRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Render(ctx, testInput(quotedomain.TemplateStandard)); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestQuoteTotalsEndToEnd(t *testing.T) {
	input := testInput(quotedomain.TemplateStandard)
	sum := Totals(input.Items, input.Quote.TaxRate)
	if sum.Subtotal != 200 || sum.TaxAmount != 20 || sum.Total != 220 {
		t.Fatalf("totals = %+v, want 200/20/220", sum)
	}
}
