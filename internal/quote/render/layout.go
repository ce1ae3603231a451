package render

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/pdv88/quoteDrop-webapp/internal/clock"
	"github.com/pdv88/quoteDrop-webapp/internal/observability/metrics"
)

// Page geometry in millimetres, A4 portrait.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	marginX    = 20.0
	topMargin  = 20.0
	rightEdge  = 190.0

	// bodyLimit is the last usable y before content must move to a new
	// page. termsBreakY is the earlier threshold used before starting the
	// terms block so a heading is never orphaned at the page bottom.
	bodyLimit   = 270.0
	termsBreakY = 250.0

	logoImageName = "company_logo"
)

// PDFRenderer renders quotes to PDF documents. Rendering is a pure
// function of RenderInput: the same input always produces the same bytes,
// which keeps documents reproducible and testable.
type PDFRenderer struct {
	logos   *LogoLoader
	log     *zap.Logger
	metrics *metrics.RenderMetrics
	clock   clock.Clock
}

// NewPDFRenderer constructs the document renderer.
func NewPDFRenderer(logos *LogoLoader, log *zap.Logger, m *metrics.RenderMetrics, clk clock.Clock) *PDFRenderer {
	if log == nil {
		log = zap.NewNop()
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &PDFRenderer{logos: logos, log: log.Named("quote.render"), metrics: m, clock: clk}
}

// Render produces the finished document for input. A missing or
// unreachable logo never fails the render; the document falls back to its
// text-only header.
func (r *PDFRenderer) Render(ctx context.Context, input RenderInput) (Document, error) {
	st := styleFor(input.Quote.Template)
	start := r.clock.Now()
	doc, err := r.render(ctx, st, input)
	r.metrics.ObserveRender(st.name, err, r.clock.Now().Sub(start))
	return doc, err
}

func (r *PDFRenderer) render(ctx context.Context, st style, input RenderInput) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	var logo *Logo
	if st.showLogo && strings.TrimSpace(input.Company.LogoURL) != "" {
		fetched, err := r.logos.Fetch(ctx, input.Company.LogoURL)
		if err != nil {
			r.log.Warn("logo_fetch_failed",
				zap.String("logo_url", input.Company.LogoURL),
				zap.Error(err))
			r.metrics.IncLogoFallback()
		} else {
			logo = &fetched
		}
	}

	e := &engine{
		pdf: fpdf.New("P", "mm", "A4", ""),
		st:  st,
		in:  input,
		sum: Totals(input.Items, input.Quote.TaxRate),
	}
	e.pdf.SetTitle(QuoteNumber(input.Quote.Number), true)
	e.pdf.SetCreationDate(input.Quote.CreatedAt.UTC())
	e.pdf.SetAutoPageBreak(false, 0)
	e.pdf.AliasNbPages("")
	e.pdf.SetFooterFunc(e.footer)

	if logo != nil {
		e.pdf.RegisterImageOptionsReader(logoImageName,
			fpdf.ImageOptions{ImageType: logo.Format}, bytes.NewReader(logo.Data))
		e.logo = logo
	}

	e.newPage()
	e.header()
	e.parties()
	e.itemTable()
	e.totals()
	e.terms()

	var buf bytes.Buffer
	if err := e.pdf.Output(&buf); err != nil {
		return Document{}, fmt.Errorf("render document: %w", err)
	}
	return Document{
		Bytes:    buf.Bytes(),
		Filename: Filename(input.Quote.Number, input.Client.Name),
	}, nil
}

// engine walks a single y cursor down the page, one drawing pass for all
// templates. e.y is the text baseline for flowing text and the top edge
// for filled bands.
type engine struct {
	pdf  *fpdf.Fpdf
	st   style
	in   RenderInput
	sum  Summary
	logo *Logo
	y    float64
}

func (e *engine) setFont(weight string, size float64) { e.pdf.SetFont(e.st.font, weight, size) }
func (e *engine) color(c rgb)                         { e.pdf.SetTextColor(c.r, c.g, c.b) }

func (e *engine) text(x float64, s string) { e.pdf.Text(x, e.y, s) }

func (e *engine) textRight(right float64, s string) {
	e.pdf.Text(right-e.pdf.GetStringWidth(s), e.y, s)
}

func (e *engine) textCenter(s string) {
	e.pdf.Text((pageWidth-e.pdf.GetStringWidth(s))/2, e.y, s)
}

func (e *engine) newPage() {
	e.pdf.AddPage()
	e.y = topMargin
}

func (e *engine) ensureSpace(h float64) {
	if e.y+h > bodyLimit {
		e.newPage()
	}
}

func (e *engine) drawLogo(x, y, box float64) {
	w, h := fitBox(e.logo.Width, e.logo.Height, box)
	e.pdf.ImageOptions(logoImageName, x, y, w, h, false,
		fpdf.ImageOptions{ImageType: e.logo.Format}, 0, "")
}

// fitBox scales pixel dimensions to fit inside a square box, preserving
// aspect ratio.
func fitBox(w, h int, box float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return box, box
	}
	if w >= h {
		return box, box * float64(h) / float64(w)
	}
	return box * float64(w) / float64(h), box
}

func (e *engine) header() {
	switch {
	case e.st.headerBand:
		e.headerBanded()
	case e.st.centerHeader:
		e.headerCentered()
	default:
		e.headerStandard()
	}
}

func (e *engine) headerBanded() {
	e.pdf.SetFillColor(e.st.primary.r, e.st.primary.g, e.st.primary.b)
	e.pdf.Rect(0, 0, pageWidth, 40, "F")

	e.pdf.SetTextColor(255, 255, 255)
	e.setFont("B", 22)
	e.y = 20
	e.text(marginX, e.in.Company.Name)
	e.setFont("", 11)
	e.y = 30
	e.text(marginX, "QUOTE "+QuoteNumber(e.in.Quote.Number))
	if e.logo != nil {
		e.drawLogo(160, 7, 26)
	}

	e.y = 48
	e.setFont("", 9)
	e.color(e.st.muted)
	if contact := joinContact(e.in.Company.Email, e.in.Company.Phone); contact != "" {
		e.text(marginX, contact)
	}
	e.metaRight(48)
	e.y = 60
}

func (e *engine) headerCentered() {
	e.y = 30
	e.setFont("B", 24)
	e.color(e.st.dark)
	e.textCenter("QUOTE")

	e.y += 10
	e.setFont("", 12)
	e.textCenter(e.in.Company.Name)
	if contact := joinContact(e.in.Company.Email, e.in.Company.Phone); contact != "" {
		e.y += 5
		e.setFont("", 9)
		e.color(e.st.muted)
		e.textCenter(contact)
	}

	e.y += 10
	if e.st.metaRules {
		e.pdf.SetDrawColor(e.st.dark.r, e.st.dark.g, e.st.dark.b)
		e.pdf.Line(marginX, e.y, rightEdge, e.y)
	}
	e.y += 7
	e.setFont("", 10)
	e.color(e.st.dark)
	e.text(marginX, QuoteNumber(e.in.Quote.Number))
	e.textRight(rightEdge, Date(e.in.Quote.CreatedAt))
	if e.in.Quote.ExpirationDate != nil {
		e.y += 5
		e.setFont("", 9)
		e.color(e.st.muted)
		e.textRight(rightEdge, "Valid until "+Date(*e.in.Quote.ExpirationDate))
	}
	e.y += 3
	if e.st.metaRules {
		e.pdf.Line(marginX, e.y, rightEdge, e.y)
	}
	e.y += 12
}

func (e *engine) headerStandard() {
	e.y = topMargin
	nameX := marginX
	if e.logo != nil {
		e.drawLogo(marginX, e.y, 30)
		nameX = 56
	}

	e.setFont("B", 18)
	e.color(e.st.dark)
	e.y = topMargin + 10
	e.text(nameX, e.in.Company.Name)
	if contact := joinContact(e.in.Company.Email, e.in.Company.Phone); contact != "" {
		e.y += 6
		e.setFont("", 9)
		e.color(e.st.muted)
		e.text(nameX, contact)
	}

	e.setFont("B", 26)
	e.color(e.st.primary)
	e.y = topMargin + 8
	e.textRight(rightEdge, "QUOTE")
	e.metaRight(topMargin + 16)

	e.y = 56
	e.pdf.SetDrawColor(e.st.primary.r, e.st.primary.g, e.st.primary.b)
	e.pdf.SetLineWidth(0.6)
	e.pdf.Line(marginX, e.y, rightEdge, e.y)
	e.pdf.SetLineWidth(0.2)
	e.y = 66
}

// metaRight draws the quote number and date block right-aligned, starting
// at baseline y.
func (e *engine) metaRight(y float64) {
	e.y = y
	e.setFont("", 10)
	e.color(e.st.dark)
	e.textRight(rightEdge, QuoteNumber(e.in.Quote.Number))
	e.y += 5
	e.setFont("", 9)
	e.color(e.st.muted)
	e.textRight(rightEdge, "Date: "+Date(e.in.Quote.CreatedAt))
	if e.in.Quote.ExpirationDate != nil {
		e.y += 5
		e.textRight(rightEdge, "Valid until: "+Date(*e.in.Quote.ExpirationDate))
	}
}

func (e *engine) parties() {
	if e.st.centerHeader {
		// The centered header already carries the metadata; only the
		// recipient remains.
		e.setFont("", 10)
		e.color(e.st.muted)
		e.text(marginX, "To:")
		e.y += 5
		e.setFont("B", 11)
		e.color(e.st.dark)
		e.text(marginX, clientDisplayName(e.in.Client))
		e.y = e.partyDetails(marginX, e.y)
		e.y += 12
		return
	}

	e.setFont("B", 10)
	e.color(e.st.primary)
	e.text(marginX, "BILL TO")
	e.y += 6
	e.setFont("B", 11)
	e.color(e.st.dark)
	e.text(marginX, clientDisplayName(e.in.Client))
	e.y = e.partyDetails(marginX, e.y)
	e.y += 12
}

// partyDetails writes the client contact lines below the name and returns
// the baseline of the last line written.
func (e *engine) partyDetails(x, y float64) float64 {
	e.setFont("", 9)
	e.color(e.st.muted)
	for _, line := range []string{e.in.Client.Email, e.in.Client.Phone, e.in.Client.Address} {
		if strings.TrimSpace(line) == "" {
			continue
		}
		y += 5
		e.pdf.Text(x, y, line)
	}
	return y
}

func (e *engine) itemTable() {
	e.tableHead()
	e.setFont("", 10)

	for i, item := range e.in.Items {
		lines := e.pdf.SplitText(item.Description, e.st.colWidths[0]-4)
		if len(lines) == 0 {
			lines = []string{""}
		}
		rowH := float64(len(lines))*5 + 3

		if e.y+rowH > bodyLimit {
			e.newPage()
			e.tableHead()
			e.setFont("", 10)
		}

		if e.st.tableStripe && i%2 == 1 {
			e.pdf.SetFillColor(243, 244, 246)
			e.pdf.Rect(marginX, e.y, rightEdge-marginX, rowH, "F")
		}

		c := e.colEdges()
		e.color(e.st.dark)
		base := e.y + 5
		for j, line := range lines {
			e.pdf.Text(c[0]+2, base+float64(j)*5, line)
		}
		qty := Quantity(item.Quantity)
		e.pdf.Text(c[1]+(e.st.colWidths[1]-e.pdf.GetStringWidth(qty))/2, base, qty)
		unit := Currency(item.UnitCost)
		e.pdf.Text(c[2]+e.st.colWidths[2]-2-e.pdf.GetStringWidth(unit), base, unit)
		amount := Currency(item.Quantity * item.UnitCost)
		e.pdf.Text(c[3]+e.st.colWidths[3]-2-e.pdf.GetStringWidth(amount), base, amount)

		e.y += rowH
	}

	if !e.st.tableHeadFill {
		e.pdf.Line(marginX, e.y, rightEdge, e.y)
	}
	e.y += 10
}

// tableHead draws the column header row. It is repeated at the top of
// every page the table spills onto.
func (e *engine) tableHead() {
	const rowH = 8.0
	c := e.colEdges()

	e.setFont("B", 10)
	if e.st.tableHeadFill {
		e.pdf.SetFillColor(e.st.primary.r, e.st.primary.g, e.st.primary.b)
		e.pdf.Rect(marginX, e.y, rightEdge-marginX, rowH, "F")
		e.pdf.SetTextColor(255, 255, 255)
	} else {
		e.color(e.st.dark)
		e.pdf.SetDrawColor(e.st.dark.r, e.st.dark.g, e.st.dark.b)
		e.pdf.Line(marginX, e.y, rightEdge, e.y)
	}

	base := e.y + 5.5
	e.pdf.Text(c[0]+2, base, "Description")
	qty := "Qty"
	e.pdf.Text(c[1]+(e.st.colWidths[1]-e.pdf.GetStringWidth(qty))/2, base, qty)
	unit := "Unit Price"
	e.pdf.Text(c[2]+e.st.colWidths[2]-2-e.pdf.GetStringWidth(unit), base, unit)
	amount := "Amount"
	e.pdf.Text(c[3]+e.st.colWidths[3]-2-e.pdf.GetStringWidth(amount), base, amount)

	e.y += rowH
	if !e.st.tableHeadFill {
		e.pdf.Line(marginX, e.y, rightEdge, e.y)
		e.y += 1
	}
}

// colEdges returns the left x of each of the four table columns.
func (e *engine) colEdges() [4]float64 {
	var c [4]float64
	x := marginX
	for i, w := range e.st.colWidths {
		c[i] = x
		x += w
	}
	return c
}

func (e *engine) totals() {
	e.ensureSpace(30)
	const labelX = 140.0

	e.setFont("", 10)
	e.color(e.st.dark)
	e.text(labelX, "Subtotal:")
	e.textRight(rightEdge, Currency(e.sum.Subtotal))
	e.y += 6

	if e.in.Quote.TaxRate > 0 {
		e.text(labelX, fmt.Sprintf("Tax (%s%%):", Percent(e.in.Quote.TaxRate)))
		e.textRight(rightEdge, Currency(e.sum.TaxAmount))
		e.y += 6
	}

	e.pdf.SetDrawColor(e.st.muted.r, e.st.muted.g, e.st.muted.b)
	e.pdf.Line(labelX, e.y-4, rightEdge, e.y-4)
	e.y += 2
	e.setFont("B", 12)
	e.color(e.st.primary)
	e.text(labelX, "Total:")
	e.textRight(rightEdge, Currency(e.sum.Total))
	e.y += 10
}

func (e *engine) terms() {
	body := strings.TrimSpace(e.in.Quote.TermsConditions)
	if body == "" {
		return
	}
	if e.y > termsBreakY {
		e.newPage()
	}

	e.setFont("B", 10)
	e.color(e.st.dark)
	e.text(marginX, "Terms & Conditions")
	e.y += 6

	e.setFont("", 9)
	e.color(e.st.muted)
	for _, line := range e.pdf.SplitText(body, rightEdge-marginX) {
		if e.y > bodyLimit {
			e.newPage()
			e.setFont("", 9)
			e.color(e.st.muted)
		}
		e.text(marginX, line)
		e.y += 4
	}
}

func (e *engine) footer() {
	if e.st.footerBand {
		e.pdf.SetFillColor(e.st.primary.r, e.st.primary.g, e.st.primary.b)
		e.pdf.Rect(0, 280, pageWidth, 17, "F")
		e.pdf.SetTextColor(255, 255, 255)
	} else {
		e.color(e.st.muted)
	}
	e.setFont("", 8)

	thanks := "Thank you for your business."
	e.pdf.Text((pageWidth-e.pdf.GetStringWidth(thanks))/2, pageHeight-11, thanks)
	page := fmt.Sprintf("Page %d of {nb}", e.pdf.PageNo())
	e.pdf.Text((pageWidth-e.pdf.GetStringWidth(page))/2, pageHeight-6, page)
}

// Quantity renders an item quantity without trailing zeros.
func Quantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func clientDisplayName(c ClientView) string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return "Client"
}

func joinContact(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "  |  ")
}
