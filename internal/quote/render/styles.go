package render

import quotedomain "github.com/pdv88/quoteDrop-webapp/internal/quote/domain"

type rgb struct{ r, g, b int }

// style is pure layout data. Templates differ only in these values plus a
// handful of flags the engine reads; there is one drawing code path.
type style struct {
	name string
	font string

	primary rgb
	dark    rgb
	muted   rgb

	headerBand   bool
	centerHeader bool
	showLogo     bool
	metaRules    bool
	footerBand   bool

	tableHeadFill bool
	tableStripe   bool
	colWidths     [4]float64
}

var (
	standardStyle = style{
		name:          quotedomain.TemplateStandard,
		font:          "Helvetica",
		primary:       rgb{20, 184, 166},
		dark:          rgb{11, 17, 32},
		muted:         rgb{156, 163, 175},
		showLogo:      true,
		tableHeadFill: true,
		tableStripe:   true,
		colWidths:     [4]float64{80, 20, 40, 30},
	}

	modernStyle = style{
		name:          quotedomain.TemplateModern,
		font:          "Helvetica",
		primary:       rgb{79, 70, 229},
		dark:          rgb{17, 24, 39},
		muted:         rgb{107, 114, 128},
		headerBand:    true,
		showLogo:      true,
		footerBand:    true,
		tableHeadFill: true,
		colWidths:     [4]float64{85, 20, 35, 30},
	}

	minimalStyle = style{
		name:         quotedomain.TemplateMinimal,
		font:         "Times",
		primary:      rgb{0, 0, 0},
		dark:         rgb{0, 0, 0},
		muted:        rgb{120, 120, 120},
		centerHeader: true,
		metaRules:    true,
		colWidths:    [4]float64{90, 20, 30, 30},
	}
)

// styleFor resolves a template name to its style. Unknown names fall back
// to the standard template so stored data can never make rendering fail.
func styleFor(template string) style {
	switch template {
	case quotedomain.TemplateModern:
		return modernStyle
	case quotedomain.TemplateMinimal:
		return minimalStyle
	default:
		return standardStyle
	}
}
