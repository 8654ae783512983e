// Package letter renders calculation results into the fee letter document
// and derives the subscription reference quoted on it. Everything monetary
// is formatted here, at the presentation boundary; the engine's full
// precision values never reach the template directly.
package letter

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
)

//go:embed letter.tmpl
var defaultTemplate string

// Data is the fully formatted variable set one letter renders from.
type Data struct {
	Salutation       string
	CompanyName      string
	InvestmentType   string
	InvestmentAmount string
	NumberOfShares   string
	ShareClass       string
	SharePrice       string
	UpfrontPct       string
	UpfrontValue     string
	AMCYears13Pct    string
	AMCYears13Value  string
	AMCYears45Pct    string
	AMCYears45Value  string
	CarryPct         string
	TotalTransfer    string
	Reference        string
}

// Renderer holds one parsed letter template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the letter template. An empty path uses the embedded
// default; otherwise the file at path replaces it, so deployments can
// restyle letters without a rebuild.
func NewRenderer(path string) (*Renderer, error) {
	content := defaultTemplate
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read letter template %s: %w", path, err)
		}
		content = string(raw)
	}

	tmpl, err := template.New("letter").Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse letter template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the template over the formatted data.
func (r *Renderer) Render(data Data) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrFailedToRenderLetter, err)
	}
	return buf.String(), nil
}

// BuildData formats a calculation into template variables. Share class and
// price come from the effective parameters, so overrides show up on the
// letter exactly as they were applied.
func BuildData(investor model.InvestorRecord, company model.CompanyRecord, params model.EffectiveParameters, result model.CalculationResult, reference string) Data {
	return Data{
		Salutation:       investor.Salutation,
		CompanyName:      company.LegalName,
		InvestmentType:   result.Convention,
		InvestmentAmount: FormatGBP(result.StatedAmount),
		NumberOfShares:   FormatQuantity(result.Shares.Exact),
		ShareClass:       params.ShareClass,
		SharePrice:       FormatGBP(params.SharePrice),
		UpfrontPct:       FormatPercent(result.Upfront.Rate),
		UpfrontValue:     FormatGBP(result.Upfront.Total),
		AMCYears13Pct:    FormatPercent(result.AMCYears13.Rate),
		AMCYears13Value:  FormatGBP(result.AMCYears13.Total),
		AMCYears45Pct:    FormatPercent(result.AMCYears45.Rate),
		AMCYears45Value:  FormatGBP(result.AMCYears45.Total),
		CarryPct:         FormatPercent(result.Carry.Rate),
		TotalTransfer:    FormatGBP(result.TotalTransfer),
		Reference:        reference,
	}
}
