// Package prompt extracts a letter request from a free-text instruction
// such as "create a fee letter for Alice Brown for £50,000 into Acme
// Robotics Ltd". Extraction is deterministic: anchored phrase forms first,
// convention keywords second, and anything unextracted is reported as
// missing rather than guessed.
package prompt

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
)

// ParsedRequest is the structured form of one instruction. Convention stays
// empty when the text does not state net or gross, so the sheet convention
// applies downstream. Missing lists the entities the text did not yield.
type ParsedRequest struct {
	Investor   string           `json:"investor,omitempty"`
	Company    string           `json:"company,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Convention string           `json:"convention,omitempty"`
	Missing    []string         `json:"missing,omitempty"`
}

var requestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^create a (?:fee )?letter for (?P<investor>.+?) (?:for|to put) £?(?P<amount>[\d,]+(?:\.\d+)?)(?P<scale>k| thousand)?(?: (?P<conv>net|gross))? into (?P<company>.+)$`),
	regexp.MustCompile(`(?i)^generate (?:a )?fee letter for (?P<investor>.+?) investing £?(?P<amount>[\d,]+(?:\.\d+)?)(?P<scale>k| thousand)?(?: (?P<conv>net|gross))? in (?P<company>.+)$`),
	regexp.MustCompile(`(?i)^(?P<investor>.+?) £(?P<amount>[\d,]+(?:\.\d+)?)(?P<scale>k| thousand)? (?P<company>.+)$`),
}

var (
	netHints   = []*regexp.Regexp{regexp.MustCompile(`(?i)\bnet\b`), regexp.MustCompile(`(?i)total\s+transfer`), regexp.MustCompile(`(?i)including\s+fees`)}
	grossHints = []*regexp.Regexp{regexp.MustCompile(`(?i)\bgross\b`), regexp.MustCompile(`(?i)before\s+fees`), regexp.MustCompile(`(?i)excluding\s+fees`)}

	thousand = decimal.NewFromInt(1000)
)

// Parse extracts investor, company, amount, and convention from one
// instruction. It never fails; absent entities appear in Missing and the
// caller decides whether to ask for clarification.
func Parse(text string) ParsedRequest {
	text = strings.TrimSpace(text)

	var parsed ParsedRequest
	for _, pattern := range requestPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		parsed.Investor = cleanName(match[pattern.SubexpIndex("investor")])
		parsed.Company = cleanCompany(match[pattern.SubexpIndex("company")])
		parsed.Amount = parseAmount(match[pattern.SubexpIndex("amount")], match[pattern.SubexpIndex("scale")])
		if i := pattern.SubexpIndex("conv"); i >= 0 && match[i] != "" {
			parsed.Convention = strings.ToLower(match[i])
		}
		break
	}

	if parsed.Convention == "" {
		parsed.Convention = hintedConvention(text)
	}

	if parsed.Investor == "" {
		parsed.Missing = append(parsed.Missing, "investor name")
	}
	if parsed.Company == "" {
		parsed.Missing = append(parsed.Missing, "company name")
	}
	if parsed.Amount == nil {
		parsed.Missing = append(parsed.Missing, "investment amount")
	}
	return parsed
}

func parseAmount(raw, scale string) *decimal.Decimal {
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return nil
	}
	if strings.TrimSpace(scale) != "" {
		d = d.Mul(thousand)
	}
	return &d
}

// hintedConvention scores net against gross cue words; a tie, including
// zero hits, stays undecided.
func hintedConvention(text string) string {
	net, gross := 0, 0
	for _, hint := range netHints {
		if hint.MatchString(text) {
			net++
		}
	}
	for _, hint := range grossHints {
		if hint.MatchString(text) {
			gross++
		}
	}
	switch {
	case net > gross:
		return model.ConventionNet
	case gross > net:
		return model.ConventionGross
	default:
		return ""
	}
}

var connectorTokens = map[string]bool{"for": true, "into": true, "in": true, "net": true, "gross": true}

// cleanName drops connector words accidentally captured at the end of an
// investor name.
func cleanName(s string) string {
	parts := strings.Fields(s)
	for len(parts) > 0 && connectorTokens[strings.ToLower(parts[len(parts)-1])] {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, " ")
}

// cleanCompany trims trailing punctuation and stray convention words from a
// company capture.
func cleanCompany(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), ".,;")
	parts := strings.Fields(s)
	for len(parts) > 0 {
		head := strings.ToLower(parts[0])
		if head != "net" && head != "gross" {
			break
		}
		parts = parts[1:]
	}
	for len(parts) > 0 {
		tail := strings.ToLower(parts[len(parts)-1])
		if tail != "net" && tail != "gross" {
			break
		}
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, " ")
}
