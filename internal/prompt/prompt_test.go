package prompt_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
	"github.com/meridiancap/Fee-Letter-Backend/internal/prompt"
)

// TestParse tests instruction extraction.
//
// WHY: The parse endpoint turns an analyst's one-liner into a structured
// request. Extraction has to be deterministic across the supported phrase
// forms and honest about what it could not find.
func TestParse(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantInvestor   string
		wantCompany    string
		wantAmount     string
		wantConvention string
		wantMissing    int
	}{
		{
			name:         "create fee letter form",
			text:         "Create a fee letter for Alice Brown for £50,000 into Acme Robotics Ltd",
			wantInvestor: "Alice Brown",
			wantCompany:  "Acme Robotics Ltd",
			wantAmount:   "50000",
		},
		{
			name:           "to put form with net",
			text:           "create a letter for Alice Brown to put £25,000 net into Acme Robotics Ltd",
			wantInvestor:   "Alice Brown",
			wantCompany:    "Acme Robotics Ltd",
			wantAmount:     "25000",
			wantConvention: model.ConventionNet,
		},
		{
			name:         "investing form with k suffix",
			text:         "generate fee letter for Jens Pedersen investing £10k in Nova Biotech Ltd",
			wantInvestor: "Jens Pedersen",
			wantCompany:  "Nova Biotech Ltd",
			wantAmount:   "10000",
		},
		{
			name:           "gross keyword before company",
			text:           "create a fee letter for Erin Foster for 9,500.50 gross into Quantum Materials Ltd.",
			wantInvestor:   "Erin Foster",
			wantCompany:    "Quantum Materials Ltd",
			wantAmount:     "9500.50",
			wantConvention: model.ConventionGross,
		},
		{
			name:         "bare shorthand form",
			text:         "Alice Brown £5,000 Nova Biotech Ltd",
			wantInvestor: "Alice Brown",
			wantCompany:  "Nova Biotech Ltd",
			wantAmount:   "5000",
		},
		{
			name:           "shorthand with stray net before company",
			text:           "Alice Brown £5,000 net Nova Biotech Ltd",
			wantInvestor:   "Alice Brown",
			wantCompany:    "Nova Biotech Ltd",
			wantAmount:     "5000",
			wantConvention: model.ConventionNet,
		},
		{
			name:        "unrecognised text reports everything missing",
			text:        "please do the usual",
			wantMissing: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := prompt.Parse(tt.text)

			if got.Investor != tt.wantInvestor {
				t.Errorf("Investor = %q, want %q", got.Investor, tt.wantInvestor)
			}
			if got.Company != tt.wantCompany {
				t.Errorf("Company = %q, want %q", got.Company, tt.wantCompany)
			}
			if tt.wantAmount == "" {
				if got.Amount != nil {
					t.Errorf("Amount = %s, want nil", got.Amount)
				}
			} else if got.Amount == nil || !got.Amount.Equal(decimal.RequireFromString(tt.wantAmount)) {
				t.Errorf("Amount = %v, want %s", got.Amount, tt.wantAmount)
			}
			if got.Convention != tt.wantConvention {
				t.Errorf("Convention = %q, want %q", got.Convention, tt.wantConvention)
			}
			if len(got.Missing) != tt.wantMissing {
				t.Errorf("Missing = %v, want %d entries", got.Missing, tt.wantMissing)
			}
		})
	}
}

// TestParse_ConventionStaysUndecided tests that an unstated convention is
// not defaulted at parse time.
//
// WHY: The sheet's own convention must apply when the instruction is
// silent; parse-time defaulting would override it invisibly.
func TestParse_ConventionStaysUndecided(t *testing.T) {
	got := prompt.Parse("Create a fee letter for Alice Brown for £50,000 into Acme Robotics Ltd")
	if got.Convention != "" {
		t.Errorf("Expected undecided convention, got %q", got.Convention)
	}
}
