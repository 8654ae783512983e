package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridiancap/Fee-Letter-Backend/internal/dataset"
	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
)

// Dec parses a decimal literal for use in test fixtures.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DecP parses a decimal literal and returns a pointer, for optional rate
// fields and overrides.
func DecP(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// InvestorBuilder provides a fluent interface for creating investor records.
// Investor records live in the dataset snapshot, not the database, so Build
// returns the record without persisting anything.
//
// Example usage:
//
//	investor := testutil.NewInvestor().
//	    WithName("Alice", "Brown").
//	    WithClassification(model.ClassificationProfessional).
//	    Build()
type InvestorBuilder struct {
	ClientRef      string
	FirstName      string
	LastName       string
	Email          string
	Salutation     string
	Classification string
}

// NewInvestor creates an InvestorBuilder with sensible defaults.
func NewInvestor() *InvestorBuilder {
	last := "Investor" + randomAlphanumeric(6)
	return &InvestorBuilder{
		ClientRef:      MakeClientRef(),
		FirstName:      "Test",
		LastName:       last,
		Email:          "test." + last + "@example.com",
		Salutation:     "Test",
		Classification: model.ClassificationRetail,
	}
}

// WithClientRef sets a custom client reference.
func (b *InvestorBuilder) WithClientRef(ref string) *InvestorBuilder {
	b.ClientRef = ref
	return b
}

// WithName sets the first and last name and matches the salutation to the
// first name, mirroring the loader default.
func (b *InvestorBuilder) WithName(first, last string) *InvestorBuilder {
	b.FirstName = first
	b.LastName = last
	b.Salutation = first
	return b
}

// WithEmail sets a custom email address.
func (b *InvestorBuilder) WithEmail(email string) *InvestorBuilder {
	b.Email = email
	return b
}

// WithSalutation sets a custom salutation.
func (b *InvestorBuilder) WithSalutation(salutation string) *InvestorBuilder {
	b.Salutation = salutation
	return b
}

// WithClassification sets a custom classification.
func (b *InvestorBuilder) WithClassification(classification string) *InvestorBuilder {
	b.Classification = classification
	return b
}

// Build returns the investor record.
func (b *InvestorBuilder) Build() model.InvestorRecord {
	return model.InvestorRecord{
		ClientRef:      b.ClientRef,
		FirstName:      b.FirstName,
		LastName:       b.LastName,
		Email:          b.Email,
		Salutation:     b.Salutation,
		Classification: b.Classification,
	}
}

// CompanyBuilder provides a fluent interface for creating company records.
//
// Example usage:
//
//	company := testutil.NewCompany().
//	    WithLegalName("Acme Robotics Ltd").
//	    WithSharePrice(testutil.Dec("0.28")).
//	    Build()
type CompanyBuilder struct {
	LegalName  string
	FundType   string
	ShareClass string
	SharePrice decimal.Decimal
}

// NewCompany creates a CompanyBuilder with sensible defaults.
func NewCompany() *CompanyBuilder {
	return &CompanyBuilder{
		LegalName:  MakeCompanyName("Test Company"),
		FundType:   model.FundTypeEIS,
		ShareClass: model.ShareClassOrdinary,
		SharePrice: Dec("0.50"),
	}
}

// WithLegalName sets a custom legal name.
func (b *CompanyBuilder) WithLegalName(name string) *CompanyBuilder {
	b.LegalName = name
	return b
}

// WithFundType sets a custom fund type.
func (b *CompanyBuilder) WithFundType(fundType string) *CompanyBuilder {
	b.FundType = fundType
	return b
}

// WithShareClass sets a custom share class.
func (b *CompanyBuilder) WithShareClass(class string) *CompanyBuilder {
	b.ShareClass = class
	return b
}

// WithSharePrice sets a custom share price.
func (b *CompanyBuilder) WithSharePrice(price decimal.Decimal) *CompanyBuilder {
	b.SharePrice = price
	return b
}

// Build returns the company record.
func (b *CompanyBuilder) Build() model.CompanyRecord {
	return model.CompanyRecord{
		LegalName:  b.LegalName,
		FundType:   b.FundType,
		ShareClass: b.ShareClass,
		SharePrice: b.SharePrice,
	}
}

// FeeTermsBuilder provides a fluent interface for creating fee-terms rows.
// Rates default to nil, meaning the engine defaults apply.
//
// Example usage:
//
//	terms := testutil.NewFeeTerms(investor.ClientRef).
//	    WithFund(model.FundTypeEIS).
//	    WithUpfrontRate(testutil.Dec("2")).
//	    Build()
type FeeTermsBuilder struct {
	ClientRef        string
	Fund             string
	Convention       string
	UpfrontRate      *decimal.Decimal
	AMCRate          *decimal.Decimal
	CarryRate        *decimal.Decimal
	SubscriptionCode string
}

// NewFeeTerms creates a FeeTermsBuilder for the given client reference.
func NewFeeTerms(clientRef string) *FeeTermsBuilder {
	return &FeeTermsBuilder{
		ClientRef:  clientRef,
		Fund:       model.FundTypeEIS,
		Convention: model.ConventionGross,
	}
}

// WithFund sets a custom fund identifier.
func (b *FeeTermsBuilder) WithFund(fund string) *FeeTermsBuilder {
	b.Fund = fund
	return b
}

// WithConvention sets a custom convention.
func (b *FeeTermsBuilder) WithConvention(convention string) *FeeTermsBuilder {
	b.Convention = convention
	return b
}

// WithUpfrontRate sets the upfront rate as the sheet states it.
func (b *FeeTermsBuilder) WithUpfrontRate(rate decimal.Decimal) *FeeTermsBuilder {
	b.UpfrontRate = &rate
	return b
}

// WithAMCRate sets the AMC rate as the sheet states it.
func (b *FeeTermsBuilder) WithAMCRate(rate decimal.Decimal) *FeeTermsBuilder {
	b.AMCRate = &rate
	return b
}

// WithCarryRate sets the carry rate as the sheet states it.
func (b *FeeTermsBuilder) WithCarryRate(rate decimal.Decimal) *FeeTermsBuilder {
	b.CarryRate = &rate
	return b
}

// WithSubscriptionCode sets an explicit subscription code.
func (b *FeeTermsBuilder) WithSubscriptionCode(code string) *FeeTermsBuilder {
	b.SubscriptionCode = code
	return b
}

// Build returns the fee-terms row.
func (b *FeeTermsBuilder) Build() model.FeeTerms {
	return model.FeeTerms{
		ClientRef:        b.ClientRef,
		Fund:             b.Fund,
		Convention:       b.Convention,
		UpfrontRate:      b.UpfrontRate,
		AMCRate:          b.AMCRate,
		CarryRate:        b.CarryRate,
		SubscriptionCode: b.SubscriptionCode,
	}
}

// BuildDataset assembles an indexed snapshot directly from records,
// bypassing the CSV loader.
func BuildDataset(investors []model.InvestorRecord, companies []model.CompanyRecord, terms []model.FeeTerms) *dataset.Dataset {
	return dataset.New(investors, companies, terms, nil, time.Now().UTC())
}

// NewDatasetStore creates a store with the given snapshot already published.
func NewDatasetStore(ds *dataset.Dataset) *dataset.Store {
	store := dataset.NewStore()
	store.Swap(ds)
	return store
}

// FeeLetterBuilder provides a fluent interface for creating persisted
// fee_letter rows.
//
// Example usage:
//
//	letter := testutil.NewFeeLetter().
//	    WithMode("sent").
//	    Build(t, db)
type FeeLetterBuilder struct {
	ID              string
	SubscriptionRef string
	ClientRef       string
	InvestorName    string
	InvestorEmail   string
	CompanyName     string
	FundType        string
	Convention      string
	Mode            string
	MessageID       string
	Subject         string
	Body            string
	CreatedAt       time.Time
}

// NewFeeLetter creates a FeeLetterBuilder with sensible defaults.
func NewFeeLetter() *FeeLetterBuilder {
	company := MakeCompanyName("Test Company")
	return &FeeLetterBuilder{
		ID:              MakeID(),
		SubscriptionRef: "CS-TestT-EIS-2",
		ClientRef:       MakeClientRef(),
		InvestorName:    "Test Investor",
		InvestorEmail:   "test.investor@example.com",
		CompanyName:     company,
		FundType:        model.FundTypeEIS,
		Convention:      model.ConventionGross,
		Mode:            model.LetterModeDraft,
		MessageID:       "AAMkTestDraft1",
		Subject:         "Fee Letter Confirmation – " + company,
		Body:            "Dear Test,\n\nThank you for your investment.\n",
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
	}
}

// WithID sets a custom ID.
func (b *FeeLetterBuilder) WithID(id string) *FeeLetterBuilder {
	b.ID = id
	return b
}

// WithClientRef sets a custom client reference.
func (b *FeeLetterBuilder) WithClientRef(ref string) *FeeLetterBuilder {
	b.ClientRef = ref
	return b
}

// WithCompanyName sets a custom company name.
func (b *FeeLetterBuilder) WithCompanyName(name string) *FeeLetterBuilder {
	b.CompanyName = name
	return b
}

// WithMode sets the delivery mode. Sent letters carry no message ID,
// matching the Graph sendMail behaviour.
func (b *FeeLetterBuilder) WithMode(mode string) *FeeLetterBuilder {
	b.Mode = mode
	if mode == model.LetterModeSent {
		b.MessageID = ""
	}
	return b
}

// WithCreatedAt sets a custom creation time, for list-ordering tests.
func (b *FeeLetterBuilder) WithCreatedAt(at time.Time) *FeeLetterBuilder {
	b.CreatedAt = at.UTC()
	return b
}

// Build creates the fee_letter row in the database and returns it.
func (b *FeeLetterBuilder) Build(t *testing.T, db *sql.DB) model.FeeLetter {
	t.Helper()

	query := `
		INSERT INTO fee_letter (id, subscription_ref, client_ref, investor_name, investor_email, company_name, fund_type, convention, mode, message_id, subject, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	messageID := sql.NullString{String: b.MessageID, Valid: b.MessageID != ""}

	_, err := db.Exec(query,
		b.ID, b.SubscriptionRef, b.ClientRef, b.InvestorName, b.InvestorEmail,
		b.CompanyName, b.FundType, b.Convention, b.Mode, messageID,
		b.Subject, b.Body, b.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test fee letter: %v", err)
	}

	return model.FeeLetter{
		ID:              b.ID,
		SubscriptionRef: b.SubscriptionRef,
		ClientRef:       b.ClientRef,
		InvestorName:    b.InvestorName,
		InvestorEmail:   b.InvestorEmail,
		CompanyName:     b.CompanyName,
		FundType:        b.FundType,
		Convention:      b.Convention,
		Mode:            b.Mode,
		MessageID:       b.MessageID,
		Subject:         b.Subject,
		Body:            b.Body,
		CreatedAt:       b.CreatedAt,
	}
}

// FeeLetterAuditBuilder provides a fluent interface for creating persisted
// fee_letter_audit rows tied to an existing letter.
type FeeLetterAuditBuilder struct {
	ID                string
	LetterID          string
	StatedAmount      string
	Investment        string
	UpfrontRatePct    string
	AMCYears13RatePct string
	AMCYears45RatePct string
	CarryRatePct      string
	UpfrontTotal      string
	AMCYears13Total   string
	AMCYears45Total   string
	TotalFees         string
	TotalTransfer     string
	SharePrice        string
	ShareQuantity     string
	CreatedAt         time.Time
}

// NewFeeLetterAudit creates a FeeLetterAuditBuilder for the given letter
// with figures matching a £50,000 gross subscription at default rates.
func NewFeeLetterAudit(letterID string) *FeeLetterAuditBuilder {
	return &FeeLetterAuditBuilder{
		ID:                MakeID(),
		LetterID:          letterID,
		StatedAmount:      "50000.00",
		Investment:        "50000.00",
		UpfrontRatePct:    "1.5",
		AMCYears13RatePct: "2",
		AMCYears45RatePct: "1.5",
		CarryRatePct:      "20",
		UpfrontTotal:      "900.00",
		AMCYears13Total:   "3600.00",
		AMCYears45Total:   "1800.00",
		TotalFees:         "6300.00",
		TotalTransfer:     "56300.00",
		SharePrice:        "0.5",
		ShareQuantity:     "100000",
		CreatedAt:         time.Now().UTC().Truncate(time.Second),
	}
}

// WithTotals sets the fee totals.
func (b *FeeLetterAuditBuilder) WithTotals(totalFees, totalTransfer string) *FeeLetterAuditBuilder {
	b.TotalFees = totalFees
	b.TotalTransfer = totalTransfer
	return b
}

// Build creates the fee_letter_audit row in the database and returns it.
func (b *FeeLetterAuditBuilder) Build(t *testing.T, db *sql.DB) model.FeeLetterAudit {
	t.Helper()

	query := `
		INSERT INTO fee_letter_audit (id, letter_id, stated_amount, investment, upfront_rate_pct, amc_years_1_3_rate_pct, amc_years_4_5_rate_pct, carry_rate_pct, upfront_total, amc_years_1_3_total, amc_years_4_5_total, total_fees, total_transfer, share_price, share_quantity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.LetterID, b.StatedAmount, b.Investment,
		b.UpfrontRatePct, b.AMCYears13RatePct, b.AMCYears45RatePct, b.CarryRatePct,
		b.UpfrontTotal, b.AMCYears13Total, b.AMCYears45Total,
		b.TotalFees, b.TotalTransfer, b.SharePrice, b.ShareQuantity,
		b.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test fee letter audit: %v", err)
	}

	return model.FeeLetterAudit{
		ID:                b.ID,
		LetterID:          b.LetterID,
		StatedAmount:      b.StatedAmount,
		Investment:        b.Investment,
		UpfrontRatePct:    b.UpfrontRatePct,
		AMCYears13RatePct: b.AMCYears13RatePct,
		AMCYears45RatePct: b.AMCYears45RatePct,
		CarryRatePct:      b.CarryRatePct,
		UpfrontTotal:      b.UpfrontTotal,
		AMCYears13Total:   b.AMCYears13Total,
		AMCYears45Total:   b.AMCYears45Total,
		TotalFees:         b.TotalFees,
		TotalTransfer:     b.TotalTransfer,
		SharePrice:        b.SharePrice,
		ShareQuantity:     b.ShareQuantity,
		CreatedAt:         b.CreatedAt,
	}
}
