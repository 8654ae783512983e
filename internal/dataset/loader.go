package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
)

// Header contracts for the three collection files. Order and spelling are
// fixed; a mismatch fails the whole load.
var (
	investorHeaders = []string{"client_ref", "first_name", "last_name", "email", "salutation", "classification"}
	companyHeaders  = []string{"legal_name", "fund_type", "share_class", "share_price"}
	feeTermsHeaders = []string{"client_ref", "fund", "gross_net", "upfront_rate", "amc_rate", "carry_rate", "subscription_code"}
)

var hundred = decimal.NewFromInt(100)

// Loader reads the three CSV collections and builds immutable snapshots.
type Loader struct {
	investorsPath string
	companiesPath string
	feeTermsPath  string
}

// NewLoader creates a Loader over the three collection file paths.
func NewLoader(investorsPath, companiesPath, feeTermsPath string) *Loader {
	return &Loader{
		investorsPath: investorsPath,
		companiesPath: companiesPath,
		feeTermsPath:  feeTermsPath,
	}
}

// Load reads all three collections concurrently, validates them, and returns
// a fully-built snapshot. Nothing is published on failure; the caller swaps
// the snapshot into a Store only after Load succeeds.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	var (
		investors []model.InvestorRecord
		companies []model.CompanyRecord
		terms     []model.FeeTerms
	)

	sources := make([]SourceFile, 3)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		sources[0], err = statSource(l.investorsPath)
		if err != nil {
			return err
		}
		investors, err = loadInvestors(l.investorsPath)
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		sources[1], err = statSource(l.companiesPath)
		if err != nil {
			return err
		}
		companies, err = loadCompanies(l.companiesPath)
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		sources[2], err = statSource(l.feeTermsPath)
		if err != nil {
			return err
		}
		terms, err = loadFeeTerms(l.feeTermsPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadDataset, err)
	}

	if err := checkReferences(investors, companies, terms); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadDataset, err)
	}

	return New(investors, companies, terms, sources, time.Now().UTC()), nil
}

// Changed reports whether any source file's modification time differs from
// the times recorded in the given snapshot sources.
func (l *Loader) Changed(since []SourceFile) (bool, error) {
	for _, src := range since {
		info, err := os.Stat(src.Path)
		if err != nil {
			return true, fmt.Errorf("failed to stat %s: %w", src.Path, err)
		}
		if !info.ModTime().Equal(src.ModTime) {
			return true, nil
		}
	}
	return false, nil
}

func statSource(path string) (SourceFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SourceFile{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return SourceFile{Path: path, ModTime: info.ModTime()}, nil
}

func loadInvestors(path string) ([]model.InvestorRecord, error) {
	rows, err := readCSV(path, investorHeaders)
	if err != nil {
		return nil, err
	}

	investors := make([]model.InvestorRecord, 0, len(rows))
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		ref := strings.TrimSpace(row.fields[0])
		first := strings.TrimSpace(row.fields[1])
		last := strings.TrimSpace(row.fields[2])
		email := strings.TrimSpace(row.fields[3])
		salutation := strings.TrimSpace(row.fields[4])

		for name, value := range map[string]string{"client_ref": ref, "first_name": first, "last_name": last, "email": email} {
			if value == "" {
				return nil, fmt.Errorf("%w: %s line %d: %s", apperrors.ErrMissingRequiredField, path, row.line, name)
			}
		}
		if seen[ref] {
			return nil, fmt.Errorf("%w: %s line %d: client_ref %s", apperrors.ErrDuplicateEntry, path, row.line, ref)
		}
		seen[ref] = true

		classification, err := ParseClassification(row.fields[5])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, row.line, err)
		}
		if salutation == "" {
			salutation = first
		}

		investors = append(investors, model.InvestorRecord{
			ClientRef:      ref,
			FirstName:      first,
			LastName:       last,
			Email:          email,
			Salutation:     salutation,
			Classification: classification,
		})
	}
	return investors, nil
}

func loadCompanies(path string) ([]model.CompanyRecord, error) {
	rows, err := readCSV(path, companyHeaders)
	if err != nil {
		return nil, err
	}

	companies := make([]model.CompanyRecord, 0, len(rows))
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		name := strings.TrimSpace(row.fields[0])
		if name == "" {
			return nil, fmt.Errorf("%w: %s line %d: legal_name", apperrors.ErrMissingRequiredField, path, row.line)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %s line %d: legal_name %s", apperrors.ErrDuplicateEntry, path, row.line, name)
		}
		seen[name] = true

		fundType, err := ParseFundType(row.fields[1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, row.line, err)
		}
		shareClass, err := ParseShareClass(row.fields[2])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, row.line, err)
		}
		price, err := ParsePrice(row.fields[3])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, row.line, err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("%w: %s line %d: share_price %s", apperrors.ErrInvalidFieldValue, path, row.line, price)
		}

		companies = append(companies, model.CompanyRecord{
			LegalName:  name,
			FundType:   fundType,
			ShareClass: shareClass,
			SharePrice: price,
		})
	}
	return companies, nil
}

func loadFeeTerms(path string) ([]model.FeeTerms, error) {
	rows, err := readCSV(path, feeTermsHeaders)
	if err != nil {
		return nil, err
	}

	terms := make([]model.FeeTerms, 0, len(rows))

	for _, row := range rows {
		ref := strings.TrimSpace(row.fields[0])
		fund := strings.TrimSpace(row.fields[1])
		if ref == "" {
			return nil, fmt.Errorf("%w: %s line %d: client_ref", apperrors.ErrMissingRequiredField, path, row.line)
		}
		if fund == "" {
			return nil, fmt.Errorf("%w: %s line %d: fund", apperrors.ErrMissingRequiredField, path, row.line)
		}

		upfront, err := ParseRate(row.fields[3])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: upfront_rate: %w", path, row.line, err)
		}
		amc, err := ParseRate(row.fields[4])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: amc_rate: %w", path, row.line, err)
		}
		carry, err := ParseRate(row.fields[5])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: carry_rate: %w", path, row.line, err)
		}

		terms = append(terms, model.FeeTerms{
			ClientRef:        ref,
			Fund:             fund,
			Convention:       ParseConvention(row.fields[2]),
			UpfrontRate:      upfront,
			AMCRate:          amc,
			CarryRate:        carry,
			SubscriptionCode: strings.TrimSpace(row.fields[6]),
		})
	}
	return terms, nil
}

// checkReferences enforces the one cross-collection invariant: every
// fee-terms row must reference a loaded investor. Duplicate (client, fund)
// pairs are allowed; resolving them is the resolver's concern.
func checkReferences(investors []model.InvestorRecord, _ []model.CompanyRecord, terms []model.FeeTerms) error {
	refs := make(map[string]bool, len(investors))
	for _, inv := range investors {
		refs[inv.ClientRef] = true
	}
	for _, t := range terms {
		if !refs[t.ClientRef] {
			return fmt.Errorf("%w: fee terms for unknown client_ref %s", apperrors.ErrDataInconsistency, t.ClientRef)
		}
	}
	return nil
}

type csvRow struct {
	line   int
	fields []string
}

func readCSV(path string, headers []string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	if !headersMatch(header, headers) {
		return nil, fmt.Errorf("%w: %s: got %v, want %v", apperrors.ErrInvalidCSVHeaders, path, header, headers)
	}

	var rows []csvRow
	for line := 2; ; line++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s line %d: %w", path, line, err)
		}
		rows = append(rows, csvRow{line: line, fields: fields})
	}
	return rows, nil
}

func headersMatch(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(strings.ToLower(got[i])) != want[i] {
			return false
		}
	}
	return true
}

// ParsePrice coerces a share price cell to a decimal. Accepts plain
// decimals, currency-prefixed values ("£0.28"), pence values ("28p"), and
// thousands separators ("1,234.56").
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: share_price", apperrors.ErrMissingRequiredField)
	}

	pence := false
	if strings.HasSuffix(strings.ToLower(s), "p") && len(s) > 1 {
		pence = true
		s = s[:len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(strings.TrimPrefix(s, "£"))

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: share_price %q", apperrors.ErrInvalidFieldValue, raw)
	}
	if pence {
		d = d.Div(hundred)
	}
	return d, nil
}

// ParseRate coerces a rate cell. Empty cells return nil so the merge
// boundary can fall through to the engine default. The value stays raw
// (percentage points or fraction); only the merge boundary normalizes.
func ParseRate(raw string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: rate %q", apperrors.ErrInvalidFieldValue, raw)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: rate %q is negative", apperrors.ErrInvalidFieldValue, raw)
	}
	return &d, nil
}

// ParseConvention coerces a gross/net cell: values starting with "n"
// (case-insensitive) are net, everything else including empty is gross.
func ParseConvention(raw string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(raw)), "n") {
		return model.ConventionNet
	}
	return model.ConventionGross
}

// ParseClassification coerces an investor classification cell. Empty cells
// default to retail.
func ParseClassification(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return model.ClassificationRetail, nil
	case s == model.ClassificationRetail:
		return model.ClassificationRetail, nil
	case strings.HasPrefix(s, "pro"):
		return model.ClassificationProfessional, nil
	case strings.HasPrefix(s, "eligible"), s == "ecp":
		return model.ClassificationEligibleCounterparty, nil
	default:
		return "", fmt.Errorf("%w: classification %q", apperrors.ErrInvalidFieldValue, raw)
	}
}

// ParseFundType coerces a fund type cell. Knowledge-intensive spellings map
// to KIC.
func ParseFundType(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return "", fmt.Errorf("%w: fund_type", apperrors.ErrMissingRequiredField)
	case s == "eis":
		return model.FundTypeEIS, nil
	case s == "kic", strings.Contains(s, "knowledge"):
		return model.FundTypeKIC, nil
	default:
		return "", fmt.Errorf("%w: fund_type %q", apperrors.ErrInvalidFieldValue, raw)
	}
}

// ParseShareClass coerces a share class cell, tolerating a trailing
// "share"/"shares" word. Empty cells default to Ordinary.
func ParseShareClass(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	lower = strings.TrimSuffix(lower, " shares")
	lower = strings.TrimSuffix(lower, " share")

	switch lower {
	case "":
		return model.ShareClassOrdinary, nil
	case "ordinary":
		return model.ShareClassOrdinary, nil
	case "a ordinary":
		return model.ShareClassAOrdinary, nil
	case "b ordinary":
		return model.ShareClassBOrdinary, nil
	case "preference":
		return model.ShareClassPreference, nil
	default:
		return "", fmt.Errorf("%w: share_class %q", apperrors.ErrInvalidFieldValue, raw)
	}
}
