package engine

import (
	"fmt"
	"strings"

	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
	"github.com/meridiancap/Fee-Letter-Backend/internal/dataset"
	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
)

// Resolution binds one request to its investor, company, and the single
// applicable fee-terms row.
type Resolution struct {
	Investor model.InvestorRecord
	Company  model.CompanyRecord
	Terms    model.FeeTerms
}

// Resolve maps a free-text investor query and an exact company legal name
// onto the snapshot. Ambiguity is an error carrying the candidates; the
// resolver never picks one on the caller's behalf.
func Resolve(ds *dataset.Dataset, investorQuery, companyName string) (Resolution, error) {
	investor, err := ResolveInvestor(ds, investorQuery)
	if err != nil {
		return Resolution{}, err
	}

	company, err := ResolveCompany(ds, companyName)
	if err != nil {
		return Resolution{}, err
	}

	terms, err := ResolveFeeTerms(ds, investor.ClientRef, company)
	if err != nil {
		return Resolution{}, err
	}

	return Resolution{Investor: investor, Company: company, Terms: terms}, nil
}

// ResolveInvestor matches case-insensitively against full names, falling
// back to a single name component (first or last) when the query is one
// word.
func ResolveInvestor(ds *dataset.Dataset, query string) (model.InvestorRecord, error) {
	matches := ds.InvestorsByFullName(query)
	if len(matches) == 0 && len(strings.Fields(query)) == 1 {
		matches = ds.InvestorsByComponent(query)
	}

	switch len(matches) {
	case 0:
		return model.InvestorRecord{}, fmt.Errorf("%w: %q", apperrors.ErrInvestorNotFound, query)
	case 1:
		return matches[0], nil
	default:
		candidates := make([]apperrors.Candidate, 0, len(matches))
		for _, m := range matches {
			candidates = append(candidates, apperrors.Candidate{Name: m.FullName(), ClientRef: m.ClientRef})
		}
		return model.InvestorRecord{}, &apperrors.AmbiguousInvestorError{Query: query, Candidates: candidates}
	}
}

// ResolveCompany requires the exact, case-sensitive legal name. Similarly
// named companies differ materially in share price and fund type, so there
// is no fuzzy matching here.
func ResolveCompany(ds *dataset.Dataset, name string) (model.CompanyRecord, error) {
	company, ok := ds.CompanyByName(name)
	if !ok {
		return model.CompanyRecord{}, fmt.Errorf("%w: %q", apperrors.ErrCompanyNotFound, name)
	}
	return company, nil
}

// ResolveFeeTerms selects the single fee-terms row for a client. Multiple
// rows narrow by the company's fund type; anything other than exactly one
// surviving row is an error.
func ResolveFeeTerms(ds *dataset.Dataset, clientRef string, company model.CompanyRecord) (model.FeeTerms, error) {
	rows := ds.FeeTermsByClientRef(clientRef)
	if len(rows) == 0 {
		return model.FeeTerms{}, fmt.Errorf("%w: client %s", apperrors.ErrFeeTermsNotFound, clientRef)
	}
	if len(rows) == 1 {
		return rows[0], nil
	}

	var narrowed []model.FeeTerms
	for _, row := range rows {
		if strings.EqualFold(row.Fund, company.FundType) {
			narrowed = append(narrowed, row)
		}
	}
	if len(narrowed) == 1 {
		return narrowed[0], nil
	}
	if len(narrowed) == 0 {
		narrowed = rows
	}

	funds := make([]string, 0, len(narrowed))
	for _, row := range narrowed {
		funds = append(funds, row.Fund)
	}
	return model.FeeTerms{}, &apperrors.AmbiguousFeeTermsError{ClientRef: clientRef, Funds: funds}
}
