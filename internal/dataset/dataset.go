// Package dataset owns the in-memory record snapshot: loading the three
// source collections, indexing them for resolution, and publishing each
// snapshot atomically so in-flight calculations always observe a consistent
// view.
package dataset

import (
	"strings"
	"time"

	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
)

// SourceFile records where a collection was loaded from and the file's
// modification time at load, used to detect changes between refreshes.
type SourceFile struct {
	Path    string    `json:"path"`
	ModTime time.Time `json:"modTime"`
}

// Stats summarises a snapshot for the status endpoint.
type Stats struct {
	Investors int          `json:"investors"`
	Companies int          `json:"companies"`
	FeeTerms  int          `json:"feeTerms"`
	LoadedAt  time.Time    `json:"loadedAt"`
	Sources   []SourceFile `json:"sources"`
}

// Dataset is one immutable snapshot of the three record collections with
// lookup indexes built at construction. Never mutated after New returns;
// safe for concurrent reads.
type Dataset struct {
	Investors []model.InvestorRecord
	Companies []model.CompanyRecord
	FeeTerms  []model.FeeTerms

	LoadedAt time.Time
	Sources  []SourceFile

	companiesByName      map[string]int
	investorsByRef       map[string]int
	investorsByFullName  map[string][]int
	investorsByComponent map[string][]int
	feeTermsByRef        map[string][]int
}

// New builds a snapshot and its lookup indexes from loaded records. The
// loader guarantees reference uniqueness before calling; New only indexes.
func New(investors []model.InvestorRecord, companies []model.CompanyRecord, terms []model.FeeTerms, sources []SourceFile, loadedAt time.Time) *Dataset {
	ds := &Dataset{
		Investors: investors,
		Companies: companies,
		FeeTerms:  terms,
		LoadedAt:  loadedAt,
		Sources:   sources,

		companiesByName:      make(map[string]int, len(companies)),
		investorsByRef:       make(map[string]int, len(investors)),
		investorsByFullName:  make(map[string][]int, len(investors)),
		investorsByComponent: make(map[string][]int),
		feeTermsByRef:        make(map[string][]int, len(terms)),
	}

	for i, c := range companies {
		ds.companiesByName[c.LegalName] = i
	}

	for i, inv := range investors {
		ds.investorsByRef[inv.ClientRef] = i

		full := NormalizeName(inv.FullName())
		ds.investorsByFullName[full] = append(ds.investorsByFullName[full], i)

		seen := map[string]bool{}
		for _, token := range strings.Fields(full) {
			if seen[token] {
				continue
			}
			seen[token] = true
			ds.investorsByComponent[token] = append(ds.investorsByComponent[token], i)
		}
	}

	for i, t := range terms {
		ds.feeTermsByRef[t.ClientRef] = append(ds.feeTermsByRef[t.ClientRef], i)
	}

	return ds
}

// NormalizeName lowercases a name and collapses internal whitespace, the
// canonical form used for investor matching.
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// CompanyByName returns the company with the exact, case-sensitive legal
// name.
func (ds *Dataset) CompanyByName(name string) (model.CompanyRecord, bool) {
	i, ok := ds.companiesByName[name]
	if !ok {
		return model.CompanyRecord{}, false
	}
	return ds.Companies[i], true
}

// InvestorByClientRef returns the investor holding the given unique client
// reference.
func (ds *Dataset) InvestorByClientRef(ref string) (model.InvestorRecord, bool) {
	i, ok := ds.investorsByRef[ref]
	if !ok {
		return model.InvestorRecord{}, false
	}
	return ds.Investors[i], true
}

// InvestorsByFullName returns every investor whose normalized full name
// equals the normalized query.
func (ds *Dataset) InvestorsByFullName(query string) []model.InvestorRecord {
	return ds.investorsAt(ds.investorsByFullName[NormalizeName(query)])
}

// InvestorsByComponent returns every investor with a single name component
// (first or last name token) equal to the normalized query.
func (ds *Dataset) InvestorsByComponent(query string) []model.InvestorRecord {
	return ds.investorsAt(ds.investorsByComponent[NormalizeName(query)])
}

// FeeTermsByClientRef returns all fee-terms rows for one client reference.
func (ds *Dataset) FeeTermsByClientRef(ref string) []model.FeeTerms {
	idx := ds.feeTermsByRef[ref]
	if len(idx) == 0 {
		return nil
	}
	terms := make([]model.FeeTerms, 0, len(idx))
	for _, i := range idx {
		terms = append(terms, ds.FeeTerms[i])
	}
	return terms
}

// Stats returns the snapshot summary.
func (ds *Dataset) Stats() Stats {
	return Stats{
		Investors: len(ds.Investors),
		Companies: len(ds.Companies),
		FeeTerms:  len(ds.FeeTerms),
		LoadedAt:  ds.LoadedAt,
		Sources:   ds.Sources,
	}
}

func (ds *Dataset) investorsAt(idx []int) []model.InvestorRecord {
	if len(idx) == 0 {
		return nil
	}
	investors := make([]model.InvestorRecord, 0, len(idx))
	for _, i := range idx {
		investors = append(investors, ds.Investors[i])
	}
	return investors
}
