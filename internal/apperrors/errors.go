package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Resolution errors represent failures mapping a request onto the loaded
// dataset. Ambiguity is always an error: the resolver never picks a
// candidate on the caller's behalf.
var (
	// ErrInvestorNotFound indicates that an investor query matched no record.
	ErrInvestorNotFound = errors.New("investor not found")

	// ErrAmbiguousInvestor indicates that an investor query matched more than
	// one record. The wrapping AmbiguousInvestorError carries the candidates.
	ErrAmbiguousInvestor = errors.New("ambiguous investor")

	// ErrCompanyNotFound indicates that no company matches the given legal
	// name exactly. Company lookup is case-sensitive.
	ErrCompanyNotFound = errors.New("company not found")

	// ErrFeeTermsNotFound indicates that an investor has no fee-terms row.
	ErrFeeTermsNotFound = errors.New("fee terms not found")

	// ErrAmbiguousFeeTerms indicates that more than one fee-terms row matched
	// and the company's fund type could not narrow them to one.
	ErrAmbiguousFeeTerms = errors.New("ambiguous fee terms")
)

// Parameter and calculation errors represent invalid inputs or fee
// structures for which no result can be produced. A calculation either
// yields a fully valid result or one of these; there is no partial success.
var (
	// ErrInvalidOverride indicates that a per-request override is out of
	// domain. The wrapping InvalidOverrideError names the field and reason.
	ErrInvalidOverride = errors.New("invalid override")

	// ErrRateOutOfRange indicates a normalized fee rate outside [0, 1].
	ErrRateOutOfRange = errors.New("rate out of range")

	// ErrNonPositiveAmount indicates a zero or negative investment amount.
	ErrNonPositiveAmount = errors.New("investment amount must be positive")

	// ErrNonPositiveSharePrice indicates a zero or negative share price.
	ErrNonPositiveSharePrice = errors.New("share price must be positive")

	// ErrUnsolvableNetConvention indicates that the combined fee rates reach
	// or exceed 100%, so no positive net principal reproduces the stated
	// total.
	ErrUnsolvableNetConvention = errors.New("unsolvable net convention")
)

// Dataset errors represent failures loading or consulting the record
// snapshot.
var (
	// ErrDatasetNotLoaded indicates that no snapshot has been published yet.
	ErrDatasetNotLoaded = errors.New("dataset not loaded")

	// ErrInvalidCSVHeaders indicates a source file whose header row does not
	// match the collection contract.
	ErrInvalidCSVHeaders = errors.New("invalid CSV headers")

	// ErrMissingRequiredField indicates a required cell is empty.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidFieldValue indicates a cell outside its closed set or an
	// unparseable numeric value.
	ErrInvalidFieldValue = errors.New("invalid field value")

	// ErrDuplicateEntry indicates a duplicate client reference or company
	// name within one load.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrDataInconsistency indicates a cross-collection violation, such as a
	// fee-terms row referencing an unknown client reference.
	ErrDataInconsistency = errors.New("data inconsistency detected")
)

// Mail and settings errors.
var (
	// ErrLetterNotFound indicates that a letter with the given ID does not exist.
	ErrLetterNotFound = errors.New("letter not found")

	// ErrSettingNotFound indicates that a system setting key has no row.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrMailTokenNotSet indicates that mail delivery was requested before a
	// Graph token was stored.
	ErrMailTokenNotSet = errors.New("mail token not set")

	// ErrMailDisabled indicates that mail mode is off.
	ErrMailDisabled = errors.New("mail delivery disabled")
)

// Operation failure errors represent system-level failures when retrieving
// or processing data, distinct from missing entities and validation issues.
var (
	ErrFailedToLoadDataset     = errors.New("failed to load dataset")
	ErrFailedToRenderLetter    = errors.New("failed to render letter")
	ErrFailedToSendMail        = errors.New("failed to send mail")
	ErrFailedToRecordLetter    = errors.New("failed to record letter")
	ErrFailedToRetrieveLetters = errors.New("failed to retrieve letters")
	ErrFailedToRetrieveLetter  = errors.New("failed to retrieve letter")
	ErrFailedToStoreSetting    = errors.New("failed to store setting")
	ErrFailedToGetVersionInfo  = errors.New("failed to get version information")
)

// Candidate identifies one investor record matched by an ambiguous query.
type Candidate struct {
	Name      string `json:"name"`
	ClientRef string `json:"clientRef"`
}

// AmbiguousInvestorError reports an investor query that matched more than
// one record, carrying every candidate so the caller can disambiguate.
type AmbiguousInvestorError struct {
	Query      string
	Candidates []Candidate
}

func (e *AmbiguousInvestorError) Error() string {
	names := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		names = append(names, fmt.Sprintf("%s (%s)", c.Name, c.ClientRef))
	}
	return fmt.Sprintf("ambiguous investor %q: matches %s", e.Query, strings.Join(names, ", "))
}

func (e *AmbiguousInvestorError) Unwrap() error { return ErrAmbiguousInvestor }

// AmbiguousFeeTermsError reports fee-terms rows that the company's fund type
// could not narrow to one, carrying the candidate fund identifiers.
type AmbiguousFeeTermsError struct {
	ClientRef string
	Funds     []string
}

func (e *AmbiguousFeeTermsError) Error() string {
	return fmt.Sprintf("ambiguous fee terms for client %s: funds %s", e.ClientRef, strings.Join(e.Funds, ", "))
}

func (e *AmbiguousFeeTermsError) Unwrap() error { return ErrAmbiguousFeeTerms }

// InvalidOverrideError reports one out-of-domain override field.
type InvalidOverrideError struct {
	Field  string
	Reason string
}

func (e *InvalidOverrideError) Error() string {
	return fmt.Sprintf("invalid override %s: %s", e.Field, e.Reason)
}

func (e *InvalidOverrideError) Unwrap() error { return ErrInvalidOverride }
