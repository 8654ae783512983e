package testutil

import (
	"database/sql"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"

	"github.com/meridiancap/Fee-Letter-Backend/internal/dataset"
	"github.com/meridiancap/Fee-Letter-Backend/internal/graph"
	"github.com/meridiancap/Fee-Letter-Backend/internal/letter"
	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
	"github.com/meridiancap/Fee-Letter-Backend/internal/repository"
	"github.com/meridiancap/Fee-Letter-Backend/internal/service"
)

// NewTestRenderer creates a renderer on the embedded letter template.
func NewTestRenderer(t *testing.T) *letter.Renderer {
	t.Helper()

	renderer, err := letter.NewRenderer("")
	if err != nil {
		t.Fatalf("Failed to create test renderer: %v", err)
	}
	return renderer
}

// NewTestFeeLetterService creates a FeeLetterService over the given snapshot
// with a fresh mock Graph client in draft mode.
func NewTestFeeLetterService(t *testing.T, db *sql.DB, ds *dataset.Dataset) *service.FeeLetterService {
	t.Helper()

	return NewTestFeeLetterServiceWithMail(t, db, ds, NewMockGraphClient(), model.MailModeDraft)
}

// NewTestFeeLetterServiceWithMail creates a FeeLetterService with the given
// mail client and mode. Pass a MockGraphClient to assert on deliveries.
func NewTestFeeLetterServiceWithMail(t *testing.T, db *sql.DB, ds *dataset.Dataset, mail graph.Client, mailMode string) *service.FeeLetterService {
	t.Helper()

	letterRepo := repository.NewLetterRepository(db)

	return service.NewFeeLetterService(
		db,
		NewDatasetStore(ds),
		letterRepo,
		NewTestRenderer(t),
		mail,
		mailMode,
	)
}

// NewTestSettingsRepository creates a SettingsRepository with a fresh fernet key.
func NewTestSettingsRepository(t *testing.T, db *sql.DB) *repository.SettingsRepository {
	t.Helper()

	settingsRepo, err := repository.NewSettingsRepository(db, MakeFernetKey(t))
	if err != nil {
		t.Fatalf("Failed to create test settings repository: %v", err)
	}
	return settingsRepo
}

// NewTestSystemService creates a SystemService with all features reported enabled.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	features := map[string]bool{
		"mail":             true,
		"scheduledRefresh": true,
	}

	return service.NewSystemService(db, NewTestSettingsRepository(t, db), features)
}

// NewTestDatasetService creates a DatasetService over source files written
// to a temp directory, together with its store and the file paths in
// investors, companies, fee-terms order. Nothing is loaded yet.
func NewTestDatasetService(t *testing.T, investorsCSV, companiesCSV, feeTermsCSV string) (*service.DatasetService, *dataset.Store, [3]string) {
	t.Helper()

	investors, companies, feeTerms := WriteSourceFiles(t, investorsCSV, companiesCSV, feeTermsCSV)

	store := dataset.NewStore()
	loader := dataset.NewLoader(investors, companies, feeTerms)

	return service.NewDatasetService(loader, store), store, [3]string{investors, companies, feeTerms}
}

// WriteSourceFiles writes the three source collections to a temp directory
// and returns their paths.
func WriteSourceFiles(t *testing.T, investorsCSV, companiesCSV, feeTermsCSV string) (string, string, string) {
	t.Helper()

	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write source file %s: %v", name, err)
		}
		return path
	}

	return write("investors.csv", investorsCSV),
		write("companies.csv", companiesCSV),
		write("fee_terms.csv", feeTermsCSV)
}

// Sample source collections accepted by the loader. Alice Brown is
// professional with terms on both funds; Carlos Delgado is retail with a
// single empty-rate net row.
const (
	SampleInvestorsCSV = `client_ref,first_name,last_name,email,salutation,classification
AB123,Alice,Brown,alice.brown@example.com,Alice,professional
CD456,Carlos,Delgado,carlos.delgado@example.com,Carlos,retail
`

	SampleCompaniesCSV = `legal_name,fund_type,share_class,share_price
Acme Robotics Ltd,EIS,Ordinary,0.50
Nova Biotech Ltd,KIC,B Ordinary,0.28
`

	SampleFeeTermsCSV = `client_ref,fund,gross_net,upfront_rate,amc_rate,carry_rate,subscription_code
AB123,EIS,gross,2,2,20,
AB123,KIC,net,1.5,,25,AB-SPECIAL-1
CD456,EIS,net,,,,
`
)

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeClientRef generates a unique client reference for testing.
//
// Example usage:
//
//	ref := testutil.MakeClientRef()
//	// Returns: "CR1A2B3C"
func MakeClientRef() string {
	return "CR" + randomAlphanumeric(6)
}

// MakeCompanyName generates a unique company legal name for testing.
//
// Example usage:
//
//	name := testutil.MakeCompanyName("Acme")
//	// Returns: "Acme XYZ789 Ltd"
func MakeCompanyName(base string) string {
	if base == "" {
		base = "Company"
	}
	return base + " " + randomAlphanumeric(6) + " Ltd"
}

// MakeFernetKey generates a fresh base64 fernet key for testing.
func MakeFernetKey(t *testing.T) string {
	t.Helper()

	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate fernet key: %v", err)
	}
	return key.Encode()
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
