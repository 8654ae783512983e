package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Fee letter table
		CREATE TABLE fee_letter (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			subscription_ref VARCHAR(64) NOT NULL,
			client_ref VARCHAR(32) NOT NULL,
			investor_name VARCHAR(255) NOT NULL,
			investor_email VARCHAR(255) NOT NULL,
			company_name VARCHAR(255) NOT NULL,
			fund_type VARCHAR(16) NOT NULL,
			convention VARCHAR(8) NOT NULL,
			mode VARCHAR(8) NOT NULL,
			message_id VARCHAR(255),
			subject VARCHAR(255) NOT NULL,
			body TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX idx_fee_letter_client_ref ON fee_letter(client_ref);
		CREATE INDEX idx_fee_letter_created_at ON fee_letter(created_at);

		-- Audit figures, one row per letter
		CREATE TABLE fee_letter_audit (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			letter_id VARCHAR(36) NOT NULL REFERENCES fee_letter(id),
			stated_amount VARCHAR(32) NOT NULL,
			investment VARCHAR(32) NOT NULL,
			upfront_rate_pct VARCHAR(16) NOT NULL,
			amc_years_1_3_rate_pct VARCHAR(16) NOT NULL,
			amc_years_4_5_rate_pct VARCHAR(16) NOT NULL,
			carry_rate_pct VARCHAR(16) NOT NULL,
			upfront_total VARCHAR(32) NOT NULL,
			amc_years_1_3_total VARCHAR(32) NOT NULL,
			amc_years_4_5_total VARCHAR(32) NOT NULL,
			total_fees VARCHAR(32) NOT NULL,
			total_transfer VARCHAR(32) NOT NULL,
			share_price VARCHAR(32) NOT NULL,
			share_quantity VARCHAR(32) NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX idx_fee_letter_audit_letter_id ON fee_letter_audit(letter_id);

		-- System settings table
		CREATE TABLE system_setting (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			"key" VARCHAR(64) NOT NULL UNIQUE,
			value TEXT NOT NULL,
			updated_at DATETIME
		);
	`

	_, err := db.Exec(schema)
	return err
}
