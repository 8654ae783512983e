package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
)

// LetterRepository provides data access methods for the fee_letter and
// fee_letter_audit tables. Letter and audit rows are always written in the
// same transaction; use WithTx to bind both inserts to one.
type LetterRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewLetterRepository creates a new LetterRepository with the provided database connection.
func NewLetterRepository(db *sql.DB) *LetterRepository {
	return &LetterRepository{db: db}
}

func (r *LetterRepository) WithTx(tx *sql.Tx) *LetterRepository {
	return &LetterRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *LetterRepository) getQuerier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Insert stores one generated letter.
func (r *LetterRepository) Insert(ctx context.Context, letter model.FeeLetter) error {
	query := `
        INSERT INTO fee_letter (id, subscription_ref, client_ref, investor_name, investor_email, company_name, fund_type, convention, mode, message_id, subject, body, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	messageID := sql.NullString{String: letter.MessageID, Valid: letter.MessageID != ""}

	_, err := r.getQuerier().ExecContext(ctx, query,
		letter.ID,
		letter.SubscriptionRef,
		letter.ClientRef,
		letter.InvestorName,
		letter.InvestorEmail,
		letter.CompanyName,
		letter.FundType,
		letter.Convention,
		letter.Mode,
		messageID,
		letter.Subject,
		letter.Body,
		letter.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fee_letter: %w", err)
	}

	return nil
}

// InsertAudit stores the presented figures of one letter.
func (r *LetterRepository) InsertAudit(ctx context.Context, audit model.FeeLetterAudit) error {
	query := `
        INSERT INTO fee_letter_audit (id, letter_id, stated_amount, investment, upfront_rate_pct, amc_years_1_3_rate_pct, amc_years_4_5_rate_pct, carry_rate_pct, upfront_total, amc_years_1_3_total, amc_years_4_5_total, total_fees, total_transfer, share_price, share_quantity, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	_, err := r.getQuerier().ExecContext(ctx, query,
		audit.ID,
		audit.LetterID,
		audit.StatedAmount,
		audit.Investment,
		audit.UpfrontRatePct,
		audit.AMCYears13RatePct,
		audit.AMCYears45RatePct,
		audit.CarryRatePct,
		audit.UpfrontTotal,
		audit.AMCYears13Total,
		audit.AMCYears45Total,
		audit.TotalFees,
		audit.TotalTransfer,
		audit.SharePrice,
		audit.ShareQuantity,
		audit.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fee_letter_audit: %w", err)
	}

	return nil
}

// List retrieves stored letters, newest first. A limit of 0 means no limit.
func (r *LetterRepository) List(ctx context.Context, limit int) ([]model.FeeLetter, error) {
	query := `
        SELECT id, subscription_ref, client_ref, investor_name, investor_email, company_name, fund_type, convention, mode, message_id, subject, body, created_at
        FROM fee_letter
        ORDER BY created_at DESC, id
    `

	var args []any

	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fee_letter table: %w", err)
	}
	defer rows.Close()

	letters := []model.FeeLetter{}

	for rows.Next() {
		letter, err := scanLetter(rows.Scan)
		if err != nil {
			return nil, err
		}
		letters = append(letters, letter)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fee_letter listings: %w", err)
	}

	return letters, nil
}

// GetByID retrieves one letter by its ID.
// Returns ErrLetterNotFound if no record with the given ID exists.
func (r *LetterRepository) GetByID(ctx context.Context, id string) (model.FeeLetter, error) {
	query := `
        SELECT id, subscription_ref, client_ref, investor_name, investor_email, company_name, fund_type, convention, mode, message_id, subject, body, created_at
        FROM fee_letter
        WHERE id = ?
    `

	row := r.getQuerier().QueryRowContext(ctx, query, id)

	letter, err := scanLetter(row.Scan)
	if err == sql.ErrNoRows {
		return model.FeeLetter{}, apperrors.ErrLetterNotFound
	}
	if err != nil {
		return model.FeeLetter{}, err
	}

	return letter, nil
}

// GetAuditByLetterID retrieves the audit figures recorded for one letter.
// Returns ErrLetterNotFound if no audit row exists for the given letter.
func (r *LetterRepository) GetAuditByLetterID(ctx context.Context, letterID string) (model.FeeLetterAudit, error) {
	query := `
        SELECT id, letter_id, stated_amount, investment, upfront_rate_pct, amc_years_1_3_rate_pct, amc_years_4_5_rate_pct, carry_rate_pct, upfront_total, amc_years_1_3_total, amc_years_4_5_total, total_fees, total_transfer, share_price, share_quantity, created_at
        FROM fee_letter_audit
        WHERE letter_id = ?
    `

	var a model.FeeLetterAudit
	var createdAtStr string

	err := r.getQuerier().QueryRowContext(ctx, query, letterID).Scan(
		&a.ID,
		&a.LetterID,
		&a.StatedAmount,
		&a.Investment,
		&a.UpfrontRatePct,
		&a.AMCYears13RatePct,
		&a.AMCYears45RatePct,
		&a.CarryRatePct,
		&a.UpfrontTotal,
		&a.AMCYears13Total,
		&a.AMCYears45Total,
		&a.TotalFees,
		&a.TotalTransfer,
		&a.SharePrice,
		&a.ShareQuantity,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.FeeLetterAudit{}, apperrors.ErrLetterNotFound
	}
	if err != nil {
		return model.FeeLetterAudit{}, fmt.Errorf("failed to query fee_letter_audit table: %w", err)
	}

	a.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.FeeLetterAudit{}, err
	}

	return a, nil
}

// scanLetter scans one fee_letter row through the given Scan function so the
// single-row and multi-row paths share column order.
func scanLetter(scan func(dest ...any) error) (model.FeeLetter, error) {
	var letter model.FeeLetter
	var messageID sql.NullString
	var createdAtStr string

	err := scan(
		&letter.ID,
		&letter.SubscriptionRef,
		&letter.ClientRef,
		&letter.InvestorName,
		&letter.InvestorEmail,
		&letter.CompanyName,
		&letter.FundType,
		&letter.Convention,
		&letter.Mode,
		&messageID,
		&letter.Subject,
		&letter.Body,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.FeeLetter{}, err
	}
	if err != nil {
		return model.FeeLetter{}, fmt.Errorf("failed to scan fee_letter table results: %w", err)
	}

	if messageID.Valid {
		letter.MessageID = messageID.String
	}

	letter.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.FeeLetter{}, err
	}

	return letter, nil
}
