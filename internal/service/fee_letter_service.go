package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
	"github.com/meridiancap/Fee-Letter-Backend/internal/dataset"
	"github.com/meridiancap/Fee-Letter-Backend/internal/engine"
	"github.com/meridiancap/Fee-Letter-Backend/internal/graph"
	"github.com/meridiancap/Fee-Letter-Backend/internal/letter"
	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
	"github.com/meridiancap/Fee-Letter-Backend/internal/prompt"
	"github.com/meridiancap/Fee-Letter-Backend/internal/repository"
)

// FeeLetterService runs the full letter pipeline: resolve the request
// against the current snapshot, merge overrides, calculate, render, and for
// send operations deliver through Graph and record the letter with its audit
// figures in one transaction.
type FeeLetterService struct {
	db         *sql.DB
	store      *dataset.Store
	letterRepo *repository.LetterRepository
	renderer   *letter.Renderer
	mail       graph.Client
	mailMode   string
}

// NewFeeLetterService creates a new FeeLetterService with the provided dependencies.
func NewFeeLetterService(
	db *sql.DB,
	store *dataset.Store,
	letterRepo *repository.LetterRepository,
	renderer *letter.Renderer,
	mail graph.Client,
	mailMode string,
) *FeeLetterService {
	return &FeeLetterService{
		db:         db,
		store:      store,
		letterRepo: letterRepo,
		renderer:   renderer,
		mail:       mail,
		mailMode:   mailMode,
	}
}

// Preview runs the pipeline up to the rendered letter without delivering or
// persisting anything. Previews are repeatable: the same request against the
// same snapshot produces the same letter.
func (s *FeeLetterService) Preview(ctx context.Context, investorQuery, companyName string, amount decimal.Decimal, overrides *model.OverrideSet) (model.FeeLetterPreview, error) {
	ds, err := s.store.Current()
	if err != nil {
		return model.FeeLetterPreview{}, err
	}

	resolution, err := engine.Resolve(ds, investorQuery, companyName)
	if err != nil {
		return model.FeeLetterPreview{}, err
	}

	params, err := engine.Merge(resolution.Investor, resolution.Company, resolution.Terms, overrides)
	if err != nil {
		return model.FeeLetterPreview{}, err
	}

	result, err := engine.Calculate(params, amount)
	if err != nil {
		return model.FeeLetterPreview{}, err
	}

	reference := letter.SubscriptionRef(resolution.Investor, resolution.Company.FundType, params.Classification, resolution.Terms.SubscriptionCode)

	body, err := s.renderer.Render(letter.BuildData(resolution.Investor, resolution.Company, params, result, reference))
	if err != nil {
		return model.FeeLetterPreview{}, err
	}

	return model.FeeLetterPreview{
		Investor:        resolution.Investor,
		Company:         resolution.Company,
		Terms:           resolution.Terms,
		Params:          params,
		Result:          result,
		SubscriptionRef: reference,
		Subject:         letter.Subject(resolution.Company.LegalName),
		Body:            body,
	}, nil
}

// Send runs the pipeline, delivers the letter through Graph according to the
// configured mail mode, and records the letter with its audit figures.
// Returns ErrMailDisabled when mail mode is off. The letter row and its
// audit row commit together or not at all.
func (s *FeeLetterService) Send(ctx context.Context, investorQuery, companyName string, amount decimal.Decimal, overrides *model.OverrideSet, to string) (model.FeeLetterDelivery, error) {
	if s.mailMode == model.MailModeOff {
		return model.FeeLetterDelivery{}, apperrors.ErrMailDisabled
	}

	preview, err := s.Preview(ctx, investorQuery, companyName, amount, overrides)
	if err != nil {
		return model.FeeLetterDelivery{}, err
	}

	if to == "" {
		to = preview.Investor.Email
	}

	msg := graph.Message{
		To:      to,
		Subject: preview.Subject,
		Body:    preview.Body,
	}

	var delivery graph.Delivery
	switch s.mailMode {
	case model.MailModeDraft:
		delivery, err = s.mail.CreateDraft(ctx, msg)
	case model.MailModeSend:
		delivery, err = s.mail.Send(ctx, msg)
	default:
		return model.FeeLetterDelivery{}, fmt.Errorf("unknown mail mode %q", s.mailMode)
	}
	if err != nil {
		return model.FeeLetterDelivery{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToSendMail, err)
	}

	now := time.Now().UTC()
	letterRow := model.FeeLetter{
		ID:              uuid.New().String(),
		SubscriptionRef: preview.SubscriptionRef,
		ClientRef:       preview.Investor.ClientRef,
		InvestorName:    preview.Investor.FullName(),
		InvestorEmail:   to,
		CompanyName:     preview.Company.LegalName,
		FundType:        preview.Company.FundType,
		Convention:      preview.Result.Convention,
		Mode:            delivery.Mode,
		MessageID:       delivery.MessageID,
		Subject:         preview.Subject,
		Body:            preview.Body,
		CreatedAt:       now,
	}

	if err := s.record(ctx, letterRow, buildAudit(letterRow.ID, preview.Params, preview.Result, now)); err != nil {
		return model.FeeLetterDelivery{}, err
	}

	return model.FeeLetterDelivery{
		LetterID:  letterRow.ID,
		Mode:      letterRow.Mode,
		MessageID: letterRow.MessageID,
		To:        to,
	}, nil
}

// record writes the letter and its audit figures in one transaction.
func (s *FeeLetterService) record(ctx context.Context, letterRow model.FeeLetter, audit model.FeeLetterAudit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToRecordLetter, err)
	}

	txRepo := s.letterRepo.WithTx(tx)

	if err := txRepo.Insert(ctx, letterRow); err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToRecordLetter, err)
	}

	if err := txRepo.InsertAudit(ctx, audit); err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToRecordLetter, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToRecordLetter, err)
	}

	return nil
}

// GetLetters retrieves stored letters, newest first. A limit of 0 means all.
func (s *FeeLetterService) GetLetters(ctx context.Context, limit int) ([]model.FeeLetter, error) {
	letters, err := s.letterRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveLetters, err)
	}
	return letters, nil
}

// GetLetter retrieves one letter with its audit figures.
func (s *FeeLetterService) GetLetter(ctx context.Context, id string) (model.FeeLetterDetail, error) {
	letterRow, err := s.letterRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrLetterNotFound) {
			return model.FeeLetterDetail{}, err
		}
		return model.FeeLetterDetail{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveLetter, err)
	}

	audit, err := s.letterRepo.GetAuditByLetterID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrLetterNotFound) {
			return model.FeeLetterDetail{}, err
		}
		return model.FeeLetterDetail{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveLetter, err)
	}

	return model.FeeLetterDetail{Letter: letterRow, Audit: audit}, nil
}

// ParsePrompt extracts a structured request from free-form text. Extraction
// never resolves records; the caller feeds the result back through Preview
// or Send where normal resolution applies.
func (s *FeeLetterService) ParsePrompt(text string) prompt.ParsedRequest {
	return prompt.Parse(text)
}

// buildAudit captures the presented figures of one letter as plain decimal
// strings: money at two places, rates in percentage points, share values at
// full precision.
func buildAudit(letterID string, params model.EffectiveParameters, result model.CalculationResult, createdAt time.Time) model.FeeLetterAudit {
	money := func(d decimal.Decimal) string {
		return model.RoundCurrency(d).StringFixed(2)
	}

	return model.FeeLetterAudit{
		ID:                uuid.New().String(),
		LetterID:          letterID,
		StatedAmount:      money(result.StatedAmount),
		Investment:        money(result.Investment),
		UpfrontRatePct:    letter.FormatPercent(params.UpfrontRate),
		AMCYears13RatePct: letter.FormatPercent(params.AMCYears13Rate),
		AMCYears45RatePct: letter.FormatPercent(params.AMCYears45Rate),
		CarryRatePct:      letter.FormatPercent(params.CarryRate),
		UpfrontTotal:      money(result.Upfront.Total),
		AMCYears13Total:   money(result.AMCYears13.Total),
		AMCYears45Total:   money(result.AMCYears45.Total),
		TotalFees:         money(result.TotalFees),
		TotalTransfer:     money(result.TotalTransfer),
		SharePrice:        params.SharePrice.String(),
		ShareQuantity:     result.Shares.Exact.String(),
		CreatedAt:         createdAt,
	}
}
