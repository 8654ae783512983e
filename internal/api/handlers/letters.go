package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/meridiancap/Fee-Letter-Backend/internal/api/request"
	"github.com/meridiancap/Fee-Letter-Backend/internal/api/response"
	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
	"github.com/meridiancap/Fee-Letter-Backend/internal/letter"
	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
	"github.com/meridiancap/Fee-Letter-Backend/internal/service"
	"github.com/meridiancap/Fee-Letter-Backend/internal/validation"
	"github.com/shopspring/decimal"
)

// LetterHandler handles fee letter HTTP requests
type LetterHandler struct {
	feeLetterService *service.FeeLetterService
}

// NewLetterHandler creates a new LetterHandler
func NewLetterHandler(feeLetterService *service.FeeLetterService) *LetterHandler {
	return &LetterHandler{
		feeLetterService: feeLetterService,
	}
}

// FeeFigureResponse is one fee component with presentation-rounded figures.
// RatePct is the annual (or one-off) rate in percentage points.
type FeeFigureResponse struct {
	RatePct    string `json:"ratePct"`
	Years      int    `json:"years,omitempty"`
	Amount     string `json:"amount"`
	VAT        string `json:"vat"`
	Total      string `json:"total"`
	Contingent bool   `json:"contingent,omitempty"`
}

// ShareRecommendationResponse is the nearest whole-share alternative for a
// fractional exact quantity.
type ShareRecommendationResponse struct {
	Shares     string `json:"shares"`
	Investment string `json:"investment"`
}

// SharesResponse carries the derived share quantity.
type SharesResponse struct {
	Exact       string                       `json:"exact"`
	Recommended *ShareRecommendationResponse `json:"recommended,omitempty"`
}

// LetterFiguresResponse carries every calculated figure as two-decimal
// strings, matching the letter presentation. Share price and quantity keep
// full precision.
type LetterFiguresResponse struct {
	Convention    string            `json:"convention"`
	StatedAmount  string            `json:"statedAmount"`
	Investment    string            `json:"investment"`
	Upfront       FeeFigureResponse `json:"upfront"`
	AMCYears13    FeeFigureResponse `json:"amcYears13"`
	AMCYears45    FeeFigureResponse `json:"amcYears45"`
	Carry         FeeFigureResponse `json:"carry"`
	TotalFees     string            `json:"totalFees"`
	TotalTransfer string            `json:"totalTransfer"`
	SharePrice    string            `json:"sharePrice"`
	Shares        SharesResponse    `json:"shares"`
}

// LetterPreviewResponse is the outcome of a preview run: the resolved
// records, the figures, and the rendered document.
type LetterPreviewResponse struct {
	Investor        model.InvestorRecord  `json:"investor"`
	Company         model.CompanyRecord   `json:"company"`
	SubscriptionRef string                `json:"subscriptionRef"`
	Figures         LetterFiguresResponse `json:"figures"`
	Subject         string                `json:"subject"`
	Body            string                `json:"body"`
}

// Preview handles POST requests to run the full letter pipeline without
// sending or persisting anything.
//
// Endpoint: POST /api/letter/preview
// Request Body: LetterRequest (investor, company, amount, optional overrides)
// Response: 200 OK with LetterPreviewResponse
// Error: 400 Bad Request if validation fails or a fee parameter is out of domain
// Error: 404 Not Found if the investor, company, or fee terms cannot be resolved
// Error: 409 Conflict if the investor query or fee terms are ambiguous
// Error: 422 Unprocessable Entity if the net convention cannot be solved
// Error: 503 Service Unavailable if no dataset snapshot is loaded
func (h *LetterHandler) Preview(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LetterRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateLetterRequest(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	preview, err := h.feeLetterService.Preview(r.Context(), req.Investor, req.Company, req.Amount, req.Overrides)
	if err != nil {
		respondPipelineError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, previewResponse(preview))
}

// Send handles POST requests to run the pipeline, deliver the letter through
// Microsoft Graph, and record it with its audit figures.
//
// Endpoint: POST /api/letter/send
// Request Body: LetterRequest (investor, company, amount, optional overrides, optional to)
// Response: 201 Created with FeeLetterDelivery
// Error: 400/404/409/422/503 as for Preview
// Error: 409 Conflict if mail delivery is disabled
// Error: 502 Bad Gateway if the Graph call fails
func (h *LetterHandler) Send(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LetterRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateLetterRequest(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	delivery, err := h.feeLetterService.Send(r.Context(), req.Investor, req.Company, req.Amount, req.Overrides, req.To)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMailDisabled):
			response.RespondError(w, http.StatusConflict, apperrors.ErrMailDisabled.Error(), err.Error())
		case errors.Is(err, apperrors.ErrFailedToSendMail):
			response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToSendMail.Error(), err.Error())
		case errors.Is(err, apperrors.ErrFailedToRecordLetter):
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRecordLetter.Error(), err.Error())
		default:
			respondPipelineError(w, err)
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, delivery)
}

// Parse handles POST requests to extract letter parameters from free text.
// Extraction never resolves records; the caller confirms the result and
// feeds it back through Preview or Send.
//
// Endpoint: POST /api/letter/parse
// Request Body: ParseRequest (text)
// Response: 200 OK with prompt.ParsedRequest
// Error: 400 Bad Request if the body is invalid or text is blank
func (h *LetterHandler) Parse(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ParseRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateParseRequest(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	parsed := h.feeLetterService.ParsePrompt(req.Text)
	response.RespondJSON(w, http.StatusOK, parsed)
}

// Letters handles GET requests to list issued letters, newest first.
//
// Endpoint: GET /api/letter?limit=25
// Response: 200 OK with []FeeLetter
// Error: 400 Bad Request if limit is not a positive integer
// Error: 500 Internal Server Error if retrieval fails
func (h *LetterHandler) Letters(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.RespondError(w, http.StatusBadRequest, "invalid limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	letters, err := h.feeLetterService.GetLetters(r.Context(), limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveLetters.Error(), err.Error())
		return
	}

	if letters == nil {
		letters = []model.FeeLetter{}
	}

	response.RespondJSON(w, http.StatusOK, letters)
}

// Letter handles GET requests to retrieve one letter with its audit figures.
//
// Endpoint: GET /api/letter/{uuid}
// Response: 200 OK with FeeLetterDetail
// Error: 400 Bad Request if the ID is not a UUID (validated by middleware)
// Error: 404 Not Found if no letter has the ID
// Error: 500 Internal Server Error if retrieval fails
func (h *LetterHandler) Letter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	detail, err := h.feeLetterService.GetLetter(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrLetterNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrLetterNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveLetter.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, detail)
}

// respondPipelineError maps resolution and calculation failures onto HTTP
// statuses. Ambiguity responses carry the candidates in the details payload
// so the caller can disambiguate without a second request.
func respondPipelineError(w http.ResponseWriter, err error) {
	var ambiguousInvestor *apperrors.AmbiguousInvestorError
	var ambiguousTerms *apperrors.AmbiguousFeeTermsError

	switch {
	case errors.Is(err, apperrors.ErrDatasetNotLoaded):
		response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrDatasetNotLoaded.Error(), err.Error())
	case errors.As(err, &ambiguousInvestor):
		response.RespondError(w, http.StatusConflict, apperrors.ErrAmbiguousInvestor.Error(), ambiguousInvestor.Candidates)
	case errors.As(err, &ambiguousTerms):
		response.RespondError(w, http.StatusConflict, apperrors.ErrAmbiguousFeeTerms.Error(), ambiguousTerms.Funds)
	case errors.Is(err, apperrors.ErrInvestorNotFound),
		errors.Is(err, apperrors.ErrCompanyNotFound),
		errors.Is(err, apperrors.ErrFeeTermsNotFound):
		response.RespondError(w, http.StatusNotFound, "record not found", err.Error())
	case errors.Is(err, apperrors.ErrInvalidOverride),
		errors.Is(err, apperrors.ErrRateOutOfRange),
		errors.Is(err, apperrors.ErrNonPositiveAmount),
		errors.Is(err, apperrors.ErrNonPositiveSharePrice):
		response.RespondError(w, http.StatusBadRequest, "invalid fee parameters", err.Error())
	case errors.Is(err, apperrors.ErrUnsolvableNetConvention):
		response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrUnsolvableNetConvention.Error(), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, "letter pipeline failed", err.Error())
	}
}

func previewResponse(p model.FeeLetterPreview) LetterPreviewResponse {
	return LetterPreviewResponse{
		Investor:        p.Investor,
		Company:         p.Company,
		SubscriptionRef: p.SubscriptionRef,
		Figures:         letterFigures(p.Params, p.Result),
		Subject:         p.Subject,
		Body:            p.Body,
	}
}

func letterFigures(params model.EffectiveParameters, result model.CalculationResult) LetterFiguresResponse {
	money := func(d decimal.Decimal) string {
		return model.RoundCurrency(d).StringFixed(2)
	}

	figures := LetterFiguresResponse{
		Convention:    result.Convention,
		StatedAmount:  money(result.StatedAmount),
		Investment:    money(result.Investment),
		Upfront:       feeFigure(result.Upfront),
		AMCYears13:    feeFigure(result.AMCYears13),
		AMCYears45:    feeFigure(result.AMCYears45),
		Carry:         feeFigure(result.Carry),
		TotalFees:     money(result.TotalFees),
		TotalTransfer: money(result.TotalTransfer),
		SharePrice:    params.SharePrice.String(),
		Shares: SharesResponse{
			Exact: result.Shares.Exact.String(),
		},
	}

	if rec := result.Shares.Recommended; rec != nil {
		figures.Shares.Recommended = &ShareRecommendationResponse{
			Shares:     rec.Shares.String(),
			Investment: money(rec.Investment),
		}
	}

	return figures
}

func feeFigure(line model.FeeLine) FeeFigureResponse {
	return FeeFigureResponse{
		RatePct:    letter.FormatPercent(line.Rate),
		Years:      line.Years,
		Amount:     model.RoundCurrency(line.Amount).StringFixed(2),
		VAT:        model.RoundCurrency(line.VAT).StringFixed(2),
		Total:      model.RoundCurrency(line.Total).StringFixed(2),
		Contingent: line.Contingent,
	}
}
