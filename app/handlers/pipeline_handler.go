package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/lendwise/lendwise/app/dto"
	"github.com/lendwise/lendwise/app/middleware"
	businessflow "github.com/lendwise/lendwise/business_flow"
)

// PipelineHandler handles the origination pipeline HTTP requests:
// financial extraction, eligibility scoring, lender evaluation, and
// the offer and explanation read endpoints.
type PipelineHandler struct {
	extractionFlow businessflow.ExtractionFlow
	scoringFlow    businessflow.ScoringFlow
	lenderFlow     businessflow.LenderFlow
	validator      *validator.Validate
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(
	extractionFlow businessflow.ExtractionFlow,
	scoringFlow businessflow.ScoringFlow,
	lenderFlow businessflow.LenderFlow,
) *PipelineHandler {
	return &PipelineHandler{
		extractionFlow: extractionFlow,
		scoringFlow:    scoringFlow,
		lenderFlow:     lenderFlow,
		validator:      validator.New(),
	}
}

func (h *PipelineHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *PipelineHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// pipelineErrorResponse maps the business errors shared by every pipeline
// stage to HTTP responses. Returns nil when the error is stage-specific.
func (h *PipelineHandler) pipelineErrorResponse(c fiber.Ctx, err error) error {
	if businessflow.IsApplicationNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Application not found", dto.ErrorApplicationNotFound, nil)
	}
	if businessflow.IsNotApplicationOwner(err) {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Application belongs to another merchant", dto.ErrorNotApplicationOwner, nil)
	}
	return nil
}

// ExtractFinancials runs financial extraction for a submitted application
// @Summary Extract Financials
// @Description Derive a financial summary from the uploaded bank statement, falling back to declared revenue
// @Tags Pipeline
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ExtractFinancialsRequest true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.FinancialSummaryDTO} "Financial summary generated"
// @Failure 400 {object} dto.APIResponse "Validation error or bank statement missing"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Owned by another merchant"
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Router /api/v1/extract-financials [post]
func (h *PipelineHandler) ExtractFinancials(c fiber.Ctx) error {
	merchantID, ok := middleware.GetMerchantIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	var req dto.ExtractFinancialsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.extractionFlow.Extract(createRequestContext(c, "/api/v1/extract-financials"), merchantID, req.ApplicationID, metadata)
	if err != nil {
		middleware.RecordPipelineStage("extraction", "error")
		if resp := h.pipelineErrorResponse(c, err); resp != nil {
			return resp
		}
		if businessflow.IsBankStatementRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "A bank statement must be uploaded before extraction", dto.ErrorBankStatementRequired, nil)
		}

		log.Println("Financial extraction failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Financial extraction failed", "EXTRACTION_FAILED", nil)
	}

	middleware.RecordPipelineStage("extraction", "ok")
	return h.SuccessResponse(c, fiber.StatusOK, "Financial summary generated successfully", result)
}

// CalculateScore computes the eligibility score for an application
// @Summary Calculate Eligibility Score
// @Description Score the application from its financial summary and business profile
// @Tags Pipeline
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CalculateScoreRequest true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.EligibilityScoreDTO} "Score calculated"
// @Failure 400 {object} dto.APIResponse "Validation error or financials missing"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Owned by another merchant"
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Router /api/v1/calculate-score [post]
func (h *PipelineHandler) CalculateScore(c fiber.Ctx) error {
	merchantID, ok := middleware.GetMerchantIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	var req dto.CalculateScoreRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.scoringFlow.CalculateScore(createRequestContext(c, "/api/v1/calculate-score"), merchantID, req.ApplicationID, metadata)
	if err != nil {
		middleware.RecordPipelineStage("scoring", "error")
		if resp := h.pipelineErrorResponse(c, err); resp != nil {
			return resp
		}
		if businessflow.IsFinancialsMissing(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Financial extraction must run before scoring", dto.ErrorFinancialsMissing, nil)
		}

		log.Println("Score calculation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Score calculation failed", "SCORING_FAILED", nil)
	}

	middleware.RecordPipelineStage("scoring", "ok")
	return h.SuccessResponse(c, fiber.StatusOK, "Eligibility score calculated successfully", result)
}

// EvaluateLenders matches the application against active lenders and builds offers
// @Summary Evaluate Lenders
// @Description Run lender matching rules and generate offers for approved or conditional lenders
// @Tags Pipeline
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EvaluateLendersRequest true "Application ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.DecisionDTO} "Lender decisions generated"
// @Failure 400 {object} dto.APIResponse "Validation error or prior stage missing"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Owned by another merchant"
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Router /api/v1/evaluate-lenders [post]
func (h *PipelineHandler) EvaluateLenders(c fiber.Ctx) error {
	merchantID, ok := middleware.GetMerchantIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	var req dto.EvaluateLendersRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.lenderFlow.EvaluateLenders(createRequestContext(c, "/api/v1/evaluate-lenders"), merchantID, req.ApplicationID, metadata)
	if err != nil {
		middleware.RecordPipelineStage("matching", "error")
		if resp := h.pipelineErrorResponse(c, err); resp != nil {
			return resp
		}
		if businessflow.IsFinancialsMissing(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Financial extraction must run before lender evaluation", dto.ErrorFinancialsMissing, nil)
		}
		if businessflow.IsScoreMissing(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Score calculation must run before lender evaluation", dto.ErrorScoreMissing, nil)
		}

		log.Println("Lender evaluation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Lender evaluation failed", "EVALUATION_FAILED", nil)
	}

	middleware.RecordPipelineStage("matching", "ok")
	return h.SuccessResponse(c, fiber.StatusOK, "Lender decisions generated successfully", result)
}

// GetOffers returns the generated offers for an application
// @Summary Get Offers
// @Description List generated offers sorted by interest rate with partner offers first
// @Tags Pipeline
// @Produce json
// @Security BearerAuth
// @Param application_id query string true "Application UUID"
// @Success 200 {object} dto.APIResponse{data=[]dto.OfferDTO} "Offers retrieved"
// @Failure 400 {object} dto.APIResponse "Missing application_id"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Owned by another merchant"
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Router /api/v1/offers [get]
func (h *PipelineHandler) GetOffers(c fiber.Ctx) error {
	merchantID, ok := middleware.GetMerchantIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	applicationID := c.Query("application_id")
	if applicationID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "application_id is required", "INVALID_REQUEST", nil)
	}

	result, err := h.lenderFlow.GetOffers(createRequestContext(c, "/api/v1/offers"), merchantID, applicationID)
	if err != nil {
		if resp := h.pipelineErrorResponse(c, err); resp != nil {
			return resp
		}

		log.Println("Get offers failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve offers", "OFFERS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Offers retrieved successfully", result)
}

// GetDecisionExplanation returns the score reasoning, lender outcomes, and improvement tips
// @Summary Get Decision Explanation
// @Description Explain the eligibility decision with per-lender outcomes and improvement tips
// @Tags Pipeline
// @Produce json
// @Security BearerAuth
// @Param application_id query string true "Application UUID"
// @Success 200 {object} dto.APIResponse{data=dto.DecisionExplanationDTO} "Explanation retrieved"
// @Failure 400 {object} dto.APIResponse "Missing application_id or score missing"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Owned by another merchant"
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Router /api/v1/decision-explanation [get]
func (h *PipelineHandler) GetDecisionExplanation(c fiber.Ctx) error {
	merchantID, ok := middleware.GetMerchantIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	applicationID := c.Query("application_id")
	if applicationID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "application_id is required", "INVALID_REQUEST", nil)
	}

	result, err := h.lenderFlow.GetDecisionExplanation(createRequestContext(c, "/api/v1/decision-explanation"), merchantID, applicationID)
	if err != nil {
		if resp := h.pipelineErrorResponse(c, err); resp != nil {
			return resp
		}
		if businessflow.IsScoreMissing(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Score calculation must run before requesting an explanation", dto.ErrorScoreMissing, nil)
		}

		log.Println("Get decision explanation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve decision explanation", "EXPLANATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Decision explanation retrieved successfully", result)
}
