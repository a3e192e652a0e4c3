package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/lendwise/lendwise/app/dto"
	"github.com/lendwise/lendwise/app/middleware"
	businessflow "github.com/lendwise/lendwise/business_flow"
)

// ApplicationHandler handles loan application HTTP requests
type ApplicationHandler struct {
	applicationFlow businessflow.ApplicationFlow
	validator       *validator.Validate
}

// NewApplicationHandler creates a new loan application handler
func NewApplicationHandler(applicationFlow businessflow.ApplicationFlow) *ApplicationHandler {
	return &ApplicationHandler{
		applicationFlow: applicationFlow,
		validator:       validator.New(),
	}
}

func (h *ApplicationHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ApplicationHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// applicationErrorResponse maps shared application business errors to HTTP responses.
// Returns nil when the error is not one of the shared cases.
func (h *ApplicationHandler) applicationErrorResponse(c fiber.Ctx, err error) error {
	if businessflow.IsApplicationNotFound(err) {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Application not found", dto.ErrorApplicationNotFound, nil)
	}
	if businessflow.IsNotApplicationOwner(err) {
		return h.ErrorResponse(c, fiber.StatusForbidden, "Application belongs to another merchant", dto.ErrorNotApplicationOwner, nil)
	}
	return nil
}

// Create starts a new draft loan application
// @Summary Create Loan Application
// @Description Create a new draft loan application for the authenticated merchant
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateApplicationRequest true "Loan type and requested amount"
// @Success 201 {object} dto.APIResponse{data=dto.ApplicationDTO} "Application created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/applications [post]
func (h *ApplicationHandler) Create(c fiber.Ctx) error {
	merchantID, ok := middleware.GetMerchantIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	var req dto.CreateApplicationRequest
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

	result, err := h.applicationFlow.Create(createRequestContext(c, "/api/v1/applications"), merchantID, &req, metadata)
	if err != nil {
		log.Println("Create application failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create application", "APPLICATION_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Application created successfully", result)
}

// List returns the authenticated merchant's applications
// @Summary List Loan Applications
// @Description List all loan applications owned by the authenticated merchant, newest first
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ApplicationListItemDTO} "Applications retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/applications [get]
func (h *ApplicationHandler) List(c fiber.Ctx) error {
	merchantID, ok := middleware.GetMerchantIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	result, err := h.applicationFlow.List(createRequestContext(c, "/api/v1/applications"), merchantID)
	if err != nil {
		log.Println("List applications failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list applications", "APPLICATION_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Applications retrieved successfully", result)
}

// Get returns one application with its nested pipeline results
// @Summary Get Loan Application
// @Description Retrieve a single application with documents, financials, score, decisions, and offers
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Application UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationDTO} "Application retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Owned by another merchant"
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Router /api/v1/applications/{uuid} [get]
func (h *ApplicationHandler) Get(c fiber.Ctx) error {
	merchantID, ok := middleware.GetMerchantIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	applicationUUID := c.Params("uuid")
	if applicationUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Application UUID is required", "INVALID_REQUEST", nil)
	}

	result, err := h.applicationFlow.Get(createRequestContext(c, "/api/v1/applications/:uuid"), merchantID, applicationUUID)
	if err != nil {
		if resp := h.applicationErrorResponse(c, err); resp != nil {
			return resp
		}

		log.Println("Get application failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve application", "APPLICATION_GET_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Application retrieved successfully", result)
}

// Update edits a draft application
// @Summary Update Loan Application
// @Description Partially update a draft application. Business profile fields update the merchant record.
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Application UUID"
// @Param request body dto.UpdateApplicationRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationDTO} "Application updated"
// @Failure 400 {object} dto.APIResponse "Validation error or application not editable"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Owned by another merchant"
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Router /api/v1/applications/{uuid} [patch]
func (h *ApplicationHandler) Update(c fiber.Ctx) error {
	merchantID, ok := middleware.GetMerchantIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	applicationUUID := c.Params("uuid")

	var req dto.UpdateApplicationRequest
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

	if !req.HasUpdates() {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "No fields to update", "NO_UPDATES", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.applicationFlow.Update(createRequestContext(c, "/api/v1/applications/:uuid"), merchantID, applicationUUID, &req, metadata)
	if err != nil {
		if resp := h.applicationErrorResponse(c, err); resp != nil {
			return resp
		}
		if businessflow.IsApplicationNotEditable(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Only draft applications can be edited", dto.ErrorApplicationNotEditable, nil)
		}

		log.Println("Update application failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update application", "APPLICATION_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Application updated successfully", result)
}

// Submit moves a draft application into the submitted state
// @Summary Submit Loan Application
// @Description Submit a draft application for processing. Requires an uploaded bank statement.
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Application UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationDTO} "Application submitted"
// @Failure 400 {object} dto.APIResponse "Not a draft or bank statement missing"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Owned by another merchant"
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Router /api/v1/applications/{uuid}/submit [post]
func (h *ApplicationHandler) Submit(c fiber.Ctx) error {
	merchantID, ok := middleware.GetMerchantIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	applicationUUID := c.Params("uuid")

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.applicationFlow.Submit(createRequestContext(c, "/api/v1/applications/:uuid/submit"), merchantID, applicationUUID, metadata)
	if err != nil {
		if resp := h.applicationErrorResponse(c, err); resp != nil {
			return resp
		}
		if businessflow.IsApplicationNotDraft(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Only draft applications can be submitted", dto.ErrorApplicationNotDraft, nil)
		}
		if businessflow.IsBankStatementRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "A bank statement must be uploaded before submission", dto.ErrorBankStatementRequired, nil)
		}

		log.Println("Submit application failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to submit application", "APPLICATION_SUBMIT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Application submitted successfully", result)
}
