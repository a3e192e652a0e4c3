package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/lendwise/lendwise/app/dto"
	businessflow "github.com/lendwise/lendwise/business_flow"
)

// AdminHandler handles back-office HTTP requests
type AdminHandler struct {
	adminFlow businessflow.AdminFlow
	validator *validator.Validate
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminFlow businessflow.AdminFlow) *AdminHandler {
	return &AdminHandler{
		adminFlow: adminFlow,
		validator: validator.New(),
	}
}

func (h *AdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListMerchants lists registered merchants with application counts
// @Summary List Merchants (Admin)
// @Description List all merchants with their application counts, optionally filtered by name or email
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Match against merchant name or email"
// @Success 200 {object} dto.APIResponse{data=[]dto.AdminMerchantDTO} "Merchants retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Admin privileges required"
// @Router /api/v1/admin/merchants [get]
func (h *AdminHandler) ListMerchants(c fiber.Ctx) error {
	search := c.Query("search")

	result, err := h.adminFlow.ListMerchants(createRequestContext(c, "/api/v1/admin/merchants"), search)
	if err != nil {
		log.Println("Admin list merchants failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list merchants", "ADMIN_MERCHANTS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Merchants retrieved successfully", result)
}

// ListApplications lists applications across all merchants
// @Summary List Applications (Admin)
// @Description List applications across all merchants, optionally filtered by status and loan type
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (draft, submitted, processing, decision_generated)"
// @Param loan_type query string false "Filter by loan type (working_capital, term_loan)"
// @Success 200 {object} dto.APIResponse{data=[]dto.AdminApplicationDTO} "Applications retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid filter value"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Admin privileges required"
// @Router /api/v1/admin/applications [get]
func (h *AdminHandler) ListApplications(c fiber.Ctx) error {
	var req dto.AdminApplicationListRequest
	if v := c.Query("status"); v != "" {
		req.Status = &v
	}
	if v := c.Query("loan_type"); v != "" {
		req.LoanType = &v
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.adminFlow.ListApplications(createRequestContext(c, "/api/v1/admin/applications"), &req)
	if err != nil {
		log.Println("Admin list applications failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list applications", "ADMIN_APPLICATIONS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Applications retrieved successfully", result)
}

// GetApplication returns the full detail of any application
// @Summary Get Application (Admin)
// @Description Retrieve any application with its documents, financials, score, decisions, and offers
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Application UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationDTO} "Application retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Admin privileges required"
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Router /api/v1/admin/applications/{uuid} [get]
func (h *AdminHandler) GetApplication(c fiber.Ctx) error {
	applicationUUID := c.Params("uuid")
	if applicationUUID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Application UUID is required", "INVALID_REQUEST", nil)
	}

	result, err := h.adminFlow.GetApplication(createRequestContext(c, "/api/v1/admin/applications/:uuid"), applicationUUID)
	if err != nil {
		if businessflow.IsApplicationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Application not found", dto.ErrorApplicationNotFound, nil)
		}

		log.Println("Admin get application failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve application", "ADMIN_APPLICATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Application retrieved successfully", result)
}

// ExportApplications downloads all applications as an XLSX workbook
// @Summary Export Applications (Admin)
// @Description Download every application as an XLSX workbook
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {string} string "Binary XLSX file"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Admin privileges required"
// @Router /api/v1/admin/applications/export [get]
func (h *AdminHandler) ExportApplications(c fiber.Ctx) error {
	filename, content, err := h.adminFlow.ExportApplications(createRequestContext(c, "/api/v1/admin/applications/export"))
	if err != nil {
		log.Println("Admin export applications failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export applications", "ADMIN_EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(content)
}
