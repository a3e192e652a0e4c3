package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/lendwise/lendwise/app/dto"
	"github.com/lendwise/lendwise/app/middleware"
	businessflow "github.com/lendwise/lendwise/business_flow"
)

// MerchantHandler handles merchant profile HTTP requests
type MerchantHandler struct {
	merchantFlow businessflow.MerchantFlow
	validator    *validator.Validate
}

// NewMerchantHandler creates a new merchant profile handler
func NewMerchantHandler(merchantFlow businessflow.MerchantFlow) *MerchantHandler {
	return &MerchantHandler{
		merchantFlow: merchantFlow,
		validator:    validator.New(),
	}
}

func (h *MerchantHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *MerchantHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// GetProfile returns the authenticated merchant's profile
// @Summary Get Merchant Profile
// @Description Return the authenticated merchant's account and business profile
// @Tags Merchants
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MerchantDTO} "Profile retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Merchant not found"
// @Router /api/v1/merchants/me [get]
func (h *MerchantHandler) GetProfile(c fiber.Ctx) error {
	merchantID, ok := middleware.GetMerchantIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	result, err := h.merchantFlow.GetProfile(createRequestContext(c, "/api/v1/merchants/me"), merchantID)
	if err != nil {
		if businessflow.IsMerchantNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Merchant not found", "MERCHANT_NOT_FOUND", nil)
		}

		log.Println("Get profile failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve profile", "PROFILE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Profile retrieved successfully", result)
}

// UpdateProfile updates the authenticated merchant's business profile
// @Summary Update Merchant Profile
// @Description Partially update the authenticated merchant's profile fields
// @Tags Merchants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateMerchantRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.MerchantDTO} "Profile updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/merchants/me [patch]
func (h *MerchantHandler) UpdateProfile(c fiber.Ctx) error {
	merchantID, ok := middleware.GetMerchantIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	var req dto.UpdateMerchantRequest
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

	result, err := h.merchantFlow.UpdateProfile(createRequestContext(c, "/api/v1/merchants/me"), merchantID, &req, metadata)
	if err != nil {
		if businessflow.IsMerchantNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Merchant not found", "MERCHANT_NOT_FOUND", nil)
		}

		log.Println("Update profile failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update profile", "PROFILE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Profile updated successfully", result)
}
