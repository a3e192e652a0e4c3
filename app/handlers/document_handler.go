package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/lendwise/lendwise/app/dto"
	"github.com/lendwise/lendwise/app/middleware"
	businessflow "github.com/lendwise/lendwise/business_flow"
)

// DocumentHandler handles application document HTTP requests
type DocumentHandler struct {
	documentFlow businessflow.DocumentFlow
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentFlow businessflow.DocumentFlow) *DocumentHandler {
	return &DocumentHandler{documentFlow: documentFlow}
}

func (h *DocumentHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *DocumentHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Upload attaches a document to a draft application
// @Summary Upload Document
// @Description Upload a bank statement, GST certificate, or KYC document (pdf/jpeg/png/webp, <=10MB)
// @Tags Documents
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Application UUID"
// @Param document_type formData string true "Document type (bank_statement, gst_certificate, kyc)"
// @Param file formData file true "Document file (<=10MB)"
// @Success 201 {object} dto.APIResponse{data=dto.DocumentDTO} "Upload successful"
// @Failure 400 {object} dto.APIResponse "Invalid file, type, or application state"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Owned by another merchant"
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Router /api/v1/applications/{uuid}/documents [post]
func (h *DocumentHandler) Upload(c fiber.Ctx) error {
	merchantID, ok := middleware.GetMerchantIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	applicationUUID := c.Params("uuid")

	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader == nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "file is required", "INVALID_FILE", nil)
	}

	documentType := c.FormValue("document_type")
	if documentType == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "document_type is required", dto.ErrorDocumentTypeInvalid, nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "invalid file", "INVALID_FILE", err.Error())
	}
	defer file.Close()

	upload := &businessflow.DocumentUpload{
		DocumentType: documentType,
		FileName:     fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		SizeBytes:    fileHeader.Size,
		Content:      file,
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.documentFlow.Upload(createRequestContext(c, "/api/v1/applications/:uuid/documents"), merchantID, applicationUUID, upload, metadata)
	if err != nil {
		if businessflow.IsApplicationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Application not found", dto.ErrorApplicationNotFound, nil)
		}
		if businessflow.IsNotApplicationOwner(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Application belongs to another merchant", dto.ErrorNotApplicationOwner, nil)
		}
		if businessflow.IsApplicationNotEditable(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Documents can only be uploaded to draft applications", dto.ErrorApplicationNotEditable, nil)
		}
		if businessflow.IsDocumentTypeInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unsupported document type", dto.ErrorDocumentTypeInvalid, nil)
		}
		if businessflow.IsMimeTypeInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unsupported file format", dto.ErrorMimeTypeInvalid, nil)
		}
		if businessflow.IsDocumentTooLarge(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Document exceeds the maximum upload size", dto.ErrorDocumentTooLarge, nil)
		}

		log.Println("Document upload failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to upload document", "DOCUMENT_UPLOAD_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Document uploaded successfully", result)
}

// List returns the documents attached to an application
// @Summary List Documents
// @Description List the documents attached to one of the merchant's applications
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Application UUID"
// @Success 200 {object} dto.APIResponse{data=[]dto.DocumentDTO} "Documents retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Owned by another merchant"
// @Failure 404 {object} dto.APIResponse "Application not found"
// @Router /api/v1/applications/{uuid}/documents [get]
func (h *DocumentHandler) List(c fiber.Ctx) error {
	merchantID, ok := middleware.GetMerchantIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Merchant ID not found in context", "MISSING_MERCHANT_ID", nil)
	}

	applicationUUID := c.Params("uuid")

	result, err := h.documentFlow.List(createRequestContext(c, "/api/v1/applications/:uuid/documents"), merchantID, applicationUUID)
	if err != nil {
		if businessflow.IsApplicationNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Application not found", dto.ErrorApplicationNotFound, nil)
		}
		if businessflow.IsNotApplicationOwner(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Application belongs to another merchant", dto.ErrorNotApplicationOwner, nil)
		}

		log.Println("List documents failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list documents", "DOCUMENT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Documents retrieved successfully", result)
}
