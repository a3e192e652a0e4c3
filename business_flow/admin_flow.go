// Package businessflow contains the core business logic for the loan origination pipeline
package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/lendwise/lendwise/app/dto"
	"github.com/lendwise/lendwise/models"
	"github.com/lendwise/lendwise/repository"
	"github.com/lendwise/lendwise/utils"
	"github.com/xuri/excelize/v2"
)

// AdminFlow serves the back-office views over merchants and applications
type AdminFlow interface {
	ListMerchants(ctx context.Context, search string) ([]dto.AdminMerchantDTO, error)
	ListApplications(ctx context.Context, req *dto.AdminApplicationListRequest) ([]dto.AdminApplicationDTO, error)
	GetApplication(ctx context.Context, applicationUUID string) (*dto.ApplicationDTO, error)
	ExportApplications(ctx context.Context) (filename string, content []byte, err error)
}

// AdminFlowImpl implements the admin business flow
type AdminFlowImpl struct {
	merchantRepo    repository.MerchantRepository
	applicationRepo repository.ApplicationRepository
}

// NewAdminFlow creates a new admin flow instance
func NewAdminFlow(merchantRepo repository.MerchantRepository, applicationRepo repository.ApplicationRepository) AdminFlow {
	return &AdminFlowImpl{
		merchantRepo:    merchantRepo,
		applicationRepo: applicationRepo,
	}
}

// ListMerchants returns the merchant directory with application counts,
// optionally filtered by a name or email search term.
func (f *AdminFlowImpl) ListMerchants(ctx context.Context, search string) ([]dto.AdminMerchantDTO, error) {
	merchants, err := f.merchantRepo.ListMerchants(ctx, search)
	if err != nil {
		return nil, NewBusinessError("LIST_MERCHANTS_FAILED", "Failed to list merchants", err)
	}

	items := make([]dto.AdminMerchantDTO, 0, len(merchants))
	for _, merchant := range merchants {
		items = append(items, dto.AdminMerchantDTO{
			MerchantDTO:      ToMerchantDTO(merchant.Merchant),
			ApplicationCount: merchant.ApplicationCount,
		})
	}

	return items, nil
}

// ListApplications returns the application book with score and decision
// summaries, newest first.
func (f *AdminFlowImpl) ListApplications(ctx context.Context, req *dto.AdminApplicationListRequest) ([]dto.AdminApplicationDTO, error) {
	applications, err := f.applicationRepo.ByFilter(ctx, adminFilter(req))
	if err != nil {
		return nil, NewBusinessError("LIST_APPLICATIONS_FAILED", "Failed to list applications", err)
	}

	items := make([]dto.AdminApplicationDTO, 0, len(applications))
	for _, application := range applications {
		items = append(items, toAdminApplicationDTO(application))
	}

	return items, nil
}

// GetApplication returns one application with everything joined
func (f *AdminFlowImpl) GetApplication(ctx context.Context, applicationUUID string) (*dto.ApplicationDTO, error) {
	if _, err := utils.ParseUUID(applicationUUID); err != nil {
		return nil, NewBusinessError(dto.ErrorApplicationNotFound, "Application not found", ErrApplicationNotFound)
	}

	application, err := f.applicationRepo.ByUUID(ctx, applicationUUID)
	if err != nil {
		return nil, NewBusinessError("GET_APPLICATION_FAILED", "Failed to load application", err)
	}
	if application == nil {
		return nil, NewBusinessError(dto.ErrorApplicationNotFound, "Application not found", ErrApplicationNotFound)
	}

	d := ToApplicationDTO(*application)
	return &d, nil
}

// ExportApplications writes the whole application book as an XLSX workbook
func (f *AdminFlowImpl) ExportApplications(ctx context.Context) (string, []byte, error) {
	applications, err := f.applicationRepo.ByFilter(ctx, models.ApplicationFilter{})
	if err != nil {
		return "", nil, NewBusinessError("EXPORT_FAILED", "Failed to export applications", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := xl.GetSheetName(0)
	header := []string{"uuid", "merchant_name", "merchant_email", "business_name", "status", "loan_type", "requested_amount", "score", "band", "decision_count", "offer_count", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, application := range applications {
		row := toAdminApplicationDTO(application)

		requestedAmount := ""
		if row.RequestedAmount != nil {
			requestedAmount = strconv.FormatFloat(*row.RequestedAmount, 'f', 2, 64)
		}
		score := ""
		if row.Score != nil {
			score = strconv.Itoa(*row.Score)
		}
		band := ""
		if row.Band != nil {
			band = *row.Band
		}
		businessName := ""
		if row.BusinessName != nil {
			businessName = *row.BusinessName
		}

		record := []string{
			row.UUID,
			row.MerchantName,
			row.MerchantEmail,
			businessName,
			row.Status,
			row.LoanType,
			requestedAmount,
			score,
			band,
			strconv.Itoa(row.DecisionCount),
			strconv.Itoa(row.OfferCount),
			row.CreatedAt,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("applications_%s.xlsx", utils.UTCNow().Format("20060102_150405"))
	return filename, buf.Bytes(), nil
}

func adminFilter(req *dto.AdminApplicationListRequest) models.ApplicationFilter {
	var filter models.ApplicationFilter
	if req == nil {
		return filter
	}
	if req.Status != nil {
		status := models.ApplicationStatus(*req.Status)
		filter.Status = &status
	}
	if req.LoanType != nil {
		loanType := models.LoanType(*req.LoanType)
		filter.LoanType = &loanType
	}
	return filter
}

func toAdminApplicationDTO(application *models.Application) dto.AdminApplicationDTO {
	d := dto.AdminApplicationDTO{
		UUID:            application.UUID.String(),
		Status:          application.Status.String(),
		LoanType:        string(application.LoanType),
		RequestedAmount: application.RequestedAmount,
		DecisionCount:   len(application.Decisions),
		OfferCount:      len(application.Offers),
		CreatedAt:       application.CreatedAt.Format(time.RFC3339),
	}

	if application.Merchant != nil {
		d.MerchantName = application.Merchant.Name
		d.MerchantEmail = application.Merchant.Email
		d.BusinessName = application.Merchant.BusinessName
	}

	if application.EligibilityScore != nil {
		score := application.EligibilityScore.Score
		band := string(application.EligibilityScore.Band)
		d.Score = &score
		d.Band = &band
	}

	return d
}
