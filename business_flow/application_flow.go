// Package businessflow contains the core business logic for the loan origination pipeline
package businessflow

import (
	"context"

	"github.com/lendwise/lendwise/app/dto"
	"github.com/lendwise/lendwise/models"
	"github.com/lendwise/lendwise/repository"
	"github.com/lendwise/lendwise/utils"
	"gorm.io/gorm"
)

// ApplicationFlow handles the loan application lifecycle up to submission
type ApplicationFlow interface {
	Create(ctx context.Context, merchantID uint, req *dto.CreateApplicationRequest, metadata *ClientMetadata) (*dto.ApplicationDTO, error)
	List(ctx context.Context, merchantID uint) ([]dto.ApplicationListItemDTO, error)
	Get(ctx context.Context, merchantID uint, applicationUUID string) (*dto.ApplicationDTO, error)
	Update(ctx context.Context, merchantID uint, applicationUUID string, req *dto.UpdateApplicationRequest, metadata *ClientMetadata) (*dto.ApplicationDTO, error)
	Submit(ctx context.Context, merchantID uint, applicationUUID string, metadata *ClientMetadata) (*dto.ApplicationDTO, error)
}

// ApplicationFlowImpl implements the application business flow
type ApplicationFlowImpl struct {
	applicationRepo repository.ApplicationRepository
	merchantRepo    repository.MerchantRepository
	db              *gorm.DB
}

// NewApplicationFlow creates a new application flow instance
func NewApplicationFlow(
	applicationRepo repository.ApplicationRepository,
	merchantRepo repository.MerchantRepository,
	db *gorm.DB,
) ApplicationFlow {
	return &ApplicationFlowImpl{
		applicationRepo: applicationRepo,
		merchantRepo:    merchantRepo,
		db:              db,
	}
}

// Create opens a new draft application for the merchant
func (f *ApplicationFlowImpl) Create(ctx context.Context, merchantID uint, req *dto.CreateApplicationRequest, metadata *ClientMetadata) (*dto.ApplicationDTO, error) {
	application := &models.Application{
		MerchantID:      merchantID,
		LoanType:        models.LoanType(req.LoanType),
		Status:          models.ApplicationStatusDraft,
		RequestedAmount: req.RequestedAmount,
	}

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		return f.applicationRepo.Save(txCtx, application)
	})
	if err != nil {
		return nil, NewBusinessError("CREATE_APPLICATION_FAILED", "Failed to create application", err)
	}

	d := ToApplicationDTO(*application)
	return &d, nil
}

// List returns the merchant's applications, newest first
func (f *ApplicationFlowImpl) List(ctx context.Context, merchantID uint) ([]dto.ApplicationListItemDTO, error) {
	applications, err := f.applicationRepo.ByMerchantID(ctx, merchantID)
	if err != nil {
		return nil, NewBusinessError("LIST_APPLICATIONS_FAILED", "Failed to list applications", err)
	}

	items := make([]dto.ApplicationListItemDTO, 0, len(applications))
	for _, application := range applications {
		items = append(items, ToApplicationListItemDTO(*application))
	}

	return items, nil
}

// Get returns one application with its financial summary and score, owner only
func (f *ApplicationFlowImpl) Get(ctx context.Context, merchantID uint, applicationUUID string) (*dto.ApplicationDTO, error) {
	application, err := f.ownedApplication(ctx, merchantID, applicationUUID)
	if err != nil {
		return nil, err
	}

	d := ToApplicationDTO(*application)
	return &d, nil
}

// Update modifies a draft application. Business profile fields in the
// request are routed to the merchant record, mirroring the intake form.
func (f *ApplicationFlowImpl) Update(ctx context.Context, merchantID uint, applicationUUID string, req *dto.UpdateApplicationRequest, metadata *ClientMetadata) (*dto.ApplicationDTO, error) {
	if !req.HasUpdates() {
		return nil, NewBusinessError("UPDATE_REQUIRED", "At least one field must be provided", ErrUpdateRequired)
	}

	application, err := f.ownedApplication(ctx, merchantID, applicationUUID)
	if err != nil {
		return nil, err
	}

	if !application.IsEditable() {
		return nil, NewBusinessError(dto.ErrorApplicationNotEditable, "Application can no longer be edited", ErrApplicationNotEditable)
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if req.LoanType != nil {
			application.LoanType = models.LoanType(*req.LoanType)
		}
		if req.RequestedAmount != nil {
			application.RequestedAmount = req.RequestedAmount
		}
		if err := f.applicationRepo.Update(txCtx, *application); err != nil {
			return err
		}

		if req.BusinessName == nil && req.Industry == nil && req.City == nil &&
			req.BusinessAgeMonths == nil && req.MonthlyRevenue == nil {
			return nil
		}

		merchant, err := f.merchantRepo.ByID(txCtx, merchantID)
		if err != nil {
			return err
		}
		if merchant == nil {
			return ErrMerchantNotFound
		}

		if req.BusinessName != nil {
			merchant.BusinessName = req.BusinessName
		}
		if req.Industry != nil {
			merchant.Industry = req.Industry
		}
		if req.City != nil {
			merchant.City = req.City
		}
		if req.BusinessAgeMonths != nil {
			merchant.BusinessAgeMonths = *req.BusinessAgeMonths
		}
		if req.MonthlyRevenue != nil {
			merchant.MonthlyRevenue = req.MonthlyRevenue
		}
		merchant.UpdatedAt = utils.UTCNowPtr()

		return f.merchantRepo.Update(txCtx, *merchant)
	})
	if err != nil {
		return nil, NewBusinessError("UPDATE_APPLICATION_FAILED", "Failed to update application", err)
	}

	return f.Get(ctx, merchantID, applicationUUID)
}

// Submit moves a draft application into the pipeline. A bank statement
// document must be attached.
func (f *ApplicationFlowImpl) Submit(ctx context.Context, merchantID uint, applicationUUID string, metadata *ClientMetadata) (*dto.ApplicationDTO, error) {
	application, err := f.ownedApplication(ctx, merchantID, applicationUUID)
	if err != nil {
		return nil, err
	}

	if application.Status != models.ApplicationStatusDraft {
		return nil, NewBusinessError(dto.ErrorApplicationNotDraft, "Application has already been submitted", ErrApplicationNotDraft)
	}

	if !application.HasBankStatement() {
		return nil, NewBusinessError(dto.ErrorBankStatementRequired, "A bank statement document is required", ErrBankStatementRequired)
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		return f.applicationRepo.UpdateStatus(txCtx, application.ID, models.ApplicationStatusSubmitted)
	})
	if err != nil {
		return nil, NewBusinessError("SUBMIT_APPLICATION_FAILED", "Failed to submit application", err)
	}

	application.Status = models.ApplicationStatusSubmitted
	d := ToApplicationDTO(*application)
	return &d, nil
}

// ownedApplication loads an application by UUID and enforces ownership
func (f *ApplicationFlowImpl) ownedApplication(ctx context.Context, merchantID uint, applicationUUID string) (*models.Application, error) {
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
	if application.MerchantID != merchantID {
		return nil, NewBusinessError(dto.ErrorNotApplicationOwner, "Application belongs to another merchant", ErrNotApplicationOwner)
	}

	return application, nil
}
