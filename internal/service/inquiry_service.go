package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"farmlink/internal/authz"
	apperrors "farmlink/internal/errors"
	"farmlink/internal/model"
	"farmlink/internal/notify"
	"farmlink/internal/repository"
)

// InquiryInput carries the fields of a new customer inquiry. Creation is
// open to anonymous callers; only the target farmer must exist.
type InquiryInput struct {
	FarmerID      uuid.UUID
	ProductID     *uuid.UUID
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Message       string
}

// InquiryService handles customer inquiries.
type InquiryService interface {
	Create(ctx context.Context, input InquiryInput) (*model.Inquiry, error)
	ListForFarmer(ctx context.Context, caller authz.Caller, farmerID uuid.UUID) ([]model.Inquiry, error)
	UpdateStatus(ctx context.Context, caller authz.Caller, id uuid.UUID, status model.InquiryStatus) (*model.Inquiry, error)
	Delete(ctx context.Context, caller authz.Caller, id uuid.UUID) error
}

type inquiryService struct {
	inquiries repository.InquiryRepository
	farmers   repository.FarmerRepository
	products  repository.ProductRepository
	policy    *authz.Engine
	notifier  notify.Notifier
	logger    *zap.Logger
}

// NewInquiryService creates a new inquiry service.
func NewInquiryService(
	inquiries repository.InquiryRepository,
	farmers repository.FarmerRepository,
	products repository.ProductRepository,
	policy *authz.Engine,
	notifier notify.Notifier,
	logger *zap.Logger,
) InquiryService {
	return &inquiryService{
		inquiries: inquiries,
		farmers:   farmers,
		products:  products,
		policy:    policy,
		notifier:  notifier,
		logger:    logger,
	}
}

// Create stores an inquiry for an existing farmer. A referenced product must
// belong to that same farmer.
func (s *inquiryService) Create(ctx context.Context, input InquiryInput) (*model.Inquiry, error) {
	farmer, err := s.farmers.FindByID(ctx, input.FarmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFarmerNotFound
		}
		return nil, fmt.Errorf("find farmer: %w", err)
	}

	if input.ProductID != nil {
		product, err := s.products.FindByID(ctx, *input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrProductNotFound
			}
			return nil, fmt.Errorf("find product: %w", err)
		}
		if product.FarmerID != farmer.ID {
			return nil, apperrors.ErrProductFarmerMismatch
		}
	}

	inquiry := &model.Inquiry{
		FarmerID:      input.FarmerID,
		ProductID:     input.ProductID,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		Message:       input.Message,
		Status:        model.InquiryStatusNew,
	}
	if err := s.inquiries.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("create inquiry: %w", err)
	}

	// Fire-and-forget farmer alert.
	s.notifier.PublishInquiryCreated(ctx, notify.InquiryCreatedEvent{
		InquiryID:     inquiry.ID.String(),
		FarmerID:      farmer.ID.String(),
		FarmName:      farmer.FarmName,
		CustomerName:  inquiry.CustomerName,
		CustomerEmail: inquiry.CustomerEmail,
		Message:       inquiry.Message,
	})
	s.logger.Info("inquiry created",
		zap.String("inquiry_id", inquiry.ID.String()),
		zap.String("farmer_id", farmer.ID.String()))
	return inquiry, nil
}

// ListForFarmer returns a farmer's inbox; only the owning farmer or an admin
// may read it.
func (s *inquiryService) ListForFarmer(ctx context.Context, caller authz.Caller, farmerID uuid.UUID) ([]model.Inquiry, error) {
	if _, err := s.farmers.FindByID(ctx, farmerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFarmerNotFound
		}
		return nil, fmt.Errorf("find farmer: %w", err)
	}
	if err := s.policy.Authorize(ctx, caller, authz.ActionListInquiries, farmerID); err != nil {
		return nil, err
	}
	inquiries, err := s.inquiries.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return inquiries, nil
}

func (s *inquiryService) UpdateStatus(ctx context.Context, caller authz.Caller, id uuid.UUID, status model.InquiryStatus) (*model.Inquiry, error) {
	if !model.ValidInquiryStatus(status) {
		return nil, apperrors.ErrInvalidInquiryStatus
	}
	inquiry, err := s.inquiries.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInquiryNotFound
		}
		return nil, fmt.Errorf("find inquiry: %w", err)
	}
	if err := s.policy.Authorize(ctx, caller, authz.ActionUpdateInquiry, id); err != nil {
		return nil, err
	}

	inquiry.Status = status
	if err := s.inquiries.Update(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("update inquiry: %w", err)
	}
	return inquiry, nil
}

func (s *inquiryService) Delete(ctx context.Context, caller authz.Caller, id uuid.UUID) error {
	if _, err := s.inquiries.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInquiryNotFound
		}
		return fmt.Errorf("find inquiry: %w", err)
	}
	if err := s.policy.Authorize(ctx, caller, authz.ActionDeleteInquiry, id); err != nil {
		return err
	}
	if err := s.inquiries.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	return nil
}
