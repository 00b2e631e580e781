package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmlink/internal/authz"
	apperrors "farmlink/internal/errors"
	"farmlink/internal/model"
	"farmlink/internal/repository"
)

// FarmerInput carries the mutable fields of a farmer profile.
type FarmerInput struct {
	FarmName        string
	FirstName       string
	LastName        string
	Location        string
	Phone           string
	Description     string
	ProfileImageURL string
}

// FarmerService handles farmer profile operations.
type FarmerService interface {
	List(ctx context.Context) ([]model.Farmer, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Farmer, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.Farmer, error)
	// Create enforces one profile per user and promotes a plain user to
	// farmer in the same transaction.
	Create(ctx context.Context, userID uuid.UUID, input FarmerInput) (*model.Farmer, error)
	UpdateOwn(ctx context.Context, userID uuid.UUID, input FarmerInput) (*model.Farmer, error)
	Update(ctx context.Context, caller authz.Caller, farmerID uuid.UUID, input FarmerInput) (*model.Farmer, error)
	Delete(ctx context.Context, caller authz.Caller, farmerID uuid.UUID) error
}

type farmerService struct {
	farmers repository.FarmerRepository
	policy  *authz.Engine
}

// NewFarmerService creates a new farmer service.
func NewFarmerService(farmers repository.FarmerRepository, policy *authz.Engine) FarmerService {
	return &farmerService{farmers: farmers, policy: policy}
}

func (s *farmerService) List(ctx context.Context) ([]model.Farmer, error) {
	return s.farmers.List(ctx)
}

func (s *farmerService) Get(ctx context.Context, id uuid.UUID) (*model.Farmer, error) {
	farmer, err := s.farmers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFarmerNotFound
		}
		return nil, fmt.Errorf("find farmer: %w", err)
	}
	return farmer, nil
}

func (s *farmerService) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Farmer, error) {
	farmer, err := s.farmers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFarmerNotFound
		}
		return nil, fmt.Errorf("find farmer: %w", err)
	}
	return farmer, nil
}

func (s *farmerService) Create(ctx context.Context, userID uuid.UUID, input FarmerInput) (*model.Farmer, error) {
	if _, err := s.farmers.FindByUserID(ctx, userID); err == nil {
		return nil, apperrors.ErrProfileExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing profile: %w", err)
	}

	farmer := &model.Farmer{
		UserID:          userID,
		FarmName:        input.FarmName,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Location:        input.Location,
		Phone:           input.Phone,
		Description:     input.Description,
		ProfileImageURL: input.ProfileImageURL,
	}
	if err := s.farmers.CreateWithOwnerPromotion(ctx, farmer); err != nil {
		return nil, fmt.Errorf("create farmer: %w", err)
	}
	return farmer, nil
}

// UpdateOwn updates the caller's own profile; ownership is implied by the
// user id lookup.
func (s *farmerService) UpdateOwn(ctx context.Context, userID uuid.UUID, input FarmerInput) (*model.Farmer, error) {
	farmer, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	applyFarmerInput(farmer, input)
	if err := s.farmers.Update(ctx, farmer); err != nil {
		return nil, fmt.Errorf("update farmer: %w", err)
	}
	return farmer, nil
}

// Update mutates an arbitrary profile; existence is resolved first, then the
// policy engine decides (owner or admin).
func (s *farmerService) Update(ctx context.Context, caller authz.Caller, farmerID uuid.UUID, input FarmerInput) (*model.Farmer, error) {
	farmer, err := s.Get(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, caller, authz.ActionUpdateFarmer, farmerID); err != nil {
		return nil, err
	}
	applyFarmerInput(farmer, input)
	if err := s.farmers.Update(ctx, farmer); err != nil {
		return nil, fmt.Errorf("update farmer: %w", err)
	}
	return farmer, nil
}

func (s *farmerService) Delete(ctx context.Context, caller authz.Caller, farmerID uuid.UUID) error {
	if _, err := s.Get(ctx, farmerID); err != nil {
		return err
	}
	if err := s.policy.Authorize(ctx, caller, authz.ActionDeleteFarmer, farmerID); err != nil {
		return err
	}
	if err := s.farmers.Delete(ctx, farmerID); err != nil {
		return fmt.Errorf("delete farmer: %w", err)
	}
	return nil
}

func applyFarmerInput(farmer *model.Farmer, input FarmerInput) {
	if input.FarmName != "" {
		farmer.FarmName = input.FarmName
	}
	farmer.FirstName = input.FirstName
	farmer.LastName = input.LastName
	farmer.Location = input.Location
	farmer.Phone = input.Phone
	farmer.Description = input.Description
	farmer.ProfileImageURL = input.ProfileImageURL
}
