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

// FarmerDashboard aggregates everything a logged-in farmer needs in one
// response.
type FarmerDashboard struct {
	Profile   *model.Farmer   `json:"profile"`
	Products  []model.Product `json:"products"`
	Inquiries []model.Inquiry `json:"inquiries"`
}

// FarmerStats holds the analytics figures for one farm.
type FarmerStats struct {
	ProductCount      int64                         `json:"product_count"`
	TotalViews        int64                         `json:"total_views"`
	InquiriesTotal    int64                         `json:"inquiries_total"`
	InquiriesByStatus map[model.InquiryStatus]int64 `json:"inquiries_by_status"`
}

// AdminDashboard holds platform-wide entity counts.
type AdminDashboard struct {
	Users     int64 `json:"users"`
	Farmers   int64 `json:"farmers"`
	Products  int64 `json:"products"`
	Inquiries int64 `json:"inquiries"`
}

// DashboardService serves the farmer dashboard, farm analytics and the admin
// overview.
type DashboardService interface {
	Farmer(ctx context.Context, caller authz.Caller) (*FarmerDashboard, error)
	FarmerStats(ctx context.Context, caller authz.Caller, farmerID uuid.UUID) (*FarmerStats, error)
	Admin(ctx context.Context, caller authz.Caller) (*AdminDashboard, error)
}

type dashboardService struct {
	users     repository.UserRepository
	farmers   repository.FarmerRepository
	products  repository.ProductRepository
	inquiries repository.InquiryRepository
	policy    *authz.Engine
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(
	users repository.UserRepository,
	farmers repository.FarmerRepository,
	products repository.ProductRepository,
	inquiries repository.InquiryRepository,
	policy *authz.Engine,
) DashboardService {
	return &dashboardService{
		users:     users,
		farmers:   farmers,
		products:  products,
		inquiries: inquiries,
		policy:    policy,
	}
}

// Farmer requires the farmer role and an existing profile.
func (s *dashboardService) Farmer(ctx context.Context, caller authz.Caller) (*FarmerDashboard, error) {
	if err := s.policy.RequireRole(caller, model.RoleFarmer); err != nil {
		return nil, err
	}

	profile, err := s.farmers.FindByUserID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFarmerNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	products, err := s.products.ListByFarmer(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	inquiries, err := s.inquiries.ListByFarmer(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}

	return &FarmerDashboard{
		Profile:   profile,
		Products:  products,
		Inquiries: inquiries,
	}, nil
}

// FarmerStats is readable by the owning farmer or an admin.
func (s *dashboardService) FarmerStats(ctx context.Context, caller authz.Caller, farmerID uuid.UUID) (*FarmerStats, error) {
	if _, err := s.farmers.FindByID(ctx, farmerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFarmerNotFound
		}
		return nil, fmt.Errorf("find farmer: %w", err)
	}
	if err := s.policy.Authorize(ctx, caller, authz.ActionViewFarmerStats, farmerID); err != nil {
		return nil, err
	}

	productStats, err := s.products.StatsByFarmer(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("product stats: %w", err)
	}
	byStatus, err := s.inquiries.CountByFarmerAndStatus(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("inquiry stats: %w", err)
	}

	var inquiriesTotal int64
	for _, n := range byStatus {
		inquiriesTotal += n
	}
	return &FarmerStats{
		ProductCount:      productStats.ProductCount,
		TotalViews:        productStats.TotalViews,
		InquiriesTotal:    inquiriesTotal,
		InquiriesByStatus: byStatus,
	}, nil
}

// Admin requires the admin role.
func (s *dashboardService) Admin(ctx context.Context, caller authz.Caller) (*AdminDashboard, error) {
	if err := s.policy.RequireAdmin(caller); err != nil {
		return nil, err
	}

	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	farmers, err := s.farmers.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count farmers: %w", err)
	}
	products, err := s.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	inquiries, err := s.inquiries.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count inquiries: %w", err)
	}

	return &AdminDashboard{
		Users:     users,
		Farmers:   farmers,
		Products:  products,
		Inquiries: inquiries,
	}, nil
}
