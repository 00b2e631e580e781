package service

import (
	"context"
	"fmt"

	"farmlink/internal/authz"
	"farmlink/internal/model"
	"farmlink/internal/repository"
)

// AdminService serves the admin-only listing endpoints. Every method gates
// on the admin role through the policy engine before touching the store.
type AdminService interface {
	ListUsers(ctx context.Context, caller authz.Caller) ([]model.User, error)
	ListFarmers(ctx context.Context, caller authz.Caller) ([]model.Farmer, error)
	ListProducts(ctx context.Context, caller authz.Caller) ([]model.Product, error)
	ListInquiries(ctx context.Context, caller authz.Caller) ([]model.Inquiry, error)
}

type adminService struct {
	users     repository.UserRepository
	farmers   repository.FarmerRepository
	products  repository.ProductRepository
	inquiries repository.InquiryRepository
	policy    *authz.Engine
}

// NewAdminService creates a new admin service.
func NewAdminService(
	users repository.UserRepository,
	farmers repository.FarmerRepository,
	products repository.ProductRepository,
	inquiries repository.InquiryRepository,
	policy *authz.Engine,
) AdminService {
	return &adminService{
		users:     users,
		farmers:   farmers,
		products:  products,
		inquiries: inquiries,
		policy:    policy,
	}
}

func (s *adminService) ListUsers(ctx context.Context, caller authz.Caller) ([]model.User, error) {
	if err := s.policy.RequireAdmin(caller); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *adminService) ListFarmers(ctx context.Context, caller authz.Caller) ([]model.Farmer, error) {
	if err := s.policy.RequireAdmin(caller); err != nil {
		return nil, err
	}
	farmers, err := s.farmers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list farmers: %w", err)
	}
	return farmers, nil
}

func (s *adminService) ListProducts(ctx context.Context, caller authz.Caller) ([]model.Product, error) {
	if err := s.policy.RequireAdmin(caller); err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *adminService) ListInquiries(ctx context.Context, caller authz.Caller) ([]model.Inquiry, error) {
	if err := s.policy.RequireAdmin(caller); err != nil {
		return nil, err
	}
	inquiries, err := s.inquiries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return inquiries, nil
}
