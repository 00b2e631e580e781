// Package authz is the access-control core: it decides, per operation and
// resource, whether a caller is allowed to proceed. It composes the role
// claim carried by the verified token with resource ownership resolved fresh
// from the backing store. It never writes during a check.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmlink/internal/model"
)

// FarmerSource, ProductSource and InquirySource are the read-only slices of
// the repositories the resolver needs. Missing rows must surface as
// gorm.ErrRecordNotFound.
type FarmerSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Farmer, error)
}

type ProductSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

type InquirySource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Inquiry, error)
}

// Resolver answers ownership questions. Ownership fails closed: a resource
// that does not exist is owned by nobody. Store failures are returned as
// errors, never silently treated as "not owner".
type Resolver struct {
	farmers   FarmerSource
	products  ProductSource
	inquiries InquirySource
}

// NewResolver creates an ownership resolver over the given sources.
func NewResolver(farmers FarmerSource, products ProductSource, inquiries InquirySource) *Resolver {
	return &Resolver{
		farmers:   farmers,
		products:  products,
		inquiries: inquiries,
	}
}

// OwnsFarmer reports whether userID owns the farmer profile directly.
func (r *Resolver) OwnsFarmer(ctx context.Context, userID, farmerID uuid.UUID) (bool, error) {
	farmer, err := r.farmers.FindByID(ctx, farmerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("resolve farmer ownership: %w", err)
	}
	return farmer.UserID == userID, nil
}

// OwnsProduct reports whether userID owns the product transitively through
// its parent farmer profile.
func (r *Resolver) OwnsProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	product, err := r.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("resolve product ownership: %w", err)
	}
	return r.OwnsFarmer(ctx, userID, product.FarmerID)
}

// OwnsInquiry reports whether userID owns the inquiry transitively through
// its target farmer profile.
func (r *Resolver) OwnsInquiry(ctx context.Context, userID, inquiryID uuid.UUID) (bool, error) {
	inquiry, err := r.inquiries.FindByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("resolve inquiry ownership: %w", err)
	}
	return r.OwnsFarmer(ctx, userID, inquiry.FarmerID)
}
