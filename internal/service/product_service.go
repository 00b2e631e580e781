package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"farmlink/internal/authz"
	"farmlink/internal/cache"
	apperrors "farmlink/internal/errors"
	"farmlink/internal/model"
	"farmlink/internal/repository"
)

// Listing pages are cached briefly; staleness up to the TTL is acceptable
// for a public browse surface, so no invalidation is done on writes.
const listingCacheTTL = time.Minute

// ProductInput carries the fields accepted when creating a product. The
// farmer id is never part of the input; it is always forced to the caller's
// own profile.
type ProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	Unit          string
	Category      string
	StockQuantity int
	ImageURL      string
	IsAvailable   *bool
}

// ProductUpdate carries optional fields for partial updates.
type ProductUpdate struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	Unit          *string
	Category      *string
	StockQuantity *int
	ImageURL      *string
	IsAvailable   *bool
}

// ProductPage is one page of the public listing.
type ProductPage struct {
	Products []model.Product `json:"products"`
	Page     int             `json:"page"`
	PerPage  int             `json:"per_page"`
	Total    int64           `json:"total"`
	Pages    int64           `json:"pages"`
}

// ProductService handles product operations.
type ProductService interface {
	List(ctx context.Context, filter repository.ProductFilter) (*ProductPage, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.Product, error)
	// TrackView bumps the persistent view counter and returns the hot
	// counter value.
	TrackView(ctx context.Context, id uuid.UUID) (int64, error)
	Create(ctx context.Context, caller authz.Caller, input ProductInput) (*model.Product, error)
	Update(ctx context.Context, caller authz.Caller, id uuid.UUID, input ProductUpdate) (*model.Product, error)
	Delete(ctx context.Context, caller authz.Caller, id uuid.UUID) error
}

type productService struct {
	products repository.ProductRepository
	farmers  repository.FarmerRepository
	policy   *authz.Engine
	cache    *cache.Client
}

// NewProductService creates a new product service.
func NewProductService(products repository.ProductRepository, farmers repository.FarmerRepository, policy *authz.Engine, cacheClient *cache.Client) ProductService {
	return &productService{
		products: products,
		farmers:  farmers,
		policy:   policy,
		cache:    cacheClient,
	}
}

func listingCacheKey(f repository.ProductFilter) string {
	minPrice, maxPrice := "", ""
	if f.MinPrice != nil {
		minPrice = f.MinPrice.String()
	}
	if f.MaxPrice != nil {
		maxPrice = f.MaxPrice.String()
	}
	return fmt.Sprintf("products:%s|%s|%s|%s|%s|%s|%d|%d",
		f.Search,
		strings.Join(f.Categories, ","),
		strings.Join(f.Locations, ","),
		minPrice, maxPrice,
		f.SortBy, f.Page, f.PerPage)
}

func (s *productService) List(ctx context.Context, filter repository.ProductFilter) (*ProductPage, error) {
	filter.Normalize()
	key := listingCacheKey(filter)

	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached ProductPage
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	products, total, err := s.products.ListAvailable(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	pages := total / int64(filter.PerPage)
	if total%int64(filter.PerPage) != 0 {
		pages++
	}
	page := &ProductPage{
		Products: products,
		Page:     filter.Page,
		PerPage:  filter.PerPage,
		Total:    total,
		Pages:    pages,
	}

	if payload, err := json.Marshal(page); err == nil {
		_ = s.cache.Set(ctx, key, payload, listingCacheTTL)
	}
	return page, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

func (s *productService) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.Product, error) {
	if _, err := s.farmers.FindByID(ctx, farmerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFarmerNotFound
		}
		return nil, fmt.Errorf("find farmer: %w", err)
	}
	products, err := s.products.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, fmt.Errorf("list farmer products: %w", err)
	}
	return products, nil
}

func (s *productService) TrackView(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return 0, err
	}
	if err := s.products.IncrementViewCount(ctx, id); err != nil {
		return 0, fmt.Errorf("increment view count: %w", err)
	}
	views, _ := s.cache.Incr(ctx, "product:views:"+id.String())
	return views, nil
}

// Create requires the caller to hold a farmer profile; the product is always
// attached to that profile regardless of request input.
func (s *productService) Create(ctx context.Context, caller authz.Caller, input ProductInput) (*model.Product, error) {
	if !caller.Authenticated() {
		return nil, apperrors.ErrUnauthorized
	}
	farmer, err := s.farmers.FindByUserID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrForbidden
		}
		return nil, fmt.Errorf("find caller profile: %w", err)
	}

	product := &model.Product{
		FarmerID:      farmer.ID,
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		Unit:          input.Unit,
		Category:      input.Category,
		StockQuantity: input.StockQuantity,
		ImageURL:      input.ImageURL,
		IsAvailable:   true,
	}
	if product.Unit == "" {
		product.Unit = "lb"
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, caller authz.Caller, id uuid.UUID, input ProductUpdate) (*model.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(ctx, caller, authz.ActionUpdateProduct, id); err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, caller authz.Caller, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.policy.Authorize(ctx, caller, authz.ActionDeleteProduct, id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
