package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"farmlink/internal/model"
)

// ProductSort values accepted by the public listing.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortName      = "name"
)

// ProductFilter captures the public listing's search, filter, sort and
// pagination parameters.
type ProductFilter struct {
	Search     string
	Categories []string
	Locations  []string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SortBy     string
	Page       int
	PerPage    int
}

// Normalize clamps pagination and fills defaults.
func (f *ProductFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
	switch f.SortBy {
	case SortPriceLow, SortPriceHigh, SortName:
	default:
		f.SortBy = SortNewest
	}
}

// FarmerProductStats aggregates a farmer's product figures for analytics.
type FarmerProductStats struct {
	ProductCount int64
	TotalViews   int64
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// ListAvailable returns available products matching the filter along
	// with the unpaginated total.
	ListAvailable(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]model.Product, error)
	Count(ctx context.Context) (int64, error)
	StatsByFarmer(ctx context.Context, farmerID uuid.UUID) (FarmerProductStats, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository builds a GORM-backed repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Farmer").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) ListAvailable(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	filter.Normalize()

	q := r.db.WithContext(ctx).Model(&model.Product{}).
		Joins("JOIN farmers ON farmers.id = products.farmer_id").
		Where("products.is_available = ?", true)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("products.name LIKE ? OR products.description LIKE ? OR farmers.farm_name LIKE ?", like, like, like)
	}
	if len(filter.Categories) > 0 {
		q = q.Where("products.category IN ?", filter.Categories)
	}
	if len(filter.Locations) > 0 {
		q = q.Where("farmers.location IN ?", filter.Locations)
	}
	if filter.MinPrice != nil {
		q = q.Where("products.price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("products.price <= ?", filter.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.SortBy {
	case SortPriceLow:
		q = q.Order("products.price ASC")
	case SortPriceHigh:
		q = q.Order("products.price DESC")
	case SortName:
		q = q.Order("products.name ASC")
	default:
		q = q.Order("products.created_at DESC")
	}

	var products []model.Product
	if err := q.Preload("Farmer").
		Offset((filter.Page - 1) * filter.PerPage).
		Limit(filter.PerPage).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Preload("Farmer").Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *productRepository) StatsByFarmer(ctx context.Context, farmerID uuid.UUID) (FarmerProductStats, error) {
	var stats FarmerProductStats
	row := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("COUNT(*) AS product_count, COALESCE(SUM(view_count), 0) AS total_views").
		Where("farmer_id = ?", farmerID).
		Row()
	if err := row.Scan(&stats.ProductCount, &stats.TotalViews); err != nil {
		return FarmerProductStats{}, err
	}
	return stats, nil
}
