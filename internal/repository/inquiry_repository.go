package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmlink/internal/model"
)

// InquiryRepository defines persistence operations for customer inquiries.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *model.Inquiry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Inquiry, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.Inquiry, error)
	Update(ctx context.Context, inquiry *model.Inquiry) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]model.Inquiry, error)
	Count(ctx context.Context) (int64, error)
	CountByFarmerAndStatus(ctx context.Context, farmerID uuid.UUID) (map[model.InquiryStatus]int64, error)
}

type inquiryRepository struct {
	db *gorm.DB
}

// NewInquiryRepository builds a GORM-backed repository.
func NewInquiryRepository(db *gorm.DB) InquiryRepository {
	return &inquiryRepository{db: db}
}

func (r *inquiryRepository) Create(ctx context.Context, inquiry *model.Inquiry) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}

func (r *inquiryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Inquiry, error) {
	var inquiry model.Inquiry
	if err := r.db.WithContext(ctx).Preload("Product").First(&inquiry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *inquiryRepository) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]model.Inquiry, error) {
	var inquiries []model.Inquiry
	if err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Preload("Product").
		Order("created_at DESC").
		Find(&inquiries).Error; err != nil {
		return nil, err
	}
	return inquiries, nil
}

func (r *inquiryRepository) Update(ctx context.Context, inquiry *model.Inquiry) error {
	return r.db.WithContext(ctx).Save(inquiry).Error
}

func (r *inquiryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Inquiry{}, "id = ?", id).Error
}

func (r *inquiryRepository) List(ctx context.Context) ([]model.Inquiry, error) {
	var inquiries []model.Inquiry
	if err := r.db.WithContext(ctx).Preload("Product").Order("created_at DESC").Find(&inquiries).Error; err != nil {
		return nil, err
	}
	return inquiries, nil
}

func (r *inquiryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Inquiry{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *inquiryRepository) CountByFarmerAndStatus(ctx context.Context, farmerID uuid.UUID) (map[model.InquiryStatus]int64, error) {
	type row struct {
		Status model.InquiryStatus
		Total  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&model.Inquiry{}).
		Select("status, COUNT(*) AS total").
		Where("farmer_id = ?", farmerID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[model.InquiryStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}
