package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"farmlink/internal/model"
)

// FarmerRepository defines persistence operations for farmer profiles.
type FarmerRepository interface {
	// CreateWithOwnerPromotion creates the profile and, in the same
	// transaction, promotes the owning user from plain user to farmer if
	// they still hold the plain role. Running both inside one transaction
	// keeps the one-profile-per-user and promote-exactly-once invariants
	// from racing with a concurrent create.
	CreateWithOwnerPromotion(ctx context.Context, farmer *model.Farmer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Farmer, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Farmer, error)
	Update(ctx context.Context, farmer *model.Farmer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]model.Farmer, error)
	Count(ctx context.Context) (int64, error)
}

type farmerRepository struct {
	db *gorm.DB
}

// NewFarmerRepository builds a GORM-backed repository.
func NewFarmerRepository(db *gorm.DB) FarmerRepository {
	return &farmerRepository{db: db}
}

func (r *farmerRepository) CreateWithOwnerPromotion(ctx context.Context, farmer *model.Farmer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(farmer).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ? AND role = ?", farmer.UserID, model.RoleUser).
			Update("role", model.RoleFarmer).Error
	})
}

func (r *farmerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Farmer, error) {
	var farmer model.Farmer
	if err := r.db.WithContext(ctx).First(&farmer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &farmer, nil
}

func (r *farmerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Farmer, error) {
	var farmer model.Farmer
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&farmer).Error; err != nil {
		return nil, err
	}
	return &farmer, nil
}

func (r *farmerRepository) Update(ctx context.Context, farmer *model.Farmer) error {
	return r.db.WithContext(ctx).Save(farmer).Error
}

func (r *farmerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Farmer{}, "id = ?", id).Error
}

func (r *farmerRepository) List(ctx context.Context) ([]model.Farmer, error) {
	var farmers []model.Farmer
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&farmers).Error; err != nil {
		return nil, err
	}
	return farmers, nil
}

func (r *farmerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Farmer{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
