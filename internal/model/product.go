package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is an item listed by a farmer. Ownership is transitive: the product
// belongs to whoever owns its farmer profile.
type Product struct {
	ID       uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FarmerID uuid.UUID `json:"farmer_id" gorm:"type:char(36);not null;index"`

	Name          string          `json:"name" gorm:"size:255;not null"`
	Description   string          `json:"description" gorm:"type:text"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Unit          string          `json:"unit" gorm:"size:50;default:'lb'"`
	Category      string          `json:"category" gorm:"size:100;index"`
	StockQuantity int             `json:"stock_quantity" gorm:"default:0"`
	ImageURL      string          `json:"image_url" gorm:"type:text"`
	IsAvailable   bool            `json:"is_available" gorm:"default:true;index"`
	ViewCount     int64           `json:"view_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Farmer *Farmer `json:"farmer,omitempty" gorm:"foreignKey:FarmerID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
