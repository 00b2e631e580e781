package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Farmer is a farmer's public profile, owned one-to-one by a User.
type Farmer struct {
	ID     uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID uuid.UUID `json:"user_id" gorm:"type:char(36);uniqueIndex;not null"`

	FarmName        string `json:"farm_name" gorm:"size:255;not null"`
	FirstName       string `json:"first_name" gorm:"size:100"`
	LastName        string `json:"last_name" gorm:"size:100"`
	Location        string `json:"location" gorm:"type:text"`
	Phone           string `json:"phone" gorm:"size:20"`
	Description     string `json:"description" gorm:"type:text"`
	ProfileImageURL string `json:"profile_image_url" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Products  []Product `json:"products,omitempty" gorm:"foreignKey:FarmerID;constraint:OnDelete:CASCADE"`
	Inquiries []Inquiry `json:"inquiries,omitempty" gorm:"foreignKey:FarmerID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (f *Farmer) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
