package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InquiryStatus tracks the lifecycle of a customer inquiry.
type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "new"
	InquiryStatusRead      InquiryStatus = "read"
	InquiryStatusResponded InquiryStatus = "responded"
	InquiryStatusArchived  InquiryStatus = "archived"
)

// ValidInquiryStatus reports whether s is a known status value.
func ValidInquiryStatus(s InquiryStatus) bool {
	switch s {
	case InquiryStatusNew, InquiryStatusRead, InquiryStatusResponded, InquiryStatusArchived:
		return true
	}
	return false
}

// Inquiry is a customer message addressed to a farmer, optionally about a
// specific product. Anyone may create one; only the owning farmer or an
// admin may read or mutate it afterwards.
type Inquiry struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	FarmerID  uuid.UUID  `json:"farmer_id" gorm:"type:char(36);not null;index"`
	ProductID *uuid.UUID `json:"product_id,omitempty" gorm:"type:char(36);index"`

	CustomerName  string        `json:"customer_name" gorm:"size:255;not null"`
	CustomerEmail string        `json:"customer_email" gorm:"size:255;not null"`
	CustomerPhone string        `json:"customer_phone" gorm:"size:20"`
	Message       string        `json:"message" gorm:"type:text;not null"`
	Status        InquiryStatus `json:"status" gorm:"type:varchar(50);default:'new';index"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Farmer  *Farmer  `json:"farmer,omitempty" gorm:"foreignKey:FarmerID"`
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
}

// BeforeCreate sets UUID before creating the record.
func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
