package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	InquiryStatusNew        = "new"
	InquiryStatusInProgress = "in_progress"
	InquiryStatusClosed     = "closed"
)

func IsValidInquiryStatus(s string) bool {
	return s == InquiryStatusNew || s == InquiryStatusInProgress || s == InquiryStatusClosed
}

type Inquiry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FirstName string `gorm:"size:100" json:"firstName"`
	LastName  string `gorm:"size:100" json:"lastName"`
	Email     string `gorm:"size:150" json:"email"`
	Phone     string `gorm:"size:50" json:"phone,omitempty"`
	Company   string `gorm:"size:150" json:"company,omitempty"`

	// Optional link to the property the inquiry is about.
	PropertyID *uint    `gorm:"index" json:"propertyId,omitempty"`
	Property   Property `gorm:"foreignKey:PropertyID;references:ID" json:"property,omitempty"`

	Subject string `gorm:"size:255" json:"subject"`
	Message string `gorm:"type:text" json:"message"`
	Status  string `gorm:"size:32;index;default:new" json:"status"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
