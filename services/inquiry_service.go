package services

import (
	"errors"
	"fmt"
	"strings"

	"desteiger-backend/models"

	"gorm.io/gorm"
)

type InquiryService struct {
	DB *gorm.DB
}

func NewInquiryService(db *gorm.DB) *InquiryService {
	return &InquiryService{DB: db}
}

func (s *InquiryService) Create(in models.Inquiry) (models.Inquiry, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return in, fmt.Errorf("%w: first and last name are required", ErrValidation)
	}
	if strings.TrimSpace(in.Email) == "" {
		return in, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if strings.TrimSpace(in.Message) == "" {
		return in, fmt.Errorf("%w: message is required", ErrValidation)
	}
	if in.PropertyID != nil {
		var p models.Property
		if err := s.DB.First(&p, *in.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return in, ErrPropertyNotFound
			}
			return in, fmt.Errorf("failed to check property: %w", err)
		}
	}

	in.Status = models.InquiryStatusNew
	if err := s.DB.Create(&in).Error; err != nil {
		return in, fmt.Errorf("failed to create inquiry: %w", err)
	}
	return in, nil
}

func (s *InquiryService) List(status string) ([]models.Inquiry, error) {
	q := s.DB.Model(&models.Inquiry{})
	if status != "" {
		if !models.IsValidInquiryStatus(status) {
			return nil, fmt.Errorf("%w: unknown inquiry status %q", ErrValidation, status)
		}
		q = q.Where("status = ?", status)
	}

	var out []models.Inquiry
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve inquiries: %w", err)
	}
	return out, nil
}

func (s *InquiryService) UpdateStatus(id uint, status string) (models.Inquiry, error) {
	if !models.IsValidInquiryStatus(status) {
		return models.Inquiry{}, fmt.Errorf("%w: unknown inquiry status %q", ErrValidation, status)
	}

	res := s.DB.Model(&models.Inquiry{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return models.Inquiry{}, fmt.Errorf("failed to update inquiry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Inquiry{}, ErrInquiryNotFound
	}

	var out models.Inquiry
	if err := s.DB.First(&out, id).Error; err != nil {
		return out, fmt.Errorf("failed to reload inquiry: %w", err)
	}
	return out, nil
}
