package services

import (
	"errors"
	"fmt"
	"strings"

	"desteiger-backend/models"

	"gorm.io/gorm"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PropertyFilter narrows the catalog listing. Empty fields match everything.
type PropertyFilter struct {
	Type   string
	Status string
}

// Pagination is the envelope returned next to every paged listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// PropertyService wraps *gorm.DB for catalog reads and the admin-side writes.
type PropertyService struct {
	DB *gorm.DB
}

func NewPropertyService(db *gorm.DB) *PropertyService {
	return &PropertyService{DB: db}
}

// List returns one catalog page ordered ascending by type_number so the
// frontend grid is deterministic. Never returns a partial page on error.
func (s *PropertyService) List(filter PropertyFilter, page, limit int) ([]models.Property, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	q := s.DB.Model(&models.Property{})
	if t := strings.TrimSpace(filter.Type); t != "" {
		if !models.IsValidPropertyType(t) {
			return nil, Pagination{}, fmt.Errorf("%w: unknown property type %q", ErrValidation, t)
		}
		q = q.Where("type = ?", t)
	}
	if st := strings.TrimSpace(filter.Status); st != "" {
		if !models.IsValidPropertyStatus(st) {
			return nil, Pagination{}, fmt.Errorf("%w: unknown property status %q", ErrValidation, st)
		}
		q = q.Where("status = ?", st)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("property query failed: %w", err)
	}

	var items []models.Property
	if err := q.
		Order("type_number ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("property query failed: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return items, Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

func (s *PropertyService) GetByID(id uint) (models.Property, error) {
	var p models.Property
	if err := s.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return p, ErrPropertyNotFound
		}
		return p, fmt.Errorf("property query failed: %w", err)
	}
	return p, nil
}

func (s *PropertyService) GetBySlug(slug string) (models.Property, error) {
	var p models.Property
	if err := s.DB.Where("slug = ?", strings.TrimSpace(slug)).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return p, ErrPropertyNotFound
		}
		return p, fmt.Errorf("property query failed: %w", err)
	}
	return p, nil
}

// Create is admin-only; routes must gate it before calling.
func (s *PropertyService) Create(p models.Property) (models.Property, error) {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Slug) == "" {
		return p, fmt.Errorf("%w: name and slug are required", ErrValidation)
	}
	if !models.IsValidPropertyType(p.Type) {
		return p, fmt.Errorf("%w: unknown property type %q", ErrValidation, p.Type)
	}
	if p.Status == "" {
		p.Status = models.PropertyStatusAvailable
	}
	if !models.IsValidPropertyStatus(p.Status) {
		return p, fmt.Errorf("%w: unknown property status %q", ErrValidation, p.Status)
	}
	if p.SalePriceCents < 0 {
		return p, fmt.Errorf("%w: sale price must not be negative", ErrValidation)
	}
	if err := s.DB.Create(&p).Error; err != nil {
		return p, fmt.Errorf("failed to create property: %w", err)
	}
	return p, nil
}

// Update applies a partial column map to one property.
func (s *PropertyService) Update(id uint, updates map[string]interface{}) (models.Property, error) {
	if st, ok := updates["status"].(string); ok && !models.IsValidPropertyStatus(st) {
		return models.Property{}, fmt.Errorf("%w: unknown property status %q", ErrValidation, st)
	}

	res := s.DB.Model(&models.Property{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return models.Property{}, fmt.Errorf("failed to update property: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Property{}, ErrPropertyNotFound
	}
	return s.GetByID(id)
}

func (s *PropertyService) Delete(id uint) error {
	res := s.DB.Delete(&models.Property{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete property: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}
