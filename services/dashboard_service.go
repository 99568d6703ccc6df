package services

import (
	"fmt"

	"desteiger-backend/models"

	"gorm.io/gorm"
)

const recentLimit = 10

// DashboardStatistics is the headline block of the admin dashboard.
type DashboardStatistics struct {
	TotalProperties     int64 `json:"totalProperties"`
	AvailableProperties int64 `json:"availableProperties"`
	ReservedProperties  int64 `json:"reservedProperties"`
	SoldProperties      int64 `json:"soldProperties"`
	TotalReservations   int64 `json:"totalReservations"`
	PendingReservations int64 `json:"pendingReservations"`
	PaidReservations    int64 `json:"paidReservations"`
	TotalInquiries      int64 `json:"totalInquiries"`
	OpenInquiries       int64 `json:"openInquiries"`
	TotalRevenueCents   int64 `json:"totalRevenue"`
}

// PropertyBreakdownRow groups properties by (type, status).
type PropertyBreakdownRow struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// StatusBreakdownRow groups reservations by status.
type StatusBreakdownRow struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type Dashboard struct {
	Statistics         DashboardStatistics    `json:"statistics"`
	PropertyBreakdown  []PropertyBreakdownRow `json:"propertyBreakdown"`
	StatusBreakdown    []StatusBreakdownRow   `json:"statusBreakdown"`
	RecentReservations []models.Reservation   `json:"recentReservations"`
	RecentInquiries    []models.Inquiry       `json:"recentInquiries"`
}

// DashboardService composes the read-only admin overview. Everything is
// recomputed per call; traffic is low and nothing here holds state.
type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db}
}

func (s *DashboardService) countProperties(status string, out *int64) error {
	q := s.DB.Model(&models.Property{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return q.Count(out).Error
}

func (s *DashboardService) countReservations(status string, out *int64) error {
	q := s.DB.Model(&models.Reservation{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return q.Count(out).Error
}

// GetDashboard builds the full dashboard payload. Revenue sums the
// reservation fee over every reservation that reached paid or beyond.
func (s *DashboardService) GetDashboard() (Dashboard, error) {
	var d Dashboard

	if err := s.countProperties("", &d.Statistics.TotalProperties); err != nil {
		return d, fmt.Errorf("dashboard query failed: %w", err)
	}
	if err := s.countProperties(models.PropertyStatusAvailable, &d.Statistics.AvailableProperties); err != nil {
		return d, fmt.Errorf("dashboard query failed: %w", err)
	}
	if err := s.countProperties(models.PropertyStatusReserved, &d.Statistics.ReservedProperties); err != nil {
		return d, fmt.Errorf("dashboard query failed: %w", err)
	}
	if err := s.countProperties(models.PropertyStatusSold, &d.Statistics.SoldProperties); err != nil {
		return d, fmt.Errorf("dashboard query failed: %w", err)
	}
	if err := s.countReservations("", &d.Statistics.TotalReservations); err != nil {
		return d, fmt.Errorf("dashboard query failed: %w", err)
	}
	if err := s.countReservations(models.ReservationStatusPending, &d.Statistics.PendingReservations); err != nil {
		return d, fmt.Errorf("dashboard query failed: %w", err)
	}
	if err := s.countReservations(models.ReservationStatusPaid, &d.Statistics.PaidReservations); err != nil {
		return d, fmt.Errorf("dashboard query failed: %w", err)
	}
	if err := s.DB.Model(&models.Inquiry{}).Count(&d.Statistics.TotalInquiries).Error; err != nil {
		return d, fmt.Errorf("dashboard query failed: %w", err)
	}
	if err := s.DB.Model(&models.Inquiry{}).
		Where("status IN ?", []string{models.InquiryStatusNew, models.InquiryStatusInProgress}).
		Count(&d.Statistics.OpenInquiries).Error; err != nil {
		return d, fmt.Errorf("dashboard query failed: %w", err)
	}

	var revenue *int64
	if err := s.DB.Model(&models.Reservation{}).
		Select("SUM(reservation_fee_amount)").
		Where("status IN ?", []string{
			models.ReservationStatusPaid,
			models.ReservationStatusConfirmed,
			models.ReservationStatusCompleted,
		}).
		Scan(&revenue).Error; err != nil {
		return d, fmt.Errorf("dashboard query failed: %w", err)
	}
	if revenue != nil {
		d.Statistics.TotalRevenueCents = *revenue
	}

	if err := s.DB.Model(&models.Property{}).
		Select("type, status, COUNT(*) as count").
		Group("type").Group("status").
		Order("type").Order("status").
		Scan(&d.PropertyBreakdown).Error; err != nil {
		return d, fmt.Errorf("dashboard query failed: %w", err)
	}
	if err := s.DB.Model(&models.Reservation{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Order("status").
		Scan(&d.StatusBreakdown).Error; err != nil {
		return d, fmt.Errorf("dashboard query failed: %w", err)
	}

	if err := s.DB.Preload("Property").
		Order("created_at DESC").
		Limit(recentLimit).
		Find(&d.RecentReservations).Error; err != nil {
		return d, fmt.Errorf("dashboard query failed: %w", err)
	}
	if err := s.DB.
		Order("created_at DESC").
		Limit(recentLimit).
		Find(&d.RecentInquiries).Error; err != nil {
		return d, fmt.Errorf("dashboard query failed: %w", err)
	}

	if d.PropertyBreakdown == nil {
		d.PropertyBreakdown = []PropertyBreakdownRow{}
	}
	if d.StatusBreakdown == nil {
		d.StatusBreakdown = []StatusBreakdownRow{}
	}
	if d.RecentReservations == nil {
		d.RecentReservations = []models.Reservation{}
	}
	if d.RecentInquiries == nil {
		d.RecentInquiries = []models.Inquiry{}
	}

	return d, nil
}
