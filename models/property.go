package models

import (
	"gorm.io/gorm"
)

// Property types as sold by De Steiger.
const (
	PropertyTypeBedrijfsunit = "bedrijfsunit"
	PropertyTypeOpslagbox    = "opslagbox"
)

// Property statuses. Transitions are driven by reservation/sale events or
// admin calls, never settable by anonymous clients.
const (
	PropertyStatusAvailable   = "available"
	PropertyStatusReserved    = "reserved"
	PropertyStatusSold        = "sold"
	PropertyStatusMaintenance = "maintenance"
)

type Property struct {
	gorm.Model

	Slug       string `gorm:"column:slug;uniqueIndex;size:150" json:"slug"`
	Name       string `gorm:"column:name;size:255" json:"name"`
	Type       string `gorm:"column:type;size:32;index" json:"type"`
	UnitNumber string `gorm:"column:unit_number;size:32" json:"unitNumber"`

	// TypeNumber is the catalog ordering key (unit 1, 2, 3... within the park).
	TypeNumber int `gorm:"column:type_number;index" json:"typeNumber"`

	GrossAreaM2       float64 `gorm:"column:gross_area_m2" json:"grossAreaM2"`
	NetAreaM2         float64 `gorm:"column:net_area_m2" json:"netAreaM2"`
	GroundFloorAreaM2 float64 `gorm:"column:ground_floor_area_m2" json:"groundFloorAreaM2"`
	MezzanineAreaM2   float64 `gorm:"column:mezzanine_area_m2" json:"mezzanineAreaM2"`

	// Amounts in euro cents.
	SalePriceCents      int64  `gorm:"column:sale_price" json:"salePrice"`
	ReservationFeeCents *int64 `gorm:"column:reservation_fee" json:"reservationFee,omitempty"`

	Status        string `gorm:"column:status;size:32;index;default:available" json:"status"`
	ParkingSpaces int    `gorm:"column:parking_spaces;default:0" json:"parkingSpaces"`
	Description   string `gorm:"column:description;type:text" json:"description"`
}

func IsValidPropertyType(t string) bool {
	return t == PropertyTypeBedrijfsunit || t == PropertyTypeOpslagbox
}

func IsValidPropertyStatus(s string) bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusReserved, PropertyStatusSold, PropertyStatusMaintenance:
		return true
	}
	return false
}
