package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rental is one contract for devices/accessories lent to a patient.
// EndDate is nil for an open rental.
type Rental struct {
	ID               uint64          `gorm:"primaryKey" json:"id"`
	PatientID        uint64          `gorm:"not null;index" json:"patient_id"`
	StartDate        time.Time       `gorm:"not null" json:"start_date"`
	EndDate          *time.Time      `json:"end_date"`
	Amount           decimal.Decimal `gorm:"type:decimal(12,3)" json:"amount"`
	Status           string          `gorm:"size:20;default:PENDING" json:"status"`
	ReturnStatus     string          `gorm:"size:30;default:NOT_RETURNED" json:"return_status"`
	ActualReturnDate *time.Time      `json:"actual_return_date"`
	ContractNumber   string          `gorm:"size:50" json:"contract_number"`
	Notes            string          `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Patient      Patient       `gorm:"foreignKey:PatientID" json:"patient"`
	RentalItems  []RentalItem  `gorm:"foreignKey:RentalID" json:"rental_items,omitempty"`
	RentalGroups []RentalGroup `gorm:"foreignKey:RentalID" json:"rental_groups,omitempty"`
	Payments     []Payment     `gorm:"foreignKey:RentalID" json:"payments,omitempty"`
}

// RentalGroup bundles items that share payments.
type RentalGroup struct {
	ID         uint64          `gorm:"primaryKey" json:"id"`
	RentalID   uint64          `gorm:"not null;index" json:"rental_id"`
	Name       string          `gorm:"size:100" json:"name"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,3)" json:"total_price"`
	StartDate  *time.Time      `json:"start_date"`
	EndDate    *time.Time      `json:"end_date"`

	RentalItems []RentalItem `gorm:"foreignKey:RentalGroupID" json:"rental_items,omitempty"`
	Payments    []Payment    `gorm:"foreignKey:RentalGroupID" json:"payments,omitempty"`
}

type RentalItem struct {
	ID            uint64          `gorm:"primaryKey" json:"id"`
	RentalID      uint64          `gorm:"not null;index" json:"rental_id"`
	RentalGroupID *uint64         `gorm:"index" json:"rental_group_id"`
	ItemType      string          `gorm:"size:20;not null" json:"item_type"`
	DeviceID      *uint64         `json:"device_id"`
	AccessoryID   *uint64         `json:"accessory_id"`
	Quantity      int             `gorm:"default:1" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,3)" json:"unit_price"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(12,3)" json:"total_price"`

	Device    *Device    `gorm:"foreignKey:DeviceID" json:"device,omitempty"`
	Accessory *Accessory `gorm:"foreignKey:AccessoryID" json:"accessory,omitempty"`
	Payments  []Payment  `gorm:"foreignKey:RentalItemID" json:"payments,omitempty"`
}

type CreateRentalItemInput struct {
	ItemType    string          `json:"item_type" binding:"required,oneof=DEVICE ACCESSORY"`
	DeviceID    *uint64         `json:"device_id"`
	AccessoryID *uint64         `json:"accessory_id"`
	Quantity    int             `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"gte=0"`
	TotalPrice  decimal.Decimal `json:"total_price" binding:"gte=0"`
	Group       string          `json:"group"`
}

type CreateRentalInput struct {
	PatientID      uint64                  `json:"patient_id" binding:"required"`
	StartDate      time.Time               `json:"start_date" binding:"required"`
	EndDate        *time.Time              `json:"end_date"`
	Amount         decimal.Decimal         `json:"amount" binding:"gte=0"`
	ContractNumber string                  `json:"contract_number"`
	Notes          string                  `json:"notes"`
	Items          []CreateRentalItemInput `json:"items" binding:"dive"`
}

type ReturnRentalInput struct {
	ReturnStatus     string     `json:"return_status" binding:"required,oneof=RETURNED PARTIALLY_RETURNED DAMAGED NOT_RETURNED"`
	ActualReturnDate *time.Time `json:"actual_return_date"`
}
