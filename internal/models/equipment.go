package models

import "github.com/shopspring/decimal"

type Device struct {
	ID           uint64          `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"size:150;not null" json:"name"`
	Brand        string          `gorm:"size:100" json:"brand"`
	Model        string          `gorm:"size:100" json:"model"`
	SerialNumber string          `gorm:"size:100;uniqueIndex" json:"serial_number"`
	RentalPrice  decimal.Decimal `gorm:"type:decimal(12,3)" json:"rental_price"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,3)" json:"selling_price"`
	Status       string          `gorm:"size:20;default:ACTIVE" json:"status"`
	SaleID       *uint64         `gorm:"index" json:"sale_id,omitempty"`
}

type Accessory struct {
	ID           uint64          `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"size:150;not null" json:"name"`
	Brand        string          `gorm:"size:100" json:"brand"`
	Stock        int             `json:"stock"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,3)" json:"selling_price"`
	SaleID       *uint64         `gorm:"index" json:"sale_id,omitempty"`
}
