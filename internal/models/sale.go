package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID        uint64          `gorm:"primaryKey" json:"id"`
	PatientID uint64          `gorm:"not null;index" json:"patient_id"`
	Date      time.Time       `gorm:"not null" json:"date"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,3)" json:"amount"`
	Status    string          `gorm:"size:20;default:PENDING" json:"status"`
	Notes     string          `gorm:"type:text" json:"notes"`
	CreatedAt time.Time       `json:"created_at"`

	Patient     Patient     `gorm:"foreignKey:PatientID" json:"patient"`
	Devices     []Device    `gorm:"foreignKey:SaleID" json:"devices,omitempty"`
	Accessories []Accessory `gorm:"foreignKey:SaleID" json:"accessories,omitempty"`
	Payments    []Payment   `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
}

type CreateSaleInput struct {
	PatientID    uint64               `json:"patient_id" binding:"required"`
	Date         time.Time            `json:"date" binding:"required"`
	Amount       decimal.Decimal      `json:"amount" binding:"gt=0"`
	Status       string               `json:"status" binding:"omitempty,oneof=PENDING COMPLETED CANCELLED"`
	Notes        string               `json:"notes"`
	DeviceIDs    []uint64             `json:"device_ids"`
	AccessoryIDs []uint64             `json:"accessory_ids"`
	Payments     []CreatePaymentInput `json:"payments" binding:"required,min=1,dive"`
}
