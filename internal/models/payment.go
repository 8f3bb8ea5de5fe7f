package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment belongs to a rental (directly, through an item or a group) or to a sale.
// IsOverdue/OverdueDays are the snapshot taken when the row was written; readers
// recompute them.
type Payment struct {
	ID              uint64          `gorm:"primaryKey" json:"id"`
	RentalID        *uint64         `gorm:"index" json:"rental_id,omitempty"`
	RentalItemID    *uint64         `gorm:"index" json:"rental_item_id,omitempty"`
	RentalGroupID   *uint64         `gorm:"index" json:"rental_group_id,omitempty"`
	SaleID          *uint64         `gorm:"index" json:"sale_id,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,3)" json:"amount"`
	Type            string          `gorm:"size:20;not null" json:"type"`
	Status          string          `gorm:"size:20;default:PENDING" json:"status"`
	PaymentDate     *time.Time      `json:"payment_date"`
	PeriodStartDate *time.Time      `json:"period_start_date"`
	PeriodEndDate   *time.Time      `json:"period_end_date"`
	DueDate         *time.Time      `json:"due_date"`
	OverdueDate     *time.Time      `json:"overdue_date"`
	IsOverdue       bool            `json:"is_overdue"`
	OverdueDays     int             `json:"overdue_days"`

	ChequeNumber     string     `gorm:"size:50" json:"cheque_number,omitempty"`
	ChequeBank       string     `gorm:"size:100" json:"cheque_bank,omitempty"`
	TraiteDueDate    *time.Time `json:"traite_due_date,omitempty"`
	CNAMStatus       string     `gorm:"column:cnam_status;size:30" json:"cnam_status,omitempty"`
	CNAMFollowUpDate *time.Time `gorm:"column:cnam_follow_up_date" json:"cnam_follow_up_date,omitempty"`
	Reference        string     `gorm:"size:64;index" json:"reference,omitempty"`
	Notes            string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type CreatePaymentInput struct {
	Amount           decimal.Decimal `json:"amount" binding:"gt=0"`
	Type             string          `json:"type" binding:"required,oneof=CASH CHEQUE TRAITE CNAM VIREMENT MONDAT"`
	PaymentDate      *time.Time      `json:"payment_date"`
	PeriodStartDate  *time.Time      `json:"period_start_date"`
	PeriodEndDate    *time.Time      `json:"period_end_date"`
	DueDate          *time.Time      `json:"due_date"`
	OverdueDate      *time.Time      `json:"overdue_date"`
	ChequeNumber     string          `json:"cheque_number" binding:"required_if=Type CHEQUE"`
	ChequeBank       string          `json:"cheque_bank"`
	TraiteDueDate    *time.Time      `json:"traite_due_date" binding:"required_if=Type TRAITE"`
	CNAMStatus       string          `json:"cnam_status" binding:"required_if=Type CNAM"`
	CNAMFollowUpDate *time.Time      `json:"cnam_follow_up_date"`
	RentalItemID     *uint64         `json:"rental_item_id"`
	RentalGroupID    *uint64         `json:"rental_group_id"`
	Notes            string          `json:"notes"`
}
