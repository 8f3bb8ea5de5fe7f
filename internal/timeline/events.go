// Package timeline derives calendar events, payment overdue state, notifications
// and rental statistics from records that were already fetched from storage.
//
// Every function takes the reference time explicitly. Callers read the clock
// once per request and pass the same value everywhere so that one pass never
// sees a payment flip to overdue half way through.
package timeline

import (
	"time"

	"homecare-rental/internal/models"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

type EventType string

const (
	EventAppointment  EventType = "appointment"
	EventRental       EventType = "rental"
	EventRentalPeriod EventType = "rental_period"
	EventSale         EventType = "sale"
	EventDiagnostic   EventType = "diagnostic"
	EventPayment      EventType = "payment"
)

// Derived statuses. Appointment, rental and sale events carry the stored
// status of their record instead.
const (
	StatusCompleted = "COMPLETED"
	StatusOngoing   = "ONGOING"
	StatusScheduled = "SCHEDULED"
	StatusOverdue   = "OVERDUE"
	StatusDue       = "DUE"
)

type PatientRef struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}

func patientRef(p models.Patient) PatientRef {
	return PatientRef{ID: p.ID, FullName: p.FullName, Phone: p.Phone}
}

// CalendarEvent is built fresh on every aggregation and never stored.
type CalendarEvent struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Date    time.Time    `json:"date"`
	Type    EventType    `json:"type"`
	Status  string       `json:"status"`
	Patient PatientRef   `json:"patient"`
	Details EventDetails `json:"details"`
}

// EventDetails is the typed payload of a CalendarEvent. The concrete type
// always matches the event's Type.
type EventDetails interface {
	EventType() EventType
}

type AppointmentDetails struct {
	AppointmentID uint64  `json:"appointment_id"`
	Kind          string  `json:"kind"`
	Location      string  `json:"location,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	RentalID      *uint64 `json:"rental_id,omitempty"`
	SaleID        *uint64 `json:"sale_id,omitempty"`
	DiagnosticID  *uint64 `json:"diagnostic_id,omitempty"`
}

// RentalPeriodDetails describes one day of a rental. EndDate is the stored end
// (nil for an open rental); EffectiveEndDate is what the expansion used.
type RentalPeriodDetails struct {
	RentalID           uint64     `json:"rental_id"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	EffectiveEndDate   time.Time  `json:"effective_end_date"`
	DayInPeriod        int        `json:"day_in_period"`
	TotalDays          int        `json:"total_days"`
	ProgressPercentage int        `json:"progress_percentage"`
	IsOngoing          bool       `json:"is_ongoing"`
	ReturnStatus       string     `json:"return_status"`
}

type Bookend string

const (
	BookendStart Bookend = "start"
	BookendEnd   Bookend = "end"
)

type RentalDetails struct {
	RentalID       uint64          `json:"rental_id"`
	Bookend        Bookend         `json:"bookend"`
	ContractNumber string          `json:"contract_number,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	RentalStatus   string          `json:"rental_status"`
	ReturnStatus   string          `json:"return_status"`
	ItemCount      int             `json:"item_count"`
}

type SaleDetails struct {
	SaleID         uint64          `json:"sale_id"`
	Amount         decimal.Decimal `json:"amount"`
	DeviceCount    int             `json:"device_count"`
	AccessoryCount int             `json:"accessory_count"`
}

type DiagnosticDetails struct {
	DiagnosticID uint64   `json:"diagnostic_id"`
	Polygraph    string   `json:"polygraph"`
	IAHResult    *float64 `json:"iah_result"`
	IDResult     *float64 `json:"id_result"`
	Remarks      string   `json:"remarks,omitempty"`
}

type PaymentDetails struct {
	PaymentID   uint64          `json:"payment_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	RentalID    *uint64         `json:"rental_id,omitempty"`
	SaleID      *uint64         `json:"sale_id,omitempty"`
	DueDate     time.Time       `json:"due_date"`
	OverdueDate time.Time       `json:"overdue_date"`
	IsOverdue   bool            `json:"is_overdue"`
	OverdueDays int             `json:"overdue_days"`
}

func (AppointmentDetails) EventType() EventType  { return EventAppointment }
func (RentalPeriodDetails) EventType() EventType { return EventRentalPeriod }
func (RentalDetails) EventType() EventType       { return EventRental }
func (SaleDetails) EventType() EventType         { return EventSale }
func (DiagnosticDetails) EventType() EventType   { return EventDiagnostic }
func (PaymentDetails) EventType() EventType      { return EventPayment }
