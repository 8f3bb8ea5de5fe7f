package models

import "time"

type Appointment struct {
	ID              uint64    `gorm:"primaryKey" json:"id"`
	PatientID       uint64    `gorm:"not null;index" json:"patient_id"`
	AppointmentDate time.Time `gorm:"not null;index" json:"appointment_date"`
	Type            string    `gorm:"size:50" json:"type"`
	Status          string    `gorm:"size:20;default:SCHEDULED" json:"status"`
	Location        string    `gorm:"size:255" json:"location"`
	Notes           string    `gorm:"type:text" json:"notes"`
	AssignedToID    *uint64   `gorm:"index" json:"assigned_to_id"`
	RentalID        *uint64   `json:"rental_id,omitempty"`
	SaleID          *uint64   `json:"sale_id,omitempty"`
	DiagnosticID    *uint64   `json:"diagnostic_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`

	Patient    Patient `gorm:"foreignKey:PatientID" json:"patient"`
	AssignedTo *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
}

type CreateAppointmentInput struct {
	PatientID       uint64    `json:"patient_id" binding:"required"`
	AppointmentDate time.Time `json:"appointment_date" binding:"required"`
	Type            string    `json:"type" binding:"required"`
	Location        string    `json:"location"`
	Notes           string    `json:"notes"`
	AssignedToID    *uint64   `json:"assigned_to_id"`
	RentalID        *uint64   `json:"rental_id"`
	SaleID          *uint64   `json:"sale_id"`
	DiagnosticID    *uint64   `json:"diagnostic_id"`
}
