package models

import "time"

type Diagnostic struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PatientID uint64    `gorm:"not null;index" json:"patient_id"`
	Date      time.Time `gorm:"not null" json:"date"`
	Polygraph string    `gorm:"size:100" json:"polygraph"`
	IAHResult *float64  `gorm:"column:iah_result" json:"iah_result"`
	IDResult  *float64  `gorm:"column:id_result" json:"id_result"`
	Remarks   string    `gorm:"type:text" json:"remarks"`
	CreatedAt time.Time `json:"created_at"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"patient"`
}

type CreateDiagnosticInput struct {
	Date      time.Time `json:"date" binding:"required"`
	Polygraph string    `json:"polygraph" binding:"required"`
	IAHResult *float64  `json:"iah_result" binding:"omitempty,min=0"`
	IDResult  *float64  `json:"id_result" binding:"omitempty,min=0"`
	Remarks   string    `json:"remarks"`
}
