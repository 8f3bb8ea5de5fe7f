package models

import "time"

type Patient struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	FullName   string    `gorm:"size:150;not null" json:"full_name"`
	Phone      string    `gorm:"size:30" json:"phone"`
	Region     string    `gorm:"size:100;index" json:"region"`
	Address    string    `gorm:"type:text" json:"address"`
	DoctorName string    `gorm:"size:150" json:"doctor_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreatePatientInput struct {
	FullName   string `json:"full_name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Region     string `json:"region"`
	Address    string `json:"address"`
	DoctorName string `json:"doctor_name"`
}
