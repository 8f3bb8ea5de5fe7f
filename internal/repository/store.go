// Package repository fetches the records the timeline core works on.
package repository

import (
	"context"

	"homecare-rental/internal/models"

	"gorm.io/gorm"
)

// Scope narrows a fetch to one patient. The zero Scope covers everyone.
type Scope struct {
	PatientID uint64
}

func (s Scope) All() bool { return s.PatientID == 0 }

// Store is the read side used by the calendar, notifications and analytics.
type Store interface {
	Appointments(ctx context.Context, scope Scope) ([]models.Appointment, error)
	Rentals(ctx context.Context, scope Scope) ([]models.Rental, error)
	Sales(ctx context.Context, scope Scope) ([]models.Sale, error)
	Diagnostics(ctx context.Context, scope Scope) ([]models.Diagnostic, error)

	Patients(ctx context.Context, scope Scope) ([]models.Patient, error)
	PatientsByRegion(ctx context.Context) ([]models.GroupCount, error)
	PatientsByDoctor(ctx context.Context) ([]models.GroupCount, error)
	Users(ctx context.Context) ([]models.User, error)
	UsersByRole(ctx context.Context) ([]models.GroupCount, error)
}

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) scoped(ctx context.Context, scope Scope) *gorm.DB {
	q := s.DB.WithContext(ctx)
	if !scope.All() {
		q = q.Where("patient_id = ?", scope.PatientID)
	}
	return q
}

func (s *GormStore) Appointments(ctx context.Context, scope Scope) ([]models.Appointment, error) {
	var out []models.Appointment
	err := s.scoped(ctx, scope).
		Preload("Patient").
		Order("appointment_date asc").
		Find(&out).Error
	return out, err
}

func (s *GormStore) Rentals(ctx context.Context, scope Scope) ([]models.Rental, error) {
	var out []models.Rental
	err := s.scoped(ctx, scope).
		Preload("Patient").
		Preload("Payments").
		Preload("RentalItems.Payments").
		Preload("RentalItems.Device").
		Preload("RentalItems.Accessory").
		Preload("RentalGroups.Payments").
		Order("start_date asc").
		Find(&out).Error
	return out, err
}

func (s *GormStore) Sales(ctx context.Context, scope Scope) ([]models.Sale, error) {
	var out []models.Sale
	err := s.scoped(ctx, scope).
		Preload("Patient").
		Preload("Payments").
		Preload("Devices").
		Preload("Accessories").
		Order("date asc").
		Find(&out).Error
	return out, err
}

func (s *GormStore) Diagnostics(ctx context.Context, scope Scope) ([]models.Diagnostic, error) {
	var out []models.Diagnostic
	err := s.scoped(ctx, scope).
		Preload("Patient").
		Order("date asc").
		Find(&out).Error
	return out, err
}

func (s *GormStore) Patients(ctx context.Context, scope Scope) ([]models.Patient, error) {
	var out []models.Patient
	q := s.DB.WithContext(ctx)
	if !scope.All() {
		q = q.Where("id = ?", scope.PatientID)
	}
	err := q.Order("id asc").Find(&out).Error
	return out, err
}

func (s *GormStore) groupCount(ctx context.Context, model any, column string) ([]models.GroupCount, error) {
	var out []models.GroupCount
	err := s.DB.WithContext(ctx).Model(model).
		Select("COALESCE(NULLIF(" + column + ", ''), 'Unknown') AS label, COUNT(*) AS count").
		Group("label").
		Order("count desc").
		Scan(&out).Error
	return out, err
}

func (s *GormStore) PatientsByRegion(ctx context.Context) ([]models.GroupCount, error) {
	return s.groupCount(ctx, &models.Patient{}, "region")
}

func (s *GormStore) PatientsByDoctor(ctx context.Context) ([]models.GroupCount, error) {
	return s.groupCount(ctx, &models.Patient{}, "doctor_name")
}

func (s *GormStore) Users(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := s.DB.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}

func (s *GormStore) UsersByRole(ctx context.Context) ([]models.GroupCount, error) {
	var out []models.GroupCount
	err := s.DB.WithContext(ctx).Model(&models.User{}).
		Select("CAST(role_id AS CHAR) AS label, COUNT(*) AS count").
		Group("role_id").
		Order("role_id asc").
		Scan(&out).Error
	return out, err
}
