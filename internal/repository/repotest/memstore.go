// Package repotest provides an in-memory repository.Store for tests.
package repotest

import (
	"context"

	"homecare-rental/internal/models"
	"homecare-rental/internal/repository"
)

// MemStore serves fixed records. Errs maps a method name ("Rentals",
// "PatientsByRegion", ...) to the error that method returns.
type MemStore struct {
	AppointmentRows []models.Appointment
	RentalRows      []models.Rental
	SaleRows        []models.Sale
	DiagnosticRows  []models.Diagnostic
	PatientRows     []models.Patient
	UserRows        []models.User
	RegionCounts    []models.GroupCount
	DoctorCounts    []models.GroupCount
	RoleCounts      []models.GroupCount

	Errs map[string]error
}

var _ repository.Store = (*MemStore)(nil)

func (m *MemStore) fail(method string) error {
	return m.Errs[method]
}

func (m *MemStore) Appointments(ctx context.Context, scope repository.Scope) ([]models.Appointment, error) {
	if err := m.fail("Appointments"); err != nil {
		return nil, err
	}
	var out []models.Appointment
	for _, a := range m.AppointmentRows {
		if scope.All() || a.PatientID == scope.PatientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MemStore) Rentals(ctx context.Context, scope repository.Scope) ([]models.Rental, error) {
	if err := m.fail("Rentals"); err != nil {
		return nil, err
	}
	var out []models.Rental
	for _, r := range m.RentalRows {
		if scope.All() || r.PatientID == scope.PatientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemStore) Sales(ctx context.Context, scope repository.Scope) ([]models.Sale, error) {
	if err := m.fail("Sales"); err != nil {
		return nil, err
	}
	var out []models.Sale
	for _, s := range m.SaleRows {
		if scope.All() || s.PatientID == scope.PatientID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemStore) Diagnostics(ctx context.Context, scope repository.Scope) ([]models.Diagnostic, error) {
	if err := m.fail("Diagnostics"); err != nil {
		return nil, err
	}
	var out []models.Diagnostic
	for _, d := range m.DiagnosticRows {
		if scope.All() || d.PatientID == scope.PatientID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MemStore) Patients(ctx context.Context, scope repository.Scope) ([]models.Patient, error) {
	if err := m.fail("Patients"); err != nil {
		return nil, err
	}
	var out []models.Patient
	for _, p := range m.PatientRows {
		if scope.All() || p.ID == scope.PatientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemStore) PatientsByRegion(ctx context.Context) ([]models.GroupCount, error) {
	return m.RegionCounts, m.fail("PatientsByRegion")
}

func (m *MemStore) PatientsByDoctor(ctx context.Context) ([]models.GroupCount, error) {
	return m.DoctorCounts, m.fail("PatientsByDoctor")
}

func (m *MemStore) Users(ctx context.Context) ([]models.User, error) {
	return m.UserRows, m.fail("Users")
}

func (m *MemStore) UsersByRole(ctx context.Context) ([]models.GroupCount, error) {
	return m.RoleCounts, m.fail("UsersByRole")
}
