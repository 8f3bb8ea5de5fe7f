package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"homecare-rental/internal/models"
	"homecare-rental/internal/repository"
	"homecare-rental/internal/repository/repotest"
)

func sampleStore() *repotest.MemStore {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &repotest.MemStore{
		AppointmentRows: []models.Appointment{{ID: 1, PatientID: 1}, {ID: 2, PatientID: 2}},
		RentalRows:      []models.Rental{{ID: 1, PatientID: 1, StartDate: start}},
		SaleRows:        []models.Sale{{ID: 1, PatientID: 2, Date: start}},
		DiagnosticRows:  []models.Diagnostic{{ID: 1, PatientID: 1, Date: start}},
	}
}

func TestLoadSourcesAll(t *testing.T) {
	src, err := repository.LoadSources(context.Background(), sampleStore(), repository.Scope{})
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if len(src.Appointments) != 2 || len(src.Rentals) != 1 || len(src.Sales) != 1 || len(src.Diagnostics) != 1 {
		t.Fatalf("unexpected sources: %+v", src)
	}
}

func TestLoadSourcesScoped(t *testing.T) {
	src, err := repository.LoadSources(context.Background(), sampleStore(), repository.Scope{PatientID: 2})
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if len(src.Appointments) != 1 || len(src.Rentals) != 0 || len(src.Sales) != 1 || len(src.Diagnostics) != 0 {
		t.Fatalf("unexpected sources for patient 2: %+v", src)
	}
}

func TestLoadSourcesFailsFast(t *testing.T) {
	for _, method := range []string{"Appointments", "Rentals", "Sales", "Diagnostics"} {
		t.Run(method, func(t *testing.T) {
			store := sampleStore()
			boom := errors.New("connection reset")
			store.Errs = map[string]error{method: boom}

			src, err := repository.LoadSources(context.Background(), store, repository.Scope{})
			if !errors.Is(err, repository.ErrLoadFailed) {
				t.Fatalf("err = %v, want ErrLoadFailed", err)
			}
			if !errors.Is(err, boom) {
				t.Fatalf("err = %v does not wrap the cause", err)
			}
			if src.Appointments != nil || src.Rentals != nil || src.Sales != nil || src.Diagnostics != nil {
				t.Fatalf("partial data returned: %+v", src)
			}
		})
	}
}
