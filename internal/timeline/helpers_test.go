package timeline

import (
	"time"

	"homecare-rental/internal/models"

	"github.com/shopspring/decimal"
)

// fixedNow is the reference clock shared by the tests in this package.
var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func amount(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func patient(id uint64, name string) models.Patient {
	return models.Patient{ID: id, FullName: name}
}

func rental(id, patientID uint64, start time.Time, end *time.Time) models.Rental {
	return models.Rental{
		ID:           id,
		PatientID:    patientID,
		Patient:      patient(patientID, "Patient"),
		StartDate:    start,
		EndDate:      end,
		Amount:       amount(50),
		Status:       models.StatusPending,
		ReturnStatus: models.ReturnNotReturned,
	}
}
