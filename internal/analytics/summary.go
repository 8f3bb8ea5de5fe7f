package analytics

import (
	"time"

	"homecare-rental/internal/models"
	"homecare-rental/internal/timeline"

	"github.com/shopspring/decimal"
)

type Summary struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Overview    Overview        `json:"overview"`
	Revenue     Revenue         `json:"revenue"`
	Rentals     RentalStats     `json:"rentals"`
	Diagnostics DiagnosticStats `json:"diagnostics"`
	Patients    PatientStats    `json:"patients"`
	Users       UserStats       `json:"users"`
}

type Overview struct {
	TotalPatients        int             `json:"total_patients"`
	TotalRentals         int             `json:"total_rentals"`
	TotalSales           int             `json:"total_sales"`
	TotalDiagnostics     int             `json:"total_diagnostics"`
	TotalAppointments    int             `json:"total_appointments"`
	UpcomingAppointments int             `json:"upcoming_appointments"`
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
}

type Revenue struct {
	Monthly []timeline.RevenueBucket `json:"monthly"`
	Yearly  []timeline.RevenueBucket `json:"yearly"`
}

type RentalStats struct {
	ActiveRentals             int                           `json:"active_rentals"`
	TotalRentals              int                           `json:"total_rentals"`
	OverduePayments           int                           `json:"overdue_payments"`
	RentalsByStatus           []timeline.StatusCount        `json:"rentals_by_status"`
	RentalRevenue             decimal.Decimal               `json:"rental_revenue"`
	AverageRentalDuration     *float64                      `json:"average_rental_duration"`
	PatientRentals            []timeline.PatientRentalStat  `json:"patient_rentals"`
	ActiveRentalsWithProgress []timeline.RentalProgressInfo `json:"active_rentals_with_progress"`
	RentalsByPatient          []timeline.PatientRentals     `json:"rentals_by_patient"`
}

type MonthCount struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

type DiagnosticStats struct {
	Total       int                 `json:"total"`
	ByMonth     []MonthCount        `json:"by_month"`
	ByPolygraph []models.GroupCount `json:"by_polygraph"`
	AverageIAH  *float64            `json:"average_iah"`
}

type PatientStats struct {
	Total        int                 `json:"total"`
	NewThisMonth int                 `json:"new_this_month"`
	ByRegion     []models.GroupCount `json:"by_region"`
	ByDoctor     []models.GroupCount `json:"by_doctor"`
}

// UserActivity counts the appointments assigned to a user.
type UserActivity struct {
	UserID                uint64 `json:"user_id"`
	FullName              string `json:"full_name"`
	AssignedAppointments  int    `json:"assigned_appointments"`
	CompletedAppointments int    `json:"completed_appointments"`
}

type UserStats struct {
	Total    int                 `json:"total"`
	ByRole   []models.GroupCount `json:"by_role"`
	Activity []UserActivity      `json:"activity"`
}
