package timeline

import (
	"cmp"
	"slices"
	"time"

	"homecare-rental/internal/models"

	"github.com/shopspring/decimal"
)

// IsActiveRental reports whether the equipment of r is still out with the
// patient and the rental was not cancelled.
func IsActiveRental(r models.Rental) bool {
	if r.ReturnStatus != models.ReturnNotReturned {
		return false
	}
	return r.Status == models.StatusPending || r.Status == models.StatusCompleted
}

func CountActiveRentals(rentals []models.Rental) int {
	n := 0
	for _, r := range rentals {
		if IsActiveRental(r) {
			n++
		}
	}
	return n
}

func CountOverduePayments(now time.Time, payments []models.Payment) int {
	n := 0
	for _, p := range payments {
		if PaymentOverdue(now, p).IsOverdue {
			n++
		}
	}
	return n
}

// RentalDuration is the rental length in whole days, rounded up, or nil for an
// open rental.
func RentalDuration(r models.Rental) *int {
	if r.EndDate == nil {
		return nil
	}
	d := daysCeil(r.StartDate, *r.EndDate)
	return &d
}

// AverageRentalDuration averages RentalDuration over rentals that have an end
// date. Open rentals are left out rather than counted as zero; nil when no
// rental has an end date.
func AverageRentalDuration(rentals []models.Rental) *float64 {
	sum, n := 0, 0
	for _, r := range rentals {
		if d := RentalDuration(r); d != nil {
			sum += *d
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := float64(sum) / float64(n)
	return &avg
}

func RentalRevenue(rentals []models.Rental) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rentals {
		total = total.Add(r.Amount)
	}
	return total
}

func SalesRevenue(sales []models.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.Amount)
	}
	return total
}

type RevenueBucket struct {
	Period  string          `json:"period"`
	Sales   decimal.Decimal `json:"sales"`
	Rentals decimal.Decimal `json:"rentals"`
	Total   decimal.Decimal `json:"total"`
}

func newBucket(period string) *RevenueBucket {
	return &RevenueBucket{Period: period, Sales: decimal.Zero, Rentals: decimal.Zero, Total: decimal.Zero}
}

func (b *RevenueBucket) addSale(amount decimal.Decimal) {
	b.Sales = b.Sales.Add(amount)
	b.Total = b.Total.Add(amount)
}

func (b *RevenueBucket) addRental(amount decimal.Decimal) {
	b.Rentals = b.Rentals.Add(amount)
	b.Total = b.Total.Add(amount)
}

// MonthlyRevenue buckets sale amounts by sale date and rental amounts by start
// date into the last months calendar months up to and including the month of
// now, oldest first. Months are taken in now's location.
func MonthlyRevenue(now time.Time, months int, sales []models.Sale, rentals []models.Rental) []RevenueBucket {
	if months <= 0 {
		return []RevenueBucket{}
	}
	loc := now.Location()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -(months - 1), 0)

	buckets := make([]*RevenueBucket, months)
	index := make(map[string]*RevenueBucket, months)
	for i := range buckets {
		key := first.AddDate(0, i, 0).Format("2006-01")
		buckets[i] = newBucket(key)
		index[key] = buckets[i]
	}

	for _, s := range sales {
		if b, ok := index[s.Date.In(loc).Format("2006-01")]; ok {
			b.addSale(s.Amount)
		}
	}
	for _, r := range rentals {
		if b, ok := index[r.StartDate.In(loc).Format("2006-01")]; ok {
			b.addRental(r.Amount)
		}
	}

	out := make([]RevenueBucket, months)
	for i, b := range buckets {
		out[i] = *b
	}
	return out
}

// YearlyRevenue buckets all sales and rentals by calendar year, oldest first.
func YearlyRevenue(loc *time.Location, sales []models.Sale, rentals []models.Rental) []RevenueBucket {
	index := make(map[string]*RevenueBucket)
	bucket := func(t time.Time) *RevenueBucket {
		key := t.In(loc).Format("2006")
		b, ok := index[key]
		if !ok {
			b = newBucket(key)
			index[key] = b
		}
		return b
	}
	for _, s := range sales {
		bucket(s.Date).addSale(s.Amount)
	}
	for _, r := range rentals {
		bucket(r.StartDate).addRental(r.Amount)
	}

	out := make([]RevenueBucket, 0, len(index))
	for _, b := range index {
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b RevenueBucket) int {
		return cmp.Compare(a.Period, b.Period)
	})
	return out
}

type PatientRentalStat struct {
	PatientID     uint64          `json:"patient_id"`
	PatientName   string          `json:"patient_name"`
	TotalRentals  int             `json:"total_rentals"`
	ActiveRentals int             `json:"active_rentals"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	AvgDuration   *float64        `json:"avg_duration"`
}

// PatientRentalStats rolls rentals up per patient and ranks patients by rental
// count, highest first. Patients with the same count stay in the order they
// were first met.
func PatientRentalStats(rentals []models.Rental) []PatientRentalStat {
	var order []uint64
	grouped := make(map[uint64][]models.Rental)
	for _, r := range rentals {
		if _, ok := grouped[r.PatientID]; !ok {
			order = append(order, r.PatientID)
		}
		grouped[r.PatientID] = append(grouped[r.PatientID], r)
	}

	out := make([]PatientRentalStat, 0, len(order))
	for _, id := range order {
		rs := grouped[id]
		out = append(out, PatientRentalStat{
			PatientID:     id,
			PatientName:   rs[0].Patient.FullName,
			TotalRentals:  len(rs),
			ActiveRentals: CountActiveRentals(rs),
			TotalRevenue:  RentalRevenue(rs),
			AvgDuration:   AverageRentalDuration(rs),
		})
	}

	slices.SortStableFunc(out, func(a, b PatientRentalStat) int {
		return b.TotalRentals - a.TotalRentals
	})
	return out
}

// RentalProgressInfo describes how far along a rental is. The day counts and
// the percentage are nil for an open rental.
type RentalProgressInfo struct {
	RentalID           uint64     `json:"rental_id"`
	PatientID          uint64     `json:"patient_id"`
	PatientName        string     `json:"patient_name"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	TotalDays          *int       `json:"total_days"`
	DaysElapsed        *int       `json:"days_elapsed"`
	DaysRemaining      *int       `json:"days_remaining"`
	ProgressPercentage *float64   `json:"progress_percentage"`
}

func RentalProgress(now time.Time, r models.Rental) RentalProgressInfo {
	info := RentalProgressInfo{
		RentalID:    r.ID,
		PatientID:   r.PatientID,
		PatientName: r.Patient.FullName,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
	if r.EndDate == nil {
		return info
	}

	total := daysCeil(r.StartDate, *r.EndDate)
	elapsed := max(0, daysCeil(r.StartDate, now))
	remaining := max(0, daysCeil(now, *r.EndDate))

	var pct float64
	if total > 0 {
		pct = float64(elapsed) / float64(total) * 100
	} else if !now.Before(*r.EndDate) {
		pct = 100
	}
	pct = min(100, max(0, pct))

	info.TotalDays = &total
	info.DaysElapsed = &elapsed
	info.DaysRemaining = &remaining
	info.ProgressPercentage = &pct
	return info
}

func ActiveRentalsWithProgress(now time.Time, rentals []models.Rental) []RentalProgressInfo {
	out := []RentalProgressInfo{}
	for _, r := range rentals {
		if IsActiveRental(r) {
			out = append(out, RentalProgress(now, r))
		}
	}
	return out
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// RentalsByStatus counts rentals per lifecycle status in first-seen order.
func RentalsByStatus(rentals []models.Rental) []StatusCount {
	out := []StatusCount{}
	pos := make(map[string]int)
	for _, r := range rentals {
		i, ok := pos[r.Status]
		if !ok {
			i = len(out)
			pos[r.Status] = i
			out = append(out, StatusCount{Status: r.Status})
		}
		out[i].Count++
	}
	return out
}

type RentalSummary struct {
	RentalID       uint64          `json:"rental_id"`
	ContractNumber string          `json:"contract_number,omitempty"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        *time.Time      `json:"end_date"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	ReturnStatus   string          `json:"return_status"`
	Duration       *int            `json:"duration"`
}

type PatientRentals struct {
	PatientID   uint64          `json:"patient_id"`
	PatientName string          `json:"patient_name"`
	Rentals     []RentalSummary `json:"rentals"`
}

// RentalsByPatient lists each patient's rentals, patients in first-seen order.
func RentalsByPatient(rentals []models.Rental) []PatientRentals {
	out := []PatientRentals{}
	pos := make(map[uint64]int)
	for _, r := range rentals {
		i, ok := pos[r.PatientID]
		if !ok {
			i = len(out)
			pos[r.PatientID] = i
			out = append(out, PatientRentals{PatientID: r.PatientID, PatientName: r.Patient.FullName})
		}
		out[i].Rentals = append(out[i].Rentals, RentalSummary{
			RentalID:       r.ID,
			ContractNumber: r.ContractNumber,
			StartDate:      r.StartDate,
			EndDate:        r.EndDate,
			Amount:         r.Amount,
			Status:         r.Status,
			ReturnStatus:   r.ReturnStatus,
			Duration:       RentalDuration(r),
		})
	}
	return out
}
