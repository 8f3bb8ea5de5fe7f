package timeline

import (
	"testing"
	"time"

	"homecare-rental/internal/models"
)

func TestAverageDurationExcludesOpenRentals(t *testing.T) {
	a := rental(1, 1, date(2024, time.January, 1), ptr(date(2024, time.January, 11)))
	b := rental(2, 1, date(2024, time.February, 1), nil)

	stats := PatientRentalStats([]models.Rental{a, b})
	if len(stats) != 1 {
		t.Fatalf("got %d patients, want 1", len(stats))
	}
	s := stats[0]
	if s.AvgDuration == nil || *s.AvgDuration != 10 {
		t.Fatalf("avg duration = %v, want 10", s.AvgDuration)
	}
	if s.TotalRentals != 2 || s.ActiveRentals != 2 {
		t.Fatalf("totals = %+v", s)
	}
	if !s.TotalRevenue.Equal(amount(100)) {
		t.Fatalf("revenue = %s", s.TotalRevenue)
	}
}

func TestAverageDurationNilWhenAllOpen(t *testing.T) {
	if avg := AverageRentalDuration([]models.Rental{rental(1, 1, fixedNow, nil)}); avg != nil {
		t.Fatalf("avg = %v, want nil", *avg)
	}
}

func TestMonthlyRevenueBucket(t *testing.T) {
	sales := []models.Sale{
		{ID: 1, Date: date(2024, time.March, 3), Amount: amount(100)},
		{ID: 2, Date: date(2023, time.March, 3), Amount: amount(999)}, // outside the window
	}
	r := rental(1, 1, date(2024, time.March, 10), nil)
	r.Amount = amount(50)

	buckets := MonthlyRevenue(fixedNow, 6, sales, []models.Rental{r})
	if len(buckets) != 6 {
		t.Fatalf("got %d buckets, want 6", len(buckets))
	}
	if buckets[0].Period != "2023-10" {
		t.Fatalf("first bucket = %s, want 2023-10", buckets[0].Period)
	}
	march := buckets[5]
	if march.Period != "2024-03" {
		t.Fatalf("last bucket = %s", march.Period)
	}
	if !march.Sales.Equal(amount(100)) || !march.Rentals.Equal(amount(50)) || !march.Total.Equal(amount(150)) {
		t.Fatalf("march = %+v, want sales=100 rentals=50 total=150", march)
	}
	for _, b := range buckets[:5] {
		if !b.Total.IsZero() {
			t.Errorf("bucket %s = %s, want 0", b.Period, b.Total)
		}
	}
}

func TestYearlyRevenue(t *testing.T) {
	sales := []models.Sale{
		{Date: date(2024, time.March, 3), Amount: amount(100)},
		{Date: date(2023, time.June, 3), Amount: amount(10)},
	}
	r := rental(1, 1, date(2023, time.July, 1), nil)

	years := YearlyRevenue(time.UTC, sales, []models.Rental{r})
	if len(years) != 2 || years[0].Period != "2023" || years[1].Period != "2024" {
		t.Fatalf("years = %+v", years)
	}
	if !years[0].Total.Equal(amount(60)) {
		t.Fatalf("2023 total = %s, want 60", years[0].Total)
	}
}

func TestPatientRankingIsStable(t *testing.T) {
	mk := func(id, patientID uint64, name string) models.Rental {
		r := rental(id, patientID, date(2024, time.January, 1), nil)
		r.Patient = patient(patientID, name)
		return r
	}
	rentals := []models.Rental{
		mk(1, 1, "A"),
		mk(2, 2, "B"),
		mk(3, 3, "C"), mk(4, 3, "C"),
		mk(5, 4, "D"),
	}

	stats := PatientRentalStats(rentals)
	var names []string
	for _, s := range stats {
		names = append(names, s.PatientName)
	}
	want := []string{"C", "A", "B", "D"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ranking = %v, want %v", names, want)
		}
	}
}

func TestActiveAndOverdueCounts(t *testing.T) {
	active := rental(1, 1, date(2024, time.January, 1), nil)
	completed := rental(2, 1, date(2024, time.January, 1), nil)
	completed.Status = models.StatusCompleted
	returned := rental(3, 1, date(2024, time.January, 1), nil)
	returned.ReturnStatus = models.ReturnReturned
	cancelled := rental(4, 1, date(2024, time.January, 1), nil)
	cancelled.Status = models.StatusCancelled

	if n := CountActiveRentals([]models.Rental{active, completed, returned, cancelled}); n != 2 {
		t.Fatalf("active = %d, want 2", n)
	}

	payments := []models.Payment{
		{ID: 1, DueDate: ptr(fixedNow.Add(-8 * day))},
		{ID: 2, DueDate: ptr(fixedNow.Add(-7 * day))},
		{ID: 3, IsOverdue: true, DueDate: ptr(fixedNow.Add(day))}, // stale snapshot
	}
	if n := CountOverduePayments(fixedNow, payments); n != 1 {
		t.Fatalf("overdue = %d, want 1", n)
	}
}

func TestRentalProgressClamps(t *testing.T) {
	future := rental(1, 1, fixedNow.Add(5*day), ptr(fixedNow.Add(15*day)))
	p := RentalProgress(fixedNow, future)
	if *p.ProgressPercentage != 0 || *p.DaysElapsed != 0 || *p.TotalDays != 10 {
		t.Fatalf("future rental progress = %+v", p)
	}

	late := rental(2, 1, fixedNow.Add(-20*day), ptr(fixedNow.Add(-10*day)))
	p = RentalProgress(fixedNow, late)
	if *p.ProgressPercentage != 100 || *p.DaysRemaining != 0 {
		t.Fatalf("late rental progress = %+v", p)
	}

	half := rental(3, 1, fixedNow.Add(-5*day), ptr(fixedNow.Add(5*day)))
	p = RentalProgress(fixedNow, half)
	if *p.ProgressPercentage != 50 || *p.DaysRemaining != 5 {
		t.Fatalf("half-way progress = %+v", p)
	}
}

func TestRentalsByStatusAndPatient(t *testing.T) {
	a := rental(1, 1, date(2024, time.January, 1), nil)
	b := rental(2, 2, date(2024, time.January, 1), ptr(date(2024, time.January, 4)))
	b.Status = models.StatusCompleted
	c := rental(3, 1, date(2024, time.January, 1), nil)

	byStatus := RentalsByStatus([]models.Rental{a, b, c})
	if len(byStatus) != 2 || byStatus[0] != (StatusCount{models.StatusPending, 2}) || byStatus[1] != (StatusCount{models.StatusCompleted, 1}) {
		t.Fatalf("by status = %+v", byStatus)
	}

	byPatient := RentalsByPatient([]models.Rental{a, b, c})
	if len(byPatient) != 2 || len(byPatient[0].Rentals) != 2 || byPatient[1].PatientID != 2 {
		t.Fatalf("by patient = %+v", byPatient)
	}
	if d := byPatient[1].Rentals[0].Duration; d == nil || *d != 3 {
		t.Fatalf("duration = %v, want 3", d)
	}
}
