package timeline

import (
	"reflect"
	"testing"
	"time"

	"homecare-rental/internal/models"
)

func sampleSources() Sources {
	alice := patient(1, "Alice")
	bob := patient(2, "Bob")

	open := rental(10, 1, date(2024, time.March, 1), nil)
	open.Patient = alice
	open.Payments = []models.Payment{
		{ID: 100, Amount: amount(30), Type: models.PaymentCash, DueDate: ptr(date(2024, time.February, 20))},
		{ID: 101, Amount: amount(30), Type: models.PaymentCNAM},
	}
	open.RentalItems = []models.RentalItem{{
		ID: 1,
		Payments: []models.Payment{
			{ID: 100, Amount: amount(30), Type: models.PaymentCash, DueDate: ptr(date(2024, time.February, 20))},
			{ID: 102, Amount: amount(20), Type: models.PaymentCheque, DueDate: ptr(date(2024, time.March, 20))},
		},
	}}

	closed := rental(11, 2, date(2024, time.February, 1), ptr(date(2024, time.February, 3)))
	closed.Patient = bob
	closed.ReturnStatus = models.ReturnReturned

	return Sources{
		Appointments: []models.Appointment{
			{ID: 1, PatientID: 1, Patient: alice, AppointmentDate: date(2024, time.March, 16), Type: "INSTALLATION", Status: models.AppointmentScheduled},
		},
		Rentals: []models.Rental{open, closed},
		Sales: []models.Sale{{
			ID: 5, PatientID: 2, Patient: bob, Date: date(2024, time.January, 15), Amount: amount(100), Status: models.StatusCompleted,
			Payments: []models.Payment{{ID: 200, Amount: amount(100), Type: models.PaymentTraite, DueDate: ptr(date(2024, time.February, 15))}},
		}},
		Diagnostics: []models.Diagnostic{
			{ID: 7, PatientID: 2, Patient: bob, Date: date(2024, time.January, 10), Polygraph: "Nox T3", IAHResult: ptr(12.5)},
		},
	}
}

func TestBuildCalendarIsIdempotent(t *testing.T) {
	src := sampleSources()
	first := BuildCalendar(fixedNow, src)
	second := BuildCalendar(fixedNow, src)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("two calls with the same input and clock differ")
	}
}

func TestBuildCalendarIsSorted(t *testing.T) {
	events := BuildCalendar(fixedNow, sampleSources())
	if len(events) == 0 {
		t.Fatal("no events")
	}
	for i := 1; i < len(events); i++ {
		if events[i-1].Date.After(events[i].Date) {
			t.Fatalf("event %d (%s) is after event %d (%s)", i-1, events[i-1].ID, i, events[i].ID)
		}
	}
}

func TestBuildCalendarDetailsMatchType(t *testing.T) {
	for _, e := range BuildCalendar(fixedNow, sampleSources()) {
		if e.Details == nil {
			t.Fatalf("%s has no details", e.ID)
		}
		if e.Details.EventType() != e.Type {
			t.Errorf("%s: details of %s on a %s event", e.ID, e.Details.EventType(), e.Type)
		}
	}
}

func TestBuildCalendarPaymentEvents(t *testing.T) {
	events := BuildCalendar(fixedNow, sampleSources())

	got := make(map[string]string)
	for _, e := range events {
		if e.Type == EventPayment {
			if _, dup := got[e.ID]; dup {
				t.Fatalf("duplicate payment event %s", e.ID)
			}
			got[e.ID] = e.Status
		}
	}

	want := map[string]string{
		"payment-100": StatusOverdue, // due Feb 20, overdue after Feb 27
		"payment-102": StatusDue,
		"payment-200": StatusOverdue,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("payment events = %v, want %v", got, want)
	}
}

func TestBuildCalendarCounts(t *testing.T) {
	events := BuildCalendar(fixedNow, sampleSources())
	counts := make(map[EventType]int)
	for _, e := range events {
		counts[e.Type]++
	}

	// open rental: Mar 1 to Apr 14 10:00 (now + 30 days) rounds up to 45 days,
	// drawn with both ends = 46; closed: Feb 1 to Feb 3 = 3
	want := map[EventType]int{
		EventAppointment:  1,
		EventRentalPeriod: 46 + 3,
		EventRental:       3,
		EventSale:         1,
		EventDiagnostic:   1,
		EventPayment:      3,
	}
	if !reflect.DeepEqual(counts, want) {
		t.Fatalf("counts = %v, want %v", counts, want)
	}

	for _, e := range events {
		if e.Type == EventDiagnostic && e.Status != StatusCompleted {
			t.Errorf("diagnostic status = %s", e.Status)
		}
	}
}

func TestBuildCalendarEmpty(t *testing.T) {
	if events := BuildCalendar(fixedNow, Sources{}); len(events) != 0 {
		t.Fatalf("got %d events from empty sources", len(events))
	}
}

func TestRentalPaymentsDeduplicates(t *testing.T) {
	src := sampleSources()
	r := src.Rentals[0]
	r.RentalGroups = []models.RentalGroup{{ID: 1, Payments: []models.Payment{{ID: 101}, {ID: 103}}}}

	var ids []uint64
	for _, p := range RentalPayments(r) {
		ids = append(ids, p.ID)
	}
	want := []uint64{100, 101, 102, 103}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("payment ids = %v, want %v", ids, want)
	}
}
