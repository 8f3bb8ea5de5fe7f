package timeline

import (
	"testing"
	"time"

	"homecare-rental/internal/models"
)

func TestDeriveNotifications(t *testing.T) {
	p := patient(1, "Alice")
	appt := func(id uint64, at time.Time, status string) models.Appointment {
		return models.Appointment{ID: id, Patient: p, AppointmentDate: at, Type: "VISIT", Status: status}
	}

	ending := rental(20, 1, fixedNow.Add(-10*day), ptr(fixedNow.Add(3*day)))
	ending.Patient = p
	ending.Payments = []models.Payment{
		{ID: 1, Amount: amount(10), Type: models.PaymentCash, DueDate: ptr(fixedNow.Add(-9 * day))},
		{ID: 2, Amount: amount(10), Type: models.PaymentCash, DueDate: ptr(fixedNow.Add(-7*day - time.Hour))}, // overdue by an hour only
	}
	returned := rental(21, 1, fixedNow.Add(-10*day), ptr(fixedNow.Add(2*day)))
	returned.ReturnStatus = models.ReturnReturned
	farOff := rental(22, 1, fixedNow, ptr(fixedNow.Add(8*day)))

	src := Sources{
		Appointments: []models.Appointment{
			appt(1, fixedNow.Add(-2*time.Hour), models.AppointmentScheduled),
			appt(2, fixedNow.Add(20*time.Hour), models.AppointmentScheduled),
			appt(3, fixedNow.Add(30*time.Hour), models.AppointmentScheduled),
			appt(4, fixedNow.Add(-2*time.Hour), models.AppointmentCompleted),
		},
		Rentals: []models.Rental{ending, returned, farOff},
		Sales: []models.Sale{{
			ID: 9, Patient: p,
			Payments: []models.Payment{{ID: 3, Amount: amount(5), Type: models.PaymentTraite, DueDate: ptr(fixedNow.Add(-30 * day))}},
		}},
	}

	got := DeriveNotifications(fixedNow, src)

	wantIDs := []string{
		"payment-overdue-3",
		"payment-overdue-1",
		"appointment-overdue-1",
		"appointment-due-2",
		"rental-ending-20",
	}
	if len(got) != len(wantIDs) {
		var ids []string
		for _, n := range got {
			ids = append(ids, n.ID)
		}
		t.Fatalf("got %v, want %v", ids, wantIDs)
	}
	for i, n := range got {
		if n.ID != wantIDs[i] {
			t.Errorf("notification %d = %s, want %s", i, n.ID, wantIDs[i])
		}
		if n.PatientName != "Alice" {
			t.Errorf("%s: patient = %q", n.ID, n.PatientName)
		}
	}
	if got[4].Type != NotificationReminder || got[3].Type != NotificationDueSoon || got[0].Type != NotificationOverdue {
		t.Fatalf("unexpected types: %+v", got)
	}
}

func TestDeriveNotificationsRecomputesEachCall(t *testing.T) {
	r := rental(1, 1, fixedNow.Add(-10*day), ptr(fixedNow.Add(6*day)))
	src := Sources{Rentals: []models.Rental{r}}

	if n := len(DeriveNotifications(fixedNow, src)); n != 1 {
		t.Fatalf("got %d notifications, want 1", n)
	}
	if n := len(DeriveNotifications(fixedNow, src)); n != 1 {
		t.Fatalf("second call got %d notifications, want 1", n)
	}
	if n := len(DeriveNotifications(fixedNow.Add(-2*day), src)); n != 0 {
		t.Fatalf("9 days before the end got %d notifications, want 0", n)
	}
}
