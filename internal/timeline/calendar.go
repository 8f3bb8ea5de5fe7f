package timeline

import (
	"fmt"
	"slices"
	"time"

	"homecare-rental/internal/models"
)

// Sources are the four record collections of one scope (all patients or one).
type Sources struct {
	Appointments []models.Appointment
	Rentals      []models.Rental
	Sales        []models.Sale
	Diagnostics  []models.Diagnostic
}

// RentalPayments gathers the payments attached to a rental directly, through
// its items and through its groups. A payment reachable by more than one path
// is returned once, at its first position.
func RentalPayments(r models.Rental) []models.Payment {
	seen := make(map[uint64]bool)
	var out []models.Payment
	add := func(ps []models.Payment) {
		for _, p := range ps {
			if p.ID != 0 {
				if seen[p.ID] {
					continue
				}
				seen[p.ID] = true
			}
			out = append(out, p)
		}
	}

	add(r.Payments)
	for _, item := range r.RentalItems {
		add(item.Payments)
	}
	for _, g := range r.RentalGroups {
		add(g.Payments)
	}
	return out
}

// AllPayments lists every rental and sale payment of src, rentals first.
func AllPayments(src Sources) []models.Payment {
	var out []models.Payment
	for _, r := range src.Rentals {
		out = append(out, RentalPayments(r)...)
	}
	for _, s := range src.Sales {
		out = append(out, s.Payments...)
	}
	return out
}

// BuildCalendar maps every record of src to its calendar events and returns
// them ordered by date. Events sharing a date keep the order in which they were
// produced: appointments, rentals, sales, diagnostics.
func BuildCalendar(now time.Time, src Sources) []CalendarEvent {
	var events []CalendarEvent

	for _, a := range src.Appointments {
		events = append(events, appointmentEvent(a))
	}

	for _, r := range src.Rentals {
		events = append(events, ExpandRental(now, r)...)
		events = append(events, paymentEvents(now, r.Patient, RentalPayments(r))...)
	}

	for _, s := range src.Sales {
		events = append(events, CalendarEvent{
			ID:      fmt.Sprintf("sale-%d", s.ID),
			Title:   "Sale: " + s.Patient.FullName,
			Date:    s.Date,
			Type:    EventSale,
			Status:  s.Status,
			Patient: patientRef(s.Patient),
			Details: SaleDetails{
				SaleID:         s.ID,
				Amount:         s.Amount,
				DeviceCount:    len(s.Devices),
				AccessoryCount: len(s.Accessories),
			},
		})
		events = append(events, paymentEvents(now, s.Patient, s.Payments)...)
	}

	for _, d := range src.Diagnostics {
		events = append(events, CalendarEvent{
			ID:      fmt.Sprintf("diagnostic-%d", d.ID),
			Title:   "Diagnostic: " + d.Patient.FullName,
			Date:    d.Date,
			Type:    EventDiagnostic,
			Status:  StatusCompleted,
			Patient: patientRef(d.Patient),
			Details: DiagnosticDetails{
				DiagnosticID: d.ID,
				Polygraph:    d.Polygraph,
				IAHResult:    d.IAHResult,
				IDResult:     d.IDResult,
				Remarks:      d.Remarks,
			},
		})
	}

	slices.SortStableFunc(events, func(a, b CalendarEvent) int {
		return a.Date.Compare(b.Date)
	})
	return events
}

func appointmentEvent(a models.Appointment) CalendarEvent {
	return CalendarEvent{
		ID:      fmt.Sprintf("appointment-%d", a.ID),
		Title:   fmt.Sprintf("%s: %s", a.Type, a.Patient.FullName),
		Date:    a.AppointmentDate,
		Type:    EventAppointment,
		Status:  a.Status,
		Patient: patientRef(a.Patient),
		Details: AppointmentDetails{
			AppointmentID: a.ID,
			Kind:          a.Type,
			Location:      a.Location,
			Notes:         a.Notes,
			RentalID:      a.RentalID,
			SaleID:        a.SaleID,
			DiagnosticID:  a.DiagnosticID,
		},
	}
}

// paymentEvents emits one event per payment with a stored due date.
func paymentEvents(now time.Time, patient models.Patient, payments []models.Payment) []CalendarEvent {
	var events []CalendarEvent
	for _, p := range payments {
		if p.DueDate == nil {
			continue
		}
		info := PaymentOverdue(now, p)
		status := StatusDue
		if info.IsOverdue {
			status = StatusOverdue
		}
		events = append(events, CalendarEvent{
			ID:      fmt.Sprintf("payment-%d", p.ID),
			Title:   fmt.Sprintf("Payment due (%s): %s", p.Amount.StringFixed(3), patient.FullName),
			Date:    info.DueDate,
			Type:    EventPayment,
			Status:  status,
			Patient: patientRef(patient),
			Details: PaymentDetails{
				PaymentID:   p.ID,
				Amount:      p.Amount,
				Method:      p.Type,
				RentalID:    p.RentalID,
				SaleID:      p.SaleID,
				DueDate:     info.DueDate,
				OverdueDate: info.OverdueDate,
				IsOverdue:   info.IsOverdue,
				OverdueDays: info.OverdueDays,
			},
		})
	}
	return events
}
