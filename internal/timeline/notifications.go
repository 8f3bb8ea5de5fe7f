package timeline

import (
	"fmt"
	"slices"
	"time"

	"homecare-rental/internal/models"
)

type NotificationType string

const (
	NotificationOverdue  NotificationType = "overdue"
	NotificationDueSoon  NotificationType = "due_soon"
	NotificationReminder NotificationType = "reminder"
)

const (
	appointmentDueSoonWindow = day
	rentalEndingWindow       = 7 * day
)

type NotificationItem struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Type        NotificationType `json:"type"`
	Date        time.Time        `json:"date"`
	EntityType  string           `json:"entity_type"`
	EntityID    uint64           `json:"entity_id"`
	PatientName string           `json:"patient_name"`
}

// DeriveNotifications scans src for late or upcoming work: scheduled
// appointments that are past or within a day, overdue payments and rentals
// ending within a week. The result is ordered by date. Nothing is remembered
// between calls.
func DeriveNotifications(now time.Time, src Sources) []NotificationItem {
	var out []NotificationItem

	for _, a := range src.Appointments {
		if a.Status != models.AppointmentScheduled {
			continue
		}
		switch {
		case a.AppointmentDate.Before(now):
			out = append(out, NotificationItem{
				ID:          fmt.Sprintf("appointment-overdue-%d", a.ID),
				Title:       "Missed appointment",
				Message:     fmt.Sprintf("%s appointment for %s on %s is still scheduled", a.Type, a.Patient.FullName, a.AppointmentDate.Format("2006-01-02 15:04")),
				Type:        NotificationOverdue,
				Date:        a.AppointmentDate,
				EntityType:  "appointment",
				EntityID:    a.ID,
				PatientName: a.Patient.FullName,
			})
		case !a.AppointmentDate.After(now.Add(appointmentDueSoonWindow)):
			out = append(out, NotificationItem{
				ID:          fmt.Sprintf("appointment-due-%d", a.ID),
				Title:       "Upcoming appointment",
				Message:     fmt.Sprintf("%s appointment for %s at %s", a.Type, a.Patient.FullName, a.AppointmentDate.Format("2006-01-02 15:04")),
				Type:        NotificationDueSoon,
				Date:        a.AppointmentDate,
				EntityType:  "appointment",
				EntityID:    a.ID,
				PatientName: a.Patient.FullName,
			})
		}
	}

	for _, r := range src.Rentals {
		out = append(out, overduePaymentNotifications(now, r.Patient, RentalPayments(r))...)

		if r.EndDate == nil || r.ReturnStatus != models.ReturnNotReturned {
			continue
		}
		end := *r.EndDate
		if !end.Before(now) && !end.After(now.Add(rentalEndingWindow)) {
			out = append(out, NotificationItem{
				ID:          fmt.Sprintf("rental-ending-%d", r.ID),
				Title:       "Rental ending soon",
				Message:     fmt.Sprintf("Rental %s for %s ends on %s", contractLabel(r), r.Patient.FullName, end.Format("2006-01-02")),
				Type:        NotificationReminder,
				Date:        end,
				EntityType:  "rental",
				EntityID:    r.ID,
				PatientName: r.Patient.FullName,
			})
		}
	}

	for _, s := range src.Sales {
		out = append(out, overduePaymentNotifications(now, s.Patient, s.Payments)...)
	}

	slices.SortStableFunc(out, func(a, b NotificationItem) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

func overduePaymentNotifications(now time.Time, patient models.Patient, payments []models.Payment) []NotificationItem {
	var out []NotificationItem
	for _, p := range payments {
		info := PaymentOverdue(now, p)
		if !info.IsOverdue || info.OverdueDays <= 0 {
			continue
		}
		out = append(out, NotificationItem{
			ID:          fmt.Sprintf("payment-overdue-%d", p.ID),
			Title:       "Overdue payment",
			Message:     fmt.Sprintf("Payment of %s (%s) for %s is %d day(s) overdue", p.Amount.StringFixed(3), p.Type, patient.FullName, info.OverdueDays),
			Type:        NotificationOverdue,
			Date:        info.DueDate,
			EntityType:  "payment",
			EntityID:    p.ID,
			PatientName: patient.FullName,
		})
	}
	return out
}

func contractLabel(r models.Rental) string {
	if r.ContractNumber != "" {
		return r.ContractNumber
	}
	return fmt.Sprintf("#%d", r.ID)
}
