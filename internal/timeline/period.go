package timeline

import (
	"fmt"
	"math"
	"time"

	"homecare-rental/internal/models"
)

// openRentalHorizon is how far past now an open rental is drawn.
const openRentalHorizon = 30 * day

// daysCeil counts whole days between from and to, rounding any partial day up.
func daysCeil(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

// EffectiveEndDate is the end date used to draw a rental: the stored end date,
// or now plus 30 days for an open rental. It never feeds back into storage.
func EffectiveEndDate(now time.Time, r models.Rental) time.Time {
	if r.EndDate != nil {
		return *r.EndDate
	}
	return now.Add(openRentalHorizon)
}

// PeriodLength is the number of calendar days drawn for a rental, both ends
// included. It is zero when the end precedes the start.
func PeriodLength(now time.Time, r models.Rental) int {
	n := daysCeil(r.StartDate, EffectiveEndDate(now, r)) + 1
	if n < 0 {
		return 0
	}
	return n
}

func periodDayStatus(now, current time.Time, returnStatus string) (status string, ongoing bool) {
	notReturned := returnStatus == models.ReturnNotReturned
	ongoing = notReturned && !current.After(now)

	switch {
	case returnStatus == models.ReturnReturned:
		return StatusCompleted, ongoing
	case ongoing:
		return StatusOngoing, ongoing
	case current.After(now):
		return StatusScheduled, ongoing
	default:
		// past day of a partially returned or damaged rental
		return StatusCompleted, ongoing
	}
}

// ExpandRental draws a rental as one rental_period event per day plus a start
// event and, when the rental has a stored end date, an end event.
func ExpandRental(now time.Time, r models.Rental) []CalendarEvent {
	total := PeriodLength(now, r)
	effectiveEnd := EffectiveEndDate(now, r)
	patient := patientRef(r.Patient)

	events := make([]CalendarEvent, 0, total+2)
	for i := 0; i < total; i++ {
		current := r.StartDate.AddDate(0, 0, i)
		status, ongoing := periodDayStatus(now, current, r.ReturnStatus)
		events = append(events, CalendarEvent{
			ID:      fmt.Sprintf("rental-period-%d-%d", r.ID, i+1),
			Title:   fmt.Sprintf("Rental day %d/%d - %s", i+1, total, r.Patient.FullName),
			Date:    current,
			Type:    EventRentalPeriod,
			Status:  status,
			Patient: patient,
			Details: RentalPeriodDetails{
				RentalID:           r.ID,
				StartDate:          r.StartDate,
				EndDate:            r.EndDate,
				EffectiveEndDate:   effectiveEnd,
				DayInPeriod:        i + 1,
				TotalDays:          total,
				ProgressPercentage: int(math.Round(float64(i+1) / float64(total) * 100)),
				IsOngoing:          ongoing,
				ReturnStatus:       r.ReturnStatus,
			},
		})
	}

	events = append(events, CalendarEvent{
		ID:      fmt.Sprintf("rental-start-%d", r.ID),
		Title:   "Rental start: " + r.Patient.FullName,
		Date:    r.StartDate,
		Type:    EventRental,
		Status:  r.Status,
		Patient: patient,
		Details: rentalDetails(r, BookendStart),
	})

	if r.EndDate != nil {
		events = append(events, CalendarEvent{
			ID:      fmt.Sprintf("rental-end-%d", r.ID),
			Title:   "Rental end: " + r.Patient.FullName,
			Date:    *r.EndDate,
			Type:    EventRental,
			Status:  rentalEndStatus(now, r),
			Patient: patient,
			Details: rentalDetails(r, BookendEnd),
		})
	}
	return events
}

// rentalEndStatus is OVERDUE once a rental that was never returned is past its end.
func rentalEndStatus(now time.Time, r models.Rental) string {
	switch r.ReturnStatus {
	case models.ReturnReturned:
		return StatusCompleted
	case models.ReturnNotReturned:
		if now.After(*r.EndDate) {
			return StatusOverdue
		}
		return StatusScheduled
	default:
		return r.ReturnStatus
	}
}

func rentalDetails(r models.Rental, b Bookend) RentalDetails {
	return RentalDetails{
		RentalID:       r.ID,
		Bookend:        b,
		ContractNumber: r.ContractNumber,
		Amount:         r.Amount,
		RentalStatus:   r.Status,
		ReturnStatus:   r.ReturnStatus,
		ItemCount:      len(r.RentalItems),
	}
}
