package timeline

import (
	"time"

	"homecare-rental/internal/models"
)

const (
	defaultDueAfter = 30 * day
	overdueGrace    = 7 * day
)

// PaymentDates are the inputs of the overdue rule. Any of them may be nil.
type PaymentDates struct {
	DueDate       *time.Time
	OverdueDate   *time.Time
	PeriodEndDate *time.Time
	PaymentDate   *time.Time
}

type OverdueInfo struct {
	DueDate     time.Time `json:"due_date"`
	OverdueDate time.Time `json:"overdue_date"`
	IsOverdue   bool      `json:"is_overdue"`
	OverdueDays int       `json:"overdue_days"`
}

func DatesOf(p models.Payment) PaymentDates {
	return PaymentDates{
		DueDate:       p.DueDate,
		OverdueDate:   p.OverdueDate,
		PeriodEndDate: p.PeriodEndDate,
		PaymentDate:   p.PaymentDate,
	}
}

// ComputeOverdue resolves the due and overdue dates of a payment and whether
// it is overdue at now.
//
// The due date falls back to the end of the covered period, then to 30 days
// after the payment date, then to 30 days after now. The overdue date falls
// back to the due date plus a 7 day grace. A payment is overdue only when now
// is strictly after the overdue date.
func ComputeOverdue(now time.Time, in PaymentDates) OverdueInfo {
	var due time.Time
	switch {
	case in.DueDate != nil:
		due = *in.DueDate
	case in.PeriodEndDate != nil:
		due = *in.PeriodEndDate
	case in.PaymentDate != nil:
		due = in.PaymentDate.Add(defaultDueAfter)
	default:
		due = now.Add(defaultDueAfter)
	}

	overdue := due.Add(overdueGrace)
	if in.OverdueDate != nil {
		overdue = *in.OverdueDate
	}

	info := OverdueInfo{DueDate: due, OverdueDate: overdue}
	if now.After(overdue) {
		info.IsOverdue = true
		info.OverdueDays = int(now.Sub(overdue).Hours() / 24)
	}
	return info
}

// PaymentOverdue recomputes the overdue state of a stored payment. The flags
// persisted on the row are a snapshot from write time and are ignored.
func PaymentOverdue(now time.Time, p models.Payment) OverdueInfo {
	return ComputeOverdue(now, DatesOf(p))
}
