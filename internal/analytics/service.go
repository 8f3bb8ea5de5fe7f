// Package analytics assembles the dashboard summary from the timeline core and
// a few grouping queries.
package analytics

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"homecare-rental/internal/config"
	"homecare-rental/internal/models"
	"homecare-rental/internal/repository"
	"homecare-rental/internal/timeline"

	"github.com/sirupsen/logrus"
)

const (
	DefaultMonths  = 12
	topPatientsCap = 10
)

// Cache stores rendered summaries for a short while.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
}

type Service struct {
	Store  repository.Store
	Cache  Cache
	TTL    time.Duration
	Logger *logrus.Logger
}

func NewService(store repository.Store, cache Cache, ttl time.Duration) *Service {
	return &Service{Store: store, Cache: cache, TTL: ttl, Logger: config.GetLogger()}
}

// Summary returns the dashboard summary at now over the last months months,
// served from cache when a fresh copy exists.
func (s *Service) Summary(ctx context.Context, now time.Time, months int) (*Summary, error) {
	if months <= 0 {
		months = DefaultMonths
	}
	key := fmt.Sprintf("analytics:summary:%d", months)

	if s.Cache != nil && s.TTL > 0 {
		var cached Summary
		ok, err := s.Cache.Get(ctx, key, &cached)
		if err != nil {
			config.LogError(s.Logger, "analytics", "Summary", "cache get", key, err)
		} else if ok {
			return &cached, nil
		}
	}

	sum, err := s.Build(ctx, now, months)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil && s.TTL > 0 {
		if err := s.Cache.Set(ctx, key, sum, s.TTL); err != nil {
			config.LogError(s.Logger, "analytics", "Summary", "cache set", key, err)
		}
	}
	return sum, nil
}

// Build computes the summary without the cache. The four record collections
// must all load; every other grouping is best effort and comes back empty
// when its query fails.
func (s *Service) Build(ctx context.Context, now time.Time, months int) (*Summary, error) {
	if months <= 0 {
		months = DefaultMonths
	}
	src, err := repository.LoadSources(ctx, s.Store, repository.Scope{})
	if err != nil {
		return nil, err
	}

	sum := &Summary{GeneratedAt: now}
	sum.Revenue = Revenue{
		Monthly: timeline.MonthlyRevenue(now, months, src.Sales, src.Rentals),
		Yearly:  timeline.YearlyRevenue(now.Location(), src.Sales, src.Rentals),
	}
	sum.Rentals = rentalStats(now, src)
	sum.Diagnostics = diagnosticStats(now, months, src.Diagnostics)
	sum.Patients = s.patientStats(ctx, now)
	sum.Users = s.userStats(ctx, src.Appointments)

	sum.Overview = Overview{
		TotalPatients:        sum.Patients.Total,
		TotalRentals:         len(src.Rentals),
		TotalSales:           len(src.Sales),
		TotalDiagnostics:     len(src.Diagnostics),
		TotalAppointments:    len(src.Appointments),
		UpcomingAppointments: upcomingAppointments(now, src.Appointments),
		TotalRevenue:         timeline.RentalRevenue(src.Rentals).Add(timeline.SalesRevenue(src.Sales)),
	}
	return sum, nil
}

// isolate runs one optional helper and logs its failure instead of returning it.
func (s *Service) isolate(helper string, fn func() error) {
	if err := fn(); err != nil {
		config.LogError(s.Logger, "analytics", helper, "degraded to empty result", nil, err)
	}
}

func rentalStats(now time.Time, src timeline.Sources) RentalStats {
	ranking := timeline.PatientRentalStats(src.Rentals)
	if len(ranking) > topPatientsCap {
		ranking = ranking[:topPatientsCap]
	}
	return RentalStats{
		ActiveRentals:             timeline.CountActiveRentals(src.Rentals),
		TotalRentals:              len(src.Rentals),
		OverduePayments:           timeline.CountOverduePayments(now, timeline.AllPayments(src)),
		RentalsByStatus:           timeline.RentalsByStatus(src.Rentals),
		RentalRevenue:             timeline.RentalRevenue(src.Rentals),
		AverageRentalDuration:     timeline.AverageRentalDuration(src.Rentals),
		PatientRentals:            ranking,
		ActiveRentalsWithProgress: timeline.ActiveRentalsWithProgress(now, src.Rentals),
		RentalsByPatient:          timeline.RentalsByPatient(src.Rentals),
	}
}

func diagnosticStats(now time.Time, months int, diags []models.Diagnostic) DiagnosticStats {
	loc := now.Location()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, -(months - 1), 0)

	byMonth := make([]MonthCount, months)
	pos := make(map[string]int, months)
	for i := range byMonth {
		key := first.AddDate(0, i, 0).Format("2006-01")
		byMonth[i] = MonthCount{Period: key}
		pos[key] = i
	}

	polygraphs := map[string]int64{}
	var iahSum float64
	var iahN int
	for _, d := range diags {
		if i, ok := pos[d.Date.In(loc).Format("2006-01")]; ok {
			byMonth[i].Count++
		}
		label := d.Polygraph
		if label == "" {
			label = "Unknown"
		}
		polygraphs[label]++
		if d.IAHResult != nil {
			iahSum += *d.IAHResult
			iahN++
		}
	}

	stats := DiagnosticStats{
		Total:       len(diags),
		ByMonth:     byMonth,
		ByPolygraph: sortedCounts(polygraphs),
	}
	if iahN > 0 {
		avg := iahSum / float64(iahN)
		stats.AverageIAH = &avg
	}
	return stats
}

func (s *Service) patientStats(ctx context.Context, now time.Time) PatientStats {
	stats := PatientStats{
		ByRegion: []models.GroupCount{},
		ByDoctor: []models.GroupCount{},
	}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	s.isolate("patients", func() error {
		patients, err := s.Store.Patients(ctx, repository.Scope{})
		if err != nil {
			return err
		}
		stats.Total = len(patients)
		for _, p := range patients {
			if !p.CreatedAt.Before(monthStart) {
				stats.NewThisMonth++
			}
		}
		return nil
	})
	s.isolate("patientsByRegion", func() error {
		rows, err := s.Store.PatientsByRegion(ctx)
		if err != nil {
			return err
		}
		stats.ByRegion = nonNil(rows)
		return nil
	})
	s.isolate("patientsByDoctor", func() error {
		rows, err := s.Store.PatientsByDoctor(ctx)
		if err != nil {
			return err
		}
		stats.ByDoctor = nonNil(rows)
		return nil
	})
	return stats
}

func (s *Service) userStats(ctx context.Context, appts []models.Appointment) UserStats {
	stats := UserStats{
		ByRole:   []models.GroupCount{},
		Activity: []UserActivity{},
	}

	s.isolate("usersByRole", func() error {
		rows, err := s.Store.UsersByRole(ctx)
		if err != nil {
			return err
		}
		stats.ByRole = nonNil(rows)
		return nil
	})
	s.isolate("userActivity", func() error {
		users, err := s.Store.Users(ctx)
		if err != nil {
			return err
		}
		stats.Total = len(users)
		stats.Activity = userActivity(users, appts)
		return nil
	})
	return stats
}

// userActivity ranks users by assigned appointments, most active first.
func userActivity(users []models.User, appts []models.Appointment) []UserActivity {
	out := make([]UserActivity, 0, len(users))
	pos := make(map[uint64]int, len(users))
	for _, u := range users {
		pos[u.ID] = len(out)
		out = append(out, UserActivity{UserID: u.ID, FullName: u.FullName})
	}
	for _, a := range appts {
		if a.AssignedToID == nil {
			continue
		}
		i, ok := pos[*a.AssignedToID]
		if !ok {
			continue
		}
		out[i].AssignedAppointments++
		if a.Status == models.AppointmentCompleted {
			out[i].CompletedAppointments++
		}
	}
	slices.SortStableFunc(out, func(a, b UserActivity) int {
		return cmp.Compare(b.AssignedAppointments, a.AssignedAppointments)
	})
	return out
}

func upcomingAppointments(now time.Time, appts []models.Appointment) int {
	n := 0
	for _, a := range appts {
		if a.Status == models.AppointmentScheduled && !a.AppointmentDate.Before(now) {
			n++
		}
	}
	return n
}

func sortedCounts(m map[string]int64) []models.GroupCount {
	out := make([]models.GroupCount, 0, len(m))
	for label, n := range m {
		out = append(out, models.GroupCount{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b models.GroupCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

func nonNil(rows []models.GroupCount) []models.GroupCount {
	if rows == nil {
		return []models.GroupCount{}
	}
	return rows
}
