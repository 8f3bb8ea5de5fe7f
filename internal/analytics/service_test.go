package analytics

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"homecare-rental/internal/models"
	"homecare-rental/internal/repository"
	"homecare-rental/internal/repository/repotest"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var now = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func ptr[T any](v T) *T { return &v }

func store() *repotest.MemStore {
	alice := models.Patient{ID: 1, FullName: "Alice", CreatedAt: now.Add(-24 * time.Hour)}
	bob := models.Patient{ID: 2, FullName: "Bob", CreatedAt: now.AddDate(-1, 0, 0)}
	tech := uint64(7)

	return &repotest.MemStore{
		PatientRows: []models.Patient{alice, bob},
		UserRows:    []models.User{{ID: 6, FullName: "Idle"}, {ID: 7, FullName: "Tech"}},
		RoleCounts:  []models.GroupCount{{Label: "1", Count: 1}, {Label: "3", Count: 1}},
		AppointmentRows: []models.Appointment{
			{ID: 1, PatientID: 1, Patient: alice, AppointmentDate: now.Add(time.Hour), Status: models.AppointmentScheduled, AssignedToID: &tech},
			{ID: 2, PatientID: 2, Patient: bob, AppointmentDate: now.Add(-time.Hour), Status: models.AppointmentCompleted, AssignedToID: &tech},
		},
		RentalRows: []models.Rental{{
			ID: 1, PatientID: 1, Patient: alice,
			StartDate: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   ptr(time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)),
			Amount:    decimal.NewFromInt(50), Status: models.StatusPending, ReturnStatus: models.ReturnNotReturned,
			Payments: []models.Payment{{ID: 1, DueDate: ptr(now.AddDate(0, 0, -20))}},
		}},
		SaleRows: []models.Sale{{
			ID: 1, PatientID: 2, Patient: bob, Date: time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC),
			Amount: decimal.NewFromInt(100), Status: models.StatusCompleted,
		}},
		DiagnosticRows: []models.Diagnostic{
			{ID: 1, PatientID: 2, Patient: bob, Date: now.AddDate(0, -1, 0), Polygraph: "Nox T3", IAHResult: ptr(10.0)},
			{ID: 2, PatientID: 1, Patient: alice, Date: now, Polygraph: "Nox T3", IAHResult: ptr(20.0)},
		},
	}
}

func TestBuildSummary(t *testing.T) {
	svc := &Service{Store: store(), Logger: quietLogger()}
	sum, err := svc.Build(context.Background(), now, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	march := sum.Revenue.Monthly[2]
	if march.Period != "2024-03" || !march.Total.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("march revenue = %+v", march)
	}
	if !sum.Overview.TotalRevenue.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("total revenue = %s", sum.Overview.TotalRevenue)
	}
	if sum.Rentals.ActiveRentals != 1 || sum.Rentals.OverduePayments != 1 {
		t.Fatalf("rental stats = %+v", sum.Rentals)
	}
	if len(sum.Rentals.ActiveRentalsWithProgress) != 1 {
		t.Fatalf("progress rows = %d", len(sum.Rentals.ActiveRentalsWithProgress))
	}
	if sum.Diagnostics.Total != 2 || sum.Diagnostics.AverageIAH == nil || *sum.Diagnostics.AverageIAH != 15 {
		t.Fatalf("diagnostics = %+v", sum.Diagnostics)
	}
	if sum.Patients.Total != 2 || sum.Patients.NewThisMonth != 1 {
		t.Fatalf("patients = %+v", sum.Patients)
	}
	if sum.Overview.UpcomingAppointments != 1 {
		t.Fatalf("upcoming = %d", sum.Overview.UpcomingAppointments)
	}
	if len(sum.Users.Activity) != 2 || sum.Users.Activity[0].FullName != "Tech" || sum.Users.Activity[0].AssignedAppointments != 2 {
		t.Fatalf("activity = %+v", sum.Users.Activity)
	}
	if sum.Users.Activity[0].CompletedAppointments != 1 {
		t.Fatalf("completed = %d", sum.Users.Activity[0].CompletedAppointments)
	}
}

func TestBuildIsolatesGroupingFailures(t *testing.T) {
	st := store()
	st.RegionCounts = []models.GroupCount{{Label: "Tunis", Count: 2}}
	st.Errs = map[string]error{
		"PatientsByDoctor": errors.New("bad group by"),
		"Users":            errors.New("timeout"),
	}
	svc := &Service{Store: st, Logger: quietLogger()}

	sum, err := svc.Build(context.Background(), now, 3)
	if err != nil {
		t.Fatalf("a grouping failure must not fail the summary: %v", err)
	}
	if sum.Patients.ByDoctor == nil || len(sum.Patients.ByDoctor) != 0 {
		t.Fatalf("by doctor = %#v, want empty slice", sum.Patients.ByDoctor)
	}
	if len(sum.Patients.ByRegion) != 1 {
		t.Fatalf("by region = %+v", sum.Patients.ByRegion)
	}
	if len(sum.Users.Activity) != 0 || len(sum.Users.ByRole) != 2 {
		t.Fatalf("users = %+v", sum.Users)
	}
	if sum.Rentals.TotalRentals != 1 {
		t.Fatalf("rental stats lost: %+v", sum.Rentals)
	}
}

func TestBuildFailsWhenSourcesFail(t *testing.T) {
	st := store()
	st.Errs = map[string]error{"Sales": errors.New("down")}
	svc := &Service{Store: st, Logger: quietLogger()}

	if _, err := svc.Build(context.Background(), now, 3); !errors.Is(err, repository.ErrLoadFailed) {
		t.Fatalf("err = %v, want ErrLoadFailed", err)
	}
}

type mapCache struct {
	data map[string]*Summary
	sets int
}

func (c *mapCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	s, ok := c.data[key]
	if !ok {
		return false, nil
	}
	*dest.(*Summary) = *s
	return true, nil
}

func (c *mapCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	c.data[key] = v.(*Summary)
	c.sets++
	return nil
}

func TestSummaryUsesCache(t *testing.T) {
	cache := &mapCache{data: map[string]*Summary{}}
	st := store()
	svc := &Service{Store: st, Cache: cache, TTL: time.Minute, Logger: quietLogger()}

	first, err := svc.Summary(context.Background(), now, 3)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	st.Errs = map[string]error{"Rentals": errors.New("should not be called")}

	second, err := svc.Summary(context.Background(), now.Add(time.Second), 3)
	if err != nil {
		t.Fatalf("cached Summary: %v", err)
	}
	if !second.GeneratedAt.Equal(first.GeneratedAt) || cache.sets != 1 {
		t.Fatalf("summary was rebuilt instead of served from cache")
	}
}
