// Package export renders calendar and analytics data as xlsx workbooks.
package export

import (
	"time"

	"homecare-rental/internal/analytics"
	"homecare-rental/internal/timeline"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateLayout = "2006-01-02 15:04"

type table struct {
	sheet   string
	headers []string
	rows    [][]interface{}
}

// build writes each table to its own sheet, the first one active.
func build(tables ...table) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, t := range tables {
		idx, err := f.NewSheet(t.sheet)
		if err != nil {
			f.Close()
			return nil, err
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeTable(f, t); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeTable(f *excelize.File, t table) error {
	header := make([]interface{}, len(t.headers))
	for i, h := range t.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(t.sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.sheet, cell, &row); err != nil {
			return err
		}
	}
	last, err := excelize.ColumnNumberToName(len(t.headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(t.sheet, "A", last, 18)
}

func money(d decimal.Decimal) float64 {
	return d.Round(3).InexactFloat64()
}

func day(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func intOrBlank(p *int) interface{} {
	if p == nil {
		return ""
	}
	return *p
}

// CalendarWorkbook lists events one per row in the order given.
func CalendarWorkbook(events []timeline.CalendarEvent) (*excelize.File, error) {
	rows := make([][]interface{}, 0, len(events))
	for _, e := range events {
		rows = append(rows, []interface{}{
			e.Date.Format(dateLayout),
			string(e.Type),
			e.Status,
			e.Title,
			e.Patient.FullName,
			e.ID,
		})
	}
	return build(table{
		sheet:   "Calendar",
		headers: []string{"Date", "Type", "Status", "Title", "Patient", "Event ID"},
		rows:    rows,
	})
}

// AnalyticsWorkbook puts the main sections of a summary on separate sheets.
func AnalyticsWorkbook(sum *analytics.Summary) (*excelize.File, error) {
	o := sum.Overview
	overview := [][]interface{}{
		{"Generated at", sum.GeneratedAt.Format(dateLayout)},
		{"Patients", o.TotalPatients},
		{"Rentals", o.TotalRentals},
		{"Active rentals", sum.Rentals.ActiveRentals},
		{"Overdue payments", sum.Rentals.OverduePayments},
		{"Sales", o.TotalSales},
		{"Diagnostics", o.TotalDiagnostics},
		{"Upcoming appointments", o.UpcomingAppointments},
		{"Total revenue", money(o.TotalRevenue)},
	}

	revenueRows := func(buckets []timeline.RevenueBucket) [][]interface{} {
		rows := make([][]interface{}, 0, len(buckets))
		for _, b := range buckets {
			rows = append(rows, []interface{}{b.Period, money(b.Sales), money(b.Rentals), money(b.Total)})
		}
		return rows
	}

	var active [][]interface{}
	for _, p := range sum.Rentals.ActiveRentalsWithProgress {
		pct := interface{}("")
		if p.ProgressPercentage != nil {
			pct = *p.ProgressPercentage
		}
		active = append(active, []interface{}{
			p.RentalID, p.PatientName, day(&p.StartDate), day(p.EndDate),
			intOrBlank(p.DaysElapsed), intOrBlank(p.DaysRemaining), pct,
		})
	}

	var ranking [][]interface{}
	for _, p := range sum.Rentals.PatientRentals {
		avg := interface{}("")
		if p.AvgDuration != nil {
			avg = *p.AvgDuration
		}
		ranking = append(ranking, []interface{}{
			p.PatientName, p.TotalRentals, p.ActiveRentals, money(p.TotalRevenue), avg,
		})
	}

	revenueHeaders := []string{"Period", "Sales", "Rentals", "Total"}
	return build(
		table{sheet: "Overview", headers: []string{"Metric", "Value"}, rows: overview},
		table{sheet: "Monthly Revenue", headers: revenueHeaders, rows: revenueRows(sum.Revenue.Monthly)},
		table{sheet: "Yearly Revenue", headers: revenueHeaders, rows: revenueRows(sum.Revenue.Yearly)},
		table{
			sheet:   "Active Rentals",
			headers: []string{"Rental", "Patient", "Start", "End", "Days elapsed", "Days remaining", "Progress %"},
			rows:    active,
		},
		table{
			sheet:   "Top Patients",
			headers: []string{"Patient", "Rentals", "Active", "Revenue", "Avg duration (days)"},
			rows:    ranking,
		},
	)
}
