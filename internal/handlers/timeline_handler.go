package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"homecare-rental/internal/config"
	"homecare-rental/internal/export"
	"homecare-rental/internal/repository"
	"homecare-rental/internal/timeline"
	"homecare-rental/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const queryDate = "2006-01-02"

// TimelineHandler serves the views derived from the four record collections.
// Now is read once per request.
type TimelineHandler struct {
	Store repository.Store
	Now   func() time.Time
}

func NewTimelineHandler(store repository.Store) *TimelineHandler {
	return &TimelineHandler{Store: store, Now: time.Now}
}

// window is an optional inclusive date filter from ?from= and ?to=.
type window struct {
	from, to *time.Time
}

func parseWindow(c *gin.Context) (window, error) {
	var w window
	if v := c.Query("from"); v != "" {
		t, err := time.ParseInLocation(queryDate, v, time.Local)
		if err != nil {
			return w, fmt.Errorf("from: %w", err)
		}
		w.from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.ParseInLocation(queryDate, v, time.Local)
		if err != nil {
			return w, fmt.Errorf("to: %w", err)
		}
		end := t.AddDate(0, 0, 1)
		w.to = &end
	}
	return w, nil
}

func (w window) filter(events []timeline.CalendarEvent) []timeline.CalendarEvent {
	if w.from == nil && w.to == nil {
		return events
	}
	out := make([]timeline.CalendarEvent, 0, len(events))
	for _, e := range events {
		if w.from != nil && e.Date.Before(*w.from) {
			continue
		}
		if w.to != nil && !e.Date.Before(*w.to) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// queryID reads an optional id filter, answering 400 when it is present but
// not a positive integer.
func queryID(c *gin.Context, key string) (uint64, bool) {
	id, err := utils.OptionalID(c.Query(key))
	if err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid "+key, nil)
		return 0, false
	}
	return id, true
}

// respondLoadError answers 500 for a failed fetch.
func respondLoadError(c *gin.Context, funcName string, err error) {
	config.LogError(config.GetLogger(), "handlers", funcName, "load sources", c.Request.URL.RawQuery, err)
	msg := "internal error"
	if errors.Is(err, repository.ErrLoadFailed) {
		msg = repository.ErrLoadFailed.Error()
	}
	utils.APIResponse(c, http.StatusInternalServerError, false, msg, nil)
}

func (h *TimelineHandler) calendar(c *gin.Context) ([]timeline.CalendarEvent, bool) {
	w, err := parseWindow(c)
	if err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid date filter", err.Error())
		return nil, false
	}
	pid, ok := queryID(c, "patient_id")
	if !ok {
		return nil, false
	}
	scope := repository.Scope{PatientID: pid}

	src, err := repository.LoadSources(c.Request.Context(), h.Store, scope)
	if err != nil {
		respondLoadError(c, "Calendar", err)
		return nil, false
	}
	return nonNilEvents(w.filter(timeline.BuildCalendar(h.Now(), src))), true
}

// Calendar returns every event, or one patient's with ?patient_id=.
func (h *TimelineHandler) Calendar(c *gin.Context) {
	events, ok := h.calendar(c)
	if !ok {
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "calendar", events)
}

func (h *TimelineHandler) ExportCalendar(c *gin.Context) {
	events, ok := h.calendar(c)
	if !ok {
		return
	}
	f, err := export.CalendarWorkbook(events)
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "ExportCalendar", "workbook", len(events), err)
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to build workbook", nil)
		return
	}
	writeWorkbook(c, f, "calendar.xlsx")
}

// PatientTimeline is one patient's calendar plus the notifications and rental
// figures that concern them.
func (h *TimelineHandler) PatientTimeline(c *gin.Context) {
	ctx := c.Request.Context()
	scope := repository.Scope{PatientID: utils.StringToUint64(c.Param("id"))}
	if scope.All() {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid patient id", nil)
		return
	}

	patients, err := h.Store.Patients(ctx, scope)
	if err != nil {
		respondLoadError(c, "PatientTimeline", fmt.Errorf("%w: %w", repository.ErrLoadFailed, err))
		return
	}
	if len(patients) == 0 {
		utils.APIResponse(c, http.StatusNotFound, false, "patient not found", nil)
		return
	}

	src, err := repository.LoadSources(ctx, h.Store, scope)
	if err != nil {
		respondLoadError(c, "PatientTimeline", err)
		return
	}

	now := h.Now()
	utils.APIResponse(c, http.StatusOK, true, "patient timeline", gin.H{
		"patient":          patients[0],
		"events":           nonNilEvents(timeline.BuildCalendar(now, src)),
		"notifications":    nonNilNotifications(timeline.DeriveNotifications(now, src)),
		"active_rentals":   timeline.ActiveRentalsWithProgress(now, src.Rentals),
		"overdue_payments": timeline.CountOverduePayments(now, timeline.AllPayments(src)),
	})
}

func (h *TimelineHandler) Notifications(c *gin.Context) {
	src, err := repository.LoadSources(c.Request.Context(), h.Store, repository.Scope{})
	if err != nil {
		respondLoadError(c, "Notifications", err)
		return
	}
	items := timeline.DeriveNotifications(h.Now(), src)
	utils.APIResponse(c, http.StatusOK, true, "notifications", nonNilNotifications(items))
}

func nonNilEvents(e []timeline.CalendarEvent) []timeline.CalendarEvent {
	if e == nil {
		return []timeline.CalendarEvent{}
	}
	return e
}

func nonNilNotifications(n []timeline.NotificationItem) []timeline.NotificationItem {
	if n == nil {
		return []timeline.NotificationItem{}
	}
	return n
}

func writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	defer f.Close()
	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "handlers", "writeWorkbook", filename, nil, err)
	}
}
