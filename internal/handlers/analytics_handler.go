package handlers

import (
	"net/http"
	"time"

	"homecare-rental/internal/analytics"
	"homecare-rental/internal/config"
	"homecare-rental/internal/export"
	"homecare-rental/pkg/utils"

	"github.com/gin-gonic/gin"
)

const maxAnalyticsMonths = 60

// AnalyticsHandler serves the admin dashboard summary.
type AnalyticsHandler struct {
	Service *analytics.Service
	Now     func() time.Time
}

func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{Service: svc, Now: time.Now}
}

func (h *AnalyticsHandler) months(c *gin.Context) int {
	return min(utils.IntOrDefault(c.Query("months"), analytics.DefaultMonths), maxAnalyticsMonths)
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	sum, err := h.Service.Summary(c.Request.Context(), h.Now(), h.months(c))
	if err != nil {
		respondLoadError(c, "AnalyticsSummary", err)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "analytics summary", sum)
}

// Export always rebuilds the summary so the file reflects the current data.
func (h *AnalyticsHandler) Export(c *gin.Context) {
	now := h.Now()
	sum, err := h.Service.Build(c.Request.Context(), now, h.months(c))
	if err != nil {
		respondLoadError(c, "AnalyticsExport", err)
		return
	}
	f, err := export.AnalyticsWorkbook(sum)
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "AnalyticsExport", "workbook", nil, err)
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to build workbook", nil)
		return
	}
	writeWorkbook(c, f, "analytics-"+now.Format("2006-01-02")+".xlsx")
}
