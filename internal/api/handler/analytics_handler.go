package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/domain"
	"github.com/blaisecz/sleep-analytics/internal/report"
	"github.com/blaisecz/sleep-analytics/internal/service"
	"github.com/blaisecz/sleep-analytics/pkg/problem"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  *zap.Logger
	now     func() time.Time
}

func NewAnalyticsHandler(service service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, logger: logger, now: time.Now}
}

type analyticsQuery struct {
	from time.Time
	to   time.Time
	opts domain.AnalyticsOptions
}

// Analyze handles GET /v1/users/{userId}/sleep/analytics
// @Summary Sleep analytics
// @Description Per-record metrics, per-day trend summary and recommendations for a window. Computed fresh on every call.
// @Tags analytics
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param from query string false "Window start (RFC3339 or YYYY-MM-DD), default 30 days before to" example(2024-01-01)
// @Param to query string false "Window end (RFC3339 or YYYY-MM-DD, inclusive day), default now" example(2024-01-31)
// @Param min_records query integer false "Fail with 422 when the window holds fewer records" minimum(0)
// @Success 200 {object} domain.AnalyticsReport
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 422 {object} problem.Problem "Not enough records in the window"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/sleep/analytics [get]
func (h *AnalyticsHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user ID")
	if !ok {
		return
	}
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	rep, err := h.service.Analyze(r.Context(), userID, q.from, q.to, q.opts)
	if err != nil {
		writeError(w, h.logger, err, "Failed to compute sleep analytics")
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// Export handles GET /v1/users/{userId}/sleep/analytics/export
// @Summary Export sleep analytics
// @Description The analytics report as an XLSX workbook with Summary, Days and Records sheets.
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param userId path string true "User UUID" format(uuid)
// @Param from query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Window end (RFC3339 or YYYY-MM-DD, inclusive day)"
// @Param min_records query integer false "Fail with 422 when the window holds fewer records" minimum(0)
// @Success 200 {file} file
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 422 {object} problem.Problem "Not enough records in the window"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/sleep/analytics/export [get]
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user ID")
	if !ok {
		return
	}
	q, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	// Buffer so a failure can still be reported as problem+json.
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), userID, q.from, q.to, q.opts, &buf); err != nil {
		writeError(w, h.logger, err, "Failed to export sleep analytics")
		return
	}

	filename := fmt.Sprintf("sleep-analytics-%s-%s.xlsx", q.from.Format("20060102"), q.to.Format("20060102"))
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *AnalyticsHandler) parseQuery(w http.ResponseWriter, r *http.Request) (analyticsQuery, bool) {
	var q analyticsQuery
	var fieldErrors []problem.FieldError
	values := r.URL.Query()

	q.to = h.now().UTC()
	if s := values.Get("to"); s != "" {
		to, dateOnly, err := parseWindowBound(s)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{Field: "to", Message: "must be RFC3339 or YYYY-MM-DD"})
		} else {
			if dateOnly {
				to = to.Add(24*time.Hour - time.Nanosecond)
			}
			q.to = to
		}
	}

	q.from = q.to.AddDate(0, 0, -service.DefaultAnalyticsWindowDays)
	if s := values.Get("from"); s != "" {
		from, _, err := parseWindowBound(s)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{Field: "from", Message: "must be RFC3339 or YYYY-MM-DD"})
		} else {
			q.from = from
		}
	}

	if s := values.Get("min_records"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			fieldErrors = append(fieldErrors, problem.FieldError{Field: "min_records", Message: "must be a non-negative integer"})
		} else {
			q.opts.MinRecords = n
		}
	}

	if len(fieldErrors) > 0 {
		problem.BadRequest("Invalid query parameters").WithErrors(fieldErrors).Write(w)
		return q, false
	}
	return q, true
}

func parseWindowBound(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err := time.Parse("2006-01-02", s)
	return t, true, err
}
