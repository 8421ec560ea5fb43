package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/api/validation"
	"github.com/blaisecz/sleep-analytics/internal/domain"
	"github.com/blaisecz/sleep-analytics/internal/service"
	"github.com/blaisecz/sleep-analytics/pkg/pagination"
	"github.com/blaisecz/sleep-analytics/pkg/problem"
	"go.uber.org/zap"
)

type SleepRecordHandler struct {
	service service.SleepRecordService
	logger  *zap.Logger
}

func NewSleepRecordHandler(service service.SleepRecordService, logger *zap.Logger) *SleepRecordHandler {
	return &SleepRecordHandler{service: service, logger: logger}
}

// Create handles POST /v1/users/{userId}/sleep-records
// @Summary Record sleep
// @Description Store a manually entered sleep session with optional phases and heart-rate samples.
// @Tags sleep-records
// @Accept json
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param request body domain.SleepRecordRequest true "Sleep session data"
// @Success 201 {object} domain.SleepRecordResponse "Record created"
// @Failure 400 {object} problem.Problem "Invalid request body or parameters"
// @Failure 422 {object} problem.Problem "Record violates a sleep record invariant"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/sleep-records [post]
func (h *SleepRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user ID")
	if !ok {
		return
	}

	req, ok := decodeRecordRequest(w, r)
	if !ok {
		return
	}

	rec, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, h.logger, err, "Failed to create sleep record")
		return
	}

	writeJSON(w, http.StatusCreated, rec.ToResponse())
}

// Get handles GET /v1/users/{userId}/sleep-records/{recordId}
// @Summary Get a sleep record
// @Tags sleep-records
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param recordId path string true "Record UUID" format(uuid)
// @Success 200 {object} domain.SleepRecordResponse
// @Failure 400 {object} problem.Problem "Invalid identifiers"
// @Failure 404 {object} problem.Problem "Record not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/sleep-records/{recordId} [get]
func (h *SleepRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user ID")
	if !ok {
		return
	}
	recordID, ok := parseUUIDParam(w, r, "recordId", "record ID")
	if !ok {
		return
	}

	rec, err := h.service.Get(r.Context(), userID, recordID)
	if err != nil {
		writeError(w, h.logger, err, "Failed to get sleep record")
		return
	}

	writeJSON(w, http.StatusOK, rec.ToResponse())
}

// Replace handles PUT /v1/users/{userId}/sleep-records/{recordId}
// @Summary Replace a sleep record
// @Description Overwrite every attribute of a record. Phases and heart-rate samples are replaced as a whole.
// @Tags sleep-records
// @Accept json
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param recordId path string true "Record UUID" format(uuid)
// @Param request body domain.SleepRecordRequest true "Replacement data"
// @Success 200 {object} domain.SleepRecordResponse
// @Failure 400 {object} problem.Problem "Invalid request"
// @Failure 404 {object} problem.Problem "Record not found"
// @Failure 422 {object} problem.Problem "Record violates a sleep record invariant"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/sleep-records/{recordId} [put]
func (h *SleepRecordHandler) Replace(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user ID")
	if !ok {
		return
	}
	recordID, ok := parseUUIDParam(w, r, "recordId", "record ID")
	if !ok {
		return
	}

	req, ok := decodeRecordRequest(w, r)
	if !ok {
		return
	}

	rec, err := h.service.Replace(r.Context(), userID, recordID, req)
	if err != nil {
		writeError(w, h.logger, err, "Failed to replace sleep record")
		return
	}

	writeJSON(w, http.StatusOK, rec.ToResponse())
}

// Delete handles DELETE /v1/users/{userId}/sleep-records/{recordId}
// @Summary Delete a sleep record
// @Tags sleep-records
// @Param userId path string true "User UUID" format(uuid)
// @Param recordId path string true "Record UUID" format(uuid)
// @Success 204 "Record deleted"
// @Failure 400 {object} problem.Problem "Invalid identifiers"
// @Failure 404 {object} problem.Problem "Record not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/sleep-records/{recordId} [delete]
func (h *SleepRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user ID")
	if !ok {
		return
	}
	recordID, ok := parseUUIDParam(w, r, "recordId", "record ID")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, recordID); err != nil {
		writeError(w, h.logger, err, "Failed to delete sleep record")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /v1/users/{userId}/sleep-records
// @Summary List sleep records
// @Description Fetch paginated sleep history. Filter by date range. Results sorted by start_at descending (newest first).
// @Tags sleep-records
// @Produce json
// @Param userId path string true "User UUID" format(uuid) example(550e8400-e29b-41d4-a716-446655440000)
// @Param from query string false "Start of date range (RFC3339)" format(date-time) example(2024-01-01T00:00:00Z)
// @Param to query string false "End of date range (RFC3339)" format(date-time) example(2024-01-31T23:59:59Z)
// @Param limit query integer false "Results per page (1-100)" default(20) minimum(1) maximum(100)
// @Param cursor query string false "Cursor from previous response's next_cursor"
// @Success 200 {object} domain.SleepRecordListResponse "Sleep records with pagination"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/sleep-records [get]
func (h *SleepRecordHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user ID")
	if !ok {
		return
	}

	filter, fieldErrors := parseListFilter(r)
	if fieldErrors != nil {
		problem.BadRequest("Invalid query parameters").WithErrors(fieldErrors).Write(w)
		return
	}

	response, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, h.logger, err, "Failed to list sleep records")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func decodeRecordRequest(w http.ResponseWriter, r *http.Request) (*domain.SleepRecordRequest, bool) {
	var req domain.SleepRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return nil, false
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return nil, false
	}
	return &req, true
}

func parseListFilter(r *http.Request) (domain.SleepRecordFilter, []problem.FieldError) {
	var filter domain.SleepRecordFilter
	var fieldErrors []problem.FieldError

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "from",
				Message: "must be a valid RFC3339 timestamp",
			})
		} else {
			filter.From = &from
		}
	}

	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "to",
				Message: "must be a valid RFC3339 timestamp",
			})
		} else {
			filter.To = &to
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "limit",
				Message: "must be a positive integer",
			})
		} else {
			filter.Limit = limit
		}
	}

	filter.Cursor = r.URL.Query().Get("cursor")
	if _, err := pagination.DecodeCursor(filter.Cursor); err != nil {
		fieldErrors = append(fieldErrors, problem.FieldError{
			Field:   "cursor",
			Message: "is not a cursor issued by this API",
		})
	}

	if len(fieldErrors) > 0 {
		return filter, fieldErrors
	}

	return filter, nil
}
