package handler

import (
	"encoding/json"
	"net/http"

	"github.com/blaisecz/sleep-analytics/internal/api/validation"
	"github.com/blaisecz/sleep-analytics/internal/domain"
	"github.com/blaisecz/sleep-analytics/internal/service"
	"github.com/blaisecz/sleep-analytics/pkg/problem"
	"go.uber.org/zap"
)

// MaxImportBytes caps the size of an uploaded export.
const MaxImportBytes = 512 << 20

// ImportHandler serves the endpoints that create records in bulk.
type ImportHandler struct {
	imports   service.ImportService
	generator service.GenerateService
	logger    *zap.Logger
	maxBytes  int64
}

func NewImportHandler(imports service.ImportService, generator service.GenerateService, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{imports: imports, generator: generator, logger: logger, maxBytes: MaxImportBytes}
}

// ImportAppleHealth handles POST /v1/users/{userId}/sleep-records/import/apple-health
// @Summary Import an Apple Health export
// @Description Upload export.xml from an Apple Health export. Sleep sessions are normalized, de-duplicated and stored in one transaction. Re-uploading the same export stores nothing new.
// @Tags import
// @Accept xml
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param export body string true "Apple Health export.xml"
// @Success 200 {object} domain.ImportResult
// @Failure 400 {object} problem.Problem "Invalid user ID"
// @Failure 413 {object} problem.Problem "Export exceeds the upload limit"
// @Failure 422 {object} problem.Problem "Payload is not a readable export"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/sleep-records/import/apple-health [post]
func (h *ImportHandler) ImportAppleHealth(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user ID")
	if !ok {
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.maxBytes)
	result, err := h.imports.ImportAppleHealth(r.Context(), userID, body)
	if err != nil {
		writeError(w, h.logger, err, "Failed to import Apple Health export")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Generate handles POST /v1/users/{userId}/sleep-records/generate
// @Summary Generate synthetic sleep records
// @Description Create one synthetic record per night of the window, following the requested quality and duration trends.
// @Tags import
// @Accept json
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param request body domain.GenerateRequest true "Generation parameters"
// @Success 201 {object} domain.GenerateResponse
// @Failure 400 {object} problem.Problem "Invalid request"
// @Failure 422 {object} problem.Problem "Invalid generation parameters"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/sleep-records/generate [post]
func (h *ImportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUUIDParam(w, r, "userId", "user ID")
	if !ok {
		return
	}

	var req domain.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	resp, err := h.generator.Generate(r.Context(), userID, &req)
	if err != nil {
		writeError(w, h.logger, err, "Failed to generate sleep records")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}
