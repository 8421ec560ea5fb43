package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/blaisecz/sleep-analytics/internal/domain"
	"github.com/blaisecz/sleep-analytics/pkg/problem"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// writeError maps service errors to problem responses. Unknown errors are
// logged and reported as 500 with the given detail.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error, detail string) {
	var (
		validationErr   *domain.ValidationError
		formatErr       *domain.ImportFormatError
		insufficientErr *domain.InsufficientDataError
		tooLargeErr     *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validationErr):
		problem.ValidationError("Sleep record is invalid", []problem.FieldError{
			{Field: validationErr.Field, Message: validationErr.Reason},
		}).Write(w)
	case errors.Is(err, domain.ErrNotFound):
		problem.NotFound("Sleep record not found").Write(w)
	case errors.As(err, &tooLargeErr):
		problem.PayloadTooLarge(fmt.Sprintf("Upload exceeds %d bytes", tooLargeErr.Limit)).Write(w)
	case errors.As(err, &formatErr):
		problem.ImportFormat(formatErr.Error()).Write(w)
	case errors.As(err, &insufficientErr):
		problem.InsufficientData(insufficientErr.Error()).Write(w)
	case errors.Is(err, domain.ErrInvalidInput):
		problem.BadRequest(err.Error()).Write(w)
	default:
		logger.Error(detail, zap.Error(err))
		problem.InternalError(detail).Write(w)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func parseUUIDParam(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		problem.BadRequest("Invalid " + label + " format").Write(w)
		return uuid.Nil, false
	}
	return id, true
}
