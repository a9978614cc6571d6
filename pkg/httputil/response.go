package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apperrors "github.com/CarterPerez-dev/my-portfolio/pkg/errors"
	"github.com/CarterPerez-dev/my-portfolio/pkg/logger"
	"github.com/CarterPerez-dev/my-portfolio/pkg/validator"
)

// Response is the JSON envelope every endpoint writes: exactly one of Data
// or Error is set.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse is the error half of the envelope.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON encodes v with the given status. Encoding failures are swallowed
// since the header has already gone out.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorBody(w http.ResponseWriter, status int, body *ErrorResponse) {
	WriteJSON(w, status, Response{Error: body})
}

// WriteError maps err onto the error envelope. AppError values carry their
// own code, message, and status; bare sentinel errors get a generic body; and
// anything unrecognized becomes a logged 500. The request-scoped logger from
// RequestLogger is preferred over fallback when present.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	requestID := logger.CorrelationIDFromContext(r.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeErrorBody(w, appErr.Status, &ErrorResponse{
			Code:      appErr.Code,
			Message:   appErr.Message,
			RequestID: requestID,
		})
		return
	}

	status, code, message := classifySentinel(err)
	if status == http.StatusInternalServerError {
		l := logger.FromContext(r.Context())
		if l == slog.Default() {
			l = fallback
		}
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	writeErrorBody(w, status, &ErrorResponse{Code: code, Message: message, RequestID: requestID})
}

func classifySentinel(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return http.StatusConflict, "ALREADY_EXISTS", "resource already exists"
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT", err.Error()
	default:
		return apperrors.HTTPStatus(err), "INTERNAL_ERROR", "an internal error occurred"
	}
}

// PaginatedResponse wraps a page of results with the counters clients need
// to drive a pager.
type PaginatedResponse[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewPaginatedResponse derives TotalPages and HasNext from the counts. A nil
// slice is replaced by an empty one so the JSON array is never null.
func NewPaginatedResponse[T any](data []T, totalCount, page, perPage int) PaginatedResponse[T] {
	totalPages := totalCount / perPage
	if totalCount%perPage > 0 {
		totalPages++
	}
	if data == nil {
		data = []T{}
	}
	return PaginatedResponse[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// WriteValidationError renders a validator.ValidationError as a 400 with
// per-field messages. Other errors become a bare INVALID_INPUT 400.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeErrorBody(w, http.StatusBadRequest, &ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Fields:  valErr.Fields(),
		})
		return
	}

	writeErrorBody(w, http.StatusBadRequest, &ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
}

// ParseUUID parses a path or query parameter as a UUID. On failure it writes
// the 400 itself and returns false so callers can bail with a bare return.
func ParseUUID(w http.ResponseWriter, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(param)
	if err != nil {
		writeErrorBody(w, http.StatusBadRequest, &ErrorResponse{
			Code:    "INVALID_PARAMETER",
			Message: "invalid UUID: " + param,
		})
		return uuid.Nil, false
	}
	return id, true
}
