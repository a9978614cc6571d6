package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/CarterPerez-dev/my-portfolio/pkg/errors"
	"github.com/CarterPerez-dev/my-portfolio/pkg/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// writeErr runs WriteError against a fresh request and recorder.
func writeErr(t *testing.T, err error) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	WriteError(rec, req, err, testLogger())
	return rec, decodeEnvelope(t, rec)
}

func TestWriteJSON_SetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, Response{Data: "hello"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWriteJSON_EncodesData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, Response{Data: map[string]string{"key": "value"}})

	resp := decodeEnvelope(t, rec)
	assert.NotNil(t, resp.Data)
}

func TestWriteJSON_ErrorPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusBadRequest, Response{
		Error: &ErrorResponse{Code: "INVALID", Message: "bad input"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID", resp.Error.Code)
	assert.Equal(t, "bad input", resp.Error.Message)
}

func TestWriteJSON_StatusCodes(t *testing.T) {
	for _, code := range []int{http.StatusOK, http.StatusCreated, http.StatusNotFound, http.StatusTeapot} {
		rec := httptest.NewRecorder()
		WriteJSON(rec, code, Response{})
		assert.Equal(t, code, rec.Code)
	}
}

func TestWriteError_AppError(t *testing.T) {
	rec, resp := writeErr(t, apperrors.NotFound("project", "abc-123"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestWriteError_Sentinels(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{apperrors.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS"},
		{apperrors.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		rec, resp := writeErr(t, tt.err)
		assert.Equal(t, tt.status, rec.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, tt.code, resp.Error.Code)
	}
}

func TestWriteError_UnknownError_Returns500(t *testing.T) {
	rec, resp := writeErr(t, fmt.Errorf("something unexpected"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
}

func TestWriteValidationError_NonValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, fmt.Errorf("not a validation error"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestResponse_OmitsNilHalves(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, Response{Data: "ok"})

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.NotContains(t, raw, "error")

	rec = httptest.NewRecorder()
	WriteJSON(rec, http.StatusBadRequest, Response{
		Error: &ErrorResponse{Code: "ERR", Message: "msg"},
	})

	raw = map[string]json.RawMessage{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.NotContains(t, raw, "data")
}

func TestNewPaginatedResponse(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		page       int
		perPage    int
		totalPages int
		hasNext    bool
	}{
		{"partial last page", 25, 1, 10, 3, true},
		{"on last page", 21, 3, 10, 3, false},
		{"exact division", 30, 2, 10, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewPaginatedResponse([]string{"a"}, tt.total, tt.page, tt.perPage)
			assert.Equal(t, tt.totalPages, resp.TotalPages)
			assert.Equal(t, tt.hasNext, resp.HasNext)
		})
	}
}

func TestNewPaginatedResponse_NilDataBecomesEmptySlice(t *testing.T) {
	resp := NewPaginatedResponse[string](nil, 0, 1, 20)

	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.Data)
	assert.Zero(t, resp.TotalPages)
	assert.False(t, resp.HasNext)
}

func TestNewPaginatedResponse_JSONSerialization(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, NewPaginatedResponse([]string{"hello"}, 1, 1, 10))

	var out map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))

	assert.Contains(t, string(out["data"]), "hello")
	assert.Contains(t, string(out["total_count"]), "1")
	assert.Contains(t, string(out["page"]), "1")
	assert.Contains(t, string(out["per_page"]), "10")
}

func TestParseUUID_ValidUUID(t *testing.T) {
	rec := httptest.NewRecorder()
	id, ok := ParseUUID(rec, "550e8400-e29b-41d4-a716-446655440000")

	assert.True(t, ok)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	assert.Equal(t, http.StatusOK, rec.Code, "no response should be written on success")
}

func TestParseUUID_UppercaseUUID(t *testing.T) {
	rec := httptest.NewRecorder()
	id, ok := ParseUUID(rec, "550E8400-E29B-41D4-A716-446655440000")

	assert.True(t, ok)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
}

func TestParseUUID_Invalid_Returns400(t *testing.T) {
	for _, param := range []string{"not-a-uuid", "", "abc123"} {
		rec := httptest.NewRecorder()
		id, ok := ParseUUID(rec, param)

		assert.False(t, ok, param)
		assert.Equal(t, "00000000-0000-0000-0000-000000000000", id.String())
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decodeEnvelope(t, rec)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
	}
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx := logger.WithCorrelationID(context.Background(), "corr-123")
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)

	WriteError(rec, req, apperrors.ErrNotFound, testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "corr-123", resp.Error.RequestID)
}

func TestWriteError_AppError_IncludesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx := logger.WithCorrelationID(context.Background(), "corr-456")
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)

	WriteError(rec, req, apperrors.NotFound("project", "xyz-789"), testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "corr-456", resp.Error.RequestID)
}

func TestWriteError_NoCorrelationID_OmitsRequestID(t *testing.T) {
	_, resp := writeErr(t, apperrors.ErrNotFound)
	require.NotNil(t, resp.Error)
	assert.Empty(t, resp.Error.RequestID)

	// The key itself must be absent from the raw JSON, not just empty.
	rec2 := httptest.NewRecorder()
	WriteError(rec2, httptest.NewRequest(http.MethodGet, "/test", nil), apperrors.ErrNotFound, testLogger())

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec2.Body).Decode(&raw))
	var errObj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["error"], &errObj))
	assert.NotContains(t, errObj, "request_id")
}

func TestErrorResponse_RequestID_Omitempty(t *testing.T) {
	data, err := json.Marshal(ErrorResponse{Code: "ERR", Message: "msg", RequestID: "req-abc"})
	require.NoError(t, err)
	assert.Contains(t, string(data), "req-abc")

	data, err = json.Marshal(ErrorResponse{Code: "ERR", Message: "msg"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "request_id")
}
