package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse writes {"success":false,"error":...} tagged with the chi request id.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSONResponse(w, r, status, errorBody{
		Error:     message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		// status is already on the wire
		slog.WarnContext(r.Context(), "Failed to write response",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	}
}

// DecodeJSONBody decodes exactly one JSON value of at most 1 MiB into dst.
// Unknown fields are rejected. The returned error is safe to show to clients.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return describeDecodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must hold a single JSON value")
	}
	return nil
}

func describeDecodeError(err error) error {
	var (
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		tooLarge   *http.MaxBytesError
		invalidDst *json.InvalidUnmarshalError
	)
	switch {
	case errors.As(err, &invalidDst):
		panic(fmt.Errorf("DecodeJSONBody needs a non-nil pointer: %w", err))
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("malformed JSON")
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Errorf("field %q must be %s", typeErr.Field, typeErr.Type)
		}
		return fmt.Errorf("wrong JSON type at offset %d", typeErr.Offset)
	case errors.Is(err, io.EOF):
		return errors.New("body is empty")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return fmt.Errorf("unknown field %q", field)
	case errors.As(err, &tooLarge):
		return fmt.Errorf("body exceeds %d bytes", tooLarge.Limit)
	default:
		return fmt.Errorf("invalid JSON body: %w", err)
	}
}

// HandleServiceError maps a service error kind to its HTTP status.
func HandleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var vErr *types.ValidationError
	switch {
	case errors.As(err, &vErr):
		ErrorResponse(w, r, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, types.ErrValidation):
		ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrNotFound):
		ErrorResponse(w, r, http.StatusNotFound, "travel plan not found")
	case errors.Is(err, types.ErrPersistence):
		logger.ErrorContext(r.Context(), "Persistence failure", slog.Any("error", err))
		ErrorResponse(w, r, http.StatusServiceUnavailable, "could not save the travel plan, please try again later")
	default:
		logger.ErrorContext(r.Context(), "Unhandled service error", slog.Any("error", err))
		ErrorResponse(w, r, http.StatusInternalServerError, "internal server error")
	}
}
