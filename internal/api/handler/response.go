package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"retail-insights/internal/domain"
	"retail-insights/pkg/logger"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Success   bool              `json:"success"`
	Data      interface{}       `json:"data,omitempty"`
	Error     string            `json:"error,omitempty"`
	Code      string            `json:"code,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	resp.Timestamp = time.Now().UTC()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// SuccessResponse writes data with status 200.
func SuccessResponse(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// CreatedResponse writes data with status 201.
func CreatedResponse(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Data: data})
}

// ErrorResponse maps err to a status code. Internal details never reach the client.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := errorStatus(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "status", status, "error", err)
	} else {
		log.Debug("request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, resp)
}

func errorStatus(err error) (int, Response) {
	userMessage := func(fallback string) string {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return domainErr.UserMessage()
		}
		return fallback
	}

	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, Response{Error: "validation failed", Code: "INVALID_INPUT", Details: validationErr.Errors}
	case domain.IsSourceNotFound(err):
		return http.StatusNotFound, Response{Error: userMessage("source not found"), Code: "SOURCE_NOT_FOUND"}
	case domain.IsMalformedInput(err):
		return http.StatusUnprocessableEntity, Response{Error: userMessage("malformed input"), Code: "MALFORMED_INPUT"}
	case domain.IsInput(err):
		return http.StatusUnprocessableEntity, Response{Error: userMessage("input error"), Code: "INPUT_ERROR"}
	case domain.IsInvalidInput(err):
		return http.StatusBadRequest, Response{Error: userMessage("invalid input"), Code: "INVALID_INPUT"}
	case domain.IsUnauthorized(err):
		return http.StatusUnauthorized, Response{Error: userMessage("unauthorized"), Code: "UNAUTHORIZED"}
	case domain.IsAlreadyExists(err):
		return http.StatusConflict, Response{Error: userMessage("already exists"), Code: "ALREADY_EXISTS"}
	case domain.IsNotFound(err):
		return http.StatusNotFound, Response{Error: userMessage("not found"), Code: "NOT_FOUND"}
	case errors.Is(err, domain.ErrFillerUnavailable):
		return http.StatusInternalServerError, Response{Error: userMessage("internal server error"), Code: "FILLER_UNAVAILABLE"}
	default:
		return http.StatusInternalServerError, Response{Error: "internal server error", Code: "INTERNAL_ERROR"}
	}
}

// NotFound answers requests for unknown routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, Response{Error: "route not found", Code: "NOT_FOUND"})
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, Response{Error: "method not allowed", Code: "METHOD_NOT_ALLOWED"})
}
