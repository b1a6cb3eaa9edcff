// Package httpapi serves the dashboard as JSON over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/godilite/studio-insights/internal/service"
)

// ProblemDetail is an RFC 7807 problem document.
type ProblemDetail struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Problem sends an RFC 7807 problem response.
func Problem(w http.ResponseWriter, r *http.Request, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ProblemDetail{
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	})
}

// respondError maps service errors onto problem responses.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		h.logger.Warn("request canceled", zap.String("path", r.URL.Path))
		Problem(w, r, 499, "Client Closed Request", "")
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("request timeout", zap.String("path", r.URL.Path))
		Problem(w, r, http.StatusGatewayTimeout, "Timeout", "request timed out")
	case errors.Is(err, service.ErrUnknownView),
		errors.Is(err, service.ErrUnknownDataset),
		errors.Is(err, service.ErrBucketNotFound):
		Problem(w, r, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, service.ErrInvalidQuery):
		Problem(w, r, http.StatusBadRequest, "Invalid Query", err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		h.logger.Error("storage failure", zap.String("path", r.URL.Path), zap.Error(err))
		Problem(w, r, http.StatusInternalServerError, "Internal Error", "database error")
	default:
		h.logger.Error("unexpected error", zap.String("path", r.URL.Path), zap.Error(err))
		Problem(w, r, http.StatusInternalServerError, "Internal Error", "")
	}
}
