// Package respond writes JSON responses and maps domain errors to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chris/property-settlement/pkg/api"
	"github.com/chris/property-settlement/pkg/middleware"
	"github.com/chris/property-settlement/pkg/models"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Decode reads a JSON request body into v. An empty body leaves v untouched when
// optional is set.
func Decode(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	if optional && r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		write(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("Invalid request body: %v", err), "")
		return false
	}
	return true
}

// Actor returns the acting user or writes 401 when the request carries none.
func Actor(w http.ResponseWriter, r *http.Request) (string, bool) {
	actor := middleware.ActorFrom(r.Context())
	if actor == "" {
		write(w, http.StatusUnauthorized, "unauthenticated", fmt.Sprintf("%s header is required", middleware.ActorHeader), "")
		return "", false
	}
	return actor, true
}

// Error maps err to a status and writes the error body. Errors that are not
// domain errors are logged and reported as 500 without their detail.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *models.Error
	if !errors.As(err, &domainErr) {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		write(w, http.StatusInternalServerError, "internal", "internal error", "")
		return
	}

	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, models.ErrValidation):
		status, code = http.StatusUnprocessableEntity, "validation_error"
	case errors.Is(err, models.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, models.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, models.ErrInvalidState):
		status, code = http.StatusConflict, "invalid_state"
	case errors.Is(err, models.ErrAuthorization):
		status, code = http.StatusForbidden, "forbidden"
	}
	write(w, status, code, domainErr.Error(), domainErr.Status)
}

// ParamError reports a malformed path parameter.
func ParamError(w http.ResponseWriter, _ *http.Request, err error) {
	write(w, http.StatusBadRequest, "bad_request", err.Error(), "")
}

func write(w http.ResponseWriter, status int, code, message, entityStatus string) {
	body := api.Error{Error: code, Message: message}
	if entityStatus != "" {
		body.Status = &entityStatus
	}
	JSON(w, status, body)
}
