package appraisalhandler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"appraisal/internal/domain/appraisal"
	"appraisal/internal/transport/http/api"
	"appraisal/internal/transport/http/middleware"
)

// writeError maps the domain taxonomy onto HTTP. Anything unmapped is a 500
// and logged; domain errors pass through with their diagnostic payload.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())

	var validationErr *appraisal.ValidationError
	if errors.As(err, &validationErr) {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_failed", validationErr.Error(), validationErr.Violations, requestID)
		return
	}

	var notFoundErr *appraisal.NotFoundError
	if errors.As(err, &notFoundErr) {
		api.Fail(w, http.StatusNotFound, "not_found", notFoundErr.Error(), requestID)
		return
	}

	var stateErr *appraisal.StateError
	if errors.As(err, &stateErr) {
		api.FailWithDetails(w, http.StatusConflict, "illegal_state", stateErr.Error(), map[string]string{
			"current":   stateErr.Current,
			"attempted": stateErr.Attempted,
		}, requestID)
		return
	}

	var conflictErr *appraisal.ConflictError
	if errors.As(err, &conflictErr) {
		api.Fail(w, http.StatusConflict, "conflict", conflictErr.Error(), requestID)
		return
	}

	var deadlineErr *appraisal.DeadlineExpiredError
	if errors.As(err, &deadlineErr) {
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "deadline_expired", deadlineErr.Error(), map[string]string{
			"deadline": deadlineErr.Deadline.UTC().Format(time.RFC3339),
		}, requestID)
		return
	}

	var upstreamErr *appraisal.UpstreamError
	if errors.As(err, &upstreamErr) {
		slog.Error("directory lookup failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusBadGateway, "upstream_failed", "employee directory is unavailable", requestID)
		return
	}

	slog.Error("unhandled engine error", "err", err, "requestId", requestID)
	api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
}
