package http

import (
	"errors"
	"net/http"

	"github.com/jotonhealth/joton/internal/hospital/domain"
	"github.com/jotonhealth/joton/internal/hospital/service"
	"github.com/jotonhealth/joton/internal/hospital/store"
	"github.com/jotonhealth/joton/pkg/httpx"
	"github.com/jotonhealth/joton/pkg/jwtx"
	"github.com/jotonhealth/joton/pkg/slogx"
)

func roleFromClaims(c jwtx.AccessClaims) domain.Role {
	return domain.Role(c.Role)
}

// writeServiceError maps service and store errors onto the wire taxonomy.
// The five auth-relevant kinds stay distinct: invalid_credentials and
// access_denied are both 401 but mean different recoveries (re-login vs
// stop refreshing), forbidden is 403, and infrastructure faults are 503 so
// an outage never masquerades as an auth failure.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials",
			"email or password is incorrect")
	case errors.Is(err, service.ErrAccessDenied):
		httpx.WriteError(w, http.StatusUnauthorized, "access_denied",
			"refresh credential rejected")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "forbidden",
			"insufficient permissions")
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "")
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, "conflict",
			"a record with those unique fields already exists")
	default:
		slogx.FromContext(r.Context()).Error("store unavailable", "err", err)
		httpx.WriteError(w, http.StatusServiceUnavailable, "store_unavailable",
			"temporary infrastructure failure, retry later")
	}
}
