package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Categories. Every error surfaced by the services layer wraps exactly one of them.
var (
	ErrValidation       = fmt.Errorf("validation error")
	ErrNotFound         = fmt.Errorf("not found")
	ErrConflict         = fmt.Errorf("conflict")
	ErrForbidden        = fmt.Errorf("forbidden")
	ErrUnauthenticated  = fmt.Errorf("unauthenticated")
	ErrProvider         = fmt.Errorf("collaboration provider error")
	ErrIntegrityAnomaly = fmt.Errorf("integrity anomaly")
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrInvalidProblem    = fmt.Errorf("%w: problem is required", ErrValidation)
	ErrInvalidDifficulty = fmt.Errorf("%w: difficulty must be one of easy, medium, hard", ErrValidation)
	ErrInvalidSessionID  = fmt.Errorf("%w: invalid session id", ErrValidation)

	ErrSessionNotFound = fmt.Errorf("%w: session not found", ErrNotFound)

	ErrSessionFull      = fmt.Errorf("%w: session is already full", ErrConflict)
	ErrSessionNotActive = fmt.Errorf("%w: session is no longer active", ErrConflict)
	ErrAlreadyCompleted = fmt.Errorf("%w: session is already completed", ErrConflict)
	ErrDuplicateHandle  = fmt.Errorf("%w: external resource handle already in use", ErrConflict)

	ErrSelfJoin    = fmt.Errorf("%w: host cannot join their own session as participant", ErrForbidden)
	ErrNotHost     = fmt.Errorf("%w: only the host can end the session", ErrForbidden)
	ErrNotAMember  = fmt.Errorf("%w: you cannot access this session", ErrForbidden)
	ErrMissingAuth = fmt.Errorf("%w: authorization token is missing", ErrUnauthenticated)
	ErrInvalidAuth = fmt.Errorf("%w: invalid or expired token", ErrUnauthenticated)
)

// MapToHTTPStatus turns an error into the status code and message returned to callers.
// Provider and unknown errors never leak their details.
func MapToHTTPStatus(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case stderrors.Is(err, ErrValidation):
		return http.StatusBadRequest, err.Error()
	case stderrors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, err.Error()
	case stderrors.Is(err, ErrForbidden):
		return http.StatusForbidden, err.Error()
	case stderrors.Is(err, ErrNotFound):
		return http.StatusNotFound, err.Error()
	case stderrors.Is(err, ErrConflict):
		return http.StatusConflict, err.Error()
	case stderrors.Is(err, ErrProvider):
		return http.StatusBadGateway, "collaboration provider unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
