package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapToHTTPStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", ErrInvalidProblem, http.StatusBadRequest, ErrInvalidProblem.Error()},
		{"unauthenticated", ErrMissingAuth, http.StatusUnauthorized, ErrMissingAuth.Error()},
		{"forbidden", ErrSelfJoin, http.StatusForbidden, ErrSelfJoin.Error()},
		{"not found", ErrSessionNotFound, http.StatusNotFound, ErrSessionNotFound.Error()},
		{"conflict", ErrSessionFull, http.StatusConflict, ErrSessionFull.Error()},
		{"wrapped conflict", fmt.Errorf("join: %w", ErrAlreadyCompleted), http.StatusConflict, "join: " + ErrAlreadyCompleted.Error()},
		{"provider", fmt.Errorf("%w: upstream said no", ErrProvider), http.StatusBadGateway, "collaboration provider unavailable"},
		{"anomaly", ErrIntegrityAnomaly, http.StatusInternalServerError, "internal server error"},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			status, msg := MapToHTTPStatus(tt.err)
			req.Equal(tt.wantStatus, status)
			req.Equal(tt.wantMsg, msg)
		})
	}
}
