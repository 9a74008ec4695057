package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanpasca/manov-sub001/internal/api"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLiveness(t *testing.T) {
	liveness, _ := api.NewHealthHandlers(api.HealthDependencies{}, discard())

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "UP", body["status"])
	assert.Equal(t, "Manov API is healthy", body["message"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestReadiness(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		deps       api.HealthDependencies
		wantStatus int
		wantBody   string
	}{
		{"all healthy", api.HealthDependencies{CheckDatabase: healthy, CheckCache: healthy}, http.StatusOK, "READY"},
		{"redis down", api.HealthDependencies{CheckDatabase: healthy, CheckCache: down}, http.StatusServiceUnavailable, "DEGRADED"},
		{"postgres down", api.HealthDependencies{CheckDatabase: down, CheckCache: healthy}, http.StatusServiceUnavailable, "DEGRADED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, readiness := api.NewHealthHandlers(tt.deps, discard())

			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.wantStatus, recorder.Code)

			var body struct {
				Status string `json:"status"`
				Checks []struct {
					Name  string `json:"name"`
					OK    bool   `json:"ok"`
					Error string `json:"error"`
				} `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Status)
			require.Len(t, body.Checks, 2)
			assert.Equal(t, "postgres", body.Checks[0].Name)
			assert.Equal(t, "redis", body.Checks[1].Name)
		})
	}
}
