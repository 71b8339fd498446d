package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/kingdom-api/internal/entities"
	"github.com/KirkDiggler/kingdom-api/internal/errors"
	v1alpha1 "github.com/KirkDiggler/kingdom-api/internal/handlers/kingdom/v1alpha1"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *apiClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &apiClient{baseURL: srv.URL, http: srv.Client()}
}

func TestDoDecodesSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1alpha1/kingdoms/kdm_1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"kingdom":{"id":"kdm_1","username":"william"}}`))
	})

	var resp v1alpha1.KingdomResponse
	require.NoError(t, c.do(context.Background(), http.MethodGet, kingdomPath("kdm_1"), nil, &resp))
	assert.Equal(t, "william", resp.Kingdom.Username)
}

func TestDoMapsErrorResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"RESOURCE_EXHAUSTED","message":"insufficient resources",` +
			`"reason":"insufficient_resources","meta":{"reason":"insufficient_resources"}}}`))
	})

	err := c.do(context.Background(), http.MethodPost, kingdomPath("kdm_1", "buildings", "bld_1", "upgrade"), nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsResourceExhausted(err))
	assert.Equal(t, "insufficient_resources", errors.GetReason(err))
}

func TestDoUnparseableError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	err := c.do(context.Background(), http.MethodGet, "/healthz", nil, nil)
	assert.True(t, errors.IsInternal(err))
}

func TestKingdomPath(t *testing.T) {
	assert.Equal(t, "/v1alpha1/kingdoms/kdm_1", kingdomPath("kdm_1"))
	assert.Equal(t, "/v1alpha1/kingdoms/kdm_1/army/recruit", kingdomPath("kdm_1", "army", "recruit"))
}

func TestFormatResources(t *testing.T) {
	assert.Equal(t, "-", formatResources(nil))
	assert.Equal(t, "gold 1,350, stone 420",
		formatResources(entities.Resources{entities.ResourceStone: 420, entities.ResourceGold: 1350}))
	assert.Equal(t, "2m36s", formatTicks(156))
}
