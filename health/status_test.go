package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name string
		subs []Status
		want string
	}{
		{
			name: "all healthy",
			subs: []Status{NewHealthy("a", ""), NewHealthy("b", "")},
			want: "healthy",
		},
		{
			name: "one degraded",
			subs: []Status{NewHealthy("a", ""), NewDegraded("b", "")},
			want: "degraded",
		},
		{
			name: "unhealthy wins over degraded",
			subs: []Status{NewDegraded("a", ""), NewUnhealthy("b", "")},
			want: "unhealthy",
		},
		{
			name: "no sub-components",
			subs: nil,
			want: "healthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate("bridge", tt.subs)
			assert.Equal(t, tt.want, got.Status)
			assert.Len(t, got.SubStatuses, len(tt.subs))
		})
	}
}

func TestHandler(t *testing.T) {
	t.Run("healthy returns 200", func(t *testing.T) {
		h := Handler(func() Status { return NewHealthy("gw", "serving 3 variables") })
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var got Status
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.True(t, got.Healthy)
		assert.Equal(t, "serving 3 variables", got.Message)
	})

	t.Run("degraded still returns 200", func(t *testing.T) {
		h := Handler(func() Status { return NewDegraded("gw", "session connection unavailable") })
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unhealthy returns 503", func(t *testing.T) {
		h := Handler(func() Status { return NewUnhealthy("gw", "not serving") })
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHandlerReportsAggregate(t *testing.T) {
	h := Handler(func() Status {
		return Aggregate("uabridge", []Status{
			NewHealthy("http-gateway", "serving 3 variables"),
			NewDegraded("session", "secure channel not established"),
		})
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code, "degraded session keeps the bridge serving")

	var got Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "degraded", got.Status)
	require.Len(t, got.SubStatuses, 2)
	assert.Equal(t, "http-gateway", got.SubStatuses[0].Component)
	assert.Equal(t, "session", got.SubStatuses[1].Component)
	assert.Equal(t, "degraded", got.SubStatuses[1].Status)
}

func TestAggregateCopiesSubStatuses(t *testing.T) {
	subs := []Status{NewHealthy("gw", ""), NewDegraded("session", "")}
	got := Aggregate("bridge", subs)

	subs[1] = NewUnhealthy("session", "")

	require.Len(t, got.SubStatuses, 2)
	assert.Equal(t, "degraded", got.SubStatuses[1].Status, "aggregate holds its own copy")
}
