package statussrv

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"netwatch/status"
)

// newTestRouter builds the same routing table New does, without binding a
// real socket, so handlers can be exercised via httptest.
func newTestRouter(st *status.Status) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	router.HandleFunc("/stats", statsHandler(st)).Methods(http.MethodGet)
	router.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	return router
}

func TestHealthEndpoint(t *testing.T) {
	assert := require.New(t)

	router := newTestRouter(status.New("1.0.0"))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal("ok", body["status"])
}

func TestStatsEndpoint(t *testing.T) {
	assert := require.New(t)

	st := status.New("1.2.3")
	st.IncErrors()
	router := newTestRouter(st)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(http.StatusOK, rec.Code)

	var snap status.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal("1.2.3", snap.Version)
	assert.Equal(float64(1), snap.Errors)
}

func TestUnknownRouteYields404(t *testing.T) {
	assert := require.New(t)

	router := newTestRouter(status.New("1.0.0"))
	req := httptest.NewRequest(http.MethodGet, "/whatever", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(http.StatusNotFound, rec.Code)
}
