package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New("test")

	m.ObserveRequest("GET", "/api/products", "200", 15*time.Millisecond)
	m.ObserveRequest("GET", "/api/products", "200", 5*time.Millisecond)
	m.RecordLogin(true)
	m.RecordLogin(false)
	m.RecordLogin(false)
	m.RecordDenial("CrossTenantOperationForbidden")
	m.RecordRestock(25)
	m.RecordRestock(5)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/products", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.loginAttempts.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authzDenials.WithLabelValues("CrossTenantOperationForbidden")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.restocksTotal))
	assert.Equal(t, 30.0, testutil.ToFloat64(m.restockUnits))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := New("dup")
	b := New("dup")
	a.RecordRestock(1)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.restocksTotal))
}

func TestMetrics_Handler(t *testing.T) {
	m := New("svc")
	m.RecordRestock(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "svc_restock_units_total 3")
}
