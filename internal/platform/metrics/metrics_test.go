package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MichalMitros/cms-sync/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitMetrics(t *testing.T) {
	m := metrics.New()

	m.CMSRequest("strapi", "success")
	m.CMSRequest("strapi", "success")
	m.CMSRequest("strapi", "error")
	m.CMSRetry("strapi")
	m.SyncRun(true)
	m.SyncRun(false)
	m.SyncedProducts(3, 2, 1)
	m.FallbackResponse("local")
	m.BreakerOpen(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code, "should serve metrics")

	body := rec.Body.String()
	for _, want := range []string{
		`cmssync_cms_requests_total{outcome="success",provider="strapi"} 2`,
		`cmssync_cms_requests_total{outcome="error",provider="strapi"} 1`,
		`cmssync_cms_retries_total{provider="strapi"} 1`,
		`cmssync_sync_runs_total{outcome="success"} 1`,
		`cmssync_sync_runs_total{outcome="failure"} 1`,
		`cmssync_sync_products_total{change="added"} 3`,
		`cmssync_sync_products_total{change="removed"} 1`,
		`cmssync_fallback_responses_total{source="local"} 1`,
		`cmssync_fallback_circuit_breaker_open 1`,
	} {
		assert.Truef(t, strings.Contains(body, want), "should expose %s", want)
	}
}

func TestUnitMetricsGather(t *testing.T) {
	m := metrics.New()
	m.BreakerOpen(true)
	m.BreakerOpen(false)
	m.SyncRun(true)

	count, err := testutil.GatherAndCount(m.Registry(), "cmssync_fallback_circuit_breaker_open", "cmssync_sync_runs_total")
	require.NoError(t, err, "should gather metrics")
	assert.Equal(t, 2, count, "should gather gauge and single counter series")

	err = testutil.GatherAndCompare(m.Registry(), strings.NewReader(`
# HELP cmssync_fallback_circuit_breaker_open Whether CMS circuit breaker is open.
# TYPE cmssync_fallback_circuit_breaker_open gauge
cmssync_fallback_circuit_breaker_open 0
`), "cmssync_fallback_circuit_breaker_open")
	assert.NoError(t, err, "should close breaker gauge")
}

func TestUnitMetricsNil(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.CMSRequest("custom", "success")
		m.CMSRetry("custom")
		m.SyncRun(true)
		m.SyncedProducts(1, 1, 1)
		m.FallbackResponse("cms")
		m.BreakerOpen(true)
	}, "nil metrics should record nothing")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "nil metrics should serve empty registry")
}
