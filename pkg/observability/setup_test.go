package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/raywall/crud-pessoa/pkg/config"
	"github.com/raywall/crud-pessoa/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupMetrics(t *testing.T) {
	t.Run("Disabled returns Noop", func(t *testing.T) {
		provider, err := SetupMetrics(config.MetricsConf{})
		require.NoError(t, err)
		assert.IsType(t, metrics.NoopProvider{}, provider)

		_, ok := MetricsHandler(provider)
		assert.False(t, ok)
	})

	t.Run("Enabled returns Datadog", func(t *testing.T) {
		cfg := config.MetricsConf{
			Datadog: config.DatadogConf{
				Enabled:   true,
				Addr:      "localhost:8125",
				Namespace: "crud_pessoa.",
			},
		}

		// statsd sobre UDP não exige agente ativo para criar o cliente
		provider, err := SetupMetrics(cfg)
		require.NoError(t, err)
		assert.IsType(t, &DatadogProvider{}, provider)
		assert.NoError(t, provider.Count(metrics.RequestCount, 1, []string{"op:list"}))
		assert.NoError(t, Close(provider))
	})

	t.Run("Prometheus exposes handler", func(t *testing.T) {
		cfg := config.MetricsConf{
			Prometheus: config.PrometheusConf{Enabled: true, Route: "/metrics"},
		}

		provider, err := SetupMetrics(cfg)
		require.NoError(t, err)
		assert.IsType(t, &PrometheusProvider{}, provider)

		h, ok := MetricsHandler(provider)
		require.True(t, ok)
		require.NotNil(t, h)
	})

	t.Run("Both returns Multi", func(t *testing.T) {
		cfg := config.MetricsConf{
			Datadog:    config.DatadogConf{Enabled: true, Addr: "localhost:8125"},
			Prometheus: config.PrometheusConf{Enabled: true, Route: "/metrics"},
		}

		provider, err := SetupMetrics(cfg)
		require.NoError(t, err)
		multi, ok := provider.(metrics.Multi)
		require.True(t, ok)
		assert.Len(t, multi, 2)

		_, ok = MetricsHandler(provider)
		assert.True(t, ok)
		assert.NoError(t, Close(provider))
	})
}

func TestPrometheusProvider(t *testing.T) {
	p := NewPrometheusProvider()

	require.NoError(t, p.Count(metrics.RequestCount, 1, []string{"op:create", "status:201"}))
	require.NoError(t, p.Count(metrics.RequestCount, 1, []string{"op:create", "status:201"}))
	require.NoError(t, p.Count(metrics.RequestCount, 1, []string{"op:delete", "status:404"}))
	require.NoError(t, p.Histogram(metrics.RequestLatency, 12, []string{"op:create", "status:201"}))
	require.NoError(t, p.Gauge("pessoa.inflight", 3, nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(p.counters[metrics.RequestCount].WithLabelValues("create", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.counters[metrics.RequestCount].WithLabelValues("delete", "404")))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.gauges["pessoa.inflight"].WithLabelValues()))

	t.Run("Labels inconsistentes retornam erro", func(t *testing.T) {
		err := p.Count(metrics.RequestCount, 1, []string{"op:list"})
		assert.Error(t, err)
	})

	t.Run("Scrape", func(t *testing.T) {
		rec := httptest.NewRecorder()
		p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.True(t, strings.Contains(body, `pessoa_requests_total{op="create",status="201"} 2`), body)
		assert.Contains(t, body, "pessoa_request_latency_ms_bucket")
	})
}
