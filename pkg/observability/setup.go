package observability

import (
	"fmt"
	"net/http"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/raywall/crud-pessoa/pkg/config"
	"github.com/raywall/crud-pessoa/pkg/metrics"
)

// DatadogProvider adapta a lib oficial do Datadog para nossa interface.
type DatadogProvider struct {
	client statsd.ClientInterface
}

func (d *DatadogProvider) Count(name string, value float64, tags []string) error {
	return d.client.Count(name, int64(value), tags, 1)
}

func (d *DatadogProvider) Gauge(name string, value float64, tags []string) error {
	return d.client.Gauge(name, value, tags, 1)
}

func (d *DatadogProvider) Histogram(name string, value float64, tags []string) error {
	return d.client.Histogram(name, value, tags, 1)
}

// Close descarrega o buffer do cliente statsd.
func (d *DatadogProvider) Close() error {
	return d.client.Close()
}

// SetupMetrics inicializa o provedor correto baseado no YAML.
// Com Datadog e Prometheus habilitados ao mesmo tempo, as métricas vão para ambos.
func SetupMetrics(cfg config.MetricsConf) (metrics.Provider, error) {
	var providers metrics.Multi

	if cfg.Datadog.Enabled {
		opts := []statsd.Option{
			statsd.WithNamespace(cfg.Datadog.Namespace),
		}

		client, err := statsd.New(cfg.Datadog.Addr, opts...)
		if err != nil {
			return nil, fmt.Errorf("falha ao conectar no datadog statsd: %w", err)
		}
		providers = append(providers, &DatadogProvider{client: client})
	}

	if cfg.Prometheus.Enabled {
		providers = append(providers, NewPrometheusProvider())
	}

	switch len(providers) {
	case 0:
		return metrics.NoopProvider{}, nil
	case 1:
		return providers[0], nil
	default:
		return providers, nil
	}
}

// MetricsHandler retorna o handler de scrape quando algum provider é Prometheus.
func MetricsHandler(p metrics.Provider) (http.Handler, bool) {
	switch v := p.(type) {
	case *PrometheusProvider:
		return v.Handler(), true
	case metrics.Multi:
		for _, inner := range v {
			if h, ok := MetricsHandler(inner); ok {
				return h, true
			}
		}
	}
	return nil, false
}

// Close libera recursos do provider, se houver.
func Close(p metrics.Provider) error {
	switch v := p.(type) {
	case *DatadogProvider:
		return v.Close()
	case metrics.Multi:
		for _, inner := range v {
			if err := Close(inner); err != nil {
				return err
			}
		}
	}
	return nil
}
