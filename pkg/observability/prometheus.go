package observability

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var nameReplacer = strings.NewReplacer(".", "_", "-", "_")

// latencyBuckets cobre de 1ms a ~8s.
var latencyBuckets = prometheus.ExponentialBuckets(1, 2, 14)

// PrometheusProvider registra vetores sob demanda em um registry próprio.
// As tags "chave:valor" viram labels; a primeira chamada de cada métrica fixa
// o conjunto de labels.
type PrometheusProvider struct {
	registry *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

func NewPrometheusProvider() *PrometheusProvider {
	return &PrometheusProvider{
		registry:   prometheus.NewRegistry(),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

// Handler expõe o registry no formato de scrape.
func (p *PrometheusProvider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry é usado em testes para inspecionar as séries.
func (p *PrometheusProvider) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusProvider) Count(name string, value float64, tags []string) error {
	labels := parseTags(tags)
	p.mu.Lock()
	vec, ok := p.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricName(name) + "_total",
			Help: name,
		}, labelNames(labels))
		if err := p.registry.Register(vec); err != nil {
			p.mu.Unlock()
			return fmt.Errorf("prometheus: registrando %s: %w", name, err)
		}
		p.counters[name] = vec
	}
	p.mu.Unlock()

	c, err := vec.GetMetricWith(labels)
	if err != nil {
		return fmt.Errorf("prometheus: %s: %w", name, err)
	}
	c.Add(value)
	return nil
}

func (p *PrometheusProvider) Gauge(name string, value float64, tags []string) error {
	labels := parseTags(tags)
	p.mu.Lock()
	vec, ok := p.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: metricName(name),
			Help: name,
		}, labelNames(labels))
		if err := p.registry.Register(vec); err != nil {
			p.mu.Unlock()
			return fmt.Errorf("prometheus: registrando %s: %w", name, err)
		}
		p.gauges[name] = vec
	}
	p.mu.Unlock()

	g, err := vec.GetMetricWith(labels)
	if err != nil {
		return fmt.Errorf("prometheus: %s: %w", name, err)
	}
	g.Set(value)
	return nil
}

func (p *PrometheusProvider) Histogram(name string, value float64, tags []string) error {
	labels := parseTags(tags)
	p.mu.Lock()
	vec, ok := p.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricName(name),
			Help:    name,
			Buckets: latencyBuckets,
		}, labelNames(labels))
		if err := p.registry.Register(vec); err != nil {
			p.mu.Unlock()
			return fmt.Errorf("prometheus: registrando %s: %w", name, err)
		}
		p.histograms[name] = vec
	}
	p.mu.Unlock()

	h, err := vec.GetMetricWith(labels)
	if err != nil {
		return fmt.Errorf("prometheus: %s: %w", name, err)
	}
	h.Observe(value)
	return nil
}

func metricName(name string) string {
	return nameReplacer.Replace(name)
}

func parseTags(tags []string) prometheus.Labels {
	labels := make(prometheus.Labels, len(tags))
	for _, t := range tags {
		k, v, found := strings.Cut(t, ":")
		if !found {
			v = ""
		}
		labels[metricName(k)] = v
	}
	return labels
}

func labelNames(labels prometheus.Labels) []string {
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
