package metrics

// Provider define o contrato para envio de métricas.
// Isso permite trocar Datadog por Prometheus ou Noop sem alterar os handlers.
//
// Tags seguem o formato "chave:valor".
type Provider interface {
	Count(name string, value float64, tags []string) error
	Gauge(name string, value float64, tags []string) error
	Histogram(name string, value float64, tags []string) error
}

// Nomes das métricas emitidas pela camada de transporte.
const (
	RequestCount   = "pessoa.requests"
	RequestLatency = "pessoa.request.latency_ms"
)

// NoopProvider é usado quando métricas estão desabilitadas.
type NoopProvider struct{}

func (NoopProvider) Count(name string, value float64, tags []string) error     { return nil }
func (NoopProvider) Gauge(name string, value float64, tags []string) error     { return nil }
func (NoopProvider) Histogram(name string, value float64, tags []string) error { return nil }

// Multi replica cada métrica para todos os providers, retornando o primeiro
// erro encontrado.
type Multi []Provider

func (m Multi) Count(name string, value float64, tags []string) error {
	return m.each(func(p Provider) error { return p.Count(name, value, tags) })
}

func (m Multi) Gauge(name string, value float64, tags []string) error {
	return m.each(func(p Provider) error { return p.Gauge(name, value, tags) })
}

func (m Multi) Histogram(name string, value float64, tags []string) error {
	return m.each(func(p Provider) error { return p.Histogram(name, value, tags) })
}

func (m Multi) each(fn func(Provider) error) error {
	var first error
	for _, p := range m {
		if err := fn(p); err != nil && first == nil {
			first = err
		}
	}
	return first
}
