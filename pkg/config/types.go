package config

import "time"

// AppConfig representa a estrutura raiz do arquivo YAML de configuração.
type AppConfig struct {
	Service  ServiceDetails `yaml:"service"`
	Database DatabaseConf   `yaml:"database"`
	Logging  LoggingConf    `yaml:"logging"`
	Metrics  MetricsConf    `yaml:"metrics"`
}

// ServiceDetails contém os metadados e configurações de runtime do serviço.
type ServiceDetails struct {
	Name    string `yaml:"name" env:"SERVICE_NAME" validate:"required,hostname_rfc1123"`
	Runtime string `yaml:"runtime" env:"SERVICE_RUNTIME" validate:"required,oneof=local lambda ecs eks ec2"`
	Port    int    `yaml:"port" env:"SERVICE_PORT" validate:"omitempty,gt=0,lt=65536"`
	Timeout string `yaml:"timeout" env:"SERVICE_TIMEOUT"` // Ex: "500ms", "2s"
}

// DatabaseConf descreve o backend de persistência.
type DatabaseConf struct {
	Driver          string `yaml:"driver" env:"DB_DRIVER" validate:"required,oneof=postgres dynamodb memory"`
	DSN             string `yaml:"dsn" env:"DB_DSN" validate:"required_if=Driver postgres"`
	Table           string `yaml:"table" env:"DB_TABLE" validate:"required_if=Driver dynamodb"`
	Region          string `yaml:"region" env:"AWS_REGION"`
	MaxOpenConns    int    `yaml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int    `yaml:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled" env:"LOG_ENABLED"`
	Level   string `yaml:"level" env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	Format  string `yaml:"format" env:"LOG_FORMAT" validate:"omitempty,oneof=json console"`
}

type MetricsConf struct {
	Datadog    DatadogConf    `yaml:"datadog"`
	Prometheus PrometheusConf `yaml:"prometheus"`
}

type DatadogConf struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr" env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string `yaml:"namespace"`
}

type PrometheusConf struct {
	Enabled bool   `yaml:"enabled"`
	Route   string `yaml:"route" validate:"omitempty,startswith=/"`
}

func (s ServiceDetails) GetTimeout() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetConnMaxLifetime retorna zero quando o valor é vazio ou inválido.
func (d DatabaseConf) GetConnMaxLifetime() time.Duration {
	lifetime, err := time.ParseDuration(d.ConnMaxLifetime)
	if err != nil {
		return 0
	}
	return lifetime
}

// applyDefaults preenche valores ausentes após o parse e a injeção.
func (c *AppConfig) applyDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = "crud-pessoa"
	}
	if c.Service.Runtime == "" {
		c.Service.Runtime = "local"
	}
	if c.Service.Port == 0 && c.Service.Runtime != "lambda" {
		c.Service.Port = 8080
	}
	if c.Service.Timeout == "" {
		c.Service.Timeout = "30s"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "memory"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Metrics.Prometheus.Enabled && c.Metrics.Prometheus.Route == "" {
		c.Metrics.Prometheus.Route = "/metrics"
	}
}
