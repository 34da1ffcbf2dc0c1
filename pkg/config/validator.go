package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza validações estruturais (tags) e semânticas (lógica)
func (cv *ConfigValidator) Validate(cfg *AppConfig) error {
	if err := cv.validate.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMsgs []string
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}

	if err := cv.validateSemantics(cfg); err != nil {
		return fmt.Errorf("erro de validação semântica: %w", err)
	}

	return nil
}

func (cv *ConfigValidator) validateSemantics(cfg *AppConfig) error {
	if cfg.Service.Timeout != "" {
		d, err := time.ParseDuration(cfg.Service.Timeout)
		if err != nil {
			return fmt.Errorf("timeout inválido: '%s'", cfg.Service.Timeout)
		}
		if d <= 0 {
			return fmt.Errorf("timeout deve ser positivo: '%s'", cfg.Service.Timeout)
		}
	}

	if cfg.Database.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(cfg.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("conn_max_lifetime inválido: '%s'", cfg.Database.ConnMaxLifetime)
		}
	}

	if cfg.Database.MaxOpenConns > 0 && cfg.Database.MaxIdleConns > cfg.Database.MaxOpenConns {
		return fmt.Errorf("max_idle_conns (%d) maior que max_open_conns (%d)",
			cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns)
	}

	// O backend em memória não sobrevive entre invocações Lambda
	if cfg.Service.Runtime == "lambda" && cfg.Database.Driver == "memory" {
		return fmt.Errorf("runtime 'lambda' exige database.driver 'postgres' ou 'dynamodb'")
	}

	return nil
}
