package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/raywall/crud-pessoa/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("Default Level Info", func(t *testing.T) {
		_ = Configure(config.LoggingConf{Enabled: true}, "crud-pessoa")
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("Custom Level Debug", func(t *testing.T) {
		_ = Configure(config.LoggingConf{Enabled: true, Level: "DEBUG"}, "crud-pessoa")
		assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	})

	t.Run("Invalid Level Falls Back To Info", func(t *testing.T) {
		_ = Configure(config.LoggingConf{Enabled: true, Level: "verbose"}, "crud-pessoa")
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})
}

func TestConfigure_Output(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("JSON com nome do servico", func(t *testing.T) {
		var buf bytes.Buffer
		logger := configure(config.LoggingConf{Enabled: true, Level: "info"}, "crud-pessoa", &buf)

		logger.Info().Msg("teste")

		assert.Contains(t, buf.String(), `"service":"crud-pessoa"`)
		assert.Contains(t, buf.String(), `"message":"teste"`)
	})

	t.Run("Logger desabilitado nao escreve", func(t *testing.T) {
		var buf bytes.Buffer
		logger := configure(config.LoggingConf{Enabled: false}, "crud-pessoa", &buf)

		logger.Info().Msg("teste")
		assert.Empty(t, buf.String())
	})

	t.Run("Contexto sem logger usa o global", func(t *testing.T) {
		var buf bytes.Buffer
		_ = configure(config.LoggingConf{Enabled: true}, "crud-pessoa", &buf)

		log.Ctx(context.Background()).Warn().Msg("fallback")
		assert.Contains(t, buf.String(), "fallback")
	})
}
