package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/raywall/crud-pessoa/pkg/config"
	"github.com/raywall/crud-pessoa/store"
	"github.com/raywall/crud-pessoa/store/backend"
	"github.com/raywall/crud-pessoa/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_ServerBootstrap(t *testing.T) {
	path := writeConfig(t, `
service:
  name: "boot-test"
  runtime: "local"
  port: 9999
  timeout: "1s"
database:
  driver: memory
logging: {enabled: false}
metrics:
  prometheus: {enabled: true, route: "/metrics"}
`)

	called := false
	original := serverStarter
	serverStarter = func(ctx context.Context, port int, h http.Handler) error {
		called = true
		assert.Equal(t, 9999, port)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		return nil
	}
	defer func() { serverStarter = original }()

	require.NoError(t, run(context.Background(), path))
	assert.True(t, called, "O servidor HTTP não foi iniciado")
}

func TestRun_Lambda(t *testing.T) {
	path := writeConfig(t, `
service:
  name: "boot-lambda"
  runtime: "lambda"
database:
  driver: postgres
  dsn: "postgres://u:p@localhost:5432/db"
logging: {enabled: false}
`)

	origOpen, origLambda := openSession, lambdaStarter
	defer func() { openSession, lambdaStarter = origOpen, origLambda }()

	openSession = func(ctx context.Context, cfg config.DatabaseConf) (store.Session, backend.CloseFunc, error) {
		assert.Equal(t, "postgres", cfg.Driver)
		return memory.New(), func() error { return nil }, nil
	}
	var started interface{}
	lambdaStarter = func(handler interface{}) { started = handler }

	require.NoError(t, run(context.Background(), path))
	assert.NotNil(t, started)
}

func TestRun_InvalidConfig(t *testing.T) {
	path := writeConfig(t, `
service:
  runtime: "mainframe"
`)
	assert.Error(t, run(context.Background(), path))
}

func TestRun_MissingFile(t *testing.T) {
	assert.Error(t, run(context.Background(), filepath.Join(t.TempDir(), "nope.yaml")))
}
