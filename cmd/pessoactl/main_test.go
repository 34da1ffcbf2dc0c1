package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/raywall/crud-pessoa/models"
	"github.com/raywall/crud-pessoa/pessoa"
	"github.com/raywall/crud-pessoa/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	a.out = &buf
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestCLI_Fluxo(t *testing.T) {
	a := &app{session: memory.New()}

	out, err := execute(t, a, "criar", "--nome", "Ana", "--sobrenome", "Silva", "--cpf", "12345678901", "--nascimento", "1990-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "12345678901")

	out, err = execute(t, a, "listar", "--out", "json")
	require.NoError(t, err)
	var list []models.Pessoa
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)

	out, err = execute(t, a, "remover", "1")
	require.NoError(t, err)
	assert.Equal(t, "pessoa 1 removida\n", out)

	out, err = execute(t, a, "listar", "--out", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestCLI_Erros(t *testing.T) {
	a := &app{session: memory.New()}

	_, err := execute(t, a, "criar", "--nome", "Ana", "--sobrenome", "Silva", "--cpf", "123", "--nascimento", "1990-01-01")
	require.Error(t, err)
	assert.Equal(t, pessoa.KindInvalidInput, pessoa.KindOf(err))

	_, err = execute(t, a, "remover", "77")
	require.Error(t, err)
	assert.Equal(t, pessoa.KindNotFound, pessoa.KindOf(err))

	_, err = execute(t, a, "remover", "abc")
	assert.EqualError(t, err, `id deve ser um número inteiro: "abc"`)

	_, err = execute(t, a, "remover")
	assert.Error(t, err)

	_, err = execute(t, a, "listar", "--out", "xml")
	assert.Error(t, err)
}

func TestCLI_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: memory\nlogging: {enabled: false}\n"), 0o600))

	a := &app{}
	out, err := execute(t, a, "--config", path, "listar")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.IsType(t, &memory.Session{}, a.session)
}
