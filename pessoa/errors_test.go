package pessoa

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("handler: %w", persistence(opCreate, "erro ao salvar", cause))

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindPersistence, KindOf(err))
}

func TestError_Message(t *testing.T) {
	assert.Equal(t,
		"pessoa delete: pessoa com ID 3 não encontrada",
		notFound(opDelete, 3).Error())
	assert.Equal(t,
		"pessoa list: erro ao listar pessoas: boom",
		persistence(opList, "erro ao listar pessoas", errors.New("boom")).Error())
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("other")))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Equal(t, "invalid_input", KindInvalidInput.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "persistence_failure", KindPersistence.String())
}

func TestValidCPF(t *testing.T) {
	assert.True(t, validCPF("01234567890"))
	assert.False(t, validCPF("0123456789٠")) // dígito arábico não é ASCII
	assert.False(t, validCPF("0123456789"))
}
