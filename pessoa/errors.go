package pessoa

import (
	"errors"
	"fmt"
)

// Kind classifica as falhas do serviço.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindNotFound
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindPersistence:
		return "persistence_failure"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidInput = errors.New("pessoa: invalid input")
	ErrNotFound     = errors.New("pessoa: not found")
	ErrPersistence  = errors.New("pessoa: persistence failure")
)

// Error é o erro retornado por todas as operações do serviço.
type Error struct {
	// Kind é o tipo da falha.
	Kind Kind
	// Op é a operação que falhou (ex: "create").
	Op string
	// Field é o campo inválido, apenas para KindInvalidInput.
	Field string
	// Msg descreve a falha para o chamador.
	Msg string
	// Err é o erro original do backend, quando houver.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pessoa %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("pessoa %s: %s", e.Op, e.Msg)
}

// Unwrap expõe o erro do backend para errors.Is e errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is permite comparar o erro com os sentinelas de cada Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrPersistence:
		return e.Kind == KindPersistence
	}
	return false
}

// KindOf retorna o Kind de err, ou KindUnknown se err não vier do serviço.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func invalidInput(op, field, msg string) *Error {
	return &Error{Kind: KindInvalidInput, Op: op, Field: field, Msg: msg}
}

func notFound(op string, id int64) *Error {
	return &Error{Kind: KindNotFound, Op: op, Msg: fmt.Sprintf("pessoa com ID %d não encontrada", id)}
}

func persistence(op, msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Op: op, Msg: msg, Err: err}
}
