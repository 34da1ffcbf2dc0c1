package injector

import (
	"fmt"
	"reflect"
)

// InvalidTargetError é retornado quando Inject recebe algo diferente de um
// ponteiro não nulo para struct.
type InvalidTargetError struct {
	Type reflect.Type
}

func (e *InvalidTargetError) Error() string {
	if e.Type == nil {
		return "injector: target must be a non-nil pointer to struct, got nil"
	}
	return fmt.Sprintf("injector: target must be a non-nil pointer to struct, got %s", e.Type)
}

// FieldError é retornado quando um campo não pôde ser preenchido, seja pela
// conversão de uma variável de ambiente, seja por falha ao resolver um
// placeholder.
type FieldError struct {
	// FieldName é o nome do campo da struct (ex: "Port").
	FieldName string
	// EnvVar é a variável de ambiente de origem, quando houver.
	EnvVar string
	// Value é o valor bruto que causou o erro.
	Value string
	// Err é o erro original encapsulado.
	Err error
}

func (e *FieldError) Error() string {
	if e.EnvVar != "" {
		return fmt.Sprintf("injector: error setting field %s from env %s=%s: %v",
			e.FieldName, e.EnvVar, e.Value, e.Err)
	}
	return fmt.Sprintf("injector: error resolving field %s: %v", e.FieldName, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError é retornado para tipos de campo sem conversão (map,
// slice, float, etc.).
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("injector: unsupported type %s", e.Type)
}
