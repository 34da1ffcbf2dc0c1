package pessoa

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const cpfLength = 11

// novaPessoa é a entrada de Create. A ordem dos campos define a precedência
// das mensagens: apenas a primeira falha é reportada.
type novaPessoa struct {
	Nome           string `json:"nome" validate:"notblank"`
	Sobrenome      string `json:"sobrenome" validate:"notblank"`
	CPF            string `json:"cpf" validate:"cpf"`
	DataNascimento string `json:"data_nascimento" validate:"notblank"`
}

var fieldMessages = map[string]string{
	"nome":            "nome é obrigatório e deve ser um texto não vazio",
	"sobrenome":       "sobrenome é obrigatório e deve ser um texto não vazio",
	"cpf":             "o CPF deve conter exatamente 11 dígitos numéricos",
	"data_nascimento": "data de nascimento é obrigatória e deve ser um texto não vazio",
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Os nomes são fixos e as funções válidas, então o registro não falha
	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("cpf", isCPF)
	return v
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// isCPF verifica apenas formato (11 dígitos ASCII), sem dígito verificador.
// O valor é avaliado sem trim.
func isCPF(fl validator.FieldLevel) bool {
	return validCPF(fl.Field().String())
}

func validCPF(s string) bool {
	if len(s) != cpfLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// validate retorna um *Error do tipo KindInvalidInput para a primeira
// regra violada, ou nil.
func validate(ctx context.Context, v *validator.Validate, op string, in novaPessoa) error {
	err := v.StructCtx(ctx, in)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		field := verrs[0].Field()
		msg, known := fieldMessages[field]
		if !known {
			msg = "campo inválido: " + field
		}
		return invalidInput(op, field, msg)
	}
	return invalidInput(op, "", err.Error())
}

func (in novaPessoa) trimmed() novaPessoa {
	return novaPessoa{
		Nome:           strings.TrimSpace(in.Nome),
		Sobrenome:      strings.TrimSpace(in.Sobrenome),
		CPF:            strings.TrimSpace(in.CPF),
		DataNascimento: strings.TrimSpace(in.DataNascimento),
	}
}
