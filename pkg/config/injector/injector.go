package injector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Regex para capturar padrões ${tipo.chave}
// Ex: ${env.DB_PASS}, ${ssm./crud-pessoa/dsn}, ${secret.prod/db#password}
var pattern = regexp.MustCompile(`\$\{(env|ssm|secret)\.([^}]+)\}`)

// Resolver busca valores em fontes externas (SSM e Secrets Manager).
type Resolver interface {
	Parameter(ctx context.Context, name string) (string, error)
	Secret(ctx context.Context, id string) (string, error)
}

type Injector struct {
	resolver Resolver
}

// New cria um Injector. Com resolver nil, placeholders ssm e secret falham.
func New(resolver Resolver) *Injector {
	return &Injector{resolver: resolver}
}

// Inject aplica tags env e resolve placeholders em todos os campos string.
func (i *Injector) Inject(ctx context.Context, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return &InvalidTargetError{Type: reflect.TypeOf(target)}
	}
	return i.injectRecursive(ctx, v.Elem())
}

func (i *Injector) injectRecursive(ctx context.Context, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for k := 0; k < t.NumField(); k++ {
			field := t.Field(k)
			value := v.Field(k)
			if !value.CanSet() {
				continue
			}

			// 1. Tag env tem prioridade sobre o valor do YAML
			if err := processEnvTag(field, value); err != nil {
				return err
			}

			// 2. Interpolação "${...}"
			if value.Kind() == reflect.String {
				newValue, err := i.interpolateString(ctx, value.String())
				if err != nil {
					return &FieldError{FieldName: field.Name, Err: err}
				}
				value.SetString(newValue)
				continue
			}

			// 3. Recursão
			if err := i.injectRecursive(ctx, value); err != nil {
				return err
			}
		}

	case reflect.Ptr:
		if !v.IsNil() {
			return i.injectRecursive(ctx, v.Elem())
		}

	case reflect.Slice:
		for j := 0; j < v.Len(); j++ {
			if err := i.injectRecursive(ctx, v.Index(j)); err != nil {
				return err
			}
		}
	}
	return nil
}

func processEnvTag(field reflect.StructField, value reflect.Value) error {
	tag := field.Tag.Get("env")
	if tag == "" {
		return nil
	}
	raw, exists := os.LookupEnv(tag)
	if !exists || raw == "" {
		return nil
	}
	if err := setField(value, raw); err != nil {
		return &FieldError{FieldName: field.Name, EnvVar: tag, Value: raw, Err: err}
	}
	return nil
}

// interpolateString realiza a substituição baseada em Regex
func (i *Injector) interpolateString(ctx context.Context, input string) (string, error) {
	if !strings.Contains(input, "${") {
		return input, nil
	}

	var err error
	result := pattern.ReplaceAllStringFunc(input, func(match string) string {
		if err != nil {
			return match
		}
		sub := pattern.FindStringSubmatch(match)
		val, resolveErr := i.fetchValue(ctx, sub[1], sub[2])
		if resolveErr != nil {
			err = resolveErr
			return match
		}
		return val
	})

	return result, err
}

// fetchValue centraliza a busca de dados
func (i *Injector) fetchValue(ctx context.Context, sourceType, key string) (string, error) {
	switch sourceType {
	case "env":
		return os.Getenv(key), nil

	case "ssm":
		if i.resolver == nil {
			return "", fmt.Errorf("placeholder ssm sem resolver configurado: %s", key)
		}
		return i.resolver.Parameter(ctx, key)

	case "secret":
		if i.resolver == nil {
			return "", fmt.Errorf("placeholder secret sem resolver configurado: %s", key)
		}
		// ${secret.id#campo} extrai um campo de um segredo JSON
		id, jsonKey, hasKey := strings.Cut(key, "#")
		val, err := i.resolver.Secret(ctx, id)
		if err != nil || !hasKey {
			return val, err
		}
		return extractJSONField(val, jsonKey)
	}

	return "", fmt.Errorf("fonte desconhecida: %s", sourceType)
}

func extractJSONField(raw, key string) (string, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return "", fmt.Errorf("segredo não é um JSON válido: %w", err)
	}
	v, ok := data[key]
	if !ok {
		return "", fmt.Errorf("campo '%s' ausente no segredo", key)
	}
	return fmt.Sprintf("%v", v), nil
}

// setField converte o valor de acordo com o tipo do campo.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(intValue)

	case reflect.Bool:
		boolValue, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return err
		}
		field.SetBool(boolValue)

	default:
		return &UnsupportedTypeError{Type: field.Type()}
	}
	return nil
}
