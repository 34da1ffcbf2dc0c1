package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockSSM struct {
	GetParameterFunc func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

func (m *MockSSM) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	return m.GetParameterFunc(ctx, params, optFns...)
}

type MockSecrets struct {
	GetSecretValueFunc func(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func (m *MockSecrets) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	return m.GetSecretValueFunc(ctx, params, optFns...)
}

// --- Testes ---

func TestAWSResolver_Parameter(t *testing.T) {
	t.Run("Sucesso", func(t *testing.T) {
		mockClient := &MockSSM{
			GetParameterFunc: func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
				assert.Equal(t, "/crud-pessoa/db/dsn", *params.Name)
				assert.True(t, *params.WithDecryption)
				return &ssm.GetParameterOutput{
					Parameter: &types.Parameter{Value: aws.String("postgres://db")},
				}, nil
			},
		}
		r := NewResolverWithClients(mockClient, nil)

		val, err := r.Parameter(context.Background(), "/crud-pessoa/db/dsn")
		require.NoError(t, err)
		assert.Equal(t, "postgres://db", val)
	})

	t.Run("Erro na AWS", func(t *testing.T) {
		mockClient := &MockSSM{
			GetParameterFunc: func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
				return nil, errors.New("AWS down")
			},
		}
		r := NewResolverWithClients(mockClient, nil)

		_, err := r.Parameter(context.Background(), "/x")
		assert.ErrorContains(t, err, "AWS down")
	})

	t.Run("Parametro sem valor", func(t *testing.T) {
		mockClient := &MockSSM{
			GetParameterFunc: func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
				return &ssm.GetParameterOutput{}, nil
			},
		}
		r := NewResolverWithClients(mockClient, nil)

		_, err := r.Parameter(context.Background(), "/x")
		assert.ErrorContains(t, err, "sem valor")
	})
}

func TestAWSResolver_Secret(t *testing.T) {
	t.Run("Sucesso", func(t *testing.T) {
		secretJSON := `{"password": "s3cr3t"}`
		mockClient := &MockSecrets{
			GetSecretValueFunc: func(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
				assert.Equal(t, "prod/db", *params.SecretId)
				return &secretsmanager.GetSecretValueOutput{SecretString: &secretJSON}, nil
			},
		}
		r := NewResolverWithClients(nil, mockClient)

		val, err := r.Secret(context.Background(), "prod/db")
		require.NoError(t, err)
		assert.Equal(t, secretJSON, val)
	})

	t.Run("Segredo binario", func(t *testing.T) {
		mockClient := &MockSecrets{
			GetSecretValueFunc: func(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
				return &secretsmanager.GetSecretValueOutput{SecretBinary: []byte{0x1}}, nil
			},
		}
		r := NewResolverWithClients(nil, mockClient)

		_, err := r.Secret(context.Background(), "prod/db")
		assert.Error(t, err)
	})
}
