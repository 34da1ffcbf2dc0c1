// Package secrets resolve valores sensíveis de configuração no AWS Systems
// Manager Parameter Store e no AWS Secrets Manager.
package secrets

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Interfaces para abstrair o SDK da AWS (Permite Mocking)
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSResolver busca parâmetros e segredos, criando os clientes reais apenas
// na primeira chamada.
type AWSResolver struct {
	region string

	once    sync.Once
	initErr error
	ssm     SSMClient
	secrets SecretsClient
}

// NewAWSResolver cria um resolver para a região informada. Região vazia usa a
// cadeia padrão do SDK (AWS_REGION, profile, IMDS).
func NewAWSResolver(region string) *AWSResolver {
	return &AWSResolver{region: region}
}

// NewResolverWithClients cria um resolver com clientes já construídos.
func NewResolverWithClients(ssmClient SSMClient, secretsClient SecretsClient) *AWSResolver {
	r := &AWSResolver{ssm: ssmClient, secrets: secretsClient}
	r.once.Do(func() {})
	return r
}

func (r *AWSResolver) init(ctx context.Context) error {
	r.once.Do(func() {
		cfg, err := loadAWSConfig(ctx, r.region)
		if err != nil {
			r.initErr = fmt.Errorf("falha ao carregar config AWS: %w", err)
			return
		}
		r.ssm = ssm.NewFromConfig(cfg)
		r.secrets = secretsmanager.NewFromConfig(cfg)
	})
	return r.initErr
}

// Parameter retorna o valor (descriptografado) de um parâmetro do SSM.
func (r *AWSResolver) Parameter(ctx context.Context, name string) (string, error) {
	if err := r.init(ctx); err != nil {
		return "", err
	}
	out, err := r.ssm.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("erro no SSM GetParameter (%s): %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("parâmetro SSM sem valor: %s", name)
	}
	return *out.Parameter.Value, nil
}

// Secret retorna o SecretString de um segredo do Secrets Manager.
func (r *AWSResolver) Secret(ctx context.Context, id string) (string, error) {
	if err := r.init(ctx); err != nil {
		return "", err
	}
	out, err := r.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		return "", fmt.Errorf("erro no SecretsManager (%s): %w", id, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("segredo sem SecretString: %s", id)
	}
	return *out.SecretString, nil
}

func loadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}
