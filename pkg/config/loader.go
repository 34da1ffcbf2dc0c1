package config

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raywall/crud-pessoa/pkg/config/injector"
	"github.com/raywall/crud-pessoa/pkg/secrets"
	"gopkg.in/yaml.v3"
)

// --- Interfaces para Mocking ---

type S3Downloader interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type DynamoGetter interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// Loader suporta múltiplas fontes de configuração (Local, S3, DynamoDB).
type Loader struct {
	validator *ConfigValidator
	injector  *injector.Injector
	s3        S3Downloader
	dynamo    DynamoGetter
}

// LoaderOption customiza o Loader (clientes, resolver de segredos).
type LoaderOption func(*Loader)

// WithS3Client define o cliente usado para fontes s3://.
func WithS3Client(c S3Downloader) LoaderOption {
	return func(l *Loader) { l.s3 = c }
}

// WithDynamoClient define o cliente usado para fontes dynamodb://.
func WithDynamoClient(c DynamoGetter) LoaderOption {
	return func(l *Loader) { l.dynamo = c }
}

// WithResolver substitui o resolver AWS usado pelos placeholders ssm e secret.
func WithResolver(r injector.Resolver) LoaderOption {
	return func(l *Loader) { l.injector = injector.New(r) }
}

// NewLoader cria uma nova instância.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		validator: NewValidator(),
		injector:  injector.New(secrets.NewAWSResolver(os.Getenv("AWS_REGION"))),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load detecta o esquema da fonte e carrega a configuração. Fonte vazia
// resulta em uma configuração apenas com defaults e variáveis de ambiente.
func (l *Loader) Load(ctx context.Context, source string) (*AppConfig, error) {
	var rawData []byte
	var err error

	switch {
	case source == "":
		rawData = nil
	case strings.HasPrefix(source, "s3://"):
		rawData, err = l.loadFromS3(ctx, source)
	case strings.HasPrefix(source, "dynamodb://"):
		rawData, err = l.loadFromDynamoDB(ctx, source)
	default:
		rawData, err = loadFromFile(source)
	}

	if err != nil {
		return nil, fmt.Errorf("falha leitura config (%s): %w", source, err)
	}

	return l.parseAndValidate(ctx, rawData)
}

// --- Estratégias de carregamento ---

func loadFromFile(path string) ([]byte, error) {
	// Suporta tanto "file://config.yaml" quanto apenas "config.yaml"
	return os.ReadFile(strings.TrimPrefix(path, "file://"))
}

func (l *Loader) loadFromS3(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("URL S3 inválida: %w", err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	if l.s3 == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("falha ao carregar config AWS: %w", err)
		}
		l.s3 = s3.NewFromConfig(cfg)
	}

	out, err := l.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// loadFromDynamoDB lê o YAML de um item: dynamodb://tabela/chave?col=config&pk=id
func (l *Loader) loadFromDynamoDB(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("URL DynamoDB inválida: %w", err)
	}

	tableName := u.Host
	pkValue := strings.TrimPrefix(u.Path, "/")

	colName := u.Query().Get("col")
	if colName == "" {
		colName = "config"
	}
	pkName := u.Query().Get("pk")
	if pkName == "" {
		pkName = "id"
	}

	if l.dynamo == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("falha ao carregar config AWS: %w", err)
		}
		l.dynamo = dynamodb.NewFromConfig(cfg)
	}

	out, err := l.dynamo.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key: map[string]types.AttributeValue{
			pkName: &types.AttributeValueMemberS{Value: pkValue},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("item não encontrado no DynamoDB")
	}

	var itemMap map[string]interface{}
	if err := attributevalue.UnmarshalMap(out.Item, &itemMap); err != nil {
		return nil, err
	}

	content, ok := itemMap[colName].(string)
	if !ok || content == "" {
		return nil, fmt.Errorf("coluna '%s' inválida ou vazia no DynamoDB", colName)
	}
	return []byte(content), nil
}

func (l *Loader) parseAndValidate(ctx context.Context, data []byte) (*AppConfig, error) {
	// Logging ligado salvo quando o YAML diz o contrário
	cfg := AppConfig{Logging: LoggingConf{Enabled: true}}

	// 1. Unmarshal (YAML -> Struct)
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("YAML malformado: %w", err)
		}
	}

	// 2. Injection (Env/Secrets/SSM)
	if err := l.injector.Inject(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("falha na injeção de variáveis: %w", err)
	}

	// 3. Defaults
	cfg.applyDefaults()

	// 4. Validation
	if err := l.validator.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validação da configuração falhou: %w", err)
	}

	return &cfg, nil
}
