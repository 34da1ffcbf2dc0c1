// Package backend escolhe a implementação de store.Session a partir da configuração.
package backend

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/raywall/crud-pessoa/pkg/config"
	"github.com/raywall/crud-pessoa/store"
	"github.com/raywall/crud-pessoa/store/dynamo"
	"github.com/raywall/crud-pessoa/store/memory"
	"github.com/raywall/crud-pessoa/store/postgres"
)

// CloseFunc libera os recursos do backend aberto.
type CloseFunc func() error

func noopClose() error { return nil }

// Open abre a sessão do driver configurado. O chamador deve invocar o CloseFunc
// retornado ao encerrar.
func Open(ctx context.Context, cfg config.DatabaseConf) (store.Session, CloseFunc, error) {
	switch cfg.Driver {
	case "", "memory":
		return memory.New(), noopClose, nil
	case "postgres":
		db, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return postgres.New(db), db.Close, nil
	case "dynamodb":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, nil, fmt.Errorf("backend: falha ao carregar config AWS: %w", err)
		}
		return dynamo.New(dynamodb.NewFromConfig(awsCfg), cfg.Table), noopClose, nil
	default:
		return nil, nil, fmt.Errorf("backend: driver desconhecido %q", cfg.Driver)
	}
}
