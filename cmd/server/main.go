package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/raywall/crud-pessoa/pessoa"
	"github.com/raywall/crud-pessoa/pkg/config"
	"github.com/raywall/crud-pessoa/pkg/logger"
	"github.com/raywall/crud-pessoa/pkg/observability"
	"github.com/raywall/crud-pessoa/pkg/transport"
	"github.com/raywall/crud-pessoa/store/backend"
	"github.com/rs/zerolog/log"
)

var (
	// Variáveis injetáveis para mocking
	serverStarter = transport.StartHTTPServer
	lambdaStarter = lambda.Start
	openSession   = backend.Open
)

func main() {
	// .env é opcional; em produção as variáveis vêm do ambiente
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("falha ao ler .env")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Getenv("CONFIG_FILE_PATH")); err != nil {
		log.Fatal().Err(err).Msg("FATAL")
	}
}

// run contém a lógica principal testável
func run(ctx context.Context, cfgPath string) error {
	cfg, err := config.NewLoader().Load(ctx, cfgPath)
	if err != nil {
		return err
	}

	l := logger.Configure(cfg.Logging, cfg.Service.Name)
	ctx = l.WithContext(ctx)

	provider, err := observability.SetupMetrics(cfg.Metrics)
	if err != nil {
		return err
	}
	defer func() {
		if err := observability.Close(provider); err != nil {
			l.Warn().Err(err).Msg("falha ao encerrar métricas")
		}
	}()

	session, closeSession, err := openSession(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSession(); err != nil {
			l.Warn().Err(err).Msg("falha ao fechar backend")
		}
	}()

	opts := transport.Options{
		Timeout: cfg.Service.GetTimeout(),
		Metrics: provider,
	}
	if h, ok := observability.MetricsHandler(provider); ok {
		opts.MetricsRoute = cfg.Metrics.Prometheus.Route
		opts.MetricsHandler = h
	}
	srv := transport.NewServer(pessoa.NewService(session), opts)

	l.Info().
		Str("runtime", cfg.Service.Runtime).
		Str("driver", cfg.Database.Driver).
		Msg("serviço inicializado")

	switch cfg.Service.Runtime {
	case "local", "ec2", "ecs", "eks":
		return serverStarter(ctx, cfg.Service.Port, srv)
	case "lambda":
		handler := transport.NewLambdaHandler(srv)
		lambdaStarter(handler.Handle)
		return nil
	default:
		return fmt.Errorf("runtime desconhecido: %s", cfg.Service.Runtime)
	}
}
