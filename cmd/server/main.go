// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/raywall/book-catalog/dyndb"
	"github.com/raywall/book-catalog/pkg/awsclient"
	"github.com/raywall/book-catalog/pkg/catalog"
	"github.com/raywall/book-catalog/pkg/config"
	"github.com/raywall/book-catalog/pkg/logger"
	"github.com/raywall/book-catalog/pkg/metrics"
	"github.com/raywall/book-catalog/pkg/observability"
	"github.com/raywall/book-catalog/pkg/transport"
)

var (
	// Variáveis injetáveis para mocking
	serverStarter   = transport.StartHTTPServer
	lambdaStarter   = lambda.Start
	newDynamoClient = func(ctx context.Context, cfg config.AWSConf) (dyndb.DynamoDBClient, error) {
		awsCfg, err := awsclient.GetAWSConfig(ctx, cfg.Region)
		if err != nil {
			return nil, err
		}
		return awsclient.NewDynamoDB(awsCfg, cfg.Endpoint), nil
	}
)

func main() {
	// .env é opcional e não sobrescreve variáveis já definidas
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// CONFIG_FILE_PATH vazio: apenas defaults + ambiente
	if err := run(ctx, os.Getenv("CONFIG_FILE_PATH")); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run contém a lógica principal testável
func run(ctx context.Context, source string) error {
	// 1. Carrega Configuração
	cfg, err := config.Load(ctx, source)
	if err != nil {
		return err
	}

	// 2. Observabilidade
	appLogger := logger.Configure(cfg.Logging, cfg.Service.Name)

	provider, err := observability.SetupMetrics(cfg.Metrics)
	if err != nil {
		return err
	}
	defer provider.Close()
	processor := metrics.NewProcessor(cfg.Metrics.Datadog.CustomDefinitions, provider)

	// 3. Storage e catálogo
	client, err := newDynamoClient(ctx, cfg.AWS)
	if err != nil {
		return fmt.Errorf("falha ao criar cliente DynamoDB: %w", err)
	}
	store := dyndb.New[catalog.Record](client, cfg.Books.Table())
	svc := catalog.NewService(store,
		catalog.WithMetrics(processor),
		catalog.WithLogger(appLogger),
	)

	handler := transport.NewHandler(svc, transport.Observability{
		Logger:  appLogger,
		Metrics: processor,
	})

	appLogger.Info().
		Str("runtime", cfg.Service.Runtime).
		Str("table", cfg.Books.TableName).
		Msg("book catalog inicializado")

	// 4. Seleciona Runtime Strategy
	switch cfg.Service.Runtime {
	case "local":
		return serverStarter(ctx, cfg.Service, handler, appLogger)
	case "lambda":
		lambdaStarter(transport.NewLambdaHandler(handler, appLogger).Handle)
		return nil
	default:
		return fmt.Errorf("runtime desconhecido: %s", cfg.Service.Runtime)
	}
}
