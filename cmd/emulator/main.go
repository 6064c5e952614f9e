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
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/raywall/book-catalog/dyndb"
	"github.com/raywall/book-catalog/dyndb/dyndbtest"
	"github.com/raywall/book-catalog/pkg/awsclient"
	"github.com/raywall/book-catalog/pkg/catalog"
	"github.com/raywall/book-catalog/pkg/config"
	"github.com/raywall/book-catalog/pkg/logger"
	"github.com/raywall/book-catalog/pkg/transport"
	"github.com/raywall/book-catalog/tools/emulator"
	emuconfig "github.com/raywall/book-catalog/tools/emulator/config"
	"github.com/rs/zerolog/log"
)

// Injetável para testes
var serverStarter = transport.StartHTTPServer

func main() {
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	emuCfg, err := emuconfig.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuração do emulador inválida")
	}
	if err := run(ctx, emuCfg, os.Getenv("CONFIG_FILE_PATH")); err != nil {
		log.Fatal().Err(err).Msg("emulador encerrado com erro")
	}
}

// run monta a mesma cadeia da função Lambda e a expõe atrás do gateway local
func run(ctx context.Context, emuCfg emuconfig.Config, source string) error {
	cfg, err := config.Load(ctx, source)
	if err != nil {
		return err
	}
	appLogger := logger.Configure(cfg.Logging, cfg.Service.Name)

	var client dyndb.DynamoDBClient
	if emuCfg.InMemory {
		client = dyndbtest.NewMemoryClient(cfg.Books.HashKey)
	} else {
		awsCfg, err := awsclient.GetAWSConfig(ctx, cfg.AWS.Region)
		if err != nil {
			return fmt.Errorf("falha ao criar cliente DynamoDB: %w", err)
		}
		client = awsclient.NewDynamoDB(awsCfg, cfg.AWS.Endpoint)
	}

	store := dyndb.New[catalog.Record](client, cfg.Books.Table())
	svc := catalog.NewService(store, catalog.WithLogger(appLogger))

	for _, book := range emuCfg.Seed {
		if _, err := svc.CreateBook(ctx, book); err != nil {
			return fmt.Errorf("falha no seed de '%s': %w", book.Title, err)
		}
	}

	handler := transport.NewHandler(svc, transport.Observability{Logger: appLogger})
	gateway := emulator.NewGateway(transport.NewLambdaHandler(handler, appLogger).Handle, appLogger)

	serviceCfg := cfg.Service
	serviceCfg.Port = emuCfg.Port

	appLogger.Info().
		Int("port", serviceCfg.Port).
		Bool("in_memory", emuCfg.InMemory).
		Int("seed", len(emuCfg.Seed)).
		Msg("emulador do API Gateway inicializado")

	return serverStarter(ctx, serviceCfg, gateway, appLogger)
}
