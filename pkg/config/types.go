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
package config

import (
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/raywall/book-catalog/dyndb"
)

// AppConfig representa a estrutura raiz da configuração do serviço.
// É resolvida uma única vez na inicialização e não muda depois disso.
type AppConfig struct {
	Service ServiceConf `yaml:"service"`
	Books   BooksConf   `yaml:"books"`
	AWS     AWSConf     `yaml:"aws"`
	Logging LoggingConf `yaml:"logging"`
	Metrics MetricsConf `yaml:"metrics"`
}

// ServiceConf contém os metadados e configurações de runtime do serviço.
type ServiceConf struct {
	Name            string        `yaml:"name" env:"SERVICE_NAME" validate:"required,hostname_rfc1123"`
	Runtime         string        `yaml:"runtime" env:"SERVICE_RUNTIME" validate:"required,oneof=local lambda"`
	Port            int           `yaml:"port" env:"PORT" validate:"required_if=Runtime local,gte=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" validate:"gte=0"`
}

// BooksConf identifica a tabela de livros. TableName aceita nome ou ARN.
type BooksConf struct {
	TableName   string `yaml:"table_name" env:"BOOKS_TABLE_ARN" validate:"required"`
	HashKey     string `yaml:"hash_key" env:"BOOKS_HASH_KEY" validate:"required"`
	HashKeyType string `yaml:"hash_key_type" env:"BOOKS_HASH_KEY_TYPE" validate:"oneof=S N B"`
}

// Table converte para a configuração usada pelo dyndb.
func (b BooksConf) Table() dyndb.TableConfig {
	return dyndb.TableConfig{
		TableName:   b.TableName,
		HashKey:     b.HashKey,
		HashKeyType: types.ScalarAttributeType(b.HashKeyType),
	}
}

type AWSConf struct {
	Region   string `yaml:"region" env:"AWS_REGION"`
	Endpoint string `yaml:"endpoint" env:"DYNAMODB_ENDPOINT" validate:"omitempty,url"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled" env:"LOG_ENABLED"`
	Level   string `yaml:"level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format  string `yaml:"format" env:"LOG_FORMAT" validate:"oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

type DatadogConf struct {
	Enabled           bool                     `yaml:"enabled" env:"DD_ENABLED"`
	Addr              string                   `yaml:"addr" env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace         string                   `yaml:"namespace" env:"DD_NAMESPACE"`
	Tags              []string                 `yaml:"tags" env:"DD_TAGS"`
	CustomDefinitions []CustomMetricDefinition `yaml:"custom_definitions" validate:"dive"`
}

// CustomMetricDefinition renomeia (ou declara) uma métrica pelo seu ID.
type CustomMetricDefinition struct {
	ID   string `yaml:"id" validate:"required"`
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" validate:"oneof=count gauge histogram"`
}

// Defaults devolve a configuração base, sobre a qual YAML e ambiente são
// aplicados. Dentro do Lambda o runtime padrão é "lambda".
func Defaults() AppConfig {
	runtime := "local"
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		runtime = "lambda"
	}

	return AppConfig{
		Service: ServiceConf{
			Name:            "book-catalog",
			Runtime:         runtime,
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Books: BooksConf{
			HashKey:     "Id",
			HashKeyType: "S",
		},
		Logging: LoggingConf{
			Enabled: true,
			Level:   "info",
			Format:  "json",
		},
		Metrics: MetricsConf{
			Datadog: DatadogConf{
				Addr:      "localhost:8125",
				Namespace: "book_catalog.",
			},
		},
	}
}
