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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raywall/book-catalog/envloader"
	"github.com/raywall/book-catalog/pkg/awsclient"
	"github.com/raywall/book-catalog/pkg/config/injector"
	"gopkg.in/yaml.v3"
)

// Loader monta a AppConfig: defaults, documento YAML opcional (arquivo
// local, s3:// ou dynamodb://), variáveis de ambiente, placeholders
// ${env|ssm|secret.*} e validação.
type Loader struct {
	validator *ConfigValidator
	s3        awsclient.S3Getter
	dynamo    awsclient.DynamoGetter
	resolver  injector.Resolver
}

// LoaderOption customiza o Loader (usado principalmente em testes).
type LoaderOption func(*Loader)

// WithS3 define o cliente usado para fontes s3://.
func WithS3(client awsclient.S3Getter) LoaderOption {
	return func(l *Loader) { l.s3 = client }
}

// WithDynamo define o cliente usado para fontes dynamodb://.
func WithDynamo(client awsclient.DynamoGetter) LoaderOption {
	return func(l *Loader) { l.dynamo = client }
}

// WithResolver define quem resolve ${ssm.*} e ${secret.*}.
func WithResolver(r injector.Resolver) LoaderOption {
	return func(l *Loader) { l.resolver = r }
}

// NewLoader cria uma nova instância.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{validator: NewValidator()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load é o atalho usado pelo binário.
func Load(ctx context.Context, source string) (*AppConfig, error) {
	return NewLoader().Load(ctx, source)
}

// Load detecta o esquema da fonte e carrega a configuração. source vazio
// dispensa o YAML e usa apenas defaults e ambiente.
func (l *Loader) Load(ctx context.Context, source string) (*AppConfig, error) {
	cfg := Defaults()

	if source != "" {
		raw, err := l.read(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("falha leitura config (%s): %w", source, err)
		}
		if err := decodeYAML(raw, &cfg); err != nil {
			return nil, fmt.Errorf("YAML malformado: %w", err)
		}
	}

	if err := envloader.Load(&cfg); err != nil {
		return nil, fmt.Errorf("falha ao aplicar variáveis de ambiente: %w", err)
	}

	resolver := l.resolver
	if resolver == nil {
		resolver = awsclient.NewLookup(cfg.AWS.Region)
	}
	if err := injector.New(resolver).Inject(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("falha na injeção de variáveis: %w", err)
	}

	if err := l.validator.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validação da configuração falhou: %w", err)
	}

	return &cfg, nil
}

// --- Estratégias de carregamento ---

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "s3://"):
		client := l.s3
		if client == nil {
			awsCfg, err := awsclient.GetAWSConfig(ctx, os.Getenv("AWS_REGION"))
			if err != nil {
				return nil, err
			}
			client = s3.NewFromConfig(awsCfg)
		}
		return awsclient.GetS3Object(ctx, client, source)

	case strings.HasPrefix(source, "dynamodb://"):
		client := l.dynamo
		if client == nil {
			awsCfg, err := awsclient.GetAWSConfig(ctx, os.Getenv("AWS_REGION"))
			if err != nil {
				return nil, err
			}
			client = dynamodb.NewFromConfig(awsCfg)
		}
		return awsclient.GetDynamoDocument(ctx, client, source)

	default:
		// Suporta tanto "file://config.yaml" quanto apenas "config.yaml"
		return os.ReadFile(strings.TrimPrefix(source, "file://"))
	}
}

// decodeYAML aplica o documento sobre cfg, rejeitando chaves desconhecidas.
// Documento vazio mantém cfg intacta.
func decodeYAML(raw []byte, cfg *AppConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
