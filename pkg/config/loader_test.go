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
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raywall/book-catalog/dyndb/dyndbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockS3Loader struct {
	GetObjectFunc func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func (m *MockS3Loader) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return m.GetObjectFunc(ctx, params, optFns...)
}

type staticResolver map[string]string

func (r staticResolver) Parameter(ctx context.Context, name string) (string, error) {
	if v, ok := r["ssm:"+name]; ok {
		return v, nil
	}
	return "", errors.New("ParameterNotFound")
}

func (r staticResolver) Secret(ctx context.Context, ref string) (string, error) {
	if v, ok := r["secret:"+ref]; ok {
		return v, nil
	}
	return "", errors.New("ResourceNotFoundException")
}

// clearEnv neutraliza variáveis que o envloader leria do ambiente da máquina.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SERVICE_NAME", "SERVICE_RUNTIME", "PORT", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT",
		"HTTP_SHUTDOWN_TIMEOUT", "BOOKS_TABLE_ARN", "BOOKS_HASH_KEY", "BOOKS_HASH_KEY_TYPE", "AWS_REGION",
		"DYNAMODB_ENDPOINT", "LOG_ENABLED", "LOG_LEVEL", "LOG_FORMAT", "DD_ENABLED",
		"DD_AGENT_HOST", "DD_NAMESPACE", "DD_TAGS", "AWS_LAMBDA_RUNTIME_API",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const localYAML = `
service:
  name: "books-local"
  runtime: "local"
  port: 9090
  read_timeout: 2s
books:
  table_name: "books-dev"
logging:
  level: "debug"
  format: "console"
metrics:
  datadog:
    enabled: false
    custom_definitions:
      - id: book_created
        name: catalog.books.created
        type: count
`

// --- Testes ---

func TestLoader_Load_Local(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, localYAML)

	for _, source := range []string{path, "file://" + path} {
		cfg, err := NewLoader(WithResolver(staticResolver{})).Load(context.Background(), source)
		require.NoError(t, err, source)

		assert.Equal(t, "books-local", cfg.Service.Name)
		assert.Equal(t, "local", cfg.Service.Runtime)
		assert.Equal(t, 9090, cfg.Service.Port)
		assert.Equal(t, 2*time.Second, cfg.Service.ReadTimeout)
		assert.Equal(t, 10*time.Second, cfg.Service.WriteTimeout, "default preservado")
		assert.Equal(t, "books-dev", cfg.Books.TableName)
		assert.Equal(t, "Id", cfg.Books.HashKey, "default preservado")
		assert.True(t, cfg.Logging.Enabled)
		assert.Equal(t, "debug", cfg.Logging.Level)
		require.Len(t, cfg.Metrics.Datadog.CustomDefinitions, 1)
		assert.Equal(t, "catalog.books.created", cfg.Metrics.Datadog.CustomDefinitions[0].Name)
	}
}

func TestLoader_Load_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOOKS_TABLE_ARN", "arn:aws:dynamodb:us-east-1:123456789012:table/books")
	t.Setenv("SERVICE_RUNTIME", "lambda")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DD_TAGS", "env:prod,team:catalog")

	cfg, err := NewLoader(WithResolver(staticResolver{})).Load(context.Background(), writeConfig(t, localYAML))

	require.NoError(t, err)
	assert.Equal(t, "arn:aws:dynamodb:us-east-1:123456789012:table/books", cfg.Books.TableName)
	assert.Equal(t, "lambda", cfg.Service.Runtime)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format, "YAML mantido quando não há env")
	assert.Equal(t, []string{"env:prod", "team:catalog"}, cfg.Metrics.Datadog.Tags)
}

func TestLoader_Load_EnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOOKS_TABLE_ARN", "books")

	cfg, err := NewLoader(WithResolver(staticResolver{})).Load(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "books", cfg.Books.TableName)
	assert.Equal(t, "local", cfg.Service.Runtime)
	assert.Equal(t, 8080, cfg.Service.Port)
}

func TestLoader_Load_LambdaDefaultRuntime(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWS_LAMBDA_RUNTIME_API", "127.0.0.1:9001")
	t.Setenv("BOOKS_TABLE_ARN", "books")

	cfg, err := NewLoader(WithResolver(staticResolver{})).Load(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "lambda", cfg.Service.Runtime)
}

func TestLoader_Load_Placeholders(t *testing.T) {
	clearEnv(t)
	t.Setenv("STAGE", "prod")
	yaml := `
books:
  table_name: "${ssm./book-catalog/prod/table}"
metrics:
  datadog:
    enabled: true
    addr: "${secret.datadog#agent}"
    namespace: "books.${env.STAGE}."
`
	resolver := staticResolver{
		"ssm:/book-catalog/prod/table": "books-prod",
		"secret:datadog#agent":         "10.0.0.5:8125",
	}

	cfg, err := NewLoader(WithResolver(resolver)).Load(context.Background(), writeConfig(t, yaml))

	require.NoError(t, err)
	assert.Equal(t, "books-prod", cfg.Books.TableName)
	assert.Equal(t, "10.0.0.5:8125", cfg.Metrics.Datadog.Addr)
	assert.Equal(t, "books.prod.", cfg.Metrics.Datadog.Namespace)
}

func TestLoader_Load_PlaceholderFailure(t *testing.T) {
	clearEnv(t)
	yaml := `
books:
  table_name: "${ssm./missing}"
`
	_, err := NewLoader(WithResolver(staticResolver{})).Load(context.Background(), writeConfig(t, yaml))

	assert.ErrorContains(t, err, "ParameterNotFound")
}

func TestLoader_Load_S3(t *testing.T) {
	clearEnv(t)
	client := &MockS3Loader{
		GetObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "my-bucket", *params.Bucket)
			assert.Equal(t, "book-catalog/config.yaml", *params.Key)
			return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(localYAML))}, nil
		},
	}

	cfg, err := NewLoader(WithS3(client), WithResolver(staticResolver{})).
		Load(context.Background(), "s3://my-bucket/book-catalog/config.yaml")

	require.NoError(t, err)
	assert.Equal(t, "books-local", cfg.Service.Name)
}

func TestLoader_Load_DynamoDB(t *testing.T) {
	clearEnv(t)
	client := dyndbtest.NewMemoryClient("id")
	_, err := client.PutItem(context.Background(), &dynamodb.PutItemInput{Item: map[string]types.AttributeValue{
		"id":     &types.AttributeValueMemberS{Value: "book-catalog"},
		"config": &types.AttributeValueMemberS{Value: localYAML},
	}})
	require.NoError(t, err)

	cfg, err := NewLoader(WithDynamo(client), WithResolver(staticResolver{})).
		Load(context.Background(), "dynamodb://settings/book-catalog")

	require.NoError(t, err)
	assert.Equal(t, "books-dev", cfg.Books.TableName)
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "campo desconhecido", yaml: "books:\n  tabel_name: x\n", wantErr: "YAML malformado"},
		{name: "yaml inválido", yaml: "service: [\n", wantErr: "YAML malformado"},
		{name: "sem tabela", yaml: "service:\n  name: books\n", wantErr: "TableName"},
		{name: "runtime inválido", yaml: "service:\n  runtime: ec2\nbooks:\n  table_name: b\n", wantErr: "Runtime"},
		{name: "nível de log inválido", yaml: "books:\n  table_name: b\nlogging:\n  level: verbose\n", wantErr: "Level"},
		{name: "datadog sem endereço", yaml: "books:\n  table_name: b\nmetrics:\n  datadog:\n    enabled: true\n    addr: \"\"\n", wantErr: "Addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := NewLoader(WithResolver(staticResolver{})).Load(context.Background(), writeConfig(t, tt.yaml))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoader_Load_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "falha leitura config")
}

func TestBooksConf_Table(t *testing.T) {
	table := BooksConf{TableName: "books", HashKey: "Id", HashKeyType: "N"}.Table()
	assert.Equal(t, "books", table.TableName)
	assert.Equal(t, "Id", table.HashKey)
	assert.Equal(t, types.ScalarAttributeTypeN, table.HashKeyType)
	assert.Empty(t, table.SortKey)
}
