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
package dyndb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	// ErrNotFound é o erro retornado quando o GetItem não encontra o item.
	ErrNotFound = errors.New("dyndb: item not found")

	// ErrInvalidCursor é retornado quando o token de paginação recebido do
	// cliente não pode ser decodificado em uma chave válida da tabela.
	ErrInvalidCursor = errors.New("dyndb: invalid pagination cursor")
)

// DynamoDBClient interface para abstrair o cliente DynamoDB do SDK da AWS.
//
// Contém apenas as operações usadas pelo store, o que mantém os mocks
// pequenos. O *dynamodb.Client do SDK satisfaz esta interface.
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store é a interface principal e genérica para interagir com uma tabela.
//
// O tipo genérico `T` é a struct Go que representa o item da tabela, com
// as tags `dynamodbav` definindo os nomes dos atributos.
type Store[T any] interface {
	// Get busca o item pela partition key. Retorna ErrNotFound se não existir.
	Get(ctx context.Context, hashKey any) (*T, error)
	// Put grava o item incondicionalmente (upsert).
	Put(ctx context.Context, item T) error
	// Scan inicia um Scan paginado sobre a tabela inteira.
	Scan() *ScanBuilder[T]
}

// TableConfig descreve a tabela e sua chave primária.
// Os tipos das chaves seguem o AttributeDefinition da tabela; vazio equivale a S.
type TableConfig struct {
	TableName   string                    `yaml:"table_name"`
	HashKey     string                    `yaml:"hash_key"`
	HashKeyType types.ScalarAttributeType `yaml:"hash_key_type"`
	SortKey     string                    `yaml:"sort_key"` // opcional
	SortKeyType types.ScalarAttributeType `yaml:"sort_key_type"`
}

type keyAttribute struct {
	name string
	typ  types.ScalarAttributeType
}

// keyAttributes devolve nome e tipo dos atributos que compõem a chave primária.
func (c TableConfig) keyAttributes() []keyAttribute {
	attrs := []keyAttribute{{name: c.HashKey, typ: scalarTypeOrDefault(c.HashKeyType)}}
	if c.SortKey != "" {
		attrs = append(attrs, keyAttribute{name: c.SortKey, typ: scalarTypeOrDefault(c.SortKeyType)})
	}
	return attrs
}

func scalarTypeOrDefault(t types.ScalarAttributeType) types.ScalarAttributeType {
	if t == "" {
		return types.ScalarAttributeTypeS
	}
	return t
}

// ScanBuilder é um builder fluente para um Scan paginado.
//
// Erros de configuração (ex: cursor inválido) são acumulados e devolvidos
// pelo Exec, antes de qualquer chamada ao DynamoDB.
type ScanBuilder[T any] struct {
	store      *dynamoStore[T]
	projection *expression.ProjectionBuilder
	limit      *int32
	lastKey    map[string]types.AttributeValue
	err        error
}
