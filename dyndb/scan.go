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
	"fmt"
	"math/big"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Limit define o número máximo de itens avaliados por página.
// Sem Limit, o DynamoDB aplica o seu próprio tamanho de página (1 MB).
func (sb *ScanBuilder[T]) Limit(n int32) *ScanBuilder[T] {
	sb.limit = &n
	return sb
}

// Cursor continua o Scan a partir de um token devolvido por um Exec anterior.
// Token vazio é ignorado; token malformado faz o Exec falhar com ErrInvalidCursor.
func (sb *ScanBuilder[T]) Cursor(token string) *ScanBuilder[T] {
	if token == "" {
		return sb
	}
	key, err := DecodeCursor(token)
	if err == nil {
		err = sb.store.validateKey(key)
	}
	if err != nil {
		sb.err = err
		return sb
	}
	sb.lastKey = key
	return sb
}

// Project restringe os atributos devolvidos pelo Scan.
func (sb *ScanBuilder[T]) Project(names ...string) *ScanBuilder[T] {
	if len(names) == 0 {
		return sb
	}
	list := make([]expression.NameBuilder, 0, len(names))
	for _, n := range names {
		list = append(list, expression.Name(n))
	}
	proj := expression.NamesList(list[0], list[1:]...)
	sb.projection = &proj
	return sb
}

// Exec executa o Scan e devolve os itens e o cursor da próxima página
// (vazio quando não há mais itens).
func (sb *ScanBuilder[T]) Exec(ctx context.Context) ([]T, string, error) {
	if sb.err != nil {
		return nil, "", sb.err
	}

	input := &dynamodb.ScanInput{
		TableName:         aws.String(sb.store.cfg.TableName),
		Limit:             sb.limit,
		ExclusiveStartKey: sb.lastKey,
	}

	if sb.projection != nil {
		expr, err := expression.NewBuilder().WithProjection(*sb.projection).Build()
		if err != nil {
			return nil, "", fmt.Errorf("dyndb: build projection failed: %w", err)
		}
		input.ProjectionExpression = expr.Projection()
		input.ExpressionAttributeNames = expr.Names()
	}

	out, err := sb.store.client.Scan(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("dyndb: scan failed: %w", err)
	}
	return unmarshalPage[T](out.Items, out.LastEvaluatedKey)
}

func unmarshalPage[T any](
	items []map[string]types.AttributeValue,
	lastKey map[string]types.AttributeValue,
) ([]T, string, error) {
	result := make([]T, 0, len(items))
	for _, item := range items {
		var t T
		if err := attributevalue.UnmarshalMap(item, &t); err != nil {
			return nil, "", fmt.Errorf("dyndb: unmarshal failed: %w", err)
		}
		result = append(result, t)
	}

	if len(lastKey) == 0 {
		return result, "", nil
	}
	token, err := EncodeCursor(lastKey)
	if err != nil {
		return nil, "", err
	}
	return result, token, nil
}

// validateKey garante que a chave decodificada contém exatamente os
// atributos da chave primária da tabela, com o tipo declarado e valor
// aceito pelo DynamoDB como ExclusiveStartKey.
func (s *dynamoStore[T]) validateKey(key map[string]types.AttributeValue) error {
	want := s.cfg.keyAttributes()
	if len(key) != len(want) {
		return fmt.Errorf("%w: expected %d key attributes, got %d", ErrInvalidCursor, len(want), len(key))
	}
	for _, attr := range want {
		v, ok := key[attr.name]
		if !ok {
			return fmt.Errorf("%w: missing key attribute %q", ErrInvalidCursor, attr.name)
		}
		if !validKeyValue(v, attr.typ) {
			return fmt.Errorf("%w: key attribute %q must be a non-empty %s", ErrInvalidCursor, attr.name, attr.typ)
		}
	}
	return nil
}

func validKeyValue(v types.AttributeValue, typ types.ScalarAttributeType) bool {
	switch val := v.(type) {
	case *types.AttributeValueMemberS:
		return typ == types.ScalarAttributeTypeS && val.Value != ""
	case *types.AttributeValueMemberN:
		if typ != types.ScalarAttributeTypeN {
			return false
		}
		_, ok := new(big.Float).SetString(val.Value)
		return ok
	case *types.AttributeValueMemberB:
		return typ == types.ScalarAttributeTypeB && len(val.Value) > 0
	default:
		return false
	}
}
