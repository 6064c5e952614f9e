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

// Package dyndbtest reúne dublês do cliente DynamoDB para testes.
package dyndbtest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MemoryClient é uma tabela DynamoDB em memória com partition key do tipo S.
//
// O Scan percorre os itens em ordem crescente de chave e, como o DynamoDB
// real, devolve LastEvaluatedKey sempre que a página é cortada pelo Limit.
type MemoryClient struct {
	HashKey string
	// Err, quando definido, é devolvido por todas as operações.
	Err error

	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
	calls int
}

// NewMemoryClient cria uma tabela vazia.
func NewMemoryClient(hashKey string) *MemoryClient {
	return &MemoryClient{
		HashKey: hashKey,
		items:   make(map[string]map[string]types.AttributeValue),
	}
}

// Calls devolve quantas operações chegaram ao "DynamoDB".
func (c *MemoryClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Len devolve quantos itens estão armazenados.
func (c *MemoryClient) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *MemoryClient) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.Err != nil {
		return nil, c.Err
	}

	id, err := c.keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := c.items[id]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (c *MemoryClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.Err != nil {
		return nil, c.Err
	}

	id, err := c.keyOf(params.Item)
	if err != nil {
		return nil, err
	}
	c.items[id] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (c *MemoryClient) Scan(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.Err != nil {
		return nil, c.Err
	}

	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if len(params.ExclusiveStartKey) > 0 {
		after, err := c.keyOf(params.ExclusiveStartKey)
		if err != nil {
			return nil, err
		}
		start = sort.SearchStrings(keys, after)
		if start < len(keys) && keys[start] == after {
			start++
		}
	}

	end := len(keys)
	limited := false
	if params.Limit != nil && start+int(*params.Limit) < end {
		end = start + int(*params.Limit)
		limited = true
	} else if params.Limit != nil && start+int(*params.Limit) == end && end > start {
		limited = true
	}

	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, c.items[k])
	}
	out.Count = int32(len(out.Items))
	if limited {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			c.HashKey: &types.AttributeValueMemberS{Value: keys[end-1]},
		}
	}
	return out, nil
}

func (c *MemoryClient) keyOf(item map[string]types.AttributeValue) (string, error) {
	av, ok := item[c.HashKey].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("dyndbtest: missing string key attribute %q", c.HashKey)
	}
	return av.Value, nil
}
