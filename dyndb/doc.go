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

// Package dyndb fornece uma abstração genérica e fortemente tipada sobre o
// AWS DynamoDB Go SDK (v2), limitada às primitivas que o catálogo usa:
// Get por chave, Put incondicional e Scan paginado.
//
// Paginação:
// O `LastEvaluatedKey` devolvido pelo DynamoDB é convertido em um cursor
// opaco (JSON canônico do DynamoDB + base64 URL-safe sem padding). O cursor
// recebido de volta é decodificado e validado contra a chave primária da
// tabela antes de chegar ao SDK; qualquer problema vira `ErrInvalidCursor`.
//
// Exemplo:
//
//	type Book struct {
//		Id    string `dynamodbav:"Id"`
//		Title string `dynamodbav:"Title"`
//	}
//
//	store := dyndb.New[Book](client, dyndb.TableConfig{TableName: "books", HashKey: "Id"})
//
//	_ = store.Put(ctx, Book{Id: "b1", Title: "Dune"})
//
//	book, err := store.Get(ctx, "b1")
//	if errors.Is(err, dyndb.ErrNotFound) { /* ... */ }
//
//	page, next, err := store.Scan().Limit(10).Cursor(token).Exec(ctx)
package dyndb
