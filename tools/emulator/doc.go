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
//
// Package emulator simula localmente a integração do API Gateway (HTTP API,
// payload v2) com a função Lambda do catálogo.
//
// Visão Geral:
// O servidor local do catálogo chama o router diretamente e por isso não
// exercita a conversão evento -> *http.Request feita em produção. O emulador
// recebe requisições HTTP comuns, monta o evento `APIGatewayV2HTTPRequest`
// que o API Gateway entregaria, invoca o handler Lambda e converte a resposta
// de volta (status, headers, cookies e corpo em base64).
//
// Funcionalidades Principais:
//   - Gateway: http.Handler que traduz requisições em eventos v2.
//   - Seed: carga inicial de livros a partir do arquivo emulator.json.
//   - Tabela em memória opcional (`in_memory`), dispensando DynamoDB Local.
//
// Exemplo de Configuração (emulator.json):
//
//	{
//	  "port": 3000,
//	  "in_memory": true,
//	  "seed": [
//	    {"title": "Dune", "isbn": "978-0441013593", "authors": ["Frank Herbert"], "pages": 412}
//	  ]
//	}
//
// Exemplo de Inicialização Programática (Go):
//
//	lambdaHandler := transport.NewLambdaHandler(router, logger)
//	gw := emulator.NewGateway(lambdaHandler.Handle, logger)
//	http.ListenAndServe(":3000", gw)
package emulator
