// Package book_catalog implementa um catálogo de livros servido via HTTP,
// pensado para rodar atrás do API Gateway (HTTP API) em uma função Lambda ou
// como servidor local, com persistência em uma única tabela DynamoDB.
//
// Visão Geral:
// Cada requisição é traduzida em exatamente uma chamada ao DynamoDB:
//   - GET  /books            -> Scan paginado (limit, lastEvaluatedKey)
//   - GET  /books/{book_id}  -> GetItem (404 sem corpo quando ausente)
//   - POST /books            -> PutItem com id UUID gerado no servidor
//
// A paginação usa um cursor opaco: o LastEvaluatedKey do DynamoDB em JSON
// canônico, codificado em base64 URL-safe sem padding. Cursores inválidos são
// rejeitados com 400 antes de qualquer chamada ao storage.
//
// Sub-Pacotes Principais:
//
// 1. pkg/catalog:
//   - Tipos Book (API) e Record (storage) com mapeamento explícito entre eles.
//   - Validação de entrada (validator/v10) e regras de listagem/criação.
//
// 2. dyndb:
//   - Store[T] genérico sobre o SDK v2 (Get, Put, Scan com projeção).
//   - Codificação do cursor e dyndbtest (mock testify e tabela em memória).
//
// 3. pkg/transport:
//   - Tabela de rotas gorilla/mux, mapeamento de erros para status HTTP.
//   - Adaptador API Gateway v2 -> http.Handler e middleware de observabilidade.
//
// 4. pkg/config, envloader, pkg/awsclient:
//   - Defaults, YAML (arquivo, s3://, dynamodb://), variáveis de ambiente e
//     placeholders ${env.X}, ${ssm.nome}, ${secret.id#campo}.
//
// 5. pkg/logger, pkg/metrics, pkg/observability:
//   - zerolog com logger por requisição e métricas DataDog (statsd).
//
// Binários:
//   - cmd/server: servidor local ou função Lambda (SERVICE_RUNTIME).
//   - cmd/emulator: emulador local do API Gateway na frente do handler Lambda.
//   - cmd/toolkit: `toolkit validate -file config.yaml` para o pipeline de CI.
//
// Exemplo de Início Rápido:
//
//	export BOOKS_TABLE_ARN=books
//	export DYNAMODB_ENDPOINT=http://localhost:8000
//	go run ./cmd/server
//
//	curl -X POST localhost:8080/books \
//		-d '{"title":"Dune","isbn":"978-0441013593","authors":["Frank Herbert"],"pages":412}'
//	curl 'localhost:8080/books?limit=1'
package book_catalog
