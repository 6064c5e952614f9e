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

// Package envloader carrega variáveis de ambiente diretamente para campos de
// uma struct Go usando reflection.
//
// Tags suportadas:
//   - `env:"VAR"`: nome da variável lida.
//   - `envDefault:"valor"`: usado quando a variável está ausente ou vazia.
//   - `envRequired:"true"`: falha com *MissingVariableError se o campo
//     continuar vazio.
//
// Tipos suportados: string, int*, uint*, bool, float*, time.Duration e
// []string (valores separados por vírgula). Structs aninhadas e ponteiros
// para struct são percorridos recursivamente.
//
// Variáveis ausentes não tocam o campo, então Load pode ser aplicado por
// cima de uma configuração já carregada de YAML:
//
//	type BooksConf struct {
//		TableName string `yaml:"table_name" env:"BOOKS_TABLE_ARN"`
//		HashKey   string `yaml:"hash_key" env:"BOOKS_HASH_KEY"`
//	}
//
//	cfg := BooksConf{HashKey: "Id"}
//	if err := envloader.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
package envloader
