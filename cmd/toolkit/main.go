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
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/raywall/book-catalog/pkg/config"
)

var errInvalidConfig = errors.New("configuração inválida")

// Report é a saída do comando validate (texto ou JSON para o pipeline de CI)
type Report struct {
	Valid   bool     `json:"valid"`
	Source  string   `json:"source"`
	Runtime string   `json:"runtime,omitempty"`
	Table   string   `json:"table,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	filePtr := validateCmd.String("file", "", "Caminho do arquivo YAML ou URI s3:// / dynamodb://")

	if len(os.Args) < 2 {
		fmt.Println("Comandos esperados: validate")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		_ = validateCmd.Parse(os.Args[2:])
		if *filePtr == "" {
			fmt.Println("Erro: flag -file é obrigatória")
			os.Exit(1)
		}
		if err := runValidate(context.Background(), *filePtr, os.Getenv("OUTPUT_FORMAT"), os.Stdout); err != nil {
			os.Exit(1)
		}
	default:
		fmt.Println("Comando desconhecido")
		os.Exit(1)
	}
}

// runValidate carrega a configuração pelo mesmo caminho do servidor
// (defaults, YAML, env, placeholders e validação) e imprime o relatório.
func runValidate(ctx context.Context, source, format string, out io.Writer) error {
	report := Report{Source: source}

	cfg, err := config.Load(ctx, source)
	if err != nil {
		report.Errors = splitErrors(err)
	} else {
		report.Valid = true
		report.Runtime = cfg.Service.Runtime
		report.Table = cfg.Books.TableName
	}

	if format == "json" {
		if encErr := json.NewEncoder(out).Encode(report); encErr != nil {
			return encErr
		}
	} else {
		printText(out, report)
	}

	if !report.Valid {
		return errInvalidConfig
	}
	return nil
}

func printText(out io.Writer, report Report) {
	fmt.Fprintf(out, "Analisando configuração: %s\n", report.Source)
	if !report.Valid {
		fmt.Fprintln(out, "A configuração contém erros:")
		for _, e := range report.Errors {
			fmt.Fprintf(out, " - %s\n", e)
		}
		return
	}
	fmt.Fprintf(out, "Configuração válida (runtime=%s, tabela=%s)\n", report.Runtime, report.Table)
}

func splitErrors(err error) []string {
	var out []string
	for _, line := range strings.Split(err.Error(), "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
