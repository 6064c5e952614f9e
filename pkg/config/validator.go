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
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza validações estruturais (tags) e semânticas (lógica)
func (cv *ConfigValidator) Validate(cfg *AppConfig) error {
	// 1. Validação Estrutural (Tags do struct: required, oneof, etc)
	if err := cv.validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var errMsgs []string
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}

	// 2. Validação Semântica (Regras de negócio da configuração)
	if err := cv.validateSemantics(cfg); err != nil {
		return fmt.Errorf("erro de validação semântica: %w", err)
	}

	return nil
}

func (cv *ConfigValidator) validateSemantics(cfg *AppConfig) error {
	// Unicidade de IDs de métricas customizadas
	seenIDs := make(map[string]bool)
	for _, def := range cfg.Metrics.Datadog.CustomDefinitions {
		if seenIDs[def.ID] {
			return fmt.Errorf("métrica customizada com ID duplicado: '%s'", def.ID)
		}
		seenIDs[def.ID] = true
	}

	// Placeholders que sobreviveram à injeção indicam fonte inexistente
	for name, val := range map[string]string{
		"books.table_name": cfg.Books.TableName,
		"books.hash_key":   cfg.Books.HashKey,
		"aws.endpoint":     cfg.AWS.Endpoint,
		"metrics.addr":     cfg.Metrics.Datadog.Addr,
	} {
		if strings.Contains(val, "${") {
			return fmt.Errorf("placeholder não resolvido em %s: '%s'", name, val)
		}
	}

	if cfg.Service.Runtime == "local" && cfg.Service.ShutdownTimeout == 0 {
		return fmt.Errorf("service.shutdown_timeout deve ser maior que zero no runtime local")
	}

	return nil
}
