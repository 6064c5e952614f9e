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
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/raywall/book-catalog/pkg/catalog"
	"github.com/rs/zerolog/log"
)

// Config representa o arquivo emulator.json
type Config struct {
	Port     int                         `json:"port"`
	InMemory bool                        `json:"in_memory"`
	Seed     []catalog.CreateBookRequest `json:"seed,omitempty"`
}

// Defaults devolve a configuração usada quando não há arquivo
func Defaults() Config {
	return Config{Port: 3000, InMemory: true}
}

// Load carrega a configuração do arquivo padrão (emulator.json) ou via variável de ambiente.
// Retorna os defaults se o arquivo não existir, para não quebrar a inicialização.
func Load() (Config, error) {
	path := os.Getenv("EMULATOR_CONFIG_PATH")
	if path == "" {
		path = "emulator.json"
	}

	cfg, err := LoadFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("arquivo do emulador não encontrado, usando defaults")
		return Defaults(), nil
	}
	return cfg, err
}

func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("erro ao ler arquivo: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("erro ao parsear json: %w", err)
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("porta inválida: %d", cfg.Port)
	}
	return cfg, nil
}
