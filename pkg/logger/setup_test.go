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
package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/raywall/book-catalog/pkg/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
		zerolog.DefaultContextLogger = nil
	})

	t.Run("Default Level Info", func(t *testing.T) {
		_ = configure(config.LoggingConf{Enabled: true}, "", &bytes.Buffer{})
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("Custom Level Debug", func(t *testing.T) {
		_ = configure(config.LoggingConf{Enabled: true, Level: "DEBUG"}, "", &bytes.Buffer{})
		assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	})

	t.Run("JSON com nome do serviço", func(t *testing.T) {
		var buf bytes.Buffer
		logger := configure(config.LoggingConf{Enabled: true, Level: "info", Format: "json"}, "book-catalog", &buf)

		logger.Info().Msg("pronto")
		logger.Debug().Msg("filtrado")

		assert.Contains(t, buf.String(), `"service":"book-catalog"`)
		assert.Contains(t, buf.String(), `"message":"pronto"`)
		assert.NotContains(t, buf.String(), "filtrado")
	})

	t.Run("Console", func(t *testing.T) {
		var buf bytes.Buffer
		logger := configure(config.LoggingConf{Enabled: true, Format: "console"}, "", &buf)

		logger.Info().Msg("legível")

		assert.Contains(t, buf.String(), "legível")
		assert.NotContains(t, buf.String(), `"message"`)
	})

	t.Run("Disabled Logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := configure(config.LoggingConf{Enabled: false}, "", &buf)

		logger.Info().Msg("teste")
		assert.Empty(t, buf.String())
	})

	t.Run("Vira o logger padrão de contexto", func(t *testing.T) {
		var buf bytes.Buffer
		_ = configure(config.LoggingConf{Enabled: true}, "svc", &buf)

		zerolog.Ctx(context.Background()).Info().Msg("via contexto")
		assert.Contains(t, buf.String(), "via contexto")
	})
}
