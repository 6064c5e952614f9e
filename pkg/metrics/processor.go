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
package metrics

import (
	"fmt"
	"sort"

	"github.com/raywall/book-catalog/pkg/config"
)

// Processor resolve IDs de métrica para nome/tipo e repassa ao Provider.
type Processor struct {
	definitions map[string]MetricDefinition
	provider    Provider
}

// NewProcessor parte das DefaultDefinitions e aplica as redefinições da configuração.
func NewProcessor(conf []config.CustomMetricDefinition, provider Provider) *Processor {
	defs := make(map[string]MetricDefinition, len(DefaultDefinitions)+len(conf))
	for id, d := range DefaultDefinitions {
		defs[id] = d
	}
	for _, d := range conf {
		defs[d.ID] = MetricDefinition{
			Name: d.Name,
			Type: MetricType(d.Type),
		}
	}

	return &Processor{
		definitions: defs,
		provider:    provider,
	}
}

// Record envia uma amostra da métrica identificada por id. Um Processor nil
// não faz nada.
func (p *Processor) Record(id string, value float64, tags map[string]string) error {
	if p == nil || p.provider == nil {
		return nil
	}

	def, exists := p.definitions[id]
	if !exists {
		return fmt.Errorf("métrica não definida: %s", id)
	}

	finalTags := formatTags(tags)

	switch def.Type {
	case TypeCount:
		return p.provider.Count(def.Name, value, finalTags)
	case TypeGauge:
		return p.provider.Gauge(def.Name, value, finalTags)
	case TypeHistogram:
		return p.provider.Histogram(def.Name, value, finalTags)
	default:
		return fmt.Errorf("tipo de métrica desconhecido: %s", def.Type)
	}
}

// formatTags gera "chave:valor" em ordem de chave para tags estáveis.
func formatTags(tags map[string]string) []string {
	if len(tags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s:%s", k, tags[k]))
	}
	return out
}
