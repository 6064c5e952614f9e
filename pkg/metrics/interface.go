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

// Provider define o contrato para envio de métricas.
// Isso permite trocar Datadog por outro backend sem alterar a lógica de negócio.
type Provider interface {
	Count(name string, value float64, tags []string) error
	Gauge(name string, value float64, tags []string) error
	Histogram(name string, value float64, tags []string) error
}

// MetricType define os tipos suportados.
type MetricType string

const (
	TypeCount     MetricType = "count"
	TypeGauge     MetricType = "gauge"
	TypeHistogram MetricType = "histogram"
)

// MetricDefinition armazena os metadados da métrica (nome real, tipo).
type MetricDefinition struct {
	Name string
	Type MetricType
}

// IDs das métricas emitidas pelo serviço.
const (
	BookCreated     = "book_created"
	BookPageSize    = "book_page_size"
	RequestDuration = "request_duration"
)

// DefaultDefinitions liga cada ID ao nome publicado. O YAML pode renomear
// qualquer uma via metrics.datadog.custom_definitions.
var DefaultDefinitions = map[string]MetricDefinition{
	BookCreated:     {Name: "books.created", Type: TypeCount},
	BookPageSize:    {Name: "books.page_size", Type: TypeHistogram},
	RequestDuration: {Name: "http.request.duration", Type: TypeHistogram},
}
