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
package metricstest

import "sync"

// Sample é uma chamada registrada pelo Recorder.
type Sample struct {
	Type  string
	Name  string
	Value float64
	Tags  []string
}

// Recorder implementa metrics.Provider guardando as amostras em memória.
type Recorder struct {
	mu      sync.Mutex
	samples []Sample
}

func (r *Recorder) Count(name string, value float64, tags []string) error {
	return r.add("count", name, value, tags)
}

func (r *Recorder) Gauge(name string, value float64, tags []string) error {
	return r.add("gauge", name, value, tags)
}

func (r *Recorder) Histogram(name string, value float64, tags []string) error {
	return r.add("histogram", name, value, tags)
}

func (r *Recorder) add(kind, name string, value float64, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, Sample{Type: kind, Name: name, Value: value, Tags: tags})
	return nil
}

// Samples devolve uma cópia das amostras registradas.
func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}

// ByName filtra as amostras pelo nome publicado.
func (r *Recorder) ByName(name string) []Sample {
	var out []Sample
	for _, s := range r.Samples() {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}
