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
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/raywall/book-catalog/dyndb"
	"github.com/raywall/book-catalog/pkg/metrics"
	"github.com/rs/zerolog"
)

// IDGenerator produz o id de um livro novo.
type IDGenerator func() string

// Service implementa as operações do catálogo sobre um dyndb.Store.
type Service struct {
	store     dyndb.Store[Record]
	validator *RequestValidator
	newID     IDGenerator
	metrics   *metrics.Processor
	logger    zerolog.Logger
}

// Option customiza o Service.
type Option func(*Service)

// WithIDGenerator troca o gerador de ids (padrão: UUID v4).
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Service) { s.newID = gen }
}

// WithMetrics liga o processador de métricas.
func WithMetrics(p *metrics.Processor) Option {
	return func(s *Service) { s.metrics = p }
}

// WithLogger define o logger usado quando o contexto não carrega um.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService cria o serviço de catálogo.
func NewService(store dyndb.Store[Record], opts ...Option) *Service {
	s := &Service{
		store:     store,
		validator: NewRequestValidator(),
		newID:     uuid.NewString,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListBooks devolve uma página do catálogo a partir do cursor informado.
func (s *Service) ListBooks(ctx context.Context, in ListInput) (Page, error) {
	if in.Limit != nil && *in.Limit <= 0 {
		return Page{}, NewValidationError("limit must be a positive integer")
	}

	scan := s.store.Scan().Project(RecordAttributes...).Cursor(in.Cursor)
	if in.Limit != nil {
		scan = scan.Limit(*in.Limit)
	}

	records, next, err := scan.Exec(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("catalog: list books: %w", err)
	}

	page := Page{Books: make([]Book, 0, len(records))}
	for _, r := range records {
		b, err := r.Book()
		if err != nil {
			return Page{}, fmt.Errorf("catalog: list books: %w", err)
		}
		page.Books = append(page.Books, b)
	}
	if next != "" {
		page.LastEvaluatedKey = &next
	}

	s.record(ctx, metrics.BookPageSize, float64(len(page.Books)))
	return page, nil
}

// GetBook busca um livro pelo id. Ausência é reportada com dyndb.ErrNotFound.
func (s *Service) GetBook(ctx context.Context, id string) (Book, error) {
	if id == "" {
		return Book{}, NewValidationError("book_id is required")
	}

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("catalog: get book %q: %w", id, err)
	}

	b, err := rec.Book()
	if err != nil {
		return Book{}, fmt.Errorf("catalog: get book %q: %w", id, err)
	}
	return b, nil
}

// CreateBook valida o pedido, gera um id novo e grava o registro
// incondicionalmente.
func (s *Service) CreateBook(ctx context.Context, req CreateBookRequest) (Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return Book{}, err
	}

	id := s.newID()
	if id == "" {
		return Book{}, errors.New("catalog: id generator returned an empty id")
	}

	rec := RecordFromRequest(id, req)
	s.log(ctx).Info().Interface("record", rec).Msg("saving book")

	if err := s.store.Put(ctx, rec); err != nil {
		return Book{}, fmt.Errorf("catalog: create book: %w", err)
	}

	s.record(ctx, metrics.BookCreated, 1)
	return rec.Book()
}

// log prefere o logger da requisição (com correlation id) ao do serviço.
func (s *Service) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}

func (s *Service) record(ctx context.Context, id string, value float64) {
	if err := s.metrics.Record(id, value, nil); err != nil {
		s.log(ctx).Warn().Err(err).Str("metric", id).Msg("failed to emit metric")
	}
}
