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
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/raywall/book-catalog/pkg/catalog"
)

const maxBodyBytes = 1 << 20

// BookService é o que a camada HTTP precisa do catálogo.
type BookService interface {
	ListBooks(ctx context.Context, in catalog.ListInput) (catalog.Page, error)
	GetBook(ctx context.Context, id string) (catalog.Book, error)
	CreateBook(ctx context.Context, req catalog.CreateBookRequest) (catalog.Book, error)
}

// BookHandler traduz requisições HTTP em chamadas ao catálogo.
type BookHandler struct {
	svc BookService
}

// NewBookHandler cria os handlers de /books.
func NewBookHandler(svc BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

// ListBooks atende GET /books?limit=&lastEvaluatedKey=.
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := catalog.ListInput{Cursor: q.Get("lastEvaluatedKey")}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			writeError(w, r, catalog.NewValidationError("limit must be a positive integer"))
			return
		}
		limit := int32(n)
		in.Limit = &limit
	}

	page, err := h.svc.ListBooks(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetBook atende GET /books/{book_id}.
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.svc.GetBook(r.Context(), mux.Vars(r)["book_id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// CreateBook atende POST /books.
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreateRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	book, err := h.svc.CreateBook(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

// decodeCreateRequest lê o corpo JSON. Erros de formato viram
// *catalog.ValidationError para responder 400.
func decodeCreateRequest(r *http.Request) (catalog.CreateBookRequest, error) {
	var req catalog.CreateBookRequest

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return req, fmt.Errorf("transport: read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return req, catalog.NewValidationError("request body too large")
	}
	if len(body) == 0 {
		return req, catalog.NewValidationError("request body is required")
	}

	if err := json.Unmarshal(body, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return req, catalog.NewValidationError("field '%s' must be %s", typeErr.Field, typeErr.Type)
		}
		return req, catalog.NewValidationError("request body must be a JSON object")
	}
	return req, nil
}
