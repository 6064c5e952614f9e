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
	"fmt"
)

// Book é o formato público devolvido pela API.
type Book struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	ISBN    string   `json:"isbn"`
	Authors []string `json:"authors"`
	Pages   int      `json:"pages"`
}

// Record é o formato persistido na tabela. Os nomes dos atributos são os
// mesmos usados no log de criação.
type Record struct {
	ID      string   `dynamodbav:"Id" json:"Id"`
	Title   string   `dynamodbav:"Title" json:"Title"`
	ISBN    string   `dynamodbav:"ISBN" json:"ISBN"`
	Authors []string `dynamodbav:"Authors" json:"Authors"`
	Pages   *int     `dynamodbav:"Pages" json:"Pages"`
}

// RecordAttributes lista os atributos projetados no Scan.
var RecordAttributes = []string{"Id", "Title", "ISBN", "Authors", "Pages"}

// CreateBookRequest é o corpo aceito por POST /books. Não existe campo de id:
// um "id" enviado pelo cliente é descartado na decodificação.
type CreateBookRequest struct {
	Title   string   `json:"title" validate:"required"`
	ISBN    string   `json:"isbn" validate:"required"`
	Authors []string `json:"authors" validate:"required,dive,required"`
	Pages   *int     `json:"pages" validate:"required,gte=0"`
}

// Page é o resultado de uma listagem.
type Page struct {
	Books            []Book  `json:"books"`
	LastEvaluatedKey *string `json:"lastEvaluatedKey"`
}

// ListInput carrega os parâmetros opcionais de listagem.
type ListInput struct {
	Limit  *int32
	Cursor string
}

// RecordFromRequest monta o registro a ser gravado com o id já gerado.
func RecordFromRequest(id string, req CreateBookRequest) Record {
	authors := make([]string, len(req.Authors))
	copy(authors, req.Authors)

	var pages *int
	if req.Pages != nil {
		p := *req.Pages
		pages = &p
	}

	return Record{
		ID:      id,
		Title:   req.Title,
		ISBN:    req.ISBN,
		Authors: authors,
		Pages:   pages,
	}
}

// Book converte o registro para o formato público. Registros incompletos
// na tabela são reportados como erro.
func (r Record) Book() (Book, error) {
	var missing []string
	if r.ID == "" {
		missing = append(missing, "Id")
	}
	if r.Title == "" {
		missing = append(missing, "Title")
	}
	if r.ISBN == "" {
		missing = append(missing, "ISBN")
	}
	if r.Authors == nil {
		missing = append(missing, "Authors")
	}
	if r.Pages == nil {
		missing = append(missing, "Pages")
	}
	if len(missing) > 0 {
		return Book{}, &CorruptRecordError{ID: r.ID, Missing: missing}
	}

	authors := make([]string, len(r.Authors))
	copy(authors, r.Authors)

	return Book{
		ID:      r.ID,
		Title:   r.Title,
		ISBN:    r.ISBN,
		Authors: authors,
		Pages:   *r.Pages,
	}, nil
}

// CorruptRecordError indica um item armazenado sem os atributos obrigatórios.
type CorruptRecordError struct {
	ID      string
	Missing []string
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("catalog: stored record %q is missing attributes %v", e.ID, e.Missing)
}
