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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/raywall/book-catalog/dyndb"
	"github.com/raywall/book-catalog/pkg/catalog"
	"github.com/rs/zerolog"
)

type errorBody struct {
	Error   string               `json:"error"`
	Details []catalog.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError é o único ponto que traduz erros do domínio em status HTTP.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *catalog.ValidationError

	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Error(), Details: ve.Fields})
	case errors.Is(err, dyndb.ErrInvalidCursor):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid lastEvaluatedKey"})
	case errors.Is(err, dyndb.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}
