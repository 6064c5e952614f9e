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
	"net/http"

	"github.com/gorilla/mux"
)

// Route liga método e caminho a um handler.
type Route struct {
	Name    string
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Routes é a tabela de rotas do catálogo.
func Routes(h *BookHandler) []Route {
	return []Route{
		{Name: "listBooks", Method: http.MethodGet, Path: "/books", Handler: h.ListBooks},
		{Name: "getBook", Method: http.MethodGet, Path: "/books/{book_id}", Handler: h.GetBook},
		{Name: "createBook", Method: http.MethodPost, Path: "/books", Handler: h.CreateBook},
	}
}

// NewRouter registra a tabela de rotas em um gorilla/mux Router. Rotas
// desconhecidas respondem 404 e métodos não suportados 405, ambos em JSON.
func NewRouter(routes []Route) *mux.Router {
	router := mux.NewRouter()
	for _, rt := range routes {
		router.HandleFunc(rt.Path, rt.Handler).Methods(rt.Method).Name(rt.Name)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "route not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})
	return router
}

// NewHandler monta o http.Handler completo: rotas do catálogo envolvidas
// pelo middleware de observabilidade. É o mesmo handler servido pelo
// servidor local e pelo LambdaHandler.
func NewHandler(svc BookService, obs Observability) http.Handler {
	router := NewRouter(Routes(NewBookHandler(svc)))
	obs.router = router
	return ObservabilityMiddleware(router, obs)
}

// routeTemplate devolve o padrão da rota que atende r, usado como tag de
// métrica para não explodir a cardinalidade com ids.
func routeTemplate(router *mux.Router, r *http.Request) string {
	if router == nil {
		return "unknown"
	}
	var match mux.RouteMatch
	if router.Match(r, &match) && match.Route != nil {
		if tmpl, err := match.Route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}
