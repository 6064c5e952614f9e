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
package emulator

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Limite de payload síncrono do Lambda
const maxPayloadBytes = 6 << 20

// ErrPayloadTooLarge indica corpo acima do limite de invocação síncrona
var ErrPayloadTooLarge = errors.New("emulator: payload too large")

// Invoker é a assinatura do handler Lambda invocado pelo gateway
type Invoker func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// Gateway converte requisições HTTP em eventos v2 e devolve a resposta da função
type Gateway struct {
	invoke Invoker
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

func NewGateway(invoke Invoker, logger zerolog.Logger) *Gateway {
	return &Gateway{
		invoke: invoke,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	event, err := g.NewEvent(r)
	if err != nil {
		g.logger.Warn().Err(err).Msg("requisição rejeitada pelo gateway")
		if errors.Is(err, ErrPayloadTooLarge) {
			writeGatewayError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large")
			return
		}
		writeGatewayError(w, http.StatusBadRequest, "Bad Request")
		return
	}

	resp, err := g.invoke(r.Context(), event)
	if err != nil {
		// API Gateway responde 500 quando a função falha
		g.logger.Error().Err(err).Str("request_id", event.RequestContext.RequestID).Msg("falha na invocação")
		writeGatewayError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	body, err := responseBody(resp)
	if err != nil {
		g.logger.Error().Err(err).Str("request_id", event.RequestContext.RequestID).Msg("resposta inválida da função")
		writeGatewayError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	// status já enviado: falhas de escrita só podem ser registradas
	if err := writeResponse(w, resp, body); err != nil {
		g.logger.Warn().Err(err).Str("request_id", event.RequestContext.RequestID).Msg("falha ao escrever resposta")
	}
}

// NewEvent monta o evento que o API Gateway entregaria para a requisição
func (g *Gateway) NewEvent(r *http.Request) (events.APIGatewayV2HTTPRequest, error) {
	var body []byte
	if r.Body != nil {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
		if err != nil {
			return events.APIGatewayV2HTTPRequest{}, fmt.Errorf("emulator: read body: %w", err)
		}
		if len(raw) > maxPayloadBytes {
			return events.APIGatewayV2HTTPRequest{}, fmt.Errorf("%w: body exceeds %d bytes", ErrPayloadTooLarge, maxPayloadBytes)
		}
		body = raw
	}

	headers := make(map[string]string, len(r.Header))
	for k, v := range r.Header {
		if strings.EqualFold(k, "Cookie") {
			continue
		}
		headers[strings.ToLower(k)] = strings.Join(v, ",")
	}

	var cookies []string
	for _, c := range r.Cookies() {
		cookies = append(cookies, c.String())
	}

	query := make(map[string]string)
	for k, v := range r.URL.Query() {
		query[k] = strings.Join(v, ",")
	}

	now := g.now()
	event := events.APIGatewayV2HTTPRequest{
		Version:               "2.0",
		RouteKey:              "$default",
		RawPath:               r.URL.EscapedPath(),
		RawQueryString:        r.URL.RawQuery,
		Cookies:               cookies,
		Headers:               headers,
		QueryStringParameters: query,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			RouteKey:   "$default",
			Stage:      "$default",
			RequestID:  g.newID(),
			DomainName: r.Host,
			Time:       now.UTC().Format("02/Jan/2006:15:04:05 -0700"),
			TimeEpoch:  now.UnixMilli(),
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:    r.Method,
				Path:      r.URL.Path,
				Protocol:  r.Proto,
				SourceIP:  sourceIP(r.RemoteAddr),
				UserAgent: r.UserAgent(),
			},
		},
	}

	if len(body) > 0 {
		if utf8.Valid(body) {
			event.Body = string(body)
		} else {
			event.Body = base64.StdEncoding.EncodeToString(body)
			event.IsBase64Encoded = true
		}
	}
	return event, nil
}

func responseBody(resp events.APIGatewayV2HTTPResponse) ([]byte, error) {
	if !resp.IsBase64Encoded {
		return []byte(resp.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("emulator: decode response body: %w", err)
	}
	return decoded, nil
}

func writeResponse(w http.ResponseWriter, resp events.APIGatewayV2HTTPResponse, body []byte) error {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	for k, values := range resp.MultiValueHeaders {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	for _, c := range resp.Cookies {
		w.Header().Add("Set-Cookie", c)
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

func writeGatewayError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"message":%q}`, message)
}

func sourceIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
