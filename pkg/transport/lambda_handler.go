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
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"
)

// LambdaHandler adapta eventos do API Gateway (HTTP API, payload v2) para o
// mesmo http.Handler usado pelo servidor local.
type LambdaHandler struct {
	handler http.Handler
	logger  zerolog.Logger
}

// NewLambdaHandler cria uma nova instância do adaptador
func NewLambdaHandler(handler http.Handler, logger zerolog.Logger) *LambdaHandler {
	return &LambdaHandler{handler: handler, logger: logger}
}

// Handle processa a requisição Lambda. Falhas da requisição viram respostas
// HTTP; o erro devolvido é sempre nil.
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	start := time.Now()

	requestID := req.RequestContext.RequestID
	if lc, ok := lambdacontext.FromContext(ctx); ok && requestID == "" {
		requestID = lc.AwsRequestID
	}
	logger := h.logger.With().Str("aws_request_id", requestID).Logger()
	ctx = logger.WithContext(ctx)

	httpReq, err := NewHTTPRequest(ctx, req)
	if err != nil {
		logger.Warn().Err(err).Msg("evento do API Gateway inválido")
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"invalid request"}`,
		}, nil
	}

	rw := newAPIGatewayResponseWriter()
	h.handler.ServeHTTP(rw, httpReq)
	response := rw.response()

	logger.Debug().
		Str("method", httpReq.Method).
		Str("path", httpReq.URL.Path).
		Int("status", response.StatusCode).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Msg("lambda request completed")

	return response, nil
}

// NewHTTPRequest converte o evento v2 em *http.Request: raw path, raw query
// string, headers, cookies e corpo (decodificado se vier em base64).
func NewHTTPRequest(ctx context.Context, req events.APIGatewayV2HTTPRequest) (*http.Request, error) {
	method := req.RequestContext.HTTP.Method
	if method == "" {
		return nil, errors.New("transport: event without http method")
	}

	path := req.RawPath
	if path == "" {
		path = req.RequestContext.HTTP.Path
	}
	if path == "" {
		path = "/"
	}
	target := path
	if req.RawQueryString != "" {
		target += "?" + req.RawQueryString
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, fmt.Errorf("transport: decode base64 body: %w", err)
		}
		body = decoded
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if len(req.Cookies) > 0 {
		httpReq.Header.Set("Cookie", strings.Join(req.Cookies, "; "))
	}
	if req.RequestContext.DomainName != "" {
		httpReq.Host = req.RequestContext.DomainName
	}
	httpReq.RemoteAddr = req.RequestContext.HTTP.SourceIP
	httpReq.RequestURI = target

	return httpReq, nil
}
