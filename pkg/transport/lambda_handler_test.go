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
package transport_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/raywall/book-catalog/pkg/catalog"
	"github.com/raywall/book-catalog/pkg/transport"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiEvent(method, rawPath, rawQuery, body string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		Version:        "2.0",
		RawPath:        rawPath,
		RawQueryString: rawQuery,
		Body:           body,
		Headers:        map[string]string{"content-type": "application/json"},
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			RequestID:  "req-id",
			DomainName: "api.example.com",
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:   method,
				Path:     rawPath,
				SourceIP: "203.0.113.10",
			},
		},
	}
}

func newLambda(t *testing.T) (*transport.LambdaHandler, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return transport.NewLambdaHandler(env.handler, zerolog.Nop()), env
}

func TestLambdaHandler_CreateGetAndList(t *testing.T) {
	h, _ := newLambda(t)
	ctx := context.Background()

	resp, err := h.Handle(ctx, apiEvent(http.MethodPost, "/books", "", duneJSON))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.NotEmpty(t, resp.Headers["X-Correlation-Id"])

	var created catalog.Book
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &created))

	resp, err = h.Handle(ctx, apiEvent(http.MethodGet, "/books/"+created.ID, "", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got catalog.Book
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &got))
	assert.Equal(t, created, got)

	_, err = h.Handle(ctx, apiEvent(http.MethodPost, "/books", "",
		`{"title":"Emma","isbn":"978-0141439587","authors":["Jane Austen"],"pages":474}`))
	require.NoError(t, err)

	resp, err = h.Handle(ctx, apiEvent(http.MethodGet, "/books", "limit=1", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page catalog.Page
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &page))
	require.Len(t, page.Books, 1)
	require.NotNil(t, page.LastEvaluatedKey)

	resp, err = h.Handle(ctx, apiEvent(http.MethodGet, "/books",
		"limit=1&lastEvaluatedKey="+url.QueryEscape(*page.LastEvaluatedKey), ""))
	require.NoError(t, err)
	var next catalog.Page
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &next))
	require.Len(t, next.Books, 1)
	assert.NotEqual(t, page.Books[0].ID, next.Books[0].ID)
}

func TestLambdaHandler_Base64Body(t *testing.T) {
	h, _ := newLambda(t)

	event := apiEvent(http.MethodPost, "/books", "", base64.StdEncoding.EncodeToString([]byte(duneJSON)))
	event.IsBase64Encoded = true

	resp, err := h.Handle(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body)
}

func TestLambdaHandler_NotFoundHasEmptyBody(t *testing.T) {
	h, _ := newLambda(t)

	resp, err := h.Handle(context.Background(), apiEvent(http.MethodGet, "/books/nope", "", ""))

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, resp.Body)
}

func TestLambdaHandler_RequestFailuresAreResponses(t *testing.T) {
	h, env := newLambda(t)
	ctx := context.Background()

	resp, err := h.Handle(ctx, apiEvent("", "/books", "", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	event := apiEvent(http.MethodPost, "/books", "", "%%%")
	event.IsBase64Encoded = true
	resp, err = h.Handle(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = h.Handle(ctx, apiEvent(http.MethodPost, "/books", "", `{"title":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env.client.Err = assert.AnError
	resp, err = h.Handle(ctx, apiEvent(http.MethodGet, "/books", "", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestNewHTTPRequest_MapsEvent(t *testing.T) {
	event := apiEvent(http.MethodGet, "/books/a%2Fb", "limit=5&lastEvaluatedKey=abc", "")
	event.Headers["x-correlation-id"] = "corr-9"
	event.Cookies = []string{"session=1", "theme=dark"}

	req, err := transport.NewHTTPRequest(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/books/a/b", req.URL.Path)
	assert.Equal(t, "/books/a%2Fb", req.URL.EscapedPath())
	assert.Equal(t, "5", req.URL.Query().Get("limit"))
	assert.Equal(t, "abc", req.URL.Query().Get("lastEvaluatedKey"))
	assert.Equal(t, "corr-9", req.Header.Get("X-Correlation-Id"))
	assert.Equal(t, "api.example.com", req.Host)
	assert.Equal(t, "203.0.113.10", req.RemoteAddr)

	cookie, err := req.Cookie("theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", cookie.Value)
}

func TestNewHTTPRequest_FallsBackToContextPath(t *testing.T) {
	event := apiEvent(http.MethodGet, "", "", "")
	event.RequestContext.HTTP.Path = "/books"

	req, err := transport.NewHTTPRequest(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, "/books", req.URL.Path)
}

func TestLambdaHandler_RequestIDFromLambdaContext(t *testing.T) {
	env := newTestEnv(t)
	var logs bytes.Buffer
	h := transport.NewLambdaHandler(env.handler, zerolog.New(&logs).Level(zerolog.DebugLevel))

	event := apiEvent(http.MethodGet, "/books", "", "")
	event.RequestContext.RequestID = ""
	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "lambda-req-7"})

	resp, err := h.Handle(ctx, event)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, logs.String(), `"aws_request_id":"lambda-req-7"`)
}
