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
package catalog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/raywall/book-catalog/dyndb"
	"github.com/raywall/book-catalog/dyndb/dyndbtest"
	"github.com/raywall/book-catalog/pkg/catalog"
	"github.com/raywall/book-catalog/pkg/metrics"
	"github.com/raywall/book-catalog/pkg/metrics/metricstest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func int32Ptr(v int32) *int32 { return &v }

func newStore(client dyndb.DynamoDBClient) dyndb.Store[catalog.Record] {
	return dyndb.New[catalog.Record](client, dyndb.TableConfig{TableName: "books", HashKey: "Id"})
}

func validRequest() catalog.CreateBookRequest {
	return catalog.CreateBookRequest{
		Title:   "Dune",
		ISBN:    "978-0441013593",
		Authors: []string{"Frank Herbert"},
		Pages:   intPtr(412),
	}
}

func TestCreateBook_GeneratesFreshIDs(t *testing.T) {
	client := dyndbtest.NewMemoryClient("Id")
	svc := catalog.NewService(newStore(client))
	ctx := context.Background()

	first, err := svc.CreateBook(ctx, validRequest())
	require.NoError(t, err)
	second, err := svc.CreateBook(ctx, validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, client.Len())
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	client := dyndbtest.NewMemoryClient("Id")
	svc := catalog.NewService(newStore(client))
	ctx := context.Background()

	req := validRequest()
	req.Authors = []string{"Frank Herbert", "Brian Herbert"}

	created, err := svc.CreateBook(ctx, req)
	require.NoError(t, err)

	got, err := svc.GetBook(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, catalog.Book{
		ID:      created.ID,
		Title:   "Dune",
		ISBN:    "978-0441013593",
		Authors: []string{"Frank Herbert", "Brian Herbert"},
		Pages:   412,
	}, got)
}

func TestCreateBook_AllowsZeroPagesAndNoAuthors(t *testing.T) {
	svc := catalog.NewService(newStore(dyndbtest.NewMemoryClient("Id")))

	req := validRequest()
	req.Pages = intPtr(0)
	req.Authors = []string{}

	book, err := svc.CreateBook(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 0, book.Pages)
	assert.NotNil(t, book.Authors)
	assert.Empty(t, book.Authors)
}

func TestCreateBook_InvalidRequestNeverReachesStorage(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*catalog.CreateBookRequest)
		field  string
	}{
		{name: "missing title", mutate: func(r *catalog.CreateBookRequest) { r.Title = "" }, field: "title"},
		{name: "missing isbn", mutate: func(r *catalog.CreateBookRequest) { r.ISBN = "" }, field: "isbn"},
		{name: "missing authors", mutate: func(r *catalog.CreateBookRequest) { r.Authors = nil }, field: "authors"},
		{name: "empty author", mutate: func(r *catalog.CreateBookRequest) { r.Authors = []string{"Frank Herbert", ""} }, field: "authors[1]"},
		{name: "missing pages", mutate: func(r *catalog.CreateBookRequest) { r.Pages = nil }, field: "pages"},
		{name: "negative pages", mutate: func(r *catalog.CreateBookRequest) { r.Pages = intPtr(-1) }, field: "pages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := dyndbtest.NewMemoryClient("Id")
			svc := catalog.NewService(newStore(client))

			req := validRequest()
			tt.mutate(&req)

			_, err := svc.CreateBook(context.Background(), req)

			var ve *catalog.ValidationError
			require.ErrorAs(t, err, &ve)
			require.NotEmpty(t, ve.Fields)
			assert.Equal(t, tt.field, ve.Fields[0].Field)
			assert.Contains(t, err.Error(), tt.field)
			assert.Zero(t, client.Calls())
		})
	}
}

func TestCreateBook_LogsRecordAndEmitsMetric(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	recorder := &metricstest.Recorder{}

	svc := catalog.NewService(
		newStore(dyndbtest.NewMemoryClient("Id")),
		catalog.WithIDGenerator(func() string { return "fixed-id" }),
		catalog.WithLogger(logger),
		catalog.WithMetrics(metrics.NewProcessor(nil, recorder)),
	)

	book, err := svc.CreateBook(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "fixed-id", book.ID)
	assert.Contains(t, buf.String(), "saving book")
	assert.Contains(t, buf.String(), `"Id":"fixed-id"`)
	assert.Contains(t, buf.String(), `"Title":"Dune"`)

	samples := recorder.ByName("books.created")
	require.Len(t, samples, 1)
	assert.Equal(t, 1.0, samples[0].Value)
}

func TestCreateBook_PrefersRequestLogger(t *testing.T) {
	var svcBuf, reqBuf bytes.Buffer
	svc := catalog.NewService(
		newStore(dyndbtest.NewMemoryClient("Id")),
		catalog.WithLogger(zerolog.New(&svcBuf)),
	)

	reqLogger := zerolog.New(&reqBuf).With().Str("correlation_id", "abc").Logger()
	ctx := reqLogger.WithContext(context.Background())

	_, err := svc.CreateBook(ctx, validRequest())

	require.NoError(t, err)
	assert.Empty(t, svcBuf.String())
	assert.Contains(t, reqBuf.String(), `"correlation_id":"abc"`)
}

func TestCreateBook_StorageFailure(t *testing.T) {
	client := dyndbtest.NewMemoryClient("Id")
	client.Err = errors.New("service unavailable")
	svc := catalog.NewService(newStore(client))

	_, err := svc.CreateBook(context.Background(), validRequest())

	require.Error(t, err)
	assert.False(t, catalog.IsValidationError(err))
	assert.ErrorIs(t, err, client.Err)
}

func TestCreateBook_EmptyGeneratedID(t *testing.T) {
	client := dyndbtest.NewMemoryClient("Id")
	svc := catalog.NewService(newStore(client), catalog.WithIDGenerator(func() string { return "" }))

	_, err := svc.CreateBook(context.Background(), validRequest())

	require.Error(t, err)
	assert.Zero(t, client.Calls())
}

func TestGetBook_NotFound(t *testing.T) {
	svc := catalog.NewService(newStore(dyndbtest.NewMemoryClient("Id")))

	_, err := svc.GetBook(context.Background(), "does-not-exist")

	assert.ErrorIs(t, err, dyndb.ErrNotFound)
}

func TestGetBook_EmptyID(t *testing.T) {
	client := dyndbtest.NewMemoryClient("Id")
	svc := catalog.NewService(newStore(client))

	_, err := svc.GetBook(context.Background(), "")

	assert.True(t, catalog.IsValidationError(err))
	assert.Zero(t, client.Calls())
}

func TestGetBook_CorruptRecord(t *testing.T) {
	client := dyndbtest.NewMemoryClient("Id")
	_, err := client.PutItem(context.Background(), &dynamodb.PutItemInput{
		Item: map[string]types.AttributeValue{
			"Id":    &types.AttributeValueMemberS{Value: "broken"},
			"Title": &types.AttributeValueMemberS{Value: "No pages"},
		},
	})
	require.NoError(t, err)
	svc := catalog.NewService(newStore(client))

	_, err = svc.GetBook(context.Background(), "broken")

	var corrupt *catalog.CorruptRecordError
	require.ErrorAs(t, err, &corrupt)
	assert.ElementsMatch(t, []string{"ISBN", "Authors", "Pages"}, corrupt.Missing)
	assert.False(t, catalog.IsValidationError(err))
}

func TestListBooks_PaginatesWithCursor(t *testing.T) {
	client := dyndbtest.NewMemoryClient("Id")
	ids := []string{"book-1", "book-2"}
	next := 0
	recorder := &metricstest.Recorder{}
	svc := catalog.NewService(newStore(client),
		catalog.WithIDGenerator(func() string { id := ids[next]; next++; return id }),
		catalog.WithMetrics(metrics.NewProcessor(nil, recorder)),
	)
	ctx := context.Background()

	for range ids {
		_, err := svc.CreateBook(ctx, validRequest())
		require.NoError(t, err)
	}

	first, err := svc.ListBooks(ctx, catalog.ListInput{Limit: int32Ptr(1)})
	require.NoError(t, err)
	require.Len(t, first.Books, 1)
	require.NotNil(t, first.LastEvaluatedKey)
	assert.Equal(t, "book-1", first.Books[0].ID)

	second, err := svc.ListBooks(ctx, catalog.ListInput{Limit: int32Ptr(1), Cursor: *first.LastEvaluatedKey})
	require.NoError(t, err)
	require.Len(t, second.Books, 1)
	assert.Equal(t, "book-2", second.Books[0].ID)

	assert.Len(t, recorder.ByName("books.page_size"), 2)
}

func TestListBooks_LastPageHasNoCursor(t *testing.T) {
	svc := catalog.NewService(newStore(dyndbtest.NewMemoryClient("Id")))
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, validRequest())
	require.NoError(t, err)

	page, err := svc.ListBooks(ctx, catalog.ListInput{})

	require.NoError(t, err)
	assert.Len(t, page.Books, 1)
	assert.Nil(t, page.LastEvaluatedKey)
}

func TestListBooks_EmptyTable(t *testing.T) {
	svc := catalog.NewService(newStore(dyndbtest.NewMemoryClient("Id")))

	page, err := svc.ListBooks(context.Background(), catalog.ListInput{})

	require.NoError(t, err)
	assert.NotNil(t, page.Books)
	assert.Empty(t, page.Books)
	assert.Nil(t, page.LastEvaluatedKey)
}

func TestListBooks_RejectsNonPositiveLimit(t *testing.T) {
	mockClient := &dyndbtest.MockDynamoClient{}
	svc := catalog.NewService(newStore(mockClient))

	for _, limit := range []int32{0, -5} {
		_, err := svc.ListBooks(context.Background(), catalog.ListInput{Limit: int32Ptr(limit)})
		assert.True(t, catalog.IsValidationError(err))
	}
	mockClient.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything)
}

func TestListBooks_InvalidCursor(t *testing.T) {
	mockClient := &dyndbtest.MockDynamoClient{}
	svc := catalog.NewService(newStore(mockClient))

	_, err := svc.ListBooks(context.Background(), catalog.ListInput{Cursor: "not a cursor"})

	assert.ErrorIs(t, err, dyndb.ErrInvalidCursor)
	mockClient.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything)
}

func TestListBooks_ProjectsRecordAttributes(t *testing.T) {
	mockClient := &dyndbtest.MockDynamoClient{}
	svc := catalog.NewService(newStore(mockClient))

	mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.ProjectionExpression != nil && len(in.ExpressionAttributeNames) == len(catalog.RecordAttributes)
	})).Return(&dynamodb.ScanOutput{}, nil)

	_, err := svc.ListBooks(context.Background(), catalog.ListInput{})

	require.NoError(t, err)
	mockClient.AssertExpectations(t)
}
