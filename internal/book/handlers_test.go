package book_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/libraria-al/backend-libraria/internal/book"
	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

type booksResponse struct {
	Data       []book.Item `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		PerPage    int `json:"per_page"`
		TotalItems int `json:"total_items"`
	} `json:"pagination"`
}

type bookDetailResponse struct {
	Data book.Item `json:"data"`
}

type fakeBookQueries struct {
	books []dbgen.Book
}

func (f *fakeBookQueries) CountBooks(_ context.Context, _ dbgen.CountBooksParams) (int64, error) {
	return int64(len(f.books)), nil
}

func (f *fakeBookQueries) ListBooks(_ context.Context, arg dbgen.ListBooksParams) ([]dbgen.Book, error) {
	end := int(arg.OffsetValue + arg.LimitValue)
	if end > len(f.books) {
		end = len(f.books)
	}
	start := int(arg.OffsetValue)
	if start > len(f.books) {
		start = len(f.books)
	}
	return f.books[start:end], nil
}

func (f *fakeBookQueries) GetBookByID(_ context.Context, id pgtype.UUID) (dbgen.Book, error) {
	for _, b := range f.books {
		if b.ID == id {
			return b, nil
		}
	}
	return dbgen.Book{}, pgx.ErrNoRows
}

func (f *fakeBookQueries) GetBookBySlug(_ context.Context, slug string) (dbgen.Book, error) {
	for _, b := range f.books {
		if b.Slug == slug && b.Active {
			return b, nil
		}
	}
	return dbgen.Book{}, pgx.ErrNoRows
}

func newTestBook(title, slug string, hasDigital bool) dbgen.Book {
	return dbgen.Book{
		ID:              pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Title:           title,
		Slug:            slug,
		Author:          "Ismail Kadare",
		PriceAll:        2500,
		PriceEur:        2000,
		DigitalPriceAll: 1200,
		DigitalPriceEur: 1000,
		Inventory:       3,
		HasDigital:      hasDigital,
		Active:          true,
	}
}

func TestBookHandlers(t *testing.T) {
	queries := &fakeBookQueries{books: []dbgen.Book{
		newTestBook("Gjenerali i ushtrise se vdekur", "gjenerali", true),
		newTestBook("Kronike ne gur", "kronike-ne-gur", false),
	}}
	svc, err := book.NewService(book.ServiceConfig{
		Queries:      queries,
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	})
	require.NoError(t, err)

	handler := book.NewHandler(book.HandlerConfig{Service: svc})

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
		rec := httptest.NewRecorder()
		handler.List(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "2", rec.Header().Get("X-Total-Count"))
		var resp booksResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 2)
		require.Equal(t, 2, resp.Pagination.TotalItems)
		require.NotNil(t, resp.Data[0].DigitalPrices)
		require.Nil(t, resp.Data[1].DigitalPrices)
	})

	t.Run("list pagination", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/books?limit=1&page=2", nil)
		rec := httptest.NewRecorder()
		handler.List(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp booksResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		require.Equal(t, "kronike-ne-gur", resp.Data[0].Slug)
	})

	t.Run("list rejects bad page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/books?page=zero", nil)
		rec := httptest.NewRecorder()
		handler.List(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("detail by slug", func(t *testing.T) {
		req := newDetailRequest(t, "gjenerali")
		rec := httptest.NewRecorder()
		handler.Detail(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp bookDetailResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "Gjenerali i ushtrise se vdekur", resp.Data.Title)
		require.True(t, resp.Data.InStock)
	})

	t.Run("detail by id", func(t *testing.T) {
		id := uuid.UUID(queries.books[1].ID.Bytes).String()
		req := newDetailRequest(t, id)
		rec := httptest.NewRecorder()
		handler.Detail(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp bookDetailResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "kronike-ne-gur", resp.Data.Slug)
	})

	t.Run("detail missing", func(t *testing.T) {
		req := newDetailRequest(t, "nuk-ekziston")
		rec := httptest.NewRecorder()
		handler.Detail(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func newDetailRequest(t *testing.T, id string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
