package book

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/libraria-al/backend-libraria/internal/common"
	dbgen "github.com/libraria-al/backend-libraria/internal/db/gen"
)

type queryProvider interface {
	CountBooks(ctx context.Context, arg dbgen.CountBooksParams) (int64, error)
	ListBooks(ctx context.Context, arg dbgen.ListBooksParams) ([]dbgen.Book, error)
	GetBookByID(ctx context.Context, id pgtype.UUID) (dbgen.Book, error)
	GetBookBySlug(ctx context.Context, slug string) (dbgen.Book, error)
}

// Service orchestrates book queries, DTO assembly, and caching.
type Service struct {
	queries      queryProvider
	cache        *Cache
	defaultPage  int
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries      queryProvider
	Cache        *Cache
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// ListParams captures filters for book listing.
type ListParams struct {
	Query      string
	HasDigital *bool
	Page       int
	Limit      int
}

// Prices groups the per-currency price columns of one book.
type Prices struct {
	All int64 `json:"all"`
	Eur int64 `json:"eur"`
}

// Item is the public book payload.
type Item struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Slug          string  `json:"slug"`
	Author        string  `json:"author"`
	Prices        Prices  `json:"prices"`
	DigitalPrices *Prices `json:"digitalPrices,omitempty"`
	HasDigital    bool    `json:"hasDigital"`
	InStock       bool    `json:"inStock"`
	Inventory     int32   `json:"inventory"`
}

// ListResult contains list data and pagination metadata.
type ListResult struct {
	Items []Item
	Total int64
	Page  int
	Limit int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("book: queries provider is required")
	}
	defaultPage := cfg.DefaultPage
	if defaultPage < 1 {
		defaultPage = 1
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		queries:      cfg.Queries,
		cache:        cfg.Cache,
		defaultPage:  defaultPage,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// ParseListParams normalises raw query values into strongly typed filters.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{
		Page:  s.defaultPage,
		Limit: s.defaultLimit,
	}
	params.Query = strings.TrimSpace(values.Get("q"))

	if v := strings.TrimSpace(values.Get("page")); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return params, badRequest("page", "page must be a positive integer", err)
		}
		params.Page = page
	}

	limit := s.defaultLimit
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 {
			return params, badRequest("limit", "limit must be a positive integer", err)
		}
		limit = l
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	params.Limit = limit

	if v := strings.TrimSpace(values.Get("hasDigital")); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return params, badRequest("hasDigital", "hasDigital must be true or false", err)
		}
		params.HasDigital = &b
	}
	return params, nil
}

// List returns the filtered book list with pagination metadata.
func (s *Service) List(ctx context.Context, params ListParams) (ListResult, error) {
	key, shouldUseCache := s.listCacheKey(params)
	if shouldUseCache && s.cache != nil {
		var cached cachedList
		ok, err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil && ok {
			return ListResult{Items: cached.Items, Total: cached.Total, Page: params.Page, Limit: params.Limit}, nil
		}
	}

	countParams := dbgen.CountBooksParams{
		Q:          optionalStringValue(params.Query),
		HasDigital: optionalBool(params.HasDigital),
	}
	total, err := s.queries.CountBooks(ctx, countParams)
	if err != nil {
		return ListResult{}, fmt.Errorf("count books: %w", err)
	}
	offset := int32((params.Page - 1) * params.Limit)
	if offset < 0 {
		offset = 0
	}
	rows, err := s.queries.ListBooks(ctx, dbgen.ListBooksParams{
		Q:           countParams.Q,
		HasDigital:  countParams.HasDigital,
		LimitValue:  int32(params.Limit),
		OffsetValue: offset,
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("list books: %w", err)
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, toItem(row))
	}
	result := ListResult{Items: items, Total: total, Page: params.Page, Limit: params.Limit}
	if shouldUseCache && s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, cachedList{Items: items, Total: total})
	}
	return result, nil
}

// Get returns one book by id or slug.
func (s *Service) Get(ctx context.Context, idOrSlug string) (Item, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return Item{}, badRequest("id", "book id is required", nil)
	}
	cacheKey := detailCacheKey(idOrSlug)
	if s.cache != nil {
		var cached Item
		ok, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && ok {
			return cached, nil
		}
	}
	row, err := s.lookup(ctx, idOrSlug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, &common.AppError{Code: "NOT_FOUND", Message: "book not found", HTTPStatus: http.StatusNotFound, Err: err}
		}
		return Item{}, fmt.Errorf("get book: %w", err)
	}
	if !row.Active {
		return Item{}, &common.AppError{Code: "NOT_FOUND", Message: "book not found", HTTPStatus: http.StatusNotFound}
	}
	item := toItem(row)
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cacheKey, item)
	}
	return item, nil
}

func (s *Service) lookup(ctx context.Context, idOrSlug string) (dbgen.Book, error) {
	if parsed, err := uuid.Parse(idOrSlug); err == nil {
		return s.queries.GetBookByID(ctx, pgtype.UUID{Bytes: parsed, Valid: true})
	}
	return s.queries.GetBookBySlug(ctx, idOrSlug)
}

func toItem(row dbgen.Book) Item {
	item := Item{
		ID:         uuidString(row.ID),
		Title:      row.Title,
		Slug:       row.Slug,
		Author:     row.Author,
		Prices:     Prices{All: row.PriceAll, Eur: row.PriceEur},
		HasDigital: row.HasDigital,
		InStock:    row.Inventory > 0,
		Inventory:  row.Inventory,
	}
	if row.HasDigital {
		item.DigitalPrices = &Prices{All: row.DigitalPriceAll, Eur: row.DigitalPriceEur}
	}
	return item
}

type cachedList struct {
	Items []Item `json:"items"`
	Total int64  `json:"total"`
}

func (s *Service) listCacheKey(params ListParams) (string, bool) {
	if params.Page != s.defaultPage {
		return "", false
	}
	if params.Limit != s.defaultLimit {
		return "", false
	}
	if params.Query != "" || params.HasDigital != nil {
		return "", false
	}
	return "books:list:front", true
}

func detailCacheKey(idOrSlug string) string {
	return "books:detail:" + idOrSlug
}

func optionalStringValue(value string) any {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return trimmed
}

func optionalBool(ptr *bool) any {
	if ptr == nil {
		return nil
	}
	return *ptr
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "y":
		return true, nil
	case "false", "0", "no", "n":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean: %s", value)
	}
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

func badRequest(field, message string, err error) *common.AppError {
	return &common.AppError{
		Code:       "BAD_REQUEST",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
		Details: map[string]any{
			"field": field,
		},
	}
}
