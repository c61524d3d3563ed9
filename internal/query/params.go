// Package query assembles paginated, aggregate-enriched read models.
// Everything it returns respects ban state: banned content and banned
// reactors are invisible except in the banned-users listing, whose
// whole purpose is to show them.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"inkwell/internal/database"
)

const (
	// DefaultPageNumber is 1-indexed.
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	DefaultSortBy     = "createdAt"
)

// ListParams is the shared pagination contract for every listing
// operation. Malformed inputs degrade to defaults rather than failing.
type ListParams struct {
	PageNumber      int
	PageSize        int
	SortBy          string
	SortDesc        bool
	SearchNameTerm  string
	SearchLoginTerm string
}

// DefaultListParams returns the contract defaults: page 1, size 10,
// createdAt descending, no search terms.
func DefaultListParams() ListParams {
	return ListParams{
		PageNumber: DefaultPageNumber,
		PageSize:   DefaultPageSize,
		SortBy:     DefaultSortBy,
		SortDesc:   true,
	}
}

// ParseListParams reads pagination query parameters. Absent or
// non-numeric page/size values fall back to defaults; an unknown sort
// direction means descending.
func ParseListParams(values url.Values) ListParams {
	p := DefaultListParams()

	if n, err := strconv.Atoi(values.Get("pageNumber")); err == nil && n > 0 {
		p.PageNumber = n
	}
	if n, err := strconv.Atoi(values.Get("pageSize")); err == nil && n > 0 {
		p.PageSize = n
	}
	if sortBy := strings.TrimSpace(values.Get("sortBy")); sortBy != "" {
		p.SortBy = sortBy
	}
	if strings.EqualFold(values.Get("sortDirection"), "asc") {
		p.SortDesc = false
	}
	p.SearchNameTerm = values.Get("searchNameTerm")
	p.SearchLoginTerm = values.Get("searchLoginTerm")
	return p
}

// Skip is the offset of the first item on the requested page.
func (p ListParams) Skip() int {
	return (p.PageNumber - 1) * p.PageSize
}

// Options translates the params into the store-level slice contract.
func (p ListParams) Options() database.ListOptions {
	return database.ListOptions{
		SortBy:   p.SortBy,
		SortDesc: p.SortDesc,
		Skip:     p.Skip(),
		Limit:    p.PageSize,
	}
}

// Page is the envelope every listing returns. PagesCount is
// ceil(TotalCount/PageSize); Items is the slice for the requested page
// under the same filter and sort the count was taken with.
type Page[T any] struct {
	PagesCount int `json:"pagesCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	Items      []T `json:"items"`
}

// NewPage builds the envelope. A nil items slice becomes an empty one
// so the JSON boundary always renders [].
func NewPage[T any](p ListParams, totalCount int, items []T) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		PagesCount: pagesCount(totalCount, p.PageSize),
		Page:       p.PageNumber,
		PageSize:   p.PageSize,
		TotalCount: totalCount,
		Items:      items,
	}
}

func pagesCount(totalCount, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}
