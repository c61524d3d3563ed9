package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseListParams_Defaults(t *testing.T) {
	p := ParseListParams(url.Values{})

	assert.Equal(t, 1, p.PageNumber)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, "createdAt", p.SortBy)
	assert.True(t, p.SortDesc)
	assert.Empty(t, p.SearchNameTerm)
}

func TestParseListParams_MalformedValuesDegrade(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  ListParams
	}{
		{
			name:  "non-numeric page and size",
			query: "pageNumber=abc&pageSize=xyz",
			want:  DefaultListParams(),
		},
		{
			name:  "zero and negative",
			query: "pageNumber=0&pageSize=-5",
			want:  DefaultListParams(),
		},
		{
			name:  "valid overrides",
			query: "pageNumber=3&pageSize=25&sortBy=name&sortDirection=asc",
			want:  ListParams{PageNumber: 3, PageSize: 25, SortBy: "name", SortDesc: false},
		},
		{
			name:  "unknown sort direction stays descending",
			query: "sortDirection=sideways",
			want:  DefaultListParams(),
		},
		{
			name:  "asc is case insensitive",
			query: "sortDirection=ASC",
			want:  ListParams{PageNumber: 1, PageSize: 10, SortBy: "createdAt", SortDesc: false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ParseListParams(values))
		})
	}
}

func TestParseListParams_SearchTerms(t *testing.T) {
	values := url.Values{"searchNameTerm": {"tea"}, "searchLoginTerm": {"bob"}}
	p := ParseListParams(values)

	assert.Equal(t, "tea", p.SearchNameTerm)
	assert.Equal(t, "bob", p.SearchLoginTerm)
}

func TestListParams_Skip(t *testing.T) {
	p := ListParams{PageNumber: 3, PageSize: 5}
	assert.Equal(t, 10, p.Skip())

	p = DefaultListParams()
	assert.Equal(t, 0, p.Skip())
}

func TestNewPage(t *testing.T) {
	p := ListParams{PageNumber: 2, PageSize: 5}
	page := NewPage(p, 12, []string{"f", "g"})

	assert.Equal(t, 3, page.PagesCount)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.PageSize)
	assert.Equal(t, 12, page.TotalCount)
	assert.Equal(t, []string{"f", "g"}, page.Items)
}

func TestNewPage_NilItemsBecomesEmpty(t *testing.T) {
	page := NewPage[string](DefaultListParams(), 0, nil)

	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.PagesCount)
}

func TestNewPage_ExactMultiple(t *testing.T) {
	page := NewPage(ListParams{PageNumber: 1, PageSize: 10}, 30, []int{})
	assert.Equal(t, 3, page.PagesCount)
}
