package storefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListingQuery_Paging(t *testing.T) {
	cases := []struct {
		page, size       string
		wantPage, wantSz int
	}{
		{"", "", 1, 24},
		{"0", "5", 1, 12},
		{"-3", "100", 1, 48},
		{"4", "30", 4, 30},
		{"abc", "xyz", 1, 24},
	}
	for _, c := range cases {
		q := ParseListingQuery("", "", "", "", c.page, c.size)
		assert.Equal(t, c.wantPage, q.Page, "page %q", c.page)
		assert.Equal(t, c.wantSz, q.PageSize, "size %q", c.size)
	}
}

func TestParseListingQuery_Filters(t *testing.T) {
	q := ParseListingQuery("  bowl ", " Kitchenware ", "5", "oops", "1", "24")
	assert.Equal(t, "bowl", q.Filters.Q)
	assert.Equal(t, "Kitchenware", q.Filters.Category)
	require.NotNil(t, q.Filters.MinPrice)
	assert.Equal(t, 5.0, *q.Filters.MinPrice)
	assert.Nil(t, q.Filters.MaxPrice)
}
