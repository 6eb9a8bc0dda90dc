package txapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/txapi-io/txapi-client/pkg/txapi"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestListOptions_ToArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     *txapi.ListOptions
		expected txapi.Args
	}{
		{
			name: "nil options fill defaults",
			opts: nil,
			expected: txapi.Args{
				"_page":       1,
				"_pagelength": 100,
				"_sortby":     "id",
			},
		},
		{
			name: "empty options fill defaults",
			opts: txapi.NewListOptions(),
			expected: txapi.Args{
				"_page":       1,
				"_pagelength": 100,
				"_sortby":     "id",
			},
		},
		{
			name: "explicit controls",
			opts: &txapi.ListOptions{
				Page:       3,
				PageLength: 25,
				SortBy:     "title",
				Match:      "dune",
			},
			expected: txapi.Args{
				"_page":       3,
				"_pagelength": 25,
				"_sortby":     "title",
				"_query":      "dune",
			},
		},
		{
			name: "filters ride along",
			opts: txapi.NewListOptions().
				WithFilter("author", "Herbert").
				WithFilter("available", true),
			expected: txapi.Args{
				"_page":       1,
				"_pagelength": 100,
				"_sortby":     "id",
				"author":      "Herbert",
				"available":   true,
			},
		},
		{
			name: "controls win over shadowing filters",
			opts: txapi.NewListOptions().
				WithPage(2).
				WithFilter("_page", 9),
			expected: txapi.Args{
				"_page":       2,
				"_pagelength": 100,
				"_sortby":     "id",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.opts.ToArgs())
		})
	}
}

func TestListOptions_Builders(t *testing.T) {
	t.Parallel()
	t.Run("chaining methods", func(t *testing.T) {
		t.Parallel()

		opts := txapi.NewListOptions().
			WithPage(2).
			WithPageLength(50).
			WithSortBy("title").
			WithMatch("dune").
			WithFilter("author", "Herbert")

		assert.Equal(t, 2, opts.Page)
		assert.Equal(t, 50, opts.PageLength)
		assert.Equal(t, "title", opts.SortBy)
		assert.Equal(t, "dune", opts.Match)
		assert.Equal(t, txapi.Args{"author": "Herbert"}, opts.Filters)
	})

	t.Run("WithFilter replaces", func(t *testing.T) {
		t.Parallel()

		opts := txapi.NewListOptions().
			WithFilter("author", "Herbert").
			WithFilter("author", "Simmons")

		assert.Equal(t, txapi.Args{"author": "Simmons"}, opts.Filters)
	})

	t.Run("WithFilter on zero value", func(t *testing.T) {
		t.Parallel()

		var opts txapi.ListOptions
		opts.WithFilter("author", "Herbert")

		assert.Equal(t, txapi.Args{"author": "Herbert"}, opts.Filters)
	})
}

func TestNewListOptions(t *testing.T) {
	t.Parallel()

	opts := txapi.NewListOptions()

	assert.NotNil(t, opts)
	assert.NotNil(t, opts.Filters)
	assert.Equal(t, 0, opts.Page)
	assert.Equal(t, 0, opts.PageLength)
	assert.Empty(t, opts.SortBy)
	assert.Empty(t, opts.Match)
}
