package txapi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/txapi-io/txapi-client/pkg/txapi"
)

type mockLister struct {
	pages    map[int]*txapi.Envelope
	calls    int
	sessions []string
	lastOpts *txapi.ListOptions
}

func (m *mockLister) ListDetails(ctx context.Context, opts *txapi.ListOptions, session string) (*txapi.Envelope, error) {
	m.calls++
	m.sessions = append(m.sessions, session)
	m.lastOpts = opts

	page := 1
	if opts != nil && opts.Page > 0 {
		page = opts.Page
	}

	env, ok := m.pages[page]
	if !ok {
		return listPage(`[]`, page, 0, 0), nil
	}

	return env, nil
}

func (m *mockLister) ListIDs(ctx context.Context, opts *txapi.ListOptions, session string) (*txapi.Envelope, error) {
	return m.ListDetails(ctx, opts, session)
}

func listPage(records string, page, totalPages, totalResults int) *txapi.Envelope {
	return &txapi.Envelope{
		Result:  []byte(records),
		Success: true,
		Info: txapi.Info{
			Code:         200,
			Message:      "records found",
			Page:         page,
			TotalPages:   totalPages,
			TotalResults: totalResults,
		},
	}
}

func TestPageIterator_HasNext(t *testing.T) {
	t.Parallel()

	lister := &mockLister{
		pages: map[int]*txapi.Envelope{
			1: listPage(`[{"id": 1, "title": "Dune"}, {"id": 2, "title": "Hyperion"}]`, 1, 2, 3),
			2: listPage(`[{"id": 3, "title": "Ubik"}]`, 2, 2, 3),
		},
	}

	ctx := context.Background()
	iterator := txapi.NewPageIterator(ctx, lister, nil, "")

	// Has next before any fetch
	assert.True(t, iterator.HasNext())

	page1, err := iterator.Next()
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, 1, page1[0].ID)
	assert.True(t, iterator.HasNext())

	page2, err := iterator.Next()
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, 3, page2[0].ID)
	assert.False(t, iterator.HasNext())

	_, err = iterator.Next()
	require.ErrorIs(t, err, txapi.ErrNoMorePages)

	assert.Equal(t, 2, iterator.TotalPages())
	assert.Equal(t, 3, iterator.TotalResults())
}

func TestPageIterator_All(t *testing.T) {
	t.Parallel()

	lister := &mockLister{
		pages: map[int]*txapi.Envelope{
			1: listPage(`[{"id": 1}, {"id": 2}]`, 1, 2, 3),
			2: listPage(`[{"id": 3}]`, 2, 2, 3),
		},
	}

	ctx := context.Background()
	iterator := txapi.NewPageIterator(ctx, lister, nil, "")

	records, err := iterator.All()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, 2, records[1].ID)
	assert.Equal(t, 3, records[2].ID)
}

func TestPageIterator_ForEach(t *testing.T) {
	t.Parallel()

	t.Run("visits every record", func(t *testing.T) {
		t.Parallel()

		lister := &mockLister{
			pages: map[int]*txapi.Envelope{
				1: listPage(`[{"id": 1, "title": "Dune"}, {"id": 2, "title": "Hyperion"}]`, 1, 1, 2),
			},
		}

		iterator := txapi.NewPageIterator(context.Background(), lister, nil, "")

		var collected []int
		err := iterator.ForEach(func(record txapi.Record) error {
			collected = append(collected, record.ID)

			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, collected)
	})

	t.Run("stops at first error", func(t *testing.T) {
		t.Parallel()

		lister := &mockLister{
			pages: map[int]*txapi.Envelope{
				1: listPage(`[{"id": 1}, {"id": 2}]`, 1, 1, 2),
			},
		}

		iterator := txapi.NewPageIterator(context.Background(), lister, nil, "")

		sentinel := errors.New("stop")
		visits := 0
		err := iterator.ForEach(func(record txapi.Record) error {
			visits++

			return sentinel
		})

		require.ErrorIs(t, err, sentinel)
		assert.Equal(t, 1, visits)
	})
}

func TestPageIterator_BackendFailure(t *testing.T) {
	t.Parallel()

	lister := &mockLister{
		pages: map[int]*txapi.Envelope{
			1: {Success: false, Info: txapi.Info{Code: 400, Message: "no such attribute"}},
		},
	}

	iterator := txapi.NewPageIterator(context.Background(), lister, nil, "")

	_, err := iterator.Next()

	var failure *txapi.APIFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 400, failure.Code)
}

func TestPageIterator_PassesSessionAndOptions(t *testing.T) {
	t.Parallel()

	lister := &mockLister{
		pages: map[int]*txapi.Envelope{
			1: listPage(`[{"id": 1}]`, 1, 1, 1),
		},
	}

	opts := txapi.NewListOptions().WithPageLength(10).WithSortBy("title")
	iterator := txapi.NewPageIterator(context.Background(), lister, opts, "a1b2c3")

	_, err := iterator.Next()
	require.NoError(t, err)

	assert.Equal(t, []string{"a1b2c3"}, lister.sessions)
	require.NotNil(t, lister.lastOpts)
	assert.Equal(t, 1, lister.lastOpts.Page)
	assert.Equal(t, 10, lister.lastOpts.PageLength)
	assert.Equal(t, "title", lister.lastOpts.SortBy)

	// Caller's options stay untouched
	assert.Equal(t, 0, opts.Page)
}

func TestFetchAllPages(t *testing.T) {
	t.Parallel()

	lister := &mockLister{
		pages: map[int]*txapi.Envelope{
			1: listPage(`[{"id": 1}, {"id": 2}]`, 1, 3, 5),
			2: listPage(`[{"id": 3}, {"id": 4}]`, 2, 3, 5),
			3: listPage(`[{"id": 5}]`, 3, 3, 5),
		},
	}

	records, err := txapi.FetchAllPages(context.Background(), lister, nil, "")
	require.NoError(t, err)
	assert.Len(t, records, 5)
	assert.Equal(t, 3, lister.calls)

	// Unset page length walks with the largest page the backend allows.
	require.NotNil(t, lister.lastOpts)
	assert.Equal(t, txapi.MaxPageLength, lister.lastOpts.PageLength)
}

func TestFetchAllIDs(t *testing.T) {
	t.Parallel()

	t.Run("collects every page", func(t *testing.T) {
		t.Parallel()

		lister := &mockLister{
			pages: map[int]*txapi.Envelope{
				1: listPage(`[{"id": 1}, {"id": 2}]`, 1, 3, 5),
				2: listPage(`[{"id": 3}, {"id": 4}]`, 2, 3, 5),
				3: listPage(`[{"id": 5}]`, 3, 3, 5),
			},
		}

		ids, err := txapi.FetchAllIDs(context.Background(), lister, nil, "")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, ids)
	})

	t.Run("empty listing", func(t *testing.T) {
		t.Parallel()

		lister := &mockLister{}

		ids, err := txapi.FetchAllIDs(context.Background(), lister, nil, "")
		require.NoError(t, err)
		assert.Empty(t, ids)
		assert.Equal(t, 1, lister.calls)
	})

	t.Run("backend failure", func(t *testing.T) {
		t.Parallel()

		lister := &mockLister{
			pages: map[int]*txapi.Envelope{
				1: {Success: false, Info: txapi.Info{Code: 401, Message: "Access level insufficient"}},
			},
		}

		_, err := txapi.FetchAllIDs(context.Background(), lister, nil, "")

		var failure *txapi.APIFailure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, 401, failure.Code)
	})
}

func TestStreamPages(t *testing.T) {
	t.Parallel()

	lister := &mockLister{
		pages: map[int]*txapi.Envelope{
			1: listPage(`[{"id": 1}, {"id": 2}]`, 1, 2, 3),
			2: listPage(`[{"id": 3}]`, 2, 2, 3),
		},
	}

	results := txapi.StreamPages(context.Background(), lister, nil, "")

	var all []txapi.Record

	pageCount := 0

	for result := range results {
		require.NoError(t, result.Err)

		all = append(all, result.Records...)
		pageCount++
	}

	assert.Equal(t, 2, pageCount)
	assert.Len(t, all, 3)
}

func TestStreamPages_EndsOnFailure(t *testing.T) {
	t.Parallel()

	lister := &mockLister{
		pages: map[int]*txapi.Envelope{
			1: listPage(`[{"id": 1}]`, 1, 3, 5),
			2: {Success: false, Info: txapi.Info{Code: 500, Message: "boom"}},
		},
	}

	results := txapi.StreamPages(context.Background(), lister, nil, "")

	first := <-results
	require.NoError(t, first.Err)
	assert.Len(t, first.Records, 1)

	second := <-results
	require.Error(t, second.Err)

	_, open := <-results
	assert.False(t, open)
}
