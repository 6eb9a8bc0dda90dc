package txapi

import (
	"context"
	"fmt"
)

// maxPageFetches caps how many pages a single walk will request, so a
// backend reporting a bogus page total cannot drive an endless loop.
const maxPageFetches = 1000

// Lister fetches one page of full records. CollectionClient satisfies
// it.
type Lister interface {
	ListDetails(ctx context.Context, opts *ListOptions, session string) (*Envelope, error)
}

// IDLister fetches one page of record references. CollectionClient
// satisfies it.
type IDLister interface {
	ListIDs(ctx context.Context, opts *ListOptions, session string) (*Envelope, error)
}

// PageIterator walks a collection's detail listing page by page. Each
// Next call fetches one page and returns its records.
type PageIterator struct {
	ctx     context.Context
	lister  Lister
	opts    *ListOptions
	session string

	next         int
	totalPages   int
	totalResults int
	fetched      int
}

// NewPageIterator creates an iterator over the detail pages of lister.
// A nil opts lists with the protocol defaults. The session id is passed
// through to every page fetch, so "" walks each page in its own
// temporary session.
func NewPageIterator(ctx context.Context, lister Lister, opts *ListOptions, session string) *PageIterator {
	opts = opts.clone()

	start := opts.Page
	if start <= 0 {
		start = DefaultPage
	}

	return &PageIterator{
		ctx:     ctx,
		lister:  lister,
		opts:    opts,
		session: session,
		next:    start,
	}
}

// HasNext reports whether another page is available. Before the first
// fetch it is always true; afterwards it follows the page total the
// backend reported.
func (it *PageIterator) HasNext() bool {
	if it.fetched >= maxPageFetches {
		return false
	}

	if it.fetched == 0 {
		return true
	}

	return it.next <= it.totalPages
}

// Next fetches the next page and returns its records. It returns
// ErrNoMorePages once the listing is exhausted and an *APIFailure when
// the backend rejects a page fetch.
func (it *PageIterator) Next() ([]Record, error) {
	if !it.HasNext() {
		return nil, ErrNoMorePages
	}

	env, err := it.lister.ListDetails(it.ctx, it.opts.clone().WithPage(it.next), it.session)
	if err != nil {
		return nil, fmt.Errorf("fetching page %d: %w", it.next, err)
	}

	if !env.Success {
		return nil, FailureFromInfo(env.Info)
	}

	records, err := env.Records()
	if err != nil {
		return nil, fmt.Errorf("fetching page %d: %w", it.next, err)
	}

	it.totalPages = env.Info.TotalPages
	it.totalResults = env.Info.TotalResults
	it.next++
	it.fetched++

	return records, nil
}

// All drains the iterator and returns every remaining record.
func (it *PageIterator) All() ([]Record, error) {
	var all []Record

	for it.HasNext() {
		records, err := it.Next()
		if err != nil {
			return nil, err
		}

		all = append(all, records...)
	}

	return all, nil
}

// ForEach applies fn to every remaining record, stopping at the first
// error.
func (it *PageIterator) ForEach(fn func(Record) error) error {
	for it.HasNext() {
		records, err := it.Next()
		if err != nil {
			return err
		}

		for _, record := range records {
			err = fn(record)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// TotalPages returns the page total reported by the most recent fetch,
// or zero before the first fetch.
func (it *PageIterator) TotalPages() int {
	return it.totalPages
}

// TotalResults returns the result total reported by the most recent
// fetch, or zero before the first fetch.
func (it *PageIterator) TotalResults() int {
	return it.totalResults
}

// FetchAllPages collects every record of a detail listing. When the
// caller left the page length unset it walks with MaxPageLength pages
// to keep the request count down.
func FetchAllPages(ctx context.Context, lister Lister, opts *ListOptions, session string) ([]Record, error) {
	opts = opts.clone()
	if opts.PageLength <= 0 {
		opts.PageLength = MaxPageLength
	}

	return NewPageIterator(ctx, lister, opts, session).All()
}

// FetchAllIDs collects every record id of a reference listing, walking
// with MaxPageLength pages unless the caller chose a length.
func FetchAllIDs(ctx context.Context, lister IDLister, opts *ListOptions, session string) ([]int, error) {
	opts = opts.clone()
	if opts.PageLength <= 0 {
		opts.PageLength = MaxPageLength
	}

	page := opts.Page
	if page <= 0 {
		page = DefaultPage
	}

	var (
		ids     []int
		fetched int
	)

	for {
		env, err := lister.ListIDs(ctx, opts.clone().WithPage(page), session)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		if !env.Success {
			return nil, FailureFromInfo(env.Info)
		}

		pageIDs, err := env.IDs()
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", page, err)
		}

		ids = append(ids, pageIDs...)
		fetched++

		if page >= env.Info.TotalPages || fetched >= maxPageFetches {
			return ids, nil
		}

		page++
	}
}

// PageResult is one page delivered by StreamPages: the page's records,
// or the error that ended the stream.
type PageResult struct {
	Page    int
	Records []Record
	Err     error
}

// StreamPages walks a detail listing in a separate goroutine and
// delivers pages on the returned channel. The channel closes after the
// last page, after the first error, or when ctx is cancelled.
func StreamPages(ctx context.Context, lister Lister, opts *ListOptions, session string) <-chan PageResult {
	results := make(chan PageResult)

	go func() {
		defer close(results)

		it := NewPageIterator(ctx, lister, opts, session)

		for page := it.next; it.HasNext(); page++ {
			records, err := it.Next()

			select {
			case results <- PageResult{Page: page, Records: records, Err: err}:
			case <-ctx.Done():
				return
			}

			if err != nil {
				return
			}
		}
	}()

	return results
}
