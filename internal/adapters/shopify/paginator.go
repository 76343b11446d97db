package shopify

import "context"

// PageStatus describes how draining one paginated collection ended.
// Exactly one of Complete, Truncated or a non-nil Err holds; in every case the
// records collected before the terminating condition are valid and returned.
type PageStatus struct {
	Pages     int   // pages actually fetched
	Complete  bool  // the next-link chain ended normally
	Truncated bool  // the page ceiling cut the chain short
	Err       error // terminal fetch error, nil when Complete or Truncated
}

// Partial reports whether the collection may be incomplete.
func (s PageStatus) Partial() bool {
	return !s.Complete
}

// pageFetch fetches one page by URL and returns its records plus the cursor
// for the following page, if any.
type pageFetch[T any] func(ctx context.Context, pageURL string) ([]T, *Cursor, error)

// drain follows a next-link chain starting at firstURL until the chain ends,
// maxPages pages have been fetched, or a fetch fails. Cursor URLs are used
// verbatim: the first request is the only one that carries filter parameters.
// Records come back in upstream order, unsorted and undeduplicated.
func drain[T any](ctx context.Context, firstURL string, maxPages int, fetch pageFetch[T]) ([]T, PageStatus) {
	var (
		records []T
		status  PageStatus
		pageURL = firstURL
	)

	for {
		if status.Pages >= maxPages {
			status.Truncated = true
			return records, status
		}

		items, next, err := fetch(ctx, pageURL)
		if err != nil {
			status.Err = err
			return records, status
		}

		status.Pages++
		records = append(records, items...)

		if next == nil {
			status.Complete = true
			return records, status
		}
		pageURL = next.URL()
	}
}
