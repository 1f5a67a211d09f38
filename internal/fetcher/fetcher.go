package fetcher

import "context"

// Fetcher retrieves the raw HTML of a listing page.
type Fetcher interface {
	// Fetch performs a single GET of the URL and returns the page HTML.
	// There are no retries: any transport error or non-success HTTP
	// status is returned as a *types.FetchError.
	Fetch(ctx context.Context, url string) (string, error)

	// Close releases resources.
	Close() error
}
