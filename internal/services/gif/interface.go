package gif

import "context"

// Result is one GIF search hit
type Result struct {
	// Title is the human-readable GIF description
	Title string

	// URL is the direct GIF URL, embeddable in a message
	URL string
}

// Service defines the interface for GIF lookups
type Service interface {
	// Search returns up to limit GIFs matching the query
	Search(ctx context.Context, query string, limit int) ([]Result, error)

	// ResolveViewURL converts a provider view-page URL into a direct GIF URL
	ResolveViewURL(ctx context.Context, viewURL string) (string, error)

	// IsConfigured reports whether the provider has credentials
	IsConfigured() bool
}
