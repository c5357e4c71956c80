package gif

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	defaultTenorBaseURL = "https://tenor.googleapis.com/v2"
	defaultTimeout      = 10 * time.Second
)

var (
	// ErrNotConfigured is returned when no Tenor API key is set
	ErrNotConfigured = errors.New("tenor api key not configured")

	// ErrNoResults is returned when the provider finds nothing
	ErrNoResults = errors.New("no gif found")

	// Tenor view URLs end in "-gif-<id>"; older links end in "-<id>"
	tenorGifIDPattern   = regexp.MustCompile(`-gif-(\d+)/?$`)
	tenorShortIDPattern = regexp.MustCompile(`-(\d+)/?$`)
)

// TenorConfig holds configuration for the Tenor client
type TenorConfig struct {
	// APIKey authenticates against the Tenor API. May be empty; lookups then
	// fail with ErrNotConfigured so callers can degrade gracefully.
	APIKey string

	// BaseURL overrides the API endpoint, used in tests
	BaseURL string

	// Timeout bounds each outbound request (default 10s)
	Timeout time.Duration

	// Logger for lookup diagnostics
	Logger zerolog.Logger
}

// Tenor implements the Service interface against the Tenor v2 API
type Tenor struct {
	client *resty.Client
	apiKey string
	log    zerolog.Logger
}

// tenorMedia mirrors the media_formats object in Tenor responses
type tenorMedia struct {
	URL string `json:"url"`
}

type tenorResult struct {
	Title        string                `json:"title"`
	MediaFormats map[string]tenorMedia `json:"media_formats"`
}

type tenorResponse struct {
	Results []tenorResult `json:"results"`
}

// NewTenor creates a new Tenor client
func NewTenor(cfg *TenorConfig) (*Tenor, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultTenorBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &Tenor{
		client: client,
		apiKey: cfg.APIKey,
		log:    cfg.Logger,
	}, nil
}

// IsConfigured reports whether an API key is present
func (t *Tenor) IsConfigured() bool {
	return t.apiKey != ""
}

// Search returns up to limit GIFs matching the query
func (t *Tenor) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if !t.IsConfigured() {
		return nil, ErrNotConfigured
	}

	if limit <= 0 {
		limit = 10
	}

	var out tenorResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":          t.apiKey,
			"q":            query,
			"limit":        strconv.Itoa(limit),
			"media_filter": "gif",
		}).
		SetResult(&out).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("failed to search tenor: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("tenor search returned status %d", resp.StatusCode())
	}

	results := make([]Result, 0, len(out.Results))
	for _, r := range out.Results {
		media, ok := r.MediaFormats["gif"]
		if !ok || media.URL == "" {
			continue
		}

		results = append(results, Result{
			Title: r.Title,
			URL:   media.URL,
		})
	}

	return results, nil
}

// ResolveViewURL converts a Tenor view URL (tenor.com/view/...-gif-<id>) into
// a direct GIF URL via the posts endpoint
func (t *Tenor) ResolveViewURL(ctx context.Context, viewURL string) (string, error) {
	if !t.IsConfigured() {
		return "", ErrNotConfigured
	}

	gifID, ok := extractGifID(viewURL)
	if !ok {
		return "", fmt.Errorf("could not extract gif id from %q", viewURL)
	}

	var out tenorResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":          t.apiKey,
			"ids":          gifID,
			"media_filter": "gif",
		}).
		SetResult(&out).
		Get("/posts")
	if err != nil {
		return "", fmt.Errorf("failed to resolve tenor url: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("tenor posts returned status %d", resp.StatusCode())
	}

	for _, r := range out.Results {
		if media, ok := r.MediaFormats["gif"]; ok && media.URL != "" {
			return media.URL, nil
		}
	}

	return "", ErrNoResults
}

// extractGifID pulls the numeric GIF ID off the end of a Tenor view URL
func extractGifID(viewURL string) (string, bool) {
	if m := tenorGifIDPattern.FindStringSubmatch(viewURL); m != nil {
		return m[1], true
	}

	if m := tenorShortIDPattern.FindStringSubmatch(viewURL); m != nil {
		return m[1], true
	}

	return "", false
}
