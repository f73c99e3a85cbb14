package refresh

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"astroview/internal/models"
	"astroview/internal/structures"
)

const maxFeedBodySize = 10 << 20 // 10 MB

// FeedDocument is the upstream data feed shape.
type FeedDocument struct {
	Observatories []models.SiteRecord `json:"observatories"`
	LastUpdated   string              `json:"lastUpdated"`
	Source        string              `json:"source"`
}

type FetcherInterface interface {
	Fetch(ctx context.Context) (*FeedDocument, error)
}

// FeedFetcher pulls the feed with cache-defeating semantics: the data
// source mutates between polls, so staleness is fought actively instead of
// trusted to HTTP caching.
type FeedFetcher struct {
	url    string
	client *http.Client
}

func NewFeedFetcher(conf *structures.Config) FetcherInterface {
	timeout := conf.Feed.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FeedFetcher{
		url:    conf.Feed.URL,
		client: &http.Client{Timeout: timeout},
	}
}

func (f *FeedFetcher) Fetch(ctx context.Context) (*FeedDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}

	// Cache-busting query parameter plus no-store: intermediate caches must
	// never answer a poll.
	q := req.URL.Query()
	q.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var doc FeedDocument
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFeedBodySize)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot decode feed: %w", err)
	}
	return &doc, nil
}
