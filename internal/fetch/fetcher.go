// Package fetch retrieves hot-news payloads from the dashboard backend.
//
// The Fetcher only knows how to build the request and classify the outcome.
// It keeps no state between calls: overlapping fetches are independent and
// nothing is cached, cancelled or de-duplicated here.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abelbrown/hotnews/internal/hotnews"
	"github.com/abelbrown/hotnews/internal/otel"
)

// Endpoint is the hot-news path, resolved against the configured base.
const Endpoint = "/api/hot-news"

// Config describes where and what to fetch.
type Config struct {
	// Base is prepended to Endpoint. Empty yields a relative URL.
	Base string
	// ItemCount is sent as the count parameter.
	ItemCount int
	// Sources is the option list used to expand the aggregate id.
	Sources []hotnews.SourceOption
	// Timeout of zero leaves timeouts to the transport.
	Timeout time.Duration
}

// Fetcher issues GET requests for hot news.
type Fetcher struct {
	client    *http.Client
	base      string
	itemCount int
	sources   []hotnews.SourceOption
	logger    *otel.Logger
}

// NewFetcher creates a Fetcher. A nil logger discards events.
func NewFetcher(cfg Config, l *otel.Logger) *Fetcher {
	if l == nil {
		l = otel.NewNullLogger()
	}
	count := cfg.ItemCount
	if count <= 0 {
		count = hotnews.DefaultItemCount
	}
	sources := cfg.Sources
	if len(sources) == 0 {
		sources = hotnews.DefaultSources()
	}
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		base:      strings.TrimRight(cfg.Base, "/"),
		itemCount: count,
		sources:   sources,
		logger:    l,
	}
}

// URL returns the request URL for a selected source id.
// The sources value keeps its order: sources first, count second.
func (f *Fetcher) URL(sourceID string) string {
	param := hotnews.SourcesParam(sourceID, f.sources)
	return f.base + Endpoint +
		"?sources=" + url.QueryEscape(param) +
		"&count=" + strconv.Itoa(f.itemCount)
}

// Fetch retrieves hot news for sourceID. The decoded body is returned as-is;
// there is no schema validation beyond JSON decoding.
//
// Every failure (transport, non-2xx status, bad JSON) comes back as an error
// whose user-facing text is given by Message.
func (f *Fetcher) Fetch(ctx context.Context, sourceID string) (*hotnews.Response, error) {
	start := time.Now()
	target := f.URL(sourceID)
	f.logger.Emit(otel.Event{Kind: otel.KindFetchStart, Level: otel.LevelInfo, Comp: "fetch", Source: sourceID, Msg: target})

	resp, err := f.get(ctx, target)
	if err != nil {
		f.logger.Emit(otel.Event{Kind: otel.KindFetchError, Level: otel.LevelWarn, Comp: "fetch", Source: sourceID, Err: err.Error(), Dur: time.Since(start)})
		return nil, err
	}

	f.logger.Emit(otel.Event{
		Kind:   otel.KindFetchComplete,
		Level:  otel.LevelInfo,
		Comp:   "fetch",
		Source: sourceID,
		Count:  resp.ItemCount(),
		Dur:    time.Since(start),
	})
	return resp, nil
}

func (f *Fetcher) get(ctx context.Context, target string) (*hotnews.Response, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotnews/0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch hot news: %w", err)
	}
	defer resp.Body.Close()

	// Error bodies are never parsed.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var out hotnews.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode hot news: %w", err)
	}
	return &out, nil
}
