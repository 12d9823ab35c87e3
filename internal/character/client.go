// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/taibuivan/rickdex/internal/platform/constants"
)

// maxPayloadBytes bounds a single upstream response body.
const maxPayloadBytes = 4 << 20

// ClientConfig holds the upstream connection settings.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration

	// RPS paces outbound calls when positive. Burst defaults to 1.
	RPS   float64
	Burst int
}

// Client reads characters from the upstream source through a [Cache].
//
// Concurrent misses on the same key share one upstream call.
type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
	limiter *rate.Limiter
	group   singleflight.Group
	logger  *slog.Logger
}

// NewClient builds a Client. A nil cache disables caching.
func NewClient(cfg ClientConfig, cache Cache, logger *slog.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = constants.UpstreamBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.UpstreamTimeout
	}

	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
		limiter: limiter,
		logger:  logger,
	}
}

/*
ListCharacters returns one page of the character listing.

Parameters:
  - context: context.Context
  - page: int (1-indexed; values below 1 are treated as 1)
  - filters: Filters (empty fields are omitted)

Returns:
  - *Page: The listing, possibly served from cache
  - error: ErrRateLimited, ErrNotFound or *UpstreamError
*/
func (client *Client) ListCharacters(context context.Context, page int, filters Filters) (*Page, error) {
	if page < 1 {
		page = 1
	}

	key := ListKey(page, filters)

	var cached Page
	if client.lookup(context, key, &cached) {
		return &cached, nil
	}

	query := filters.Values()
	query.Set("page", strconv.Itoa(page))

	shared := detach(context)
	result, err := client.wait(context, key, func() (any, error) {
		var wire wirePage
		if err := client.fetch(shared, "/character?"+query.Encode(), &wire); err != nil {
			return nil, err
		}

		listing, err := wire.toPage()
		if err != nil {
			return nil, &UpstreamError{Err: err}
		}

		client.store(shared, key, listing)
		return listing, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Page), nil
}

/*
GetCharacter returns a single character by id.

Parameters:
  - context: context.Context
  - id: int

Returns:
  - *Character: The character, possibly served from cache
  - error: ErrRateLimited, ErrNotFound or *UpstreamError
*/
func (client *Client) GetCharacter(context context.Context, id int) (*Character, error) {
	key := ItemKey(id)

	var cached Character
	if client.lookup(context, key, &cached) {
		return &cached, nil
	}

	shared := detach(context)
	result, err := client.wait(context, key, func() (any, error) {
		var item Character
		if err := client.fetch(shared, "/character/"+strconv.Itoa(id), &item); err != nil {
			return nil, err
		}

		if err := item.Validate(); err != nil {
			return nil, &UpstreamError{Err: err}
		}

		client.store(shared, key, &item)
		return &item, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Character), nil
}

// # Internal Helpers

// wait runs call once per key and returns when it finishes or when the
// caller's own context ends, whichever comes first.
func (client *Client) wait(caller context.Context, key string, call func() (any, error)) (any, error) {
	select {
	case result := <-client.group.DoChan(key, call):
		return result.Val, result.Err
	case <-caller.Done():
		return nil, &UpstreamError{Err: caller.Err()}
	}
}

func (client *Client) lookup(context context.Context, key string, dst any) bool {
	if client.cache == nil {
		return false
	}

	found, err := client.cache.Get(context, key, dst)
	if err != nil {
		client.logger.WarnContext(context, "upstream_cache_read_failed", slog.String("key", key), slog.Any("error", err))
		return false
	}

	if found {
		client.logger.DebugContext(context, "upstream_cache_hit", slog.String("key", key))
	}
	return found
}

func (client *Client) store(context context.Context, key string, value any) {
	if client.cache == nil {
		return
	}

	if err := client.cache.Set(context, key, value); err != nil {
		client.logger.WarnContext(context, "upstream_cache_write_failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (client *Client) fetch(context context.Context, path string, dst any) error {
	if client.limiter != nil {
		if err := client.limiter.Wait(context); err != nil {
			return &UpstreamError{Err: fmt.Errorf("pacing: %w", err)}
		}
	}

	request, err := http.NewRequestWithContext(context, http.MethodGet, client.baseURL+path, nil)
	if err != nil {
		return &UpstreamError{Err: err}
	}
	request.Header.Set("Accept", "application/json")

	startTime := time.Now()
	response, err := client.http.Do(request)
	if err != nil {
		return &UpstreamError{Err: err}
	}
	defer response.Body.Close()

	client.logger.DebugContext(context, "upstream_call_finished",
		slog.String("path", path),
		slog.Int("status", response.StatusCode),
		slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)

	switch {
	case response.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case response.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case response.StatusCode < 200 || response.StatusCode > 299:
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, maxPayloadBytes))
		return &UpstreamError{StatusCode: response.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(response.Body, maxPayloadBytes)).Decode(dst); err != nil {
		return &UpstreamError{Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// detach keeps the values of parent but not its cancellation. A shared upstream
// call must outlive the caller that started it; the HTTP client timeout still
// bounds it.
func detach(parent context.Context) context.Context {
	return context.WithoutCancel(parent)
}

// IsRateLimited reports whether err came from an upstream 429.
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// IsNotFound reports whether err came from an upstream 404.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
