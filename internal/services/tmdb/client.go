package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/openmovie/internal/config"
	"github.com/amaumene/openmovie/internal/metrics"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/amaumene/openmovie/internal/services/tmdb"

	// Error bodies are only used for diagnostics
	maxErrorBody = 4 * 1024
)

// QueryParams are the query parameters shared by the list endpoints
type QueryParams struct {
	APIKey       string
	IncludeAdult bool
}

// Client performs the TMDb list calls. One method call is one HTTP request;
// retries and caching are left to callers.
type Client struct {
	baseURL          *url.URL
	discoverEndpoint string
	trendingEndpoint string
	language         string
	httpClient       *http.Client
	tracer           trace.Tracer
	metrics          *metrics.Recorder
	logger           *logrus.Logger
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTracerProvider sets the provider used for request spans
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithMetrics records request durations on r
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Client) {
		c.metrics = r
	}
}

// NewClient creates a new TMDb API client
func NewClient(cfg *config.Config, logger *logrus.Logger, opts ...Option) (*Client, error) {
	if cfg.TMDBBaseURL == "" {
		return nil, fmt.Errorf("TMDb base URL is required")
	}

	base, err := url.Parse(cfg.TMDBBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid TMDb base URL: %w", err)
	}
	// Endpoints are relative ("discover/movie"), so the base must end in a slash
	// for ResolveReference to keep its last path segment.
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	c := &Client{
		baseURL:          base,
		discoverEndpoint: cfg.DiscoverEndpoint,
		trendingEndpoint: cfg.TrendingEndpoint,
		language:         cfg.Language,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		tracer: otel.Tracer(tracerName),
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// FetchDiscover retrieves the first page of the discover listing
func (c *Client) FetchDiscover(ctx context.Context, params QueryParams) (*MovieDto, error) {
	return c.fetchList(ctx, c.discoverEndpoint, params)
}

// FetchTrending retrieves the first page of this week's trending movies
func (c *Client) FetchTrending(ctx context.Context, params QueryParams) (*MovieDto, error) {
	return c.fetchList(ctx, c.trendingEndpoint, params)
}

// fetchList performs a single GET against a list endpoint and decodes the body
func (c *Client) fetchList(ctx context.Context, endpoint string, params QueryParams) (dto *MovieDto, err error) {
	ctx, span := c.tracer.Start(ctx, "tmdb.fetch", trace.WithAttributes(
		attribute.String("tmdb.endpoint", endpoint),
		attribute.Bool("tmdb.include_adult", params.IncludeAdult),
	))
	start := time.Now()
	defer func() {
		kind := "ok"
		if err != nil {
			kind = KindOf(err).String()
			span.RecordError(err)
			span.SetStatus(codes.Error, kind)
		}
		c.metrics.ObserveRequest(endpoint, kind, time.Since(start))
		span.End()
	}()

	rel, err := url.Parse(endpoint)
	if err != nil {
		return nil, &FetchError{Kind: KindGeneric, Endpoint: endpoint, Err: fmt.Errorf("invalid endpoint: %w", err)}
	}
	apiURL := c.baseURL.ResolveReference(rel)

	query := apiURL.Query()
	query.Set("api_key", params.APIKey)
	query.Set("include_adult", strconv.FormatBool(params.IncludeAdult))
	if c.language != "" {
		query.Set("language", c.language)
	}
	apiURL.RawQuery = query.Encode()

	// Never log the API key
	c.logger.WithFields(logrus.Fields{
		"endpoint":      endpoint,
		"url":           redactedURL(apiURL),
		"include_adult": params.IncludeAdult,
	}).Debug("Making TMDb API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL.String(), nil)
	if err != nil {
		return nil, &FetchError{Kind: KindGeneric, Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "openmovie/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Endpoint: endpoint, Err: redactURLError(err, apiURL)}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.WithFields(logrus.Fields{
			"endpoint":    endpoint,
			"status_code": resp.StatusCode,
			"body":        string(body),
		}).Error("TMDb API returned non-OK status")
		return nil, &FetchError{
			Kind:     KindGeneric,
			Endpoint: endpoint,
			Err:      &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))},
		}
	}

	var payload MovieDto
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &FetchError{Kind: KindDecode, Endpoint: endpoint, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	c.logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"count":    len(payload.Results),
	}).Debug("TMDb request completed")

	return &payload, nil
}

// redactURLError rewrites the URL carried by a *url.Error so the API key
// never reaches error messages. The cause is kept for errors.Is.
func redactURLError(err error, u *url.URL) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{Op: urlErr.Op, URL: redactedURL(u), Err: urlErr.Err}
}

func redactedURL(u *url.URL) string {
	clone := *u
	query := clone.Query()
	if query.Has("api_key") {
		query.Set("api_key", "REDACTED")
	}
	clone.RawQuery = query.Encode()
	return clone.String()
}
