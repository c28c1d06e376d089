package tmdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/amaumene/openmovie/internal/config"
	"github.com/sirupsen/logrus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		TMDBAPIKey:       "test-key",
		TMDBBaseURL:      baseURL,
		DiscoverEndpoint: "discover/movie",
		TrendingEndpoint: "trending/movie/week",
		HTTPTimeout:      5 * time.Second,
	}
}

const samplePayload = `{
  "page": 1,
  "results": [
    {
      "adult": false,
      "backdrop_path": "/back.jpg",
      "genre_ids": [28, 12, null],
      "id": 550,
      "original_language": "en",
      "original_title": "Fight Club",
      "overview": "An insomniac office worker...",
      "popularity": 61.4,
      "poster_path": "/poster.jpg",
      "release_date": "1999-10-15",
      "title": "Fight Club",
      "video": false,
      "vote_average": 8.4,
      "vote_count": 26280
    },
    null,
    {"id": 13}
  ],
  "total_pages": 500,
  "total_results": 10000
}`

func TestFetchDiscoverDecodesPayload(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, samplePayload)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL+"/3"), testLogger())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	dto, err := client.FetchDiscover(context.Background(), QueryParams{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("FetchDiscover failed: %v", err)
	}

	if gotPath != "/3/discover/movie" {
		t.Errorf("Expected path /3/discover/movie, got %s", gotPath)
	}
	if !strings.Contains(gotQuery, "api_key=test-key") {
		t.Errorf("Query should carry api_key, got %s", gotQuery)
	}
	if !strings.Contains(gotQuery, "include_adult=false") {
		t.Errorf("Query should carry include_adult=false, got %s", gotQuery)
	}
	if strings.Contains(gotQuery, "language=") {
		t.Errorf("Language should not be sent when not configured, got %s", gotQuery)
	}

	if dto.Page == nil || *dto.Page != 1 {
		t.Errorf("Expected page 1, got %v", dto.Page)
	}
	if len(dto.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(dto.Results))
	}
	first := dto.Results[0]
	if first.Title == nil || *first.Title != "Fight Club" {
		t.Errorf("Title mismatch: %v", first.Title)
	}
	if len(first.GenreIDs) != 3 || first.GenreIDs[2] != nil {
		t.Errorf("Expected 3 genre ids with a trailing null, got %v", first.GenreIDs)
	}
	if dto.Results[1] != nil {
		t.Error("Null result entry should decode to nil")
	}
	if dto.Results[2].Title != nil {
		t.Error("Missing title should decode to nil")
	}
}

func TestFetchTrendingUsesTrendingEndpoint(t *testing.T) {
	var gotPath, gotQuery string
	httpc := &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			gotPath = req.URL.Path
			gotQuery = req.URL.RawQuery
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(`{"results":[]}`)),
				Header:     make(http.Header),
			}, nil
		}),
	}

	cfg := testConfig("https://api.themoviedb.org/3/")
	cfg.Language = "ko-KR"
	client, err := NewClient(cfg, testLogger(), WithHTTPClient(httpc))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	dto, err := client.FetchTrending(context.Background(), QueryParams{APIKey: "k", IncludeAdult: true})
	if err != nil {
		t.Fatalf("FetchTrending failed: %v", err)
	}

	if gotPath != "/3/trending/movie/week" {
		t.Errorf("Expected trending path, got %s", gotPath)
	}
	if !strings.Contains(gotQuery, "include_adult=true") {
		t.Errorf("Expected include_adult=true, got %s", gotQuery)
	}
	if !strings.Contains(gotQuery, "language=ko-KR") {
		t.Errorf("Expected language=ko-KR, got %s", gotQuery)
	}
	if dto.Results == nil || len(dto.Results) != 0 {
		t.Errorf("Expected empty results, got %v", dto.Results)
	}
}

func TestFetchErrorKinds(t *testing.T) {
	tests := []struct {
		name      string
		transport roundTripFunc
		wantKind  ErrorKind
	}{
		{
			name: "transport failure",
			transport: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
			wantKind: KindTransport,
		},
		{
			name: "malformed body",
			transport: func(*http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(strings.NewReader(`[1, 2, 3]`)),
					Header:     make(http.Header),
				}, nil
			},
			wantKind: KindDecode,
		},
		{
			name: "wrong field type",
			transport: func(*http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(strings.NewReader(`{"results":[{"id":"abc"}]}`)),
					Header:     make(http.Header),
				}, nil
			},
			wantKind: KindDecode,
		},
		{
			name: "unauthorized",
			transport: func(*http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusUnauthorized,
					Body:       io.NopCloser(strings.NewReader(`{"status_message":"Invalid API key"}`)),
					Header:     make(http.Header),
				}, nil
			},
			wantKind: KindGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(testConfig("https://api.themoviedb.org/3/"), testLogger(),
				WithHTTPClient(&http.Client{Transport: tt.transport}))
			if err != nil {
				t.Fatalf("Failed to create client: %v", err)
			}

			dto, err := client.FetchDiscover(context.Background(), QueryParams{APIKey: "k"})
			if err == nil {
				t.Fatalf("Expected error, got payload %+v", dto)
			}
			if got := KindOf(err); got != tt.wantKind {
				t.Errorf("Expected kind %s, got %s (%v)", tt.wantKind, got, err)
			}
			if strings.Contains(err.Error(), "api_key=k") {
				t.Errorf("Error must not leak the API key: %v", err)
			}
		})
	}
}

func TestTransportErrorRedactsAPIKey(t *testing.T) {
	httpc := &http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}),
	}
	client, _ := NewClient(testConfig("https://api.themoviedb.org/3/"), testLogger(), WithHTTPClient(httpc))

	_, err := client.FetchDiscover(context.Background(), QueryParams{APIKey: "SECRETKEY123"})
	if err == nil {
		t.Fatal("Expected error")
	}

	msg := err.Error()
	if strings.Contains(msg, "SECRETKEY123") {
		t.Errorf("Error must not contain the API key: %s", msg)
	}
	if !strings.Contains(msg, "api_key=REDACTED") || !strings.Contains(msg, "connection refused") {
		t.Errorf("Error should keep the redacted URL and the cause: %s", msg)
	}

	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		t.Fatalf("Expected *url.Error in chain, got %v", err)
	}
	if !IsTransport(err) {
		t.Errorf("Expected a transport error, got kind %s", KindOf(err))
	}
}

func TestStatusErrorIsWrapped(t *testing.T) {
	httpc := &http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusServiceUnavailable,
				Body:       io.NopCloser(strings.NewReader("down")),
				Header:     make(http.Header),
			}, nil
		}),
	}
	client, _ := NewClient(testConfig("https://api.themoviedb.org/3/"), testLogger(), WithHTTPClient(httpc))

	_, err := client.FetchTrending(context.Background(), QueryParams{APIKey: "k"})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected *StatusError in chain, got %v", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", statusErr.StatusCode)
	}
	if IsTransport(err) || IsDecode(err) {
		t.Error("Status errors are neither transport nor decode errors")
	}
}

func TestFetchRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	httpc := &http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("boom")
		}),
	}
	client, _ := NewClient(testConfig("https://api.themoviedb.org/3/"), testLogger(),
		WithHTTPClient(httpc), WithTracerProvider(tp))

	if _, err := client.FetchDiscover(context.Background(), QueryParams{APIKey: "k"}); err == nil {
		t.Fatal("Expected error")
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "tmdb.fetch" {
		t.Errorf("Unexpected span name %q", spans[0].Name())
	}
	if spans[0].Status().Description != "transport" {
		t.Errorf("Expected span status 'transport', got %q", spans[0].Status().Description)
	}
}

func TestFetchHonoursCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	client, _ := NewClient(testConfig(server.URL), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := client.FetchDiscover(ctx, QueryParams{APIKey: "k"})
		errCh <- err
	}()

	<-started
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled in chain, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("FetchDiscover did not return after cancellation")
	}
}
