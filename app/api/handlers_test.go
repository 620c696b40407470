package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mkrutov/atom-comb/app/metrics"
)

const validFeed = `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Feed</title>
  <id>urn:feed:test</id>
  <author><name>Alice</name></author>
  <entry>
    <title>First</title>
    <id>urn:entry:1</id>
  </entry>
</feed>`

type stubFetcher struct {
	data []byte
	err  error
	url  string
}

func (s *stubFetcher) Run(ctx context.Context, url string) ([]byte, error) {
	s.url = url
	return s.data, s.err
}

func newTestServer(fetcher FetcherInterface) (*Handler, http.Handler) {
	reg := prometheus.NewRegistry()
	handler := NewHandler(fetcher, metrics.NewCollector(reg), "test")
	return handler, NewServer(handler, reg)
}

func TestParseFeed(t *testing.T) {
	_, server := newTestServer(&stubFetcher{})

	req := httptest.NewRequest("POST", "/parse", strings.NewReader(validFeed))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got: %d (%s)", rec.Code, rec.Body.String())
	}

	var feed Feed
	if err := json.Unmarshal(rec.Body.Bytes(), &feed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if feed.Title.Value != "Test Feed" {
		t.Errorf("Expected title 'Test Feed', got: %s", feed.Title.Value)
	}
	if len(feed.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(feed.Entries))
	}
	if len(feed.Entries[0].Authors) != 1 || feed.Entries[0].Authors[0].Name != "Alice" {
		t.Errorf("Expected inherited author, got: %#v", feed.Entries[0].Authors)
	}
}

func TestParseFeedInvalidDocument(t *testing.T) {
	_, server := newTestServer(&stubFetcher{})

	req := httptest.NewRequest("POST", "/parse", strings.NewReader(`<feed><title>Broken`))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got: %d", rec.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error == "" {
		t.Error("Expected error message in response")
	}
}

func TestParseFeedEmptyBody(t *testing.T) {
	_, server := newTestServer(&stubFetcher{})

	req := httptest.NewRequest("POST", "/parse", strings.NewReader(""))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got: %d", rec.Code)
	}
}

func TestGetFeed(t *testing.T) {
	fetcher := &stubFetcher{data: []byte(validFeed)}
	_, server := newTestServer(fetcher)

	req := httptest.NewRequest("GET", "/feeds?url=http://example.org/feed.xml", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got: %d (%s)", rec.Code, rec.Body.String())
	}
	if fetcher.url != "http://example.org/feed.xml" {
		t.Errorf("Expected fetcher to receive the query URL, got: %q", fetcher.url)
	}

	var feed Feed
	if err := json.Unmarshal(rec.Body.Bytes(), &feed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if feed.ID != "urn:feed:test" {
		t.Errorf("Unexpected feed ID: %s", feed.ID)
	}
}

func TestGetFeedMissingURL(t *testing.T) {
	_, server := newTestServer(&stubFetcher{})

	req := httptest.NewRequest("GET", "/feeds", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got: %d", rec.Code)
	}
}

func TestGetFeedFetchFailure(t *testing.T) {
	_, server := newTestServer(&stubFetcher{err: errors.New("connection refused")})

	req := httptest.NewRequest("GET", "/feeds?url=http://example.org/feed.xml", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("Expected status 502, got: %d", rec.Code)
	}
}

func TestGetFeedParseFailure(t *testing.T) {
	fetcher := &stubFetcher{data: []byte(`<rss version="2.0"><channel></channel></rss>`)}
	_, server := newTestServer(fetcher)

	req := httptest.NewRequest("GET", "/feeds?url=http://example.org/feed.xml", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got: %d", rec.Code)
	}
}

func TestGetHealth(t *testing.T) {
	_, server := newTestServer(&stubFetcher{})

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got: %d", rec.Code)
	}

	var health map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if health["status"] != "ok" {
		t.Errorf("Expected status 'ok', got: %v", health["status"])
	}
	if health["version"] != "test" {
		t.Errorf("Expected version 'test', got: %v", health["version"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, server := newTestServer(&stubFetcher{})

	// Generate some parse traffic first
	req := httptest.NewRequest("POST", "/parse", strings.NewReader(validFeed))
	server.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "atomcomb_parse_success_total") {
		t.Error("Expected parse metrics in scrape output")
	}
}

func TestErrorKindLabels(t *testing.T) {
	fetcher := &stubFetcher{data: []byte(`<feed xmlns="http://www.w3.org/2005/Atom"><id>urn:1</id></feed>`)}
	_, server := newTestServer(fetcher)

	req := httptest.NewRequest("GET", "/feeds?url=http://example.org/feed.xml", nil)
	server.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `kind="missing_element"`) {
		t.Error("Expected missing_element label in metrics output")
	}
}
