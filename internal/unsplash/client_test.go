package unsplash

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testKey = "s3cr3t-key"

const twoResults = `{
  "total": 120,
  "total_pages": 14,
  "results": [
    {"id": "1", "description": "A cat", "alt_description": "grey cat on a sofa", "urls": {"small": "https://images.example/1.jpg"}, "user": {"name": "Ana"}},
    {"id": "2", "description": null, "alt_description": null, "urls": {"small": "https://images.example/2.jpg"}}
  ]
}`

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := New(Config{AccessKey: testKey, Endpoint: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestSearchSendsExpectedRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/search/photos/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		want := map[string]string{
			"client_id": testKey,
			"query":     "cats & dogs",
			"page":      "3",
			"per_page":  "9",
		}
		for key, value := range want {
			if got := q.Get(key); got != value {
				t.Errorf("param %s = %q, want %q", key, got, value)
			}
		}
		if r.Header.Get("Accept-Version") != "v1" {
			t.Errorf("missing Accept-Version header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twoResults))
	}))
	t.Cleanup(server.Close)

	page, err := newTestClient(t, server).Search(context.Background(), "cats & dogs", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(page.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(page.Results))
	}
	if page.Results[0].ID != "1" || page.Results[1].ID != "2" {
		t.Fatalf("results out of order: %#v", page.Results)
	}
	if page.TotalPages != 14 || page.Total != 120 {
		t.Fatalf("unexpected totals: %+v", page)
	}
	if page.Results[0].URLs.Small != "https://images.example/1.jpg" {
		t.Fatalf("small url not decoded: %q", page.Results[0].URLs.Small)
	}
	if page.Results[1].Description != "" || page.Results[1].HasDetails() {
		t.Fatalf("null descriptions should decode empty: %+v", page.Results[1])
	}
}

func TestSearchStatusErrorKeepsDecodedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":["OAuth error: The access token is invalid"]}`))
	}))
	t.Cleanup(server.Close)

	page, err := newTestClient(t, server).Search(context.Background(), "cats", 1)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", statusErr.StatusCode)
	}
	if !statusErr.BodyDecoded {
		t.Fatal("JSON error body should count as decoded")
	}
	if len(page.Results) != 0 {
		t.Fatalf("error body should carry no results, got %d", len(page.Results))
	}
	if !strings.Contains(err.Error(), "access token is invalid") {
		t.Fatalf("api message missing from error: %v", err)
	}
}

func TestSearchStatusErrorWithGarbageBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	t.Cleanup(server.Close)

	_, err := newTestClient(t, server).Search(context.Background(), "cats", 1)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.BodyDecoded {
		t.Fatal("html body must not count as decoded")
	}
}

func TestSearchMalformedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	}))
	t.Cleanup(server.Close)

	_, err := newTestClient(t, server).Search(context.Background(), "cats", 1)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestSearchTransportErrorRedactsKey(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(t, server)
	server.Close()

	_, err := client.Search(context.Background(), "cats", 1)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if strings.Contains(err.Error(), testKey) {
		t.Fatalf("access key leaked into error: %v", err)
	}
	if !strings.Contains(err.Error(), redactedValue) {
		t.Fatalf("expected redacted marker in %v", err)
	}
}

func TestNewRequiresAccessKey(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{AccessKey: "  "}); !errors.Is(err, ErrMissingAccessKey) {
		t.Fatalf("expected ErrMissingAccessKey, got %v", err)
	}
	client, err := New(Config{AccessKey: "k"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client.endpoint != DefaultEndpoint || client.PerPage() != DefaultPerPage {
		t.Fatalf("defaults not applied: %+v", client)
	}
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"with key", "https://api.unsplash.com/search/photos/?client_id=abc&page=1", "https://api.unsplash.com/search/photos/?client_id=REDACTED&page=1"},
		{"without key", "https://images.example/1.jpg?w=400", "https://images.example/1.jpg?w=400"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RedactURL(tt.in); got != tt.want {
				t.Fatalf("RedactURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPhotoCaption(t *testing.T) {
	t.Parallel()

	if got := (Photo{Description: "  ", AltDescription: "alt"}).Caption(); got != "alt" {
		t.Fatalf("caption fallback = %q", got)
	}
	if got := (Photo{Description: "desc", AltDescription: "alt"}).Caption(); got != "desc" {
		t.Fatalf("caption = %q", got)
	}
}
