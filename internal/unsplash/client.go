package unsplash

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
)

const (
	// DefaultEndpoint is the public Unsplash API host.
	DefaultEndpoint = "https://api.unsplash.com"
	// DefaultPerPage matches the 3x3 result grid.
	DefaultPerPage = 9

	searchPath         = "/search/photos/"
	defaultHTTPTimeout = 15 * time.Second
	maxBodyBytes       = 4 << 20
	errorSnippetBytes  = 512
	redactedValue      = "REDACTED"
)

var (
	// ErrMissingAccessKey is returned by New when no credential was configured.
	ErrMissingAccessKey = errors.New("unsplash: access key is required")
	// ErrTransport marks network level failures.
	ErrTransport = errors.New("unsplash: request failed")
	// ErrDecode marks response bodies that are not the expected JSON document.
	ErrDecode = errors.New("unsplash: malformed response")
)

// Config describes how to build a search client.
type Config struct {
	AccessKey  string
	Endpoint   string
	PerPage    int
	UserAgent  string
	HTTPClient *http.Client
}

// Client issues photo searches against the Unsplash API.
type Client struct {
	accessKey string
	endpoint  string
	perPage   int
	userAgent string
	client    *http.Client
}

// StatusError reports a non-success HTTP status. When the body still decoded
// as a search page, BodyDecoded is true and Search returns that page too.
type StatusError struct {
	StatusCode  int
	Status      string
	Messages    []string
	Body        string
	BodyDecoded bool
}

func (e *StatusError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("unsplash API error: %s (%s)", e.Status, strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("unsplash API error: %s (%s)", e.Status, e.Body)
}

// New validates cfg and returns a ready client.
func New(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.AccessKey)
	if key == "" {
		return nil, ErrMissingAccessKey
	}
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("unsplash: invalid endpoint %q: %w", endpoint, err)
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &Client{
		accessKey: key,
		endpoint:  endpoint,
		perPage:   perPage,
		userAgent: cfg.UserAgent,
		client:    pickHTTPClient(cfg.HTTPClient),
	}, nil
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

// PerPage reports the page size sent with every search.
func (c *Client) PerPage() int {
	return c.perPage
}

// Search fetches one page of results for query.
func (c *Client) Search(ctx context.Context, query string, page int) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query, page), nil)
	if err != nil {
		return Page{}, fmt.Errorf("unsplash: build request: %w", redactError(err))
	}
	req.Header.Set("Accept-Version", "v1")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %w", ErrTransport, redactError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Page{}, fmt.Errorf("%w: read body: %w", ErrTransport, redactError(err))
	}

	var parsed Page
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			StatusCode:  resp.StatusCode,
			Status:      resp.Status,
			Messages:    apiMessages(body),
			Body:        snippet(body),
			BodyDecoded: decodeErr == nil,
		}
		if decodeErr != nil {
			return Page{}, statusErr
		}
		return parsed, statusErr
	}
	if decodeErr != nil {
		return Page{}, fmt.Errorf("%w: %w", ErrDecode, decodeErr)
	}
	return parsed, nil
}

func (c *Client) searchURL(query string, page int) string {
	params := url.Values{}
	params.Set("client_id", c.accessKey)
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(c.perPage))
	return c.endpoint + searchPath + "?" + params.Encode()
}

func apiMessages(body []byte) []string {
	var payload struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	return payload.Errors
}

func snippet(body []byte) string {
	if len(body) > errorSnippetBytes {
		body = body[:errorSnippetBytes]
	}
	return strings.TrimSpace(string(body))
}

// redactError scrubs the client_id parameter from URLs carried by err.
func redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = RedactURL(urlErr.URL)
	}
	return err
}

// RedactURL replaces the client_id parameter of raw so the value can be logged.
func RedactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	params := parsed.Query()
	if !params.Has("client_id") {
		return raw
	}
	params.Set("client_id", redactedValue)
	parsed.RawQuery = params.Encode()
	return parsed.String()
}
