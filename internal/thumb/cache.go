// Package thumb downloads photo previews and draws them as terminal art.
package thumb

import (
	"context"
	"crypto/sha1"
	hexenc "encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// CacheEnvVar overrides the thumbnail cache directory.
	CacheEnvVar = "PHOTOSCOUT_CACHE_DIR"

	cacheSubdir        = "photoscout/thumbs"
	cacheTTL           = 24 * time.Hour
	partialSuffix      = ".part"
	metaSuffix         = ".meta"
	defaultHTTPTimeout = 30 * time.Second
	maxImageBytes      = 16 << 20
)

// ErrTooLarge is returned for previews bigger than the cache accepts.
var ErrTooLarge = errors.New("thumb: image exceeds size limit")

// CacheConfig configures a Cache. Empty fields fall back to defaults.
type CacheConfig struct {
	Dir        string
	HTTPClient *http.Client
}

// Cache stores preview images on disk keyed by their URL. Concurrent
// fetches of one URL share a single download, since they write the same
// partial file.
type Cache struct {
	dir      string
	client   *http.Client
	inflight singleflight.Group
}

type imageMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	ContentType  string    `json:"contentType"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

// NewCache resolves the cache directory and creates it.
func NewCache(cfg CacheConfig) (*Cache, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		dir = os.Getenv(CacheEnvVar)
	}
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "photoscout-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("thumb: create cache dir: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Cache{dir: dir, client: client}, nil
}

// Dir reports where images are stored.
func (c *Cache) Dir() string { return c.dir }

// Fetch returns a local path holding the image at imageURL. Fresh copies are
// served without touching the network. When a refresh fails, a previously
// cached copy is returned instead of the error.
func (c *Cache) Fetch(ctx context.Context, imageURL string) (string, error) {
	key := cacheKey(imageURL)
	p, err, _ := c.inflight.Do(key, func() (any, error) {
		return c.fetch(ctx, key, imageURL)
	})
	if err != nil {
		return "", err
	}
	return p.(string), nil
}

func (c *Cache) fetch(ctx context.Context, key, imageURL string) (string, error) {
	imagePath, metaPath, partialPath := c.pathsFor(key, imageURL)

	if info, err := os.Stat(imagePath); err == nil && time.Since(info.ModTime()) < cacheTTL && info.Size() > 0 {
		return imagePath, nil
	}

	meta, _ := readMeta(metaPath)
	info, _ := os.Stat(imagePath)
	p, err := c.download(ctx, imageURL, imagePath, metaPath, partialPath, meta, info)
	if err == nil {
		return p, nil
	}
	if info != nil && info.Size() > 0 {
		return imagePath, nil
	}
	return "", err
}

func (c *Cache) download(ctx context.Context, imageURL, imagePath, metaPath, partialPath string, meta imageMeta, current os.FileInfo) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("thumb: build request: %w", err)
	}
	if current != nil && current.Size() > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	var partialSize int64
	if info, err := os.Stat(partialPath); err == nil && info.Size() > 0 {
		partialSize = info.Size()
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", partialSize))
		if meta.ETag != "" {
			req.Header.Set("If-Range", meta.ETag)
		} else if meta.LastModified != "" {
			req.Header.Set("If-Range", meta.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("thumb: fetch %s: %w", displayURL(imageURL), err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if current != nil && current.Size() > 0 {
			meta.CachedAt = time.Now().UTC()
			_ = writeMeta(metaPath, meta)
			now := time.Now()
			_ = os.Chtimes(imagePath, now, now)
			return imagePath, nil
		}
		return c.download(ctx, imageURL, imagePath, metaPath, partialPath, imageMeta{}, nil)
	case http.StatusOK:
		return c.saveBody(resp, imagePath, metaPath, partialPath, false)
	case http.StatusPartialContent:
		return c.saveBody(resp, imagePath, metaPath, partialPath, partialSize > 0)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("thumb: download failed: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}
}

func (c *Cache) saveBody(resp *http.Response, imagePath, metaPath, partialPath string, appendExisting bool) (string, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendExisting {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(partialPath, flags, 0o644)
	if err != nil {
		return "", err
	}
	written, err := io.Copy(file, io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	if written > maxImageBytes {
		_ = os.Remove(partialPath)
		return "", ErrTooLarge
	}
	if err := os.Rename(partialPath, imagePath); err != nil {
		return "", err
	}

	meta := imageMeta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		ContentType:  resp.Header.Get("Content-Type"),
		CachedAt:     time.Now().UTC(),
	}
	if info, err := os.Stat(imagePath); err == nil {
		meta.Size = info.Size()
	}
	if err := writeMeta(metaPath, meta); err != nil {
		return "", err
	}
	return imagePath, nil
}

func (c *Cache) pathsFor(key, imageURL string) (string, string, string) {
	base := filepath.Join(c.dir, key)
	return base + imageExt(imageURL), base + metaSuffix, base + partialSuffix
}

// cacheKey hashes the full URL, query included, since Unsplash encodes the
// rendition size in query parameters.
func cacheKey(imageURL string) string {
	sum := sha1.Sum([]byte(imageURL))
	return hexenc.EncodeToString(sum[:])
}

func imageExt(imageURL string) string {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return ".img"
	}
	switch ext := strings.ToLower(path.Ext(parsed.Path)); ext {
	case ".jpg", ".jpeg", ".png", ".gif":
		return ext
	}
	if fm := parsed.Query().Get("fm"); fm != "" {
		switch strings.ToLower(fm) {
		case "jpg", "jpeg", "png", "gif":
			return "." + strings.ToLower(fm)
		}
	}
	return ".img"
}

// displayURL trims the query so log lines stay short.
func displayURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	parsed.RawQuery = ""
	return parsed.String()
}

func readMeta(path string) (imageMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return imageMeta{}, err
	}
	var meta imageMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return imageMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta imageMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
