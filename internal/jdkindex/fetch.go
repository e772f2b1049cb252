package jdkindex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/maskedsyntax/cjdk/internal/installcache"
)

// DefaultIndexURL is the coursier-published JDK index consulted when the
// caller and CJDK_INDEX_URL are both silent (spec.md §6).
const DefaultIndexURL = "https://github.com/coursier/jvm-index/raw/master/index.json"

// Fetcher retrieves and caches the raw index document behind an index URL,
// then hands parsed bytes to Build. It implements spec.md §4.3's fetch and
// TTL semantics: local paths are read directly and never cached; remote URLs
// are cached under the install cache root and refreshed once the cached
// copy's age exceeds ttl.
type Fetcher struct {
	Layout installcache.Layout
	Client *retryablehttp.Client
}

// NewFetcher returns a Fetcher backed by layout. A retryablehttp client with
// the package defaults (exponential backoff, 4 retries) is used unless
// overridden.
func NewFetcher(layout installcache.Layout) *Fetcher {
	client := retryablehttp.NewClient()
	client.Logger = nil
	return &Fetcher{Layout: layout, Client: client}
}

// Fetch resolves indexURL to a parsed Index. ttl <= 0 forces a refresh of a
// remote URL regardless of the cached copy's age; it has no effect on local
// paths, which are always read fresh.
func (f *Fetcher) Fetch(ctx context.Context, indexURL string, ttl time.Duration) (*Index, error) {
	if isLocalPath(indexURL) {
		data, err := os.ReadFile(indexURL)
		if err != nil {
			return nil, fmt.Errorf("jdkindex: read local index %s: %w", indexURL, err)
		}
		return Build(data)
	}

	data, err := f.fetchRemote(ctx, indexURL, ttl)
	if err != nil {
		return nil, err
	}
	return Build(data)
}

func (f *Fetcher) fetchRemote(ctx context.Context, indexURL string, ttl time.Duration) ([]byte, error) {
	hash := installcache.URLHash(indexURL)
	dir := f.Layout.IndexDir(hash)
	jsonPath := f.Layout.IndexJSONPath(hash)
	fetchedAtPath := f.Layout.IndexFetchedAtPath(hash)
	lockPath := f.Layout.IndexLockPath(hash)

	if f.isFresh(jsonPath, fetchedAtPath, ttl) {
		return os.ReadFile(jsonPath)
	}

	lock := installcache.NewLock(lockPath)
	if err := lock.Lock(ctx); err != nil {
		return nil, err
	}
	defer lock.Unlock()

	if f.isFresh(jsonPath, fetchedAtPath, ttl) {
		return os.ReadFile(jsonPath)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jdkindex: create index cache dir: %w", err)
	}

	data, err := f.download(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	tmp := jsonPath + ".tmp"
	if err := writeFileSynced(tmp, data); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("jdkindex: write index cache: %w", err)
	}
	if err := os.Rename(tmp, jsonPath); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("jdkindex: publish index cache: %w", err)
	}
	if err := installcache.WriteFetchedAt(fetchedAtPath, timeNow()); err != nil {
		return nil, fmt.Errorf("jdkindex: record fetched-at: %w", err)
	}

	return data, nil
}

func (f *Fetcher) isFresh(jsonPath, fetchedAtPath string, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	if _, err := os.Stat(jsonPath); err != nil {
		return false
	}
	fetchedAt, err := installcache.ReadFetchedAt(fetchedAtPath)
	if err != nil {
		return false
	}
	return timeNow().Sub(fetchedAt) < ttl
}

func (f *Fetcher) download(ctx context.Context, indexURL string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, indexURL, nil)
	if err != nil {
		return nil, fmt.Errorf("jdkindex: build request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jdkindex: fetch %s: %w", indexURL, err)
	}
	defer resp.Body.Close()
	if !isSuccessStatus(resp.StatusCode) {
		return nil, fmt.Errorf("jdkindex: fetch %s: unexpected status %s", indexURL, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jdkindex: read response body: %w", err)
	}
	return data, nil
}

func isSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}

// writeFileSynced writes data to path and fsyncs before returning, so the
// rename-over in fetchRemote never publishes a path whose prior write is
// still sitting in a dirty page cache (spec.md §4.3's crash-safety).
func writeFileSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func isLocalPath(indexURL string) bool {
	u, err := url.Parse(indexURL)
	if err != nil {
		return true
	}
	return u.Scheme == "" || u.Scheme == "file"
}

// timeNow is a seam so tests can control freshness without depending on
// wall-clock timing; production code always uses time.Now.
var timeNow = time.Now
