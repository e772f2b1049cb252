package jdkindex

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maskedsyntax/cjdk/internal/installcache"
)

func TestFetchReadsLocalPathWithoutCaching(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "index.json")
	require.NoError(t, os.WriteFile(indexPath, []byte(sampleIndex), 0o644))

	layout := installcache.NewLayout(filepath.Join(dir, "cache"))
	f := NewFetcher(layout)

	idx, err := f.Fetch(t.Context(), indexPath, time.Hour)
	require.NoError(t, err)
	assert.True(t, idx.HasVendor("linux", "amd64", "temurin"))
}

func TestFetchCachesRemoteIndexAndReusesWithinTTL(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(sampleIndex))
	}))
	defer server.Close()

	layout := installcache.NewLayout(t.TempDir())
	f := NewFetcher(layout)

	_, err := f.Fetch(t.Context(), server.URL, time.Hour)
	require.NoError(t, err)
	_, err = f.Fetch(t.Context(), server.URL, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
}

func TestFetchForceRefreshesWhenTTLIsZero(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(sampleIndex))
	}))
	defer server.Close()

	layout := installcache.NewLayout(t.TempDir())
	f := NewFetcher(layout)

	_, err := f.Fetch(t.Context(), server.URL, 0)
	require.NoError(t, err)
	_, err = f.Fetch(t.Context(), server.URL, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, hits)
}
