package fetchextract

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadVerifiesChecksum(t *testing.T) {
	body := []byte("archive-bytes")
	sum := sha256.Sum256(body)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out")
	err := Download(t.Context(), server.URL, dest, DownloadOptions{
		Checksums: Checksums{SHA256: hex.EncodeToString(sum[:])},
	})
	require.NoError(t, err)
	assert.FileExists(t, dest)
}

func TestDownloadVerifiesAllSuppliedDigestsInOnePass(t *testing.T) {
	body := []byte("archive-bytes")
	sha256Sum := sha256.Sum256(body)
	sha512Sum := sha512.Sum512(body)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out")
	err := Download(t.Context(), server.URL, dest, DownloadOptions{
		Checksums: Checksums{
			SHA256: hex.EncodeToString(sha256Sum[:]),
			SHA512: hex.EncodeToString(sha512Sum[:]),
		},
	})
	require.NoError(t, err)
	assert.FileExists(t, dest)
}

func TestDownloadRemovesFileOnChecksumMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("archive-bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out")
	err := Download(t.Context(), server.URL, dest, DownloadOptions{
		Checksums: Checksums{SHA256: "0000000000000000000000000000000000000000000000000000000000000000"},
	})
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadRemovesFileOnSHA512Mismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("archive-bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out")
	err := Download(t.Context(), server.URL, dest, DownloadOptions{
		Checksums: Checksums{SHA512: "0000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"},
	})
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadRejectsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out")
	err := Download(t.Context(), server.URL, dest, DownloadOptions{})
	assert.Error(t, err)
}
