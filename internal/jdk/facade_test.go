package jdk

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maskedsyntax/cjdk/internal/cjdkconfig"
	"github.com/maskedsyntax/cjdk/internal/cjdkerrors"
	"github.com/maskedsyntax/cjdk/internal/fetchextract"
)

func writeFakeJDKArchive(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	files := map[string]string{
		"jdk-17.0.2/bin/java":   "fake binary",
		"jdk-17.0.2/release":    "JAVA_VERSION=17.0.2",
	}
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o755, Size: int64(len(content))}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
}

func newTestFacade(t *testing.T, archiveURL string) *Facade {
	t.Helper()
	indexJSON := fmt.Sprintf(`{
  "%s": {
    "%s": {
      "temurin": {
        "17.0.2": "tgz+%s"
      }
    }
  }
}`, canonicalGOOS(), canonicalGOARCH(), archiveURL)

	indexServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(indexJSON))
	}))
	t.Cleanup(indexServer.Close)

	opts, err := cjdkconfig.Configure(cjdkconfig.Environ{}, "", t.TempDir(), indexServer.URL, "", "", 0, boolPtr(false))
	require.NoError(t, err)
	return New(opts)
}

func canonicalGOOS() string {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		return runtime.GOOS
	}
	return "linux"
}

func canonicalGOARCH() string {
	switch runtime.GOARCH {
	case "arm64":
		return "arm64"
	default:
		return "amd64"
	}
}

func boolPtr(b bool) *bool { return &b }

func TestCacheJDKDownloadsAndExtractsOnce(t *testing.T) {
	archiveDir := t.TempDir()
	archivePath := filepath.Join(archiveDir, "temurin-17.0.2.tar.gz")
	writeFakeJDKArchive(t, archivePath)

	archiveServer := httptest.NewServer(http.FileServer(http.Dir(archiveDir)))
	defer archiveServer.Close()

	f := newTestFacade(t, archiveServer.URL+"/temurin-17.0.2.tar.gz")

	dir, err := f.CacheJDK(t.Context(), "temurin:17.0.2")
	require.NoError(t, err)
	assert.DirExists(t, dir)

	dir2, err := f.CacheJDK(t.Context(), "temurin:17.0.2")
	require.NoError(t, err)
	assert.Equal(t, dir, dir2)
}

func TestJavaHomeFindsBinJavaAfterStripOne(t *testing.T) {
	archiveDir := t.TempDir()
	archivePath := filepath.Join(archiveDir, "temurin-17.0.2.tar.gz")
	writeFakeJDKArchive(t, archivePath)

	archiveServer := httptest.NewServer(http.FileServer(http.Dir(archiveDir)))
	defer archiveServer.Close()

	f := newTestFacade(t, archiveServer.URL+"/temurin-17.0.2.tar.gz")

	home, err := f.JavaHome(t.Context(), "temurin:17.0.2")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(home, "bin", "java"))
}

func TestListJDKsReportsInstalledEntries(t *testing.T) {
	archiveDir := t.TempDir()
	archivePath := filepath.Join(archiveDir, "temurin-17.0.2.tar.gz")
	writeFakeJDKArchive(t, archivePath)

	archiveServer := httptest.NewServer(http.FileServer(http.Dir(archiveDir)))
	defer archiveServer.Close()

	f := newTestFacade(t, archiveServer.URL+"/temurin-17.0.2.tar.gz")

	_, err := f.CacheJDK(t.Context(), "temurin:17.0.2")
	require.NoError(t, err)

	installed, err := f.ListJDKs(t.Context())
	require.NoError(t, err)
	require.Len(t, installed, 1)
	assert.Equal(t, "temurin:17.0.2", installed[0].Key)
	assert.DirExists(t, installed[0].Path)
}

func TestListJDKsOmitsUncachedIndexEntries(t *testing.T) {
	f := newTestFacade(t, "https://example.test/unused")

	installed, err := f.ListJDKs(t.Context())
	require.NoError(t, err)
	assert.Empty(t, installed)
}

func TestCachePackageRequiresKnownArchiveType(t *testing.T) {
	f := newTestFacade(t, "https://example.test/unused")
	_, err := f.CachePackage(t.Context(), "https://example.test/thing", "", fetchextract.Checksums{})
	assert.Error(t, err)
}

func TestCachePackageSHA512MismatchReturnsInstallError(t *testing.T) {
	archiveDir := t.TempDir()
	archivePath := filepath.Join(archiveDir, "pkg.tar.gz")
	writeFakeJDKArchive(t, archivePath)

	archiveServer := httptest.NewServer(http.FileServer(http.Dir(archiveDir)))
	defer archiveServer.Close()

	f := newTestFacade(t, "https://example.test/unused")
	_, err := f.CachePackage(t.Context(), archiveServer.URL+"/pkg.tar.gz", "tgz", fetchextract.Checksums{
		SHA512: "0000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000",
	})
	require.Error(t, err)
	var installErr *cjdkerrors.InstallError
	require.True(t, errors.As(err, &installErr))
}
