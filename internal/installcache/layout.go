// Package installcache owns the on-disk cache layout described in
// spec.md §3 ("CacheLayout"), cross-process advisory locking (lock.go,
// lock_unix.go, lock_windows.go), and the atomic install protocols used by
// every façade operation that materializes something under the cache root
// (§4.6 "Install Cache").
package installcache

import (
	"crypto/sha1" //nolint:gosec // content-addressing, not a security boundary
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

const schemaVersion = "v0"

// Layout resolves every path used under a cache root R, per spec.md §3:
//
//	R/v0/jdks/<InstallKey>/
//	R/v0/jdks/<InstallKey>.partial/
//	R/v0/jdks/<InstallKey>.lock
//	R/v0/index/<urlHash>/index.json
//	R/v0/index/<urlHash>/fetched-at
//	R/v0/files/<nameHash>/<filename>
//	R/v0/pkgs/<InstallKey>/
type Layout struct {
	Root string
}

// NewLayout returns a Layout rooted at root.
func NewLayout(root string) Layout {
	return Layout{Root: root}
}

func (l Layout) versionedRoot() string {
	return filepath.Join(l.Root, schemaVersion)
}

// JDKsDir is R/v0/jdks.
func (l Layout) JDKsDir() string { return filepath.Join(l.versionedRoot(), "jdks") }

// JDKDir is the materialized install root for key.
func (l Layout) JDKDir(key string) string { return filepath.Join(l.JDKsDir(), key) }

// JDKPartialDir is the scratch directory used while installing key.
func (l Layout) JDKPartialDir(key string) string { return l.JDKDir(key) + ".partial" }

// JDKLockPath is the exclusive lock file guarding key's install.
func (l Layout) JDKLockPath(key string) string { return l.JDKDir(key) + ".lock" }

// IndexDir is R/v0/index/<urlHash>.
func (l Layout) IndexDir(urlHash string) string {
	return filepath.Join(l.versionedRoot(), "index", urlHash)
}

// IndexJSONPath is the cached index document for urlHash.
func (l Layout) IndexJSONPath(urlHash string) string {
	return filepath.Join(l.IndexDir(urlHash), "index.json")
}

// IndexFetchedAtPath records the epoch-seconds timestamp of the last
// successful fetch for urlHash.
func (l Layout) IndexFetchedAtPath(urlHash string) string {
	return filepath.Join(l.IndexDir(urlHash), "fetched-at")
}

// IndexLockPath is the exclusive lock guarding refreshes of urlHash's index.
func (l Layout) IndexLockPath(urlHash string) string {
	return filepath.Join(l.IndexDir(urlHash), ".lock")
}

// FilesDir is R/v0/files.
func (l Layout) FilesDir() string { return filepath.Join(l.versionedRoot(), "files") }

// FileDir is R/v0/files/<nameHash>, the destination directory for a single
// cache_file artifact.
func (l Layout) FileDir(nameHash string) string { return filepath.Join(l.FilesDir(), nameHash) }

// PkgsDir is R/v0/pkgs.
func (l Layout) PkgsDir() string { return filepath.Join(l.versionedRoot(), "pkgs") }

// PkgDir is the materialized directory for a cache_package install keyed by
// key (computed with the same InstallKey algorithm as JDKs).
func (l Layout) PkgDir(key string) string { return filepath.Join(l.PkgsDir(), key) }

// ClearScopeDir resolves one of the four clear_cache scopes (spec.md §4.6);
// "all" clears the whole versioned root.
func (l Layout) ClearScopeDir(scope string) (string, error) {
	switch scope {
	case "jdks":
		return l.JDKsDir(), nil
	case "index":
		return filepath.Join(l.versionedRoot(), "index"), nil
	case "files":
		return l.FilesDir(), nil
	case "pkgs":
		return l.PkgsDir(), nil
	case "all":
		return l.versionedRoot(), nil
	default:
		return "", fmt.Errorf("installcache: unknown clear_cache scope %q", scope)
	}
}

// InstallKey computes the content-addressed identity of an install:
// lowercase hex SHA-1 of "<archiveType>+<url>" (spec.md §3, §8 property 3).
func InstallKey(archiveType, url string) string {
	return hashHex(string(archiveType) + "+" + url)
}

// URLHash computes the cache-directory key for an index URL (spec.md §4.3).
// The exact algorithm is an open question in spec.md §9 as long as it is
// stable; this implementation picks SHA-1 for consistency with InstallKey.
func URLHash(url string) string {
	return hashHex(url)
}

// NameHash computes the cache-directory key for a cache_file filename.
func NameHash(name string) string {
	return hashHex(name)
}

func hashHex(s string) string {
	sum := sha1.Sum([]byte(s)) //nolint:gosec // content-addressing, not a security boundary
	return hex.EncodeToString(sum[:])
}

// EnsureVersionedRoot creates R/v0 (and R) if they do not already exist.
func (l Layout) EnsureVersionedRoot() error {
	return os.MkdirAll(l.versionedRoot(), 0o755)
}
