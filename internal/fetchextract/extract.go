package fetchextract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/maskedsyntax/cjdk/internal/jdkindex"
)

// safeJoin resolves name against root, rejecting any path that would escape
// root: ".." segments, absolute paths, or (on Windows) a drive letter
// (spec.md §4.5 "path-safety checks").
func safeJoin(root, name string) (string, error) {
	cleaned := filepath.Clean(strings.ReplaceAll(name, "\\", "/"))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("fetchextract: unsafe archive entry %q", name)
	}
	if len(cleaned) >= 2 && cleaned[1] == ':' {
		return "", fmt.Errorf("fetchextract: unsafe archive entry %q", name)
	}
	target := filepath.Join(root, cleaned)
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("fetchextract: unsafe archive entry %q", name)
	}
	return target, nil
}

// safeSymlinkTarget rejects a symlink whose resolved target would escape
// root.
func safeSymlinkTarget(root, linkPath, linkTarget string) error {
	dest := linkTarget
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(linkPath), dest)
	}
	rel, err := filepath.Rel(root, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("fetchextract: symlink %q escapes install root", linkPath)
	}
	return nil
}

// Extract dispatches to the format-specific extractor for archiveType,
// unpacking archivePath into destDir (which must already exist).
func Extract(archivePath string, archiveType jdkindex.ArchiveType, destDir string) error {
	switch archiveType {
	case jdkindex.Zip:
		return extractZip(archivePath, destDir)
	case jdkindex.Tgz, jdkindex.Tbz2, jdkindex.Txz, jdkindex.Tar:
		return extractTar(archivePath, archiveType, destDir)
	default:
		return fmt.Errorf("fetchextract: unsupported archive type %q", archiveType)
	}
}

// StripOne applies spec.md §4.5's rule: if extractDir contains exactly one
// entry and that entry is a directory, the install root is that directory's
// contents rather than extractDir itself. It returns the directory that
// should actually be published.
func StripOne(extractDir string) (string, error) {
	entries, err := os.ReadDir(extractDir)
	if err != nil {
		return "", fmt.Errorf("fetchextract: read extracted contents: %w", err)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(extractDir, entries[0].Name()), nil
	}
	return extractDir, nil
}
