package fetchextract

import (
	"archive/tar"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"

	"github.com/maskedsyntax/cjdk/internal/jdkindex"
)

func extractTar(archivePath string, archiveType jdkindex.ArchiveType, destDir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("fetchextract: open %s: %w", archivePath, err)
	}
	defer file.Close()

	var reader io.Reader = file
	switch archiveType {
	case jdkindex.Tgz:
		gz, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("fetchextract: gzip %s: %w", archivePath, err)
		}
		defer gz.Close()
		reader = gz
	case jdkindex.Tbz2:
		reader = bzip2.NewReader(file)
	case jdkindex.Txz:
		xzReader, err := xz.NewReader(file)
		if err != nil {
			return fmt.Errorf("fetchextract: xz %s: %w", archivePath, err)
		}
		reader = xzReader
	case jdkindex.Tar:
		// reader is already the raw file.
	default:
		return fmt.Errorf("fetchextract: extractTar called with non-tar type %q", archiveType)
	}

	tr := tar.NewReader(reader)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetchextract: read tar entry: %w", err)
		}

		target, err := safeJoin(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("fetchextract: mkdir %s: %w", target, err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("fetchextract: mkdir %s: %w", filepath.Dir(target), err)
			}
			outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode&0o777))
			if err != nil {
				return fmt.Errorf("fetchextract: create %s: %w", target, err)
			}
			if _, err := io.Copy(outFile, tr); err != nil {
				outFile.Close()
				return fmt.Errorf("fetchextract: write %s: %w", target, err)
			}
			if err := outFile.Close(); err != nil {
				return fmt.Errorf("fetchextract: close %s: %w", target, err)
			}

		case tar.TypeSymlink:
			if err := safeSymlinkTarget(destDir, target, header.Linkname); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("fetchextract: mkdir %s: %w", filepath.Dir(target), err)
			}
			os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("fetchextract: symlink %s: %w", target, err)
			}

		case tar.TypeLink:
			linkTarget, err := safeJoin(destDir, header.Linkname)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("fetchextract: mkdir %s: %w", filepath.Dir(target), err)
			}
			os.Remove(target)
			if err := os.Link(linkTarget, target); err != nil {
				return fmt.Errorf("fetchextract: hardlink %s: %w", target, err)
			}
		}
	}
}
