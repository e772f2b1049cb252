// Package jdkindex builds the in-memory Index Model from the JSON document
// published at a coursier-style JDK index URL, and fetches/caches that
// document (see fetch.go).
package jdkindex

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/maskedsyntax/cjdk/internal/version"
)

// ArchiveType enumerates the archive formats the Fetch-and-Extract Engine
// understands.
type ArchiveType string

const (
	Tgz  ArchiveType = "tgz"
	Tbz2 ArchiveType = "tbz2"
	Txz  ArchiveType = "txz"
	Zip  ArchiveType = "zip"
	Tar  ArchiveType = "tar"
)

// Descriptor identifies a single downloadable JDK/JRE distribution. The
// digest fields mirror spec.md §4.5's optional hash set
// ({sha1?, sha256?, sha512?, md5?}); the coursier-style index this package
// parses does not itself publish any of them, so they are always empty for
// index-sourced descriptors and exist for cache_file/cache_package callers
// who supply their own expected digests.
type Descriptor struct {
	Vendor      string
	Version     string
	OS          string
	Arch        string
	URL         string
	ArchiveType ArchiveType
	MD5         string
	SHA1        string
	SHA256      string
	SHA512      string
}

// entry is a (normalized version, descriptor) pair held per vendor, kept
// sorted ascending by the version algebra.
type entry struct {
	raw  string
	norm version.Version
	desc Descriptor
}

// Index is the resolved (os, arch, vendor) -> ordered version list model
// built from raw index JSON plus the suffix-merge and dedup rules in
// spec.md §4.2.
type Index struct {
	// byOSArchVendor[os][arch][vendor] is sorted ascending by version.
	byOSArchVendor map[string]map[string]map[string][]entry
}

// semeruSuffixPrefix matches ibm-semeru-openj9-java<N>, the only configured
// suffix-merge pattern spec.md §4.2 requires "at minimum".
const semeruSuffixPrefix = "ibm-semeru-openj9-"
const semeruCanonical = "ibm-semeru-openj9"

// rawDocument mirrors the JSON shape index[os][arch][vendor][version] = url.
type rawDocument map[string]map[string]map[string]map[string]string

// Build parses raw index JSON and applies the suffix-merge, dedup, and sort
// transforms of spec.md §4.2. It is pure and deterministic: identical bytes
// always yield an identical Index.
func Build(data []byte) (*Index, error) {
	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("jdkindex: parse index: %w", err)
	}

	idx := &Index{byOSArchVendor: make(map[string]map[string]map[string][]entry)}

	// winners[os][arch][canonicalVendor][mergedVersion] -> the
	// winning (lexicographically greatest original vendor) raw entry, used
	// to dedup across merged suffix variants.
	type winner struct {
		originalVendor string
		e              entry
	}
	winners := make(map[string]map[string]map[string]map[string]winner)

	for osName, byArch := range doc {
		for arch, byVendor := range byArch {
			for rawVendor, byVersion := range byVendor {
				canonicalVendor, versionSuffix := mergeVendor(rawVendor)
				for rawVersion, url := range byVersion {
					mergedVersion := rawVersion
					if versionSuffix != "" {
						mergedVersion = rawVersion + "-" + versionSuffix
					}
					desc, err := descriptorFrom(canonicalVendor, mergedVersion, osName, arch, url)
					if err != nil {
						continue
					}
					norm := version.Parse(mergedVersion)
					e := entry{raw: mergedVersion, norm: norm, desc: desc}

					if _, ok := winners[osName]; !ok {
						winners[osName] = make(map[string]map[string]map[string]winner)
					}
					if _, ok := winners[osName][arch]; !ok {
						winners[osName][arch] = make(map[string]map[string]winner)
					}
					if _, ok := winners[osName][arch][canonicalVendor]; !ok {
						winners[osName][arch][canonicalVendor] = make(map[string]winner)
					}
					key := mergedVersion
					existing, exists := winners[osName][arch][canonicalVendor][key]
					if !exists || rawVendor > existing.originalVendor {
						winners[osName][arch][canonicalVendor][key] = winner{originalVendor: rawVendor, e: e}
					}
				}
			}
		}
	}

	for osName, byArch := range winners {
		idx.byOSArchVendor[osName] = make(map[string]map[string][]entry)
		for arch, byVendor := range byArch {
			idx.byOSArchVendor[osName][arch] = make(map[string][]entry)
			for vendor, byVersion := range byVendor {
				entries := make([]entry, 0, len(byVersion))
				for _, w := range byVersion {
					entries = append(entries, w.e)
				}
				sort.Slice(entries, func(i, j int) bool {
					return compareEntries(entries[i], entries[j], vendor) == version.Less
				})
				idx.byOSArchVendor[osName][arch][vendor] = entries
			}
		}
	}

	return idx, nil
}

func compareEntries(a, b entry, vendor string) version.Ordering {
	return version.Compare(a.raw, b.raw, vendor)
}

// mergeVendor rewrites an index vendor name that carries a Java-major-version
// suffix (e.g. "ibm-semeru-openj9-java17") into its canonical prefix plus the
// stripped suffix, per spec.md §4.2's suffix-merge rule.
func mergeVendor(rawVendor string) (canonical string, versionSuffix string) {
	if strings.HasPrefix(rawVendor, semeruSuffixPrefix) {
		suffix := strings.TrimPrefix(rawVendor, semeruSuffixPrefix)
		if suffix != "" {
			return semeruCanonical, suffix
		}
	}
	return rawVendor, ""
}

// descriptorFrom builds an ArchiveDescriptor from a raw URL that may carry a
// "<type>+" prefix (spec.md §3).
func descriptorFrom(vendor, ver, osName, arch, rawURL string) (Descriptor, error) {
	archiveType, url := splitArchiveType(rawURL)
	if archiveType == "" {
		archiveType = inferArchiveType(url)
	}
	if archiveType == "" {
		return Descriptor{}, fmt.Errorf("jdkindex: cannot infer archive type for %q", rawURL)
	}
	return Descriptor{
		Vendor:      vendor,
		Version:     ver,
		OS:          osName,
		Arch:        arch,
		URL:         url,
		ArchiveType: archiveType,
	}, nil
}

func splitArchiveType(rawURL string) (ArchiveType, string) {
	for _, t := range []ArchiveType{Tgz, Tbz2, Txz, Zip, Tar} {
		prefix := string(t) + "+"
		if strings.HasPrefix(rawURL, prefix) {
			return t, strings.TrimPrefix(rawURL, prefix)
		}
	}
	return "", rawURL
}

func inferArchiveType(url string) ArchiveType {
	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return Tgz
	case strings.HasSuffix(lower, ".tar.bz2"), strings.HasSuffix(lower, ".tbz2"):
		return Tbz2
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return Txz
	case strings.HasSuffix(lower, ".zip"):
		return Zip
	case strings.HasSuffix(lower, ".tar"):
		return Tar
	default:
		return ""
	}
}

// Vendors returns the sorted, unique vendor identifiers available for
// (os, arch).
func (idx *Index) Vendors(osName, arch string) []string {
	byVendor, ok := idx.byOSArchVendor[osName][arch]
	if !ok {
		return nil
	}
	vendors := make([]string, 0, len(byVendor))
	for v := range byVendor {
		vendors = append(vendors, v)
	}
	sort.Strings(vendors)
	return vendors
}

// Versions returns the versions available for (os, arch, vendor), sorted
// ascending by the version algebra.
func (idx *Index) Versions(osName, arch, vendor string) []string {
	entries := idx.byOSArchVendor[osName][arch][vendor]
	versions := make([]string, len(entries))
	for i, e := range entries {
		versions[i] = e.raw
	}
	return versions
}

// HasVendor reports whether vendor has any entries for (os, arch).
func (idx *Index) HasVendor(osName, arch, vendor string) bool {
	_, ok := idx.byOSArchVendor[osName][arch][vendor]
	return ok
}

// Descriptor returns the ArchiveDescriptor for an exact (os, arch, vendor,
// version) tuple, as it appears in the index (not through expression
// matching — see internal/resolve for that).
func (idx *Index) Descriptor(osName, arch, vendor, ver string) (Descriptor, bool) {
	for _, e := range idx.byOSArchVendor[osName][arch][vendor] {
		if e.raw == ver {
			return e.desc, true
		}
	}
	return Descriptor{}, false
}
