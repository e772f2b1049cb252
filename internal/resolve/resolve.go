// Package resolve implements the Resolver component: turning a
// (vendor, version-expression, os, arch) tuple into the single
// ArchiveDescriptor the Fetch-and-Extract Engine should install, per
// spec.md §4.4.
package resolve

import (
	"fmt"

	"github.com/maskedsyntax/cjdk/internal/jdkindex"
	"github.com/maskedsyntax/cjdk/internal/version"
)

// NotFoundError reports that no index entry satisfied a resolution request.
type NotFoundError struct {
	Vendor     string
	Expression string
	OS         string
	Arch       string
}

func (e *NotFoundError) Error() string {
	vendor := e.Vendor
	if vendor == "" {
		vendor = "<any>"
	}
	return fmt.Sprintf("resolve: no jdk matching vendor=%s version=%s os=%s arch=%s",
		vendor, e.Expression, e.OS, e.Arch)
}

// Request is the resolved-and-canonicalized input to Resolve. Vendor must
// already carry the caller's chosen vendor — callers resolve an empty
// specifier vendor against cjdkconfig.Options.DefaultVendor before building
// a Request, rather than leaving that decision to this package.
type Request struct {
	Vendor     string
	Expression version.Expression
	OS         string
	Arch       string
}

// Resolve picks the best (greatest version satisfying Expression) descriptor
// from idx for req.Vendor.
func Resolve(idx *jdkindex.Index, req Request) (jdkindex.Descriptor, error) {
	if idx.HasVendor(req.OS, req.Arch, req.Vendor) {
		if desc, ok := bestMatch(idx, req.OS, req.Arch, req.Vendor, req.Expression); ok {
			return desc, nil
		}
	}

	return jdkindex.Descriptor{}, &NotFoundError{
		Vendor:     req.Vendor,
		Expression: req.Expression.String(),
		OS:         req.OS,
		Arch:       req.Arch,
	}
}

// bestMatch scans a vendor's ascending-sorted version list from the end,
// returning the greatest version satisfying expr.
func bestMatch(idx *jdkindex.Index, osName, arch, vendor string, expr version.Expression) (jdkindex.Descriptor, bool) {
	versions := idx.Versions(osName, arch, vendor)
	for i := len(versions) - 1; i >= 0; i-- {
		v := versions[i]
		if expr.Matches(v, vendor) {
			desc, ok := idx.Descriptor(osName, arch, vendor, v)
			if ok {
				return desc, true
			}
		}
	}
	return jdkindex.Descriptor{}, false
}

// Vendors returns every vendor available for (os, arch), for CLI listing.
func Vendors(idx *jdkindex.Index, osName, arch string) []string {
	return idx.Vendors(osName, arch)
}

// Versions returns every version available for (os, arch, vendor), ascending.
func Versions(idx *jdkindex.Index, osName, arch, vendor string) []string {
	return idx.Versions(osName, arch, vendor)
}
