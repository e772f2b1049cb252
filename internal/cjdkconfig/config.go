// Package cjdkconfig loads and composes cjdk's configuration from
// environment variables, CLI flags, and defaults, following the
// envconfig.Process pattern used elsewhere in this stack for env ingestion.
package cjdkconfig

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/maskedsyntax/cjdk/internal/paths"
)

// Environ holds every cjdk-recognized environment variable, read once at
// startup (spec.md §6).
type Environ struct {
	JDK      string `envconfig:"CJDK_JDK"`
	CacheDir string `envconfig:"CJDK_CACHE_DIR"`
	IndexURL string `envconfig:"CJDK_INDEX_URL"`
	// IndexTTLSeconds follows spec.md §6's indexTTL contract: plain seconds,
	// not a Go duration string, so CJDK_INDEX_TTL=86400 (the documented
	// default) parses instead of failing envconfig's duration decode.
	IndexTTLSeconds int    `envconfig:"CJDK_INDEX_TTL" default:"86400"`
	OS              string `envconfig:"CJDK_OS"`
	Arch            string `envconfig:"CJDK_ARCH"`
	Vendor          string `envconfig:"CJDK_VENDOR"`
	// HideProgressBars is read as a raw string, not bool, because spec.md §6
	// defines its truthy set as {1, yes, true} — wider than strconv.ParseBool
	// (which rejects "yes"), so decoding it as bool would error on a
	// documented-valid value.
	HideProgressBars string `envconfig:"CJDK_HIDE_PROGRESS_BARS"`
}

// defaultVendor is the sole vendor cjdk resolves against when neither a
// specifier nor CJDK_VENDOR names one (spec.md §4.4 step 1, §6).
const defaultVendor = "adoptium"

// FromEnviron reads Environ from the process environment.
func FromEnviron() (Environ, error) {
	var e Environ
	if err := envconfig.Process("", &e); err != nil {
		return Environ{}, fmt.Errorf("cjdkconfig: read environment: %w", err)
	}
	return e, nil
}

// Options is the fully-resolved configuration a façade operation runs
// against, after CLI flags have been layered over Environ and unset fields
// have been defaulted (spec.md §6's "flag > env > default" precedence).
type Options struct {
	JDK           string
	CacheDir      string
	IndexURL      string
	IndexTTL      time.Duration
	OS            string
	Arch          string
	DefaultVendor string
	ShowProgress  bool

	// allowInsecureForTesting disables TLS verification on the retryablehttp
	// client; it is only ever set by the package's own tests against an
	// httptest fixture server and has no exported setter.
	allowInsecureForTesting bool
}

// Configure merges CLI flag overrides (zero values mean "not set") over env
// and applies final defaults, mirroring _conf.py's configure(). flagIndexTTL
// is in seconds, matching spec.md §6's indexTTL unit; 0 means "not set".
func Configure(env Environ, flagJDK, flagCacheDir, flagIndexURL, flagOS, flagArch string, flagIndexTTL int, flagProgress *bool) (Options, error) {
	o := Options{
		JDK:           firstNonEmpty(flagJDK, env.JDK),
		CacheDir:      firstNonEmpty(flagCacheDir, env.CacheDir),
		IndexURL:      firstNonEmpty(flagIndexURL, env.IndexURL),
		OS:            firstNonEmpty(flagOS, env.OS, runtime.GOOS),
		Arch:          firstNonEmpty(flagArch, env.Arch, runtime.GOARCH),
		DefaultVendor: firstNonEmpty(env.Vendor, defaultVendor),
		IndexTTL:      time.Duration(env.IndexTTLSeconds) * time.Second,
		ShowProgress:  !isTruthy(env.HideProgressBars),
	}
	if flagIndexTTL != 0 {
		o.IndexTTL = time.Duration(flagIndexTTL) * time.Second
	}
	if flagProgress != nil {
		o.ShowProgress = *flagProgress
	}

	if o.CacheDir == "" {
		dir, err := paths.DefaultCacheDir()
		if err != nil {
			return Options{}, fmt.Errorf("cjdkconfig: resolve default cache dir: %w", err)
		}
		o.CacheDir = dir
	}

	o.OS = canonicalOS(o.OS)
	o.Arch = canonicalArch(o.Arch)

	return o, nil
}

// isTruthy matches spec.md §6's CJDK_HIDE_PROGRESS_BARS truthy set.
func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "yes", "true":
		return true
	default:
		return false
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// canonicalOS maps Go's GOOS names onto the vocabulary used by the JDK
// index (spec.md §4.1's os/arch canonicalization).
func canonicalOS(goos string) string {
	switch strings.ToLower(goos) {
	case "darwin", "mac", "macos":
		return "darwin"
	case "windows":
		return "windows"
	default:
		return "linux"
	}
}

// canonicalArch maps Go's GOARCH names onto the index vocabulary.
func canonicalArch(goarch string) string {
	switch strings.ToLower(goarch) {
	case "amd64", "x86_64":
		return "amd64"
	case "arm64", "aarch64":
		return "arm64"
	case "386", "i386":
		return "x86"
	default:
		return goarch
	}
}

// ParseSpecifier splits a "<vendor>:<version>" or bare "<version>"
// specifier, per spec.md §3. A specifier with no colon leaves Vendor empty,
// letting the caller fall back to Options.DefaultVendor.
func ParseSpecifier(spec string) (vendor, versionExpr string) {
	if idx := strings.IndexByte(spec, ':'); idx >= 0 {
		return spec[:idx], spec[idx+1:]
	}
	return "", spec
}

// AllowInsecureForTesting reports the private test-only TLS-verification
// escape hatch (spec.md's SUPPLEMENTED FEATURES, grounded in
// _api.py's _allow_insecure_for_testing).
func (o Options) AllowInsecureForTesting() bool { return o.allowInsecureForTesting }

// WithInsecureForTesting returns a copy of o with the TLS-skip-verify
// escape hatch enabled. Exported only for this module's own _test.go files.
func WithInsecureForTesting(o Options) Options {
	o.allowInsecureForTesting = true
	return o
}
