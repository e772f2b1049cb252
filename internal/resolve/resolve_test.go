package resolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maskedsyntax/cjdk/internal/jdkindex"
	"github.com/maskedsyntax/cjdk/internal/version"
)

const sampleIndex = `{
  "linux": {
    "amd64": {
      "temurin": {
        "11.0.2": "tgz+https://example.test/temurin-11.0.2.tar.gz",
        "17.0.2": "tgz+https://example.test/temurin-17.0.2.tar.gz",
        "17.0.10": "tgz+https://example.test/temurin-17.0.10.tar.gz"
      },
      "zulu": {
        "17.0.5": "tgz+https://example.test/zulu-17.0.5.tar.gz"
      }
    }
  }
}`

func buildIndex(t *testing.T) *jdkindex.Index {
	t.Helper()
	idx, err := jdkindex.Build([]byte(sampleIndex))
	require.NoError(t, err)
	return idx
}

func TestResolveExactVersionForExplicitVendor(t *testing.T) {
	idx := buildIndex(t)
	desc, err := Resolve(idx, Request{
		Vendor:     "temurin",
		Expression: version.ParseExpression("11.0.2"),
		OS:         "linux",
		Arch:       "amd64",
	})
	require.NoError(t, err)
	assert.Equal(t, "11.0.2", desc.Version)
}

func TestResolveAtLeastPicksGreatestMatch(t *testing.T) {
	idx := buildIndex(t)
	desc, err := Resolve(idx, Request{
		Vendor:     "temurin",
		Expression: version.ParseExpression("17+"),
		OS:         "linux",
		Arch:       "amd64",
	})
	require.NoError(t, err)
	assert.Equal(t, "17.0.10", desc.Version)
}

func TestResolveEmptyVendorIsNotFound(t *testing.T) {
	idx := buildIndex(t)
	_, err := Resolve(idx, Request{
		Expression: version.Any,
		OS:         "linux",
		Arch:       "amd64",
	})
	require.Error(t, err)
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestResolveNotFoundReturnsTypedError(t *testing.T) {
	idx := buildIndex(t)
	_, err := Resolve(idx, Request{
		Vendor:     "temurin",
		Expression: version.ParseExpression("99+"),
		OS:         "linux",
		Arch:       "amd64",
	})
	require.Error(t, err)
	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}
