package jdkindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleIndex = `{
  "linux": {
    "amd64": {
      "temurin": {
        "17.0.2": "tgz+https://example.test/temurin-17.0.2.tar.gz",
        "17.0.10": "tgz+https://example.test/temurin-17.0.10.tar.gz",
        "11.0.2": "tgz+https://example.test/temurin-11.0.2.tar.gz"
      },
      "ibm-semeru-openj9-java17": {
        "17.0.2": "https://example.test/semeru-17.tar.gz"
      },
      "ibm-semeru-openj9-java11": {
        "11.0.2": "https://example.test/semeru-11.tar.gz"
      },
      "graalvm-ce-java17": {
        "22.3.0": "https://example.test/graal.tar.gz"
      }
    }
  }
}`

func TestBuildSortsVersionsAscending(t *testing.T) {
	idx, err := Build([]byte(sampleIndex))
	require.NoError(t, err)

	versions := idx.Versions("linux", "amd64", "temurin")
	assert.Equal(t, []string{"11.0.2", "17.0.2", "17.0.10"}, versions)
}

func TestBuildMergesSemeruSuffixVendors(t *testing.T) {
	idx, err := Build([]byte(sampleIndex))
	require.NoError(t, err)

	assert.True(t, idx.HasVendor("linux", "amd64", "ibm-semeru-openj9"))
	versions := idx.Versions("linux", "amd64", "ibm-semeru-openj9")
	assert.ElementsMatch(t, []string{"17.0.2-java17", "11.0.2-java11"}, versions)
}

func TestBuildInfersArchiveTypeFromPrefixAndSuffix(t *testing.T) {
	idx, err := Build([]byte(sampleIndex))
	require.NoError(t, err)

	desc, ok := idx.Descriptor("linux", "amd64", "temurin", "17.0.2")
	require.True(t, ok)
	assert.Equal(t, Tgz, desc.ArchiveType)
	assert.Equal(t, "https://example.test/temurin-17.0.2.tar.gz", desc.URL)

	desc2, ok := idx.Descriptor("linux", "amd64", "graalvm-ce-java17", "22.3.0")
	require.True(t, ok)
	assert.Equal(t, Tgz, desc2.ArchiveType)
}

func TestVendorsIsSortedAndUnique(t *testing.T) {
	idx, err := Build([]byte(sampleIndex))
	require.NoError(t, err)

	vendors := idx.Vendors("linux", "amd64")
	assert.Contains(t, vendors, "temurin")
	assert.Contains(t, vendors, "ibm-semeru-openj9")
	for i := 1; i < len(vendors); i++ {
		assert.LessOrEqual(t, vendors[i-1], vendors[i])
	}
}
