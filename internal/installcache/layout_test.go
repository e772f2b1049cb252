package installcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstallKeyIsDeterministicAndAlgorithmSensitive(t *testing.T) {
	a := InstallKey("tgz", "https://example.test/a.tar.gz")
	b := InstallKey("tgz", "https://example.test/a.tar.gz")
	c := InstallKey("zip", "https://example.test/a.tar.gz")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 40) // hex sha1
}

func TestClearScopeDirRejectsUnknownScope(t *testing.T) {
	l := NewLayout("/tmp/cjdk-test-root")
	_, err := l.ClearScopeDir("bogus")
	assert.Error(t, err)
}

func TestClearScopeDirResolvesEachKnownScope(t *testing.T) {
	l := NewLayout("/tmp/cjdk-test-root")
	for _, scope := range []string{"jdks", "index", "files", "pkgs", "all"} {
		dir, err := l.ClearScopeDir(scope)
		assert.NoError(t, err)
		assert.NotEmpty(t, dir)
	}
}
