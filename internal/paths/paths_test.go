package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCacheDirEndsInAppDirName(t *testing.T) {
	dir, err := DefaultCacheDir()
	require.NoError(t, err)
	assert.Contains(t, dir, appDirName)
}
