package installcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockBlocksASecondAcquirer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")

	first := NewLock(path)
	require.NoError(t, first.Lock(context.Background()))

	second := NewLock(path)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := second.Lock(ctx)
	assert.Error(t, err)

	require.NoError(t, first.Unlock())
}

func TestLockCanBeReacquiredAfterUnlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.lock")

	l := NewLock(path)
	require.NoError(t, l.Lock(context.Background()))
	require.NoError(t, l.Unlock())

	l2 := NewLock(path)
	require.NoError(t, l2.Lock(context.Background()))
	require.NoError(t, l2.Unlock())
}
