package scratch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/termvid/scratch"
)

func TestNew(t *testing.T) {
	t.Parallel()

	d, err := scratch.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = d.Remove() })

	info, err := os.Stat(d.Root())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	info, err = os.Stat(d.FramesDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFramePath(t *testing.T) {
	t.Parallel()

	d, err := scratch.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = d.Remove() })

	assert.Equal(t, filepath.Join(d.FramesDir(), "frame-00001.jpg"), d.FramePath(1))
	assert.Equal(t, filepath.Join(d.FramesDir(), "frame-00123.jpg"), d.FramePath(123))
	assert.Equal(t, filepath.Join(d.FramesDir(), "frame-%05d.jpg"), d.Pattern())
}

func TestRemove(t *testing.T) {
	t.Parallel()

	d, err := scratch.New()
	require.NoError(t, err)

	root := d.Root()

	err = os.WriteFile(d.FramePath(1), []byte("jpeg"), 0o600)
	require.NoError(t, err)

	require.NoError(t, d.Remove())

	_, err = os.Stat(root)
	assert.True(t, os.IsNotExist(err))

	// Idempotent.
	require.NoError(t, d.Remove())
}

func TestRemoveNil(t *testing.T) {
	t.Parallel()

	var d *scratch.Dir
	require.NoError(t, d.Remove())
}
