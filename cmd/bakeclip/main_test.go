package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pgrlab/asteroids/keyframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWritesLoadableClip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, run(filepath.Join(dir, "wing"), 6, 40*time.Millisecond))

	f, err := os.Open(filepath.Join(dir, "wing"+clipExt))
	require.NoError(t, err)
	defer f.Close()

	clip, err := keyframe.Decode(f)
	require.NoError(t, err)
	assert.Len(t, clip.Frames, 6)
	assert.Equal(t, 40*time.Millisecond, clip.FrameDuration)
	assert.Equal(t, keyframe.Flock(6).Frames, clip.Frames)
}

func TestRunRejectsInvalidDuration(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "bad"+clipExt)

	err := run(out, 4, 0)
	assert.ErrorIs(t, err, keyframe.ErrInvalidClip)
	assert.NoFileExists(t, out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunLeavesNothingBehindOnFailure(t *testing.T) {
	dir := t.TempDir()
	// a directory where the clip should go makes the final rename fail
	out := filepath.Join(dir, "taken"+clipExt)
	require.NoError(t, os.Mkdir(out, 0o755))

	assert.Error(t, run(out, 4, 40*time.Millisecond))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir())
}

func TestRunKeepsSubMillisecondDuration(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "fast"+clipExt)
	require.NoError(t, run(out, 4, 500*time.Microsecond))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	clip, err := keyframe.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Microsecond, clip.FrameDuration)
}
