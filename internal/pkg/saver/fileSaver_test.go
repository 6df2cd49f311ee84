package saver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalFileSaver(t *testing.T) {
	fs, err := NewLocalFileSaver(t.TempDir())
	assert.Nil(t, err)
	assert.NotNil(t, fs)
}

func TestNewLocalFileSaver_Fails(t *testing.T) {
	_, err := NewLocalFileSaver("")
	assert.NotNil(t, err)
}

func TestSave(t *testing.T) {
	fs, err := NewLocalFileSaver(t.TempDir())
	require.Nil(t, err)

	sp, err := fs.Save(strings.NewReader("audio data"), "Recording.WAV", "m1")

	require.Nil(t, err)
	assert.True(t, strings.HasPrefix(sp, "m1"+string(filepath.Separator)))
	assert.True(t, strings.HasSuffix(sp, ".wav"))
	data, err := os.ReadFile(filepath.Join(fs.StoragePath, sp))
	require.Nil(t, err)
	assert.Equal(t, "audio data", string(data))
}

func TestSave_UniqueNames(t *testing.T) {
	fs, err := NewLocalFileSaver(t.TempDir())
	require.Nil(t, err)

	sp1, err := fs.Save(strings.NewReader("a"), "a.wav", "m1")
	require.Nil(t, err)
	sp2, err := fs.Save(strings.NewReader("b"), "a.wav", "m1")
	require.Nil(t, err)

	assert.NotEqual(t, sp1, sp2)
}

func TestResolve(t *testing.T) {
	fs, err := NewLocalFileSaver(t.TempDir())
	require.Nil(t, err)
	sp, err := fs.Save(strings.NewReader("a"), "a.wav", "m1")
	require.Nil(t, err)

	full := fs.Resolve(sp)
	assert.Equal(t, filepath.Join(fs.StoragePath, sp), full)

	assert.Equal(t, "", fs.Resolve("m2/missing.wav"))
	assert.Equal(t, "", fs.Resolve(""))
}

func TestDelete(t *testing.T) {
	fs, err := NewLocalFileSaver(t.TempDir())
	require.Nil(t, err)
	sp, err := fs.Save(strings.NewReader("a"), "a.wav", "m1")
	require.Nil(t, err)

	deleted, err := fs.Delete(sp)

	require.Nil(t, err)
	assert.True(t, deleted)
	assert.Equal(t, "", fs.Resolve(sp))
	// the per-meeting dir is dropped too
	_, err = os.Stat(filepath.Join(fs.StoragePath, "m1"))
	assert.True(t, os.IsNotExist(err))
}

func TestDelete_Missing(t *testing.T) {
	fs, err := NewLocalFileSaver(t.TempDir())
	require.Nil(t, err)

	deleted, err := fs.Delete("m2/missing.wav")

	assert.Nil(t, err)
	assert.False(t, deleted)
}

func TestHealthyFunc(t *testing.T) {
	fs, err := NewLocalFileSaver(t.TempDir())
	require.Nil(t, err)
	assert.Nil(t, fs.HealthyFunc()())

	fs.StoragePath = filepath.Join(fs.StoragePath, "gone")
	assert.NotNil(t, fs.HealthyFunc()())
}
