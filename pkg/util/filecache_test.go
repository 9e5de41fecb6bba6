package util

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileCache_ReadString(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "Button.tsx", "export const Button = () => null;\n")

	fc := NewFileCache(&FileCacheConfig{Logger: DiscardLogger()})
	defer fc.Close()

	got, err := fc.ReadString(path)
	require.NoError(t, err)
	assert.Equal(t, "export const Button = () => null;\n", got)

	_, err = fc.ReadString(path)
	require.NoError(t, err)

	stats := fc.Stats()
	assert.Equal(t, int64(1), stats.FilesLoaded)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, 1, stats.FilesCached)
}

func TestFileCache_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "empty.css", "")

	fc := NewFileCache(nil)
	defer fc.Close()

	got, err := fc.ReadString(path)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestFileCache_MissingFile(t *testing.T) {
	fc := NewFileCache(nil)
	defer fc.Close()

	_, err := fc.ReadString(filepath.Join(t.TempDir(), "nope.tsx"))
	assert.Error(t, err)
	assert.Equal(t, 0, fc.Size())
}

func TestFileCache_MaxFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeTemp(t, dir, "a.css", "a{}")
	b := writeTemp(t, dir, "b.css", "b{}")

	fc := NewFileCache(&FileCacheConfig{MaxFiles: 1})
	defer fc.Close()

	_, err := fc.Get(a)
	require.NoError(t, err)
	_, err = fc.Get(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit reached")
}

func TestFileCache_ContentSurvivesClose(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "x.css", ".root { color: red; }")

	fc := NewFileCache(nil)
	got, err := fc.ReadString(path)
	require.NoError(t, err)
	require.NoError(t, fc.Close())

	assert.Equal(t, ".root { color: red; }", got)
	assert.Equal(t, 0, fc.Size())
}

func TestFileCache_ConcurrentGet(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "c.tsx", "const c = 1;")

	fc := NewFileCache(nil)
	defer fc.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := fc.ReadString(path)
			assert.NoError(t, err)
			assert.Equal(t, "const c = 1;", got)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), fc.Stats().FilesLoaded)
}
