package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverFiles_BasicDirectory(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "src/Button/Button.tsx", "export function Button() {}")
	writeFile(t, tmp, "src/Button/Button.module.css", ".root {}")
	writeFile(t, tmp, "src/utils/cx.ts", "export const cx = () => ''")
	writeFile(t, tmp, "README.md", "# lib")

	files, err := DiscoverFiles(tmp, DefaultScanConfig())
	require.NoError(t, err)

	for _, f := range files {
		assert.True(t, filepath.IsAbs(f), "expected absolute path, got %s", f)
	}
	assert.Equal(t, []string{"Button.module.css", "Button.tsx", "cx.ts"}, fileNames(files))
}

func TestDiscoverFiles_ExcludesTestFiles(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "button.tsx", "export function Button() {}")
	writeFile(t, tmp, "button.test.tsx", "test('button', () => {})")
	writeFile(t, tmp, "button.spec.tsx", "describe('button', () => {})")
	writeFile(t, tmp, "button.stories.tsx", "export default { title: 'Button' }")
	writeFile(t, tmp, "button.story.tsx", "export default { title: 'Button' }")
	writeFile(t, tmp, "types.d.ts", "declare module 'x'")
	writeFile(t, tmp, "__tests__/utils.ts", "export {}")

	files, err := DiscoverFiles(tmp, DefaultScanConfig())
	require.NoError(t, err)

	names := fileNames(files)
	assert.Contains(t, names, "button.tsx")
	assert.NotContains(t, names, "button.test.tsx")
	assert.NotContains(t, names, "button.spec.tsx")
	assert.NotContains(t, names, "button.stories.tsx")
	assert.NotContains(t, names, "button.story.tsx")
	assert.NotContains(t, names, "types.d.ts")
	assert.NotContains(t, names, "utils.ts", "files inside __tests__/ should be excluded")
}

func TestDiscoverFiles_ExcludesBuildOutput(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "src/Card.tsx", "export const Card = () => null")
	writeFile(t, tmp, "node_modules/react/index.js", "module.exports = {}")
	writeFile(t, tmp, "packages/ui/node_modules/x/Y.js", "")
	writeFile(t, tmp, "dist/Card.js", "")
	writeFile(t, tmp, "build/Card.js", "")
	writeFile(t, tmp, ".next/Card.js", "")
	writeFile(t, tmp, "coverage/lcov.js", "")

	files, err := DiscoverFiles(tmp, DefaultScanConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"Card.tsx"}, fileNames(files))
}

func TestDiscoverFiles_Gitignore(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, ".gitignore", "generated/\n*.gen.tsx\n")
	writeFile(t, tmp, "src/Card.tsx", "")
	writeFile(t, tmp, "src/Card.gen.tsx", "")
	writeFile(t, tmp, "generated/Icon.tsx", "")

	files, err := DiscoverFiles(tmp, DefaultScanConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"Card.tsx"}, fileNames(files))

	cfg := DefaultScanConfig()
	cfg.RespectGitignore = false
	files, err = DiscoverFiles(tmp, cfg)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Card.tsx", "Card.gen.tsx", "Icon.tsx"}, fileNames(files))
}

func TestDiscoverFiles_SortedOutput(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "b/Zeta.tsx", "")
	writeFile(t, tmp, "a/Alpha.tsx", "")
	writeFile(t, tmp, "Mid.tsx", "")

	files, err := DiscoverFiles(tmp, DefaultScanConfig())
	require.NoError(t, err)
	require.Len(t, files, 3)
	for i := 1; i < len(files); i++ {
		assert.LessOrEqual(t, files[i-1], files[i], "files should be sorted")
	}
}

func TestDiscoverFiles_EmptyDirectory(t *testing.T) {
	tmp := t.TempDir()
	files, err := DiscoverFiles(tmp, DefaultScanConfig())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverFiles_InvalidGlob(t *testing.T) {
	cfg := DefaultScanConfig()
	cfg.Exclude = append(cfg.Exclude, "[invalid")
	_, err := DiscoverFiles(t.TempDir(), cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}

func TestLoadConfig(t *testing.T) {
	tmp := t.TempDir()

	cfg, err := LoadConfig(tmp, DefaultScanConfig())
	require.NoError(t, err)
	assert.Equal(t, DefaultScanConfig(), cfg, "missing file keeps the base")

	writeFile(t, tmp, ConfigPath, `include: ["src/**/*.tsx", "src/**/*.css"]
exclude: ["src/legacy/**"]
theme: src/tokens.css
token_files: [tokens/core.json]
type_aware: false
`)
	cfg, err = LoadConfig(tmp, DefaultScanConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"src/**/*.tsx", "src/**/*.css"}, cfg.Include)
	assert.Contains(t, cfg.Exclude, "**/node_modules/**")
	assert.Contains(t, cfg.Exclude, "src/legacy/**")
	assert.Equal(t, "src/tokens.css", cfg.Theme)
	assert.Equal(t, []string{"tokens/core.json"}, cfg.TokenFiles)
	assert.False(t, cfg.TypeAware)
	assert.True(t, cfg.RespectGitignore, "absent key keeps the default")
}

func TestLoadConfig_Malformed(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, ConfigPath, "include: [unterminated\n")
	cfg, err := LoadConfig(tmp, DefaultScanConfig())
	require.Error(t, err)
	assert.Equal(t, DefaultScanConfig(), cfg)
}

// --- helpers ---

func fileNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}
