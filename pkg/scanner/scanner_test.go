package scanner

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aizetachan/ui-forge-sub001/pkg/model"
	"github.com/aizetachan/ui-forge-sub001/pkg/parser"
	"github.com/aizetachan/ui-forge-sub001/pkg/parser/queries"
	"github.com/aizetachan/ui-forge-sub001/pkg/util"
)

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	logger := util.DiscardLogger()
	pm := parser.NewParserManager(logger)
	qm := queries.NewQueryManager(pm, logger)
	t.Cleanup(func() {
		qm.Close()
		pm.Close()
	})
	return New(pm, qm, nil, logger)
}

func candidateNames(inv *Inventory) []string {
	var out []string
	for _, c := range inv.Candidates {
		out = append(out, c.Name)
	}
	return out
}

func candidate(t *testing.T, inv *Inventory, name string) Candidate {
	t.Helper()
	for _, c := range inv.Candidates {
		if c.Name == name {
			return c
		}
	}
	require.Failf(t, "candidate not found", "%s", name)
	return Candidate{}
}

func TestScan_RootNotFound(t *testing.T) {
	_, err := newTestScanner(t).Scan(filepath.Join(t.TempDir(), "missing"), DefaultScanConfig())
	require.ErrorIs(t, err, ErrRootNotFound)

	tmp := t.TempDir()
	writeFile(t, tmp, "file.txt", "x")
	_, err = newTestScanner(t).Scan(filepath.Join(tmp, "file.txt"), DefaultScanConfig())
	require.ErrorIs(t, err, ErrRootNotFound)
}

func TestScan_HeuristicDiscovery(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "src/components/Button/Button.tsx", `import styles from './Button.module.css';
export function Button() { return <button className={styles.root} /> }`)
	writeFile(t, tmp, "src/components/Button/Button.module.css", ".root { color: red; }")
	writeFile(t, tmp, "src/components/Card/index.tsx", `export const Card = () => <div />;`)
	writeFile(t, tmp, "src/components/Card/Card.css", ".card {}")
	writeFile(t, tmp, "src/components/Types.ts", `export interface Shared { a: string }`)
	writeFile(t, tmp, "src/utils/format.ts", `export function format() {}`)

	inv, err := newTestScanner(t).Scan(tmp, DefaultScanConfig())
	require.NoError(t, err)

	assert.Nil(t, inv.Manifest)
	assert.Equal(t, []string{"Button", "Card"}, candidateNames(inv))
	assert.Len(t, inv.ScriptFiles, 4)
	assert.Len(t, inv.CSSFiles, 2)

	button := candidate(t, inv, "Button")
	assert.Equal(t, "src/components/Button/Button.tsx", button.RelPath)
	assert.Equal(t, "Button.module.css", filepath.Base(button.StylePath))

	card := candidate(t, inv, "Card")
	assert.Equal(t, "Card.css", filepath.Base(card.StylePath), "convention pairing for index files")
}

func TestScan_StyleImportWinsOverConvention(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "Badge.tsx", `import './reset.css';
import css from './badge-theme.module.css';
export const Badge = () => <span className={css.badge} />;`)
	writeFile(t, tmp, "reset.css", "* { margin: 0; }")
	writeFile(t, tmp, "badge-theme.module.css", ".badge {}")
	writeFile(t, tmp, "Badge.module.css", ".unused {}")

	inv, err := newTestScanner(t).Scan(tmp, DefaultScanConfig())
	require.NoError(t, err)
	badge := candidate(t, inv, "Badge")
	assert.Equal(t, "badge-theme.module.css", filepath.Base(badge.StylePath))
}

func TestScan_DuplicateNamesKeepFirst(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "a/Button.tsx", `export function Button() {}`)
	writeFile(t, tmp, "b/Button.tsx", `export function Button() {}`)

	inv, err := newTestScanner(t).Scan(tmp, DefaultScanConfig())
	require.NoError(t, err)
	require.Len(t, inv.Candidates, 1)
	assert.Equal(t, "a/Button.tsx", inv.Candidates[0].RelPath)
	require.Len(t, inv.Warnings, 1)
	assert.Contains(t, inv.Warnings[0], "b/Button.tsx")
}

func TestScan_ManifestEntries(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "uiforge.json", `{
  "version": "1",
  "components": {
    "Button": {"entry": "lib/Btn.tsx", "cssModule": "lib/btn.css"},
    "Ghost": {"entry": "lib/Ghost.tsx"},
    "Card": {}
  }
}`)
	writeFile(t, tmp, "lib/Btn.tsx", `export function Button() {}`)
	writeFile(t, tmp, "lib/btn.css", ".btn {}")
	writeFile(t, tmp, "src/Card.tsx", `export const Card = () => null`)
	writeFile(t, tmp, "src/Other.tsx", `export const Other = () => null`)

	inv, err := newTestScanner(t).Scan(tmp, DefaultScanConfig())
	require.NoError(t, err)
	require.NotNil(t, inv.Manifest)
	assert.Equal(t, filepath.Join(tmp, "uiforge.json"), inv.ManifestPath)

	assert.Equal(t, []string{"Button", "Card"}, candidateNames(inv), "only manifest components, sorted")
	button := candidate(t, inv, "Button")
	assert.True(t, button.FromManifest)
	assert.Equal(t, filepath.Join(tmp, "lib", "btn.css"), button.StylePath)
	assert.Equal(t, "src/Card.tsx", candidate(t, inv, "Card").RelPath)

	require.Len(t, inv.Warnings, 1)
	assert.Contains(t, inv.Warnings[0], "Ghost")
}

func TestScan_MalformedManifestFallsBack(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "uiforge.json", `{"components": {`)
	writeFile(t, tmp, "Button.tsx", `export function Button() {}`)

	inv, err := newTestScanner(t).Scan(tmp, DefaultScanConfig())
	require.NoError(t, err)
	assert.Nil(t, inv.Manifest)
	assert.Equal(t, filepath.Join(tmp, "uiforge.json"), inv.ManifestPath)
	assert.Equal(t, []string{"Button"}, candidateNames(inv))
	require.Len(t, inv.Warnings, 1)
	assert.Contains(t, inv.Warnings[0], "manifest")
}

func TestScan_Stories(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "Button.tsx", `export function Button() {}`)
	writeFile(t, tmp, "Button.stories.tsx", `import { Button } from './Button';

export default { title: 'Button', component: Button };

export const Primary = { args: { variant: 'primary', disabled: false, size: 2 } };

const Template = (args) => <Button {...args} />;
export const Ghost = Template.bind({});
Ghost.args = { variant: "ghost", onClick: () => {} };

export const Empty = {};
`)

	inv, err := newTestScanner(t).Scan(tmp, DefaultScanConfig())
	require.NoError(t, err)

	button := candidate(t, inv, "Button")
	assert.Equal(t, "Button.stories.tsx", filepath.Base(button.StoryPath))
	assert.Equal(t, []model.StoryVariant{
		{Name: "Primary", Args: map[string]any{"variant": "primary", "disabled": false, "size": 2}},
		{Name: "Ghost", Args: map[string]any{"variant": "ghost"}},
		{Name: "Empty"},
	}, button.Stories)
}

func TestScan_Theme(t *testing.T) {
	t.Run("convention", func(t *testing.T) {
		tmp := t.TempDir()
		writeFile(t, tmp, "src/theme.css", ":root { --color-primary: #00f; }")
		writeFile(t, tmp, "src/index.css", ":root { --other: 1px; }")
		inv, err := newTestScanner(t).Scan(tmp, DefaultScanConfig())
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tmp, "src", "theme.css"), inv.ThemePath)
	})

	t.Run("root custom properties", func(t *testing.T) {
		tmp := t.TempDir()
		writeFile(t, tmp, "lib/a.module.css", ":root { --x: 1px; }")
		writeFile(t, tmp, "lib/plain.css", "body { margin: 0; }")
		writeFile(t, tmp, "lib/vars.css", ":root {\n  --space-sm: 4px;\n}")
		inv, err := newTestScanner(t).Scan(tmp, DefaultScanConfig())
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tmp, "lib", "vars.css"), inv.ThemePath)
	})

	t.Run("configured path missing", func(t *testing.T) {
		tmp := t.TempDir()
		writeFile(t, tmp, "theme.css", ":root { --a: red; }")
		cfg := DefaultScanConfig()
		cfg.Theme = "nope.css"
		inv, err := newTestScanner(t).Scan(tmp, cfg)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tmp, "theme.css"), inv.ThemePath)
		assert.Len(t, inv.Warnings, 1)
	})
}

func TestScan_TokenFiles(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "tokens.json", `{}`)
	writeFile(t, tmp, "design-tokens.json", `{}`)

	inv, err := newTestScanner(t).Scan(tmp, DefaultScanConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"tokens.json", "design-tokens.json"}, fileNames(inv.TokenFiles))

	cfg := DefaultScanConfig()
	cfg.TokenFiles = []string{"design-tokens.json", "missing.json"}
	inv, err = newTestScanner(t).Scan(tmp, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"design-tokens.json"}, fileNames(inv.TokenFiles))
	assert.Len(t, inv.Warnings, 1)
}

func TestComponentName(t *testing.T) {
	tests := []struct {
		rel  string
		name string
		ok   bool
	}{
		{"src/Button.tsx", "Button", true},
		{"src/Button/index.tsx", "Button", true},
		{"src/button/index.tsx", "", false},
		{"src/useToggle.ts", "", false},
		{"src/Button.module.tsx", "", false},
		{"index.ts", "", false},
		{"IconButton2.jsx", "IconButton2", true},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			name, ok := ComponentName(tt.rel)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, name)
		})
	}
}
