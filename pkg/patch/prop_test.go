package patch

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestJSON = `{
  "version": "1",
  "components": {
    "Button": {
      "entry": "src/Button.tsx",
      "defaultProps": {
        "variant": "primary",
        "size": "md"
      }
    },
    "Card": {
      "entry": "src/Card.tsx"
    }
  }
}
`

func TestPatchPropDefault_ReplacesExisting(t *testing.T) {
	res := PatchPropDefault([]byte(manifestJSON), "Button", "variant", "secondary")
	require.NoError(t, res.Err)

	assert.Equal(t, OutcomePatched, res.Outcome)
	assert.True(t, res.Found)
	assert.Equal(t, `"primary"`, res.PreviousValue)
	assert.Equal(t, strings.Replace(manifestJSON, `"primary"`, `"secondary"`, 1), string(res.Content))
}

func TestPatchPropDefault_CreatesDefaultsContainer(t *testing.T) {
	res := PatchPropDefault([]byte(manifestJSON), "Card", "elevated", true)
	require.NoError(t, res.Err)
	assert.False(t, res.Found)
	assert.True(t, json.Valid(res.Content))

	value, ok := ReadPropDefault(res.Content, "Card", "elevated")
	require.True(t, ok)
	assert.Equal(t, "true", value)

	content := string(res.Content)
	card := content[strings.Index(content, `"Card"`):]
	entryAt := strings.Index(card, `"src/Card.tsx"`)
	defaultsAt := strings.Index(card, `"defaultProps"`)
	require.GreaterOrEqual(t, entryAt, 0)
	require.GreaterOrEqual(t, defaultsAt, 0)
	assert.Less(t, entryAt, defaultsAt)
	assert.True(t, strings.HasSuffix(content, "}\n"))

	variant, ok := ReadPropDefault(res.Content, "Button", "variant")
	require.True(t, ok)
	assert.Equal(t, `"primary"`, variant)
}

func TestPatchPropDefault_Idempotent(t *testing.T) {
	first := PatchPropDefault([]byte(manifestJSON), "Button", "count", 3)
	require.NoError(t, first.Err)
	second := PatchPropDefault(first.Content, "Button", "count", 3)
	require.NoError(t, second.Err)

	assert.Equal(t, string(first.Content), string(second.Content))
	assert.Equal(t, "3", second.PreviousValue)
}

func TestPatchPropDefault_KeepsKeyOrder(t *testing.T) {
	res := PatchPropDefault([]byte(manifestJSON), "Button", "size", "lg")
	require.NoError(t, res.Err)

	content := string(res.Content)
	assert.Less(t, strings.Index(content, `"version"`), strings.Index(content, `"components"`))
	assert.Less(t, strings.Index(content, `"variant"`), strings.Index(content, `"size"`))
	assert.Less(t, strings.Index(content, `"Button"`), strings.Index(content, `"Card"`))
}

func TestPatchPropDefault_ComponentNotFound(t *testing.T) {
	input := []byte(manifestJSON)
	res := PatchPropDefault(input, "Modal", "open", true)

	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, ErrComponentNotFound)
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, manifestJSON, string(res.Content))
}

func TestPatchPropDefault_Malformed(t *testing.T) {
	res := PatchPropDefault([]byte(`{"components": {`), "Button", "variant", "x")
	assert.ErrorIs(t, res.Err, ErrMalformedInput)

	res = PatchPropDefault([]byte(`{"components": {"Button": {"defaultProps": []}}}`), "Button", "variant", "x")
	assert.ErrorIs(t, res.Err, ErrMalformedInput)
}

func TestPatchPropDefault_InvalidRequest(t *testing.T) {
	res := PatchPropDefault([]byte(manifestJSON), "", "variant", "x")
	assert.ErrorIs(t, res.Err, ErrInvalidRequest)

	res = PatchPropDefault([]byte(manifestJSON), "Button", "onClick", func() {})
	assert.ErrorIs(t, res.Err, ErrInvalidRequest)
}

func TestPatchPropDefault_NoHTMLEscaping(t *testing.T) {
	res := PatchPropDefault([]byte(manifestJSON), "Button", "label", "Save & <close>")
	require.NoError(t, res.Err)
	assert.Contains(t, string(res.Content), `"label": "Save & <close>"`)
}
