package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name, value string
		want        model.TokenType
		ok          bool
	}{
		{"color-primary", "#3366ff", model.TokenColor, true},
		{"brand", "rgb(0, 0, 0)", model.TokenColor, true},
		{"text-primary", "var(--gray-900)", model.TokenColor, true},
		{"radius-md", "6px", model.TokenRadius, true},
		{"rounded-full", "9999px", model.TokenRadius, true},
		{"font-sans", "Inter, sans-serif", model.TokenTypography, true},
		{"font-size-sm", "14px", model.TokenTypography, true},
		{"line-height-tight", "1.2", model.TokenTypography, true},
		{"space-2", "8px", model.TokenSpacing, true},
		{"gap", "calc(var(--space-1) * 2)", model.TokenSpacing, true},
		{"shadow-offset", "2px", model.TokenSpacing, true},
		{"z-index-modal", "100", "", false},
		{"easing", "cubic-bezier(0.4, 0, 0.2, 1)", "", false},
	}
	for _, tt := range tests {
		got, ok := Classify(tt.name, tt.value)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestFromCSS(t *testing.T) {
	theme := `:root {
  --color-primary: #3366ff;
  --space-2: 8px;
  --easing: ease-in-out;
  color: black;
}

[data-theme="dark"] {
  --color-primary: #99bbff;
}

@media (prefers-reduced-motion) {
  :root { --radius-md: 0; }
}
`
	tokens := FromCSS(theme, "src/theme.css")
	require.Len(t, tokens, 3)

	assert.Equal(t, model.Token{Name: "color-primary", Value: "#3366ff", Type: model.TokenColor, Source: "src/theme.css"}, tokens[0])
	assert.Equal(t, "space-2", tokens[1].Name)
	assert.Equal(t, model.TokenSpacing, tokens[1].Type)
	assert.Equal(t, "radius-md", tokens[2].Name)
	assert.Equal(t, model.TokenRadius, tokens[2].Type)
}

func TestFromJSON(t *testing.T) {
	data := []byte(`{
  "color": {
    "$type": "color",
    "primary": { "$value": "#3366ff" },
    "surface": { "$value": "{color.white}" }
  },
  "spacing": {
    "sm": { "value": "4px", "type": "dimension" },
    "md": "8px"
  },
  "radius": { "md": { "$value": "6px", "$type": "dimension" } },
  "font": {
    "body": { "$value": "Inter", "$type": "fontFamily" },
    "heading": { "$value": { "fontFamily": "Inter", "fontWeight": 700 }, "$type": "typography" }
  },
  "opacity": { "disabled": 0.5 },
  "$description": "design tokens"
}`)

	tokens, err := FromJSON(data, "tokens.json")
	require.NoError(t, err)

	byName := make(map[string]model.Token)
	var names []string
	for _, tok := range tokens {
		byName[tok.Name] = tok
		names = append(names, tok.Name)
	}
	assert.Equal(t, []string{"color-primary", "color-surface", "spacing-sm", "spacing-md", "radius-md", "font-body"}, names)

	assert.Equal(t, model.TokenColor, byName["color-surface"].Type, "group type is inherited")
	assert.Equal(t, "{color.white}", byName["color-surface"].Value)
	assert.Equal(t, model.TokenSpacing, byName["spacing-sm"].Type)
	assert.Equal(t, "8px", byName["spacing-md"].Value)
	assert.Equal(t, model.TokenRadius, byName["radius-md"].Type)
	assert.Equal(t, model.TokenTypography, byName["font-body"].Type)
	assert.Equal(t, "tokens.json", byName["font-body"].Source)
}

func TestFromJSON_Malformed(t *testing.T) {
	_, err := FromJSON([]byte(`[1, 2]`), "tokens.json")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = FromJSON([]byte(`{"color": `), "tokens.json")
	assert.ErrorIs(t, err, ErrMalformed)
}
