package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aizetachan/ui-forge-sub001/pkg/forge"
	"github.com/aizetachan/ui-forge-sub001/pkg/mcplog"
	"github.com/aizetachan/ui-forge-sub001/pkg/util"
)

// --- helpers ---

const buttonSource = `import styles from './Button.module.css';

export interface ButtonProps {
  variant?: 'primary' | 'ghost';
  label: string;
}

export function Button({ variant = 'primary', label }: ButtonProps) {
  return <button className={styles.root}>{label}</button>;
}
`

const buttonCSS = `.root {
  padding: 8px;
}

.primary { background: blue; }
.root:hover { opacity: 0.9; }
`

func testRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"src/Button/Button.tsx":        buttonSource,
		"src/Button/Button.module.css": buttonCSS,
		"src/theme.css":                ":root {\n  --color-primary: #2563eb;\n}\n",
		"uiforge.json":                 `{"components": {"Button": {"entry": "src/Button/Button.tsx", "defaultProps": {"variant": "primary"}}}}`,
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root
}

func testServer(t *testing.T, callLog *mcplog.Logger) *Server {
	t.Helper()
	f := forge.New(forge.Options{Logger: util.DiscardLogger(), DisableTypeAware: true})
	t.Cleanup(func() { f.Close() })
	return NewServer(f, callLog, util.DiscardLogger())
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
	switch req.Params.Name {
	case "parse_repository":
		handler = s.handleParseRepository
	case "get_component_styles":
		handler = s.handleGetComponentStyles
	case "read_css_property":
		handler = s.handleReadCSSProperty
	case "write_css_change":
		handler = s.handleWriteCSSChange
	case "write_prop_default":
		handler = s.handleWritePropDefault
	case "write_token_value":
		handler = s.handleWriteTokenValue
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- parse_repository ---

func TestParseRepository(t *testing.T) {
	s := testServer(t, nil)
	root := testRepo(t)

	result := callTool(t, s, makeRequest("parse_repository", map[string]any{"path": root}))
	require.False(t, result.IsError, resultJSON(t, result))

	var repo struct {
		Components []struct {
			Name       string `json:"name"`
			SourceCode string `json:"sourceCode"`
			RawCSS     string `json:"rawCSS"`
			PropDefs   []struct {
				Name string `json:"name"`
			} `json:"propDefs"`
		} `json:"components"`
		Tokens []struct {
			Name string `json:"name"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &repo))
	require.Len(t, repo.Components, 1)
	assert.Equal(t, "Button", repo.Components[0].Name)
	assert.Empty(t, repo.Components[0].SourceCode, "source omitted by default")
	assert.Empty(t, repo.Components[0].RawCSS)
	assert.NotEmpty(t, repo.Components[0].PropDefs)
	require.Len(t, repo.Tokens, 1)
	assert.Equal(t, "color-primary", repo.Tokens[0].Name)
}

func TestParseRepository_IncludeSource(t *testing.T) {
	s := testServer(t, nil)
	root := testRepo(t)

	result := callTool(t, s, makeRequest("parse_repository", map[string]any{
		"path":           root,
		"component":      "Button",
		"include_source": true,
	}))
	require.False(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "padding: 8px")
}

func TestParseRepository_Errors(t *testing.T) {
	s := testServer(t, nil)

	result := callTool(t, s, makeRequest("parse_repository", nil))
	assert.True(t, result.IsError, "path is required")

	result = callTool(t, s, makeRequest("parse_repository", map[string]any{"path": filepath.Join(t.TempDir(), "missing")}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "repository not found")

	result = callTool(t, s, makeRequest("parse_repository", map[string]any{"path": testRepo(t), "component": "Card"}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), `"Card"`)
}

// --- get_component_styles ---

func TestGetComponentStyles(t *testing.T) {
	s := testServer(t, nil)
	root := testRepo(t)

	result := callTool(t, s, makeRequest("get_component_styles", map[string]any{
		"path":      root,
		"component": "Button",
		"variants":  []any{"primary"},
		"state":     "hover",
		"computed":  map[string]any{"font-size": "14px", "margin": "0"},
	}))
	require.False(t, result.IsError, resultJSON(t, result))

	var got struct {
		Component  string `json:"component"`
		Properties []struct {
			Property string `json:"property"`
			Value    struct {
				Raw        string `json:"raw"`
				IsVariable bool   `json:"isVariable"`
			} `json:"value"`
			ComputedOnly bool `json:"computedOnly"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &got))
	assert.Equal(t, "Button", got.Component)

	values := map[string]string{}
	for _, p := range got.Properties {
		values[p.Property] = p.Value.Raw
		assert.False(t, p.Value.IsVariable, p.Property)
	}
	assert.Equal(t, map[string]string{
		"padding":    "8px",
		"background": "blue",
		"opacity":    "0.9",
		"fontSize":   "14px",
	}, values)
	assert.True(t, got.Properties[len(got.Properties)-1].ComputedOnly)
}

// --- read_css_property / write_css_change ---

func TestReadCSSProperty(t *testing.T) {
	s := testServer(t, nil)
	path := filepath.Join(testRepo(t), "src", "Button", "Button.module.css")

	result := callTool(t, s, makeRequest("read_css_property", map[string]any{
		"file_path": path, "selector": ".root", "property": "padding",
	}))
	require.False(t, result.IsError)
	assert.JSONEq(t, `{"found": true, "value": "8px"}`, resultJSON(t, result))

	result = callTool(t, s, makeRequest("read_css_property", map[string]any{
		"file_path": path, "selector": ".root", "property": "margin",
	}))
	assert.JSONEq(t, `{"found": false, "value": ""}`, resultJSON(t, result))

	result = callTool(t, s, makeRequest("read_css_property", map[string]any{"file_path": path}))
	assert.True(t, result.IsError)
}

func TestWriteCSSChange(t *testing.T) {
	s := testServer(t, nil)
	path := filepath.Join(testRepo(t), "src", "Button", "Button.module.css")

	result := callTool(t, s, makeRequest("write_css_change", map[string]any{
		"file_path": path, "selector": ".root", "property": "padding", "value": "12px",
	}))
	require.False(t, result.IsError, resultJSON(t, result))

	var res struct {
		Success       bool   `json:"success"`
		PreviousValue string `json:"previousValue"`
		Outcome       string `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "8px", res.PreviousValue)
	assert.NotEqual(t, "failed", res.Outcome)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "padding: 12px;")
}

func TestWriteCSSChange_Failure(t *testing.T) {
	s := testServer(t, nil)
	path := filepath.Join(testRepo(t), "src", "Button", "Button.module.css")

	result := callTool(t, s, makeRequest("write_css_change", map[string]any{
		"file_path": path, "selector": ".root", "property": "padding", "value": "1px; color: red",
	}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), `"success":false`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buttonCSS, string(data))
}

// --- write_prop_default / write_token_value ---

func TestWritePropDefault(t *testing.T) {
	s := testServer(t, nil)
	path := filepath.Join(testRepo(t), "uiforge.json")

	result := callTool(t, s, makeRequest("write_prop_default", map[string]any{
		"manifest_path": path, "component": "Button", "prop": "variant", "value": `"ghost"`,
	}))
	require.False(t, result.IsError, resultJSON(t, result))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"variant": "ghost"`)

	result = callTool(t, s, makeRequest("write_prop_default", map[string]any{
		"manifest_path": path, "component": "Card", "prop": "x", "value": "1",
	}))
	assert.True(t, result.IsError)
}

func TestWriteTokenValue(t *testing.T) {
	s := testServer(t, nil)
	path := filepath.Join(testRepo(t), "src", "theme.css")

	result := callTool(t, s, makeRequest("write_token_value", map[string]any{
		"theme_file_path": path, "token": "color-primary", "value": "#111111",
	}))
	require.False(t, result.IsError, resultJSON(t, result))
	assert.Contains(t, resultJSON(t, result), `"previousValue":"#2563eb"`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "--color-primary: #111111;")

	result = callTool(t, s, makeRequest("write_token_value", map[string]any{
		"theme_file_path": path, "token": "--missing", "value": "1px",
	}))
	assert.True(t, result.IsError)
}

func TestLiteralArg(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{`"ghost"`, "ghost"},
		{"true", true},
		{"12", float64(12)},
		{"ghost", "ghost"},
		{false, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, literalArg(tc.in), "%v", tc.in)
	}
}

// --- middleware ---

func TestLoggingMiddleware(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "calls.jsonl")
	callLog, err := mcplog.NewLogger(logPath)
	require.NoError(t, err)

	s := testServer(t, callLog)
	path := filepath.Join(testRepo(t), "src", "theme.css")

	handler := s.loggingMiddleware()(s.handleWriteTokenValue)
	_, err = handler(context.Background(), makeRequest("write_token_value", map[string]any{
		"theme_file_path": path, "token": "color-primary", "value": "#000",
	}))
	require.NoError(t, err)
	_, err = handler(context.Background(), makeRequest("write_token_value", map[string]any{
		"theme_file_path": path, "token": "missing", "value": "#000",
	}))
	require.NoError(t, err)
	require.NoError(t, callLog.Close())

	f, err := os.Open(logPath)
	require.NoError(t, err)
	defer f.Close()

	var entries []mcplog.LogEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e mcplog.LogEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)
	assert.Equal(t, "write_token_value", entries[0].Tool)
	assert.Equal(t, "color-primary", entries[0].Params["token"])
	assert.NotEmpty(t, entries[0].Outcome)
	assert.False(t, entries[0].IsError)
	assert.True(t, entries[1].IsError)
	assert.Equal(t, "failed", entries[1].Outcome)
}
