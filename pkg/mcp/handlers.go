package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aizetachan/ui-forge-sub001/pkg/cascade"
	"github.com/aizetachan/ui-forge-sub001/pkg/forge"
	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

func (s *Server) handleParseRepository(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repo, err := s.forge.ParseRepository(ctx, path)
	if err != nil {
		if errors.Is(err, forge.ErrRootNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("repository not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	if name := req.GetString("component", ""); name != "" {
		comp, ok := repo.Component(name)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("component %q not found", name)), nil
		}
		repo.Components = []model.Component{*comp}
	}
	if !req.GetBool("include_source", false) {
		for i := range repo.Components {
			repo.Components[i].SourceCode = ""
			repo.Components[i].RawCSS = ""
		}
		repo.ThemeSource = ""
	}
	return jsonResult(repo)
}

func (s *Server) handleGetComponentStyles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("component")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	repo, err := s.forge.ParseRepository(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	comp, ok := repo.Component(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("component %q not found", name)), nil
	}

	view := cascade.View{
		BaseClass: req.GetString("base_class", ""),
		Variants:  req.GetStringSlice("variants", nil),
		State:     req.GetString("state", ""),
		Media:     req.GetString("media_query", ""),
	}
	computed := stringMap(req.GetArguments()["computed"])

	merged, err := forge.ComponentStyles(comp, view, computed)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"component":  comp.Name,
		"properties": merged,
	})
}

func (s *Server) handleReadCSSProperty(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filePath, err := req.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	selector, err := req.RequireString("selector")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	property, err := req.RequireString("property")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	value, found, err := s.forge.ReadCSSProperty(filePath, selector, property, req.GetString("media_query", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"found": found,
		"value": value,
	})
}

func (s *Server) handleWriteCSSChange(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ch := forge.CSSChange{
		FilePath:   req.GetString("file_path", ""),
		Selector:   req.GetString("selector", ""),
		Property:   req.GetString("property", ""),
		Value:      req.GetString("value", ""),
		MediaQuery: req.GetString("media_query", ""),
	}
	return writeResult(s.forge.WriteCSSChange(ch))
}

func (s *Server) handleWritePropDefault(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ch := forge.PropDefaultChange{
		ManifestPath:  req.GetString("manifest_path", ""),
		ComponentName: req.GetString("component", ""),
		PropName:      req.GetString("prop", ""),
		Value:         literalArg(req.GetArguments()["value"]),
	}
	return writeResult(s.forge.WritePropDefault(ch))
}

func (s *Server) handleWriteTokenValue(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ch := forge.TokenChange{
		ThemeFilePath: req.GetString("theme_file_path", ""),
		TokenName:     req.GetString("token", ""),
		NewValue:      req.GetString("value", ""),
	}
	return writeResult(s.forge.WriteTokenValue(ch))
}

// writeResult encodes a write as JSON. Failed writes are flagged as tool
// errors but still carry the structured result.
func writeResult(res forge.WriteResult) (*mcp.CallToolResult, error) {
	result, err := jsonResult(res)
	if err != nil {
		return nil, err
	}
	result.IsError = !res.Success
	return result, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// literalArg decodes a JSON literal argument. Non-string arguments are used
// as given and text that is not valid JSON is kept as a string.
func literalArg(arg any) any {
	text, ok := arg.(string)
	if !ok {
		return arg
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return text
	}
	return v
}

func stringMap(arg any) map[string]string {
	in, ok := arg.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
