package mcp

import "github.com/mark3labs/mcp-go/mcp"

func parseRepositoryTool() mcp.Tool {
	return mcp.NewTool("parse_repository",
		mcp.WithDescription("Parse a React component library into components, prop schemas, variants, stylesheet rules, stories and design tokens"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Repository root directory")),
		mcp.WithString("component", mcp.Description("Only return the component with this name")),
		mcp.WithBoolean("include_source", mcp.Description("Include component source code and raw stylesheet text (default false)")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func getComponentStylesTool() mcp.Tool {
	return mcp.NewTool("get_component_styles",
		mcp.WithDescription("Merge a component's stylesheet rules for one view: base class, active variant classes, state and media query"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Repository root directory")),
		mcp.WithString("component", mcp.Required(), mcp.Description("Component name")),
		mcp.WithString("base_class", mcp.Description("Root class; defaults to the first class rule of the stylesheet")),
		mcp.WithArray("variants", mcp.WithStringItems(), mcp.Description("Active variant classes")),
		mcp.WithString("state", mcp.Description("Interactive state such as hover or focus")),
		mcp.WithString("media_query", mcp.Description("Active media query")),
		mcp.WithObject("computed", mcp.Description("Computed style map from a rendered preview; non-trivial unauthored entries are appended")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func readCSSPropertyTool() mcp.Tool {
	return mcp.NewTool("read_css_property",
		mcp.WithDescription("Read the authored value of a declaration in a stylesheet"),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Stylesheet path")),
		mcp.WithString("selector", mcp.Required(), mcp.Description("Rule selector, e.g. .root:hover")),
		mcp.WithString("property", mcp.Required(), mcp.Description("Property name in kebab-case or camelCase")),
		mcp.WithString("media_query", mcp.Description("Media query containing the rule")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func writeCSSChangeTool() mcp.Tool {
	return mcp.NewTool("write_css_change",
		mcp.WithDescription("Set one declaration in a stylesheet without disturbing the rest of the file"),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Stylesheet path")),
		mcp.WithString("selector", mcp.Required(), mcp.Description("Rule selector; the rule is created when missing")),
		mcp.WithString("property", mcp.Required(), mcp.Description("Property name in kebab-case or camelCase")),
		mcp.WithString("value", mcp.Required(), mcp.Description("New value")),
		mcp.WithString("media_query", mcp.Description("Media query containing the rule")),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

func writePropDefaultTool() mcp.Tool {
	return mcp.NewTool("write_prop_default",
		mcp.WithDescription("Set a component's default prop value in the manifest"),
		mcp.WithString("manifest_path", mcp.Required(), mcp.Description("Manifest file path")),
		mcp.WithString("component", mcp.Required(), mcp.Description("Component name")),
		mcp.WithString("prop", mcp.Required(), mcp.Description("Prop name")),
		mcp.WithString("value", mcp.Required(), mcp.Description(`New default as a JSON literal, e.g. "ghost", true or 12; other text is stored as a string`)),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

func writeTokenValueTool() mcp.Tool {
	return mcp.NewTool("write_token_value",
		mcp.WithDescription("Set a design token custom property in the theme stylesheet"),
		mcp.WithString("theme_file_path", mcp.Required(), mcp.Description("Theme stylesheet path")),
		mcp.WithString("token", mcp.Required(), mcp.Description("Token name with or without the leading --")),
		mcp.WithString("value", mcp.Required(), mcp.Description("New value")),
		mcp.WithDestructiveHintAnnotation(false),
	)
}
