package parser

import (
	"path/filepath"
	"strings"
)

// Language represents a grammar the ParserManager can load.
type Language int

const (
	// LanguageTypeScript represents TypeScript (.ts, .tsx files)
	LanguageTypeScript Language = iota
	// LanguageJavaScript represents JavaScript (.js, .jsx files)
	LanguageJavaScript
	// LanguageCSS represents plain CSS and CSS modules
	LanguageCSS
	// LanguageUnknown represents an unsupported language
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	case LanguageCSS:
		return "css"
	default:
		return "unknown"
	}
}

// DetectLanguage detects the language from a file path.
// Returns LanguageUnknown if the file extension is not recognized.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".mts", ".cts", ".tsx":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	case ".css":
		return LanguageCSS
	default:
		return LanguageUnknown
	}
}

// IsTSXFile checks if a file path represents a TSX file.
// TSX files use the TypeScript grammar with JSX support enabled.
func IsTSXFile(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".tsx"
}

// IsScriptFile reports whether the path is a component source candidate.
func IsScriptFile(filePath string) bool {
	lang := DetectLanguage(filePath)
	return lang == LanguageTypeScript || lang == LanguageJavaScript
}

// SupportedLanguages returns a list of all supported languages.
func SupportedLanguages() []Language {
	return []Language{LanguageTypeScript, LanguageJavaScript, LanguageCSS}
}
