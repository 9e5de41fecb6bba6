package model

// TokenType is the editor category of a design token.
type TokenType string

const (
	TokenColor      TokenType = "color"
	TokenSpacing    TokenType = "spacing"
	TokenTypography TokenType = "typography"
	TokenRadius     TokenType = "radius"
)

// Token is a named design value, usually a CSS custom property.
type Token struct {
	Name   string    `json:"name"`
	Value  string    `json:"value"`
	Type   TokenType `json:"type"`
	Source string    `json:"source,omitempty"`
}
