// Package css parses component stylesheets (CSS modules) into rules and
// exposes a positional outline of the text that the patch engine edits in
// place.
package css

// Mode records which scanner produced an outline.
type Mode int

const (
	// ModeStructural means the tree-sitter grammar parsed the text cleanly.
	ModeStructural Mode = iota
	// ModeFallback means the brace-depth scanner was used because the
	// structural parse failed.
	ModeFallback
)

func (m Mode) String() string {
	if m == ModeStructural {
		return "structural"
	}
	return "fallback"
}

// BlockKind classifies a braced block.
type BlockKind int

const (
	BlockRule BlockKind = iota
	BlockMedia
	// BlockOther covers @keyframes, @supports, @font-face, @layer and any
	// other at-rule with a body. Its rules are not reported.
	BlockOther
)

// Block is one braced region of a stylesheet.
type Block struct {
	Kind BlockKind
	// Prelude is the text before the opening brace with comments removed
	// and whitespace collapsed: the selector list for rules, the query for
	// @media (without the keyword), the full at-rule header otherwise.
	Prelude string
	// Start is the byte offset where the prelude begins.
	Start int
	// OpenBrace and CloseBrace are byte offsets of '{' and '}'. CloseBrace
	// equals len(text) when the block is unterminated.
	OpenBrace  int
	CloseBrace int
	Decls      []Decl
	Children   []*Block
}

// Unterminated reports whether the block runs to end of input.
func (b *Block) Unterminated(text string) bool {
	return b.CloseBrace >= len(text)
}

// Decl is one "property: value" declaration with byte offsets into the text.
type Decl struct {
	// Property as written (kebab-case or a custom property).
	Property string
	// Value is the trimmed text between ':' and the terminator.
	Value string
	// Start is the offset of the property name. End is one past the
	// terminating ';', or one past the value when there is none.
	Start, End int
	// ValueStart and ValueEnd delimit Value in the text.
	ValueStart, ValueEnd int
	HasSemicolon         bool
}

// Stylesheet is the outline of a CSS text.
type Stylesheet struct {
	Text   string
	Mode   Mode
	Blocks []*Block
}

// RuleRef is a rule block together with its effective selector and media
// context, as seen when walking the outline.
type RuleRef struct {
	Block *Block
	// Selector is the whitespace-collapsed selector, with nesting resolved.
	Selector string
	// Media is the collapsed media query text, or "" at top level.
	Media string
}

// Rules lists every rule block in document order, including rules nested
// in @media blocks and nested rules inside other rules.
func (s *Stylesheet) Rules() []RuleRef {
	var out []RuleRef
	collectRules(s.Blocks, "", "", &out)
	return out
}

// MediaBlocks lists @media blocks in document order with their query text.
func (s *Stylesheet) MediaBlocks() []*Block {
	var out []*Block
	var walk func(blocks []*Block)
	walk = func(blocks []*Block) {
		for _, b := range blocks {
			if b.Kind == BlockMedia {
				out = append(out, b)
			}
			if b.Kind != BlockOther {
				walk(b.Children)
			}
		}
	}
	walk(s.Blocks)
	return out
}

func collectRules(blocks []*Block, media, parent string, out *[]RuleRef) {
	for _, b := range blocks {
		switch b.Kind {
		case BlockRule:
			sel := resolveNested(parent, b.Prelude)
			*out = append(*out, RuleRef{Block: b, Selector: sel, Media: media})
			collectRules(b.Children, media, sel, out)
		case BlockMedia:
			m := combineMedia(media, b.Prelude)
			if parent != "" && len(b.Decls) > 0 {
				*out = append(*out, RuleRef{Block: b, Selector: parent, Media: m})
			}
			collectRules(b.Children, m, parent, out)
		}
	}
}
