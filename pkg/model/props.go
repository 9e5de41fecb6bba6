package model

// PropKind is the editor-facing classification of a component prop.
type PropKind string

const (
	KindString    PropKind = "string"
	KindNumber    PropKind = "number"
	KindBoolean   PropKind = "boolean"
	KindEnum      PropKind = "enum"
	KindArray     PropKind = "array"
	KindObject    PropKind = "object"
	KindFunction  PropKind = "function"
	KindReactNode PropKind = "reactnode"
)

// Valid reports whether k is one of the known prop kinds.
func (k PropKind) Valid() bool {
	switch k {
	case KindString, KindNumber, KindBoolean, KindEnum, KindArray, KindObject, KindFunction, KindReactNode:
		return true
	}
	return false
}

// Control is the editor widget used to edit a prop.
type Control string

const (
	ControlText   Control = "text"
	ControlNumber Control = "number"
	ControlToggle Control = "toggle"
	ControlSelect Control = "select"
	ControlJSON   Control = "json"
	ControlSlot   Control = "slot"
	ControlNone   Control = "none"
)

// ControlFor derives the editor control from a prop kind.
func ControlFor(kind PropKind) Control {
	switch kind {
	case KindString:
		return ControlText
	case KindNumber:
		return ControlNumber
	case KindBoolean:
		return ControlToggle
	case KindEnum:
		return ControlSelect
	case KindArray, KindObject:
		return ControlJSON
	case KindReactNode:
		return ControlSlot
	default:
		return ControlNone
	}
}

// PropDef describes one editable prop of a component.
//
// Options is non-empty if and only if Kind is KindEnum. Use NewPropDef or
// Normalize to keep that invariant.
type PropDef struct {
	Name         string   `json:"name"`
	Kind         PropKind `json:"kind"`
	Options      []string `json:"options,omitempty"`
	DefaultValue any      `json:"defaultValue,omitempty"`
	Control      Control  `json:"control"`
	Required     bool     `json:"required,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// NewPropDef builds a PropDef with a derived control.
func NewPropDef(name string, kind PropKind, options []string) PropDef {
	return PropDef{Name: name, Kind: kind, Options: options}.Normalize()
}

// Normalize enforces the enum/options invariant and fills in the control.
// An enum without options degrades to a string; options on any other kind
// are dropped. Unknown kinds become strings.
func (p PropDef) Normalize() PropDef {
	if !p.Kind.Valid() {
		p.Kind = KindString
	}
	if p.Kind == KindEnum && len(p.Options) == 0 {
		p.Kind = KindString
	}
	if p.Kind != KindEnum {
		p.Options = nil
	} else {
		p.Options = append([]string(nil), p.Options...)
	}
	p.Control = ControlFor(p.Kind)
	return p
}

// FindProp returns the index of the prop named name, or -1.
func FindProp(props []PropDef, name string) int {
	for i := range props {
		if props[i].Name == name {
			return i
		}
	}
	return -1
}
