package props

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/aizetachan/ui-forge-sub001/pkg/model"
)

var (
	// ErrNoProgram is returned by ASTResolver when called without a Program.
	ErrNoProgram = errors.New("no type resolution program")
	// ErrNotParsed is returned when the component file is not part of the Program.
	ErrNotParsed = errors.New("file not parsed")
)

// fcTypes are the annotation types whose first type argument is the props type.
var fcTypes = map[string]bool{
	"FC":                    true,
	"FunctionComponent":     true,
	"VFC":                   true,
	"VoidFunctionComponent": true,
	"Component":             true,
	"PureComponent":         true,
}

// ASTResolver resolves prop types from tree-sitter syntax trees, following
// type names through every declaration of the repository Program.
type ASTResolver struct {
	log *slog.Logger
}

// NewASTResolver creates the type-aware resolver.
func NewASTResolver(logger *slog.Logger) *ASTResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &ASTResolver{log: logger}
}

// Resolve locates the props type of componentName in file and classifies
// each of its properties. A component without a recognizable props type
// resolves to nil without error.
func (r *ASTResolver) Resolve(prog *Program, file, componentName string) ([]model.PropDef, error) {
	if prog == nil {
		return nil, ErrNoProgram
	}
	sf, ok := prog.File(file)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotParsed, file)
	}

	prog.mu.Lock()
	defer prog.mu.Unlock()

	w := &walker{prog: prog, file: sf, expanding: make(map[declKey]bool)}
	members, found := w.locate(componentName)
	if !found {
		r.log.Debug("no props type found", "component", componentName, "file", file)
		return nil, nil
	}

	props := make([]model.PropDef, 0, len(members))
	for _, m := range members {
		props = append(props, w.propDef(m))
	}
	return props, nil
}

// member is one property collected from a props type.
type member struct {
	name     string
	optional bool
	doc      string

	// node is the property's type. Members built without one carry a
	// precomputed kind.
	node    *ts.Node
	file    *SourceFile
	kind    model.PropKind
	options []string
	def     any
}

type declKey struct {
	path  string
	start uint
}

type walker struct {
	prog *Program
	file *SourceFile

	// expanding holds the declarations on the current resolution path.
	expanding map[declKey]bool
}

// locate finds the members of the component's props type: the <Name>Props
// declaration if there is one, otherwise the type from the component's
// annotation or first parameter.
func (w *walker) locate(name string) ([]member, bool) {
	if decl, ok := w.prog.lookupType(name+"Props", w.file.Path); ok {
		return w.declMembers(decl, false), true
	}
	typ := w.componentPropsType(name)
	if typ == nil {
		return nil, false
	}
	return w.typeMembers(typ, w.file, false), true
}

func (w *walker) enter(d typeDecl) bool {
	key := declKey{path: d.file.Path, start: d.node.StartByte()}
	if w.expanding[key] {
		return false
	}
	w.expanding[key] = true
	return true
}

func (w *walker) leave(d typeDecl) {
	delete(w.expanding, declKey{path: d.file.Path, start: d.node.StartByte()})
}

// declMembers collects the members of an interface or type alias. When
// inherited is set, event handler props are left out.
func (w *walker) declMembers(decl typeDecl, inherited bool) []member {
	if !w.enter(decl) {
		return nil
	}
	defer w.leave(decl)

	switch decl.node.Kind() {
	case "interface_declaration":
		body := decl.node.ChildByFieldName("body")
		if body == nil {
			body = findChildByKind(decl.node, "interface_body")
		}
		var own, bases []member
		if body != nil {
			own = w.bodyMembers(body, decl.file, inherited)
		}
		if clause := findChildByKind(decl.node, "extends_type_clause"); clause != nil {
			for i := uint(0); i < clause.ChildCount(); i++ {
				child := clause.Child(i)
				if !child.IsNamed() {
					continue
				}
				bases = append(bases, w.baseMembers(child, decl.file)...)
			}
		}
		return mergeMembers(own, bases)
	case "type_alias_declaration":
		return w.typeMembers(decl.node.ChildByFieldName("value"), decl.file, inherited)
	}
	return nil
}

// typeMembers collects members from a type expression used as a props type.
func (w *walker) typeMembers(node *ts.Node, sf *SourceFile, inherited bool) []member {
	if node == nil {
		return nil
	}
	switch node.Kind() {
	case "object_type", "interface_body":
		return w.bodyMembers(node, sf, inherited)
	case "parenthesized_type":
		return w.typeMembers(firstNamedChild(node), sf, inherited)
	case "intersection_type":
		var own, bases []member
		for _, part := range intersectionParts(node) {
			if part.Kind() == "object_type" {
				own = append(own, w.bodyMembers(part, sf, inherited)...)
			} else {
				bases = append(bases, w.baseMembers(part, sf)...)
			}
		}
		return mergeMembers(own, bases)
	case "type_identifier", "generic_type":
		if m := w.variantProps(node, sf); m != nil {
			return m
		}
		if decl, ok := w.resolveName(node, sf); ok {
			return w.declMembers(decl, inherited)
		}
	}
	return nil
}

// baseMembers collects what an extended or intersected type contributes:
// cva() variants, or the non-event props of a repository declaration.
// Framework types that do not resolve contribute nothing.
func (w *walker) baseMembers(node *ts.Node, sf *SourceFile) []member {
	if m := w.variantProps(node, sf); m != nil {
		return m
	}
	if node.Kind() == "object_type" {
		return w.bodyMembers(node, sf, true)
	}
	if decl, ok := w.resolveName(node, sf); ok {
		return w.declMembers(decl, true)
	}
	return nil
}

// resolveName finds the repository declaration a type reference names.
// Qualified names such as React.HTMLAttributes never resolve.
func (w *walker) resolveName(node *ts.Node, sf *SourceFile) (typeDecl, bool) {
	var name string
	switch node.Kind() {
	case "type_identifier":
		name = node.Utf8Text(sf.Source)
	case "generic_type":
		n := node.ChildByFieldName("name")
		if n == nil || n.Kind() != "type_identifier" {
			return typeDecl{}, false
		}
		name = n.Utf8Text(sf.Source)
	default:
		return typeDecl{}, false
	}
	return w.prog.lookupType(name, sf.Path)
}

// bodyMembers reads the property and method signatures of an object type.
func (w *walker) bodyMembers(body *ts.Node, sf *SourceFile, inherited bool) []member {
	var out []member
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		kind := child.Kind()
		if kind != "property_signature" && kind != "method_signature" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		m := member{
			name:     unquoteString(nameNode.Utf8Text(sf.Source)),
			optional: findChildByKind(child, "?") != nil,
			doc:      jsdocBefore(body, i, sf.Source),
			file:     sf,
		}
		if inherited && isEventName(m.name) {
			continue
		}
		if kind == "method_signature" {
			m.kind = model.KindFunction
		} else if anno := child.ChildByFieldName("type"); anno != nil {
			m.node = annotationType(anno)
		}
		if m.node == nil && m.kind == "" {
			m.kind = model.KindObject
		}
		out = append(out, m)
	}
	return out
}

// componentPropsType finds the props type from the component's own
// declaration: an FC/forwardRef/memo annotation, a class heritage clause or
// the first parameter's annotation.
func (w *walker) componentPropsType(name string) *ts.Node {
	src := w.file.Source
	root := w.file.Tree.RootNode()
	for i := uint(0); i < root.ChildCount(); i++ {
		node := root.Child(i)
		if node.Kind() == "export_statement" {
			if decl := node.ChildByFieldName("declaration"); decl != nil {
				node = decl
			}
		}
		switch node.Kind() {
		case "function_declaration":
			if n := node.ChildByFieldName("name"); n != nil && n.Utf8Text(src) == name {
				return paramType(node)
			}
		case "class_declaration":
			if n := node.ChildByFieldName("name"); n != nil && n.Utf8Text(src) == name {
				return w.heritagePropsType(node)
			}
		case "lexical_declaration", "variable_declaration":
			for j := uint(0); j < node.ChildCount(); j++ {
				d := node.Child(j)
				if d.Kind() != "variable_declarator" {
					continue
				}
				if n := d.ChildByFieldName("name"); n == nil || n.Utf8Text(src) != name {
					continue
				}
				if anno := d.ChildByFieldName("type"); anno != nil {
					if t := w.fcTypeArgument(annotationType(anno)); t != nil {
						return t
					}
				}
				return w.valuePropsType(d.ChildByFieldName("value"))
			}
		}
	}
	return nil
}

// fcTypeArgument returns P from FC<P> or React.FunctionComponent<P>.
func (w *walker) fcTypeArgument(node *ts.Node) *ts.Node {
	if node == nil || node.Kind() != "generic_type" {
		return nil
	}
	n := node.ChildByFieldName("name")
	if n == nil || !fcTypes[baseName(n.Utf8Text(w.file.Source))] {
		return nil
	}
	return nthNamedChild(findChildByKind(node, "type_arguments"), 0)
}

// valuePropsType handles arrow functions, function expressions and
// forwardRef/memo wrappers, including nested ones.
func (w *walker) valuePropsType(value *ts.Node) *ts.Node {
	if value == nil {
		return nil
	}
	switch value.Kind() {
	case "arrow_function", "function_expression", "function":
		return paramType(value)
	case "parenthesized_expression":
		return w.valuePropsType(firstNamedChild(value))
	case "call_expression":
		fn := value.ChildByFieldName("function")
		if fn == nil {
			return nil
		}
		callee := baseName(fn.Utf8Text(w.file.Source))
		if callee != "forwardRef" && callee != "memo" {
			return nil
		}
		typeArgs := value.ChildByFieldName("type_arguments")
		if typeArgs == nil {
			typeArgs = findChildByKind(value, "type_arguments")
		}
		idx := 0
		if callee == "forwardRef" {
			idx = 1
		}
		if t := nthNamedChild(typeArgs, idx); t != nil {
			return t
		}
		return w.valuePropsType(nthNamedChild(value.ChildByFieldName("arguments"), 0))
	}
	return nil
}

// heritagePropsType returns P from class X extends React.Component<P>.
func (w *walker) heritagePropsType(class *ts.Node) *ts.Node {
	heritage := findChildByKind(class, "class_heritage")
	if heritage == nil {
		return nil
	}
	clause := findChildByKind(heritage, "extends_clause")
	if clause == nil {
		return nil
	}
	value := clause.ChildByFieldName("value")
	if value == nil || !fcTypes[baseName(value.Utf8Text(w.file.Source))] {
		return nil
	}
	return nthNamedChild(clause.ChildByFieldName("type_arguments"), 0)
}

// paramType returns the type annotation of a function's first parameter.
func paramType(fn *ts.Node) *ts.Node {
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		if child.Kind() != "required_parameter" && child.Kind() != "optional_parameter" {
			continue
		}
		if anno := child.ChildByFieldName("type"); anno != nil {
			return annotationType(anno)
		}
		return nil
	}
	return nil
}

// propDef classifies a member's type.
func (w *walker) propDef(m member) model.PropDef {
	pd := model.PropDef{
		Name:         m.name,
		Kind:         m.kind,
		Options:      m.options,
		DefaultValue: m.def,
		Required:     !m.optional,
		Description:  m.doc,
	}
	if m.node != nil {
		pd.Kind, pd.Options = classify(w.terms(m.node, m.file))
	}
	return pd.Normalize()
}

// terms flattens a type into its union members, following type aliases
// declared anywhere in the repository.
func (w *walker) terms(node *ts.Node, sf *SourceFile) []term {
	if node == nil {
		return []term{{kind: termOther}}
	}
	switch node.Kind() {
	case "union_type":
		var out []term
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.Kind() == "|" {
				continue
			}
			out = append(out, w.terms(child, sf)...)
		}
		return out
	case "parenthesized_type":
		return w.terms(firstNamedChild(node), sf)
	case "predefined_type":
		return []term{predefinedTerm(node.Utf8Text(sf.Source))}
	case "literal_type":
		return []term{literalTerm(node.Utf8Text(sf.Source))}
	case "template_literal_type", "index_type_query":
		return []term{{kind: termString}}
	case "array_type", "tuple_type", "readonly_type":
		return []term{{kind: termArray}}
	case "function_type", "constructor_type":
		return []term{{kind: termFunction}}
	case "type_identifier", "nested_type_identifier", "generic_type":
		return w.namedTerms(node, sf)
	}
	return []term{{kind: termOther}}
}

func (w *walker) namedTerms(node *ts.Node, sf *SourceFile) []term {
	nameNode := node
	if node.Kind() == "generic_type" {
		if n := node.ChildByFieldName("name"); n != nil {
			nameNode = n
		}
	}
	name := nameNode.Utf8Text(sf.Source)
	if t, ok := namedTerm(name); ok {
		return []term{t}
	}
	if t := predefinedTerm(name); t.kind != termOther {
		return []term{t}
	}
	decl, ok := w.resolveName(node, sf)
	if !ok || decl.node.Kind() != "type_alias_declaration" {
		return []term{{kind: termOther}}
	}
	if !w.enter(decl) {
		return []term{{kind: termOther}}
	}
	defer w.leave(decl)
	return w.terms(decl.node.ChildByFieldName("value"), decl.file)
}

// variantProps expands VariantProps<typeof x> into one member per cva()
// variant of x declared in the same file.
func (w *walker) variantProps(node *ts.Node, sf *SourceFile) []member {
	if node.Kind() != "generic_type" {
		return nil
	}
	if n := node.ChildByFieldName("name"); n == nil || n.Utf8Text(sf.Source) != "VariantProps" {
		return nil
	}
	query := findChildByKind(findChildByKind(node, "type_arguments"), "type_query")
	ident := findChildByKind(query, "identifier")
	if ident == nil {
		return nil
	}
	call := findCVACall(sf, ident.Utf8Text(sf.Source))
	if call == nil {
		return nil
	}
	return cvaMembers(call, sf)
}

// intersectionParts flattens A & (B & C) into its operands.
func intersectionParts(node *ts.Node) []*ts.Node {
	switch node.Kind() {
	case "intersection_type":
		var parts []*ts.Node
		for i := uint(0); i < node.ChildCount(); i++ {
			if child := node.Child(i); child.IsNamed() {
				parts = append(parts, intersectionParts(child)...)
			}
		}
		return parts
	case "parenthesized_type":
		if inner := firstNamedChild(node); inner != nil {
			return intersectionParts(inner)
		}
	}
	return []*ts.Node{node}
}

// mergeMembers appends base members not re-declared locally.
func mergeMembers(own, bases []member) []member {
	seen := make(map[string]bool, len(own)+len(bases))
	out := make([]member, 0, len(own)+len(bases))
	for _, group := range [][]member{own, bases} {
		for _, m := range group {
			if seen[m.name] {
				continue
			}
			seen[m.name] = true
			out = append(out, m)
		}
	}
	return out
}

// isEventName matches React event handler props such as onClick.
func isEventName(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, "on") && name[2] >= 'A' && name[2] <= 'Z'
}

// annotationType unwraps a type_annotation to the type it holds.
func annotationType(anno *ts.Node) *ts.Node {
	if anno.Kind() != "type_annotation" {
		return anno
	}
	return firstNamedChild(anno)
}

// jsdocBefore returns the description of the comment directly preceding
// the body child at idx.
func jsdocBefore(body *ts.Node, idx uint, source []byte) string {
	for i := int(idx) - 1; i >= 0; i-- {
		child := body.Child(uint(i))
		switch child.Kind() {
		case "comment":
			return parseJSDoc(child.Utf8Text(source))
		case "property_signature", "method_signature":
			return ""
		}
	}
	return ""
}

// parseJSDoc extracts the description from a doc comment, dropping tags.
func parseJSDoc(comment string) string {
	comment = strings.TrimSpace(comment)
	if strings.HasPrefix(comment, "//") {
		return strings.TrimSpace(strings.TrimPrefix(comment, "//"))
	}
	if !strings.HasPrefix(comment, "/**") {
		return ""
	}
	comment = strings.TrimSuffix(strings.TrimPrefix(comment, "/**"), "*/")

	var parts []string
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if line == "" || strings.HasPrefix(line, "@") {
			continue
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

// findChildByKind returns the first direct child of the given kind.
func findChildByKind(node *ts.Node, kind string) *ts.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child.Kind() == kind {
			return child
		}
	}
	return nil
}

func firstNamedChild(node *ts.Node) *ts.Node {
	return nthNamedChild(node, 0)
}

// nthNamedChild skips punctuation and comments.
func nthNamedChild(node *ts.Node, n int) *ts.Node {
	if node == nil {
		return nil
	}
	count := 0
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if !child.IsNamed() || child.Kind() == "comment" {
			continue
		}
		if count == n {
			return child
		}
		count++
	}
	return nil
}

// baseName strips a namespace qualifier: React.FC becomes FC.
func baseName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
