package symbols

import (
	"fmt"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/text/unicode/norm"
)

// declarationKinds maps tree-sitter node kinds to symbol kinds for
// declarations that may appear at the top level of a document.
var declarationKinds = map[string]Kind{
	"class_declaration":     KindClass,
	"interface_declaration": KindInterface,
	"trait_declaration":     KindTrait,
	"enum_declaration":      KindEnum,
	"function_definition":   KindFunction,
}

// memberKinds maps node kinds to symbol kinds for declarations inside a
// class-like body.
var memberKinds = map[string]Kind{
	"method_declaration":   KindMethod,
	"property_declaration": KindProperty,
	"const_declaration":    KindConstant,
}

// Flat walks the tree rooted at root and returns one Information per
// declaration, members flattened with their container name filled in.
func Flat(uri string, root *sitter.Node, src []byte) []Information {
	out := []Information{}
	for _, decl := range topLevel(root) {
		name := declarationName(decl.node, src)
		if name == "" {
			continue
		}
		out = append(out, Information{
			Name:     name,
			Kind:     decl.kind,
			Location: Location{URI: uri, Range: nodeRange(decl.node)},
		})
		for _, member := range members(decl.node, src) {
			out = append(out, Information{
				Name:      member.Name,
				Kind:      member.Kind,
				Location:  Location{URI: uri, Range: member.Range},
				Container: name,
			})
		}
	}
	return out
}

// Nested walks the tree rooted at root and returns hierarchical symbols,
// members nested under their declaring type.
func Nested(root *sitter.Node, src []byte) []Document {
	out := []Document{}
	for _, decl := range topLevel(root) {
		name := declarationName(decl.node, src)
		if name == "" {
			continue
		}
		doc := Document{
			Name:           name,
			Kind:           decl.kind,
			Range:          nodeRange(decl.node),
			SelectionRange: selectionRange(decl.node),
		}
		for _, member := range members(decl.node, src) {
			doc.Children = append(doc.Children, Document{
				Name:           member.Name,
				Kind:           member.Kind,
				Range:          member.Range,
				SelectionRange: member.SelectionRange,
			})
		}
		out = append(out, doc)
	}
	return out
}

type declaration struct {
	node *sitter.Node
	kind Kind
}

type member struct {
	Name           string
	Kind           Kind
	Range          Range
	SelectionRange Range
}

// topLevel collects declaration nodes among the immediate children of the
// program node.
func topLevel(root *sitter.Node) []declaration {
	var out []declaration
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if kind, ok := declarationKinds[child.Type()]; ok {
			out = append(out, declaration{node: child, kind: kind})
		}
	}
	return out
}

// members descends into the body of a class-like declaration and collects
// its methods, properties, and constants.
func members(decl *sitter.Node, src []byte) []member {
	body := decl.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []member
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		kind, ok := memberKinds[child.Type()]
		if !ok {
			continue
		}
		switch kind {
		case KindMethod:
			name := declarationName(child, src)
			if name == "" {
				continue
			}
			out = append(out, member{
				Name:           name,
				Kind:           kind,
				Range:          nodeRange(child),
				SelectionRange: selectionRange(child),
			})
		case KindProperty:
			// property_declaration holds one or more property_element
			// nodes, each naming one variable.
			for _, elem := range childrenOfType(child, "property_element") {
				name := firstChildOfType(elem, "variable_name")
				if name == nil {
					continue
				}
				out = append(out, member{
					Name:           nodeText(name, src),
					Kind:           kind,
					Range:          nodeRange(child),
					SelectionRange: nodeRange(name),
				})
			}
		case KindConstant:
			for _, elem := range childrenOfType(child, "const_element") {
				name := firstChildOfType(elem, "name")
				if name == nil {
					continue
				}
				out = append(out, member{
					Name:           nodeText(name, src),
					Kind:           kind,
					Range:          nodeRange(child),
					SelectionRange: nodeRange(name),
				})
			}
		}
	}
	return out
}

// declarationName reads the designated name child of a declaration node.
// Names pass through NFC so decomposed code points sent by an editor match
// their on-disk spelling.
func declarationName(node *sitter.Node, src []byte) string {
	name := node.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return nodeText(name, src)
}

func nodeText(node *sitter.Node, src []byte) string {
	return norm.NFC.String(node.Content(src))
}

func childrenOfType(node *sitter.Node, kind string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == kind {
			out = append(out, child)
		}
	}
	return out
}

func firstChildOfType(node *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == kind {
			return child
		}
	}
	return nil
}

// nodeRange covers the full extent of a declaration, body included.
func nodeRange(node *sitter.Node) Range {
	return Range{
		Start: pointToPosition(node.StartPoint()),
		End:   pointToPosition(node.EndPoint()),
	}
}

// selectionRange covers just the name when present, the full node
// otherwise.
func selectionRange(node *sitter.Node) Range {
	if name := node.ChildByFieldName("name"); name != nil {
		return nodeRange(name)
	}
	return nodeRange(node)
}

func pointToPosition(p sitter.Point) Position {
	line, err := safecast.Conv[int](p.Row)
	if err != nil {
		panic(fmt.Errorf("symbols: row overflow: %w", err))
	}
	col, err := safecast.Conv[int](p.Column)
	if err != nil {
		panic(fmt.Errorf("symbols: column overflow: %w", err))
	}
	return Position{Line: line, Column: col}
}
