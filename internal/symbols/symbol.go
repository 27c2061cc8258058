// Package symbols defines the symbol model extracted from parsed PHP
// documents and the tree walk that produces it. Symbols are derived on
// every query, never stored.
package symbols

// Kind classifies the semantic meaning of a symbol.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindClass
	KindInterface
	KindTrait
	KindEnum
	KindFunction
	KindMethod
	KindProperty
	KindConstant
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindTrait:
		return "trait"
	case KindEnum:
		return "enum"
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindProperty:
		return "property"
	case KindConstant:
		return "constant"
	default:
		return "invalid"
	}
}

// Position is a zero-based line/column pair. Columns count bytes within
// the line, matching the syntax tree's own coordinates.
type Position struct {
	Line   int `msgpack:"line"`
	Column int `msgpack:"column"`
}

// Range is a half-open span from Start up to End.
type Range struct {
	Start Position `msgpack:"start"`
	End   Position `msgpack:"end"`
}

// Location pins a range to a document.
type Location struct {
	URI   string `msgpack:"uri"`
	Range Range  `msgpack:"range"`
}

// Information is the flat symbol shape: one entry per declaration, with
// the enclosing declaration's name in Container for members.
type Information struct {
	Name      string   `msgpack:"name"`
	Kind      Kind     `msgpack:"kind"`
	Location  Location `msgpack:"location"`
	Container string   `msgpack:"container,omitempty"`
}

// Document is the hierarchical symbol shape: members nest under their
// declaring type.
type Document struct {
	Name           string
	Kind           Kind
	Range          Range
	SelectionRange Range
	Children       []Document
}
