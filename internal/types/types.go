package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind enumerates all supported kinds of PHP types.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Scalar categories. A scalar Type with a nil Lit is the category
	// itself; with a non-nil Lit it is a literal instance of it.
	KindString
	KindInt
	KindFloat
	KindBool
	KindNull

	// Nominal types.
	KindClass
	KindTrait
	KindInterface
	KindEnum
	KindFunction

	// Structural/special types.
	KindArray
	KindObject
	KindCallable
	KindResource
	KindNever
	KindVoid

	// Composites.
	KindUnion
	KindOr
	KindNullable
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindClass:
		return "class"
	case KindTrait:
		return "trait"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindFunction:
		return "function"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindCallable:
		return "callable"
	case KindResource:
		return "resource"
	case KindNever:
		return "never"
	case KindVoid:
		return "void"
	case KindUnion:
		return "union"
	case KindOr:
		return "or"
	case KindNullable:
		return "nullable"
	case KindInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Literal carries the concrete value of a scalar literal type. Only the
// field matching Kind is meaningful.
type Literal struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
	Bool  bool
}

func (l Literal) equal(other Literal) bool {
	if l.Kind != other.Kind {
		return false
	}
	switch l.Kind {
	case KindString:
		return l.Str == other.Str
	case KindInt:
		return l.Int == other.Int
	case KindFloat:
		return l.Float == other.Float
	case KindBool:
		return l.Bool == other.Bool
	default:
		return false
	}
}

// Type is a value in the type algebra. Values are immutable once
// constructed; operations return fresh values.
//
// Only the fields relevant to Kind are populated: Name for nominal types
// and functions, Lit for scalar literals, Members for Union/Or, Params and
// Ret for functions, Key/Value for refined arrays, Elem for Nullable.
type Type struct {
	Kind    Kind
	Name    string
	Lit     *Literal
	Members []Type
	Params  []Type
	Ret     *Type
	Key     *Type
	Value   *Type
	Elem    *Type
}

// Descriptor helpers ---------------------------------------------------------

// MakeString describes the string category.
func MakeString() Type { return Type{Kind: KindString} }

// MakeInt describes the int category.
func MakeInt() Type { return Type{Kind: KindInt} }

// MakeFloat describes the float category.
func MakeFloat() Type { return Type{Kind: KindFloat} }

// MakeBool describes the bool category.
func MakeBool() Type { return Type{Kind: KindBool} }

// MakeNull describes null. Null has no literal form distinct from its
// category.
func MakeNull() Type { return Type{Kind: KindNull} }

// MakeStringLiteral describes a literal string type such as 'foo'.
func MakeStringLiteral(v string) Type {
	return Type{Kind: KindString, Lit: &Literal{Kind: KindString, Str: v}}
}

// MakeIntLiteral describes a literal integer type.
func MakeIntLiteral(v int64) Type {
	return Type{Kind: KindInt, Lit: &Literal{Kind: KindInt, Int: v}}
}

// MakeFloatLiteral describes a literal float type.
func MakeFloatLiteral(v float64) Type {
	return Type{Kind: KindFloat, Lit: &Literal{Kind: KindFloat, Float: v}}
}

// MakeBoolLiteral describes literal true or false.
func MakeBoolLiteral(v bool) Type {
	return Type{Kind: KindBool, Lit: &Literal{Kind: KindBool, Bool: v}}
}

// MakeClass describes a class type by name.
func MakeClass(name string) Type { return Type{Kind: KindClass, Name: name} }

// MakeTrait describes a trait type by name.
func MakeTrait(name string) Type { return Type{Kind: KindTrait, Name: name} }

// MakeInterface describes an interface type by name.
func MakeInterface(name string) Type { return Type{Kind: KindInterface, Name: name} }

// MakeEnum describes an enum type by name.
func MakeEnum(name string) Type { return Type{Kind: KindEnum, Name: name} }

// MakeFunction describes a function with ordered parameter types and a
// return type.
func MakeFunction(name string, params []Type, ret Type) Type {
	return Type{Kind: KindFunction, Name: name, Params: params, Ret: &ret}
}

// MakeArray describes the plain array type without key/value refinement.
func MakeArray() Type { return Type{Kind: KindArray} }

// MakeArrayMap describes array<key, value>.
func MakeArrayMap(key, value Type) Type {
	return Type{Kind: KindArray, Key: &key, Value: &value}
}

// MakeArrayOf describes a list-shaped array<int, value>.
func MakeArrayOf(value Type) Type {
	return MakeArrayMap(MakeInt(), value)
}

// MakeObject describes the object top type.
func MakeObject() Type { return Type{Kind: KindObject} }

// MakeCallable describes callable.
func MakeCallable() Type { return Type{Kind: KindCallable} }

// MakeResource describes resource.
func MakeResource() Type { return Type{Kind: KindResource} }

// MakeNever describes never.
func MakeNever() Type { return Type{Kind: KindNever} }

// MakeVoid describes void.
func MakeVoid() Type { return Type{Kind: KindVoid} }

// MakeUnion describes the union of overlapping declared forms. Members are
// compared as a set.
func MakeUnion(members ...Type) Type {
	return Type{Kind: KindUnion, Members: members}
}

// MakeOr describes an explicit "A|B" disjunction. Members are compared as
// a set.
func MakeOr(members ...Type) Type {
	return Type{Kind: KindOr, Members: members}
}

// MakeNullable describes "?T".
func MakeNullable(elem Type) Type {
	return Type{Kind: KindNullable, Elem: &elem}
}

// Equal reports structural equality. Union and Or members compare as sets:
// order and duplication do not matter.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindString, KindInt, KindFloat, KindBool, KindNull:
		if (t.Lit == nil) != (other.Lit == nil) {
			return false
		}
		if t.Lit == nil {
			return true
		}
		return t.Lit.equal(*other.Lit)
	case KindClass, KindTrait, KindInterface, KindEnum:
		return t.Name == other.Name
	case KindFunction:
		if t.Name != other.Name || len(t.Params) != len(other.Params) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(other.Params[i]) {
				return false
			}
		}
		return equalPtr(t.Ret, other.Ret)
	case KindArray:
		return equalPtr(t.Key, other.Key) && equalPtr(t.Value, other.Value)
	case KindUnion, KindOr:
		return setEqual(t.Members, other.Members)
	case KindNullable:
		return equalPtr(t.Elem, other.Elem)
	default:
		return true
	}
}

func equalPtr(a, b *Type) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return a.Equal(*b)
}

func setEqual(a, b []Type) bool {
	for _, m := range a {
		if !contains(b, m) {
			return false
		}
	}
	for _, m := range b {
		if !contains(a, m) {
			return false
		}
	}
	return true
}

func contains(list []Type, t Type) bool {
	for _, m := range list {
		if m.Equal(t) {
			return true
		}
	}
	return false
}

// String renders the type in rough PHPDoc notation.
func (t Type) String() string {
	switch t.Kind {
	case KindString, KindInt, KindFloat, KindBool:
		if t.Lit == nil {
			return t.Kind.String()
		}
		switch t.Lit.Kind {
		case KindString:
			return strconv.Quote(t.Lit.Str)
		case KindInt:
			return strconv.FormatInt(t.Lit.Int, 10)
		case KindFloat:
			return strconv.FormatFloat(t.Lit.Float, 'g', -1, 64)
		default:
			return strconv.FormatBool(t.Lit.Bool)
		}
	case KindClass, KindTrait, KindInterface, KindEnum:
		if t.Name == "" {
			return t.Kind.String()
		}
		return t.Name
	case KindFunction:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.String()
		}
		ret := "void"
		if t.Ret != nil {
			ret = t.Ret.String()
		}
		return fmt.Sprintf("%s(%s): %s", t.Name, strings.Join(params, ", "), ret)
	case KindArray:
		if t.Key == nil || t.Value == nil {
			return "array"
		}
		return fmt.Sprintf("array<%s, %s>", t.Key, t.Value)
	case KindUnion:
		return "union(" + joinMembers(t.Members, ", ") + ")"
	case KindOr:
		return joinMembers(t.Members, "|")
	case KindNullable:
		return "?" + t.Elem.String()
	default:
		return t.Kind.String()
	}
}

func joinMembers(members []Type, sep string) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.String()
	}
	return strings.Join(parts, sep)
}
