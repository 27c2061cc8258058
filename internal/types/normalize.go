package types

// Normalize flattens a (perhaps) overly complicated type into canonical
// form:
//
//   - ?T becomes null|T
//   - nested or inside or (and union inside union) flattens into one level
//   - single-member or/union collapses to the member
//   - duplicate members are dropped
//
// Normalization is idempotent: normalizing a normalized value yields an
// equal value. Same-kind nesting is flattened with an explicit work stack,
// so arbitrarily deep or(or(or(...))) chains do not grow the call stack;
// recursion only happens across kind boundaries (a union member inside an
// or, a function parameter, an array refinement).
func (t Type) Normalize() Type {
	switch t.Kind {
	case KindUnion, KindOr:
		return flatten(t.Kind, t.Members)
	case KindNullable:
		return flatten(KindOr, []Type{MakeNull(), *t.Elem})
	case KindFunction:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.Normalize()
		}
		out := Type{Kind: KindFunction, Name: t.Name, Params: params}
		if t.Ret != nil {
			ret := t.Ret.Normalize()
			out.Ret = &ret
		}
		return out
	case KindArray:
		if t.Key == nil || t.Value == nil {
			return t
		}
		key := t.Key.Normalize()
		value := t.Value.Normalize()
		return Type{Kind: KindArray, Key: &key, Value: &value}
	default:
		return t
	}
}

// flatten collapses same-kind nesting among members into a single level.
// The work stack is seeded in reverse so members pop in declaration order;
// the order is not observable through Equal but keeps String output stable.
func flatten(kind Kind, members []Type) Type {
	out := make([]Type, 0, len(members))
	stack := make([]Type, 0, len(members))
	for i := len(members) - 1; i >= 0; i-- {
		stack = append(stack, members[i])
	}
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch {
		case m.Kind == kind:
			for i := len(m.Members) - 1; i >= 0; i-- {
				stack = append(stack, m.Members[i])
			}
		case m.Kind == KindNullable && kind == KindOr:
			stack = append(stack, *m.Elem, MakeNull())
		default:
			m = m.Normalize()
			if m.Kind == kind {
				for i := len(m.Members) - 1; i >= 0; i-- {
					stack = append(stack, m.Members[i])
				}
				continue
			}
			if !contains(out, m) {
				out = append(out, m)
			}
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return Type{Kind: kind, Members: out}
}
