package types

// IsSubtypeOf reports whether every possible value of t is also a value of
// parent. Both operands must be normalized; the result is unspecified
// otherwise (an equal pair still short-circuits to true).
//
// The rule set is deliberately small: exact equality, membership of a
// non-or type in an or parent, and subset inclusion between two or types.
// Literal-to-category widening and array covariance are not decided here;
// PHP's own semantics for those need confirming before they get a rule.
func (t Type) IsSubtypeOf(parent Type) bool {
	if t.Equal(parent) {
		return true
	}
	if parent.Kind != KindOr {
		return false
	}
	if t.Kind == KindOr {
		for _, m := range t.Members {
			if !contains(parent.Members, m) {
				return false
			}
		}
		return true
	}
	return contains(parent.Members, t)
}
