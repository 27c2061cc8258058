package types

import "testing"

func TestNullableDesugarsToOrWithNull(t *testing.T) {
	a := MakeNullable(MakeInt())
	b := MakeOr(MakeNull(), MakeInt())
	if a.Equal(b) {
		t.Fatalf("nullable must not equal or before normalization")
	}
	if !a.Normalize().Equal(b) {
		t.Fatalf("normalize(?int) = %s, want %s", a.Normalize(), b)
	}
	if !a.Normalize().Equal(b.Normalize()) {
		t.Fatalf("normalize(?int) = %s, want %s", a.Normalize(), b.Normalize())
	}
}

func TestNestedNormalization(t *testing.T) {
	a := MakeNullable(MakeOr(
		MakeOr(MakeInt(), MakeFloat(), MakeNull()),
		MakeBool(),
	))
	want := MakeOr(MakeInt(), MakeFloat(), MakeNull(), MakeBool())
	if got := a.Normalize(); !got.Equal(want) {
		t.Fatalf("normalize = %s, want %s", got, want)
	}

	b := MakeUnion(
		MakeUnion(MakeInt(), MakeFloat(), MakeNull(), MakeNull()),
		MakeBool(),
	)
	wantB := MakeUnion(MakeInt(), MakeFloat(), MakeNull(), MakeBool())
	if got := b.Normalize(); !got.Equal(wantB) {
		t.Fatalf("normalize = %s, want %s", got, wantB)
	}
}

func TestSingletonCollapse(t *testing.T) {
	cases := []struct {
		name string
		in   Type
	}{
		{"or chain", MakeOr(MakeOr(MakeOr(MakeInt())))},
		{"mixed chain", MakeUnion(MakeUnion(MakeOr(MakeUnion(MakeInt()))))},
		{"duplicate members", MakeOr(MakeInt(), MakeInt())},
	}
	want := MakeInt()
	for _, tc := range cases {
		if got := tc.in.Normalize(); !got.Equal(want) {
			t.Fatalf("%s: normalize = %s, want %s", tc.name, got, want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	cases := []Type{
		MakeInt(),
		MakeStringLiteral("x"),
		MakeNullable(MakeInt()),
		MakeNullable(MakeNullable(MakeString())),
		MakeOr(MakeInt(), MakeOr(MakeFloat(), MakeOr(MakeBool()))),
		MakeUnion(MakeUnion(MakeInt(), MakeInt()), MakeNull()),
		MakeOr(MakeUnion(MakeInt(), MakeString()), MakeNull()),
		MakeFunction("f", []Type{MakeNullable(MakeInt())}, MakeVoid()),
		MakeArrayOf(MakeNullable(MakeString())),
		MakeClass(`App\Entity\User`),
	}
	for _, tc := range cases {
		once := tc.Normalize()
		twice := once.Normalize()
		if !twice.Equal(once) {
			t.Fatalf("normalize not idempotent for %s: %s != %s", tc, twice, once)
		}
	}
}

func TestNormalizeDescendsIntoFunctionAndArray(t *testing.T) {
	fn := MakeFunction("f", []Type{MakeNullable(MakeInt())}, MakeOr(MakeString()))
	got := fn.Normalize()
	if !got.Params[0].Equal(MakeOr(MakeNull(), MakeInt())) {
		t.Fatalf("parameter not normalized: %s", got.Params[0])
	}
	if !got.Ret.Equal(MakeString()) {
		t.Fatalf("return not normalized: %s", got.Ret)
	}

	arr := MakeArrayOf(MakeNullable(MakeString()))
	if got := arr.Normalize(); !got.Value.Equal(MakeOr(MakeNull(), MakeString())) {
		t.Fatalf("array value not normalized: %s", got.Value)
	}
}

func TestDeepSameKindNestingFlattens(t *testing.T) {
	// A pathological chain that would exhaust the stack under naive
	// recursion.
	inner := MakeInt()
	for range 100000 {
		inner = MakeOr(inner)
	}
	if got := inner.Normalize(); !got.Equal(MakeInt()) {
		t.Fatalf("deep chain normalize = %s, want int", got)
	}
}
