package value

import (
	"testing"
	"time"
)

func TestFromTextPromotesFiniteNumbers(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
	}{
		{"1", KindNumber},
		{"1.5", KindNumber},
		{"-3.14", KindNumber},
		{"  42  ", KindNumber},
		{"hi", KindText},
		{"", KindText},
		{"1a", KindText},
		{"Inf", KindText},
		{"NaN", KindText},
	}
	for _, c := range cases {
		got := FromText(c.in)
		if got.Kind() != c.kind {
			t.Errorf("FromText(%q).Kind() = %v, want %v", c.in, got.Kind(), c.kind)
		}
	}
}

func TestEqualCrossVariantIsFalse(t *testing.T) {
	if Text("1").Equal(Number(1)) {
		t.Fatal("text and number with same textual content must not be equal")
	}
	if Number(1).Equal(DateTime(time.Now())) {
		t.Fatal("number and datetime must not be equal")
	}
}

func TestEqualMultiElementwise(t *testing.T) {
	a := MultiOf(Number(1), Text("x"))
	b := MultiOf(Number(1), Text("x"))
	c := MultiOf(Number(1), Text("y"))
	if !a.Equal(b) {
		t.Fatal("identical multi values should be equal")
	}
	if a.Equal(c) {
		t.Fatal("multi values differing in one element should not be equal")
	}
	if a.Equal(Number(1)) {
		t.Fatal("multi must not equal a scalar")
	}
}

func TestCompareUndefinedAcrossVariantsAndMulti(t *testing.T) {
	if _, ok := Text("a").Compare(Number(1)); ok {
		t.Fatal("cross-variant compare must report ok=false")
	}
	if _, ok := MultiOf(Number(1)).Compare(Number(1)); ok {
		t.Fatal("compare against Multi must report ok=false")
	}
}

func TestCompareWithinVariant(t *testing.T) {
	if !Number(1).Less(Number(2)) {
		t.Fatal("1 < 2")
	}
	if !Text("a").Less(Text("b")) {
		t.Fatal("\"a\" < \"b\" lexicographically")
	}
	now := time.Now()
	later := now.Add(time.Hour)
	if !DateTime(now).Less(DateTime(later)) {
		t.Fatal("earlier datetime should be less")
	}
}

func TestAtOnScalarReturnsSelf(t *testing.T) {
	v := Number(5)
	if !v.At(0).Equal(v) {
		t.Fatal("At(0) on a scalar should return the scalar itself")
	}
}

func TestMultiLen(t *testing.T) {
	if Number(1).Len() != 1 {
		t.Fatal("scalar length must be 1")
	}
	if MultiOf(Number(1), Number(2), Number(3)).Len() != 3 {
		t.Fatal("multi length must count elements")
	}
}
