package types

import "testing"

func TestParseName(t *testing.T) {
	name, err := ParseName("/alice/photos/2024")
	if err != nil {
		t.Fatalf("ParseName() error = %v", err)
	}
	if name.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", name.Size())
	}
	if got := name.Get(0).String(); got != "alice" {
		t.Errorf("Get(0) = %q, want %q", got, "alice")
	}
	if got := name.String(); got != "/alice/photos/2024" {
		t.Errorf("String() = %q, want %q", got, "/alice/photos/2024")
	}
}

func TestParseName_Empty(t *testing.T) {
	for _, uri := range []string{"", "/"} {
		name, err := ParseName(uri)
		if err != nil {
			t.Fatalf("ParseName(%q) error = %v", uri, err)
		}
		if !name.IsEmpty() {
			t.Errorf("ParseName(%q).IsEmpty() = false", uri)
		}
	}
}

func TestParseName_Escaped(t *testing.T) {
	name, err := ParseName("/a%2Fb/c")
	if err != nil {
		t.Fatalf("ParseName() error = %v", err)
	}
	if got := string(name.Get(0).ValueRef()); got != "a/b" {
		t.Errorf("Get(0) value = %q, want %q", got, "a/b")
	}
	// 往返转义
	round, err := ParseName(name.String())
	if err != nil {
		t.Fatalf("ParseName(String()) error = %v", err)
	}
	if !name.Equal(round) {
		t.Errorf("round trip mismatch: %q vs %q", name, round)
	}
}

func TestParseName_Invalid(t *testing.T) {
	if _, err := ParseName("no-leading-slash"); err == nil {
		t.Error("ParseName without leading slash should return error")
	}
	if _, err := ParseName("/bad%2"); err == nil {
		t.Error("ParseName with truncated escape should return error")
	}
}

func TestName_GetNegative(t *testing.T) {
	name := MustParseName("/a/b/c")
	if got := name.Get(-1).String(); got != "c" {
		t.Errorf("Get(-1) = %q, want %q", got, "c")
	}
	if got := name.Get(-3).String(); got != "a" {
		t.Errorf("Get(-3) = %q, want %q", got, "a")
	}
}

func TestName_GetPrefix(t *testing.T) {
	name := MustParseName("/a/b/c/d")

	if got := name.GetPrefix(2).String(); got != "/a/b" {
		t.Errorf("GetPrefix(2) = %q, want %q", got, "/a/b")
	}
	if got := name.GetPrefix(-1).String(); got != "/a/b/c" {
		t.Errorf("GetPrefix(-1) = %q, want %q", got, "/a/b/c")
	}
	if got := name.GetPrefix(10).Size(); got != 4 {
		t.Errorf("GetPrefix(10).Size() = %d, want 4", got)
	}
}

func TestName_SubName(t *testing.T) {
	name := MustParseName("/a/b/c/d")

	if got := name.SubName(1, 2).String(); got != "/b/c" {
		t.Errorf("SubName(1, 2) = %q, want %q", got, "/b/c")
	}
	if got := name.SubName(2, -1).String(); got != "/c/d" {
		t.Errorf("SubName(2, -1) = %q, want %q", got, "/c/d")
	}
	if got := name.SubName(-2, -1).String(); got != "/c/d" {
		t.Errorf("SubName(-2, -1) = %q, want %q", got, "/c/d")
	}
}

func TestName_Append(t *testing.T) {
	name := NewName()
	name.AppendString("alice").AppendString("KEY").AppendNumber(7)

	if name.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", name.Size())
	}
	num, err := name.Get(-1).ToNumber()
	if err != nil {
		t.Fatalf("ToNumber() error = %v", err)
	}
	if num != 7 {
		t.Errorf("ToNumber() = %d, want 7", num)
	}
}

func TestName_AppendDoesNotAliasPrefix(t *testing.T) {
	base := MustParseName("/a/b")
	p1 := base.GetPrefix(-1).AppendString("x")
	p2 := base.GetPrefix(-1).AppendString("y")

	if p1.Equal(p2) {
		t.Error("prefixes should not alias each other")
	}
	if got := base.String(); got != "/a/b" {
		t.Errorf("base mutated to %q", got)
	}
}

func TestName_Compare(t *testing.T) {
	a := MustParseName("/a/b")
	b := MustParseName("/a/c")
	if a.Compare(b) >= 0 {
		t.Error("Compare(/a/b, /a/c) should be < 0")
	}
	if a.Compare(a.Clone()) != 0 {
		t.Error("Compare with clone should be 0")
	}
	// 短名称排在长名称之前
	if a.GetPrefix(1).Compare(a) >= 0 {
		t.Error("prefix should compare before extension")
	}
}

func TestName_IsPrefixOf(t *testing.T) {
	prefix := MustParseName("/a/b")
	full := MustParseName("/a/b/c")
	if !prefix.IsPrefixOf(full) {
		t.Error("IsPrefixOf() = false, want true")
	}
	if full.IsPrefixOf(prefix) {
		t.Error("longer name should not be prefix of shorter")
	}
}

func TestName_ChangeCount(t *testing.T) {
	name := NewName()
	before := name.ChangeCount()
	name.AppendString("a")
	if name.ChangeCount() == before {
		t.Error("ChangeCount should advance after Append")
	}
	mid := name.ChangeCount()
	if name.ChangeCount() != mid {
		t.Error("ChangeCount should be stable without mutation")
	}
	name.Clear()
	if name.ChangeCount() == mid {
		t.Error("ChangeCount should advance after Clear")
	}
}

func TestComponentFromNumber_RoundTrip(t *testing.T) {
	for _, n := range []uint64{0, 1, 255, 256, 65535, 65536, 1<<32 - 1, 1 << 32, 1<<53 + 1} {
		c := ComponentFromNumber(n)
		got, err := c.ToNumber()
		if err != nil {
			t.Fatalf("ToNumber(%d) error = %v", n, err)
		}
		if got != n {
			t.Errorf("round trip %d = %d", n, got)
		}
	}
}

func TestComponent_Compare(t *testing.T) {
	short := ComponentFromString("zz")
	long := ComponentFromString("aaa")
	// 长度优先于字节序
	if short.Compare(long) >= 0 {
		t.Error("shorter component should compare before longer")
	}
}
