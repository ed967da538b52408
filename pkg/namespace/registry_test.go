package namespace

import (
	"reflect"
	"testing"
)

// TestRegistry_ScalarVectorConflict tests that a name keeps its first
// declared shape.
func TestRegistry_ScalarVectorConflict(t *testing.T) {
	r := NewRegistry()

	if err := r.RegisterScalar("ready"); err != nil {
		t.Fatalf("RegisterScalar: %v", err)
	}
	if err := r.RegisterScalar("ready"); err != nil {
		t.Errorf("redeclaring a scalar: %v", err)
	}
	if err := r.RegisterBit("ready", 0); err == nil {
		t.Error("RegisterBit on a scalar succeeded, want error")
	} else if err.Error() != "'ready' is already declared as a scalar" {
		t.Errorf("error = %q", err.Error())
	}

	if err := r.RegisterBit("data", 3); err != nil {
		t.Fatalf("RegisterBit: %v", err)
	}
	if err := r.RegisterScalar("data"); err == nil {
		t.Error("RegisterScalar on a vector succeeded, want error")
	} else if err.Error() != "'data' is already declared as a vector" {
		t.Errorf("error = %q", err.Error())
	}
}

// TestRegistry_Bits tests MSB-first ordering and deduplication.
func TestRegistry_Bits(t *testing.T) {
	r := NewRegistry()
	for _, b := range []int{0, 3, 1, 3, 2} {
		if err := r.RegisterBit("d", b); err != nil {
			t.Fatalf("RegisterBit(d, %d): %v", b, err)
		}
	}

	want := []int{3, 2, 1, 0}
	if got := r.Bits("d"); !reflect.DeepEqual(got, want) {
		t.Errorf("Bits(d) = %v, want %v", got, want)
	}

	if got := r.Bits("unknown"); got != nil {
		t.Errorf("Bits(unknown) = %v, want nil", got)
	}
	r.RegisterScalar("s")
	if got := r.Bits("s"); got != nil {
		t.Errorf("Bits(scalar) = %v, want nil", got)
	}
}

// TestRegistry_Components tests component naming.
func TestRegistry_Components(t *testing.T) {
	r := NewRegistry()
	r.RegisterBit("d", 0)
	r.RegisterBit("d", 2)
	r.RegisterScalar("en")

	if got, want := r.Components("d"), []string{"d2", "d0"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Components(d) = %v, want %v", got, want)
	}
	if got, want := r.Components("en"), []string{"en"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Components(en) = %v, want %v", got, want)
	}
	if got := r.Components("missing"); got != nil {
		t.Errorf("Components(missing) = %v, want nil", got)
	}
}

// TestRegistry_Names tests enumeration.
func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.RegisterScalar("b")
	r.RegisterBit("a", 1)
	r.RegisterScalar("c")

	if got, want := r.Names(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if !r.Has("a") || r.Has("z") {
		t.Error("Has() misreports declarations")
	}
	if !r.IsScalar("b") || r.IsScalar("a") {
		t.Error("IsScalar() misreports shapes")
	}
}
