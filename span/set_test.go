package span

import "testing"

func TestNewSetSortsSpans(t *testing.T) {
	set := NewSet(1, New(20, 25), New(0, 5), New(10, 15))

	want := []Span{New(0, 5), New(10, 15), New(20, 25)}
	if set.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", set.Len(), len(want))
	}
	for i, sp := range want {
		if set.At(i) != sp {
			t.Errorf("At(%d) = %v, want %v", i, set.At(i), sp)
		}
	}
}

func TestNewSetMergesOverlapping(t *testing.T) {
	set := NewSet(1, New(0, 5), New(3, 10), New(8, 12))

	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", set.Len())
	}
	if set.At(0) != New(0, 12) {
		t.Errorf("At(0) = %v, want [0:12)", set.At(0))
	}
}

func TestNewSetMergesTouching(t *testing.T) {
	set := NewSet(1, New(0, 5), New(5, 10))

	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", set.Len())
	}
	if set.At(0) != New(0, 10) {
		t.Errorf("At(0) = %v, want [0:10)", set.At(0))
	}
}

func TestNewSetDropsInvalidAndEmpty(t *testing.T) {
	set := NewSet(1, New(5, 5), New(10, 3), New(-2, 4), New(0, 2))

	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", set.Len())
	}
	if set.At(0) != New(0, 2) {
		t.Errorf("At(0) = %v, want [0:2)", set.At(0))
	}
}

func TestSetVersion(t *testing.T) {
	set := NewSet(42, New(0, 5))
	if set.Version() != 42 {
		t.Errorf("Version() = %d, want 42", set.Version())
	}

	empty := NewSet(7)
	if empty.Version() != 7 {
		t.Errorf("empty set Version() = %d, want 7", empty.Version())
	}
	if !empty.IsEmpty() {
		t.Error("set with no spans should be empty")
	}
}

func TestSetContains(t *testing.T) {
	set := NewSet(1, New(0, 5), New(10, 20))

	tests := []struct {
		name string
		sp   Span
		want bool
	}{
		{"inside first", New(1, 4), true},
		{"exactly first", New(0, 5), true},
		{"inside second", New(12, 18), true},
		{"in gap", New(6, 8), false},
		{"straddles gap", New(3, 12), false},
		{"past end", New(18, 25), false},
		{"invalid", New(8, 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := set.Contains(tt.sp); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.sp, got, tt.want)
			}
		})
	}
}

func TestSetContainsOffset(t *testing.T) {
	set := NewSet(1, New(0, 5), New(10, 20))

	if !set.ContainsOffset(0) {
		t.Error("should contain offset 0")
	}
	if set.ContainsOffset(5) {
		t.Error("should not contain exclusive end offset 5")
	}
	if set.ContainsOffset(7) {
		t.Error("should not contain gap offset 7")
	}
	if !set.ContainsOffset(19) {
		t.Error("should contain offset 19")
	}
}

func TestSetBounds(t *testing.T) {
	set := NewSet(1, New(10, 20), New(0, 5))
	if got := set.Bounds(); got != New(0, 20) {
		t.Errorf("Bounds() = %v, want [0:20)", got)
	}

	if got := NewSet(1).Bounds(); !got.IsEmpty() {
		t.Errorf("empty set Bounds() = %v, want empty", got)
	}
}

func TestSetSpansIsCopy(t *testing.T) {
	set := NewSet(1, New(0, 5), New(10, 15))

	spans := set.Spans()
	spans[0] = New(99, 100)

	if set.At(0) != New(0, 5) {
		t.Error("mutating Spans() result should not affect the set")
	}
}

func TestSetString(t *testing.T) {
	set := NewSet(3, New(0, 5), New(10, 15))
	want := "v3{[0:5) [10:15)}"
	if got := set.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
