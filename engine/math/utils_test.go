package math

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5, 0, 3) = %d", got)
	}
	if got := Clamp(-1.5, 0.0, 1.0); got != 0 {
		t.Errorf("Clamp(-1.5, 0, 1) = %f", got)
	}
	if got := Clamp(2, 0, 3); got != 2 {
		t.Errorf("Clamp(2, 0, 3) = %d", got)
	}
}

func TestMinOf(t *testing.T) {
	if _, ok := MinOf[int](); ok {
		t.Error("MinOf() should report no value")
	}
	if got, ok := MinOf(10, 7, 12); !ok || got != 7 {
		t.Errorf("MinOf(10, 7, 12) = %d, %t", got, ok)
	}
	if got, _ := MinOf("b", "a"); got != "a" {
		t.Errorf("MinOf(b, a) = %s", got)
	}
}

func TestAlignUp(t *testing.T) {
	tests := []struct {
		v, alignment, want uint32
	}{
		{0, 4, 0},
		{1, 4, 4},
		{12, 4, 12},
		{13, 16, 16},
		{7, 0, 7},
	}
	for _, tt := range tests {
		if got := AlignUp(tt.v, tt.alignment); got != tt.want {
			t.Errorf("AlignUp(%d, %d) = %d, want %d", tt.v, tt.alignment, got, tt.want)
		}
	}
}
