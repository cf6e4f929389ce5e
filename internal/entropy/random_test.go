package entropy

import (
	"sort"
	"testing"
)

func TestSeededDeterminism(t *testing.T) {
	a := Seeded(42)
	b := Seeded(42)

	for i := 0; i < 100; i++ {
		va, vb := a.Float(), b.Float()
		if va != vb {
			t.Fatalf("draw %d: sources diverged: %v != %v", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("draw %d: value %v outside [0, 1)", i, va)
		}
	}
}

func TestCryptoRange(t *testing.T) {
	src := Crypto()
	for i := 0; i < 100; i++ {
		v := src.Float()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d: value %v outside [0, 1)", i, v)
		}
	}
}

func TestIntn(t *testing.T) {
	src := Seeded(7)

	tests := []struct {
		name string
		n    int
	}{
		{"zero", 0},
		{"negative", -3},
		{"one", 1},
		{"large", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				v := Intn(src, tt.n)
				if tt.n <= 0 {
					if v != 0 {
						t.Fatalf("Intn(%d) = %d, want 0", tt.n, v)
					}
					continue
				}
				if v < 0 || v >= tt.n {
					t.Fatalf("Intn(%d) = %d, out of range", tt.n, v)
				}
			}
		})
	}
}

func TestShuffleStringsPreservesElements(t *testing.T) {
	src := Seeded(99)
	ids := []string{"alpha", "beta", "gamma", "delta", "epsilon"}

	shuffled := make([]string, len(ids))
	copy(shuffled, ids)
	ShuffleStrings(src, shuffled)

	a := append([]string(nil), ids...)
	b := append([]string(nil), shuffled...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("shuffle changed elements: %v vs %v", ids, shuffled)
		}
	}
}

func TestNilClientFallsBack(t *testing.T) {
	var c *Client
	v := c.Float()
	if v < 0 || v >= 1 {
		t.Fatalf("nil client value %v outside [0, 1)", v)
	}

	if NewClient("") != nil {
		t.Fatal("NewClient with empty key should return nil")
	}
}
