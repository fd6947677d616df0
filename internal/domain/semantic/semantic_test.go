package semantic

import "testing"

func TestNewIndex(t *testing.T) {
	idx := NewIndex([]Result{
		{ClientID: "a", Score: 0.9},
		{ClientID: "", Score: 0.8},
		{ClientID: "b", Score: 0.7},
		{ClientID: "a", Score: 0.1},
	})

	if len(idx) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(idx))
	}
	a, ok := idx.Lookup("a")
	if !ok || a.Score != 0.9 || a.Index != 0 {
		t.Errorf("a: got %+v, want first occurrence (0.9, index 0)", a)
	}
	b, ok := idx.Lookup("b")
	if !ok || b.Index != 2 {
		t.Errorf("b: got %+v, want index 2", b)
	}
	if _, ok := idx.Lookup("c"); ok {
		t.Error("unexpected match for c")
	}
}

func TestActive(t *testing.T) {
	idx := NewIndex([]Result{{ClientID: "a", Score: 1}})
	empty := NewIndex(nil)

	tests := []struct {
		name  string
		idx   Index
		query string
		want  bool
	}{
		{"long query with results", idx, "retirement", true},
		{"exactly three", idx, "abc", true},
		{"padded short query", idx, "  ab  ", false},
		{"multibyte counted as runes", idx, "éèà", true},
		{"no results", empty, "retirement", false},
		{"blank", idx, "   ", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.idx.Active(tc.query, MinQueryLength); got != tc.want {
				t.Errorf("Active(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}
