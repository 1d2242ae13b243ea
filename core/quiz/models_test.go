package quiz

import "testing"

func TestBlueprintRequestContentHash(t *testing.T) {
	base := BlueprintRequest{CategoryCounts: map[string]int{"algebra": 5, "geometry": 3}}

	tests := []struct {
		name      string
		req       BlueprintRequest
		wantEqual bool
	}{
		{name: "same counts", req: BlueprintRequest{CategoryCounts: map[string]int{"algebra": 5, "geometry": 3}}, wantEqual: true},
		{name: "same counts, other insertion order", req: BlueprintRequest{CategoryCounts: map[string]int{"geometry": 3, "algebra": 5}}, wantEqual: true},
		{name: "different count", req: BlueprintRequest{CategoryCounts: map[string]int{"algebra": 5, "geometry": 4}}},
		{name: "extra category", req: BlueprintRequest{CategoryCounts: map[string]int{"algebra": 5, "geometry": 3, "calculus": 1}}},
		{name: "different category", req: BlueprintRequest{CategoryCounts: map[string]int{"algebra": 5, "trig": 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.ContentHash() == base.ContentHash(); got != tt.wantEqual {
				t.Errorf("ContentHash() equal = %v, want %v", got, tt.wantEqual)
			}
		})
	}

	// the hash must be stable across calls
	if base.ContentHash() != base.ContentHash() {
		t.Error("ContentHash() must be deterministic")
	}
}
