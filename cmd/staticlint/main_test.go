package main

import (
	"testing"

	"golang.org/x/tools/go/analysis"
)

func TestDedupe(t *testing.T) {
	a := &analysis.Analyzer{Name: "alpha"}
	b := &analysis.Analyzer{Name: "beta"}
	aTwin := &analysis.Analyzer{Name: "alpha"}

	tests := []struct {
		name  string
		input []*analysis.Analyzer
		want  []string
	}{
		{
			name:  "already unique",
			input: []*analysis.Analyzer{a, b},
			want:  []string{"alpha", "beta"},
		},
		{
			name:  "first registration wins",
			input: []*analysis.Analyzer{a, b, aTwin},
			want:  []string{"alpha", "beta"},
		},
		{
			name:  "nil entries dropped",
			input: []*analysis.Analyzer{nil, a, nil},
			want:  []string{"alpha"},
		},
		{
			name:  "empty input",
			input: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dedupe(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("dedupe() kept %d analyzers, want %d", len(got), len(tt.want))
			}
			for i, a := range got {
				if a.Name != tt.want[i] {
					t.Errorf("dedupe()[%d] = %s, want %s", i, a.Name, tt.want[i])
				}
			}
		})
	}
}

func TestDedupe_KeepsFirstInstance(t *testing.T) {
	first := &analysis.Analyzer{Name: "alpha", Doc: "first"}
	second := &analysis.Analyzer{Name: "alpha", Doc: "second"}

	got := dedupe([]*analysis.Analyzer{first, second})
	if len(got) != 1 || got[0] != first {
		t.Fatalf("dedupe() = %v, want only the first alpha", got)
	}
}
