package ingest

import (
	"reflect"
	"testing"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		size int
		want [][]string
	}{
		{"empty", nil, 3, nil},
		{"under one chunk", []string{"a", "b"}, 3, [][]string{{"a", "b"}}},
		{"exact", []string{"a", "b", "c"}, 3, [][]string{{"a", "b", "c"}}},
		{"remainder", []string{"a", "b", "c", "d"}, 3, [][]string{{"a", "b", "c"}, {"d"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chunk(tt.ids, tt.size); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("chunk(%v, %d) = %v, want %v", tt.ids, tt.size, got, tt.want)
			}
		})
	}
}

func TestUnique(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{"empty", nil, nil},
		{"drops duplicates in order", []string{"b", "a", "b", "c", "a"}, []string{"b", "a", "c"}},
		{"drops empties", []string{"", "a", ""}, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unique(tt.ids); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("unique(%v) = %v, want %v", tt.ids, got, tt.want)
			}
		})
	}
}
