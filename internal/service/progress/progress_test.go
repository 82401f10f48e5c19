package progress

import (
	"testing"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

func items(done, total int) []domain.ChecklistItem {
	result := make([]domain.ChecklistItem, total)
	for i := range result {
		result[i] = domain.ChecklistItem{DocumentRef: "doc", Done: i < done}
	}
	return result
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name  string
		done  int
		total int
		want  int
	}{
		{name: "no items", done: 0, total: 0, want: 0},
		{name: "none done", done: 0, total: 4, want: 0},
		{name: "one of three", done: 1, total: 3, want: 33},
		{name: "two of three rounds down", done: 2, total: 3, want: 66},
		{name: "one of eight", done: 1, total: 8, want: 12},
		{name: "half", done: 1, total: 2, want: 50},
		{name: "all done", done: 5, total: 5, want: 100},
		{name: "199 of 200 stays below 100", done: 199, total: 200, want: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(items(tt.done, tt.total)); got != tt.want {
				t.Errorf("Compute(%d/%d) = %d, want %d", tt.done, tt.total, got, tt.want)
			}
		})
	}
}

func TestComputeIsFloorForAllSmallInputs(t *testing.T) {
	for total := 1; total <= 50; total++ {
		for done := 0; done <= total; done++ {
			want := 100 * done / total
			got := Compute(items(done, total))
			if got != want {
				t.Fatalf("Compute(%d/%d) = %d, want %d", done, total, got, want)
			}
			if (got == 100) != (done == total) {
				t.Fatalf("Compute(%d/%d) = %d, 100 must mean all done", done, total, got)
			}
		}
	}
}

func TestByDocument(t *testing.T) {
	got := ByDocument([]domain.ChecklistItem{
		{DocumentRef: "a", Done: true},
		{DocumentRef: "a", Done: false},
		{DocumentRef: "b", Done: true},
		{DocumentRef: "c", Done: false},
	})

	want := map[string]int{"a": 50, "b": 100, "c": 0}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for ref, w := range want {
		if got[ref] != w {
			t.Errorf("progress[%s] = %d, want %d", ref, got[ref], w)
		}
	}
}
