package progress

import "github.com/KasumiMercury/compliance-watch/internal/domain"

// Compute returns the share of done checklist items as a whole percentage,
// rounded down so that 100 is only reached when every item is done.
// A document without items has progress 0.
func Compute(items []domain.ChecklistItem) int {
	done := 0
	for _, item := range items {
		if item.Done {
			done++
		}
	}

	return Percent(done, len(items))
}

// Percent computes floor(100*done/total).
func Percent(done, total int) int {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}
	return 100 * done / total
}

// ByDocument groups items by their document and computes each progress value.
func ByDocument(items []domain.ChecklistItem) map[string]int {
	done := make(map[string]int)
	total := make(map[string]int)
	for _, item := range items {
		total[item.DocumentRef]++
		if item.Done {
			done[item.DocumentRef]++
		}
	}

	result := make(map[string]int, len(total))
	for ref, n := range total {
		result[ref] = Percent(done[ref], n)
	}
	return result
}
