package workouts

const DefaultHistoryPageSize = 10

type HistoryEntry struct {
	Workout
	Minutes *int `json:"duration_minutes"`
}

type HistoryPage struct {
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
	Total      int            `json:"total"`
	Workouts   []HistoryEntry `json:"workouts"`
}

// Paginate returns the 1-based page of workouts. Pages out of range give an
// empty page, with the totals still set.
func Paginate(workouts []Workout, page, size int) HistoryPage {
	if size < 1 {
		size = DefaultHistoryPageSize
	}

	historyPage := HistoryPage{
		Page:       page,
		PageSize:   size,
		TotalPages: (len(workouts) + size - 1) / size,
		Total:      len(workouts),
		Workouts:   []HistoryEntry{},
	}
	if page < 1 || page > historyPage.TotalPages {
		return historyPage
	}

	start := (page - 1) * size
	end := min(start+size, len(workouts))
	for _, w := range workouts[start:end] {
		historyPage.Workouts = append(historyPage.Workouts, HistoryEntry{
			Workout: w,
			Minutes: w.DurationMinutes(),
		})
	}

	return historyPage
}
