package workouts

import (
	"sort"
	"time"
)

type TopExercise struct {
	Name string `json:"name"`
	// Sessions is the number of days with a weighted set of the exercise
	Sessions   int     `json:"sessions"`
	BestWeight float64 `json:"bestWeight"`
}

// TopExercises returns up to n exercises with the most progression days,
// along with their best weight. Exercises never done with weight are left out.
func (s Summary) TopExercises(n int) []TopExercise {
	top := make([]TopExercise, 0, len(s.Exercises))
	for _, title := range s.Exercises {
		series := s.Progress[title]
		if len(series) == 0 {
			continue
		}

		best := series[0].Weight
		for _, p := range series[1:] {
			if p.Weight > best {
				best = p.Weight
			}
		}
		top = append(top, TopExercise{
			Name:       title,
			Sessions:   len(series),
			BestWeight: best,
		})
	}

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Sessions > top[j].Sessions
	})

	if n >= 0 && len(top) > n {
		top = top[:n]
	}
	return top
}

type WeekdayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// WeekdayDistribution counts the workouts per weekday of their start (in
// loc), always returning all 7 days from Sunday to Saturday.
func WeekdayDistribution(workouts []Workout, loc *time.Location) []WeekdayCount {
	if loc == nil {
		loc = time.UTC
	}

	var counts [7]int
	for _, w := range workouts {
		counts[w.StartTime.In(loc).Weekday()]++
	}

	distribution := make([]WeekdayCount, 0, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		distribution = append(distribution, WeekdayCount{
			Day:   day.String()[:3],
			Count: counts[day],
		})
	}
	return distribution
}
