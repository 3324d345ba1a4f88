package workouts

import "sort"

// ProgressPoint is the best set (by weight) of an exercise on a single day
type ProgressPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	Volume float64 `json:"volume"`
}

type HeaviestLift struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type Stats struct {
	TotalWorkouts        int          `json:"totalWorkouts"`
	TotalVolume          float64      `json:"totalVolume"`
	TotalSets            int          `json:"totalSets"`
	MostFrequentExercise string       `json:"mostFrequentExercise"`
	HeaviestLift         HeaviestLift `json:"heaviestLift"`
}

type Summary struct {
	Stats Stats `json:"stats"`
	// Exercises are all the exercise titles, in the order first seen
	Exercises []string `json:"exercises"`
	// Progress holds the series of every exercise, oldest day first. Exercises
	// without any weighted set have an empty series.
	Progress map[string][]ProgressPoint `json:"progress"`
	// Sessions counts the exercise entries of each title, an exercise logged
	// twice in one workout counts twice
	Sessions map[string]int `json:"sessions"`
}

// Aggregate derives the stats and the progression series from workouts in a
// single pass. Ties keep the first seen: the most frequent exercise and the
// heaviest lift are only replaced by a strictly greater value.
func Aggregate(workouts []Workout) Summary {
	summary := Summary{
		Exercises: []string{},
		Progress:  map[string][]ProgressPoint{},
		Sessions:  map[string]int{},
	}
	summary.Stats.TotalWorkouts = len(workouts)

	// exercise -> day -> index in the exercise series
	dayIndex := map[string]map[string]int{}

	for _, workout := range workouts {
		day := workout.Day()

		for _, exercise := range workout.Exercises {
			title := exercise.Title
			if _, seen := summary.Progress[title]; !seen {
				summary.Exercises = append(summary.Exercises, title)
				summary.Progress[title] = []ProgressPoint{}
				dayIndex[title] = map[string]int{}
			}
			summary.Sessions[title]++
			summary.Stats.TotalSets += len(exercise.Sets)

			for _, set := range exercise.Sets {
				summary.Stats.TotalVolume += set.Volume()

				if set.WeightKg > summary.Stats.HeaviestLift.Weight {
					summary.Stats.HeaviestLift = HeaviestLift{
						Name:   title,
						Weight: set.WeightKg,
					}
				}

				if set.WeightKg <= 0 {
					continue
				}

				point := ProgressPoint{
					Date:   day,
					Weight: set.WeightKg,
					Reps:   set.Reps,
					Volume: set.Volume(),
				}
				if i, ok := dayIndex[title][day]; ok {
					if set.WeightKg > summary.Progress[title][i].Weight {
						summary.Progress[title][i] = point
					}
					continue
				}
				dayIndex[title][day] = len(summary.Progress[title])
				summary.Progress[title] = append(summary.Progress[title], point)
			}
		}
	}

	highestCount := 0
	for _, title := range summary.Exercises {
		if count := summary.Sessions[title]; count > highestCount {
			highestCount = count
			summary.Stats.MostFrequentExercise = title
		}
	}

	for _, series := range summary.Progress {
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Date < series[j].Date
		})
	}

	return summary
}
