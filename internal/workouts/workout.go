package workouts

import (
	"math"
	"time"
)

// Set is a single set of an exercise. WeightKg and Reps are zero for sets
// without weight (e.g. bodyweight or cardio sets).
type Set struct {
	Index           int      `json:"index"`
	Type            string   `json:"type"`
	WeightKg        float64  `json:"weight_kg"`
	Reps            int      `json:"reps"`
	DistanceMeters  *float64 `json:"distance_meters"`
	DurationSeconds *float64 `json:"duration_seconds"`
	RPE             *float64 `json:"rpe"`
}

// Volume is weight × reps
func (s Set) Volume() float64 {
	return s.WeightKg * float64(s.Reps)
}

type Exercise struct {
	Index              int    `json:"index"`
	Title              string `json:"title"`
	Notes              string `json:"notes"`
	ExerciseTemplateID string `json:"exercise_template_id"`
	SupersetID         *int   `json:"supersets_id"`
	Sets               []Set  `json:"sets"`
}

type Workout struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CreatedAt   time.Time  `json:"created_at"`
	Exercises   []Exercise `json:"exercises"`
}

// Day is the calendar day (UTC) the workout started on, as YYYY-MM-DD
func (w Workout) Day() string {
	return w.StartTime.UTC().Format(time.DateOnly)
}

// DurationMinutes returns the rounded workout duration, or nil if the start
// or the end time is missing
func (w Workout) DurationMinutes() *int {
	if w.StartTime.IsZero() || w.EndTime.IsZero() {
		return nil
	}
	minutes := int(math.Round(w.EndTime.Sub(w.StartTime).Minutes()))
	return &minutes
}

// PageResponse is a single page of the remote workouts API
type PageResponse struct {
	Page      int       `json:"page"`
	PageCount int       `json:"page_count"`
	Workouts  []Workout `json:"workouts"`
}
