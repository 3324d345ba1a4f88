//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mayer-domminic/portfoliocom/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestLifting() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()

	status, respBytes := s.doRequest(ctx, http.MethodGet, "/lifting/stats", nil)
	require.Equal(t, http.StatusOK, status, string(respBytes))

	var stats workouts.StatsResponse
	require.NoError(t, json.Unmarshal(respBytes, &stats))
	assert.Equal(t, 5, stats.Stats.TotalWorkouts)
	assert.Equal(t, 15, stats.Stats.TotalSets)
	assert.Equal(t, 3, stats.PageCount)
	assert.Empty(t, stats.FailedPages)
	assert.Equal(t, workouts.HeaviestLift{Name: "Bench Press (Barbell)", Weight: 80}, stats.Stats.HeaviestLift)
	// both done in every workout, the first seen wins
	assert.Equal(t, "Bench Press (Barbell)", stats.Stats.MostFrequentExercise)

	// 3 pages of 2 workouts for the snapshot, nothing more while browsing
	requestsAfterSnapshot := s.hevyApi.requests.Load()

	status, respBytes = s.doRequest(ctx, http.MethodGet, "/lifting/progress/Bench%20Press%20(Barbell)", nil)
	require.Equal(t, http.StatusOK, status)
	var progress workouts.ExerciseProgressResponse
	require.NoError(t, json.Unmarshal(respBytes, &progress))
	require.Len(t, progress.Progress, 5)
	assert.Equal(t, "2025-03-06", progress.Progress[0].Date)
	assert.Equal(t, 72.0, progress.Progress[0].Weight)
	assert.Equal(t, workouts.ProgressPoint{Date: "2025-03-14", Weight: 80, Reps: 6, Volume: 480}, progress.Progress[4])

	status, _ = s.doRequest(ctx, http.MethodGet, "/lifting/progress/Squat", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, respBytes = s.doRequest(ctx, http.MethodGet, "/lifting/history/page/3", nil)
	require.Equal(t, http.StatusOK, status)
	var page workouts.HistoryPage
	require.NoError(t, json.Unmarshal(respBytes, &page))
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Workouts)

	status, respBytes = s.doRequest(ctx, http.MethodGet, "/lifting/history/page/1", nil)
	require.Equal(t, http.StatusOK, status)
	page = workouts.HistoryPage{}
	require.NoError(t, json.Unmarshal(respBytes, &page))
	require.Len(t, page.Workouts, 5)
	assert.Equal(t, "w0", page.Workouts[0].ID)
	require.NotNil(t, page.Workouts[0].Minutes)
	assert.Equal(t, 55, *page.Workouts[0].Minutes)

	status, respBytes = s.doRequest(ctx, http.MethodGet, "/lifting/insights", nil)
	require.Equal(t, http.StatusOK, status)
	var insights workouts.InsightsResponse
	require.NoError(t, json.Unmarshal(respBytes, &insights))
	require.Len(t, insights.TopExercises, 1)
	assert.Equal(t, "Bench Press (Barbell)", insights.TopExercises[0].Name)
	assert.Len(t, insights.Weekdays, 7)

	assert.Equal(t, requestsAfterSnapshot, s.hevyApi.requests.Load())
}
