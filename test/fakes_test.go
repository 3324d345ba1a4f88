//go:build integration_test || all_tests

package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mayer-domminic/portfoliocom/internal/workouts"
)

const (
	fakeHevyApiKey = "hevy-test-key"
	fakeVaultToken = "vault-test-token"
)

// fakeHevyApi serves 5 workouts, newest first, in pages of the requested size
type fakeHevyApi struct {
	requests atomic.Int64
	workouts []workouts.Workout
}

func newFakeHevyApi() *fakeHevyApi {
	start := time.Date(2025, 3, 14, 17, 30, 0, 0, time.UTC)
	api := &fakeHevyApi{}
	for i := 0; i < 5; i++ {
		day := start.AddDate(0, 0, -2*i)
		api.workouts = append(api.workouts, workouts.Workout{
			ID:        fmt.Sprintf("w%d", i),
			Title:     "Upper",
			StartTime: day,
			EndTime:   day.Add(55 * time.Minute),
			Exercises: []workouts.Exercise{
				{
					Title: "Bench Press (Barbell)",
					Sets: []workouts.Set{
						{Type: "warmup", WeightKg: 40, Reps: 10},
						{Type: "normal", WeightKg: float64(80 - 2*i), Reps: 6},
					},
				},
				{
					Title: "Pull Up",
					Sets:  []workouts.Set{{Type: "normal", Reps: 10}},
				},
			},
		})
	}
	return api
}

func (f *fakeHevyApi) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)

	if r.Header.Get("api-key") != fakeHevyApiKey {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	if !strings.HasSuffix(r.URL.Path, "/workouts") {
		http.NotFound(w, r)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if page < 1 || size < 1 {
		http.Error(w, `{"error":"bad paging"}`, http.StatusBadRequest)
		return
	}

	pageCount := (len(f.workouts) + size - 1) / size
	start := min((page-1)*size, len(f.workouts))
	end := min(start+size, len(f.workouts))

	respBytes, _ := json.Marshal(workouts.PageResponse{
		Page:      page,
		PageCount: pageCount,
		Workouts:  f.workouts[start:end],
	})
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(respBytes)
}

// newFakeVaultApi serves a tiny repository through a contents endpoint
func newFakeVaultApi() http.Handler {
	tree := map[string]string{
		"": `[
			{"name":"notes","path":"notes","type":"dir","size":0},
			{"name":"README.md","path":"README.md","type":"file","size":12},
			{"name":".obsidian","path":".obsidian","type":"dir","size":0}
		]`,
		"notes": `[
			{"name":"ideas.md","path":"notes/ideas.md","type":"file","size":20}
		]`,
	}
	files := map[string]string{
		"README.md":      "# Vault",
		"notes/ideas.md": "- build a portfolio",
	}
	const contentsPrefix = "/repos/mayer-domminic/vault/contents"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+fakeVaultToken {
			http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(r.URL.Path, contentsPrefix) {
			http.NotFound(w, r)
			return
		}
		path := strings.Trim(strings.TrimPrefix(r.URL.Path, contentsPrefix), "/")

		if r.Header.Get("Accept") == "application/vnd.github.raw" {
			if content, ok := files[path]; ok {
				_, _ = w.Write([]byte(content))
				return
			}
		} else if entries, ok := tree[path]; ok {
			_, _ = w.Write([]byte(entries))
			return
		}

		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})
}
