package workouts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mayer-domminic/portfoliocom/internal/telemetry/tracing"
	"github.com/mayer-domminic/portfoliocom/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	fetchFailedMessage = "Error fetching workout data. Please try again later."
	topExercisesCount  = 5
	// encoded responses are keyed by the snapshot they were built from, older
	// generations only wait here to expire
	responseCacheTTLSeconds = 10 * 60
)

type snapshotProvider interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

type StatsResponse struct {
	Stats       Stats     `json:"stats"`
	PageCount   int       `json:"pageCount"`
	FailedPages []int     `json:"failedPages"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

type ProgressResponse struct {
	Exercises []string                   `json:"exercises"`
	Progress  map[string][]ProgressPoint `json:"progress"`
}

type ExerciseProgressResponse struct {
	Exercise string          `json:"exercise"`
	Sessions int             `json:"sessions"`
	Progress []ProgressPoint `json:"progress"`
}

type InsightsResponse struct {
	TopExercises []TopExercise  `json:"topExercises"`
	Weekdays     []WeekdayCount `json:"weekdays"`
}

// Handler serves the lifting dashboard. The JSON of every response is
// encoded once per snapshot and kept in freecache, responses larger than
// 1/1024 of the cache are encoded on each request.
type Handler struct {
	snapshots       snapshotProvider
	historyPageSize int
	responses       *freecache.Cache
}

func NewHandler(snapshots snapshotProvider, historyPageSize int) *Handler {
	if historyPageSize < 1 {
		historyPageSize = DefaultHistoryPageSize
	}
	megabyte := 1024 * 1024
	cacheSize := 64 * megabyte

	return &Handler{
		snapshots:       snapshots,
		historyPageSize: historyPageSize,
		responses:       freecache.NewCache(cacheSize),
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/stats", handler.handleStats).Methods("GET", "OPTIONS").Name("lifting-stats")
	router.HandleFunc("/progress", handler.handleProgress).Methods("GET", "OPTIONS").Name("lifting-progress")
	router.HandleFunc("/progress/{exercise}", handler.handleExerciseProgress).Methods("GET", "OPTIONS").Name("lifting-exercise-progress")
	router.HandleFunc("/insights", handler.handleInsights).Methods("GET", "OPTIONS").Name("lifting-insights")
	router.HandleFunc("/history/page/{page}", handler.handleHistoryPage).Methods("GET", "OPTIONS").Name("lifting-history-page")
}

func (handler *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := handler.snapshot(w, r, "workoutsHandler.stats")
	if !ok {
		return
	}

	handler.writeJSON(w, snapshot, "stats", func() any {
		failedPages := snapshot.FailedPages
		if failedPages == nil {
			failedPages = []int{}
		}
		return StatsResponse{
			Stats:       snapshot.Summary.Stats,
			PageCount:   snapshot.PageCount,
			FailedPages: failedPages,
			FetchedAt:   snapshot.FetchedAt,
		}
	})
}

func (handler *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := handler.snapshot(w, r, "workoutsHandler.progress")
	if !ok {
		return
	}

	handler.writeJSON(w, snapshot, "progress", func() any {
		return ProgressResponse{
			Exercises: snapshot.Summary.Exercises,
			Progress:  snapshot.Summary.Progress,
		}
	})
}

func (handler *Handler) handleExerciseProgress(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := handler.snapshot(w, r, "workoutsHandler.exerciseProgress")
	if !ok {
		return
	}

	exercise := mux.Vars(r)["exercise"]
	series, found := snapshot.Summary.Progress[exercise]
	if !found {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}

	handler.writeJSON(w, snapshot, "progress::"+exercise, func() any {
		return ExerciseProgressResponse{
			Exercise: exercise,
			Sessions: snapshot.Summary.Sessions[exercise],
			Progress: series,
		}
	})
}

func (handler *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := handler.snapshot(w, r, "workoutsHandler.insights")
	if !ok {
		return
	}

	handler.writeJSON(w, snapshot, "insights", func() any {
		return InsightsResponse{
			TopExercises: snapshot.Summary.TopExercises(topExercisesCount),
			Weekdays:     WeekdayDistribution(snapshot.Workouts, time.UTC),
		}
	})
}

func (handler *Handler) handleHistoryPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil || page < 1 {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}

	snapshot, ok := handler.snapshot(w, r, "workoutsHandler.historyPage")
	if !ok {
		return
	}

	handler.writeJSON(w, snapshot, "history::"+strconv.Itoa(page), func() any {
		return Paginate(snapshot.Workouts, page, handler.historyPageSize)
	})
}

func (handler *Handler) snapshot(w http.ResponseWriter, r *http.Request, spanName string) (*Snapshot, bool) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), spanName)
	defer span.End()

	snapshot, err := handler.snapshots.Snapshot(ctx)
	if err != nil {
		log.Errorf("get workouts snapshot: %s", err)
		span.SetAttributes(attribute.Bool("fetch_failed", true))
		http.Error(w, fetchFailedMessage, http.StatusServiceUnavailable)
		return nil, false
	}

	return snapshot, true
}

// writeJSON writes the response built by build from snapshot, encoding it
// only when this snapshot's response is not cached yet
func (handler *Handler) writeJSON(w http.ResponseWriter, snapshot *Snapshot, name string, build func() any) {
	key := []byte(fmt.Sprintf("%d::%s", snapshot.FetchedAt.UnixNano(), name))
	if respJson, err := handler.responses.Get(key); err == nil {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
		return
	}

	respJson, err := json.Marshal(build())
	if err != nil {
		log.Errorf("marshal workouts response [%s]: %s", name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := handler.responses.Set(key, respJson, responseCacheTTLSeconds); err != nil {
		log.Debugf("cache workouts response [%s], %d bytes: %s", name, len(respJson), err)
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
