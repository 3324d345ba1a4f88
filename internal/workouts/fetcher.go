package workouts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mayer-domminic/portfoliocom/internal/telemetry/metrics"
	"github.com/mayer-domminic/portfoliocom/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts_test

type workoutsApi interface {
	GetWorkoutsPage(ctx context.Context, page, pageSize int) (*PageResponse, error)
}

var ErrFirstPageFailed = errors.New("first workouts page failed")

type FetchResult struct {
	// Workouts of all the fetched pages, newest first
	Workouts  []Workout
	PageCount int
	// FailedPages are skipped pages, their workouts are missing in Workouts
	FailedPages []int
}

// Fetcher pulls the complete workout history from the paginated API
type Fetcher struct {
	api            workoutsApi
	pageSize       int
	metricsManager *metrics.Manager
}

func NewFetcher(api workoutsApi, pageSize int, metricsManager *metrics.Manager) *Fetcher {
	return &Fetcher{
		api:            api,
		pageSize:       pageSize,
		metricsManager: metricsManager,
	}
}

// FetchAll fetches the first page, then all the remaining pages concurrently.
// Only a failed first page fails the whole fetch (ErrFirstPageFailed); any
// other failed page is logged and left out of the result.
func (f *Fetcher) FetchAll(ctx context.Context) (_ *FetchResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.fetcher.fetchAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	defer func(begin time.Time) {
		if f.metricsManager != nil {
			f.metricsManager.HistWorkoutsFetchDuration.Observe(time.Since(begin).Seconds())
		}
	}(time.Now())

	first, err := f.api.GetWorkoutsPage(ctx, 1, f.pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFirstPageFailed, err)
	}

	pageCount := first.PageCount
	if pageCount < 1 {
		pageCount = 1
	}
	span.SetAttributes(attribute.Int("page_count", pageCount))

	// each page writes only its own slot
	pages := make([][]Workout, pageCount)
	pages[0] = first.Workouts

	var (
		g           errgroup.Group
		mu          sync.Mutex
		pagesErr    error
		failedPages []int
	)
	for page := 2; page <= pageCount; page++ {
		g.Go(func() error {
			resp, err := f.api.GetWorkoutsPage(ctx, page, f.pageSize)
			if err != nil {
				mu.Lock()
				pagesErr = multierr.Append(pagesErr, fmt.Errorf("page %d: %w", page, err))
				failedPages = append(failedPages, page)
				mu.Unlock()
				return nil
			}
			pages[page-1] = resp.Workouts
			return nil
		})
	}
	// page goroutines never return an error
	_ = g.Wait()

	if pagesErr != nil {
		sort.Ints(failedPages)
		log.Errorf("workouts fetch: %d of %d pages failed: %s", len(failedPages), pageCount, pagesErr)
		if f.metricsManager != nil {
			f.metricsManager.CounterWorkoutPageFailures.Add(float64(len(failedPages)))
		}
		span.SetAttributes(attribute.IntSlice("failed_pages", failedPages))
	}

	total := 0
	for _, p := range pages {
		total += len(p)
	}
	workouts := make([]Workout, 0, total)
	for _, p := range pages {
		workouts = append(workouts, p...)
	}

	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].StartTime.After(workouts[j].StartTime)
	})

	log.Debugf("workouts fetch: %d workouts from %d pages", len(workouts), pageCount)

	return &FetchResult{
		Workouts:    workouts,
		PageCount:   pageCount,
		FailedPages: failedPages,
	}, nil
}
