package workouts

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mayer-domminic/portfoliocom/internal/telemetry/metrics"
	"github.com/mayer-domminic/portfoliocom/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

const (
	snapshotBuildKey   = "workouts-snapshot"
	defaultSnapshotTTL = 5 * time.Minute
)

// Snapshot is the complete workout history at FetchedAt with everything
// derived from it. It is never modified once built.
type Snapshot struct {
	Workouts    []Workout
	Summary     Summary
	PageCount   int
	FailedPages []int
	FetchedAt   time.Time
}

type cachedSnapshot struct {
	snapshot  *Snapshot
	expiresAt time.Time
}

// Service keeps the latest workout history in memory, so browsing the
// history or the stats does not hit the remote API until it expires.
// The history is fetched and aggregated once per snapshot.
type Service struct {
	fetcher        *Fetcher
	ttl            time.Duration
	current        atomic.Pointer[cachedSnapshot]
	group          singleflight.Group
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewService(fetcher *Fetcher, ttl time.Duration, metricsManager *metrics.Manager) *Service {
	if ttl < time.Second {
		ttl = defaultSnapshotTTL
	}

	return &Service{
		fetcher:        fetcher,
		ttl:            ttl,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

func (s *Service) Snapshot(ctx context.Context) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "workouts.service.snapshot")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if cached := s.current.Load(); cached != nil && s.now().Before(cached.expiresAt) {
		span.SetAttributes(attribute.Bool("from-cache", true))
		return cached.snapshot, nil
	}

	// concurrent requests share a single build, which must not be cancelled
	// when the request that started it goes away
	buildCtx := context.WithoutCancel(ctx)
	res, err, shared := s.group.Do(snapshotBuildKey, func() (any, error) {
		return s.build(buildCtx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Tracef("workouts snapshot build shared")
	}

	return res.(*Snapshot), nil
}

// Invalidate drops the cached history, the next call to Snapshot refetches
func (s *Service) Invalidate() {
	s.current.Store(nil)
}

func (s *Service) build(ctx context.Context) (*Snapshot, error) {
	result, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch all workouts: %w", err)
	}

	fetchedAt := s.now()
	snapshot := &Snapshot{
		Workouts:    result.Workouts,
		Summary:     Aggregate(result.Workouts),
		PageCount:   result.PageCount,
		FailedPages: result.FailedPages,
		FetchedAt:   fetchedAt,
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterWorkoutSnapshotsBuilt.Inc()
	}

	s.current.Store(&cachedSnapshot{
		snapshot:  snapshot,
		expiresAt: fetchedAt.Add(s.ttl),
	})
	log.Debugf("workouts snapshot cached, %d workouts", len(snapshot.Workouts))

	return snapshot, nil
}
