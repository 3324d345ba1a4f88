package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mayer-domminic/portfoliocom/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultSessionTTL = 2 * time.Hour
	sessionKeyPrefix  = "gallery-session::"
	// optimistic locking attempts before giving up on a contended session
	maxUpdateAttempts = 20
)

var (
	ErrSessionNotFound = errors.New("gallery session not found")
	ErrSessionBusy     = errors.New("gallery session busy")
)

// UpdateFunc gets the stored state of a session and returns the new one.
// It can be called more than once for a single Update, and must not have
// side effects beyond its own locals.
type UpdateFunc func(state State) (State, error)

// SessionStore keeps the viewer State of each visitor in redis. Every save
// refreshes the session TTL.
type SessionStore struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject the session id generator (for unit testing)
	NewIDFunc func() string
}

func NewSessionStore(redisClient *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		redisClient: redisClient,
		ttl:         ttl,
		NewIDFunc:   uuid.NewString,
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// New creates a session with a closed viewer
func (s *SessionStore) New(ctx context.Context) (_ string, _ State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.gallery.session.new")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	id := s.NewIDFunc()
	state := NewState()
	if err := s.Save(ctx, id, state); err != nil {
		return "", State{}, err
	}

	return id, state, nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (_ State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.gallery.session.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return decodeState(id, s.redisClient.Get(ctx, sessionKey(id)))
}

// Update applies update to the stored state of a session. The session key is
// watched while the new state is computed, so a concurrent write makes the
// transaction fail and the update is retried on the fresh state.
func (s *SessionStore) Update(ctx context.Context, id string, update UpdateFunc) (_ State, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.gallery.session.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	key := sessionKey(id)
	var updated State
	txf := func(tx *redis.Tx) error {
		state, err := decodeState(id, tx.Get(ctx, key))
		if err != nil {
			return err
		}

		updated, err = update(state)
		if err != nil {
			return err
		}

		stateJson, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("marshal session [%s]: %w", id, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, string(stateJson), s.ttl)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := s.redisClient.Watch(ctx, txf, key)
		if err == nil {
			span.SetAttributes(attribute.Int("attempts", attempt))
			return updated, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return State{}, err
		}
		log.Tracef("gallery session [%s] changed during update, attempt %d", id, attempt)
	}

	return State{}, fmt.Errorf("update session [%s]: %w", id, ErrSessionBusy)
}

func decodeState(id string, cmd *redis.StringCmd) (State, error) {
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, ErrSessionNotFound
		}
		return State{}, fmt.Errorf("get session [%s]: %w", id, err)
	}

	var state State
	if err := json.Unmarshal([]byte(cmd.Val()), &state); err != nil {
		return State{}, fmt.Errorf("unmarshal session [%s]: %w", id, err)
	}
	if state.LoadedImages == nil {
		state.LoadedImages = map[string]bool{}
	}

	return state, nil
}

func (s *SessionStore) Save(ctx context.Context, id string, state State) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.gallery.session.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stateJson, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session [%s]: %w", id, err)
	}

	if err := s.redisClient.Set(ctx, sessionKey(id), string(stateJson), s.ttl).Err(); err != nil {
		return fmt.Errorf("save session [%s]: %w", id, err)
	}

	return nil
}
