package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mayer-domminic/portfoliocom/internal/telemetry/metrics"
	"github.com/mayer-domminic/portfoliocom/internal/telemetry/tracing"
	"github.com/mayer-domminic/portfoliocom/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=gallery_test

type sessionStore interface {
	New(ctx context.Context) (string, State, error)
	Get(ctx context.Context, id string) (State, error)
	Update(ctx context.Context, id string, update UpdateFunc) (State, error)
}

type SessionResponse struct {
	ID    string `json:"id"`
	State State  `json:"state"`
	View  View   `json:"view"`
}

type ActionRequest struct {
	ScrollY float64         `json:"scrollY"`
	Action  json.RawMessage `json:"action"`
}

type ActionResponse struct {
	State   State    `json:"state"`
	View    View     `json:"view"`
	Effects []Effect `json:"effects"`
}

type Handler struct {
	catalog        *Catalog
	reducer        *Reducer
	sessions       sessionStore
	metricsManager *metrics.Manager
}

func NewHandler(
	catalog *Catalog,
	sessions sessionStore,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		catalog:        catalog,
		reducer:        NewReducer(catalog),
		sessions:       sessions,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/categories", handler.handleCategories).Methods("GET", "OPTIONS").Name("gallery-categories")
	router.HandleFunc("/sessions", handler.handleNewSession).Methods("POST", "OPTIONS").Name("gallery-new-session")
	router.HandleFunc("/sessions/{id}", handler.handleGetSession).Methods("GET", "OPTIONS").Name("gallery-get-session")
	router.HandleFunc("/sessions/{id}/actions", handler.handleAction).Methods("POST", "OPTIONS").Name("gallery-action")
}

// SetupAssetsRoute serves the photos from assetsPath under imagesBaseURL,
// one folder per category (see FolderSlug)
func SetupAssetsRoute(router *mux.Router, imagesBaseURL, assetsPath string) {
	prefix := strings.TrimSuffix(imagesBaseURL, "/") + "/"
	if !strings.HasPrefix(prefix, "/") || assetsPath == "" {
		log.Debugf("gallery assets route not set up for base url [%s]", imagesBaseURL)
		return
	}

	router.
		PathPrefix(prefix).
		Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(assetsPath)))).
		Methods("GET").
		Name("gallery-assets")
}

func (handler *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "galleryHandler.categories")
	defer span.End()

	cardsJson, err := json.Marshal(handler.catalog.Cards())
	if err != nil {
		log.Errorf("marshal gallery categories: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cardsJson)
}

func (handler *Handler) handleNewSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "galleryHandler.newSession")
	defer span.End()

	id, state, err := handler.sessions.New(ctx)
	if err != nil {
		log.Errorf("new gallery session: %s", err)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	span.SetAttributes(attribute.String("session", id))

	handler.writeJSON(w, http.StatusCreated, SessionResponse{
		ID:    id,
		State: state,
		View:  handler.reducer.View(state),
	})
}

func (handler *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "galleryHandler.getSession")
	defer span.End()

	id := mux.Vars(r)["id"]
	span.SetAttributes(attribute.String("session", id))

	state, ok := handler.loadSession(ctx, w, id)
	if !ok {
		return
	}

	handler.writeJSON(w, http.StatusOK, SessionResponse{
		ID:    id,
		State: state,
		View:  handler.reducer.View(state),
	})
}

func (handler *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "galleryHandler.action")
	defer span.End()

	id := mux.Vars(r)["id"]
	span.SetAttributes(attribute.String("session", id))

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("decode gallery action request: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	action, err := DecodeAction(req.Action)
	if err != nil {
		log.Tracef("decode gallery action: %s", err)
		http.Error(w, "invalid action", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("action", action.Type()))

	var (
		recorder     *EffectRecorder
		controller   *Controller
		imageFailure bool
	)
	state, err := handler.sessions.Update(ctx, id, func(state State) (State, error) {
		recorder = NewEffectRecorder(req.ScrollY)
		controller = NewController(handler.reducer, recorder, state)
		imageFailure = isNewLoadFailure(state, action)
		if err := controller.Dispatch(action); err != nil {
			return State{}, err
		}
		return controller.State(), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			http.Error(w, "session not found", http.StatusNotFound)
		case errors.Is(err, ErrCategoryNotFound):
			http.Error(w, "unknown category", http.StatusBadRequest)
		default:
			log.Errorf("gallery session [%s] action [%s]: %s", id, action.Type(), err)
			http.Error(w, "failed to apply action", http.StatusInternalServerError)
		}
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterGalleryActions.WithLabelValues(action.Type()).Inc()
		if imageFailure {
			handler.metricsManager.CounterImageLoadFailures.Inc()
		}
	}

	handler.writeJSON(w, http.StatusOK, ActionResponse{
		State:   state,
		View:    controller.View(),
		Effects: recorder.Effects(),
	})
}

// isNewLoadFailure reports whether action is the first failure report of an
// image in this session
func isNewLoadFailure(state State, action Action) bool {
	loaded, ok := action.(SetImageLoaded)
	if !ok || loaded.Loaded {
		return false
	}
	previous, seen := state.LoadedImages[loaded.Src]
	return !seen || previous
}

func (handler *Handler) loadSession(ctx context.Context, w http.ResponseWriter, id string) (State, bool) {
	state, err := handler.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return State{}, false
		}
		log.Errorf("get gallery session [%s]: %s", id, err)
		http.Error(w, "failed to get session", http.StatusInternalServerError)
		return State{}, false
	}
	return state, true
}

func (handler *Handler) writeJSON(w http.ResponseWriter, status int, resp any) {
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal gallery response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, status)
}
