package vault

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mayer-domminic/portfoliocom/internal/telemetry/tracing"
	"github.com/mayer-domminic/portfoliocom/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=vault_test

type contentsApi interface {
	ListDir(ctx context.Context, path string) ([]Entry, error)
	RawFile(ctx context.Context, path string) (string, error)
}

// TreeResponse holds either the entries of the directory or, when it could
// not be fetched, the error text shown in their place
type TreeResponse struct {
	Path    string  `json:"path"`
	Entries []Entry `json:"entries,omitempty"`
	Error   string  `json:"error,omitempty"`
}

type FileResponse struct {
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Handler struct {
	api contentsApi
}

func NewHandler(api contentsApi) *Handler {
	return &Handler{
		api: api,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/tree", handler.handleTree).Methods("GET", "OPTIONS").Name("vault-tree")
	router.HandleFunc("/file", handler.handleFile).Methods("GET", "OPTIONS").Name("vault-file")
}

func (handler *Handler) handleTree(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "vaultHandler.tree")
	defer span.End()

	path, ok := cleanRequestPath(w, r)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("path", path))

	entries, err := handler.api.ListDir(ctx, path)
	if err != nil {
		log.Errorf("list vault dir [%s]: %s", path, err)
		writeJSON(w, TreeResponse{Path: path, Error: err.Error()})
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	writeJSON(w, TreeResponse{Path: path, Entries: entries})
}

func (handler *Handler) handleFile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "vaultHandler.file")
	defer span.End()

	path, ok := cleanRequestPath(w, r)
	if !ok {
		return
	}
	if path == "" {
		http.Error(w, "file path missing", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("path", path))

	content, err := handler.api.RawFile(ctx, path)
	if err != nil {
		log.Errorf("get vault file [%s]: %s", path, err)
		writeJSON(w, FileResponse{Path: path, Error: err.Error()})
		return
	}

	writeJSON(w, FileResponse{Path: path, Content: content})
}

func cleanRequestPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	path, err := CleanPath(r.URL.Query().Get("path"))
	if err != nil {
		if errors.Is(err, ErrInvalidPath) {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return "", false
		}
		log.Errorf("clean vault path: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return "", false
	}
	return path, true
}

func writeJSON(w http.ResponseWriter, resp any) {
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal vault response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
