package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mayer-domminic/portfoliocom/internal/telemetry/metrics"
	"github.com/mayer-domminic/portfoliocom/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	EntryTypeDir  = "dir"
	EntryTypeFile = "file"

	DefaultCacheTTL = 10 * time.Minute
)

var (
	ErrInvalidPath   = errors.New("invalid path")
	ErrNotADirectory = errors.New("not a directory")
)

type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// contentEntry is a single item of the repository contents API response
type contentEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	Sha         string `json:"sha"`
	DownloadURL string `json:"download_url"`
}

type ApiParams struct {
	ApiURL   string // https://api.github.com
	Owner    string
	Repo     string
	Ref      string
	Token    string
	CacheTTL time.Duration
}

// Api reads the notes vault from a repository contents endpoint
// (GET /repos/{owner}/{repo}/contents/{path}). Responses are cached in redis,
// and a failing cache never fails a request.
type Api struct {
	params         ApiParams
	httpClient     *http.Client
	redisClient    *redis.Client
	metricsManager *metrics.Manager
}

func NewApi(
	params ApiParams,
	httpClient *http.Client,
	redisClient *redis.Client,
	metricsManager *metrics.Manager,
) *Api {
	params.ApiURL = strings.TrimSuffix(params.ApiURL, "/")
	if params.CacheTTL <= 0 {
		params.CacheTTL = DefaultCacheTTL
	}
	return &Api{
		params:         params,
		httpClient:     httpClient,
		redisClient:    redisClient,
		metricsManager: metricsManager,
	}
}

// CleanPath trims the slashes around path and rejects empty, hidden and
// parent segments. The vault root is the empty path.
func CleanPath(path string) (string, error) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return "", nil
	}
	for _, segment := range strings.Split(path, "/") {
		if segment == "" || strings.HasPrefix(segment, ".") {
			return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
		}
	}
	return path, nil
}

// ListDir lists the directory at path, directories first, then by name.
// Hidden entries (starting with a dot) are left out.
func (a *Api) ListDir(ctx context.Context, path string) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "vaultApi.listDir")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	path, err = CleanPath(path)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("path", path))

	cacheKey := a.cacheKey("tree", path)
	if cached, ok := a.getCached(ctx, cacheKey); ok {
		var entries []Entry
		unmarshalErr := json.Unmarshal([]byte(cached), &entries)
		if unmarshalErr == nil {
			span.SetAttributes(attribute.Bool("from-cache", true))
			return entries, nil
		}
		log.Errorf("unmarshal cached vault tree [%s]: %s", path, unmarshalErr)
	}

	respBytes, err := a.fetch(ctx, path, "application/vnd.github+json")
	if err != nil {
		return nil, err
	}

	var contents []contentEntry
	if err := json.Unmarshal(respBytes, &contents); err != nil {
		// a file path gives a single object instead of a list
		var single contentEntry
		if json.Unmarshal(respBytes, &single) == nil && single.Type != "" {
			return nil, fmt.Errorf("%w: %s", ErrNotADirectory, path)
		}
		return nil, fmt.Errorf("unmarshal vault tree [%s]: %w", path, err)
	}

	entries := make([]Entry, 0, len(contents))
	for _, c := range contents {
		if strings.HasPrefix(c.Name, ".") {
			continue
		}
		entries = append(entries, Entry{
			Name: c.Name,
			Path: c.Path,
			Type: c.Type,
			Size: c.Size,
		})
	}
	SortEntries(entries)

	if entriesJson, err := json.Marshal(entries); err == nil {
		a.setCached(ctx, cacheKey, string(entriesJson))
	}

	return entries, nil
}

// RawFile returns the raw content of the file at path
func (a *Api) RawFile(ctx context.Context, path string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "vaultApi.rawFile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	path, err = CleanPath(path)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("%w: empty file path", ErrInvalidPath)
	}
	span.SetAttributes(attribute.String("path", path))

	cacheKey := a.cacheKey("file", path)
	if cached, ok := a.getCached(ctx, cacheKey); ok {
		span.SetAttributes(attribute.Bool("from-cache", true))
		return cached, nil
	}

	respBytes, err := a.fetch(ctx, path, "application/vnd.github.raw")
	if err != nil {
		return "", err
	}

	content := string(respBytes)
	a.setCached(ctx, cacheKey, content)

	return content, nil
}

func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		iDir, jDir := entries[i].Type == EntryTypeDir, entries[j].Type == EntryTypeDir
		if iDir != jDir {
			return iDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

func (a *Api) fetch(ctx context.Context, path, accept string) ([]byte, error) {
	contentsUrl := fmt.Sprintf(
		"%s/repos/%s/%s/contents/%s",
		a.params.ApiURL, a.params.Owner, a.params.Repo, escapePath(path),
	)
	if a.params.Ref != "" {
		contentsUrl += "?ref=" + url.QueryEscape(a.params.Ref)
	}
	log.Tracef("calling vault contents api: %s", contentsUrl)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, contentsUrl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	if a.params.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.params.Token)
	}

	respBytes, err := a.do(req)
	if err != nil {
		if a.metricsManager != nil {
			a.metricsManager.CounterVaultFetchFailures.Inc()
		}
		return nil, err
	}

	return respBytes, nil
}

func (a *Api) do(req *http.Request) ([]byte, error) {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read vault response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return respBytes, nil
}

func (a *Api) cacheKey(kind, path string) string {
	return fmt.Sprintf("vault::%s::%s::%s", kind, a.params.Ref, path)
}

func (a *Api) getCached(ctx context.Context, key string) (string, bool) {
	if a.redisClient == nil {
		return "", false
	}

	val, err := a.redisClient.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("get vault cache [%s]: %s", key, err)
		}
		return "", false
	}
	log.Tracef("vault cache hit: %s", key)
	return val, true
}

func (a *Api) setCached(ctx context.Context, key, val string) {
	if a.redisClient == nil {
		return
	}

	if err := a.redisClient.Set(ctx, key, val, a.params.CacheTTL).Err(); err != nil {
		log.Errorf("set vault cache [%s]: %s", key, err)
	}
}

func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
