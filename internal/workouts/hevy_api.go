package workouts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mayer-domminic/portfoliocom/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// HevyApi is a client of the Hevy public API
// https://api.hevyapp.com/docs/
type HevyApi struct {
	apiUrl     string // https://api.hevyapp.com/v1
	apiKey     string
	httpClient *http.Client
}

func NewHevyApi(apiUrl, apiKey string, httpClient *http.Client) *HevyApi {
	return &HevyApi{
		apiUrl:     strings.TrimSuffix(apiUrl, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (a *HevyApi) GetWorkoutsPage(ctx context.Context, page, pageSize int) (_ *PageResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "hevyApi.getWorkoutsPage")
	span.SetAttributes(attribute.Int("page", page))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))
	workoutsUrl := fmt.Sprintf("%s/workouts?%s", a.apiUrl, query.Encode())
	log.Tracef("calling hevy api: %s", workoutsUrl)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, workoutsUrl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("api-key", a.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read workouts page %d response: %w", page, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("workouts page %d: unexpected status code: %d", page, resp.StatusCode)
	}

	pageResp := &PageResponse{}
	if err := json.Unmarshal(respBytes, pageResp); err != nil {
		return nil, fmt.Errorf("unmarshal workouts page %d: %w", page, err)
	}

	return pageResp, nil
}
