//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/mayer-domminic/portfoliocom/internal/gallery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path string, body any) (int, []byte) {
	t := s.T()

	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) dispatch(ctx context.Context, sessionID string, scrollY float64, action any) gallery.ActionResponse {
	t := s.T()

	actionBytes, err := json.Marshal(action)
	require.NoError(t, err)

	status, respBytes := s.doRequest(ctx, http.MethodPost,
		fmt.Sprintf("/gallery/sessions/%s/actions", sessionID),
		gallery.ActionRequest{ScrollY: scrollY, Action: actionBytes},
	)
	require.Equal(t, http.StatusOK, status, string(respBytes))

	var resp gallery.ActionResponse
	require.NoError(t, json.Unmarshal(respBytes, &resp))
	return resp
}

func (s *IntegrationTestSuite) TestGallery_Categories() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()

	status, respBytes := s.doRequest(ctx, http.MethodGet, "/gallery/categories", nil)
	require.Equal(t, http.StatusOK, status)

	var cards []gallery.CategoryCard
	require.NoError(t, json.Unmarshal(respBytes, &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, "Sunsets & Skies", cards[0].Name)
	assert.Equal(t, "/photos/sunsets-skies/s1.jpg", cards[0].CoverURL)
	assert.Equal(t, 3, cards[0].ImageCount)
	assert.Equal(t, "Nature", cards[1].Name)
	assert.Equal(t, "/photos/nature/n2.jpg", cards[1].CoverURL)
}

func (s *IntegrationTestSuite) TestGallery_SessionFlow() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()

	status, respBytes := s.doRequest(ctx, http.MethodPost, "/gallery/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	var session gallery.SessionResponse
	require.NoError(t, json.Unmarshal(respBytes, &session))
	require.NotEmpty(t, session.ID)
	assert.False(t, session.View.Open)

	resp := s.dispatch(ctx, session.ID, 420, map[string]any{"type": "OPEN_CATEGORY", "category": "Sunsets & Skies"})
	assert.True(t, resp.View.Open)
	assert.Equal(t, 0, resp.State.CurrentImageIndex)
	assert.Equal(t, 420.0, resp.State.ScrollPosition)
	require.Len(t, resp.Effects, 1)
	assert.Equal(t, gallery.EffectLockScroll, resp.Effects[0].Type)

	// circular navigation backwards from the first image
	resp = s.dispatch(ctx, session.ID, 0, map[string]any{"type": "PREV_IMAGE"})
	assert.Equal(t, 2, resp.State.CurrentImageIndex)
	assert.Equal(t, gallery.DirectionBackward, resp.State.Direction)

	// a failed image is filtered out, the index is clamped
	resp = s.dispatch(ctx, session.ID, 0, map[string]any{
		"type": "SET_IMAGE_LOADED",
		"src":  "/photos/sunsets-skies/s3.jpg", "loaded": false,
	})
	assert.Len(t, resp.View.Images, 2)
	assert.Equal(t, 1, resp.State.CurrentImageIndex)

	// image drag past the threshold moves to the next image
	s.dispatch(ctx, session.ID, 0, map[string]any{"type": "START_IMAGE_DRAG", "x": 200, "y": 100})
	s.dispatch(ctx, session.ID, 0, map[string]any{"type": "MOVE_IMAGE_DRAG", "x": 120, "y": 100})
	resp = s.dispatch(ctx, session.ID, 0, map[string]any{"type": "END_IMAGE_DRAG"})
	assert.Equal(t, 0, resp.State.CurrentImageIndex)
	assert.Equal(t, gallery.Position{}, resp.State.ImagePosition)

	resp = s.dispatch(ctx, session.ID, 0, map[string]any{"type": "CLOSE_CATEGORY"})
	assert.False(t, resp.View.Open)
	require.Len(t, resp.Effects, 2)
	assert.Equal(t, gallery.EffectUnlockScroll, resp.Effects[0].Type)
	assert.Equal(t, gallery.EffectRestoreScroll, resp.Effects[1].Type)
	require.NotNil(t, resp.Effects[1].Offset)
	assert.Equal(t, 420.0, *resp.Effects[1].Offset)

	// the session survives in redis
	status, respBytes = s.doRequest(ctx, http.MethodGet, "/gallery/sessions/"+session.ID, nil)
	require.Equal(t, http.StatusOK, status)
	var reloaded gallery.SessionResponse
	require.NoError(t, json.Unmarshal(respBytes, &reloaded))
	assert.False(t, reloaded.State.IsOpen())
	assert.False(t, reloaded.State.LoadedImages["/photos/sunsets-skies/s3.jpg"])
}

func (s *IntegrationTestSuite) TestGallery_Errors() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()

	status, _ := s.doRequest(ctx, http.MethodGet, "/gallery/sessions/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, respBytes := s.doRequest(ctx, http.MethodPost, "/gallery/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	var session gallery.SessionResponse
	require.NoError(t, json.Unmarshal(respBytes, &session))

	actionBytes, err := json.Marshal(map[string]any{"type": "OPEN_CATEGORY", "category": "Urban"})
	require.NoError(t, err)
	status, _ = s.doRequest(ctx, http.MethodPost,
		fmt.Sprintf("/gallery/sessions/%s/actions", session.ID),
		gallery.ActionRequest{Action: actionBytes},
	)
	assert.Equal(t, http.StatusBadRequest, status)

	actionBytes, err = json.Marshal(map[string]any{"type": "TELEPORT"})
	require.NoError(t, err)
	status, _ = s.doRequest(ctx, http.MethodPost,
		fmt.Sprintf("/gallery/sessions/%s/actions", session.ID),
		gallery.ActionRequest{Action: actionBytes},
	)
	assert.Equal(t, http.StatusBadRequest, status)
}

func (s *IntegrationTestSuite) TestGallery_ConcurrentImageFailures() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()

	status, respBytes := s.doRequest(ctx, http.MethodPost, "/gallery/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	var session gallery.SessionResponse
	require.NoError(t, json.Unmarshal(respBytes, &session))

	s.dispatch(ctx, session.ID, 0, map[string]any{"type": "OPEN_CATEGORY", "category": "Sunsets & Skies"})

	failedImages := []string{
		"/photos/sunsets-skies/s1.jpg",
		"/photos/sunsets-skies/s2.jpg",
		"/photos/sunsets-skies/s3.jpg",
	}

	// every failure reported twice, all at once, the way a burst of
	// thumbnail errors arrives over separate connections
	var wg sync.WaitGroup
	statuses := make(chan int, 2*len(failedImages))
	for i := 0; i < 2; i++ {
		for _, src := range failedImages {
			wg.Add(1)
			go func(src string) {
				defer wg.Done()

				body := fmt.Sprintf(
					`{"scrollY": 0, "action": {"type": "SET_IMAGE_LOADED", "src": %q, "loaded": false}}`,
					src,
				)
				req, err := http.NewRequestWithContext(ctx, http.MethodPost,
					fmt.Sprintf("%s/gallery/sessions/%s/actions", serverEndpoint, session.ID),
					strings.NewReader(body),
				)
				if err != nil {
					statuses <- -1
					return
				}
				resp, err := s.httpClient.Do(req)
				if err != nil {
					statuses <- -1
					return
				}
				_ = resp.Body.Close()
				statuses <- resp.StatusCode
			}(src)
		}
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		assert.Equal(t, http.StatusOK, status)
	}

	status, respBytes = s.doRequest(ctx, http.MethodGet, "/gallery/sessions/"+session.ID, nil)
	require.Equal(t, http.StatusOK, status)
	var loaded gallery.SessionResponse
	require.NoError(t, json.Unmarshal(respBytes, &loaded))

	require.Len(t, loaded.State.LoadedImages, len(failedImages))
	for _, src := range failedImages {
		assert.False(t, loaded.State.LoadedImages[src], src)
	}
	assert.Equal(t, 0, loaded.State.CurrentImageIndex)
	assert.True(t, loaded.View.Placeholder)
	require.Len(t, loaded.View.Grid, 2)
	assert.Equal(t, 0, loaded.View.Grid[0].ImageCount)
	assert.Equal(t, 2, loaded.View.Grid[1].ImageCount)
}
