//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mayer-domminic/portfoliocom/internal/vault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestVault() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()

	status, respBytes := s.doRequest(ctx, http.MethodGet, "/vault/tree", nil)
	require.Equal(t, http.StatusOK, status)
	var tree vault.TreeResponse
	require.NoError(t, json.Unmarshal(respBytes, &tree))
	assert.Empty(t, tree.Error)
	assert.Equal(t, []vault.Entry{
		{Name: "notes", Path: "notes", Type: vault.EntryTypeDir},
		{Name: "README.md", Path: "README.md", Type: vault.EntryTypeFile, Size: 12},
	}, tree.Entries)

	status, respBytes = s.doRequest(ctx, http.MethodGet, "/vault/file?path=notes/ideas.md", nil)
	require.Equal(t, http.StatusOK, status)
	var file vault.FileResponse
	require.NoError(t, json.Unmarshal(respBytes, &file))
	assert.Equal(t, "- build a portfolio", file.Content)

	// a missing file is reported inline
	status, respBytes = s.doRequest(ctx, http.MethodGet, "/vault/file?path=notes/missing.md", nil)
	require.Equal(t, http.StatusOK, status)
	file = vault.FileResponse{}
	require.NoError(t, json.Unmarshal(respBytes, &file))
	assert.Empty(t, file.Content)
	assert.Contains(t, file.Error, "404")

	status, _ = s.doRequest(ctx, http.MethodGet, "/vault/tree?path=.obsidian", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
