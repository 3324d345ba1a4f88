package gallery

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogToml = `
[[categories]]
name = "Sunsets & Skies"
description = "Evenings over the bay"

  [[categories.images]]
  filename = "DM100462.JPG"

  [[categories.images]]
  filename = "DM100464.JPG"
  title = "Pier"
  taken_at = 2024-04-22T19:40:29Z

[[categories]]
name = "Nature"
cover = "DM100825.JPG"
date = "Spring 2024"

  [[categories.images]]
  filename = "20240422_194029.jpg"

  [[categories.images]]
  filename = "DM100825.JPG"
  alt = "Forest trail"
`

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gallery.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTomlCatalogSource(t *testing.T) {
	source := NewTomlCatalogSource(writeCatalogFile(t, testCatalogToml))

	catalog, err := LoadCatalog(context.Background(), source, "/photos")
	require.NoError(t, err)

	categories := catalog.Categories()
	require.Len(t, categories, 2)

	sunsets := categories[0]
	assert.Equal(t, "Sunsets & Skies", sunsets.Name)
	assert.Equal(t, "Evenings over the bay", *sunsets.Description)
	assert.Nil(t, sunsets.Cover)
	require.Len(t, sunsets.Images, 2)
	assert.Nil(t, sunsets.Images[0].Title)
	assert.Equal(t, "Pier", *sunsets.Images[1].Title)
	require.NotNil(t, sunsets.Images[1].TakenAt)
	assert.True(t, time.Date(2024, 4, 22, 19, 40, 29, 0, time.UTC).Equal(*sunsets.Images[1].TakenAt))

	nature := categories[1]
	assert.Equal(t, "DM100825.JPG", nature.CoverFilename())
	assert.Equal(t, "Spring 2024", *nature.Date)
	assert.Equal(t, "Forest trail", *nature.Images[1].Alt)
	assert.Equal(t, "/photos/nature/20240422_194029.jpg", catalog.ImageURL("Nature", nature.Images[0].Filename))
}

func TestTomlCatalogSource_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{
			name:    "Malformed",
			content: `[[categories]`,
		},
		{
			name: "UnknownKey",
			content: `
[[categories]]
name = "Nature"
colour = "green"
`,
		},
		{
			name: "DuplicateCategory",
			content: `
[[categories]]
name = "Nature"
[[categories]]
name = "Nature"
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			source := NewTomlCatalogSource(writeCatalogFile(t, tc.content))
			catalog, err := LoadCatalog(context.Background(), source, "/photos")
			assert.Error(t, err)
			assert.Nil(t, catalog)
		})
	}

	_, err := NewTomlCatalogSource(filepath.Join(t.TempDir(), "missing.toml")).LoadCategories(context.Background())
	assert.Error(t, err)
}
