package gallery

import (
	"context"
	"fmt"
	"strings"

	"github.com/mayer-domminic/portfoliocom/internal/telemetry/tracing"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

// CatalogSource provides the gallery categories, in display order
type CatalogSource interface {
	LoadCategories(ctx context.Context) ([]Category, error)
}

// LoadCatalog builds the catalog once from source
func LoadCatalog(ctx context.Context, source CatalogSource, imagesBaseURL string) (_ *Catalog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gallery.catalog.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	categories, err := source.LoadCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	catalog, err := NewCatalog(imagesBaseURL, categories)
	if err != nil {
		return nil, fmt.Errorf("new catalog: %w", err)
	}

	imagesCount := 0
	for _, c := range categories {
		imagesCount += len(c.Images)
	}
	log.Infof("gallery catalog loaded: %d categories, %d images", len(categories), imagesCount)

	return catalog, nil
}

type tomlCatalog struct {
	Categories []Category `toml:"categories"`
}

// TomlCatalogSource reads the categories from a TOML file with a
// [[categories]] table array, each with its own [[categories.images]].
type TomlCatalogSource struct {
	path string
}

func NewTomlCatalogSource(path string) *TomlCatalogSource {
	return &TomlCatalogSource{
		path: path,
	}
}

func (s *TomlCatalogSource) LoadCategories(_ context.Context) ([]Category, error) {
	var c tomlCatalog
	meta, err := toml.DecodeFile(s.path, &c)
	if err != nil {
		return nil, fmt.Errorf("decode gallery catalog [%s]: %w", s.path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("gallery catalog [%s]: unknown keys: %s", s.path, strings.Join(keys, ", "))
	}

	return c.Categories, nil
}
