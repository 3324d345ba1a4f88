package gallery

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

// Image is a single photo of a category. Only the filename is mandatory,
// all other fields are optional and may differ between categories.
type Image struct {
	Filename string     `json:"filename" toml:"filename"`
	Title    *string    `json:"title,omitempty" toml:"title"`
	Alt      *string    `json:"alt,omitempty" toml:"alt"`
	TakenAt  *time.Time `json:"takenAt,omitempty" toml:"taken_at"`
}

// Category is a named, ordered collection of photos sharing a theme
type Category struct {
	Name        string  `json:"name" toml:"name"`
	Description *string `json:"description,omitempty" toml:"description"`
	Date        *string `json:"date,omitempty" toml:"date"`
	// Cover is the filename of the cover image, first image is used if not set
	Cover  *string `json:"cover,omitempty" toml:"cover"`
	Images []Image `json:"images" toml:"images"`
}

// CoverFilename returns the filename of the category cover image,
// or an empty string if the category has no images.
func (c *Category) CoverFilename() string {
	if c.Cover != nil && *c.Cover != "" {
		return *c.Cover
	}
	if len(c.Images) == 0 {
		return ""
	}
	return c.Images[0].Filename
}

// Catalog holds all the categories in display order. It is built once
// and never modified afterwards.
type Catalog struct {
	imagesBaseURL string
	categories    []Category
	byName        map[string]int
}

func NewCatalog(imagesBaseURL string, categories []Category) (*Catalog, error) {
	c := &Catalog{
		imagesBaseURL: strings.TrimSuffix(imagesBaseURL, "/"),
		categories:    make([]Category, 0, len(categories)),
		byName:        make(map[string]int, len(categories)),
	}

	for _, cat := range categories {
		if strings.TrimSpace(cat.Name) == "" {
			return nil, errors.New("category with empty name")
		}
		if _, exists := c.byName[cat.Name]; exists {
			return nil, fmt.Errorf("duplicate category: %s", cat.Name)
		}
		for i, img := range cat.Images {
			if strings.TrimSpace(img.Filename) == "" {
				return nil, fmt.Errorf("category %s: image %d has empty filename", cat.Name, i)
			}
		}

		cat.Images = append([]Image{}, cat.Images...)
		c.byName[cat.Name] = len(c.categories)
		c.categories = append(c.categories, cat)
	}

	return c, nil
}

// Categories returns a copy of the categories, in display order
func (c *Catalog) Categories() []Category {
	return append([]Category{}, c.categories...)
}

func (c *Catalog) Category(name string) (*Category, error) {
	i, ok := c.byName[name]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return &c.categories[i], nil
}

// ImageURL returns the public URL of an image, which is also the key
// used when tracking the image load status.
func (c *Catalog) ImageURL(category, filename string) string {
	return c.imagesBaseURL + "/" + FolderSlug(category) + "/" + filename
}

// FolderSlug maps a category name to its assets folder: lowercased, with
// every run of non-alphanumeric characters replaced by a single hyphen.
// "Sunsets & Skies" -> "sunsets-skies"
func FolderSlug(category string) string {
	var sb strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(category) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingHyphen = false
			sb.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return sb.String()
}
