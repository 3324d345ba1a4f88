package gallery

import (
	"context"
	"fmt"
	"time"

	"github.com/mayer-domminic/portfoliocom/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PsqlCatalogSource reads the categories from the gallery_category and
// gallery_image tables, see schema.sql
type PsqlCatalogSource struct {
	db *pgxpool.Pool
}

func NewPsqlCatalogSource(db *pgxpool.Pool) *PsqlCatalogSource {
	return &PsqlCatalogSource{
		db: db,
	}
}

func (s *PsqlCatalogSource) LoadCategories(ctx context.Context) (_ []Category, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gallery.categories")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := s.db.Query(
		ctx,
		`
			SELECT
			    c.id, c.name, c.description, c.date, c.cover,
			    i.filename, i.title, i.alt, i.taken_at
			FROM gallery_category c
			LEFT JOIN gallery_image i ON i.category_id = c.id
			ORDER BY c.position, c.id, i.position, i.id
		`,
	)
	if err != nil {
		return nil, fmt.Errorf("gallery categories [query]: %w", err)
	}
	defer rows.Close()

	var categories []Category
	lastCategoryID := -1
	for rows.Next() {
		var (
			categoryID int
			category   Category
			filename   *string
			title, alt *string
			takenAt    *time.Time
		)
		if err := rows.Scan(
			&categoryID,
			&category.Name,
			&category.Description,
			&category.Date,
			&category.Cover,
			&filename,
			&title,
			&alt,
			&takenAt,
		); err != nil {
			return nil, fmt.Errorf("gallery categories [scan]: %w", err)
		}

		if categoryID != lastCategoryID {
			category.Images = []Image{}
			categories = append(categories, category)
			lastCategoryID = categoryID
		}

		// categories without images come with a single row of null image columns
		if filename == nil {
			continue
		}

		last := &categories[len(categories)-1]
		last.Images = append(last.Images, Image{
			Filename: *filename,
			Title:    title,
			Alt:      alt,
			TakenAt:  takenAt,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("gallery categories [rows]: %w", err)
	}

	return categories, nil
}
