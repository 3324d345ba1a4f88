package gallery

// CategoryCard is a category on the grid of covers
type CategoryCard struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	CoverURL    string  `json:"coverUrl"`
	ImageCount  int     `json:"imageCount"`
}

type ImageView struct {
	Filename string  `json:"filename"`
	URL      string  `json:"url"`
	Title    *string `json:"title,omitempty"`
	Alt      *string `json:"alt,omitempty"`
}

// View is the display ready projection of a State
type View struct {
	Open     bool           `json:"open"`
	Grid     []CategoryCard `json:"grid"`
	Category *CategoryCard  `json:"category,omitempty"`
	// Images are the filtered images of the open category
	Images       []ImageView `json:"images"`
	CurrentIndex int         `json:"currentIndex"`
	Current      *ImageView  `json:"current,omitempty"`
	// Placeholder is set when the open category has no loadable image left
	Placeholder         bool     `json:"placeholder"`
	Direction           int      `json:"direction"`
	ImagePosition       Position `json:"imagePosition"`
	FilmstripTranslateX float64  `json:"filmstripTranslateX"`
}

// Cards is the grid of a visitor without a session, every image counted
func (c *Catalog) Cards() []CategoryCard {
	cards := make([]CategoryCard, 0, len(c.categories))
	for i := range c.categories {
		cards = append(cards, c.card(&c.categories[i]))
	}
	return cards
}

func (c *Catalog) card(cat *Category) CategoryCard {
	card := CategoryCard{
		Name:        cat.Name,
		Description: cat.Description,
		Date:        cat.Date,
		ImageCount:  len(cat.Images),
	}
	if cover := cat.CoverFilename(); cover != "" {
		card.CoverURL = c.ImageURL(cat.Name, cover)
	}
	return card
}

// cards is the grid of a session, counting only the images not failed in it
func (r *Reducer) cards(state State) []CategoryCard {
	cards := make([]CategoryCard, 0, len(r.catalog.categories))
	for i := range r.catalog.categories {
		cards = append(cards, r.card(state, &r.catalog.categories[i]))
	}
	return cards
}

func (r *Reducer) card(state State, cat *Category) CategoryCard {
	card := r.catalog.card(cat)
	card.ImageCount = len(r.FilteredImages(state, cat.Name))
	return card
}

func (r *Reducer) View(state State) View {
	view := View{
		Open:                state.IsOpen(),
		Grid:                r.cards(state),
		Images:              []ImageView{},
		Direction:           state.Direction,
		ImagePosition:       state.ImagePosition,
		FilmstripTranslateX: state.DragInfo.TranslateX,
	}
	if !view.Open {
		return view
	}

	name := *state.SelectedCategory
	cat, err := r.catalog.Category(name)
	if err != nil {
		view.Placeholder = true
		return view
	}

	card := r.card(state, cat)
	view.Category = &card

	for _, img := range r.FilteredImages(state, name) {
		view.Images = append(view.Images, ImageView{
			Filename: img.Filename,
			URL:      r.catalog.ImageURL(name, img.Filename),
			Title:    img.Title,
			Alt:      img.Alt,
		})
	}

	if len(view.Images) == 0 {
		view.Placeholder = true
		return view
	}

	view.CurrentIndex = state.CurrentImageIndex
	if view.CurrentIndex >= len(view.Images) {
		view.CurrentIndex = len(view.Images) - 1
	}
	current := view.Images[view.CurrentIndex]
	view.Current = &current

	return view
}
