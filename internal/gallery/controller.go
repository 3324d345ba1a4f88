package gallery

// Controller drives a single gallery viewer: it owns the viewer State and
// performs the viewport side effects of opening and closing a category.
// A Controller is not safe for concurrent use.
type Controller struct {
	reducer  *Reducer
	viewport Viewport
	state    State
}

func NewController(reducer *Reducer, viewport Viewport, state State) *Controller {
	if state.LoadedImages == nil {
		state.LoadedImages = map[string]bool{}
	}
	return &Controller{
		reducer:  reducer,
		viewport: viewport,
		state:    state,
	}
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) View() View {
	return c.reducer.View(c.state)
}

// Dispatch applies action, with the same side effects as the matching
// Controller method. The scroll offset of an OpenCategory action is taken
// from the viewport.
func (c *Controller) Dispatch(action Action) error {
	switch a := action.(type) {
	case OpenCategory:
		return c.Open(a.Category)
	case CloseCategory:
		c.Close()
	default:
		c.state = c.reducer.Reduce(c.state, action)
	}
	return nil
}

// Open shows category, saving the page scroll offset and locking the page
// scroll. Switching to another category while open keeps the offset saved
// on the first open.
func (c *Controller) Open(category string) error {
	if _, err := c.reducer.catalog.Category(category); err != nil {
		return err
	}

	scrollY := c.viewport.ScrollY()
	wasOpen := c.state.IsOpen()
	if wasOpen {
		scrollY = c.state.ScrollPosition
	}

	c.state = c.reducer.Reduce(c.state, OpenCategory{Category: category, ScrollY: scrollY})
	if !wasOpen {
		c.viewport.LockScroll()
	}
	return nil
}

// Close goes back to the categories grid, and restores the page scroll
// offset saved on open after ScrollRestoreDelay.
func (c *Controller) Close() {
	if !c.state.IsOpen() {
		return
	}

	offset := c.state.ScrollPosition
	c.state = c.reducer.Reduce(c.state, CloseCategory{})
	c.viewport.UnlockScroll()
	c.viewport.RestoreScroll(offset, ScrollRestoreDelay)
}

func (c *Controller) Next() {
	c.state = c.reducer.Reduce(c.state, NextImage{})
}

func (c *Controller) Prev() {
	c.state = c.reducer.Reduce(c.state, PrevImage{})
}

// Jump is a thumbnail click
func (c *Controller) Jump(index int) {
	c.state = c.reducer.Reduce(c.state, SetCurrentImage{Index: index})
}

func (c *Controller) ImagePointerDown(x, y float64) {
	c.state = c.reducer.Reduce(c.state, StartImageDrag{X: x, Y: y})
}

func (c *Controller) ImagePointerMove(x, y float64) {
	c.state = c.reducer.Reduce(c.state, MoveImageDrag{X: x, Y: y})
}

func (c *Controller) ImagePointerUp() {
	c.state = c.reducer.Reduce(c.state, EndImageDrag{})
}

func (c *Controller) FilmstripPointerDown(x float64) {
	c.state = c.reducer.Reduce(c.state, StartDrag{X: x})
}

func (c *Controller) FilmstripPointerMove(x float64) {
	c.state = c.reducer.Reduce(c.state, UpdateDrag{X: x})
}

func (c *Controller) FilmstripPointerUp() {
	c.state = c.reducer.Reduce(c.state, EndDrag{})
}

func (c *Controller) ImageLoaded(src string) {
	c.state = c.reducer.Reduce(c.state, SetImageLoaded{Src: src, Loaded: true})
}

func (c *Controller) ImageFailed(src string) {
	c.state = c.reducer.Reduce(c.state, SetImageLoaded{Src: src, Loaded: false})
}
