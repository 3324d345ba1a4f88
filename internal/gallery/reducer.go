package gallery

import "math"

// Reducer applies actions to a gallery State. It only reads the catalog,
// so a single Reducer is shared between all the sessions.
type Reducer struct {
	catalog *Catalog
}

func NewReducer(catalog *Catalog) *Reducer {
	return &Reducer{
		catalog: catalog,
	}
}

// Reduce returns the state after applying action to state. It has no side
// effects and never modifies the given state; actions that do not apply to
// the current state return it unchanged.
func (r *Reducer) Reduce(state State, action Action) State {
	switch a := action.(type) {
	case OpenCategory:
		return r.openCategory(state, a)
	case CloseCategory:
		return closeCategory(state)
	case SetCurrentImage:
		return r.setCurrentImage(state, a.Index)
	case NextImage:
		return r.step(state, DirectionForward)
	case PrevImage:
		return r.step(state, DirectionBackward)
	case ResetImagePosition:
		state.ImagePosition = Position{}
		return state
	case StartImageDrag:
		return startImageDrag(state, a)
	case MoveImageDrag:
		return moveImageDrag(state, a)
	case EndImageDrag:
		return r.endImageDrag(state)
	case StartDrag:
		return startDrag(state, a)
	case UpdateDrag:
		if !state.DragInfo.IsDragging {
			return state
		}
		state.DragInfo.TranslateX = a.X - state.DragInfo.StartX
		return state
	case EndDrag:
		return r.endDrag(state)
	case SetImageLoaded:
		return r.setImageLoaded(state, a)
	default:
		return state
	}
}

// FilteredImages returns the images of category that were not reported as
// failed to load in state.
func (r *Reducer) FilteredImages(state State, category string) []Image {
	cat, err := r.catalog.Category(category)
	if err != nil {
		return nil
	}

	filtered := make([]Image, 0, len(cat.Images))
	for _, img := range cat.Images {
		if state.IsLoadable(r.catalog.ImageURL(category, img.Filename)) {
			filtered = append(filtered, img)
		}
	}

	return filtered
}

func (r *Reducer) filteredCount(state State) int {
	if !state.IsOpen() {
		return 0
	}
	return len(r.FilteredImages(state, *state.SelectedCategory))
}

func (r *Reducer) openCategory(state State, a OpenCategory) State {
	if _, err := r.catalog.Category(a.Category); err != nil {
		return state
	}

	category := a.Category
	state.SelectedCategory = &category
	state.OpenCategoryID = &category
	state.CurrentImageIndex = 0
	state.ImagePosition = Position{}
	state.ImageDrag = ImageDrag{}
	state.DragInfo = DragInfo{}
	state.Direction = DirectionNone
	state.ScrollPosition = a.ScrollY
	return state
}

// closeCategory keeps ScrollPosition, it is restored after the close
func closeCategory(state State) State {
	state.SelectedCategory = nil
	state.OpenCategoryID = nil
	state.CurrentImageIndex = 0
	state.ImagePosition = Position{}
	state.ImageDrag = ImageDrag{}
	state.DragInfo = DragInfo{}
	state.Direction = DirectionNone
	return state
}

func (r *Reducer) setCurrentImage(state State, index int) State {
	count := r.filteredCount(state)
	if count == 0 || index < 0 || index >= count {
		return state
	}

	if index > state.CurrentImageIndex {
		state.Direction = DirectionForward
	} else {
		state.Direction = DirectionBackward
	}
	state.CurrentImageIndex = index
	state.ImagePosition = Position{}
	return state
}

// step moves the current index circularly over the filtered images
func (r *Reducer) step(state State, direction int) State {
	if state.ImageDrag.IsDragging {
		return state
	}

	count := r.filteredCount(state)
	if count == 0 {
		return state
	}

	state.CurrentImageIndex = ((state.CurrentImageIndex+direction)%count + count) % count
	state.Direction = direction
	state.ImagePosition = Position{}
	return state
}

func startImageDrag(state State, a StartImageDrag) State {
	if !state.IsOpen() || state.DragInfo.IsDragging || state.ImageDrag.IsDragging {
		return state
	}

	state.ImageDrag = ImageDrag{
		IsDragging: true,
		AnchorX:    a.X - state.ImagePosition.X,
		AnchorY:    a.Y - state.ImagePosition.Y,
	}
	return state
}

func moveImageDrag(state State, a MoveImageDrag) State {
	if !state.ImageDrag.IsDragging {
		return state
	}

	state.ImagePosition = Position{
		X: clampOffset(a.X - state.ImageDrag.AnchorX),
		Y: clampOffset(a.Y - state.ImageDrag.AnchorY),
	}
	return state
}

// endImageDrag navigates when the image was dragged far enough sideways:
// dragged to the left shows the next image, to the right the previous one.
// The image always snaps back to the origin.
func (r *Reducer) endImageDrag(state State) State {
	if !state.ImageDrag.IsDragging {
		return state
	}

	offsetX := state.ImagePosition.X
	state.ImageDrag = ImageDrag{}

	switch {
	case offsetX < -ImageSwipeThreshold:
		state = r.step(state, DirectionForward)
	case offsetX > ImageSwipeThreshold:
		state = r.step(state, DirectionBackward)
	}

	state.ImagePosition = Position{}
	return state
}

func startDrag(state State, a StartDrag) State {
	if !state.IsOpen() || state.ImageDrag.IsDragging {
		return state
	}

	state.DragInfo = DragInfo{
		IsDragging: true,
		StartX:     a.X,
	}
	return state
}

func (r *Reducer) endDrag(state State) State {
	if !state.DragInfo.IsDragging {
		return state
	}

	translateX := state.DragInfo.TranslateX
	state.DragInfo = DragInfo{}

	switch {
	case translateX > FilmstripSwipeThreshold:
		state = r.step(state, DirectionBackward)
	case translateX < -FilmstripSwipeThreshold:
		state = r.step(state, DirectionForward)
	}

	return state
}

// setImageLoaded records the load status of an image. A failed image stays
// failed for the rest of the session, and the current index is clamped to
// the shrunk filtered list.
func (r *Reducer) setImageLoaded(state State, a SetImageLoaded) State {
	if current, ok := state.LoadedImages[a.Src]; ok && (current == a.Loaded || !current) {
		return state
	}

	loadedImages := make(map[string]bool, len(state.LoadedImages)+1)
	for src, loaded := range state.LoadedImages {
		loadedImages[src] = loaded
	}
	loadedImages[a.Src] = a.Loaded
	state.LoadedImages = loadedImages

	if !state.IsOpen() {
		return state
	}

	count := r.filteredCount(state)
	switch {
	case count == 0:
		state.CurrentImageIndex = 0
	case state.CurrentImageIndex >= count:
		state.CurrentImageIndex = count - 1
	}

	return state
}

func clampOffset(v float64) float64 {
	return math.Max(-MaxImageOffset, math.Min(MaxImageOffset, v))
}
