package gallery

import "time"

const (
	// MaxImageOffset bounds the main image drag offset on both axes, in px
	MaxImageOffset = 100
	// ImageSwipeThreshold is the horizontal main image offset past which
	// releasing the drag navigates to the neighbour image
	ImageSwipeThreshold = 50
	// FilmstripSwipeThreshold is the filmstrip translate past which releasing
	// the drag navigates
	FilmstripSwipeThreshold = 100
	// ScrollRestoreDelay lets the grid layout settle before the saved scroll
	// offset is restored on close
	ScrollRestoreDelay = 100 * time.Millisecond
)

const (
	DirectionNone     = 0
	DirectionForward  = 1
	DirectionBackward = -1
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DragInfo is the filmstrip swipe session
type DragInfo struct {
	IsDragging bool    `json:"isDragging"`
	StartX     float64 `json:"startX"`
	TranslateX float64 `json:"translateX"`
}

// ImageDrag is the main image pan session
type ImageDrag struct {
	IsDragging bool    `json:"isDragging"`
	AnchorX    float64 `json:"anchorX"`
	AnchorY    float64 `json:"anchorY"`
}

// State is the whole gallery viewer state of a single visitor.
// CurrentImageIndex always points into the filtered image list of
// SelectedCategory, or is 0 when that list is empty.
type State struct {
	SelectedCategory  *string  `json:"selectedCategory"`
	OpenCategoryID    *string  `json:"openCategoryId"`
	CurrentImageIndex int      `json:"currentImageIndex"`
	ImagePosition     Position `json:"imagePosition"`
	DragInfo          DragInfo `json:"dragInfo"`
	// LoadedImages maps image URLs to their load status, a missing
	// entry means the image is assumed loadable
	LoadedImages   map[string]bool `json:"loadedImages"`
	ScrollPosition float64         `json:"scrollPosition"`
	ImageDrag      ImageDrag       `json:"imageDrag"`
	Direction      int             `json:"direction"`
}

func NewState() State {
	return State{
		LoadedImages: map[string]bool{},
	}
}

func (s State) IsOpen() bool {
	return s.SelectedCategory != nil
}

// IsLoadable reports whether the image at url was not reported as failed
func (s State) IsLoadable(url string) bool {
	loaded, ok := s.LoadedImages[url]
	return !ok || loaded
}
