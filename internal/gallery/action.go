package gallery

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownAction = errors.New("unknown action")

const (
	ActionTypeOpenCategory       = "OPEN_CATEGORY"
	ActionTypeCloseCategory      = "CLOSE_CATEGORY"
	ActionTypeSetCurrentImage    = "SET_CURRENT_IMAGE"
	ActionTypeNextImage          = "NEXT_IMAGE"
	ActionTypePrevImage          = "PREV_IMAGE"
	ActionTypeResetImagePosition = "RESET_IMAGE_POSITION"
	ActionTypeStartImageDrag     = "START_IMAGE_DRAG"
	ActionTypeMoveImageDrag      = "MOVE_IMAGE_DRAG"
	ActionTypeEndImageDrag       = "END_IMAGE_DRAG"
	ActionTypeStartDrag          = "START_DRAG"
	ActionTypeUpdateDrag         = "UPDATE_DRAG"
	ActionTypeEndDrag            = "END_DRAG"
	ActionTypeSetImageLoaded     = "SET_IMAGE_LOADED"
)

// Action is one of the gallery viewer events below. The set is closed,
// the Reducer handles every variant.
type Action interface {
	Type() string
	isAction()
}

type OpenCategory struct {
	Category string  `json:"category"`
	ScrollY  float64 `json:"scrollY"`
}

type CloseCategory struct{}

// SetCurrentImage is a thumbnail click, jumping directly to Index
type SetCurrentImage struct {
	Index int `json:"index"`
}

type NextImage struct{}

type PrevImage struct{}

type ResetImagePosition struct{}

type StartImageDrag struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type MoveImageDrag struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type EndImageDrag struct{}

// StartDrag starts a filmstrip swipe at pointer position X
type StartDrag struct {
	X float64 `json:"x"`
}

type UpdateDrag struct {
	X float64 `json:"x"`
}

type EndDrag struct{}

type SetImageLoaded struct {
	Src    string `json:"src"`
	Loaded bool   `json:"loaded"`
}

func (OpenCategory) Type() string       { return ActionTypeOpenCategory }
func (CloseCategory) Type() string      { return ActionTypeCloseCategory }
func (SetCurrentImage) Type() string    { return ActionTypeSetCurrentImage }
func (NextImage) Type() string          { return ActionTypeNextImage }
func (PrevImage) Type() string          { return ActionTypePrevImage }
func (ResetImagePosition) Type() string { return ActionTypeResetImagePosition }
func (StartImageDrag) Type() string     { return ActionTypeStartImageDrag }
func (MoveImageDrag) Type() string      { return ActionTypeMoveImageDrag }
func (EndImageDrag) Type() string       { return ActionTypeEndImageDrag }
func (StartDrag) Type() string          { return ActionTypeStartDrag }
func (UpdateDrag) Type() string         { return ActionTypeUpdateDrag }
func (EndDrag) Type() string            { return ActionTypeEndDrag }
func (SetImageLoaded) Type() string     { return ActionTypeSetImageLoaded }

func (OpenCategory) isAction()       {}
func (CloseCategory) isAction()      {}
func (SetCurrentImage) isAction()    {}
func (NextImage) isAction()          {}
func (PrevImage) isAction()          {}
func (ResetImagePosition) isAction() {}
func (StartImageDrag) isAction()     {}
func (MoveImageDrag) isAction()      {}
func (EndImageDrag) isAction()       {}
func (StartDrag) isAction()          {}
func (UpdateDrag) isAction()         {}
func (EndDrag) isAction()            {}
func (SetImageLoaded) isAction()     {}

// DecodeAction parses the wire form of an action, a flat JSON object with
// a "type" field, e.g. {"type": "OPEN_CATEGORY", "category": "Nature", "scrollY": 420}
func DecodeAction(data []byte) (Action, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal action envelope: %w", err)
	}

	var action Action
	var err error
	switch envelope.Type {
	case ActionTypeOpenCategory:
		action, err = decodeInto[OpenCategory](data)
	case ActionTypeCloseCategory:
		action = CloseCategory{}
	case ActionTypeSetCurrentImage:
		action, err = decodeInto[SetCurrentImage](data)
	case ActionTypeNextImage:
		action = NextImage{}
	case ActionTypePrevImage:
		action = PrevImage{}
	case ActionTypeResetImagePosition:
		action = ResetImagePosition{}
	case ActionTypeStartImageDrag:
		action, err = decodeInto[StartImageDrag](data)
	case ActionTypeMoveImageDrag:
		action, err = decodeInto[MoveImageDrag](data)
	case ActionTypeEndImageDrag:
		action = EndImageDrag{}
	case ActionTypeStartDrag:
		action, err = decodeInto[StartDrag](data)
	case ActionTypeUpdateDrag:
		action, err = decodeInto[UpdateDrag](data)
	case ActionTypeEndDrag:
		action = EndDrag{}
	case ActionTypeSetImageLoaded:
		action, err = decodeInto[SetImageLoaded](data)
	default:
		return nil, fmt.Errorf("%w: [%s]", ErrUnknownAction, envelope.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal action [%s]: %w", envelope.Type, err)
	}

	return action, nil
}

func decodeInto[T Action](data []byte) (Action, error) {
	var a T
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return a, nil
}
