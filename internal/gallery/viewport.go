package gallery

import "time"

// Viewport is the page the gallery is shown in. All the document level side
// effects of the viewer go through it.
type Viewport interface {
	ScrollY() float64
	LockScroll()
	UnlockScroll()
	// RestoreScroll scrolls the page back to offset once after has passed
	RestoreScroll(offset float64, after time.Duration)
}

const (
	EffectLockScroll    = "LOCK_SCROLL"
	EffectUnlockScroll  = "UNLOCK_SCROLL"
	EffectRestoreScroll = "RESTORE_SCROLL"
)

type Effect struct {
	Type    string   `json:"type"`
	Offset  *float64 `json:"offset,omitempty"`
	DelayMs int64    `json:"delayMs,omitempty"`
}

// EffectRecorder is a Viewport that records the side effects instead of
// performing them, so they can be handed over to the browser.
type EffectRecorder struct {
	scrollY float64
	effects []Effect
}

func NewEffectRecorder(scrollY float64) *EffectRecorder {
	return &EffectRecorder{
		scrollY: scrollY,
		effects: []Effect{},
	}
}

func (r *EffectRecorder) ScrollY() float64 {
	return r.scrollY
}

func (r *EffectRecorder) LockScroll() {
	r.effects = append(r.effects, Effect{Type: EffectLockScroll})
}

func (r *EffectRecorder) UnlockScroll() {
	r.effects = append(r.effects, Effect{Type: EffectUnlockScroll})
}

func (r *EffectRecorder) RestoreScroll(offset float64, after time.Duration) {
	r.effects = append(r.effects, Effect{
		Type:    EffectRestoreScroll,
		Offset:  &offset,
		DelayMs: after.Milliseconds(),
	})
}

func (r *EffectRecorder) Effects() []Effect {
	return r.effects
}
