package gesture

import "github.com/ayusman/neonorb/internal/detector"

// Roles is the per-frame split of hands into control and trigger.
// Either field is nil when that role has no hand this frame.
type Roles struct {
	Control *detector.HandLandmarks
	Trigger *detector.HandLandmarks
}

// Route assigns roles from the tracker's handedness label: a right hand
// controls the scale and a left hand triggers color changes. Hands that are
// incomplete or carry an unknown label are ignored. If two hands share a
// label, the first in tracker order keeps the role. swap exchanges the two
// roles for mirrored camera setups.
//
// Nothing is remembered between frames; a role only moves if the tracker's
// label flips.
func Route(hands []detector.HandLandmarks, swap bool) Roles {
	var r Roles
	for i := range hands {
		h := &hands[i]
		if !h.Complete() {
			continue
		}

		isControl, isTrigger := h.IsRight(), h.IsLeft()
		if swap {
			isControl, isTrigger = isTrigger, isControl
		}

		switch {
		case isControl && r.Control == nil:
			r.Control = h
		case isTrigger && r.Trigger == nil:
			r.Trigger = h
		}
	}
	return r
}
