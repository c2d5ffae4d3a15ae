package gesture

import (
	"sync"
	"sync/atomic"
)

// Params holds the engine's tuning.
type Params struct {
	Scale          ScaleController
	Trigger        TriggerController
	SwapHandedness bool
}

// DefaultParams returns the tuned engine using picker for color changes.
func DefaultParams(picker ColorPicker) Params {
	return Params{
		Scale:   DefaultScaleController(),
		Trigger: DefaultTriggerController(picker),
	}
}

// Result describes what one frame did.
type Result struct {
	State  State
	Roles  Roles
	Hit    bool
	Event  *TriggerEvent
	Status string
}

// Step is the per-frame transition. It does not touch the engine's own state,
// so it can drive any State value, including replays and tests.
func (p Params) Step(prev State, f Frame) (State, Result) {
	roles := Route(f.Hands, p.SwapHandedness)

	next := p.Scale.Update(prev, roles.Control)

	// The hit volume follows the scale the renderer shows this frame.
	sphere := p.Trigger.Sphere(next.CurrentScale)
	next, hit, ev := p.Trigger.Update(next, roles.Trigger, sphere, f.TimestampMs)

	return next, Result{
		State:  next,
		Roles:  roles,
		Hit:    hit,
		Event:  ev,
		Status: Status(len(f.Hands)),
	}
}

// Engine owns the interaction state. Process must be called from one
// goroutine at a time (the tracker callback); Snapshot may be called from
// any goroutine.
type Engine struct {
	params Params
	state  State
	seq    uint64

	snapshot atomic.Pointer[Snapshot]

	mu        sync.Mutex
	listeners []func(TriggerEvent)
}

// NewEngine creates an engine at the default state.
func NewEngine(params Params) *Engine {
	e := &Engine{params: params}
	e.Reset()
	return e
}

// Reset restores the default state and publishes it. It must not race with
// Process.
func (e *Engine) Reset() {
	e.state = DefaultState()
	e.seq = 0
	e.publish(Result{State: e.state, Status: Status(0)}, Frame{})
}

// State returns the current state. Like Process, it belongs to the tracker
// goroutine.
func (e *Engine) State() State {
	return e.state
}

// OnTrigger registers fn to be called synchronously for every accepted
// color change.
func (e *Engine) OnTrigger(fn func(TriggerEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Process applies one frame, publishes the new snapshot and notifies trigger
// listeners.
func (e *Engine) Process(f Frame) Result {
	next, res := e.params.Step(e.state, f)
	e.state = next
	e.seq++
	e.publish(res, f)

	if res.Event != nil {
		e.mu.Lock()
		listeners := append([]func(TriggerEvent){}, e.listeners...)
		e.mu.Unlock()

		for _, fn := range listeners {
			fn(*res.Event)
		}
	}
	return res
}

// Snapshot returns the most recently published view. The value is never
// mutated after publication.
func (e *Engine) Snapshot() Snapshot {
	return *e.snapshot.Load()
}

func (e *Engine) publish(res Result, f Frame) {
	s := res.State
	e.snapshot.Store(&Snapshot{
		Seq:         e.seq,
		Scale:       s.CurrentScale,
		TargetScale: s.TargetScale,
		Color:       s.Color,
		Status:      res.Status,
		ControlHand: res.Roles.Control != nil,
		TriggerHand: res.Roles.Trigger != nil,
		Hit:         res.Hit,
		Triggers:    s.Triggers,
		TimestampMs: f.TimestampMs,
		Hands:       f.Hands,
	})
}
