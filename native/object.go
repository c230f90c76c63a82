package native

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	// ErrUseAfterRelease is returned (or panicked with) when a method is
	// invoked on an object that has already been released.
	ErrUseAfterRelease = errors.New("native: use after release")

	// ErrDoubleRelease is returned when Release is called on an object that
	// is already released.
	ErrDoubleRelease = errors.New("native: double release")
)

// State is the lifecycle state of a native object.
type State int32

const (
	// StateLive objects accept method calls.
	StateLive State = iota
	// StateReleased is terminal.
	StateReleased
)

// String returns "live" or "released".
func (s State) String() string {
	if s == StateLive {
		return "live"
	}
	return "released"
}

// Object tracks the lifecycle of one piece of native state.
//
// Wrappers hold an *Object and guard each method with Check or MustLive.
// The zero value is not usable; obtain objects from Acquire.
type Object struct {
	kind  string
	id    uuid.UUID
	state State
	free  func() error
}

// Acquire registers a new live object of the given kind. The free function,
// which may be nil, runs exactly once when the object is released.
func Acquire(kind string, free func() error) *Object {
	o := &Object{
		kind: kind,
		id:   uuid.New(),
		free: free,
	}
	counterFor(kind).Add(1)
	if traceLifecycle.Load() {
		Logger().Debug("native: acquired", "kind", kind, "id", o.id)
	}
	return o
}

// Kind returns the kind name given to Acquire, e.g. "Mat".
func (o *Object) Kind() string { return o.kind }

// ID returns the unique identifier assigned at acquisition.
func (o *Object) ID() string { return o.id.String() }

// State returns the current lifecycle state.
func (o *Object) State() State { return o.state }

// Live reports whether the object has not been released.
func (o *Object) Live() bool { return o.state == StateLive }

// Check returns nil while the object is live, otherwise an error wrapping
// ErrUseAfterRelease that names the kind and operation.
func (o *Object) Check(op string) error {
	if o.state == StateLive {
		return nil
	}
	return fmt.Errorf("%s.%s: %w", o.kind, op, ErrUseAfterRelease)
}

// MustLive panics with the Check error when the object is released.
// It is meant for accessors without an error result.
func (o *Object) MustLive(op string) {
	if err := o.Check(op); err != nil {
		panic(err)
	}
}

// Release moves the object to the Released state and runs its free function.
// Calling Release again returns an error wrapping ErrDoubleRelease.
func (o *Object) Release() error {
	if o.state == StateReleased {
		Logger().Warn("native: double release", "kind", o.kind, "id", o.id)
		return fmt.Errorf("%s.Release: %w", o.kind, ErrDoubleRelease)
	}
	o.state = StateReleased
	counterFor(o.kind).Add(-1)

	if traceLifecycle.Load() {
		Logger().Debug("native: released", "kind", o.kind, "id", o.id)
	}

	if o.free == nil {
		return nil
	}
	free := o.free
	o.free = nil
	if err := free(); err != nil {
		return fmt.Errorf("%s.Release: %w", o.kind, err)
	}
	return nil
}

var liveCounters sync.Map // kind -> *atomic.Int64

func counterFor(kind string) *atomic.Int64 {
	if c, ok := liveCounters.Load(kind); ok {
		return c.(*atomic.Int64)
	}
	c, _ := liveCounters.LoadOrStore(kind, new(atomic.Int64))
	return c.(*atomic.Int64)
}

// Live returns the number of acquired but unreleased objects of a kind.
func Live(kind string) int64 {
	return counterFor(kind).Load()
}

// LiveTotal returns the number of acquired but unreleased objects of all
// kinds.
func LiveTotal() int64 {
	var total int64
	liveCounters.Range(func(_, v any) bool {
		total += v.(*atomic.Int64).Load()
		return true
	})
	return total
}
