// Package ook implements a streaming on-off-keyed packet codec: a
// demodulator that turns a stream of thresholded sample magnitudes into
// framed packets, and a modulator that synthesizes the same waveform
// from packet bytes.
package ook

// Coroutine is a single-shot, stackful-in-spirit, symmetric coroutine.
// A caller supplies Body and invokes Resume to advance it; Body calls
// Yield to suspend back to the caller. Reset invalidates whatever
// progress Body has made so the next Resume starts it over from the
// beginning with fresh local state.
//
// The original gr-ook implementation gets this from a pair of
// ucontext_t fibers. Go has no public stackful-coroutine primitive, so
// this type uses one goroutine per instance as its "stack," blocked on
// an unbuffered channel at every suspension point — the green-thread
// strategy the port's design notes call out as portable. Composition
// (the Body/OnExit/OnReset fields), not inheritance, is how callers
// supply behavior.
//
// A Coroutine is not safe for concurrent use: like the fibers it
// replaces, at most one goroutine (the "host") may call its methods at
// a time, and only Body's own goroutine may call Yield.
type Coroutine struct {
	// Body is the coroutine's entry point. It must call Yield (directly
	// or transitively) whenever it would otherwise block on more input
	// or output becoming available.
	Body func()

	// OnExit fires exactly once when Body returns, whether normally or
	// via an internally-recovered error. It does not fire when Reset
	// cancels a suspended Body.
	OnExit func()

	// OnReset fires immediately before every fresh entry into Body,
	// including the very first one.
	OnReset func()

	state    coroutineState
	resumeCh chan abortSignal
	doneCh   chan struct{}
}

type coroutineState int

const (
	// stateArmed is the zero value: no goroutine running, next Resume
	// starts Body from scratch after firing OnReset.
	stateArmed coroutineState = iota
	stateSuspended
	stateFinished
)

type abortSignal struct {
	abort bool
}

// unwind is panicked by Yield when Reset cancels a suspended Body. It
// is recovered inside run and must never escape to the host.
type unwind struct{}

func (c *Coroutine) ensure() {
	if c.resumeCh == nil {
		c.resumeCh = make(chan abortSignal)
		c.doneCh = make(chan struct{})
	}
}

// Resume transfers control to Body until it yields or returns. If Body
// has already returned (and Reset has not been called since), Resume
// is a no-op.
func (c *Coroutine) Resume() {
	c.ensure()
	switch c.state {
	case stateFinished:
		return
	case stateArmed:
		if c.OnReset != nil {
			c.OnReset()
		}
		c.state = stateSuspended
		go c.run()
		<-c.doneCh
	case stateSuspended:
		c.resumeCh <- abortSignal{}
		<-c.doneCh
	}
}

func (c *Coroutine) run() {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(unwind); ok {
				// Cancelled via Reset mid-flight: no OnExit, body
				// discarded with whatever local state it had.
			} else {
				panic(r)
			}
		} else if c.OnExit != nil {
			c.OnExit()
		}
		c.state = stateFinished
		c.doneCh <- struct{}{}
	}()
	c.Body()
}

// Yield suspends Body back to the most recent Resume call. It is only
// legal to call from within Body's own goroutine.
func (c *Coroutine) Yield() {
	c.doneCh <- struct{}{}
	if sig := <-c.resumeCh; sig.abort {
		panic(unwind{})
	}
}

// Reset invalidates the current Body invocation, if any, discarding
// its local state. The next Resume enters Body from the beginning,
// firing OnReset first.
func (c *Coroutine) Reset() {
	c.ensure()
	if c.state == stateSuspended {
		c.resumeCh <- abortSignal{abort: true}
		<-c.doneCh
	}
	c.state = stateArmed
}

// Finished reports whether Body has run to completion (normally or via
// a recovered error) since the last Reset.
func (c *Coroutine) Finished() bool {
	return c.state == stateFinished
}
