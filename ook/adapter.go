package ook

// sampleAdapter is the pull interface over an externally owned,
// temporarily valid sample slice that spec.md §4.2 describes: a read
// cursor riding on top of a Coroutine, so a protocol body can call
// next/peek/countUntil as plain blocking-looking calls that actually
// suspend back to the host whenever the installed slice runs dry.
type sampleAdapter struct {
	co   Coroutine
	data []Sample
	pos  int
}

// hasNext reports whether the cursor has not yet reached the end of
// the installed slice. Non-suspending.
func (a *sampleAdapter) hasNext() bool {
	return a.pos < len(a.data)
}

// peek returns the next sample without advancing the cursor, yielding
// and retrying for as long as the slice is exhausted.
func (a *sampleAdapter) peek() Sample {
	for !a.hasNext() {
		a.co.Yield()
	}
	return a.data[a.pos]
}

// next returns the next sample and advances the cursor.
func (a *sampleAdapter) next() Sample {
	s := a.peek()
	a.pos++
	return s
}

// countUntil advances, counting samples, until the first one for which
// pred holds (which is also consumed); that matching sample is not
// counted. max == -1 means unbounded; otherwise once count would
// exceed max without a match, it panics with ErrTimeout, to be
// recovered at the body's top level exactly like the original's thrown
// timeout_error.
func (a *sampleAdapter) countUntil(pred func(Sample) bool, max int) int {
	count := 0
	for {
		s := a.next()
		if pred(s) {
			return count
		}
		count++
		if max != -1 && count > max {
			panic(ErrTimeout)
		}
	}
}

// waitUntil is countUntil with the count discarded.
func (a *sampleAdapter) waitUntil(pred func(Sample) bool, max int) {
	a.countUntil(pred, max)
}

// pushSamples installs a new slice and drives the coroutine to
// consume all of it, resetting automatically between packet reads: if
// Body returns (OnExit fires) while samples remain, the next Resume
// must start a fresh Body invocation, matching spec.md §4.2's host
// entry point description.
func (a *sampleAdapter) pushSamples(samples []Sample) {
	a.data = samples
	a.pos = 0
	for a.hasNext() {
		a.co.Resume()
		if a.co.Finished() {
			a.co.Reset()
		}
	}
}
