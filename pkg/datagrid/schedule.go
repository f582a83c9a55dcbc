package datagrid

// FrameScheduler runs a callback at the host's next frame.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// ManualFrames queues frame callbacks until the host calls Flush, usually
// from its own frame tick.
type ManualFrames struct {
	pending []func()
}

func (m *ManualFrames) RequestFrame(fn func()) {
	m.pending = append(m.pending, fn)
}

// Flush runs the queued callbacks and returns how many ran. Callbacks
// queued while flushing run on the next Flush.
func (m *ManualFrames) Flush() int {
	fns := m.pending
	m.pending = nil
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Pending reports the number of queued callbacks.
func (m *ManualFrames) Pending() int { return len(m.pending) }

// ImmediateFrames runs callbacks synchronously. Useful for batch hosts
// that render once at the end.
type ImmediateFrames struct{}

func (ImmediateFrames) RequestFrame(fn func()) { fn() }
