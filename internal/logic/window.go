package logic

// Window is a fixed-capacity ring of raw readings with a running sum, so
// Average is O(1). The buffer is zero-filled, which makes Average well
// defined from the first tick even before the window has fully turned over.
// Not safe for concurrent use; caller must synchronize.
type Window struct {
	buf  [WindowSize]int
	sum  int
	next int // next write position
	seen int // total ingests, saturating at WindowSize
}

// NewWindow returns a zero-filled window.
func NewWindow() *Window {
	return &Window{}
}

// Ingest replaces the oldest reading with v and updates the running sum.
func (w *Window) Ingest(v int) {
	w.sum -= w.buf[w.next]
	w.buf[w.next] = v
	w.sum += v
	w.next = (w.next + 1) % WindowSize
	if w.seen < WindowSize {
		w.seen++
	}
}

// Average returns the truncating integer mean over the window.
func (w *Window) Average() int {
	return w.sum / WindowSize
}

// Reset clears the window to its zero-filled startup state, re-entering the
// warm-up phase. Used after recalibration so readings taken against the old
// baseline cannot be judged against the new one.
func (w *Window) Reset() {
	*w = Window{}
}

// Warm reports whether the window has fully turned over since startup.
// Until then the zero-filled slots drag the average down, which would look
// like a beam interruption to the detector.
func (w *Window) Warm() bool {
	return w.seen == WindowSize
}
