package frame

// #region buffer

// Buffer is a bounded FIFO window of recent frames. Appending past the
// capacity evicts the oldest frame.
type Buffer struct {
	frames []Frame
	cap    int
}

// NewBuffer creates a buffer holding at most capacity frames.
// Capacity is clamped to a minimum of 1.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{cap: capacity}
}

// Append adds a frame, evicting the oldest when full.
func (b *Buffer) Append(f Frame) {
	if len(b.frames) >= b.cap {
		copy(b.frames, b.frames[1:])
		b.frames = b.frames[:len(b.frames)-1]
	}
	b.frames = append(b.frames, f)
}

// Len returns the number of buffered frames.
func (b *Buffer) Len() int {
	return len(b.frames)
}

// Last returns up to n most recent frames, oldest first. The returned
// slice is a copy.
func (b *Buffer) Last(n int) []Frame {
	if n <= 0 || len(b.frames) == 0 {
		return nil
	}
	if n > len(b.frames) {
		n = len(b.frames)
	}
	out := make([]Frame, n)
	copy(out, b.frames[len(b.frames)-n:])
	return out
}

// FIValues returns the FI progression of the whole window, oldest first.
func (b *Buffer) FIValues() []float64 {
	out := make([]float64, len(b.frames))
	for i, f := range b.frames {
		out[i] = f.FI
	}
	return out
}

// #endregion buffer
