package monitor

import "sync"

// DefaultHistorySize is the default number of samples retained per gauge.
const DefaultHistorySize = 60

// History keeps a ring buffer of recent values per dashboard element ID.
// It is safe for concurrent use.
type History struct {
	mu     sync.RWMutex
	size   int
	series map[string]*ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a history tracker with the specified buffer size.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:   size,
		series: make(map[string]*ringBuffer),
	}
}

// Push appends a sample for id. Empty IDs are ignored.
func (h *History) Push(id string, value float64) {
	if id == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	rb, ok := h.series[id]
	if !ok {
		rb = newRingBuffer(h.size)
		h.series[id] = rb
	}
	rb.push(value)
}

// Last returns up to count samples for id, oldest first.
func (h *History) Last(id string, count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rb, ok := h.series[id]
	if !ok {
		return nil
	}
	return rb.getLast(count)
}

// All returns every retained sample for id, oldest first.
func (h *History) All(id string) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rb, ok := h.series[id]
	if !ok {
		return nil
	}
	return rb.getAll()
}

// Count returns the number of samples stored for id.
func (h *History) Count(id string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rb, ok := h.series[id]
	if !ok {
		return 0
	}
	return rb.count
}

// Clear removes the history of id.
func (h *History) Clear(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.series, id)
}

// ClearAll removes all history.
func (h *History) ClearAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.series = make(map[string]*ringBuffer)
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}

	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)

	// head is the next write slot, so the newest value sits at head-1.
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}

	return result
}

func (r *ringBuffer) getAll() []float64 {
	return r.getLast(r.count)
}
