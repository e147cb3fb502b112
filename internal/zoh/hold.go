package zoh

// Hold is a zero-order-hold register. Latch is its only writer.
type Hold[T any] struct {
	value   T
	at      float64
	latches int
	valid   bool
}

// Latch stores v as sampled at time t.
func (h *Hold[T]) Latch(v T, t float64) {
	h.value = v
	h.at = t
	h.latches++
	h.valid = true
}

// Value returns the held value, or the zero value before the first latch.
func (h *Hold[T]) Value() T { return h.value }

// At is the time of the last latch.
func (h *Hold[T]) At() float64 { return h.at }

func (h *Hold[T]) Latches() int { return h.latches }

func (h *Hold[T]) Valid() bool { return h.valid }
