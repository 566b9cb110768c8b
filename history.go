package portfolio

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
type History[T any] struct {
	days   []Date
	values []T
}

// search returns the index where day is, or would be inserted.
func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, day, Date.Compare)
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Append adds a point to the history.
//
// Existing value at that date are overwritten.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := h.search(on)
	if found {
		// We choose to replace, because it will give higher priority to the last data
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	if i, found := h.search(day); found {
		return h.values[i], true
	}
	var zero T
	return zero, false
}

// First returns the earliest date and value in the history.
func (h *History[T]) First() (day Date, value T, ok bool) {
	if len(h.days) == 0 {
		return Date{}, value, false
	}
	return h.days[0], h.values[0], true
}

// Latest returns the latest date and value in the history.
func (h *History[T]) Latest() (day Date, value T, ok bool) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, value, false
	}
	return h.days[last], h.values[last], true
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
func (h *History[T]) ValueAsOf(day Date) (Date, T, bool) {
	i, found := h.search(day)
	if found {
		return h.days[i], h.values[i], true
	}
	// `i` is the index where `day` would be inserted, the value we want is at `i-1`.
	if i == 0 {
		var zero T
		return Date{}, zero, false
	}
	return h.days[i-1], h.values[i-1], true
}

// OnOrAfter returns the first value dated on or after day.
func (h *History[T]) OnOrAfter(day Date) (Date, T, bool) {
	i, _ := h.search(day)
	if i >= len(h.days) {
		var zero T
		return Date{}, zero, false
	}
	return h.days[i], h.values[i], true
}

// LatestWithin returns the latest value dated strictly after start and on or before end.
func (h *History[T]) LatestWithin(start, end Date) (Date, T, bool) {
	on, v, ok := h.ValueAsOf(end)
	if !ok || !on.After(start) {
		var zero T
		return Date{}, zero, false
	}
	return on, v, true
}

// Within returns an iterator over the date/value pairs in r, in chronological order.
func (h *History[T]) Within(r Range) iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		i, _ := h.search(r.From)
		for ; i < len(h.days) && !h.days[i].After(r.To); i++ {
			if !yield(h.days[i], h.values[i]) {
				return
			}
		}
	}
}
