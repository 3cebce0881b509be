package arena

import (
	"fmt"
)

// Handle identifies a single record in an Arena. Handles to released records are detected by
// their stale generation rather than aliasing a newer record in the same slot.
type Handle struct {
	index      int
	generation uint32
}

// NullHandle never resolves to a record
var NullHandle = Handle{}

func (h Handle) IsNull() bool {
	return h.generation == 0
}

func (h Handle) String() string {
	if h.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%d@%d", h.index, h.generation)
}

type slot[T any] struct {
	value      T
	generation uint32
	live       bool
}

// Arena is a generational slot list. It is not synchronized; owners guard it with their own lock.
type Arena[T any] struct {
	slots    []slot[T]
	freeList []int
	count    int
}

// Insert stores value and returns the handle it can be retrieved with
func (a *Arena[T]) Insert(value T) Handle {
	var index int
	if len(a.freeList) > 0 {
		index = a.freeList[len(a.freeList)-1]
		a.freeList = a.freeList[:len(a.freeList)-1]
	} else {
		index = len(a.slots)
		a.slots = append(a.slots, slot[T]{})
	}

	s := &a.slots[index]
	s.generation++
	if s.generation == 0 {
		// Skip the null generation on wraparound
		s.generation = 1
	}
	s.value = value
	s.live = true
	a.count++

	return Handle{index: index, generation: s.generation}
}

// Get returns the value stored at handle, or false if the handle is null or stale
func (a *Arena[T]) Get(handle Handle) (T, bool) {
	var zero T
	if handle.IsNull() || handle.index >= len(a.slots) {
		return zero, false
	}

	s := &a.slots[handle.index]
	if !s.live || s.generation != handle.generation {
		return zero, false
	}

	return s.value, true
}

// Remove releases the record at handle and returns its value, or false if the handle is null or stale
func (a *Arena[T]) Remove(handle Handle) (T, bool) {
	value, ok := a.Get(handle)
	if !ok {
		return value, false
	}

	var zero T
	s := &a.slots[handle.index]
	s.value = zero
	s.live = false
	a.freeList = append(a.freeList, handle.index)
	a.count--

	return value, true
}

// Len is the number of live records
func (a *Arena[T]) Len() int {
	return a.count
}

// Each calls visit for every live record in slot order. visit must not insert or remove records.
func (a *Arena[T]) Each(visit func(handle Handle, value T)) {
	for index := range a.slots {
		s := &a.slots[index]
		if s.live {
			visit(Handle{index: index, generation: s.generation}, s.value)
		}
	}
}

// Drain removes every live record, passing each to visit in slot order
func (a *Arena[T]) Drain(visit func(value T)) {
	for index := range a.slots {
		s := &a.slots[index]
		if !s.live {
			continue
		}

		value := s.value
		var zero T
		s.value = zero
		s.live = false
		a.freeList = append(a.freeList, index)
		a.count--

		visit(value)
	}
}
