// Package history keeps a bounded back/forward list of viewed items.
package history

// Manager records visited items. The zero capacity disables recording.
type Manager[T comparable] struct {
	stack        []T
	currentIndex int
	capacity     int
}

// New creates a Manager holding at most capacity items.
// Negative capacity is treated as 0.
func New[T comparable](capacity int) *Manager[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Manager[T]{
		stack:        make([]T, 0, capacity),
		currentIndex: -1,
		capacity:     capacity,
	}
}

// Record appends item as the newest entry. Recording after going back drops
// the forward part of the list.
func (m *Manager[T]) Record(item T) {
	if m.capacity == 0 {
		return
	}

	if m.currentIndex != -1 && m.currentIndex < len(m.stack)-1 {
		m.stack = m.stack[:m.currentIndex+1]
	}

	// Same as current: nothing to record.
	if m.currentIndex >= 0 && m.stack[m.currentIndex] == item {
		return
	}

	m.stack = append(m.stack, item)

	// Oldest entries fall off the front.
	if len(m.stack) > m.capacity {
		m.stack = m.stack[len(m.stack)-m.capacity:]
	}
	m.currentIndex = len(m.stack) - 1
}

// Back steps to the previous item.
func (m *Manager[T]) Back() (item T, ok bool) {
	if m.currentIndex <= 0 {
		return item, false
	}
	m.currentIndex--
	return m.stack[m.currentIndex], true
}

// Forward steps to the next item after a Back.
func (m *Manager[T]) Forward() (item T, ok bool) {
	if m.currentIndex == -1 || m.currentIndex >= len(m.stack)-1 {
		return item, false
	}
	m.currentIndex++
	return m.stack[m.currentIndex], true
}

// Current returns the item the cursor points at.
func (m *Manager[T]) Current() (item T, ok bool) {
	if m.currentIndex < 0 {
		return item, false
	}
	return m.stack[m.currentIndex], true
}

// CanBack reports whether Back would succeed.
func (m *Manager[T]) CanBack() bool {
	return m.currentIndex > 0
}

// CanForward reports whether Forward would succeed.
func (m *Manager[T]) CanForward() bool {
	return m.currentIndex != -1 && m.currentIndex < len(m.stack)-1
}

// Len returns the number of recorded items.
func (m *Manager[T]) Len() int {
	return len(m.stack)
}

// Remove drops every occurrence of item.
func (m *Manager[T]) Remove(item T) {
	m.RemoveFunc(func(v T) bool { return v == item })
}

// RemoveFunc drops every item for which drop returns true. If the current
// item goes, the cursor moves to the item viewed before it.
func (m *Manager[T]) RemoveFunc(drop func(T) bool) {
	if len(m.stack) == 0 {
		return
	}

	kept := make([]T, 0, len(m.stack))
	removedBefore := 0
	currentRemoved := false
	for i, v := range m.stack {
		if !drop(v) {
			kept = append(kept, v)
			continue
		}
		if i < m.currentIndex {
			removedBefore++
		} else if i == m.currentIndex {
			currentRemoved = true
		}
	}
	if len(kept) == len(m.stack) {
		return
	}
	m.stack = kept
	if len(m.stack) == 0 {
		m.currentIndex = -1
		return
	}

	newIndex := m.currentIndex - removedBefore
	if currentRemoved {
		newIndex--
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if last := len(m.stack) - 1; newIndex > last {
		newIndex = last
	}
	m.currentIndex = newIndex
}

// Clear empties the history.
func (m *Manager[T]) Clear() {
	m.stack = make([]T, 0, m.capacity)
	m.currentIndex = -1
}
