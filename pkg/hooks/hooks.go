// Package hooks provides named, ordered extension points.
//
// A Filter passes a typed value through every registered callback and returns
// the result; an Action notifies observers that write markup into a shared
// writer. Both are no-ops when nothing is registered.
package hooks

import (
	"io"
	"sort"
	"sync"
)

// DefaultPriority is used by Add. Lower priorities run first.
const DefaultPriority = 10

// None is the argument type of filters that carry no extra context.
type None struct{}

type filterEntry[T, A any] struct {
	priority int
	seq      int
	fn       func(T, A) T
}

// Filter is a named transformation pipeline over values of type T. Every
// callback also receives a read-only argument of type A.
type Filter[T, A any] struct {
	name    string
	mu      sync.RWMutex
	seq     int
	entries []filterEntry[T, A]
}

func NewFilter[T, A any](name string) *Filter[T, A] {
	return &Filter[T, A]{name: name}
}

func (f *Filter[T, A]) Name() string { return f.name }

// Add registers fn with DefaultPriority.
func (f *Filter[T, A]) Add(fn func(T, A) T) {
	f.AddWithPriority(DefaultPriority, fn)
}

// AddWithPriority registers fn. Callbacks with equal priority run in
// registration order.
func (f *Filter[T, A]) AddWithPriority(priority int, fn func(T, A) T) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.entries = append(f.entries, filterEntry[T, A]{priority: priority, seq: f.seq, fn: fn})
	sort.SliceStable(f.entries, func(i, j int) bool {
		if f.entries[i].priority != f.entries[j].priority {
			return f.entries[i].priority < f.entries[j].priority
		}
		return f.entries[i].seq < f.entries[j].seq
	})
}

// Apply runs value through every callback, each one seeing the output of the
// previous.
func (f *Filter[T, A]) Apply(value T, arg A) T {
	f.mu.RLock()
	entries := make([]filterEntry[T, A], len(f.entries))
	copy(entries, f.entries)
	f.mu.RUnlock()

	for _, e := range entries {
		value = e.fn(value, arg)
	}
	return value
}

func (f *Filter[T, A]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}

type actionEntry struct {
	priority int
	seq      int
	fn       func(w io.Writer)
}

// Action is a named lifecycle marker. Observers may write into the output
// being rendered.
type Action struct {
	name    string
	mu      sync.RWMutex
	seq     int
	entries []actionEntry
}

func NewAction(name string) *Action {
	return &Action{name: name}
}

func (a *Action) Name() string { return a.name }

func (a *Action) Add(fn func(w io.Writer)) {
	a.AddWithPriority(DefaultPriority, fn)
}

func (a *Action) AddWithPriority(priority int, fn func(w io.Writer)) {
	if fn == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	a.entries = append(a.entries, actionEntry{priority: priority, seq: a.seq, fn: fn})
	sort.SliceStable(a.entries, func(i, j int) bool {
		if a.entries[i].priority != a.entries[j].priority {
			return a.entries[i].priority < a.entries[j].priority
		}
		return a.entries[i].seq < a.entries[j].seq
	})
}

// Do calls every observer in order.
func (a *Action) Do(w io.Writer) {
	a.mu.RLock()
	entries := make([]actionEntry, len(a.entries))
	copy(entries, a.entries)
	a.mu.RUnlock()

	for _, e := range entries {
		e.fn(w)
	}
}

func (a *Action) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}
