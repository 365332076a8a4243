package engine

import (
	"strconv"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/petermattis/goid"
)

// AttachTable tracks per-thread attachment state for a backend. Go
// has no thread-local storage, so the slot is keyed by goroutine id;
// the slot's lifecycle is the length of the owning goroutine's
// attachment.
type AttachTable[E any] struct {
	slots cmap.ConcurrentMap[string, E]
}

// NewAttachTable returns an empty table.
func NewAttachTable[E any]() *AttachTable[E] {
	return &AttachTable[E]{slots: cmap.New[E]()}
}

func key() string {
	return strconv.FormatInt(goid.Get(), 10)
}

// Current returns the calling goroutine's slot, if attached.
func (t *AttachTable[E]) Current() (E, bool) {
	return t.slots.Get(key())
}

// Put installs the calling goroutine's slot.
func (t *AttachTable[E]) Put(e E) {
	t.slots.Set(key(), e)
}

// Remove clears the calling goroutine's slot and reports whether one
// existed.
func (t *AttachTable[E]) Remove() bool {
	k := key()
	_, ok := t.slots.Get(k)
	if ok {
		t.slots.Remove(k)
	}
	return ok
}

// Count returns the number of live attachments.
func (t *AttachTable[E]) Count() int {
	return t.slots.Count()
}
