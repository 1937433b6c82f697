package paging

import (
	"container/list"
)

// FIFOPolicy evicts pages in arrival order. Hits do not reorder the queue.
type FIFOPolicy struct {
	capacity int
	queue    *list.List // front = earliest arrival
	index    map[Page]*list.Element
}

// NewFIFOPolicy creates a FIFO policy over the given number of frames
func NewFIFOPolicy(capacity int) *FIFOPolicy {
	return &FIFOPolicy{
		capacity: capacity,
		queue:    list.New(),
		index:    make(map[Page]*list.Element, capacity),
	}
}

func (f *FIFOPolicy) Name() string { return AlgorithmFIFO }

func (f *FIFOPolicy) Contains(p Page) bool {
	_, ok := f.index[p]
	return ok
}

// Touch is a no-op: FIFO order is arrival order, not access order
func (f *FIFOPolicy) Touch(Page) {}

// Admit appends p at the tail, evicting the head when all frames are used
func (f *FIFOPolicy) Admit(p Page) (Page, bool) {
	var victim Page
	evicted := false

	if f.queue.Len() >= f.capacity {
		head := f.queue.Front()
		victim = head.Value.(Page)
		f.queue.Remove(head)
		delete(f.index, victim)
		evicted = true
	}

	f.index[p] = f.queue.PushBack(p)
	return victim, evicted
}

func (f *FIFOPolicy) Frames() []Page {
	return listPages(f.queue)
}

func (f *FIFOPolicy) Len() int { return f.queue.Len() }

func (f *FIFOPolicy) Capacity() int { return f.capacity }

// listPages copies a list of pages front to back
func listPages(l *list.List) []Page {
	pages := make([]Page, 0, l.Len())
	for e := l.Front(); e != nil; e = e.Next() {
		pages = append(pages, e.Value.(Page))
	}
	return pages
}
