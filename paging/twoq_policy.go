package paging

import (
	"container/list"
)

// TwoQPolicy implements 2Q replacement. It keeps two resident queues:
// - A1in: pages on their first access (FIFO, probationary)
// - Am: pages accessed again (LRU, protected)
// and a ghost queue A1out of pages that left A1in without a second access.
// A miss on a ghost page admits it straight into Am.
type TwoQPolicy struct {
	capacity int

	a1in     *list.List // front = oldest arrival
	a1inMap  map[Page]*list.Element
	a1inSize int // reclaim from A1in while it holds more than this

	am    *list.List // front = LRU
	amMap map[Page]*list.Element

	a1out     *list.List
	a1outMap  map[Page]*list.Element
	a1outSize int
}

// TwoQStats contains statistics about the 2Q queues
type TwoQStats struct {
	A1In        int // Resident probationary pages
	A1InTarget  int
	Am          int // Resident protected pages
	A1Out       int // Ghost entries
	A1OutTarget int
}

// NewTwoQPolicy creates a 2Q policy over the given number of frames.
// A1in is tuned to a quarter of the frames and A1out to half, per the 2Q paper.
func NewTwoQPolicy(capacity int) *TwoQPolicy {
	return &TwoQPolicy{
		capacity:  capacity,
		a1in:      list.New(),
		a1inMap:   make(map[Page]*list.Element),
		a1inSize:  max(1, capacity/4),
		am:        list.New(),
		amMap:     make(map[Page]*list.Element),
		a1out:     list.New(),
		a1outMap:  make(map[Page]*list.Element),
		a1outSize: max(1, capacity/2),
	}
}

func (q *TwoQPolicy) Name() string { return AlgorithmTwoQ }

func (q *TwoQPolicy) Contains(p Page) bool {
	if _, ok := q.a1inMap[p]; ok {
		return true
	}
	_, ok := q.amMap[p]
	return ok
}

// Touch promotes an A1in page to Am on its second access, or refreshes it in Am
func (q *TwoQPolicy) Touch(p Page) {
	if elem, ok := q.amMap[p]; ok {
		q.am.MoveToBack(elem)
		return
	}
	if elem, ok := q.a1inMap[p]; ok {
		q.a1in.Remove(elem)
		delete(q.a1inMap, p)
		q.amMap[p] = q.am.PushBack(p)
	}
}

func (q *TwoQPolicy) Admit(p Page) (Page, bool) {
	elem, ghost := q.a1outMap[p]
	if ghost {
		q.a1out.Remove(elem)
		delete(q.a1outMap, p)
	}

	victim, evicted := q.reclaim()

	if ghost {
		q.amMap[p] = q.am.PushBack(p)
	} else {
		q.a1inMap[p] = q.a1in.PushBack(p)
	}
	return victim, evicted
}

// reclaim frees one frame when all are in use. Pages leaving A1in are
// remembered in A1out; pages leaving Am are forgotten.
func (q *TwoQPolicy) reclaim() (Page, bool) {
	if q.Len() < q.capacity {
		return 0, false
	}

	if q.a1in.Len() > q.a1inSize || q.am.Len() == 0 {
		oldest := q.a1in.Front()
		victim := oldest.Value.(Page)
		q.a1in.Remove(oldest)
		delete(q.a1inMap, victim)

		q.a1outMap[victim] = q.a1out.PushBack(victim)
		if q.a1out.Len() > q.a1outSize {
			ghost := q.a1out.Front()
			delete(q.a1outMap, ghost.Value.(Page))
			q.a1out.Remove(ghost)
		}
		return victim, true
	}

	lru := q.am.Front()
	victim := lru.Value.(Page)
	q.am.Remove(lru)
	delete(q.amMap, victim)
	return victim, true
}

// Frames lists A1in oldest first, then Am from least to most recently used
func (q *TwoQPolicy) Frames() []Page {
	return append(listPages(q.a1in), listPages(q.am)...)
}

func (q *TwoQPolicy) Len() int { return q.a1in.Len() + q.am.Len() }

func (q *TwoQPolicy) Capacity() int { return q.capacity }

// Stats returns statistics about the 2Q queues
func (q *TwoQPolicy) Stats() TwoQStats {
	return TwoQStats{
		A1In:        q.a1in.Len(),
		A1InTarget:  q.a1inSize,
		Am:          q.am.Len(),
		A1Out:       q.a1out.Len(),
		A1OutTarget: q.a1outSize,
	}
}
