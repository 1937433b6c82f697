package paging

import (
	"container/list"
)

// ARCPolicy implements Adaptive Replacement over a fixed frame set.
// ARC keeps four LRU lists:
// - T1: pages seen once recently
// - T2: pages seen at least twice
// - B1: ghosts of pages evicted from T1
// - B2: ghosts of pages evicted from T2
//
// A miss that lands in a ghost list moves the target size of T1, so the
// policy drifts towards recency or frequency depending on the workload.
type ARCPolicy struct {
	capacity int
	target   int // preferred |T1|

	t1 *list.List // front = LRU
	t2 *list.List
	b1 *list.List
	b2 *list.List

	t1Map map[Page]*list.Element
	t2Map map[Page]*list.Element
	b1Map map[Page]*list.Element
	b2Map map[Page]*list.Element
}

// ARCStats reports list sizes and the adaptive target
type ARCStats struct {
	T1     int
	T2     int
	B1     int
	B2     int
	Target int
}

// NewARCPolicy creates an ARC policy over the given number of frames
func NewARCPolicy(capacity int) *ARCPolicy {
	return &ARCPolicy{
		capacity: capacity,
		t1:       list.New(),
		t2:       list.New(),
		b1:       list.New(),
		b2:       list.New(),
		t1Map:    make(map[Page]*list.Element),
		t2Map:    make(map[Page]*list.Element),
		b1Map:    make(map[Page]*list.Element),
		b2Map:    make(map[Page]*list.Element),
	}
}

func (a *ARCPolicy) Name() string { return AlgorithmARC }

func (a *ARCPolicy) Contains(p Page) bool {
	if _, ok := a.t1Map[p]; ok {
		return true
	}
	_, ok := a.t2Map[p]
	return ok
}

// Touch promotes a T1 page to T2 on its second access, or refreshes a T2 page
func (a *ARCPolicy) Touch(p Page) {
	if elem, ok := a.t1Map[p]; ok {
		a.t1.Remove(elem)
		delete(a.t1Map, p)
		a.t2Map[p] = a.t2.PushBack(p)
		return
	}
	if elem, ok := a.t2Map[p]; ok {
		a.t2.MoveToBack(elem)
	}
}

// Admit loads p. Ghost hits adapt the target and go straight to T2.
func (a *ARCPolicy) Admit(p Page) (Page, bool) {
	if elem, ok := a.b1Map[p]; ok {
		delta := 1
		if a.b1.Len() < a.b2.Len() {
			delta = a.b2.Len() / a.b1.Len()
		}
		a.target = min(a.target+delta, a.capacity)

		a.b1.Remove(elem)
		delete(a.b1Map, p)

		victim, evicted := a.replace(false)
		a.t2Map[p] = a.t2.PushBack(p)
		return victim, evicted
	}

	if elem, ok := a.b2Map[p]; ok {
		delta := 1
		if a.b2.Len() < a.b1.Len() {
			delta = a.b1.Len() / a.b2.Len()
		}
		a.target = max(a.target-delta, 0)

		a.b2.Remove(elem)
		delete(a.b2Map, p)

		victim, evicted := a.replace(true)
		a.t2Map[p] = a.t2.PushBack(p)
		return victim, evicted
	}

	victim, evicted := a.replace(false)
	a.t1Map[p] = a.t1.PushBack(p)
	return victim, evicted
}

// replace frees one frame when all are in use. T1 gives up its LRU page
// while it is above target, otherwise T2 does.
func (a *ARCPolicy) replace(fromB2 bool) (Page, bool) {
	if a.Len() < a.capacity {
		return 0, false
	}

	t1Len := a.t1.Len()
	if t1Len > 0 && (t1Len > a.target || (fromB2 && t1Len == a.target) || a.t2.Len() == 0) {
		return a.evict(a.t1, a.t1Map, a.b1, a.b1Map), true
	}
	return a.evict(a.t2, a.t2Map, a.b2, a.b2Map), true
}

// evict moves the LRU page of a resident list into its ghost list,
// which never holds more than capacity entries
func (a *ARCPolicy) evict(from *list.List, fromMap map[Page]*list.Element, ghost *list.List, ghostMap map[Page]*list.Element) Page {
	lru := from.Front()
	victim := lru.Value.(Page)
	from.Remove(lru)
	delete(fromMap, victim)

	ghostMap[victim] = ghost.PushBack(victim)
	if ghost.Len() > a.capacity {
		oldest := ghost.Front()
		delete(ghostMap, oldest.Value.(Page))
		ghost.Remove(oldest)
	}
	return victim
}

// Frames lists T1 then T2, each from least to most recently used
func (a *ARCPolicy) Frames() []Page {
	return append(listPages(a.t1), listPages(a.t2)...)
}

func (a *ARCPolicy) Len() int { return a.t1.Len() + a.t2.Len() }

func (a *ARCPolicy) Capacity() int { return a.capacity }

// Stats returns ARC-specific statistics
func (a *ARCPolicy) Stats() ARCStats {
	return ARCStats{
		T1:     a.t1.Len(),
		T2:     a.t2.Len(),
		B1:     a.b1.Len(),
		B2:     a.b2.Len(),
		Target: a.target,
	}
}
