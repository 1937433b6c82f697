package paging

import (
	"container/list"
)

// LRUPolicy implements LRU (Least Recently Used) replacement policy.
// The list runs from least recently used (front) to most recently used (back).
type LRUPolicy struct {
	capacity int
	lruList  *list.List
	lruMap   map[Page]*list.Element
}

// NewLRUPolicy creates a new LRU policy
func NewLRUPolicy(capacity int) *LRUPolicy {
	return &LRUPolicy{
		capacity: capacity,
		lruList:  list.New(),
		lruMap:   make(map[Page]*list.Element, capacity),
	}
}

func (lru *LRUPolicy) Name() string { return AlgorithmLRU }

func (lru *LRUPolicy) Contains(p Page) bool {
	_, ok := lru.lruMap[p]
	return ok
}

// Touch moves a resident page to the most recently used end
func (lru *LRUPolicy) Touch(p Page) {
	if elem, exists := lru.lruMap[p]; exists {
		lru.lruList.MoveToBack(elem)
	}
}

// Admit adds p at the most recently used end.
// When full, the least recently used page (front of list) is evicted first.
func (lru *LRUPolicy) Admit(p Page) (Page, bool) {
	var victim Page
	evicted := false

	if lru.lruList.Len() >= lru.capacity {
		oldest := lru.lruList.Front()
		victim = oldest.Value.(Page)
		lru.lruList.Remove(oldest)
		delete(lru.lruMap, victim)
		evicted = true
	}

	lru.lruMap[p] = lru.lruList.PushBack(p)
	return victim, evicted
}

func (lru *LRUPolicy) Frames() []Page {
	return listPages(lru.lruList)
}

func (lru *LRUPolicy) Len() int { return lru.lruList.Len() }

func (lru *LRUPolicy) Capacity() int { return lru.capacity }
