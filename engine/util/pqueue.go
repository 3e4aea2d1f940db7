package util

import (
	"container/heap"
)

func NewNode[T any](value T, priority int) *PqItem[T] {
	return &PqItem[T]{value: value, priority: priority}
}

// PqItem is something we manage in a priority queue.
type PqItem[T any] struct {
	value    T
	priority int
	// maintained by the heap.Interface methods
	index int
}

func (item *PqItem[T]) GetPriority() int {
	return item.priority
}

func (item *PqItem[T]) SetPriority(priority int) {
	item.priority = priority
}

func (item *PqItem[T]) GetIndex() int {
	return item.index
}

func (item *PqItem[T]) SetIndex(index int) {
	item.index = index
}

func (item *PqItem[T]) GetValue() T {
	return item.value
}

type QueueNode[T any] interface {
	GetPriority() int
	SetPriority(int)
	GetIndex() int
	SetIndex(int)
	GetValue() T
}

func NewPriorityQueue[T any](items []QueueNode[T]) PriorityQueue[T] {
	pq := make(PriorityQueue[T], len(items))
	for i, item := range items {
		item.SetIndex(i)
		pq[i] = item
	}
	heap.Init(&pq)
	return pq
}

// PriorityQueue is a min-heap: Pop returns the lowest priority first.
type PriorityQueue[T any] []QueueNode[T]

func (pq *PriorityQueue[T]) Len() int { return len(*pq) }

func (pq *PriorityQueue[T]) Less(i, j int) bool {
	return (*pq)[i].GetPriority() < (*pq)[j].GetPriority()
}

func (pq *PriorityQueue[T]) Swap(i, j int) {
	(*pq)[i], (*pq)[j] = (*pq)[j], (*pq)[i]
	(*pq)[i].SetIndex(i)
	(*pq)[j].SetIndex(j)
}

func (pq *PriorityQueue[T]) Push(x any) {
	n := len(*pq)
	item := x.(QueueNode[T])
	item.SetIndex(n)
	*pq = append(*pq, item)
}

func (pq *PriorityQueue[T]) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil    // avoid memory leak
	item.SetIndex(-1) // for safety
	*pq = old[0 : n-1]
	return item
}

func (pq *PriorityQueue[T]) Top() QueueNode[T] {
	return (*pq)[0]
}

func (pq *PriorityQueue[T]) IsEmpty() bool {
	return pq.Len() == 0
}

func (pq *PriorityQueue[T]) PushValue(value T, priority int) {
	heap.Push(pq, NewNode(value, priority))
}

func (pq *PriorityQueue[T]) PopValue() T {
	return heap.Pop(pq).(QueueNode[T]).GetValue()
}

// Update changes the priority of a queued item and restores heap order.
func (pq *PriorityQueue[T]) Update(item QueueNode[T], priority int) {
	item.SetPriority(priority)
	heap.Fix(pq, item.GetIndex())
}
