/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

package hintlfu

// counterHeap is a min heap of stream counters ordered by count. Every counter remembers its
// position so that its count can grow in place.
type counterHeap struct {
	items []*Counter
}

// Insert adds a new element to the heap
func (h *counterHeap) Insert(item *Counter) {
	item.index = len(h.items)
	h.items = append(h.items, item)
	h.heapifyUp(item.index)
}

// Fix restores the heap property after the count of the item at index grew.
func (h *counterHeap) Fix(index int) {
	h.heapifyDown(index)
}

// Peek returns the minimum element without removing it
func (h *counterHeap) Peek() (*Counter, bool) {
	if len(h.items) == 0 {
		return nil, false
	}
	return h.items[0], true
}

// Size returns the number of elements in the heap
func (h *counterHeap) Size() int {
	return len(h.items)
}

func (h *counterHeap) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

// heapifyUp maintains the heap property by moving a node up
func (h *counterHeap) heapifyUp(index int) {
	for index > 0 {
		parentIndex := (index - 1) / 2
		if !h.items[index].less(h.items[parentIndex]) {
			break
		}
		h.swap(parentIndex, index)
		index = parentIndex
	}
}

// heapifyDown maintains the heap property by moving a node down
func (h *counterHeap) heapifyDown(index int) {
	for {
		smallest := index
		leftChild := 2*index + 1
		rightChild := 2*index + 2

		if leftChild < len(h.items) && h.items[leftChild].less(h.items[smallest]) {
			smallest = leftChild
		}

		if rightChild < len(h.items) && h.items[rightChild].less(h.items[smallest]) {
			smallest = rightChild
		}

		if smallest == index {
			break
		}

		h.swap(index, smallest)
		index = smallest
	}
}
