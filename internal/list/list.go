/*
 * SPDX-FileCopyrightText: © 2017-2025 Istari Digital, Inc.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package list implements an intrusive doubly linked list of uint64 keys. It is based on Go's
// built-in list.List, but elements are allocated by the caller and can be moved between lists
// without allocations. Unlike the built-in list, a List must be initialized prior to use.
package list

// List is a circular list around a sentinel root element, such that root is both the next
// element of l.Back() and the previous element of l.Front().
type List struct {
	root Element

	// Current list length excluding the root.
	len int
}

// New returns an initialized list.
func New() *List { return new(List).Init() }

// Init initializes or clears the list.
func (l *List) Init() *List {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.len = 0
	return l
}

// Len returns the number of elements in the list.
func (l *List) Len() int { return l.len }

// Front returns the first element of the list or nil if the list is empty.
func (l *List) Front() *Element {
	if l.len == 0 {
		return nil
	}
	return l.root.next
}

// Back returns the last element of the list or nil if the list is empty.
func (l *List) Back() *Element {
	if l.len == 0 {
		return nil
	}
	return l.root.prev
}

// PushFront inserts e at the front of the list, unlinking it from its current list first.
func (l *List) PushFront(e *Element) {
	if e.list != nil {
		e.Remove()
	}
	e.next = l.root.next
	e.prev = &l.root
	l.root.next = e
	e.next.prev = e
	e.list = l
	l.len++
}

// PushBack inserts e at the back of the list, unlinking it from its current list first.
func (l *List) PushBack(e *Element) {
	if e.list != nil {
		e.Remove()
	}
	e.prev = l.root.prev
	e.next = &l.root
	l.root.prev = e
	e.prev.next = e
	e.list = l
	l.len++
}

// Element is a node within a linked list.
type Element struct {
	next, prev *Element
	list       *List

	Value uint64
}

// Next returns the next list element or nil.
func (e *Element) Next() *Element {
	if p := e.next; e.list != nil && p != &e.list.root {
		return p
	}
	return nil
}

// Prev returns the previous list element or nil.
func (e *Element) Prev() *Element {
	if p := e.prev; e.list != nil && p != &e.list.root {
		return p
	}
	return nil
}

// List returns the list containing the element or nil.
func (e *Element) List() *List {
	return e.list
}

// Remove removes an element from its list.
func (e *Element) Remove() {
	if e.list == nil {
		return
	}

	e.list.len--
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
	e.list = nil
}

// MoveToFront moves an element to the front of its list. The element must be
// inserted into a list.
func (e *Element) MoveToFront() {
	root := &e.list.root
	if root.next == e {
		return
	}

	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev = root
	e.next = root.next
	root.next.prev = e
	root.next = e
}

// MoveToBack moves an element to the back of its list. The element must be
// inserted into a list.
func (e *Element) MoveToBack() {
	root := &e.list.root
	if root.prev == e {
		return
	}

	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = root
	e.prev = root.prev
	root.prev.next = e
	root.prev = e
}
