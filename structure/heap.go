package structure

import "fmt"

// LessFunc reports whether a orders strictly before b.
type LessFunc[T any] func(a, b T) bool

// Heap is a min-heap over a linked complete binary tree.
// Elements move between nodes by swapping; node links never change during sifting.
type Heap[T any] struct {
	tree *CompleteTree[T]
	less LessFunc[T]
}

// NewHeap creates an empty heap ordered by less.
func NewHeap[T any](capacity int32, less LessFunc[T]) *Heap[T] {
	return &Heap[T]{
		tree: NewCompleteTree[T](capacity),
		less: less,
	}
}

// Len returns the number of elements in the heap.
func (h *Heap[T]) Len() int {
	return h.tree.Len()
}

// Empty reports whether the heap has no elements.
func (h *Heap[T]) Empty() bool {
	return h.tree.Empty()
}

// Insert adds elem and restores heap order upward from the new last node.
func (h *Heap[T]) Insert(elem T) {
	h.tree.Add(elem)
	h.upHeap()
}

// Min returns the smallest element without removing it.
func (h *Heap[T]) Min() (T, bool) {
	if h.tree.Empty() {
		var zero T
		return zero, false
	}
	return h.tree.Elem(h.tree.Root()), true
}

// ExtractMin removes and returns the smallest element.
// Returns false if the heap is empty.
func (h *Heap[T]) ExtractMin() (T, bool) {
	t := h.tree
	if t.Empty() {
		var zero T
		return zero, false
	}

	t.swapElem(t.Root(), t.Last())
	elem, _ := t.Remove()
	h.downHeap()
	return elem, true
}

// upHeap bubbles the last node's element toward the root.
func (h *Heap[T]) upHeap() {
	t := h.tree
	curr := t.Last()
	for {
		parent := t.Parent(curr)
		if parent == NullIndex || !h.less(t.Elem(curr), t.Elem(parent)) {
			return
		}
		t.swapElem(curr, parent)
		curr = parent
	}
}

// downHeap sinks the root's element while a child is strictly smaller.
func (h *Heap[T]) downHeap() {
	t := h.tree
	curr := t.Root()
	for curr != NullIndex {
		child := h.minChild(curr)
		if child == NullIndex || !h.less(t.Elem(child), t.Elem(curr)) {
			return
		}
		t.swapElem(child, curr)
		curr = child
	}
}

// minChild returns the child of w with the smaller element; right wins only when strictly smaller.
func (h *Heap[T]) minChild(w int32) int32 {
	t := h.tree
	l, r := t.Left(w), t.Right(w)
	if r == NullIndex {
		return l
	}
	if l == NullIndex {
		return r
	}
	if h.less(t.Elem(r), t.Elem(l)) {
		return r
	}
	return l
}

// Elements returns the elements in heap-shape (level) order.
func (h *Heap[T]) Elements() []T {
	return h.tree.LevelOrder()
}

// Walk visits elements by reverse in-order traversal with their depth.
func (h *Heap[T]) Walk(fn func(elem T, depth int)) {
	h.tree.WalkReverseInOrder(fn)
}

// Check verifies tree shape and heap order.
func (h *Heap[T]) Check() error {
	t := h.tree
	if err := t.Check(); err != nil {
		return err
	}
	if t.Empty() {
		return nil
	}
	stack := []int32{t.Root()}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range [2]int32{t.Left(idx), t.Right(idx)} {
			if child == NullIndex {
				continue
			}
			if h.less(t.Elem(child), t.Elem(idx)) {
				return fmt.Errorf("heap order broken: child %d orders before parent %d", child, idx)
			}
			stack = append(stack, child)
		}
	}
	return nil
}
