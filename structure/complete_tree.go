package structure

import "fmt"

// Complete binary tree with arena-based node storage.
// Nodes are linked by parent/left/right indices into a growable arena, and the
// tree keeps a pointer to its last node in level order. Insertion and removal
// sites are computed from that pointer by walking the links, never by index
// arithmetic on the arena itself.

// NullIndex marks an absent node.
const NullIndex int32 = -1

// node is a slot in the arena.
type node[T any] struct {
	Left   int32 // Left child index
	Right  int32 // Right child index
	Parent int32 // Parent index
	Elem   T
}

// CompleteTree is an arena-backed complete binary tree.
type CompleteTree[T any] struct {
	nodes    []node[T]
	root     int32
	last     int32 // Last node in level order
	freeHead int32 // Head of free list, chained through Left
	count    int32
}

// NewCompleteTree creates an empty tree with room for capacity nodes before the arena grows.
func NewCompleteTree[T any](capacity int32) *CompleteTree[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &CompleteTree[T]{
		nodes:    make([]node[T], 0, capacity),
		root:     NullIndex,
		last:     NullIndex,
		freeHead: NullIndex,
	}
}

// alloc takes a slot from the free list, or appends a new one.
func (t *CompleteTree[T]) alloc(elem T) int32 {
	fresh := node[T]{
		Left:   NullIndex,
		Right:  NullIndex,
		Parent: NullIndex,
		Elem:   elem,
	}
	if t.freeHead == NullIndex {
		t.nodes = append(t.nodes, fresh)
		return int32(len(t.nodes) - 1)
	}
	idx := t.freeHead
	t.freeHead = t.nodes[idx].Left
	t.nodes[idx] = fresh
	return idx
}

// free returns a slot to the free list and drops its element.
func (t *CompleteTree[T]) free(idx int32) {
	if idx == NullIndex {
		panic("CompleteTree: free of null node")
	}
	var zero T
	t.nodes[idx] = node[T]{
		Left:   t.freeHead,
		Right:  NullIndex,
		Parent: NullIndex,
		Elem:   zero,
	}
	t.freeHead = idx
}

// Len returns the number of nodes in the tree.
func (t *CompleteTree[T]) Len() int {
	return int(t.count)
}

// Empty reports whether the tree has no nodes.
func (t *CompleteTree[T]) Empty() bool {
	return t.count == 0
}

// Root returns the root index, or NullIndex.
func (t *CompleteTree[T]) Root() int32 {
	return t.root
}

// Last returns the last node index in level order, or NullIndex.
func (t *CompleteTree[T]) Last() int32 {
	return t.last
}

// Elem returns the element stored at idx.
func (t *CompleteTree[T]) Elem(idx int32) T {
	return t.nodes[idx].Elem
}

// Left returns the left child of idx.
func (t *CompleteTree[T]) Left(idx int32) int32 {
	return t.nodes[idx].Left
}

// Right returns the right child of idx.
func (t *CompleteTree[T]) Right(idx int32) int32 {
	return t.nodes[idx].Right
}

// Parent returns the parent of idx.
func (t *CompleteTree[T]) Parent(idx int32) int32 {
	return t.nodes[idx].Parent
}

// swapElem exchanges the elements of two nodes, leaving the links untouched.
func (t *CompleteTree[T]) swapElem(w, z int32) {
	t.nodes[w].Elem, t.nodes[z].Elem = t.nodes[z].Elem, t.nodes[w].Elem
}

// makeChild sets the left or right slot of parent to child and back-links child.
// Either side may be NullIndex.
func (t *CompleteTree[T]) makeChild(parent, child int32, isLeft bool) {
	if parent != NullIndex {
		if isLeft {
			t.nodes[parent].Left = child
		} else {
			t.nodes[parent].Right = child
		}
	}
	if child != NullIndex {
		t.nodes[child].Parent = parent
	}
}

// removeNode unlinks w and returns its element. w must have at most one child;
// that child takes w's place under w's parent, or becomes the root.
func (t *CompleteTree[T]) removeNode(w int32) T {
	elem := t.nodes[w].Elem
	parent := t.nodes[w].Parent

	child := t.nodes[w].Left
	if child == NullIndex {
		child = t.nodes[w].Right
	}

	isLeft := parent == NullIndex || t.nodes[parent].Left == w
	t.makeChild(parent, child, isLeft)
	if parent == NullIndex {
		t.root = child
	}

	t.free(w)
	t.count--
	return elem
}

// ancestorOfType climbs from w while the climbed edge is of the opposite kind,
// and returns the first ancestor entered from its left (fromLeft) or right slot.
func (t *CompleteTree[T]) ancestorOfType(w int32, fromLeft bool) int32 {
	if w == NullIndex {
		return NullIndex
	}
	z := w
	x := t.nodes[z].Parent
	for x != NullIndex {
		other := t.nodes[x].Right
		if !fromLeft {
			other = t.nodes[x].Left
		}
		if other != z {
			break
		}
		z = x
		x = t.nodes[x].Parent
	}
	return x
}

// descendantOfType walks from w to its leftmost (toLeft) or rightmost descendant, inclusive.
func (t *CompleteTree[T]) descendantOfType(w int32, toLeft bool) int32 {
	if w == NullIndex {
		return NullIndex
	}
	for {
		next := t.nodes[w].Right
		if toLeft {
			next = t.nodes[w].Left
		}
		if next == NullIndex {
			return w
		}
		w = next
	}
}

// firstLeftAncestor returns the first ancestor of w that holds w's subtree on its left.
func (t *CompleteTree[T]) firstLeftAncestor(w int32) int32 {
	return t.ancestorOfType(w, true)
}

// firstRightAncestor returns the first ancestor of w that holds w's subtree on its right.
func (t *CompleteTree[T]) firstRightAncestor(w int32) int32 {
	return t.ancestorOfType(w, false)
}

// lastLeftDescendant returns the leftmost node of the subtree rooted at w.
func (t *CompleteTree[T]) lastLeftDescendant(w int32) int32 {
	return t.descendantOfType(w, true)
}

// lastRightDescendant returns the rightmost node of the subtree rooted at w.
func (t *CompleteTree[T]) lastRightDescendant(w int32) int32 {
	return t.descendantOfType(w, false)
}

// parentOfNewInsertionSite returns the node that receives the next level-order child.
// The tree must not be empty.
func (t *CompleteTree[T]) parentOfNewInsertionSite() int32 {
	last := t.last
	parent := t.nodes[last].Parent
	if parent == NullIndex {
		return last
	}
	if t.nodes[parent].Right == NullIndex {
		return parent
	}

	w := t.firstLeftAncestor(last)
	if w != NullIndex {
		if right := t.nodes[w].Right; right != NullIndex {
			return t.lastLeftDescendant(right)
		}
		return w
	}

	// Bottom level is full, start the next one.
	return t.lastLeftDescendant(t.root)
}

// newLastNodeAfterRemoval returns the node that becomes last once the current last
// node is removed, or NullIndex if the tree becomes empty. The tree must not be empty.
func (t *CompleteTree[T]) newLastNodeAfterRemoval() int32 {
	last := t.last
	parent := t.nodes[last].Parent
	if parent == NullIndex {
		return NullIndex
	}

	if last == t.lastLeftDescendant(t.root) {
		return t.lastRightDescendant(t.root)
	}

	if t.nodes[parent].Right == last {
		return t.nodes[parent].Left
	}

	w := t.firstRightAncestor(last)
	return t.lastRightDescendant(t.nodes[w].Left)
}

// Add appends elem at the next level-order position and returns its node index.
func (t *CompleteTree[T]) Add(elem T) int32 {
	idx := t.alloc(elem)

	if t.Empty() {
		t.root = idx
	} else {
		parent := t.parentOfNewInsertionSite()
		t.makeChild(parent, idx, t.nodes[parent].Left == NullIndex)
	}

	t.last = idx
	t.count++
	return idx
}

// Remove deletes the last node and returns its element.
// Returns false if the tree is empty.
func (t *CompleteTree[T]) Remove() (T, bool) {
	if t.Empty() {
		var zero T
		return zero, false
	}

	w := t.last
	t.last = t.newLastNodeAfterRemoval()
	return t.removeNode(w), true
}

// LevelOrder returns all elements in level order (heap shape).
func (t *CompleteTree[T]) LevelOrder() []T {
	result := make([]T, 0, t.count)
	if t.root == NullIndex {
		return result
	}
	queue := make([]int32, 0, t.count)
	queue = append(queue, t.root)
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		result = append(result, t.nodes[idx].Elem)
		if l := t.nodes[idx].Left; l != NullIndex {
			queue = append(queue, l)
		}
		if r := t.nodes[idx].Right; r != NullIndex {
			queue = append(queue, r)
		}
	}
	return result
}

// WalkReverseInOrder visits right subtree, node, left subtree, passing each
// element with its depth (root is 0).
func (t *CompleteTree[T]) WalkReverseInOrder(fn func(elem T, depth int)) {
	t.walkReverse(t.root, 0, fn)
}

func (t *CompleteTree[T]) walkReverse(idx int32, depth int, fn func(elem T, depth int)) {
	if idx == NullIndex {
		return
	}
	t.walkReverse(t.nodes[idx].Right, depth+1, fn)
	fn(t.nodes[idx].Elem, depth)
	t.walkReverse(t.nodes[idx].Left, depth+1, fn)
}

// Check verifies the shape of the tree: every link is mutual, nodes fill
// level by level from the left, the last pointer is the final level-order node
// and the count matches the reachable nodes.
func (t *CompleteTree[T]) Check() error {
	if t.root == NullIndex {
		if t.count != 0 {
			return fmt.Errorf("empty tree has count %d", t.count)
		}
		if t.last != NullIndex {
			return fmt.Errorf("empty tree has last node %d", t.last)
		}
		return nil
	}
	if t.nodes[t.root].Parent != NullIndex {
		return fmt.Errorf("root %d has parent %d", t.root, t.nodes[t.root].Parent)
	}

	// Level-order walk: once a missing child is seen, no later node may have children.
	seenGap := false
	reached := int32(0)
	lastSeen := NullIndex
	queue := []int32{t.root}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		reached++
		lastSeen = idx

		// A right child without a left child shows up here as a child after a gap.
		for _, child := range [2]int32{t.nodes[idx].Left, t.nodes[idx].Right} {
			if child == NullIndex {
				seenGap = true
				continue
			}
			if seenGap {
				return fmt.Errorf("node %d has child %d after a gap in level order", idx, child)
			}
			if t.nodes[child].Parent != idx {
				return fmt.Errorf("child %d of %d points to parent %d", child, idx, t.nodes[child].Parent)
			}
			queue = append(queue, child)
		}
	}

	if reached != t.count {
		return fmt.Errorf("count %d but %d nodes reachable", t.count, reached)
	}
	if lastSeen != t.last {
		return fmt.Errorf("last node is %d but level order ends at %d", t.last, lastSeen)
	}
	return nil
}
