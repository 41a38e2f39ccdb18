package tree

import (
	"errors"
	"sync/atomic"

	"github.com/benz9527/xllrb/lib/infra"
	"go.uber.org/zap"
)

var (
	ErrLLRBKeyNotFound = errors.New("[llrb] key not found")
	ErrLLRBEmpty       = errors.New("[llrb] there is no element")
)

// References:
// Robert Sedgewick, "Left-leaning Red-Black Trees"
// https://www.cs.princeton.edu/~rs/talks/LLRB/LLRB.pdf
// An LLRB tree encodes a 2-3 (or 2-3-4) tree in a plain BST:
// p1. A red link always leans left (a 3-node).
// p2. No node carries two consecutive red links.
// p3. Every path from the root to a nil link crosses the same
//   number of black links. (perfect black balance)
// p4. The root link is black.
// Under the 2-3-4 variant a node with two red children (a 4-node) is
// legal, which relaxes p1 to "a red right link implies a red left link".

// llrbTree layers the left-leaning red-black balancer on the naive bsTree.
// The read surface (Get, Contains, Len, Foreach, Release) is inherited
// unchanged; insertion is replaced by the balanced one and the delete family
// is added. Every mutation follows the recursive discipline: a call owns a
// subtree and returns its (possibly different) root for the caller to
// re-install, so no parent pointers exist anywhere.
type llrbTree[K infra.OrderedKey, V any] struct {
	bsTree[K, V]
	logger *zap.Logger
	is234  bool
}

func (c NodeColor) flip() NodeColor {
	if c == Red {
		return Black
	}
	return Red
}

/*
	  |                      |
	 (h)    rotateLeft(h)   (x)
	 / \\   ============>  // \
	1   (x)               (h)  3
	    / \               / \
	   2   3             1   2

x inherits h's link color, h turns red. Eliminates a right-leaning red link.
*/
func (h *xNode[K, V]) rotateLeft() *xNode[K, V] {
	if h == nil || h.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[llrb] rotate left without a right child")
	}
	x := h.right
	h.right = x.left
	x.left = h
	x.color = h.color
	h.color = Red
	h.updateHeight()
	x.updateHeight()
	return x
}

/*
	   |                       |
	  (h)    rotateRight(h)   (x)
	 // \    =============>   / \\
	(x)  3                   1   (h)
	/ \                          / \
	1  2                        2   3

Mirror of rotateLeft. Resolves two consecutive left-leaning red links.
*/
func (h *xNode[K, V]) rotateRight() *xNode[K, V] {
	if h == nil || h.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[llrb] rotate right without a left child")
	}
	x := h.left
	h.left = x.right
	x.right = h
	x.color = h.color
	h.color = Red
	h.updateHeight()
	x.updateHeight()
	return x
}

// flipColors splits (or merges) a 4-node by toggling h and both children.
func (h *xNode[K, V]) flipColors() {
	if h == nil || h.left == nil || h.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[llrb] flip colors on a node missing a child")
	}
	h.color = h.color.flip()
	h.left.color = h.left.color.flip()
	h.right.color = h.right.color.flip()
}

// moveRedLeft borrows red-ness for h.left before a deletion descends into it.
// Precondition: h is red, h.left and h.left.left are both black. Under the
// 2-3-4 discipline the borrow can leave a right-leaning red link on the new
// h.right, which must be rotated away here, not deferred to fixUp.
func (tree *llrbTree[K, V]) moveRedLeft(h *xNode[K, V]) *xNode[K, V] {
	h.flipColors()
	if h.right != nil && h.right.left.isRed() {
		h.right = h.right.rotateRight()
		h = h.rotateLeft()
		h.flipColors()
		if tree.is234 && h.right != nil && h.right.right.isRed() {
			h.right = h.right.rotateLeft()
		}
	}
	return h
}

// moveRedRight is the mirror of moveRedLeft for the right spine.
// Precondition: h is red, h.right and h.right.left are both black.
func (tree *llrbTree[K, V]) moveRedRight(h *xNode[K, V]) *xNode[K, V] {
	h.flipColors()
	if h.left != nil && h.left.left.isRed() {
		h = h.rotateRight()
		h.flipColors()
	}
	return h
}

// fixUp re-normalizes a subtree root on the way back up from a deletion:
// any red right link rotates left (under the 2-3-4 discipline a red
// h.right.left rotates away first, or the left rotation would stack two reds
// on the new left spine), two consecutive left reds resolve with a right
// rotation, and the 2-3 discipline splits a 4-node. O(1) per level.
func (tree *llrbTree[K, V]) fixUp(h *xNode[K, V]) *xNode[K, V] {
	if h.right.isRed() {
		if tree.is234 && h.right.left.isRed() {
			h.right = h.right.rotateRight()
		}
		h = h.rotateLeft()
	}
	if h.left.isRed() && h.left.left.isRed() {
		h = h.rotateRight()
	}
	if !tree.is234 && h.left.isRed() && h.right.isRed() {
		h.flipColors()
	}
	h.updateHeight()
	return h
}

func (tree *llrbTree[K, V]) Insert(key K, val V) {
	tree.root = tree.insert(tree.root, key, val)
	tree.root.color = Black
	tree.audit("insert")
}

func (tree *llrbTree[K, V]) insert(h *xNode[K, V], key K, val V) *xNode[K, V] {
	if h == nil {
		// New nodes are always red.
		atomic.AddInt64(&tree.count, 1)
		return &xNode[K, V]{key: key, val: val, color: Red, height: 1}
	}

	// Eager 4-node split on the way down. The 2-3 discipline does this
	// split inside fixUp on the return path instead.
	if tree.is234 && h.left.isRed() && h.right.isRed() {
		h.flipColors()
	}

	if key == h.key {
		// Overwrite in place. Not an insertion: no new node, no rotation,
		// no count change.
		h.val = val
	} else if key < h.key {
		h.left = tree.insert(h.left, key, val)
	} else {
		h.right = tree.insert(h.right, key, val)
	}

	// Insertion never leaves a red right link whose left child is also red,
	// so the plain guarded normalization is enough for both disciplines.
	if h.right.isRed() && !h.left.isRed() {
		h = h.rotateLeft()
	}
	if h.left.isRed() && h.left.left.isRed() {
		h = h.rotateRight()
	}
	if !tree.is234 && h.left.isRed() && h.right.isRed() {
		h.flipColors()
	}
	h.updateHeight()
	return h
}

// Remove deletes key and returns the value it held. An absent key leaves the
// tree untouched and reports ErrLLRBKeyNotFound; the key is resolved with a
// plain descent before any recoloring starts.
func (tree *llrbTree[K, V]) Remove(key K) (V, error) {
	old, ok := tree.Get(key)
	if !ok {
		var zero V
		return zero, ErrLLRBKeyNotFound
	}

	// A 2-node root cannot lend red-ness; recolor it red so the descent
	// can borrow at the top. The root link turns black again afterwards.
	if !tree.root.left.isRed() && !tree.root.right.isRed() {
		tree.root.color = Red
	}
	tree.root = tree.remove(tree.root, key)
	if tree.root != nil {
		tree.root.color = Black
	}
	atomic.AddInt64(&tree.count, -1)
	tree.audit("remove")
	return old, nil
}

// remove assumes key is present in the subtree rooted at h. Before every
// descent the target child is guaranteed not to be a 2-node.
func (tree *llrbTree[K, V]) remove(h *xNode[K, V], key K) *xNode[K, V] {
	if key < h.key {
		if h.left != nil {
			if !h.left.isRed() && !h.left.left.isRed() {
				h = tree.moveRedLeft(h)
			}
			h.left = tree.remove(h.left, key)
		}
	} else {
		// Canonicalize so the logic below can assume right-leaning cases.
		if h.left.isRed() {
			h = h.rotateRight()
		}
		if key == h.key && h.right == nil {
			// Leaf match, splice it out.
			return nil
		}
		if h.right != nil {
			if !h.right.isRed() && !h.right.left.isRed() {
				h = tree.moveRedRight(h)
			}
			if key == h.key {
				// Replace with the in-order successor and delete the
				// successor from the right subtree instead.
				succ := h.right.minimum()
				h.key, h.val = succ.key, succ.val
				h.right = tree.removeMin(h.right)
			} else {
				h.right = tree.remove(h.right, key)
			}
		}
	}
	return tree.fixUp(h)
}

func (tree *llrbTree[K, V]) RemoveMin() (K, V, error) {
	if tree.root == nil {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, ErrLLRBEmpty
	}
	m := tree.root.minimum()
	key, val := m.key, m.val

	if !tree.root.left.isRed() && !tree.root.right.isRed() {
		tree.root.color = Red
	}
	tree.root = tree.removeMin(tree.root)
	if tree.root != nil {
		tree.root.color = Black
	}
	atomic.AddInt64(&tree.count, -1)
	tree.audit("remove_min")
	return key, val, nil
}

func (tree *llrbTree[K, V]) removeMin(h *xNode[K, V]) *xNode[K, V] {
	if h.left == nil {
		return nil
	}
	if !h.left.isRed() && !h.left.left.isRed() {
		h = tree.moveRedLeft(h)
	}
	h.left = tree.removeMin(h.left)
	return tree.fixUp(h)
}

func (tree *llrbTree[K, V]) RemoveMax() (K, V, error) {
	if tree.root == nil {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, ErrLLRBEmpty
	}
	m := tree.root.maximum()
	key, val := m.key, m.val

	if !tree.root.left.isRed() && !tree.root.right.isRed() {
		tree.root.color = Red
	}
	tree.root = tree.removeMax(tree.root)
	if tree.root != nil {
		tree.root.color = Black
	}
	atomic.AddInt64(&tree.count, -1)
	tree.audit("remove_max")
	return key, val, nil
}

func (tree *llrbTree[K, V]) removeMax(h *xNode[K, V]) *xNode[K, V] {
	if h.left.isRed() {
		h = h.rotateRight()
	}
	if h.right == nil {
		return nil
	}
	if !h.right.isRed() && !h.right.left.isRed() {
		h = tree.moveRedRight(h)
	}
	h.right = tree.removeMax(h.right)
	return tree.fixUp(h)
}

func (tree *llrbTree[K, V]) Min() (K, V, error) {
	if tree.root == nil {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, ErrLLRBEmpty
	}
	m := tree.root.minimum()
	return m.key, m.val, nil
}

func (tree *llrbTree[K, V]) Max() (K, V, error) {
	if tree.root == nil {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, ErrLLRBEmpty
	}
	m := tree.root.maximum()
	return m.key, m.val, nil
}

func (tree *llrbTree[K, V]) Height() int64 {
	return tree.root.cachedHeight()
}

func (tree *llrbTree[K, V]) IsEmpty() bool {
	return atomic.LoadInt64(&tree.count) == 0
}

func (tree *llrbTree[K, V]) Root() LLRBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

type LLRBOpt[K infra.OrderedKey, V any] func(*llrbTree[K, V])

// WithLLRBVariant234 switches the insert path to the eager flip-on-descent
// 4-node split. Order and black balance are unaffected; the strict "no red
// right link" shape no longer holds because 4-nodes become legal.
func WithLLRBVariant234[K infra.OrderedKey, V any]() LLRBOpt[K, V] {
	return func(tree *llrbTree[K, V]) {
		tree.is234 = true
	}
}

// WithLLRBAudit re-validates every invariant after each mutating operation
// and panics on a violation after logging it. Development use only; a nil
// logger falls back to a stderr console logger.
func WithLLRBAudit[K infra.OrderedKey, V any](logger *zap.Logger) LLRBOpt[K, V] {
	return func(tree *llrbTree[K, V]) {
		if logger == nil {
			logger = defaultAuditLogger()
		}
		tree.logger = logger
	}
}

func NewLLRB[K infra.OrderedKey, V any](opts ...LLRBOpt[K, V]) LLRBTree[K, V] {
	tree := &llrbTree[K, V]{}
	for _, o := range opts {
		o(tree)
	}
	return tree
}
