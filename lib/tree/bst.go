package tree

import (
	"sync/atomic"

	"github.com/benz9527/xllrb/lib/infra"
)

// xNode is the single node representation shared by the naive tree and the
// LLRB balancer. color names the link coming from the parent; the naive tree
// leaves every link Black. height is bookkeeping recomputed bottom-up after
// every structural change and is never consulted for balancing.
type xNode[K infra.OrderedKey, V any] struct {
	left   *xNode[K, V]
	right  *xNode[K, V]
	key    K
	val    V
	height int64
	color  NodeColor
}

func (node *xNode[K, V]) Key() K {
	return node.key
}

func (node *xNode[K, V]) Val() V {
	return node.val
}

func (node *xNode[K, V]) Color() NodeColor {
	return node.color
}

func (node *xNode[K, V]) Left() LLRBNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *xNode[K, V]) Right() LLRBNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *xNode[K, V]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *xNode[K, V]) cachedHeight() int64 {
	if node == nil {
		return 0
	}
	return node.height
}

func (node *xNode[K, V]) updateHeight() {
	h := node.left.cachedHeight()
	if r := node.right.cachedHeight(); r > h {
		h = r
	}
	node.height = h + 1
}

func (node *xNode[K, V]) minimum() *xNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *xNode[K, V]) maximum() *xNode[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// bsTree is the basic unbalanced (inefficient) search tree. It exists to be
// extended by balanced trees sharing its node layout and read surface.
type bsTree[K infra.OrderedKey, V any] struct {
	root  *xNode[K, V]
	count int64
}

func NewBSTree[K infra.OrderedKey, V any]() BSTree[K, V] {
	return &bsTree[K, V]{}
}

func (tree *bsTree[K, V]) Len() int64 {
	return atomic.LoadInt64(&tree.count)
}

// Get is a plain BST descent by key comparison. Colors are ignored, which is
// what lets the balanced extension reuse it unchanged.
func (tree *bsTree[K, V]) Get(key K) (V, bool) {
	for aux := tree.root; aux != nil; {
		if key == aux.key {
			return aux.val, true
		} else if key < aux.key {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	var zero V
	return zero, false
}

func (tree *bsTree[K, V]) Contains(key K) bool {
	_, ok := tree.Get(key)
	return ok
}

func (tree *bsTree[K, V]) Insert(key K, val V) {
	tree.root = tree.insert(tree.root, key, val)
}

// insert descends recursively and hands the (possibly new) subtree root back
// to the caller, which re-installs it in the parent link. Inserting a present
// key overwrites the value in place without a structural change.
func (tree *bsTree[K, V]) insert(h *xNode[K, V], key K, val V) *xNode[K, V] {
	if h == nil {
		atomic.AddInt64(&tree.count, 1)
		return &xNode[K, V]{key: key, val: val, height: 1}
	}

	if key == h.key {
		h.val = val
	} else if key < h.key {
		h.left = tree.insert(h.left, key, val)
	} else {
		h.right = tree.insert(h.right, key, val)
	}

	h.updateHeight()
	return h
}

// Inorder traversal to implement the DFS.
func (tree *bsTree[K, V]) Foreach(action func(idx int64, color NodeColor, key K, val V) bool) {
	size := atomic.LoadInt64(&tree.count)
	aux := tree.root
	if size <= 0 || aux == nil {
		return
	}

	stack := make([]*xNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		if aux.right != nil {
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

func (tree *bsTree[K, V]) Release() {
	aux := tree.root
	tree.root = nil
	atomic.StoreInt64(&tree.count, 0)
	if aux == nil {
		return
	}

	stack := make([]*xNode[K, V], 0, aux.cachedHeight())
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		r := aux.right
		aux.left, aux.right = nil, nil
		stack = stack[:size-1]
		if r != nil {
			for aux = r; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}
