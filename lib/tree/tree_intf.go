package tree

import "github.com/benz9527/xllrb/lib/infra"

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=NodeColor
type NodeColor uint8

const (
	Black NodeColor = iota
	Red
)

// BSTree is the contract of the unbalanced ordered-tree primitive: a plain
// key-ordered binary tree with recursive insertion and no rebalancing at all.
// The left-leaning red-black balancer layers on top of it and only strengthens
// the structural guarantees, never the observable key-value semantics.
// Single-writer only. Concurrent mutation must be serialized by the caller.
type BSTree[K infra.OrderedKey, V any] interface {
	Len() int64
	Get(key K) (V, bool)
	Contains(key K) bool
	Insert(key K, val V)
	// Foreach visits the entries in ascending key order and stops early
	// when action returns false.
	Foreach(action func(idx int64, color NodeColor, key K, val V) bool)
	Release()
}

// LLRBNode is a read-only view of a tree node. The color belongs to the link
// from the parent; a nil link is Black by convention.
type LLRBNode[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	Color() NodeColor
	Left() LLRBNode[K, V]
	Right() LLRBNode[K, V]
}

type LLRBTree[K infra.OrderedKey, V any] interface {
	BSTree[K, V]
	Root() LLRBNode[K, V]
	Remove(key K) (V, error)
	RemoveMin() (K, V, error)
	RemoveMax() (K, V, error)
	Min() (K, V, error)
	Max() (K, V, error)
	// Height is the cached node-count height of the tree, 0 when empty.
	// Informational only, it never drives rebalancing.
	Height() int64
	IsEmpty() bool
}

// InsertKey stores the key as its own payload, turning a tree instantiated as
// T[K, K] into an ordered key set where Get hands the key itself back.
func InsertKey[K infra.OrderedKey](t BSTree[K, K], key K) {
	t.Insert(key, key)
}
