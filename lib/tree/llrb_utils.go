package tree

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/benz9527/xllrb/lib/infra"
)

var (
	_ BSTree[uint64, uint64]   = (*bsTree[uint64, uint64])(nil)
	_ LLRBTree[uint64, uint64] = (*llrbTree[uint64, uint64])(nil)

	errLLRBRedViolation   = errors.New("[llrb] red violation")
	errLLRBBlackViolation = errors.New("[llrb] black violation")
	errLLRBOrderViolation = errors.New("[llrb] key order violation")
)

// llrb rule validation utilities. They walk the read-only node view, so they
// work on any LLRBTree implementation. The tree has no parent pointers, hence
// every check is a top-down recursion.

func isRedNode[K infra.OrderedKey, V any](node LLRBNode[K, V]) bool {
	return node != nil && node.Color() == Red
}

// RedViolationValidate reports a red link violation: a red right link (the
// strict left-leaning shape of the default 2-3 discipline) or two consecutive
// red links.
func RedViolationValidate[K infra.OrderedKey, V any](tree LLRBTree[K, V]) error {
	return redViolationAt[K, V](tree.Root(), false)
}

func redViolationAt[K infra.OrderedKey, V any](node LLRBNode[K, V], allow4Nodes bool) error {
	if node == nil {
		return nil
	}
	l, r := node.Left(), node.Right()
	if isRedNode[K, V](node) && (isRedNode[K, V](l) || isRedNode[K, V](r)) {
		return errLLRBRedViolation
	}
	if isRedNode[K, V](r) && !(allow4Nodes && isRedNode[K, V](l)) {
		return errLLRBRedViolation
	}
	if err := redViolationAt[K, V](l, allow4Nodes); err != nil {
		return err
	}
	return redViolationAt[K, V](r, allow4Nodes)
}

// BlackViolationValidate reports a black balance violation: some pair of
// root-to-nil paths crossing a different number of black links.
func BlackViolationValidate[K infra.OrderedKey, V any](tree LLRBTree[K, V]) error {
	_, err := blackDepthAt[K, V](tree.Root())
	return err
}

func blackDepthAt[K infra.OrderedKey, V any](node LLRBNode[K, V]) (int64, error) {
	if node == nil {
		// A nil link is black.
		return 1, nil
	}
	lb, err := blackDepthAt[K, V](node.Left())
	if err != nil {
		return 0, err
	}
	rb, err := blackDepthAt[K, V](node.Right())
	if err != nil {
		return 0, err
	}
	if lb != rb {
		return 0, errLLRBBlackViolation
	}
	if node.Color() == Black {
		lb++
	}
	return lb, nil
}

// OrderViolationValidate reports a BST ordering violation: the inorder key
// sequence not strictly increasing.
func OrderViolationValidate[K infra.OrderedKey, V any](tree LLRBTree[K, V]) error {
	violated := false
	var prev K
	first := true
	tree.Foreach(func(idx int64, color NodeColor, key K, val V) bool {
		if !first && key <= prev {
			violated = true
			return false
		}
		first = false
		prev = key
		return true
	})
	if violated {
		return errLLRBOrderViolation
	}
	return nil
}

// Validate runs every rule check of the strict 2-3 discipline and combines
// the findings.
func Validate[K infra.OrderedKey, V any](tree LLRBTree[K, V]) error {
	return multierr.Combine(
		RedViolationValidate[K, V](tree),
		BlackViolationValidate[K, V](tree),
		OrderViolationValidate[K, V](tree),
	)
}

// validate is the variant-aware counterpart of Validate used by the audit
// hook: a 2-3-4 tree legally holds 4-nodes, so the strict red check relaxes.
func (tree *llrbTree[K, V]) validate() error {
	return multierr.Combine(
		redViolationAt[K, V](tree.Root(), tree.is234),
		BlackViolationValidate[K, V](tree),
		OrderViolationValidate[K, V](tree),
	)
}
