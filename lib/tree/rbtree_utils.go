package tree

import (
	"errors"
	"fmt"

	"github.com/benz9527/xset/lib/infra"
)

var (
	errRbtreeRedViolation   = errors.New("[rbtree] red violation")
	errRbtreeBlackViolation = errors.New("[rbtree] black violation")
	errRbtreeOrderViolation = errors.New("[rbtree] order violation")
	errRbtreeLinkViolation  = errors.New("[rbtree] parent child link violation")
	errRbtreeSizeViolation  = errors.New("[rbtree] size violation")
)

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

// Inorder traversal to validate the rbtree red properties, the root is
// black and there is no red node has a red child.
func redViolationValidate[E infra.OrderedKey](tree *rbTree[E]) error {
	if tree.root.isRed() {
		return fmt.Errorf("%w: red root %v", errRbtreeRedViolation, tree.root.elem)
	}

	var err error
	tree.walk(func(node *rbNode[E]) bool {
		if node.isRed() && (node.left.isRed() || node.right.isRed()) {
			err = fmt.Errorf("%w: red node %v has a red child", errRbtreeRedViolation, node.elem)
			return false
		}
		return true
	})
	return err
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
*/
func blackViolationValidate[E infra.OrderedKey](tree *rbTree[E]) error {
	var err error
	var blackHeight func(node *rbNode[E]) int
	blackHeight = func(node *rbNode[E]) int {
		if node == nil || err != nil {
			return 1
		}
		l, r := blackHeight(node.left), blackHeight(node.right)
		if l != r && err == nil {
			err = fmt.Errorf("%w: node %v left black height %d, right %d",
				errRbtreeBlackViolation, node.elem, l, r,
			)
		}
		if node.isBlack() {
			return l + 1
		}
		return l
	}
	blackHeight(tree.root)
	return err
}

func orderViolationValidate[E infra.OrderedKey](tree *rbTree[E]) error {
	var (
		err  error
		prev *rbNode[E]
	)
	tree.walk(func(node *rbNode[E]) bool {
		if prev != nil && infra.NaturalOrder(prev.elem, node.elem) >= 0 {
			err = fmt.Errorf("%w: %v is not less than %v", errRbtreeOrderViolation, prev.elem, node.elem)
			return false
		}
		prev = node
		return true
	})
	return err
}

func linkViolationValidate[E infra.OrderedKey](tree *rbTree[E]) error {
	if tree.root != nil && tree.root.parent != nil {
		return fmt.Errorf("%w: root %v has a parent", errRbtreeLinkViolation, tree.root.elem)
	}

	var err error
	tree.walk(func(node *rbNode[E]) bool {
		if (node.left != nil && node.left.parent != node) ||
			(node.right != nil && node.right.parent != node) {
			err = fmt.Errorf("%w: node %v child back reference mismatch", errRbtreeLinkViolation, node.elem)
			return false
		}
		if node != tree.root && node.parent == nil {
			err = fmt.Errorf("%w: non-root node %v without parent", errRbtreeLinkViolation, node.elem)
			return false
		}
		return true
	})
	return err
}

func sizeViolationValidate[E infra.OrderedKey](tree *rbTree[E]) error {
	reachable := int64(0)
	if tree.root != nil {
		reachable = tree.descendants(tree.root) + 1
	}
	if reachable != tree.count {
		return fmt.Errorf("%w: counter %d, reachable %d", errRbtreeSizeViolation, tree.count, reachable)
	}
	return nil
}

// rbtreeValidate aggregates every violation. Nil means all of the rbtree
// properties hold.
func rbtreeValidate[E infra.OrderedKey](tree *rbTree[E]) infra.ErrorStack {
	return infra.AppendErrorStack(nil,
		redViolationValidate[E](tree),
		blackViolationValidate[E](tree),
		orderViolationValidate[E](tree),
		linkViolationValidate[E](tree),
		sizeViolationValidate[E](tree),
	)
}

// Inorder traversal by nodes, independent of the counter.
func (tree *rbTree[E]) walk(action func(node *rbNode[E]) bool) {
	stack := make([]*rbNode[E], 0, 8)
	for aux := tree.root; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}
	for len(stack) > 0 {
		aux := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !action(aux) {
			return
		}
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}
