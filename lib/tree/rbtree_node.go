package tree

import (
	"github.com/benz9527/xset/lib/infra"
)

type rbNode[E infra.OrderedKey] struct {
	parent *rbNode[E]
	left   *rbNode[E]
	right  *rbNode[E]
	elem   E
	color  RBColor
}

// Nil nodes are black leaves.
func (node *rbNode[E]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode[E]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[E]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[E]) Direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[E]) sibling() *rbNode[E] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *rbNode[E]) grandpa() *rbNode[E] {
	if node.parent == nil {
		return nil
	}
	return node.parent.parent
}

func (node *rbNode[E]) uncle() *rbNode[E] {
	if node.grandpa() == nil {
		return nil
	}
	return node.parent.sibling()
}

func (node *rbNode[E]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode[E]) minimum() *rbNode[E] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *rbNode[E]) maximum() *rbNode[E] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
func (node *rbNode[E]) pred() *rbNode[E] {
	x := node
	if x == nil {
		return nil
	}
	if x.left != nil {
		return x.left.maximum()
	}

	aux := x.parent
	// Backtrack to father node that is the x's pred.
	for aux != nil && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (node *rbNode[E]) succ() *rbNode[E] {
	x := node
	if x == nil {
		return nil
	}
	if x.right != nil {
		return x.right.minimum()
	}

	aux := x.parent
	// Backtrack to father node that is the x's succ.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}
