package tree

import (
	"github.com/benz9527/xset/lib/infra"
)

var _ XSetIterator[int] = (*rbTreeIterator[int])(nil)

// rbTreeIterator keeps the left spine of the unvisited part of the tree.
// Memory is bounded by the tree height.
type rbTreeIterator[E infra.OrderedKey] struct {
	stack []*rbNode[E]
}

func newRBTreeIterator[E infra.OrderedKey](tree *rbTree[E]) *rbTreeIterator[E] {
	it := &rbTreeIterator[E]{
		stack: make([]*rbNode[E], 0, 8),
	}
	it.pushLeftSpine(tree.root)
	return it
}

func (it *rbTreeIterator[E]) pushLeftSpine(node *rbNode[E]) {
	for aux := node; aux != nil; aux = aux.left {
		it.stack = append(it.stack, aux)
	}
}

func (it *rbTreeIterator[E]) HasNext() bool {
	return len(it.stack) > 0
}

func (it *rbTreeIterator[E]) Next() (E, error) {
	size := len(it.stack)
	if size <= 0 {
		var zero E
		return zero, ErrXSetNoSuchElement
	}
	aux := it.stack[size-1]
	it.stack[size-1] = nil
	it.stack = it.stack[:size-1]
	it.pushLeftSpine(aux.right)
	return aux.elem, nil
}

func (it *rbTreeIterator[E]) Remove() error {
	return ErrXSetUnsupported
}
