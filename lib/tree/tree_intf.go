package tree

import (
	"iter"

	"github.com/benz9527/xset/lib/infra"
)

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "Unknown"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (d RBDirection) String() string {
	switch d {
	case Left:
		return "Left"
	case Root:
		return "Root"
	case Right:
		return "Right"
	default:
	}
	return "Unknown"
}

// XSet is an ordered set of mutually comparable elements without duplicates.
// It is not safe for concurrent use.
type XSet[E infra.OrderedKey] interface {
	// Insert returns false if the element is already present.
	Insert(e E) (bool, error)
	// InsertAll returns true if at least one element was new.
	InsertAll(seq iter.Seq[E]) (bool, error)
	// Remove returns false if the element is absent.
	Remove(e E) (bool, error)
	Contains(e E) (bool, error)
	First() (E, error)
	Last() (E, error)
	Len() int64
	// Height is the number of nodes on the longest root-to-leaf path.
	Height() int
	IsEmpty() bool
	Clear()
	// NumChildren counts the descendants of the node holding e.
	NumChildren(e E) (int64, error)
	Iterator() XSetIterator[E]
	All() iter.Seq[E]
	Foreach(action func(idx int64, e E) bool)
	// String renders the elements in ascending order, e.g. "[1, 2, 3]".
	String() string
}

// XSetIterator is single pass and must not outlive mutations of its set.
type XSetIterator[E infra.OrderedKey] interface {
	HasNext() bool
	Next() (E, error)
	Remove() error
}
