package tree

import (
	"iter"

	"github.com/google/btree"

	"github.com/benz9527/xset/lib/infra"
)

const xSetAdapterDegree = 32

var _ XSet[int] = (*xSetAdapter[int])(nil)

// xSetAdapter delegates to a B-tree. It can not see the shape of the
// delegate, so Height reports Len and NumChildren only tells presence.
type xSetAdapter[E infra.OrderedKey] struct {
	delegate *btree.BTreeG[E]
}

func (s *xSetAdapter[E]) Insert(e E) (bool, error) {
	if infra.IsIncomparable(e) {
		return false, ErrXSetIncomparable
	}
	_, replaced := s.delegate.ReplaceOrInsert(e)
	return !replaced, nil
}

func (s *xSetAdapter[E]) InsertAll(seq iter.Seq[E]) (bool, error) {
	if seq == nil {
		return false, ErrXSetNilArgument
	}
	changed := false
	for e := range seq {
		ok, err := s.Insert(e)
		if err != nil {
			return changed, err
		}
		changed = changed || ok
	}
	return changed, nil
}

func (s *xSetAdapter[E]) Remove(e E) (bool, error) {
	if infra.IsIncomparable(e) {
		return false, ErrXSetIncomparable
	}
	_, removed := s.delegate.Delete(e)
	return removed, nil
}

func (s *xSetAdapter[E]) Contains(e E) (bool, error) {
	if infra.IsIncomparable(e) {
		return false, ErrXSetIncomparable
	}
	return s.delegate.Has(e), nil
}

func (s *xSetAdapter[E]) First() (E, error) {
	e, ok := s.delegate.Min()
	if !ok {
		return e, ErrXSetIsEmpty
	}
	return e, nil
}

func (s *xSetAdapter[E]) Last() (E, error) {
	e, ok := s.delegate.Max()
	if !ok {
		return e, ErrXSetIsEmpty
	}
	return e, nil
}

func (s *xSetAdapter[E]) Len() int64 {
	return int64(s.delegate.Len())
}

func (s *xSetAdapter[E]) Height() int {
	return s.delegate.Len()
}

func (s *xSetAdapter[E]) IsEmpty() bool {
	return s.delegate.Len() == 0
}

func (s *xSetAdapter[E]) Clear() {
	s.delegate.Clear(false)
}

// NumChildren returns -1 for a present element.
func (s *xSetAdapter[E]) NumChildren(e E) (int64, error) {
	if infra.IsIncomparable(e) {
		return 0, ErrXSetIllegalArgument
	}
	if !s.delegate.Has(e) {
		return 0, ErrXSetNotFound
	}
	return -1, nil
}

// Iterator walks a snapshot of the elements.
func (s *xSetAdapter[E]) Iterator() XSetIterator[E] {
	elems := make([]E, 0, s.delegate.Len())
	s.delegate.Ascend(func(e E) bool {
		elems = append(elems, e)
		return true
	})
	return &sliceIterator[E]{elems: elems}
}

func (s *xSetAdapter[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		s.delegate.Ascend(btree.ItemIteratorG[E](yield))
	}
}

func (s *xSetAdapter[E]) Foreach(action func(idx int64, e E) bool) {
	idx := int64(0)
	s.delegate.Ascend(func(e E) bool {
		ok := action(idx, e)
		idx++
		return ok
	})
}

func (s *xSetAdapter[E]) String() string {
	return formatXSet[E](s.Iterator())
}

type sliceIterator[E infra.OrderedKey] struct {
	elems []E
	idx   int
}

func (it *sliceIterator[E]) HasNext() bool {
	return it.idx < len(it.elems)
}

func (it *sliceIterator[E]) Next() (E, error) {
	if !it.HasNext() {
		var zero E
		return zero, ErrXSetNoSuchElement
	}
	e := it.elems[it.idx]
	it.idx++
	return e, nil
}

func (it *sliceIterator[E]) Remove() error {
	return ErrXSetUnsupported
}

func NewXSetAdapter[E infra.OrderedKey]() XSet[E] {
	return &xSetAdapter[E]{
		delegate: btree.NewG[E](xSetAdapterDegree, func(i, j E) bool {
			return infra.NaturalOrder(i, j) < 0
		}),
	}
}
