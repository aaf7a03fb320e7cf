package tree

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/benz9527/xset/lib/infra"
	"github.com/benz9527/xset/lib/xlog"
)

var (
	ErrXSetNilArgument     = errors.New("[x-set] nil argument")
	ErrXSetIncomparable    = errors.New("[x-set] element is incomparable")
	ErrXSetNotFound        = errors.New("[x-set] element not found")
	ErrXSetIsEmpty         = errors.New("[x-set] there is no element")
	ErrXSetUnsupported     = errors.New("[x-set] unsupported operation")
	ErrXSetIllegalArgument = errors.New("[x-set] illegal argument")
	ErrXSetNoSuchElement   = errors.New("[x-set] iteration has no more elements")
)

type xSetOptions struct {
	logger         xlog.XLogger
	statsName      string
	isStatsEnabled bool
	meterProvider  metric.MeterProvider
	isRmBorrowSucc bool
}

type XSetOption func(*xSetOptions)

func WithXSetLogger(logger xlog.XLogger) XSetOption {
	return func(opts *xSetOptions) {
		opts.logger = logger
	}
}

// WithXSetStats records the operations by the otel global meter provider.
func WithXSetStats(name string) XSetOption {
	return func(opts *xSetOptions) {
		opts.isStatsEnabled = true
		opts.statsName = name
	}
}

func WithXSetMeterProvider(mp metric.MeterProvider) XSetOption {
	return func(opts *xSetOptions) {
		opts.isStatsEnabled = true
		opts.meterProvider = mp
	}
}

// WithXSetRemoveBorrowSucc replaces a removed node with two children by its
// successor instead of its predecessor.
func WithXSetRemoveBorrowSucc() XSetOption {
	return func(opts *xSetOptions) {
		opts.isRmBorrowSucc = true
	}
}

var _ XSet[int] = (*xSet[int])(nil)

type xSet[E infra.OrderedKey] struct {
	tree   *rbTree[E]
	logger xlog.XLogger
	stats  *xSetStats
}

func (s *xSet[E]) rejectIncomparable(op string, e E) bool {
	if !infra.IsIncomparable(e) {
		return false
	}
	s.logger.Warn("[x-set] reject incomparable element",
		zap.String("op", op),
		zap.Any("elem", e),
	)
	return true
}

func (s *xSet[E]) Insert(e E) (bool, error) {
	if s.rejectIncomparable("insert", e) {
		return false, ErrXSetIncomparable
	}
	rotations := s.tree.rotations
	if !s.tree.insert(e) {
		return false, nil
	}
	s.stats.RecordInsert(s.tree.rotations - rotations)
	return true, nil
}

func (s *xSet[E]) InsertAll(seq iter.Seq[E]) (bool, error) {
	if seq == nil {
		s.logger.Warn("[x-set] reject nil sequence", zap.String("op", "insertAll"))
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

func (s *xSet[E]) Remove(e E) (bool, error) {
	if s.rejectIncomparable("remove", e) {
		return false, ErrXSetIncomparable
	}
	rotations := s.tree.rotations
	if !s.tree.remove(e) {
		return false, nil
	}
	s.stats.RecordRemove(s.tree.rotations - rotations)
	return true, nil
}

func (s *xSet[E]) Contains(e E) (bool, error) {
	if s.rejectIncomparable("contains", e) {
		return false, ErrXSetIncomparable
	}
	return s.tree.search(e) != nil, nil
}

func (s *xSet[E]) First() (E, error) {
	if s.tree.root == nil {
		var zero E
		return zero, ErrXSetIsEmpty
	}
	return s.tree.root.minimum().elem, nil
}

func (s *xSet[E]) Last() (E, error) {
	if s.tree.root == nil {
		var zero E
		return zero, ErrXSetIsEmpty
	}
	return s.tree.root.maximum().elem, nil
}

func (s *xSet[E]) Len() int64 {
	return s.tree.Len()
}

func (s *xSet[E]) Height() int {
	return s.tree.height(s.tree.root)
}

func (s *xSet[E]) IsEmpty() bool {
	return s.tree.root == nil
}

func (s *xSet[E]) Clear() {
	released := s.tree.Len()
	s.tree.Release()
	s.stats.RecordClear(released)
	s.logger.Debug("[x-set] cleared", zap.Int64("released", released))
}

func (s *xSet[E]) NumChildren(e E) (int64, error) {
	if s.rejectIncomparable("numChildren", e) {
		return 0, ErrXSetIllegalArgument
	}
	node := s.tree.search(e)
	if node == nil {
		return 0, ErrXSetNotFound
	}
	return s.tree.descendants(node), nil
}

func (s *xSet[E]) Iterator() XSetIterator[E] {
	return newRBTreeIterator[E](s.tree)
}

func (s *xSet[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		s.tree.Foreach(func(_ int64, _ RBColor, elem E) bool {
			return yield(elem)
		})
	}
}

func (s *xSet[E]) Foreach(action func(idx int64, e E) bool) {
	s.tree.Foreach(func(idx int64, _ RBColor, elem E) bool {
		return action(idx, elem)
	})
}

func (s *xSet[E]) String() string {
	return formatXSet[E](s.Iterator())
}

func formatXSet[E infra.OrderedKey](it XSetIterator[E]) string {
	builder := strings.Builder{}
	builder.WriteString("[")
	for first := true; it.HasNext(); first = false {
		e, err := it.Next()
		if err != nil {
			break
		}
		if !first {
			builder.WriteString(", ")
		}
		_, _ = fmt.Fprint(&builder, e)
	}
	builder.WriteString("]")
	return builder.String()
}

func NewXSet[E infra.OrderedKey](opts ...XSetOption) XSet[E] {
	cfg := &xSetOptions{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = xlog.NewNopXLogger()
	}

	s := &xSet[E]{
		tree: &rbTree[E]{
			isRmBorrowSucc: cfg.isRmBorrowSucc,
		},
		logger: cfg.logger,
	}
	if cfg.isStatsEnabled {
		s.stats = newXSetStats(cfg.statsName, cfg.meterProvider)
	}
	return s
}

// NewXSetFrom builds a set by inserting the elements of seq one by one.
func NewXSetFrom[E infra.OrderedKey](seq iter.Seq[E], opts ...XSetOption) (XSet[E], error) {
	if seq == nil {
		return nil, ErrXSetNilArgument
	}
	s := NewXSet[E](opts...)
	if _, err := s.InsertAll(seq); err != nil {
		return nil, err
	}
	return s, nil
}

// XSetValidate checks every red-black tree property of a set built by
// NewXSet and returns all of the violations as one infra.ErrorStack.
// Other XSet implementations have no tree to check.
func XSetValidate[E infra.OrderedKey](set XSet[E]) error {
	s, ok := set.(*xSet[E])
	if !ok || s == nil {
		return nil
	}
	if es := rbtreeValidate[E](s.tree); es != nil {
		s.logger.ErrorStack(es, "[x-set] rbtree properties violated", zap.Int64("len", s.tree.Len()))
		return es
	}
	return nil
}
