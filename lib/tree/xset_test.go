package tree

import (
	"bytes"
	"encoding/json"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xset/lib/xlog"
)

func requireNumChildren[E int | string](t *testing.T, set XSet[E], expected map[E]int64) {
	t.Helper()
	for e, n := range expected {
		actual, err := set.NumChildren(e)
		require.NoError(t, err)
		require.Equal(t, n, actual, "numChildren(%v)", e)
	}
}

func requireHeightBound[E int | float64 | string](t *testing.T, set XSet[E]) {
	t.Helper()
	bound := 2 * int(math.Ceil(math.Log2(float64(set.Len()+1))))
	require.LessOrEqual(t, set.Height(), bound, "len %d", set.Len())
}

func TestXSet_InsertStraightLine(t *testing.T) {
	set := NewXSet[int]()
	for _, e := range []int{5, 4, 2, 3, 6, 1} {
		ok, err := set.Insert(e)
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.Equal(t, "[1, 2, 3, 4, 5, 6]", set.String())
	require.Equal(t, int64(6), set.Len())
	require.Equal(t, 3, set.Height())
	requireNumChildren(t, set, map[int]int64{1: 0, 2: 2, 3: 0, 4: 5, 5: 1, 6: 0})
	require.NoError(t, XSetValidate(set))
}

func xSetOfTen(t *testing.T, opts ...XSetOption) XSet[int] {
	set, err := NewXSetFrom[int](slices.Values([]int{4, 3, 2, 7, 8, 9, 10, 1, 6, 5}), opts...)
	require.NoError(t, err)
	return set
}

func TestXSet_InsertAndRemoveScenario(t *testing.T) {
	set := xSetOfTen(t)
	require.Equal(t, "[1, 2, 3, 4, 5, 6, 7, 8, 9, 10]", set.String())
	require.Equal(t, 4, set.Height())
	requireNumChildren(t, set, map[int]int64{
		1: 0, 2: 1, 3: 9, 4: 0, 5: 2, 6: 0, 7: 6, 8: 0, 9: 2, 10: 0,
	})
	require.NoError(t, XSetValidate(set))

	for _, e := range []int{7, 5, 6} {
		ok, err := set.Remove(e)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, XSetValidate(set))
	}
	require.Equal(t, "[1, 2, 3, 4, 8, 9, 10]", set.String())
	require.Equal(t, int64(7), set.Len())
	require.Equal(t, 4, set.Height())
	requireNumChildren(t, set, map[int]int64{
		1: 0, 2: 1, 3: 6, 4: 1, 8: 0, 9: 3, 10: 0,
	})

	ok, err := set.Remove(7)
	require.NoError(t, err)
	require.False(t, ok)
	_, err = set.NumChildren(7)
	require.ErrorIs(t, err, ErrXSetNotFound)
}

func TestXSet_InsertCases(t *testing.T) {
	set := NewXSet[int]()
	_, err := set.Insert(22)
	require.NoError(t, err)
	require.Equal(t, "[22]", set.String())
	requireNumChildren(t, set, map[int]int64{22: 0})

	_, err = set.InsertAll(slices.Values([]int{11, 33}))
	require.NoError(t, err)
	require.Equal(t, 2, set.Height())
	requireNumChildren(t, set, map[int]int64{22: 2})

	_, err = set.Insert(55)
	require.NoError(t, err)
	require.Equal(t, 3, set.Height())
	requireNumChildren(t, set, map[int]int64{22: 3, 33: 1})

	_, err = set.Insert(44)
	require.NoError(t, err)
	require.Equal(t, 3, set.Height())
	requireNumChildren(t, set, map[int]int64{22: 4, 44: 2, 11: 0})
	require.NoError(t, XSetValidate(set))
}

func TestXSet_Empty(t *testing.T) {
	set := NewXSet[int]()
	_, err := set.First()
	require.ErrorIs(t, err, ErrXSetIsEmpty)
	_, err = set.Last()
	require.ErrorIs(t, err, ErrXSetIsEmpty)
	require.Equal(t, 0, set.Height())
	require.Equal(t, "[]", set.String())
	require.True(t, set.IsEmpty())
	require.Equal(t, int64(0), set.Len())

	ok, err := set.Remove(1)
	require.NoError(t, err)
	require.False(t, ok)
	ok, err = set.Contains(1)
	require.NoError(t, err)
	require.False(t, ok)
	_, err = set.NumChildren(1)
	require.ErrorIs(t, err, ErrXSetNotFound)

	it := set.Iterator()
	require.False(t, it.HasNext())
	_, err = it.Next()
	require.ErrorIs(t, err, ErrXSetNoSuchElement)
	require.Empty(t, slices.Collect(set.All()))
	require.NoError(t, XSetValidate(set))
}

func TestXSet_FirstLastAndClear(t *testing.T) {
	set := xSetOfTen(t)
	first, err := set.First()
	require.NoError(t, err)
	require.Equal(t, 1, first)
	last, err := set.Last()
	require.NoError(t, err)
	require.Equal(t, 10, last)
	require.False(t, set.IsEmpty())

	set.Clear()
	require.True(t, set.IsEmpty())
	require.Equal(t, int64(0), set.Len())
	require.Equal(t, "[]", set.String())
	_, err = set.First()
	require.ErrorIs(t, err, ErrXSetIsEmpty)

	// reusable after clear
	ok, err := set.Insert(42)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "[42]", set.String())
	require.NoError(t, XSetValidate(set))
}

func TestXSet_Duplicates(t *testing.T) {
	set := NewXSet[string]()
	changed, err := set.InsertAll(slices.Values([]string{"D", "A", "C", "A", "B"}))
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, int64(4), set.Len())
	require.Equal(t, "[A, B, C, D]", set.String())

	changed, err = set.InsertAll(slices.Values([]string{"A", "B"}))
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, int64(4), set.Len())

	ok, err := set.Remove("C")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = set.Contains("C")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, XSetValidate(set))
}

func TestXSet_RemoveSiblingCases(t *testing.T) {
	testcases := []struct {
		name     string
		removes  []int
		expected string
		children map[int]int64
		height   int
	}{
		{
			name:     "remove leaf",
			removes:  []int{1},
			expected: "[2, 3, 4, 5, 6]",
		},
		{
			name:     "remove root",
			removes:  []int{4},
			expected: "[1, 2, 3, 5, 6]",
		},
		{
			name:     "remove inner",
			removes:  []int{2},
			expected: "[1, 3, 4, 5, 6]",
		},
		{
			name:     "remove black with red child",
			removes:  []int{5},
			expected: "[1, 2, 3, 4, 6]",
		},
		{
			name:     "remove two",
			removes:  []int{2, 5},
			expected: "[1, 3, 4, 6]",
			children: map[int]int64{1: 0, 3: 3, 4: 1, 6: 0},
			height:   3,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			set, err := NewXSetFrom[int](slices.Values([]int{5, 4, 2, 3, 6, 1}))
			require.NoError(t, err)
			for _, e := range tc.removes {
				ok, err := set.Remove(e)
				require.NoError(t, err)
				require.True(t, ok)
				require.NoError(t, XSetValidate(set))
			}
			require.Equal(t, tc.expected, set.String())
			require.Equal(t, int64(6-len(tc.removes)), set.Len())
			if tc.children != nil {
				requireNumChildren(t, set, tc.children)
				require.Equal(t, tc.height, set.Height())
			}
		})
	}

	set, err := NewXSetFrom[int](slices.Values([]int{5, 4, 2, 3, 6, 1, 7}))
	require.NoError(t, err)
	ok, err := set.Remove(6)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "[1, 2, 3, 4, 5, 7]", set.String())
	require.NoError(t, XSetValidate(set))
}

func TestXSet_RemoveBorrowSucc(t *testing.T) {
	set := xSetOfTen(t, WithXSetRemoveBorrowSucc())
	for _, e := range []int{7, 5, 6} {
		ok, err := set.Remove(e)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, XSetValidate(set))
	}
	require.Equal(t, "[1, 2, 3, 4, 8, 9, 10]", set.String())
	require.Equal(t, int64(7), set.Len())
	requireHeightBound(t, set)
}

func TestXSet_Incomparable(t *testing.T) {
	set := NewXSet[float64]()
	_, err := set.InsertAll(slices.Values([]float64{1.5, math.Inf(-1), math.Inf(1), 0}))
	require.NoError(t, err)

	nan := math.NaN()
	ok, err := set.Insert(nan)
	require.ErrorIs(t, err, ErrXSetIncomparable)
	require.False(t, ok)
	_, err = set.Remove(nan)
	require.ErrorIs(t, err, ErrXSetIncomparable)
	_, err = set.Contains(nan)
	require.ErrorIs(t, err, ErrXSetIncomparable)
	_, err = set.NumChildren(nan)
	require.ErrorIs(t, err, ErrXSetIllegalArgument)
	require.Equal(t, int64(4), set.Len())
	require.Equal(t, "[-Inf, 0, 1.5, +Inf]", set.String())

	// The elements before the incomparable one stay inserted.
	changed, err := set.InsertAll(slices.Values([]float64{2.5, nan, 3.5}))
	require.ErrorIs(t, err, ErrXSetIncomparable)
	require.True(t, changed)
	require.Equal(t, "[-Inf, 0, 1.5, 2.5, +Inf]", set.String())
	require.NoError(t, XSetValidate(set))

	_, err = NewXSetFrom[float64](slices.Values([]float64{nan}))
	require.ErrorIs(t, err, ErrXSetIncomparable)
}

func TestXSet_NilArgument(t *testing.T) {
	set := NewXSet[int]()
	changed, err := set.InsertAll(nil)
	require.ErrorIs(t, err, ErrXSetNilArgument)
	require.False(t, changed)

	s, err := NewXSetFrom[int](nil)
	require.ErrorIs(t, err, ErrXSetNilArgument)
	require.Nil(t, s)
}

func TestXSet_Iterator(t *testing.T) {
	set := xSetOfTen(t)
	it := set.Iterator()
	elems := make([]int, 0, set.Len())
	for it.HasNext() {
		e, err := it.Next()
		require.NoError(t, err)
		elems = append(elems, e)
	}
	require.Equal(t, lo.RangeFrom(1, 10), elems)
	_, err := it.Next()
	require.ErrorIs(t, err, ErrXSetNoSuchElement)
	require.ErrorIs(t, it.Remove(), ErrXSetUnsupported)
	require.Equal(t, int64(10), set.Len())

	require.Equal(t, elems, slices.Collect(set.All()))
	for e := range set.All() {
		if e >= 3 {
			break
		}
	}

	visited := make([]int, 0, 3)
	set.Foreach(func(idx int64, e int) bool {
		require.Equal(t, int64(e-1), idx)
		visited = append(visited, e)
		return idx < 2
	})
	require.Equal(t, []int{1, 2, 3}, visited)
}

func TestXSet_RandomizedOracle(t *testing.T) {
	rng := rand.New(rand.NewPCG(20240501, 42))
	set, oracle := NewXSet[int](), NewXSetAdapter[int]()
	for i := 0; i < 1000; i++ {
		e := rng.IntN(10)
		ok1, err1 := set.Insert(e)
		ok2, err2 := oracle.Insert(e)
		require.NoError(t, err1)
		require.NoError(t, err2)
		require.Equal(t, ok2, ok1)

		e = rng.IntN(10)
		ok1, err1 = set.Remove(e)
		ok2, err2 = oracle.Remove(e)
		require.NoError(t, err1)
		require.NoError(t, err2)
		require.Equal(t, ok2, ok1)

		e = rng.IntN(10)
		ok1, _ = set.Contains(e)
		ok2, _ = oracle.Contains(e)
		require.Equal(t, ok2, ok1)

		require.Equal(t, oracle.Len(), set.Len())
		for x := 0; x < 10; x++ {
			ok1, _ = set.Contains(x)
			ok2, _ = oracle.Contains(x)
			require.Equal(t, ok2, ok1, "contains(%d) at iteration %d", x, i)
		}
		require.Equal(t, oracle.String(), set.String())
		require.NoError(t, XSetValidate(set))
	}
}

func TestXSet_RandomizedLarge(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	set, oracle := NewXSet[int](), NewXSetAdapter[int]()
	for i := 0; i < 20000; i++ {
		e := rng.IntN(1024)
		if rng.IntN(3) == 0 {
			_, _ = set.Remove(e)
			_, _ = oracle.Remove(e)
		} else {
			_, _ = set.Insert(e)
			_, _ = oracle.Insert(e)
		}
		if i%500 == 0 {
			require.NoError(t, XSetValidate(set))
			requireHeightBound(t, set)
			if diff := cmp.Diff(slices.Collect(oracle.All()), slices.Collect(set.All())); diff != "" {
				t.Fatalf("elements mismatch at %d (-oracle +set):\n%s", i, diff)
			}
		}
	}

	first, err := set.First()
	require.NoError(t, err)
	expectedFirst, _ := oracle.First()
	require.Equal(t, expectedFirst, first)
	last, err := set.Last()
	require.NoError(t, err)
	expectedLast, _ := oracle.Last()
	require.Equal(t, expectedLast, last)

	// Drain everything in a random order.
	for _, e := range lo.Shuffle(slices.Collect(set.All())) {
		ok, err := set.Remove(e)
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.True(t, set.IsEmpty())
	require.NoError(t, XSetValidate(set))
}

func TestXSet_InsertRemoveRoundTrip(t *testing.T) {
	elems := lo.Shuffle(lo.Range(4096))
	set, err := NewXSetFrom[int](slices.Values(elems))
	require.NoError(t, err)
	require.Equal(t, int64(4096), set.Len())
	requireHeightBound(t, set)
	require.NoError(t, XSetValidate(set))

	// Idempotent insert.
	changed, err := set.InsertAll(slices.Values(elems))
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, int64(4096), set.Len())

	evens := lo.Filter(elems, func(e int, _ int) bool {
		return e%2 == 0
	})
	for _, e := range evens {
		ok, err := set.Remove(e)
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.NoError(t, XSetValidate(set))
	requireHeightBound(t, set)
	odds := lo.Filter(lo.Range(4096), func(e int, _ int) bool {
		return e%2 == 1
	})
	if diff := cmp.Diff(odds, slices.Collect(set.All())); diff != "" {
		t.Fatalf("elements mismatch (-expected +actual):\n%s", diff)
	}

	ordered := NewXSet[int]()
	for _, e := range lo.Range(1 << 12) {
		_, _ = ordered.Insert(e)
	}
	requireHeightBound(t, ordered)
	require.NoError(t, XSetValidate(ordered))
}

func TestXSet_Logger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := xlog.NewXLogger(
		xlog.WithXLoggerCustomWriter(zapcore.AddSync(buf)),
		xlog.WithXLoggerEncoder(xlog.JSON),
		xlog.WithXLoggerLevel(xlog.LogLevelDebug),
	)
	set := NewXSet[float64](WithXSetLogger(logger))
	_, err := set.Insert(math.NaN())
	require.ErrorIs(t, err, ErrXSetIncomparable)
	_, _ = set.InsertAll(slices.Values([]float64{3, 1, 2}))
	set.Clear()

	// Break the root color on purpose.
	_, _ = set.InsertAll(slices.Values([]float64{3, 1, 2}))
	set.(*xSet[float64]).tree.root.color = Red
	err = XSetValidate(set)
	require.ErrorIs(t, err, errRbtreeRedViolation)
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	entries := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		entries = append(entries, m)
	}
	require.Equal(t, "WARN", entries[0]["lvl"])
	require.Equal(t, "insert", entries[0]["op"])
	require.Equal(t, "DEBUG", entries[1]["lvl"])
	require.Equal(t, float64(3), entries[1]["released"])
	require.Equal(t, "ERROR", entries[2]["lvl"])
	require.Equal(t, float64(3), entries[2]["len"])
	require.NotEmpty(t, entries[2]["errors"])
}

func TestXSetValidate_Adapter(t *testing.T) {
	require.NoError(t, XSetValidate(NewXSetAdapter[int]()))
}
