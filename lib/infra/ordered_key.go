package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
// NaN is a legal value of these types but has no place in the
// natural ordering, see IsIncomparable.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// IsIncomparable reports whether the key cannot be placed in the natural
// ordering. Only the floating-point NaN satisfies it, every comparison
// against a NaN is false.
func IsIncomparable[K OrderedKey](key K) bool {
	return key != key
}

// NaturalOrder compares i (the new key) to j.
//  1. i == j (return 0)
//  2. i > j (return 1), turn to right part.
//  3. i < j (return -1), turn to left part.
//
// Both keys must be comparable.
func NaturalOrder[K OrderedKey](i, j K) int64 {
	if i == j {
		return 0
	} else if i < j {
		return -1
	}
	return 1
}
