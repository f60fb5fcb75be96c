package dice

// Percent draws an integer in [0, 100).
func Percent(src Source) int {
	return src.Intn(100)
}

// Band maps a percentile range to a value. A roll selects the first band
// whose Below exceeds it, so bands are compared in declaration order and need
// not be equal width.
type Band[T any] struct {
	Below int
	Value T
}

// PickBand returns the value of the first band with roll < Below.
//
// Postcondition: when no band matches, the last band's value is returned and
// ok is false. Empty bands return the zero value and false.
func PickBand[T any](roll int, bands ...Band[T]) (v T, ok bool) {
	if len(bands) == 0 {
		return v, false
	}
	for _, b := range bands {
		if roll < b.Below {
			return b.Value, true
		}
	}
	return bands[len(bands)-1].Value, false
}

// RollBands draws a percentile from src and picks a band with it.
func RollBands[T any](src Source, bands ...Band[T]) T {
	v, _ := PickBand(Percent(src), bands...)
	return v
}

// Choose returns one element of pool uniformly at random.
//
// Precondition: len(pool) > 0.
func Choose[T any](src Source, pool []T) T {
	return pool[src.Intn(len(pool))]
}

// TakeWithReplacement draws k elements from pool; the same element may recur.
//
// Postcondition: len(result) == k, or 0 when pool is empty.
func TakeWithReplacement[T any](src Source, pool []T, k int) []T {
	if len(pool) == 0 || k <= 0 {
		return nil
	}
	out := make([]T, k)
	for i := range out {
		out[i] = pool[src.Intn(len(pool))]
	}
	return out
}

// TakeWithoutReplacement draws min(k, len(pool)) distinct positions of pool.
// pool itself is not modified.
//
// Postcondition: no position of pool appears twice in the result; when
// k >= len(pool) the result is a permutation of pool.
func TakeWithoutReplacement[T any](src Source, pool []T, k int) []T {
	if k > len(pool) {
		k = len(pool)
	}
	if k <= 0 {
		return nil
	}
	work := make([]T, len(pool))
	copy(work, pool)
	// Partial Fisher-Yates over the first k slots.
	for i := 0; i < k; i++ {
		j := i + src.Intn(len(work)-i)
		work[i], work[j] = work[j], work[i]
	}
	return work[:k]
}
