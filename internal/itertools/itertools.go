package itertools

import "iter"

// Attach pairs every value in seq with the same fixed v, turning a [iter.Seq] into an
// [iter.Seq2] — e.g. for giving every edge out of a graph node an otherwise-unused "color" so it
// fits a generic walker's (key, color) edge shape.
func Attach[K, V any](seq iter.Seq[K], v V) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k := range seq {
			if !yield(k, v) {
				return
			}
		}
	}
}
