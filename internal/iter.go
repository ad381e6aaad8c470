package internal

import (
	"iter"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return
				}
			}
		}
	}
}

// IterSeq2Indexed yields each element of values keyed by address, starting at
// base and advancing by step per element. A negative step walks downward.
func IterSeq2Indexed[T any](values []T, base uint32, step int32) iter.Seq2[uint32, T] {
	return func(yield func(uint32, T) bool) {
		addr := base
		for _, value := range values {
			if !yield(addr, value) {
				return
			}
			addr = uint32(int64(addr) + int64(step))
		}
	}
}
