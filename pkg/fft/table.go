// Package fft provides an in-place decimation-in-frequency transform over
// the BabyBear field, recursively decomposed and unrolled up to size 256.
//
// Forward evaluates a polynomial (coefficients in natural order) on the
// order-n subgroup, leaving the values in bit-reversed index order: the
// smallest sub-transforms of the decimation-in-frequency network emit
// last, so output index i corresponds to the frequency whose index is the
// bit-reversal of i. Backward is the matching decimation-in-time inverse,
// up to a factor of n left to the caller.
package fft

import (
	"math/bits"

	"github.com/IGRALABS/Plonky3/pkg/field"
)

// Table holds the twiddle factors for one transform length n = 2^L.
// Level i holds the first half of the (n/2^i)-th roots of unity, in order;
// the second half of each root set are the negatives of the first
// (g^(m/2) = -1) and are never stored. A transform of length n consumes
// exactly L-1 levels, one per recursion depth; the depth-L-1 stage uses
// the implicit singleton root 1 and touches no level.
//
// A Table is immutable after construction and may be shared by any number
// of concurrent transform calls.
type Table [][]field.Fp

// log2Strict returns log2(n), panicking unless n is a positive power of
// two. Violations are caller contract errors, not runtime conditions.
func log2Strict(n int) int {
	if n <= 0 || n&(n-1) != 0 {
		panic("fft: length is not a positive power of two")
	}
	return bits.Len(uint(n)) - 1
}

// powers returns [1, g, g^2, ..., g^(count-1)].
func powers(g field.Fp, count int) []field.Fp {
	out := make([]field.Fp, count)
	r := field.One
	for k := range out {
		out[k] = r
		r = r.Mul(g)
	}
	return out
}

// subsample builds the triangular level structure from the half root set:
// level i takes every 2^i-th root, so each level holds exactly the
// non-redundant half of the roots needed at that recursion depth.
func subsample(roots []field.Fp, lgN int) Table {
	t := make(Table, 0, lgN-1)
	for i := 0; i < lgN-1; i++ {
		step := 1 << i
		level := make([]field.Fp, 0, len(roots)>>i)
		for k := 0; k < len(roots); k += step {
			level = append(level, roots[k])
		}
		t = append(t, level)
	}
	return t
}

// NewTable builds the twiddle table consumed by Forward for transforms of
// length n. Panics if n is not a power of two or exceeds the field's
// two-adic capacity.
func NewTable(n int) Table {
	lgN := log2Strict(n)
	if lgN == 0 {
		return Table{}
	}
	gen := field.TwoAdicGenerator(lgN)
	return subsample(powers(gen, n/2), lgN)
}

// NewInverseTable builds the table of inverse twiddle factors consumed by
// Backward. The forward half root set is inverted wholesale with
// BatchInv, then subsampled the same way.
func NewInverseTable(n int) Table {
	lgN := log2Strict(n)
	if lgN == 0 {
		return Table{}
	}
	gen := field.TwoAdicGenerator(lgN)
	roots := powers(gen, n/2)
	field.BatchInv(roots)
	return subsample(roots, lgN)
}
