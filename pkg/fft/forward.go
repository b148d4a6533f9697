package fft

import (
	"github.com/IGRALABS/Plonky3/pkg/field"
	"github.com/IGRALABS/Plonky3/pkg/packing"
)

// forwardButterfly is the decimation-in-frequency butterfly:
// (x, y) -> (x + y, (x - y)·w). The subtraction is lifted by P before the
// multiply so the intermediate never goes negative; P + x - y < 2P keeps
// the product inside the Montgomery reduction bound.
func forwardButterfly(x, y, w field.Fp) (field.Fp, field.Fp) {
	t := uint64(field.P) + uint64(x) - uint64(y)
	return x.Add(y), field.MontReduce(t * uint64(w))
}

// forwardPass applies one butterfly stage across a buffer split once in
// half: top[k], tail[k] = butterfly(top[k], tail[k], roots[k]). The two
// halves are disjoint sub-slices of a, mutated independently.
func forwardPass(a, roots []field.Fp) {
	halfN := len(a) / 2
	if len(roots) != halfN {
		panic("fft: twiddle count does not match half length")
	}
	top, tail := a[:halfN], a[halfN:]

	if packing.Enabled && halfN >= packing.Width {
		topP := packing.Split(top)
		tailP := packing.Split(tail)
		rootsP := packing.Split(roots)
		for k := range topP {
			x, y := topP[k], tailP[k]
			t := x.Sub(y).Mul(rootsP[k])
			topP[k] = x.Add(y)
			tailP[k] = t
		}
		return
	}

	// roots[0] is always 1: plain add/subtract, no multiply.
	s := top[0].Add(tail[0])
	t := top[0].Sub(tail[0])
	top[0] = s
	tail[0] = t
	for k := 1; k < halfN; k++ {
		top[k], tail[k] = forwardButterfly(top[k], tail[k], roots[k])
	}
}

// forwardSmallS0 is the lane-packed outermost stage (s = 0) of the
// breadth-first path: one half split across the whole buffer.
func forwardSmallS0(a, roots []field.Fp) {
	m := len(a) / 2
	top := packing.Split(a[:m])
	tail := packing.Split(a[m:])
	rootsP := packing.Split(roots)

	for k := range top {
		x, y := top[k], tail[k]
		top[k] = x.Add(y)
		tail[k] = x.Sub(y).Mul(rootsP[k])
	}
}

// forwardSmallS1 fuses the two blocks of stage s = 1 into a single pass.
// Both halves are independent copies of the same quarter-size problem, so
// they share one twiddle list; the fusion must be (and is) bit-exact with
// running the two blocks separately.
func forwardSmallS1(a, roots []field.Fp) {
	n := len(a)
	m := n / 4
	u0 := packing.Split(a[:m])
	u1 := packing.Split(a[m : 2*m])
	v0 := packing.Split(a[2*m : 3*m])
	v1 := packing.Split(a[3*m:])
	rootsP := packing.Split(roots)

	for k := range u0 {
		r := rootsP[k]

		x, y := u0[k], u1[k]
		u0[k] = x.Add(y)
		u1[k] = x.Sub(y).Mul(r)

		x, y = v0[k], v1[k]
		v0[k] = x.Add(y)
		v1[k] = x.Sub(y).Mul(r)
	}
}

// forwardSmall is the iterative breadth-first variant used for lengths in
// (2, 1024]. Stage s = lgN - lgM - 1 covers 2^s disjoint blocks of size
// 2m; stages 0 and 1 take the lane-packed shapes when alignment permits.
// At lgM = 0 the single twiddle is the implicit root 1, synthesized
// rather than looked up: the table has no level for the trivial subgroup.
func forwardSmall(a []field.Fp, table Table) {
	n := len(a)
	lgN := log2Strict(n)

	one := [1]field.Fp{field.One}
	for lgM := lgN - 1; lgM >= 0; lgM-- {
		s := lgN - lgM - 1
		m := 1 << lgM

		roots := one[:]
		if lgM != 0 {
			roots = table[s]
		}
		if len(roots) != m {
			panic("fft: table level length does not match stage size")
		}

		switch {
		case s == 0 && packing.Enabled && packing.Width <= n/2:
			forwardSmallS0(a, roots)
		case s == 1 && packing.Enabled && packing.Width <= n/4:
			forwardSmallS1(a, roots)
		default:
			for i := 0; i < 1<<s; i++ {
				block := a[i<<(lgM+1):]
				for k := 0; k < m; k++ {
					block[k], block[k+m] = forwardButterfly(block[k], block[k+m], roots[k])
				}
			}
		}
	}
}

// forward2 needs no twiddle: the only root is 1.
func forward2(a []field.Fp) {
	s := a[0].Add(a[1])
	t := a[0].Sub(a[1])
	a[0] = s
	a[1] = t
}

// forward4 expands the stage and its two size-2 sub-transforms
// algebraically, saving one multiply. The only non-trivial twiddle is the
// fourth root of unity, Roots8[2].
func forward4(a []field.Fp) {
	t1 := uint64(field.P) + uint64(a[1]) - uint64(a[3])
	t3 := field.MontReduce(t1 * uint64(field.Roots8[2]))
	t5 := a[1].Add(a[3])
	t4 := a[0].Add(a[2])
	t2 := a[0].Sub(a[2])

	// Output in bit-reversed order
	a[0] = t4.Add(t5)
	a[1] = t4.Sub(t5)
	a[2] = t2.Add(t3)
	a[3] = t2.Sub(t3)
}

// forward8 and forward16 consume the universal small root constants; their
// twiddles are the same for every transform length.
func forward8(a []field.Fp) {
	forwardPass(a, field.Roots8[:])
	forward4(a[:4])
	forward4(a[4:])
}

func forward16(a []field.Fp) {
	forwardPass(a, field.Roots16[:])
	forward8(a[:8])
	forward8(a[8:])
}

// Sizes 32 and up consume successive levels of the general table: each
// recursive halving drops exactly one level.
func forward32(a []field.Fp, table Table) {
	forwardPass(a, table[0])
	forward16(a[:16])
	forward16(a[16:])
}

func forward64(a []field.Fp, table Table) {
	forwardPass(a, table[0])
	forward32(a[:32], table[1:])
	forward32(a[32:], table[1:])
}

func forward128(a []field.Fp, table Table) {
	forwardPass(a, table[0])
	forward64(a[:64], table[1:])
	forward64(a[64:], table[1:])
}

func forward256(a []field.Fp, table Table) {
	forwardPass(a, table[0])
	forward128(a[:128], table[1:])
	forward128(a[128:], table[1:])
}

// Forward computes the in-place decimation-in-frequency transform of a.
// On return a holds the frequency-domain values in bit-reversed index
// order. The table must have been built by NewTable(len(a)); a mismatch
// is a fatal contract violation.
func Forward(a []field.Fp, table Table) {
	n := len(a)
	if n == 1 {
		return
	}
	if n != 1<<(len(table)+1) {
		panic("fft: table does not match transform length")
	}

	if n > 2 && n <= 1024 {
		forwardSmall(a, table)
		return
	}

	switch n {
	case 256:
		forward256(a, table)
	case 128:
		forward128(a, table)
	case 64:
		forward64(a, table)
	case 32:
		forward32(a, table)
	case 16:
		forward16(a)
	case 8:
		forward8(a)
	case 4:
		forward4(a)
	case 2:
		forward2(a)
	default:
		// n > 1024: one stage, then recurse into the two disjoint halves
		// with the consumed level dropped.
		forwardPass(a, table[0])
		Forward(a[:n/2], table[1:])
		Forward(a[n/2:], table[1:])
	}
}
