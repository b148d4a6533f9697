package fft

import (
	"github.com/IGRALABS/Plonky3/pkg/field"
	"github.com/IGRALABS/Plonky3/pkg/packing"
)

// backwardButterfly is the decimation-in-time butterfly:
// (x, y) -> (x + y·w, x - y·w). With w the inverse of the forward
// twiddle it undoes forwardButterfly up to a factor of 2.
func backwardButterfly(x, y, w field.Fp) (field.Fp, field.Fp) {
	t := field.MontReduce(uint64(y) * uint64(w))
	return x.Add(t), x.Sub(t)
}

// backwardPass mirrors forwardPass with the butterfly transposed.
func backwardPass(a, roots []field.Fp) {
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
			x := topP[k]
			t := tailP[k].Mul(rootsP[k])
			topP[k] = x.Add(t)
			tailP[k] = x.Sub(t)
		}
		return
	}

	s := top[0].Add(tail[0])
	t := top[0].Sub(tail[0])
	top[0] = s
	tail[0] = t
	for k := 1; k < halfN; k++ {
		top[k], tail[k] = backwardButterfly(top[k], tail[k], roots[k])
	}
}

// backwardSmallS0 and backwardSmallS1 are the lane-packed stage shapes of
// the breadth-first path, transposed from their forward counterparts.
func backwardSmallS0(a, roots []field.Fp) {
	m := len(a) / 2
	top := packing.Split(a[:m])
	tail := packing.Split(a[m:])
	rootsP := packing.Split(roots)

	for k := range top {
		x := top[k]
		t := tail[k].Mul(rootsP[k])
		top[k] = x.Add(t)
		tail[k] = x.Sub(t)
	}
}

func backwardSmallS1(a, roots []field.Fp) {
	n := len(a)
	m := n / 4
	u0 := packing.Split(a[:m])
	u1 := packing.Split(a[m : 2*m])
	v0 := packing.Split(a[2*m : 3*m])
	v1 := packing.Split(a[3*m:])
	rootsP := packing.Split(roots)

	for k := range u0 {
		r := rootsP[k]

		x := u0[k]
		t := u1[k].Mul(r)
		u0[k] = x.Add(t)
		u1[k] = x.Sub(t)

		x = v0[k]
		t = v1[k].Mul(r)
		v0[k] = x.Add(t)
		v1[k] = x.Sub(t)
	}
}

// backwardSmall is the breadth-first variant for lengths in (2, 1024],
// running the stages of forwardSmall in reverse order: innermost
// (lgM = 0, implicit root 1) first, outermost last.
func backwardSmall(a []field.Fp, table Table) {
	n := len(a)
	lgN := log2Strict(n)

	one := [1]field.Fp{field.One}
	for lgM := 0; lgM < lgN; lgM++ {
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
			backwardSmallS0(a, roots)
		case s == 1 && packing.Enabled && packing.Width <= n/4:
			backwardSmallS1(a, roots)
		default:
			for i := 0; i < 1<<s; i++ {
				block := a[i<<(lgM+1):]
				for k := 0; k < m; k++ {
					block[k], block[k+m] = backwardButterfly(block[k], block[k+m], roots[k])
				}
			}
		}
	}
}

func backward2(a []field.Fp) {
	s := a[0].Add(a[1])
	t := a[0].Sub(a[1])
	a[0] = s
	a[1] = t
}

// backward4 inverts forward4's algebra, up to the factor of 4 absorbed by
// the caller's final scaling. The non-trivial twiddle is the inverse
// fourth root of unity, InvRoots8[2].
func backward4(a []field.Fp) {
	t0 := a[0].Add(a[1])
	t1 := a[0].Sub(a[1])
	t2 := a[2].Add(a[3])
	t3 := a[2].Sub(a[3]).Mul(field.InvRoots8[2])

	a[0] = t0.Add(t2)
	a[2] = t0.Sub(t2)
	a[1] = t1.Add(t3)
	a[3] = t1.Sub(t3)
}

func backward8(a []field.Fp) {
	backward4(a[:4])
	backward4(a[4:])
	backwardPass(a, field.InvRoots8[:])
}

func backward16(a []field.Fp) {
	backward8(a[:8])
	backward8(a[8:])
	backwardPass(a, field.InvRoots16[:])
}

func backward32(a []field.Fp, table Table) {
	backward16(a[:16])
	backward16(a[16:])
	backwardPass(a, table[0])
}

func backward64(a []field.Fp, table Table) {
	backward32(a[:32], table[1:])
	backward32(a[32:], table[1:])
	backwardPass(a, table[0])
}

func backward128(a []field.Fp, table Table) {
	backward64(a[:64], table[1:])
	backward64(a[64:], table[1:])
	backwardPass(a, table[0])
}

func backward256(a []field.Fp, table Table) {
	backward128(a[:128], table[1:])
	backward128(a[128:], table[1:])
	backwardPass(a, table[0])
}

// Backward computes the in-place decimation-in-time inverse of Forward:
// it consumes values in bit-reversed index order and produces
// n * (coefficients) in natural order. The factor of n is left to the
// caller, which keeps every stage a pure butterfly pass; scale by
// field.New(n).Inv() to recover the coefficients. The table must have
// been built by NewInverseTable(len(a)).
func Backward(a []field.Fp, table Table) {
	n := len(a)
	if n == 1 {
		return
	}
	if n != 1<<(len(table)+1) {
		panic("fft: table does not match transform length")
	}

	if n > 2 && n <= 1024 {
		backwardSmall(a, table)
		return
	}

	switch n {
	case 256:
		backward256(a, table)
	case 128:
		backward128(a, table)
	case 64:
		backward64(a, table)
	case 32:
		backward32(a, table)
	case 16:
		backward16(a)
	case 8:
		backward8(a)
	case 4:
		backward4(a)
	case 2:
		backward2(a)
	default:
		// n > 1024: recurse into the two disjoint halves first, then undo
		// the outermost stage.
		Backward(a[:n/2], table[1:])
		Backward(a[n/2:], table[1:])
		backwardPass(a, table[0])
	}
}
