package fft

import (
	"math/bits"

	"github.com/IGRALABS/Plonky3/pkg/field"
)

// BitReverse permutes a in place, swapping each element with the one at
// the bit-reversal of its index. It converts Forward's bit-reversed
// output to natural frequency order (and back: the permutation is an
// involution). Panics unless len(a) is a power of two.
func BitReverse(a []field.Fp) {
	lgN := log2Strict(len(a))
	for i := range a {
		j := int(bits.Reverse32(uint32(i)) >> (32 - lgN))
		if i < j {
			a[i], a[j] = a[j], a[i]
		}
	}
}
