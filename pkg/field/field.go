// Package field provides arithmetic in the BabyBear prime field.
//
// The field is Z_P where P = 2^31 - 2^27 + 1 = 2013265921. Its
// multiplicative group has order P-1 = 2^27 * 3 * 5, so subgroups of
// every power-of-two order up to 2^27 exist; this is what makes the
// field suitable for radix-2 transforms.
//
// Elements are kept in Montgomery form (value * 2^32 mod P) so that
// products reduce with shifts and multiplies instead of divisions.
package field

const (
	// P is the prime modulus: 2^31 - 2^27 + 1
	P uint32 = 2013265921

	// TwoAdicity is the largest k such that 2^k divides P-1.
	TwoAdicity = 27

	// montPInvNeg = -P^(-1) mod 2^32
	// Satisfies: P * montPInvNeg ≡ -1 (mod 2^32)
	montPInvNeg uint32 = 2013265919

	// r2 = 2^64 mod P, used to enter Montgomery form
	r2 uint64 = 1172168163
)

// Fp is a field element in Montgomery form. The zero value is the field's
// zero. Elements are plain values with no identity beyond their value;
// they are copied freely.
type Fp uint32

const (
	// Zero and One are the additive and multiplicative identities.
	Zero Fp = 0
	One  Fp = 268435454 // 2^32 mod P

	// NegOne is -1, the midpoint element of every even-order subgroup.
	NegOne Fp = 1744830467
)

// New returns the field element representing v mod P.
func New(v uint32) Fp {
	return MontReduce(uint64(v%P) * r2)
}

// Uint32 returns the canonical representative of x in [0, P).
func (x Fp) Uint32() uint32 {
	return uint32(MontReduce(uint64(x)))
}

// MontReduce reduces t to the canonical range [0, P).
// Requires t < P * 2^32.
func MontReduce(t uint64) Fp {
	m := uint32(t) * montPInvNeg
	u := uint32((t + uint64(m)*uint64(P)) >> 32)
	if u >= P {
		u -= P
	}
	return Fp(u)
}

// Add returns (x + y) mod P.
func (x Fp) Add(y Fp) Fp {
	s := uint32(x) + uint32(y)
	if s >= P {
		s -= P
	}
	return Fp(s)
}

// Sub returns (x - y) mod P.
func (x Fp) Sub(y Fp) Fp {
	if x >= y {
		return x - y
	}
	return Fp(P-uint32(y)) + x
}

// Mul returns (x * y) mod P.
func (x Fp) Mul(y Fp) Fp {
	return MontReduce(uint64(x) * uint64(y))
}

// Neg returns (-x) mod P.
func (x Fp) Neg() Fp {
	if x == 0 {
		return 0
	}
	return Fp(P - uint32(x))
}

// Double returns 2x mod P.
func (x Fp) Double() Fp {
	return x.Add(x)
}

// Exp returns x^e using binary exponentiation.
func (x Fp) Exp(e uint64) Fp {
	res := One
	base := x
	for ; e > 0; e >>= 1 {
		if e&1 == 1 {
			res = res.Mul(base)
		}
		base = base.Mul(base)
	}
	return res
}

// Inv returns the multiplicative inverse of x via Fermat's little theorem,
// x^(P-2) mod P, using an addition chain exploiting the bit pattern of
// P-2 = 0b1110 followed by 27 ones. Inv(0) returns 0.
func (x Fp) Inv() Fp {
	if x == 0 {
		return 0
	}

	x2 := x.Mul(x)
	x3 := x2.Mul(x)
	x7 := x3.Mul(x3).Mul(x)
	x15 := x7.Mul(x7).Mul(x)

	// Header "1110"
	res := x7.Mul(x7)

	// Append "1111" six times
	for i := 0; i < 6; i++ {
		res = res.Mul(res)
		res = res.Mul(res)
		res = res.Mul(res)
		res = res.Mul(res)
		res = res.Mul(x15)
	}

	// Trailing "111"
	res = res.Mul(res)
	res = res.Mul(res)
	res = res.Mul(res)
	res = res.Mul(x7)

	return res
}

// BatchInv inverts every element of xs in place.
// Uses Montgomery's trick: n inversions cost 1 inversion + 3(n-1)
// multiplications. Zero elements remain zero.
func BatchInv(xs []Fp) {
	n := len(xs)
	if n == 0 {
		return
	}

	// Prefix products, treating zeros as 1
	prods := make([]Fp, n)
	prods[0] = xs[0]
	if prods[0] == 0 {
		prods[0] = One
	}
	for i := 1; i < n; i++ {
		if xs[i] == 0 {
			prods[i] = prods[i-1]
		} else {
			prods[i] = prods[i-1].Mul(xs[i])
		}
	}

	inv := prods[n-1].Inv()

	for i := n - 1; i > 0; i-- {
		if xs[i] == 0 {
			continue
		}
		old := xs[i]
		xs[i] = inv.Mul(prods[i-1])
		inv = inv.Mul(old)
	}
	if xs[0] != 0 {
		xs[0] = inv
	}
}

// twoAdicGenerators[k] generates the order-2^k subgroup of the
// multiplicative group. Derived from the primitive root 31:
// twoAdicGenerators[k] = 31^((P-1) / 2^k). Montgomery form.
var twoAdicGenerators = [TwoAdicity + 1]Fp{
	268435454, 1744830467, 473486609, 1032137103, 1594287233, 1063008748,
	1427548538, 1030481298, 1538277705, 1225259435, 1418432144, 495756823,
	753397990, 1645950751, 1833774456, 410087373, 993044098, 477054760,
	1504714620, 444569516, 120739356, 727325908, 1870472953, 383973657,
	677034075, 232106476, 1139881320, 1476048622,
}

// TwoAdicGenerator returns a generator of the multiplicative subgroup of
// order 2^bits. Panics if the field has no such subgroup; a caller asking
// for an unsupported transform length is a contract violation, not a
// runtime condition.
func TwoAdicGenerator(bits int) Fp {
	if bits < 0 || bits > TwoAdicity {
		panic("field: no subgroup of order 2^bits in the multiplicative group")
	}
	return twoAdicGenerators[bits]
}

// Roots8 is the first half of the 8th roots of unity: [1, g8, g8^2, g8^3]
// where g8 generates the order-8 subgroup. These roots are the same for
// every transform length, so they are stored as constants rather than in
// the per-length twiddle tables. Roots8[2] is the fourth root of unity i.
// Montgomery form.
var Roots8 = [4]Fp{268435454, 1032137103, 473486609, 1964242958}

// Roots16 is the first half of the 16th roots of unity. Montgomery form.
var Roots16 = [8]Fp{
	268435454, 1594287233, 1032137103, 1173759574,
	473486609, 1844575452, 1964242958, 270522423,
}

// InvRoots8 and InvRoots16 are the element-wise inverses of Roots8 and
// Roots16, consumed by the backward transform. Montgomery form.
var InvRoots8 = [4]Fp{268435454, 49022963, 1539779312, 981128818}

var InvRoots16 = [8]Fp{
	268435454, 1742743498, 49022963, 168690469,
	1539779312, 839506347, 981128818, 418978688,
}
