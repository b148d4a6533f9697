package fft

import (
	"math/bits"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IGRALABS/Plonky3/pkg/field"
)

func randomBuffer(n int, seed int64) []field.Fp {
	rng := rand.New(rand.NewSource(seed))
	a := make([]field.Fp, n)
	for i := range a {
		a[i] = field.New(rng.Uint32() % field.P)
	}
	return a
}

func rev(i, lgN int) int {
	return int(bits.Reverse32(uint32(i)) >> (32 - lgN))
}

// naiveDFT is the O(n²) oracle: output index i holds the evaluation
// sum_j a_j · g^(j·brv(i)) at the order-n generator g.
func naiveDFT(a []field.Fp) []field.Fp {
	n := len(a)
	lgN := log2Strict(n)
	g := field.TwoAdicGenerator(lgN)

	out := make([]field.Fp, n)
	for i := range out {
		w := g.Exp(uint64(rev(i, lgN)))
		acc := field.Zero
		x := field.One
		for j := 0; j < n; j++ {
			acc = acc.Add(a[j].Mul(x))
			x = x.Mul(w)
		}
		out[i] = acc
	}
	return out
}

// refForwardPass is the element-by-element reference the packed stage
// shapes are checked against.
func refForwardPass(a, roots []field.Fp) {
	m := len(a) / 2
	for k := 0; k < m; k++ {
		a[k], a[k+m] = forwardButterfly(a[k], a[k+m], roots[k])
	}
}

// refForwardSmallS1 runs the two stage-1 blocks separately instead of
// fused.
func refForwardSmallS1(a, roots []field.Fp) {
	refForwardPass(a[:len(a)/2], roots)
	refForwardPass(a[len(a)/2:], roots)
}

// Forward must equal the direct O(n²) DFT re-indexed by bit reversal
func TestForwardMatchesNaiveDFT(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048, 4096} {
		a := randomBuffer(n, int64(n))
		want := naiveDFT(a)

		Forward(a, NewTable(n))
		require.Equal(t, want, a, "n=%d", n)
	}
}

// Test n=1 transform leaves the buffer unchanged
func TestForwardSize1(t *testing.T) {
	a := []field.Fp{field.New(12345)}
	Forward(a, NewTable(1))
	if a[0] != field.New(12345) {
		t.Errorf("Forward on n=1 modified the buffer: %d", a[0])
	}
}

// Test n=2: [x, y] -> [x+y, x-y]
func TestForwardSize2(t *testing.T) {
	a := []field.Fp{field.New(5), field.New(9)}
	Forward(a, NewTable(2))
	if got := a[0].Uint32(); got != 14 {
		t.Errorf("a[0] = %d, want 14", got)
	}
	if got := a[1].Uint32(); got != field.P-4 {
		t.Errorf("a[1] = %d, want %d", got, field.P-4)
	}
}

// Test Forward(range(8)) matches Python
func TestForwardRange8(t *testing.T) {
	a := make([]field.Fp, 8)
	for i := range a {
		a[i] = field.New(uint32(i))
	}
	Forward(a, NewTable(8))

	expected := []uint32{
		28, 2013265917, 1139445628, 873820285,
		1976151680, 302739576, 1710526337, 37114233,
	}
	for i, want := range expected {
		if got := a[i].Uint32(); got != want {
			t.Errorf("Forward(range(8))[%d] = %d, want %d", i, got, want)
		}
	}
}

// Test Forward(range(256)) first and last 16 values match Python
func TestForwardRange256(t *testing.T) {
	a := make([]field.Fp, 256)
	for i := range a {
		a[i] = field.New(uint32(i))
	}
	Forward(a, NewTable(256))

	first := []uint32{
		32640, 2013265793, 223473518, 1789792147, 825610209, 1634602748,
		378662917, 1187655456, 1890732584, 1773753755, 381817713, 874121862,
		1139143803, 1631447952, 239511910, 122533081,
	}
	for i, want := range first {
		if got := a[i].Uint32(); got != want {
			t.Errorf("Forward(range(256))[%d] = %d, want %d", i, got, want)
		}
	}

	last := []uint32{
		1448621760, 665192939, 1805162344, 1228805191, 581721150, 1039729987,
		1264737476, 1393002612, 1338136889, 435381076, 762428636, 1103026338,
		1905874417, 173424302, 1998072576, 923338971,
	}
	for i, want := range last {
		if got := a[240+i].Uint32(); got != want {
			t.Errorf("Forward(range(256))[%d] = %d, want %d", 240+i, got, want)
		}
	}
}

// The unrolled fixed-size kernels and the breadth-first path must agree
// bit for bit wherever both apply
func TestUnrolledKernelsMatchBreadthFirst(t *testing.T) {
	for _, n := range []int{4, 8, 16, 32, 64, 128, 256} {
		table := NewTable(n)
		a := randomBuffer(n, int64(1000+n))
		b := append([]field.Fp(nil), a...)

		forwardSmall(a, table)

		switch n {
		case 4:
			forward4(b)
		case 8:
			forward8(b)
		case 16:
			forward16(b)
		case 32:
			forward32(b, table)
		case 64:
			forward64(b, table)
		case 128:
			forward128(b, table)
		case 256:
			forward256(b, table)
		}

		require.Equal(t, a, b, "n=%d", n)
	}
}

// Packed and scalar stage executions must be bit-identical
func TestPackedStagesMatchScalar(t *testing.T) {
	for _, n := range []int{16, 64, 256, 1024} {
		roots := NewTable(n)[0]

		a := randomBuffer(n, int64(2000+n))
		b := append([]field.Fp(nil), a...)
		forwardSmallS0(a, roots)
		refForwardPass(b, roots)
		require.Equal(t, b, a, "s0, n=%d", n)
	}

	// Stage 1 needs quarter-size lanes, so n/4 must reach the lane width
	for _, n := range []int{64, 256, 1024} {
		innerRoots := NewTable(n / 2)[0]
		a := randomBuffer(n, int64(3000+n))
		b := append([]field.Fp(nil), a...)
		forwardSmallS1(a, innerRoots)
		refForwardSmallS1(b, innerRoots)
		require.Equal(t, b, a, "s1, n=%d", n)
	}
}

// forwardPass must pick bit-identical packed and scalar paths; exercise
// both by comparing against the reference loop on either side of the
// lane-width threshold
func TestForwardPassMatchesReference(t *testing.T) {
	for _, n := range []int{4, 8, 16, 32, 1024} {
		roots := NewTable(n)[0]
		a := randomBuffer(n, int64(4000+n))
		b := append([]field.Fp(nil), a...)

		forwardPass(a, roots)
		refForwardPass(b, roots)
		require.Equal(t, b, a, "n=%d", n)
	}
}

// Butterfly algebraic properties; results always canonical
func TestButterflyProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		x := field.New(rng.Uint32() % field.P)
		w := field.New(rng.Uint32() % field.P)

		// butterfly(x, x, w) = (2x, 0)
		s, d := forwardButterfly(x, x, w)
		require.Equal(t, x.Double(), s)
		require.Equal(t, field.Zero, d)

		// butterfly(x, 0, w) = (x, x·w)
		s, d = forwardButterfly(x, field.Zero, w)
		require.Equal(t, x, s)
		require.Equal(t, x.Mul(w), d)

		y := field.New(rng.Uint32() % field.P)
		s, d = forwardButterfly(x, y, w)
		require.Less(t, uint32(s), field.P)
		require.Less(t, uint32(d), field.P)
	}
}

// Table/length mismatches are fatal contract violations
func TestForwardContractViolations(t *testing.T) {
	require.Panics(t, func() { Forward(make([]field.Fp, 64), NewTable(128)) })
	require.Panics(t, func() { Forward(make([]field.Fp, 4096), NewTable(1024)) })
	require.Panics(t, func() { NewTable(96) })
	require.Panics(t, func() { NewTable(0) })
}

func BenchmarkForward256(b *testing.B) {
	table := NewTable(256)
	a := randomBuffer(256, 5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Forward(a, table)
	}
}

func BenchmarkForward4096(b *testing.B) {
	table := NewTable(4096)
	a := randomBuffer(4096, 6)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Forward(a, table)
	}
}
