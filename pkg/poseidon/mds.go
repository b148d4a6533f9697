package poseidon

import "github.com/IGRALABS/Plonky3/pkg/field"

// CirculantMds is a mixing layer given by a circulant matrix plus a
// diagonal: out[i] = diag[i]*in[i] + sum_j circ[(j-i) mod w]*in[j].
type CirculantMds struct {
	circ    []field.Fp
	diag    []field.Fp
	scratch []field.Fp
}

// NewCirculantMds builds the layer from the first circulant row and the
// diagonal, given as canonical values. Panics if the lengths differ.
func NewCirculantMds(circ, diag []uint32) *CirculantMds {
	if len(circ) != len(diag) {
		panic("poseidon: circulant row and diagonal length mismatch")
	}
	m := &CirculantMds{
		circ:    make([]field.Fp, len(circ)),
		diag:    make([]field.Fp, len(diag)),
		scratch: make([]field.Fp, len(circ)),
	}
	for i := range circ {
		m.circ[i] = field.New(circ[i])
		m.diag[i] = field.New(diag[i])
	}
	return m
}

// Permute applies the matrix to state in place. Panics unless len(state)
// matches the matrix width. Not safe for concurrent use: the scratch
// buffer is shared between calls.
func (m *CirculantMds) Permute(state []field.Fp) {
	w := len(m.circ)
	if len(state) != w {
		panic("poseidon: state width does not match matrix width")
	}
	copy(m.scratch, state)
	for i := 0; i < w; i++ {
		acc := m.diag[i].Mul(m.scratch[i])
		for j := 0; j < w; j++ {
			acc = acc.Add(m.circ[(j-i+w)%w].Mul(m.scratch[j]))
		}
		state[i] = acc
	}
}
