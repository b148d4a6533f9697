package poseidon

import "github.com/IGRALABS/Plonky3/pkg/field"

// Sponge is an absorb/squeeze construction over a Poseidon permutation:
// input is added into the first rate elements of the state, the
// permutation runs once per full block, and output is read back from the
// same positions. Once reading starts, writing is a contract violation.
type Sponge struct {
	perm      *Permutation
	state     []field.Fp
	rate      int
	absorbing bool
	i         int
}

// NewSponge creates a sponge over perm with the given rate. The rate must
// leave at least one capacity element.
func NewSponge(perm *Permutation, rate int) *Sponge {
	if rate <= 0 || rate >= perm.width {
		panic("poseidon: rate must be in (0, width)")
	}
	return &Sponge{
		perm:      perm,
		state:     make([]field.Fp, perm.width),
		rate:      rate,
		absorbing: true,
	}
}

// Write absorbs canonical field values into the sponge.
func (s *Sponge) Write(fes []uint32) {
	if !s.absorbing {
		panic("poseidon: cannot write after reading")
	}
	for _, fe := range fes {
		s.state[s.i] = s.state[s.i].Add(field.New(fe))
		s.i++
		if s.i == s.rate {
			s.perm.Permute(s.state)
			s.i = 0
		}
	}
}

// Read squeezes n canonical field values from the sponge. The first call
// pads any partially absorbed block with a permutation.
func (s *Sponge) Read(n int) []uint32 {
	if s.absorbing {
		s.absorbing = false
		if s.i != 0 {
			s.perm.Permute(s.state)
			s.i = 0
		}
	}

	ret := make([]uint32, 0, n)
	for n > 0 {
		toRead := n
		if toRead > s.rate-s.i {
			toRead = s.rate - s.i
		}
		for j := 0; j < toRead; j++ {
			ret = append(ret, s.state[s.i+j].Uint32())
		}
		n -= toRead
		s.i += toRead
		if s.i == s.rate {
			s.i = 0
			s.perm.Permute(s.state)
		}
	}
	return ret
}
