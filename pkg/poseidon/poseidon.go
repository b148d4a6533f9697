// Package poseidon implements the Poseidon permutation over the BabyBear
// field: a round-based construction alternating a power-map S-box with a
// pluggable linear mixing layer, plus a sponge built on top of it. It is
// independent of the transform packages and shares no code with them.
package poseidon

import "github.com/IGRALABS/Plonky3/pkg/field"

// alpha is the S-box exponent x -> x^alpha. 7 is the smallest exponent
// coprime to P-1 = 2^27 * 3 * 5.
const alpha = 7

// Mds is the linear mixing layer applied once per round.
type Mds interface {
	// Permute mixes state in place.
	Permute(state []field.Fp)
}

// Permutation is a Poseidon permutation over a fixed-width state. The
// round structure is halfNumFullRounds full rounds, numPartialRounds
// partial rounds, then halfNumFullRounds full rounds again; full rounds
// apply the S-box to every state element, partial rounds only to the
// first. A Permutation is immutable after construction.
type Permutation struct {
	width             int
	halfNumFullRounds int
	numPartialRounds  int
	constants         []field.Fp
	mds               Mds
}

// New creates a Poseidon permutation. constants must hold width round
// constants for each of the 2*halfNumFullRounds + numPartialRounds
// rounds; any other count is a contract violation and panics.
func New(width, halfNumFullRounds, numPartialRounds int, constants []field.Fp, mds Mds) *Permutation {
	numRounds := 2*halfNumFullRounds + numPartialRounds
	if len(constants) != width*numRounds {
		panic("poseidon: constant count does not match width and round count")
	}
	return &Permutation{
		width:             width,
		halfNumFullRounds: halfNumFullRounds,
		numPartialRounds:  numPartialRounds,
		constants:         constants,
		mds:               mds,
	}
}

// NewFromSeed creates a Poseidon permutation with round constants derived
// deterministically from seed via SHAKE-128.
func NewFromSeed(width, halfNumFullRounds, numPartialRounds int, seed []byte, mds Mds) *Permutation {
	numRounds := 2*halfNumFullRounds + numPartialRounds
	return New(width, halfNumFullRounds, numPartialRounds,
		DeriveConstants(seed, width*numRounds), mds)
}

// Width returns the state width.
func (p *Permutation) Width() int {
	return p.width
}

// Permute applies the full permutation to state in place.
// Panics unless len(state) equals the permutation width.
func (p *Permutation) Permute(state []field.Fp) {
	if len(state) != p.width {
		panic("poseidon: state width mismatch")
	}
	round := 0
	p.halfFullRounds(state, &round)
	p.partialRounds(state, &round)
	p.halfFullRounds(state, &round)
}

func (p *Permutation) halfFullRounds(state []field.Fp, round *int) {
	for i := 0; i < p.halfNumFullRounds; i++ {
		p.constantLayer(state, *round)
		fullSboxLayer(state)
		p.mds.Permute(state)
		*round++
	}
}

func (p *Permutation) partialRounds(state []field.Fp, round *int) {
	for i := 0; i < p.numPartialRounds; i++ {
		p.constantLayer(state, *round)
		state[0] = sbox(state[0])
		p.mds.Permute(state)
		*round++
	}
}

func (p *Permutation) constantLayer(state []field.Fp, round int) {
	rcs := p.constants[round*p.width : (round+1)*p.width]
	for i := range state {
		state[i] = state[i].Add(rcs[i])
	}
}

// sbox computes x^7 with 4 multiplications.
func sbox(x field.Fp) field.Fp {
	x2 := x.Mul(x)
	x3 := x2.Mul(x)
	x4 := x2.Mul(x2)
	return x3.Mul(x4)
}

func fullSboxLayer(state []field.Fp) {
	for i := range state {
		state[i] = sbox(state[i])
	}
}
