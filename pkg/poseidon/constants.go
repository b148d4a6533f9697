package poseidon

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/IGRALABS/Plonky3/pkg/field"
)

// DeriveConstants draws count field elements from a SHAKE-128 stream over
// seed. Each candidate is a 4-byte little-endian word masked to 31 bits;
// values outside the field are rejected, so the result is uniform.
func DeriveConstants(seed []byte, count int) []field.Fp {
	h := sha3.NewShake128()
	h.Write(seed)

	out := make([]field.Fp, 0, count)
	var buf [4]byte
	for len(out) < count {
		if _, err := h.Read(buf[:]); err != nil {
			panic("poseidon: shake read failed")
		}
		v := binary.LittleEndian.Uint32(buf[:]) & 0x7FFFFFFF
		if v < field.P {
			out = append(out, field.New(v))
		}
	}
	return out
}
