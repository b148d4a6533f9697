// Package packing groups consecutive field elements into fixed-width
// lanes so that stage loops operate on Width elements at a time. A lane
// view is a reinterpretation of the underlying storage, not a copy:
// packing and unpacking are lossless and free.
//
// The lane-grouped and element-by-element code paths built on this
// package are bit-identical; choosing between them is purely a
// throughput decision.
package packing

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/cpu"

	"github.com/IGRALABS/Plonky3/pkg/field"
)

// Width is the number of field elements in one lane.
const Width = 8

// Lane is a fixed-width group of consecutive field elements.
type Lane [Width]field.Fp

// Enabled reports whether the lane-grouped code paths should be taken.
// Set once at startup; lane grouping only pays off when the target has a
// vector unit wide enough to carry a full lane.
var Enabled = hasVectorUnit()

func hasVectorUnit() bool {
	switch runtime.GOARCH {
	case "amd64":
		return cpu.X86.HasAVX2 || cpu.X86.HasSSE42
	case "arm64":
		return cpu.ARM64.HasASIMD
	default:
		return false
	}
}

// Split reinterprets s as a slice of lanes sharing the same storage.
// Writes through the returned slice are visible in s and vice versa.
// Panics unless len(s) is a multiple of Width.
func Split(s []field.Fp) []Lane {
	if len(s)%Width != 0 {
		panic("packing: slice length is not a multiple of the lane width")
	}
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*Lane)(unsafe.Pointer(&s[0])), len(s)/Width)
}

// Add returns the lane-wise sum x + y.
func (x Lane) Add(y Lane) Lane {
	var z Lane
	z[0] = x[0].Add(y[0])
	z[1] = x[1].Add(y[1])
	z[2] = x[2].Add(y[2])
	z[3] = x[3].Add(y[3])
	z[4] = x[4].Add(y[4])
	z[5] = x[5].Add(y[5])
	z[6] = x[6].Add(y[6])
	z[7] = x[7].Add(y[7])
	return z
}

// Sub returns the lane-wise difference x - y.
func (x Lane) Sub(y Lane) Lane {
	var z Lane
	z[0] = x[0].Sub(y[0])
	z[1] = x[1].Sub(y[1])
	z[2] = x[2].Sub(y[2])
	z[3] = x[3].Sub(y[3])
	z[4] = x[4].Sub(y[4])
	z[5] = x[5].Sub(y[5])
	z[6] = x[6].Sub(y[6])
	z[7] = x[7].Sub(y[7])
	return z
}

// Mul returns the lane-wise product x * y.
func (x Lane) Mul(y Lane) Lane {
	var z Lane
	z[0] = x[0].Mul(y[0])
	z[1] = x[1].Mul(y[1])
	z[2] = x[2].Mul(y[2])
	z[3] = x[3].Mul(y[3])
	z[4] = x[4].Mul(y[4])
	z[5] = x[5].Mul(y[5])
	z[6] = x[6].Mul(y[6])
	z[7] = x[7].Mul(y[7])
	return z
}
