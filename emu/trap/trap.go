/*
   M68K: architectural exception vectors.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

// Package trap holds the M68K exception vector numbers and the Trap
// record returned by the execution engine when an instruction raises
// one.
package trap

// Vector numbers, per the M68K architecture definition.
const (
	BusError        = 2
	AddressError    = 3
	IllegalInst     = 4
	ZeroDivide      = 5
	CHKInst         = 6
	TRAPVInst       = 7
	PrivilegeViol   = 8
	Trace           = 9
	LineA           = 10
	LineF           = 11
	// TRAP #N uses vectors 32..47.
	TrapBase = 32
)

// Vector returns the vector number for a TRAP #n instruction.
func Vector(n uint8) int {
	return TrapBase + int(n&0xf)
}

// Trap is an architectural exception: a vector plus the opcode word of
// the instruction that raised it. Trap is a plain value, never an
// error -- it is returned alongside (not instead of) a normal result,
// per the two-channel error policy (fatal errors vs. traps).
type Trap struct {
	Vector  int
	Opcode  uint16
	PC      uint32 // address of the instruction that trapped
	Message string // optional human-readable detail
}

func (t Trap) String() string {
	if t.Message != "" {
		return t.Message
	}
	return nameOf(t.Vector)
}

func nameOf(vector int) string {
	switch vector {
	case BusError:
		return "bus error"
	case AddressError:
		return "address error"
	case IllegalInst:
		return "illegal instruction"
	case ZeroDivide:
		return "zero divide"
	case CHKInst:
		return "CHK out of bounds"
	case TRAPVInst:
		return "TRAPV overflow"
	case PrivilegeViol:
		return "privilege violation"
	case Trace:
		return "trace"
	case LineA:
		return "line-A emulator"
	case LineF:
		return "line-F emulator"
	default:
		if vector >= TrapBase && vector < TrapBase+16 {
			return "TRAP instruction"
		}
		return "unknown trap"
	}
}

// New builds a Trap for the given vector.
func New(vector int, opcode uint16, pc uint32) *Trap {
	return &Trap{Vector: vector, Opcode: opcode, PC: pc}
}
