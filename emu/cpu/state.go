/*
   M68K CPU register file.

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

// Package cpu holds the M68K programmer-visible register file: eight
// data registers, eight address registers (A7 aliasing USP or SSP),
// PC and SR.
package cpu

// Size names the width of a data movement or arithmetic operation.
type Size int

const (
	Byte Size = 1
	Word Size = 2
	Long Size = 4
)

// Bytes returns the width of the size in bytes.
func (s Size) Bytes() uint32 {
	return uint32(s)
}

// SR bit positions.
const (
	srTrace      uint16 = 0x8000
	srSupervisor uint16 = 0x2000
	srIntMask    uint16 = 0x0700
	srX          uint16 = 0x0010
	srN          uint16 = 0x0008
	srZ          uint16 = 0x0004
	srV          uint16 = 0x0002
	srC          uint16 = 0x0001
	srIntShift          = 8
)

// State is the CPU's programmer-visible register file.
type State struct {
	D [8]uint32 // Data registers D0-D7
	A [8]uint32 // Address registers A0-A7; A[7] is the active stack pointer (swapped with USP/SSP by SetSR)

	USP uint32 // User stack pointer
	SSP uint32 // Supervisor stack pointer
	PC  uint32 // Program counter

	SR uint16 // Status register (T, S, I2-I0, and CCR in the low byte)

	// CallDepth counts outstanding JSR/BSR calls, used by the execute
	// loop's "stop when call depth reaches zero" policy.
	CallDepth int

	// Stopped is set by STOP and cleared by an external resume.
	Stopped bool
}

// Reset zeroes all registers and sets SR to the power-on default:
// supervisor mode, interrupt mask 7, trace and CCR clear.
func (s *State) Reset() {
	*s = State{}
	s.SR = srSupervisor | (7 << srIntShift)
}

// Supervisor reports whether SR.S is set.
func (s *State) Supervisor() bool {
	return s.SR&srSupervisor != 0
}

// SetSupervisor sets SR.S, swapping A7 between USP and SSP as the
// M68K architecture requires whenever the active stack changes.
func (s *State) SetSupervisor(on bool) {
	was := s.Supervisor()
	if on {
		s.SR |= srSupervisor
	} else {
		s.SR &^= srSupervisor
	}
	if on != was {
		s.swapStack(was)
	}
}

// swapStack saves A[7] into the stack register for the mode we are
// leaving and loads A[7] from the stack register for the mode we are
// entering.
func (s *State) swapStack(wasSupervisor bool) {
	if wasSupervisor {
		s.SSP = s.A[7]
		s.A[7] = s.USP
	} else {
		s.USP = s.A[7]
		s.A[7] = s.SSP
	}
}

// Trace reports SR.T.
func (s *State) Trace() bool { return s.SR&srTrace != 0 }

// IntMask returns the interrupt priority mask (I2..I0).
func (s *State) IntMask() uint8 { return uint8((s.SR & srIntMask) >> srIntShift) }

// DataReg returns the full 32-bit contents of Dn.
func (s *State) DataReg(n int) uint32 { return s.D[n&7] }

// SetDataReg writes width bytes of v into Dn, preserving the upper
// bits for Byte/Word writes (never sign-extends).
func (s *State) SetDataReg(n int, v uint32, width Size) {
	n &= 7
	switch width {
	case Byte:
		s.D[n] = (s.D[n] &^ 0xFF) | (v & 0xFF)
	case Word:
		s.D[n] = (s.D[n] &^ 0xFFFF) | (v & 0xFFFF)
	default:
		s.D[n] = v
	}
}

// AddrReg returns the full 32-bit contents of An, aliasing A7 to the
// currently active stack pointer.
func (s *State) AddrReg(n int) uint32 {
	n &= 7
	return s.A[n]
}

// SetAddrReg always writes the full 32 bits (sign-extended by the
// caller when the source is narrower) and never touches flags.
func (s *State) SetAddrReg(n int, v uint32) {
	s.A[n&7] = v
}

// CCR accessors. CCR occupies the low byte of SR: X N Z V C in bits
// 4..0.

func (s *State) FlagX() bool { return s.SR&srX != 0 }
func (s *State) FlagN() bool { return s.SR&srN != 0 }
func (s *State) FlagZ() bool { return s.SR&srZ != 0 }
func (s *State) FlagV() bool { return s.SR&srV != 0 }
func (s *State) FlagC() bool { return s.SR&srC != 0 }

func setFlag(sr *uint16, bit uint16, on bool) {
	if on {
		*sr |= bit
	} else {
		*sr &^= bit
	}
}

func (s *State) SetFlagX(on bool) { setFlag(&s.SR, srX, on) }
func (s *State) SetFlagN(on bool) { setFlag(&s.SR, srN, on) }
func (s *State) SetFlagZ(on bool) { setFlag(&s.SR, srZ, on) }
func (s *State) SetFlagV(on bool) { setFlag(&s.SR, srV, on) }
func (s *State) SetFlagC(on bool) { setFlag(&s.SR, srC, on) }

// CCR returns the condition code byte (low 5 bits significant).
func (s *State) CCR() uint8 { return uint8(s.SR & 0x1F) }

// SetCCR replaces the condition code byte, leaving the rest of SR
// alone.
func (s *State) SetCCR(ccr uint8) {
	s.SR = (s.SR &^ 0x1F) | uint16(ccr&0x1F)
}

// SetSR replaces the entire status register, routing A7 through the
// USP/SSP swap if supervisor mode changed.
func (s *State) SetSR(sr uint16) {
	was := s.Supervisor()
	s.SR = sr
	if s.Supervisor() != was {
		s.swapStack(was)
	}
}

// Clone returns a detached copy of the register file, used by the
// disassembler so scanning never perturbs execution state.
func (s *State) Clone() *State {
	c := *s
	return &c
}
