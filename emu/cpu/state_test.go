package cpu

/*
   M68K CPU register file tests.

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

import "testing"

func TestResetPowerOnDefaults(t *testing.T) {
	s := &State{}
	s.D[0] = 1
	s.A[0] = 2
	s.PC = 3
	s.Reset()
	if !s.Supervisor() {
		t.Errorf("Reset: S bit not set")
	}
	if s.IntMask() != 7 {
		t.Errorf("Reset: interrupt mask got: %d expected: 7", s.IntMask())
	}
	if s.CCR() != 0 {
		t.Errorf("Reset: CCR got: %#x expected: 0", s.CCR())
	}
	if s.D[0] != 0 || s.A[0] != 0 || s.PC != 0 {
		t.Errorf("Reset: registers not cleared")
	}
}

func TestResetIdempotent(t *testing.T) {
	a := &State{}
	a.Reset()
	a.Reset()
	b := &State{}
	b.Reset()
	if *a != *b {
		t.Errorf("Reset() then Reset() differs from a single Reset()")
	}
}

func TestSetDataRegPreservesUpperBits(t *testing.T) {
	s := &State{}
	s.D[0] = 0xDEADBEEF
	s.SetDataReg(0, 0x01, Byte)
	if s.D[0] != 0xDEADBE01 {
		t.Errorf("Byte write got: %08x expected: %08x", s.D[0], 0xDEADBE01)
	}

	s.D[0] = 0xDEADBEEF
	s.SetDataReg(0, 0x1234, Word)
	if s.D[0] != 0xDEAD1234 {
		t.Errorf("Word write got: %08x expected: %08x", s.D[0], 0xDEAD1234)
	}

	s.D[0] = 0xDEADBEEF
	s.SetDataReg(0, 0x00000001, Long)
	if s.D[0] != 1 {
		t.Errorf("Long write got: %08x expected: %08x", s.D[0], 1)
	}
}

func TestA7AliasesUSPAndSSP(t *testing.T) {
	s := &State{}
	s.Reset() // supervisor mode: A[7] is SSP
	s.A[7] = 0x1000
	s.SSP = 0x1000
	s.USP = 0x2000

	s.SetSupervisor(false)
	if s.A[7] != 0x2000 {
		t.Errorf("A7 after leaving supervisor got: %#x expected: %#x", s.A[7], 0x2000)
	}
	if s.SSP != 0x1000 {
		t.Errorf("SSP not saved on mode switch: got %#x expected %#x", s.SSP, 0x1000)
	}

	s.A[7] = 0x3000 // user writes A7 -- this is USP now
	s.SetSupervisor(true)
	if s.A[7] != 0x1000 {
		t.Errorf("A7 after entering supervisor got: %#x expected: %#x", s.A[7], 0x1000)
	}
	if s.USP != 0x3000 {
		t.Errorf("USP not saved on mode switch: got %#x expected %#x", s.USP, 0x3000)
	}
}

func TestCCRFlagAccessors(t *testing.T) {
	s := &State{}
	s.SetFlagN(true)
	s.SetFlagC(true)
	if s.CCR() != 0x09 {
		t.Errorf("CCR got: %#x expected: %#x", s.CCR(), 0x09)
	}
	if !s.FlagN() || !s.FlagC() {
		t.Errorf("FlagN/FlagC did not read back set bits")
	}
	if s.FlagZ() || s.FlagV() || s.FlagX() {
		t.Errorf("unexpected flag set: Z=%v V=%v X=%v", s.FlagZ(), s.FlagV(), s.FlagX())
	}
}
