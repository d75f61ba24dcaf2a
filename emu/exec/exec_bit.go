/*
   M68K execution engine: bit manipulation opcodes.

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

package exec

import (
	"github.com/dhadner/m68k/emu/decoder"
	"github.com/dhadner/m68k/emu/opcodemap"
	"github.com/dhadner/m68k/emu/trap"
)

func init() {
	register(opcodemap.OpBTST, execBTST)
	register(opcodemap.OpBCHG, execBCHG)
	register(opcodemap.OpBCLR, execBCLR)
	register(opcodemap.OpBSET, execBSET)
}

// bitNumber returns the bit to test/modify: the immediate from the
// opcode stream (static form, in.Quick) or the low 5/3 bits of a data
// register (dynamic form), masked to the operand's actual width --
// mod 32 against Dn, mod 8 against a memory byte.
func (e *Engine) bitNumber(in *decoder.Instruction, memoryOperand bool) uint32 {
	var n uint32
	if in.Quick {
		n = uint32(in.Data)
	} else {
		n = e.S.DataReg(int(in.Reg))
	}
	if memoryOperand {
		return n & 7
	}
	return n & 31
}

// btst only sets Z from the tested bit; the others also write the
// modified value back.
func execBTST(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, in.Size)
	if trp != nil {
		return trp
	}
	v, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	n := e.bitNumber(in, in.SrcMode != 0)
	e.S.SetFlagZ(v&(1<<n) == 0)
	return nil
}

func (e *Engine) bitRMW(in *decoder.Instruction, modify func(v, mask uint32) uint32) *trap.Trap {
	r, op, trp := e.resolveSrc(in, in.Size)
	if trp != nil {
		return trp
	}
	v, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	n := e.bitNumber(in, in.SrcMode != 0)
	mask := uint32(1) << n
	e.S.SetFlagZ(v&mask == 0)
	result := modify(v, mask)
	if trp := r.Store(op, result); trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	return nil
}

func execBCHG(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.bitRMW(in, func(v, mask uint32) uint32 { return v ^ mask })
}

func execBCLR(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.bitRMW(in, func(v, mask uint32) uint32 { return v &^ mask })
}

func execBSET(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.bitRMW(in, func(v, mask uint32) uint32 { return v | mask })
}
