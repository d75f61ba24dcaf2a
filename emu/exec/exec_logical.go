/*
   M68K execution engine: logical opcodes.

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
	"github.com/dhadner/m68k/emu/cpu"
	"github.com/dhadner/m68k/emu/decoder"
	"github.com/dhadner/m68k/emu/opcodemap"
	"github.com/dhadner/m68k/emu/trap"
)

func init() {
	register(opcodemap.OpAND, execAND)
	register(opcodemap.OpANDI, execANDI)
	register(opcodemap.OpOR, execOR)
	register(opcodemap.OpORI, execORI)
	register(opcodemap.OpEOR, execEOR)
	register(opcodemap.OpEORI, execEORI)
	register(opcodemap.OpNOT, execNOT)
	register(opcodemap.OpTAS, execTAS)
}

// AND/OR share the Dn-or-ea direction convention ADD/SUB use; EOR only
// ever writes Dn into <ea> (there is no ea-into-Dn EOR encoding), so it
// uses immToEA directly against the ea operand with Dn as the operand
// supplied by the caller.
func execAND(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.dnEaOp(in, func(a, b uint32) uint32 { return logicalFlags(e.S, a&b, in.Size) })
}

func execOR(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.dnEaOp(in, func(a, b uint32) uint32 { return logicalFlags(e.S, a|b, in.Size) })
}

func execEOR(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.immToEA(in, func(dst uint32) uint32 {
		return logicalFlags(e.S, dst^e.S.DataReg(int(in.Reg)), in.Size)
	})
}

func execANDI(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.immToEA(in, func(dst uint32) uint32 { return logicalFlags(e.S, dst&uint32(in.Data), in.Size) })
}

func execORI(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.immToEA(in, func(dst uint32) uint32 { return logicalFlags(e.S, dst|uint32(in.Data), in.Size) })
}

func execEORI(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.immToEA(in, func(dst uint32) uint32 { return logicalFlags(e.S, dst^uint32(in.Data), in.Size) })
}

func execNOT(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.immToEA(in, func(dst uint32) uint32 { return logicalFlags(e.S, ^dst, in.Size) })
}

// TAS tests the operand (setting N,Z, clearing V,C, as an ordinary
// byte test) then unconditionally sets its high bit; on real hardware
// this read-modify-write is a single indivisible bus cycle, which this
// emulator does not model.
func execTAS(e *Engine, in *decoder.Instruction) *trap.Trap {
	r, op, trp := e.resolveSrc(in, cpu.Byte)
	if trp != nil {
		return trp
	}
	v, trp := r.Load(op)
	if trp != nil {
		return trp
	}
	logicalFlags(e.S, v, cpu.Byte)
	if trp := r.Store(op, v|0x80); trp != nil {
		return trp
	}
	r.CommitPostInc(op)
	r.CommitPreDec(op)
	return nil
}
