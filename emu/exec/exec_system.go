/*
   M68K execution engine: miscellaneous system opcodes.

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
	register(opcodemap.OpNOP, execNOP)
	register(opcodemap.OpSTOP, execSTOP)
	register(opcodemap.OpRESET, execRESET)
}

func execNOP(e *Engine, in *decoder.Instruction) *trap.Trap {
	return nil
}

// STOP loads SR from the immediate word then halts the processor
// until an interrupt or reset; supervisor only.
func execSTOP(e *Engine, in *decoder.Instruction) *trap.Trap {
	if trp := e.requireSupervisor(in); trp != nil {
		return trp
	}
	e.S.SetSR(uint16(in.Data))
	e.S.Stopped = true
	return nil
}

// RESET pulses the (unimplemented here) external reset line; it is a
// privileged no-op against CPU state beyond the privilege check.
func execRESET(e *Engine, in *decoder.Instruction) *trap.Trap {
	return e.requireSupervisor(in)
}
