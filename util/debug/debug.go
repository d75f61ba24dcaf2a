/*
 * M68K - Host debugger hook.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package debug defines the optional host debugger hook. The hook is
// purely observational: memory notifies it before each access, and the
// disassembler tells it when a scan starts and stops and polls it for
// cancellation between records. A debugger must not mutate machine
// state except through the machine's public API.
package debug

// Debugger is the full hook a host may attach to a Machine.
type Debugger interface {
	// DebugRead/DebugWrite are called before every memory access.
	DebugRead(addr uint32)
	DebugWrite(addr uint32)

	// SetDisassembling is flipped on when a disassembly scan begins
	// and off when it ends, so the hook can tell scan traffic from
	// execution traffic.
	SetDisassembling(on bool)

	// Cancelling is polled between disassembly records and between
	// instructions by the execute loop; returning true stops the
	// current operation at the next safe point.
	Cancelling() bool

	// DoEvents is called between records during a long disassembly so
	// an interactive host can stay responsive.
	DoEvents()
}

// Nop is a Debugger that does nothing, usable as a default so callers
// never need nil checks on every access.
type Nop struct{}

func (Nop) DebugRead(uint32)      {}
func (Nop) DebugWrite(uint32)     {}
func (Nop) SetDisassembling(bool) {}
func (Nop) Cancelling() bool      { return false }
func (Nop) DoEvents()             {}
