/*
 * M68K - Read-only machine state viewer.
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

// m68ktui is a demonstration harness: a terminal viewer that steps a
// loaded image one instruction at a time and renders registers,
// flags, and the upcoming disassembly. It drives the machine solely
// through its public API.
package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	getopt "github.com/pborman/getopt/v2"

	"github.com/dhadner/m68k/emu/machine"
	"github.com/dhadner/m68k/emu/trap"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	paneStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	pcStyle    = lipgloss.NewStyle().Reverse(true)
)

type model struct {
	mach *machine.Machine
	trap *trap.Trap
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			if m.trap == nil && !m.mach.CPU.Stopped {
				m.trap = m.mach.ExecuteInstruction()
			}
		case "r":
			m.mach.Reset()
			m.trap = nil
		}
	}
	return m, nil
}

func (m model) registers() string {
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&sb, "D%d %08X   A%d %08X\n", i, m.mach.CPU.DataReg(i), i, m.mach.CPU.AddrReg(i))
	}
	fmt.Fprintf(&sb, "\nPC %08X   SR %04X\n", m.mach.CPU.PC, m.mach.CPU.SR)
	fmt.Fprintf(&sb, "USP %08X  SSP %08X", m.mach.CPU.USP, m.mach.CPU.SSP)
	return sb.String()
}

func (m model) flags() string {
	var sb strings.Builder
	for _, f := range []struct {
		name string
		on   bool
	}{
		{"X", m.mach.CPU.FlagX()},
		{"N", m.mach.CPU.FlagN()},
		{"Z", m.mach.CPU.FlagZ()},
		{"V", m.mach.CPU.FlagV()},
		{"C", m.mach.CPU.FlagC()},
	} {
		v := 0
		if f.on {
			v = 1
		}
		fmt.Fprintf(&sb, "%s=%d ", f.name, v)
	}
	if m.mach.CPU.Supervisor() {
		sb.WriteString(" S")
	} else {
		sb.WriteString(" U")
	}
	return sb.String()
}

func (m model) listing() string {
	dis := m.mach.Disassembler()
	var lines []string
	addr := m.mach.CPU.PC
	for i := 0; i < 8; i++ {
		rec := dis.Instruction(addr)
		line := fmt.Sprintf("%06X  %s", rec.Addr, rec.Text)
		if i == 0 {
			line = pcStyle.Render(line)
		}
		lines = append(lines, line)
		addr += rec.Length
	}
	return strings.Join(lines, "\n")
}

func (m model) View() string {
	status := "space/j: step   r: reset   q: quit"
	switch {
	case m.trap != nil:
		status = fmt.Sprintf("trap %d: %s", m.trap.Vector, m.trap)
	case m.mach.CPU.Stopped:
		status = "stopped (STOP)"
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("M68K"),
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			paneStyle.Render(m.registers()+"\n\n"+m.flags()),
			paneStyle.Render(m.listing()),
		),
		status,
	)
}

func main() {
	optLoad := getopt.StringLong("load", 'f', "", "S-record file to load")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp || *optLoad == "" {
		getopt.Usage()
		os.Exit(0)
	}

	mach := machine.New(nil)
	if err := mach.LoadSRecord(*optLoad); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if _, err := tea.NewProgram(model{mach: mach}).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
