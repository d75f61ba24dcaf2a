/*
 * M68K - Batch disassembler.
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

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhadner/m68k/emu/disassemble"
	"github.com/dhadner/m68k/emu/machine"
)

func main() {
	var srecFile string
	var binFile string
	var binAt string
	var dataRanges []string

	rootCmd := &cobra.Command{
		Use:   "m68kdis",
		Short: "M68K disassembler — render machine code as VASM-style text",
	}
	rootCmd.PersistentFlags().StringVarP(&srecFile, "srec", "s", "", "S-record file to load")
	rootCmd.PersistentFlags().StringVarP(&binFile, "bin", "b", "", "flat binary file to load")
	rootCmd.PersistentFlags().StringVar(&binAt, "at", "0", "load address for --bin (hex)")
	rootCmd.PersistentFlags().StringArrayVarP(&dataRanges, "data", "d", nil,
		"non-executable range start:end[:b|w|l] (hex, repeatable)")

	setup := func() (*machine.Machine, *disassemble.Disassembler, error) {
		mach := machine.New(nil)
		switch {
		case srecFile != "":
			if err := mach.LoadSRecord(srecFile); err != nil {
				return nil, nil, err
			}
		case binFile != "":
			data, err := os.ReadFile(binFile)
			if err != nil {
				return nil, nil, err
			}
			at, err := parseHex(binAt)
			if err != nil {
				return nil, nil, err
			}
			mach.LoadExecutable(data, at, false)
		default:
			return nil, nil, fmt.Errorf("one of --srec or --bin is required")
		}
		dis := mach.Disassembler()
		for _, r := range dataRanges {
			start, end, hint, err := parseRange(r)
			if err != nil {
				return nil, nil, err
			}
			dis.AddSection(start, end, hint)
		}
		return mach, dis, nil
	}

	print := func(recs []disassemble.Record) {
		for _, rec := range recs {
			fmt.Printf("%06X  %s\n", rec.Addr, rec.Text)
		}
	}

	rangeCmd := &cobra.Command{
		Use:   "range <start> <length>",
		Short: "Disassemble a fixed address range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseHex(args[0])
			if err != nil {
				return err
			}
			length, err := parseHex(args[1])
			if err != nil {
				return err
			}
			_, dis, err := setup()
			if err != nil {
				return err
			}
			print(dis.Disassemble(start, length))
			return nil
		},
	}

	var scanLen string
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Disassemble from the image entry point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mach, dis, err := setup()
			if err != nil {
				return err
			}
			length, err := parseHex(scanLen)
			if err != nil {
				return err
			}
			print(dis.Disassemble(mach.CPU.PC, length))
			return nil
		},
	}
	scanCmd.Flags().StringVar(&scanLen, "len", "100", "bytes to scan (hex)")

	rootCmd.AddCommand(rangeCmd, scanCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func parseHex(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "$"), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hex value %q", s)
	}
	return uint32(v), nil
}

func parseRange(s string) (start, end uint32, hint disassemble.SizeHint, err error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("range %q is not start:end[:size]", s)
	}
	if start, err = parseHex(parts[0]); err != nil {
		return
	}
	if end, err = parseHex(parts[1]); err != nil {
		return
	}
	hint = disassemble.HintAuto
	if len(parts) == 3 {
		switch parts[2] {
		case "b":
			hint = disassemble.HintByte
		case "w":
			hint = disassemble.HintWord
		case "l":
			hint = disassemble.HintLong
		default:
			err = fmt.Errorf("size %q is not b, w, or l", parts[2])
		}
	}
	return
}
