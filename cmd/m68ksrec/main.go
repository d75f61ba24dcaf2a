/*
 * M68K - S-record loader and dump tool.
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

	"gopkg.in/urfave/cli.v2"

	"github.com/dhadner/m68k/emu/machine"
	"github.com/dhadner/m68k/util/hex"
)

func main() {
	app := &cli.App{
		Name:  "m68ksrec",
		Usage: "Load a Motorola S-record file and dump the resulting memory image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "S-record file to load",
			},
			&cli.StringFlag{
				Name:    "dump",
				Aliases: []string{"d"},
				Usage:   "memory region to dump as start:len (hex)",
			},
		},
		Action: func(c *cli.Context) error {
			file := c.String("file")
			if file == "" {
				cli.ShowAppHelp(c)
				return cli.Exit("", 2)
			}

			mach := machine.New(nil)
			if err := mach.LoadSRecord(file); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Printf("Loaded %s, start address %06X\n", file, mach.CPU.PC)

			if region := c.String("dump"); region != "" {
				start, length, err := parseRegion(region)
				if err != nil {
					return cli.Exit(err.Error(), 2)
				}
				dump(mach, start, length)
			}
			return nil
		},
	}

	app.Run(os.Args)
}

func parseRegion(s string) (start, length uint32, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("region %q is not start:len", s)
	}
	a, err := strconv.ParseUint(strings.TrimPrefix(parts[0], "$"), 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad start %q", parts[0])
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(parts[1], "$"), 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad length %q", parts[1])
	}
	return uint32(a), uint32(n), nil
}

func dump(mach *machine.Machine, start, length uint32) {
	for base := start &^ 0xF; base < start+length; base += 16 {
		var str strings.Builder
		hex.FormatAddr(&str, base)
		str.WriteString("  ")
		var text strings.Builder
		for i := uint32(0); i < 16; i++ {
			b := mach.Mem.ReadByteRaw(base + i)
			hex.FormatByte(&str, b)
			str.WriteByte(' ')
			if b >= 0x20 && b < 0x7F {
				text.WriteByte(b)
			} else {
				text.WriteByte('.')
			}
		}
		fmt.Printf("%s %s\n", str.String(), text.String())
	}
}
