/*
 * M68K - Interactive monitor.
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
	"log/slog"
	"os"
	"strconv"

	getopt "github.com/pborman/getopt/v2"

	"github.com/dhadner/m68k/command/parser"
	"github.com/dhadner/m68k/command/reader"
	"github.com/dhadner/m68k/emu/machine"
	"github.com/dhadner/m68k/util/logger"
)

var Logger *slog.Logger

func main() {
	optLoad := getopt.StringLong("load", 'f', "", "S-record file to load")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optPC := getopt.StringLong("pc", 'p', "", "Start address (hex)")
	optMem := getopt.IntLong("mem", 'm', 0, "Memory size in KiB (default 16384)")
	optDebug := getopt.BoolLong("debug", 'd', "Echo debug logging to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, optDebug))
	slog.SetDefault(Logger)

	Logger.Info("M68K monitor started")

	mach := machine.New(&machine.Options{
		MemorySize: uint32(*optMem) * 1024,
		Logger:     Logger,
	})

	if *optLoad != "" {
		if err := mach.LoadSRecord(*optLoad); err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		fmt.Printf("Loaded %s, PC=%06X\n", *optLoad, mach.CPU.PC)
	}
	if *optPC != "" {
		addr, err := strconv.ParseUint(*optPC, 16, 32)
		if err != nil {
			Logger.Error("bad start address: " + *optPC)
			os.Exit(1)
		}
		mach.CPU.PC = uint32(addr)
	}

	reader.ConsoleReader(parser.NewSession(mach))
	Logger.Info("M68K monitor stopped")
}
