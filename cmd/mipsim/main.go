// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/tebeka/atexit"

	"github.com/ezrec/mipsim/emulator"
	"github.com/ezrec/mipsim/translate"
)

var f = translate.From

// defines collects repeated -D NAME=VALUE flags.
type defines map[string]string

func (d defines) String() string {
	var list []string
	for name, value := range d {
		list = append(list, name+"="+value)
	}
	return strings.Join(list, ",")
}

func (d defines) Set(text string) error {
	name, value, ok := strings.Cut(text, "=")
	if !ok || len(name) == 0 {
		return errors.New(f("define '%v' is not NAME=VALUE", text))
	}
	d[name] = value
	return nil
}

// fatal logs and exits through atexit, so registered closers run.
func fatal(format string, args ...any) {
	log.Print(f(format, args...))
	atexit.Exit(1)
}

// listing prints the assembled program and its symbol table.
func listing(emu *emulator.Emulator) {
	prog := emu.Program

	for addr, ins := range prog.Codes() {
		fmt.Printf("%08x: %08x  %-28v # %4d: %v\n", addr, ins.Encode(), ins, ins.LineNo, ins.Text)
	}

	base := prog.DataBase()
	for n, cell := range prog.Data {
		fmt.Printf("%08x: %08x\n", base+uint32(n)*4, cell)
	}

	fmt.Println()
	for _, label := range prog.Labels() {
		fmt.Printf("%08x %v\n", prog.Symbols[label], label)
	}

	for _, warning := range prog.Warnings {
		log.Printf("warning: %v", warning)
	}
}

func main() {
	var compile string
	var list bool
	var limit int
	var input string
	var output string
	var strict bool
	var verbose bool
	predefine := defines{}

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.BoolVar(&list, "l", false, "List program and symbols, do not execute")
	flag.IntVar(&limit, "n", emulator.STEP_LIMIT, "Step budget, 0 for unlimited")
	flag.StringVar(&input, "i", "-", "Console input")
	flag.StringVar(&output, "o", "-", "Console output")
	flag.BoolVar(&strict, "strict", false, "Stop assembly at the first error")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Var(predefine, "D", "Predefine NAME=VALUE (repeatable)")

	flag.Parse()

	if flag.NArg() != 0 {
		fatal("%v: unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) == 0 {
		fatal("%v: no source file, use -c", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Strict = strict

	inf, err := os.Open(compile)
	if err != nil {
		fatal("%v: %v", compile, err)
	}
	atexit.Register(func() { inf.Close() })

	for name, value := range predefine {
		emu.Predefine(name, value)
	}

	err = emu.Assemble(inf)
	if err != nil {
		if strict {
			fatal("%v: %v", compile, err)
		}
		log.Printf("%v: %v", compile, err)
	}

	if list {
		listing(emu)
		atexit.Exit(0)
	}

	if input == "-" {
		emu.Terminal.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			fatal("%v: %v", input, err)
		}
		atexit.Register(func() { inf.Close() })
		emu.Terminal.Input = inf
	}

	if output == "-" {
		emu.Terminal.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			fatal("%v: %v", output, err)
		}
		atexit.Register(func() { ouf.Close() })
		emu.Terminal.Output = ouf
	}

	emu.Reset()
	steps, done, err := emu.Run(limit)
	if err != nil {
		log.Print(err)
		if verbose {
			log.Print(emu.Cpu.String())
		}
		atexit.Exit(2)
	}

	if !done {
		fatal("%v: step budget of %d exhausted at %#08x", compile, steps, emu.Pc())
	}

	if verbose {
		log.Print(f("%v: %d instructions executed, exit code %d", compile, steps, emu.Cpu.ExitCode))
	}

	atexit.Exit(emu.Cpu.ExitCode)
}
