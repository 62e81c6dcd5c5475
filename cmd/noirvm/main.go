// Command noirvm is a small CLI around the chunk/heap/disassembler core:
// it assembles the textual bytecode format, disassembles it, and reports
// heap statistics. There is no dispatch loop here — nothing in this binary
// executes bytecode.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/funvibe/noirvm/internal/asm"
	"github.com/funvibe/noirvm/internal/config"
	"github.com/funvibe/noirvm/internal/debug"
	"github.com/funvibe/noirvm/internal/heap"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load(".noirvmrc.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading .noirvmrc.yaml: %s\n", err)
		os.Exit(1)
	}

	cmd := os.Args[1]
	path := os.Args[2]

	switch cmd {
	case "disasm":
		if err := runDisasm(path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	case "heap-stats":
		if err := runHeapStats(path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	case "asm-check":
		if err := runAsmCheck(path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <disasm|heap-stats|asm-check> <file.asm>\n", filepath.Base(os.Args[0]))
}

func runDisasm(path string, cfg config.Config) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	h := heap.New()
	c, err := asm.Assemble(h, src)
	if err != nil {
		return fmt.Errorf("assembling %s: %w", path, err)
	}
	debug.DisassembleChunk(os.Stdout, c, path, resolveColor(cfg.Color, os.Stdout))
	return nil
}

func runHeapStats(path string, cfg config.Config) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	h := heap.New()
	c, err := asm.Assemble(h, src)
	if err != nil {
		return fmt.Errorf("assembling %s: %w", path, err)
	}

	fmt.Printf("objects: %d\n", h.Count())
	fmt.Printf("code bytes: %d\n", c.Len())
	fmt.Printf("constants: %d\n", len(c.Constants))

	if cfg.HumanizeBytes {
		fmt.Printf("source size: %s\n", humanize.Bytes(uint64(len(src))))
	} else {
		fmt.Printf("source size: %d\n", len(src))
	}
	return nil
}

func runAsmCheck(path string, cfg config.Config) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	h := heap.New()
	if _, err := asm.Assemble(h, src); err != nil {
		return err
	}
	if resolveColor(cfg.Color, os.Stdout) {
		fmt.Printf("\033[32mOK\033[0m %s\n", path)
	} else {
		fmt.Printf("OK %s\n", path)
	}
	return nil
}

// resolveColor applies .noirvmrc.yaml's color setting: "always"/"never"
// override terminal detection outright, anything else (including the
// "auto" default) falls back to isatty against f.
func resolveColor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
}
