// Package main provides a pointer to the real entry point.
// The M-20 instruction-set simulator's CLI lives at ./cmd/m20sim.
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("m20sim - M-20 instruction-set simulator")
	fmt.Println("")
	fmt.Println("Usage: m20sim [options] <image-file>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -trace     Per-instruction disassembly trace on stderr")
	fmt.Println("  -drum      Drum backing file (overrides M20_DRUM)")
	fmt.Println("  -break     Breakpoint address (octal), repeatable")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/m20sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/m20sim' instead.")
	}
}
