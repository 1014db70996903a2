// Command recunit is a tiny CLI exercising the external file unit engine
// end to end: opening files, writing and reading formatted records,
// backspacing, and dumping diagnostic snapshots.
package main

import (
	"os"

	"github.com/ioruntime/recunit/internal/reccli"
)

func main() {
	os.Exit(reccli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]))
}
