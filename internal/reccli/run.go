// Package reccli реализует небольшой командный интерфейс поверх
// internal/registry и internal/unit — write/read/backspace/dump,
// достаточные чтобы прогнать движок сквозным образом без Fortran-а
// сверху.
package reccli

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/ioruntime/recunit/internal/registry"
)

// Run точка входа: разбирает первый аргумент как имя подкоманды и
// делегирует остальные аргументы её обработчику. Возвращает код
// завершения процесса.
func Run(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
	runID := uuid.New()

	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	r := registry.New(registry.WithLogger(newStderrLogger(stderr, runID)))
	defer r.Shutdown()

	cmd, rest := args[0], args[1:]

	var err error
	switch cmd {
	case "write":
		err = cmdWrite(r, stdin, stdout, rest)
	case "read":
		err = cmdRead(r, stdout, rest)
	case "backspace":
		err = cmdBackspace(r, stdout, rest)
	case "dump":
		err = cmdDump(r, stdout, rest)
	case "-h", "--help", "help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "recunit: unknown command %q\n", cmd)
		printUsage(stderr)
		return 2
	}

	if err != nil {
		fmt.Fprintf(stderr, "recunit: %s: %v\n", cmd, err)
		return 1
	}

	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `usage: recunit <command> [arguments]

commands:
  write <path> <line>...   append formatted records to path, one per line
  read <path>              print every formatted record of path
  backspace <path>         read the first record twice, backspacing between reads
  dump <path>              print a length-prefixed diagnostic snapshot of path
`)
}
