package reccli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/ioruntime/recunit/internal/bufmng"
	"github.com/ioruntime/recunit/internal/byteop"
	"github.com/ioruntime/recunit/internal/iostat"
	"github.com/ioruntime/recunit/internal/registry"
	"github.com/ioruntime/recunit/internal/unit"
)

// cmdWrite открывает path как новый или существующий последовательный
// форматированный юнит и добавляет к нему записи: аргументы после path
// если они есть, иначе строки прочитанные из stdin.
func cmdWrite(r *registry.Registry, stdin io.Reader, stdout io.Writer, args []string) error {
	if len(args) < 1 {
		return errors.New("write: missing path")
	}
	path := args[0]
	lines := args[1:]
	if len(lines) == 0 {
		lines = readLines(stdin)
	}

	h := iostat.New()
	reserved := r.NewUnit()
	u, _ := r.Open(reserved.UnitNumber(), unit.StatusUnknown, unit.ActionWrite, unit.PositionAppend, path, unit.ConvertUnknown, h)
	if h.HasIoStat() {
		return h.Err()
	}

	u.SetDirection(unit.DirectionOutput, h)
	if h.HasIoStat() {
		return h.Err()
	}

	var scratch []byte
	for _, line := range lines {
		scratch = byteop.Reuse(&scratch, len(line))
		copy(scratch, line)

		if !u.Emit(scratch, 1, h) {
			return h.Err()
		}
		if !u.AdvanceRecord(false, h) {
			return h.Err()
		}
	}

	u.Close(unit.CloseKeep, h)
	if h.HasIoStat() {
		return h.Err()
	}
	r.DestroyClosed(u)

	fmt.Fprintf(stdout, "wrote %d record(s) to %s\n", len(lines), path)

	return nil
}

// readLines разбивает r на строки, используя bufmng.ScanBuffer для
// начального буфера сканера — избегаем аллокации на каждой короткой
// строке при типичном текстовом вводе.
func readLines(r io.Reader) []string {
	scratch := bufmng.NewScanBuffer()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(scratch.Grow(4096), 1<<20)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return lines
}
