package reccli

import (
	"errors"
	"fmt"
	"io"

	"github.com/ioruntime/recunit/internal/byteop"
	"github.com/ioruntime/recunit/internal/iostat"
	"github.com/ioruntime/recunit/internal/registry"
	"github.com/ioruntime/recunit/internal/unit"
)

// cmdBackspace reads the first record of path, backspaces over it, and
// reads it again — the two reads should agree, demonstrating that
// BACKSPACE correctly undoes the position advanced by a prior read.
func cmdBackspace(r *registry.Registry, stdout io.Writer, args []string) error {
	if len(args) < 1 {
		return errors.New("backspace: missing path")
	}
	path := args[0]

	h := iostat.New()
	reserved := r.NewUnit()
	u, _ := r.Open(reserved.UnitNumber(), unit.StatusOld, unit.ActionRead, unit.PositionRewind, path, unit.ConvertUnknown, h)
	if h.HasIoStat() {
		return h.Err()
	}

	u.SetDirection(unit.DirectionInput, h)
	if h.HasIoStat() {
		return h.Err()
	}

	if !u.BeginReadingRecord(h) {
		return fmt.Errorf("backspace: %s has no records", path)
	}
	first := byteop.Clone(u.GetNextInputBytes(h))
	u.FinishReadingRecord(false, h)

	if !u.BackspaceRecord(h) {
		return h.Err()
	}

	if !u.BeginReadingRecord(h) {
		return h.Err()
	}
	second := byteop.Clone(u.GetNextInputBytes(h))
	u.FinishReadingRecord(false, h)

	fmt.Fprintf(stdout, "read      : %s\n", first)
	fmt.Fprintf(stdout, "backspaced: %s\n", second)

	u.Close(unit.CloseKeep, h)
	if h.HasIoStat() {
		return h.Err()
	}
	r.DestroyClosed(u)

	return nil
}
