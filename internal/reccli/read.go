package reccli

import (
	"errors"
	"fmt"
	"io"

	"github.com/ioruntime/recunit/internal/iostat"
	"github.com/ioruntime/recunit/internal/registry"
	"github.com/ioruntime/recunit/internal/unit"
)

// cmdRead открывает path как существующий последовательный
// форматированный юнит на чтение и печатает каждую запись по очереди
// до конца файла.
func cmdRead(r *registry.Registry, stdout io.Writer, args []string) error {
	if len(args) < 1 {
		return errors.New("read: missing path")
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

	count := 0
	for {
		rh := iostat.New()
		if !u.BeginReadingRecord(rh) {
			break
		}

		record := u.GetNextInputBytes(rh)
		fmt.Fprintf(stdout, "%s\n", record)

		u.FinishReadingRecord(false, rh)
		count++
	}

	u.Close(unit.CloseKeep, h)
	if h.HasIoStat() {
		return h.Err()
	}
	r.DestroyClosed(u)

	fmt.Fprintf(stdout, "-- %d record(s)\n", count)

	return nil
}
