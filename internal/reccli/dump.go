package reccli

import (
	"errors"
	"fmt"
	"io"

	"github.com/ioruntime/recunit/internal/byteop"
	"github.com/ioruntime/recunit/internal/diag"
	"github.com/ioruntime/recunit/internal/iostat"
	"github.com/ioruntime/recunit/internal/registry"
	"github.com/ioruntime/recunit/internal/unit"
	"github.com/ioruntime/recunit/internal/uvarints"
)

// cmdDump opens path, takes a diagnostic snapshot of the registry (which
// now holds exactly this one unit besides the predefined ones) and
// decodes it back record by record for display.
func cmdDump(r *registry.Registry, stdout io.Writer, args []string) error {
	if len(args) < 1 {
		return errors.New("dump: missing path")
	}
	path := args[0]

	h := iostat.New()
	reserved := r.NewUnit()
	u, _ := r.Open(reserved.UnitNumber(), unit.StatusOld, unit.ActionReadWrite, unit.PositionAsIs, path, unit.ConvertUnknown, h)
	if h.HasIoStat() {
		return h.Err()
	}

	dump := diag.Snapshot(r)
	fmt.Fprintf(stdout, "correlation: %s\n", dump.CorrelationID)

	buf := dump.Bytes
	for i := 0; len(buf) > 0; i++ {
		recLen, rest, err := uvarints.Read(buf)
		if err != nil {
			return fmt.Errorf("dump: decode record %d: %w", i, err)
		}
		if uint64(len(rest)) < recLen {
			return fmt.Errorf("dump: truncated record %d", i)
		}

		record, tail, err := byteop.Split(rest, int(recLen))
		if err != nil {
			return fmt.Errorf("dump: record %d: %w", i, err)
		}
		buf = tail

		fmt.Fprintf(stdout, "record %d: %d bytes\n", i, len(record))
	}

	u.Close(unit.CloseKeep, h)
	if h.HasIoStat() {
		return h.Err()
	}
	r.DestroyClosed(u)

	return nil
}
