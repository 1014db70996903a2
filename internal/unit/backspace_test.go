package unit_test

import (
	"testing"

	"github.com/ioruntime/recunit/internal/frame"
	"github.com/ioruntime/recunit/internal/iostat"
	"github.com/ioruntime/recunit/internal/unit"
)

// TestBackspaceFormattedRereadsSameRecord checks that reading a record,
// backspacing, and reading again reproduces the same bytes and leaves
// currentRecordNumber where it was before the first read.
func TestBackspaceFormattedRereadsSameRecord(t *testing.T) {
	p := frame.NewMem([]byte("alpha\nbeta\ngamma\n"))
	u := unit.New(7, p)
	h := iostat.New()

	u.Open(unit.StatusOld, unit.ActionRead, unit.PositionRewind, "records.txt", unit.ConvertUnknown, nil, h)
	u.SetDirection(unit.DirectionInput, h)
	if h.HasIoStat() {
		t.Fatalf("open/direction: %v", h.Err())
	}

	if !u.BeginReadingRecord(h) {
		t.Fatalf("begin reading first record: %v", h.Err())
	}
	u.GetNextInputBytes(h)
	u.FinishReadingRecord(false, h)

	if !u.BeginReadingRecord(h) {
		t.Fatalf("begin reading second record: %v", h.Err())
	}
	first := string(u.GetNextInputBytes(h))
	u.FinishReadingRecord(false, h)

	if first != "beta" {
		t.Fatalf("expected %q before backspace, got %q", "beta", first)
	}

	before := u.CurrentRecordNumber()

	if !u.BackspaceRecord(h) {
		t.Fatalf("backspace: %v", h.Err())
	}
	if got := u.CurrentRecordNumber(); got != before-1 {
		t.Fatalf("expected current record number %d after backspace, got %d", before-1, got)
	}

	if !u.BeginReadingRecord(h) {
		t.Fatalf("begin reading after backspace: %v", h.Err())
	}
	second := string(u.GetNextInputBytes(h))
	u.FinishReadingRecord(false, h)

	if second != first {
		t.Fatalf("expected backspace to reproduce %q, got %q", first, second)
	}

	// Advancing forward again should now reach "gamma", not repeat "beta".
	if !u.BeginReadingRecord(h) {
		t.Fatalf("begin reading third record: %v", h.Err())
	}
	third := string(u.GetNextInputBytes(h))
	u.FinishReadingRecord(false, h)

	if third != "gamma" {
		t.Fatalf("expected %q after re-reading the backspaced record, got %q", "gamma", third)
	}
}

func TestBackspaceAtFirstRecordIsNoOp(t *testing.T) {
	p := frame.NewMem([]byte("only\n"))
	u := unit.New(8, p)
	h := iostat.New()

	u.Open(unit.StatusOld, unit.ActionRead, unit.PositionRewind, "one.txt", unit.ConvertUnknown, nil, h)
	u.SetDirection(unit.DirectionInput, h)

	if !u.BackspaceRecord(h) {
		// backspace before any read is a no-op success case in this engine,
		// nothing has been consumed yet so there's nothing to undo.
		t.Fatalf("unexpected backspace failure with no prior read: %v", h.Err())
	}

	if !u.BeginReadingRecord(h) {
		t.Fatalf("begin reading: %v", h.Err())
	}
	if got := string(u.GetNextInputBytes(h)); got != "only" {
		t.Fatalf("expected %q, got %q", "only", got)
	}
}

func TestBackspaceRejectedOnDirectAccess(t *testing.T) {
	p := frame.NewMem(nil)
	u := unit.New(9, p)
	h := iostat.New()

	u.SetAccess(unit.AccessDirect)
	u.SetRecl(4)
	u.Open(unit.StatusUnknown, unit.ActionReadWrite, unit.PositionRewind, "direct.dat", unit.ConvertUnknown, nil, h)

	if u.BackspaceRecord(h) {
		t.Fatalf("expected BACKSPACE to be rejected on a direct access unit")
	}
	if h.Code() != iostat.BackspaceNonSequential {
		t.Fatalf("expected BackspaceNonSequential, got %v", h.Code())
	}
}
