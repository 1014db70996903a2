package unit_test

import (
	"testing"

	"github.com/ioruntime/recunit/internal/frame"
	"github.com/ioruntime/recunit/internal/iostat"
	"github.com/ioruntime/recunit/internal/unit"
)

func openSequentialFormatted(t *testing.T, content []byte, action unit.Action) (*unit.ExternalFileUnit, *iostat.Default) {
	t.Helper()

	p := frame.NewMem(content)
	u := unit.New(1, p)
	h := iostat.New()

	u.Open(unit.StatusUnknown, action, unit.PositionRewind, "test.txt", unit.ConvertUnknown, nil, h)
	if h.HasIoStat() {
		t.Fatalf("open: %v", h.Err())
	}

	return u, h
}

func TestSequentialFormattedWriteThenRead(t *testing.T) {
	u, h := openSequentialFormatted(t, nil, unit.ActionReadWrite)

	u.SetDirection(unit.DirectionOutput, h)
	if h.HasIoStat() {
		t.Fatalf("set output direction: %v", h.Err())
	}

	for _, line := range []string{"hello", "world"} {
		if !u.Emit([]byte(line), 1, h) {
			t.Fatalf("emit %q: %v", line, h.Err())
		}
		if !u.AdvanceRecord(false, h) {
			t.Fatalf("advance after %q: %v", line, h.Err())
		}
	}

	if h.HasIoStat() {
		t.Fatalf("unexpected iostat after writes: %v", h.Err())
	}

	h2 := iostat.New()
	u.SetDirection(unit.DirectionInput, h2)
	if h2.HasIoStat() {
		t.Fatalf("set input direction: %v", h2.Err())
	}
	if !u.Rewind(h2) {
		t.Fatalf("rewind: %v", h2.Err())
	}

	var got []string
	for {
		rh := iostat.New()
		if !u.BeginReadingRecord(rh) {
			if rh.Code() != iostat.End {
				t.Fatalf("unexpected read failure: %v", rh.Err())
			}
			break
		}

		got = append(got, string(u.GetNextInputBytes(rh)))
		u.FinishReadingRecord(false, rh)
	}

	if len(got) != 2 || got[0] != "hello" || got[1] != "world" {
		t.Fatalf("unexpected records read back: %#v", got)
	}
}

func TestSequentialFormattedCRLF(t *testing.T) {
	u, h := openSequentialFormatted(t, []byte("one\r\ntwo\r\n"), unit.ActionRead)

	u.SetDirection(unit.DirectionInput, h)
	if h.HasIoStat() {
		t.Fatalf("set input direction: %v", h.Err())
	}

	if !u.BeginReadingRecord(h) {
		t.Fatalf("begin reading first record: %v", h.Err())
	}
	if got := string(u.GetNextInputBytes(h)); got != "one" {
		t.Fatalf("expected %q, got %q", "one", got)
	}
	u.FinishReadingRecord(false, h)

	if !u.BeginReadingRecord(h) {
		t.Fatalf("begin reading second record: %v", h.Err())
	}
	if got := string(u.GetNextInputBytes(h)); got != "two" {
		t.Fatalf("expected %q, got %q", "two", got)
	}
	u.FinishReadingRecord(false, h)
}

func TestSequentialFormattedUnterminatedFinalRecord(t *testing.T) {
	u, h := openSequentialFormatted(t, []byte("first\nsecond"), unit.ActionRead)

	u.SetDirection(unit.DirectionInput, h)

	if !u.BeginReadingRecord(h) {
		t.Fatalf("begin reading first record: %v", h.Err())
	}
	u.FinishReadingRecord(false, h)

	if !u.BeginReadingRecord(h) {
		t.Fatalf("begin reading unterminated record: %v", h.Err())
	}
	if got := string(u.GetNextInputBytes(h)); got != "second" {
		t.Fatalf("expected %q, got %q", "second", got)
	}
	u.FinishReadingRecord(false, h)

	if u.BeginReadingRecord(h) {
		t.Fatalf("expected end of file after last record")
	}
	if h.Code() != iostat.End {
		t.Fatalf("expected End code, got %v", h.Code())
	}
}
