package diag_test

import (
	"testing"

	"github.com/ioruntime/recunit/internal/diag"
	"github.com/ioruntime/recunit/internal/frame"
	"github.com/ioruntime/recunit/internal/iostat"
	"github.com/ioruntime/recunit/internal/unit"
	"github.com/ioruntime/recunit/internal/uvarints"
	"github.com/sirkon/deepequal"
)

// fakeSource is a hand-rolled diag.Source, standing in for
// registry.Registry so the diagnostic wire format can be tested without
// pulling in the whole registry package. extraIDs lets a test report a
// unit number from Units() that LookUp can't resolve, simulating a race
// with a concurrent CLOSE.
type fakeSource struct {
	units    map[int]*unit.ExternalFileUnit
	extraIDs []int
}

func (f *fakeSource) Units() []int {
	ids := make([]int, 0, len(f.units)+len(f.extraIDs))
	for n := range f.units {
		ids = append(ids, n)
	}
	ids = append(ids, f.extraIDs...)
	return ids
}

func (f *fakeSource) LookUp(n int) (*unit.ExternalFileUnit, bool) {
	u, ok := f.units[n]
	return u, ok
}

func (f *fakeSource) Stats() diag.Stats {
	s := diag.Stats{Total: len(f.units)}
	for _, u := range f.units {
		switch u.Access() {
		case unit.AccessSequential:
			s.Sequential++
		case unit.AccessDirect:
			s.Direct++
		case unit.AccessStream:
			s.Stream++
		}
	}
	return s
}

func TestSnapshotRoundTripsThroughUvarints(t *testing.T) {
	h := iostat.New()

	u1 := unit.New(6, frame.NewMem(nil))
	u1.Open(unit.StatusUnknown, unit.ActionReadWrite, unit.PositionRewind, "out.txt", unit.ConvertUnknown, nil, h)

	u2 := unit.New(200, frame.NewMem(nil))
	u2.SetAccess(unit.AccessDirect)
	u2.SetRecl(8)
	u2.Open(unit.StatusUnknown, unit.ActionReadWrite, unit.PositionRewind, "grid.dat", unit.ConvertUnknown, nil, h)

	src := &fakeSource{units: map[int]*unit.ExternalFileUnit{
		u1.UnitNumber(): u1,
		u2.UnitNumber(): u2,
	}}

	dump := diag.Snapshot(src)
	if dump.CorrelationID.String() == "" {
		t.Fatalf("expected a non-empty correlation id")
	}

	buf := dump.Bytes
	var records [][]byte
	for len(buf) > 0 {
		length, rest, err := uvarints.Read(buf)
		if err != nil {
			t.Fatalf("decode record %d: %v", len(records), err)
		}
		if uint64(len(rest)) < length {
			t.Fatalf("record %d: truncated, want %d bytes have %d", len(records), length, len(rest))
		}

		records = append(records, rest[:length])
		buf = rest[length:]
	}

	// One stats header record plus one record per unit.
	if len(records) != 3 {
		t.Fatalf("expected 3 records (1 header + 2 units), got %d", len(records))
	}
}

func TestCorrelationIDStable(t *testing.T) {
	a := diag.CorrelationID()
	b := diag.CorrelationID()

	if a != b {
		t.Fatalf("expected CorrelationID to be stable within a process, got %s and %s", a, b)
	}
}

func TestSourceStatsCountsByAccess(t *testing.T) {
	h := iostat.New()

	seq := unit.New(6, frame.NewMem(nil))
	seq.Open(unit.StatusUnknown, unit.ActionReadWrite, unit.PositionRewind, "seq.txt", unit.ConvertUnknown, nil, h)

	direct := unit.New(200, frame.NewMem(nil))
	direct.SetAccess(unit.AccessDirect)
	direct.SetRecl(8)
	direct.Open(unit.StatusUnknown, unit.ActionReadWrite, unit.PositionRewind, "grid.dat", unit.ConvertUnknown, nil, h)

	src := &fakeSource{units: map[int]*unit.ExternalFileUnit{
		seq.UnitNumber():    seq,
		direct.UnitNumber(): direct,
	}}

	want := diag.Stats{Sequential: 1, Direct: 1, Total: 2}
	if !deepequal.Equal(src.Stats(), want) {
		deepequal.SideBySide(t, "registry stats", want, src.Stats())
	}
}

func TestSnapshotSkipsVanishedUnit(t *testing.T) {
	src := &fakeSource{units: map[int]*unit.ExternalFileUnit{}, extraIDs: []int{999}}

	dump := diag.Snapshot(src)

	buf := dump.Bytes
	length, rest, err := uvarints.Read(buf)
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if uint64(len(rest)) < length {
		t.Fatalf("truncated header record")
	}
	if len(rest[length:]) != 0 {
		t.Fatalf("expected only the header record — unit 999 has no backing unit and should be skipped")
	}
}
