package unit_test

import (
	"testing"

	"github.com/ioruntime/recunit/internal/frame"
	"github.com/ioruntime/recunit/internal/iostat"
	"github.com/ioruntime/recunit/internal/unit"
)

func TestAsyncIdAllocationAndReuse(t *testing.T) {
	u := unit.New(11, frame.NewMem(nil))
	h := iostat.New()

	first, ok := u.GetAsynchronousId(h)
	if !ok || first == 0 {
		t.Fatalf("expected a nonzero id, got %d (ok=%v)", first, ok)
	}

	second, ok := u.GetAsynchronousId(h)
	if !ok || second == first {
		t.Fatalf("expected a distinct id from %d, got %d", first, second)
	}

	if !u.Wait(first, h) {
		t.Fatalf("wait on %d: %v", first, h.Err())
	}

	third, ok := u.GetAsynchronousId(h)
	if !ok || third != first {
		t.Fatalf("expected freed id %d to be reissued, got %d", first, third)
	}
}

func TestAsyncIdExhaustion(t *testing.T) {
	u := unit.New(12, frame.NewMem(nil))
	h := iostat.New()

	var got int
	ok := true
	for ok {
		got, ok = u.GetAsynchronousId(h)
		_ = got
	}

	if !h.HasIoStat() || h.Code() != iostat.TooManyAsyncOps {
		t.Fatalf("expected TooManyAsyncOps once ids are exhausted, got %v", h.Code())
	}
}

func TestAsyncWaitZeroReleasesAll(t *testing.T) {
	u := unit.New(13, frame.NewMem(nil))
	h := iostat.New()

	a, _ := u.GetAsynchronousId(h)
	b, _ := u.GetAsynchronousId(h)
	if a == 0 || b == 0 {
		t.Fatalf("expected two nonzero ids, got %d and %d", a, b)
	}

	if !u.Wait(0, h) {
		t.Fatalf("wait(0): %v", h.Err())
	}

	reissued, ok := u.GetAsynchronousId(h)
	if !ok || reissued == 0 {
		t.Fatalf("expected an id to be available after Wait(0)")
	}
}

func TestAsyncWaitUnknownIdFails(t *testing.T) {
	u := unit.New(14, frame.NewMem(nil))
	h := iostat.New()

	if u.Wait(5, h) {
		t.Fatalf("expected Wait on an unissued id to fail")
	}
	if h.Code() != iostat.BadAsynchronous {
		t.Fatalf("expected BadAsynchronous, got %v", h.Code())
	}
}
