package unit_test

import (
	"testing"

	"github.com/ioruntime/recunit/internal/frame"
	"github.com/ioruntime/recunit/internal/iostat"
	"github.com/ioruntime/recunit/internal/unit"
)

func TestChildIoStackOrder(t *testing.T) {
	u := unit.New(15, frame.NewMem(nil))

	if got := u.CurrentChildIo(); got != nil {
		t.Fatalf("expected no child I/O on a fresh unit, got %v", got)
	}

	outer := u.PushChildIo(false, unit.DirectionOutput)
	if u.CurrentChildIo() != outer {
		t.Fatalf("expected outer frame to be the current top")
	}

	inner := u.PushChildIo(true, unit.DirectionOutput)
	if u.CurrentChildIo() != inner {
		t.Fatalf("expected inner frame to be the current top")
	}

	u.PopChildIo(inner)
	if u.CurrentChildIo() != outer {
		t.Fatalf("expected outer frame to be current top again after popping inner")
	}

	u.PopChildIo(outer)
	if got := u.CurrentChildIo(); got != nil {
		t.Fatalf("expected an empty stack after popping both frames, got %v", got)
	}
}

func TestPopChildIoOutOfOrderPanics(t *testing.T) {
	u := unit.New(16, frame.NewMem(nil))

	outer := u.PushChildIo(false, unit.DirectionOutput)
	u.PushChildIo(false, unit.DirectionOutput)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected popping a non-top frame to panic")
		}
	}()

	u.PopChildIo(outer)
}

func TestCheckFormattingAndDirectionMismatch(t *testing.T) {
	u := unit.New(17, frame.NewMem(nil))
	u.SetUnformatted(false)
	u.SetDirection(unit.DirectionOutput, iostat.New())

	h := iostat.New()
	if u.CheckFormattingAndDirection(true, unit.DirectionOutput, h) {
		t.Fatalf("expected mismatch between formatted parent and unformatted child to fail")
	}
	if h.Code() != iostat.UnformattedChildOnFormattedParent {
		t.Fatalf("expected UnformattedChildOnFormattedParent, got %v", h.Code())
	}

	h2 := iostat.New()
	if u.CheckFormattingAndDirection(false, unit.DirectionInput, h2) {
		t.Fatalf("expected input child on output parent to fail")
	}
	if h2.Code() != iostat.ChildInputFromOutputParent {
		t.Fatalf("expected ChildInputFromOutputParent, got %v", h2.Code())
	}
}
