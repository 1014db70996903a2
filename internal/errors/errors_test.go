package errors_test

import (
	"fmt"
	"testing"

	"github.com/ioruntime/recunit/internal/errors"
)

type recorder struct {
	bools   map[string]bool
	ints    map[string]int
	strings map[string]string
	anys    map[string]any
}

func newRecorder() *recorder {
	return &recorder{
		bools:   map[string]bool{},
		ints:    map[string]int{},
		strings: map[string]string{},
		anys:    map[string]any{},
	}
}

func (r *recorder) Bool(name string, v bool)          { r.bools[name] = v }
func (r *recorder) Int(name string, v int)            { r.ints[name] = v }
func (r *recorder) Int8(name string, v int8)          {}
func (r *recorder) Int16(name string, v int16)        {}
func (r *recorder) Int32(name string, v int32)        {}
func (r *recorder) Int64(name string, v int64)        {}
func (r *recorder) Uint(name string, v uint)          {}
func (r *recorder) Uint8(name string, v uint8)        {}
func (r *recorder) Uint16(name string, v uint16)      {}
func (r *recorder) Uint32(name string, v uint32)      {}
func (r *recorder) Uint64(name string, v uint64)      {}
func (r *recorder) Float32(name string, v float32)    {}
func (r *recorder) Float64(name string, v float64)    {}
func (r *recorder) String(name string, v string)      { r.strings[name] = v }
func (r *recorder) Any(name string, v any)            { r.anys[name] = v }

func TestErrorMessageComposition(t *testing.T) {
	if got := errors.New("bare").Error(); got != "bare" {
		t.Fatalf("New: expected %q, got %q", "bare", got)
	}

	cause := errors.Const("underlying failure")
	wrapped := errors.Wrap(cause, "opening unit")
	if got, want := wrapped.Error(), "opening unit: underlying failure"; got != want {
		t.Fatalf("Wrap: expected %q, got %q", want, got)
	}

	wrappedf := errors.Wrapf(cause, "unit %d", 6)
	if got, want := wrappedf.Error(), "unit 6: underlying failure"; got != want {
		t.Fatalf("Wrapf: expected %q, got %q", want, got)
	}

	just := errors.Just(cause)
	if got := just.Error(); got != cause.Error() {
		t.Fatalf("Just: expected bare cause text %q, got %q", cause.Error(), got)
	}
}

func TestErrorIsAndAsThroughWrap(t *testing.T) {
	const sentinel errors.Const = "sentinel"

	wrapped := errors.Wrap(sentinel, "context")
	if !errors.Is(wrapped, sentinel) {
		t.Fatalf("expected Is to see through Wrap to the sentinel")
	}

	var target errors.Error
	if !errors.As(fmt.Errorf("outer: %w", wrapped), &target) {
		t.Fatalf("expected As to find the wrapped Error even through fmt.Errorf")
	}
	if target.Error() != wrapped.Error() {
		t.Fatalf("expected recovered Error to match, got %q want %q", target.Error(), wrapped.Error())
	}
}

func TestErrorContextDelivery(t *testing.T) {
	err := errors.New("open failed").
		Int("unit", 6).
		Str("path", "fort.6").
		Bool("unformatted", false)

	rec := newRecorder()
	err.Deliver(rec)

	if rec.ints["unit"] != 6 {
		t.Fatalf("expected unit=6, got %v", rec.ints["unit"])
	}
	if rec.strings["path"] != "fort.6" {
		t.Fatalf("expected path=fort.6, got %v", rec.strings["path"])
	}
	if rec.bools["unformatted"] != false {
		t.Fatalf("expected unformatted=false, got %v", rec.bools["unformatted"])
	}
}

func TestGetContextDelivererFindsWrappedError(t *testing.T) {
	err := errors.New("bad record").Int("record", 3)
	outer := fmt.Errorf("read: %w", err)

	deliverer := errors.GetContextDeliverer(outer)
	if deliverer == nil {
		t.Fatalf("expected a deliverer recovered from the wrapped error chain")
	}

	rec := newRecorder()
	deliverer.Deliver(rec)
	if rec.ints["record"] != 3 {
		t.Fatalf("expected record=3, got %v", rec.ints["record"])
	}
}

func TestGetContextDelivererNilWhenAbsent(t *testing.T) {
	if d := errors.GetContextDeliverer(fmt.Errorf("plain")); d != nil {
		t.Fatalf("expected nil deliverer for a plain error, got %v", d)
	}
}

func TestConstIsComparable(t *testing.T) {
	const a errors.Const = "same text"
	const b errors.Const = "same text"

	if !errors.Is(a, b) {
		t.Fatalf("expected two Const values with the same text to satisfy errors.Is")
	}
}
