package recfmt_test

import (
	"testing"

	"github.com/ioruntime/recunit/internal/recfmt"
)

func TestHeaderRoundtripNative(t *testing.T) {
	var buf [recfmt.HeaderSize]byte

	recfmt.PutHeader(buf[:], 0x01020304, recfmt.ConvertNative)
	if got := recfmt.GetHeader(buf[:], recfmt.ConvertNative); got != 0x01020304 {
		t.Fatalf("unexpected roundtrip value %#x", got)
	}
}

func TestHeaderBigEndianOnLittleHost(t *testing.T) {
	var buf [recfmt.HeaderSize]byte

	recfmt.PutHeader(buf[:], 4, recfmt.ConvertBigEndian)

	want := [4]byte{0x00, 0x00, 0x00, 0x04}
	if [4]byte(buf) != want {
		t.Fatalf("unexpected on-disk header % x, want % x", buf, want)
	}

	if got := recfmt.GetHeader(buf[:], recfmt.ConvertBigEndian); got != 4 {
		t.Fatalf("unexpected decoded length %d", got)
	}
}

func TestSwapElementPreservesEachChunk(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}

	recfmt.SwapElement(data, 4, recfmt.ConvertSwap)
	if string(data) != string([]byte{0x04, 0x03, 0x02, 0x01}) {
		t.Fatalf("unexpected swapped bytes % x", data)
	}

	recfmt.SwapElement(data, 4, recfmt.ConvertSwap)
	if string(data) != string([]byte{0x01, 0x02, 0x03, 0x04}) {
		t.Fatalf("swap should be its own inverse, got % x", data)
	}
}

func TestFindLastNewlineDoesNotReadPastLength(t *testing.T) {
	buf := []byte("abc\ndef")

	if got := recfmt.FindLastNewline(buf, len(buf)); got != 3 {
		t.Fatalf("expected newline at 3, got %d", got)
	}

	if got := recfmt.FindLastNewline(buf, 3); got != -1 {
		t.Fatalf("expected no newline within first 3 bytes, got %d", got)
	}
}

func TestStripCR(t *testing.T) {
	buf := []byte("line\r\n")

	nl := recfmt.FindNewline(buf, 0)
	if got := recfmt.StripCR(buf, nl); got != 4 {
		t.Fatalf("expected CR stripped to length 4, got %d", got)
	}
}
