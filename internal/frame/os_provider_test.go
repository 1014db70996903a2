package frame_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ioruntime/recunit/internal/frame"
)

func tempProvider(t *testing.T) (*frame.OSProvider, string) {
	t.Helper()

	dir := t.TempDir()
	name := filepath.Join(dir, "unit.dat")

	return frame.NewOS(name), name
}

func TestOSProviderWriteReadRoundtrip(t *testing.T) {
	p, name := tempProvider(t)

	if err := p.Open(frame.StatusReplace, frame.ActionReadWrite, frame.PositionRewind); err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := p.WriteFrame(0, 11); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	copy(p.Frame(), "hello world")

	if err := p.Close(frame.CloseKeep); err != nil {
		t.Fatalf("close: %v", err)
	}

	content, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read back file: %v", err)
	}
	if string(content) != "hello world" {
		t.Fatalf("unexpected file content %q", content)
	}

	p2 := frame.NewOS(name)
	if err := p2.Open(frame.StatusOld, frame.ActionRead, frame.PositionRewind); err != nil {
		t.Fatalf("reopen: %v", err)
	}

	n, err := p2.ReadFrame(6, 5)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 bytes, got %d", n)
	}
	if got := string(p2.Frame()[:n]); got != "world" {
		t.Fatalf("unexpected read content %q", got)
	}
}

func TestOSProviderKnownSizeAfterFlush(t *testing.T) {
	p, _ := tempProvider(t)

	if err := p.Open(frame.StatusReplace, frame.ActionReadWrite, frame.PositionRewind); err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := p.WriteFrame(0, 4); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	copy(p.Frame(), "abcd")

	if err := p.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	size, known := p.KnownSize()
	if !known || size != 4 {
		t.Fatalf("unexpected known size %d/%v", size, known)
	}
}

func TestOSProviderTruncate(t *testing.T) {
	p, name := tempProvider(t)

	if err := p.Open(frame.StatusReplace, frame.ActionReadWrite, frame.PositionRewind); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := p.WriteFrame(0, 10); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	copy(p.Frame(), "0123456789")

	if err := p.Truncate(4); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if err := p.Close(frame.CloseKeep); err != nil {
		t.Fatalf("close: %v", err)
	}

	content, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(content) != "0123" {
		t.Fatalf("unexpected file content after truncate %q", content)
	}
}

func TestOSProviderScratchDeletedOnClose(t *testing.T) {
	p, name := tempProvider(t)

	if err := p.Open(frame.StatusScratch, frame.ActionReadWrite, frame.PositionRewind); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := p.WriteFrame(0, 3); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	copy(p.Frame(), "xyz")

	if err := p.Close(frame.CloseDelete); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := os.Stat(name); !os.IsNotExist(err) {
		t.Fatalf("expected scratch file to be removed, stat err = %v", err)
	}
}

func TestOSProviderAppendPosition(t *testing.T) {
	p, name := tempProvider(t)

	if err := os.WriteFile(name, []byte("prefix-"), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if err := p.Open(frame.StatusOld, frame.ActionReadWrite, frame.PositionAppend); err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := p.WriteFrame(p.FrameAt(), 6); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	copy(p.Frame(), "suffix")

	if err := p.Close(frame.CloseKeep); err != nil {
		t.Fatalf("close: %v", err)
	}

	content, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(content) != "prefix-suffix" {
		t.Fatalf("unexpected file content %q", content)
	}
}
