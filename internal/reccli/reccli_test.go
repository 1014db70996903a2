package reccli_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ioruntime/recunit/internal/reccli"
)

func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	var out, errOut bytes.Buffer
	code = reccli.Run(strings.NewReader(stdin), &out, &errOut, args)

	return out.String(), errOut.String(), code
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.txt")

	if _, stderr, code := run(t, "", "write", path, "first", "second"); code != 0 {
		t.Fatalf("write failed (code %d): %s", code, stderr)
	}

	stdout, stderr, code := run(t, "", "read", path)
	if code != 0 {
		t.Fatalf("read failed (code %d): %s", code, stderr)
	}

	if !strings.Contains(stdout, "first\n") || !strings.Contains(stdout, "second\n") {
		t.Fatalf("expected both records in output, got %q", stdout)
	}
	if !strings.Contains(stdout, "-- 2 record(s)") {
		t.Fatalf("expected a summary line counting 2 records, got %q", stdout)
	}
}

func TestWriteFromStdinWhenNoArgsGiven(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdin.txt")

	if _, stderr, code := run(t, "one\ntwo\nthree\n", "write", path); code != 0 {
		t.Fatalf("write from stdin failed (code %d): %s", code, stderr)
	}

	stdout, _, code := run(t, "", "read", path)
	if code != 0 {
		t.Fatalf("read failed: %s", stdout)
	}
	if !strings.Contains(stdout, "-- 3 record(s)") {
		t.Fatalf("expected 3 records read back from stdin input, got %q", stdout)
	}
}

func TestBackspaceCommandReproducesRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "back.txt")

	run(t, "", "write", path, "alpha", "beta")

	stdout, stderr, code := run(t, "", "backspace", path)
	if code != 0 {
		t.Fatalf("backspace failed (code %d): %s", code, stderr)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 output lines, got %q", stdout)
	}

	readField := func(line string) string {
		parts := strings.SplitN(line, ": ", 2)
		if len(parts) != 2 {
			t.Fatalf("unexpected line format %q", line)
		}
		return parts[1]
	}

	if readField(lines[0]) != readField(lines[1]) {
		t.Fatalf("expected backspacing to reproduce the same record, got %q vs %q", lines[0], lines[1])
	}
}

func TestDumpCommandReportsCorrelationAndRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.txt")

	run(t, "", "write", path, "a", "b", "c")

	stdout, stderr, code := run(t, "", "dump", path)
	if code != 0 {
		t.Fatalf("dump failed (code %d): %s", code, stderr)
	}

	if !strings.Contains(stdout, "correlation:") {
		t.Fatalf("expected a correlation line, got %q", stdout)
	}
	if !strings.Contains(stdout, "record 0:") {
		t.Fatalf("expected at least the stats header record, got %q", stdout)
	}
}

func TestUnknownCommandReturnsUsageError(t *testing.T) {
	_, stderr, code := run(t, "", "frobnicate")
	if code != 2 {
		t.Fatalf("expected exit code 2 for an unknown command, got %d", code)
	}
	if !strings.Contains(stderr, "unknown command") {
		t.Fatalf("expected an unknown-command message, got %q", stderr)
	}
}

func TestMissingArgsReturnsUsage(t *testing.T) {
	_, stderr, code := run(t, "")
	if code != 2 {
		t.Fatalf("expected exit code 2 with no arguments, got %d", code)
	}
	if !strings.Contains(stderr, "usage:") {
		t.Fatalf("expected usage text, got %q", stderr)
	}
}

func TestReadMissingFileReportsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.txt")

	_, stderr, code := run(t, "", "read", path)
	if code != 1 {
		t.Fatalf("expected exit code 1 reading a missing file, got %d", code)
	}
	if stderr == "" {
		t.Fatalf("expected an error message on stderr")
	}
}
