package reccli

import (
	"fmt"
	"io"

	"github.com/google/uuid"
)

// newStderrLogger конструирует rtlog.Logger печатающий в стандартный
// вывод ошибок, помеченный идентификатором текущего запуска, чтобы
// строки от разных инвокаций CLI в одном общем логе не перепутались.
func newStderrLogger(w io.Writer, runID uuid.UUID) *stderrLogger {
	return &stderrLogger{w: w, runID: runID}
}

type stderrLogger struct {
	w     io.Writer
	runID uuid.UUID
}

func (l *stderrLogger) UnitFlushFailed(unitNumber int, err error) {
	fmt.Fprintf(l.w, "run=%s unit=%d flush failed: %v\n", l.runID, unitNumber, err)
}

func (l *stderrLogger) UnitCloseFailed(unitNumber int, err error) {
	fmt.Fprintf(l.w, "run=%s unit=%d close failed: %v\n", l.runID, unitNumber, err)
}

func (l *stderrLogger) CrashFlushFailed(err error) {
	fmt.Fprintf(l.w, "run=%s crash flush failed: %v\n", l.runID, err)
}

func (l *stderrLogger) CrashDiagnostics(correlationID string, dump []byte) {
	fmt.Fprintf(l.w, "run=%s crash diagnostics correlation=%s bytes=%d\n", l.runID, correlationID, len(dump))
}
