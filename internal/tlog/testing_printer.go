package tlog

// TestingPrinter обёртка над *testing.T для вывода данных.
type TestingPrinter interface {
	Helper()
	Log(a ...any)
	Logf(format string, a ...any)
	Error(a ...any)
	Errorf(format string, a ...any)
}
