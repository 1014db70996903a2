// Package rtlog определяет узкий интерфейс логирования для ситуаций где
// обычный возврат ошибки невозможен или бесполезен: сброс при аварийном
// завершении процесса и фоновый FlushAll, у которых нет вызывающего
// способного обработать ошибку отдельного юнита.
package rtlog

// Logger абстракция предназначенная для логирования в строго
// определённых ситуациях. Реализация логирования должна делаться
// пользователями библиотеки.
type Logger interface {
	// UnitFlushFailed сброс буфера юнита unitNumber не удался.
	UnitFlushFailed(unitNumber int, err error)
	// UnitCloseFailed закрытие юнита unitNumber не удался.
	UnitCloseFailed(unitNumber int, err error)
	// CrashFlushFailed сброс при аварийном завершении процесса не удался.
	CrashFlushFailed(err error)
	// CrashDiagnostics получает снимок состояния реестра снятый перед
	// аварийным сбросом, отмеченный correlation id для сопоставления с
	// остальным логом одного и того же краха.
	CrashDiagnostics(correlationID string, dump []byte)
}

// Discard реализация Logger отбрасывающая всё. Используется как
// значение по умолчанию когда вызывающий не предоставил свой логгер.
var Discard Logger = discard{}

type discard struct{}

func (discard) UnitFlushFailed(int, error)         {}
func (discard) UnitCloseFailed(int, error)         {}
func (discard) CrashFlushFailed(error)             {}
func (discard) CrashDiagnostics(string, []byte)    {}
