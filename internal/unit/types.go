// Package unit реализует движок внешних файловых юнитов: превращает
// запросы чтения/записи/перепозиционирования/завершения записи в
// операции над буферизованным окном файла (internal/frame.Provider),
// соблюдая инварианты структуры записи (фиксированная/переменная длина,
// форматированная/нефоматированная, последовательный/прямой/потоковый
// доступ), преобразование порядка байт и семантику позиционирования
// (BACKSPACE, REWIND, ENDFILE).
package unit

import (
	"github.com/ioruntime/recunit/internal/frame"
	"github.com/ioruntime/recunit/internal/recfmt"
)

// Access способ доступа к юниту.
type Access int

const (
	// AccessSequential последовательный доступ, записи идут одна за другой.
	AccessSequential Access = iota
	// AccessDirect прямой доступ, каждая запись имеет фиксированную длину openRecl.
	AccessDirect
	// AccessStream потоковый доступ без структуры записей.
	AccessStream
)

func (a Access) String() string {
	switch a {
	case AccessSequential:
		return "sequential"
	case AccessDirect:
		return "direct"
	case AccessStream:
		return "stream"
	default:
		return "unknown"
	}
}

// Action разрешённые операции над юнитом — реэкспорт frame.Action,
// поскольку это буквально тот же набор разрешений что и у поставщика
// кадра, и дублировать его как отдельный тип не нужно.
type Action = frame.Action

const (
	ActionReadWrite = frame.ActionReadWrite
	ActionRead      = frame.ActionRead
	ActionWrite     = frame.ActionWrite
)

// mayReadAction true если action допускает чтение.
func mayReadAction(a Action) bool { return a != ActionWrite }

// mayWriteAction true если action допускает запись.
func mayWriteAction(a Action) bool { return a != ActionRead }

// Status реэкспорт frame.Status для оператора OPEN.
type Status = frame.Status

const (
	StatusUnknown = frame.StatusUnknown
	StatusOld     = frame.StatusOld
	StatusNew     = frame.StatusNew
	StatusReplace = frame.StatusReplace
	StatusScratch = frame.StatusScratch
)

// Position реэкспорт frame.Position для оператора OPEN.
type Position = frame.Position

const (
	PositionAsIs   = frame.PositionAsIs
	PositionRewind = frame.PositionRewind
	PositionAppend = frame.PositionAppend
)

// CloseStatus реэкспорт frame.CloseStatus для оператора CLOSE.
type CloseStatus = frame.CloseStatus

const (
	CloseKeep   = frame.CloseKeep
	CloseDelete = frame.CloseDelete
)

// Direction направление текущей передачи данных.
type Direction int

const (
	// DirectionUnset направление ещё не определено.
	DirectionUnset Direction = iota
	// DirectionInput юнит читается.
	DirectionInput
	// DirectionOutput юнит пишется.
	DirectionOutput
)

// Tristate тег "не задано / да / нет" без оверлоя sentinel-значением,
// используется для isUnformatted, которое может быть неизвестно до
// первой операции ввода-вывода.
type Tristate int

const (
	// Unset значение ещё не определено.
	Unset Tristate = iota
	// False значение ложно.
	False
	// True значение истинно.
	True
)

// FromBool конструирует Tristate из обычного bool.
func FromBool(v bool) Tristate {
	if v {
		return True
	}

	return False
}

// Known true если значение было явно установлено.
func (t Tristate) Known() bool { return t != Unset }

// Bool отдаёт значение как bool; для Unset отдаёт def.
func (t Tristate) Bool(def bool) bool {
	switch t {
	case True:
		return true
	case False:
		return false
	default:
		return def
	}
}

// OptInt64 опциональное целое число "известно / не известно" — поля
// recordLength, endfileRecordNumber, openRecl, leftTabLimit спецификации
// представлены именно так, а не через оверлой sentinel-значением.
type OptInt64 struct {
	value int64
	known bool
}

// Some создаёт известное значение.
func Some(v int64) OptInt64 { return OptInt64{value: v, known: true} }

// None создаёт неизвестное значение.
func None() OptInt64 { return OptInt64{} }

// Known true если значение установлено.
func (o OptInt64) Known() bool { return o.known }

// Get отдаёт значение и флаг известности.
func (o OptInt64) Get() (int64, bool) { return o.value, o.known }

// Value отдаёт значение, либо 0 если неизвестно — использовать только
// там где Known() уже был проверен.
func (o OptInt64) Value() int64 { return o.value }

// Clear сбрасывает значение в "неизвестно".
func (o *OptInt64) Clear() { *o = OptInt64{} }

// Set устанавливает известное значение.
func (o *OptInt64) Set(v int64) { *o = OptInt64{value: v, known: true} }

// Convert реэкспорт recfmt.Convert чтобы пользователям пакета unit не
// нужно было импортировать internal/recfmt напрямую для этого типа.
type Convert = recfmt.Convert

const (
	ConvertUnknown      = recfmt.ConvertUnknown
	ConvertNative       = recfmt.ConvertNative
	ConvertLittleEndian = recfmt.ConvertLittleEndian
	ConvertBigEndian    = recfmt.ConvertBigEndian
	ConvertSwap         = recfmt.ConvertSwap
)

// sentinelEndfile значение endfileRecordNumber используемое когда конец
// файла неизвестен, но нужно предоставить определённое значение для
// последующего BACKSPACE сразу после OPEN ... POSITION='APPEND'.
const sentinelEndfile = int64(1)<<62 - 2

// sentinelStreamRecord "средняя" величина currentRecordNumber после
// SetStreamPos, допускающая движение в обе стороны.
const sentinelStreamRecord = int64(1) << 61
