// Package errors предоставляет структурированную ошибку используемую
// по всему модулю: обёрнутая ошибка с необязательным сообщением плюс
// список поимённых диагностических полей (номер записи, смещение в
// файле, номер юнита, ...), которые тестовые и логирующие обёртки могут
// обойти не разбирая текст сообщения.
package errors

import (
	"errors"
	"fmt"
)

// Const ошибка чей текст известен на этапе компиляции, подходит для
// использования как sentinel сравниваемый через errors.Is.
type Const string

func (c Const) Error() string { return string(c) }

// ErrorContextConsumer получает поля диагностического контекста по
// одному, в порядке их присоединения к ошибке.
type ErrorContextConsumer interface {
	Bool(name string, value bool)
	Int(name string, value int)
	Int8(name string, value int8)
	Int16(name string, value int16)
	Int32(name string, value int32)
	Int64(name string, value int64)
	Uint(name string, value uint)
	Uint8(name string, value uint8)
	Uint16(name string, value uint16)
	Uint32(name string, value uint32)
	Uint64(name string, value uint64)
	Float32(name string, value float32)
	Float64(name string, value float64)
	String(name string, value string)
	Any(name string, value any)
}

// ErrorContextDeliverer отдаёт свой диагностический контекст потребителю.
type ErrorContextDeliverer interface {
	Deliver(c ErrorContextConsumer)
}

// Error структурированная ошибка с сообщением, опциональной причиной и
// списком именованных полей контекста.
type Error struct {
	msg  string
	err  error
	vars []func(ErrorContextConsumer)
}

// New ошибка с фиксированным сообщением без обёрнутой причины.
func New(msg string) Error {
	return Error{msg: msg}
}

// Newf ошибка с форматированным сообщением без обёрнутой причины.
func Newf(format string, args ...any) Error {
	return Error{msg: fmt.Sprintf(format, args...)}
}

// Wrap добавляет сообщение к err, сохраняя err доступным для
// errors.Is/As и Unwrap.
func Wrap(err error, msg string) Error {
	return Error{msg: msg, err: err}
}

// Wrapf то же самое что и Wrap, но с форматированным сообщением.
func Wrapf(err error, format string, args ...any) Error {
	return Error{msg: fmt.Sprintf(format, args...), err: err}
}

// Just сохраняет текст err как есть, позволяя лишь добавить
// структурированный контекст сверху.
func Just(err error) *Error {
	return &Error{err: err}
}

func (e Error) Error() string {
	switch {
	case e.err != nil && e.msg != "":
		return e.msg + ": " + e.err.Error()
	case e.err != nil:
		return e.err.Error()
	default:
		return e.msg
	}
}

// Unwrap отдаёт обёрнутую причину для errors.Is / errors.As.
func (e Error) Unwrap() error { return e.err }

// Is то же самое что и стандартное errors.Is.
func Is(err, target error) bool { return errors.Is(err, target) }

// As то же самое что и стандартное errors.As, переэкспортировано чтобы
// вызывающему не нужно было импортировать ещё и стандартный пакет.
func As(err error, target any) bool { return errors.As(err, target) }

func (e Error) with(f func(ErrorContextConsumer)) Error {
	e.vars = append(append(([]func(ErrorContextConsumer))(nil), e.vars...), f)
	return e
}

// Bool добавляет булево поле.
func (e Error) Bool(name string, v bool) Error {
	return e.with(func(c ErrorContextConsumer) { c.Bool(name, v) })
}

// Int добавляет поле int.
func (e Error) Int(name string, v int) Error {
	return e.with(func(c ErrorContextConsumer) { c.Int(name, v) })
}

// Int64 добавляет поле int64.
func (e Error) Int64(name string, v int64) Error {
	return e.with(func(c ErrorContextConsumer) { c.Int64(name, v) })
}

// Uint64 добавляет поле uint64.
func (e Error) Uint64(name string, v uint64) Error {
	return e.with(func(c ErrorContextConsumer) { c.Uint64(name, v) })
}

// Str добавляет строковое поле.
func (e Error) Str(name string, v string) Error {
	return e.with(func(c ErrorContextConsumer) { c.String(name, v) })
}

// Stg добавляет поле из произвольного fmt.Stringer.
func (e Error) Stg(name string, v fmt.Stringer) Error {
	return e.with(func(c ErrorContextConsumer) { c.String(name, v.String()) })
}

// Any добавляет поле произвольного типа.
func (e Error) Any(name string, v any) Error {
	return e.with(func(c ErrorContextConsumer) { c.Any(name, v) })
}

// Deliver реализует ErrorContextDeliverer.
func (e Error) Deliver(c ErrorContextConsumer) {
	for _, f := range e.vars {
		f(c)
	}
}

// GetContextDeliverer достаёт ErrorContextDeliverer из err, если где-то
// в его цепочке причин есть значение Error.
func GetContextDeliverer(err error) ErrorContextDeliverer {
	var e Error
	if As(err, &e) {
		return e
	}
	return nil
}
