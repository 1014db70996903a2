package unit

import "github.com/ioruntime/recunit/internal/errors"

// errUnitf строит структурированную ошибку с номером юнита присоединённым
// как диагностическое поле — используется во всех сигналах §7.1/§7.3.
func errUnitf(unitNumber int, format string, args ...any) errors.Error {
	return errors.Newf(format, args...).Int("unit", unitNumber)
}
