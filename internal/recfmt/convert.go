// Package recfmt собирает низкоуровневые операции кодирования записей:
// 4-байтный префикс длины с учётом порядка байт и поиск границ
// форматированных записей по символу переноса строки.
package recfmt

import "unsafe"

// Convert соответствует опции CONVERT= оператора OPEN: как интерпретировать
// порядок байт заголовков/футеров нефоматированных последовательных
// записей и передаваемых элементов.
type Convert int

const (
	// ConvertUnknown порядок байт не задан явно, используется порядок хоста.
	ConvertUnknown Convert = iota
	// ConvertNative порядок байт хоста, обмен никогда не выполняется.
	ConvertNative
	// ConvertLittleEndian данные в файле в порядке little-endian.
	ConvertLittleEndian
	// ConvertBigEndian данные в файле в порядке big-endian.
	ConvertBigEndian
	// ConvertSwap обмен байт выполняется безусловно.
	ConvertSwap
)

// hostIsBigEndian true на big-endian хосте. Все известные сейчас цели
// Go little-endian, но решение принимается не по факту платформы
// компиляции, а через runtime-проверку — так это остаётся верным даже
// если значение когда-то станет переменным внутри процесса.
var hostIsBigEndian = func() bool {
	var probe uint16 = 1

	return *(*byte)(unsafe.Pointer(&probe)) == 0
}()

// ShouldSwap определяет нужен ли обмен байт для данной опции Convert.
func (c Convert) ShouldSwap() bool {
	switch c {
	case ConvertSwap:
		return true
	case ConvertLittleEndian:
		return hostIsBigEndian
	case ConvertBigEndian:
		return !hostIsBigEndian
	default:
		return false
	}
}
