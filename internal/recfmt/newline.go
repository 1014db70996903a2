package recfmt

import "bytes"

// FindNewline ищет первый '\n' в buf начиная с offset, отдавая его индекс
// в buf либо -1 если не найден.
func FindNewline(buf []byte, offset int) int {
	if offset >= len(buf) {
		return -1
	}

	idx := bytes.IndexByte(buf[offset:], '\n')
	if idx < 0 {
		return -1
	}

	return offset + idx
}

// FindLastNewline ищет последний '\n' среди buf[:length], отдавая его
// индекс либо -1 если не найден.
//
// Источник за этим алгоритмом перебирал от buf[length] вниз до buf[0]
// включительно: при length равной длине валидных данных первая же
// итерация читала один байт за пределами буфера. Здесь диапазон
// ограничен корректно — buf[:length].
func FindLastNewline(buf []byte, length int) int {
	if length > len(buf) {
		length = len(buf)
	}
	if length <= 0 {
		return -1
	}

	return bytes.LastIndexByte(buf[:length], '\n')
}

// StripCR отдаёt длину записи без завершающего '\r', если byte перед
// newlineAt равен '\r'. newlineAt индекс самого '\n' в buf.
func StripCR(buf []byte, newlineAt int) int {
	if newlineAt > 0 && buf[newlineAt-1] == '\r' {
		return newlineAt - 1
	}

	return newlineAt
}
