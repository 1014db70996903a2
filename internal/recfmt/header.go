package recfmt

import "encoding/binary"

// HeaderSize размер заголовка/футера нефоматированной последовательной
// записи в байтах.
const HeaderSize = 4

// PutHeader записывает длину записи length в dst (должен быть не короче
// HeaderSize байт) с учётом опции c.
func PutHeader(dst []byte, length uint32, c Convert) {
	binary.LittleEndian.PutUint32(dst, length)

	if c.ShouldSwap() {
		swap4(dst)
	}
}

// GetHeader читает длину записи из src (должен быть не короче HeaderSize
// байт) с учётом опции c.
func GetHeader(src []byte, c Convert) uint32 {
	var buf [HeaderSize]byte
	copy(buf[:], src[:HeaderSize])

	if c.ShouldSwap() {
		swap4(buf[:])
	}

	return binary.LittleEndian.Uint32(buf[:])
}

func swap4(b []byte) {
	b[0], b[3] = b[3], b[0]
	b[1], b[2] = b[2], b[1]
}

// SwapElement обращает порядок байт элемента размера elementBytes внутри
// buf на месте, если c того требует. Используется при Emit/Receive для
// пересылаемых данных, а не только для заголовков записей.
func SwapElement(buf []byte, elementBytes int, c Convert) {
	if !c.ShouldSwap() || elementBytes < 2 {
		return
	}

	for off := 0; off+elementBytes <= len(buf); off += elementBytes {
		chunk := buf[off : off+elementBytes]
		for i, j := 0, len(chunk)-1; i < j; i, j = i+1, j-1 {
			chunk[i], chunk[j] = chunk[j], chunk[i]
		}
	}
}
