package uvarints

import "math/bits"

// Length возвращает длину в uvarint для длинны данного слайса.
func Length(v []byte) int {
	if len(v) == 0 {
		return 1
	}
	return (bits.Len64(uint64(len(v))) + 6) / 7
}

// LengthInt возвращает длину в uvarint для данного целого числа.
func LengthInt(v uint64) int {
	if v == 0 {
		return 1
	}
	return (bits.Len64(v) + 6) / 7
}
