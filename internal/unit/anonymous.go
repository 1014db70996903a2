package unit

import (
	"fmt"
	"path/filepath"
)

// anonymousPath синтезирует путь fort.<unitNumber> внутри dir — имя
// анонимного юнита фиксировано спецификацией, меняется только
// каталог, в котором он создаётся (§4.9).
func anonymousPath(dir string, unitNumber int) string {
	return filepath.Join(dir, fmt.Sprintf("fort.%d", unitNumber))
}
