package iostat

import (
	"sync"

	"github.com/ioruntime/recunit/internal/errors"
)

// Handler приёмник статусов операций ввода-вывода, владеемый текущим
// statement-ом. Это единственный путь, которым ядро сообщает о сбоях:
// никакой операции не позволено паниковать кроме класса "фатальных
// инвариантов" (неверное направление передачи, снятие не верхнего кадра
// дочернего ввода-вывода).
type Handler interface {
	// SignalError сообщает об ошибке с данным кодом. Возврат false из
	// операции ядра и вызов SignalError всегда идут парой.
	SignalError(code Code, err error)
	// SignalEnd сообщает о достижении конца файла или конца записи.
	SignalEnd()
	// HasIoStat возвращает true если на этот Handler уже был сигнал.
	HasIoStat() bool
	// PrimeIoStat взводит HasIoStat без сигнала об ошибке. Используется
	// перед сбросом при аварийном завершении, чтобы вложенные ошибки
	// сброса не превратились в рекурсивный отчёт о крахе.
	PrimeIoStat()
}

// New создаёт Handler по умолчанию: накопленный код и первая
// подвернувшаяся ошибка сохраняются, остальные сигналы после первого
// отбрасываются молча — ровно так же ведёт себя реальный statement,
// которому нужен только первый iostat.
func New() *Default {
	return &Default{}
}

// Default реализация Handler по умолчанию.
type Default struct {
	mu      sync.Mutex
	code    Code
	err     error
	primed  bool
	hasStat bool
}

// SignalError реализует Handler.
func (h *Default) SignalError(code Code, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hasStat {
		return
	}

	h.hasStat = true
	h.code = code
	h.err = err
}

// SignalEnd реализует Handler.
func (h *Default) SignalEnd() {
	h.SignalError(End, errors.Const("end of file"))
}

// HasIoStat реализует Handler.
func (h *Default) HasIoStat() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.hasStat
}

// PrimeIoStat реализует Handler.
func (h *Default) PrimeIoStat() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.primed = true
	h.hasStat = true
}

// Code отдаёт накопленный код, Ok если сигналов не было.
func (h *Default) Code() Code {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.hasStat || h.primed && h.err == nil {
		return Ok
	}

	return h.code
}

// Err отдаёт накопленную ошибку, nil если сигналов не было.
func (h *Default) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}
