package unit

import "github.com/ioruntime/recunit/internal/iostat"

// GetAsynchronousId отдаёт наименьший свободный идентификатор из
// фиксированного битового набора, либо сигнализирует TooManyAsyncOps если
// свободных не осталось. ID 0 зарезервирован и обозначает "все ID".
func (u *ExternalFileUnit) GetAsynchronousId(h iostat.Handler) (int, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for id := 1; id < len(u.asyncIDAvailable); id++ {
		if u.asyncIDAvailable[id] {
			u.asyncIDAvailable[id] = false
			return id, true
		}
	}

	h.SignalError(iostat.TooManyAsyncOps, errUnitf(u.unitNumber, "no asynchronous operation ids available"))

	return 0, false
}

// Wait освобождает идентификатор асинхронной операции. id=0 освобождает
// все выданные идентификаторы (ID 0 остаётся зарезервированным).
// Освобождение неизвестного или уже свободного ID возвращает false.
func (u *ExternalFileUnit) Wait(id int, h iostat.Handler) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if id == 0 {
		for i := 1; i < len(u.asyncIDAvailable); i++ {
			u.asyncIDAvailable[i] = true
		}
		return true
	}

	if id < 0 || id >= len(u.asyncIDAvailable) || u.asyncIDAvailable[id] {
		h.SignalError(iostat.BadAsynchronous, errUnitf(u.unitNumber, "unknown or already free asynchronous operation id").Int("id", id))
		return false
	}

	u.asyncIDAvailable[id] = true

	return true
}
