// Package diag строит компактные, длина-префиксные снимки состояния
// реестра юнитов для логирования в момент аварийного сброса — см.
// §4.8. Снимок никогда не идёт напрямую в stdout/stderr (это как раз
// те дескрипторы который сейчас сбрасываются), только в rtlog.Logger
// вызывающего.
package diag

import (
	"bytes"
	"sync"

	"github.com/google/uuid"
	"github.com/ioruntime/recunit/internal/unit"
	"github.com/ioruntime/recunit/internal/uvarints"
)

// Source минимальный срез API registry.Registry нужный для снимка —
// диагностика не зависит от пакета registry чтобы не заводить цикл
// импорта (реестр вызывает диагностику, а не наоборот).
type Source interface {
	Units() []int
	LookUp(unitNumber int) (*unit.ExternalFileUnit, bool)
	Stats() Stats
}

// Stats количество открытых юнитов реестра по способу доступа — часть
// заголовка снимка.
type Stats struct {
	Sequential int
	Direct     int
	Stream     int
	Total      int
}

var (
	correlationOnce sync.Once
	correlationID   uuid.UUID
)

// CorrelationID отдаёт один и тот же идентификатор на всё время жизни
// процесса — генерируется при первом обращении, чтобы несколько
// аварийных снимков подряд (основной сброс плюс возможный повторный
// крах во время его обработки) можно было сопоставить в общем логе.
func CorrelationID() uuid.UUID {
	correlationOnce.Do(func() {
		correlationID = uuid.New()
	})

	return correlationID
}

// Dump снимок состояния реестра, готовый к передаче в rtlog.Logger.
type Dump struct {
	CorrelationID uuid.UUID
	Bytes         []byte
}

// Snapshot строит Dump перечисляя юниты src в порядке возврата Units,
// с одной длина-префиксной записью на юнит: номер юнита, код доступа,
// текущий номер записи, смещение кадра в файле, и путь если он есть.
// Первая запись — заголовок со Stats реестра. Отсутствие информации о
// каком-то юните (гонка с параллельным CLOSE) молча пропускается —
// снимок диагностический, а не точный слепок.
func Snapshot(src Source) Dump {
	var out bytes.Buffer

	appendStatsRecord(&out, src.Stats())

	for _, n := range src.Units() {
		u, ok := src.LookUp(n)
		if !ok {
			continue
		}

		appendUnitRecord(&out, u)
	}

	return Dump{CorrelationID: CorrelationID(), Bytes: out.Bytes()}
}

func appendStatsRecord(dst *bytes.Buffer, s Stats) {
	var payload bytes.Buffer
	payload.Grow(uvarints.LengthInt(uint64(s.Sequential)) +
		uvarints.LengthInt(uint64(s.Direct)) +
		uvarints.LengthInt(uint64(s.Stream)) +
		uvarints.LengthInt(uint64(s.Total)))

	uvarints.Write(&payload, uint64(s.Sequential))
	uvarints.Write(&payload, uint64(s.Direct))
	uvarints.Write(&payload, uint64(s.Stream))
	uvarints.Write(&payload, uint64(s.Total))

	uvarints.Write(dst, uint64(payload.Len()))
	dst.Write(payload.Bytes())
}

func appendUnitRecord(dst *bytes.Buffer, u *unit.ExternalFileUnit) {
	path, hasPath := u.Path()

	var payload bytes.Buffer
	payload.Grow(16 + uvarints.Length([]byte(path)) + len(path))

	uvarints.Write(&payload, uint64(u.UnitNumber()))
	payload.WriteByte(byte(u.Access()))
	uvarints.Write(&payload, uint64(u.CurrentRecordNumber()))
	uvarints.Write(&payload, uint64(u.FrameOffsetInFile()))

	if hasPath {
		uvarints.Write(&payload, uint64(len(path)))
		payload.WriteString(path)
	} else {
		uvarints.Write(&payload, 0)
	}

	uvarints.Write(dst, uint64(payload.Len()))
	dst.Write(payload.Bytes())
}
