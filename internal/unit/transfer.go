package unit

import (
	"github.com/ioruntime/recunit/internal/iostat"
	"github.com/ioruntime/recunit/internal/recfmt"
)

// Emit реализует §4.5: запись bytes байт в текущую запись с разбивкой по
// elementBytes для перестановки порядка байт.
func (u *ExternalFileUnit) Emit(data []byte, elementBytes int, h iostat.Handler) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.access == AccessSequential && u.isUnformatted.Bool(false) &&
		u.positionInRecord == 0 && u.furthestPositionInRecord == 0 {
		// Резервирует первые HeaderSize байт под заголовок записи, не
		// дописанный пока не известна итоговая длина — см.
		// finishUnformattedSequentialOutputLocked. В исходном рантайме
		// это делает драйвер оператора до первого Emit записи; этот
		// пакет не содержит такого драйвера, так что резервирование
		// откладывается до момента, когда запись точно начинает писаться.
		u.positionInRecord = recfmt.HeaderSize
		u.furthestPositionInRecord = recfmt.HeaderSize
	}

	bytes := int64(len(data))
	furthestAfter := u.furthestPositionInRecord
	if want := u.positionInRecord + bytes; want > furthestAfter {
		furthestAfter = want
	}

	if recl, ok := u.openRecl.Get(); ok {
		extra := int64(0)
		if u.access == AccessSequential {
			if u.isUnformatted.Bool(false) {
				extra = 2 * recfmt.HeaderSize
			} else {
				extra = 1
				if u.provider.IsWindowsTextFile() {
					extra = 2
				}
			}
		}

		if furthestAfter > extra+recl {
			h.SignalError(iostat.RecordWriteOverrun, errUnitf(u.unitNumber,
				"attempt to write %d bytes at position %d in a fixed-size record of %d bytes",
				bytes, u.positionInRecord, recl))
			return false
		}
	}

	if u.recordLength.Known() {
		// Переменная длина записи может быть уже известна после
		// BACKSPACE или безадвансного чтения — эта запись становится
		// выходной, длина будет вычислена заново при AdvanceRecord.
		u.recordLength.Clear()
		u.beganReadingRecord = false
	}

	if u.access == AccessDirect {
		// Запись по REC= на месте отметки конца файла или за ней
		// расширяет файл: отметка сдвигается за записываемую запись.
		if u.endfileRecordNumber.Known() && u.currentRecordNumber >= u.endfileRecordNumber.Value() {
			u.endfileRecordNumber.Set(u.currentRecordNumber + 1)
		}
	} else if u.endfileRecordNumber.Known() && u.currentRecordNumber > u.endfileRecordNumber.Value() {
		h.SignalError(iostat.WriteAfterEndfile, errUnitf(u.unitNumber, "write past the endfile record"))
		return false
	}

	u.checkDirectAccessLocked(h)

	start := u.frameOffsetInFile + u.recordOffsetInFrame
	buf, err := u.writeAt(start, int(furthestAfter))
	if err != nil {
		h.SignalError(iostat.Internal, err)
		return false
	}

	if u.positionInRecord > u.furthestPositionInRecord {
		gap := buf[u.furthestPositionInRecord:u.positionInRecord]
		for i := range gap {
			gap[i] = ' '
		}
	}

	to := buf[u.positionInRecord : u.positionInRecord+bytes]
	copy(to, data)
	if u.swapEndianness {
		recfmt.SwapElement(to, elementBytes, ConvertSwap)
	}

	u.positionInRecord += bytes
	u.furthestPositionInRecord = furthestAfter

	return true
}

// Receive реализует §4.5: чтение bytes байт из текущей записи.
func (u *ExternalFileUnit) Receive(data []byte, elementBytes int, h iostat.Handler) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.direction != DirectionInput {
		panic(errUnitf(u.unitNumber, "Receive called on a unit not set for input"))
	}

	bytes := int64(len(data))
	furthestAfter := u.furthestPositionInRecord
	if want := u.positionInRecord + bytes; want > furthestAfter {
		furthestAfter = want
	}

	if length, ok := u.recordLength.Get(); ok && furthestAfter > length {
		h.SignalError(iostat.RecordReadOverrun, errUnitf(u.unitNumber,
			"attempt to read %d bytes at position %d in a record of %d bytes",
			bytes, u.positionInRecord, length))
		return false
	}

	start := u.frameOffsetInFile + u.recordOffsetInFrame
	got, err := u.readAt(start, int(furthestAfter))
	if err != nil {
		h.SignalError(iostat.Internal, err)
		return false
	}

	if int64(len(got)) < furthestAfter {
		u.hitEndOnReadLocked(h)
		return false
	}

	from := got[u.positionInRecord : u.positionInRecord+bytes]
	copy(data, from)
	if u.swapEndianness {
		recfmt.SwapElement(data, elementBytes, ConvertSwap)
	}

	u.positionInRecord += bytes
	u.furthestPositionInRecord = furthestAfter

	return true
}

// GetNextInputBytes реализует §4.5: отдаёт срез внутрь кадра с
// продолжающимися входными байтами до конца записи, пустой если запись
// закончилась.
func (u *ExternalFileUnit) GetNextInputBytes(h iostat.Handler) []byte {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.direction != DirectionInput {
		panic(errUnitf(u.unitNumber, "GetNextInputBytes called on a unit not set for input"))
	}

	length := int64(1)
	if recl, ok := u.recordLength.Get(); ok {
		if u.positionInRecord >= recl {
			return nil
		}
		length = recl - u.positionInRecord
	}

	start := u.frameOffsetInFile + u.recordOffsetInFrame + u.positionInRecord
	got, err := u.readAt(start, int(length))
	if err != nil {
		h.SignalError(iostat.Internal, err)
		return nil
	}

	if int64(len(got)) < length {
		u.hitEndOnReadLocked(h)
		return nil
	}

	return got
}

// checkDirectAccessLocked сигнализирует если REC= не был установлен перед
// передачей данных с прямым доступом. Как и в источнике, ошибка не
// прерывает Emit — вызывающий statement driver должен был проверить это
// раньше.
func (u *ExternalFileUnit) checkDirectAccessLocked(h iostat.Handler) {
	if u.access != AccessDirect {
		return
	}

	if !u.directAccessRecWasSet {
		h.SignalError(iostat.Internal, errUnitf(u.unitNumber, "no REC= was specified for a direct access data transfer"))
	}
}

// hitEndOnReadLocked реализует HitEndOnRead: сигнализирует End и, для
// файлов записей с непрямым доступом, запоминает currentRecordNumber как
// номер маркера конца файла.
func (u *ExternalFileUnit) hitEndOnReadLocked(h iostat.Handler) {
	h.SignalEnd()

	if u.isRecordFile() && u.access != AccessDirect {
		u.endfileRecordNumber.Set(u.currentRecordNumber)
	}
}
