package unit

import (
	"github.com/ioruntime/recunit/internal/iostat"
	"github.com/ioruntime/recunit/internal/recfmt"
)

// AdvanceRecord реализует §4.4.3. hitEnd сообщает, для входного
// направления, что предыдущее чтение уже достигло конца файла/записи
// (см. FinishReadingRecord); игнорируется для вывода.
func (u *ExternalFileUnit) AdvanceRecord(hitEnd bool, h iostat.Handler) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.direction == DirectionInput {
		u.finishReadingRecordLocked(hitEnd, h)
		return u.beginReadingRecordLocked(h)
	}

	return u.advanceOutputLocked(h)
}

func (u *ExternalFileUnit) advanceOutputLocked(h iostat.Handler) bool {
	ok := true

	u.positionInRecord = u.furthestPositionInRecord

	switch {
	case u.access == AccessDirect:
		u.padDirectOutputLocked(h)

	case u.isUnformatted.Bool(false):
		if u.access == AccessSequential {
			ok = u.finishUnformattedSequentialOutputLocked(h)
		}
		// неформатированный поток: ничего не делаем, запись не структурирована.

	case h.HasIoStat() && u.furthestPositionInRecord == 0:
		// Ошибка уже была при пустой форматированной записи — не
		// дописываем завершитель, как делает большинство компиляторов.
		return true

	default:
		ok = u.emitFormattedTerminatorLocked(h)
	}

	u.leftTabLimit.Clear()

	if u.endfileRecordNumber.Known() && u.currentRecordNumber > u.endfileRecordNumber.Value() {
		return false
	}

	u.commitWritesLocked()

	u.currentRecordNumber++

	if u.access != AccessDirect {
		u.impliedEndfile = u.isRecordFile()

		if u.endfileRecordNumber.Known() && u.currentRecordNumber >= u.endfileRecordNumber.Value() {
			u.endfileRecordNumber.Clear()
		}
	}

	return ok
}

func (u *ExternalFileUnit) padDirectOutputLocked(h iostat.Handler) {
	recl, _ := u.openRecl.Get()
	if u.furthestPositionInRecord >= recl {
		return
	}

	pad := byte(0)
	if !u.isUnformatted.Bool(false) {
		pad = ' '
	}

	start := u.frameOffsetInFile + u.recordOffsetInFrame
	n := recl - u.furthestPositionInRecord

	buf, err := u.writeAt(start+u.furthestPositionInRecord, int(n))
	if err != nil {
		h.SignalError(iostat.Internal, err)
		return
	}

	for i := range buf {
		buf[i] = pad
	}

	u.furthestPositionInRecord = recl
}

// finishUnformattedSequentialOutputLocked дописывает длину записи как
// футер в конце и переписывает зарезервированные первые 4 байта записи
// тем же значением как заголовком — эти байты были пропущены при начале
// записи вывода.
func (u *ExternalFileUnit) finishUnformattedSequentialOutputLocked(h iostat.Handler) bool {
	length := u.furthestPositionInRecord - recfmt.HeaderSize
	if length < 0 {
		length = 0
	}

	var hdr [recfmt.HeaderSize]byte
	recfmt.PutHeader(hdr[:], uint32(length), u.convert)

	start := u.frameOffsetInFile + u.recordOffsetInFrame

	footerOff := start + recfmt.HeaderSize + length
	foot, err := u.writeAt(footerOff, recfmt.HeaderSize)
	if err != nil {
		h.SignalError(iostat.Internal, err)
		return false
	}
	copy(foot, hdr[:])

	head, err := u.writeAt(start, recfmt.HeaderSize)
	if err != nil {
		h.SignalError(iostat.Internal, err)
		return false
	}
	copy(head, hdr[:])

	// recordLength остаётся неизвестной: commitWritesLocked должен
	// продвинуть кадр на полный размер записи (заголовок+данные+футер),
	// а не только на length — это даёт её furthestPositionInRecord ниже.
	u.furthestPositionInRecord = length + 2*recfmt.HeaderSize

	return true
}

func (u *ExternalFileUnit) emitFormattedTerminatorLocked(h iostat.Handler) bool {
	term := "\n"
	if u.provider.IsWindowsTextFile() {
		term = "\r\n"
	}

	start := u.frameOffsetInFile + u.recordOffsetInFrame
	buf, err := u.writeAt(start+u.furthestPositionInRecord, len(term))
	if err != nil {
		h.SignalError(iostat.Internal, err)
		return false
	}
	copy(buf, term)

	u.furthestPositionInRecord += int64(len(term))

	return true
}

// commitWritesLocked продвигает frameOffsetInFile_ на длину записи,
// сбрасывает recordOffsetInFrame_ и начинает новую запись. Длина берётся
// из recordLength_ если она уже известна (прямой доступ, где длина
// фиксирована openRecl), иначе это furthestPositionInRecord_ — так для
// последовательной неформатированной записи вывода в неё попадает полный
// размер заголовок+данные+футер, а не только полезная нагрузка.
func (u *ExternalFileUnit) commitWritesLocked() {
	length := u.furthestPositionInRecord
	if known, ok := u.recordLength.Get(); ok {
		length = known
	}

	u.frameOffsetInFile += u.recordOffsetInFrame + length
	u.recordOffsetInFrame = 0

	u.BeginRecord()
}

// advanceRecordLocked вариант AdvanceRecord для вызова изнутри методов
// уже держащих mu (используется DoImpliedEndfile).
func (u *ExternalFileUnit) advanceRecordLocked(h iostat.Handler) bool {
	return u.advanceOutputLocked(h)
}
