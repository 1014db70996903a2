package unit

import "github.com/ioruntime/recunit/internal/iostat"

// FinishReadingRecord реализует §4.4.2. hitEnd сообщает что текущая
// запись была отмечена концом файла (End) вызовом BeginReadingRecord,
// либо что вызывающий сам решил прекратить чтение на EOF.
func (u *ExternalFileUnit) FinishReadingRecord(hitEnd bool, h iostat.Handler) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.finishReadingRecordLocked(hitEnd, h)
}

func (u *ExternalFileUnit) finishReadingRecordLocked(hitEnd bool, h iostat.Handler) {
	if !u.beganReadingRecord {
		panic(errUnitf(u.unitNumber, "FinishReadingRecord called without a matching BeginReadingRecord"))
	}
	u.beganReadingRecord = false

	switch {
	case !u.isRecordFile():
		if u.access == AccessStream && u.isUnformatted.Bool(false) {
			u.frameOffsetInFile += u.recordOffsetInFrame + u.furthestPositionInRecord
			u.recordOffsetInFrame = 0
		}
		if hitEnd {
			u.currentRecordNumber++
		}

	case hitEnd:
		u.currentRecordNumber++

	case u.access != AccessDirect:
		u.finishSequentialRecordLocked(h)
		u.currentRecordNumber++

	default: // запись с прямым доступом: позицию переключает SetDirectRec.
		u.currentRecordNumber++
	}

	u.BeginRecord()
}

func (u *ExternalFileUnit) finishSequentialRecordLocked(h iostat.Handler) {
	length, _ := u.recordLength.Get()
	start := u.frameOffsetInFile + u.recordOffsetInFrame

	if u.isUnformatted.Bool(false) {
		// length уже включает заголовок (см. recfmt.HeaderSize в
		// beginSequentialVariableUnformattedInputRecordLocked), так что
		// этот сдвиг доводит frameOffsetInFile_ ровно до начала футера.
		// Оставляем сам футер в кадре: recordOffsetInFrame_ указывает
		// на байт сразу после него, то есть на начало следующей записи.
		u.recordOffsetInFrame += length
		u.frameOffsetInFile += u.recordOffsetInFrame
		u.recordOffsetInFrame = headerAndFooterOverlap

		return
	}

	u.recordOffsetInFrame += length

	term := u.formattedTerminatorLenLocked(start+length, h)
	u.recordOffsetInFrame += term

	if u.provider.MayPosition() {
		u.frameOffsetInFile += u.recordOffsetInFrame
		u.recordOffsetInFrame = 0
	}
}

// headerAndFooterOverlap длина футера, оставляемого в кадре после
// прочтения неформатированной записи — совпадает с recfmt.HeaderSize,
// назван отдельно чтобы не путать семантику заголовка и футера в месте
// использования.
const headerAndFooterOverlap = 4

// formattedTerminatorLenLocked определяет длину завершителя
// форматированной записи (1 для "\n", 2 для "\r\n", 0 если запись была
// не завершена по достижении EOF).
func (u *ExternalFileUnit) formattedTerminatorLenLocked(dataEnd int64, h iostat.Handler) int64 {
	if u.unterminatedRecord {
		return 0
	}

	peek, err := u.readAt(dataEnd, 1)
	if err != nil {
		h.SignalError(iostat.Internal, err)
		return 0
	}
	if len(peek) == 0 {
		return 0
	}

	if peek[0] == '\r' {
		return 2
	}

	return 1
}
