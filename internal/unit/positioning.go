package unit

import "github.com/ioruntime/recunit/internal/iostat"

// BeginRecord сбрасывает внутризаписевые курсоры; длина записи остаётся
// заданной только для прямого доступа, где она фиксирована openRecl.
func (u *ExternalFileUnit) BeginRecord() {
	u.positionInRecord = 0
	u.furthestPositionInRecord = 0

	if u.access == AccessDirect {
		if recl, ok := u.openRecl.Get(); ok {
			u.recordLength.Set(recl)
			return
		}
	}

	u.recordLength.Clear()
}

// Rewind реализует §4.3: запрещён на Direct; иначе SetPosition(0) плюс
// сброс currentRecordNumber и leftTabLimit.
func (u *ExternalFileUnit) Rewind(h iostat.Handler) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.access == AccessDirect {
		h.SignalError(iostat.RewindNonSequential, errUnitf(u.unitNumber, "REWIND is not allowed on a direct access unit"))
		return false
	}

	u.setPositionLocked(0, h)
	u.currentRecordNumber = 1
	u.leftTabLimit.Clear()

	return true
}

// SetStreamPos реализует §4.3. Требует Access::Stream и pos≥1.
func (u *ExternalFileUnit) SetStreamPos(oneBasedPos int64, h iostat.Handler) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.access != AccessStream {
		h.SignalError(iostat.Internal, errUnitf(u.unitNumber, "POS= requires stream access"))
		return false
	}
	if oneBasedPos < 1 {
		h.SignalError(iostat.Internal, errUnitf(u.unitNumber, "POS= must be at least 1").Int64("pos", oneBasedPos))
		return false
	}

	u.setPositionLocked(oneBasedPos-1, h)
	u.currentRecordNumber = sentinelStreamRecord
	u.endfileRecordNumber.Clear()

	return true
}

// SetDirectRec реализует §4.3. Требует Access::Direct, openRecl заданный
// и rec≥1.
func (u *ExternalFileUnit) SetDirectRec(rec int64, h iostat.Handler) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.access != AccessDirect {
		h.SignalError(iostat.Internal, errUnitf(u.unitNumber, "REC= requires direct access"))
		return false
	}

	recl, ok := u.openRecl.Get()
	if !ok {
		h.SignalError(iostat.OpenBadRecl, errUnitf(u.unitNumber, "RECL not set for direct access"))
		return false
	}
	if rec < 1 {
		h.SignalError(iostat.Internal, errUnitf(u.unitNumber, "REC= must be at least 1").Int64("rec", rec))
		return false
	}

	u.currentRecordNumber = rec
	u.directAccessRecWasSet = true
	u.setPositionLocked((rec-1)*recl, h)

	return true
}

// SetPosition реализует §4.3: завершает любой отложенный implied endfile,
// затем переводит кадр на pos и начинает новую запись.
func (u *ExternalFileUnit) SetPosition(pos int64, h iostat.Handler) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.setPositionLocked(pos, h)
}

func (u *ExternalFileUnit) setPositionLocked(pos int64, h iostat.Handler) {
	u.doImpliedEndfileLocked(h)

	u.frameOffsetInFile = pos
	u.recordOffsetInFrame = 0
	u.BeginRecord()
}

// Endfile реализует §4.4.5: запрещён на Direct и на юнитах недоступных
// для записи; повтор после ENDFILE — no-op.
func (u *ExternalFileUnit) Endfile(h iostat.Handler) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.access == AccessDirect {
		h.SignalError(iostat.EndfileDirect, errUnitf(u.unitNumber, "ENDFILE is not allowed on a direct access unit"))
		return false
	}
	if !u.mayWrite() {
		h.SignalError(iostat.EndfileUnwritable, errUnitf(u.unitNumber, "ENDFILE requires a writable unit"))
		return false
	}

	if u.endfileRecordNumber.Known() && u.currentRecordNumber > u.endfileRecordNumber.Value() {
		return true
	}

	u.doEndfileLocked(h)

	if u.isRecordFile() {
		u.currentRecordNumber = u.endfileRecordNumber.Value() + 1
	}

	return true
}

// doEndfileLocked реализует DoEndfile: на файле записей с непрямым
// доступом запоминает текущую позицию как endfileRecordNumber (закрывая
// начатую безадвансную запись, если она была), затем обрезает файл и
// кадр по накопленному смещению и начинает новую запись.
func (u *ExternalFileUnit) doEndfileLocked(h iostat.Handler) {
	if u.isRecordFile() && u.access != AccessDirect {
		if u.positionInRecord > u.furthestPositionInRecord {
			u.furthestPositionInRecord = u.positionInRecord
		}

		if u.leftTabLimit.Known() {
			// Последняя операция была безадвансной, AdvanceRecord не вызывался.
			u.leftTabLimit.Clear()
			u.currentRecordNumber++
		}

		u.endfileRecordNumber.Set(u.currentRecordNumber)
	}

	u.frameOffsetInFile += u.recordOffsetInFrame + u.furthestPositionInRecord
	u.recordOffsetInFrame = 0

	u.flushOutputLocked(h)

	if err := u.provider.Truncate(u.frameOffsetInFile); err != nil {
		h.SignalError(iostat.Internal, err)
	}
	if err := u.provider.TruncateFrame(u.frameOffsetInFile); err != nil {
		h.SignalError(iostat.Internal, err)
	}

	u.BeginRecord()
	u.impliedEndfile = false
}

// doImpliedEndfileLocked реализует DoImpliedEndfile: завершает начатую
// безадвансную запись перед позиционированием или закрытием юнита, затем,
// если остался отложенный implied endfile и позиционирование допустимо
// на файле записей, выполняет DoEndfile.
func (u *ExternalFileUnit) doImpliedEndfileLocked(h iostat.Handler) {
	if !u.impliedEndfile && u.direction == DirectionOutput && u.isRecordFile() &&
		u.access != AccessDirect && u.leftTabLimit.Known() {
		u.advanceRecordLocked(h)
	}

	if u.impliedEndfile {
		u.impliedEndfile = false

		if u.access != AccessDirect && u.isRecordFile() && u.provider.MayPosition() {
			u.doEndfileLocked(h)
		}
	}
}
