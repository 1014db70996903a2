package unit

import "github.com/ioruntime/recunit/internal/iostat"

// conflict сообщает, занят ли уже путь другим открытым юнитом — реестр
// подставляет сюда поиск по своему индексу путей; юнит сам об остальных
// юнитах ничего не знает.
type conflict func(path string) (otherUnit int, exists bool)

// Open реализует §4.2 OpenUnit.
//
// Отдаёт true если операция потребовала неявного закрытия предыдущего
// соединения этого же юнита (OPEN на уже открытый юнит с другим путём).
func (u *ExternalFileUnit) Open(status Status, action Action, position Position, newPath string, convert Convert, checkConflict conflict, h iostat.Handler) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	resolved := convert
	if resolved == ConvertUnknown {
		resolved = ConvertNative
	}
	u.swapEndianness = resolved.ShouldSwap()

	impliedClose := false

	if u.hasPath {
		samePath := newPath != "" && newPath == u.path

		switch {
		case status != StatusUnknown && status != StatusOld && samePath:
			h.SignalError(iostat.OpenAlreadyConnected, errUnitf(u.unitNumber,
				"OPEN statement for connected unit may not have explicit STATUS= other than 'OLD'"))
			return impliedClose
		case newPath == "" || samePath:
			// OPEN существующего юнита без нового FILE=, STATUS='OLD' или
			// не указан — остаётся как есть.
			return impliedClose
		default:
			// OPEN на уже открытом юните с новым FILE= подразумевает CLOSE.
			u.doImpliedClose(h)
			impliedClose = true
		}
	}

	if newPath != "" && checkConflict != nil {
		if other, exists := checkConflict(newPath); exists {
			h.SignalError(iostat.OpenAlreadyConnected, errUnitf(u.unitNumber,
				"file is already connected to another unit").Int("other_unit", other))
			return impliedClose
		}
	}

	if newPath != "" {
		u.path = newPath
		u.hasPath = true
	}

	u.action = action
	u.convert = resolved

	if err := u.provider.Open(status, action, position); err != nil {
		h.SignalError(iostat.Internal, err)
	}

	totalBytes, haveSize := u.provider.KnownSize()

	if u.access == AccessDirect {
		switch {
		case !u.openRecl.Known():
			h.SignalError(iostat.OpenBadRecl, errUnitf(u.unitNumber, "record length is not known for direct access"))
		case u.openRecl.Value() <= 0:
			h.SignalError(iostat.OpenBadRecl, errUnitf(u.unitNumber, "record length is invalid").Int64("recl", u.openRecl.Value()))
		case haveSize && totalBytes%u.openRecl.Value() != 0:
			h.SignalError(iostat.OpenBadRecl, errUnitf(u.unitNumber, "record length is not an even divisor of the file size").
				Int64("recl", u.openRecl.Value()).Int64("size", totalBytes))
		}

		u.recordLength = u.openRecl
	}

	u.endfileRecordNumber.Clear()
	u.currentRecordNumber = 1

	if recl, ok := u.openRecl.Get(); haveSize && u.access == AccessDirect && ok && recl > 0 {
		u.endfileRecordNumber.Set(1 + totalBytes/recl)
	}

	if position == PositionAppend {
		if haveSize {
			u.frameOffsetInFile = totalBytes
		}

		if u.access != AccessStream {
			if !u.endfileRecordNumber.Known() {
				// Условное значение, чтобы можно было позиционироваться
				// относительно конца через BACKSPACE.
				u.endfileRecordNumber.Set(sentinelEndfile)
			}
			u.currentRecordNumber = u.endfileRecordNumber.Value()
		}
	}

	return impliedClose
}

// OpenAnonymous реализует OpenAnonymousUnit: синтезирует путь fort.<N> в
// dir и открывает юнит с направленными по умолчанию параметрами.
func (u *ExternalFileUnit) OpenAnonymous(dir string, action Action, isUnformatted bool, h iostat.Handler) {
	path := anonymousPath(dir, u.unitNumber)

	u.mu.Lock()
	u.isUnformatted = FromBool(isUnformatted)
	u.mu.Unlock()

	u.Open(StatusUnknown, action, PositionRewind, path, ConvertUnknown, nil, h)
}

// Close реализует §4.2 CloseUnit = DoImpliedEndfile → FlushOutput → Close(status).
func (u *ExternalFileUnit) Close(status CloseStatus, h iostat.Handler) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.doImpliedEndfileLocked(h)
	u.flushOutputLocked(h)

	if err := u.provider.Close(status); err != nil {
		h.SignalError(iostat.Internal, err)
	}
}

// doImpliedClose реализует "Implied close" = DoImpliedEndfile →
// FlushOutput → TruncateFrame(0) → Close(Keep). Вызывается с уже взятым mu.
func (u *ExternalFileUnit) doImpliedClose(h iostat.Handler) {
	u.doImpliedEndfileLocked(h)
	u.flushOutputLocked(h)

	if err := u.provider.TruncateFrame(0); err != nil {
		h.SignalError(iostat.Internal, err)
	}

	if err := u.provider.Close(CloseKeep); err != nil {
		h.SignalError(iostat.Internal, err)
	}
}

// FlushOutput сбрасывает буферизованный вывод юнита на диск. На
// непозиционируемых файлах (трубы, терминалы) предварительно фиксирует
// незавершённую запись сдвигом frameOffsetInFile_, чтобы Flush не
// попытался сделать невозможный seek.
func (u *ExternalFileUnit) FlushOutput(h iostat.Handler) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.flushOutputLocked(h)
}

// flushOutputLocked вариант FlushOutput для вызова изнутри методов уже
// держащих mu (Close, doImpliedClose, doEndfileLocked).
func (u *ExternalFileUnit) flushOutputLocked(h iostat.Handler) {
	if !u.provider.MayPosition() {
		frameAt := u.provider.FrameAt()
		frameLen := int64(u.provider.FrameLength())

		if u.frameOffsetInFile >= frameAt && u.frameOffsetInFile < frameAt+frameLen {
			u.commitWritesLocked()
			u.leftTabLimit.Clear()
		}
	}

	if err := u.provider.Flush(); err != nil {
		h.SignalError(iostat.Internal, err)
	}
}
