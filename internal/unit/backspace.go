package unit

import (
	"github.com/ioruntime/recunit/internal/iostat"
	"github.com/ioruntime/recunit/internal/recfmt"
)

// BackspaceRecord реализует §4.4.4. Запрещён на файлах с прямым доступом
// и на любых потоковых юнитах (ACCESS='STREAM'), форматированных в том
// числе: isRecordFile не считает поток файлом записей.
func (u *ExternalFileUnit) BackspaceRecord(h iostat.Handler) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.access == AccessDirect || !u.isRecordFile() {
		h.SignalError(iostat.BackspaceNonSequential, errUnitf(u.unitNumber,
			"BACKSPACE on direct-access file or stream"))
		return false
	}

	switch {
	case u.endfileRecordNumber.Known() && u.currentRecordNumber > u.endfileRecordNumber.Value():
		// BACKSPACE после явного ENDFILE.
		u.currentRecordNumber = u.endfileRecordNumber.Value()

	case u.leftTabLimit.Known():
		// BACKSPACE после безадвансного ввода-вывода.
		u.leftTabLimit.Clear()

	default:
		u.doImpliedEndfileLocked(h)

		if u.frameOffsetInFile+u.recordOffsetInFrame > 0 {
			u.currentRecordNumber--

			switch {
			case u.openRecl.Known() && u.access == AccessDirect:
				u.backspaceFixedRecordLocked(h)
			case u.isUnformatted.Bool(false):
				u.backspaceVariableUnformattedRecordLocked(h)
			default:
				u.backspaceVariableFormattedRecordLocked(h)
			}
		}
	}

	u.BeginRecord()

	return true
}

func (u *ExternalFileUnit) backspaceFixedRecordLocked(h iostat.Handler) {
	recl, _ := u.openRecl.Get()

	if u.frameOffsetInFile < recl {
		h.SignalError(iostat.BackspaceAtFirstRecord, errUnitf(u.unitNumber, "BACKSPACE at the first record"))
		return
	}

	u.frameOffsetInFile -= recl
}

// backspaceVariableUnformattedRecordLocked реализует
// BackspaceVariableUnformattedRecord: перечитывает футер предыдущей
// записи, чтобы определить где она начинается, и сверяет с её
// заголовком. Ошибки здесь означают повреждённый файл — целостность
// структуры перед текущей записью уже была проверена при чтении вперёд.
func (u *ExternalFileUnit) backspaceVariableUnformattedRecordLocked(h iostat.Handler) {
	const headerBytes = int64(headerAndFooterOverlap)

	u.frameOffsetInFile += u.recordOffsetInFrame
	u.recordOffsetInFrame = 0

	if u.frameOffsetInFile <= headerBytes {
		h.SignalError(iostat.BackspaceAtFirstRecord, errUnitf(u.unitNumber, "BACKSPACE at the first record"))
		return
	}

	footer, err := u.readAt(u.frameOffsetInFile-headerBytes, int(headerBytes))
	if err != nil {
		h.SignalError(iostat.Internal, err)
		return
	}
	if int64(len(footer)) < headerBytes {
		h.SignalError(iostat.ShortRead, errUnitf(u.unitNumber, "truncated unformatted record footer"))
		return
	}

	length := int64(recfmt.GetHeader(footer, u.convert))
	u.recordLength.Set(length)

	if u.frameOffsetInFile < length+2*headerBytes {
		h.SignalError(iostat.BadUnformattedRecord, errUnitf(u.unitNumber, "unformatted record footer precedes start of file"))
		return
	}
	u.frameOffsetInFile -= length + 2*headerBytes

	header, err := u.readAt(u.frameOffsetInFile, int(headerBytes+length))
	if err != nil {
		h.SignalError(iostat.Internal, err)
		return
	}
	if int64(len(header)) < headerBytes+length {
		h.SignalError(iostat.ShortRead, errUnitf(u.unitNumber, "truncated unformatted record"))
		return
	}

	if int64(recfmt.GetHeader(header, u.convert)) != length {
		h.SignalError(iostat.BadUnformattedRecord, errUnitf(u.unitNumber, "unformatted record header and footer disagree"))
		return
	}
}

// backspaceVariableFormattedRecordLocked реализует
// BackspaceVariableFormattedRecord: ищет перевод строки, завершающий
// предыдущую запись, скользя окно назад блоками если он ещё не в кадре.
func (u *ExternalFileUnit) backspaceVariableFormattedRecordLocked(h iostat.Handler) {
	prevNL := u.frameOffsetInFile + u.recordOffsetInFrame - 1
	if prevNL < 0 {
		h.SignalError(iostat.BackspaceAtFirstRecord, errUnitf(u.unitNumber, "BACKSPACE at the first record"))
		return
	}

	var length int64

	for {
		if u.frameOffsetInFile < prevNL {
			frame, err := u.readAt(u.frameOffsetInFile, int(prevNL-u.frameOffsetInFile))
			if err != nil {
				h.SignalError(iostat.Internal, err)
				return
			}

			if p := findLastNewlineBefore(frame, int(prevNL-1-u.frameOffsetInFile)); p >= 0 {
				u.recordOffsetInFrame = int64(p) + 1
				length = prevNL - (u.frameOffsetInFile + u.recordOffsetInFrame)
				break
			}
		}

		if u.frameOffsetInFile == 0 {
			u.recordOffsetInFrame = 0
			length = prevNL
			break
		}

		step := u.frameOffsetInFile
		if step > 1024 {
			step = 1024
		}
		u.frameOffsetInFile -= step

		need := int(prevNL + 1 - u.frameOffsetInFile)
		got, err := u.readAt(u.frameOffsetInFile, need)
		if err != nil {
			h.SignalError(iostat.Internal, err)
			return
		}
		if len(got) < need {
			h.SignalError(iostat.ShortRead, errUnitf(u.unitNumber, "truncated formatted record while backspacing"))
			return
		}
	}

	tail, err := u.readAt(u.frameOffsetInFile+u.recordOffsetInFrame, int(length)+1)
	if err != nil {
		h.SignalError(iostat.Internal, err)
		return
	}
	if int64(len(tail)) <= length || tail[length] != '\n' {
		h.SignalError(iostat.MissingTerminator, errUnitf(u.unitNumber, "formatted record is missing its terminator"))
		return
	}

	if length > 0 && tail[length-1] == '\r' {
		length--
	}

	u.recordLength.Set(length)
}

// findLastNewlineBefore возвращает индекс последнего '\n' в buf[:limit+1],
// или -1 если нет. limit может выходить за len(buf)-1 если задание пришло
// с меньшим объёмом данных чем требовалось; это защищено вызывающим.
func findLastNewlineBefore(buf []byte, limit int) int {
	if limit >= len(buf) {
		limit = len(buf) - 1
	}
	for i := limit; i >= 0; i-- {
		if buf[i] == '\n' {
			return i
		}
	}
	return -1
}
