package unit

import (
	"github.com/ioruntime/recunit/internal/iostat"
	"github.com/ioruntime/recunit/internal/recfmt"
)

// BeginReadingRecord реализует §4.4.1. Идемпотентна через beganReadingRecord_.
func (u *ExternalFileUnit) BeginReadingRecord(h iostat.Handler) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.beginReadingRecordLocked(h)
}

func (u *ExternalFileUnit) beginReadingRecordLocked(h iostat.Handler) bool {
	if u.beganReadingRecord {
		return true
	}

	var ok bool
	switch {
	case u.access == AccessDirect:
		ok = u.beginDirectInputRecordLocked(h)
	case u.access == AccessStream:
		ok = true
	case !u.isUnformatted.Bool(false):
		ok = u.beginVariableFormattedInputRecordLocked(h)
	default:
		ok = u.beginSequentialVariableUnformattedInputRecordLocked(h)
	}

	if ok {
		u.beganReadingRecord = true
	}

	return ok
}

// beginDirectInputRecordLocked читает ровно openRecl байт записи с прямым
// доступом.
func (u *ExternalFileUnit) beginDirectInputRecordLocked(h iostat.Handler) bool {
	if !u.directAccessRecWasSet {
		h.SignalError(iostat.Internal, errUnitf(u.unitNumber, "REC= was not set before a direct access read"))
		return false
	}

	recl, _ := u.openRecl.Get()

	offset := u.frameOffsetInFile
	got, err := u.readAt(offset, int(recl))
	if err != nil {
		h.SignalError(iostat.Internal, err)
		return false
	}

	if int64(len(got)) < recl {
		h.SignalEnd()
		return false
	}

	u.recordLength.Set(recl)

	return true
}

// beginSequentialVariableUnformattedInputRecordLocked реализует
// BeginSequentialVariableUnformattedInputRecord.
func (u *ExternalFileUnit) beginSequentialVariableUnformattedInputRecordLocked(h iostat.Handler) bool {
	offset := u.frameOffsetInFile + u.recordOffsetInFrame

	header, err := u.readAt(offset, recfmt.HeaderSize)
	if err != nil {
		h.SignalError(iostat.Internal, err)
		return false
	}
	if len(header) < recfmt.HeaderSize {
		h.SignalEnd()
		return false
	}

	length := recfmt.GetHeader(header, u.convert)
	// recordLength включает зарезервированный заголовок, как и
	// positionInRecord ниже — Receive/GetNextInputBytes сравнивают оба
	// поля в одной и той же базе (от начала записи, а не от начала
	// полезной нагрузки).
	u.recordLength.Set(int64(length) + recfmt.HeaderSize)

	total := int(length) + recfmt.HeaderSize
	body, err := u.readAt(offset, recfmt.HeaderSize+total)
	if err != nil {
		h.SignalError(iostat.Internal, err)
		return false
	}
	if len(body) < recfmt.HeaderSize+total {
		h.SignalError(iostat.ShortRead, errUnitf(u.unitNumber, "truncated unformatted record").
			Int64("record", u.currentRecordNumber).Int64("offset", offset))
		return false
	}

	footer := body[recfmt.HeaderSize+int(length):]
	if recfmt.GetHeader(footer, u.convert) != length {
		h.SignalError(iostat.BadUnformattedRecord, errUnitf(u.unitNumber, "unformatted record header and footer disagree").
			Int64("record", u.currentRecordNumber).Int64("offset", offset))
		return false
	}

	u.positionInRecord = recfmt.HeaderSize
	u.furthestPositionInRecord = recfmt.HeaderSize

	return true
}

// beginVariableFormattedInputRecordLocked реализует
// BeginVariableFormattedInputRecord.
func (u *ExternalFileUnit) beginVariableFormattedInputRecordLocked(h iostat.Handler) bool {
	if u.flushPeers != nil {
		u.flushPeers(h)
	}

	offset := u.frameOffsetInFile + u.recordOffsetInFrame

	const growStep = 256
	need := growStep

	for {
		chunk, err := u.readAt(offset, need)
		if err != nil {
			h.SignalError(iostat.Internal, err)
			return false
		}

		nl := recfmt.FindNewline(chunk, 0)
		if nl >= 0 {
			length := int64(recfmt.StripCR(chunk, nl))
			u.recordLength.Set(length)
			u.unterminatedRecord = false

			return true
		}

		if len(chunk) < need {
			if len(chunk) == 0 {
				h.SignalEnd()
				return false
			}

			u.recordLength.Set(int64(len(chunk)))
			u.unterminatedRecord = true

			return true
		}

		need += growStep
	}
}
