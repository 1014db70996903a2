package unit

import (
	"sync"

	"github.com/ioruntime/recunit/internal/dllist"
	"github.com/ioruntime/recunit/internal/frame"
	"github.com/ioruntime/recunit/internal/iostat"
)

const asyncIDCount = 64

// ExternalFileUnit владеет буферизованным окном файла и несёт всё
// состояние позиционирования и структуры записи для одного юнита.
type ExternalFileUnit struct {
	// mu защищает поля ниже от параллельных вызовов на одном юните;
	// вызывающий (драйвер statement-а) обычно и так владеет этим замком
	// на время всего statement-а, но методы берут его и сами, чтобы
	// пакет оставался безопасен при использовании без внешней блокировки.
	mu sync.Mutex

	unitNumber int
	provider   frame.Provider

	path       string
	hasPath    bool
	access     Access
	action     Action
	direction  Direction
	isUnformatted Tristate
	convert    Convert
	swapEndianness bool

	openRecl OptInt64

	recordLength        OptInt64
	endfileRecordNumber OptInt64
	currentRecordNumber int64

	frameOffsetInFile   int64
	recordOffsetInFrame int64

	positionInRecord         int64
	furthestPositionInRecord int64

	leftTabLimit OptInt64

	impliedEndfile        bool
	beganReadingRecord    bool
	directAccessRecWasSet bool
	pinnedFrame           bool
	unterminatedRecord    bool
	createdForInternalIo  bool

	asyncIDAvailable [asyncIDCount]bool

	children *dllist.DLList[*ChildIO]

	// flushPeers, когда задан, сбрасывает вывод остальных предопределённых
	// юнитов перед чтением с этого юнита — используется только на юните
	// стандартного ввода, чтобы подсказки вывода появлялись раньше запроса
	// на ввод. Устанавливается реестром, который один знает про остальные
	// предопределённые юниты.
	flushPeers func(iostat.Handler)
}

// New создаёт юнит с данным номером поверх provider-а. Объект не
// считается открытым до вызова Open — соответствует тому что реестр
// лишь создаёт объект, а фактическое открытие делается отдельно.
func New(unitNumber int, provider frame.Provider) *ExternalFileUnit {
	u := &ExternalFileUnit{
		unitNumber: unitNumber,
		provider:   provider,
		children:   dllist.New[*ChildIO](),
	}

	for i := range u.asyncIDAvailable {
		u.asyncIDAvailable[i] = true
	}
	// ID 0 зарезервирован и означает "все ID".
	u.asyncIDAvailable[0] = false

	return u
}

// UnitNumber отдаёт неизменяемый номер юнита.
func (u *ExternalFileUnit) UnitNumber() int { return u.unitNumber }

// Path отдаёт путь к файлу, если юнит был открыт по имени.
func (u *ExternalFileUnit) Path() (string, bool) { return u.path, u.hasPath }

// Access отдаёт способ доступа юнита.
func (u *ExternalFileUnit) Access() Access { return u.access }

// Provider отдаёт поставщика кадра, используемого этим юнитом —
// нужен реестру и диагностике для снимков состояния.
func (u *ExternalFileUnit) Provider() frame.Provider { return u.provider }

// CurrentRecordNumber отдаёт номер записи на которую сейчас позиционирован юнит.
func (u *ExternalFileUnit) CurrentRecordNumber() int64 {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.currentRecordNumber
}

// FrameOffsetInFile отдаёт текущее абсолютное смещение начала кадра в файле.
func (u *ExternalFileUnit) FrameOffsetInFile() int64 {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.frameOffsetInFile
}

// mayRead true если action юнита допускает чтение.
func (u *ExternalFileUnit) mayRead() bool { return mayReadAction(u.action) }

// mayWrite true если action юнита допускает запись.
func (u *ExternalFileUnit) mayWrite() bool { return mayWriteAction(u.action) }

// isRecordFile true для Sequential и Direct — в противовес Stream,
// у которого нет структуры записей.
func (u *ExternalFileUnit) isRecordFile() bool { return u.access != AccessStream }

// localOffset переводит абсолютное смещение файла в индекс внутри
// provider.Frame(), уже после того как окно гарантированно накрывает
// нужный диапазон.
func (u *ExternalFileUnit) localOffset(abs int64) int {
	return int(abs - u.provider.FrameAt())
}

// readAt гарантирует что окно покрывает [offset, offset+need) и отдаёт
// локальный слайс на фактически доступные байты начиная с offset — их
// может быть меньше need при достижении конца файла.
func (u *ExternalFileUnit) readAt(offset int64, need int) ([]byte, error) {
	avail, err := u.provider.ReadFrame(offset, need)
	if err != nil {
		return nil, err
	}

	start := u.localOffset(offset)

	return u.provider.Frame()[start : start+avail], nil
}

// writeAt гарантирует что окно покрывает как минимум [offset, offset+need)
// для записи и отдаёт локальный слайс этой длины.
func (u *ExternalFileUnit) writeAt(offset int64, need int) ([]byte, error) {
	if err := u.provider.WriteFrame(offset, need); err != nil {
		return nil, err
	}

	start := u.localOffset(offset)

	return u.provider.Frame()[start : start+need], nil
}

// SetAccess задаёт способ доступа юнита. В настоящем операторе OPEN это
// делает спецификатор ACCESS=; здесь вызывающий (реестр, от лица
// драйвера statement-а) обязан вызвать это до Open, иначе юнит остаётся
// AccessSequential по умолчанию.
func (u *ExternalFileUnit) SetAccess(a Access) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.access = a
}

// SetRecl задаёт длину записи для прямого доступа — соответствует
// спецификатору RECL= оператора OPEN. Требуется до Open для
// AccessDirect, иначе Open сигнализирует OpenBadRecl.
func (u *ExternalFileUnit) SetRecl(recl int64) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.openRecl.Set(recl)
}

// SetUnformatted задаёт форматированность юнита — соответствует
// спецификатору FORM= оператора OPEN. Пока значение не задано (Unset),
// все операции записи и чтения трактуют юнит как форматированный
// независимо от способа доступа; сами передачи данных его не задают.
func (u *ExternalFileUnit) SetUnformatted(v bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.isUnformatted = FromBool(v)
}

// SetFlushPeers устанавливает функцию сброса остальных предопределённых
// юнитов, вызываемую перед чтением с этого юнита. Используется реестром
// только при создании юнита стандартного ввода (5).
func (u *ExternalFileUnit) SetFlushPeers(f func(iostat.Handler)) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.flushPeers = f
}

// SetDirection реализует §4.3: проверка совместимости направления с
// action-ом юнита.
func (u *ExternalFileUnit) SetDirection(dir Direction, h iostat.Handler) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	switch dir {
	case DirectionInput:
		if !u.mayRead() {
			h.SignalError(iostat.ReadFromWriteOnly, errUnitf(u.unitNumber, "unit is write-only"))
			return false
		}
	case DirectionOutput:
		if !u.mayWrite() {
			h.SignalError(iostat.WriteToReadOnly, errUnitf(u.unitNumber, "unit is read-only"))
			return false
		}
	}

	u.direction = dir

	return true
}
