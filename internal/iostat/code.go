package iostat

// Code код статуса операции ввода-вывода. Значения переносятся между
// слоями без разбора текста сообщения, поэтому он экспортируется как
// самостоятельный тип, а не прячется внутри error.
type Code int32

const (
	// Ok операция выполнена, данных для сигнализации нет.
	Ok Code = 0

	// End достигнут конец файла или конец записи. Не является ошибкой в
	// обычном смысле: currentRecordNumber всё равно увеличивается, чтобы
	// последующий BACKSPACE встал перед маркером конца файла.
	End Code = 1

	// ReadFromWriteOnly попытка чтения с юнита открытого только на запись.
	ReadFromWriteOnly Code = 100
	// WriteToReadOnly попытка записи в юнит открытый только на чтение.
	WriteToReadOnly Code = 101
	// OpenBadRecl RECL= не задан, не положителен, либо размер файла не кратен ему.
	OpenBadRecl Code = 102
	// OpenAlreadyConnected путь уже связан с другим открытым юнитом.
	OpenAlreadyConnected Code = 103
	// RecordWriteOverrun запись выходит за границы текущей записи.
	RecordWriteOverrun Code = 104
	// RecordReadOverrun чтение выходит за границы текущей записи.
	RecordReadOverrun Code = 105
	// WriteAfterEndfile запись после отметки конца файла.
	WriteAfterEndfile Code = 106
	// BackspaceNonSequential BACKSPACE запрошен на юните с прямым доступом
	// либо на потоковом юните.
	BackspaceNonSequential Code = 107
	// BackspaceAtFirstRecord BACKSPACE запрошен перед самой первой записью.
	BackspaceAtFirstRecord Code = 108
	// BadUnformattedRecord заголовок и футер неформатированной записи не совпали.
	BadUnformattedRecord Code = 109
	// ShortRead источник закончился раньше, чем предполагала структура записи.
	ShortRead Code = 110
	// MissingTerminator форматированная запись не завершена символом новой строки.
	MissingTerminator Code = 111
	// EndfileDirect ENDFILE запрошен на юните с прямым доступом.
	EndfileDirect Code = 112
	// EndfileUnwritable ENDFILE запрошен на юните не допускающем запись.
	EndfileUnwritable Code = 113
	// RewindNonSequential REWIND запрошен на юните с прямым доступом.
	RewindNonSequential Code = 114
	// BadAsynchronous операция использует неизвестный или уже свободный
	// идентификатор асинхронной операции.
	BadAsynchronous Code = 115
	// TooManyAsyncOps свободных идентификаторов асинхронных операций не осталось.
	TooManyAsyncOps Code = 116
	// UnformattedChildOnFormattedParent дочерний ввод-вывод неформатирован,
	// родительский — форматирован.
	UnformattedChildOnFormattedParent Code = 117
	// FormattedChildOnUnformattedParent дочерний ввод-вывод форматирован,
	// родительский — неформатирован.
	FormattedChildOnUnformattedParent Code = 118
	// ChildOutputToInputParent дочерний ввод-вывод пишет, родительский читает.
	ChildOutputToInputParent Code = 119
	// ChildInputFromOutputParent дочерний ввод-вывод читает, родительский пишет.
	ChildInputFromOutputParent Code = 120

	// Internal внутренняя ошибка, не относящаяся напрямую к структуре записи.
	Internal Code = 900
)

// String человекочитаемое имя кода в верхнем регистре через подчёркивание
// (например "END" для End); с именем константы Go оно не совпадает.
func (c Code) String() string {
	switch c {
	case Ok:
		return "OK"
	case End:
		return "END"
	case ReadFromWriteOnly:
		return "READ_FROM_WRITE_ONLY"
	case WriteToReadOnly:
		return "WRITE_TO_READ_ONLY"
	case OpenBadRecl:
		return "OPEN_BAD_RECL"
	case OpenAlreadyConnected:
		return "OPEN_ALREADY_CONNECTED"
	case RecordWriteOverrun:
		return "RECORD_WRITE_OVERRUN"
	case RecordReadOverrun:
		return "RECORD_READ_OVERRUN"
	case WriteAfterEndfile:
		return "WRITE_AFTER_ENDFILE"
	case BackspaceNonSequential:
		return "BACKSPACE_NON_SEQUENTIAL"
	case BackspaceAtFirstRecord:
		return "BACKSPACE_AT_FIRST_RECORD"
	case BadUnformattedRecord:
		return "BAD_UNFORMATTED_RECORD"
	case ShortRead:
		return "SHORT_READ"
	case MissingTerminator:
		return "MISSING_TERMINATOR"
	case EndfileDirect:
		return "ENDFILE_DIRECT"
	case EndfileUnwritable:
		return "ENDFILE_UNWRITABLE"
	case RewindNonSequential:
		return "REWIND_NON_SEQUENTIAL"
	case BadAsynchronous:
		return "BAD_ASYNCHRONOUS"
	case TooManyAsyncOps:
		return "TOO_MANY_ASYNC_OPS"
	case UnformattedChildOnFormattedParent:
		return "UNFORMATTED_CHILD_ON_FORMATTED_PARENT"
	case FormattedChildOnUnformattedParent:
		return "FORMATTED_CHILD_ON_UNFORMATTED_PARENT"
	case ChildOutputToInputParent:
		return "CHILD_OUTPUT_TO_INPUT_PARENT"
	case ChildInputFromOutputParent:
		return "CHILD_INPUT_FROM_OUTPUT_PARENT"
	case Internal:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}
