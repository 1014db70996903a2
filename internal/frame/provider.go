// Package frame описывает контракт поставщика буферизованного окна над
// файлом ("frame provider" в терминах записи) и две его реализации:
// поверх реального *os.File и полностью в памяти для тестов ядра записи.
package frame

// Status статус при открытии юнита, соответствует STATUS= оператора OPEN.
type Status int

const (
	// StatusUnknown статус не задан явно, нужно поведение по умолчанию.
	StatusUnknown Status = iota
	// StatusOld файл должен существовать.
	StatusOld
	// StatusNew файл должен быть создан, существование — ошибка.
	StatusNew
	// StatusReplace файл создаётся, существующий одноимённый удаляется.
	StatusReplace
	// StatusScratch временный файл, удаляется при закрытии.
	StatusScratch
)

// Action разрешённые операции над юнитом.
type Action int

const (
	// ActionReadWrite разрешены и чтение, и запись.
	ActionReadWrite Action = iota
	// ActionRead разрешено только чтение.
	ActionRead
	// ActionWrite разрешена только запись.
	ActionWrite
)

// Position начальная позиция при открытии, соответствует POSITION=.
type Position int

const (
	// PositionAsIs позиция не меняется (для уже существующего файла — в
	// начало, поведение определяется самой ОС).
	PositionAsIs Position = iota
	// PositionRewind позиция в начало файла.
	PositionRewind
	// PositionAppend позиция в конец файла.
	PositionAppend
)

// CloseStatus статус при закрытии, соответствует STATUS= оператора CLOSE.
type CloseStatus int

const (
	// CloseKeep файл остаётся на диске.
	CloseKeep CloseStatus = iota
	// CloseDelete файл удаляется при закрытии.
	CloseDelete
)

// Provider контракт буферизованного окна над файлом, потребляемый
// движком записей. Методы возвращают явную ошибку вместо приёма
// отдельного error handler-а — это единственное отклонение от буквальной
// C++ сигнатуры в пользу идиоматичного Go.
type Provider interface {
	// Frame отдаёт текущее буферизованное окно целиком.
	Frame() []byte
	// FrameLength длина текущего окна в байтах.
	FrameLength() int
	// FrameAt абсолютное смещение в файле начала текущего окна.
	FrameAt() int64
	// ReadFrame гарантирует что окно покрывает [offset, offset+need) и
	// отдаёт число байт реально доступных начиная с offset — оно может
	// быть меньше need если источник закончился раньше.
	ReadFrame(offset int64, need int) (int, error)
	// WriteFrame гарантирует что окно покрывает как минимум
	// [offset, offset+need) и готово принять запись в эту область.
	WriteFrame(offset int64, need int) error
	// Truncate обрезает файл по offset.
	Truncate(offset int64) error
	// TruncateFrame обрезает буферизованное окно по offset, не трогая файл.
	TruncateFrame(offset int64) error
	// Flush сбрасывает буферизованные данные на диск.
	Flush() error
	// Open открывает источник согласно переданным параметрам.
	Open(status Status, action Action, position Position) error
	// Close закрывает источник.
	Close(status CloseStatus) error
	// IsTerminal true если источник — интерактивный терминал.
	IsTerminal() bool
	// MayPosition true если источник поддерживает произвольный seek.
	MayPosition() bool
	// MayRead true если источник открыт на чтение.
	MayRead() bool
	// MayWrite true если источник открыт на запись.
	MayWrite() bool
	// MayAsynchronous true если источник поддерживает асинхронный ввод-вывод.
	MayAsynchronous() bool
	// KnownSize отдаёт известный размер источника, если он известен.
	KnownSize() (size int64, known bool)
	// IsWindowsTextFile true если источник был открыт в текстовом режиме
	// на платформе где перевод строки кодируется как "\r\n".
	IsWindowsTextFile() bool
}
