package frame

import "github.com/ioruntime/recunit/internal/errors"

// NewMem создаёт Provider целиком в памяти: используется тестами ядра
// записи, которым нужна полная управляемость содержимого без реального
// файла на диске. content передаётся как начальное содержимое "файла",
// может быть nil для пустого.
func NewMem(content []byte) *MemProvider {
	data := make([]byte, len(content))
	copy(data, content)

	return &MemProvider{data: data}
}

// MemProvider реализация Provider целиком в памяти. Окно всегда
// совпадает с данными на "диске" начиная с at, отдельного буфера не
// заводится — промежуточное состояние не отличимо от того что видно
// снаружи, что и нужно для предсказуемых тестов.
type MemProvider struct {
	data []byte
	at   int64

	opened      bool
	action      Action
	terminal    bool
	windowsText bool
	closed      bool
	deleted     bool
}

var _ Provider = (*MemProvider)(nil)

// SetTerminal переключает IsTerminal/MayPosition/MayAsynchronous для
// моделирования интерактивных юнитов в тестах.
func (p *MemProvider) SetTerminal(v bool) { p.terminal = v }

// Deleted true если провайдер был закрыт с CloseDelete — используется
// тестами чтобы проверить что SCRATCH-юниты действительно стираются.
func (p *MemProvider) Deleted() bool { return p.deleted }

// Bytes отдаёт текущее содержимое "файла" целиком — для проверки
// результата записи в тестах.
func (p *MemProvider) Bytes() []byte { return p.data }

// Open реализует Provider.
func (p *MemProvider) Open(status Status, action Action, position Position) error {
	if status == StatusNew && len(p.data) != 0 {
		return errors.Const("file already exists")
	}
	if (status == StatusReplace || status == StatusScratch) && p.data != nil {
		p.data = p.data[:0]
	}

	p.opened = true
	p.action = action

	switch position {
	case PositionAppend:
		p.at = int64(len(p.data))
	default:
		p.at = 0
	}

	return nil
}

// Close реализует Provider.
func (p *MemProvider) Close(status CloseStatus) error {
	p.closed = true
	if status == CloseDelete {
		p.data = nil
		p.deleted = true
	}

	return nil
}

// Frame реализует Provider: всё содержимое с текущей позиции до конца.
func (p *MemProvider) Frame() []byte {
	if p.at >= int64(len(p.data)) {
		return nil
	}

	return p.data[p.at:]
}

// FrameLength реализует Provider.
func (p *MemProvider) FrameLength() int { return len(p.Frame()) }

// FrameAt реализует Provider.
func (p *MemProvider) FrameAt() int64 { return p.at }

// ReadFrame реализует Provider.
func (p *MemProvider) ReadFrame(offset int64, need int) (int, error) {
	p.at = offset

	avail := int64(len(p.data)) - offset
	if avail < 0 {
		avail = 0
	}
	if avail > int64(need) {
		avail = int64(need)
	}

	return int(avail), nil
}

// WriteFrame реализует Provider.
func (p *MemProvider) WriteFrame(offset int64, need int) error {
	p.at = offset

	end := offset + int64(need)
	if end > int64(len(p.data)) {
		grown := make([]byte, end)
		copy(grown, p.data)
		p.data = grown
	}

	return nil
}

// Truncate реализует Provider.
func (p *MemProvider) Truncate(offset int64) error {
	if offset >= int64(len(p.data)) {
		return nil
	}

	p.data = p.data[:offset]

	return nil
}

// TruncateFrame реализует Provider: нет отдельного окна, эквивалент Truncate.
func (p *MemProvider) TruncateFrame(offset int64) error { return p.Truncate(offset) }

// Flush реализует Provider: нет отложенной записи, всегда no-op.
func (p *MemProvider) Flush() error { return nil }

// IsTerminal реализует Provider.
func (p *MemProvider) IsTerminal() bool { return p.terminal }

// MayPosition реализует Provider.
func (p *MemProvider) MayPosition() bool { return !p.terminal }

// MayRead реализует Provider.
func (p *MemProvider) MayRead() bool { return p.action != ActionWrite }

// MayWrite реализует Provider.
func (p *MemProvider) MayWrite() bool { return p.action != ActionRead }

// MayAsynchronous реализует Provider.
func (p *MemProvider) MayAsynchronous() bool { return !p.terminal }

// KnownSize реализует Provider.
func (p *MemProvider) KnownSize() (int64, bool) { return int64(len(p.data)), true }

// IsWindowsTextFile реализует Provider.
func (p *MemProvider) IsWindowsTextFile() bool { return p.windowsText }

// SetWindowsTextFile см. OSProvider.SetWindowsTextFile.
func (p *MemProvider) SetWindowsTextFile(v bool) { p.windowsText = v }
