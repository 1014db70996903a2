package frame

import (
	"io"
	"os"

	"github.com/ioruntime/recunit/internal/errors"
)

// defaultChunk минимальный размер порции дочитываемой с диска при
// расширении окна на вычитку — избегаем читать по одному разу на каждый
// байт нехватки.
const defaultChunk = 4096

// NewOS конструктор Provider поверх файла с данным именем. Само
// открытие делается отдельным вызовом Open — так же как и в реальном
// операторе OPEN, конструктор только подготавливает объект.
func NewOS(name string) *OSProvider {
	return &OSProvider{name: name}
}

// OSProvider реализация Provider поверх os.File с единственным
// буферизованным окном, которое может скользить по файлу в обе стороны.
type OSProvider struct {
	name string
	file *os.File

	buf   []byte
	at    int64
	dirty bool

	size      int64
	sizeKnown bool

	action      Action
	isTerminal  bool
	windowsText bool
}

var _ Provider = (*OSProvider)(nil)

// NewOSFile конструктор Provider поверх уже открытого файла — используется
// для предопределённых юнитов, обёртывающих стандартные дескрипторы
// процесса, для которых Open в обычном смысле не имеет смысла.
func NewOSFile(file *os.File, action Action) *OSProvider {
	p := &OSProvider{name: file.Name(), file: file, action: action}

	if stat, err := file.Stat(); err == nil {
		p.size = stat.Size()
		p.sizeKnown = stat.Mode().IsRegular()
		p.isTerminal = stat.Mode()&os.ModeCharDevice != 0
	}

	return p
}

// Open реализует Provider.
func (p *OSProvider) Open(status Status, action Action, position Position) error {
	flags, err := openFlags(status, action)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(p.name, flags, 0644)
	if err != nil {
		return errors.Wrapf(err, "open file '%s'", p.name).Str("path", p.name)
	}

	p.file = file
	p.action = action
	p.buf = p.buf[:0]
	p.dirty = false

	if stat, err := file.Stat(); err == nil {
		p.size = stat.Size()
		p.sizeKnown = true
		p.isTerminal = stat.Mode()&os.ModeCharDevice != 0
	}

	switch position {
	case PositionAppend:
		p.at = p.size
	default:
		p.at = 0
	}

	return nil
}

func openFlags(status Status, action Action) (int, error) {
	var flags int
	switch action {
	case ActionRead:
		flags = os.O_RDONLY
	case ActionWrite:
		flags = os.O_WRONLY
	default:
		flags = os.O_RDWR
	}

	switch status {
	case StatusNew:
		flags |= os.O_CREATE | os.O_EXCL
	case StatusReplace, StatusScratch:
		flags |= os.O_CREATE | os.O_TRUNC
	case StatusOld:
		// файл должен уже существовать, никаких дополнительных флагов не нужно.
	case StatusUnknown:
		flags |= os.O_CREATE
	default:
		return 0, errors.Newf("unknown open status %d", int(status))
	}

	return flags, nil
}

// Close реализует Provider.
func (p *OSProvider) Close(status CloseStatus) error {
	if p.file == nil {
		return nil
	}

	if err := p.Flush(); err != nil {
		return errors.Wrap(err, "flush before close")
	}

	name := p.file.Name()
	if err := p.file.Close(); err != nil {
		return errors.Wrapf(err, "close file '%s'", name)
	}
	p.file = nil

	if status == CloseDelete {
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "delete file '%s'", name)
		}
	}

	return nil
}

// Frame реализует Provider.
func (p *OSProvider) Frame() []byte { return p.buf }

// FrameLength реализует Provider.
func (p *OSProvider) FrameLength() int { return len(p.buf) }

// FrameAt реализует Provider.
func (p *OSProvider) FrameAt() int64 { return p.at }

// ReadFrame реализует Provider.
func (p *OSProvider) ReadFrame(offset int64, need int) (int, error) {
	if offset < p.at || offset > p.at+int64(len(p.buf)) {
		if err := p.reposition(offset); err != nil {
			return 0, err
		}
	}

	want := offset - p.at + int64(need)
	if want <= int64(len(p.buf)) {
		return need, nil
	}

	grow := want - int64(len(p.buf))
	if grow < defaultChunk {
		grow = defaultChunk
	}

	if _, err := p.fill(grow); err != nil {
		return 0, err
	}

	avail := int64(len(p.buf)) - (offset - p.at)
	if avail < 0 {
		avail = 0
	}
	if avail > int64(need) {
		avail = int64(need)
	}

	return int(avail), nil
}

// fill дочитывает до grow байт с диска в конец текущего окна.
func (p *OSProvider) fill(grow int64) (int, error) {
	base := len(p.buf)
	p.buf = growPreserving(p.buf, base+int(grow))
	n, err := io.ReadFull(p.file, p.buf[base:])
	p.buf = p.buf[:base+n]
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return n, nil
		}
		return n, errors.Wrap(err, "read frame extension from file")
	}

	return n, nil
}

// growPreserving расширяет buf до длины n, сохраняя уже накопленные
// данные — в отличие от byteop.Reuse, который предполагает что старое
// содержимое более не нужно.
func growPreserving(buf []byte, n int) []byte {
	if cap(buf) >= n {
		return buf[:n]
	}

	grown := make([]byte, n)
	copy(grown, buf)

	return grown
}

// WriteFrame реализует Provider.
func (p *OSProvider) WriteFrame(offset int64, need int) error {
	if offset < p.at || offset > p.at+int64(len(p.buf)) {
		if err := p.reposition(offset); err != nil {
			return err
		}
	}

	end := offset - p.at + int64(need)
	if end <= int64(len(p.buf)) {
		p.dirty = true
		return nil
	}

	p.buf = growPreserving(p.buf, int(end))
	p.dirty = true

	return nil
}

// reposition сбрасывает грязные данные и переставляет окно на offset с
// нулевой длиной: следующий ReadFrame/WriteFrame сам дочитает нужное.
func (p *OSProvider) reposition(offset int64) error {
	if err := p.Flush(); err != nil {
		return err
	}

	if _, err := p.file.Seek(offset, io.SeekStart); err != nil {
		return errors.Wrapf(err, "seek to frame offset").Int64("offset", offset)
	}

	p.at = offset
	p.buf = p.buf[:0]

	return nil
}

// Flush реализует Provider.
func (p *OSProvider) Flush() error {
	if !p.dirty {
		return nil
	}

	if _, err := p.file.WriteAt(p.buf, p.at); err != nil {
		return errors.Wrap(err, "write buffered frame to file")
	}

	end := p.at + int64(len(p.buf))
	if !p.sizeKnown || end > p.size {
		p.size = end
		p.sizeKnown = true
	}
	p.dirty = false

	return nil
}

// Truncate реализует Provider.
func (p *OSProvider) Truncate(offset int64) error {
	if err := p.Flush(); err != nil {
		return err
	}

	if err := p.file.Truncate(offset); err != nil {
		return errors.Wrapf(err, "truncate file to offset").Int64("offset", offset)
	}

	p.size = offset
	p.sizeKnown = true

	return nil
}

// TruncateFrame реализует Provider.
func (p *OSProvider) TruncateFrame(offset int64) error {
	switch {
	case offset <= p.at:
		p.at = offset
		p.buf = p.buf[:0]
	case offset >= p.at+int64(len(p.buf)):
		// нечего обрезать, окно не доходит до offset.
	default:
		p.buf = p.buf[:offset-p.at]
	}

	return nil
}

// IsTerminal реализует Provider.
func (p *OSProvider) IsTerminal() bool { return p.isTerminal }

// MayPosition реализует Provider.
func (p *OSProvider) MayPosition() bool { return !p.isTerminal }

// MayRead реализует Provider.
func (p *OSProvider) MayRead() bool { return p.action != ActionWrite }

// MayWrite реализует Provider.
func (p *OSProvider) MayWrite() bool { return p.action != ActionRead }

// MayAsynchronous реализует Provider.
func (p *OSProvider) MayAsynchronous() bool { return !p.isTerminal }

// KnownSize реализует Provider.
func (p *OSProvider) KnownSize() (int64, bool) { return p.size, p.sizeKnown }

// IsWindowsTextFile реализует Provider.
func (p *OSProvider) IsWindowsTextFile() bool { return p.windowsText }

// SetWindowsTextFile включает запись "\r\n" вместо "\n" при завершении
// форматированных записей. Используется только на платформах где файл
// был открыт в текстовом, а не в двоичном режиме.
func (p *OSProvider) SetWindowsTextFile(v bool) { p.windowsText = v }
