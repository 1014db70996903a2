package unit

import "github.com/ioruntime/recunit/internal/iostat"

// ChildIO один кадр дочернего ввода-вывода (список-редактирование или
// ввод-вывод под управлением пользовательского DATA TRANSFER) поверх
// родительского юнита. Кадры образуют стек: вложенный дочерний
// ввод-вывод ссылается на предыдущий кадр через принадлежность к
// внутреннему dllist.DLList родительского юнита.
type ChildIO struct {
	parent        *ExternalFileUnit
	unformatted   bool
	direction     Direction
	createdInline bool
}

// Unformatted true если этот кадр дочернего ввода-вывода неформатирован.
func (c *ChildIO) Unformatted() bool { return c.unformatted }

// Direction направление этого кадра дочернего ввода-вывода.
func (c *ChildIO) Direction() Direction { return c.direction }

// PushChildIo заводит новый кадр дочернего ввода-вывода над текущим
// верхом стека и делает его новым верхом.
func (u *ExternalFileUnit) PushChildIo(unformatted bool, direction Direction) *ChildIO {
	u.mu.Lock()
	defer u.mu.Unlock()

	c := &ChildIO{
		parent:      u,
		unformatted: unformatted,
		direction:   direction,
	}
	u.children.Push(c)

	return c
}

// PopChildIo снимает child с верха стека. Это фатальный инвариант:
// попытка снять кадр который не является текущим верхом — программная
// ошибка вызывающего, а не восстанавливаемая ошибка ввода-вывода, и
// поэтому приводит к панике, как и предписывает §7.4 спецификации для
// этого класса нарушений.
func (u *ExternalFileUnit) PopChildIo(child *ChildIO) {
	u.mu.Lock()
	defer u.mu.Unlock()

	top := u.children.Last()
	if top == nil || top.Value() != child {
		panic(errUnitf(u.unitNumber, "pop of a child I/O frame that is not the current top"))
	}

	u.children.DeleteLast()
}

// CurrentChildIo отдаёт кадр на верху стека дочернего ввода-вывода, либо
// nil если ввод-вывод ведётся непосредственно на юните.
func (u *ExternalFileUnit) CurrentChildIo() *ChildIO {
	u.mu.Lock()
	defer u.mu.Unlock()

	top := u.children.Last()
	if top == nil {
		return nil
	}

	return top.Value()
}

// CheckFormattingAndDirection проверяет совместимость режима форматирования
// и направления дочернего ввода-вывода с состоянием родителя: либо с
// кадром на верху стека, если он уже есть, либо напрямую с юнитом.
func (u *ExternalFileUnit) CheckFormattingAndDirection(unformatted bool, direction Direction, h iostat.Handler) bool {
	parentUnformatted, parentDirection := u.parentFormattingAndDirection()

	if unformatted != parentUnformatted {
		if unformatted {
			h.SignalError(iostat.UnformattedChildOnFormattedParent, errUnitf(u.unitNumber, "unformatted child I/O on a formatted parent"))
		} else {
			h.SignalError(iostat.FormattedChildOnUnformattedParent, errUnitf(u.unitNumber, "formatted child I/O on an unformatted parent"))
		}
		return false
	}

	if direction != DirectionUnset && parentDirection != DirectionUnset && direction != parentDirection {
		if direction == DirectionOutput {
			h.SignalError(iostat.ChildOutputToInputParent, errUnitf(u.unitNumber, "child output on an input parent"))
		} else {
			h.SignalError(iostat.ChildInputFromOutputParent, errUnitf(u.unitNumber, "child input on an output parent"))
		}
		return false
	}

	return true
}

func (u *ExternalFileUnit) parentFormattingAndDirection() (unformatted bool, direction Direction) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if top := u.children.Last(); top != nil {
		c := top.Value()
		return c.unformatted, c.direction
	}

	return u.isUnformatted.Bool(false), u.direction
}
