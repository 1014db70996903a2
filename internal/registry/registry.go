// Package registry владеет множеством открытых внешних файловых юнитов
// процесса: предопределёнными юнитами стандартного ввода/вывода/ошибок,
// индексом по номеру и по пути, и жизненным циклом anonymous-юнитов
// (fort.N). Само чтение/запись остаётся заботой internal/unit —
// реестр только создаёт, находит и закрывает юниты.
package registry

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ioruntime/recunit/internal/diag"
	"github.com/ioruntime/recunit/internal/dir"
	"github.com/ioruntime/recunit/internal/errors"
	"github.com/ioruntime/recunit/internal/frame"
	"github.com/ioruntime/recunit/internal/iostat"
	"github.com/ioruntime/recunit/internal/rtlog"
	"github.com/ioruntime/recunit/internal/unit"
	"golang.org/x/exp/maps"
)

// Предопределённые номера юнитов, совпадающие со стандартными
// файловыми дескрипторами процесса.
const (
	OutputUnit = 6
	InputUnit  = 5
	ErrorUnit  = 0
)

// Option настраивает Registry при создании.
type Option func(*Registry)

// WithAnonymousDir задаёт директорию в которой создаются anonymous-юниты
// (fort.N). По умолчанию — текущая рабочая директория процесса.
func WithAnonymousDir(path string) Option {
	return func(r *Registry) { r.anonDirPath = path }
}

// WithLogger задаёт получателя диагностики о сбоях сброса/закрытия,
// возникающих там где вызывающему уже некому вернуть ошибку (аварийный
// сброс, фоновый FlushAll).
func WithLogger(l rtlog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithSignals заменяет набор сигналов ОС, на которые реестр подписывается
// для аварийного сброса перед завершением процесса. По умолчанию это
// SIGINT и SIGTERM; вызывающий может, например, добавить SIGHUP или
// сузить набор до одного сигнала для встраивания в более крупный процесс
// с собственной обработкой сигналов.
func WithSignals(sig ...os.Signal) Option {
	return func(r *Registry) { r.flushSignals = sig }
}

// Registry реестр внешних файловых юнитов процесса. Нулевое значение не
// готово к использованию — создавайте через New.
type Registry struct {
	// mu защищает units/paths/nextUnit — реестровый замок спецификации.
	mu    sync.RWMutex
	units map[int]*unit.ExternalFileUnit
	paths map[string]int

	nextUnit int

	// createOpenMu сериализует составную операцию "найти или создать,
	// затем открыть" для anonymous-юнитов.
	createOpenMu sync.Mutex

	anonDirPath string
	anonDir     *dir.Dir

	logger rtlog.Logger

	flushSignals []os.Signal

	shutdownOnce sync.Once
	signals      chan os.Signal
}

// New создаёт реестр и сразу заводит предопределённые юниты 6 (вывод,
// stdout), 5 (ввод, stdin) и 0 (ошибки, stderr), форматированные, с
// направлением по умолчанию. Устанавливает обработчик SIGINT/SIGTERM,
// сбрасывающий все юниты перед завершением процесса — замена
// недоступному в Go atexit.
func New(opts ...Option) *Registry {
	r := &Registry{
		units:  make(map[int]*unit.ExternalFileUnit),
		paths:  make(map[string]int),
		logger: rtlog.Discard,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.bootstrapPredefined()
	r.installSignalFlush()

	return r
}

func (r *Registry) bootstrapPredefined() {
	stdout := unit.New(OutputUnit, frame.NewOSFile(os.Stdout, frame.ActionWrite))
	stdout.SetDirection(unit.DirectionOutput, iostat.New())

	stdin := unit.New(InputUnit, frame.NewOSFile(os.Stdin, frame.ActionRead))
	stdin.SetDirection(unit.DirectionInput, iostat.New())

	stderr := unit.New(ErrorUnit, frame.NewOSFile(os.Stderr, frame.ActionWrite))
	stderr.SetDirection(unit.DirectionOutput, iostat.New())

	// Чтение с юнита стандартного ввода должно сначала сбросить вывод
	// и ошибки, чтобы приглашения печатались раньше запроса на ввод.
	stdin.SetFlushPeers(func(h iostat.Handler) {
		stdout.FlushOutput(h)
		stderr.FlushOutput(h)
	})

	r.mu.Lock()
	r.units[OutputUnit] = stdout
	r.units[InputUnit] = stdin
	r.units[ErrorUnit] = stderr
	r.nextUnit = 100
	r.mu.Unlock()
}

// installSignalFlush подписывается на сигналы из flushSignals (по
// умолчанию SIGINT/SIGTERM, см. WithSignals) и сбрасывает все юниты
// перед тем как дать процессу завершиться.
func (r *Registry) installSignalFlush() {
	sig := r.flushSignals
	if len(sig) == 0 {
		sig = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}

	r.signals = make(chan os.Signal, 1)
	signal.Notify(r.signals, sig...)

	go func() {
		if _, ok := <-r.signals; !ok {
			return
		}

		r.Shutdown()
		os.Exit(1)
	}()
}

// Shutdown сбрасывает и закрывает все юниты. Безопасен для многократного
// вызова — только первый вызов делает работу. Ожидается что main()
// вызовет его через defer для штатного пути завершения; аварийный путь
// через сигнал обслуживается отдельно установленным обработчиком.
func (r *Registry) Shutdown() {
	r.shutdownOnce.Do(func() {
		r.CloseAll()

		signal.Stop(r.signals)
		close(r.signals)
	})
}

// LookUp находит юнит по номеру.
func (r *Registry) LookUp(unitNumber int) (*unit.ExternalFileUnit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.units[unitNumber]

	return u, ok
}

// LookUpPath находит юнит по пути к которому он подключён — используется
// как callback конфликта путей передаваемый в unit.Open.
func (r *Registry) LookUpPath(path string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.paths[path]

	return n, ok
}

// LookUpForClose находит юнит по номеру для операции CLOSE — не создаёт
// юнит если он не существует, в отличие от LookUpOrCreate.
func (r *Registry) LookUpForClose(unitNumber int) (*unit.ExternalFileUnit, bool) {
	return r.LookUp(unitNumber)
}

// LookUpOrCreate находит юнит по номеру, создавая пустой объект (ещё не
// открытый) если он не существует. Второе значение — true если юнит уже
// существовал.
func (r *Registry) LookUpOrCreate(unitNumber int) (u *unit.ExternalFileUnit, wasExtant bool) {
	r.mu.RLock()
	u, wasExtant = r.units[unitNumber]
	r.mu.RUnlock()

	if wasExtant {
		return u, true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if u, wasExtant = r.units[unitNumber]; wasExtant {
		return u, true
	}

	u = unit.New(unitNumber, frame.NewOS(""))
	r.units[unitNumber] = u

	if unitNumber >= r.nextUnit {
		r.nextUnit = unitNumber + 1
	}

	return u, false
}

// LookUpOrCreateAnonymous реализует §4.2: под выделенным create-open
// замком находит или создаёт юнит и, если он новый, открывает его
// anonymous-файлом fort.N с направлением и форматом по подсказке
// вызывающего. Замок сериализует всю составную операцию, чтобы
// конкурентные вызовы не разошлись между созданием и первым открытием.
func (r *Registry) LookUpOrCreateAnonymous(unitNumber int, action unit.Action, isUnformatted bool, h iostat.Handler) *unit.ExternalFileUnit {
	r.createOpenMu.Lock()
	defer r.createOpenMu.Unlock()

	if u, ok := r.LookUp(unitNumber); ok {
		return u
	}

	dirPath, err := r.anonymousDir()
	if err != nil {
		h.SignalError(iostat.Internal, err)
	}

	u := unit.New(unitNumber, frame.NewOS(""))
	u.OpenAnonymous(dirPath, action, isUnformatted, h)

	r.mu.Lock()
	r.units[unitNumber] = u
	if path, ok := u.Path(); ok {
		r.paths[path] = unitNumber
	}
	if unitNumber >= r.nextUnit {
		r.nextUnit = unitNumber + 1
	}
	r.mu.Unlock()

	return u
}

func (r *Registry) anonymousDir() (string, error) {
	path := r.anonDirPath
	if path == "" {
		path = "."
	}

	if r.anonDir == nil {
		d, err := dir.New(path, "")
		if err != nil {
			return "", errors.Wrap(err, "prepare anonymous unit directory")
		}
		r.anonDir = d
	}

	return path, nil
}

// Open реализует §4.2 OpenUnit на уровне реестра: находит или создаёт
// юнит с данным номером, делегирует unit.Open с колбэком проверки
// конфликта путей на этот реестр, и на успехе индексирует новый путь.
func (r *Registry) Open(unitNumber int, status unit.Status, action unit.Action, position unit.Position, path string, convert unit.Convert, h iostat.Handler) (*unit.ExternalFileUnit, bool) {
	return r.OpenWith(unitNumber, status, action, position, path, convert, unit.AccessSequential, unit.OptInt64{}, unit.Unset, h)
}

// OpenWith реализует §4.2 OpenUnit с явно заданными ACCESS=/RECL=/FORM=,
// как их устанавливал бы драйвер оператора OPEN до вызова OpenUnit —
// сам юнит не хранит и не выводит их откуда-либо ещё. recl игнорируется
// если access не AccessDirect; isUnformatted может быть unit.Unset чтобы
// оставить форматированность неопределённой до первой передачи данных.
func (r *Registry) OpenWith(unitNumber int, status unit.Status, action unit.Action, position unit.Position, path string, convert unit.Convert, access unit.Access, recl unit.OptInt64, isUnformatted unit.Tristate, h iostat.Handler) (*unit.ExternalFileUnit, bool) {
	u, _ := r.LookUpOrCreate(unitNumber)

	u.SetAccess(access)
	if access == unit.AccessDirect {
		if v, ok := recl.Get(); ok {
			u.SetRecl(v)
		}
	}
	if isUnformatted != unit.Unset {
		u.SetUnformatted(isUnformatted == unit.True)
	}

	impliedClose := u.Open(status, action, position, path, convert, r.LookUpPath, h)

	r.Register(u)

	return u, impliedClose
}

// NewUnit выделяет свежий номер юнита, не совпадающий ни с одним
// существующим и ни с одним предопределённым, и заводит для него пустой
// объект юнита (ещё не открытый).
func (r *Registry) NewUnit() *unit.ExternalFileUnit {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		if _, taken := r.units[r.nextUnit]; !taken {
			break
		}
		r.nextUnit++
	}

	u := unit.New(r.nextUnit, frame.NewOS(""))
	r.units[r.nextUnit] = u
	r.nextUnit++

	return u
}

// DestroyClosed удаляет закрытый юнит из реестра.
func (r *Registry) DestroyClosed(u *unit.ExternalFileUnit) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.units, u.UnitNumber())

	if path, ok := u.Path(); ok {
		if owner, exists := r.paths[path]; exists && owner == u.UnitNumber() {
			delete(r.paths, path)
		}
	}
}

// Register добавляет путь юнита в индекс путей после успешного OPEN —
// вызывается драйвером statement-а сразу после unit.Open, поскольку
// только вызывающий знает окончательный путь после разрешения имени.
func (r *Registry) Register(u *unit.ExternalFileUnit) {
	path, ok := u.Path()
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.paths[path] = u.UnitNumber()
}

// CloseAll закрывает все зарегистрированные юниты — реализует конец
// atexit-эквивалентной последовательности сброса. Сбои отдельных юнитов
// не прерывают закрытие остальных и уходят в r.logger, поскольку у
// вызывающего здесь уже нет statement-а которому можно вернуть iostat.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	units := maps.Values(r.units)
	r.units = make(map[int]*unit.ExternalFileUnit)
	r.paths = make(map[string]int)
	r.mu.Unlock()

	for _, u := range units {
		unitHandler := iostat.New()
		u.Close(unit.CloseKeep, unitHandler)

		if err := unitHandler.Err(); err != nil {
			r.logger.UnitCloseFailed(u.UnitNumber(), err)
		}
	}
}

// FlushAll сбрасывает буферизованный вывод всех зарегистрированных
// юнитов без их закрытия. Сбои отдельных юнитов уходят в r.logger.
func (r *Registry) FlushAll() {
	r.mu.RLock()
	units := maps.Values(r.units)
	r.mu.RUnlock()

	for _, u := range units {
		unitHandler := iostat.New()
		u.FlushOutput(unitHandler)

		if err := unitHandler.Err(); err != nil {
			r.logger.UnitFlushFailed(u.UnitNumber(), err)
		}
	}
}

// FlushOutputOnCrash сбрасывает вывод и ошибки при аварийном завершении.
// Взводит HasIoStat на переданном обработчике заранее, чтобы вложенные
// сбои самого сброса не превратились в рекурсивный отчёт о крахе, и
// отдельно репортует их через r.logger поскольку в момент краха уже нет
// statement-а которому можно вернуть iostat. Снимок диагностики снимается
// до сброса — сам сброс может ещё изменить состояние юнитов вывода.
func (r *Registry) FlushOutputOnCrash(h iostat.Handler) {
	h.PrimeIoStat()

	dump := diag.Snapshot(r)
	r.logger.CrashDiagnostics(dump.CorrelationID.String(), dump.Bytes)

	r.mu.RLock()
	out, hasOut := r.units[OutputUnit]
	errU, hasErr := r.units[ErrorUnit]
	r.mu.RUnlock()

	if hasOut {
		unitHandler := iostat.New()
		out.FlushOutput(unitHandler)
		if err := unitHandler.Err(); err != nil {
			r.logger.CrashFlushFailed(err)
		}
	}
	if hasErr {
		unitHandler := iostat.New()
		errU.FlushOutput(unitHandler)
		if err := unitHandler.Err(); err != nil {
			r.logger.CrashFlushFailed(err)
		}
	}
}

// Stats строит diag.Stats — количество открытых юнитов по способу
// доступа — по текущему состоянию реестра. Используется диагностикой
// при аварийном сбросе, и сама реализует diag.Source.
func (r *Registry) Stats() diag.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s diag.Stats
	for _, u := range r.units {
		s.Total++
		switch u.Access() {
		case unit.AccessSequential:
			s.Sequential++
		case unit.AccessDirect:
			s.Direct++
		case unit.AccessStream:
			s.Stream++
		}
	}

	return s
}

// Units отдаёт снимок номеров всех зарегистрированных юнитов, для
// диагностики и обхода без удержания замка реестра во время итерации.
func (r *Registry) Units() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Keys(r.units)
}
