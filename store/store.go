// Package store реализует типизированное хранилище конфигурации по схеме:
// ключи объявляются заранее, значения читаются из файлов key=value,
// отсутствующие ключи сохраняют дефолты из схемы.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vovanwin/simpleconf/internal/schema"
	"github.com/vovanwin/simpleconf/pkg/types"
)

var (
	ErrUnreadable   = errors.New("файл не найден или недоступен для чтения")
	ErrUnknownIndex = errors.New("неизвестный индекс ключа")
	ErrKindMismatch = errors.New("тип ключа не совпадает")
	ErrClosed       = errors.New("хранилище закрыто")
)

// slot хранит текущее значение ключа и признак явной установки из файла
type slot struct {
	value types.Value
	set   bool
}

// Store владеет копией схемы и слотами значений
type Store struct {
	mu      sync.RWMutex
	keys    []types.KeyDescriptor
	slots   []slot
	byIndex map[int]int // индекс ключа -> позиция в keys/slots
	closed  bool

	logger        *slog.Logger
	strictNumbers bool
	textCap       int
}

// Option настройка хранилища
type Option func(*Store)

// WithLogger задаёт логгер для диагностик загрузки
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStrictNumbers отклоняет нечисловые значения вместо приведения к нулю
func WithStrictNumbers() Option {
	return func(s *Store) {
		s.strictNumbers = true
	}
}

// WithTextCapacity меняет ёмкость текстового слота (по умолчанию types.MaxTextLen)
func WithTextCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.textCap = n
		}
	}
}

// New проверяет схему, создаёт по слоту на ключ и заполняет слоты дефолтами
func New(keys []types.KeyDescriptor, opts ...Option) (*Store, error) {
	s := &Store{
		logger:  slog.Default().With("component", "simpleconf"),
		textCap: types.MaxTextLen,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := schema.Validate(keys, s.textCap); err != nil {
		return nil, err
	}

	s.keys = make([]types.KeyDescriptor, len(keys))
	copy(s.keys, keys)

	s.slots = make([]slot, len(keys))
	s.byIndex = make(map[int]int, len(keys))
	for pos, k := range s.keys {
		s.byIndex[k.Index] = pos
	}

	s.fillDefaults()
	return s, nil
}

// fillDefaults записывает дефолт во все слоты, не установленные явно
func (s *Store) fillDefaults() {
	for pos := range s.slots {
		if s.slots[pos].set {
			continue
		}
		s.slots[pos].value = s.keys[pos].Default
	}
}

// Read возвращает копию текущего значения ключа. false для неизвестного индекса или закрытого хранилища
func (s *Store) Read(index int) (types.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, err := s.position(index)
	if err != nil {
		return types.Value{}, false
	}
	return s.slots[pos].value, true
}

// IsSet сообщает было ли значение ключа задано хотя бы одной строкой файла
func (s *Store) IsSet(index int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, err := s.position(index)
	if err != nil {
		return false
	}
	return s.slots[pos].set
}

func (s *Store) Text(index int) (string, error) {
	v, err := s.typed(index, types.KindText)
	return v.Text, err
}

func (s *Store) Int(index int) (int, error) {
	v, err := s.typed(index, types.KindInt)
	return v.Int, err
}

func (s *Store) Float(index int) (float64, error) {
	v, err := s.typed(index, types.KindFloat)
	return v.Float, err
}

func (s *Store) Bool(index int) (bool, error) {
	v, err := s.typed(index, types.KindBool)
	return v.Bool, err
}

func (s *Store) typed(index int, kind types.Kind) (types.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, err := s.position(index)
	if err != nil {
		return types.Value{}, err
	}
	v := s.slots[pos].value
	if v.Kind != kind {
		return types.Value{}, fmt.Errorf("%w: ключ %q имеет тип %s, запрошен %s", ErrKindMismatch, s.keys[pos].Name, v.Kind, kind)
	}
	return v, nil
}

// Lookup ищет дескриптор по имени в порядке объявления
func (s *Store) Lookup(name string) (types.KeyDescriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.KeyDescriptor{}, false
	}
	pos, ok := schema.Find(s.keys, name)
	if !ok {
		return types.KeyDescriptor{}, false
	}
	return s.keys[pos], true
}

// Keys возвращает копию схемы в порядке объявления
func (s *Store) Keys() []types.KeyDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.KeyDescriptor, len(s.keys))
	copy(out, s.keys)
	return out
}

// Each вызывает fn для каждого ключа с текущим значением и признаком явной установки
func (s *Store) Each(fn func(key types.KeyDescriptor, value types.Value, set bool)) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for pos, k := range s.keys {
		fn(k, s.slots[pos].value, s.slots[pos].set)
	}
}

// Close освобождает слоты. Повторный вызов ничего не делает,
// остальные методы после Close возвращают ErrClosed или пустой результат
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.slots = nil
	s.keys = nil
	s.byIndex = nil
	return nil
}

func (s *Store) position(index int) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	pos, ok := s.byIndex[index]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownIndex, index)
	}
	return pos, nil
}
