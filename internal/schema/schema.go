package schema

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/vovanwin/simpleconf/pkg/types"
)

// ErrInvalid ошибка валидации схемы
var ErrInvalid = errors.New("невалидная схема")

// KeyDescriptor псевдоним types.KeyDescriptor
type KeyDescriptor = types.KeyDescriptor

// Validate проверяет схему до создания хранилища: имена и индексы уникальны,
// типы известны, текстовые дефолты помещаются в слот
func Validate(keys []KeyDescriptor, textCap int) error {
	names := make(map[string]int, len(keys))
	indices := make(map[int]string, len(keys))

	for i, k := range keys {
		if k.Name == "" {
			return fmt.Errorf("%w: ключ #%d без имени", ErrInvalid, i)
		}
		if prev, ok := names[k.Name]; ok {
			return fmt.Errorf("%w: ключ %q объявлен дважды (#%d и #%d)", ErrInvalid, k.Name, prev, i)
		}
		names[k.Name] = i

		if k.Index < 0 {
			return fmt.Errorf("%w: ключ %q: отрицательный индекс %d", ErrInvalid, k.Name, k.Index)
		}
		if other, ok := indices[k.Index]; ok {
			return fmt.Errorf("%w: индекс %d занят ключами %q и %q", ErrInvalid, k.Index, other, k.Name)
		}
		indices[k.Index] = k.Name

		switch k.Kind() {
		case types.KindText:
			if len(k.Default.Text) > textCap {
				return fmt.Errorf("%w: ключ %q: дефолт длиннее %d байт", ErrInvalid, k.Name, textCap)
			}
			if !utf8.ValidString(k.Default.Text) {
				return fmt.Errorf("%w: ключ %q: дефолт не UTF-8", ErrInvalid, k.Name)
			}
		case types.KindInt, types.KindFloat, types.KindBool:
		default:
			return fmt.Errorf("%w: ключ %q: неизвестный тип", ErrInvalid, k.Name)
		}
	}
	return nil
}

// Find ищет ключ по имени линейным проходом в порядке объявления
func Find(keys []KeyDescriptor, name string) (int, bool) {
	for i := range keys {
		if keys[i].Name == name {
			return i, true
		}
	}
	return -1, false
}
