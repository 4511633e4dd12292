package types

import (
	"fmt"
	"strconv"
)

// MaxTextLen максимальная длина текстового значения в байтах
const MaxTextLen = 511

// Kind тип значения ключа конфигурации
type Kind int

const (
	KindInvalid Kind = iota
	KindText
	KindInt
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float64"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// ParseKind разбирает имя типа из файла схемы
func ParseKind(s string) (Kind, error) {
	switch s {
	case "string", "text":
		return KindText, nil
	case "int", "integer":
		return KindInt, nil
	case "float", "float64":
		return KindFloat, nil
	case "bool", "boolean":
		return KindBool, nil
	default:
		return KindInvalid, fmt.Errorf("неподдерживаемый тип %q (допустимы: string, int, float, bool)", s)
	}
}

// Value типизированное значение: тип и данные хранятся вместе
type Value struct {
	Kind  Kind
	Text  string
	Int   int
	Float float64
	Bool  bool
}

func TextValue(s string) Value   { return Value{Kind: KindText, Text: s} }
func IntValue(i int) Value       { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }

// Any возвращает значение как any для печати и шаблонов
func (v Value) Any() any {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindBool:
		return v.Bool
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindInt:
		return strconv.Itoa(v.Int)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return "<invalid>"
	}
}

// KeyDescriptor описывает один ключ схемы. Тип ключа задаётся Default.Kind
type KeyDescriptor struct {
	Name        string // Имя ключа в конфиг файле
	Index       int    // Числовой индекс, по которому читается значение
	Default     Value  // Значение по умолчанию
	Description string // Описание (для генератора и дампа)
}

// Kind возвращает тип ключа
func (d KeyDescriptor) Kind() Kind {
	return d.Default.Kind
}
