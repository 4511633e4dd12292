package parser

import (
	"math"
	"strconv"
	"strings"
)

// LineKind классификация строки конфиг файла
type LineKind int

const (
	LineBlank LineKind = iota
	LineComment
	LinePair
)

// Line результат разбора одной строки key=value
type Line struct {
	Kind     LineKind
	Key      string
	Value    string
	HasValue bool
}

const blankChars = " \t\v\r\n"

// ParseLine классифицирует строку и делит её на ключ и значение.
// Разделители '=' и '\n', пустые токены пропускаются: "a==b" даёт ключ a и значение b,
// а в "a=b=c" значение обрезается до "b"
func ParseLine(raw string) Line {
	if strings.Trim(raw, blankChars) == "" {
		return Line{Kind: LineBlank}
	}
	if strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "//") {
		return Line{Kind: LineComment}
	}

	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '=' || r == '\n'
	})

	l := Line{Kind: LinePair}
	if len(tokens) > 0 {
		l.Key = tokens[0]
	}
	if len(tokens) > 1 {
		l.Value = tokens[1]
		l.HasValue = true
	}
	return l
}

// ParseBool true только для точного литерала "true"
func ParseBool(s string) bool {
	return s == "true"
}

// ParseInt разбирает целое как atoi: при ошибке берётся самый длинный числовой префикс,
// иначе 0. clean == false означает, что строка не была корректным числом целиком
func ParseInt(s string) (v int, clean bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	i := skipSpace(s, 0)
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == digits {
		return 0, false
	}

	// при переполнении strconv возвращает границу диапазона
	n, _ := strconv.ParseInt(s[start:i], 10, 64)
	return clampInt(n), false
}

// ParseFloat разбирает число с плавающей точкой как atof, не завися от локали
func ParseFloat(s string) (v float64, clean bool) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}

	prefix := floatPrefix(s)
	if prefix == "" {
		return 0, false
	}
	// ErrRange: f уже равен ±Inf или 0
	f, _ := strconv.ParseFloat(prefix, 64)
	return f, false
}

// floatPrefix возвращает самый длинный префикс, который atof принял бы за число
func floatPrefix(s string) string {
	i := skipSpace(s, 0)
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	rest := strings.ToLower(s[i:])
	for _, word := range []string{"infinity", "inf", "nan"} {
		if strings.HasPrefix(rest, word) {
			return s[start : i+len(word)]
		}
	}

	mant := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i == mant || (i == mant+1 && s[mant] == '.') {
		return ""
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > exp {
			i = j
		}
	}
	return s[start:i]
}

func skipSpace(s string, i int) int {
	for i < len(s) && strings.IndexByte(" \t\v\f\r\n", s[i]) >= 0 {
		i++
	}
	return i
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func clampInt(n int64) int {
	if n > math.MaxInt {
		return math.MaxInt
	}
	if n < math.MinInt {
		return math.MinInt
	}
	return int(n)
}
