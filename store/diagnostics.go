package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Severity уровень диагностики
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Code вид диагностики
type Code string

const (
	CodeUnreadable   Code = "unreadable"
	CodeUnknownKey   Code = "unknown-key"
	CodeMissingValue Code = "missing-value"
	CodeBadNumber    Code = "bad-number"
	CodeTruncated    Code = "truncated"
	CodeLineTooLong  Code = "line-too-long"
)

// Diagnostic одно сообщение загрузчика. Line считается с 1, 0 для ошибок уровня файла
type Diagnostic struct {
	Severity Severity
	Code     Code
	Source   string
	Line     int
	Key      string
	Message  string
}

func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Source)
	if d.Line > 0 {
		fmt.Fprintf(&b, ":%d", d.Line)
	}
	fmt.Fprintf(&b, ": %s: %s", d.Severity, d.Message)
	return b.String()
}

// Diagnostics список сообщений одной загрузки
type Diagnostics []Diagnostic

// Has проверяет есть ли диагностика с указанным кодом
func (ds Diagnostics) Has(code Code) bool {
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}

// Warnings возвращает только предупреждения
func (ds Diagnostics) Warnings() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// Err объединяет диагностики уровня error в одну ошибку, nil если их нет
func (ds Diagnostics) Err() error {
	var errs []error
	for _, d := range ds {
		if d.Severity == SeverityError {
			errs = append(errs, errors.New(d.String()))
		}
	}
	return errors.Join(errs...)
}

func (d Diagnostic) log(logger *slog.Logger) {
	level := slog.LevelWarn
	if d.Severity == SeverityError {
		level = slog.LevelError
	}

	attrs := []slog.Attr{
		slog.String("code", string(d.Code)),
		slog.String("source", d.Source),
	}
	if d.Line > 0 {
		attrs = append(attrs, slog.Int("line", d.Line))
	}
	if d.Key != "" {
		attrs = append(attrs, slog.String("key", d.Key))
	}

	logger.LogAttrs(context.Background(), level, d.Message, attrs...)
}
