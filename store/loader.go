package store

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/vovanwin/simpleconf/internal/parser"
	"github.com/vovanwin/simpleconf/internal/schema"
	"github.com/vovanwin/simpleconf/pkg/types"
)

const maxLineSize = 1 << 20

// LoadFile применяет строки файла к хранилищу. Если файл не открывается
// или не читается, ошибка оборачивает ErrUnreadable
func (s *Store) LoadFile(path string) (Diagnostics, error) {
	file, err := os.Open(path)
	if err != nil {
		return s.unreadable(path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return s.unreadable(path, err)
	}
	if info.IsDir() {
		return s.unreadable(path, errors.New("это директория"))
	}

	return s.Load(file, path)
}

func (s *Store) unreadable(source string, err error) (Diagnostics, error) {
	d := Diagnostic{
		Severity: SeverityError,
		Code:     CodeUnreadable,
		Source:   source,
		Message:  fmt.Sprintf("не удалось прочитать %q: %v", source, err),
	}
	d.log(s.logger)
	return Diagnostics{d}, fmt.Errorf("%w: %s: %w", ErrUnreadable, source, err)
}

// Load применяет строки r к хранилищу. source используется в диагностиках.
// Ошибки отдельных строк не прерывают загрузку. Строка длиннее maxLineSize
// обрезается с предупреждением, ошибка чтения оборачивает ErrUnreadable
func (s *Store) Load(r io.Reader, source string) (Diagnostics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	var diags Diagnostics
	report := func(d Diagnostic) {
		d.Source = source
		d.log(s.logger)
		diags = append(diags, d)
	}

	br := bufio.NewReader(r)
	lineNo := 0
	for {
		raw, dropped, err := readLine(br, maxLineSize)
		if err != nil && !errors.Is(err, io.EOF) {
			ds, rerr := s.unreadable(source, err)
			return append(diags, ds...), rerr
		}
		if errors.Is(err, io.EOF) && raw == "" && dropped == 0 {
			return diags, nil
		}

		lineNo++
		if dropped > 0 {
			report(Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeLineTooLong,
				Line:     lineNo,
				Message:  fmt.Sprintf("строка длиннее %d байт, отброшено %d байт", maxLineSize, dropped),
			})
		}
		s.applyLine(raw, lineNo, report)

		if errors.Is(err, io.EOF) {
			return diags, nil
		}
	}
}

// readLine читает строку до '\n' без завершающих "\n" и "\r".
// Байты сверх limit отбрасываются, их число возвращается в dropped
func readLine(br *bufio.Reader, limit int) (line string, dropped int, err error) {
	var buf []byte
	for {
		chunk, rerr := br.ReadSlice('\n')
		if rerr == nil {
			chunk = chunk[:len(chunk)-1]
		}
		take := min(len(chunk), max(limit-len(buf), 0))
		buf = append(buf, chunk[:take]...)
		dropped += len(chunk) - take

		if rerr != bufio.ErrBufferFull {
			err = rerr
			break
		}
	}
	return string(bytes.TrimSuffix(buf, []byte("\r"))), dropped, err
}

func (s *Store) applyLine(raw string, lineNo int, report func(Diagnostic)) {
	line := parser.ParseLine(raw)
	if line.Kind != parser.LinePair {
		return
	}

	pos, ok := schema.Find(s.keys, line.Key)
	if !ok {
		report(Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeUnknownKey,
			Line:     lineNo,
			Key:      line.Key,
			Message:  fmt.Sprintf("неизвестный ключ %q", line.Key),
		})
		return
	}

	if !line.HasValue {
		report(Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeMissingValue,
			Line:     lineNo,
			Key:      line.Key,
			Message:  fmt.Sprintf("пустое значение ключа %q", line.Key),
		})
		return
	}

	value, ok := s.convert(s.keys[pos], line.Value, lineNo, report)
	if !ok {
		return
	}
	s.slots[pos] = slot{value: value, set: true}
}

// convert приводит строку к типу ключа. false означает, что слот менять нельзя
func (s *Store) convert(key types.KeyDescriptor, raw string, lineNo int, report func(Diagnostic)) (types.Value, bool) {
	badNumber := func(v any) bool {
		d := Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeBadNumber,
			Line:     lineNo,
			Key:      key.Name,
			Message:  fmt.Sprintf("ключ %q: %q не является числом типа %s, использовано %v", key.Name, raw, key.Kind(), v),
		}
		if s.strictNumbers {
			d.Severity = SeverityError
			d.Message = fmt.Sprintf("ключ %q: %q не является числом типа %s, значение отклонено", key.Name, raw, key.Kind())
		}
		report(d)
		return !s.strictNumbers
	}

	switch key.Kind() {
	case types.KindText:
		if len(raw) > s.textCap {
			truncated := truncateUTF8(raw, s.textCap)
			report(Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeTruncated,
				Line:     lineNo,
				Key:      key.Name,
				Message:  fmt.Sprintf("ключ %q: значение длиной %d байт обрезано до %d", key.Name, len(raw), len(truncated)),
			})
			raw = truncated
		}
		return types.TextValue(raw), true
	case types.KindInt:
		v, clean := parser.ParseInt(raw)
		if !clean && !badNumber(v) {
			return types.Value{}, false
		}
		return types.IntValue(v), true
	case types.KindFloat:
		v, clean := parser.ParseFloat(raw)
		if !clean && !badNumber(v) {
			return types.Value{}, false
		}
		return types.FloatValue(v), true
	case types.KindBool:
		return types.BoolValue(parser.ParseBool(raw)), true
	default:
		return types.Value{}, false
	}
}

// truncateUTF8 обрезает s до n байт, не разрывая многобайтовый символ
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
