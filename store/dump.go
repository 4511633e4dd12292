package store

import (
	"fmt"
	"io"
	"strings"

	"github.com/vovanwin/simpleconf/pkg/types"
)

// Dump печатает индекс, тип и текущее значение каждого ключа в порядке объявления.
// Явно заданные из файла значения помечаются '*'
func (s *Store) Dump(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}

	if _, err := fmt.Fprintln(w, "idx type value"); err != nil {
		return err
	}
	for pos, k := range s.keys {
		sl := s.slots[pos]
		mark := " "
		if sl.set {
			mark = "*"
		}
		if _, err := fmt.Fprintf(w, "%d %s %s%s\n", k.Index, k.Kind(), mark, formatDumpValue(sl.value)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) String() string {
	var b strings.Builder
	if err := s.Dump(&b); err != nil {
		return "<" + err.Error() + ">"
	}
	return b.String()
}

func formatDumpValue(v types.Value) string {
	switch v.Kind {
	case types.KindFloat:
		return fmt.Sprintf("%.3f", v.Float)
	case types.KindBool:
		if v.Bool {
			return "1"
		}
		return "0"
	default:
		return v.String()
	}
}
