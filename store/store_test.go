package store

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovanwin/simpleconf/internal/schema"
	"github.com/vovanwin/simpleconf/pkg/types"
)

const (
	Height = iota
	Width
	Area
	Volume
	Name
	Address
	Floors
	Garage
)

func houseSchema() []types.KeyDescriptor {
	return []types.KeyDescriptor{
		{Name: "height", Index: Height, Default: types.FloatValue(1.0)},
		{Name: "width", Index: Width, Default: types.FloatValue(2.0)},
		{Name: "area", Index: Area, Default: types.FloatValue(2.0)},
		{Name: "volume", Index: Volume, Default: types.FloatValue(4.0)},
		{Name: "name", Index: Name, Default: types.TextValue("rectangle")},
		{Name: "address", Index: Address, Default: types.TextValue("right here")},
		{Name: "floors", Index: Floors, Default: types.IntValue(1)},
		{Name: "garage", Index: Garage, Default: types.BoolValue(true)},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHouse(t *testing.T, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s, err := New(houseSchema(), opts...)
	if err != nil {
		t.Fatalf("New вернул ошибку: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func snapshot(s *Store) map[int]struct {
	v   types.Value
	set bool
} {
	out := make(map[int]struct {
		v   types.Value
		set bool
	})
	s.Each(func(k types.KeyDescriptor, v types.Value, set bool) {
		out[k.Index] = struct {
			v   types.Value
			set bool
		}{v, set}
	})
	return out
}

func TestNewFillsDefaults(t *testing.T) {
	s := newHouse(t)

	for _, k := range houseSchema() {
		v, ok := s.Read(k.Index)
		if !ok {
			t.Fatalf("Read(%d) вернул false", k.Index)
		}
		if v != k.Default {
			t.Errorf("ключ %q = %+v, ожидался дефолт %+v", k.Name, v, k.Default)
		}
		if s.IsSet(k.Index) {
			t.Errorf("ключ %q не должен быть помечен как заданный", k.Name)
		}
	}
}

func TestNewInvalidSchema(t *testing.T) {
	keys := append(houseSchema(), types.KeyDescriptor{Name: "height", Index: 99, Default: types.FloatValue(0)})

	_, err := New(keys, WithLogger(quietLogger()))
	if !errors.Is(err, schema.ErrInvalid) {
		t.Errorf("ожидалась schema.ErrInvalid, получено %v", err)
	}
}

func TestNewCopiesSchema(t *testing.T) {
	keys := houseSchema()
	s, err := New(keys, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	keys[Name].Default = types.TextValue("changed")
	keys[Name].Name = "renamed"

	if v, _ := s.Text(Name); v != "rectangle" {
		t.Errorf("name = %q, схема должна копироваться при создании", v)
	}
	if _, ok := s.Lookup("name"); !ok {
		t.Error("Lookup(name) должен находить ключ из исходной схемы")
	}
}

func TestSparseIndices(t *testing.T) {
	keys := []types.KeyDescriptor{
		{Name: "low", Index: 3, Default: types.IntValue(3)},
		{Name: "high", Index: 100, Default: types.IntValue(100)},
	}
	s, err := New(keys, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if v, err := s.Int(100); err != nil || v != 100 {
		t.Errorf("Int(100) = %d, %v, ожидалось 100", v, err)
	}
	if _, ok := s.Read(0); ok {
		t.Error("Read(0) должен вернуть false для незаявленного индекса")
	}
}

func TestTypedGetters(t *testing.T) {
	s := newHouse(t)

	if v, err := s.Float(Height); err != nil || v != 1.0 {
		t.Errorf("Float(Height) = %v, %v", v, err)
	}
	if v, err := s.Text(Address); err != nil || v != "right here" {
		t.Errorf("Text(Address) = %q, %v", v, err)
	}
	if v, err := s.Int(Floors); err != nil || v != 1 {
		t.Errorf("Int(Floors) = %d, %v", v, err)
	}
	if v, err := s.Bool(Garage); err != nil || !v {
		t.Errorf("Bool(Garage) = %v, %v", v, err)
	}

	if _, err := s.Int(Height); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("Int(Height): ожидалась ErrKindMismatch, получено %v", err)
	}
	if _, err := s.Text(42); !errors.Is(err, ErrUnknownIndex) {
		t.Errorf("Text(42): ожидалась ErrUnknownIndex, получено %v", err)
	}
}

func TestLookupAndKeys(t *testing.T) {
	s := newHouse(t)

	k, ok := s.Lookup("volume")
	if !ok || k.Index != Volume || k.Kind() != types.KindFloat {
		t.Errorf("Lookup(volume) = %+v, %v", k, ok)
	}
	if _, ok := s.Lookup("roof"); ok {
		t.Error("Lookup(roof) должен вернуть false")
	}

	keys := s.Keys()
	if len(keys) != len(houseSchema()) {
		t.Fatalf("Keys() вернул %d ключей", len(keys))
	}
	if keys[0].Name != "height" || keys[len(keys)-1].Name != "garage" {
		t.Errorf("Keys() должен сохранять порядок объявления: %v", keys)
	}
}

func TestClose(t *testing.T) {
	s, err := New(houseSchema(), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("повторный Close должен быть no-op, получено %v", err)
	}

	if _, ok := s.Read(Height); ok {
		t.Error("Read после Close должен вернуть false")
	}
	if _, err := s.Float(Height); !errors.Is(err, ErrClosed) {
		t.Errorf("Float после Close: ожидалась ErrClosed, получено %v", err)
	}
	if _, err := s.Load(nil, "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("Load после Close: ожидалась ErrClosed, получено %v", err)
	}
	if err := s.Dump(io.Discard); !errors.Is(err, ErrClosed) {
		t.Errorf("Dump после Close: ожидалась ErrClosed, получено %v", err)
	}
}
