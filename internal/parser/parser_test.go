package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovanwin/simpleconf/pkg/types"
)

func TestParseTOMLSchema(t *testing.T) {
	content := `
[keys]
# Высота дома
height = { index = 0, type = "float", default = 1.0 }
width = { index = 1, type = "float", default = 2 }
floors = { index = 2, type = "int", default = 3, description = "Этажи" }
garage = { index = 3, type = "bool", default = true }
name = { index = 4, type = "string", default = "rectangle" }
`
	path := writeTempFile(t, "schema.toml", content)

	keys, err := ParseSchemaFile(path)
	if err != nil {
		t.Fatalf("ParseSchemaFile вернул ошибку: %v", err)
	}

	if len(keys) != 5 {
		t.Fatalf("ожидалось 5 ключей, получено %d", len(keys))
	}

	expected := []types.KeyDescriptor{
		{Name: "height", Index: 0, Default: types.FloatValue(1.0), Description: "Высота дома"},
		{Name: "width", Index: 1, Default: types.FloatValue(2.0)},
		{Name: "floors", Index: 2, Default: types.IntValue(3), Description: "Этажи"},
		{Name: "garage", Index: 3, Default: types.BoolValue(true)},
		{Name: "name", Index: 4, Default: types.TextValue("rectangle")},
	}

	for i, want := range expected {
		if keys[i] != want {
			t.Errorf("ключ #%d = %+v, ожидалось %+v", i, keys[i], want)
		}
	}
}

func TestParseTOMLSchema_MissingIndex(t *testing.T) {
	content := `
[keys]
height = { type = "float", default = 1.0 }
`
	path := writeTempFile(t, "schema.toml", content)

	_, err := ParseSchemaFile(path)
	if err == nil {
		t.Fatal("ожидалась ошибка для ключа без index")
	}
	if !strings.Contains(err.Error(), "не задан index") {
		t.Errorf("неожиданная ошибка: %v", err)
	}
}

func TestParseTOMLSchema_InvalidType(t *testing.T) {
	content := `
[keys]
bad = { index = 0, type = "map", default = false }
`
	path := writeTempFile(t, "schema.toml", content)

	if _, err := ParseSchemaFile(path); err == nil {
		t.Fatal("ожидалась ошибка для невалидного типа")
	}
}

func TestParseTOMLSchema_TypeDefaultMismatch(t *testing.T) {
	content := `
[keys]
bad = { index = 0, type = "bool", default = 42 }
`
	path := writeTempFile(t, "schema.toml", content)

	if _, err := ParseSchemaFile(path); err == nil {
		t.Fatal("ожидалась ошибка для несовпадения type/default")
	}
}

func TestParseTOMLSchema_Empty(t *testing.T) {
	path := writeTempFile(t, "schema.toml", "[keys]\n")

	keys, err := ParseSchemaFile(path)
	if err != nil {
		t.Fatalf("ParseSchemaFile: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("ожидалось 0 ключей, получено %d", len(keys))
	}
}

func TestParseTOMLSchema_Invalid(t *testing.T) {
	path := writeTempFile(t, "schema.toml", `это не валидный TOML [[[`)

	if _, err := ParseSchemaFile(path); err == nil {
		t.Error("ожидалась ошибка для невалидного TOML")
	}
}

func TestParseYAMLSchema(t *testing.T) {
	content := `
keys:
  - name: name
    type: string
    default: rectangle
  - name: height
    type: float
    default: 1
  - name: floors
    index: 7
    type: int
    default: 2
    description: Этажи
  - name: garage
    type: bool
`
	path := writeTempFile(t, "schema.yaml", content)

	keys, err := ParseSchemaFile(path)
	if err != nil {
		t.Fatalf("ParseSchemaFile вернул ошибку: %v", err)
	}

	expected := []types.KeyDescriptor{
		{Name: "name", Index: 0, Default: types.TextValue("rectangle")},
		{Name: "height", Index: 1, Default: types.FloatValue(1)},
		{Name: "floors", Index: 7, Default: types.IntValue(2), Description: "Этажи"},
		{Name: "garage", Index: 3, Default: types.BoolValue(false)},
	}

	if len(keys) != len(expected) {
		t.Fatalf("ожидалось %d ключей, получено %d", len(expected), len(keys))
	}
	for i, want := range expected {
		if keys[i] != want {
			t.Errorf("ключ #%d = %+v, ожидалось %+v", i, keys[i], want)
		}
	}
}

func TestParseYAMLSchema_MissingName(t *testing.T) {
	content := `
keys:
  - type: int
`
	path := writeTempFile(t, "schema.yml", content)

	if _, err := ParseSchemaFile(path); err == nil {
		t.Fatal("ожидалась ошибка для ключа без name")
	}
}

func TestParseSchemaFile_TextInterpolation(t *testing.T) {
	t.Setenv("HOUSE_OWNER", "alice")

	content := `
keys:
  - name: address
    type: string
    default: "${HOUSE_OWNER}/street"
`
	path := writeTempFile(t, "schema.yaml", content)

	keys, err := ParseSchemaFile(path)
	if err != nil {
		t.Fatalf("ParseSchemaFile: %v", err)
	}
	if keys[0].Default.Text != "alice/street" {
		t.Errorf("default = %q, ожидалось %q", keys[0].Default.Text, "alice/street")
	}
}

func TestParseSchemaFile_UnknownExtension(t *testing.T) {
	path := writeTempFile(t, "schema.ini", "")

	if _, err := ParseSchemaFile(path); err == nil {
		t.Error("ожидалась ошибка для неизвестного расширения")
	}
}

func TestParseSchemaFile_NotFound(t *testing.T) {
	if _, err := ParseSchemaFile("/несуществующий/путь/schema.toml"); err == nil {
		t.Error("ожидалась ошибка для несуществующего файла")
	}
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
