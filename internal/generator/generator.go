package generator

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"go/token"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/vovanwin/simpleconf/pkg/types"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// reserved имена, занятые сгенерированным кодом
var reserved = map[string]bool{
	"Schema":   true,
	"New":      true,
	"Config":   true,
	"Store":    true,
	"LoadFile": true,
	"Close":    true,
}

// Options настройки генерации кода
type Options struct {
	OutputDir   string // Директория для сгенерированных файлов
	PackageName string // Имя пакета
	FileName    string // Имя файла (default: simpleconf_keys.go)
}

// DefaultOptions настройки по умолчанию
func DefaultOptions() Options {
	return Options{
		OutputDir:   "./internal/config",
		PackageName: "config",
		FileName:    "simpleconf_keys.go",
	}
}

// keyTemplateData данные для одного ключа в шаблоне
type keyTemplateData struct {
	Name           string
	Const          string // Имя константы индекса и геттера
	Index          int
	Description    string
	GoType         string // "string", "int", "float64", "bool"
	StoreMethod    string // "Text", "Int", "Float", "Bool"
	DefaultLiteral string // Литерал дефолта для кода
}

// Generate генерирует константы индексов, схему и типизированные геттеры
func Generate(opts Options, keys []types.KeyDescriptor) error {
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOptions().OutputDir
	}
	if opts.PackageName == "" {
		opts.PackageName = DefaultOptions().PackageName
	}
	if opts.FileName == "" {
		opts.FileName = DefaultOptions().FileName
	}

	if !token.IsIdentifier(opts.PackageName) {
		return fmt.Errorf("невалидное имя пакета %q", opts.PackageName)
	}

	data, err := buildKeyTemplateData(keys)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("создание директории: %w", err)
	}

	outFile := filepath.Join(opts.OutputDir, opts.FileName)
	return generateFromTemplate("keys", "templates/keys.go.tmpl", outFile, map[string]any{
		"Package": opts.PackageName,
		"Keys":    data,
	})
}

func buildKeyTemplateData(keys []types.KeyDescriptor) ([]keyTemplateData, error) {
	result := make([]keyTemplateData, 0, len(keys))
	seen := make(map[string]string, len(keys))

	for _, k := range keys {
		name := toGoName(k.Name)
		if !token.IsIdentifier(name) || !token.IsExported(name) {
			name = "Key" + name
		}
		if !token.IsIdentifier(name) || !token.IsExported(name) {
			return nil, fmt.Errorf("ключ %q: не удалось построить Go имя (%q)", k.Name, name)
		}
		if reserved[name] {
			return nil, fmt.Errorf("ключ %q: имя %s зарезервировано", k.Name, name)
		}
		if other, ok := seen[name]; ok {
			return nil, fmt.Errorf("ключи %q и %q дают одно Go имя %s", other, k.Name, name)
		}
		seen[name] = k.Name

		if k.Kind() == types.KindFloat && (math.IsInf(k.Default.Float, 0) || math.IsNaN(k.Default.Float)) {
			return nil, fmt.Errorf("ключ %q: дефолт %v нельзя записать литералом", k.Name, k.Default.Float)
		}

		result = append(result, keyTemplateData{
			Name:           k.Name,
			Const:          name,
			Index:          k.Index,
			Description:    k.Description,
			GoType:         k.Kind().String(),
			StoreMethod:    storeMethod(k.Kind()),
			DefaultLiteral: defaultLiteral(k.Default),
		})
	}
	return result, nil
}

// templateFuncs возвращает функции для использования в шаблонах
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatComment": formatComment,
		"hasComment":    hasComment,
		"quote":         strconv.Quote,
	}
}

func generateFromTemplate(tmplName, tmplFile, outFile string, data map[string]any) error {
	tmplB, err := templatesFS.ReadFile(tmplFile)
	if err != nil {
		return fmt.Errorf("чтение шаблона %s: %w", tmplName, err)
	}

	tmpl, err := template.New(tmplName).Funcs(templateFuncs()).Parse(string(tmplB))
	if err != nil {
		return fmt.Errorf("парсинг шаблона %s: %w", tmplName, err)
	}

	buf := &bytes.Buffer{}
	if err := tmpl.Execute(buf, data); err != nil {
		return fmt.Errorf("выполнение шаблона %s: %w", tmplName, err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		_ = os.WriteFile(outFile, buf.Bytes(), 0o644)
		return fmt.Errorf("форматирование %s: %w", tmplName, err)
	}

	return os.WriteFile(outFile, formatted, 0o644)
}

// formatComment форматирует комментарий для Go кода
func formatComment(comment string) string {
	if comment == "" {
		return ""
	}
	lines := strings.Split(comment, "\n")
	var result []string
	for _, line := range lines {
		result = append(result, "// "+line)
	}
	return strings.Join(result, "\n")
}

// hasComment проверяет есть ли комментарий
func hasComment(comment string) bool {
	return comment != ""
}

func storeMethod(k types.Kind) string {
	switch k {
	case types.KindText:
		return "Text"
	case types.KindInt:
		return "Int"
	case types.KindFloat:
		return "Float"
	case types.KindBool:
		return "Bool"
	default:
		return "Text"
	}
}

func defaultLiteral(v types.Value) string {
	switch v.Kind {
	case types.KindBool:
		return "types.BoolValue(" + strconv.FormatBool(v.Bool) + ")"
	case types.KindInt:
		return "types.IntValue(" + strconv.Itoa(v.Int) + ")"
	case types.KindFloat:
		s := strconv.FormatFloat(v.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return "types.FloatValue(" + s + ")"
	default:
		return "types.TextValue(" + strconv.Quote(v.Text) + ")"
	}
}

// toGoName конвертирует snake_case в CamelCase
func toGoName(s string) string {
	b := []rune(s)
	out := make([]rune, 0, len(b))
	capNext := true
	for _, r := range b {
		if r == '_' || r == '-' || r == ' ' || r == '.' {
			capNext = true
			continue
		}
		if capNext {
			if 'a' <= r && r <= 'z' {
				r = r - 'a' + 'A'
			}
			capNext = false
		}
		out = append(out, r)
	}
	return string(out)
}

// sortedKeys возвращает отсортированные ключи map
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
