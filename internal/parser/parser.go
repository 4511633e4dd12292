package parser

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/drone/envsubst"

	"github.com/vovanwin/simpleconf/pkg/types"
)

// commentMap хранит комментарии для ключей (section.key -> comment)
type commentMap map[string]string

// ParseSchemaFile читает файл схемы (TOML или YAML, по расширению) и возвращает
// дескрипторы ключей
func ParseSchemaFile(path string) ([]types.KeyDescriptor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOMLSchema(path)
	case ".yaml", ".yml":
		return ParseYAMLSchema(path)
	default:
		return nil, fmt.Errorf("схема %s: неизвестный формат (ожидается .toml, .yaml или .yml)", path)
	}
}

// extractComments парсит TOML файл и извлекает комментарии перед каждым ключом
func extractComments(path string) (commentMap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	comments := make(commentMap)
	scanner := bufio.NewScanner(file)

	var currentSection string
	var pendingComments []string

	sectionRe := regexp.MustCompile(`^\s*\[([^\]]+)\]\s*$`)
	keyRe := regexp.MustCompile(`^\s*([a-zA-Z_][a-zA-Z0-9_.-]*)\s*=`)
	commentRe := regexp.MustCompile(`^\s*#\s*(.*)$`)

	for scanner.Scan() {
		line := scanner.Text()

		if match := sectionRe.FindStringSubmatch(line); match != nil {
			currentSection = match[1]
			pendingComments = nil
			continue
		}

		if match := commentRe.FindStringSubmatch(line); match != nil {
			comment := strings.TrimSpace(match[1])
			if comment != "" {
				pendingComments = append(pendingComments, comment)
			}
			continue
		}

		if match := keyRe.FindStringSubmatch(line); match != nil {
			fullKey := match[1]
			if currentSection != "" {
				fullKey = currentSection + "." + fullKey
			}
			if len(pendingComments) > 0 {
				comments[fullKey] = strings.Join(pendingComments, "\n")
				pendingComments = nil
			}
			continue
		}

		// Пустая строка сбрасывает накопленные комментарии
		if strings.TrimSpace(line) == "" {
			pendingComments = nil
		}
	}

	return comments, scanner.Err()
}

// entry общее представление ключа из файла схемы
type entry struct {
	Name        string
	Index       *int
	Type        string
	Default     any
	Description string
}

func entryToDescriptor(e entry, fallbackIndex int) (types.KeyDescriptor, error) {
	kind, err := types.ParseKind(e.Type)
	if err != nil {
		return types.KeyDescriptor{}, err
	}

	def, err := coerceDefault(e.Default, kind)
	if err != nil {
		return types.KeyDescriptor{}, fmt.Errorf("default: %w", err)
	}

	idx := fallbackIndex
	if e.Index != nil {
		idx = *e.Index
	}

	return types.KeyDescriptor{
		Name:        e.Name,
		Index:       idx,
		Default:     def,
		Description: e.Description,
	}, nil
}

// coerceDefault приводит дефолт из файла к типу ключа. Отсутствующий дефолт даёт нулевое значение
func coerceDefault(val any, kind types.Kind) (types.Value, error) {
	switch kind {
	case types.KindBool:
		if val == nil {
			return types.BoolValue(false), nil
		}
		v, ok := val.(bool)
		if !ok {
			return types.Value{}, fmt.Errorf("ожидался bool, получен %T", val)
		}
		return types.BoolValue(v), nil
	case types.KindInt:
		switch v := val.(type) {
		case nil:
			return types.IntValue(0), nil
		case int64:
			return types.IntValue(int(v)), nil
		case int:
			return types.IntValue(v), nil
		default:
			return types.Value{}, fmt.Errorf("ожидался int, получен %T", val)
		}
	case types.KindFloat:
		switch v := val.(type) {
		case nil:
			return types.FloatValue(0), nil
		case float64:
			return types.FloatValue(v), nil
		case float32:
			return types.FloatValue(float64(v)), nil
		case int64:
			return types.FloatValue(float64(v)), nil
		case int:
			return types.FloatValue(float64(v)), nil
		default:
			return types.Value{}, fmt.Errorf("ожидался float, получен %T", val)
		}
	case types.KindText:
		if val == nil {
			return types.TextValue(""), nil
		}
		v, ok := val.(string)
		if !ok {
			return types.Value{}, fmt.Errorf("ожидался string, получен %T", val)
		}
		expanded, err := envsubst.Eval(v, os.Getenv)
		if err != nil {
			return types.Value{}, fmt.Errorf("подстановка переменных в %q: %w", v, err)
		}
		return types.TextValue(expanded), nil
	default:
		return types.Value{}, fmt.Errorf("неизвестный тип %d", kind)
	}
}
