package parser

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/vovanwin/simpleconf/pkg/types"
)

// tomlEntry представляет один ключ из секции [keys]
type tomlEntry struct {
	Index       *int   `toml:"index"`
	Type        string `toml:"type"`
	Default     any    `toml:"default"`
	Description string `toml:"description"`
}

// tomlSchema корневая структура schema.toml
type tomlSchema struct {
	Keys map[string]tomlEntry `toml:"keys"`
}

// ParseTOMLSchema читает schema.toml и возвращает дескрипторы, отсортированные по индексу.
// Комментарий над ключом становится его описанием, если description не задан
func ParseTOMLSchema(path string) ([]types.KeyDescriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение %s: %w", path, err)
	}

	var ts tomlSchema
	if _, err := toml.Decode(string(b), &ts); err != nil {
		return nil, fmt.Errorf("декодирование %s: %w", path, err)
	}

	if len(ts.Keys) == 0 {
		return nil, nil
	}

	comments, err := extractComments(path)
	if err != nil {
		return nil, fmt.Errorf("извлечение комментариев %s: %w", path, err)
	}

	var keys []types.KeyDescriptor
	for name, te := range ts.Keys {
		if te.Index == nil {
			return nil, fmt.Errorf("ключ %q: не задан index", name)
		}
		desc := te.Description
		if desc == "" {
			desc = comments["keys."+name]
		}
		kd, err := entryToDescriptor(entry{
			Name:        name,
			Index:       te.Index,
			Type:        te.Type,
			Default:     te.Default,
			Description: desc,
		}, 0)
		if err != nil {
			return nil, fmt.Errorf("ключ %q: %w", name, err)
		}
		keys = append(keys, kd)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Index != keys[j].Index {
			return keys[i].Index < keys[j].Index
		}
		return keys[i].Name < keys[j].Name
	})

	return keys, nil
}
