package parser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vovanwin/simpleconf/pkg/types"
)

type yamlEntry struct {
	Name        string `yaml:"name"`
	Index       *int   `yaml:"index"`
	Type        string `yaml:"type"`
	Default     any    `yaml:"default"`
	Description string `yaml:"description"`
}

type yamlSchema struct {
	Keys []yamlEntry `yaml:"keys"`
}

// ParseYAMLSchema читает schema.yaml. Порядок объявления сохраняется,
// index по умолчанию равен позиции ключа в списке
func ParseYAMLSchema(path string) ([]types.KeyDescriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение %s: %w", path, err)
	}

	var ys yamlSchema
	if err := yaml.Unmarshal(b, &ys); err != nil {
		return nil, fmt.Errorf("декодирование %s: %w", path, err)
	}

	keys := make([]types.KeyDescriptor, 0, len(ys.Keys))
	for i, ye := range ys.Keys {
		if ye.Name == "" {
			return nil, fmt.Errorf("ключ #%d: не задано name", i)
		}
		kd, err := entryToDescriptor(entry(ye), i)
		if err != nil {
			return nil, fmt.Errorf("ключ %q: %w", ye.Name, err)
		}
		keys = append(keys, kd)
	}

	return keys, nil
}
