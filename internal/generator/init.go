package generator

import (
	"fmt"
	"os"
	"path/filepath"
)

var initFiles = map[string]string{
	"schema.toml": `# schema.toml: схема ключей конфигурации
# Индексы задаются явно и используются для чтения значений

[keys]
# Высота, м
height = { index = 0, type = "float", default = 1.0 }
# Ширина, м
width = { index = 1, type = "float", default = 2.0 }
area = { index = 2, type = "float", default = 2.0, description = "Площадь, м²" }
volume = { index = 3, type = "float", default = 4.0, description = "Объём, м³" }
name = { index = 4, type = "string", default = "rectangle", description = "Название" }
address = { index = 5, type = "string", default = "right here", description = "Адрес" }
`,

	"house.cfg": `# this line is ignored
// so is this one

area=1.0
width=0.5
height=0.7
name=my-own-house
`,
}

// Init создаёт стартовые schema.toml и house.cfg в указанной директории
func Init(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("создание директории %s: %w", dir, err)
	}

	for _, name := range sortedKeys(initFiles) {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("  skip: %s (already exists)\n", name)
			continue
		}
		if err := os.WriteFile(path, []byte(initFiles[name]), 0o644); err != nil {
			return fmt.Errorf("запись %s: %w", name, err)
		}
		fmt.Printf("  created: %s\n", name)
	}

	return nil
}
