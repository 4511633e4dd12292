package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/vovanwin/simpleconf/internal/parser"
	"github.com/vovanwin/simpleconf/pkg/types"
	"github.com/vovanwin/simpleconf/store"
	"github.com/vovanwin/simpleconf/xdg"
)

const (
	Height = iota
	Width
	Area
	Volume
	Name
	Address
)

func schema() []types.KeyDescriptor {
	return []types.KeyDescriptor{
		{Name: "height", Index: Height, Default: types.FloatValue(1.0)},
		{Name: "width", Index: Width, Default: types.FloatValue(2.0)},
		{Name: "area", Index: Area, Default: types.FloatValue(2.0)},
		{Name: "volume", Index: Volume, Default: types.FloatValue(4.0)},
		{Name: "name", Index: Name, Default: types.TextValue("rectangle")},
		{Name: "address", Index: Address, Default: types.TextValue("right here")},
	}
}

func main() {
	path := flag.String("config", "", "файл конфигурации (по умолчанию $XDG_CONFIG_HOME/house/house.cfg)")
	schemaPath := flag.String("schema", "", "файл схемы вместо встроенной (например ./schema.yaml)")
	flag.Parse()

	keys := schema()
	if *schemaPath != "" {
		parsed, err := parser.ParseSchemaFile(*schemaPath)
		if err != nil {
			log.Fatalf("Ошибка загрузки схемы: %v", err)
		}
		keys = parsed
	}

	if *path == "" {
		dir, err := xdg.ConfigHome()
		if err != nil {
			log.Fatalf("Ошибка поиска конфига: %v", err)
		}
		*path = dir + "/house/house.cfg"
	}

	cfg, err := store.New(keys, store.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	if err != nil {
		log.Fatalf("Ошибка схемы: %v", err)
	}
	defer cfg.Close()

	// Нечитаемый файл не фатален: остаются значения по умолчанию
	if _, err := cfg.LoadFile(*path); err != nil {
		fmt.Printf("Конфиг не загружен: %v\n", err)
	}

	area, _ := cfg.Float(Area)
	name, _ := cfg.Text(Name)

	fmt.Println("=== Конфигурация загружена ===")
	fmt.Printf("The configured area is %.3f\n", area)
	fmt.Printf("Name: %s (из файла: %v)\n", name, cfg.IsSet(Name))
	fmt.Println()
	fmt.Print(cfg)
}
