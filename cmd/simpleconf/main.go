package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vovanwin/simpleconf/internal/generator"
	"github.com/vovanwin/simpleconf/internal/parser"
	"github.com/vovanwin/simpleconf/store"
	"github.com/vovanwin/simpleconf/xdg"
)

// fileList флаг, который можно указать несколько раз
type fileList []string

func (f *fileList) String() string { return strings.Join(*f, ",") }

func (f *fileList) Set(v string) error {
	*f = append(*f, v)
	return nil
}

type options struct {
	schema   string
	configs  fileList
	app      string
	strict   bool
	generate bool
	init     string
	gen      generator.Options
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("simpleconf", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	opts.gen = generator.DefaultOptions()

	fs.StringVar(&opts.schema, "schema", "", "файл схемы (.toml, .yaml)")
	fs.Var(&opts.configs, "config", "конфиг файл key=value (можно указать несколько раз)")
	fs.StringVar(&opts.app, "app", "simpleconf", "имя приложения для поиска <app>/<app>.conf в XDG директориях")
	fs.BoolVar(&opts.strict, "strict", false, "отклонять нечисловые значения и завершаться с ошибкой")
	fs.BoolVar(&opts.generate, "gen", false, "сгенерировать Go код по схеме")
	fs.StringVar(&opts.init, "init", "", "создать стартовые schema.toml и house.cfg в директории")
	fs.StringVar(&opts.gen.OutputDir, "output", opts.gen.OutputDir, "директория для генерации")
	fs.StringVar(&opts.gen.PackageName, "package", opts.gen.PackageName, "имя пакета")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if err := execute(opts, stdout, logger); err != nil {
		fmt.Fprintf(stderr, "\n✗ Ошибка: %v\n", err)
		return 1
	}
	return 0
}

func execute(opts options, stdout io.Writer, logger *slog.Logger) error {
	if opts.init != "" {
		fmt.Fprintf(stdout, "Инициализация: %s\n", opts.init)
		return generator.Init(opts.init)
	}

	if opts.schema == "" {
		return errors.New("не задан -schema")
	}

	keys, err := parser.ParseSchemaFile(opts.schema)
	if err != nil {
		return err
	}

	if opts.generate {
		if err := generator.Generate(opts.gen, keys); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "✓ Сгенерировано: %s\n", filepath.Join(opts.gen.OutputDir, opts.gen.FileName))
		return nil
	}

	storeOpts := []store.Option{store.WithLogger(logger)}
	if opts.strict {
		storeOpts = append(storeOpts, store.WithStrictNumbers())
	}

	s, err := store.New(keys, storeOpts...)
	if err != nil {
		return err
	}
	defer s.Close()

	files := []string(opts.configs)
	if len(files) == 0 {
		files = xdg.ConfigFiles(filepath.Join(opts.app, opts.app+".conf"))
		if len(files) == 0 {
			logger.Warn("конфиг файлы не найдены, используются значения по умолчанию", slog.String("app", opts.app))
		}
	}

	var all store.Diagnostics
	for _, f := range files {
		diags, err := s.LoadFile(f)
		all = append(all, diags...)
		if err != nil && !errors.Is(err, store.ErrUnreadable) {
			return err
		}
	}

	if err := s.Dump(stdout); err != nil {
		return err
	}

	if opts.strict {
		if err := all.Err(); err != nil {
			return err
		}
	}
	return nil
}
