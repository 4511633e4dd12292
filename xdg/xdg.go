// Package xdg находит базовые директории по переменным окружения XDG
// с запасным путём в домашней директории пользователя.
package xdg

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"os/user"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrNoHome       = errors.New("не удалось определить домашнюю директорию")
	ErrAbsoluteBase = errors.New("путь по умолчанию должен быть относительным")
)

const (
	ConfigHomeEnv     = "XDG_CONFIG_HOME"
	ConfigHomeDefault = ".config"
	ConfigDirsEnv     = "XDG_CONFIG_DIRS"
	ConfigDirsDefault = "/etc/xdg"
)

// Path возвращает значение envVar, если это абсолютный путь, иначе home/relDefault.
// Завершающие слэши удаляются
func Path(envVar, relDefault string) (string, error) {
	if strings.HasPrefix(relDefault, "/") {
		return "", fmt.Errorf("%w: %q", ErrAbsoluteBase, relDefault)
	}

	if dir := os.Getenv(envVar); strings.HasPrefix(dir, "/") {
		return stripSlash(dir), nil
	}

	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return stripSlash(strings.TrimRight(home, "/") + "/" + relDefault), nil
}

// ConfigHome путь $XDG_CONFIG_HOME или ~/.config
func ConfigHome() (string, error) {
	return Path(ConfigHomeEnv, ConfigHomeDefault)
}

// ConfigDirs системные директории конфигов из $XDG_CONFIG_DIRS, по умолчанию /etc/xdg
func ConfigDirs() []string {
	var dirs []string
	for dir := range All(ConfigDirsEnv, ConfigDirsDefault, 0) {
		dirs = append(dirs, dir)
	}
	return dirs
}

// homeDir берёт $HOME, если он абсолютный, иначе домашнюю директорию из базы пользователей
func homeDir() (string, error) {
	if home := os.Getenv("HOME"); strings.HasPrefix(home, "/") {
		return home, nil
	}

	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoHome, err)
	}
	if !strings.HasPrefix(u.HomeDir, "/") {
		return "", ErrNoHome
	}
	return u.HomeDir, nil
}

// stripSlash удаляет завершающие '/', корень остаётся "/"
func stripSlash(p string) string {
	if s := strings.TrimRight(p, "/"); s != "" {
		return s
	}
	return "/"
}

// Paths итератор по списку директорий через ':'
type Paths struct {
	rest    string
	maxIter int
	iter    int
	done    bool
}

// NewPaths создаёт итератор по $envVar (если задан и не пуст) или defaults.
// maxIter <= 0 снимает ограничение на число вызовов Next
func NewPaths(envVar, defaults string, maxIter int) *Paths {
	list := os.Getenv(envVar)
	if list == "" {
		list = defaults
	}
	return &Paths{rest: list, maxIter: maxIter}
}

// Next возвращает следующий абсолютный путь списка. Относительные и пустые сегменты пропускаются
func (p *Paths) Next() (string, bool) {
	if p.done || (p.maxIter > 0 && p.iter >= p.maxIter) {
		p.done = true
		return "", false
	}
	p.iter++

	for {
		if p.rest == "" {
			p.done = true
			return "", false
		}

		seg, rest, _ := strings.Cut(p.rest, ":")
		p.rest = rest

		if strings.HasPrefix(seg, "/") {
			return stripSlash(seg), true
		}
	}
}

// All адаптер Paths для range-over-func
func All(envVar, defaults string, maxIter int) iter.Seq[string] {
	return func(yield func(string) bool) {
		p := NewPaths(envVar, defaults, maxIter)
		for {
			path, ok := p.Next()
			if !ok || !yield(path) {
				return
			}
		}
	}
}

// ConfigFiles возвращает существующие файлы rel в директориях конфигов
// от наименьшего приоритета к наибольшему: системные директории в обратном порядке,
// затем $XDG_CONFIG_HOME. Загрузка в этом порядке даёт приоритет пользовательскому файлу
func ConfigFiles(rel string) []string {
	var dirs []string
	for _, dir := range slices.Backward(ConfigDirs()) {
		dirs = append(dirs, dir)
	}
	if home, err := ConfigHome(); err == nil {
		dirs = append(dirs, home)
	}

	var files []string
	for _, dir := range dirs {
		path := filepath.Join(dir, rel)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			files = append(files, path)
		}
	}
	return files
}
