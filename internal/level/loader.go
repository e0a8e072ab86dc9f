package level

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed levels/*.yaml
var embeddedLevels embed.FS

// Load возвращает встроенную последовательность уровней в порядке имен файлов
func Load() ([]*Level, error) {
	entries, err := embeddedLevels.ReadDir("levels")
	if err != nil {
		return nil, fmt.Errorf("level: не удалось прочитать встроенные уровни: %w", err)
	}

	var levels []*Level
	for _, entry := range entries {
		data, err := embeddedLevels.ReadFile("levels/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("level: не удалось прочитать %s: %w", entry.Name(), err)
		}
		lvl, err := parse(entry.Name(), data)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}

	return levels, nil
}

// LoadDir читает последовательность уровней из каталога, заменяя встроенную
func LoadDir(dir string) ([]*Level, error) {
	names, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("level: не удалось перечислить %s: %w", dir, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("level: в %s нет файлов уровней", dir)
	}
	sort.Strings(names)

	var levels []*Level
	for _, name := range names {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("level: не удалось прочитать %s: %w", name, err)
		}
		lvl, err := parse(filepath.Base(name), data)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}

	return levels, nil
}

func parse(name string, data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("level: некорректный YAML в %s: %w", name, err)
	}
	if lvl.Name == "" {
		lvl.Name = name
	}
	if lvl.Finish.Radius <= 0 {
		return nil, fmt.Errorf("level: %s: у зоны финиша должен быть положительный радиус", name)
	}
	return &lvl, nil
}
