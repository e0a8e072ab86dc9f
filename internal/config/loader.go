package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию из YAML файла.
// Порядок поиска: явный путь -> ./configs/rollball.yaml -> значения по умолчанию.
func Load(customPath string) (Config, error) {
	cfg := Default()

	// Явно указанный путь обязан существовать
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: не удалось прочитать %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: не удалось разобрать %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Локальная директория configs — опциональна
	if data, err := os.ReadFile("configs/rollball.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: не удалось разобрать configs/rollball.yaml: %w", err)
		}
	}

	return cfg, nil
}
