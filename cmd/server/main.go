// rollball — сервер 3D-платформера с катящимся шаром.
//
// Использование:
//
//	rollball serve           - запустить игровой сервер
//	rollball levels          - показать последовательность уровней
//	rollball runs            - показать сохраненные прохождения
//
// Глобальные флаги:
//
//	--config <путь>  - путь к YAML-конфигурации
//	--db <путь>      - путь к базе результатов (по умолчанию ~/.rollball/runs.db)
//	--debug          - подробное логирование
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagDBPath    string
	flagLevelsDir string
	flagDebug     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rollball",
	Short: "Сервер 3D-платформера с катящимся шаром",
	Long: `rollball запускает игровое ядро платформера и отдает его состояние
браузерному клиенту по WebSocket: физика, препятствия, предметы и уровни
считаются на сервере, клиент только рисует и шлет ввод.

Команды:
  serve    - запустить игровой сервер
  levels   - показать последовательность уровней
  runs     - показать сохраненные прохождения

Примеры:
  rollball serve
  rollball serve --addr :9000 --levels ./my-levels
  rollball runs --limit 5`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "путь к YAML-конфигурации")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.rollball/runs.db", "путь к базе результатов")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "каталог с YAML-уровнями вместо встроенных")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "подробное логирование")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(runsCmd)
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
