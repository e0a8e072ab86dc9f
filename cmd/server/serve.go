package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rollball/internal/config"
	"rollball/internal/game"
	"rollball/internal/level"
	"rollball/internal/storage"
	"rollball/internal/transport/ws"
)

var (
	flagAddr   string
	flagStatic string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить игровой сервер",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "адрес прослушивания (перекрывает конфигурацию)")
	serveCmd.Flags().StringVar(&flagStatic, "static", "", "директория статики клиента (перекрывает конфигурацию)")
}

func runServe() error {
	logger := newLogger()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Net.Addr = flagAddr
	}
	if flagStatic != "" {
		cfg.Net.StaticDir = flagStatic
	}

	levels, err := loadLevels()
	if err != nil {
		return err
	}
	logger.Info("Уровни загружены", "count", len(levels))

	store, err := openStore(flagDBPath)
	if err != nil {
		return err
	}

	session := game.NewSession(cfg, levels, logger)
	if store != nil {
		defer store.Close()
		session.SetRecorder(store)
	} else {
		logger.Info("Хранилище результатов отключено")
	}

	server := ws.NewServer(session, cfg.Net, logger)

	if err := session.Start(); err != nil {
		return err
	}
	defer session.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", server.HandleWS)
	if _, err := os.Stat(cfg.Net.StaticDir); err == nil {
		mux.Handle("/", http.FileServer(http.Dir(cfg.Net.StaticDir)))
	}

	httpServer := &http.Server{Addr: cfg.Net.Addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Сервер слушает", "addr", cfg.Net.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("сервер остановился: %w", err)
	case sig := <-sigCh:
		logger.Info("Получен сигнал, завершение", "signal", sig)
		return httpServer.Close()
	}
}

// openStore открывает хранилище результатов.
// Пустой путь осознанно отключает персистентность: сервер работает,
// результаты прохождений не сохраняются.
func openStore(path string) (*storage.Store, error) {
	if path == "" {
		return nil, nil
	}
	return storage.Open(path)
}

func loadLevels() ([]*level.Level, error) {
	if flagLevelsDir != "" {
		return level.LoadDir(flagLevelsDir)
	}
	return level.Load()
}
