// Package storage хранит результаты прохождений в SQLite.
// Использует чистый Go-драйвер modernc.org/sqlite, без CGO.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store управляет соединением с базой результатов
type Store struct {
	db *sql.DB
}

// RunEntry — одно сохраненное прохождение уровня
type RunEntry struct {
	ID         int64
	LevelIndex int
	LevelName  string
	Duration   float64
	Coins      int
	CoinsTotal int
	Score      int
	CreatedAt  time.Time
}

// LevelStats — агрегированная статистика по уровню
type LevelStats struct {
	LevelIndex int
	Runs       int
	BestTime   float64
	BestScore  int
}

// Open открывает или создает базу по указанному пути и применяет миграции
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: не удалось раскрыть домашний каталог: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось открыть базу: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: нет соединения с базой: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: миграция не прошла: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_index INTEGER NOT NULL,
			level_name TEXT NOT NULL,
			duration_secs REAL NOT NULL,
			coins INTEGER NOT NULL DEFAULT 0,
			coins_total INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level ON runs(level_index);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(level_index, duration_secs ASC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close закрывает соединение с базой
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun сохраняет прохождение уровня
func (s *Store) SaveRun(levelIndex int, levelName string, duration float64, coins, coinsTotal, score int) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (level_index, level_name, duration_secs, coins, coins_total, score)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		levelIndex, levelName, duration, coins, coinsTotal, score,
	)
	if err != nil {
		return fmt.Errorf("storage: не удалось сохранить прохождение: %w", err)
	}
	return nil
}

// BestTime возвращает лучшее время прохождения уровня; 0, если прохождений нет
func (s *Store) BestTime(levelIndex int) (float64, error) {
	var best sql.NullFloat64
	err := s.db.QueryRow(
		"SELECT MIN(duration_secs) FROM runs WHERE level_index = ?",
		levelIndex,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: не удалось запросить лучшее время: %w", err)
	}
	if !best.Valid {
		return 0, nil
	}
	return best.Float64, nil
}

// RecentRuns возвращает последние прохождения, новые первыми
func (s *Store) RecentRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, level_index, level_name, duration_secs, coins, coins_total, score, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось запросить прохождения: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.LevelIndex, &e.LevelName, &e.Duration,
			&e.Coins, &e.CoinsTotal, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: не удалось прочитать строку: %w", err)
		}
		e.CreatedAt = parseCreatedAt(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: ошибка обхода строк: %w", err)
	}

	return entries, nil
}

// Stats возвращает агрегированную статистику по уровню
func (s *Store) Stats(levelIndex int) (*LevelStats, error) {
	stats := &LevelStats{LevelIndex: levelIndex}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MIN(duration_secs), 0), COALESCE(MAX(score), 0)
		 FROM runs WHERE level_index = ?`,
		levelIndex,
	).Scan(&stats.Runs, &stats.BestTime, &stats.BestScore)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось получить статистику: %w", err)
	}

	return stats, nil
}

// Драйвер отдает created_at либо как time.Time, либо как строку
func parseCreatedAt(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
