package session

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNoSession возвращается, когда пользователь не вошел в систему
var ErrNoSession = errors.New("no active session")

// Session - сохраненная личность пользователя.
// Из UserID выводится учетная запись для авторизованных запросов.
type Session struct {
	UserID int
	Email  string
	Name   string
}

// Store хранит текущую сессию в локальной sqlite базе.
// Сетевых вызовов не делает.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open открывает (и при необходимости создает) файл сессии
func Open(path string, logger *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// init инициализирует таблицу сессии
func (s *Store) init() error {
	// Одна строка с фиксированным id: активная сессия всегда единственная
	migrationSQL := `
CREATE TABLE if NOT EXISTS session (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    user_id INTEGER NOT NULL,
    email TEXT NOT NULL,
    NAME TEXT NOT NULL,
    saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

	if _, err := s.db.Exec(migrationSQL); err != nil {
		return fmt.Errorf("init session schema: %w", err)
	}

	return nil
}

// Save записывает сессию, затирая предыдущую
func (s *Store) Save(sess Session) error {
	_, err := s.db.Exec(`
INSERT INTO session (id, user_id, email, NAME) VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, email = excluded.email, NAME = excluded.NAME, saved_at = CURRENT_TIMESTAMP`,
		sess.UserID, sess.Email, sess.Name)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.logger.Debug("Session saved",
		slog.Int("user_id", sess.UserID),
		slog.String("name", sess.Name))

	return nil
}

// Current возвращает активную сессию или ErrNoSession
func (s *Store) Current() (*Session, error) {
	var sess Session

	err := s.db.QueryRow(`SELECT user_id, email, NAME FROM session WHERE id = 1`).
		Scan(&sess.UserID, &sess.Email, &sess.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}

	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	return &sess, nil
}

// Clear удаляет сессию (logout)
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.logger.Debug("Session cleared")

	return nil
}

// Close закрывает базу
func (s *Store) Close() error {
	return s.db.Close()
}
