// Package storage реализует хранилище данных на основе PostgreSQL
// для управления пользователями. Предоставляет методы создания, чтения,
// обновления и выборки учётных записей, а также передачу флага
// администратора в одной транзакции.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища. Уникальные индексы базы — фактическая гарантия
// уникальности email и кошелька; нарушения транслируются в эти ошибки.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrAdminNotFound  = errors.New("old admin not found")
	ErrEmailTaken     = errors.New("email already taken")
	ErrWalletTaken    = errors.New("wallet already taken")
	ErrWalletMismatch = errors.New("wallet address does not match")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}
