// Package repository реализует хранилище данных на основе PostgreSQL
// для пользователей и радиостанций. Уникальность имени станции обеспечивается
// ограничением на уровне базы, а не проверкой перед записью: конфликт при
// вставке — авторитетный сигнал «имя занято».
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNameTaken возвращается при попытке записать станцию под именем,
// которое уже принадлежит другому владельцу.
var ErrNameTaken = errors.New("station name already taken")

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями и станциями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
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
        WHERE table_name = 'stations'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table stations missing or query error: %w", err)
	}
	return nil
}
