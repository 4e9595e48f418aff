package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrInvalidInput некорректные входные данные, запись не выполнялась
	ErrInvalidInput = errors.New("некорректные данные")
	// ErrNotFound запрошенная сущность не найдена
	ErrNotFound = errors.New("не найдено")
	// ErrInternal ошибка хранилища или инфраструктуры
	ErrInternal = errors.New("внутренняя ошибка")
)

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// notFoundOr переводит gorm.ErrRecordNotFound в ErrNotFound, остальное в ErrInternal
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return internal(err, what)
}

func internal(err error, what string) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, what, err)
}
