// Package apperror описывает классы ошибок бизнес-операций и их отображение в HTTP-статусы.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Базовые классы ошибок. Проверяются через errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("access denied")
	ErrUnauthorized = errors.New("authentication required")
	ErrConflict     = errors.New("conflict")
	ErrPersistence  = errors.New("persistence failure")
	ErrNotification = errors.New("notification failure")
)

// Error содержит класс ошибки, сообщение для клиента и, для ошибок валидации, имя поля.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"-"`
	kind    error
	cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is сопоставляет ошибку с её классом.
func (e *Error) Is(target error) bool {
	return target == e.kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Validation создаёт ошибку валидации с указанием поля и причины.
func Validation(field, reason string) *Error {
	return &Error{
		Code:    "VALIDATION_ERROR",
		Message: reason,
		Field:   field,
		Status:  http.StatusBadRequest,
		kind:    ErrValidation,
	}
}

// NotFound создаёт ошибку отсутствия ресурса.
func NotFound(resource string, id int64) *Error {
	return &Error{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %d not found", resource, id),
		Status:  http.StatusNotFound,
		kind:    ErrNotFound,
	}
}

// Forbidden создаёт ошибку авторизации: действие над чужим ресурсом.
func Forbidden(message string) *Error {
	return &Error{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		kind:    ErrForbidden,
	}
}

// Unauthorized создаёт ошибку отсутствия или неактивности пользователя.
func Unauthorized(message string) *Error {
	return &Error{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		kind:    ErrUnauthorized,
	}
}

// Conflict создаёт ошибку конфликта состояния, например удаление поля с открытыми заказами.
func Conflict(message string) *Error {
	return &Error{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		kind:    ErrConflict,
	}
}

// Persistence оборачивает сбой хранилища. Клиент видит только общее сообщение.
func Persistence(err error) *Error {
	return &Error{
		Code:    "INTERNAL_ERROR",
		Message: "something went wrong",
		Status:  http.StatusInternalServerError,
		kind:    ErrPersistence,
		cause:   err,
	}
}

// Notification оборачивает сбой отправки уведомления.
func Notification(err error) *Error {
	return &Error{
		Code:    "NOTIFICATION_FAILED",
		Message: "notification could not be delivered",
		Status:  http.StatusOK,
		kind:    ErrNotification,
		cause:   err,
	}
}

// As возвращает ошибку приложения. Любая другая ошибка считается сбоем хранилища.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Persistence(err)
}

// HTTPStatus возвращает HTTP-статус для ошибки.
func HTTPStatus(err error) int {
	return As(err).Status
}
