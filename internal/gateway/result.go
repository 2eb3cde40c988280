package gateway

import (
	"errors"
	"fmt"
)

// Kind - классификация ошибки шлюза
type Kind int

const (
	// KindConnection - транспортная ошибка: сеть, таймаут, битый JSON
	KindConnection Kind = iota + 1
	// KindApplication - корректный ответ сервера с success:false
	KindApplication
)

// Error - ошибка вызова backend'а. Kind позволяет вызывающему коду
// различать обрыв связи и отказ сервера без разбора строк.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// connectionErr оборачивает транспортную ошибку
func connectionErr(cause error) *Error {
	return &Error{
		Kind:    KindConnection,
		Message: "connection error",
		cause:   cause,
	}
}

// applicationErr строит ошибку из конверта {success:false, error}
func applicationErr(message string) *Error {
	return &Error{
		Kind:    KindApplication,
		Message: message,
	}
}

// IsConnection сообщает, была ли ошибка транспортной
func IsConnection(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Kind == KindConnection
}

// IsApplication сообщает, отказал ли сервер осмысленным ответом
func IsApplication(err error) bool {
	var gwErr *Error
	return errors.As(err, &gwErr) && gwErr.Kind == KindApplication
}

// Reason возвращает серверное сообщение об ошибке или fallback,
// если сервер его не прислал либо ошибка транспортная
func Reason(err error, fallback string) string {
	var gwErr *Error
	if errors.As(err, &gwErr) && gwErr.Kind == KindApplication && gwErr.Message != "" {
		return gwErr.Message
	}

	return fallback
}
