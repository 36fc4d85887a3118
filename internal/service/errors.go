package service

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrPersistence        = errors.New("persistence failure")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("admin access required")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError 欄位 -> 錯誤訊息
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = message
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil 沒有錯誤時回傳 nil, 避免回傳 typed nil
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidationError 取出 ValidationError
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func persistenceErr(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
