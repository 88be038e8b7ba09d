package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	ErrAppNotFound = fmt.Errorf("app %w", ErrNotFound)
)

// ControlPlaneError 保留控制面返回的状态码和原因，
// 只有主资源的 upsert / delete 会把它透传给调用方。
type ControlPlaneError struct {
	Code   int
	Reason string
}

func (e *ControlPlaneError) Error() string {
	return fmt.Sprintf("control plane: %s (status %d)", e.Reason, e.Code)
}
