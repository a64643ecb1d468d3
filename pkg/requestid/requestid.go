// Package requestid идентификатор запроса в контексте и заголовках
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header заголовок с идентификатором запроса
const Header = "X-Request-ID"

type ctxKey struct{}

// New генерирует новый идентификатор
func New() string {
	return uuid.NewString()
}

// NewContext кладёт идентификатор в контекст
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext достаёт идентификатор из контекста
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Ensure возвращает идентификатор из контекста или новый
func Ensure(ctx context.Context) string {
	if id, ok := FromContext(ctx); ok {
		return id
	}
	return New()
}
