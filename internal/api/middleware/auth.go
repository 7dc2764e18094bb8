// Package middleware HTTP middleware сервиса: идентификация пользователя и метрики.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"

	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	RoleClient = "client"
	RoleStaff  = "staff"
)

// Auth читает идентификатор пользователя и его роль из заголовков, выставленных шлюзом.
// Без X-User-ID запрос проходит дальше анонимно; обработчики сами решают, нужен ли пользователь.
// Роль по умолчанию client; неизвестная роль отклоняется.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		role := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole)))
		switch role {
		case "":
			role = RoleClient
		case RoleClient, RoleStaff:
		default:
			http.Error(w, `{"error":"некорректная роль пользователя"}`, http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetUserRole возвращает роль пользователя из контекста (client по умолчанию)
func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(userRoleKey).(string); ok && role != "" {
		return role
	}
	return RoleClient
}
