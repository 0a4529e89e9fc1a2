package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/LRM-SchedulingEngine/internal/api/handlers"
)

// Заголовки, которые проставляет внешний API gateway после аутентификации.
// Движок доверяет им и не владеет ни пользователями, ни ролями.
const (
	HeaderUserID     = "X-User-ID"
	HeaderCanApprove = "X-Can-Approve"
	HeaderIsStaff    = "X-Is-Staff"
)

type contextKey string

const (
	userIDKey     contextKey = "userID"
	canApproveKey contextKey = "canApprove"
	isStaffKey    contextKey = "isStaff"
)

// Auth извлекает идентификацию актора из заголовков gateway-я и кладет
// ее в контекст запроса. Запросы без X-User-ID отклоняются.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "требуется заголовок X-User-ID")
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, "некорректный заголовок X-User-ID")
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, userIDKey, userID)
		ctx = context.WithValue(ctx, canApproveKey, r.Header.Get(HeaderCanApprove) == "true")
		ctx = context.WithValue(ctx, isStaffKey, r.Header.Get(HeaderIsStaff) == "true")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID возвращает ID актора из контекста запроса
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

// CanApprove возвращает capability-флаг подтверждения бронирований
func CanApprove(ctx context.Context) bool {
	v, _ := ctx.Value(canApproveKey).(bool)
	return v
}

// IsStaff возвращает capability-флаг сотрудника
func IsStaff(ctx context.Context) bool {
	v, _ := ctx.Value(isStaffKey).(bool)
	return v
}
