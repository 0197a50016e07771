package httputil

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey int

const (
	HeaderRequestID = "X-Request-ID"

	ctxKeyReqID ctxKey = iota
	// длиннее не принимаем: значение уходит в каждую строку лога
	maxRequestIDLen = 128
)

// MiddlewareRequestID берёт X-Request-ID клиента или генерирует новый и отдаёт его в ответе.
func MiddlewareRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderRequestID)
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, reqID)

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyReqID, reqID)))
	})
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKeyReqID).(string)
	return v, ok
}
