package httpmw

import (
	"context"
	"net/http"
	"strings"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/pkg/httputil"
)

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

type TokenVerifier interface {
	VerifyToken(token string) (domain.Identity, error)
}

// Auth требует валидный Bearer access token и кладёт identity в контекст.
func Auth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				httputil.Error(r.Context(), w, http.StatusUnauthorized, "Access token required", nil)
				return
			}
			id, err := v.VerifyToken(token)
			if err != nil {
				httputil.Fail(r.Context(), w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func BearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

func IdentityFromCtx(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(domain.Identity)
	return id, ok
}
