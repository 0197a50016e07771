package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository"
	httpmw "github.com/cwrk-planet/chat-service/internal/transport/http/middleware"
	"github.com/cwrk-planet/chat-service/pkg/httputil"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.Error(r.Context(), w, http.StatusBadRequest, "Invalid JSON", nil)
		return false
	}
	return true
}

// idParam: положительный int64 из пути; иначе 400.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		httputil.Error(r.Context(), w, http.StatusBadRequest, "Invalid "+name, nil)
		return 0, false
	}
	return id, true
}

func identity(r *http.Request) domain.Identity {
	id, _ := httpmw.IdentityFromCtx(r.Context())
	return id
}

// pageParams читает ?limit= и ?before=; мусор в limit даёт дефолт.
func pageParams(r *http.Request) repository.Page {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	return repository.Page{Limit: limit, Before: q.Get("before")}.Normalized()
}
