package http

import (
	"net/http"
	"time"

	httpmw "github.com/cwrk-planet/chat-service/internal/transport/http/middleware"
	"github.com/cwrk-planet/chat-service/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Deps struct {
	Auth     AuthAPI
	Users    UsersAPI
	Groups   GroupsAPI
	Messages MessageSender
	History  HistoryAPI

	// WS: апгрейд /ws; сам проверяет токен.
	WS      http.Handler
	Metrics http.Handler

	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httputil.MiddlewareRequestID)
	r.Use(httputil.MiddlewareLogging)

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{httputil.HeaderRequestID},
		AllowCredentials: len(d.AllowedOrigins) > 0,
		MaxAge:           300,
	}))

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.OK(w, map[string]string{"status": "ok"})
	})
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}
	// ws живёт дольше любого request timeout, поэтому вне группы с Timeout/Compress
	if d.WS != nil {
		r.Method(http.MethodGet, "/ws", d.WS)
	}

	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Use(middleware.Timeout(timeout))

		ah := &AuthHandlers{Auth: d.Auth}
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", ah.Register)
			r.Post("/login", ah.Login)
			r.With(httpmw.Auth(d.Auth)).Get("/me", ah.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(httpmw.Auth(d.Auth))

			uh := &UserHandlers{Users: d.Users}
			r.Route("/users", func(r chi.Router) {
				r.Get("/", uh.List)
				r.Get("/search", uh.Search)
				r.Get("/{id}", uh.Get)
			})

			gh := &GroupHandlers{Groups: d.Groups}
			r.Route("/groups", func(r chi.Router) {
				r.Post("/", gh.Create)
				r.Get("/", gh.List)
				r.Get("/my", gh.ListMine)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", gh.Get)
					r.Post("/join", gh.Join)
					r.Post("/leave", gh.Leave)
					r.Post("/members", gh.AddMember)
				})
			})

			mh := &MessageHandlers{Sender: d.Messages, History: d.History}
			r.Route("/messages", func(r chi.Router) {
				r.Post("/", mh.Send)
				r.Post("/direct", mh.SendDirect)
				r.Post("/group", mh.SendGroup)
				r.Get("/direct/{userId}", mh.Direct)
				r.Get("/group/{groupId}", mh.Group)
				r.Get("/conversations", mh.Conversations)
				r.Get("/all", mh.All)
			})
			r.Get("/conversations/{id}/messages", mh.ConversationMessages)
		})
	})

	return r
}
