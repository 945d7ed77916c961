package router

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/todo"
	todorepo "github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/todo/repo"
	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/pkg/utilities"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			// ensure status is set
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
				"request_id", w.Header().Get("X-Request-Id"),
			)
		})
	}
}

// RequestIDMiddleware tags every response with an X-Request-Id header,
// generated with the snowflake helper (KSUID fallback inside).
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = utilities.NewSnowflakeID()
			}
			w.Header().Set("X-Request-Id", id)
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
// It is intentionally simple and conservative so it works with most setups.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Clickjacking protection
			w.Header().Set("X-Frame-Options", "DENY")

			// Referrer policy
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")

			// allow none for camera, microphone, geolocation by default
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}

			// HSTS only over TLS
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
// This keeps the project stdlib-only while keeping wiring simple and testable.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB, tokens *auth.TokenService) http.Handler {
	mux := http.NewServeMux()

	// auth routes
	userSvc := user.NewUserService(userrepo.NewUserRepo(db), nil)
	userHandler := user.NewHandler(userSvc, tokens, logger)
	authRequired := auth.Middleware(tokens, logger)

	mux.HandleFunc("POST /api/auth/register", userHandler.Register)
	mux.HandleFunc("POST /api/auth/login", userHandler.Login)
	mux.Handle("GET /api/auth/profile", authRequired(http.HandlerFunc(userHandler.Profile)))

	// todo routes, all behind auth
	todoSvc := todo.NewTodoService(todorepo.NewTodoRepo(db))
	todoHandler := todo.NewHandler(todoSvc, logger)

	mux.Handle("GET /api/todos", authRequired(http.HandlerFunc(todoHandler.List)))
	mux.Handle("POST /api/todos", authRequired(http.HandlerFunc(todoHandler.Create)))
	mux.Handle("GET /api/todos/{id}", authRequired(http.HandlerFunc(todoHandler.Get)))
	mux.Handle("PUT /api/todos/{id}", authRequired(http.HandlerFunc(todoHandler.Update)))
	mux.Handle("DELETE /api/todos/{id}", authRequired(http.HandlerFunc(todoHandler.Delete)))

	// system routes
	mux.HandleFunc("GET /health", HealthHandler())
	mux.HandleFunc("GET /{$}", IndexHandler)

	// structured fallback for unmatched routes
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		utilities.WriteJSON(w, http.StatusNotFound, utilities.ErrorBody{
			Error:  "Route not found",
			Code:   "ROUTE_NOT_FOUND",
			Method: r.Method,
			Path:   r.URL.Path,
		})
	})

	// wrap with request-id, security headers, then logging
	handler := LoggingMiddleware(logger)(SecurityHeadersMiddleware()(RequestIDMiddleware()(mux)))
	return handler
}
