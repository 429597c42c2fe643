package httpserver

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"go-folio/internal/locale"
	"go-folio/internal/reqctx"
)

// localeCookieMaxAge 为语言偏好 cookie 的有效期（一年）。
const localeCookieMaxAge = 365 * 24 * 60 * 60

// requestID 沿用上游的 X-Request-ID，否则生成 UUID。
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(reqctx.WithRequestID(r.Context(), id)))
	})
}

// logRequests 记录状态码与耗时，并上报路由级指标。
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		route := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if s.metrics != nil {
			s.metrics.ObserveRequest(route, status, d)
		}
		slog.Info("HTTP 请求",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", d.Round(time.Microsecond).String(),
			"request_id", reqctx.RequestID(r.Context()),
		)
	})
}

// withLocale 校验路径中的语言前缀；非法时跳转到协商出的语言并保留原路径。
func (s *Server) withLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		param := chi.URLParam(r, "locale")
		loc, ok := locale.Parse(param)
		if !ok || string(loc) != param {
			s.redirectToLocale(w, r)
			return
		}
		if c, err := r.Cookie(locale.CookieName); err != nil || c.Value != string(loc) {
			http.SetCookie(w, &http.Cookie{
				Name:     locale.CookieName,
				Value:    string(loc),
				Path:     "/",
				MaxAge:   localeCookieMaxAge,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(reqctx.WithLocale(r.Context(), loc)))
	})
}

// withCatalog 为每个请求开启独立的目录作用域，请求结束即丢弃。
func (s *Server) withCatalog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(reqctx.WithCatalog(r.Context(), s.cat.Begin())))
	})
}

// negotiate 依次使用 cookie、Accept-Language 与配置的参考语言。
func (s *Server) negotiate(r *http.Request) locale.Locale {
	cookie := ""
	if c, err := r.Cookie(locale.CookieName); err == nil {
		cookie = c.Value
	}
	return locale.Negotiate(cookie, r.Header.Get("Accept-Language"), s.cat.Reference())
}

// redirectToLocale 将无语言前缀的路径 307 跳转到 /{locale}{path}。
func (s *Server) redirectToLocale(w http.ResponseWriter, r *http.Request) {
	target := "/" + string(s.negotiate(r))
	if p := r.URL.Path; p != "" && p != "/" {
		target += "/" + strings.TrimPrefix(p, "/")
	}
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

// pathLocale 返回路径第一段对应的语言。
func pathLocale(path string) (locale.Locale, bool) {
	seg := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
	loc, ok := locale.Parse(seg)
	return loc, ok && string(loc) == seg
}
