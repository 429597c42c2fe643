// 包 httpserver 提供站点的 HTTP 接口：
// - 所有内容路由都带语言前缀（/{locale}/...），缺少合法前缀时 307 跳转到协商出的语言
// - 同一路由按 Accept 返回 JSON 或 HTML
// - 每个请求在 context 中持有独立的目录作用域
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"go-folio/internal/audit"
	"go-folio/internal/catalog"
	"go-folio/internal/config"
	"go-folio/internal/feed"
	"go-folio/internal/logx"
	"go-folio/internal/metrics"
	"go-folio/internal/model"
	"go-folio/internal/pages"
	"go-folio/internal/render"
)

// recentLimit 为首页每类展示的条目数。
const recentLimit = 3

type Server struct {
	cfg     *config.Config
	cat     *catalog.Catalog
	audit   *audit.Auditor
	render  *render.Renderer
	feed    *feed.Builder
	metrics *metrics.Metrics
	site    pages.Site
	router  chi.Router
}

// New 组装路由；m 为 nil 时不暴露 /metrics。
func New(cfg *config.Config, cat *catalog.Catalog, aud *audit.Auditor, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:     cfg,
		cat:     cat,
		audit:   aud,
		render:  render.New(cfg.Site.BaseURL),
		metrics: m,
		site:    pages.Site{
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			BaseURL:     cfg.Site.BaseURL,
			Reference:   cat.Reference(),
		},
	}
	s.feed = feed.New(feed.Site{
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		BaseURL:     cfg.Site.BaseURL,
		Author:      cfg.Site.Author,
		Email:       cfg.Site.Email,
	}, cat.Reference(), cat)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	}).Handler)

	r.NotFound(s.notFound)
	r.Get("/", s.redirectToLocale)
	r.Get("/health", s.health)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	r.Get("/rss.xml", s.rss)
	r.Get("/sitemap.xml", s.sitemap)

	r.Route("/{locale}", func(r chi.Router) {
		r.Use(s.withLocale)
		r.Use(s.withCatalog)
		r.Get("/", s.home)
		r.Get("/translation-status", s.translationStatus)
		for _, ct := range model.ContentTypes() {
			r.Get("/"+string(ct), s.list(ct))
			r.Get("/"+string(ct)+"/{slug}", s.detail(ct))
		}
	})
	return r
}

// Handler 返回完整的路由处理器（测试中配合 httptest 使用）。
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe 启动服务，ctx 取消后优雅关闭。
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logx.Infof("HTTP 服务启动：%s", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Addr, err)
	case <-ctx.Done():
	}
	logx.Infof("正在关闭 HTTP 服务…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
