package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	g "maragu.dev/gomponents"

	"go-folio/internal/catalog"
	"go-folio/internal/filter"
	"go-folio/internal/locale"
	"go-folio/internal/logx"
	"go-folio/internal/model"
	"go-folio/internal/pages"
	"go-folio/internal/reqctx"
	"go-folio/internal/render"
)

// wantsJSON 判断客户端是否请求 JSON（Accept 头或 ?format=json）。
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") || r.URL.Query().Get("format") == "json"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logx.Warnf("写入 JSON 响应失败：%v", err)
	}
}

func writeHTML(w http.ResponseWriter, status int, n g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := n.Render(w); err != nil {
		logx.Warnf("渲染 HTML 失败：%v", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// notFound 对带合法语言前缀的路径返回本地化 404，其余跳转到语言前缀路径。
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	loc, ok := pathLocale(r.URL.Path)
	if !ok {
		s.redirectToLocale(w, r)
		return
	}
	s.renderNotFound(w, r, loc)
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request, loc locale.Locale) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	writeHTML(w, http.StatusNotFound, pages.NotFoundPage(s.site, loc))
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loc := reqctx.Locale(ctx, s.cat.Reference())
	req := reqctx.Catalog(ctx, s.cat)
	posts := req.List(ctx, model.Posts, loc, recentLimit)
	projects := req.List(ctx, model.Projects, loc, recentLimit)
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"locale": loc, "posts": posts, "projects": projects})
		return
	}
	writeHTML(w, http.StatusOK, pages.HomePage(s.site, loc, posts, projects))
}

type listResponse struct {
	Locale   locale.Locale     `json:"locale"`
	Type     model.ContentType `json:"type"`
	Fallback bool              `json:"fallback"`
	Entries  []model.Entry     `json:"entries"`
	Page     filter.Page       `json:"page"`
	Tags     []string          `json:"tags"`
	Authors  []string          `json:"authors"`
}

// list 处理列表：目录列出→筛选排序→分页。
func (s *Server) list(ct model.ContentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		loc := reqctx.Locale(ctx, s.cat.Reference())
		v := r.URL.Query()
		all := reqctx.Catalog(ctx, s.cat).List(ctx, ct, loc, filter.Int(v, "limit", 0))
		items := filter.Apply(all, filter.FromValues(v), loc)
		page := filter.Paginate(len(items), filter.Int(v, "page", 1), filter.Int(v, "per_page", filter.DefaultPerPage))
		shown := filter.Slice(items, page)
		if shown == nil {
			shown = []model.Entry{}
		}
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, listResponse{
				Locale:   loc,
				Type:     ct,
				Fallback: len(all) > 0 && all[0].Locale != loc,
				Entries:  shown,
				Page:     page,
				Tags:     filter.AllTags(all),
				Authors:  filter.AllAuthors(all),
			})
			return
		}
		writeHTML(w, http.StatusOK, pages.ListPage(pages.ListData{
			Site:    s.site,
			Locale:  loc,
			Type:    ct,
			Entries: shown,
			Page:    page,
			Query:   v,
			Tags:    filter.AllTags(all),
			Authors: filter.AllAuthors(all),
		}))
	}
}

type detailResponse struct {
	*model.Document
	HTML      string           `json:"html"`
	TOC       []render.Heading `json:"toc"`
	Excerpt   string           `json:"excerpt"`
	Fallback  bool             `json:"fallback"`
	Available []locale.Locale  `json:"availableLocales"`
}

// detail 处理单个条目；未找到时返回 404，不视为服务端错误。
func (s *Server) detail(ct model.ContentType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		loc := reqctx.Locale(ctx, s.cat.Reference())
		slug := chi.URLParam(r, "slug")
		doc, err := reqctx.Catalog(ctx, s.cat).GetBySlug(ctx, ct, loc, slug)
		if errors.Is(err, catalog.ErrNotFound) {
			s.renderNotFound(w, r, loc)
			return
		}
		if err != nil {
			logx.Errorf("获取条目失败：%s/%s/%s 错误=%v", ct, loc, slug, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		res, err := s.render.Render(doc.Body)
		if err != nil {
			logx.Errorf("渲染正文失败：%s/%s/%s 错误=%v", ct, doc.Locale, slug, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		available := s.audit.AvailableLocales(ctx, ct, slug)
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, detailResponse{
				Document:  doc,
				HTML:      res.HTML,
				TOC:       res.TOC,
				Excerpt:   res.Excerpt,
				Fallback:  doc.Locale != loc,
				Available: available,
			})
			return
		}
		writeHTML(w, http.StatusOK, pages.PostPage(pages.PostData{
			Site:      s.site,
			Locale:    loc,
			Type:      ct,
			Doc:       doc,
			Rendered:  res,
			Available: available,
		}))
	}
}

func (s *Server) translationStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rows := s.audit.Audit(ctx)
	if s.metrics != nil {
		s.metrics.SetCoverage(rows)
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, rows)
		return
	}
	writeHTML(w, http.StatusOK, pages.StatusPage(s.site, reqctx.Locale(ctx, s.cat.Reference()), rows))
}

func (s *Server) rss(w http.ResponseWriter, r *http.Request) {
	out, err := s.feed.RSS(r.Context())
	if err != nil {
		logx.Errorf("生成 RSS 失败：%v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, s-maxage=3600, stale-while-revalidate=86400")
	_, _ = w.Write([]byte(out))
}

func (s *Server) sitemap(w http.ResponseWriter, r *http.Request) {
	out, err := s.feed.Sitemap(r.Context())
	if err != nil {
		logx.Errorf("生成 sitemap 失败：%v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}
